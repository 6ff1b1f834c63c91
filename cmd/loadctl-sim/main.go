// Package main runs the load controller against simulated hardware.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"loadctl-go/services/config"
)

const defaultBoard = "sim"

var (
	boardName    string
	envFile      string
	scenarioPath string
	initVolts    float64
	initExt      bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "loadctl-sim",
		Short:        "Battery load controller simulator",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runSim,
	}

	rootCmd.Flags().StringVar(&boardName, "board", defaultBoard, "board profile name or path to a YAML profile")
	rootCmd.Flags().StringVar(&envFile, "env", ".env", "dotenv file with LOADCTL_* overrides")
	rootCmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario to play")
	rootCmd.Flags().Float64Var(&initVolts, "volts", 12.0, "initial battery voltage")
	rootCmd.Flags().BoolVar(&initExt, "ext", false, "external power present at start")

	return rootCmd
}

func runSim(cmd *cobra.Command, _ []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Warning: loading %s: %v", envFile, err)
		}
	}

	board, err := resolveBoard(boardName)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(&board, os.LookupEnv); err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}

	var sc *Scenario
	if scenarioPath != "" {
		if sc, err = LoadScenario(scenarioPath); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sim, err := newSimulator(board)
	if err != nil {
		return err
	}
	sim.SetVolts(float32(initVolts))
	sim.SetExternalPower(initExt)

	if sc != nil {
		go func() {
			if err := sc.Play(ctx, sim, nil); err != nil && ctx.Err() == nil {
				log.Printf("scenario: %v", err)
			}
		}()
	}
	return sim.Run(ctx, cancel)
}

func resolveBoard(name string) (config.Board, error) {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return config.LoadFile(name)
	}
	return config.Lookup(name)
}
