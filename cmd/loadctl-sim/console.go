package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"

	"loadctl-go/types"
)

var (
	lcdStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#5F875F")).
			Foreground(lipgloss.Color("#D7FFAF")).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	onStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F"))
	offStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// renderLCD draws the character display as a bordered box.
func renderLCD(lines [types.DisplayRows]string) string {
	return lcdStyle.Render(strings.Join(lines[:], "\n"))
}

func renderFlag(name string, on bool) string {
	if on {
		return onStyle.Render(name + ":on")
	}
	return offStyle.Render(name + ":off")
}

// readlineWriter wraps log output to work with readline
type readlineWriter struct {
	rl *readline.Instance
}

func (w *readlineWriter) Write(p []byte) (n int, err error) {
	if w.rl != nil {
		w.rl.Clean()
	}
	n, err = os.Stderr.Write(p)
	if w.rl != nil {
		w.rl.Refresh()
	}
	return n, err
}

func historyFilePath() string {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(cacheDir, "loadctl")
	_ = os.MkdirAll(dir, 0750)
	return filepath.Join(dir, "sim_history")
}

// console runs the readline prompt until quit, EOF, Ctrl+C or ctx ends.
func console(ctx context.Context, cancel context.CancelFunc, sim *simulator) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "loadctl> ",
		HistoryFile: historyFilePath(),
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	w := &readlineWriter{rl: rl}
	log.SetOutput(w)
	defer func() {
		log.SetOutput(os.Stderr)
		_ = rl.Close()
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				cancel()
				return
			}
			if err != nil {
				return
			}
			select {
			case lines <- strings.TrimSpace(line):
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Println("simulator started (type 'help' for commands)")
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				cancel()
				return nil
			}
			out, quit := handleCommand(sim, line)
			if out != "" {
				log.Println(out)
			}
			if quit {
				cancel()
				return nil
			}
		}
	}
}

const helpText = `commands:
  0-9 * #        press keys (several at once: "*150")
  hold           hold the function key ($)
  v <volts>      set battery voltage
  soc <percent>  set battery voltage from a state of charge
  ext on|off     external power
  status         show outputs, countdown and settings
  quit           exit`

// handleCommand executes one console line and returns text to print.
func handleCommand(sim *simulator, line string) (string, bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "", false
	}
	switch parts[0] {
	case "quit", "exit":
		return "", true
	case "help", "?":
		return helpText, false
	case "hold":
		if err := sim.Press("$"); err != nil {
			return err.Error(), false
		}
		return "", false
	case "status":
		return sim.status.String(), false
	case "v", "soc":
		if len(parts) != 2 {
			return "usage: " + parts[0] + " <number>", false
		}
		f, err := strconv.ParseFloat(parts[1], 32)
		if err != nil || f < 0 {
			return "invalid number: " + parts[1], false
		}
		if parts[0] == "v" {
			sim.SetVolts(float32(f))
		} else {
			sim.SetSOC(float32(f))
		}
		return "", false
	case "ext":
		if len(parts) != 2 || (parts[1] != "on" && parts[1] != "off") {
			return "usage: ext on|off", false
		}
		sim.SetExternalPower(parts[1] == "on")
		return "", false
	}
	if err := sim.Press(parts[0]); err != nil {
		return fmt.Sprintf("Unknown command: %s (try 'help')", parts[0]), false
	}
	return "", false
}
