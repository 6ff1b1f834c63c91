package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"loadctl-go/services/hal"
)

// Scenario is a timed script of inputs, e.g.
//
//	steps:
//	  - after: 2s
//	    volts: 4.8
//	  - after: 1s
//	    external_power: true
//	  - keys: "*2 5$"
type Scenario struct {
	Steps []Step `yaml:"steps"`
}

// Step waits After, then applies whichever inputs are set.
type Step struct {
	After         time.Duration `yaml:"after"`
	Volts         *float32      `yaml:"volts"`
	SOC           *float32      `yaml:"soc"`
	ExternalPower *bool         `yaml:"external_power"`
	Keys          string        `yaml:"keys"`
}

// inputs is what a scenario drives.
type inputs interface {
	SetVolts(v float32)
	SetSOC(pct float32)
	SetExternalPower(on bool)
	Press(keys string) error
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario yaml: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) Validate() error {
	if len(sc.Steps) == 0 {
		return fmt.Errorf("scenario has no steps")
	}
	for i, st := range sc.Steps {
		if st.After < 0 {
			return fmt.Errorf("step %d: negative after", i)
		}
		if st.Volts != nil && st.SOC != nil {
			return fmt.Errorf("step %d: set volts or soc, not both", i)
		}
		for _, r := range st.Keys {
			switch {
			case r == ' ', r >= '0' && r <= '9', r == '*', r == '#', r == '$':
			default:
				return fmt.Errorf("step %d: invalid key %q", i, r)
			}
		}
	}
	return nil
}

// Play applies the steps in order. wait defaults to hal.Sleep.
func (sc *Scenario) Play(ctx context.Context, in inputs, wait hal.Wait) error {
	if wait == nil {
		wait = hal.Sleep
	}
	for i, st := range sc.Steps {
		if !wait(ctx, st.After) {
			return ctx.Err()
		}
		if st.Volts != nil {
			in.SetVolts(*st.Volts)
		}
		if st.SOC != nil {
			in.SetSOC(*st.SOC)
		}
		if st.ExternalPower != nil {
			in.SetExternalPower(*st.ExternalPower)
		}
		if st.Keys != "" {
			if err := in.Press(st.Keys); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		}
	}
	return nil
}
