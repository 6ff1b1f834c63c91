package config

import (
	"strconv"

	"loadctl-go/bus"
	"loadctl-go/errcode"
	"loadctl-go/services/hal"
	"loadctl-go/types"
)

const configPrefix = "config"

// Board is one hardware profile.
type Board struct {
	Name         string      `yaml:"name"`
	MaxVoltage   float32     `yaml:"max_voltage"`
	SOCLimit     uint8       `yaml:"soc_limit"`
	PromptCycles int         `yaml:"prompt_cycles"`
	LCDAddr      uint8       `yaml:"lcd_addr"`
	ADCFullScale uint16      `yaml:"adc_full_scale"`
	Pins         hal.PinPlan `yaml:"pins"`
}

// BoardLookup allows overriding how profiles are resolved.
var BoardLookup = func(name string) (Board, bool) {
	b, ok := embeddedBoards[name]
	return b, ok
}

// Lookup resolves and validates a named profile.
func Lookup(name string) (Board, error) {
	b, ok := BoardLookup(name)
	if !ok {
		return Board{}, errcode.Wrap(errcode.UnknownBoard, "config.lookup", name, nil)
	}
	return b, b.Validate()
}

// Validate checks ranges the firmware relies on.
func (b Board) Validate() error {
	switch {
	case b.MaxVoltage <= 0:
		return errcode.Wrap(errcode.InvalidParams, "config.validate", "max_voltage must be > 0", nil)
	case b.SOCLimit > 99:
		return errcode.Wrap(errcode.InvalidParams, "config.validate", "soc_limit must be two digits", nil)
	case b.PromptCycles <= 0:
		return errcode.Wrap(errcode.InvalidParams, "config.validate", "prompt_cycles must be > 0", nil)
	case b.LCDAddr < 0x03 || b.LCDAddr > 0x77:
		return errcode.Wrap(errcode.InvalidParams, "config.validate", "lcd_addr out of range", nil)
	case b.ADCFullScale == 0:
		return errcode.Wrap(errcode.InvalidParams, "config.validate", "adc_full_scale must be > 0", nil)
	}
	return nil
}

// Thresholds builds the power-up policy for this board.
func (b Board) Thresholds() types.Thresholds {
	t := types.DefaultThresholds()
	t.SOCLimit = b.SOCLimit
	t.MaxVoltage = b.MaxVoltage
	return t
}

// Environment overrides.
const (
	EnvSOCLimit     = "LOADCTL_SOC_LIMIT"
	EnvMaxVoltage   = "LOADCTL_MAX_VOLTAGE"
	EnvPromptCycles = "LOADCTL_PROMPT_CYCLES"
	EnvLCDAddr      = "LOADCTL_LCD_ADDR"
)

// ApplyEnv overrides fields from lookup (normally os.LookupEnv) and
// revalidates. Unset variables leave the field alone.
func ApplyEnv(b *Board, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvSOCLimit); ok {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return errcode.Wrap(errcode.InvalidParams, "config.env", EnvSOCLimit, err)
		}
		b.SOCLimit = uint8(n)
	}
	if v, ok := lookup(EnvMaxVoltage); ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return errcode.Wrap(errcode.InvalidParams, "config.env", EnvMaxVoltage, err)
		}
		b.MaxVoltage = float32(f)
	}
	if v, ok := lookup(EnvPromptCycles); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errcode.Wrap(errcode.InvalidParams, "config.env", EnvPromptCycles, err)
		}
		b.PromptCycles = n
	}
	if v, ok := lookup(EnvLCDAddr); ok {
		n, err := strconv.ParseUint(v, 0, 8) // accepts 0x27
		if err != nil {
			return errcode.Wrap(errcode.InvalidParams, "config.env", EnvLCDAddr, err)
		}
		b.LCDAddr = uint8(n)
	}
	return b.Validate()
}

// Publish announces the active profile as a retained message.
func Publish(conn *bus.Connection, b Board) {
	conn.Publish(conn.NewMessage(bus.T(configPrefix, "board"), b, true))
	println("[main] board", b.Name)
}
