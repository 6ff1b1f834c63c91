// drivers/keypad/keypad.go
package keypad

import (
	"context"
	"time"

	"loadctl-go/services/hal"
	"loadctl-go/types"
)

const (
	DriveLines = 4
	SenseLines = 3
)

// layout[drive][sense]. The function key position decodes to '*' or '$'.
var layout = [DriveLines][SenseLines]types.Key{
	{'1', '2', '3'},
	{'4', '5', '6'},
	{'7', '8', '9'},
	{types.KeyFunc, '0', types.KeyCancel},
}

const funcDrive, funcSense = 3, 0

// Config holds the scan timing.
type Config struct {
	Settle      time.Duration // after driving a line, before sampling
	CyclePause  time.Duration // after each full pass over the drive lines
	HoldPoll    time.Duration // interval between hold samples
	HoldPolls   int           // samples for a press to count as held
	ReleasePoll time.Duration // interval while waiting for release
	Sleep       func(time.Duration)
}

func DefaultConfig() Config {
	return Config{
		Settle:      10 * time.Microsecond,
		CyclePause:  100 * time.Microsecond,
		HoldPoll:    100 * time.Microsecond,
		HoldPolls:   600,
		ReleasePoll: 100 * time.Microsecond,
	}
}

// Scanner polls a matrix keypad: drive lines are outputs (active high),
// sense lines are pulled-down inputs.
type Scanner struct {
	drive [DriveLines]hal.GPIOPin
	sense [SenseLines]hal.GPIOPin
	cfg   Config
}

func NewScanner(drive [DriveLines]hal.GPIOPin, sense [SenseLines]hal.GPIOPin, cfg Config) *Scanner {
	if cfg.HoldPolls <= 0 {
		cfg.HoldPolls = DefaultConfig().HoldPolls
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	for _, p := range drive {
		p.Set(false)
	}
	println("[keypad] ready, hold polls", cfg.HoldPolls)
	return &Scanner{drive: drive, sense: sense, cfg: cfg}
}

// Scan polls up to maxCycles full passes and returns the first key found.
// maxCycles < 0 waits until a key or ctx cancellation; 0 returns KeyNone.
// Keys are reported once per physical press: the scanner waits for release
// before returning (a short function press is reported on release, a held
// one after the hold window and then release).
func (s *Scanner) Scan(ctx context.Context, maxCycles int) types.Key {
	for n := 0; maxCycles < 0 || n < maxCycles; n++ {
		if ctx.Err() != nil {
			return types.KeyNone
		}
		for d := range s.drive {
			if k := s.scanLine(ctx, d); k != types.KeyNone {
				return k
			}
		}
		s.cfg.Sleep(s.cfg.CyclePause)
	}
	return types.KeyNone
}

func (s *Scanner) scanLine(ctx context.Context, d int) types.Key {
	line := s.drive[d]
	line.Set(true)
	defer line.Set(false)
	s.cfg.Sleep(s.cfg.Settle)

	for i, in := range s.sense {
		if !in.Get() {
			continue
		}
		if d == funcDrive && i == funcSense {
			return s.funcKey(ctx, in)
		}
		s.waitRelease(ctx, in)
		return layout[d][i]
	}
	return types.KeyNone
}

func (s *Scanner) funcKey(ctx context.Context, in hal.GPIOPin) types.Key {
	held := 0
	for held < s.cfg.HoldPolls && in.Get() {
		s.cfg.Sleep(s.cfg.HoldPoll)
		held++
	}
	if held < s.cfg.HoldPolls {
		return types.KeyFunc
	}
	s.waitRelease(ctx, in)
	return types.KeyHold
}

func (s *Scanner) waitRelease(ctx context.Context, in hal.GPIOPin) {
	for in.Get() {
		if ctx.Err() != nil {
			return
		}
		s.cfg.Sleep(s.cfg.ReleasePoll)
	}
}
