// services/menu/menu.go
package menu

import (
	"context"
	"time"

	"loadctl-go/bus"
	"loadctl-go/errcode"
	"loadctl-go/services/hal"
	"loadctl-go/types"
	"loadctl-go/x/conv"
)

// KeySource yields decoded key events. maxCycles < 0 waits indefinitely.
type KeySource interface {
	Scan(ctx context.Context, maxCycles int) types.Key
}

const (
	socDigits       = 2
	countdownDigits = 3
	blankRow        = "                "
)

// Dwell holds menu screen timings.
type Dwell struct {
	Menu time.Duration // option list before the selection prompt
	Echo time.Duration // after echoing a choice or committing a value
}

func DefaultDwell() Dwell {
	return Dwell{Menu: 300 * time.Millisecond, Echo: 100 * time.Millisecond}
}

// Menu is the keypad-driven settings UI. It writes only System.Limits.SOCLimit
// and starts the countdown.
type Menu struct {
	keys  KeySource
	lcd   types.Display
	conn  *bus.Connection
	wait  hal.Wait
	dwell Dwell
}

// New builds a menu. conn may be nil; wait defaults to hal.Sleep.
func New(keys KeySource, lcd types.Display, conn *bus.Connection, wait hal.Wait, dwell Dwell) *Menu {
	if wait == nil {
		wait = hal.Sleep
	}
	return &Menu{keys: keys, lcd: lcd, conn: conn, wait: wait, dwell: dwell}
}

// Run shows the option list and runs the chosen flow. It returns when the
// flow commits, the user cancels with '#', or ctx ends.
func (m *Menu) Run(ctx context.Context, sys *types.System) {
	m.lcd.Clear()
	m.lcd.WriteTextAt(0, 0, "1. SET SOC LIMIT")
	m.lcd.WriteTextAt(0, 1, "2. SET TIMER (m)")
	if !m.wait(ctx, m.dwell.Menu) {
		return
	}
	m.lcd.Clear()
	m.lcd.WriteTextAt(0, 0, "PRESS # > CANCEL")

	for {
		switch k := m.keys.Scan(ctx, -1); k {
		case types.KeyNone, types.KeyCancel:
			return
		case '1':
			m.lcd.WriteTextAt(7, 1, "1")
			if m.wait(ctx, m.dwell.Echo) {
				m.SetSOCLimit(ctx, sys)
			}
			return
		case '2':
			m.lcd.WriteTextAt(7, 1, "2")
			if m.wait(ctx, m.dwell.Echo) {
				m.SetCountdown(ctx, sys)
			}
			return
		}
	}
}

// SetSOCLimit reads two digits and stores them as the SOC limit. A first
// digit below 5 is ignored, as are '*' and '$'. It reports whether a value
// was committed.
func (m *Menu) SetSOCLimit(ctx context.Context, sys *types.System) bool {
	m.lcd.Clear()
	m.lcd.WriteTextAt(0, 0, "SOC LIMIT VALUE:")

	var digits [socDigits]byte
	n := 0
	for n < socDigits {
		k := m.keys.Scan(ctx, -1)
		switch {
		case k == types.KeyNone, k == types.KeyCancel:
			return false
		case !k.IsDigit():
			continue
		case n == 0 && k.Digit() < 5:
			continue
		}
		digits[n] = byte(k)
		n++

		m.lcd.WriteTextAt(0, 1, blankRow)
		m.lcd.WriteTextAt(6, 1, string(digits[:n]))
		m.lcd.WriteTextAt(uint8(6+n), 1, "%        ")
	}
	if !m.wait(ctx, m.dwell.Echo) {
		return false
	}

	limit := uint8(conv.ParseDigits(digits[:n]))
	sys.Limits.SOCLimit = limit
	println("[menu] soc limit set to", limit)
	if m.conn != nil {
		m.conn.Publish(m.conn.NewMessage(bus.T(types.TokSettings, types.TokSOCLimit), limit, true))
	}
	return true
}

// SetCountdown reads up to three digits of minutes and starts the countdown.
// A leading '0' and any '*' are ignored; a held '$' commits early once at
// least one digit is in. It returns the minutes started, or 0.
func (m *Menu) SetCountdown(ctx context.Context, sys *types.System) uint16 {
	m.lcd.Clear()
	m.lcd.WriteTextAt(0, 0, "PRESS # > CANCEL")
	m.lcd.WriteTextAt(0, 1, "HOLD * TO START")

	var digits [countdownDigits]byte
	n := 0
read:
	for n < countdownDigits {
		k := m.keys.Scan(ctx, -1)
		switch {
		case k == types.KeyNone, k == types.KeyCancel:
			return 0
		case k == types.KeyHold && n > 0:
			break read
		case !k.IsDigit():
			continue
		case n == 0 && k == '0':
			continue
		}
		digits[n] = byte(k)
		n++

		m.lcd.WriteTextAt(0, 0, blankRow)
		m.lcd.WriteTextAt(3, 0, string(digits[:n]))
		m.lcd.WriteTextAt(uint8(3+n), 0, " MIN(S)")
	}
	if !m.wait(ctx, m.dwell.Echo) {
		return 0
	}

	minutes := conv.ParseDigits(digits[:n])
	if err := sys.Countdown.Start(minutes); err != nil {
		println("[menu] countdown not started:", string(errcode.Of(err)))
		return 0
	}
	return minutes
}
