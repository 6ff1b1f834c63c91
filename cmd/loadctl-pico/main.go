//go:build rp2040

package main

import (
	"context"
	"time"

	"loadctl-go/bus"
	"loadctl-go/drivers/charlcd"
	"loadctl-go/drivers/keypad"
	"loadctl-go/services/battery"
	"loadctl-go/services/config"
	"loadctl-go/services/countdown"
	"loadctl-go/services/dispatch"
	"loadctl-go/services/hal"
	"loadctl-go/services/menu"
	"loadctl-go/types"
	"loadctl-go/x/conv"
)

const (
	boardName   = "pico"
	consoleBaud = 115200
	i2cHz       = 100_000
	tickHz      = 1000
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot")

	board, err := config.Lookup(boardName)
	if err != nil {
		halt("board", err)
	}
	uart := hal.NewRP2Console(consoleBaud)

	hw, err := hal.ClaimBoard(hal.RP2Pins{}, board.Pins)
	if err != nil {
		halt("pins", err)
	}
	i2c, err := hal.NewRP2I2C0(i2cHz)
	if err != nil {
		halt("i2c", err)
	}
	lcd, err := charlcd.New(i2c, board.LCDAddr)
	if err != nil {
		halt("lcd", err)
	}

	b := bus.NewBus(4)
	conn := b.NewConnection("loadctl")
	config.Publish(conn, board)

	timer := countdown.New(hal.NewRP2AlarmTick(tickHz), lcd)
	sys := types.NewSystem(board.Thresholds(), timer)
	scanner := keypad.NewScanner(hw.KeypadDrive, hw.KeypadSense, keypad.DefaultConfig())

	bm := battery.New(battery.Hardware{
		Volts:    hal.NewRP2BatteryADC(board.ADCFullScale, board.MaxVoltage),
		ExtPower: hw.ExtPower,
		Out:      hw.Out,
		Display:  lcd,
	}, conn, hal.Sleep, battery.DefaultDwell())
	mn := menu.New(scanner, lcd, conn, hal.Sleep, menu.DefaultDwell())
	d := dispatch.New(dispatch.Parts{
		Battery: bm,
		Menu:    mn,
		Keys:    scanner,
		Display: lcd,
		Timer:   timer,
	}, conn, board.PromptCycles)

	go mirrorStatus(b.NewConnection("uart"), uart)

	_ = d.Run(context.Background(), sys)
}

// mirrorStatus writes one line per power or countdown change to the UART.
func mirrorStatus(conn *bus.Connection, uart *hal.Console) {
	power := conn.Subscribe(bus.T(types.TokPower, types.TokState))
	timer := conn.Subscribe(bus.T(types.TokTimer, types.TokState))
	var buf [96]byte
	for {
		select {
		case m := <-power.Channel():
			p, ok := m.Payload.(types.PowerState)
			if !ok {
				continue
			}
			line := append(buf[:0], "power load="...)
			line = appendBool(line, p.LoadSupplyOn)
			line = append(line, " charge="...)
			line = appendBool(line, p.BatteryCharging)
			line = append(line, " buzzer="...)
			line = appendBool(line, p.BuzzerOn)
			line = append(line, " band="...)
			line = append(line, p.Band.String()...)
			line = append(line, "\r\n"...)
			_, _ = uart.Write(line)
		case m := <-timer.Channel():
			s, ok := m.Payload.(types.CountdownState)
			if !ok {
				continue
			}
			var num [20]byte
			line := append(buf[:0], "timer "...)
			line = append(line, s.Phase().String()...)
			line = append(line, " min="...)
			line = append(line, conv.Utoa(num[:], uint64(s.RemainingMinutes))...)
			line = append(line, " sec="...)
			line = append(line, conv.Utoa(num[:], uint64(s.Seconds))...)
			line = append(line, "\r\n"...)
			_, _ = uart.Write(line)
		}
	}
}

func appendBool(b []byte, v bool) []byte {
	if v {
		return append(b, '1')
	}
	return append(b, '0')
}

func halt(stage string, err error) {
	for {
		println("[main] halted at", stage+":", err.Error())
		time.Sleep(5 * time.Second)
	}
}
