package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
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
	"loadctl-go/x/mathx"
)

const (
	tickHz      = 1000
	busQueueLen = 16
	lcdPoll     = 50 * time.Millisecond
)

// simulator wires the firmware services to in-memory hardware.
type simulator struct {
	board config.Board
	bus   *bus.Bus
	pins  *hal.SimPins
	keys  *keypad.SimMatrix
	lcd   *charlcd.Frame
	adc   atomic.Uint32 // raw reading in [0, board.ADCFullScale]

	sys    *types.System
	disp   *dispatch.Dispatcher
	status *statusView
}

func newSimulator(board config.Board) (*simulator, error) {
	s := &simulator{
		board: board,
		bus:   bus.NewBus(busQueueLen),
		pins:  hal.NewSimPins(),
		keys:  keypad.NewSimMatrix(),
		lcd:   charlcd.NewFrame(),
	}
	hw, err := hal.ClaimBoard(s.pins, board.Pins)
	if err != nil {
		return nil, err
	}
	// The matrix model replaces the keypad lines of the claimed board.
	scanner := keypad.NewScanner(s.keys.DrivePins(), s.keys.SensePins(), keypad.DefaultConfig())

	volts := hal.ScaledADC{
		Read:       func() uint16 { return uint16(s.adc.Load()) },
		FullScale:  board.ADCFullScale,
		MaxVoltage: board.MaxVoltage,
	}

	conn := s.bus.NewConnection("loadctl")
	timer := countdown.New(hal.NewTickerSource(tickHz), s.lcd)
	s.sys = types.NewSystem(board.Thresholds(), timer)

	bm := battery.New(battery.Hardware{
		Volts:    volts,
		ExtPower: hw.ExtPower,
		Out:      hw.Out,
		Display:  s.lcd,
	}, conn, hal.Sleep, battery.DefaultDwell())
	mn := menu.New(scanner, s.lcd, conn, hal.Sleep, menu.DefaultDwell())
	s.disp = dispatch.New(dispatch.Parts{
		Battery: bm,
		Menu:    mn,
		Keys:    scanner,
		Display: s.lcd,
		Timer:   timer,
	}, conn, board.PromptCycles)

	s.status = newStatusView(s.bus.NewConnection("console"), s.pins, board.Pins)
	config.Publish(conn, board)
	return s, nil
}

// SetVolts sets the simulated ADC input.
func (s *simulator) SetVolts(v float32) {
	v = mathx.Clamp(v, 0, s.board.MaxVoltage)
	raw := v / s.board.MaxVoltage * float32(s.board.ADCFullScale)
	s.adc.Store(uint32(raw + 0.5))
}

// SetSOC sets the voltage corresponding to pct.
func (s *simulator) SetSOC(pct float32) {
	s.SetVolts(mathx.Clamp(pct, 0, 100) / 100 * s.board.MaxVoltage)
}

func (s *simulator) SetExternalPower(on bool) {
	s.pins.Pin(s.board.Pins.ExtPower).Set(on)
}

// Press queues keys; '$' is a held function key. Spaces are ignored.
func (s *simulator) Press(keys string) error {
	var seq []types.Key
	for _, r := range keys {
		switch {
		case r == ' ':
		case r >= '0' && r <= '9', r == '*', r == '#', r == '$':
			seq = append(seq, types.Key(r))
		default:
			return fmt.Errorf("invalid key %q", r)
		}
	}
	s.keys.Tap(seq...)
	return nil
}

// Run starts the firmware loop and the console; it returns when either ends.
func (s *simulator) Run(ctx context.Context, cancel context.CancelFunc) error {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		_ = s.disp.Run(ctx, s.sys)
	}()
	go func() {
		defer wg.Done()
		s.status.follow(ctx)
	}()
	go func() {
		defer wg.Done()
		s.watchLCD(ctx)
	}()

	err := console(ctx, cancel, s)
	cancel()
	wg.Wait()
	return err
}

func (s *simulator) watchLCD(ctx context.Context) {
	t := time.NewTicker(lcdPoll)
	defer t.Stop()
	var last [types.DisplayRows]string
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			lines := s.lcd.Lines()
			if lines == last {
				continue
			}
			last = lines
			log.Printf("\n%s", renderLCD(lines))
		}
	}
}

// ---- status ----

// statusView keeps the latest retained values seen on the bus.
type statusView struct {
	conn *bus.Connection
	pins *hal.SimPins
	plan hal.PinPlan

	mu       sync.Mutex
	power    types.PowerState
	sample   types.BatterySample
	timer    types.CountdownState
	socLimit uint8
	board    string
}

func newStatusView(conn *bus.Connection, pins *hal.SimPins, plan hal.PinPlan) *statusView {
	return &statusView{conn: conn, pins: pins, plan: plan}
}

func (v *statusView) follow(ctx context.Context) {
	sub := v.conn.Subscribe(bus.T("#"))
	defer v.conn.Disconnect()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-sub.Channel():
			if !ok {
				return
			}
			v.apply(m)
		}
	}
}

func (v *statusView) apply(m *bus.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch p := m.Payload.(type) {
	case types.PowerState:
		v.power = p
	case types.BatterySample:
		v.sample = p
	case types.CountdownState:
		v.timer = p
	case uint8:
		v.socLimit = p
	case config.Board:
		v.board = p.Name
		v.socLimit = p.SOCLimit
	}
}

func (v *statusView) String() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s %.2fV %.1f%%  %s %d%%\n",
		labelStyle.Render("board"), v.board,
		labelStyle.Render("battery"), v.sample.Volts, v.sample.SOC,
		labelStyle.Render("limit"), v.socLimit)
	fmt.Fprintf(&b, "%s %s %s %s  %s %s  %s %v\n",
		labelStyle.Render("relays"),
		renderFlag("load", v.pins.Pin(v.plan.Load).Get()),
		renderFlag("charge", v.pins.Pin(v.plan.Charge).Get()),
		renderFlag("buzzer", v.pins.Pin(v.plan.Buzzer).Get()),
		labelStyle.Render("band"), v.power.Band,
		labelStyle.Render("ext"), v.pins.Pin(v.plan.ExtPower).Get())
	t := v.timer
	fmt.Fprintf(&b, "%s %s %02d:%02d:%02d", labelStyle.Render("countdown"), t.Phase(), t.Hours(), t.Minutes(), t.Seconds)
	return b.String()
}
