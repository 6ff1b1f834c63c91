package hal

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestScaledADC(t *testing.T) {
	raw := uint16(0)
	a := ScaledADC{Read: func() uint16 { return raw }, FullScale: 1000, MaxVoltage: 12}
	if v := a.BatteryVoltage(); v != 0 {
		t.Fatalf("zero reading -> %v", v)
	}
	raw = 500
	if v := a.BatteryVoltage(); v != 6 {
		t.Fatalf("half reading -> %v, want 6", v)
	}
	raw = 1000
	if v := a.BatteryVoltage(); v != 12 {
		t.Fatalf("full reading -> %v, want 12", v)
	}
	if v := (ScaledADC{}).BatteryVoltage(); v != 0 {
		t.Fatalf("unconfigured -> %v", v)
	}
}

func TestSimPinAndVoltage(t *testing.T) {
	p := NewSimPin(4)
	_ = p.ConfigureInput(PullUp)
	if !p.Get() {
		t.Fatal("pull-up input should read high")
	}
	_ = p.ConfigureOutput(false)
	p.Set(true)
	p.Toggle()
	if p.Get() || p.Sets() != 2 || p.Number() != 4 {
		t.Fatalf("pin state: level=%v sets=%d", p.Get(), p.Sets())
	}

	v := NewSimVoltage(9.6)
	if v.BatteryVoltage() != 9.6 {
		t.Fatalf("voltage = %v", v.BatteryVoltage())
	}
}

func TestClaimBoard(t *testing.T) {
	pins := NewSimPins()
	plan := PinPlan{Load: 2, Charge: 3, Buzzer: 4, Levels: [4]int{6, 7, 8, 9}, ExtPower: 10,
		KeypadDrive: [4]int{11, 12, 13, 14}, KeypadSense: [3]int{15, 16, 17}}
	b, err := ClaimBoard(pins, plan)
	if err != nil {
		t.Fatal(err)
	}
	if b.Out.Load.Number() != 2 || b.KeypadSense[2].Number() != 17 {
		t.Fatal("pins not resolved by number")
	}
	if pins.Pin(2).Get() {
		t.Fatal("outputs must start low")
	}

	plan.Load = -1
	if _, err := ClaimBoard(pins, plan); err == nil {
		t.Fatal("expected error for unknown pin")
	}
}

func TestSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if Sleep(ctx, time.Hour) {
		t.Fatal("Sleep should report cancellation")
	}
	if !Sleep(context.Background(), 0) {
		t.Fatal("zero sleep should continue")
	}
	if NoWait(ctx, time.Second) {
		t.Fatal("NoWait should report cancellation")
	}
}

func TestTickerSourceEnableDisable(t *testing.T) {
	src := NewTickerSource(1000)
	if src.Period() != time.Millisecond {
		t.Fatalf("period = %v", src.Period())
	}
	var n atomic.Int32
	done := make(chan struct{})
	src.Enable(func() {
		if n.Add(1) == 5 {
			src.Disable() // from inside the handler
			close(done)
		}
	})
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ticks never arrived")
	}
	time.Sleep(20 * time.Millisecond)
	if got := n.Load(); got != 5 {
		t.Fatalf("handler ran %d times after Disable, want 5", got)
	}
}
