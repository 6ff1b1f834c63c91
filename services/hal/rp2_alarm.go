//go:build rp2040

package hal

import (
	"device/rp"
	"runtime/interrupt"
)

// Alarm 0 belongs to the runtime's sleep timer; the countdown takes alarm 1.
const alarmBit = 1 << 1

// AlarmTick drives the countdown from the RP2040 timer's alarm 1 interrupt.
// There is one alarm, so build at most one AlarmTick per program.
type AlarmTick struct {
	periodUs uint32
	intr     interrupt.Interrupt
}

var _ TickSource = (*AlarmTick)(nil)

// written with interrupts masked, read by the ISR
var alarmState struct {
	handler  func()
	periodUs uint32
}

// NewRP2AlarmTick builds a source at freqHz (1000 => 1 ms ticks).
func NewRP2AlarmTick(freqHz uint32) *AlarmTick {
	if freqHz == 0 || freqHz > 1_000_000 {
		freqHz = 1000
	}
	a := &AlarmTick{periodUs: 1_000_000 / freqHz}
	a.intr = interrupt.New(rp.IRQ_TIMER_IRQ_1, alarmISR)
	a.intr.Enable()
	return a
}

// Enable (re)arms the alarm. A previous handler is replaced.
func (a *AlarmTick) Enable(handler func()) {
	mask := interrupt.Disable()
	alarmState.handler = handler
	alarmState.periodUs = a.periodUs
	rp.TIMER.INTR.Set(alarmBit)
	rp.TIMER.INTE.SetBits(alarmBit)
	rp.TIMER.ALARM1.Set(rp.TIMER.TIMERAWL.Get() + a.periodUs)
	interrupt.Restore(mask)
}

// Disable disarms the alarm. Safe from inside the handler.
func (a *AlarmTick) Disable() {
	mask := interrupt.Disable()
	rp.TIMER.INTE.ClearBits(alarmBit)
	rp.TIMER.ARMED.Set(alarmBit)
	rp.TIMER.INTR.Set(alarmBit)
	alarmState.handler = nil
	interrupt.Restore(mask)
}

// alarmISR re-arms before calling the handler so a Disable from the
// handler wins.
func alarmISR(interrupt.Interrupt) {
	rp.TIMER.INTR.Set(alarmBit)
	h := alarmState.handler
	if h == nil {
		return
	}
	rp.TIMER.ALARM1.Set(rp.TIMER.TIMERAWL.Get() + alarmState.periodUs)
	h()
}
