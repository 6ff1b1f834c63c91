// services/countdown/countdown.go
package countdown

import (
	"sync/atomic"

	"loadctl-go/errcode"
	"loadctl-go/services/hal"
	"loadctl-go/types"
)

// Timer is the interrupt-driven countdown. OnTick is the only writer while a
// countdown runs; Start, Terminate and Acknowledge run on the main loop with
// the tick source disabled. All fields live in one atomic word so readers
// always see a consistent snapshot.
type Timer struct {
	src  hal.TickSource
	lcd  types.Display
	word atomic.Uint64

	// main loop only
	shownSeq uint32
	shown    bool
}

var _ types.Countdown = (*Timer)(nil)

func New(src hal.TickSource, lcd types.Display) *Timer {
	return &Timer{src: src, lcd: lcd}
}

// Start begins a countdown of totalMinutes. The first visible value is
// (totalMinutes-1):59.
func (t *Timer) Start(totalMinutes uint16) error {
	if totalMinutes == 0 {
		return errcode.Wrap(errcode.InvalidParams, "countdown.start", "zero minutes", nil)
	}
	cur := t.word.Load()
	if cur&runBit != 0 {
		return errcode.Busy
	}
	t.src.Disable()
	prev := unpack(cur)
	next := pack(types.CountdownState{
		RemainingMinutes: totalMinutes - 1,
		Seconds:          59,
		InProgress:       true,
		Seq:              prev.Seq + 1,
	})
	if !t.word.CompareAndSwap(cur, next) {
		return errcode.Busy
	}
	t.render(unpack(next), true)
	t.src.Enable(t.OnTick)
	println("[countdown] start", totalMinutes, "min")
	return nil
}

// OnTick is the 1 ms tick handler. It never blocks and never logs, since on
// the board it runs in interrupt context.
func (t *Timer) OnTick() {
	for {
		cur := t.word.Load()
		s := unpack(cur)
		if !s.InProgress || s.Expired {
			return
		}
		s = step(s)
		if !t.word.CompareAndSwap(cur, pack(s)) {
			continue
		}
		if s.Expired {
			t.src.Disable()
		}
		return
	}
}

// Terminate stops a running countdown and returns the timer to idle. An
// expired countdown is left for Acknowledge.
func (t *Timer) Terminate() {
	if t.Snapshot().Phase() != types.PhaseRunning {
		return
	}
	t.src.Disable()
	if t.toIdle(types.PhaseRunning) {
		println("[countdown] terminated")
	}
}

// Acknowledge clears an expired countdown. It reports false if the timer
// was not waiting for acknowledgement.
func (t *Timer) Acknowledge() bool {
	if t.toIdle(types.PhaseExpired) {
		println("[countdown] acknowledged")
		return true
	}
	return false
}

// toIdle moves the timer from phase from to idle.
func (t *Timer) toIdle(from types.Phase) bool {
	for {
		cur := t.word.Load()
		s := unpack(cur)
		if s.Phase() != from {
			return false
		}
		idle := types.CountdownState{Seq: s.Seq + 1}
		if t.word.CompareAndSwap(cur, pack(idle)) {
			t.shown = false
			return true
		}
	}
}

func (t *Timer) InProgress() bool { return t.word.Load()&runBit != 0 }

func (t *Timer) Snapshot() types.CountdownState { return unpack(t.word.Load()) }

// Refresh redraws the countdown when it changed since the last redraw, or
// unconditionally with force (after another screen overwrote it). An expired
// countdown keeps its final 00:00:00. It reports whether anything was drawn.
func (t *Timer) Refresh(force bool) bool {
	s := t.Snapshot()
	if s.Phase() == types.PhaseIdle {
		return false
	}
	if !force && t.shown && s.Seq == t.shownSeq {
		return false
	}
	t.render(s, force || !t.shown)
	return true
}

func (t *Timer) render(s types.CountdownState, full bool) {
	if t.lcd == nil {
		return
	}
	if full {
		t.lcd.Clear()
		t.lcd.WriteTextAt(6, 0, ":")
		t.lcd.WriteTextAt(9, 0, ":")
		t.lcd.WriteTextAt(4, 1, "HH:")
		t.lcd.WriteTextAt(7, 1, "MM:")
		t.lcd.WriteTextAt(10, 1, "SS")
	}
	t.lcd.WriteIntAt(4, 0, int(s.Hours()), 2)
	t.lcd.WriteIntAt(7, 0, int(s.Minutes()), 2)
	t.lcd.WriteIntAt(10, 0, int(s.Seconds), 2)
	t.shownSeq = s.Seq
	t.shown = true
}
