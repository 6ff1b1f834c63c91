// services/dispatch/dispatch.go
package dispatch

import (
	"context"
	"time"

	"loadctl-go/bus"
	"loadctl-go/services/battery"
	"loadctl-go/services/hal"
	"loadctl-go/services/menu"
	"loadctl-go/types"
)

// DefaultPromptCycles is the scan budget of the idle prompt (a few seconds).
const DefaultPromptCycles = 5000

// RunningPoll is how long the loop sleeps between passes while a countdown
// runs. The sleep is the loop's yield point to the tick and bus goroutines.
const RunningPoll = 10 * time.Millisecond

// Refresher redraws the running countdown; force redraws the full layout.
type Refresher interface {
	Refresh(force bool) bool
}

// Parts are the components the dispatcher drives.
type Parts struct {
	Battery *battery.Manager
	Menu    *menu.Menu
	Keys    menu.KeySource
	Display types.Display
	Timer   Refresher // optional
	Wait    hal.Wait  // defaults to hal.Sleep
}

// Dispatcher is the main loop: battery policy every tick, then either the
// option prompt, the countdown display, or the expiry acknowledgement.
type Dispatcher struct {
	p            Parts
	conn         *bus.Connection
	promptCycles int

	timerSeq     uint32
	timerPub     bool
	expiredShown bool
}

// New builds a dispatcher. conn may be nil; promptCycles <= 0 uses the default.
func New(p Parts, conn *bus.Connection, promptCycles int) *Dispatcher {
	if promptCycles <= 0 {
		promptCycles = DefaultPromptCycles
	}
	if p.Wait == nil {
		p.Wait = hal.Sleep
	}
	return &Dispatcher{p: p, conn: conn, promptCycles: promptCycles}
}

// Run ticks until ctx ends.
func (d *Dispatcher) Run(ctx context.Context, sys *types.System) error {
	println("[dispatch] running")
	for ctx.Err() == nil {
		d.Tick(ctx, sys)
	}
	return ctx.Err()
}

// Tick runs one main-loop pass.
func (d *Dispatcher) Tick(ctx context.Context, sys *types.System) {
	drew := d.p.Battery.Tick(ctx, sys)
	if ctx.Err() != nil {
		return
	}
	d.publishTimer(sys)

	if !sys.CountdownActive() {
		d.expiredShown = false
		d.prompt(ctx, sys)
		return
	}
	if sys.Countdown.Snapshot().Phase() == types.PhaseExpired {
		d.awaitAck(ctx, sys, drew)
		return
	}
	if d.p.Timer != nil {
		d.p.Timer.Refresh(drew)
	}
	d.p.Wait(ctx, RunningPoll)
}

func (d *Dispatcher) prompt(ctx context.Context, sys *types.System) {
	d.p.Display.Clear()
	d.p.Display.WriteTextAt(0, 0, "PRESS * > OPTION")
	if d.p.Keys.Scan(ctx, d.promptCycles) != types.KeyFunc {
		return
	}
	d.p.Menu.Run(ctx, sys)
	d.publishTimer(sys)
}

// awaitAck keeps the load off and polls for '#' for one prompt budget.
// Battery management keeps running between polls.
func (d *Dispatcher) awaitAck(ctx context.Context, sys *types.System, drew bool) {
	d.p.Battery.DisconnectLoad(sys)
	if !d.expiredShown {
		println("[dispatch] countdown expired")
	}
	redraw := false
	if d.p.Timer != nil {
		redraw = d.p.Timer.Refresh(drew)
	}
	if drew || redraw || !d.expiredShown {
		d.p.Display.WriteTextAt(0, 1, "PRESS # TO STOP")
		d.expiredShown = true
	}
	if d.p.Keys.Scan(ctx, d.promptCycles) != types.KeyCancel {
		return
	}
	if sys.Countdown.Acknowledge() {
		d.expiredShown = false
		println("[dispatch] countdown stopped by user")
		d.publishTimer(sys)
	}
}

func (d *Dispatcher) publishTimer(sys *types.System) {
	if d.conn == nil || sys.Countdown == nil {
		return
	}
	s := sys.Countdown.Snapshot()
	if d.timerPub && s.Seq == d.timerSeq {
		return
	}
	d.conn.Publish(d.conn.NewMessage(bus.T(types.TokTimer, types.TokState), s, true))
	d.timerSeq = s.Seq
	d.timerPub = true
}
