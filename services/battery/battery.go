// services/battery/battery.go
package battery

import (
	"context"
	"time"

	"loadctl-go/bus"
	"loadctl-go/services/hal"
	"loadctl-go/types"
	"loadctl-go/x/conv"
	"loadctl-go/x/mathx"
	"loadctl-go/x/timex"
)

// Hardware is what the manager reads and drives.
type Hardware struct {
	Volts    hal.VoltageSource
	ExtPower hal.GPIOPin // high when external power is present
	Out      hal.Outputs
	Display  types.Display
}

// Dwell holds how long each status screen stays up.
type Dwell struct {
	Low      time.Duration
	Charging time.Duration
	Idle     time.Duration // per idle screen (two screens)
}

func DefaultDwell() Dwell {
	return Dwell{
		Low:      300 * time.Millisecond,
		Charging: 200 * time.Millisecond,
		Idle:     300 * time.Millisecond,
	}
}

// Manager applies the load/charge/buzzer policy once per Tick. It is the
// only writer of System.Power and of the relay outputs.
type Manager struct {
	hw    Hardware
	conn  *bus.Connection
	wait  hal.Wait
	dwell Dwell

	bandSet   bool
	published bool
	lastPub   types.PowerState
	sampled   bool
	lastSmp   types.BatterySample
}

// New builds a manager. conn may be nil; wait defaults to hal.Sleep.
func New(hw Hardware, conn *bus.Connection, wait hal.Wait, dwell Dwell) *Manager {
	if wait == nil {
		wait = hal.Sleep
	}
	return &Manager{hw: hw, conn: conn, wait: wait, dwell: dwell}
}

// Sample reads the battery once.
func (m *Manager) Sample(sys *types.System) types.BatterySample {
	v := m.hw.Volts.BatteryVoltage()
	return types.BatterySample{
		Volts: v,
		SOC:   mathx.PercentOf(v, sys.Limits.MaxVoltage),
	}
}

// Tick runs one pass of the policy and the status screens. It reports
// whether it drew on the display.
func (m *Manager) Tick(ctx context.Context, sys *types.System) bool {
	smp := m.Sample(sys)
	p := sys.Power
	lim := sys.Limits
	pct := smp.Percent()
	active := sys.CountdownActive()
	drew := false

	m.publishSample(smp)
	m.setBand(&p, lim.BandFor(smp.SOC))

	if pct < uint16(lim.SOCLimit) && !p.BatteryCharging {
		if !p.BuzzerOn && float32(pct) < lim.Buzzer {
			m.setBuzzer(&p, true)
		}
		if p.LoadSupplyOn {
			// An expired countdown stays put until '#'.
			if active && sys.Countdown.Snapshot().Phase() == types.PhaseRunning {
				sys.Countdown.Terminate()
			}
			m.setLoad(&p, false)
			println("[battery] load disconnected, soc", pct)
		}
		m.commit(sys, p)
		if !m.lowScreen(ctx, smp) {
			return true
		}
		drew = true
	} else if !active && pct > uint16(lim.SOCLimit) && !p.LoadSupplyOn {
		if p.BuzzerOn {
			m.setBuzzer(&p, false)
		}
		m.setLoad(&p, true)
		println("[battery] load connected, soc", pct)
	}

	if m.hw.ExtPower.Get() {
		if smp.SOC >= lim.ChargeOffAt && p.BatteryCharging {
			m.setCharge(&p, false)
		} else if smp.SOC < lim.ChargeOnBelow && !p.BatteryCharging {
			m.setCharge(&p, true)
			if p.BuzzerOn {
				m.setBuzzer(&p, false)
			}
		}
		m.commit(sys, p)
		if !m.chargingScreen(ctx, smp) {
			return true
		}
		drew = true
	} else if p.BatteryCharging {
		m.setCharge(&p, false)
	}
	m.commit(sys, p)

	if !sys.CountdownActive() {
		if !m.idleScreens(ctx, sys, smp) {
			return true
		}
		drew = true
	}
	return drew
}

// DisconnectLoad opens the load relay if it is closed.
func (m *Manager) DisconnectLoad(sys *types.System) {
	p := sys.Power
	if !p.LoadSupplyOn {
		return
	}
	m.setLoad(&p, false)
	println("[battery] load disconnected")
	m.commit(sys, p)
}

// ---- outputs ----

func (m *Manager) setLoad(p *types.PowerState, on bool) {
	m.hw.Out.Load.Set(on)
	p.LoadSupplyOn = on
}

func (m *Manager) setBuzzer(p *types.PowerState, on bool) {
	m.hw.Out.Buzzer.Set(on)
	p.BuzzerOn = on
	if on {
		println("[battery] buzzer on")
	} else {
		println("[battery] buzzer off")
	}
}

func (m *Manager) setCharge(p *types.PowerState, on bool) {
	m.hw.Out.Charge.Set(on)
	p.BatteryCharging = on
	if on {
		println("[battery] charging started")
	} else {
		println("[battery] charging stopped")
	}
}

func (m *Manager) setBand(p *types.PowerState, b types.Band) {
	if m.bandSet && p.Band == b {
		return
	}
	for i, led := range m.hw.Out.Levels {
		if led != nil {
			led.Set(types.Band(i) == b)
		}
	}
	p.Band = b
	m.bandSet = true
}

// publishSample publishes power/sample when the reading moved.
func (m *Manager) publishSample(smp types.BatterySample) {
	if m.conn == nil || (m.sampled && smp == m.lastSmp) {
		return
	}
	m.conn.Publish(m.conn.NewMessage(bus.T(types.TokPower, types.TokSample), smp, false))
	m.lastSmp = smp
	m.sampled = true
}

// commit stores p and publishes it when it changed.
func (m *Manager) commit(sys *types.System, p types.PowerState) {
	sys.Power = p
	if m.conn == nil {
		return
	}
	if m.published && m.lastPub.Same(p) {
		return
	}
	p.TSms = timex.NowMs()
	m.conn.Publish(m.conn.NewMessage(bus.T(types.TokPower, types.TokState), p, true))
	m.lastPub = p
	m.published = true
}

// ---- screens ----

func (m *Manager) lowScreen(ctx context.Context, smp types.BatterySample) bool {
	var buf [24]byte
	d := m.hw.Display
	d.Clear()
	d.WriteTextAt(2, 0, "BATTERY LOW")
	d.WriteTextAt(4, 1, string(conv.Tenths(buf[:], smp.SOC, '%')))
	return m.wait(ctx, m.dwell.Low)
}

func (m *Manager) chargingScreen(ctx context.Context, smp types.BatterySample) bool {
	var buf [24]byte
	d := m.hw.Display
	d.Clear()
	d.WriteTextAt(0, 0, "BATT CHARGING")
	d.WriteTextAt(2, 1, "SOC = ")
	d.WriteTextAt(8, 1, string(conv.Tenths(buf[:], smp.SOC, '%')))
	return m.wait(ctx, m.dwell.Charging)
}

func (m *Manager) idleScreens(ctx context.Context, sys *types.System, smp types.BatterySample) bool {
	var buf [24]byte
	d := m.hw.Display
	d.Clear()
	d.WriteTextAt(0, 0, "SOC = ")
	d.WriteTextAt(6, 0, string(conv.Tenths(buf[:], smp.SOC, '%')))
	d.WriteTextAt(0, 1, "BATT = ")
	d.WriteTextAt(7, 1, string(conv.Tenths(buf[:], smp.Volts, 'V')))
	if !m.wait(ctx, m.dwell.Idle) {
		return false
	}
	d.Clear()
	d.WriteTextAt(0, 0, "SOC LIMIT = ")
	d.WriteIntAt(12, 0, int(sys.Limits.SOCLimit), 2)
	d.WriteTextAt(14, 0, "%")
	return m.wait(ctx, m.dwell.Idle)
}
