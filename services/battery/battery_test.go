package battery

import (
	"context"
	"testing"
	"time"

	"loadctl-go/bus"
	"loadctl-go/drivers/charlcd"
	"loadctl-go/services/hal"
	"loadctl-go/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rig struct {
	m     *Manager
	sys   *types.System
	volts *hal.SimVoltage
	ext   *hal.SimPin
	pins  *hal.SimPins
	lcd   *charlcd.Frame
	cd    *fakeCountdown
}

// fakeCountdown records Terminate calls.
type fakeCountdown struct {
	active     bool
	expired    bool
	terminated int
}

func (f *fakeCountdown) Start(uint16) error { f.active = true; return nil }
func (f *fakeCountdown) Terminate()         { f.active = false; f.terminated++ }
func (f *fakeCountdown) Acknowledge() bool  { return false }
func (f *fakeCountdown) InProgress() bool   { return f.active }
func (f *fakeCountdown) Snapshot() types.CountdownState {
	return types.CountdownState{InProgress: f.active, Expired: f.active && f.expired}
}

// newRig uses a 100 V full scale so volts read directly as percent.
func newRig(t *testing.T, conn *bus.Connection) *rig {
	t.Helper()
	pins := hal.NewSimPins()
	b, err := hal.ClaimBoard(pins, hal.PinPlan{Load: 2, Charge: 3, Buzzer: 4, Levels: [4]int{6, 7, 8, 9}, ExtPower: 10,
		KeypadDrive: [4]int{11, 12, 13, 14}, KeypadSense: [3]int{15, 16, 17}})
	require.NoError(t, err)

	lim := types.DefaultThresholds()
	lim.MaxVoltage = 100
	cd := &fakeCountdown{}
	r := &rig{
		sys:   types.NewSystem(lim, cd),
		volts: hal.NewSimVoltage(60),
		ext:   pins.Pin(10),
		pins:  pins,
		lcd:   charlcd.NewFrame(),
		cd:    cd,
	}
	r.m = New(Hardware{Volts: r.volts, ExtPower: b.ExtPower, Out: b.Out, Display: r.lcd}, conn, hal.NoWait, DefaultDwell())
	return r
}

func (r *rig) tick(soc float32) {
	r.volts.Set(soc)
	r.m.Tick(context.Background(), r.sys)
}

func TestSOCFollowsVoltage(t *testing.T) {
	r := newRig(t, nil)
	r.sys.Limits.MaxVoltage = 12
	prev := float32(-1)
	for v := float32(0); v <= 12; v += 0.25 {
		r.volts.Set(v)
		soc := r.m.Sample(r.sys).SOC
		assert.GreaterOrEqual(t, soc, prev)
		assert.InDelta(t, v/12*100, soc, 0.001)
		prev = soc
	}
	r.volts.Set(15)
	assert.Equal(t, float32(100), r.m.Sample(r.sys).SOC)
}

func TestLowBatteryDisconnectsAndSoundsBuzzer(t *testing.T) {
	r := newRig(t, nil)
	r.tick(60)
	require.True(t, r.sys.Power.LoadSupplyOn)

	r.tick(40)
	assert.False(t, r.sys.Power.LoadSupplyOn)
	assert.True(t, r.sys.Power.BuzzerOn)
	assert.False(t, r.pins.Pin(2).Get(), "load relay")
	assert.True(t, r.pins.Pin(4).Get(), "buzzer")
	assert.Contains(t, r.lcd.Lines()[0], "BATTERY LOW")
}

func TestBuzzerUsesTruncatedPercent(t *testing.T) {
	r := newRig(t, nil)
	r.tick(45.9) // truncates to 45: below limit, not below buzzer
	assert.False(t, r.sys.Power.BuzzerOn)
	r.tick(44.9)
	assert.True(t, r.sys.Power.BuzzerOn)
	buzzes := r.pins.Pin(4).Sets()
	r.tick(44)
	assert.Equal(t, buzzes, r.pins.Pin(4).Sets(), "no redundant buzzer write")
}

func TestLoadReconnectsAboveLimitOnly(t *testing.T) {
	r := newRig(t, nil)
	r.tick(40)
	r.tick(50.5) // truncated 50 is neither below nor above the limit
	assert.False(t, r.sys.Power.LoadSupplyOn)
	assert.True(t, r.sys.Power.BuzzerOn)
	r.tick(51)
	assert.True(t, r.sys.Power.LoadSupplyOn)
	assert.False(t, r.sys.Power.BuzzerOn)
}

func TestLowBatteryTerminatesCountdown(t *testing.T) {
	r := newRig(t, nil)
	r.tick(60)
	require.NoError(t, r.sys.Countdown.Start(5))

	r.tick(40)
	assert.Equal(t, 1, r.cd.terminated)
	assert.False(t, r.sys.Power.LoadSupplyOn)
	assert.False(t, r.sys.CountdownActive())
}

func TestLowBatteryKeepsExpiredCountdown(t *testing.T) {
	r := newRig(t, nil)
	r.tick(60)
	require.NoError(t, r.sys.Countdown.Start(1))
	r.cd.expired = true

	r.tick(40)
	assert.Zero(t, r.cd.terminated)
	assert.False(t, r.sys.Power.LoadSupplyOn)
	assert.False(t, r.pins.Pin(2).Get())
	assert.True(t, r.sys.CountdownActive(), "expired countdown waits for '#'")
}

func TestCountdownBlocksReconnect(t *testing.T) {
	r := newRig(t, nil)
	r.tick(40)
	require.NoError(t, r.sys.Countdown.Start(5))
	v := r.lcd.Version()
	r.tick(80)
	assert.False(t, r.sys.Power.LoadSupplyOn)
	assert.Equal(t, v, r.lcd.Version(), "idle screens suppressed while counting down")
}

func TestChargeHysteresis(t *testing.T) {
	r := newRig(t, nil)
	r.ext.Set(true)

	r.tick(89)
	require.True(t, r.sys.Power.BatteryCharging)
	for _, soc := range []float32{90, 92, 94, 93, 91} {
		r.tick(soc)
		assert.True(t, r.sys.Power.BatteryCharging, "soc %v", soc)
	}
	r.tick(96)
	assert.False(t, r.sys.Power.BatteryCharging)
	for _, soc := range []float32{94, 92, 90} {
		r.tick(soc)
		assert.False(t, r.sys.Power.BatteryCharging, "soc %v", soc)
	}
	r.tick(89.9)
	assert.True(t, r.sys.Power.BatteryCharging)
	assert.Contains(t, r.lcd.Lines()[0], "SOC LIMIT = 50%")
}

func TestChargingSilencesBuzzerAndMasksLowBranch(t *testing.T) {
	r := newRig(t, nil)
	r.tick(30)
	require.True(t, r.sys.Power.BuzzerOn)

	r.ext.Set(true)
	r.tick(30)
	assert.True(t, r.sys.Power.BatteryCharging)
	assert.False(t, r.sys.Power.BuzzerOn)

	r.tick(30) // charging: low branch skipped
	assert.False(t, r.sys.Power.BuzzerOn)

	r.ext.Set(false)
	r.tick(30)
	assert.False(t, r.sys.Power.BatteryCharging, "charger released without external power")
	r.tick(30)
	assert.True(t, r.sys.Power.BuzzerOn)
}

func TestLevelBands(t *testing.T) {
	r := newRig(t, nil)
	cases := []struct {
		soc  float32
		want types.Band
	}{{100, types.BandA}, {85, types.BandA}, {84.9, types.BandB}, {70, types.BandB}, {69.9, types.BandC}, {55, types.BandC}, {54.9, types.BandD}, {0, types.BandD}}
	for _, c := range cases {
		r.tick(c.soc)
		assert.Equal(t, c.want, r.sys.Power.Band, "soc %v", c.soc)
		for i := 0; i < 4; i++ {
			assert.Equal(t, i == int(c.want), r.pins.Pin(6+i).Get(), "led %d at soc %v", i, c.soc)
		}
	}
}

func TestIdleScreens(t *testing.T) {
	r := newRig(t, nil)
	r.sys.Limits.MaxVoltage = 12
	var frames [][2]string
	r.m.wait = func(ctx context.Context, _ time.Duration) bool {
		frames = append(frames, r.lcd.Lines())
		return true
	}
	r.volts.Set(9)
	r.m.Tick(context.Background(), r.sys)
	require.Len(t, frames, 2)
	assert.Equal(t, "SOC = 75.0%     ", frames[0][0])
	assert.Equal(t, "BATT = 9.0V     ", frames[0][1])
	assert.Equal(t, "SOC LIMIT = 50% ", frames[1][0])
}

func TestIdleScreensStopOnCancel(t *testing.T) {
	r := newRig(t, nil)
	var frames [][2]string
	r.m.wait = func(ctx context.Context, _ time.Duration) bool {
		frames = append(frames, r.lcd.Lines())
		return false
	}
	r.sys.Limits.MaxVoltage = 12
	r.volts.Set(9)
	assert.True(t, r.m.Tick(context.Background(), r.sys))
	require.Len(t, frames, 1)
	assert.Equal(t, "SOC = 75.0%     ", r.lcd.Lines()[0])
}

func TestSamplePublishedOnChange(t *testing.T) {
	b := bus.NewBus(8)
	sub := b.NewConnection("test").Subscribe(bus.T(types.TokPower, types.TokSample))
	r := newRig(t, b.NewConnection("battery"))
	r.tick(60)
	r.tick(60)
	r.tick(61)

	var got []float32
	for len(sub.Channel()) > 0 {
		m := <-sub.Channel()
		got = append(got, m.Payload.(types.BatterySample).SOC)
	}
	require.Len(t, got, 2)
	assert.InDelta(t, 60, got[0], 0.01)
	assert.InDelta(t, 61, got[1], 0.01)
}

func TestPublishesPowerState(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("battery")
	r := newRig(t, conn)
	r.tick(60)
	r.tick(60)

	sub := b.NewConnection("test").Subscribe(bus.T(types.TokPower, types.TokState))
	msg := <-sub.Channel()
	st, ok := msg.Payload.(types.PowerState)
	require.True(t, ok)
	assert.True(t, st.LoadSupplyOn)
	assert.True(t, msg.Retained)
	select {
	case extra := <-sub.Channel():
		t.Fatalf("unexpected second state: %+v", extra.Payload)
	default:
	}
}
