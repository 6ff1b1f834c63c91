//go:build rp2040

package hal

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers"
)

// -----------------------------------------------------------------------------
// GPIO
// -----------------------------------------------------------------------------

type rp2GPIO struct {
	p machine.Pin
	n int
}

func (r *rp2GPIO) Number() int { return r.n }

func (r *rp2GPIO) ConfigureInput(pull Pull) error {
	var mode machine.PinMode
	switch pull {
	case PullUp:
		mode = machine.PinInputPullup
	case PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2GPIO) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2GPIO) Set(b bool) { r.p.Set(b) }
func (r *rp2GPIO) Get() bool  { return r.p.Get() }
func (r *rp2GPIO) Toggle() {
	if r.p.Get() {
		r.p.Low()
	} else {
		r.p.High()
	}
}

// RP2Pins exposes GP0..GP29.
type RP2Pins struct{}

func (RP2Pins) ByNumber(n int) (GPIOPin, bool) {
	if n < 0 || n > 29 {
		return nil, false
	}
	return &rp2GPIO{p: machine.Pin(n), n: n}, true
}

// -----------------------------------------------------------------------------
// ADC
// -----------------------------------------------------------------------------

// NewRP2BatteryADC configures ADC0 (GP26). machine reports 16-bit readings,
// so fullScale is normally 0xFFFF.
func NewRP2BatteryADC(fullScale uint16, maxVoltage float32) ScaledADC {
	machine.InitADC()
	adc := machine.ADC{Pin: machine.ADC0}
	adc.Configure(machine.ADCConfig{})
	return ScaledADC{Read: adc.Get, FullScale: fullScale, MaxVoltage: maxVoltage}
}

// -----------------------------------------------------------------------------
// I2C / console
// -----------------------------------------------------------------------------

// NewRP2I2C0 configures I2C0 on GP20 (SDA) / GP21 (SCL) at freqHz.
func NewRP2I2C0(freqHz uint32) (drivers.I2C, error) {
	sda, scl := machine.GP20, machine.GP21
	sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
	scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
	if err := machine.I2C0.Configure(machine.I2CConfig{SDA: sda, SCL: scl, Frequency: freqHz}); err != nil {
		return nil, err
	}
	return machine.I2C0, nil
}

// Console is the UART0 line used for status lines next to the USB log.
type Console struct{ u *uartx.UART }

// NewRP2Console configures UART0 on GP0 (TX) / GP1 (RX).
func NewRP2Console(baud uint32) *Console {
	u := uartx.UART0
	_ = u.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	return &Console{u: u}
}

func (c *Console) Write(b []byte) (int, error) { return c.u.Write(b) }
