// services/hal/gpio.go
package hal

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// GPIOPin is the subset of pin control the controller needs.
type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Toggle()
	Number() int
}

// PinFactory supplies GPIO pins by the configured number scheme.
type PinFactory interface {
	ByNumber(n int) (GPIOPin, bool)
}

// Outputs groups the relay and indicator lines driven by the battery manager.
type Outputs struct {
	Load   GPIOPin
	Charge GPIOPin
	Buzzer GPIOPin
	Levels [4]GPIOPin // band A..D
}

// PinPlan names the pin numbers of one board.
type PinPlan struct {
	Load, Charge, Buzzer int
	Levels               [4]int
	ExtPower             int
	KeypadDrive          [4]int
	KeypadSense          [3]int
}

// Board is the resolved set of pins for a PinPlan.
type Board struct {
	Out         Outputs
	ExtPower    GPIOPin
	KeypadDrive [4]GPIOPin
	KeypadSense [3]GPIOPin
}

// ClaimBoard resolves and configures every pin of plan. Outputs start low,
// inputs are pulled down.
func ClaimBoard(f PinFactory, plan PinPlan) (Board, error) {
	var b Board
	var err error
	out := func(n int) GPIOPin {
		if err != nil {
			return nil
		}
		p, ok := f.ByNumber(n)
		if !ok {
			err = errUnknownPin(n)
			return nil
		}
		err = p.ConfigureOutput(false)
		return p
	}
	in := func(n int) GPIOPin {
		if err != nil {
			return nil
		}
		p, ok := f.ByNumber(n)
		if !ok {
			err = errUnknownPin(n)
			return nil
		}
		err = p.ConfigureInput(PullDown)
		return p
	}

	b.Out.Load = out(plan.Load)
	b.Out.Charge = out(plan.Charge)
	b.Out.Buzzer = out(plan.Buzzer)
	for i, n := range plan.Levels {
		b.Out.Levels[i] = out(n)
	}
	b.ExtPower = in(plan.ExtPower)
	for i, n := range plan.KeypadDrive {
		b.KeypadDrive[i] = out(n)
	}
	for i, n := range plan.KeypadSense {
		b.KeypadSense[i] = in(n)
	}
	if err != nil {
		return Board{}, err
	}
	return b, nil
}
