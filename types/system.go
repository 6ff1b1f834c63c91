package types

// System is the process-wide context handed to every component operation.
// Field ownership: Power is written only by the battery manager; Limits.SOCLimit
// only by the settings menu; Countdown fields only by the timer handler while
// a countdown runs.
type System struct {
	Limits    Thresholds
	Power     PowerState
	Countdown Countdown
}

// NewSystem returns a power-up context.
func NewSystem(limits Thresholds, cd Countdown) *System {
	return &System{Limits: limits, Countdown: cd}
}

// CountdownActive reports whether a countdown is running or waiting for '#'.
func (s *System) CountdownActive() bool {
	return s.Countdown != nil && s.Countdown.InProgress()
}
