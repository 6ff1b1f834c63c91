package types

// ------------------------
// Countdown
// ------------------------

// Phase of the countdown state machine.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseExpired // waiting for '#'
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseExpired:
		return "expired"
	default:
		return "idle"
	}
}

// CountdownState is a consistent snapshot of the countdown fields.
type CountdownState struct {
	RemainingMinutes uint16 `json:"remaining_min"`
	Seconds          uint8  `json:"seconds"`
	Millis           uint16 `json:"millis"`
	InProgress       bool   `json:"in_progress"`
	Expired          bool   `json:"expired"`
	Seq              uint32 `json:"seq"` // bumps on every visible change
}

func (s CountdownState) Phase() Phase {
	switch {
	case !s.InProgress:
		return PhaseIdle
	case s.Expired:
		return PhaseExpired
	default:
		return PhaseRunning
	}
}

func (s CountdownState) Hours() uint16   { return s.RemainingMinutes / 60 }
func (s CountdownState) Minutes() uint16 { return s.RemainingMinutes % 60 }

// Countdown is the main-loop view of the countdown timer.
type Countdown interface {
	Start(totalMinutes uint16) error
	Terminate()
	Acknowledge() bool
	InProgress() bool
	Snapshot() CountdownState
}
