package types

// Thresholds drive the battery policy. SOCLimit is the only field the
// settings menu mutates at runtime. The board profile supplies MaxVoltage
// and the initial SOCLimit; the other fields are always the defaults.
type Thresholds struct {
	SOCLimit      uint8      `json:"soc_limit"`
	Buzzer        float32    `json:"buzzer"`
	ChargeOnBelow float32    `json:"charge_on_below"`
	ChargeOffAt   float32    `json:"charge_off_at"`
	LevelBands    [3]float32 `json:"level_bands"` // descending: A/B, B/C, C/D
	MaxVoltage    float32    `json:"max_voltage"`
}

const (
	DefaultSOCLimit      = 50
	DefaultBuzzer        = 45.0
	DefaultChargeOnBelow = 90.0
	DefaultChargeOffAt   = 95.0
	DefaultMaxVoltage    = 12.0
)

// DefaultThresholds returns the power-up policy values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SOCLimit:      DefaultSOCLimit,
		Buzzer:        DefaultBuzzer,
		ChargeOnBelow: DefaultChargeOnBelow,
		ChargeOffAt:   DefaultChargeOffAt,
		LevelBands:    [3]float32{85, 70, 55},
		MaxVoltage:    DefaultMaxVoltage,
	}
}

// BandFor selects the level indicator; lower bounds are inclusive.
func (t Thresholds) BandFor(soc float32) Band {
	switch {
	case soc >= t.LevelBands[0]:
		return BandA
	case soc >= t.LevelBands[1]:
		return BandB
	case soc >= t.LevelBands[2]:
		return BandC
	default:
		return BandD
	}
}
