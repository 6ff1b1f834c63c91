package types

// ------------------------
// Battery sample / power outputs
// ------------------------

// BatterySample is recomputed every control tick and never stored.
type BatterySample struct {
	Volts float32 `json:"volts"`
	SOC   float32 `json:"soc_pct"`
}

// Percent is the truncated integer SOC used for limit comparisons.
func (s BatterySample) Percent() uint16 {
	if s.SOC <= 0 {
		return 0
	}
	return uint16(s.SOC)
}

// PowerState mirrors the three relay outputs. Only the battery manager writes it.
type PowerState struct {
	LoadSupplyOn    bool  `json:"load_on"`
	BatteryCharging bool  `json:"charging"`
	BuzzerOn        bool  `json:"buzzer_on"`
	Band            Band  `json:"band"`
	TSms            int64 `json:"ts_ms"`
}

// Same compares the output fields, ignoring the timestamp.
func (p PowerState) Same(o PowerState) bool {
	return p.LoadSupplyOn == o.LoadSupplyOn &&
		p.BatteryCharging == o.BatteryCharging &&
		p.BuzzerOn == o.BuzzerOn &&
		p.Band == o.Band
}

// Band is one of the four mutually exclusive level indicators.
type Band uint8

const (
	BandA Band = iota // soc >= 85
	BandB             // 70 <= soc < 85
	BandC             // 55 <= soc < 70
	BandD             // soc < 55
)

func (b Band) String() string {
	switch b {
	case BandA:
		return "A"
	case BandB:
		return "B"
	case BandC:
		return "C"
	default:
		return "D"
	}
}
