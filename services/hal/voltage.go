package hal

// VoltageSource reports the battery voltage in volts.
type VoltageSource interface {
	BatteryVoltage() float32
}

// ScaledADC converts a raw ADC reading in [0, FullScale] to [0, MaxVoltage].
type ScaledADC struct {
	Read       func() uint16
	FullScale  uint16
	MaxVoltage float32
}

func (a ScaledADC) BatteryVoltage() float32 {
	if a.Read == nil || a.FullScale == 0 {
		return 0
	}
	return float32(a.Read()) * a.MaxVoltage / float32(a.FullScale)
}
