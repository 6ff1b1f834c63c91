package config

import "loadctl-go/services/hal"

// Pico wiring: relays GP2..GP4, level LEDs GP6..GP9, external power sense
// GP10, keypad GP11..GP17, battery on ADC0 (GP26), LCD on I2C0 GP20/GP21.
var picoPins = hal.PinPlan{
	Load:        2,
	Charge:      3,
	Buzzer:      4,
	Levels:      [4]int{6, 7, 8, 9},
	ExtPower:    10,
	KeypadDrive: [4]int{11, 12, 13, 14},
	KeypadSense: [3]int{15, 16, 17},
}

var embeddedBoards = map[string]Board{
	"pico": {
		Name:         "pico",
		MaxVoltage:   12.0,
		SOCLimit:     50,
		PromptCycles: 5000,
		LCDAddr:      0x27,
		ADCFullScale: 0xFFFF,
		Pins:         picoPins,
	},
	// Host simulator: 10-bit ADC scale, same wiring.
	"sim": {
		Name:         "sim",
		MaxVoltage:   12.0,
		SOCLimit:     50,
		PromptCycles: 5000,
		LCDAddr:      0x27,
		ADCFullScale: 1023,
		Pins:         picoPins,
	},
}
