// drivers/charlcd/lcd.go
package charlcd

import (
	"loadctl-go/errcode"
	"loadctl-go/types"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hd44780i2c"
)

const DefaultAddr = 0x27

// LCD drives an HD44780 behind a PCF8574 I2C backpack. A shadow Frame mirrors
// what was written so the console can echo the screen.
type LCD struct {
	dev    hd44780i2c.Device
	shadow *Frame
}

var _ types.Display = (*LCD)(nil)

func New(bus drivers.I2C, addr uint8) (*LCD, error) {
	if addr == 0 {
		addr = DefaultAddr
	}
	dev := hd44780i2c.New(bus, addr)
	if err := dev.Configure(hd44780i2c.Config{
		Width:  types.DisplayCols,
		Height: types.DisplayRows,
	}); err != nil {
		return nil, errcode.Wrap(errcode.MapDriverErr(err), "charlcd.new", "configure", err)
	}
	dev.ClearDisplay()
	println("[lcd] ready")
	return &LCD{dev: dev, shadow: NewFrame()}, nil
}

func (l *LCD) Clear() {
	l.dev.ClearDisplay()
	l.shadow.Clear()
}

func (l *LCD) WriteTextAt(col, row uint8, text string) {
	l.dev.SetCursor(col, row)
	l.dev.Print([]byte(text))
	l.shadow.WriteTextAt(col, row, text)
}

func (l *LCD) WriteIntAt(col, row uint8, value int, width int) {
	var buf [8]byte
	b := formatInt(buf[:], value, width)
	l.dev.SetCursor(col, row)
	l.dev.Print(b)
	l.shadow.put(col, row, b)
}

// Shadow returns the mirrored contents.
func (l *LCD) Shadow() *Frame { return l.shadow }
