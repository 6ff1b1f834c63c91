// drivers/charlcd/frame.go
package charlcd

import (
	"sync"

	"loadctl-go/types"
	"loadctl-go/x/conv"
)

// Frame is an in-memory 16x2 character display. Writes past the right edge
// are clipped; rows outside the display are ignored.
type Frame struct {
	mu      sync.Mutex
	cells   [types.DisplayRows][types.DisplayCols]byte
	version uint32
}

var _ types.Display = (*Frame)(nil)

func NewFrame() *Frame {
	f := &Frame{}
	f.blank()
	return f
}

func (f *Frame) blank() {
	for r := range f.cells {
		for c := range f.cells[r] {
			f.cells[r][c] = ' '
		}
	}
}

func (f *Frame) Clear() {
	f.mu.Lock()
	f.blank()
	f.version++
	f.mu.Unlock()
}

func (f *Frame) WriteTextAt(col, row uint8, text string) {
	f.put(col, row, []byte(text))
}

func (f *Frame) WriteIntAt(col, row uint8, value int, width int) {
	var buf [8]byte
	f.put(col, row, formatInt(buf[:], value, width))
}

func (f *Frame) put(col, row uint8, b []byte) {
	if row >= types.DisplayRows {
		return
	}
	f.mu.Lock()
	for i, ch := range b {
		c := int(col) + i
		if c >= types.DisplayCols {
			break
		}
		f.cells[row][c] = ch
	}
	f.version++
	f.mu.Unlock()
}

// Lines returns both rows as strings.
func (f *Frame) Lines() [types.DisplayRows]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [types.DisplayRows]string
	for r := range f.cells {
		out[r] = string(f.cells[r][:])
	}
	return out
}

// Version increments on every mutation.
func (f *Frame) Version() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version
}

// formatInt renders value zero-padded to width (1..5); negatives clamp to 0
// and digits above width are dropped.
func formatInt(buf []byte, value int, width int) []byte {
	if width < 1 {
		width = 1
	}
	if width > 5 {
		width = 5
	}
	if value < 0 {
		value = 0
	}
	return conv.PadUint(buf, uint64(value), width)
}
