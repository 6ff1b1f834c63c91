package types

// Key is one decoded keypad event.
type Key byte

const (
	KeyNone   Key = 0   // no key within the scan budget
	KeyCancel Key = '#' // cancel / acknowledge
	KeyFunc   Key = '*' // short function press
	KeyHold   Key = '$' // function key held for the full hold window
)

func (k Key) IsDigit() bool { return k >= '0' && k <= '9' }

// Digit returns the numeric value of a digit key.
func (k Key) Digit() uint8 { return uint8(k - '0') }

func (k Key) String() string {
	if k == KeyNone {
		return "none"
	}
	return string(rune(k))
}
