package conv

// PadUint writes the low width decimal digits of n into buf, zero-padded.
// Digits beyond width are dropped, as a fixed-width character field would.
// width is clamped to len(buf).
func PadUint(buf []byte, n uint64, width int) []byte {
	if width > len(buf) {
		width = len(buf)
	}
	if width <= 0 {
		return buf[:0]
	}
	out := buf[len(buf)-width:]
	for i := width - 1; i >= 0; i-- {
		out[i] = byte('0' + n%10)
		n /= 10
	}
	return out
}
