package conv

// Tenths writes v as "<int>.<d>" followed by unit (unit 0 => none).
// The decimal is truncated, not rounded. Negative values clamp to zero.
// buf should be length >= 24.
func Tenths(buf []byte, v float32, unit byte) []byte {
	if v < 0 {
		v = 0
	}
	whole := uint64(v)
	frac := byte(uint64((v-float32(whole))*10) % 10)

	i := len(buf)
	if unit != 0 && i > 0 {
		i--
		buf[i] = unit
	}
	if i < 2 {
		return buf[:0]
	}
	i--
	buf[i] = '0' + frac
	i--
	buf[i] = '.'
	digits := Utoa(buf[:i], whole)
	n := len(digits)
	return buf[i-n:]
}
