package conv

// ParseDigits folds ASCII digits left to right (acc = acc*10 + d).
// Callers bound the input length, so no overflow check is made.
// Non-digit bytes are skipped.
func ParseDigits(s []byte) uint16 {
	var acc uint16
	for _, c := range s {
		if c < '0' || c > '9' {
			continue
		}
		acc = acc*10 + uint16(c-'0')
	}
	return acc
}
