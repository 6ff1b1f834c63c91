package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PercentOf returns v/full*100 clamped to [0, 100]. full <= 0 yields 0.
func PercentOf[T constraints.Float](v, full T) T {
	if full <= 0 {
		return 0
	}
	return Clamp(v/full*100, 0, 100)
}
