package domain

import "math"

// CentsRoundHalfUp rounds a fractional cent amount half-up to the nearest
// cent. Amounts in this system are never negative.
func CentsRoundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
