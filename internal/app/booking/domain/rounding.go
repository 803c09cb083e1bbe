package domain

import "math"

// Round2 rounds a monetary amount to 2 decimals (half away from zero).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds an intermediate amount to 4 decimals (half away from zero).
// Line totals are kept at 4 decimals so that VAT application on the sum
// does not accumulate rounding drift.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
