package analytics

import "math"

// SafePercent returns numerator/denominator on a 0-100 scale, rounded to
// the given number of decimal places. It returns nil when the denominator
// is zero so a zero-volume group reports an absent rate instead of raising
// a division fault or masking it with a sentinel.
func SafePercent(numerator, denominator float64, scale int) *float64 {
	if denominator == 0 {
		return nil
	}
	v := Round(numerator/denominator*100, scale)
	return &v
}

// SafeRatio returns the raw quotient numerator/denominator, or nil when the
// denominator is zero.
func SafeRatio(numerator, denominator float64) *float64 {
	if denominator == 0 {
		return nil
	}
	v := numerator / denominator
	return &v
}

// Round rounds a value to the given number of decimal places.
func Round(value float64, scale int) float64 {
	factor := math.Pow(10, float64(scale))
	return math.Round(value*factor) / factor
}

// Round2 rounds to 2 decimal places, the currency precision used throughout
// the metric records.
func Round2(value float64) float64 {
	return Round(value, 2)
}
