package compactls

import "math"

// quantize scales v by 10^p and rounds to the nearest integer, ties away
// from zero (math.Round). NaN, infinities and values outside ±MaxQuantized
// fail with ErrPrecisionOverflow.
func quantize(v float64, p Precision) (int64, error) {
	scaled := math.Round(v * p.factor())
	if math.IsNaN(scaled) || scaled > float64(MaxQuantized) || scaled < -float64(MaxQuantized) {
		return 0, ErrPrecisionOverflow
	}
	return int64(scaled), nil
}

// dequantize is the sole source of representational error: the quantized
// integer maps back to the nearest float64 of q/10^p, within half a unit of
// the last retained digit of the original coordinate.
func dequantize(q int64, p Precision) float64 {
	return float64(q) / p.factor()
}
