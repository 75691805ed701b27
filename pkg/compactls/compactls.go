// Package compactls implements a lossy, size-reducing encoding for 2D line
// strings. Coordinates are quantized to a fixed number of decimal digits,
// consecutive points are delta-encoded in the quantized integer space, and
// the deltas are serialized as variable-length integers. A typical
// geographic polyline shrinks from 16 bytes per point to roughly 4.
package compactls

import "fmt"

var ErrInvalidPrecision = fmt.Errorf("precision outside the supported digit range")
var ErrPrecisionOverflow = fmt.Errorf("scaled coordinate exceeds the supported integer range")
var ErrTruncated = fmt.Errorf("varint continuation past the end of the buffer")
var ErrCorruptData = fmt.Errorf("declared point count disagrees with the encoded body")

// Precision is the number of decimal digits retained by quantization.
type Precision uint8

const (
	// PrecisionMetric keeps 2 digits, enough for centimetre resolution in
	// metric CRS like Pseudo-Mercator (EPSG:3857).
	PrecisionMetric Precision = 2

	// PrecisionAngular keeps 7 digits, needed for lat/lon coordinates
	// (WGS-84, EPSG:4326).
	PrecisionAngular Precision = 7

	// MaxPrecision bounds the digit range so that realistic coordinate
	// magnitudes scaled by 10^p stay inside the quantized integer range.
	MaxPrecision Precision = 9
)

// MaxQuantized bounds the quantized integer space to ±2^53 so that every
// quantized value survives the float64 division performed on decode.
const MaxQuantized int64 = 1 << 53

func (p Precision) valid() bool {
	return p <= MaxPrecision
}

var pow10 = [MaxPrecision + 1]float64{1, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9}

// factor returns 10^p.
func (p Precision) factor() float64 {
	return pow10[p]
}

// PointError reports which coordinate pair made an encode fail.
type PointError struct {
	Index int
	Err   error
}

func (e *PointError) Error() string {
	return fmt.Sprintf("point %d: %v", e.Index, e.Err)
}

func (e *PointError) Unwrap() error {
	return e.Err
}
