package compactls

import "github.com/ZaninAndrea/compactls/pkg/geometry"

// Codec is a fixed-precision serialization adapter meant to be handed to a
// generic serialization layer: Serialize and Deserialize delegate to
// TryCompact and Linestring. Deserialize trusts the precision recorded in
// the buffer header, so a codec can decode buffers produced by the other.
type Codec struct {
	precision Precision
}

// Angular serializes at 7-digit precision (lat/lon coordinates).
var Angular = Codec{precision: PrecisionAngular}

// Metric serializes at 2-digit precision (metric coordinates).
var Metric = Codec{precision: PrecisionMetric}

func (c Codec) Serialize(ls geometry.LineString) ([]byte, error) {
	compact, err := TryCompact(ls, c.precision)
	if err != nil {
		return nil, err
	}
	return compact.Bytes(), nil
}

func (c Codec) Deserialize(data []byte) (geometry.LineString, error) {
	compact, err := NewCompLs(data)
	if err != nil {
		return nil, err
	}
	return compact.Linestring()
}
