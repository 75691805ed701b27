package compactls

import (
	"encoding/binary"

	"github.com/ZaninAndrea/compactls/pkg/geometry"
)

// CompLs is an immutable compact encoding of a line string:
//
//	byte[0]               precision (0–9)
//	uvarint               point count
//	point count times:
//	  varint              zigzag(delta x)
//	  varint              zigzag(delta y)
//
// The first point's deltas are its absolute quantized coordinates. An empty
// line string encodes to the minimal 2-byte buffer. Encoding is
// deterministic: the same line string and precision always produce
// byte-identical output.
type CompLs struct {
	coords []byte
}

// NewCompLs builds a container from an existing encoding, validating its
// structure up front: header present, every declared varint readable, no
// trailing bytes. The input slice is copied.
func NewCompLs(raw []byte) (CompLs, error) {
	c := CompLs{coords: append([]byte(nil), raw...)}
	if err := c.validate(); err != nil {
		return CompLs{}, err
	}
	return c, nil
}

// TryCompact encodes a line string at the given precision. It fails with
// ErrInvalidPrecision before any point is processed, or with a PointError
// wrapping ErrPrecisionOverflow naming the first coordinate whose scaled
// magnitude leaves the quantized integer range.
func TryCompact(ls geometry.LineString, p Precision) (CompLs, error) {
	if !p.valid() {
		return CompLs{}, ErrInvalidPrecision
	}

	buf := make([]byte, 0, 2+8*len(ls))
	buf = append(buf, byte(p))
	buf = binary.AppendUvarint(buf, uint64(len(ls)))

	var encoder deltaPairEncoder
	for i, c := range ls {
		qx, err := quantize(c.X, p)
		if err != nil {
			return CompLs{}, &PointError{Index: i, Err: err}
		}

		qy, err := quantize(c.Y, p)
		if err != nil {
			return CompLs{}, &PointError{Index: i, Err: err}
		}

		dx, dy := encoder.Encode(qx, qy)
		buf = appendSigned(buf, dx)
		buf = appendSigned(buf, dy)
	}

	return CompLs{coords: buf}, nil
}

// TryCompact2 encodes at 2-digit precision, suited to metric CRS.
func TryCompact2(ls geometry.LineString) (CompLs, error) {
	return TryCompact(ls, PrecisionMetric)
}

// TryCompact7 encodes at 7-digit precision, suited to lat/lon CRS.
func TryCompact7(ls geometry.LineString) (CompLs, error) {
	return TryCompact(ls, PrecisionAngular)
}

// Linestring decodes the container back into a line string. Each coordinate
// is reproduced within 0.5×10^-p of the encoded value. Structural
// inconsistencies fail with ErrTruncated or ErrCorruptData, never with a
// silently wrong result.
func (c CompLs) Linestring() (geometry.LineString, error) {
	p, count, pos, err := c.parseHeader()
	if err != nil {
		return nil, err
	}

	ls := make(geometry.LineString, 0, count)
	var decoder deltaPairDecoder
	for i := uint64(0); i < count; i++ {
		var dx, dy int64

		if pos >= len(c.coords) {
			return nil, ErrCorruptData
		}
		dx, pos, err = consumeSigned(c.coords, pos)
		if err != nil {
			return nil, err
		}

		if pos >= len(c.coords) {
			return nil, ErrCorruptData
		}
		dy, pos, err = consumeSigned(c.coords, pos)
		if err != nil {
			return nil, err
		}

		x, y := decoder.Decode(dx, dy)
		ls = append(ls, geometry.Coord{
			X: dequantize(x, p),
			Y: dequantize(y, p),
		})
	}

	if pos != len(c.coords) {
		return nil, ErrCorruptData
	}

	return ls, nil
}

// Size returns the number of coordinate pairs declared by the encoding, or
// 0 if the header is unreadable.
func (c CompLs) Size() int {
	_, count, _, err := c.parseHeader()
	if err != nil {
		return 0
	}
	return int(count)
}

// Precision returns the number of decimal digits the container was encoded
// with.
func (c CompLs) Precision() Precision {
	if len(c.coords) == 0 {
		return 0
	}
	return Precision(c.coords[0])
}

// Bytes returns a copy of the encoded buffer.
func (c CompLs) Bytes() []byte {
	return append([]byte(nil), c.coords...)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (c CompLs) MarshalBinary() ([]byte, error) {
	return c.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, validating the
// buffer the same way NewCompLs does.
func (c *CompLs) UnmarshalBinary(data []byte) error {
	decoded, err := NewCompLs(data)
	if err != nil {
		return err
	}
	*c = decoded
	return nil
}

func (c CompLs) parseHeader() (Precision, uint64, int, error) {
	if len(c.coords) == 0 {
		return 0, 0, 0, ErrCorruptData
	}

	p := Precision(c.coords[0])
	if !p.valid() {
		return 0, 0, 0, ErrInvalidPrecision
	}

	count, pos, err := consumeUnsigned(c.coords, 1)
	if err != nil {
		return 0, 0, 0, err
	}

	return p, count, pos, nil
}

// validate walks the whole buffer without materializing coordinates.
func (c CompLs) validate() error {
	_, count, pos, err := c.parseHeader()
	if err != nil {
		return err
	}

	for i := uint64(0); i < 2*count; i++ {
		if pos >= len(c.coords) {
			return ErrCorruptData
		}
		_, pos, err = consumeSigned(c.coords, pos)
		if err != nil {
			return err
		}
	}

	if pos != len(c.coords) {
		return ErrCorruptData
	}

	return nil
}
