package compactls

import "encoding/binary"

// Signed values are serialized with binary.AppendVarint, which zig-zag
// transforms the value (small magnitudes of either sign stay small) and
// emits 7-bit groups, low-order first, with the high bit as continuation.

func appendSigned(buf []byte, v int64) []byte {
	return binary.AppendVarint(buf, v)
}

// consumeSigned decodes one signed varint starting at pos and returns the
// value together with the position just past it. ErrTruncated is returned
// when the buffer ends while the continuation bit is still set,
// ErrCorruptData when the continuation chain overflows 64 bits.
func consumeSigned(buf []byte, pos int) (int64, int, error) {
	v, n := binary.Varint(buf[pos:])
	if n == 0 {
		return 0, pos, ErrTruncated
	}
	if n < 0 {
		return 0, pos, ErrCorruptData
	}
	return v, pos + n, nil
}

func consumeUnsigned(buf []byte, pos int) (uint64, int, error) {
	v, n := binary.Uvarint(buf[pos:])
	if n == 0 {
		return 0, pos, ErrTruncated
	}
	if n < 0 {
		return 0, pos, ErrCorruptData
	}
	return v, pos + n, nil
}
