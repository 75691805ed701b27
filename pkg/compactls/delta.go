package compactls

// deltaPairEncoder turns a sequence of quantized (x, y) points into
// componentwise differences. The first call returns the point itself, a
// delta from the implicit (0, 0) origin. Axes never interact.
type deltaPairEncoder struct {
	previous [2]int64
}

func (e *deltaPairEncoder) Encode(x, y int64) (dx, dy int64) {
	dx, dy = x-e.previous[0], y-e.previous[1]
	e.previous = [2]int64{x, y}
	return dx, dy
}

// deltaPairDecoder reverses deltaPairEncoder by keeping a running sum.
type deltaPairDecoder struct {
	previous [2]int64
}

func (d *deltaPairDecoder) Decode(dx, dy int64) (x, y int64) {
	d.previous = [2]int64{d.previous[0] + dx, d.previous[1] + dy}
	return d.previous[0], d.previous[1]
}
