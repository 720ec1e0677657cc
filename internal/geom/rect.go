package geom

import "fmt"

// Rect is an axis-aligned tile rectangle. Min is inclusive, Max is exclusive.
type Rect struct {
	MinX int32
	MinY int32
	MaxX int32
	MaxY int32
}

// RectFromTiles builds the rectangle covering origin plus a w×h footprint.
func RectFromTiles(origin Tile, w, h int32) Rect {
	return Rect{
		MinX: origin.X,
		MinY: origin.Y,
		MaxX: origin.X + w,
		MaxY: origin.Y + h,
	}
}

func (r Rect) Empty() bool {
	return r.MaxX <= r.MinX || r.MaxY <= r.MinY
}

func (r Rect) Contains(t Tile) bool {
	return t.X >= r.MinX && t.X < r.MaxX && t.Y >= r.MinY && t.Y < r.MaxY
}

// Expanded grows the rectangle by margin tiles on every side.
func (r Rect) Expanded(margin int32) Rect {
	return Rect{
		MinX: r.MinX - margin,
		MinY: r.MinY - margin,
		MaxX: r.MaxX + margin,
		MaxY: r.MaxY + margin,
	}
}

// Union returns the smallest rectangle covering both r and o. The result
// over-approximates disjoint inputs, which is what the invalidation region
// wants: a single rectangle per batch of edits.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	u := r
	if o.MinX < u.MinX {
		u.MinX = o.MinX
	}
	if o.MinY < u.MinY {
		u.MinY = o.MinY
	}
	if o.MaxX > u.MaxX {
		u.MaxX = o.MaxX
	}
	if o.MaxY > u.MaxY {
		u.MaxY = o.MaxY
	}
	return u
}

// Tiles calls fn for every tile in the rectangle, row by row.
func (r Rect) Tiles(fn func(Tile)) {
	for y := r.MinY; y < r.MaxY; y++ {
		for x := r.MinX; x < r.MaxX; x++ {
			fn(Tile{X: x, Y: y})
		}
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d)x[%d,%d)", r.MinX, r.MaxX, r.MinY, r.MaxY)
}
