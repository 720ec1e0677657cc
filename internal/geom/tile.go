package geom

import "fmt"

// Tile is an integer tile coordinate (or a local tile offset).
type Tile struct {
	X int32
	Y int32
}

func (t Tile) Add(o Tile) Tile {
	return Tile{X: t.X + o.X, Y: t.Y + o.Y}
}

func (t Tile) Sub(o Tile) Tile {
	return Tile{X: t.X - o.X, Y: t.Y - o.Y}
}

// Shifted returns the neighboring tile one step in the given direction.
func (t Tile) Shifted(d Direction) Tile {
	return t.Add(d.Vector())
}

func (t Tile) String() string {
	return fmt.Sprintf("(%d,%d)", t.X, t.Y)
}
