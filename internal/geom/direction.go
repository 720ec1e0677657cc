package geom

// Direction is one of the four cardinal directions.
// North is -Y, matching the tile coordinate system (Y grows southward).
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return "invalid"
}

// ParseDirection maps a YAML direction string to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "north":
		return North, true
	case "east":
		return East, true
	case "south":
		return South, true
	case "west":
		return West, true
	}
	return North, false
}

// Vector returns the unit tile offset for the direction.
func (d Direction) Vector() Tile {
	switch d {
	case North:
		return Tile{X: 0, Y: -1}
	case East:
		return Tile{X: 1, Y: 0}
	case South:
		return Tile{X: 0, Y: 1}
	}
	return Tile{X: -1, Y: 0}
}

// Opposite returns the direction rotated by 180 degrees.
func (d Direction) Opposite() Direction {
	return Direction((uint8(d) + 2) % 4)
}

// Rotation is a clockwise building rotation in 90-degree steps.
type Rotation uint8

const (
	Rot0 Rotation = iota
	Rot90
	Rot180
	Rot270
)

// Rotations lists all four values, for exhaustive table tests and spawning.
var Rotations = [4]Rotation{Rot0, Rot90, Rot180, Rot270}

// Rotated applies a clockwise rotation to the direction.
func (d Direction) Rotated(r Rotation) Direction {
	return Direction((uint8(d) + uint8(r)) % 4)
}

// Unrotated inverts Rotated: d.Rotated(r).Unrotated(r) == d.
func (d Direction) Unrotated(r Rotation) Direction {
	return Direction((uint8(d) + 4 - uint8(r)) % 4)
}
