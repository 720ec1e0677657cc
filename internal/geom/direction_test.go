package geom

import "testing"

func TestDirectionVector(t *testing.T) {
	cases := []struct {
		dir  Direction
		want Tile
	}{
		{North, Tile{0, -1}},
		{East, Tile{1, 0}},
		{South, Tile{0, 1}},
		{West, Tile{-1, 0}},
	}
	for _, c := range cases {
		if got := c.dir.Vector(); got != c.want {
			t.Errorf("%s.Vector() = %v, want %v", c.dir, got, c.want)
		}
	}
}

func TestDirectionOpposite(t *testing.T) {
	if North.Opposite() != South || South.Opposite() != North {
		t.Error("north/south are not opposites")
	}
	if East.Opposite() != West || West.Opposite() != East {
		t.Error("east/west are not opposites")
	}
}

func TestDirectionRotatedAllCombinations(t *testing.T) {
	// Rotation by quarter turns must match stepping clockwise through the
	// direction order, for all 4 directions × 4 rotations.
	dirs := []Direction{North, East, South, West}
	for _, d := range dirs {
		for _, r := range Rotations {
			want := Direction((uint8(d) + uint8(r)) % 4)
			if got := d.Rotated(r); got != want {
				t.Errorf("%s.Rotated(%d) = %s, want %s", d, r, got, want)
			}
			if back := d.Rotated(r).Unrotated(r); back != d {
				t.Errorf("%s.Rotated(%d).Unrotated = %s, want identity", d, r, back)
			}
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range []Direction{North, East, South, West} {
		got, ok := ParseDirection(d.String())
		if !ok || got != d {
			t.Errorf("ParseDirection(%q) = %v, %v", d.String(), got, ok)
		}
	}
	if _, ok := ParseDirection("up"); ok {
		t.Error("ParseDirection accepted an invalid direction")
	}
}
