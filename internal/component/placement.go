package component

import "github.com/fabgrid/engine/internal/geom"

// Placement carries a placed building's tile-space transform: origin tile,
// unrotated footprint, and clockwise rotation. All slot coordinates stored
// on other components are local (pre-rotation); this component owns the
// conversion to and from world space.
type Placement struct {
	Origin   geom.Tile
	Width    int32 // unrotated footprint
	Height   int32
	Rotation geom.Rotation
}

// rotatedSize returns the footprint after rotation.
func (p *Placement) rotatedSize() (w, h int32) {
	if p.Rotation == geom.Rot90 || p.Rotation == geom.Rot270 {
		return p.Height, p.Width
	}
	return p.Width, p.Height
}

// LocalToWorldTile maps a local tile offset to a world tile. Rotation is
// about the footprint, keeping every local tile inside TileSpaceBounds for
// all four rotations.
func (p *Placement) LocalToWorldTile(local geom.Tile) geom.Tile {
	var rx, ry int32
	switch p.Rotation {
	case geom.Rot0:
		rx, ry = local.X, local.Y
	case geom.Rot90:
		rx, ry = p.Height-1-local.Y, local.X
	case geom.Rot180:
		rx, ry = p.Width-1-local.X, p.Height-1-local.Y
	case geom.Rot270:
		rx, ry = local.Y, p.Width-1-local.X
	}
	return geom.Tile{X: p.Origin.X + rx, Y: p.Origin.Y + ry}
}

// WorldToLocalTile inverts LocalToWorldTile. The result is only meaningful
// for tiles within TileSpaceBounds.
func (p *Placement) WorldToLocalTile(world geom.Tile) geom.Tile {
	rx := world.X - p.Origin.X
	ry := world.Y - p.Origin.Y
	switch p.Rotation {
	case geom.Rot90:
		return geom.Tile{X: ry, Y: p.Height - 1 - rx}
	case geom.Rot180:
		return geom.Tile{X: p.Width - 1 - rx, Y: p.Height - 1 - ry}
	case geom.Rot270:
		return geom.Tile{X: p.Width - 1 - ry, Y: rx}
	}
	return geom.Tile{X: rx, Y: ry}
}

// LocalDirectionToWorld rotates a local direction into world space.
func (p *Placement) LocalDirectionToWorld(d geom.Direction) geom.Direction {
	return d.Rotated(p.Rotation)
}

// WorldDirectionToLocal rotates a world direction into local space.
func (p *Placement) WorldDirectionToLocal(d geom.Direction) geom.Direction {
	return d.Unrotated(p.Rotation)
}

// TileSpaceBounds is the world-space rectangle of occupied tiles.
func (p *Placement) TileSpaceBounds() geom.Rect {
	w, h := p.rotatedSize()
	return geom.RectFromTiles(p.Origin, w, h)
}
