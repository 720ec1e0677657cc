package event

import (
	"github.com/fabgrid/engine/internal/core/ecs"
	"github.com/fabgrid/engine/internal/geom"
)

// EntityPlaced fires when a building is placed onto the grid.
type EntityPlaced struct {
	EntityID ecs.EntityID
	Bounds   geom.Rect
}

// EntityRemoved fires when a building is torn down. Bounds are the tiles the
// entity used to occupy; the entity itself is already queued for destruction.
type EntityRemoved struct {
	EntityID ecs.EntityID
	Bounds   geom.Rect
}

// WorldLoaded fires once after a save has been restored (or an initial
// layout spawned) and requests a full connectivity recompute.
type WorldLoaded struct {
	Entities int
}
