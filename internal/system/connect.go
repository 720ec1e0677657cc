package system

import (
	"github.com/fabgrid/engine/internal/component"
	"github.com/fabgrid/engine/internal/core/ecs"
	"github.com/fabgrid/engine/internal/geom"
	"github.com/fabgrid/engine/internal/world"
)

// Connectivity rebuilds the per-slot downstream links of ejectors. All
// recomputation is driven from the source ejector's neighborhood: an
// acceptor never recomputes on its own, because any change that could
// affect a connection touches a tile inside the source's expanded
// invalidation rectangle.
type Connectivity struct {
	state *world.State
}

func NewConnectivity(state *world.State) *Connectivity {
	return &Connectivity{state: state}
}

// RecomputeEntity rebuilds one entity's ejector cache from scratch.
// Most-recently-computed wins if reinvoked; recomputing an unchanged
// neighborhood is idempotent.
func (c *Connectivity) RecomputeEntity(id ecs.EntityID) {
	ej, ok := c.state.Ejectors.Get(id)
	if !ok {
		return
	}
	place, ok := c.state.Placements.Get(id)
	if !ok {
		return
	}

	ej.Connected = ej.Connected[:0]
	for i := range ej.Slots {
		slot := &ej.Slots[i]
		slot.Target = 0
		slot.TargetSlot = 0

		worldTile := place.LocalToWorldTile(slot.Pos)
		worldDir := place.LocalDirectionToWorld(slot.Dir)
		targetTile := worldTile.Shifted(worldDir)

		targetID, ok := c.state.OccupantAt(targetTile)
		if !ok || targetID == id {
			continue // dead end, not an error
		}
		acc, ok := c.state.Acceptors.Get(targetID)
		if !ok {
			continue
		}
		targetPlace, ok := c.state.Placements.Get(targetID)
		if !ok {
			continue
		}

		localTile := targetPlace.WorldToLocalTile(targetTile)
		localDir := targetPlace.WorldDirectionToLocal(worldDir)
		match, ok := acc.FindMatchingSlot(localTile, localDir)
		if !ok {
			continue
		}

		slot.Target = targetID
		slot.TargetSlot = match.SlotIndex
		ej.Connected = append(ej.Connected, i)
	}

	if len(ej.Connected) > 0 {
		ej.Cache = component.CacheReady
	} else {
		ej.Cache = component.CacheEmpty
	}
}

// RecomputeRegion rebuilds every ejector-carrying occupant of the
// rectangle. Multi-tile entities are seen once per covered tile, so a
// visited set keyed by entity identity dedupes the work. Ordering across
// tiles carries no inter-entity dependency.
func (c *Connectivity) RecomputeRegion(r geom.Rect) {
	visited := make(map[ecs.EntityID]struct{}, 16)
	c.state.OccupantsInRect(r, func(id ecs.EntityID) {
		if _, seen := visited[id]; seen {
			return
		}
		visited[id] = struct{}{}
		c.RecomputeEntity(id)
	})
}

// RecomputeAll rebuilds the whole world, used once after load.
func (c *Connectivity) RecomputeAll() {
	c.state.EachInOrder(func(id ecs.EntityID) {
		c.RecomputeEntity(id)
	})
}
