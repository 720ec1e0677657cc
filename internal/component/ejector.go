package component

import (
	"github.com/fabgrid/engine/internal/core/ecs"
	"github.com/fabgrid/engine/internal/geom"
)

// CacheState distinguishes "never computed" from "computed, no connections".
// A stale cache must not be conflated with a legitimately empty one: the
// transfer scheduler skips stale ejectors entirely until the next recompute.
type CacheState uint8

const (
	CacheStale CacheState = iota // needs recompute (initial state, or invalidated)
	CacheEmpty                   // computed: no slot has a target
	CacheReady                   // computed: Connected lists slots with targets
)

// EjectorSlot is one output port. Pos and Dir are local (pre-rotation).
// Item 0 means empty. Progress is the normalized [0,1] transfer scalar; it
// only moves forward within a tick and resets to 0 when a new item is set.
// Target/TargetSlot are the cached downstream link; Target is a generational
// ID and may be stale between invalidation and recompute.
type EjectorSlot struct {
	Pos geom.Tile
	Dir geom.Direction

	Item     int32
	Progress float64

	Target     ecs.EntityID
	TargetSlot int
}

// SetItem places a new item into the slot and restarts its transfer.
func (s *EjectorSlot) SetItem(item int32) {
	s.Item = item
	s.Progress = 0
}

// ClearItem removes the item. Progress is deliberately left where it is:
// it only resets when the next item is placed, keeping it monotonic within
// the slot's occupied span.
func (s *EjectorSlot) ClearItem() {
	s.Item = 0
}

// Ejector owns a building's output slots and the connectivity cache over
// them. Connected holds indices into Slots and is only meaningful when
// Cache == CacheReady.
type Ejector struct {
	Slots     []EjectorSlot
	Cache     CacheState
	Connected []int
}

// Invalidate drops the connectivity cache back to the stale state. Cached
// per-slot targets are kept (they are re-resolved on recompute; the
// scheduler does not read them while stale).
func (e *Ejector) Invalidate() {
	e.Cache = CacheStale
	e.Connected = e.Connected[:0]
}

// RenderProgress positions an in-flight item for presentation: the world
// tile the item is drawn over and the fractional offset toward the target
// tile. The first half of the transfer crosses the ejector's own tile edge,
// the second half enters the neighbor, so offset spans [-0.5, +0.5) around
// the boundary at progress 0.5.
func RenderProgress(p *Placement, slot *EjectorSlot) (tile geom.Tile, dir geom.Direction, offset float64) {
	tile = p.LocalToWorldTile(slot.Pos)
	dir = p.LocalDirectionToWorld(slot.Dir)
	offset = slot.Progress - 0.5
	return tile, dir, offset
}
