package system

import (
	"github.com/fabgrid/engine/internal/core/event"
	"github.com/fabgrid/engine/internal/geom"
)

// invalidationMargin is the expansion applied around a changed footprint.
// 2 tiles exceeds the maximum slot-to-neighbor distance (1 tile) plus
// footprint slack, so every ejector whose target tile touches the change is
// inside the expanded rectangle.
const invalidationMargin = 2

// Scope says what a consumed invalidation covers.
type Scope uint8

const (
	ScopeNone Scope = iota // nothing pending
	ScopeRect              // recompute the returned rectangle
	ScopeAll               // full-world recompute (post load)
)

// Tracker accumulates the region whose ejector connectivity must be
// rebuilt. All pending changes merge into a single rectangle, keeping each
// placement/removal event O(1) no matter how large the batch is: drag
// placement can fire several events per user action. Over-approximation is
// fine; dropping area is not.
type Tracker struct {
	pending    geom.Rect
	hasPending bool
	full       bool
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Attach subscribes the tracker to the placement lifecycle events.
func (t *Tracker) Attach(bus *event.Bus) {
	event.Subscribe(bus, func(ev event.EntityPlaced) { t.Notify(ev.Bounds) })
	event.Subscribe(bus, func(ev event.EntityRemoved) { t.Notify(ev.Bounds) })
	event.Subscribe(bus, func(event.WorldLoaded) { t.MarkAll() })
}

// Notify merges an entity's changed footprint, expanded by the margin, into
// the pending rectangle.
func (t *Tracker) Notify(bounds geom.Rect) {
	if bounds.Empty() {
		return
	}
	area := bounds.Expanded(invalidationMargin)
	if t.hasPending {
		t.pending = t.pending.Union(area)
	} else {
		t.pending = area
		t.hasPending = true
	}
}

// MarkAll requests a full-world recompute, superseding any pending
// rectangle. Used once after world load.
func (t *Tracker) MarkAll() {
	t.full = true
	t.hasPending = false
}

// Consume returns the pending work and clears the tracker.
func (t *Tracker) Consume() (geom.Rect, Scope) {
	if t.full {
		t.full = false
		t.hasPending = false
		return geom.Rect{}, ScopeAll
	}
	if !t.hasPending {
		return geom.Rect{}, ScopeNone
	}
	r := t.pending
	t.pending = geom.Rect{}
	t.hasPending = false
	return r, ScopeRect
}
