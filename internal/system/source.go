package system

import (
	"time"

	"github.com/fabgrid/engine/internal/core/ecs"
	coresys "github.com/fabgrid/engine/internal/core/system"
	"github.com/fabgrid/engine/internal/world"
)

// SourceSystem loads produced items into source buildings' own ejector
// slots (miners, spawners). Phase 2 (PostUpdate): production lands after
// this tick's transfers, so a freshly produced item starts its transfer at
// progress 0 on the next tick.
type SourceSystem struct {
	state *world.State
}

func NewSourceSystem(state *world.State) *SourceSystem {
	return &SourceSystem{state: state}
}

func (s *SourceSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *SourceSystem) Update(_ time.Duration) {
	s.state.EachInOrder(func(id ecs.EntityID) {
		src, ok := s.state.Sources.Get(id)
		if !ok {
			return
		}
		if src.Countdown > 0 {
			src.Countdown--
			return
		}
		ej, ok := s.state.Ejectors.Get(id)
		if !ok {
			return
		}
		for i := range ej.Slots {
			if ej.Slots[i].Item == 0 {
				ej.Slots[i].SetItem(src.Item)
				src.Countdown = src.IntervalTicks
				return
			}
		}
		// All slots occupied: hold production until one frees up.
	})
}
