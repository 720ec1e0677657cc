package system

import (
	"time"

	"github.com/fabgrid/engine/internal/core/event"
	coresys "github.com/fabgrid/engine/internal/core/system"
	"github.com/fabgrid/engine/internal/world"
)

// EventDispatchSystem rotates the event bus and delivers last tick's
// events to their subscribers. Phase 0 (PreUpdate). It also owns the world
// tick counter so every later phase sees the same tick number.
type EventDispatchSystem struct {
	state *world.State
	bus   *event.Bus
}

func NewEventDispatchSystem(state *world.State, bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{state: state, bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.state.Tick++
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
