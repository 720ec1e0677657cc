package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/fabgrid/engine/internal/component"
	"github.com/fabgrid/engine/internal/core/ecs"
	coresys "github.com/fabgrid/engine/internal/core/system"
	"github.com/fabgrid/engine/internal/data"
	"github.com/fabgrid/engine/internal/scripting"
	"github.com/fabgrid/engine/internal/world"
)

// TransferSystem advances ejector slot progress and hands completed items
// over to their cached targets. Phase 1 (Update).
//
// Each tick it first folds any pending invalidation into the connectivity
// cache, then derives a single progress growth scalar from the Lua belt
// speed formula (uniform belt speed: all slots share it), then walks
// entities in registration order. Declined handovers park the item at
// progress 1 and retry next tick; the one-tick propagation delay through
// chained entities is the backpressure mechanism, not an error.
type TransferSystem struct {
	state      *world.State
	tracker    *Tracker
	conn       *Connectivity
	lua        *scripting.Engine
	items      *data.ItemTable
	journal    *Journal // nil when persistence is disabled
	log        *zap.Logger
	tickRateHz float64
}

func NewTransferSystem(state *world.State, tracker *Tracker, conn *Connectivity, lua *scripting.Engine, items *data.ItemTable, journal *Journal, log *zap.Logger, tickRateHz float64) *TransferSystem {
	return &TransferSystem{
		state:      state,
		tracker:    tracker,
		conn:       conn,
		lua:        lua,
		items:      items,
		journal:    journal,
		log:        log,
		tickRateHz: tickRateHz,
	}
}

func (s *TransferSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *TransferSystem) Update(dt time.Duration) {
	// Fold pending invalidation into the cache before any advancement, so
	// the tick never reads links across tiles that changed last tick.
	switch rect, scope := s.tracker.Consume(); scope {
	case ScopeAll:
		s.conn.RecomputeAll()
		s.log.Debug("full connectivity recompute", zap.Uint64("tick", s.state.Tick))
	case ScopeRect:
		s.conn.RecomputeRegion(rect)
	}

	speed := s.lua.CalcBeltSpeed(scripting.SpeedContext{Tier: s.state.BeltSpeedTier})
	growth := speed * dt.Seconds()

	s.state.EachInOrder(func(id ecs.EntityID) {
		ej, ok := s.state.Ejectors.Get(id)
		if !ok || ej.Cache != component.CacheReady {
			return
		}
		for _, si := range ej.Connected {
			s.advanceSlot(id, &ej.Slots[si], growth)
		}
	})
}

func (s *TransferSystem) advanceSlot(source ecs.EntityID, slot *component.EjectorSlot, growth float64) {
	if slot.Item == 0 {
		return
	}

	slot.Progress += growth
	if slot.Progress > 1 {
		slot.Progress = 1
	}
	if slot.Progress < 1 {
		return // still mid-transfer
	}

	target := slot.Target
	if target.IsZero() || !s.state.Entities.Alive(target) {
		// Stale cache: the target died since the last recompute and
		// invalidation has not caught up yet. Behave as if the slot had no
		// target; the next recompute corrects the cache.
		return
	}

	// Capability check and handover run back-to-back on the game loop
	// goroutine; nothing can mutate the receiver between the two calls.
	if !s.canAccept(target, slot.TargetSlot, slot.Item) {
		return // backpressure: retry next tick, item stays parked at 1
	}
	if !s.tryHandover(slot.Item, target, slot.TargetSlot) {
		// The capability gave room but its inner buffer still declined
		// (e.g. a path that filled within this tick). Same retry policy.
		return
	}

	if acc, ok := s.state.Acceptors.Get(target); ok {
		acc.OnItemAccepted(slot.TargetSlot, s.state.Tick)
	}
	if s.journal != nil {
		s.journal.Append(TransferRecord{
			Tick: s.state.Tick,
			From: source,
			To:   target,
			Item: slot.Item,
		})
	}
	slot.ClearItem() // progress stays at 1 until the next item resets it
}

// canAccept is the side-effect-free test for whether the target can
// currently receive the item into the cached slot: the acceptor's kind
// filter plus the capacity of at least one receiver capability.
func (s *TransferSystem) canAccept(target ecs.EntityID, slotIndex int, item int32) bool {
	acc, ok := s.state.Acceptors.Get(target)
	if !ok {
		return false
	}
	if !acc.FilterAccepts(slotIndex, s.items.KindOf(item)) {
		return false
	}

	if belt, ok := s.state.Belts.Get(target); ok {
		if path := s.beltPath(target, belt); path.CanAccept() {
			return true
		}
	}
	if st, ok := s.state.Storages.Get(target); ok && st.CanTake(item) {
		return true
	}
	if pr, ok := s.state.Processors.Get(target); ok && pr.CanTake(slotIndex) {
		return true
	}
	if ug, ok := s.state.Undergrounds.Get(target); ok {
		ugSpeed := s.lua.CalcUndergroundSpeed(scripting.SpeedContext{Tier: ug.Tier})
		if ug.CanAcceptExternal(s.state.Tick, s.tickRateHz, ugSpeed) {
			return true
		}
	}
	if gen, ok := s.state.Generators.Get(target); ok && gen.CanTake(s.items.KindOf(item)) {
		return true
	}
	return false
}
