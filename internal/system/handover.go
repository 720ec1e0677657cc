package system

import (
	"fmt"

	"github.com/fabgrid/engine/internal/component"
	"github.com/fabgrid/engine/internal/core/ecs"
	"github.com/fabgrid/engine/internal/scripting"
	"github.com/fabgrid/engine/internal/world"
)

// tryHandover commits an item into the target entity, trying each receiver
// capability it carries in fixed priority order: belt path, storage buffer,
// processor input, underground belt, generator. The first capability that
// accepts wins; declining capabilities leave no state behind. Returning
// false (everything declined) is a normal retryable outcome.
func (s *TransferSystem) tryHandover(item int32, target ecs.EntityID, slotIndex int) bool {
	if belt, ok := s.state.Belts.Get(target); ok {
		if s.beltPath(target, belt).TryAccept(item) {
			return true
		}
	}
	if st, ok := s.state.Storages.Get(target); ok {
		if st.Take(item) {
			return true
		}
	}
	if pr, ok := s.state.Processors.Get(target); ok {
		if pr.TryTake(item, slotIndex) {
			return true
		}
	}
	if ug, ok := s.state.Undergrounds.Get(target); ok {
		ugSpeed := s.lua.CalcUndergroundSpeed(scripting.SpeedContext{Tier: ug.Tier})
		if ug.TryAcceptExternal(item, s.state.Tick, s.tickRateHz, ugSpeed) {
			return true
		}
	}
	if gen, ok := s.state.Generators.Get(target); ok {
		if gen.TryTake(s.items.KindOf(item)) {
			return true
		}
	}
	return false
}

// beltPath resolves a belt's assigned path. A belt that is a handover
// target without a registered path means placement logic is broken and
// items would silently vanish, so this aborts instead of skipping.
func (s *TransferSystem) beltPath(target ecs.EntityID, belt *component.Belt) *world.BeltPath {
	path := s.state.Paths.Get(belt.PathID)
	if path == nil {
		panic(fmt.Sprintf("belt entity %d has no transport path assigned", target))
	}
	return path
}
