package component

import "github.com/fabgrid/engine/internal/geom"

// AcceptorSlot is one input port. Pos is local (pre-rotation); Sides lists
// the local sides items may arrive from. Filter restricts the accepted item
// kind ("" accepts anything).
type AcceptorSlot struct {
	Pos    geom.Tile
	Sides  []geom.Direction
	Filter string

	// LastAcceptedTick is presentation/bookkeeping state updated by the
	// OnItemAccepted commit; receivers may read it for input animations.
	LastAcceptedTick uint64
}

// Acceptor exposes a building's input slots and the matching query the
// transfer engine resolves connections against.
type Acceptor struct {
	Slots []AcceptorSlot
}

// SlotMatch is the result of a successful FindMatchingSlot query.
// AcceptedDir is the local side the item arrives through; callers that need
// the world direction rotate it through the entity's placement.
type SlotMatch struct {
	SlotIndex   int
	AcceptedDir geom.Direction
}

// FindMatchingSlot returns the input slot at localTile that accepts items
// travelling in localDir (both already in this entity's local space).
// An item travelling in direction d arrives through the tile side opposite
// to d. Recomputed from scratch on every call; no state.
func (a *Acceptor) FindMatchingSlot(localTile geom.Tile, localDir geom.Direction) (SlotMatch, bool) {
	arrival := localDir.Opposite()
	for i := range a.Slots {
		s := &a.Slots[i]
		if s.Pos != localTile {
			continue
		}
		for _, side := range s.Sides {
			if side == arrival {
				return SlotMatch{SlotIndex: i, AcceptedDir: arrival}, true
			}
		}
	}
	return SlotMatch{}, false
}

// FilterAccepts reports whether the slot's kind filter admits the item kind.
func (a *Acceptor) FilterAccepts(slotIndex int, itemKind string) bool {
	if slotIndex < 0 || slotIndex >= len(a.Slots) {
		return false
	}
	f := a.Slots[slotIndex].Filter
	return f == "" || f == itemKind
}

// OnItemAccepted is the mutating commit hook invoked after a successful
// handover into slotIndex.
func (a *Acceptor) OnItemAccepted(slotIndex int, tick uint64) {
	if slotIndex >= 0 && slotIndex < len(a.Slots) {
		a.Slots[slotIndex].LastAcceptedTick = tick
	}
}
