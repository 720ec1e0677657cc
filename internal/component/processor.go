package component

// Processor is a crafting receiver with one single-item input buffer per
// acceptor slot. What the processor does with its inputs is outside the
// transfer engine; the buffers exist so handover has somewhere to commit to.
type Processor struct {
	Inputs []int32 // item ID per slot index, 0 = empty
}

func NewProcessor(slots int) *Processor {
	return &Processor{Inputs: make([]int32, slots)}
}

// CanTake reports whether the input buffer for the slot is free.
func (p *Processor) CanTake(slotIndex int) bool {
	return slotIndex >= 0 && slotIndex < len(p.Inputs) && p.Inputs[slotIndex] == 0
}

// TryTake commits an item into the slot's input buffer.
func (p *Processor) TryTake(item int32, slotIndex int) bool {
	if item == 0 || !p.CanTake(slotIndex) {
		return false
	}
	p.Inputs[slotIndex] = item
	return true
}
