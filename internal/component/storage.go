package component

// Storage is a buffer receiver: a flat item-count store with a capacity.
type Storage struct {
	Capacity int32
	Count    int32
	Items    map[int32]int32 // item ID → stored count
}

func NewStorage(capacity int32) *Storage {
	return &Storage{
		Capacity: capacity,
		Items:    make(map[int32]int32, 8),
	}
}

// CanTake is the side-effect-free capacity check.
func (s *Storage) CanTake(item int32) bool {
	return item != 0 && s.Count < s.Capacity
}

// Take commits one item into the buffer. Callers check CanTake first; Take
// on a full buffer is a no-op returning false.
func (s *Storage) Take(item int32) bool {
	if !s.CanTake(item) {
		return false
	}
	s.Items[item]++
	s.Count++
	return true
}
