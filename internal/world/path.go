package world

// BeltPath is the transport path a placed belt is registered to. Internal
// item movement along the path belongs to the belt simulation, not the
// transfer engine; all the engine needs is the acceptance surface and the
// capacity-based backpressure it produces.
type BeltPath struct {
	ID       int32
	Capacity int
	Items    []int32
}

// CanAccept is the side-effect-free room check.
func (p *BeltPath) CanAccept() bool {
	return len(p.Items) < p.Capacity
}

// TryAccept commits an item onto the tail of the path.
func (p *BeltPath) TryAccept(item int32) bool {
	if item == 0 || !p.CanAccept() {
		return false
	}
	p.Items = append(p.Items, item)
	return true
}

// Drain removes and returns the head item (0 if empty). Exercised by the
// belt simulation collaborator.
func (p *BeltPath) Drain() int32 {
	if len(p.Items) == 0 {
		return 0
	}
	head := p.Items[0]
	p.Items = p.Items[1:]
	return head
}

// PathRegistry owns all belt paths. IDs start at 1; 0 means "unassigned"
// on a Belt component and is a placement invariant violation if seen by
// the handover dispatcher.
type PathRegistry struct {
	paths  map[int32]*BeltPath
	nextID int32
}

func NewPathRegistry() *PathRegistry {
	return &PathRegistry{paths: make(map[int32]*BeltPath, 64)}
}

// Create registers a new path with the given item capacity.
func (r *PathRegistry) Create(capacity int) *BeltPath {
	r.nextID++
	p := &BeltPath{ID: r.nextID, Capacity: capacity}
	r.paths[p.ID] = p
	return p
}

// Get returns the path for an ID, or nil.
func (r *PathRegistry) Get(id int32) *BeltPath {
	return r.paths[id]
}

// Delete removes a path (its belt was torn down).
func (r *PathRegistry) Delete(id int32) {
	delete(r.paths, id)
}
