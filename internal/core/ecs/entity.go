package ecs

// EntityID packs a 32-bit pool index in the low bits and a 32-bit generation
// in the high bits. Destroying an entity bumps its generation, so any cached
// copy of the old ID dereferences to nothing instead of to the recycled slot.
// The zero value is never allocated and doubles as "no entity".
type EntityID uint64

func MakeEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// Pool allocates entity IDs with generational indices and a free list.
type Pool struct {
	generations []uint32
	free        []uint32
	next        uint32
}

func NewPool() *Pool {
	p := &Pool{
		generations: make([]uint32, 1, 1024),
		free:        make([]uint32, 0, 256),
		next:        1, // index 0 reserved so the zero EntityID stays invalid
	}
	return p
}

func (p *Pool) Create() EntityID {
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		return MakeEntityID(idx, p.generations[idx])
	}
	idx := p.next
	p.next++
	if int(idx) >= len(p.generations) {
		p.generations = append(p.generations, 0)
	}
	return MakeEntityID(idx, p.generations[idx])
}

// Alive reports whether the ID still refers to a live entity. Stale IDs
// (generation mismatch after destroy) return false rather than aliasing
// whatever reused the slot.
func (p *Pool) Alive(id EntityID) bool {
	idx := id.Index()
	if idx == 0 || idx >= p.next {
		return false
	}
	return p.generations[idx] == id.Generation()
}

func (p *Pool) Destroy(id EntityID) {
	idx := id.Index()
	if idx == 0 || idx >= p.next {
		return
	}
	if p.generations[idx] != id.Generation() {
		return // stale reference, already destroyed
	}
	p.generations[idx]++
	p.free = append(p.free, idx)
}
