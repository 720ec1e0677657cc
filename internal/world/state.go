package world

import (
	"fmt"

	"github.com/fabgrid/engine/internal/component"
	"github.com/fabgrid/engine/internal/core/ecs"
	"github.com/fabgrid/engine/internal/core/event"
	"github.com/fabgrid/engine/internal/data"
	"github.com/fabgrid/engine/internal/geom"
)

// beltPathCapacity is how many items a single belt segment's path buffers
// before it exerts backpressure on upstream ejectors.
const beltPathCapacity = 4

// State is the in-memory simulation world: the ECS container, the typed
// component stores, the sparse tile occupancy index, and the stable
// registration order ticks iterate in. Accessed only from the game loop
// goroutine, so no locks.
type State struct {
	Entities *ecs.World
	Bus      *event.Bus
	Paths    *PathRegistry

	Placements   *ecs.Store[component.Placement]
	Ejectors     *ecs.Store[component.Ejector]
	Acceptors    *ecs.Store[component.Acceptor]
	Belts        *ecs.Store[component.Belt]
	Storages     *ecs.Store[component.Storage]
	Processors   *ecs.Store[component.Processor]
	Undergrounds *ecs.Store[component.Underground]
	Generators   *ecs.Store[component.Generator]
	Sources      *ecs.Store[component.Source]

	occupancy map[geom.Tile]ecs.EntityID
	order     []ecs.EntityID          // registration order, stable across ticks
	templates map[ecs.EntityID]int32  // building template ID, for persistence

	// Progression state external game logic mutates; the transfer scheduler
	// reads it when deriving the per-tick throughput rate.
	BeltSpeedTier int

	Tick uint64
}

func NewState(bus *event.Bus) *State {
	s := &State{
		Entities: ecs.NewWorld(),
		Bus:      bus,
		Paths:    NewPathRegistry(),

		Placements:   ecs.NewStore[component.Placement](),
		Ejectors:     ecs.NewStore[component.Ejector](),
		Acceptors:    ecs.NewStore[component.Acceptor](),
		Belts:        ecs.NewStore[component.Belt](),
		Storages:     ecs.NewStore[component.Storage](),
		Processors:   ecs.NewStore[component.Processor](),
		Undergrounds: ecs.NewStore[component.Underground](),
		Generators:   ecs.NewStore[component.Generator](),
		Sources:      ecs.NewStore[component.Source](),

		occupancy: make(map[geom.Tile]ecs.EntityID, 4096),
		templates: make(map[ecs.EntityID]int32, 1024),

		BeltSpeedTier: 1,
	}
	reg := s.Entities.Registry()
	reg.Register(s.Placements)
	reg.Register(s.Ejectors)
	reg.Register(s.Acceptors)
	reg.Register(s.Belts)
	reg.Register(s.Storages)
	reg.Register(s.Processors)
	reg.Register(s.Undergrounds)
	reg.Register(s.Generators)
	reg.Register(s.Sources)
	return s
}

// Spawn places a building from its template at origin with the given
// rotation, fills the occupancy index, and emits EntityPlaced. Fails if any
// covered tile is already occupied.
func (s *State) Spawn(tpl *data.BuildingInfo, origin geom.Tile, rot geom.Rotation) (ecs.EntityID, error) {
	place := component.Placement{
		Origin:   origin,
		Width:    tpl.Width,
		Height:   tpl.Height,
		Rotation: rot,
	}
	bounds := place.TileSpaceBounds()

	conflict := ecs.EntityID(0)
	bounds.Tiles(func(t geom.Tile) {
		if id, ok := s.occupancy[t]; ok {
			conflict = id
		}
	})
	if !conflict.IsZero() {
		return 0, fmt.Errorf("placement %s at %s: tile occupied", tpl.Name, origin)
	}

	id := s.Entities.Create()
	s.Placements.Set(id, &place)
	s.templates[id] = tpl.BuildingID

	if len(tpl.Ejectors) > 0 {
		ej := &component.Ejector{Slots: make([]component.EjectorSlot, 0, len(tpl.Ejectors))}
		for _, def := range tpl.Ejectors {
			dir, _ := geom.ParseDirection(def.Direction)
			ej.Slots = append(ej.Slots, component.EjectorSlot{
				Pos: geom.Tile{X: def.X, Y: def.Y},
				Dir: dir,
			})
		}
		s.Ejectors.Set(id, ej)
	}
	if len(tpl.Acceptors) > 0 {
		ac := &component.Acceptor{Slots: make([]component.AcceptorSlot, 0, len(tpl.Acceptors))}
		for _, def := range tpl.Acceptors {
			slot := component.AcceptorSlot{
				Pos:    geom.Tile{X: def.X, Y: def.Y},
				Filter: def.Filter,
			}
			for _, side := range def.Sides {
				d, _ := geom.ParseDirection(side)
				slot.Sides = append(slot.Sides, d)
			}
			ac.Slots = append(ac.Slots, slot)
		}
		s.Acceptors.Set(id, ac)
	}
	if tpl.Belt {
		// A placed belt is always registered to a path before it can be a
		// handover target.
		path := s.Paths.Create(beltPathCapacity)
		s.Belts.Set(id, &component.Belt{PathID: path.ID})
	}
	if tpl.StorageCapacity > 0 {
		s.Storages.Set(id, component.NewStorage(tpl.StorageCapacity))
	}
	if tpl.Processor {
		s.Processors.Set(id, component.NewProcessor(len(tpl.Acceptors)))
	}
	if tpl.UndergroundTier > 0 {
		s.Undergrounds.Set(id, &component.Underground{
			Tier: tpl.UndergroundTier,
			Span: tpl.Width, // tunnel runs the length of the footprint
		})
	}
	if tpl.GeneratorFuel != "" {
		s.Generators.Set(id, &component.Generator{FuelKind: tpl.GeneratorFuel})
	}
	if tpl.SourceItem != 0 {
		s.Sources.Set(id, &component.Source{
			Item:          tpl.SourceItem,
			IntervalTicks: tpl.SourceInterval,
		})
	}

	bounds.Tiles(func(t geom.Tile) {
		s.occupancy[t] = id
	})
	s.order = append(s.order, id)

	event.Emit(s.Bus, event.EntityPlaced{EntityID: id, Bounds: bounds})
	return id, nil
}

// Remove tears a building down: clears its tiles, drops it from the
// registration order, queues entity destruction, and emits EntityRemoved.
// Component data stays readable until the cleanup phase flushes the queue.
func (s *State) Remove(id ecs.EntityID) bool {
	place, ok := s.Placements.Get(id)
	if !ok {
		return false
	}
	bounds := place.TileSpaceBounds()
	bounds.Tiles(func(t geom.Tile) {
		if s.occupancy[t] == id {
			delete(s.occupancy, t)
		}
	})
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if belt, ok := s.Belts.Get(id); ok {
		s.Paths.Delete(belt.PathID)
	}
	delete(s.templates, id)
	s.Entities.MarkForDestruction(id)

	event.Emit(s.Bus, event.EntityRemoved{EntityID: id, Bounds: bounds})
	return true
}

// OccupantAt returns the entity covering the tile, if any.
func (s *State) OccupantAt(t geom.Tile) (ecs.EntityID, bool) {
	id, ok := s.occupancy[t]
	return id, ok
}

// OccupantsInRect calls fn for every occupied tile in the rectangle. A
// multi-tile entity is yielded once per covered tile; callers dedupe by
// entity identity.
func (s *State) OccupantsInRect(r geom.Rect, fn func(ecs.EntityID)) {
	r.Tiles(func(t geom.Tile) {
		if id, ok := s.occupancy[t]; ok {
			fn(id)
		}
	})
}

// EachInOrder iterates all placed entities in registration order.
func (s *State) EachInOrder(fn func(ecs.EntityID)) {
	for _, id := range s.order {
		fn(id)
	}
}

// TemplateID returns the building template an entity was spawned from.
func (s *State) TemplateID(id ecs.EntityID) int32 {
	return s.templates[id]
}

// EntityCount is the number of placed entities.
func (s *State) EntityCount() int {
	return len(s.order)
}
