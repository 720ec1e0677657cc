package world

import (
	"testing"

	"github.com/fabgrid/engine/internal/core/ecs"
	"github.com/fabgrid/engine/internal/core/event"
	"github.com/fabgrid/engine/internal/data"
	"github.com/fabgrid/engine/internal/geom"
)

func minerTemplate() *data.BuildingInfo {
	return &data.BuildingInfo{
		BuildingID: 1,
		Name:       "Test Miner",
		Width:      1,
		Height:     1,
		Ejectors:   []data.EjectorDef{{X: 0, Y: 0, Direction: "east"}},
		SourceItem: 1,
	}
}

func beltTemplate() *data.BuildingInfo {
	return &data.BuildingInfo{
		BuildingID: 2,
		Name:       "Test Belt",
		Width:      1,
		Height:     1,
		Ejectors:   []data.EjectorDef{{X: 0, Y: 0, Direction: "east"}},
		Acceptors:  []data.AcceptorDef{{X: 0, Y: 0, Sides: []string{"west", "north", "south"}}},
		Belt:       true,
	}
}

func crateTemplate() *data.BuildingInfo {
	return &data.BuildingInfo{
		BuildingID:      3,
		Name:            "Test Crate",
		Width:           2,
		Height:          2,
		Acceptors:       []data.AcceptorDef{{X: 0, Y: 0, Sides: []string{"west"}}},
		StorageCapacity: 8,
	}
}

func TestSpawnFillsOccupancy(t *testing.T) {
	s := NewState(event.NewBus())
	id, err := s.Spawn(crateTemplate(), geom.Tile{X: 3, Y: 3}, geom.Rot0)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}

	for _, tile := range []geom.Tile{{X: 3, Y: 3}, {X: 4, Y: 3}, {X: 3, Y: 4}, {X: 4, Y: 4}} {
		got, ok := s.OccupantAt(tile)
		if !ok || got != id {
			t.Errorf("tile %v: occupant %d ok=%v, want %d", tile, got, ok, id)
		}
	}
	if _, ok := s.OccupantAt(geom.Tile{X: 5, Y: 3}); ok {
		t.Error("tile outside footprint reported occupied")
	}
	if s.EntityCount() != 1 {
		t.Errorf("entity count = %d, want 1", s.EntityCount())
	}
	if s.TemplateID(id) != 3 {
		t.Errorf("template id = %d, want 3", s.TemplateID(id))
	}
}

func TestSpawnConflict(t *testing.T) {
	s := NewState(event.NewBus())
	if _, err := s.Spawn(crateTemplate(), geom.Tile{X: 0, Y: 0}, geom.Rot0); err != nil {
		t.Fatalf("first spawn: %v", err)
	}
	// Overlaps the crate's (1,1) tile.
	if _, err := s.Spawn(minerTemplate(), geom.Tile{X: 1, Y: 1}, geom.Rot0); err == nil {
		t.Fatal("overlapping spawn should fail")
	}
	if s.EntityCount() != 1 {
		t.Errorf("failed spawn leaked an entity, count = %d", s.EntityCount())
	}
	if _, ok := s.OccupantAt(geom.Tile{X: 1, Y: 1}); !ok {
		t.Error("original occupant lost after rejected spawn")
	}
}

func TestSpawnBeltGetsPath(t *testing.T) {
	s := NewState(event.NewBus())
	id, err := s.Spawn(beltTemplate(), geom.Tile{X: 0, Y: 0}, geom.Rot0)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	belt, ok := s.Belts.Get(id)
	if !ok {
		t.Fatal("belt component missing")
	}
	if belt.PathID == 0 {
		t.Fatal("placed belt has no transport path")
	}
	if s.Paths.Get(belt.PathID) == nil {
		t.Fatal("path registry does not know the belt's path")
	}
}

func TestRemoveClearsGridBeforeCleanup(t *testing.T) {
	s := NewState(event.NewBus())
	id, err := s.Spawn(beltTemplate(), geom.Tile{X: 2, Y: 2}, geom.Rot0)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	belt, _ := s.Belts.Get(id)
	pathID := belt.PathID

	if !s.Remove(id) {
		t.Fatal("remove returned false")
	}
	if _, ok := s.OccupantAt(geom.Tile{X: 2, Y: 2}); ok {
		t.Error("tile still occupied after remove")
	}
	if s.EntityCount() != 0 {
		t.Errorf("entity count = %d, want 0", s.EntityCount())
	}
	if s.Paths.Get(pathID) != nil {
		t.Error("belt path survived removal")
	}
	// Entity and components stay readable until the cleanup phase.
	if !s.Entities.Alive(id) {
		t.Error("entity destroyed before cleanup flush")
	}
	s.Entities.FlushDestroyQueue()
	if s.Entities.Alive(id) {
		t.Error("entity alive after cleanup flush")
	}
	if s.Remove(id) {
		t.Error("second remove should return false")
	}
}

func TestOccupantsInRectYieldsPerTile(t *testing.T) {
	s := NewState(event.NewBus())
	id, err := s.Spawn(crateTemplate(), geom.Tile{X: 0, Y: 0}, geom.Rot0)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	// The 2x2 crate covers all four tiles of the query rect, so it is
	// yielded once per covered tile.
	seen := 0
	s.OccupantsInRect(geom.Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2}, func(got ecs.EntityID) {
		if got != id {
			t.Errorf("unexpected occupant %d", got)
		}
		seen++
	})
	if seen != 4 {
		t.Errorf("yielded %d times, want 4", seen)
	}
}

func TestEachInOrderIsRegistrationOrder(t *testing.T) {
	s := NewState(event.NewBus())
	a, _ := s.Spawn(minerTemplate(), geom.Tile{X: 0, Y: 0}, geom.Rot0)
	b, _ := s.Spawn(beltTemplate(), geom.Tile{X: 1, Y: 0}, geom.Rot0)
	c, _ := s.Spawn(crateTemplate(), geom.Tile{X: 2, Y: 0}, geom.Rot0)

	var order []ecs.EntityID
	s.EachInOrder(func(id ecs.EntityID) { order = append(order, id) })
	want := []ecs.EntityID{a, b, c}
	if len(order) != len(want) {
		t.Fatalf("order has %d entries, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestBeltPathBackpressure(t *testing.T) {
	r := NewPathRegistry()
	p := r.Create(2)
	if p.ID == 0 {
		t.Fatal("path IDs must start at 1")
	}
	if !p.TryAccept(1) || !p.TryAccept(2) {
		t.Fatal("path rejected items under capacity")
	}
	if p.CanAccept() {
		t.Error("full path reports room")
	}
	if p.TryAccept(3) {
		t.Error("full path accepted an item")
	}
	if got := p.Drain(); got != 1 {
		t.Errorf("drain = %d, want head item 1", got)
	}
	if !p.CanAccept() {
		t.Error("drained path should have room again")
	}
	if p.TryAccept(0) {
		t.Error("item 0 means empty and must be rejected")
	}
}
