package system

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fabgrid/engine/internal/core/ecs"
	coresys "github.com/fabgrid/engine/internal/core/system"
	"github.com/fabgrid/engine/internal/data"
	"github.com/fabgrid/engine/internal/geom"
	"github.com/fabgrid/engine/internal/persist"
	"github.com/fabgrid/engine/internal/world"
)

// TransferRecord is one committed handover, journaled for the persist phase.
type TransferRecord struct {
	Tick uint64
	From ecs.EntityID
	To   ecs.EntityID
	Item int32
}

// Journal buffers committed handovers between persist flushes.
type Journal struct {
	records []TransferRecord
}

func NewJournal() *Journal {
	return &Journal{records: make([]TransferRecord, 0, 256)}
}

func (j *Journal) Append(r TransferRecord) {
	j.records = append(j.records, r)
}

func (j *Journal) drain() []TransferRecord {
	out := j.records
	j.records = make([]TransferRecord, 0, 256)
	return out
}

// PersistenceSystem autosaves the placed world and flushes the transfer
// journal every interval ticks. Phase 3 (Persist).
type PersistenceSystem struct {
	state     *world.State
	worldRepo *persist.WorldRepo
	logRepo   *persist.TransferLogRepo
	journal   *Journal
	log       *zap.Logger
	tickCount int
	interval  int
}

func NewPersistenceSystem(state *world.State, worldRepo *persist.WorldRepo, logRepo *persist.TransferLogRepo, journal *Journal, log *zap.Logger, intervalTicks int) *PersistenceSystem {
	return &PersistenceSystem{
		state:     state,
		worldRepo: worldRepo,
		logRepo:   logRepo,
		journal:   journal,
		log:       log,
		interval:  intervalTicks,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.SaveWorld()
}

// SaveWorld persists the world immediately. Also called on shutdown.
func (s *PersistenceSystem) SaveWorld() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entities, slots := SnapshotWorld(s.state)
	if err := s.worldRepo.Save(ctx, entities, slots); err != nil {
		s.log.Error("world autosave failed", zap.Error(err))
		return
	}

	records := s.journal.drain()
	entries := make([]persist.TransferLogEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, persist.TransferLogEntry{
			Tick:    r.Tick,
			FromEnt: uint64(r.From),
			ToEnt:   uint64(r.To),
			ItemID:  r.Item,
		})
	}
	if err := s.logRepo.WriteBatch(ctx, entries); err != nil {
		s.log.Error("transfer wal flush failed", zap.Error(err))
		// Requeue so the records survive until the next flush.
		for _, r := range records {
			s.journal.Append(r)
		}
		return
	}

	s.log.Debug("world saved",
		zap.Int("entities", len(entities)),
		zap.Int("transfers", len(entries)),
	)
}

// SnapshotWorld flattens the placed world into persistable rows. Ordinals
// follow registration order so a load reproduces the original tick order.
func SnapshotWorld(state *world.State) ([]persist.EntityRow, []persist.SlotRow) {
	var entities []persist.EntityRow
	var slots []persist.SlotRow

	ordinal := int32(0)
	state.EachInOrder(func(id ecs.EntityID) {
		place, ok := state.Placements.Get(id)
		if !ok {
			return
		}
		entities = append(entities, persist.EntityRow{
			Ordinal:    ordinal,
			BuildingID: state.TemplateID(id),
			X:          place.Origin.X,
			Y:          place.Origin.Y,
			Rotation:   int16(place.Rotation),
		})
		if ej, ok := state.Ejectors.Get(id); ok {
			for i := range ej.Slots {
				slot := &ej.Slots[i]
				if slot.Item == 0 {
					continue
				}
				slots = append(slots, persist.SlotRow{
					Ordinal:   ordinal,
					SlotIndex: int32(i),
					ItemID:    slot.Item,
					Progress:  slot.Progress,
				})
			}
		}
		ordinal++
	})
	return entities, slots
}

// RestoreWorld respawns a persisted world into an empty state, restoring
// in-flight slot items and progress. Callers emit WorldLoaded afterwards to
// trigger the full connectivity recompute.
func RestoreWorld(state *world.State, buildings *data.BuildingTable, entities []persist.EntityRow, slots []persist.SlotRow) error {
	byOrdinal := make(map[int32]ecs.EntityID, len(entities))
	for _, e := range entities {
		tpl := buildings.Get(e.BuildingID)
		if tpl == nil {
			return fmt.Errorf("ordinal %d: unknown building_id %d", e.Ordinal, e.BuildingID)
		}
		if e.Rotation < 0 || e.Rotation > 3 {
			return fmt.Errorf("ordinal %d: rotation %d out of range", e.Ordinal, e.Rotation)
		}
		id, err := state.Spawn(tpl, geom.Tile{X: e.X, Y: e.Y}, geom.Rotation(e.Rotation))
		if err != nil {
			return fmt.Errorf("ordinal %d: %w", e.Ordinal, err)
		}
		byOrdinal[e.Ordinal] = id
	}
	for _, sr := range slots {
		id, ok := byOrdinal[sr.Ordinal]
		if !ok {
			return fmt.Errorf("slot row references unknown ordinal %d", sr.Ordinal)
		}
		ej, ok := state.Ejectors.Get(id)
		if !ok || int(sr.SlotIndex) >= len(ej.Slots) {
			return fmt.Errorf("slot row ordinal %d: no ejector slot %d", sr.Ordinal, sr.SlotIndex)
		}
		slot := &ej.Slots[sr.SlotIndex]
		slot.Item = sr.ItemID
		slot.Progress = sr.Progress
	}
	return nil
}
