package persist

import (
	"context"
)

// EntityRow is one persisted placement. Ordinal is the registration-order
// position, which doubles as the save-file identity: slot rows reference it
// and load restores entities in ordinal order, so registration order (and
// with it tick determinism) survives a round trip.
type EntityRow struct {
	Ordinal    int32
	BuildingID int32
	X          int32
	Y          int32
	Rotation   int16
}

// SlotRow is one persisted ejector slot's in-flight state.
type SlotRow struct {
	Ordinal   int32
	SlotIndex int32
	ItemID    int32
	Progress  float64
}

type WorldRepo struct {
	db *DB
}

func NewWorldRepo(db *DB) *WorldRepo {
	return &WorldRepo{db: db}
}

// Save replaces the whole persisted world in a single transaction
// (delete + bulk insert, same shape as an inventory save).
func (r *WorldRepo) Save(ctx context.Context, entities []EntityRow, slots []SlotRow) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM ejector_slots`); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM placed_entities`); err != nil {
		return err
	}

	for _, e := range entities {
		if _, err := tx.Exec(ctx,
			`INSERT INTO placed_entities (ordinal, building_id, x, y, rotation)
			 VALUES ($1, $2, $3, $4, $5)`,
			e.Ordinal, e.BuildingID, e.X, e.Y, e.Rotation,
		); err != nil {
			return err
		}
	}
	for _, s := range slots {
		if _, err := tx.Exec(ctx,
			`INSERT INTO ejector_slots (ordinal, slot_index, item_id, progress)
			 VALUES ($1, $2, $3, $4)`,
			s.Ordinal, s.SlotIndex, s.ItemID, s.Progress,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Load returns all persisted placements in ordinal order plus their slot
// state.
func (r *WorldRepo) Load(ctx context.Context) ([]EntityRow, []SlotRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT ordinal, building_id, x, y, rotation
		 FROM placed_entities ORDER BY ordinal`,
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var entities []EntityRow
	for rows.Next() {
		var e EntityRow
		if err := rows.Scan(&e.Ordinal, &e.BuildingID, &e.X, &e.Y, &e.Rotation); err != nil {
			return nil, nil, err
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	slotRows, err := r.db.Pool.Query(ctx,
		`SELECT ordinal, slot_index, item_id, progress
		 FROM ejector_slots ORDER BY ordinal, slot_index`,
	)
	if err != nil {
		return nil, nil, err
	}
	defer slotRows.Close()

	var slots []SlotRow
	for slotRows.Next() {
		var s SlotRow
		if err := slotRows.Scan(&s.Ordinal, &s.SlotIndex, &s.ItemID, &s.Progress); err != nil {
			return nil, nil, err
		}
		slots = append(slots, s)
	}
	return entities, slots, slotRows.Err()
}
