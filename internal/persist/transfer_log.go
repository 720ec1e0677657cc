package persist

import (
	"context"
	"fmt"
)

// TransferLogEntry is one committed item handover, written to the
// transfer_wal table for throughput auditing.
type TransferLogEntry struct {
	Tick    uint64
	FromEnt uint64
	ToEnt   uint64
	ItemID  int32
}

type TransferLogRepo struct {
	db *DB
}

func NewTransferLogRepo(db *DB) *TransferLogRepo {
	return &TransferLogRepo{db: db}
}

// WriteBatch atomically writes a batch of transfer log entries in a single
// transaction. On error the batch is retried whole on the next flush.
func (r *TransferLogRepo) WriteBatch(ctx context.Context, entries []TransferLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("transfer wal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO transfer_wal (tick, from_ent, to_ent, item_id)
			 VALUES ($1, $2, $3, $4)`,
			int64(e.Tick), int64(e.FromEnt), int64(e.ToEnt), e.ItemID,
		); err != nil {
			return fmt.Errorf("transfer wal insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}
