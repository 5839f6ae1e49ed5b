package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DedupRepository stores the highest event sequence each consumer has
// handled per partition.
type DedupRepository interface {
	LastSequence(ctx context.Context, consumer, partitionKey string) (int64, bool, error)
	Checkpoint(ctx context.Context, consumer, partitionKey string, seq int64) error
}

type dedupRepository struct {
	db *sql.DB
}

func NewDedupRepository(db *sql.DB) DedupRepository {
	return &dedupRepository{db: db}
}

const (
	selectCheckpointSQL = `SELECT last_sequence FROM event_dedup_checkpoint WHERE consumer_name = $1 AND partition_key = $2`
	upsertCheckpointSQL = `
INSERT INTO event_dedup_checkpoint (consumer_name, partition_key, last_sequence, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (consumer_name, partition_key) DO UPDATE
SET last_sequence = GREATEST(event_dedup_checkpoint.last_sequence, EXCLUDED.last_sequence),
    updated_at = NOW()
`
)

func (r *dedupRepository) LastSequence(ctx context.Context, consumer, partitionKey string) (int64, bool, error) {
	var last int64
	err := r.db.QueryRowContext(ctx, selectCheckpointSQL, consumer, partitionKey).Scan(&last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("select checkpoint: %w", err)
	}
	return last, true, nil
}

// Checkpoint never moves a partition's sequence backwards.
func (r *dedupRepository) Checkpoint(ctx context.Context, consumer, partitionKey string, seq int64) error {
	if _, err := r.db.ExecContext(ctx, upsertCheckpointSQL, consumer, partitionKey, seq); err != nil {
		return fmt.Errorf("upsert checkpoint: %w", err)
	}
	return nil
}

// alreadyHandled reports whether seq was checkpointed before. Events
// without a sequence are always handled.
func alreadyHandled(ctx context.Context, dedup DedupRepository, consumer, partitionKey string, seq *int64) (bool, error) {
	if dedup == nil || seq == nil {
		return false, nil
	}
	last, ok, err := dedup.LastSequence(ctx, consumer, partitionKey)
	if err != nil {
		return false, err
	}
	return ok && *seq <= last, nil
}

func checkpoint(ctx context.Context, dedup DedupRepository, consumer, partitionKey string, seq *int64) error {
	if dedup == nil || seq == nil {
		return nil
	}
	return dedup.Checkpoint(ctx, consumer, partitionKey, *seq)
}
