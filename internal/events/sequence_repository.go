package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SequenceRepository hands out per-order event sequence numbers.
type SequenceRepository interface {
	NextSequence(ctx context.Context, orderID string) (int64, error)
}

type sequenceRepository struct {
	db *sql.DB
}

func NewSequenceRepository(db *sql.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

var errNoPartition = errors.New("order id is required for sequencing")

// The upsert takes a row lock, so concurrent publishers for one order
// still get distinct numbers.
const nextSequenceSQL = `
INSERT INTO event_sequences AS s (partition_key, last_sequence, updated_at)
VALUES ($1, 1, NOW())
ON CONFLICT (partition_key) DO UPDATE
SET last_sequence = s.last_sequence + 1, updated_at = NOW()
RETURNING last_sequence
`

func (r *sequenceRepository) NextSequence(ctx context.Context, orderID string) (int64, error) {
	if orderID == "" {
		return 0, errNoPartition
	}
	var next int64
	if err := r.db.QueryRowContext(ctx, nextSequenceSQL, orderID).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence for order %s: %w", orderID, err)
	}
	return next, nil
}
