package pgsql

import (
	"context"

	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
)

// PgxSequenceRepository stores one counter row per document prefix.
type PgxSequenceRepository struct {
	BaseRepository
}

func newPgxSequenceRepository(base BaseRepository) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{BaseRepository: base}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// IncrementCounter upserts the counter. The row lock serializes concurrent callers.
func (r *PgxSequenceRepository) IncrementCounter(ctx context.Context, prefix string) (int64, error) {
	query := `
		INSERT INTO sequence_counters (prefix, value)
		VALUES ($1, 1)
		ON CONFLICT (prefix) DO UPDATE SET value = sequence_counters.value + 1
		RETURNING value;
	`
	var value int64
	if err := r.db(ctx).QueryRow(ctx, query, prefix).Scan(&value); err != nil {
		return 0, mapError(err, "increment sequence counter %s", prefix)
	}
	return value, nil
}

func (r *PgxSequenceRepository) FastForwardCounter(ctx context.Context, prefix string, atLeast int64) error {
	query := `
		INSERT INTO sequence_counters (prefix, value)
		VALUES ($1, $2)
		ON CONFLICT (prefix) DO UPDATE SET value = GREATEST(sequence_counters.value, EXCLUDED.value);
	`
	if _, err := r.db(ctx).Exec(ctx, query, prefix, atLeast); err != nil {
		return mapError(err, "fast-forward sequence counter %s", prefix)
	}
	return nil
}
