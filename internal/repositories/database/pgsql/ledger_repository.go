package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
	"github.com/SscSPs/workshop_inventory/internal/models"
	"github.com/SscSPs/workshop_inventory/internal/utils/mapping"
	"github.com/SscSPs/workshop_inventory/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const ledgerColumns = `entry_id, sequence, item_code, delta, stock_before, stock_after, reason_kind, note, reference_id, performed_by, created_at`

// PgxLedgerRepository implements the append-only ledger using pgx.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(base BaseRepository) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: base}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanLedgerEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	defer rows.Close()
	var out []models.LedgerEntry
	for rows.Next() {
		var m models.LedgerEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.Sequence,
			&m.ItemCode,
			&m.Delta,
			&m.Before,
			&m.After,
			&m.ReasonKind,
			&m.Note,
			&m.ReferenceID,
			&m.PerformedBy,
			&m.CreatedAt,
		); err != nil {
			return nil, mapError(err, "scan ledger row")
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate ledger rows")
	}
	return mapping.ToDomainLedgerEntries(out), nil
}

// InsertLedgerEntry appends the entry. The database assigns the sequence.
func (r *PgxLedgerRepository) InsertLedgerEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	m := mapping.ToModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (entry_id, item_code, delta, stock_before, stock_after, reason_kind, note, reference_id, performed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING sequence;
	`
	err := r.db(ctx).QueryRow(ctx, query,
		m.EntryID,
		m.ItemCode,
		m.Delta,
		m.Before,
		m.After,
		m.ReasonKind,
		m.Note,
		m.ReferenceID,
		m.PerformedBy,
		m.CreatedAt,
	).Scan(&entry.Sequence)
	if err != nil {
		return nil, mapError(err, "insert ledger entry for item %s", entry.ItemCode)
	}
	return &entry, nil
}

// ListLedgerEntries pages newest-first, keyed on sequence.
func (r *PgxLedgerRepository) ListLedgerEntries(ctx context.Context, itemCode string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	var before int64
	if nextToken != nil && *nextToken != "" {
		var err error
		before, err = pagination.DecodeSequenceToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	query := `SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE item_code = $1 AND ($2::BIGINT = 0 OR sequence < $2)
		ORDER BY sequence DESC
		LIMIT $3;`
	rows, err := r.db(ctx).Query(ctx, query, itemCode, before, limit+1)
	if err != nil {
		return nil, nil, mapError(err, "list ledger entries for item %s", itemCode)
	}
	entries, err := scanLedgerEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(entries) > limit {
		entries = entries[:limit]
		token := pagination.EncodeSequenceToken(entries[limit-1].Sequence)
		next = &token
	}
	return entries, next, nil
}

// ListAllLedgerEntries returns the item's complete ledger newest-first.
func (r *PgxLedgerRepository) ListAllLedgerEntries(ctx context.Context, itemCode string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE item_code = $1
		ORDER BY sequence DESC;`
	rows, err := r.db(ctx).Query(ctx, query, itemCode)
	if err != nil {
		return nil, mapError(err, "list ledger entries for item %s", itemCode)
	}
	return scanLedgerEntries(rows)
}

func (r *PgxLedgerRepository) SumDeltasAfter(ctx context.Context, itemCode string, afterSequence int64) (int64, error) {
	var sum int64
	query := `SELECT COALESCE(SUM(delta), 0)::BIGINT FROM ledger_entries WHERE item_code = $1 AND sequence > $2;`
	if err := r.db(ctx).QueryRow(ctx, query, itemCode, afterSequence).Scan(&sum); err != nil {
		return 0, mapError(err, "sum ledger deltas for item %s", itemCode)
	}
	return sum, nil
}
