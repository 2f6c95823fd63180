package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
	"github.com/SscSPs/workshop_inventory/internal/models"
	"github.com/SscSPs/workshop_inventory/internal/utils/mapping"
	"github.com/SscSPs/workshop_inventory/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const itemColumns = `code, name, category, unit, physical_stock, min_stock, cost_price, version, is_active, created_at, created_by, last_updated_at, last_updated_by`

// PgxItemRepository implements the item ports using pgx.
type PgxItemRepository struct {
	BaseRepository
}

func newPgxItemRepository(base BaseRepository) portsrepo.ItemRepositoryFacade {
	return &PgxItemRepository{BaseRepository: base}
}

var _ portsrepo.ItemRepositoryFacade = (*PgxItemRepository)(nil)

func scanItem(row pgx.Row) (domain.Item, error) {
	var m models.Item
	err := row.Scan(
		&m.Code,
		&m.Name,
		&m.Category,
		&m.Unit,
		&m.PhysicalStock,
		&m.MinStock,
		&m.CostPrice,
		&m.Version,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Item{}, err
	}
	return mapping.ToDomainItem(m), nil
}

func (r *PgxItemRepository) findItem(ctx context.Context, code string, forUpdate bool) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE code = $1 AND is_active`
	if forUpdate {
		// Locked reads serve the ledger, which outlives a soft delete.
		query = `SELECT ` + itemColumns + ` FROM items WHERE code = $1 FOR UPDATE`
	}
	item, err := scanItem(r.db(ctx).QueryRow(ctx, query, code))
	if err != nil {
		return nil, mapError(err, "find item %s", code)
	}
	return &item, nil
}

// FindItemByCode retrieves an active item by its code.
func (r *PgxItemRepository) FindItemByCode(ctx context.Context, code string) (*domain.Item, error) {
	return r.findItem(ctx, code, false)
}

// LockItemByCode takes a row lock held until the surrounding transaction ends.
// Soft-deleted items are included.
func (r *PgxItemRepository) LockItemByCode(ctx context.Context, code string) (*domain.Item, error) {
	return r.findItem(ctx, code, true)
}

// ListItems pages through active items in code order.
func (r *PgxItemRepository) ListItems(ctx context.Context, limit int, nextToken *string) ([]domain.Item, *string, error) {
	after := ""
	if nextToken != nil && *nextToken != "" {
		var err error
		after, err = pagination.DecodeKeyToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	query := `SELECT ` + itemColumns + `
		FROM items
		WHERE is_active AND code > $1
		ORDER BY code
		LIMIT $2;`
	// Fetch one extra row to know whether another page exists.
	rows, err := r.db(ctx).Query(ctx, query, after, limit+1)
	if err != nil {
		return nil, nil, mapError(err, "list items")
	}
	defer rows.Close()

	items := make([]domain.Item, 0, limit)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, nil, mapError(err, "scan item row")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapError(err, "iterate item rows")
	}

	var next *string
	if len(items) > limit {
		items = items[:limit]
		token := pagination.EncodeKeyToken(items[limit-1].Code)
		next = &token
	}
	return items, next, nil
}

// SaveItem inserts a new item with zero physical stock.
func (r *PgxItemRepository) SaveItem(ctx context.Context, item domain.Item) error {
	m := mapping.ToModelItem(item)
	if m.Version == 0 {
		m.Version = 1
	}
	query := `
		INSERT INTO items (code, name, category, unit, physical_stock, min_stock, cost_price, version, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, 0, $5, $6, $7, TRUE, $8, $9, $10, $11);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.Code,
		m.Name,
		m.Category,
		m.Unit,
		m.MinStock,
		m.CostPrice,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "save item %s", m.Code)
	}
	return nil
}

// casMiss explains why a version-guarded update matched no row.
func (r *PgxItemRepository) casMiss(ctx context.Context, code string, expectedVersion int64) error {
	var version int64
	err := r.db(ctx).QueryRow(ctx, `SELECT version FROM items WHERE code = $1 AND is_active`, code).Scan(&version)
	if err != nil {
		return mapError(err, "find item %s", code)
	}
	return fmt.Errorf("%w: item %s is at version %d, not %d", apperrors.ErrConflict, code, version, expectedVersion)
}

// UpdateItemDetails overwrites the editable fields when the stored version matches.
func (r *PgxItemRepository) UpdateItemDetails(ctx context.Context, code string, details domain.ItemDetails, expectedVersion int64, updatedBy string, updatedAt time.Time) (*domain.Item, error) {
	query := `
		UPDATE items
		SET name = $3, category = $4, unit = $5, min_stock = $6, cost_price = $7,
			version = version + 1, last_updated_at = $8, last_updated_by = $9
		WHERE code = $1 AND is_active AND version = $2
		RETURNING ` + itemColumns + `;`
	item, err := scanItem(r.db(ctx).QueryRow(ctx, query,
		code, expectedVersion,
		details.Name, details.Category, details.Unit, details.MinStock, details.CostPrice,
		updatedAt, updatedBy,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.casMiss(ctx, code, expectedVersion)
	}
	if err != nil {
		return nil, mapError(err, "update item %s", code)
	}
	return &item, nil
}

// DeactivateItem soft deletes the item when the stored version matches.
func (r *PgxItemRepository) DeactivateItem(ctx context.Context, code string, expectedVersion int64, updatedBy string, updatedAt time.Time) (*domain.Item, error) {
	query := `
		UPDATE items
		SET is_active = FALSE, version = version + 1, last_updated_at = $3, last_updated_by = $4
		WHERE code = $1 AND is_active AND version = $2
		RETURNING ` + itemColumns + `;`
	item, err := scanItem(r.db(ctx).QueryRow(ctx, query, code, expectedVersion, updatedAt, updatedBy))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.casMiss(ctx, code, expectedVersion)
	}
	if err != nil {
		return nil, mapError(err, "deactivate item %s", code)
	}
	return &item, nil
}

// UpdateCostPrice records the latest unit cost.
func (r *PgxItemRepository) UpdateCostPrice(ctx context.Context, code string, costPrice decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE items
		SET cost_price = $2, version = version + 1, last_updated_at = $3, last_updated_by = $4
		WHERE code = $1 AND is_active;
	`
	tag, err := r.db(ctx).Exec(ctx, query, code, costPrice, updatedAt, updatedBy)
	if err != nil {
		return mapError(err, "update cost price of item %s", code)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("item " + code + " not found")
	}
	return nil
}

// IncrementPhysicalStock adds delta in a single statement so concurrent writers serialize on the row.
// It reaches soft-deleted items; the ledger service decides which movements they accept.
func (r *PgxItemRepository) IncrementPhysicalStock(ctx context.Context, code string, delta int64, updatedBy string, updatedAt time.Time) (*domain.Item, error) {
	query := `
		UPDATE items
		SET physical_stock = physical_stock + $2, version = version + 1, last_updated_at = $3, last_updated_by = $4
		WHERE code = $1
		RETURNING ` + itemColumns + `;`
	item, err := scanItem(r.db(ctx).QueryRow(ctx, query, code, delta, updatedAt, updatedBy))
	if err != nil {
		return nil, mapError(err, "increment stock of item %s", code)
	}
	return &item, nil
}
