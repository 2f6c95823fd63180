package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ItemReader defines read operations for item data
type ItemReader interface {
	// FindItemByCode retrieves an active item by its code.
	FindItemByCode(ctx context.Context, code string) (*domain.Item, error)

	// LockItemByCode retrieves an item, soft-deleted or not, and locks its row until the
	// surrounding transaction ends.
	LockItemByCode(ctx context.Context, code string) (*domain.Item, error)

	// ListItems retrieves active items ordered by code using token-based pagination.
	ListItems(ctx context.Context, limit int, nextToken *string) ([]domain.Item, *string, error)
}

// ItemWriter defines write operations for item data
type ItemWriter interface {
	// SaveItem inserts a new item with zero physical stock. Duplicate codes yield ErrDuplicate.
	SaveItem(ctx context.Context, item domain.Item) error

	// UpdateItemDetails overwrites the editable fields if the stored version equals expectedVersion.
	UpdateItemDetails(ctx context.Context, code string, details domain.ItemDetails, expectedVersion int64, updatedBy string, updatedAt time.Time) (*domain.Item, error)

	// DeactivateItem soft deletes the item if the stored version equals expectedVersion.
	DeactivateItem(ctx context.Context, code string, expectedVersion int64, updatedBy string, updatedAt time.Time) (*domain.Item, error)

	// UpdateCostPrice records the latest unit cost without touching stock.
	UpdateCostPrice(ctx context.Context, code string, costPrice decimal.Decimal, updatedBy string, updatedAt time.Time) error
}

// StockMutator owns the only write path to physical stock.
type StockMutator interface {
	// IncrementPhysicalStock atomically adds delta to the item's stock and bumps its version.
	// It returns the item as it is after the increment. Soft-deleted items are included.
	IncrementPhysicalStock(ctx context.Context, code string, delta int64, updatedBy string, updatedAt time.Time) (*domain.Item, error)
}

// ItemRepositoryFacade combines all item-related repository interfaces
type ItemRepositoryFacade interface {
	ItemReader
	ItemWriter
	StockMutator
}
