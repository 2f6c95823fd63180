package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
	"github.com/SscSPs/workshop_inventory/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type itemRepository struct {
	store *Store
}

var _ portsrepo.ItemRepositoryFacade = (*itemRepository)(nil)

func activeItem(st *state, code string) (domain.Item, error) {
	item, ok := st.items[code]
	if !ok || !item.IsActive {
		return domain.Item{}, notFound("item", code)
	}
	return item, nil
}

// anyItem also returns soft-deleted items; their stock and ledger stay reachable.
func anyItem(st *state, code string) (domain.Item, error) {
	item, ok := st.items[code]
	if !ok {
		return domain.Item{}, notFound("item", code)
	}
	return item, nil
}

func (r *itemRepository) FindItemByCode(ctx context.Context, code string) (*domain.Item, error) {
	var item domain.Item
	err := r.store.run(ctx, func(st *state) error {
		var err error
		item, err = activeItem(st, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// LockItemByCode needs no row lock: the store lock already excludes other writers.
func (r *itemRepository) LockItemByCode(ctx context.Context, code string) (*domain.Item, error) {
	var item domain.Item
	err := r.store.run(ctx, func(st *state) error {
		var err error
		item, err = anyItem(st, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) ListItems(ctx context.Context, limit int, nextToken *string) ([]domain.Item, *string, error) {
	after := ""
	if nextToken != nil && *nextToken != "" {
		var err error
		after, err = pagination.DecodeKeyToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	var page []domain.Item
	var next *string
	err := r.store.run(ctx, func(st *state) error {
		codes := make([]string, 0, len(st.items))
		for code, item := range st.items {
			if item.IsActive && code > after {
				codes = append(codes, code)
			}
		}
		sort.Strings(codes)
		if len(codes) > limit {
			codes = codes[:limit]
			token := pagination.EncodeKeyToken(codes[limit-1])
			next = &token
		}
		page = make([]domain.Item, len(codes))
		for i, code := range codes {
			page[i] = st.items[code]
		}
		return nil
	})
	return page, next, err
}

func (r *itemRepository) SaveItem(ctx context.Context, item domain.Item) error {
	return r.store.run(ctx, func(st *state) error {
		if _, exists := st.items[item.Code]; exists {
			return fmt.Errorf("%w: item %s", apperrors.ErrDuplicate, item.Code)
		}
		item.PhysicalStock = 0
		if item.Version == 0 {
			item.Version = 1
		}
		st.items[item.Code] = item
		return nil
	})
}

func casItem(st *state, code string, expectedVersion int64) (domain.Item, error) {
	item, err := activeItem(st, code)
	if err != nil {
		return domain.Item{}, err
	}
	if item.Version != expectedVersion {
		return domain.Item{}, fmt.Errorf("%w: item %s is at version %d, not %d", apperrors.ErrConflict, code, item.Version, expectedVersion)
	}
	return item, nil
}

func (r *itemRepository) UpdateItemDetails(ctx context.Context, code string, details domain.ItemDetails, expectedVersion int64, updatedBy string, updatedAt time.Time) (*domain.Item, error) {
	var updated domain.Item
	err := r.store.run(ctx, func(st *state) error {
		item, err := casItem(st, code, expectedVersion)
		if err != nil {
			return err
		}
		item.Name = details.Name
		item.Category = details.Category
		item.Unit = details.Unit
		item.MinStock = details.MinStock
		item.CostPrice = details.CostPrice
		item.Version++
		item.LastUpdatedBy = updatedBy
		item.LastUpdatedAt = updatedAt
		st.items[code] = item
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *itemRepository) DeactivateItem(ctx context.Context, code string, expectedVersion int64, updatedBy string, updatedAt time.Time) (*domain.Item, error) {
	var updated domain.Item
	err := r.store.run(ctx, func(st *state) error {
		item, err := casItem(st, code, expectedVersion)
		if err != nil {
			return err
		}
		item.IsActive = false
		item.Version++
		item.LastUpdatedBy = updatedBy
		item.LastUpdatedAt = updatedAt
		st.items[code] = item
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *itemRepository) UpdateCostPrice(ctx context.Context, code string, costPrice decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	return r.store.run(ctx, func(st *state) error {
		item, err := activeItem(st, code)
		if err != nil {
			return err
		}
		item.CostPrice = costPrice
		item.Version++
		item.LastUpdatedBy = updatedBy
		item.LastUpdatedAt = updatedAt
		st.items[code] = item
		return nil
	})
}

func (r *itemRepository) IncrementPhysicalStock(ctx context.Context, code string, delta int64, updatedBy string, updatedAt time.Time) (*domain.Item, error) {
	var updated domain.Item
	err := r.store.run(ctx, func(st *state) error {
		item, err := anyItem(st, code)
		if err != nil {
			return err
		}
		item.PhysicalStock += delta
		item.Version++
		item.LastUpdatedBy = updatedBy
		item.LastUpdatedAt = updatedAt
		st.items[code] = item
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
