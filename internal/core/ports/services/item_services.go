package services

import (
	"context"

	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	"github.com/SscSPs/workshop_inventory/internal/dto"
)

// ItemReaderSvc defines read operations for items
type ItemReaderSvc interface {
	GetItem(ctx context.Context, code string, actor domain.Actor) (*domain.Item, error)
	ListItems(ctx context.Context, params dto.ListParams, actor domain.Actor) ([]domain.Item, *string, error)
}

// ItemWriterSvc defines write operations for items
type ItemWriterSvc interface {
	// CreateItem registers a part. Opening stock goes through the ledger.
	CreateItem(ctx context.Context, req dto.CreateItemRequest, actor domain.Actor) (*domain.Item, error)

	// UpdateItem edits non-stock fields with an optimistic version check.
	UpdateItem(ctx context.Context, code string, req dto.UpdateItemRequest, actor domain.Actor) (*domain.Item, error)

	// DeactivateItem soft deletes a part with an optimistic version check.
	DeactivateItem(ctx context.Context, code string, expectedVersion int64, actor domain.Actor) (*domain.Item, error)
}

// ItemSvcFacade combines all item-related service interfaces
type ItemSvcFacade interface {
	ItemReaderSvc
	ItemWriterSvc
}
