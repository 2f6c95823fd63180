package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/workshop_inventory/internal/core/ports/services"
	"github.com/SscSPs/workshop_inventory/internal/dto"
	"github.com/shopspring/decimal"
)

// itemService manages the part catalog. Stock itself only moves through the ledger.
type itemService struct {
	BaseService
	txManager portsrepo.TransactionManager
	itemRepo  portsrepo.ItemRepositoryFacade
	ledger    portssvc.StockLedgerSvc
}

// NewItemService creates a new ItemSvcFacade.
func NewItemService(txManager portsrepo.TransactionManager, itemRepo portsrepo.ItemRepositoryFacade, ledger portssvc.StockLedgerSvc, base BaseService) portssvc.ItemSvcFacade {
	return &itemService{
		BaseService: base,
		txManager:   txManager,
		itemRepo:    itemRepo,
		ledger:      ledger,
	}
}

var _ portssvc.ItemSvcFacade = (*itemService)(nil)

func validateItemDetails(name, unit string, minStock int64, cost decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: item name is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(unit) == "" {
		return fmt.Errorf("%w: item unit is required", apperrors.ErrValidation)
	}
	if minStock < 0 {
		return fmt.Errorf("%w: minimum stock must not be negative", apperrors.ErrValidation)
	}
	if cost.IsNegative() {
		return fmt.Errorf("%w: cost price must not be negative", apperrors.ErrValidation)
	}
	if !domain.FitsScale(cost, domain.CostPlaces) {
		return fmt.Errorf("%w: cost price allows at most %d decimal places", apperrors.ErrValidation, domain.CostPlaces)
	}
	return nil
}

// CreateItem registers a part with zero stock, then books any opening stock as an OPENING entry.
func (s *itemService) CreateItem(ctx context.Context, req dto.CreateItemRequest, actor domain.Actor) (*domain.Item, error) {
	logger := s.GetLogger(ctx)
	if err := s.Authorize(ctx, actor, domain.CapItemWrite); err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, fmt.Errorf("%w: item code is required", apperrors.ErrValidation)
	}
	if err := validateItemDetails(req.Name, req.Unit, req.MinStock, req.CostPrice); err != nil {
		return nil, err
	}
	if req.OpeningStock < 0 {
		return nil, fmt.Errorf("%w: opening stock must not be negative", apperrors.ErrValidation)
	}

	now := s.Now()
	item := domain.Item{
		Code:        code,
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(req.Category),
		Unit:        strings.TrimSpace(req.Unit),
		MinStock:    req.MinStock,
		CostPrice:   req.CostPrice,
		Version:     1,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(actor.UserID, now),
	}

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.itemRepo.SaveItem(ctx, item); err != nil {
			return fmt.Errorf("failed to save item %s: %w", code, err)
		}
		if req.OpeningStock > 0 {
			if _, err := s.ledger.ApplyDelta(ctx, domain.LedgerMutation{
				ItemCode:    code,
				Delta:       req.OpeningStock,
				Kind:        domain.ReasonOpening,
				PerformedBy: actor.UserID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create item", slog.String("item_code", code))
		return nil, err
	}

	logger.Info("Item created", slog.String("item_code", code), slog.Int64("opening_stock", req.OpeningStock))
	return s.itemRepo.FindItemByCode(ctx, code)
}

// GetItem retrieves an active item.
func (s *itemService) GetItem(ctx context.Context, code string, actor domain.Actor) (*domain.Item, error) {
	if err := s.Authorize(ctx, actor, domain.CapStockRead); err != nil {
		return nil, err
	}
	return s.itemRepo.FindItemByCode(ctx, code)
}

// ListItems lists active items by code.
func (s *itemService) ListItems(ctx context.Context, params dto.ListParams, actor domain.Actor) ([]domain.Item, *string, error) {
	if err := s.Authorize(ctx, actor, domain.CapStockRead); err != nil {
		return nil, nil, err
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}
	return s.itemRepo.ListItems(ctx, params.Limit, params.NextToken)
}

// UpdateItem overwrites the editable fields when the caller saw the current version.
func (s *itemService) UpdateItem(ctx context.Context, code string, req dto.UpdateItemRequest, actor domain.Actor) (*domain.Item, error) {
	if err := s.Authorize(ctx, actor, domain.CapItemWrite); err != nil {
		return nil, err
	}
	if err := validateItemDetails(req.Name, req.Unit, req.MinStock, req.CostPrice); err != nil {
		return nil, err
	}

	details := domain.ItemDetails{
		Name:      strings.TrimSpace(req.Name),
		Category:  strings.TrimSpace(req.Category),
		Unit:      strings.TrimSpace(req.Unit),
		MinStock:  req.MinStock,
		CostPrice: req.CostPrice,
	}
	item, err := s.itemRepo.UpdateItemDetails(ctx, code, details, req.ExpectedVersion, actor.UserID, s.Now())
	if err != nil {
		s.GetLogger(ctx).Warn("Item update rejected",
			slog.String("item_code", code),
			slog.Int64("expected_version", req.ExpectedVersion),
			slog.String("error", err.Error()))
		return nil, err
	}
	s.GetLogger(ctx).Info("Item updated", slog.String("item_code", code), slog.Int64("version", item.Version))
	return item, nil
}

// DeactivateItem soft deletes an item. Its ledger stays.
func (s *itemService) DeactivateItem(ctx context.Context, code string, expectedVersion int64, actor domain.Actor) (*domain.Item, error) {
	if err := s.Authorize(ctx, actor, domain.CapItemWrite); err != nil {
		return nil, err
	}
	item, err := s.itemRepo.DeactivateItem(ctx, code, expectedVersion, actor.UserID, s.Now())
	if err != nil {
		s.GetLogger(ctx).Warn("Item deactivation rejected", slog.String("item_code", code), slog.String("error", err.Error()))
		return nil, err
	}
	s.GetLogger(ctx).Info("Item deactivated", slog.String("item_code", code))
	return item, nil
}
