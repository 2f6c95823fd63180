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
)

// stockAdjustmentService covers stock movements that are not driven by invoices.
type stockAdjustmentService struct {
	BaseService
	txManager portsrepo.TransactionManager
	itemRepo  portsrepo.ItemRepositoryFacade
	ledger    portssvc.StockLedgerSvc
}

// NewStockAdjustmentService creates a new StockAdjustmentSvc.
func NewStockAdjustmentService(txManager portsrepo.TransactionManager, itemRepo portsrepo.ItemRepositoryFacade, ledger portssvc.StockLedgerSvc, base BaseService) portssvc.StockAdjustmentSvc {
	return &stockAdjustmentService{
		BaseService: base,
		txManager:   txManager,
		itemRepo:    itemRepo,
		ledger:      ledger,
	}
}

var _ portssvc.StockAdjustmentSvc = (*stockAdjustmentService)(nil)

// AdjustStock writes a single ADJUSTMENT entry. A reason is mandatory.
func (s *stockAdjustmentService) AdjustStock(ctx context.Context, req dto.AdjustStockRequest, actor domain.Actor) (*domain.LedgerEntry, error) {
	if err := s.Authorize(ctx, actor, domain.CapStockAdjust); err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: adjustment reason is required", apperrors.ErrValidation)
	}
	if req.Delta == 0 {
		return nil, apperrors.ErrDeltaZero
	}

	return s.ledger.ApplyDelta(ctx, domain.LedgerMutation{
		ItemCode:    req.ItemCode,
		Delta:       req.Delta,
		Kind:        domain.ReasonAdjustment,
		Note:        reason,
		PerformedBy: actor.UserID,
	})
}

// RecordPurchase books intake and, when a unit cost is given, updates the cost price in the same transaction.
func (s *stockAdjustmentService) RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest, actor domain.Actor) (*domain.LedgerEntry, error) {
	if err := s.Authorize(ctx, actor, domain.CapStockPurchase); err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: purchase quantity must be positive", apperrors.ErrValidation)
	}
	if req.UnitCost != nil && req.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: unit cost must not be negative", apperrors.ErrValidation)
	}
	if req.UnitCost != nil && !domain.FitsScale(*req.UnitCost, domain.CostPlaces) {
		return nil, fmt.Errorf("%w: unit cost allows at most %d decimal places", apperrors.ErrValidation, domain.CostPlaces)
	}

	var entry *domain.LedgerEntry
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.ledger.ApplyDelta(ctx, domain.LedgerMutation{
			ItemCode:    req.ItemCode,
			Delta:       req.Quantity,
			Kind:        domain.ReasonPurchase,
			Note:        strings.TrimSpace(req.Note),
			ReferenceID: req.ReferenceID,
			PerformedBy: actor.UserID,
		})
		if err != nil {
			return err
		}
		if req.UnitCost != nil {
			if err := s.itemRepo.UpdateCostPrice(ctx, req.ItemCode, *req.UnitCost, actor.UserID, s.Now()); err != nil {
				return fmt.Errorf("failed to update cost price: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Opname brings stock to the counted quantity. The current count is read under a row lock,
// so the difference is exact even with concurrent writers. No entry is written when nothing differs.
func (s *stockAdjustmentService) Opname(ctx context.Context, req dto.OpnameRequest, actor domain.Actor) (*domain.LedgerEntry, error) {
	if err := s.Authorize(ctx, actor, domain.CapStockAdjust); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: opname reason is required", apperrors.ErrValidation)
	}
	if req.CountedQuantity < 0 {
		return nil, fmt.Errorf("%w: counted quantity must not be negative", apperrors.ErrValidation)
	}

	var entry *domain.LedgerEntry
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		item, err := s.itemRepo.LockItemByCode(ctx, req.ItemCode)
		if err != nil {
			return err
		}
		delta := req.CountedQuantity - item.PhysicalStock
		if delta == 0 {
			s.GetLogger(ctx).Info("Opname matches physical stock", slog.String("item_code", req.ItemCode))
			return nil
		}
		entry, err = s.ledger.ApplyDelta(ctx, domain.LedgerMutation{
			ItemCode:    req.ItemCode,
			Delta:       delta,
			Kind:        domain.ReasonAdjustment,
			Note:        reason,
			PerformedBy: actor.UserID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
