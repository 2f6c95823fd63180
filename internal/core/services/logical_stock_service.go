package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/workshop_inventory/internal/core/ports/services"
)

// logicalStockService derives reservable stock on every call. Nothing is cached.
type logicalStockService struct {
	BaseService
	itemRepo    portsrepo.ItemReader
	reservation portsrepo.ReservationReader
}

// NewLogicalStockService creates a new LogicalStockSvc.
func NewLogicalStockService(itemRepo portsrepo.ItemReader, reservation portsrepo.ReservationReader, base BaseService) portssvc.LogicalStockSvc {
	return &logicalStockService{
		BaseService: base,
		itemRepo:    itemRepo,
		reservation: reservation,
	}
}

var _ portssvc.LogicalStockSvc = (*logicalStockService)(nil)

// GetLogicalStock returns physical, reserved and logical stock for one item.
func (s *logicalStockService) GetLogicalStock(ctx context.Context, itemCode string) (*domain.StockLevel, error) {
	levels, err := s.ListLogicalStock(ctx, []string{itemCode})
	if err != nil {
		return nil, err
	}
	return &levels[0], nil
}

// ListLogicalStock returns stock levels in the order of itemCodes. Unknown codes yield ErrNotFound.
func (s *logicalStockService) ListLogicalStock(ctx context.Context, itemCodes []string) ([]domain.StockLevel, error) {
	if len(itemCodes) == 0 {
		return nil, fmt.Errorf("%w: at least one item code is required", apperrors.ErrValidation)
	}

	items := make([]domain.Item, 0, len(itemCodes))
	for _, code := range itemCodes {
		item, err := s.itemRepo.FindItemByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	reserved, err := s.reservation.SumOpenReservations(ctx, itemCodes)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum reservations")
		return nil, fmt.Errorf("failed to sum reservations: %w", err)
	}

	levels := make([]domain.StockLevel, len(items))
	for i, item := range items {
		levels[i] = domain.NewStockLevel(item, reserved[item.Code])
	}
	return levels, nil
}
