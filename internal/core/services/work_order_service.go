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
	"github.com/google/uuid"
)

// workOrderService keeps the reservations that logical stock is computed from.
// It never writes ledger entries.
type workOrderService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	workOrderRepo portsrepo.WorkOrderRepositoryFacade
	itemRepo      portsrepo.ItemReader
}

// NewWorkOrderService creates a new WorkOrderSvcFacade.
func NewWorkOrderService(txManager portsrepo.TransactionManager, workOrderRepo portsrepo.WorkOrderRepositoryFacade, itemRepo portsrepo.ItemReader, base BaseService) portssvc.WorkOrderSvcFacade {
	return &workOrderService{
		BaseService:   base,
		txManager:     txManager,
		workOrderRepo: workOrderRepo,
		itemRepo:      itemRepo,
	}
}

var _ portssvc.WorkOrderSvcFacade = (*workOrderService)(nil)

func (s *workOrderService) checkReservations(ctx context.Context, reservations []domain.Reservation) error {
	for _, r := range reservations {
		if r.Quantity <= 0 {
			return fmt.Errorf("%w: reservation quantity for %s must be positive", apperrors.ErrValidation, r.ItemCode)
		}
		if _, err := s.itemRepo.FindItemByCode(ctx, r.ItemCode); err != nil {
			return fmt.Errorf("reserved item %s: %w", r.ItemCode, err)
		}
	}
	return nil
}

// CreateWorkOrder opens a work order with its initial reservations.
func (s *workOrderService) CreateWorkOrder(ctx context.Context, req dto.CreateWorkOrderRequest, actor domain.Actor) (*domain.WorkOrder, error) {
	if err := s.Authorize(ctx, actor, domain.CapWorkOrderWrite); err != nil {
		return nil, err
	}

	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		orderID = uuid.NewString()
	}
	order := domain.WorkOrder{
		OrderID:      orderID,
		Description:  strings.TrimSpace(req.Description),
		Status:       domain.WorkOrderOpen,
		Reservations: dto.ToDomainReservations(req.Reservations),
		AuditFields:  domain.NewAuditFields(actor.UserID, s.Now()),
	}

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.checkReservations(ctx, order.Reservations); err != nil {
			return err
		}
		return s.workOrderRepo.SaveWorkOrder(ctx, order)
	})
	if err != nil {
		s.GetLogger(ctx).Warn("Work order creation failed", slog.String("order_id", orderID), slog.String("error", err.Error()))
		return nil, err
	}

	s.GetLogger(ctx).Info("Work order created", slog.String("order_id", orderID), slog.Int("reservations", len(order.Reservations)))
	return &order, nil
}

// GetWorkOrder retrieves a work order with its reservations.
func (s *workOrderService) GetWorkOrder(ctx context.Context, orderID string, actor domain.Actor) (*domain.WorkOrder, error) {
	if err := s.Authorize(ctx, actor, domain.CapStockRead); err != nil {
		return nil, err
	}
	return s.workOrderRepo.FindWorkOrderByID(ctx, orderID)
}

// ReplaceReservations swaps the reservation set of an OPEN work order.
func (s *workOrderService) ReplaceReservations(ctx context.Context, orderID string, req dto.ReplaceReservationsRequest, actor domain.Actor) (*domain.WorkOrder, error) {
	if err := s.Authorize(ctx, actor, domain.CapWorkOrderWrite); err != nil {
		return nil, err
	}

	reservations := dto.ToDomainReservations(req.Reservations)
	var order *domain.WorkOrder
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.workOrderRepo.FindWorkOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != domain.WorkOrderOpen {
			return fmt.Errorf("%w: work order %s is %s", apperrors.ErrConflict, orderID, order.Status)
		}
		if err := s.checkReservations(ctx, reservations); err != nil {
			return err
		}
		now := s.Now()
		if err := s.workOrderRepo.ReplaceReservations(ctx, orderID, reservations, actor.UserID, now); err != nil {
			return err
		}
		order.Reservations = reservations
		order.LastUpdatedAt = now
		order.LastUpdatedBy = actor.UserID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.GetLogger(ctx).Info("Work order reservations replaced", slog.String("order_id", orderID), slog.Int("reservations", len(reservations)))
	return order, nil
}

// CancelWorkOrder releases the reservations of an order. Cancelling twice is a no-op.
func (s *workOrderService) CancelWorkOrder(ctx context.Context, orderID string, actor domain.Actor) (*domain.WorkOrder, error) {
	if err := s.Authorize(ctx, actor, domain.CapWorkOrderWrite); err != nil {
		return nil, err
	}

	var order *domain.WorkOrder
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.workOrderRepo.FindWorkOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status == domain.WorkOrderCancelled {
			return nil
		}
		now := s.Now()
		if err := s.workOrderRepo.UpdateWorkOrderStatus(ctx, orderID, domain.WorkOrderCancelled, actor.UserID, now); err != nil {
			return err
		}
		order.Status = domain.WorkOrderCancelled
		order.LastUpdatedAt = now
		order.LastUpdatedBy = actor.UserID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.GetLogger(ctx).Info("Work order cancelled", slog.String("order_id", orderID))
	return order, nil
}
