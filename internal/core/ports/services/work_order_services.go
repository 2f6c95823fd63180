package services

import (
	"context"

	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	"github.com/SscSPs/workshop_inventory/internal/dto"
)

// WorkOrderSvcFacade manages work orders and the reservations behind logical stock.
type WorkOrderSvcFacade interface {
	CreateWorkOrder(ctx context.Context, req dto.CreateWorkOrderRequest, actor domain.Actor) (*domain.WorkOrder, error)
	GetWorkOrder(ctx context.Context, orderID string, actor domain.Actor) (*domain.WorkOrder, error)
	ReplaceReservations(ctx context.Context, orderID string, req dto.ReplaceReservationsRequest, actor domain.Actor) (*domain.WorkOrder, error)
	CancelWorkOrder(ctx context.Context, orderID string, actor domain.Actor) (*domain.WorkOrder, error)
}
