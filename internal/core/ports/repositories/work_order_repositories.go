package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/workshop_inventory/internal/core/domain"
)

// WorkOrderReader defines read operations for work orders and reservations
type WorkOrderReader interface {
	// FindWorkOrderByID retrieves a work order with its reservations.
	FindWorkOrderByID(ctx context.Context, orderID string) (*domain.WorkOrder, error)
}

// ReservationReader feeds the logical stock calculation.
type ReservationReader interface {
	// SumOpenReservations returns reserved quantities per item code, counting only
	// OPEN work orders that have no active invoice. Codes without reservations are absent.
	SumOpenReservations(ctx context.Context, itemCodes []string) (map[string]int64, error)
}

// WorkOrderWriter defines write operations for work orders and reservations
type WorkOrderWriter interface {
	// SaveWorkOrder inserts a work order and its reservations.
	SaveWorkOrder(ctx context.Context, order domain.WorkOrder) error

	// ReplaceReservations swaps the reservation set of an order.
	ReplaceReservations(ctx context.Context, orderID string, reservations []domain.Reservation, updatedBy string, updatedAt time.Time) error

	// UpdateWorkOrderStatus changes the status of an order.
	UpdateWorkOrderStatus(ctx context.Context, orderID string, status domain.WorkOrderStatus, updatedBy string, updatedAt time.Time) error
}

// WorkOrderRepositoryFacade combines all work-order-related repository interfaces
type WorkOrderRepositoryFacade interface {
	WorkOrderReader
	ReservationReader
	WorkOrderWriter
}
