package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
)

type workOrderRepository struct {
	store *Store
}

var _ portsrepo.WorkOrderRepositoryFacade = (*workOrderRepository)(nil)

func (r *workOrderRepository) FindWorkOrderByID(ctx context.Context, orderID string) (*domain.WorkOrder, error) {
	var order domain.WorkOrder
	err := r.store.run(ctx, func(st *state) error {
		var ok bool
		order, ok = st.workOrders[orderID]
		if !ok {
			return notFound("work order", orderID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Reservations = append([]domain.Reservation(nil), order.Reservations...)
	return &order, nil
}

func (r *workOrderRepository) SumOpenReservations(ctx context.Context, itemCodes []string) (map[string]int64, error) {
	wanted := make(map[string]struct{}, len(itemCodes))
	for _, c := range itemCodes {
		wanted[c] = struct{}{}
	}

	sums := map[string]int64{}
	err := r.store.run(ctx, func(st *state) error {
		for _, order := range st.workOrders {
			if order.Status != domain.WorkOrderOpen {
				continue
			}
			if _, invoiced := activeInvoice(st, order.OrderID); invoiced {
				continue
			}
			for _, res := range order.Reservations {
				if _, ok := wanted[res.ItemCode]; ok {
					sums[res.ItemCode] += res.Quantity
				}
			}
		}
		return nil
	})
	return sums, err
}

func (r *workOrderRepository) SaveWorkOrder(ctx context.Context, order domain.WorkOrder) error {
	return r.store.run(ctx, func(st *state) error {
		if _, exists := st.workOrders[order.OrderID]; exists {
			return fmt.Errorf("%w: work order %s", apperrors.ErrDuplicate, order.OrderID)
		}
		order.Reservations = append([]domain.Reservation(nil), order.Reservations...)
		st.workOrders[order.OrderID] = order
		return nil
	})
}

func (r *workOrderRepository) ReplaceReservations(ctx context.Context, orderID string, reservations []domain.Reservation, updatedBy string, updatedAt time.Time) error {
	return r.store.run(ctx, func(st *state) error {
		order, ok := st.workOrders[orderID]
		if !ok {
			return notFound("work order", orderID)
		}
		order.Reservations = append([]domain.Reservation(nil), reservations...)
		order.LastUpdatedBy = updatedBy
		order.LastUpdatedAt = updatedAt
		st.workOrders[orderID] = order
		return nil
	})
}

func (r *workOrderRepository) UpdateWorkOrderStatus(ctx context.Context, orderID string, status domain.WorkOrderStatus, updatedBy string, updatedAt time.Time) error {
	return r.store.run(ctx, func(st *state) error {
		order, ok := st.workOrders[orderID]
		if !ok {
			return notFound("work order", orderID)
		}
		order.Status = status
		order.LastUpdatedBy = updatedBy
		order.LastUpdatedAt = updatedAt
		st.workOrders[orderID] = order
		return nil
	})
}
