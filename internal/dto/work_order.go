package dto

import (
	"time"

	"github.com/SscSPs/workshop_inventory/internal/core/domain"
)

// ReservationRequest holds parts for a work order.
type ReservationRequest struct {
	ItemCode string `json:"itemCode" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required,min=1"`
}

// CreateWorkOrderRequest opens a work order. OrderID is generated when empty.
type CreateWorkOrderRequest struct {
	OrderID      string               `json:"orderID"`
	Description  string               `json:"description"`
	Reservations []ReservationRequest `json:"reservations" binding:"dive"`
}

// ReplaceReservationsRequest swaps the reservation set of an open work order.
type ReplaceReservationsRequest struct {
	Reservations []ReservationRequest `json:"reservations" binding:"dive"`
}

// ToDomainReservations converts request reservations, merging repeated item codes.
func ToDomainReservations(reqs []ReservationRequest) []domain.Reservation {
	index := make(map[string]int, len(reqs))
	res := make([]domain.Reservation, 0, len(reqs))
	for _, r := range reqs {
		if i, ok := index[r.ItemCode]; ok {
			res[i].Quantity += r.Quantity
			continue
		}
		index[r.ItemCode] = len(res)
		res = append(res, domain.Reservation{ItemCode: r.ItemCode, Quantity: r.Quantity})
	}
	return res
}

// WorkOrderResponse defines the data returned for a work order.
type WorkOrderResponse struct {
	OrderID       string               `json:"orderID"`
	Description   string               `json:"description"`
	Status        string               `json:"status"`
	Reservations  []domain.Reservation `json:"reservations"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy string               `json:"lastUpdatedBy"`
}

// ToWorkOrderResponse converts a domain.WorkOrder to WorkOrderResponse DTO
func ToWorkOrderResponse(order *domain.WorkOrder) WorkOrderResponse {
	reservations := order.Reservations
	if reservations == nil {
		reservations = []domain.Reservation{}
	}
	return WorkOrderResponse{
		OrderID:       order.OrderID,
		Description:   order.Description,
		Status:        string(order.Status),
		Reservations:  reservations,
		CreatedAt:     order.CreatedAt,
		CreatedBy:     order.CreatedBy,
		LastUpdatedAt: order.LastUpdatedAt,
		LastUpdatedBy: order.LastUpdatedBy,
	}
}
