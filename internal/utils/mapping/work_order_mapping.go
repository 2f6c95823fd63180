package mapping

import (
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	"github.com/SscSPs/workshop_inventory/internal/models"
)

// ToModelWorkOrder converts a domain WorkOrder to its model row and reservation rows
func ToModelWorkOrder(d domain.WorkOrder) (models.WorkOrder, []models.Reservation) {
	return models.WorkOrder{
		OrderID:     d.OrderID,
		Description: d.Description,
		Status:      string(d.Status),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}, ToModelReservations(d.OrderID, d.Reservations)
}

// ToModelReservations converts domain Reservations to model rows of one order
func ToModelReservations(orderID string, ds []domain.Reservation) []models.Reservation {
	rows := make([]models.Reservation, len(ds))
	for i, r := range ds {
		rows[i] = models.Reservation{OrderID: orderID, ItemCode: r.ItemCode, Quantity: r.Quantity}
	}
	return rows
}

// ToDomainWorkOrder converts a model WorkOrder and its reservation rows to a domain WorkOrder
func ToDomainWorkOrder(m models.WorkOrder, rows []models.Reservation) domain.WorkOrder {
	reservations := make([]domain.Reservation, len(rows))
	for i, r := range rows {
		reservations[i] = domain.Reservation{ItemCode: r.ItemCode, Quantity: r.Quantity}
	}
	return domain.WorkOrder{
		OrderID:      m.OrderID,
		Description:  m.Description,
		Status:       domain.WorkOrderStatus(m.Status),
		Reservations: reservations,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
