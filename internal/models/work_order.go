package models

// WorkOrder is a row of the work_orders table.
type WorkOrder struct {
	OrderID     string `db:"order_id"`
	Description string `db:"description"`
	Status      string `db:"status"`
	AuditFields
}

// Reservation is a row of the work_order_reservations table.
type Reservation struct {
	OrderID  string `db:"order_id"`
	ItemCode string `db:"item_code"`
	Quantity int64  `db:"quantity"`
}
