package domain

// WorkOrderStatus is the state of a work order as far as reservations are concerned.
type WorkOrderStatus string

const (
	WorkOrderOpen      WorkOrderStatus = "OPEN"
	WorkOrderCancelled WorkOrderStatus = "CANCELLED"
)

// Reservation holds parts for a work order until it is invoiced or cancelled.
type Reservation struct {
	ItemCode string `json:"itemCode"`
	Quantity int64  `json:"quantity"`
}

// WorkOrder is the subject an invoice bills. Its reservations feed logical stock only.
type WorkOrder struct {
	OrderID      string          `json:"orderID"`
	Description  string          `json:"description"`
	Status       WorkOrderStatus `json:"status"`
	Reservations []Reservation   `json:"reservations"`
	AuditFields
}

// StockLevel combines physical stock with what is already promised to open work orders.
type StockLevel struct {
	ItemCode     string `json:"itemCode"`
	Physical     int64  `json:"physical"`
	Reserved     int64  `json:"reserved"`
	Logical      int64  `json:"logical"`
	MinStock     int64  `json:"minStock"`
	BelowMinimum bool   `json:"belowMinimum"`
}

// NewStockLevel derives logical stock as physical minus reserved.
func NewStockLevel(item Item, reserved int64) StockLevel {
	logical := item.PhysicalStock - reserved
	return StockLevel{
		ItemCode:     item.Code,
		Physical:     item.PhysicalStock,
		Reserved:     reserved,
		Logical:      logical,
		MinStock:     item.MinStock,
		BelowMinimum: logical < item.MinStock,
	}
}
