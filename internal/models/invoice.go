package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLine is one element of the invoices.line_items JSONB column.
type InvoiceLine struct {
	ItemCode    string          `json:"itemCode,omitempty"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Invoice is a row of the invoices table.
type Invoice struct {
	InvoiceID      string           `db:"invoice_id"`
	DocumentNumber string           `db:"document_number"`
	SubjectRef     string           `db:"subject_ref"`
	LineItems      []InvoiceLine    `db:"line_items"` // JSONB
	Subtotal       decimal.Decimal  `db:"subtotal"`
	TaxRate        *decimal.Decimal `db:"tax_rate"` // Nullable
	TaxAmount      decimal.Decimal  `db:"tax_amount"`
	TotalAmount    decimal.Decimal  `db:"total_amount"`
	Status         string           `db:"status"`
	PaymentMethod  *string          `db:"payment_method"` // Nullable
	Notes          string           `db:"notes"`
	PaidAt         *time.Time       `db:"paid_at"`
	VoidedAt       *time.Time       `db:"voided_at"`
	AuditFields
}
