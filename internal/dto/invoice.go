package dto

import (
	"time"

	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceLineRequest is one billed line. Lines without itemCode do not move stock.
type InvoiceLineRequest struct {
	ItemCode    string          `json:"itemCode"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// CreateInvoiceRequest defines the data needed to bill a work order.
type CreateInvoiceRequest struct {
	SubjectRef string               `json:"subjectRef" binding:"required"`
	LineItems  []InvoiceLineRequest `json:"lineItems" binding:"required,min=1,dive"`
	TaxRate    *decimal.Decimal     `json:"taxRate"` // Optional percent
	Notes      string               `json:"notes"`
}

// MarkPaidRequest settles an unpaid invoice.
type MarkPaidRequest struct {
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"required,payment_method"`
	Notes         *string              `json:"notes"`
}

// VoidInvoiceRequest cancels an unpaid invoice and restocks its parts.
type VoidInvoiceRequest struct {
	Reason string `json:"reason"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID      string                   `json:"invoiceID"`
	DocumentNumber string                   `json:"documentNumber"`
	SubjectRef     string                   `json:"subjectRef"`
	LineItems      []domain.InvoiceLineItem `json:"lineItems"`
	Subtotal       decimal.Decimal          `json:"subtotal"`
	TaxRate        *decimal.Decimal         `json:"taxRate,omitempty"`
	TaxAmount      decimal.Decimal          `json:"taxAmount"`
	TotalAmount    decimal.Decimal          `json:"totalAmount"`
	Status         domain.InvoiceStatus     `json:"status"`
	PaymentMethod  *domain.PaymentMethod    `json:"paymentMethod,omitempty"`
	Notes          string                   `json:"notes"`
	PaidAt         *time.Time               `json:"paidAt,omitempty"`
	VoidedAt       *time.Time               `json:"voidedAt,omitempty"`
	CreatedAt      time.Time                `json:"createdAt"`
	CreatedBy      string                   `json:"createdBy"`
	LastUpdatedAt  time.Time                `json:"lastUpdatedAt"`
	LastUpdatedBy  string                   `json:"lastUpdatedBy"`
}

// ToDomainLineItems converts request lines into the invoice snapshot.
func ToDomainLineItems(lines []InvoiceLineRequest) []domain.InvoiceLineItem {
	res := make([]domain.InvoiceLineItem, len(lines))
	for i, l := range lines {
		res[i] = domain.InvoiceLineItem{
			ItemCode:    l.ItemCode,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		}
	}
	return res
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:      inv.InvoiceID,
		DocumentNumber: inv.DocumentNumber,
		SubjectRef:     inv.SubjectRef,
		LineItems:      inv.LineItems,
		Subtotal:       inv.Subtotal,
		TaxRate:        inv.TaxRate,
		TaxAmount:      inv.TaxAmount,
		TotalAmount:    inv.TotalAmount,
		Status:         inv.Status,
		PaymentMethod:  inv.PaymentMethod,
		Notes:          inv.Notes,
		PaidAt:         inv.PaidAt,
		VoidedAt:       inv.VoidedAt,
		CreatedAt:      inv.CreatedAt,
		CreatedBy:      inv.CreatedBy,
		LastUpdatedAt:  inv.LastUpdatedAt,
		LastUpdatedBy:  inv.LastUpdatedBy,
	}
}
