package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceUnpaid InvoiceStatus = "UNPAID"
	InvoicePaid   InvoiceStatus = "PAID"
	InvoiceVoid   InvoiceStatus = "VOID"
)

// IsActive reports whether the invoice still blocks a new invoice for its subject.
func (s InvoiceStatus) IsActive() bool {
	return s != InvoiceVoid
}

// CanTransitionTo encodes UNPAID -> PAID and UNPAID -> VOID. PAID and VOID are terminal.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	return s == InvoiceUnpaid && (next == InvoicePaid || next == InvoiceVoid)
}

// PaymentMethod is how a paid invoice was settled.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentTransfer   PaymentMethod = "TRANSFER"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentQRIS       PaymentMethod = "QRIS"
)

// IsValid reports whether p is a supported payment method.
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentTransfer, PaymentDebitCard, PaymentCreditCard, PaymentQRIS:
		return true
	}
	return false
}

// InvoiceLineItem is an immutable snapshot of one billed line.
// Lines without an ItemCode (labour, services) never touch stock.
type InvoiceLineItem struct {
	ItemCode    string          `json:"itemCode,omitempty"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// IsStocked reports whether the line consumes a stocked part.
func (l InvoiceLineItem) IsStocked() bool {
	return l.ItemCode != ""
}

// Amount is quantity times unit price.
func (l InvoiceLineItem) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// Invoice bills one subject (work order / visit).
type Invoice struct {
	InvoiceID      string            `json:"invoiceID"`
	DocumentNumber string            `json:"documentNumber"`
	SubjectRef     string            `json:"subjectRef"`
	LineItems      []InvoiceLineItem `json:"lineItems"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	TaxRate        *decimal.Decimal  `json:"taxRate,omitempty"` // Percent, e.g. 11
	TaxAmount      decimal.Decimal   `json:"taxAmount"`
	TotalAmount    decimal.Decimal   `json:"totalAmount"`
	Status         InvoiceStatus     `json:"status"`
	PaymentMethod  *PaymentMethod    `json:"paymentMethod,omitempty"`
	Notes          string            `json:"notes"`
	PaidAt         *time.Time        `json:"paidAt,omitempty"`
	VoidedAt       *time.Time        `json:"voidedAt,omitempty"`
	AuditFields
}

// StockedLines returns only the lines that move stock.
func (inv Invoice) StockedLines() []InvoiceLineItem {
	lines := make([]InvoiceLineItem, 0, len(inv.LineItems))
	for _, l := range inv.LineItems {
		if l.IsStocked() {
			lines = append(lines, l)
		}
	}
	return lines
}

// InvoiceTotals holds the amounts derived from the line snapshot.
type InvoiceTotals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

const (
	// MoneyPlaces is the scale of stored prices, totals and tax rates.
	MoneyPlaces int32 = 2
	// CostPlaces is the scale of stored item cost prices.
	CostPlaces int32 = 4
)

// FitsScale reports whether d has no significant digits beyond places decimals.
func FitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// CalculateTotals sums the lines and applies an optional tax percentage, rounded to 2 places.
func CalculateTotals(lines []InvoiceLineItem, taxRate *decimal.Decimal) InvoiceTotals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Amount())
	}
	tax := decimal.Zero
	if taxRate != nil && taxRate.IsPositive() {
		tax = subtotal.Mul(*taxRate).Div(hundred).Round(2)
	}
	return InvoiceTotals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}
}

// ValidateLineItems rejects snapshots that cannot be billed.
func ValidateLineItems(lines []InvoiceLineItem) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: invoice must have at least one line item", apperrors.ErrValidation)
	}
	seen := make(map[string]struct{}, len(lines))
	for i, l := range lines {
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: line %d: quantity must be positive", apperrors.ErrValidation, i+1)
		}
		if l.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: line %d: unit price must not be negative", apperrors.ErrValidation, i+1)
		}
		if !FitsScale(l.UnitPrice, MoneyPlaces) {
			return fmt.Errorf("%w: line %d: unit price allows at most %d decimal places", apperrors.ErrValidation, i+1, MoneyPlaces)
		}
		if l.ItemCode == "" && strings.TrimSpace(l.Description) == "" {
			return fmt.Errorf("%w: line %d: either itemCode or description is required", apperrors.ErrValidation, i+1)
		}
		if l.ItemCode == "" {
			continue
		}
		if _, dup := seen[l.ItemCode]; dup {
			return fmt.Errorf("%w: line %d: item %s appears more than once", apperrors.ErrValidation, i+1, l.ItemCode)
		}
		seen[l.ItemCode] = struct{}{}
	}
	return nil
}
