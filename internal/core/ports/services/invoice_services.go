package services

import (
	"context"

	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	"github.com/SscSPs/workshop_inventory/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	// GetInvoice retrieves an invoice by ID.
	GetInvoice(ctx context.Context, invoiceID string, actor domain.Actor) (*domain.Invoice, error)

	// GetActiveInvoiceForSubject retrieves the non-VOID invoice of a work order.
	GetActiveInvoiceForSubject(ctx context.Context, subjectRef string, actor domain.Actor) (*domain.Invoice, error)
}

// InvoiceLifecycleSvc drives the UNPAID -> PAID | VOID state machine.
type InvoiceLifecycleSvc interface {
	// CreateInvoice numbers the invoice, consumes stocked parts and stores it as UNPAID.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, actor domain.Actor) (*domain.Invoice, error)

	// MarkPaid settles an UNPAID invoice. Stock is untouched.
	MarkPaid(ctx context.Context, invoiceID string, req dto.MarkPaidRequest, actor domain.Actor) (*domain.Invoice, error)

	// VoidInvoice cancels an UNPAID invoice and restocks its parts.
	VoidInvoice(ctx context.Context, invoiceID string, req dto.VoidInvoiceRequest, actor domain.Actor) (*domain.Invoice, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceLifecycleSvc
}
