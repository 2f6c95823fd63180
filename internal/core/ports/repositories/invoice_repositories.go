package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/workshop_inventory/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice by its ID.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// FindActiveInvoiceBySubject retrieves the non-VOID invoice for a subject, ErrNotFound when none.
	FindActiveInvoiceBySubject(ctx context.Context, subjectRef string) (*domain.Invoice, error)
}

// DocumentNumberReader lets the sequence generator detect numbers that already exist.
type DocumentNumberReader interface {
	// ListDocumentNumbersByPrefix returns every document number starting with prefix.
	ListDocumentNumbersByPrefix(ctx context.Context, prefix string) ([]string, error)
}

// InvoiceTransition is a conditional status change.
type InvoiceTransition struct {
	InvoiceID     string
	From          domain.InvoiceStatus
	To            domain.InvoiceStatus
	PaymentMethod *domain.PaymentMethod
	Notes         *string
	UpdatedBy     string
	UpdatedAt     time.Time
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoice inserts a new invoice. A second active invoice for the same subject yields ErrConflict,
	// a reused document number yields ErrDuplicate.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// TransitionInvoiceStatus applies the change only while the invoice is still in From.
	// It returns ErrStaleState when no row matched.
	TransitionInvoiceStatus(ctx context.Context, transition InvoiceTransition) (*domain.Invoice, error)
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
	DocumentNumberReader
}
