package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
)

type invoiceRepository struct {
	store *Store
}

var _ portsrepo.InvoiceRepositoryFacade = (*invoiceRepository)(nil)

func activeInvoice(st *state, subjectRef string) (domain.Invoice, bool) {
	for _, inv := range st.invoices {
		if inv.SubjectRef == subjectRef && inv.Status.IsActive() {
			return inv, true
		}
	}
	return domain.Invoice{}, false
}

func (r *invoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.store.run(ctx, func(st *state) error {
		var ok bool
		inv, ok = st.invoices[invoiceID]
		if !ok {
			return notFound("invoice", invoiceID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) FindActiveInvoiceBySubject(ctx context.Context, subjectRef string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.store.run(ctx, func(st *state) error {
		var ok bool
		inv, ok = activeInvoice(st, subjectRef)
		if !ok {
			return notFound("active invoice for subject", subjectRef)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) ListDocumentNumbersByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var numbers []string
	err := r.store.run(ctx, func(st *state) error {
		for _, inv := range st.invoices {
			if strings.HasPrefix(inv.DocumentNumber, prefix) {
				numbers = append(numbers, inv.DocumentNumber)
			}
		}
		return nil
	})
	return numbers, err
}

// SaveInvoice enforces the same uniqueness rules as the database indexes.
func (r *invoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	return r.store.run(ctx, func(st *state) error {
		if _, exists := st.invoices[invoice.InvoiceID]; exists {
			return fmt.Errorf("%w: invoice %s", apperrors.ErrDuplicate, invoice.InvoiceID)
		}
		for _, other := range st.invoices {
			if other.DocumentNumber == invoice.DocumentNumber {
				return fmt.Errorf("%w: document number %s", apperrors.ErrDuplicate, invoice.DocumentNumber)
			}
		}
		if invoice.Status.IsActive() {
			if _, exists := activeInvoice(st, invoice.SubjectRef); exists {
				return fmt.Errorf("%w: active invoice for subject %s", apperrors.ErrConflict, invoice.SubjectRef)
			}
		}
		invoice.LineItems = append([]domain.InvoiceLineItem(nil), invoice.LineItems...)
		st.invoices[invoice.InvoiceID] = invoice
		return nil
	})
}

func (r *invoiceRepository) TransitionInvoiceStatus(ctx context.Context, t portsrepo.InvoiceTransition) (*domain.Invoice, error) {
	var updated domain.Invoice
	err := r.store.run(ctx, func(st *state) error {
		inv, ok := st.invoices[t.InvoiceID]
		if !ok {
			return notFound("invoice", t.InvoiceID)
		}
		if inv.Status != t.From {
			return apperrors.ErrStaleState
		}
		inv.Status = t.To
		switch t.To {
		case domain.InvoicePaid:
			inv.PaymentMethod = t.PaymentMethod
			at := t.UpdatedAt
			inv.PaidAt = &at
		case domain.InvoiceVoid:
			at := t.UpdatedAt
			inv.VoidedAt = &at
		}
		if t.Notes != nil {
			inv.Notes = *t.Notes
		}
		inv.LastUpdatedAt = t.UpdatedAt
		inv.LastUpdatedBy = t.UpdatedBy
		st.invoices[t.InvoiceID] = inv
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
