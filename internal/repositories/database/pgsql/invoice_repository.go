package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
	"github.com/SscSPs/workshop_inventory/internal/models"
	"github.com/SscSPs/workshop_inventory/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

const invoiceColumns = `invoice_id, document_number, subject_ref, line_items, subtotal, tax_rate, tax_amount, total_amount, status, payment_method, notes, paid_at, voided_at, created_at, created_by, last_updated_at, last_updated_by`

// PgxInvoiceRepository implements the invoice ports using pgx.
// Line items live in a JSONB column.
type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(base BaseRepository) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository: base}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

func scanInvoice(row pgx.Row) (domain.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.DocumentNumber,
		&m.SubjectRef,
		&m.LineItems,
		&m.Subtotal,
		&m.TaxRate,
		&m.TaxAmount,
		&m.TotalAmount,
		&m.Status,
		&m.PaymentMethod,
		&m.Notes,
		&m.PaidAt,
		&m.VoidedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Invoice{}, err
	}
	return mapping.ToDomainInvoice(m), nil
}

// FindInvoiceByID retrieves an invoice by its ID.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	inv, err := scanInvoice(r.db(ctx).QueryRow(ctx, query, invoiceID))
	if err != nil {
		return nil, mapError(err, "find invoice %s", invoiceID)
	}
	return &inv, nil
}

func (r *PgxInvoiceRepository) FindActiveInvoiceBySubject(ctx context.Context, subjectRef string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE subject_ref = $1 AND status <> 'VOID';`
	inv, err := scanInvoice(r.db(ctx).QueryRow(ctx, query, subjectRef))
	if err != nil {
		return nil, mapError(err, "find active invoice for subject %s", subjectRef)
	}
	return &inv, nil
}

func (r *PgxInvoiceRepository) ListDocumentNumbersByPrefix(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT document_number FROM invoices WHERE left(document_number, length($1)) = $1;`
	rows, err := r.db(ctx).Query(ctx, query, prefix)
	if err != nil {
		return nil, mapError(err, "list document numbers with prefix %s", prefix)
	}
	numbers, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError(err, "scan document numbers with prefix %s", prefix)
	}
	return numbers, nil
}

// SaveInvoice inserts the invoice. The partial unique index on subject_ref
// rejects a second active invoice for the same subject.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`
	_, err := r.db(ctx).Exec(ctx, query,
		m.InvoiceID,
		m.DocumentNumber,
		m.SubjectRef,
		m.LineItems,
		m.Subtotal,
		m.TaxRate,
		m.TaxAmount,
		m.TotalAmount,
		m.Status,
		m.PaymentMethod,
		m.Notes,
		m.PaidAt,
		m.VoidedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "save invoice %s", m.InvoiceID)
	}
	return nil
}

// TransitionInvoiceStatus updates the row only while it is still in t.From.
func (r *PgxInvoiceRepository) TransitionInvoiceStatus(ctx context.Context, t portsrepo.InvoiceTransition) (*domain.Invoice, error) {
	var method *string
	if t.PaymentMethod != nil {
		pm := string(*t.PaymentMethod)
		method = &pm
	}
	query := `
		UPDATE invoices
		SET status = $3,
			payment_method = CASE WHEN $3 = 'PAID' THEN $4 ELSE payment_method END,
			notes = COALESCE($5, notes),
			paid_at = CASE WHEN $3 = 'PAID' THEN $6 ELSE paid_at END,
			voided_at = CASE WHEN $3 = 'VOID' THEN $6 ELSE voided_at END,
			last_updated_at = $6,
			last_updated_by = $7
		WHERE invoice_id = $1 AND status = $2
		RETURNING ` + invoiceColumns + `;`
	inv, err := scanInvoice(r.db(ctx).QueryRow(ctx, query,
		t.InvoiceID, string(t.From), string(t.To), method, t.Notes, t.UpdatedAt, t.UpdatedBy,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := r.db(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE invoice_id = $1)`, t.InvoiceID).Scan(&exists); err != nil {
			return nil, mapError(err, "find invoice %s", t.InvoiceID)
		}
		if !exists {
			return nil, apperrors.NewNotFoundError("invoice " + t.InvoiceID + " not found")
		}
		return nil, apperrors.ErrStaleState
	}
	if err != nil {
		return nil, mapError(err, "transition invoice %s", t.InvoiceID)
	}
	return &inv, nil
}
