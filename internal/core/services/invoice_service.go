package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/workshop_inventory/internal/core/ports/services"
	"github.com/SscSPs/workshop_inventory/internal/dto"
	"github.com/SscSPs/workshop_inventory/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// invoiceService drives the invoice lifecycle and its compensating stock movements.
type invoiceService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	invoiceRepo  portsrepo.InvoiceRepositoryFacade
	sequence     portssvc.SequenceSvc
	ledger       portssvc.StockLedgerSvc
	locker       portssvc.SubjectLocker
	documentKind string
}

// InvoiceServiceOption configures optional invoice service collaborators.
type InvoiceServiceOption func(*invoiceService)

// WithSubjectLocker adds a cross-instance lock around invoice creation for a subject.
func WithSubjectLocker(locker portssvc.SubjectLocker) InvoiceServiceOption {
	return func(s *invoiceService) {
		if locker != nil {
			s.locker = locker
		}
	}
}

// WithDocumentKind overrides the leading tag of invoice numbers.
func WithDocumentKind(kind string) InvoiceServiceOption {
	return func(s *invoiceService) {
		if kind != "" {
			s.documentKind = kind
		}
	}
}

// NewInvoiceService creates a new InvoiceSvcFacade.
func NewInvoiceService(txManager portsrepo.TransactionManager, invoiceRepo portsrepo.InvoiceRepositoryFacade, sequence portssvc.SequenceSvc, ledger portssvc.StockLedgerSvc, base BaseService, opts ...InvoiceServiceOption) portssvc.InvoiceSvcFacade {
	s := &invoiceService{
		BaseService:  base,
		txManager:    txManager,
		invoiceRepo:  invoiceRepo,
		sequence:     sequence,
		ledger:       ledger,
		locker:       noopSubjectLocker{},
		documentKind: domain.InvoiceDocumentKind,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

type noopSubjectLocker struct{}

func (noopSubjectLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

var maxTaxRate = decimal.NewFromInt(100)

// CreateInvoice validates the snapshot, then in one transaction checks for an active
// invoice, numbers the document, stores it UNPAID and consumes every stocked line.
func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, actor domain.Actor) (*domain.Invoice, error) {
	logger := s.GetLogger(ctx)
	if err := s.Authorize(ctx, actor, domain.CapInvoiceCreate); err != nil {
		return nil, err
	}

	subjectRef := strings.TrimSpace(req.SubjectRef)
	if subjectRef == "" {
		return nil, fmt.Errorf("%w: subjectRef is required", apperrors.ErrValidation)
	}
	lines := dto.ToDomainLineItems(req.LineItems)
	if err := domain.ValidateLineItems(lines); err != nil {
		return nil, err
	}
	if req.TaxRate != nil && (req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(maxTaxRate)) {
		return nil, fmt.Errorf("%w: tax rate must be between 0 and 100 percent", apperrors.ErrValidation)
	}
	if req.TaxRate != nil && !domain.FitsScale(*req.TaxRate, domain.MoneyPlaces) {
		return nil, fmt.Errorf("%w: tax rate allows at most %d decimal places", apperrors.ErrValidation, domain.MoneyPlaces)
	}

	release, err := s.locker.Lock(ctx, subjectRef)
	if err != nil {
		logger.Warn("Invoice creation already in progress for subject", slog.String("subject_ref", subjectRef))
		return nil, err
	}
	defer release()

	totals := domain.CalculateTotals(lines, req.TaxRate)
	now := s.Now()
	invoice := domain.Invoice{
		InvoiceID:   uuid.NewString(),
		SubjectRef:  subjectRef,
		LineItems:   lines,
		Subtotal:    totals.Subtotal,
		TaxRate:     req.TaxRate,
		TaxAmount:   totals.TaxAmount,
		TotalAmount: totals.Total,
		Status:      domain.InvoiceUnpaid,
		Notes:       strings.TrimSpace(req.Notes),
		AuditFields: domain.NewAuditFields(actor.UserID, now),
	}

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.invoiceRepo.FindActiveInvoiceBySubject(ctx, subjectRef)
		switch {
		case err == nil:
			return fmt.Errorf("%w: an invoice for this work order already exists (%s, %s)", apperrors.ErrConflict, existing.DocumentNumber, existing.Status)
		case !errors.Is(err, apperrors.ErrNotFound):
			return fmt.Errorf("failed to check active invoice: %w", err)
		}

		number, err := s.sequence.Next(ctx, s.sequence.PrefixFor(s.documentKind, now))
		if err != nil {
			return err
		}
		invoice.DocumentNumber = number

		if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return fmt.Errorf("%w: an invoice for this work order already exists", apperrors.ErrConflict)
			}
			return fmt.Errorf("failed to save invoice: %w", err)
		}

		for _, line := range invoice.StockedLines() {
			if _, err := s.ledger.ApplyDelta(ctx, domain.LedgerMutation{
				ItemCode:    line.ItemCode,
				Delta:       -line.Quantity,
				Kind:        domain.ReasonInvoiceCreate,
				Note:        number,
				ReferenceID: &invoice.InvoiceID,
				PerformedBy: actor.UserID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn("Invoice creation failed", slog.String("subject_ref", subjectRef), slog.String("error", err.Error()))
		return nil, err
	}

	metrics.RecordInvoiceTransition(string(domain.InvoiceUnpaid))
	logger.Info("Invoice created",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("document_number", invoice.DocumentNumber),
		slog.String("subject_ref", subjectRef),
		slog.String("total", invoice.TotalAmount.StringFixed(2)))
	return &invoice, nil
}

// MarkPaid moves an UNPAID invoice to PAID. Stock is untouched.
func (s *invoiceService) MarkPaid(ctx context.Context, invoiceID string, req dto.MarkPaidRequest, actor domain.Actor) (*domain.Invoice, error) {
	if err := s.Authorize(ctx, actor, domain.CapInvoicePay); err != nil {
		return nil, err
	}
	if !req.PaymentMethod.IsValid() {
		return nil, fmt.Errorf("%w: unsupported payment method %q", apperrors.ErrValidation, req.PaymentMethod)
	}

	method := req.PaymentMethod
	var notes *string
	if req.Notes != nil {
		trimmed := strings.TrimSpace(*req.Notes)
		notes = &trimmed
	}

	var updated *domain.Invoice
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.transition(ctx, invoiceID, domain.InvoicePaid, &method, notes, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordInvoiceTransition(string(domain.InvoicePaid))
	s.GetLogger(ctx).Info("Invoice paid",
		slog.String("invoice_id", invoiceID),
		slog.String("document_number", updated.DocumentNumber),
		slog.String("payment_method", string(method)))
	return updated, nil
}

// VoidInvoice moves an UNPAID invoice to VOID and restocks every stocked line in the same transaction.
func (s *invoiceService) VoidInvoice(ctx context.Context, invoiceID string, req dto.VoidInvoiceRequest, actor domain.Actor) (*domain.Invoice, error) {
	if err := s.Authorize(ctx, actor, domain.CapInvoiceVoid); err != nil {
		return nil, err
	}

	var updated *domain.Invoice
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
		if err != nil {
			return err
		}

		var notes *string
		if reason := strings.TrimSpace(req.Reason); reason != "" {
			joined := appendNote(current.Notes, "VOID: "+reason)
			notes = &joined
		}

		updated, err = s.transition(ctx, invoiceID, domain.InvoiceVoid, nil, notes, actor)
		if err != nil {
			return err
		}

		for _, line := range updated.StockedLines() {
			if _, err := s.ledger.ApplyDelta(ctx, domain.LedgerMutation{
				ItemCode:    line.ItemCode,
				Delta:       line.Quantity,
				Kind:        domain.ReasonInvoiceVoid,
				Note:        updated.DocumentNumber,
				ReferenceID: &updated.InvoiceID,
				PerformedBy: actor.UserID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.GetLogger(ctx).Warn("Invoice void failed", slog.String("invoice_id", invoiceID), slog.String("error", err.Error()))
		return nil, err
	}

	metrics.RecordInvoiceTransition(string(domain.InvoiceVoid))
	s.GetLogger(ctx).Info("Invoice voided",
		slog.String("invoice_id", invoiceID),
		slog.String("document_number", updated.DocumentNumber))
	return updated, nil
}

// transition checks the state machine, then applies a conditional update guarded by
// status = UNPAID. Losing that race yields a stale TransitionError carrying the fresh status.
func (s *invoiceService) transition(ctx context.Context, invoiceID string, to domain.InvoiceStatus, method *domain.PaymentMethod, notes *string, actor domain.Actor) (*domain.Invoice, error) {
	current, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(to) {
		return nil, &apperrors.TransitionError{
			InvoiceID: invoiceID,
			Current:   string(current.Status),
			Requested: string(to),
		}
	}

	updated, err := s.invoiceRepo.TransitionInvoiceStatus(ctx, portsrepo.InvoiceTransition{
		InvoiceID:     invoiceID,
		From:          current.Status,
		To:            to,
		PaymentMethod: method,
		Notes:         notes,
		UpdatedBy:     actor.UserID,
		UpdatedAt:     s.Now(),
	})
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, apperrors.ErrStaleState) {
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	fresh, findErr := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if findErr != nil {
		return nil, fmt.Errorf("failed to re-read invoice after lost update: %w", findErr)
	}
	return nil, &apperrors.TransitionError{
		InvoiceID: invoiceID,
		Current:   string(fresh.Status),
		Requested: string(to),
		Stale:     true,
	}
}

func appendNote(existing, note string) string {
	if strings.TrimSpace(existing) == "" {
		return note
	}
	return existing + "\n" + note
}

// GetInvoice retrieves an invoice by ID.
func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string, actor domain.Actor) (*domain.Invoice, error) {
	if err := s.Authorize(ctx, actor, domain.CapInvoiceCreate); err != nil {
		return nil, err
	}
	return s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
}

// GetActiveInvoiceForSubject retrieves the non-VOID invoice of a work order.
func (s *invoiceService) GetActiveInvoiceForSubject(ctx context.Context, subjectRef string, actor domain.Actor) (*domain.Invoice, error) {
	if err := s.Authorize(ctx, actor, domain.CapInvoiceCreate); err != nil {
		return nil, err
	}
	return s.invoiceRepo.FindActiveInvoiceBySubject(ctx, subjectRef)
}
