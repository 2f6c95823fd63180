package services_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	"github.com/SscSPs/workshop_inventory/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestInvoiceCreateVoidRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "OIL-FILTER-01", 10)

	inv, err := env.svc.Invoice.CreateInvoice(ctx, invoiceRequest("WO-1", part("OIL-FILTER-01", 2, 45000), labour("Service", 100000)), cashier)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceUnpaid, inv.Status)
	assert.Equal(t, "INV-140325-001", inv.DocumentNumber)
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(190000)))
	assert.Equal(t, int64(8), env.stock(t, "OIL-FILTER-01"))

	entries := env.ledger(t, "OIL-FILTER-01")
	require.Len(t, entries, 2) // OPENING + INVOICE_CREATE
	assert.Equal(t, int64(-2), entries[0].Delta)
	assert.Equal(t, domain.ReasonInvoiceCreate, entries[0].Kind)
	assert.Equal(t, "Invoice Created: INV-140325-001", entries[0].Reason())

	voided, err := env.svc.Invoice.VoidInvoice(ctx, inv.InvoiceID, dto.VoidInvoiceRequest{Reason: "customer cancelled"}, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceVoid, voided.Status)
	assert.Contains(t, voided.Notes, "VOID: customer cancelled")
	require.NotNil(t, voided.VoidedAt)
	assert.Equal(t, int64(10), env.stock(t, "OIL-FILTER-01"))

	entries = env.ledger(t, "OIL-FILTER-01")
	require.Len(t, entries, 3)
	assert.Equal(t, int64(2), entries[0].Delta)
	assert.Equal(t, domain.ReasonInvoiceVoid, entries[0].Kind)

	_, err = env.svc.Invoice.MarkPaid(ctx, inv.InvoiceID, dto.MarkPaidRequest{PaymentMethod: domain.PaymentCash}, cashier)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	var te *apperrors.TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, string(domain.InvoiceVoid), te.Current)
}

func TestInvoiceStockSymmetryAcrossLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "BRAKE-PAD", 6)
	env.seedItem(t, "SPARK-PLUG", 12)

	inv, err := env.svc.Invoice.CreateInvoice(ctx, invoiceRequest("WO-7",
		part("BRAKE-PAD", 2, 150000),
		part("SPARK-PLUG", 4, 25000),
		labour("Labour", 50000),
	), cashier)
	require.NoError(t, err)
	assert.Equal(t, int64(4), env.stock(t, "BRAKE-PAD"))
	assert.Equal(t, int64(8), env.stock(t, "SPARK-PLUG"))

	_, err = env.svc.Invoice.VoidInvoice(ctx, inv.InvoiceID, dto.VoidInvoiceRequest{}, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(6), env.stock(t, "BRAKE-PAD"))
	assert.Equal(t, int64(12), env.stock(t, "SPARK-PLUG"))

	for _, code := range []string{"BRAKE-PAD", "SPARK-PLUG"} {
		entries := env.ledger(t, code)
		assert.Equal(t, env.stock(t, code), sumDeltas(entries), code)
	}
}

func TestInvoiceCreateRollsBackOnUnknownItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "OIL-FILTER-01", 10)

	_, err := env.svc.Invoice.CreateInvoice(ctx, invoiceRequest("WO-2", part("OIL-FILTER-01", 2, 45000), part("GHOST", 1, 1)), cashier)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Equal(t, int64(10), env.stock(t, "OIL-FILTER-01"))
	assert.Len(t, env.ledger(t, "OIL-FILTER-01"), 1)
	_, err = env.svc.Invoice.GetActiveInvoiceForSubject(ctx, "WO-2", cashier)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOneActiveInvoicePerSubject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "OIL-FILTER-01", 10)

	first, err := env.svc.Invoice.CreateInvoice(ctx, invoiceRequest("WO-3", part("OIL-FILTER-01", 1, 45000)), cashier)
	require.NoError(t, err)

	_, err = env.svc.Invoice.CreateInvoice(ctx, invoiceRequest("WO-3", part("OIL-FILTER-01", 1, 45000)), cashier)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, int64(9), env.stock(t, "OIL-FILTER-01"))

	// A voided invoice frees the subject.
	_, err = env.svc.Invoice.VoidInvoice(ctx, first.InvoiceID, dto.VoidInvoiceRequest{}, admin)
	require.NoError(t, err)
	second, err := env.svc.Invoice.CreateInvoice(ctx, invoiceRequest("WO-3", part("OIL-FILTER-01", 1, 45000)), cashier)
	require.NoError(t, err)
	assert.NotEqual(t, first.DocumentNumber, second.DocumentNumber)
}

func TestConcurrentCreatesForSameSubject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "OIL-FILTER-01", 10)

	var ok, conflicts atomic.Int32
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			_, err := env.svc.Invoice.CreateInvoice(ctx, invoiceRequest("WO-RACE", part("OIL-FILTER-01", 2, 45000)), cashier)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, apperrors.ErrConflict):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(7), conflicts.Load())
	assert.Equal(t, int64(8), env.stock(t, "OIL-FILTER-01"))
}

func TestMarkPaidThenVoidIsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "OIL-FILTER-01", 10)

	inv, err := env.svc.Invoice.CreateInvoice(ctx, invoiceRequest("WO-4", part("OIL-FILTER-01", 1, 45000)), cashier)
	require.NoError(t, err)

	paid, err := env.svc.Invoice.MarkPaid(ctx, inv.InvoiceID, dto.MarkPaidRequest{PaymentMethod: domain.PaymentQRIS}, cashier)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoicePaid, paid.Status)
	require.NotNil(t, paid.PaymentMethod)
	assert.Equal(t, domain.PaymentQRIS, *paid.PaymentMethod)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, int64(9), env.stock(t, "OIL-FILTER-01"))

	_, err = env.svc.Invoice.VoidInvoice(ctx, inv.InvoiceID, dto.VoidInvoiceRequest{Reason: "refund"}, admin)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, int64(9), env.stock(t, "OIL-FILTER-01"))

	_, err = env.svc.Invoice.MarkPaid(ctx, inv.InvoiceID, dto.MarkPaidRequest{PaymentMethod: domain.PaymentCash}, cashier)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestInvoiceValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "OIL-FILTER-01", 10)
	over := decimal.NewFromInt(101)
	fineTax := decimal.RequireFromString("11.125")
	subCent := dto.InvoiceLineRequest{ItemCode: "OIL-FILTER-01", Description: "Oil filter", Quantity: 3, UnitPrice: decimal.RequireFromString("0.335")}

	tests := []struct {
		name string
		req  dto.CreateInvoiceRequest
	}{
		{"no lines", invoiceRequest("WO-5")},
		{"blank subject", invoiceRequest("  ", part("OIL-FILTER-01", 1, 1))},
		{"zero quantity", invoiceRequest("WO-5", part("OIL-FILTER-01", 0, 1))},
		{"duplicate stocked code", invoiceRequest("WO-5", part("OIL-FILTER-01", 1, 1), part("OIL-FILTER-01", 1, 1))},
		{"tax above 100", dto.CreateInvoiceRequest{SubjectRef: "WO-5", LineItems: []dto.InvoiceLineRequest{part("OIL-FILTER-01", 1, 1)}, TaxRate: &over}},
		{"sub-cent unit price", invoiceRequest("WO-5", subCent)},
		{"tax rate beyond two places", dto.CreateInvoiceRequest{SubjectRef: "WO-5", LineItems: []dto.InvoiceLineRequest{part("OIL-FILTER-01", 1, 1)}, TaxRate: &fineTax}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Invoice.CreateInvoice(ctx, tt.req, cashier)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
	assert.Equal(t, int64(10), env.stock(t, "OIL-FILTER-01"))
}

func TestInvoiceAmountsMatchStoredScale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "OIL-FILTER-01", 10)
	tax := decimal.RequireFromString("11")

	req := invoiceRequest("WO-6", dto.InvoiceLineRequest{
		ItemCode: "OIL-FILTER-01", Description: "Oil filter", Quantity: 3, UnitPrice: decimal.RequireFromString("0.35"),
	})
	req.TaxRate = &tax
	inv, err := env.svc.Invoice.CreateInvoice(ctx, req, cashier)
	require.NoError(t, err)

	for name, amount := range map[string]decimal.Decimal{
		"subtotal": inv.Subtotal, "tax": inv.TaxAmount, "total": inv.TotalAmount,
	} {
		assert.True(t, domain.FitsScale(amount, domain.MoneyPlaces), "%s %s has more than two places", name, amount)
	}
	assert.Equal(t, "1.05", inv.Subtotal.StringFixed(2))
	assert.Equal(t, "0.12", inv.TaxAmount.StringFixed(2))
	assert.Equal(t, "1.17", inv.TotalAmount.StringFixed(2))
}

func TestInvoiceCapabilities(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "OIL-FILTER-01", 10)

	_, err := env.svc.Invoice.CreateInvoice(ctx, invoiceRequest("WO-6", part("OIL-FILTER-01", 1, 1)), mechanic)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	inv, err := env.svc.Invoice.CreateInvoice(ctx, invoiceRequest("WO-6", part("OIL-FILTER-01", 1, 1)), cashier)
	require.NoError(t, err)

	_, err = env.svc.Invoice.VoidInvoice(ctx, inv.InvoiceID, dto.VoidInvoiceRequest{}, cashier)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, int64(9), env.stock(t, "OIL-FILTER-01"))

	_, err = env.svc.Invoice.GetInvoice(ctx, inv.InvoiceID, domain.Actor{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
