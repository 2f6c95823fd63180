package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	"github.com/SscSPs/workshop_inventory/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSequencePrefixUsesBusinessZone(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	svc := services.NewSequenceService(nil, nil, nil, jakarta, 5, services.BaseService{})

	// 20:00 UTC on the 13th is already the 14th in UTC+7.
	at := time.Date(2025, time.March, 13, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "INV-140325", svc.PrefixFor("INV", at))
}

func TestSequenceUniqueUnderConcurrency(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	prefix := env.svc.Sequence.PrefixFor(domain.InvoiceDocumentKind, fixedNow)

	var mu sync.Mutex
	seen := map[string]bool{}
	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			n, err := env.svc.Sequence.Next(ctx, prefix)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if seen[n] {
				t.Errorf("duplicate document number %s", n)
			}
			seen[n] = true
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Len(t, seen, 50)
	assert.True(t, seen[prefix+"-050"])
}

func TestSequenceHealsCollisionWithImportedNumbers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "OIL-FILTER-01", 10)
	prefix := env.svc.Sequence.PrefixFor(domain.InvoiceDocumentKind, fixedNow)

	// Counter at 3 while an imported invoice already holds -005.
	for i := 0; i < 3; i++ {
		_, err := env.repos.SequenceRepo.IncrementCounter(ctx, prefix)
		require.NoError(t, err)
	}
	require.NoError(t, env.repos.InvoiceRepo.SaveInvoice(ctx, domain.Invoice{
		InvoiceID:      "legacy-5",
		DocumentNumber: prefix + "-005",
		SubjectRef:     "WO-LEGACY",
		Status:         domain.InvoicePaid,
	}))

	inv, err := env.svc.Invoice.CreateInvoice(ctx, invoiceRequest("WO-NEW", part("OIL-FILTER-01", 1, 1)), cashier)
	require.NoError(t, err)
	assert.Equal(t, prefix+"-006", inv.DocumentNumber)

	n, err := env.svc.Sequence.Next(ctx, prefix)
	require.NoError(t, err)
	assert.Equal(t, prefix+"-007", n)
}

// --- Mocks for the bounded repair path ---

type passThroughTx struct{}

func (passThroughTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) IncrementCounter(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSequenceRepository) FastForwardCounter(ctx context.Context, prefix string, atLeast int64) error {
	args := m.Called(ctx, prefix, atLeast)
	return args.Error(0)
}

type MockDocumentNumberReader struct {
	mock.Mock
}

func (m *MockDocumentNumberReader) ListDocumentNumbersByPrefix(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestSequenceGivesUpAfterMaxRepairs(t *testing.T) {
	ctx := context.Background()
	seqRepo := new(MockSequenceRepository)
	docs := new(MockDocumentNumberReader)
	svc := services.NewSequenceService(passThroughTx{}, seqRepo, docs, time.UTC, 2, services.BaseService{})

	// Another writer keeps taking the number right after the fast-forward.
	seqRepo.On("IncrementCounter", ctx, "INV-140325").Return(int64(1), nil).Times(3)
	seqRepo.On("FastForwardCounter", ctx, "INV-140325", int64(9)).Return(nil).Twice()
	docs.On("ListDocumentNumbersByPrefix", ctx, "INV-140325").Return([]string{"INV-140325-009"}, nil).Times(3)

	_, err := svc.Next(ctx, "INV-140325")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	seqRepo.AssertExpectations(t)
	docs.AssertExpectations(t)
}
