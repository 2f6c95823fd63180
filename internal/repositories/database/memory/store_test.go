package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTxRollsBackOnError(t *testing.T) {
	store := NewStore()
	repos := NewRepositoryProvider(store)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repos.ItemRepo.SaveItem(ctx, domain.Item{Code: "A", Name: "A", IsActive: true}))

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(ctx context.Context) error {
		_, err := repos.ItemRepo.IncrementPhysicalStock(ctx, "A", 5, "u1", now)
		require.NoError(t, err)
		_, err = repos.LedgerRepo.InsertLedgerEntry(ctx, domain.LedgerEntry{ItemCode: "A", Delta: 5, After: 5})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	item, err := repos.ItemRepo.FindItemByCode(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, int64(0), item.PhysicalStock)

	entries, err := repos.LedgerRepo.ListAllLedgerEntries(ctx, "A")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWithTxNestedJoinsOuter(t *testing.T) {
	store := NewStore()
	repos := NewRepositoryProvider(store)
	ctx := context.Background()

	err := store.WithTx(ctx, func(ctx context.Context) error {
		return store.WithTx(ctx, func(ctx context.Context) error {
			_, err := repos.SequenceRepo.IncrementCounter(ctx, "P")
			return err
		})
	})
	require.NoError(t, err)

	v, err := repos.SequenceRepo.IncrementCounter(ctx, "P")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestLedgerPagination(t *testing.T) {
	store := NewStore()
	repos := NewRepositoryProvider(store)
	ctx := context.Background()
	require.NoError(t, repos.ItemRepo.SaveItem(ctx, domain.Item{Code: "A", Name: "A", IsActive: true}))

	for i := 0; i < 5; i++ {
		_, err := repos.LedgerRepo.InsertLedgerEntry(ctx, domain.LedgerEntry{ItemCode: "A", Delta: 1})
		require.NoError(t, err)
	}

	page, next, err := repos.LedgerRepo.ListLedgerEntries(ctx, "A", 2, nil)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []int64{5, 4}, []int64{page[0].Sequence, page[1].Sequence})

	page, next, err = repos.LedgerRepo.ListLedgerEntries(ctx, "A", 2, next)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2}, []int64{page[0].Sequence, page[1].Sequence})

	page, next, err = repos.LedgerRepo.ListLedgerEntries(ctx, "A", 2, next)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Len(t, page, 1)

	sum, err := repos.LedgerRepo.SumDeltasAfter(ctx, "A", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum)
}

func TestItemCompareAndSwap(t *testing.T) {
	store := NewStore()
	repos := NewRepositoryProvider(store)
	ctx := context.Background()
	require.NoError(t, repos.ItemRepo.SaveItem(ctx, domain.Item{Code: "A", Name: "A", IsActive: true}))

	_, err := repos.ItemRepo.UpdateItemDetails(ctx, "A", domain.ItemDetails{Name: "B"}, 7, "u1", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	item, err := repos.ItemRepo.UpdateItemDetails(ctx, "A", domain.ItemDetails{Name: "B"}, 1, "u1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), item.Version)

	assert.ErrorIs(t, repos.ItemRepo.SaveItem(ctx, domain.Item{Code: "A"}), apperrors.ErrDuplicate)
}

func TestTransitionInvoiceStatusIsConditional(t *testing.T) {
	store := NewStore()
	repos := NewRepositoryProvider(store)
	ctx := context.Background()

	require.NoError(t, repos.InvoiceRepo.SaveInvoice(ctx, domain.Invoice{InvoiceID: "i1", DocumentNumber: "INV-1", SubjectRef: "wo1", Status: domain.InvoiceUnpaid}))
	assert.ErrorIs(t, repos.InvoiceRepo.SaveInvoice(ctx, domain.Invoice{InvoiceID: "i2", DocumentNumber: "INV-2", SubjectRef: "wo1", Status: domain.InvoiceUnpaid}), apperrors.ErrConflict)

	_, err := repos.InvoiceRepo.TransitionInvoiceStatus(ctx, portsTransition("i1", domain.InvoiceUnpaid, domain.InvoiceVoid))
	require.NoError(t, err)
	_, err = repos.InvoiceRepo.TransitionInvoiceStatus(ctx, portsTransition("i1", domain.InvoiceUnpaid, domain.InvoicePaid))
	assert.ErrorIs(t, err, apperrors.ErrStaleState)
}

func TestSoftDeletedItemStaysReachableToLedger(t *testing.T) {
	store := NewStore()
	repos := NewRepositoryProvider(store)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repos.ItemRepo.SaveItem(ctx, domain.Item{Code: "A", Name: "A", IsActive: true, Version: 1}))
	_, err := repos.ItemRepo.DeactivateItem(ctx, "A", 1, "u1", now)
	require.NoError(t, err)

	_, err = repos.ItemRepo.FindItemByCode(ctx, "A")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	locked, err := repos.ItemRepo.LockItemByCode(ctx, "A")
	require.NoError(t, err)
	assert.False(t, locked.IsActive)

	moved, err := repos.ItemRepo.IncrementPhysicalStock(ctx, "A", 3, "u1", now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), moved.PhysicalStock)

	_, err = repos.ItemRepo.LockItemByCode(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
