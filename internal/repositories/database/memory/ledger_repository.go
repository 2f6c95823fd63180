package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
	"github.com/SscSPs/workshop_inventory/internal/utils/pagination"
)

type ledgerRepository struct {
	store *Store
}

var _ portsrepo.LedgerRepositoryFacade = (*ledgerRepository)(nil)

func (r *ledgerRepository) InsertLedgerEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	err := r.store.run(ctx, func(st *state) error {
		if _, ok := st.items[entry.ItemCode]; !ok {
			return notFound("item", entry.ItemCode)
		}
		st.ledgerSeq++
		entry.Sequence = st.ledgerSeq
		st.ledger = append(st.ledger, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// newestFirst returns the item's entries with sequence below before (0 means no bound).
func newestFirst(st *state, itemCode string, before int64) []domain.LedgerEntry {
	var out []domain.LedgerEntry
	for i := len(st.ledger) - 1; i >= 0; i-- {
		e := st.ledger[i]
		if e.ItemCode != itemCode || (before > 0 && e.Sequence >= before) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (r *ledgerRepository) ListLedgerEntries(ctx context.Context, itemCode string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	var before int64
	if nextToken != nil && *nextToken != "" {
		var err error
		before, err = pagination.DecodeSequenceToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	var page []domain.LedgerEntry
	var next *string
	err := r.store.run(ctx, func(st *state) error {
		page = newestFirst(st, itemCode, before)
		if len(page) > limit {
			page = page[:limit]
			token := pagination.EncodeSequenceToken(page[limit-1].Sequence)
			next = &token
		}
		return nil
	})
	return page, next, err
}

func (r *ledgerRepository) ListAllLedgerEntries(ctx context.Context, itemCode string) ([]domain.LedgerEntry, error) {
	var all []domain.LedgerEntry
	err := r.store.run(ctx, func(st *state) error {
		all = newestFirst(st, itemCode, 0)
		return nil
	})
	return all, err
}

func (r *ledgerRepository) SumDeltasAfter(ctx context.Context, itemCode string, afterSequence int64) (int64, error) {
	var sum int64
	err := r.store.run(ctx, func(st *state) error {
		for _, e := range st.ledger {
			if e.ItemCode == itemCode && e.Sequence > afterSequence {
				sum += e.Delta
			}
		}
		return nil
	})
	return sum, err
}
