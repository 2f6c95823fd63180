package repositories

import (
	"context"

	"github.com/SscSPs/workshop_inventory/internal/core/domain"
)

// LedgerReader defines read operations for ledger entries
type LedgerReader interface {
	// ListLedgerEntries retrieves an item's entries newest-first using token-based pagination.
	ListLedgerEntries(ctx context.Context, itemCode string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// ListAllLedgerEntries retrieves an item's complete ledger newest-first.
	ListAllLedgerEntries(ctx context.Context, itemCode string) ([]domain.LedgerEntry, error)

	// SumDeltasAfter sums the deltas of the item's entries with a sequence greater than afterSequence.
	SumDeltasAfter(ctx context.Context, itemCode string, afterSequence int64) (int64, error)
}

// LedgerWriter appends entries. There is no update or delete.
type LedgerWriter interface {
	// InsertLedgerEntry stores the entry and returns it with its assigned sequence.
	InsertLedgerEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error)
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
