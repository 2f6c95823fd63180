package models

import "time"

// LedgerEntry is a row of the append-only ledger_entries table.
type LedgerEntry struct {
	EntryID     string    `db:"entry_id"`
	Sequence    int64     `db:"sequence"`
	ItemCode    string    `db:"item_code"`
	Delta       int64     `db:"delta"`
	Before      int64     `db:"stock_before"`
	After       int64     `db:"stock_after"`
	ReasonKind  string    `db:"reason_kind"`
	Note        string    `db:"note"`
	ReferenceID *string   `db:"reference_id"` // Nullable
	PerformedBy string    `db:"performed_by"`
	CreatedAt   time.Time `db:"created_at"`
}
