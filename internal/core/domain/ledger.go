package domain

import (
	"fmt"
	"strings"
	"time"
)

// LedgerReasonKind tells which kind of event produced a ledger entry.
type LedgerReasonKind string

const (
	ReasonPurchase      LedgerReasonKind = "PURCHASE"
	ReasonInvoiceCreate LedgerReasonKind = "INVOICE_CREATE"
	ReasonInvoiceVoid   LedgerReasonKind = "INVOICE_VOID"
	ReasonAdjustment    LedgerReasonKind = "ADJUSTMENT"
	ReasonOpening       LedgerReasonKind = "OPENING"
)

// IsValid reports whether k is a known reason kind.
func (k LedgerReasonKind) IsValid() bool {
	switch k {
	case ReasonPurchase, ReasonInvoiceCreate, ReasonInvoiceVoid, ReasonAdjustment, ReasonOpening:
		return true
	}
	return false
}

// LedgerEntry is one immutable stock movement. After must always equal Before + Delta.
type LedgerEntry struct {
	EntryID     string           `json:"entryID"`
	Sequence    int64            `json:"sequence"` // Global insertion order, used for newest-first listing
	ItemCode    string           `json:"itemCode"`
	Delta       int64            `json:"delta"` // Positive = stock in
	Before      int64            `json:"before"`
	After       int64            `json:"after"`
	Kind        LedgerReasonKind `json:"kind"`
	Note        string           `json:"note"` // Document number for invoice kinds, free text otherwise
	ReferenceID *string          `json:"referenceID,omitempty"`
	PerformedBy string           `json:"performedBy"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// Reason renders the display tag for the entry.
func (e LedgerEntry) Reason() string {
	switch e.Kind {
	case ReasonPurchase:
		return withNote("Purchase", e.Note)
	case ReasonInvoiceCreate:
		return "Invoice Created: " + e.Note
	case ReasonInvoiceVoid:
		return "Invoice VOID (Restock): " + e.Note
	case ReasonAdjustment:
		return withNote("Stock Opname / Koreksi", e.Note)
	case ReasonOpening:
		return withNote("Opening Stock", e.Note)
	default:
		return withNote(string(e.Kind), e.Note)
	}
}

func withNote(label, note string) string {
	if strings.TrimSpace(note) == "" {
		return label
	}
	return label + ": " + note
}

// IsConsistent checks the before/after snapshot of a single entry.
func (e LedgerEntry) IsConsistent() bool {
	return e.After == e.Before+e.Delta
}

// LedgerMutation is a request to move stock of one item.
type LedgerMutation struct {
	ItemCode    string
	Delta       int64
	Kind        LedgerReasonKind
	Note        string
	ReferenceID *string
	PerformedBy string
}

// LedgerHistoryLine is a ledger entry with the balance computed by walking back from current stock.
type LedgerHistoryLine struct {
	LedgerEntry
	Balance    int64 `json:"balance"`
	Consistent bool  `json:"consistent"` // Balance matches the stored After value
}

// WalkBalances computes the balance column for entries ordered newest-first.
// startBalance is the stock right after the first (newest) entry in the slice.
func WalkBalances(startBalance int64, entries []LedgerEntry) []LedgerHistoryLine {
	lines := make([]LedgerHistoryLine, len(entries))
	balance := startBalance
	for i, e := range entries {
		lines[i] = LedgerHistoryLine{
			LedgerEntry: e,
			Balance:     balance,
			Consistent:  balance == e.After,
		}
		balance -= e.Delta
	}
	return lines
}

// IntegrityViolation describes one inconsistency found during reconciliation.
type IntegrityViolation struct {
	EntryID  string `json:"entryID,omitempty"`
	Sequence int64  `json:"sequence,omitempty"`
	Detail   string `json:"detail"`
}

// ReconciliationReport is the outcome of checking an item against its full ledger.
type ReconciliationReport struct {
	ItemCode      string               `json:"itemCode"`
	PhysicalStock int64                `json:"physicalStock"`
	LedgerSum     int64                `json:"ledgerSum"`
	EntryCount    int                  `json:"entryCount"`
	Violations    []IntegrityViolation `json:"violations"`
	CheckedAt     time.Time            `json:"checkedAt"`
}

// OK reports whether no violation was found.
func (r ReconciliationReport) OK() bool {
	return len(r.Violations) == 0
}

// Reconcile checks conservation (stock == sum of deltas), every entry's
// before/after snapshot, and the backward balance walk.
// entries must be the complete ledger of the item, newest first.
func Reconcile(item Item, entries []LedgerEntry, now time.Time) ReconciliationReport {
	report := ReconciliationReport{
		ItemCode:      item.Code,
		PhysicalStock: item.PhysicalStock,
		EntryCount:    len(entries),
		Violations:    []IntegrityViolation{},
		CheckedAt:     now,
	}

	for _, e := range entries {
		report.LedgerSum += e.Delta
		if !e.IsConsistent() {
			report.Violations = append(report.Violations, IntegrityViolation{
				EntryID:  e.EntryID,
				Sequence: e.Sequence,
				Detail:   fmt.Sprintf("after %d != before %d + delta %d", e.After, e.Before, e.Delta),
			})
		}
	}

	if report.LedgerSum != item.PhysicalStock {
		report.Violations = append(report.Violations, IntegrityViolation{
			Detail: fmt.Sprintf("physical stock %d != ledger sum %d", item.PhysicalStock, report.LedgerSum),
		})
	}

	for _, line := range WalkBalances(item.PhysicalStock, entries) {
		if !line.Consistent {
			report.Violations = append(report.Violations, IntegrityViolation{
				EntryID:  line.EntryID,
				Sequence: line.Sequence,
				Detail:   fmt.Sprintf("walked balance %d != stored after %d", line.Balance, line.After),
			})
		}
	}

	return report
}
