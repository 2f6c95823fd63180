package dto

import (
	"time"

	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AdjustStockRequest is a manual correction. Delta may be negative but never zero.
type AdjustStockRequest struct {
	ItemCode string `json:"-"`
	Delta    int64  `json:"delta" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}

// RecordPurchaseRequest books supplier intake.
type RecordPurchaseRequest struct {
	ItemCode    string           `json:"-"`
	Quantity    int64            `json:"quantity" binding:"required,min=1"`
	UnitCost    *decimal.Decimal `json:"unitCost"`    // Optional, updates the item's cost price
	ReferenceID *string          `json:"referenceID"` // Optional supplier document
	Note        string           `json:"note"`
}

// OpnameRequest records a physical count.
type OpnameRequest struct {
	ItemCode        string `json:"-"`
	CountedQuantity int64  `json:"countedQuantity" binding:"min=0"`
	Reason          string `json:"reason" binding:"required"`
}

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	EntryID     string    `json:"entryID"`
	Sequence    int64     `json:"sequence"`
	ItemCode    string    `json:"itemCode"`
	Delta       int64     `json:"delta"`
	Before      int64     `json:"before"`
	After       int64     `json:"after"`
	Kind        string    `json:"kind"`
	Reason      string    `json:"reason"`
	ReferenceID *string   `json:"referenceID,omitempty"`
	PerformedBy string    `json:"performedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LedgerHistoryLineResponse is a ledger entry with the computed running balance.
type LedgerHistoryLineResponse struct {
	LedgerEntryResponse
	Balance     int64 `json:"balance"`
	StoredAfter int64 `json:"storedAfter"`
	Consistent  bool  `json:"consistent"`
}

// LedgerHistoryResponse is one page of an item's ledger, newest first.
type LedgerHistoryResponse struct {
	ItemCode     string                      `json:"itemCode"`
	CurrentStock int64                       `json:"currentStock"`
	Entries      []LedgerHistoryLineResponse `json:"entries"`
	NextToken    *string                     `json:"nextToken,omitempty"`
}

// LedgerHistory is the service-level result of a history query.
type LedgerHistory struct {
	ItemCode     string
	CurrentStock int64
	Lines        []domain.LedgerHistoryLine
	NextToken    *string
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to LedgerEntryResponse DTO
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:     e.EntryID,
		Sequence:    e.Sequence,
		ItemCode:    e.ItemCode,
		Delta:       e.Delta,
		Before:      e.Before,
		After:       e.After,
		Kind:        string(e.Kind),
		Reason:      e.Reason(),
		ReferenceID: e.ReferenceID,
		PerformedBy: e.PerformedBy,
		CreatedAt:   e.CreatedAt,
	}
}

// ToLedgerHistoryResponse converts a LedgerHistory to its response DTO
func ToLedgerHistoryResponse(h *LedgerHistory) LedgerHistoryResponse {
	entries := make([]LedgerHistoryLineResponse, len(h.Lines))
	for i := range h.Lines {
		line := h.Lines[i]
		entries[i] = LedgerHistoryLineResponse{
			LedgerEntryResponse: ToLedgerEntryResponse(&line.LedgerEntry),
			Balance:             line.Balance,
			StoredAfter:         line.After,
			Consistent:          line.Consistent,
		}
	}
	return LedgerHistoryResponse{
		ItemCode:     h.ItemCode,
		CurrentStock: h.CurrentStock,
		Entries:      entries,
		NextToken:    h.NextToken,
	}
}
