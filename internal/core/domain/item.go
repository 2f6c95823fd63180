package domain

import "github.com/shopspring/decimal"

// Item is a stocked part. PhysicalStock is only ever changed through ledger entries.
type Item struct {
	Code          string          `json:"code"` // Primary Key, human-assigned (e.g. OIL-FILTER-01)
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	PhysicalStock int64           `json:"physicalStock"`
	MinStock      int64           `json:"minStock"`  // Reorder threshold
	CostPrice     decimal.Decimal `json:"costPrice"` // Last known unit cost
	Version       int64           `json:"version"`   // Bumped by every write, ledger or not
	IsActive      bool            `json:"isActive"`  // Soft delete flag
	AuditFields
}

// IsBelowMinimum reports whether the physical count is under the reorder threshold.
func (i Item) IsBelowMinimum() bool {
	return i.PhysicalStock < i.MinStock
}

// ItemDetails holds the non-ledger fields of an item that callers may edit.
type ItemDetails struct {
	Name      string
	Category  string
	Unit      string
	MinStock  int64
	CostPrice decimal.Decimal
}
