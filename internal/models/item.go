package models

import "github.com/shopspring/decimal"

// Item is a row of the items table.
type Item struct {
	Code          string          `db:"code"`
	Name          string          `db:"name"`
	Category      string          `db:"category"`
	Unit          string          `db:"unit"`
	PhysicalStock int64           `db:"physical_stock"`
	MinStock      int64           `db:"min_stock"`
	CostPrice     decimal.Decimal `db:"cost_price"`
	Version       int64           `db:"version"`
	IsActive      bool            `db:"is_active"`
	AuditFields
}
