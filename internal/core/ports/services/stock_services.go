package services

import (
	"context"

	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	"github.com/SscSPs/workshop_inventory/internal/dto"
)

// StockLedgerSvc is the only way physical stock changes.
type StockLedgerSvc interface {
	// ApplyDelta moves stock and appends the ledger entry in one transaction,
	// joining the caller's transaction when ctx carries one.
	ApplyDelta(ctx context.Context, mutation domain.LedgerMutation) (*domain.LedgerEntry, error)

	// GetLedgerHistory lists an item's entries newest-first with a computed running balance.
	GetLedgerHistory(ctx context.Context, itemCode string, params dto.ListParams) (*dto.LedgerHistory, error)

	// Reconcile checks the item against its complete ledger. Violations yield ErrIntegrity
	// together with the report.
	Reconcile(ctx context.Context, itemCode string) (*domain.ReconciliationReport, error)
}

// LogicalStockSvc computes reservable stock. It never writes.
type LogicalStockSvc interface {
	// GetLogicalStock returns physical, reserved and logical stock for one item.
	GetLogicalStock(ctx context.Context, itemCode string) (*domain.StockLevel, error)

	// ListLogicalStock returns stock levels for several items, in the order given.
	ListLogicalStock(ctx context.Context, itemCodes []string) ([]domain.StockLevel, error)
}

// StockAdjustmentSvc covers stock changes that do not come from invoices.
type StockAdjustmentSvc interface {
	// AdjustStock writes a manual ADJUSTMENT entry.
	AdjustStock(ctx context.Context, req dto.AdjustStockRequest, actor domain.Actor) (*domain.LedgerEntry, error)

	// RecordPurchase books supplier intake and refreshes the cost price.
	RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest, actor domain.Actor) (*domain.LedgerEntry, error)

	// Opname sets stock to a counted quantity. A zero difference returns a nil entry.
	Opname(ctx context.Context, req dto.OpnameRequest, actor domain.Actor) (*domain.LedgerEntry, error)
}
