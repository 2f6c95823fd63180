package services

import (
	"time"

	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/workshop_inventory/internal/core/ports/services"
	"github.com/SscSPs/workshop_inventory/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// locker may be nil, which disables the per-subject creation lock.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, locker portssvc.SubjectLocker) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Capabilities = NewRoleCapabilityChecker()
	base := BaseService{Capabilities: container.Capabilities, Clock: time.Now}

	// The ledger is the leaf every stock-moving service goes through
	container.Ledger = NewStockLedgerService(repos.TxManager, repos.ItemRepo, repos.LedgerRepo, base)
	container.Sequence = NewSequenceService(repos.TxManager, repos.SequenceRepo, repos.InvoiceRepo, cfg.BusinessLocation, cfg.SequenceMaxRepairs, base)
	container.LogicalStock = NewLogicalStockService(repos.ItemRepo, repos.WorkOrderRepo, base)
	container.Adjustment = NewStockAdjustmentService(repos.TxManager, repos.ItemRepo, container.Ledger, base)
	container.Item = NewItemService(repos.TxManager, repos.ItemRepo, container.Ledger, base)
	container.WorkOrder = NewWorkOrderService(repos.TxManager, repos.WorkOrderRepo, repos.ItemRepo, base)
	container.Invoice = NewInvoiceService(repos.TxManager, repos.InvoiceRepo, container.Sequence, container.Ledger, base,
		WithSubjectLocker(locker),
		WithDocumentKind(cfg.InvoicePrefix),
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.StockLedgerSvc     = (*stockLedgerService)(nil)
	_ portssvc.InvoiceSvcFacade   = (*invoiceService)(nil)
	_ portssvc.WorkOrderSvcFacade = (*workOrderService)(nil)
)
