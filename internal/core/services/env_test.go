package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/workshop_inventory/internal/core/ports/services"
	"github.com/SscSPs/workshop_inventory/internal/core/services"
	"github.com/SscSPs/workshop_inventory/internal/dto"
	"github.com/SscSPs/workshop_inventory/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	fixedNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
	admin    = domain.Actor{UserID: "owner-1", Role: domain.RoleAdmin}
	cashier  = domain.Actor{UserID: "cashier-1", Role: domain.RoleCashier}
	mechanic = domain.Actor{UserID: "mechanic-1", Role: domain.RoleMechanic}
)

// testEnv wires every service onto one in-memory store with a fixed clock.
type testEnv struct {
	store *memory.Store
	repos portsrepo.RepositoryProvider
	svc   *portssvc.ServiceContainer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	repos := memory.NewRepositoryProvider(store)

	caps := services.NewRoleCapabilityChecker()
	base := services.BaseService{Capabilities: caps, Clock: func() time.Time { return fixedNow }}

	ledger := services.NewStockLedgerService(repos.TxManager, repos.ItemRepo, repos.LedgerRepo, base)
	sequence := services.NewSequenceService(repos.TxManager, repos.SequenceRepo, repos.InvoiceRepo, time.UTC, 5, base)

	svc := &portssvc.ServiceContainer{
		Capabilities: caps,
		Ledger:       ledger,
		Sequence:     sequence,
		LogicalStock: services.NewLogicalStockService(repos.ItemRepo, repos.WorkOrderRepo, base),
		Adjustment:   services.NewStockAdjustmentService(repos.TxManager, repos.ItemRepo, ledger, base),
		Item:         services.NewItemService(repos.TxManager, repos.ItemRepo, ledger, base),
		WorkOrder:    services.NewWorkOrderService(repos.TxManager, repos.WorkOrderRepo, repos.ItemRepo, base),
		Invoice:      services.NewInvoiceService(repos.TxManager, repos.InvoiceRepo, sequence, ledger, base),
	}
	return &testEnv{store: store, repos: repos, svc: svc}
}

// seedItem creates an item with opening stock through the public service.
func (e *testEnv) seedItem(t *testing.T, code string, opening int64) {
	t.Helper()
	_, err := e.svc.Item.CreateItem(context.Background(), dto.CreateItemRequest{
		Code:         code,
		Name:         code,
		Unit:         "pcs",
		MinStock:     2,
		CostPrice:    decimal.NewFromInt(30000),
		OpeningStock: opening,
	}, admin)
	require.NoError(t, err)
}

func (e *testEnv) stock(t *testing.T, code string) int64 {
	t.Helper()
	item, err := e.repos.ItemRepo.FindItemByCode(context.Background(), code)
	require.NoError(t, err)
	return item.PhysicalStock
}

func (e *testEnv) ledger(t *testing.T, code string) []domain.LedgerEntry {
	t.Helper()
	entries, err := e.repos.LedgerRepo.ListAllLedgerEntries(context.Background(), code)
	require.NoError(t, err)
	return entries
}

func invoiceRequest(subject string, lines ...dto.InvoiceLineRequest) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{SubjectRef: subject, LineItems: lines}
}

func part(code string, qty int64, price int64) dto.InvoiceLineRequest {
	return dto.InvoiceLineRequest{ItemCode: code, Description: code, Quantity: qty, UnitPrice: decimal.NewFromInt(price)}
}

func labour(desc string, price int64) dto.InvoiceLineRequest {
	return dto.InvoiceLineRequest{Description: desc, Quantity: 1, UnitPrice: decimal.NewFromInt(price)}
}

func sumDeltas(entries []domain.LedgerEntry) int64 {
	var sum int64
	for _, e := range entries {
		sum += e.Delta
	}
	return sum
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
