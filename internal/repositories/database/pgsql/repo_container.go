package pgsql

import (
	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every repository onto one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	base := BaseRepository{Pool: dbPool}

	return portsrepo.RepositoryProvider{
		TxManager:     &base,
		ItemRepo:      newPgxItemRepository(base),
		LedgerRepo:    newPgxLedgerRepository(base),
		InvoiceRepo:   newPgxInvoiceRepository(base),
		SequenceRepo:  newPgxSequenceRepository(base),
		WorkOrderRepo: newPgxWorkOrderRepository(base),
	}
}
