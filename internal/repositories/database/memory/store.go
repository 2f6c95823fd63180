// Package memory is an in-process storage adapter. Every transaction holds a single
// mutex and a failed transaction restores the state captured when it began.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
)

type state struct {
	items      map[string]domain.Item
	ledger     []domain.LedgerEntry // insertion order
	ledgerSeq  int64
	invoices   map[string]domain.Invoice
	counters   map[string]int64
	workOrders map[string]domain.WorkOrder
}

func newState() *state {
	return &state{
		items:      map[string]domain.Item{},
		invoices:   map[string]domain.Invoice{},
		counters:   map[string]int64{},
		workOrders: map[string]domain.WorkOrder{},
	}
}

// clone copies the containers. Values are replaced, never mutated in place, so a shallow copy is a snapshot.
func (s *state) clone() *state {
	return &state{
		items:      maps.Clone(s.items),
		ledger:     slices.Clone(s.ledger),
		ledgerSeq:  s.ledgerSeq,
		invoices:   maps.Clone(s.invoices),
		counters:   maps.Clone(s.counters),
		workOrders: maps.Clone(s.workOrders),
	}
}

// Store owns the in-memory state and implements portsrepo.TransactionManager.
type Store struct {
	mu    sync.Mutex
	state *state
}

type txKey struct{}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newState()}
}

var _ portsrepo.TransactionManager = (*Store)(nil)

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// WithTx runs fn while holding the store lock. Nested calls join the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	defer func() {
		if p := recover(); p != nil {
			s.state = snapshot
			panic(p)
		}
		if err != nil {
			s.state = snapshot
		}
	}()

	if err := ctx.Err(); err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return fn(context.WithValue(ctx, txKey{}, s))
}

// run executes a single repository call, joining the active transaction if there is one.
// Calls validate before they mutate, so a failed call leaves the state untouched.
func (s *Store) run(ctx context.Context, fn func(st *state) error) error {
	if s.inTx(ctx) {
		return fn(s.state)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// NewRepositoryProvider wires every repository onto one shared store.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:     store,
		ItemRepo:      &itemRepository{store: store},
		LedgerRepo:    &ledgerRepository{store: store},
		InvoiceRepo:   &invoiceRepository{store: store},
		SequenceRepo:  &sequenceRepository{store: store},
		WorkOrderRepo: &workOrderRepository{store: store},
	}
}

func notFound(kind, id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("%s %s not found", kind, id))
}
