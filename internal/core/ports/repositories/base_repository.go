package repositories

import "context"

// TransactionManager runs a unit of work in a single database transaction.
// The transaction travels in the context handed to fn, so repository calls
// made with that context join it. Nested WithTx calls join the outer transaction.
type TransactionManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
