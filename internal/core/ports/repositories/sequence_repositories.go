package repositories

import "context"

// SequenceRepository persists per-prefix document counters.
type SequenceRepository interface {
	// IncrementCounter creates the counter at 1 or adds one to it, returning the new value.
	IncrementCounter(ctx context.Context, prefix string) (int64, error)

	// FastForwardCounter raises the counter to atLeast. It never lowers it.
	FastForwardCounter(ctx context.Context, prefix string, atLeast int64) error
}
