package memory

import (
	"context"

	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
)

type sequenceRepository struct {
	store *Store
}

var _ portsrepo.SequenceRepository = (*sequenceRepository)(nil)

func (r *sequenceRepository) IncrementCounter(ctx context.Context, prefix string) (int64, error) {
	var value int64
	err := r.store.run(ctx, func(st *state) error {
		st.counters[prefix]++
		value = st.counters[prefix]
		return nil
	})
	return value, err
}

func (r *sequenceRepository) FastForwardCounter(ctx context.Context, prefix string, atLeast int64) error {
	return r.store.run(ctx, func(st *state) error {
		st.counters[prefix] = max(st.counters[prefix], atLeast)
		return nil
	})
}
