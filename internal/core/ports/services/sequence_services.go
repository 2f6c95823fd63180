package services

import (
	"context"
	"time"
)

// SequenceSvc issues document numbers.
type SequenceSvc interface {
	// PrefixFor builds the per-day prefix for a document kind in the business time zone.
	PrefixFor(kind string, at time.Time) string

	// Next returns a document number under prefix that no document carries yet.
	Next(ctx context.Context, prefix string) (string, error)
}
