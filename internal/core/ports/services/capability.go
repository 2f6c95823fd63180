package services

import (
	"context"

	"github.com/SscSPs/workshop_inventory/internal/core/domain"
)

// CapabilityChecker decides who may call which operation. Denial yields ErrForbidden.
type CapabilityChecker interface {
	Authorize(ctx context.Context, actor domain.Actor, capability domain.Capability) error
}

// SubjectLocker serializes invoice creation per subject across instances.
// Implementations are best-effort; the database stays authoritative.
type SubjectLocker interface {
	// Lock returns a release func. A nil error with a no-op release is valid when locking is disabled.
	Lock(ctx context.Context, subjectRef string) (release func(), err error)
}
