package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/workshop_inventory/internal/core/ports/services"
	"github.com/SscSPs/workshop_inventory/internal/platform/metrics"
)

const defaultSequenceMaxRepairs = 5

// sequenceService issues per-prefix document numbers from a database counter.
type sequenceService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	seqRepo    portsrepo.SequenceRepository
	docs       portsrepo.DocumentNumberReader
	location   *time.Location
	maxRepairs int
}

// NewSequenceService creates a new SequenceSvc. A nil location means UTC.
func NewSequenceService(txManager portsrepo.TransactionManager, seqRepo portsrepo.SequenceRepository, docs portsrepo.DocumentNumberReader, location *time.Location, maxRepairs int, base BaseService) portssvc.SequenceSvc {
	if location == nil {
		location = time.UTC
	}
	if maxRepairs < 1 {
		maxRepairs = defaultSequenceMaxRepairs
	}
	return &sequenceService{
		BaseService: base,
		txManager:   txManager,
		seqRepo:     seqRepo,
		docs:        docs,
		location:    location,
		maxRepairs:  maxRepairs,
	}
}

var _ portssvc.SequenceSvc = (*sequenceService)(nil)

// PrefixFor builds the per-day prefix using the business time zone.
func (s *sequenceService) PrefixFor(kind string, at time.Time) string {
	return domain.DocumentPrefix(kind, at.In(s.location))
}

// Next increments the counter for prefix and returns the formatted number.
// A candidate is treated as colliding when any stored number under the prefix is
// at or above it; the counter is then fast-forwarded past the highest stored
// suffix, bounded by maxRepairs.
func (s *sequenceService) Next(ctx context.Context, prefix string) (string, error) {
	logger := s.GetLogger(ctx)

	var number string
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		value, err := s.seqRepo.IncrementCounter(ctx, prefix)
		if err != nil {
			return fmt.Errorf("failed to increment sequence %s: %w", prefix, err)
		}

		for repairs := 0; ; repairs++ {
			existing, err := s.docs.ListDocumentNumbersByPrefix(ctx, prefix)
			if err != nil {
				return fmt.Errorf("failed to read document numbers under %s: %w", prefix, err)
			}
			highest := domain.MaxDocumentSuffix(prefix, existing)
			if highest < value {
				number = domain.FormatDocumentNumber(prefix, value)
				return nil
			}
			if repairs >= s.maxRepairs {
				return fmt.Errorf("%w: document numbering under %s still collides after %d repairs", apperrors.ErrConflict, prefix, repairs)
			}

			logger.Warn("Document number collision, fast-forwarding sequence",
				slog.String("prefix", prefix),
				slog.Int64("counter", value),
				slog.Int64("highest_existing", highest))

			if err := s.seqRepo.FastForwardCounter(ctx, prefix, highest); err != nil {
				return fmt.Errorf("failed to fast-forward sequence %s: %w", prefix, err)
			}
			metrics.RecordSequenceRepair()

			value, err = s.seqRepo.IncrementCounter(ctx, prefix)
			if err != nil {
				return fmt.Errorf("failed to increment sequence %s: %w", prefix, err)
			}
		}
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to generate document number", slog.String("prefix", prefix))
		return "", err
	}

	logger.Debug("Document number issued", slog.String("number", number))
	return number, nil
}
