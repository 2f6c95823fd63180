package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/workshop_inventory/internal/core/ports/services"
	"github.com/SscSPs/workshop_inventory/internal/dto"
	"github.com/SscSPs/workshop_inventory/internal/platform/metrics"
	"github.com/google/uuid"
)

// stockLedgerService is the single write path to physical stock.
type stockLedgerService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	itemRepo   portsrepo.ItemRepositoryFacade
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewStockLedgerService creates a new StockLedgerSvc.
func NewStockLedgerService(txManager portsrepo.TransactionManager, itemRepo portsrepo.ItemRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, base BaseService) portssvc.StockLedgerSvc {
	return &stockLedgerService{
		BaseService: base,
		txManager:   txManager,
		itemRepo:    itemRepo,
		ledgerRepo:  ledgerRepo,
	}
}

var _ portssvc.StockLedgerSvc = (*stockLedgerService)(nil)

// ApplyDelta increments the item's stock and appends the ledger entry in one transaction.
// Before is derived from the value returned by the atomic increment, never from an earlier read.
func (s *stockLedgerService) ApplyDelta(ctx context.Context, mutation domain.LedgerMutation) (*domain.LedgerEntry, error) {
	logger := s.GetLogger(ctx)

	if mutation.Delta == 0 {
		return nil, apperrors.ErrDeltaZero
	}
	if strings.TrimSpace(mutation.ItemCode) == "" {
		return nil, fmt.Errorf("%w: item code is required", apperrors.ErrValidation)
	}
	if !mutation.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown ledger reason kind %q", apperrors.ErrValidation, mutation.Kind)
	}

	var saved *domain.LedgerEntry
	var item *domain.Item
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		now := s.Now()

		var err error
		item, err = s.itemRepo.IncrementPhysicalStock(ctx, mutation.ItemCode, mutation.Delta, mutation.PerformedBy, now)
		if err != nil {
			return fmt.Errorf("failed to move stock of item %s: %w", mutation.ItemCode, err)
		}
		// A deactivated item only takes back stock from voided invoices.
		if !item.IsActive && mutation.Kind != domain.ReasonInvoiceVoid {
			return apperrors.NewNotFoundError("item " + mutation.ItemCode + " not found")
		}

		entry := domain.LedgerEntry{
			EntryID:     uuid.NewString(),
			ItemCode:    mutation.ItemCode,
			Delta:       mutation.Delta,
			Before:      item.PhysicalStock - mutation.Delta,
			After:       item.PhysicalStock,
			Kind:        mutation.Kind,
			Note:        mutation.Note,
			ReferenceID: mutation.ReferenceID,
			PerformedBy: mutation.PerformedBy,
			CreatedAt:   now,
		}
		saved, err = s.ledgerRepo.InsertLedgerEntry(ctx, entry)
		if err != nil {
			return fmt.Errorf("failed to append ledger entry for item %s: %w", mutation.ItemCode, err)
		}
		return nil
	})
	if err != nil {
		logger.Warn("Stock mutation rejected",
			slog.String("item_code", mutation.ItemCode),
			slog.Int64("delta", mutation.Delta),
			slog.String("kind", string(mutation.Kind)),
			slog.String("error", err.Error()))
		return nil, err
	}

	metrics.RecordLedgerEntry(string(saved.Kind))
	logger.Info("Stock ledger entry written",
		slog.String("item_code", saved.ItemCode),
		slog.String("entry_id", saved.EntryID),
		slog.String("kind", string(saved.Kind)),
		slog.Int64("delta", saved.Delta),
		slog.Int64("before", saved.Before),
		slog.Int64("after", saved.After))

	if saved.After < 0 {
		logger.Warn("Physical stock went negative",
			slog.String("item_code", saved.ItemCode),
			slog.Int64("after", saved.After))
	} else if saved.After < item.MinStock {
		logger.Info("Physical stock below minimum",
			slog.String("item_code", saved.ItemCode),
			slog.Int64("after", saved.After),
			slog.Int64("min_stock", item.MinStock))
	}

	return saved, nil
}

// GetLedgerHistory returns one page of entries, newest first, with balances walked back from current stock.
func (s *stockLedgerService) GetLedgerHistory(ctx context.Context, itemCode string, params dto.ListParams) (*dto.LedgerHistory, error) {
	if params.Limit <= 0 {
		params.Limit = 20
	}

	var history *dto.LedgerHistory
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		// Row lock keeps stock and entries from moving between the reads below.
		item, err := s.itemRepo.LockItemByCode(ctx, itemCode)
		if err != nil {
			return err
		}

		entries, nextToken, err := s.ledgerRepo.ListLedgerEntries(ctx, itemCode, params.Limit, params.NextToken)
		if err != nil {
			return fmt.Errorf("failed to list ledger entries: %w", err)
		}

		startBalance := item.PhysicalStock
		if len(entries) > 0 {
			newer, err := s.ledgerRepo.SumDeltasAfter(ctx, itemCode, entries[0].Sequence)
			if err != nil {
				return fmt.Errorf("failed to sum newer ledger entries: %w", err)
			}
			startBalance -= newer
		}

		history = &dto.LedgerHistory{
			ItemCode:     item.Code,
			CurrentStock: item.PhysicalStock,
			Lines:        domain.WalkBalances(startBalance, entries),
			NextToken:    nextToken,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, line := range history.Lines {
		if !line.Consistent {
			s.GetLogger(ctx).Error("Ledger balance walk disagrees with stored snapshot",
				slog.String("item_code", itemCode),
				slog.String("entry_id", line.EntryID),
				slog.Int64("balance", line.Balance),
				slog.Int64("stored_after", line.After))
		}
	}
	return history, nil
}

// Reconcile checks an item against its complete ledger. It never repairs anything.
func (s *stockLedgerService) Reconcile(ctx context.Context, itemCode string) (*domain.ReconciliationReport, error) {
	logger := s.GetLogger(ctx)

	var report domain.ReconciliationReport
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		item, err := s.itemRepo.LockItemByCode(ctx, itemCode)
		if err != nil {
			return err
		}
		entries, err := s.ledgerRepo.ListAllLedgerEntries(ctx, itemCode)
		if err != nil {
			return fmt.Errorf("failed to load ledger: %w", err)
		}
		report = domain.Reconcile(*item, entries, s.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !report.OK() {
		metrics.RecordIntegrityViolation()
		for _, v := range report.Violations {
			logger.Error("Stock ledger integrity violation",
				slog.String("item_code", itemCode),
				slog.String("entry_id", v.EntryID),
				slog.Int64("sequence", v.Sequence),
				slog.String("detail", v.Detail))
		}
		return &report, fmt.Errorf("%w: item %s has %d violation(s)", apperrors.ErrIntegrity, itemCode, len(report.Violations))
	}

	logger.Debug("Stock ledger reconciled", slog.String("item_code", itemCode), slog.Int("entries", report.EntryCount))
	return &report, nil
}
