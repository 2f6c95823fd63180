package mapping

import (
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	"github.com/SscSPs/workshop_inventory/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:     d.EntryID,
		Sequence:    d.Sequence,
		ItemCode:    d.ItemCode,
		Delta:       d.Delta,
		Before:      d.Before,
		After:       d.After,
		ReasonKind:  string(d.Kind),
		Note:        d.Note,
		ReferenceID: d.ReferenceID,
		PerformedBy: d.PerformedBy,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:     m.EntryID,
		Sequence:    m.Sequence,
		ItemCode:    m.ItemCode,
		Delta:       m.Delta,
		Before:      m.Before,
		After:       m.After,
		Kind:        domain.LedgerReasonKind(m.ReasonKind),
		Note:        m.Note,
		ReferenceID: m.ReferenceID,
		PerformedBy: m.PerformedBy,
		CreatedAt:   m.CreatedAt,
	}
}

// ToDomainLedgerEntries converts a slice of model LedgerEntries to domain LedgerEntries
func ToDomainLedgerEntries(ms []models.LedgerEntry) []domain.LedgerEntry {
	entries := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		entries[i] = ToDomainLedgerEntry(m)
	}
	return entries
}
