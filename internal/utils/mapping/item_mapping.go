package mapping

import (
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	"github.com/SscSPs/workshop_inventory/internal/models"
)

// ToModelItem converts a domain Item to a model Item
func ToModelItem(d domain.Item) models.Item {
	return models.Item{
		Code:          d.Code,
		Name:          d.Name,
		Category:      d.Category,
		Unit:          d.Unit,
		PhysicalStock: d.PhysicalStock,
		MinStock:      d.MinStock,
		CostPrice:     d.CostPrice,
		Version:       d.Version,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainItem converts a model Item to a domain Item
func ToDomainItem(m models.Item) domain.Item {
	return domain.Item{
		Code:          m.Code,
		Name:          m.Name,
		Category:      m.Category,
		Unit:          m.Unit,
		PhysicalStock: m.PhysicalStock,
		MinStock:      m.MinStock,
		CostPrice:     m.CostPrice,
		Version:       m.Version,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainItems converts a slice of model Items to domain Items
func ToDomainItems(ms []models.Item) []domain.Item {
	items := make([]domain.Item, len(ms))
	for i, m := range ms {
		items[i] = ToDomainItem(m)
	}
	return items
}
