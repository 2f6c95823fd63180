package mapping

import (
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	"github.com/SscSPs/workshop_inventory/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	lines := make([]models.InvoiceLine, len(d.LineItems))
	for i, l := range d.LineItems {
		lines[i] = models.InvoiceLine{
			ItemCode:    l.ItemCode,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		}
	}
	var method *string
	if d.PaymentMethod != nil {
		m := string(*d.PaymentMethod)
		method = &m
	}
	return models.Invoice{
		InvoiceID:      d.InvoiceID,
		DocumentNumber: d.DocumentNumber,
		SubjectRef:     d.SubjectRef,
		LineItems:      lines,
		Subtotal:       d.Subtotal,
		TaxRate:        d.TaxRate,
		TaxAmount:      d.TaxAmount,
		TotalAmount:    d.TotalAmount,
		Status:         string(d.Status),
		PaymentMethod:  method,
		Notes:          d.Notes,
		PaidAt:         d.PaidAt,
		VoidedAt:       d.VoidedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	lines := make([]domain.InvoiceLineItem, len(m.LineItems))
	for i, l := range m.LineItems {
		lines[i] = domain.InvoiceLineItem{
			ItemCode:    l.ItemCode,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		}
	}
	var method *domain.PaymentMethod
	if m.PaymentMethod != nil {
		pm := domain.PaymentMethod(*m.PaymentMethod)
		method = &pm
	}
	return domain.Invoice{
		InvoiceID:      m.InvoiceID,
		DocumentNumber: m.DocumentNumber,
		SubjectRef:     m.SubjectRef,
		LineItems:      lines,
		Subtotal:       m.Subtotal,
		TaxRate:        m.TaxRate,
		TaxAmount:      m.TaxAmount,
		TotalAmount:    m.TotalAmount,
		Status:         domain.InvoiceStatus(m.Status),
		PaymentMethod:  method,
		Notes:          m.Notes,
		PaidAt:         m.PaidAt,
		VoidedAt:       m.VoidedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
