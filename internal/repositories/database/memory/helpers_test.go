package memory

import (
	"time"

	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portsrepo "github.com/SscSPs/workshop_inventory/internal/core/ports/repositories"
)

func portsTransition(id string, from, to domain.InvoiceStatus) portsrepo.InvoiceTransition {
	return portsrepo.InvoiceTransition{InvoiceID: id, From: from, To: to, UpdatedBy: "u1", UpdatedAt: time.Now()}
}
