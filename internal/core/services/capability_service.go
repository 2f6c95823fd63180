package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	portssvc "github.com/SscSPs/workshop_inventory/internal/core/ports/services"
	"github.com/SscSPs/workshop_inventory/internal/middleware"
)

var defaultRoleCapabilities = map[domain.Role][]domain.Capability{
	domain.RoleAdmin: {
		domain.CapInvoiceCreate, domain.CapInvoicePay, domain.CapInvoiceVoid,
		domain.CapStockAdjust, domain.CapStockPurchase, domain.CapStockRead,
		domain.CapItemWrite, domain.CapWorkOrderWrite,
	},
	domain.RoleOwner: {
		domain.CapInvoiceCreate, domain.CapInvoicePay, domain.CapInvoiceVoid,
		domain.CapStockAdjust, domain.CapStockPurchase, domain.CapStockRead,
		domain.CapItemWrite, domain.CapWorkOrderWrite,
	},
	domain.RoleCashier: {
		domain.CapInvoiceCreate, domain.CapInvoicePay,
		domain.CapStockPurchase, domain.CapStockRead,
	},
	domain.RoleMechanic: {
		domain.CapStockRead, domain.CapWorkOrderWrite,
	},
}

// roleCapabilityChecker grants capabilities by the role carried in the token.
type roleCapabilityChecker struct {
	grants map[domain.Role]map[domain.Capability]struct{}
}

// NewRoleCapabilityChecker creates the default checker. Void and stock adjustment are
// reserved for ADMIN and OWNER.
func NewRoleCapabilityChecker() portssvc.CapabilityChecker {
	return newRoleCapabilityChecker(defaultRoleCapabilities)
}

func newRoleCapabilityChecker(table map[domain.Role][]domain.Capability) *roleCapabilityChecker {
	grants := make(map[domain.Role]map[domain.Capability]struct{}, len(table))
	for role, caps := range table {
		set := make(map[domain.Capability]struct{}, len(caps))
		for _, c := range caps {
			set[c] = struct{}{}
		}
		grants[role] = set
	}
	return &roleCapabilityChecker{grants: grants}
}

var _ portssvc.CapabilityChecker = (*roleCapabilityChecker)(nil)

// Authorize returns ErrForbidden unless the actor's role grants capability.
func (c *roleCapabilityChecker) Authorize(ctx context.Context, actor domain.Actor, capability domain.Capability) error {
	if actor.UserID == "" {
		return fmt.Errorf("%w: no authenticated user", apperrors.ErrUnauthorized)
	}
	if _, ok := c.grants[actor.Role][capability]; ok {
		return nil
	}
	middleware.GetLoggerFromCtx(ctx).Warn("Capability denied",
		slog.String("user_id", actor.UserID),
		slog.String("role", string(actor.Role)),
		slog.String("capability", string(capability)))
	return fmt.Errorf("%w: role %q may not %s", apperrors.ErrForbidden, actor.Role, capability)
}
