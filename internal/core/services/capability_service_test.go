package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	"github.com/SscSPs/workshop_inventory/internal/core/services"
	"github.com/SscSPs/workshop_inventory/internal/dto"
	"github.com/SscSPs/workshop_inventory/internal/repositories/database/memory"
	"github.com/stretchr/testify/assert"
)

func TestRoleCapabilities(t *testing.T) {
	checker := services.NewRoleCapabilityChecker()
	ctx := context.Background()

	all := []domain.Capability{
		domain.CapInvoiceCreate, domain.CapInvoicePay, domain.CapInvoiceVoid,
		domain.CapStockAdjust, domain.CapStockPurchase, domain.CapStockRead,
		domain.CapItemWrite, domain.CapWorkOrderWrite,
	}
	granted := map[domain.Role][]domain.Capability{
		domain.RoleAdmin:    all,
		domain.RoleOwner:    all,
		domain.RoleCashier:  {domain.CapInvoiceCreate, domain.CapInvoicePay, domain.CapStockPurchase, domain.CapStockRead},
		domain.RoleMechanic: {domain.CapStockRead, domain.CapWorkOrderWrite},
		"VISITOR":           nil,
	}

	for role, caps := range granted {
		allowed := map[domain.Capability]bool{}
		for _, c := range caps {
			allowed[c] = true
		}
		actor := domain.Actor{UserID: "u-" + string(role), Role: role}
		for _, c := range all {
			err := checker.Authorize(ctx, actor, c)
			if allowed[c] {
				assert.NoError(t, err, "%s should hold %s", role, c)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrForbidden, "%s must not hold %s", role, c)
			}
		}
	}
}

func TestAnonymousActorIsUnauthorized(t *testing.T) {
	err := services.NewRoleCapabilityChecker().Authorize(context.Background(), domain.Actor{Role: domain.RoleAdmin}, domain.CapStockRead)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestServiceWithoutCapabilityCheckerDenies(t *testing.T) {
	repos := memory.NewRepositoryProvider(memory.NewStore())
	base := services.BaseService{}
	ledger := services.NewStockLedgerService(repos.TxManager, repos.ItemRepo, repos.LedgerRepo, base)
	items := services.NewItemService(repos.TxManager, repos.ItemRepo, ledger, base)

	_, err := items.CreateItem(context.Background(), dto.CreateItemRequest{Code: "A", Name: "A", Unit: "pcs", OpeningStock: 5}, admin)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = repos.ItemRepo.FindItemByCode(context.Background(), "A")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
