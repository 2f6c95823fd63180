package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/workshop_inventory/internal/apperrors"
	"github.com/SscSPs/workshop_inventory/internal/core/domain"
	"github.com/SscSPs/workshop_inventory/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItemBooksOpeningStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item, err := env.svc.Item.CreateItem(ctx, dto.CreateItemRequest{
		Code: " spark-plug ", Name: "Spark plug", Unit: "pcs", MinStock: 4,
		CostPrice: decimal.NewFromInt(25000), OpeningStock: 12,
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, "SPARK-PLUG", item.Code)
	assert.Equal(t, int64(12), item.PhysicalStock)

	entries := env.ledger(t, "SPARK-PLUG")
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ReasonOpening, entries[0].Kind)
	assert.Equal(t, int64(0), entries[0].Before)
	assert.Equal(t, int64(12), entries[0].After)
}

func TestCreateItemWithoutOpeningStockWritesNoEntry(t *testing.T) {
	env := newTestEnv(t)
	env.seedItem(t, "WIPER", 0)

	assert.Equal(t, int64(0), env.stock(t, "WIPER"))
	assert.Empty(t, env.ledger(t, "WIPER"))
}

func TestCreateItemRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	env.seedItem(t, "WIPER", 3)

	_, err := env.svc.Item.CreateItem(context.Background(), dto.CreateItemRequest{
		Code: "wiper", Name: "Wiper", Unit: "pcs", OpeningStock: 5,
	}, admin)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Equal(t, int64(3), env.stock(t, "WIPER"))
	assert.Len(t, env.ledger(t, "WIPER"), 1)
}

func TestCreateItemValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.CreateItemRequest
	}{
		{"missing code", dto.CreateItemRequest{Name: "x", Unit: "pcs"}},
		{"missing name", dto.CreateItemRequest{Code: "A", Unit: "pcs"}},
		{"missing unit", dto.CreateItemRequest{Code: "A", Name: "x"}},
		{"negative minimum", dto.CreateItemRequest{Code: "A", Name: "x", Unit: "pcs", MinStock: -1}},
		{"negative cost", dto.CreateItemRequest{Code: "A", Name: "x", Unit: "pcs", CostPrice: decimal.NewFromInt(-1)}},
		{"cost beyond four places", dto.CreateItemRequest{Code: "A", Name: "x", Unit: "pcs", CostPrice: decimal.RequireFromString("0.00001")}},
		{"negative opening stock", dto.CreateItemRequest{Code: "A", Name: "x", Unit: "pcs", OpeningStock: -3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.Item.CreateItem(ctx, tc.req, admin)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestUpdateItemVersionCheck(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "BRAKE-PAD", 0)

	current, err := env.svc.Item.GetItem(ctx, "BRAKE-PAD", mechanic)
	require.NoError(t, err)

	req := dto.UpdateItemRequest{Name: "Brake pad front", Unit: "set", MinStock: 1, ExpectedVersion: current.Version}
	updated, err := env.svc.Item.UpdateItem(ctx, "BRAKE-PAD", req, admin)
	require.NoError(t, err)
	assert.Equal(t, "Brake pad front", updated.Name)
	assert.Equal(t, current.Version+1, updated.Version)

	// Reusing the old version loses.
	_, err = env.svc.Item.UpdateItem(ctx, "BRAKE-PAD", req, admin)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = env.svc.Item.UpdateItem(ctx, "BRAKE-PAD", req, cashier)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestStockMovesBumpItemVersion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "BRAKE-PAD", 0)

	before, err := env.svc.Item.GetItem(ctx, "BRAKE-PAD", admin)
	require.NoError(t, err)

	_, err = env.svc.Adjustment.RecordPurchase(ctx, dto.RecordPurchaseRequest{ItemCode: "BRAKE-PAD", Quantity: 4}, admin)
	require.NoError(t, err)

	_, err = env.svc.Item.DeactivateItem(ctx, "BRAKE-PAD", before.Version, admin)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "an edit based on a pre-purchase read must lose")
}

func TestDeactivateItemHidesIt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedItem(t, "BRAKE-PAD", 2)

	item, err := env.svc.Item.GetItem(ctx, "BRAKE-PAD", admin)
	require.NoError(t, err)

	deactivated, err := env.svc.Item.DeactivateItem(ctx, "BRAKE-PAD", item.Version, admin)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	_, err = env.svc.Item.GetItem(ctx, "BRAKE-PAD", admin)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// The ledger survives a soft delete.
	assert.Len(t, env.ledger(t, "BRAKE-PAD"), 1)
}

func TestListItemsPaginates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, code := range []string{"C-ITEM", "A-ITEM", "B-ITEM"} {
		env.seedItem(t, code, 1)
	}

	page, next, err := env.svc.Item.ListItems(ctx, dto.ListParams{Limit: 2}, mechanic)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "A-ITEM", page[0].Code)
	assert.Equal(t, "B-ITEM", page[1].Code)
	require.NotNil(t, next)

	rest, next, err := env.svc.Item.ListItems(ctx, dto.ListParams{Limit: 2, NextToken: next}, mechanic)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "C-ITEM", rest[0].Code)
	assert.Nil(t, next)
}
