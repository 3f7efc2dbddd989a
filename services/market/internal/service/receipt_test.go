package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReceipt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seller()
	buyer := uuid.New()
	p := env.seedProduct(t, owner, 40)

	order, err := env.Orders.CreateOrderDirect(ctx, buyer, []OrderLine{{ProductID: p.ID, Quantity: 3}})
	require.NoError(t, err)

	rec, err := env.Receipts.GenerateReceipt(ctx, order.ID, p.StoreID, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 120, rec.TotalSum)
	assert.EqualValues(t, 10, rec.DeliveryCost)
	assert.Equal(t, p.StoreID, rec.StoreID)
	assert.WithinDuration(t, time.Now(), rec.PurchaseDate, 5*time.Second)
	assert.True(t, rec.PurchaseDate.Equal(rec.DeliveryDate))

	_, err = env.Receipts.GenerateReceipt(ctx, order.ID, p.StoreID, 10)
	require.ErrorIs(t, err, ErrConflict)

	assert.Contains(t, env.Events.Types(), "receipt_generated")
}

func TestGenerateReceipt_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, seller(), 40)
	order, err := env.Orders.CreateOrderDirect(ctx, uuid.New(), []OrderLine{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = env.Receipts.GenerateReceipt(ctx, order.ID, p.StoreID, -1)
	require.ErrorIs(t, err, ErrValidation)
	_, err = env.Receipts.GenerateReceipt(ctx, uuid.New(), p.StoreID, 0)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = env.Receipts.GenerateReceipt(ctx, order.ID, uuid.New(), 0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReceipt_FrozenTotal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := seller()
	buyer := uuid.New()
	p := env.seedProduct(t, owner, 40)

	order, err := env.Orders.CreateOrderDirect(ctx, buyer, []OrderLine{{ProductID: p.ID, Quantity: 2}})
	require.NoError(t, err)
	_, err = env.Receipts.GenerateReceipt(ctx, order.ID, p.StoreID, 0)
	require.NoError(t, err)

	_, err = env.Catalog.UpdateProductPrice(ctx, owner.UserID, p.ID, 1000)
	require.NoError(t, err)

	rec, err := env.Receipts.GetReceipt(ctx, buyer, order.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 80, rec.TotalSum)

	live, err := env.Orders.ComputeTotal(ctx, order.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2000, live)
}

func TestGetReceipt_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := uuid.New()
	p := env.seedProduct(t, seller(), 40)
	order, err := env.Orders.CreateOrderDirect(ctx, buyer, []OrderLine{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = env.Receipts.GetReceipt(ctx, buyer, order.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = env.Receipts.GenerateReceipt(ctx, order.ID, p.StoreID, 0)
	require.NoError(t, err)

	_, err = env.Receipts.GetReceipt(ctx, uuid.New(), order.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelivered_StampsReceiptDeliveryDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	buyer := uuid.New()
	p := env.seedProduct(t, seller(), 40)
	order, err := env.Orders.CreateOrderDirect(ctx, buyer, []OrderLine{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)
	rec, err := env.Receipts.GenerateReceipt(ctx, order.ID, p.StoreID, 0)
	require.NoError(t, err)

	_, err = env.Orders.UpdateDeliveryStatus(ctx, order.ID, "delivered")
	require.NoError(t, err)

	got, err := env.Receipts.GetReceipt(ctx, buyer, order.ID)
	require.NoError(t, err)
	assert.False(t, got.DeliveryDate.Before(rec.DeliveryDate))
	assert.True(t, got.PurchaseDate.Equal(rec.PurchaseDate))
	assert.Equal(t, rec.TotalSum, got.TotalSum)
}
