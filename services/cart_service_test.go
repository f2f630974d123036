package services

import (
	"context"
	"math"
	"testing"

	"github.com/PabloUrbano2000/little-lemon-api/entity"
	"github.com/PabloUrbano2000/little-lemon-api/pkg/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOrReplaceComputesPrice(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	line, err := e.cart.AddOrReplace(ctx, as(e.f.Customer), AddToCartIn{MenuItemID: e.f.ItemA.ID, Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, e.f.Customer.ID, line.UserID)
	assert.Equal(t, 3, line.Quantity)
	assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("10.00")), line.UnitPrice.String())
	assert.True(t, line.Price.Equal(decimal.RequireFromString("30.00")), line.Price.String())
	require.NotNil(t, line.MenuItem)
	assert.Equal(t, "Greek Salad", line.MenuItem.Title)
}

func TestAddOrReplaceOverwritesQuantity(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := as(e.f.Customer)

	_, err := e.cart.AddOrReplace(ctx, u, AddToCartIn{MenuItemID: e.f.ItemA.ID, Quantity: 2})
	require.NoError(t, err)
	line, err := e.cart.AddOrReplace(ctx, u, AddToCartIn{MenuItemID: e.f.ItemA.ID, Quantity: 5})
	require.NoError(t, err)

	assert.Equal(t, 5, line.Quantity)
	assert.True(t, line.Price.Equal(decimal.NewFromInt(50)))
	assert.EqualValues(t, 1, e.count(t, &entity.CartLine{}, "user_id = ? AND menuitem_id = ?", u.ID, e.f.ItemA.ID))
}

func TestAddOrReplaceValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := as(e.f.Customer)

	_, err := e.cart.AddOrReplace(ctx, u, AddToCartIn{MenuItemID: e.f.ItemA.ID, Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.cart.AddOrReplace(ctx, u, AddToCartIn{Quantity: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.cart.AddOrReplace(ctx, u, AddToCartIn{MenuItemID: 9999, Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.cart.AddOrReplace(ctx, Anonymous, AddToCartIn{MenuItemID: e.f.ItemA.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.EqualValues(t, 0, e.count(t, &entity.CartLine{}))
}

func TestCartPriceFrozenAfterCatalogChange(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := as(e.f.Customer)

	_, err := e.cart.AddOrReplace(ctx, u, AddToCartIn{MenuItemID: e.f.ItemA.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, e.db.Model(&entity.MenuItem{}).Where("id = ?", e.f.ItemA.ID).
		Update("price", decimal.RequireFromString("99.00")).Error)

	view, err := e.cart.List(ctx, u)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.True(t, view.Lines[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.True(t, view.Lines[0].Price.Equal(decimal.NewFromInt(20)))

	order, err := e.orders.Checkout(ctx, u)
	require.NoError(t, err)
	require.Len(t, order.OrderItems, 1)
	assert.True(t, order.OrderItems[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.True(t, order.OrderItems[0].Price.Equal(decimal.NewFromInt(20)))
	assert.True(t, order.Total.Equal(decimal.NewFromInt(20)))
}

func TestListAndClearAreScopedToCaller(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u, other := as(e.f.Customer), as(e.f.Other)

	_, err := e.cart.AddOrReplace(ctx, u, AddToCartIn{MenuItemID: e.f.ItemA.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = e.cart.AddOrReplace(ctx, u, AddToCartIn{MenuItemID: e.f.ItemB.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = e.cart.AddOrReplace(ctx, other, AddToCartIn{MenuItemID: e.f.ItemB.ID, Quantity: 4})
	require.NoError(t, err)

	view, err := e.cart.List(ctx, u)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 2)
	assert.True(t, view.Subtotal.Equal(decimal.NewFromInt(25)), view.Subtotal.String())

	require.NoError(t, e.cart.Clear(ctx, u))
	require.NoError(t, e.cart.Clear(ctx, u), "clearing an empty cart is not an error")

	view, err = e.cart.List(ctx, u)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.True(t, view.Subtotal.IsZero())

	view, err = e.cart.List(ctx, other)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)
}

func TestAddOrReplaceRejectsOversizedLines(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := as(e.f.Customer)
	pricey := testdb.MenuItem(t, e.db, e.f.Category.ID, "Tasting Menu", "9999.99")

	for _, q := range []int{0, maxQuantity + 1, math.MaxInt} {
		_, err := e.cart.AddOrReplace(ctx, u, AddToCartIn{MenuItemID: e.f.ItemA.ID, Quantity: q})
		assert.ErrorIs(t, err, ErrInvalidInput, "quantity %d", q)
	}

	// 20000 x 9999.99 does not fit numeric(10,2)
	_, err := e.cart.AddOrReplace(ctx, u, AddToCartIn{MenuItemID: pricey.ID, Quantity: 20000})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.EqualValues(t, 0, e.count(t, &entity.CartLine{}, "user_id = ?", u.ID))

	line, err := e.cart.AddOrReplace(ctx, u, AddToCartIn{MenuItemID: e.f.ItemA.ID, Quantity: maxQuantity})
	require.NoError(t, err)
	assert.True(t, line.Price.Equal(decimal.NewFromInt(327670)), line.Price.String())
}
