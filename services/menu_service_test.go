package services

import (
	"context"
	"testing"

	"github.com/PabloUrbano2000/little-lemon-api/pkg/testdb"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestMenuCreateUpdateDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	price := decimal.RequireFromString("7.50")
	cat := e.f.Category.ID

	item, err := e.menu.Create(ctx, MenuItemIn{Title: strp("Lemon Dessert"), Price: &price, CategoryID: &cat})
	require.NoError(t, err)
	assert.Equal(t, "Lemon Dessert", item.Title)
	require.NotNil(t, item.Category)
	assert.Equal(t, "main-courses", item.Category.Slug)

	featured := true
	item, err = e.menu.Update(ctx, item.ID, MenuItemIn{Featured: &featured}, true)
	require.NoError(t, err)
	assert.True(t, item.Featured)
	assert.True(t, item.Price.Equal(price))

	_, err = e.menu.Update(ctx, item.ID, MenuItemIn{Featured: &featured}, false)
	assert.ErrorIs(t, err, ErrInvalidInput, "PUT needs every required field")

	require.NoError(t, e.menu.Delete(ctx, item.ID))
	_, err = e.menu.Get(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, e.menu.Delete(ctx, item.ID), ErrNotFound)
}

func TestMenuValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cat := e.f.Category.ID
	missing := uint(999)
	zero := decimal.Zero
	fine := decimal.RequireFromString("1.234")
	ok := decimal.NewFromInt(3)

	cases := map[string]MenuItemIn{
		"missing title":    {Price: &ok, CategoryID: &cat},
		"blank title":      {Title: strp("  "), Price: &ok, CategoryID: &cat},
		"zero price":       {Title: strp("x"), Price: &zero, CategoryID: &cat},
		"three decimals":   {Title: strp("x"), Price: &fine, CategoryID: &cat},
		"unknown category": {Title: strp("x"), Price: &ok, CategoryID: &missing},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := e.menu.Create(ctx, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestMenuListFilters(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	drinks := CategoryIn{Slug: "drinks", Title: "Drinks"}
	cat, err := e.menu.CreateCategory(ctx, drinks)
	require.NoError(t, err)
	_, err = e.menu.CreateCategory(ctx, drinks)
	assert.ErrorIs(t, err, ErrInvalidInput)

	testdb.MenuItem(t, e.db, cat.ID, "Lemonade", "3.00")
	testdb.MenuItem(t, e.db, cat.ID, "Espresso", "2.50")

	items, err := e.menu.List(ctx, MenuQuery{Category: "drinks", PageQuery: PageQuery{Ordering: "price"}})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Espresso", items[0].Title)
	assert.Equal(t, "Lemonade", items[1].Title)

	items, err = e.menu.List(ctx, MenuQuery{Search: "Lem"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Lemonade", items[0].Title)

	items, err = e.menu.List(ctx, MenuQuery{PageQuery: PageQuery{PerPage: "10", Ordering: "-price,title"}})
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, "Greek Salad", items[0].Title)

	_, err = e.menu.List(ctx, MenuQuery{Featured: "maybe"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = e.menu.List(ctx, MenuQuery{PageQuery: PageQuery{Ordering: "secret"}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
