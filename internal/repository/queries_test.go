package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mart/internal/tracker"
	"github.com/mesh-intelligence/mart/pkg/types"
)

func TestCustomerLookups(t *testing.T) {
	db, _ := setupDatabase(t)
	ctx := testCtx(t)
	ok, err := db.Customers.Create(ctx, newCustomer("Tyler", "Bumble", "tb@x.com"))
	require.NoError(t, err)
	require.True(t, ok)

	c, found, err := db.Customers.GetByEmailAddress(ctx, "george.bumble@revature.net")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2), c.CustomerID)
	assert.True(t, c.CheckPassword("onionbutt"))

	_, found, err = db.Customers.GetByEmailAddress(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.False(t, found)

	tests := []struct {
		name string
		find func() ([]*types.Customer, error)
		want []string
	}{
		{"first name", func() ([]*types.Customer, error) { return db.Customers.FindByFirstName(ctx, "Tyler") },
			[]string{"tyler.cadena@revature.net", "tb@x.com"}},
		{"last name", func() ([]*types.Customer, error) { return db.Customers.FindByLastName(ctx, "Bumble") },
			[]string{"george.bumble@revature.net", "tb@x.com"}},
		{"whole name", func() ([]*types.Customer, error) { return db.Customers.FindByWholeName(ctx, "Tyler", "Bumble") },
			[]string{"tb@x.com"}},
		{"no match", func() ([]*types.Customer, error) { return db.Customers.FindByFirstName(ctx, "tyler") },
			[]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := tt.find()
			require.NoError(t, err)
			emails := make([]string, 0, len(found))
			for _, c := range found {
				emails = append(emails, c.EmailAddress)
			}
			assert.Equal(t, tt.want, emails)
		})
	}
}

func TestProductLookups(t *testing.T) {
	db, _ := setupDatabase(t)
	ctx := testCtx(t)

	p, found, err := db.Products.GetByName(ctx, "Coffee")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(3), p.ProductID)

	order, _, err := db.Orders.Get(ctx, 1)
	require.NoError(t, err)
	inOrder, err := db.Products.FindFromOrder(ctx, order)
	require.NoError(t, err)
	require.Len(t, inOrder, 2)
	assert.Equal(t, "Apple", inOrder[0].Name)
	assert.Equal(t, "Banana", inOrder[1].Name)

	texas, _, err := db.Locations.GetByName(ctx, "Texas")
	require.NoError(t, err)
	atTexas, err := db.Products.FindFromLocation(ctx, texas)
	require.NoError(t, err)
	require.Len(t, atTexas, 2)
	assert.Equal(t, "Apple", atTexas[0].Name)
	assert.Equal(t, "Coffee", atTexas[1].Name)

	_, err = db.Products.FindFromOrder(ctx, nil)
	assert.ErrorIs(t, err, types.ErrNilEntity)
}

func TestLocationLookups(t *testing.T) {
	db, _ := setupDatabase(t)
	ctx := testCtx(t)

	l, found, err := db.Locations.GetByName(ctx, "Florida")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(1), l.LocationID)

	_, found, err = db.Locations.GetByName(ctx, "Ohio")
	require.NoError(t, err)
	assert.False(t, found)

	banana, _, err := db.Products.Get(ctx, 2)
	require.NoError(t, err)
	stocking, err := db.Locations.FindStocking(ctx, banana)
	require.NoError(t, err)
	require.Len(t, stocking, 1)
	assert.Same(t, l, stocking[0])

	// Sold out inventory does not count.
	stock, err := tracker.Select[*types.LocationProduct](ctx, db.Session(), tracker.Query[*types.LocationProduct]())
	require.NoError(t, err)
	for _, lp := range stock {
		if lp.ProductID == 2 {
			lp.Quantity = 0
			ok, err := db.LocationProducts.Update(ctx, lp)
			require.NoError(t, err)
			require.True(t, ok)
		}
	}
	stocking, err = db.Locations.FindStocking(ctx, banana)
	require.NoError(t, err)
	assert.Empty(t, stocking)
}

func TestOrderLookups(t *testing.T) {
	db, _ := setupDatabase(t)
	ctx := testCtx(t)

	george, _, err := db.Customers.Get(ctx, 2)
	require.NoError(t, err)
	orders, err := db.Orders.FindByCustomer(ctx, george)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(2), orders[0].OrderID)

	florida, _, err := db.Locations.Get(ctx, 1)
	require.NoError(t, err)
	orders, err = db.Orders.FindByLocation(ctx, florida)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(1), orders[0].OrderID)

	open, err := db.Orders.FindOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 2)

	require.NoError(t, open[0].Complete())
	ok, err := db.Orders.Update(ctx, open[0])
	require.NoError(t, err)
	require.True(t, ok)

	open, err = db.Orders.FindOpen(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestPlaceOrder(t *testing.T) {
	placedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("order and lines are persisted", func(t *testing.T) {
		db, _ := setupDatabase(t)
		ctx := testCtx(t)
		db.Orders.now = func() time.Time { return placedAt }

		order := &types.Order{CustomerID: 1, LocationID: 2}
		lines := []*types.OrderProduct{
			{ProductID: 1, Quantity: 3},
			{ProductID: 3, Quantity: 1},
		}
		ok, err := db.Orders.Place(ctx, order, lines...)
		require.NoError(t, err)
		require.True(t, ok)
		assert.NotZero(t, order.OrderID)
		assert.True(t, placedAt.Equal(order.PlacedAt))
		for _, line := range lines {
			assert.Equal(t, order.OrderID, line.OrderID)
			assert.NotZero(t, line.OrderProductID)
		}

		products, err := db.Products.FindFromOrder(ctx, order)
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("rejected line removes the order", func(t *testing.T) {
		db, _ := setupDatabase(t)
		ctx := testCtx(t)

		order := &types.Order{CustomerID: 1, LocationID: 2}
		ok, err := db.Orders.Place(ctx, order, &types.OrderProduct{ProductID: 99, Quantity: 1})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, order.OrderID)

		n, err := tracker.Count[*types.Order](ctx, db.Session())
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("unknown customer is rejected", func(t *testing.T) {
		db, _ := setupDatabase(t)
		ok, err := db.Orders.Place(testCtx(t), &types.Order{CustomerID: 42, LocationID: 1})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("nil line", func(t *testing.T) {
		db, _ := setupDatabase(t)
		_, err := db.Orders.Place(testCtx(t), &types.Order{CustomerID: 1, LocationID: 1}, nil)
		assert.ErrorIs(t, err, types.ErrNilEntity)
	})
}
