package tracker

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mart/pkg/types"
)

func TestSelectResolvesIdentity(t *testing.T) {
	t.Run("same row yields the same instance", func(t *testing.T) {
		s, _ := setupSession(t)
		ctx := testCtx(t)
		a, ok, err := Get[*types.Customer](ctx, s, 1)
		require.NoError(t, err)
		require.True(t, ok)
		b, _, err := Get[*types.Customer](ctx, s, 1)
		require.NoError(t, err)
		assert.Same(t, a, b)
		assert.Equal(t, types.StateUnchanged, s.StateOf(a))
	})

	t.Run("unchanged instance is refreshed from the row", func(t *testing.T) {
		s, _ := setupSession(t)
		ctx := testCtx(t)
		c, _, err := Get[*types.Customer](ctx, s, 2)
		require.NoError(t, err)
		c.EmailAddress = "scribbled@x.com"

		again, _, err := Get[*types.Customer](ctx, s, 2)
		require.NoError(t, err)
		assert.Same(t, c, again)
		assert.Equal(t, "george.bumble@revature.net", again.EmailAddress)
	})

	t.Run("pending instance is returned untouched", func(t *testing.T) {
		s, _ := setupSession(t)
		ctx := testCtx(t)
		c, _, err := Get[*types.Customer](ctx, s, 2)
		require.NoError(t, err)
		c.EmailAddress = "pending@x.com"
		require.NoError(t, s.Update(c))

		again, _, err := Get[*types.Customer](ctx, s, 2)
		require.NoError(t, err)
		assert.Equal(t, "pending@x.com", again.EmailAddress)
		assert.Equal(t, types.StateModified, s.StateOf(again))
	})

	t.Run("stale instance is refreshed and settles", func(t *testing.T) {
		s, _ := setupSession(t)
		ctx := testCtx(t)
		l, _, err := Get[*types.Location](ctx, s, 1)
		require.NoError(t, err)
		l.Name = "garbage"
		e, _ := s.Entry(l)
		e.SetState(types.StateStale)

		again, _, err := Get[*types.Location](ctx, s, 1)
		require.NoError(t, err)
		assert.Equal(t, "Florida", again.Name)
		assert.Equal(t, types.StateUnchanged, s.StateOf(l))
	})

	t.Run("missing row is absent and detaches a tracked instance", func(t *testing.T) {
		s, _ := setupSession(t)
		ctx := testCtx(t)
		l, _, err := Get[*types.Location](ctx, s, 2)
		require.NoError(t, err)
		_, err = s.DB().Exec("DELETE FROM locations WHERE location_id = 2")
		require.NoError(t, err)

		got, ok, err := Get[*types.Location](ctx, s, 2)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
		assert.Equal(t, types.StateDetached, s.StateOf(l))
	})

	t.Run("select with conditions and joins", func(t *testing.T) {
		s, _ := setupSession(t)
		ctx := testCtx(t)
		products, err := Select[*types.Product](ctx, s, Query[*types.Product]().
			Join("order_products ON order_products.product_id = products.product_id").
			Where(sq.Eq{"order_products.order_id": 1}).
			OrderBy(KeyColumn[*types.Product]()))
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Apple", products[0].Name)
		assert.Equal(t, "Banana", products[1].Name)
	})
}

func TestExistsAndCount(t *testing.T) {
	s, _ := setupSession(t)
	ctx := testCtx(t)

	ok, err := Exists[*types.Order](ctx, s, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists[*types.Order](ctx, s, 100)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, s.Entries(), "exists does not track")

	n, err := Count[*types.LocationProduct](ctx, s)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestReload(t *testing.T) {
	t.Run("restores persisted values", func(t *testing.T) {
		s, _ := setupSession(t)
		ctx := testCtx(t)
		l, _, err := Get[*types.Location](ctx, s, 1)
		require.NoError(t, err)
		l.Name = "Atlantis"
		require.NoError(t, s.Remove(l))

		require.NoError(t, s.Reload(ctx, l))
		assert.Equal(t, "Florida", l.Name)
		assert.Equal(t, types.StateUnchanged, s.StateOf(l))
	})

	t.Run("untracked entity becomes tracked", func(t *testing.T) {
		s, _ := setupSession(t)
		l := &types.Location{LocationID: 2}
		require.NoError(t, s.Reload(testCtx(t), l))
		assert.Equal(t, "Texas", l.Name)
		assert.Equal(t, types.StateUnchanged, s.StateOf(l))
	})

	t.Run("vanished row detaches", func(t *testing.T) {
		s, _ := setupSession(t)
		l := &types.Location{LocationID: 50, Name: "Ghost"}
		require.NoError(t, s.Remove(l))
		require.NoError(t, s.Reload(testCtx(t), l))
		assert.Equal(t, types.StateDetached, s.StateOf(l))
	})

	t.Run("closed database fails", func(t *testing.T) {
		s, store := setupSession(t)
		l := &types.Location{LocationID: 1}
		require.NoError(t, s.Remove(l))
		require.NoError(t, store.Close())

		assert.Error(t, s.Reload(testCtx(t), l))
		assert.Equal(t, types.StateDeleted, s.StateOf(l), "state is left for the caller to resolve")
	})
}
