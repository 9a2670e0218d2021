package tracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mart/internal/logger"
	"github.com/mesh-intelligence/mart/internal/sqlite"
	"github.com/mesh-intelligence/mart/pkg/types"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	return logger.ContextWithLogger(t.Context(), logger.NewForTests())
}

// setupSession opens a seeded store in a temp dir and returns a fresh
// session over it together with the store.
func setupSession(t *testing.T) (*Session, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.Open(testCtx(t), types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
		Seed:    true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store.DB()), store
}

func newCustomer(email string) *types.Customer {
	return &types.Customer{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		EmailAddress: email,
		Password:     "difference",
	}
}
