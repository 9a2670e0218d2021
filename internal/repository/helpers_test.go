package repository

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

// setupDatabase opens a seeded store in a temp dir.
func setupDatabase(t *testing.T) (*Database, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.Open(testCtx(t), types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
		Seed:    true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewDatabase(store.DB()), store
}

func newCustomer(first, last, email string) *types.Customer {
	return &types.Customer{
		FirstName:    first,
		LastName:     last,
		EmailAddress: email,
		Password:     "password123",
	}
}
