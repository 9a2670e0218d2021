package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"dario.cat/mergo"

	"github.com/mesh-intelligence/mart/internal/repository"
	"github.com/mesh-intelligence/mart/pkg/types"
)

// table is the type-erased view of one repository the generic commands
// work through.
type table interface {
	all(ctx context.Context) (any, error)
	get(ctx context.Context, id int64) (types.Model, bool, error)
	create(ctx context.Context, data []byte) (types.Model, bool, error)
	update(ctx context.Context, id int64, patch []byte) (types.Model, bool, error)
	remove(ctx context.Context, id int64) (bool, error)
}

type repoTable[T types.Model] struct {
	repo    *repository.Repository[T]
	newT    func() T
	prepare func(T) error
	created func(T)
}

func (t *repoTable[T]) all(ctx context.Context) (any, error) {
	return t.repo.All(ctx)
}

func (t *repoTable[T]) get(ctx context.Context, id int64) (types.Model, bool, error) {
	return t.repo.Get(ctx, id)
}

func (t *repoTable[T]) decode(data []byte) (T, error) {
	e := t.newT()
	if err := json.Unmarshal(data, e); err != nil {
		return e, fmt.Errorf("%w: %v", types.ErrInvalidData, err)
	}
	if t.prepare != nil {
		if err := t.prepare(e); err != nil {
			return e, fmt.Errorf("%w: %v", types.ErrInvalidData, err)
		}
	}
	return e, nil
}

func (t *repoTable[T]) create(ctx context.Context, data []byte) (types.Model, bool, error) {
	e, err := t.decode(data)
	if err != nil {
		return nil, false, err
	}
	e.SetID(0)
	if t.created != nil {
		t.created(e)
	}
	ok, err := t.repo.Create(ctx, e)
	return e, ok, err
}

// update merges the non-zero fields of patch onto the stored entity.
// A missing entity is reported as types.ErrNotFound.
func (t *repoTable[T]) update(ctx context.Context, id int64, patch []byte) (types.Model, bool, error) {
	current, found, err := t.repo.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, types.ErrNotFound
	}
	changes, err := t.decode(patch)
	if err != nil {
		return nil, false, err
	}
	if err := mergo.Merge(current, changes, mergo.WithOverride); err != nil {
		return nil, false, fmt.Errorf("merging patch: %w", err)
	}
	current.SetID(id)
	ok, err := t.repo.Update(ctx, current)
	return current, ok, err
}

func (t *repoTable[T]) remove(ctx context.Context, id int64) (bool, error) {
	current, found, err := t.repo.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if !found {
		return false, types.ErrNotFound
	}
	return t.repo.Delete(ctx, current)
}

// hashPassword replaces a plain-text password with its hash. An empty
// password is left for validation to reject on create and ignored by
// update patches.
func hashPassword(c *types.Customer) error {
	if c.Password == "" {
		return nil
	}
	return c.SetPassword(c.Password)
}

// stampOrder sets the placement time of an order created without one.
func stampOrder(o *types.Order) {
	if o.PlacedAt.IsZero() {
		o.PlacedAt = time.Now().UTC()
	}
}

// tablesOf maps table names to the repositories of db.
func tablesOf(db *repository.Database) map[string]table {
	return map[string]table{
		types.CustomersTable: &repoTable[*types.Customer]{
			repo: db.Customers.Repository, newT: func() *types.Customer { return new(types.Customer) }, prepare: hashPassword,
		},
		types.ProductsTable: &repoTable[*types.Product]{
			repo: db.Products.Repository, newT: func() *types.Product { return new(types.Product) },
		},
		types.LocationsTable: &repoTable[*types.Location]{
			repo: db.Locations.Repository, newT: func() *types.Location { return new(types.Location) },
		},
		types.OrdersTable: &repoTable[*types.Order]{
			repo: db.Orders.Repository, newT: func() *types.Order { return new(types.Order) }, created: stampOrder,
		},
		types.OrderProductsTable: &repoTable[*types.OrderProduct]{
			repo: db.OrderProducts, newT: func() *types.OrderProduct { return new(types.OrderProduct) },
		},
		types.LocationProductsTable: &repoTable[*types.LocationProduct]{
			repo: db.LocationProducts, newT: func() *types.LocationProduct { return new(types.LocationProduct) },
		},
	}
}

func tableNames() string {
	names := append([]string(nil), types.StandardTableNames...)
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// lookupTable returns the named table or a user error listing valid names.
func lookupTable(db *repository.Database, name string) (table, error) {
	t, ok := tablesOf(db)[name]
	if !ok {
		return nil, userError("%w %q (valid: %s)", types.ErrUnknownTable, name, tableNames())
	}
	return t, nil
}
