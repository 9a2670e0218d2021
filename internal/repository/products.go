package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/mart/internal/tracker"
	"github.com/mesh-intelligence/mart/pkg/types"
)

// ProductRepository adds lookups through the order and inventory join
// tables.
type ProductRepository struct {
	*Repository[*types.Product]
}

func NewProductRepository(s *tracker.Session) *ProductRepository {
	return &ProductRepository{Repository: New[*types.Product](s)}
}

// GetByName returns the product with the given name.
func (r *ProductRepository) GetByName(ctx context.Context, name string) (*types.Product, bool, error) {
	b := tracker.Query[*types.Product]().Where(sq.Eq{"products.name": name})
	found, err := tracker.Select[*types.Product](ctx, r.session, b)
	if err != nil || len(found) == 0 {
		return nil, false, err
	}
	return found[0], true, nil
}

// FindFromOrder returns the products on the lines of order.
func (r *ProductRepository) FindFromOrder(ctx context.Context, order *types.Order) ([]*types.Product, error) {
	if order == nil {
		return nil, types.ErrNilEntity
	}
	b := tracker.Query[*types.Product]().
		Join("order_products ON order_products.product_id = products.product_id").
		Where(sq.Eq{"order_products.order_id": order.OrderID}).
		OrderBy(tracker.KeyColumn[*types.Product]())
	return tracker.Select[*types.Product](ctx, r.session, b)
}

// FindFromLocation returns the products in location's inventory.
func (r *ProductRepository) FindFromLocation(ctx context.Context, location *types.Location) ([]*types.Product, error) {
	if location == nil {
		return nil, types.ErrNilEntity
	}
	b := tracker.Query[*types.Product]().
		Join("location_products ON location_products.product_id = products.product_id").
		Where(sq.Eq{"location_products.location_id": location.LocationID}).
		OrderBy(tracker.KeyColumn[*types.Product]())
	return tracker.Select[*types.Product](ctx, r.session, b)
}
