package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/mart/internal/tracker"
	"github.com/mesh-intelligence/mart/pkg/types"
)

type LocationRepository struct {
	*Repository[*types.Location]
}

func NewLocationRepository(s *tracker.Session) *LocationRepository {
	return &LocationRepository{Repository: New[*types.Location](s)}
}

// GetByName returns the location with the given name.
func (r *LocationRepository) GetByName(ctx context.Context, name string) (*types.Location, bool, error) {
	b := tracker.Query[*types.Location]().Where(sq.Eq{"locations.name": name})
	found, err := tracker.Select[*types.Location](ctx, r.session, b)
	if err != nil || len(found) == 0 {
		return nil, false, err
	}
	return found[0], true, nil
}

// FindStocking returns the locations holding at least one unit of product.
func (r *LocationRepository) FindStocking(ctx context.Context, product *types.Product) ([]*types.Location, error) {
	if product == nil {
		return nil, types.ErrNilEntity
	}
	b := tracker.Query[*types.Location]().
		Join("location_products ON location_products.location_id = locations.location_id").
		Where(sq.And{
			sq.Eq{"location_products.product_id": product.ProductID},
			sq.Gt{"location_products.quantity": 0},
		}).
		OrderBy(tracker.KeyColumn[*types.Location]())
	return tracker.Select[*types.Location](ctx, r.session, b)
}
