package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/mart/internal/tracker"
	"github.com/mesh-intelligence/mart/pkg/types"
)

type OrderRepository struct {
	*Repository[*types.Order]
	now func() time.Time
}

func NewOrderRepository(s *tracker.Session) *OrderRepository {
	return &OrderRepository{Repository: New[*types.Order](s), now: time.Now}
}

// Place stamps order with the current time and creates it together with
// its lines. Lines need the order's ID, so the order commits first; if the
// lines are then rejected the order is deleted again and both it and the
// lines are left without an ID.
func (r *OrderRepository) Place(ctx context.Context, order *types.Order, lines ...*types.OrderProduct) (bool, error) {
	if order == nil {
		return false, types.ErrNilEntity
	}
	for _, line := range lines {
		if line == nil {
			return false, types.ErrNilEntity
		}
	}
	if order.PlacedAt.IsZero() {
		order.PlacedAt = r.now().UTC()
	}

	ok, err := r.Create(ctx, order)
	if !ok || len(lines) == 0 {
		return ok, err
	}
	for _, line := range lines {
		line.OrderID = order.OrderID
		if err := r.session.Add(line); err != nil {
			return false, err
		}
	}
	if ok, err = r.commit(ctx); ok {
		return true, nil
	}

	if _, delErr := r.Delete(ctx, order); delErr != nil {
		err = errors.Join(err, delErr)
	}
	order.OrderID = 0
	for _, line := range lines {
		line.OrderID = 0
	}
	return false, err
}

// FindByCustomer returns the orders placed by customer, oldest first.
func (r *OrderRepository) FindByCustomer(ctx context.Context, customer *types.Customer) ([]*types.Order, error) {
	if customer == nil {
		return nil, types.ErrNilEntity
	}
	return r.find(ctx, sq.Eq{"orders.customer_id": customer.CustomerID})
}

// FindByLocation returns the orders placed at location, oldest first.
func (r *OrderRepository) FindByLocation(ctx context.Context, location *types.Location) ([]*types.Order, error) {
	if location == nil {
		return nil, types.ErrNilEntity
	}
	return r.find(ctx, sq.Eq{"orders.location_id": location.LocationID})
}

// FindOpen returns the orders not yet completed.
func (r *OrderRepository) FindOpen(ctx context.Context) ([]*types.Order, error) {
	return r.find(ctx, sq.Eq{"orders.completed": false})
}

func (r *OrderRepository) find(ctx context.Context, where sq.Sqlizer) ([]*types.Order, error) {
	b := tracker.Query[*types.Order]().Where(where).
		OrderBy("orders.placed_at", tracker.KeyColumn[*types.Order]())
	return tracker.Select[*types.Order](ctx, r.session, b)
}
