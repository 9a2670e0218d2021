package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/mesh-intelligence/mart/internal/tracker"
	"github.com/mesh-intelligence/mart/pkg/types"
)

// CustomerRepository adds lookups by email address and name.
type CustomerRepository struct {
	*Repository[*types.Customer]
}

func NewCustomerRepository(s *tracker.Session) *CustomerRepository {
	return &CustomerRepository{Repository: New[*types.Customer](s)}
}

// GetByEmailAddress returns the customer registered under email.
func (r *CustomerRepository) GetByEmailAddress(ctx context.Context, email string) (*types.Customer, bool, error) {
	found, err := r.find(ctx, sq.Eq{"customers.email_address": email})
	if err != nil || len(found) == 0 {
		return nil, false, err
	}
	return found[0], true, nil
}

// FindByFirstName returns customers whose first name is exactly name.
func (r *CustomerRepository) FindByFirstName(ctx context.Context, name string) ([]*types.Customer, error) {
	return r.find(ctx, sq.Eq{"customers.first_name": name})
}

// FindByLastName returns customers whose last name is exactly name.
func (r *CustomerRepository) FindByLastName(ctx context.Context, name string) ([]*types.Customer, error) {
	return r.find(ctx, sq.Eq{"customers.last_name": name})
}

// FindByWholeName returns customers matching both names.
func (r *CustomerRepository) FindByWholeName(ctx context.Context, first, last string) ([]*types.Customer, error) {
	return r.find(ctx, sq.Eq{"customers.first_name": first, "customers.last_name": last})
}

func (r *CustomerRepository) find(ctx context.Context, where sq.Sqlizer) ([]*types.Customer, error) {
	b := tracker.Query[*types.Customer]().Where(where).OrderBy(tracker.KeyColumn[*types.Customer]())
	return tracker.Select[*types.Customer](ctx, r.session, b)
}
