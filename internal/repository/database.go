package repository

import (
	"database/sql"

	"github.com/mesh-intelligence/mart/internal/tracker"
	"github.com/mesh-intelligence/mart/pkg/types"
)

// Database groups one repository per entity type over a single session, so
// a failed commit in any of them rolls back the working set of all of them.
type Database struct {
	Customers        *CustomerRepository
	Products         *ProductRepository
	Locations        *LocationRepository
	Orders           *OrderRepository
	OrderProducts    *Repository[*types.OrderProduct]
	LocationProducts *Repository[*types.LocationProduct]

	session *tracker.Session
}

// NewDatabase opens a session over db and binds every repository to it.
func NewDatabase(db *sql.DB) *Database {
	s := tracker.New(db)
	return &Database{
		Customers:        NewCustomerRepository(s),
		Products:         NewProductRepository(s),
		Locations:        NewLocationRepository(s),
		Orders:           NewOrderRepository(s),
		OrderProducts:    New[*types.OrderProduct](s),
		LocationProducts: New[*types.LocationProduct](s),
		session:          s,
	}
}

// Session returns the shared session.
func (d *Database) Session() *tracker.Session { return d.session }
