package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/mesh-intelligence/mart/internal/logger"
	"github.com/mesh-intelligence/mart/pkg/types"
)

// seedCustomer carries the plain-text password hashed on insert.
type seedCustomer struct {
	customer types.Customer
	password string
}

var seedCustomers = []seedCustomer{
	{types.Customer{CustomerID: 1, FirstName: "Tyler", LastName: "Cadena", EmailAddress: "tyler.cadena@revature.net"}, "synaodev"},
	{types.Customer{CustomerID: 2, FirstName: "George", LastName: "Bumble", EmailAddress: "george.bumble@revature.net"}, "onionbutt"},
}

var seedLocations = []types.Location{
	{LocationID: 1, Name: "Florida"},
	{LocationID: 2, Name: "Texas"},
}

var seedProducts = []types.Product{
	{ProductID: 1, Name: "Apple", Description: "A crisp red apple", Price: decimal.RequireFromString("0.99")},
	{ProductID: 2, Name: "Banana", Description: "A ripe yellow banana", Price: decimal.RequireFromString("0.49")},
	{ProductID: 3, Name: "Coffee", Description: "Whole bean, one pound", Price: decimal.RequireFromString("12.50")},
}

var seedOrderProducts = []types.OrderProduct{
	{OrderProductID: 1, OrderID: 1, ProductID: 1, Quantity: 2},
	{OrderProductID: 2, OrderID: 1, ProductID: 2, Quantity: 6},
	{OrderProductID: 3, OrderID: 2, ProductID: 3, Quantity: 1},
}

var seedLocationProducts = []types.LocationProduct{
	{LocationProductID: 1, LocationID: 1, ProductID: 1, Quantity: 100},
	{LocationProductID: 2, LocationID: 1, ProductID: 2, Quantity: 150},
	{LocationProductID: 3, LocationID: 1, ProductID: 3, Quantity: 20},
	{LocationProductID: 4, LocationID: 2, ProductID: 1, Quantity: 80},
	{LocationProductID: 5, LocationID: 2, ProductID: 3, Quantity: 35},
}

// seedOrders is built at seed time so PlacedAt reflects the seeding moment.
func seedOrders(now time.Time) []types.Order {
	return []types.Order{
		{OrderID: 1, PlacedAt: now, CustomerID: 1, LocationID: 1},
		{OrderID: 2, PlacedAt: now, CustomerID: 2, LocationID: 2},
	}
}

// Seed inserts the initial customers, locations, products, orders and their
// join records. Seeding is idempotent: it only runs when the customers table
// is empty.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&count); err != nil {
		return fmt.Errorf("counting customers: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	exec := func(b sq.InsertBuilder, what string) error {
		query, args, err := b.ToSql()
		if err != nil {
			return fmt.Errorf("building %s seed: %w", what, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seeding %s: %w", what, err)
		}
		return nil
	}

	for _, sc := range seedCustomers {
		// Minimum cost keeps first-run seeding fast; CheckPassword accepts any cost.
		hash, err := bcrypt.GenerateFromPassword([]byte(sc.password), bcrypt.MinCost)
		if err != nil {
			return fmt.Errorf("hashing seed password: %w", err)
		}
		c := sc.customer
		if err := exec(sq.Insert(types.CustomersTable).
			Columns("customer_id", "first_name", "last_name", "email_address", "password").
			Values(c.CustomerID, c.FirstName, c.LastName, c.EmailAddress, string(hash)), "customer "+c.EmailAddress); err != nil {
			return err
		}
	}
	for _, l := range seedLocations {
		if err := exec(sq.Insert(types.LocationsTable).
			Columns("location_id", "name").
			Values(l.LocationID, l.Name), "location "+l.Name); err != nil {
			return err
		}
	}
	for _, p := range seedProducts {
		if err := exec(sq.Insert(types.ProductsTable).
			Columns("product_id", "name", "description", "price").
			Values(p.ProductID, p.Name, p.Description, p.Price), "product "+p.Name); err != nil {
			return err
		}
	}
	for _, o := range seedOrders(time.Now().UTC()) {
		if err := exec(sq.Insert(types.OrdersTable).
			Columns("order_id", "placed_at", "completed", "customer_id", "location_id").
			Values(o.OrderID, o.PlacedAt, o.Completed, o.CustomerID, o.LocationID), "order"); err != nil {
			return err
		}
	}
	for _, op := range seedOrderProducts {
		if err := exec(sq.Insert(types.OrderProductsTable).
			Columns("order_product_id", "order_id", "product_id", "quantity").
			Values(op.OrderProductID, op.OrderID, op.ProductID, op.Quantity), "order product"); err != nil {
			return err
		}
	}
	for _, lp := range seedLocationProducts {
		if err := exec(sq.Insert(types.LocationProductsTable).
			Columns("location_product_id", "location_id", "product_id", "quantity").
			Values(lp.LocationProductID, lp.LocationID, lp.ProductID, lp.Quantity), "location product"); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}
	logger.FromContext(ctx).Info("seeded database",
		"customers", len(seedCustomers), "locations", len(seedLocations), "products", len(seedProducts))
	return nil
}
