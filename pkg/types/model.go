package types

// Model is the identity contract every persisted entity satisfies.
// Entities are pointers to structs whose columns are declared with `db`
// struct tags; the primary key field additionally carries `key:"true"`.
type Model interface {
	// GetID returns the store-assigned identity, or 0 before the first insert.
	GetID() int64

	// SetID binds the identity assigned by the store. It is only called
	// after a successful commit.
	SetID(id int64)

	// TableName returns the SQL table backing the entity type.
	TableName() string
}

// Standard table names.
const (
	CustomersTable        = "customers"
	LocationsTable        = "locations"
	ProductsTable         = "products"
	OrdersTable           = "orders"
	OrderProductsTable    = "order_products"
	LocationProductsTable = "location_products"
)

// StandardTableNames lists all table names in dependency order.
var StandardTableNames = []string{
	CustomersTable,
	LocationsTable,
	ProductsTable,
	OrdersTable,
	OrderProductsTable,
	LocationProductsTable,
}
