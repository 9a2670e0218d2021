package types

import "time"

// Order is placed by a customer at a location. Its lines are OrderProduct
// join records.
type Order struct {
	OrderID    int64     `db:"order_id" key:"true" json:"order_id"`
	PlacedAt   time.Time `db:"placed_at" json:"placed_at"`
	Completed  bool      `db:"completed" json:"completed"`
	CustomerID int64     `db:"customer_id" json:"customer_id" validate:"required"`
	LocationID int64     `db:"location_id" json:"location_id" validate:"required"`
}

func (o *Order) GetID() int64      { return o.OrderID }
func (o *Order) SetID(id int64)    { o.OrderID = id }
func (o *Order) TableName() string { return OrdersTable }

// Complete marks the order as fulfilled.
// Returns ErrOrderCompleted if it already is.
func (o *Order) Complete() error {
	if o.Completed {
		return ErrOrderCompleted
	}
	o.Completed = true
	return nil
}

// OrderProduct is one line of an order. A product appears at most once per
// order; Quantity is at least one.
type OrderProduct struct {
	OrderProductID int64 `db:"order_product_id" key:"true" json:"order_product_id"`
	OrderID        int64 `db:"order_id" json:"order_id" validate:"required"`
	ProductID      int64 `db:"product_id" json:"product_id" validate:"required"`
	Quantity       int   `db:"quantity" json:"quantity" validate:"gte=1"`
}

func (op *OrderProduct) GetID() int64      { return op.OrderProductID }
func (op *OrderProduct) SetID(id int64)    { op.OrderProductID = id }
func (op *OrderProduct) TableName() string { return OrderProductsTable }

// LocationProduct is one inventory record: how many units of a product a
// location holds.
type LocationProduct struct {
	LocationProductID int64 `db:"location_product_id" key:"true" json:"location_product_id"`
	LocationID        int64 `db:"location_id" json:"location_id" validate:"required"`
	ProductID         int64 `db:"product_id" json:"product_id" validate:"required"`
	Quantity          int   `db:"quantity" json:"quantity" validate:"gte=0"`
}

func (lp *LocationProduct) GetID() int64      { return lp.LocationProductID }
func (lp *LocationProduct) SetID(id int64)    { lp.LocationProductID = id }
func (lp *LocationProduct) TableName() string { return LocationProductsTable }
