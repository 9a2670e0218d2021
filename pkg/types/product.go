package types

import "github.com/shopspring/decimal"

// Product is a sellable item. Name is unique across products and Price is
// never negative.
type Product struct {
	ProductID   int64           `db:"product_id" key:"true" json:"product_id"`
	Name        string          `db:"name" json:"name" validate:"required,min=2"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price" validate:"gte=0"`
}

func (p *Product) GetID() int64      { return p.ProductID }
func (p *Product) SetID(id int64)    { p.ProductID = id }
func (p *Product) TableName() string { return ProductsTable }
