package types

import (
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest plain-text password SetPassword accepts.
const MinPasswordLength = 8

// Customer is a registered shopper. EmailAddress is unique across customers.
type Customer struct {
	CustomerID   int64  `db:"customer_id" key:"true" json:"customer_id"`
	FirstName    string `db:"first_name" json:"first_name" validate:"required,min=2"`
	LastName     string `db:"last_name" json:"last_name" validate:"required,min=2"`
	EmailAddress string `db:"email_address" json:"email_address" validate:"required,email"`
	Password     string `db:"password" json:"password,omitempty" validate:"required,min=8"`
}

func (c *Customer) GetID() int64      { return c.CustomerID }
func (c *Customer) SetID(id int64)    { c.CustomerID = id }
func (c *Customer) TableName() string { return CustomersTable }

// SetPassword stores a bcrypt hash of plain.
// Returns ErrInvalidPassword if plain is shorter than MinPasswordLength.
func (c *Customer) SetPassword(plain string) error {
	hash, err := HashPassword(plain)
	if err != nil {
		return err
	}
	c.Password = hash
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (c *Customer) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(plain)) == nil
}

// HashPassword returns the bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	if len(plain) < MinPasswordLength {
		return "", ErrInvalidPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
