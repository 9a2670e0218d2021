package types

import (
	"context"
	"errors"
)

// Repository provides uniform CRUD operations for a single entity type.
// Reads never report absence as an error; mutations report an expected
// failure (a rejected write) as false and anything else as an error.
type Repository[T Model] interface {
	// All returns every persisted entity of the type.
	All(ctx context.Context) ([]T, error)

	// Exists reports whether a row with the given ID is persisted.
	Exists(ctx context.Context, id int64) (bool, error)

	// Get returns the entity with the given ID. The boolean is false when no
	// such row exists.
	Get(ctx context.Context, id int64) (T, bool, error)

	// Create inserts the entity and assigns its ID on success.
	Create(ctx context.Context, entity T) (bool, error)

	// Update persists the entity's current field values.
	Update(ctx context.Context, entity T) (bool, error)

	// Delete removes the entity's row.
	Delete(ctx context.Context, entity T) (bool, error)
}

// Lookup errors.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrInvalidData  = errors.New("invalid entity data")
	ErrNilEntity    = errors.New("entity must not be nil")
	ErrUnknownTable = errors.New("unknown table")
)

// Entity method errors.
var (
	ErrInvalidPassword = errors.New("password is too short")
	ErrOrderCompleted  = errors.New("order is already completed")
)

// Session errors.
var (
	ErrIdentityConflict = errors.New("another instance with the same key is tracked")
	ErrNoKeyColumn      = errors.New("entity type declares no key column")
)
