package types

import "errors"

// Filter narrows a Table.Fetch. Keys are table specific; an empty or nil
// filter matches every entity.
type Filter map[string]any

// Table provides uniform CRUD operations for a single entity type.
// Get and Fetch return any; callers type-assert to the concrete entity struct.
type Table interface {
	// Get retrieves the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Get(id string) (any, error)

	// Set creates or updates an entity. When id is empty a new UUID v7 is
	// generated where the table owns its IDs. Returns the actual ID used.
	Set(id string, data any) (string, error)

	// Delete removes the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Delete(id string) error

	// Fetch returns all entities matching the filter.
	Fetch(filter Filter) ([]any, error)
}

// Table operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidData   = errors.New("invalid entity data")
	ErrInvalidFilter = errors.New("invalid filter value type")
)

// Domain errors.
var (
	ErrInvalidStatus   = errors.New("invalid status value")
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidWIPLimit = errors.New("WIP limit must be a non-negative integer")
	ErrRemote          = errors.New("remote request failed")
)
