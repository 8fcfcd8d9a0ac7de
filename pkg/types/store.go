package types

import "errors"

// Store is a storage backend exposing one Table per entity type.
// Callers attach, look tables up by name, and detach when done.
type Store interface {
	// GetTable returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a standard table.
	GetTable(name string) (Table, error)

	// Attach opens the backend described by config, creating DataDir if
	// needed. Returns ErrAlreadyAttached if already attached.
	Attach(config Config) error

	// Detach releases backend resources and is idempotent.
	// After Detach, table operations return ErrStoreDetached.
	Detach() error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrTableNotFound   = errors.New("table not found")
)
