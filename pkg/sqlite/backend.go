// Package sqlite exposes the SQLite storage backend to code outside this
// module while keeping the table implementations internal.
package sqlite

import (
	"github.com/mesh-intelligence/kanban/internal/sqlite"
	"github.com/mesh-intelligence/kanban/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.NewConfig(dataDir))
//	defer backend.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}

// Columns returns the column catalog with the settings stored in c applied.
func Columns(c types.Store) ([]types.Column, error) {
	return sqlite.LoadColumns(c)
}
