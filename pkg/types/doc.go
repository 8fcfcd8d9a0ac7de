// Package types defines the board entities, the fixed column catalog, the
// Store and Table storage interfaces, and the standard error values shared
// by the kanban client, its storage backend, and the development server.
package types
