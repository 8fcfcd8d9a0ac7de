// Package kanban holds build-level constants for the kanban module.
package kanban

// Version is the released version of the kanban CLI and server.
const Version = "0.3.0"
