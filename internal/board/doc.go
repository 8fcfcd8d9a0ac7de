// Package board owns the in-memory state of one board view: loading it from
// the backend, partitioning tasks into the fixed columns, and applying drag
// moves optimistically with a full reload when the remote update fails.
//
// All mutation happens on the Reconciler's actor goroutine. Remote calls run
// concurrently and post their results back to the actor, so a drag never
// waits on the network and the last completed fetch wins.
package board
