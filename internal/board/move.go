package board

import (
	"context"
	"sync"

	"github.com/mesh-intelligence/kanban/pkg/types"
)

// MoveState tracks one drag through its optimistic lifecycle.
type MoveState int

// Move states. Ignored drags stay in MoveIdle.
const (
	MoveIdle MoveState = iota
	MoveApplied
	MoveConfirmed
	MoveRolledBack
)

func (s MoveState) String() string {
	switch s {
	case MoveIdle:
		return "idle"
	case MoveApplied:
		return "applied"
	case MoveConfirmed:
		return "confirmed"
	case MoveRolledBack:
		return "rolled back"
	default:
		return "unknown"
	}
}

// legalTransitions lists the allowed successors of each state.
var legalTransitions = map[MoveState][]MoveState{
	MoveIdle:    {MoveApplied},
	MoveApplied: {MoveConfirmed, MoveRolledBack},
}

// Move is the handle returned for each drag. The reconciler's actor drives
// its state; callers observe it with State and Wait.
type Move struct {
	Event  DragEvent
	TaskID string
	From   types.Status
	To     types.Status
	Remote bool // A status update was sent to the backend.

	mu        sync.Mutex
	state     MoveState
	updateErr error
	reloadErr error
	done      chan struct{}
	closed    <-chan struct{}
}

func newMove(ev DragEvent, closed <-chan struct{}) *Move {
	return &Move{Event: ev, TaskID: ev.TaskID, done: make(chan struct{}), closed: closed}
}

// State returns the current state.
func (m *Move) State() MoveState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the remote update failure that caused a rollback, if any.
func (m *Move) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateErr
}

// ReloadErr returns the error of the corrective reload, if it also failed.
func (m *Move) ReloadErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reloadErr
}

// Settled reports whether the move has reached a final state.
func (m *Move) Settled() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the move settles. It returns ErrClosed when the
// reconciler is closed first.
func (m *Move) Wait(ctx context.Context) error {
	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-m.closed:
		select {
		case <-m.done:
			return nil
		default:
			return ErrClosed
		}
	}
}

// transition moves to next if the state machine allows it.
func (m *Move) transition(next MoveState) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range legalTransitions[m.state] {
		if s == next {
			m.state = next
			return true
		}
	}
	return false
}

// settle marks the move final and wakes waiters.
func (m *Move) settle() {
	close(m.done)
}
