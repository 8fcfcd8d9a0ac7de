package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/kanban/pkg/types"
)

// LoadFailedMessage is the user-facing text for a failed board fetch.
const LoadFailedMessage = "Failed to load board data. Please try again."

// Reconciler errors.
var (
	ErrClosed  = errors.New("reconciler is closed")
	ErrNoBoard = errors.New("board is not loaded")
)

// BoardAPI is the remote backend the reconciler talks to. Any error is
// treated the same way; no failure classes are distinguished.
type BoardAPI interface {
	GetBoard(ctx context.Context, boardID string) (*types.Board, error)
	UpdateTask(ctx context.Context, boardID, taskID string, patch types.TaskPatch) (*types.Task, error)
}

// LoadError records a failed fetch. Message is what the view shows.
type LoadError struct {
	BoardID string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load board %s: %v", e.BoardID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Message returns the user-facing description.
func (e *LoadError) Message() string { return LoadFailedMessage }

// Snapshot is a copy of the view state at one point in time.
type Snapshot struct {
	Board   *types.Board
	Loading bool
	Err     error
}

// Partition groups the snapshot's tasks by column. A snapshot without a
// board yields empty buckets.
func (s Snapshot) Partition() Partition {
	if s.Board == nil {
		return PartitionTasks(nil)
	}
	return PartitionTasks(s.Board.Tasks)
}

// state is owned by the actor goroutine.
type state struct {
	board    *types.Board
	inflight int // Fetches started and not yet completed.
	err      error
}

// Reconciler holds one board view. All state changes run on a single actor
// goroutine; remote calls run on their own goroutines and post results back.
type Reconciler struct {
	boardID string
	api     BoardAPI
	log     logrus.FieldLogger

	ctx    context.Context
	cancel context.CancelFunc

	cmds      chan func(*state)
	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
	calls     sync.WaitGroup

	st state
}

// New creates a reconciler for boardID and starts its actor. The board is not
// fetched until Load is called. Call Close to tear it down.
func New(boardID string, api BoardAPI, log logrus.FieldLogger) *Reconciler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Reconciler{
		boardID: boardID,
		api:     api,
		log:     log.WithField("board", boardID),
		ctx:     ctx,
		cancel:  cancel,
		cmds:    make(chan func(*state)),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go r.run()
	return r
}

// BoardID returns the board this reconciler views.
func (r *Reconciler) BoardID() string { return r.boardID }

func (r *Reconciler) run() {
	defer close(r.stopped)
	for {
		select {
		case fn := <-r.cmds:
			select {
			case <-r.quit:
				return
			default:
			}
			fn(&r.st)
		case <-r.quit:
			return
		}
	}
}

// post hands fn to the actor. It returns false once the reconciler is closed,
// in which case fn never runs.
func (r *Reconciler) post(fn func(*state)) bool {
	select {
	case <-r.quit:
		return false
	default:
	}
	select {
	case r.cmds <- fn:
		return true
	case <-r.quit:
		return false
	}
}

// await waits for the reply to a posted command. It reports false when the
// actor stopped without running the command, which happens when Close wins
// the race against a command already handed off.
func await[T any](r *Reconciler, reply <-chan T) (T, bool) {
	select {
	case v := <-reply:
		return v, true
	case <-r.stopped:
		// Replies are buffered and sent on the actor, so one that exists was
		// sent before stopped closed.
		select {
		case v := <-reply:
			return v, true
		default:
			var zero T
			return zero, false
		}
	}
}

// Close stops the actor and cancels in-flight requests. Results that arrive
// afterwards are discarded without touching state. Close is idempotent.
func (r *Reconciler) Close() {
	r.closeOnce.Do(func() {
		close(r.quit)
		r.cancel()
		<-r.stopped
		r.calls.Wait()
	})
}

// Snapshot returns a copy of the current state.
func (r *Reconciler) Snapshot() (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if !r.post(func(st *state) {
		reply <- Snapshot{Board: st.board.Clone(), Loading: st.inflight > 0, Err: st.err}
	}) {
		return Snapshot{}, ErrClosed
	}
	snap, ok := await(r, reply)
	if !ok {
		return Snapshot{}, ErrClosed
	}
	return snap, nil
}

// Load fetches the board and waits for the result to be applied. On failure
// the previous board is kept, the error is recorded in the state as a
// *LoadError, and the same error is returned.
func (r *Reconciler) Load(ctx context.Context) error {
	done := make(chan error, 1)
	if !r.post(func(st *state) { r.startLoad(st, func(err error) { done <- err }) }) {
		return ErrClosed
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-r.quit:
		return ErrClosed
	}
}

// startLoad runs on the actor. onDone, when set, also runs on the actor once
// the fetch result has been applied.
func (r *Reconciler) startLoad(st *state, onDone func(error)) {
	st.inflight++
	st.err = nil
	r.log.Debug("fetching board")

	r.calls.Add(1)
	go func() {
		defer r.calls.Done()
		board, err := r.api.GetBoard(r.ctx, r.boardID)
		r.post(func(st *state) {
			st.inflight--
			if err != nil {
				loadErr := &LoadError{BoardID: r.boardID, Err: err}
				st.err = loadErr
				r.log.WithError(err).Error("error fetching board")
				if onDone != nil {
					onDone(loadErr)
				}
				return
			}
			st.board = board
			r.log.WithField("tasks", len(board.Tasks)).Debug("board loaded")
			if onDone != nil {
				onDone(nil)
			}
		})
	}()
}

// Drag applies a completed drag gesture. The optimistic state is in place
// when Drag returns; the returned Move settles once the remote update is
// confirmed or the board has been reloaded after a failure. Ignored events
// return an already settled Move in MoveIdle.
func (r *Reconciler) Drag(ev DragEvent) (*Move, error) {
	type reply struct {
		move *Move
		err  error
	}
	out := make(chan reply, 1)
	if !r.post(func(st *state) {
		m, err := r.applyDrag(st, ev)
		out <- reply{m, err}
	}) {
		return nil, ErrClosed
	}
	res, ok := await(r, out)
	if !ok {
		return nil, ErrClosed
	}
	return res.move, res.err
}

// applyDrag runs on the actor.
func (r *Reconciler) applyDrag(st *state, ev DragEvent) (*Move, error) {
	m := newMove(ev, r.quit)
	if ev.Ignored() {
		m.settle()
		return m, nil
	}
	if st.board == nil {
		return nil, ErrNoBoard
	}

	res, err := ApplyDrag(st.board.Tasks, ev)
	if err != nil {
		return nil, err
	}

	next := st.board.Clone()
	next.Tasks = res.Tasks
	st.board = next

	m.TaskID = res.Moved.ID
	m.From, m.To = res.From, res.To
	m.transition(MoveApplied)

	log := r.log.WithFields(logrus.Fields{
		"task": m.TaskID,
		"from": m.From,
		"to":   m.To,
	})

	if !res.StatusChanged() {
		m.transition(MoveConfirmed)
		m.settle()
		log.Debug("reordered within column")
		return m, nil
	}

	m.Remote = true
	log.Debug("task moved, sending status update")
	r.calls.Add(1)
	go func() {
		defer r.calls.Done()
		_, err := r.api.UpdateTask(r.ctx, r.boardID, res.Moved.ID, types.TaskPatch{Status: res.Moved.Status})
		r.post(func(st *state) {
			if err == nil {
				m.transition(MoveConfirmed)
				m.settle()
				return
			}
			log.WithError(err).Error("error updating task, reloading board")
			m.mu.Lock()
			m.updateErr = err
			m.mu.Unlock()
			r.startLoad(st, func(reloadErr error) {
				m.mu.Lock()
				m.reloadErr = reloadErr
				m.mu.Unlock()
				m.transition(MoveRolledBack)
				m.settle()
			})
		})
	}()
	return m, nil
}
