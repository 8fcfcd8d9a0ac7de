package board

import (
	"context"
	"errors"
	"sync"

	"github.com/mesh-intelligence/kanban/pkg/types"
)

var errBackend = errors.New("backend unavailable")

type updateCall struct {
	boardID string
	taskID  string
	patch   types.TaskPatch
}

// fakeAPI is an in-memory BoardAPI. The hooks, when set, replace the default
// behavior so tests can gate or fail individual calls.
type fakeAPI struct {
	mu      sync.Mutex
	board   *types.Board
	gets    int
	updates []updateCall

	getHook    func(ctx context.Context, call int) (*types.Board, error)
	updateHook func(ctx context.Context, call updateCall) error
}

func newFakeAPI(b *types.Board) *fakeAPI {
	return &fakeAPI{board: b}
}

func (f *fakeAPI) GetBoard(ctx context.Context, boardID string) (*types.Board, error) {
	f.mu.Lock()
	f.gets++
	call := f.gets
	hook := f.getHook
	board := f.board.Clone()
	f.mu.Unlock()

	if hook != nil {
		return hook(ctx, call)
	}
	return board, nil
}

func (f *fakeAPI) UpdateTask(ctx context.Context, boardID, taskID string, patch types.TaskPatch) (*types.Task, error) {
	call := updateCall{boardID: boardID, taskID: taskID, patch: patch}
	f.mu.Lock()
	f.updates = append(f.updates, call)
	hook := f.updateHook
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, call); err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.board.TaskIndex(taskID)
	if i < 0 {
		return nil, errors.New("task not found")
	}
	f.board.Tasks[i].Status = patch.Status
	t := f.board.Tasks[i]
	return &t, nil
}

func (f *fakeAPI) getCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets
}

func (f *fakeAPI) updateCalls() []updateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]updateCall, len(f.updates))
	copy(out, f.updates)
	return out
}
