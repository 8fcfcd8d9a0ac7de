package sqlite

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/kanban/internal/jsonl"
	"github.com/mesh-intelligence/kanban/pkg/types"
)

// DemoBoardID is the ID of the board SeedDemoBoard creates.
const DemoBoardID = "demo"

// demoTasks is one task per column plus a second task in the active
// implementation column so reorders have something to work with.
var demoTasks = []types.Task{
	{Title: "Collect feature requests", Status: types.StatusBacklog},
	{Title: "Triage incoming bugs", Status: types.StatusToDo},
	{Title: "Write board API contract", Status: types.StatusSpecificationActive},
	{Title: "Define column catalog", Status: types.StatusSpecificationDone},
	{Title: "Implement drag handling", Status: types.StatusImplementationActive},
	{Title: "Implement settings dialog", Status: types.StatusImplementationActive},
	{Title: "Wire API client", Status: types.StatusImplementationDone},
	{Title: "Exercise rollback path", Status: types.StatusTest},
	{Title: "Project skeleton", Status: types.StatusDone},
}

// SeedDemoBoard creates the demo board when no boards exist yet.
// Returns true when the board was created.
func SeedDemoBoard(c types.Store) (bool, error) {
	table, err := c.GetTable(types.BoardsTable)
	if err != nil {
		return false, err
	}
	existing, err := table.Fetch(nil)
	if err != nil {
		return false, fmt.Errorf("checking existing boards: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	tasks := make([]types.Task, len(demoTasks))
	copy(tasks, demoTasks)
	board := &types.Board{Name: "Demo board", Tasks: tasks}
	if _, err := table.Set(DemoBoardID, board); err != nil {
		return false, fmt.Errorf("seeding demo board: %w", err)
	}
	return true, nil
}

// ImportBoard replaces the tasks of boardID with the tasks read from a JSONL
// file, one task object per line, creating the board if needed. Tasks with
// statuses outside the catalog are rejected so the server never stores them.
func ImportBoard(c types.Store, boardID, name, path string) (int, error) {
	if boardID == "" {
		return 0, types.ErrInvalidID
	}
	tasks, err := jsonl.Decode[types.Task](path)
	if err != nil {
		return 0, fmt.Errorf("reading tasks: %w", err)
	}
	for i, task := range tasks {
		if !task.Status.Valid() {
			return 0, fmt.Errorf("task %d (%s): %w: %q", i+1, task.Title, types.ErrInvalidStatus, task.Status)
		}
	}

	table, err := c.GetTable(types.BoardsTable)
	if err != nil {
		return 0, err
	}
	if name == "" {
		name = boardID
		if got, err := table.Get(boardID); err == nil {
			name = got.(*types.Board).Name
		} else if !errors.Is(err, types.ErrNotFound) {
			return 0, err
		}
	}

	if _, err := table.Set(boardID, &types.Board{Name: name, Tasks: tasks}); err != nil {
		return 0, fmt.Errorf("importing board %s: %w", boardID, err)
	}
	return len(tasks), nil
}
