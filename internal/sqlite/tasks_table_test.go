package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kanban/pkg/types"
)

func setupBoard(t *testing.T, b *Backend, id string, tasks ...types.Task) {
	t.Helper()
	if tasks == nil {
		tasks = []types.Task{}
	}
	_, err := getTable(t, b, types.BoardsTable).Set(id, &types.Board{Name: id, Tasks: tasks})
	require.NoError(t, err)
}

func TestTasksTable_SetAppends(t *testing.T) {
	b := setupBackend(t)
	setupBoard(t, b, "b1", types.Task{ID: "t1", Title: "a", Status: types.StatusBacklog})
	tasks := getTable(t, b, types.TasksTable)

	rec := &types.TaskRecord{Task: types.Task{Title: "b", Status: types.StatusToDo}, BoardID: "b1"}
	id, err := tasks.Set("", rec)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, rec.Position)

	got, err := tasks.Get(id)
	require.NoError(t, err)
	stored := got.(*types.TaskRecord)
	assert.Equal(t, "b", stored.Title)
	assert.Equal(t, "b1", stored.BoardID)
	assert.Equal(t, types.StatusToDo, stored.Status)
	assert.Equal(t, 1, stored.Position)
}

func TestTasksTable_StatusUpdateKeepsPosition(t *testing.T) {
	b := setupBackend(t)
	setupBoard(t, b, "b1",
		types.Task{ID: "t1", Title: "a", Status: types.StatusBacklog},
		types.Task{ID: "t2", Title: "b", Status: types.StatusBacklog},
		types.Task{ID: "t3", Title: "c", Status: types.StatusBacklog},
	)
	tasks := getTable(t, b, types.TasksTable)

	rec := &types.TaskRecord{Task: types.Task{Title: "a", Status: types.StatusDone}, BoardID: "b1", Position: -1}
	_, err := tasks.Set("t1", rec)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Position)

	got, err := getTable(t, b, types.BoardsTable).Get("b1")
	require.NoError(t, err)
	board := got.(*types.Board)
	require.Len(t, board.Tasks, 3)
	assert.Equal(t, "t1", board.Tasks[0].ID)
	assert.Equal(t, types.StatusDone, board.Tasks[0].Status)
}

func TestTasksTable_Errors(t *testing.T) {
	b := setupBackend(t)
	setupBoard(t, b, "b1")
	tasks := getTable(t, b, types.TasksTable)

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{"get empty id", func() error { _, err := tasks.Get(""); return err }, types.ErrInvalidID},
		{"get missing", func() error { _, err := tasks.Get("nope"); return err }, types.ErrNotFound},
		{"set wrong type", func() error { _, err := tasks.Set("", &types.Task{}); return err }, types.ErrInvalidData},
		{"set empty title", func() error {
			_, err := tasks.Set("", &types.TaskRecord{BoardID: "b1"})
			return err
		}, types.ErrInvalidName},
		{"set no board", func() error {
			_, err := tasks.Set("", &types.TaskRecord{Task: types.Task{Title: "x"}})
			return err
		}, types.ErrInvalidData},
		{"set unknown board", func() error {
			_, err := tasks.Set("", &types.TaskRecord{Task: types.Task{Title: "x"}, BoardID: "nope"})
			return err
		}, types.ErrNotFound},
		{"delete missing", func() error { return tasks.Delete("nope") }, types.ErrNotFound},
		{"fetch bad board filter", func() error { _, err := tasks.Fetch(types.Filter{"board_id": 1}); return err }, types.ErrInvalidFilter},
		{"fetch bad status filter", func() error { _, err := tasks.Fetch(types.Filter{"statuses": "Done"}); return err }, types.ErrInvalidFilter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.wantErr)
		})
	}
}

func TestTasksTable_Fetch(t *testing.T) {
	b := setupBackend(t)
	setupBoard(t, b, "b1",
		types.Task{ID: "t1", Title: "a", Status: types.StatusBacklog},
		types.Task{ID: "t2", Title: "b", Status: types.StatusDone},
		types.Task{ID: "t3", Title: "c", Status: types.StatusBacklog},
	)
	setupBoard(t, b, "b2", types.Task{ID: "t4", Title: "d", Status: types.StatusBacklog})
	tasks := getTable(t, b, types.TasksTable)

	tests := []struct {
		name    string
		filter  types.Filter
		wantIDs []string
	}{
		{"all", nil, []string{"t1", "t2", "t3", "t4"}},
		{"by board", types.Filter{"board_id": "b1"}, []string{"t1", "t2", "t3"}},
		{"by status", types.Filter{"statuses": []types.Status{types.StatusBacklog}}, []string{"t1", "t3", "t4"}},
		{"board and status", types.Filter{"board_id": "b1", "statuses": []types.Status{types.StatusDone}}, []string{"t2"}},
		{"empty status list", types.Filter{"statuses": []types.Status{}}, []string{"t1", "t2", "t3", "t4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tasks.Fetch(tt.filter)
			require.NoError(t, err)
			ids := make([]string, len(got))
			for i, e := range got {
				ids[i] = e.(*types.TaskRecord).ID
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestTasksTable_Delete(t *testing.T) {
	b := setupBackend(t)
	setupBoard(t, b, "b1", types.Task{ID: "t1", Title: "a", Status: types.StatusBacklog})
	tasks := getTable(t, b, types.TasksTable)

	require.NoError(t, tasks.Delete("t1"))
	_, err := tasks.Get("t1")
	assert.ErrorIs(t, err, types.ErrNotFound)
}
