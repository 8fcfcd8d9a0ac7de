package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kanban/pkg/types"
)

func TestColumnsTable_SetGet(t *testing.T) {
	b := setupBackend(t)
	cols := getTable(t, b, types.ColumnsTable)

	tests := []struct {
		name string
		col  *types.Column
	}{
		{"with limit", &types.Column{DoneRule: "reviewed", WIPLimit: types.IntPtr(3)}},
		{"no limit", &types.Column{DoneRule: "merged"}},
		{"cleared rule", &types.Column{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := cols.Set(string(types.StatusTest), tt.col)
			require.NoError(t, err)
			assert.Equal(t, string(types.StatusTest), id)

			got, err := cols.Get(id)
			require.NoError(t, err)
			stored := got.(*types.Column)
			assert.Equal(t, types.StatusTest, stored.ID)
			assert.Equal(t, "Test", stored.Title)
			assert.Equal(t, tt.col.DoneRule, stored.DoneRule)
			assert.Equal(t, tt.col.WIPLimit, stored.WIPLimit)
		})
	}
}

func TestColumnsTable_SetUsesColumnID(t *testing.T) {
	b := setupBackend(t)
	cols := getTable(t, b, types.ColumnsTable)

	id, err := cols.Set("", &types.Column{ID: types.StatusDone, DoneRule: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, "Done", id)
}

func TestColumnsTable_Errors(t *testing.T) {
	b := setupBackend(t)
	cols := getTable(t, b, types.ColumnsTable)

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{"get unknown column", func() error { _, err := cols.Get("Review"); return err }, types.ErrInvalidID},
		{"get never saved", func() error { _, err := cols.Get("Done"); return err }, types.ErrNotFound},
		{"set wrong type", func() error { _, err := cols.Set("Done", &types.Board{}); return err }, types.ErrInvalidData},
		{"set unknown column", func() error { _, err := cols.Set("Review", &types.Column{}); return err }, types.ErrInvalidID},
		{"set negative limit", func() error {
			_, err := cols.Set("Done", &types.Column{WIPLimit: types.IntPtr(-1)})
			return err
		}, types.ErrInvalidWIPLimit},
		{"delete missing", func() error { return cols.Delete("Done") }, types.ErrNotFound},
		{"fetch with filter", func() error { _, err := cols.Fetch(types.Filter{"id": "Done"}); return err }, types.ErrInvalidFilter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.wantErr)
		})
	}
}

func TestColumnsTable_FetchCatalogOrder(t *testing.T) {
	b := setupBackend(t)
	cols := getTable(t, b, types.ColumnsTable)

	for _, s := range []types.Status{types.StatusDone, types.StatusBacklog, types.StatusTest} {
		_, err := cols.Set(string(s), &types.Column{DoneRule: "rule " + string(s)})
		require.NoError(t, err)
	}

	got, err := cols.Fetch(nil)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, types.StatusBacklog, got[0].(*types.Column).ID)
	assert.Equal(t, types.StatusTest, got[1].(*types.Column).ID)
	assert.Equal(t, types.StatusDone, got[2].(*types.Column).ID)
}

func TestLoadColumns(t *testing.T) {
	b := setupBackend(t)
	cols := getTable(t, b, types.ColumnsTable)
	_, err := cols.Set(string(types.StatusToDo), &types.Column{DoneRule: "groomed", WIPLimit: types.IntPtr(5)})
	require.NoError(t, err)

	loaded, err := LoadColumns(b)
	require.NoError(t, err)
	require.Len(t, loaded, len(types.Catalog()))
	assert.Equal(t, types.StatusBacklog, loaded[0].ID)
	assert.Nil(t, loaded[0].WIPLimit)
	assert.Equal(t, types.StatusToDo, loaded[1].ID)
	assert.Equal(t, "groomed", loaded[1].DoneRule)
	assert.Equal(t, types.IntPtr(5), loaded[1].WIPLimit)

	require.NoError(t, cols.Delete(string(types.StatusToDo)))
	loaded, err = LoadColumns(b)
	require.NoError(t, err)
	assert.Empty(t, loaded[1].DoneRule)
}
