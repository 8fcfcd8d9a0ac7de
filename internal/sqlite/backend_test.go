package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kanban/pkg/types"
)

// setupBackend attaches a backend to a fresh temp dir and detaches it when
// the test ends.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(types.NewConfig(t.TempDir())))
	t.Cleanup(func() { b.Detach() })
	return b
}

func getTable(t *testing.T, b *Backend, name string) types.Table {
	t.Helper()
	table, err := b.GetTable(name)
	require.NoError(t, err)
	return table
}

func TestBackend_Attach(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	b := NewBackend()
	config := types.NewConfig(dir)

	require.NoError(t, b.Attach(config))
	defer b.Detach()

	_, err := os.Stat(filepath.Join(dir, DBFileName))
	assert.NoError(t, err, "database file should be created")
	assert.Equal(t, dir, b.DataDir())

	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)
}

func TestBackend_AttachInvalidConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.NewConfig(t.TempDir())))
	boards, err := b.GetTable(types.BoardsTable)
	require.NoError(t, err)

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach should not error")

	_, err = b.GetTable(types.BoardsTable)
	assert.ErrorIs(t, err, types.ErrStoreDetached)

	_, err = boards.Fetch(nil)
	assert.ErrorIs(t, err, types.ErrStoreDetached, "stale accessor should fail after detach")
}

func TestBackend_GetTable(t *testing.T) {
	b := setupBackend(t)

	for _, name := range types.StandardTableNames {
		t.Run(name, func(t *testing.T) {
			table, err := b.GetTable(name)
			require.NoError(t, err)
			assert.NotNil(t, table)
		})
	}

	_, err := b.GetTable("archive")
	assert.ErrorIs(t, err, types.ErrTableNotFound)
}

func TestBackend_Reattach(t *testing.T) {
	dir := t.TempDir()
	config := types.NewConfig(dir)

	b := NewBackend()
	require.NoError(t, b.Attach(config))
	_, err := getTable(t, b, types.BoardsTable).Set("b1", &types.Board{Name: "Kept"})
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	b2 := NewBackend()
	require.NoError(t, b2.Attach(config))
	defer b2.Detach()
	got, err := getTable(t, b2, types.BoardsTable).Get("b1")
	require.NoError(t, err)
	assert.Equal(t, "Kept", got.(*types.Board).Name)
}
