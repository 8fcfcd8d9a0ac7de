package jsonl

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kanban/pkg/types"
)

func TestReadSkipsBlankAndMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.jsonl")
	content := `{"_id":"t1","title":"A","status":"To Do"}

not json
{"_id":"t2","title":"B","status":"Done"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeDecodeTasks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.jsonl")
	tasks := []types.Task{
		{ID: "t1", Title: "A", Status: types.StatusToDo},
		{ID: "t2", Title: "B", Status: "Archived"},
	}

	require.NoError(t, Encode(path, tasks))

	got, err := Decode[types.Task](path)
	require.NoError(t, err)
	assert.Equal(t, tasks, got)
}

func TestWriteReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	require.NoError(t, Write(path, []json.RawMessage{json.RawMessage(`{"a":1}`)}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is renamed away")
}

func TestWriteEmptyRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jsonl")
	require.NoError(t, Write(path, nil))

	records, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDecodeTypeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"_id":7}`+"\n"), 0o644))

	_, err := Decode[types.Task](path)
	assert.Error(t, err)
}
