package settings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kanban/pkg/types"
)

type saved struct {
	id    types.Status
	patch types.ColumnPatch
	calls int
}

func recorder(s *saved) SaveFunc {
	return func(id types.Status, patch types.ColumnPatch) error {
		s.id = id
		s.patch = patch
		s.calls++
		return nil
	}
}

func TestEditorRoundTrip(t *testing.T) {
	var got saved
	e := NewEditor(recorder(&got))

	e.Open(types.Column{ID: types.StatusTest, Title: "Test", DoneRule: "x", WIPLimit: types.IntPtr(5)})
	assert.Equal(t, "x", e.DoneRule())
	assert.Equal(t, "5", e.WIPLimit())

	require.NoError(t, e.Save())

	assert.Equal(t, 1, got.calls)
	assert.Equal(t, types.StatusTest, got.id)
	require.NotNil(t, got.patch.WIPLimit)
	assert.Equal(t, types.ColumnPatch{DoneRule: "x", WIPLimit: types.IntPtr(5)}, got.patch)
	assert.False(t, e.IsOpen(), "save closes the editor")
}

func TestEditorEmptyLimitSavesNil(t *testing.T) {
	var got saved
	e := NewEditor(recorder(&got))

	e.Open(types.Column{ID: types.StatusBacklog, Title: "Backlog"})
	assert.Equal(t, "", e.DoneRule())
	assert.Equal(t, "", e.WIPLimit())

	require.NoError(t, e.Save())
	assert.Nil(t, got.patch.WIPLimit)
	assert.Equal(t, "", got.patch.DoneRule)
}

func TestEditorZeroLimitRendersEmpty(t *testing.T) {
	e := NewEditor(nil)
	e.Open(types.Column{ID: types.StatusDone, WIPLimit: types.IntPtr(0)})
	assert.Equal(t, "", e.WIPLimit())
}

func TestEditorStagesEdits(t *testing.T) {
	var got saved
	e := NewEditor(recorder(&got))
	e.Open(types.Column{ID: types.StatusImplementationActive, DoneRule: "old", WIPLimit: types.IntPtr(3)})

	require.NoError(t, e.SetDoneRule("code reviewed"))
	require.NoError(t, e.SetWIPLimit(" 4 "))
	assert.Zero(t, got.calls, "nothing is committed before save")

	require.NoError(t, e.Save())
	assert.Equal(t, types.ColumnPatch{DoneRule: "code reviewed", WIPLimit: types.IntPtr(4)}, got.patch)
}

func TestEditorClearingLimit(t *testing.T) {
	var got saved
	e := NewEditor(recorder(&got))
	e.Open(types.Column{ID: types.StatusTest, WIPLimit: types.IntPtr(2)})

	require.NoError(t, e.SetWIPLimit(""))
	require.NoError(t, e.Save())
	assert.Nil(t, got.patch.WIPLimit)
}

func TestEditorRejectsInvalidLimit(t *testing.T) {
	for _, text := range []string{"abc", "-1", "2.5"} {
		t.Run(text, func(t *testing.T) {
			var got saved
			e := NewEditor(recorder(&got))
			e.Open(types.Column{ID: types.StatusTest})
			require.NoError(t, e.SetWIPLimit(text))

			err := e.Save()
			assert.ErrorIs(t, err, types.ErrInvalidWIPLimit)
			assert.Zero(t, got.calls)
			assert.True(t, e.IsOpen(), "editor stays open for correction")
		})
	}
}

func TestEditorCancel(t *testing.T) {
	var got saved
	e := NewEditor(recorder(&got))
	e.Open(types.Column{ID: types.StatusTest, DoneRule: "x"})
	e.Cancel()

	assert.False(t, e.IsOpen())
	assert.ErrorIs(t, e.Save(), ErrEditorClosed)
	assert.ErrorIs(t, e.SetDoneRule("y"), ErrEditorClosed)
	assert.ErrorIs(t, e.SetWIPLimit("1"), ErrEditorClosed)
	assert.Zero(t, got.calls)
}

func TestEditorClosesWhenCallbackFails(t *testing.T) {
	boom := errors.New("disk full")
	e := NewEditor(func(types.Status, types.ColumnPatch) error { return boom })
	e.Open(types.Column{ID: types.StatusDone})

	err := e.Save()
	assert.ErrorIs(t, err, boom)
	assert.False(t, e.IsOpen())
}

func TestParseWIPLimit(t *testing.T) {
	tests := []struct {
		text    string
		want    *int
		wantErr bool
	}{
		{text: "", want: nil},
		{text: "   ", want: nil},
		{text: "0", want: nil},
		{text: "7", want: types.IntPtr(7)},
		{text: "x7", wantErr: true},
		{text: "-3", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseWIPLimit(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalidWIPLimit)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
