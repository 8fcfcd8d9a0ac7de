// Package settings implements the column settings editor: a modal form that
// stages a column's done rule and WIP limit as text and commits both fields
// together through a host-provided callback.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/kanban/pkg/types"
)

// ErrEditorClosed is returned when the form is edited or saved while no
// column is open.
var ErrEditorClosed = errors.New("column settings editor is not open")

// SaveFunc receives the committed patch for a column. Its error is passed
// back to the caller of Save; the editor closes either way.
type SaveFunc func(columnID types.Status, patch types.ColumnPatch) error

// Editor holds the staged form fields for one column at a time.
type Editor struct {
	onSave SaveFunc

	open     bool
	column   types.Column
	doneRule string
	wipLimit string
}

// NewEditor returns a closed editor that commits through onSave.
func NewEditor(onSave SaveFunc) *Editor {
	return &Editor{onSave: onSave}
}

// Open stages the column's current values. An absent or zero WIP limit is
// shown as empty text rather than "0".
func (e *Editor) Open(col types.Column) {
	e.open = true
	e.column = col
	e.doneRule = col.DoneRule
	e.wipLimit = ""
	if col.WIPLimit != nil && *col.WIPLimit != 0 {
		e.wipLimit = strconv.Itoa(*col.WIPLimit)
	}
}

// IsOpen reports whether a column is being edited.
func (e *Editor) IsOpen() bool { return e.open }

// Column returns the column being edited.
func (e *Editor) Column() types.Column { return e.column }

// DoneRule returns the staged done rule.
func (e *Editor) DoneRule() string { return e.doneRule }

// WIPLimit returns the staged WIP limit text.
func (e *Editor) WIPLimit() string { return e.wipLimit }

// SetDoneRule stages a new done rule.
func (e *Editor) SetDoneRule(text string) error {
	if !e.open {
		return ErrEditorClosed
	}
	e.doneRule = text
	return nil
}

// SetWIPLimit stages new WIP limit text. The text is only parsed on Save.
func (e *Editor) SetWIPLimit(text string) error {
	if !e.open {
		return ErrEditorClosed
	}
	e.wipLimit = text
	return nil
}

// Save parses the staged WIP limit, hands both fields to the save callback
// and closes the editor. Text that is not a non-negative integer is rejected
// before the callback runs and leaves the editor open.
func (e *Editor) Save() error {
	if !e.open {
		return ErrEditorClosed
	}
	limit, err := ParseWIPLimit(e.wipLimit)
	if err != nil {
		return err
	}
	patch := types.ColumnPatch{DoneRule: e.doneRule, WIPLimit: limit}
	id := e.column.ID

	e.Cancel()
	if e.onSave == nil {
		return nil
	}
	if err := e.onSave(id, patch); err != nil {
		return fmt.Errorf("save column %s: %w", id, err)
	}
	return nil
}

// Cancel closes the editor without saving and discards the staged fields.
func (e *Editor) Cancel() {
	e.open = false
	e.column = types.Column{}
	e.doneRule = ""
	e.wipLimit = ""
}

// ParseWIPLimit converts form text to a WIP limit. Empty text and zero both
// mean no limit and yield nil.
func ParseWIPLimit(text string) (*int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidWIPLimit, text)
	}
	if n == 0 {
		return nil, nil
	}
	return &n, nil
}
