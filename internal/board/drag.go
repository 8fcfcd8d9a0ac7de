package board

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/kanban/pkg/types"
)

// ErrInvalidDrag is returned when a drag event does not address a task on
// the current board.
var ErrInvalidDrag = errors.New("invalid drag")

// Location is a position inside a column.
type Location struct {
	Column types.Status `json:"column"`
	Index  int          `json:"index"`
}

// DragEvent describes one completed drag gesture. Destination is nil when
// the task was dropped outside any column. TaskID is optional; when set it
// must name the task found at Source.
type DragEvent struct {
	TaskID      string    `json:"taskId,omitempty"`
	Source      Location  `json:"source"`
	Destination *Location `json:"destination,omitempty"`
}

// Ignored reports whether the event leaves the board untouched: no drop
// target, or dropped back onto its own position.
func (ev DragEvent) Ignored() bool {
	return ev.Destination == nil || *ev.Destination == ev.Source
}

// DragResult is the outcome of applying a drag to a task collection.
type DragResult struct {
	Tasks   []types.Task // New collection; the input when Applied is false.
	Moved   types.Task   // The dragged task with its new status.
	From    types.Status
	To      types.Status
	Applied bool
}

// StatusChanged reports whether the move crossed columns and so needs a
// remote status update.
func (r DragResult) StatusChanged() bool {
	return r.Applied && r.From != r.To
}

// ApplyDrag computes the task collection after a drag. The input slice is
// never modified.
//
// The collection is split into the source bucket, the destination bucket and
// everything else. The dragged task is removed from the source bucket, takes
// the destination status when the column changes, and is inserted into the
// destination bucket. For a reorder inside one column the destination bucket
// is the source bucket after removal. The result is others, then source,
// then destination; there is no global order across buckets.
func ApplyDrag(tasks []types.Task, ev DragEvent) (DragResult, error) {
	if ev.Ignored() {
		return DragResult{Tasks: tasks}, nil
	}
	src, dst := ev.Source, *ev.Destination

	if !src.Column.Valid() {
		return DragResult{}, fmt.Errorf("%w: unknown source column %q", ErrInvalidDrag, src.Column)
	}
	if !dst.Column.Valid() {
		return DragResult{}, fmt.Errorf("%w: unknown destination column %q", ErrInvalidDrag, dst.Column)
	}
	if dst.Index < 0 {
		return DragResult{}, fmt.Errorf("%w: negative destination index %d", ErrInvalidDrag, dst.Index)
	}

	srcTasks := bucket(tasks, src.Column)
	if src.Index < 0 || src.Index >= len(srcTasks) {
		return DragResult{}, fmt.Errorf("%w: source index %d out of range for %q (%d tasks)",
			ErrInvalidDrag, src.Index, src.Column, len(srcTasks))
	}
	moved := srcTasks[src.Index]
	if ev.TaskID != "" && moved.ID != ev.TaskID {
		return DragResult{}, fmt.Errorf("%w: task at %q[%d] is %s, not %s",
			ErrInvalidDrag, src.Column, src.Index, moved.ID, ev.TaskID)
	}
	srcTasks = removeAt(srcTasks, src.Index)

	sameColumn := src.Column == dst.Column
	if !sameColumn {
		moved.Status = dst.Column
	}

	var dstTasks []types.Task
	if sameColumn {
		dstTasks = srcTasks
	} else {
		dstTasks = bucket(tasks, dst.Column)
	}
	dstTasks = insertAt(dstTasks, dst.Index, moved)

	next := make([]types.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != src.Column && t.Status != dst.Column {
			next = append(next, t)
		}
	}
	if !sameColumn {
		next = append(next, srcTasks...)
	}
	next = append(next, dstTasks...)

	return DragResult{
		Tasks:   next,
		Moved:   moved,
		From:    src.Column,
		To:      dst.Column,
		Applied: true,
	}, nil
}

func removeAt(tasks []types.Task, i int) []types.Task {
	out := make([]types.Task, 0, len(tasks)-1)
	out = append(out, tasks[:i]...)
	return append(out, tasks[i+1:]...)
}

// insertAt places t at index i, appending when i is past the end.
func insertAt(tasks []types.Task, i int, t types.Task) []types.Task {
	if i > len(tasks) {
		i = len(tasks)
	}
	out := make([]types.Task, 0, len(tasks)+1)
	out = append(out, tasks[:i]...)
	out = append(out, t)
	return append(out, tasks[i:]...)
}
