package board

import "github.com/mesh-intelligence/kanban/pkg/types"

// Bucket is the ordered run of tasks that share one column status.
type Bucket struct {
	Column types.Status
	Tasks  []types.Task
}

// Partition groups a task collection by column. Columns follows catalog
// order and always has one bucket per catalog status, possibly empty.
// Tasks whose status is not in the catalog land in Unmatched rather than
// being dropped.
type Partition struct {
	Columns   []Bucket
	Unmatched []types.Task
}

// PartitionTasks splits tasks into catalog buckets, keeping each task's
// relative order from the input.
func PartitionTasks(tasks []types.Task) Partition {
	statuses := types.Statuses()
	p := Partition{Columns: make([]Bucket, len(statuses))}
	for i, s := range statuses {
		p.Columns[i] = Bucket{Column: s, Tasks: []types.Task{}}
	}
	for _, t := range tasks {
		i := t.Status.Ordinal()
		if i < 0 {
			p.Unmatched = append(p.Unmatched, t)
			continue
		}
		p.Columns[i].Tasks = append(p.Columns[i].Tasks, t)
	}
	return p
}

// Tasks returns the bucket for the given column, or nil for an unknown one.
func (p Partition) Tasks(column types.Status) []types.Task {
	i := column.Ordinal()
	if i < 0 || i >= len(p.Columns) {
		return nil
	}
	return p.Columns[i].Tasks
}

// Total counts every task in the partition, unmatched ones included.
func (p Partition) Total() int {
	n := len(p.Unmatched)
	for _, b := range p.Columns {
		n += len(b.Tasks)
	}
	return n
}

// Flatten concatenates the buckets in catalog order followed by the
// unmatched tasks.
func (p Partition) Flatten() []types.Task {
	out := make([]types.Task, 0, p.Total())
	for _, b := range p.Columns {
		out = append(out, b.Tasks...)
	}
	return append(out, p.Unmatched...)
}

// bucket returns a fresh slice of the tasks with the given status, in order.
func bucket(tasks []types.Task, column types.Status) []types.Task {
	var out []types.Task
	for _, t := range tasks {
		if t.Status == column {
			out = append(out, t)
		}
	}
	return out
}
