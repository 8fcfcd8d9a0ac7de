package types

// Board is a named collection of tasks, fetched and replaced as a whole.
// Task order is the backend's collection order; it is not a persisted
// ranking.
type Board struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Tasks []Task `json:"tasks"`
}

// Task is a single card on the board.
type Task struct {
	ID     string `json:"_id"`
	Title  string `json:"title"`
	Status Status `json:"status"`
}

// TaskPatch is the body of a remote task update. Only the status is sent.
type TaskPatch struct {
	Status Status `json:"status"`
}

// Clone returns a deep copy of the board. A nil board clones to nil.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	c := *b
	if b.Tasks != nil {
		c.Tasks = make([]Task, len(b.Tasks))
		copy(c.Tasks, b.Tasks)
	}
	return &c
}

// TaskIndex returns the index of the task with the given ID, or -1.
func (b *Board) TaskIndex(id string) int {
	for i := range b.Tasks {
		if b.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// TaskRecord is a task as the storage backend keeps it: the task plus the
// board it belongs to and its position in that board's collection order.
type TaskRecord struct {
	Task
	BoardID  string `json:"board_id"`
	Position int    `json:"position"`
}
