package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/kanban/pkg/types"
)

// Compile-time interface check: tasksTable must implement Table.
var _ types.Table = (*tasksTable)(nil)

// tasksTable stores tasks. Entities are *types.TaskRecord.
type tasksTable struct {
	backend *Backend
}

// Get retrieves a task by ID.
func (tt *tasksTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := tt.backend.conn()
	if err != nil {
		return nil, err
	}
	recs, err := queryTasks(db, "WHERE task_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	if len(recs) == 0 {
		return nil, types.ErrNotFound
	}
	return recs[0], nil
}

// Set creates or updates a task. A new task (empty id) is appended after the
// last task of its board. An update keeps the stored position when the
// record's Position is negative, so a status change never reorders the board.
func (tt *tasksTable) Set(id string, data any) (string, error) {
	rec, ok := data.(*types.TaskRecord)
	if !ok {
		return "", types.ErrInvalidData
	}
	if rec.Title == "" {
		return "", types.ErrInvalidName
	}
	if rec.BoardID == "" {
		return "", fmt.Errorf("%w: task has no board", types.ErrInvalidData)
	}
	db, err := tt.backend.conn()
	if err != nil {
		return "", err
	}

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRow("SELECT 1 FROM boards WHERE board_id = ?", rec.BoardID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("board %s: %w", rec.BoardID, types.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("checking board existence: %w", err)
	}

	var stored int
	err = tx.QueryRow("SELECT position FROM tasks WHERE task_id = ?", id).Scan(&stored)
	exists := err == nil
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("checking task existence: %w", err)
	}

	if id == "" {
		id = newUUID()
	}
	rec.ID = id

	switch {
	case exists && rec.Position < 0:
		rec.Position = stored
	case !exists:
		var next int
		if err := tx.QueryRow(
			"SELECT COALESCE(MAX(position) + 1, 0) FROM tasks WHERE board_id = ?", rec.BoardID,
		).Scan(&next); err != nil {
			return "", fmt.Errorf("computing task position: %w", err)
		}
		rec.Position = next
	}

	_, err = tx.Exec(
		`INSERT INTO tasks (task_id, board_id, title, status, position, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(task_id) DO UPDATE SET
		   board_id = excluded.board_id,
		   title = excluded.title,
		   status = excluded.status,
		   position = excluded.position,
		   updated_at = excluded.updated_at`,
		id, rec.BoardID, rec.Title, string(rec.Status), rec.Position, now(),
	)
	if err != nil {
		return "", fmt.Errorf("persisting task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing task: %w", err)
	}
	return id, nil
}

// Delete removes a task.
func (tt *tasksTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := tt.backend.conn()
	if err != nil {
		return err
	}
	res, err := db.Exec("DELETE FROM tasks WHERE task_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Fetch returns tasks in board position order. Supported filter keys are
// "board_id" (string) and "statuses" ([]types.Status).
func (tt *tasksTable) Fetch(filter types.Filter) ([]any, error) {
	db, err := tt.backend.conn()
	if err != nil {
		return nil, err
	}

	var conditions []string
	var args []any
	if v, ok := filter["board_id"]; ok {
		boardID, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "board_id = ?")
		args = append(args, boardID)
	}
	if v, ok := filter["statuses"]; ok {
		statuses, ok := v.([]types.Status)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		if len(statuses) > 0 {
			placeholders := make([]string, len(statuses))
			for i, s := range statuses {
				placeholders[i] = "?"
				args = append(args, string(s))
			}
			conditions = append(conditions, "status IN ("+strings.Join(placeholders, ", ")+")")
		}
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	recs, err := queryTasks(db, where, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}

	results := make([]any, len(recs))
	for i, r := range recs {
		results[i] = r
	}
	return results, nil
}

// queryTasks selects task rows with the given WHERE clause, ordered by board
// and position.
func queryTasks(db *sql.DB, where string, args ...any) ([]*types.TaskRecord, error) {
	query := "SELECT task_id, board_id, title, status, position FROM tasks " + where +
		" ORDER BY board_id ASC, position ASC"
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*types.TaskRecord
	for rows.Next() {
		var rec types.TaskRecord
		var status string
		if err := rows.Scan(&rec.ID, &rec.BoardID, &rec.Title, &status, &rec.Position); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		rec.Status = types.Status(status)
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return out, nil
}
