package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/kanban/pkg/types"
)

// Compile-time interface check: boardsTable must implement Table.
var _ types.Table = (*boardsTable)(nil)

// boardsTable stores boards. Entities are *types.Board with their tasks
// hydrated in position order.
type boardsTable struct {
	backend *Backend
}

// Get retrieves a board and its tasks.
func (bt *boardsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, err := bt.backend.conn()
	if err != nil {
		return nil, err
	}

	board := &types.Board{ID: id}
	err = db.QueryRow("SELECT name FROM boards WHERE board_id = ?", id).Scan(&board.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting board %s: %w", id, err)
	}

	tasks, err := queryTasks(db, "WHERE board_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("hydrating tasks for board %s: %w", id, err)
	}
	board.Tasks = make([]types.Task, len(tasks))
	for i, rec := range tasks {
		board.Tasks[i] = rec.Task
	}
	return board, nil
}

// Set creates or updates a board. When id is empty a UUID v7 is generated.
// A non-nil Tasks slice replaces the board's tasks in the given order;
// tasks without an ID get one. A nil Tasks slice leaves tasks untouched.
func (bt *boardsTable) Set(id string, data any) (string, error) {
	board, ok := data.(*types.Board)
	if !ok {
		return "", types.ErrInvalidData
	}
	if board.Name == "" {
		return "", types.ErrInvalidName
	}
	db, err := bt.backend.conn()
	if err != nil {
		return "", err
	}

	if id == "" {
		id = newUUID()
	}
	board.ID = id
	ts := now()

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO boards (board_id, name, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(board_id) DO UPDATE SET name = excluded.name`,
		id, board.Name, ts,
	)
	if err != nil {
		return "", fmt.Errorf("persisting board: %w", err)
	}

	if board.Tasks != nil {
		if _, err := tx.Exec("DELETE FROM tasks WHERE board_id = ?", id); err != nil {
			return "", fmt.Errorf("clearing board tasks: %w", err)
		}
		for i := range board.Tasks {
			task := &board.Tasks[i]
			if task.ID == "" {
				task.ID = newUUID()
			}
			_, err := tx.Exec(
				"INSERT INTO tasks (task_id, board_id, title, status, position, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
				task.ID, id, task.Title, string(task.Status), i, ts,
			)
			if err != nil {
				return "", fmt.Errorf("inserting task %s: %w", task.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing board: %w", err)
	}
	return id, nil
}

// Delete removes a board; its tasks cascade.
func (bt *boardsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := bt.backend.conn()
	if err != nil {
		return err
	}
	res, err := db.Exec("DELETE FROM boards WHERE board_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting board: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Fetch returns boards ordered by name, without their tasks. The only
// supported filter key is "name".
func (bt *boardsTable) Fetch(filter types.Filter) ([]any, error) {
	db, err := bt.backend.conn()
	if err != nil {
		return nil, err
	}

	query := "SELECT board_id, name FROM boards"
	var args []any
	if v, ok := filter["name"]; ok {
		name, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		query += " WHERE name = ?"
		args = append(args, name)
	}
	query += " ORDER BY name ASC, board_id ASC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching boards: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		var b types.Board
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, fmt.Errorf("scanning board: %w", err)
		}
		results = append(results, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating boards: %w", err)
	}
	return results, nil
}
