package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/mesh-intelligence/kanban/pkg/types"
)

// Compile-time interface check: columnsTable must implement Table.
var _ types.Table = (*columnsTable)(nil)

// columnsTable stores per-column settings keyed by status. Entities are
// *types.Column; the title always comes from the catalog.
type columnsTable struct {
	backend *Backend
}

// Get returns the stored settings for a column.
// Returns ErrNotFound when the column has never been saved.
func (ct *columnsTable) Get(id string) (any, error) {
	status, err := types.ParseStatus(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidID, err)
	}
	db, err := ct.backend.conn()
	if err != nil {
		return nil, err
	}

	var doneRule string
	var wip sql.NullInt64
	err = db.QueryRow("SELECT done_rule, wip_limit FROM columns WHERE column_id = ?", id).Scan(&doneRule, &wip)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting column %s: %w", id, err)
	}
	return hydrateColumn(status, doneRule, wip), nil
}

// Set upserts a column's settings. The id must be a catalog status; a nil
// WIPLimit is stored as NULL.
func (ct *columnsTable) Set(id string, data any) (string, error) {
	col, ok := data.(*types.Column)
	if !ok {
		return "", types.ErrInvalidData
	}
	if id == "" {
		id = string(col.ID)
	}
	if _, err := types.ParseStatus(id); err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrInvalidID, err)
	}
	if col.WIPLimit != nil && *col.WIPLimit < 0 {
		return "", types.ErrInvalidWIPLimit
	}
	db, err := ct.backend.conn()
	if err != nil {
		return "", err
	}

	var wip any
	if col.WIPLimit != nil {
		wip = *col.WIPLimit
	}
	_, err = db.Exec(
		`INSERT INTO columns (column_id, done_rule, wip_limit, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(column_id) DO UPDATE SET
		   done_rule = excluded.done_rule,
		   wip_limit = excluded.wip_limit,
		   updated_at = excluded.updated_at`,
		id, col.DoneRule, wip, now(),
	)
	if err != nil {
		return "", fmt.Errorf("persisting column %s: %w", id, err)
	}
	return id, nil
}

// Delete resets a column to catalog defaults by removing its row.
func (ct *columnsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	db, err := ct.backend.conn()
	if err != nil {
		return err
	}
	res, err := db.Exec("DELETE FROM columns WHERE column_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting column: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Fetch returns every stored column in catalog order. Rows whose id is not
// a catalog status are skipped. Filters are not supported.
func (ct *columnsTable) Fetch(filter types.Filter) ([]any, error) {
	if len(filter) > 0 {
		return nil, types.ErrInvalidFilter
	}
	db, err := ct.backend.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT column_id, done_rule, wip_limit FROM columns")
	if err != nil {
		return nil, fmt.Errorf("fetching columns: %w", err)
	}
	defer rows.Close()

	var cols []*types.Column
	for rows.Next() {
		var id, doneRule string
		var wip sql.NullInt64
		if err := rows.Scan(&id, &doneRule, &wip); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		status := types.Status(id)
		if !status.Valid() {
			continue
		}
		cols = append(cols, hydrateColumn(status, doneRule, wip))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating columns: %w", err)
	}

	sort.Slice(cols, func(i, j int) bool { return cols[i].ID.Ordinal() < cols[j].ID.Ordinal() })
	results := make([]any, len(cols))
	for i, c := range cols {
		results[i] = c
	}
	return results, nil
}

func hydrateColumn(status types.Status, doneRule string, wip sql.NullInt64) *types.Column {
	col := &types.Column{ID: status, Title: string(status), DoneRule: doneRule}
	if wip.Valid {
		col.WIPLimit = types.IntPtr(int(wip.Int64))
	}
	return col
}

// LoadColumns returns the full catalog with any stored settings applied.
func LoadColumns(c types.Store) ([]types.Column, error) {
	table, err := c.GetTable(types.ColumnsTable)
	if err != nil {
		return nil, err
	}
	stored, err := table.Fetch(nil)
	if err != nil {
		return nil, err
	}
	cols := types.DefaultColumns()
	for _, e := range stored {
		col := e.(*types.Column)
		cols[col.ID.Ordinal()] = *col
	}
	return cols, nil
}
