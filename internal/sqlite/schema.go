// Package sqlite implements the SQLite storage backend for the kanban
// development server and the client's local column settings.
package sqlite

// Schema DDL for all tables. Statements are idempotent so a data directory
// survives restarts.
const (
	createBoards = `CREATE TABLE IF NOT EXISTS boards (
    board_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createTasks = `CREATE TABLE IF NOT EXISTS tasks (
    task_id TEXT PRIMARY KEY,
    board_id TEXT NOT NULL,
    title TEXT NOT NULL,
    status TEXT NOT NULL,
    position INTEGER NOT NULL,
    updated_at TEXT NOT NULL,
    FOREIGN KEY (board_id) REFERENCES boards(board_id) ON DELETE CASCADE
);`

	createColumns = `CREATE TABLE IF NOT EXISTS columns (
    column_id TEXT PRIMARY KEY,
    done_rule TEXT NOT NULL DEFAULT '',
    wip_limit INTEGER,
    updated_at TEXT NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxTasksBoard  = `CREATE INDEX IF NOT EXISTS idx_tasks_board ON tasks(board_id, position);`
	idxTasksStatus = `CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(board_id, status);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createBoards,
	createTasks,
	createColumns,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxTasksBoard,
	idxTasksStatus,
}
