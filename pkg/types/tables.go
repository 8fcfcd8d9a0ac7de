package types

// Standard table names for Store.GetTable.
const (
	BoardsTable  = "boards"
	TasksTable   = "tasks"
	ColumnsTable = "columns"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	BoardsTable,
	TasksTable,
	ColumnsTable,
}
