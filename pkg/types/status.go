package types

import (
	"encoding/json"
	"fmt"
)

// Status is a task's workflow stage. The set of valid values is exactly the
// column catalog; a Status decoded from the backend may hold an unknown value,
// which Valid reports so callers can surface the task instead of hiding it.
type Status string

// Workflow stages in board order.
const (
	StatusBacklog              Status = "Backlog"
	StatusToDo                 Status = "To Do"
	StatusSpecificationActive  Status = "Specification Active"
	StatusSpecificationDone    Status = "Specification Done"
	StatusImplementationActive Status = "Implementation Active"
	StatusImplementationDone   Status = "Implementation Done"
	StatusTest                 Status = "Test"
	StatusDone                 Status = "Done"
)

// statuses lists every valid status in catalog order.
var statuses = []Status{
	StatusBacklog,
	StatusToDo,
	StatusSpecificationActive,
	StatusSpecificationDone,
	StatusImplementationActive,
	StatusImplementationDone,
	StatusTest,
	StatusDone,
}

// validStatuses is the set of recognized status values.
var validStatuses = func() map[Status]int {
	m := make(map[Status]int, len(statuses))
	for i, s := range statuses {
		m[s] = i
	}
	return m
}()

// Statuses returns the valid statuses in catalog order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

// Valid reports whether s is one of the catalog statuses.
func (s Status) Valid() bool {
	_, ok := validStatuses[s]
	return ok
}

// Ordinal returns the position of s in the catalog, or -1 when s is unknown.
func (s Status) Ordinal() int {
	if i, ok := validStatuses[s]; ok {
		return i
	}
	return -1
}

func (s Status) String() string { return string(s) }

// ParseStatus converts text to a Status.
// Returns ErrInvalidStatus if the text is not a catalog status.
func ParseStatus(text string) (Status, error) {
	s := Status(text)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, text)
	}
	return s, nil
}

// UnmarshalJSON keeps unknown values verbatim. Rejecting them here would make
// a single drifted task fail the whole board fetch.
func (s *Status) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("decoding status: %w", err)
	}
	*s = Status(text)
	return nil
}

// ColumnDef is one entry of the static column catalog.
type ColumnDef struct {
	ID    Status `json:"id"`
	Title string `json:"title"`
}

// Catalog returns the fixed, ordered column catalog. It does not depend on
// backend data.
func Catalog() []ColumnDef {
	defs := make([]ColumnDef, len(statuses))
	for i, s := range statuses {
		defs[i] = ColumnDef{ID: s, Title: string(s)}
	}
	return defs
}
