package types

// Column is the presentation-side view of a workflow stage: its catalog
// identity plus the locally edited done rule and WIP limit.
type Column struct {
	ID       Status `json:"id"`
	Title    string `json:"title"`
	DoneRule string `json:"doneRule,omitempty"`
	WIPLimit *int   `json:"wipLimit"` // nil means no limit.
}

// ColumnPatch carries both editable column fields. The editor commits them
// together; WIPLimit nil means no limit.
type ColumnPatch struct {
	DoneRule string `json:"doneRule"`
	WIPLimit *int   `json:"wipLimit"`
}

// Apply returns a copy of c with the patch applied.
func (c Column) Apply(p ColumnPatch) Column {
	c.DoneRule = p.DoneRule
	c.WIPLimit = nil
	if p.WIPLimit != nil {
		v := *p.WIPLimit
		c.WIPLimit = &v
	}
	return c
}

// OverLimit reports whether count exceeds the column's WIP limit. The limit
// is advisory; nothing blocks a move into a full column.
func (c Column) OverLimit(count int) bool {
	return c.WIPLimit != nil && count > *c.WIPLimit
}

// DefaultColumns returns the catalog as columns with no settings.
func DefaultColumns() []Column {
	defs := Catalog()
	cols := make([]Column, len(defs))
	for i, d := range defs {
		cols[i] = Column{ID: d.ID, Title: d.Title}
	}
	return cols
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
