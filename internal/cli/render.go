package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/mesh-intelligence/kanban/internal/board"
	"github.com/mesh-intelligence/kanban/pkg/types"
)

// columnView is one rendered column: its settings plus its tasks.
type columnView struct {
	types.Column
	Tasks     []types.Task `json:"tasks"`
	OverLimit bool         `json:"overLimit"`
}

// boardView is what board show prints.
type boardView struct {
	ID        string       `json:"_id"`
	Name      string       `json:"name"`
	Columns   []columnView `json:"columns"`
	Unmatched []types.Task `json:"unmatched,omitempty"`
}

func newBoardView(b *types.Board, p board.Partition, cols []types.Column) boardView {
	v := boardView{Unmatched: p.Unmatched}
	if b != nil {
		v.ID, v.Name = b.ID, b.Name
	}
	for i, bucket := range p.Columns {
		col := types.Column{ID: bucket.Column, Title: string(bucket.Column)}
		if i < len(cols) && cols[i].ID == bucket.Column {
			col = cols[i]
		}
		v.Columns = append(v.Columns, columnView{
			Column:    col,
			Tasks:     bucket.Tasks,
			OverLimit: col.OverLimit(len(bucket.Tasks)),
		})
	}
	return v
}

func (v boardView) render(w io.Writer) {
	fmt.Fprintf(w, "%s (%s)\n", v.Name, v.ID)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range v.Columns {
		fmt.Fprintf(tw, "\n%s\t%s\t%s\n", c.Title, countLabel(c), c.DoneRule)
		for _, t := range c.Tasks {
			fmt.Fprintf(tw, "  %s\t%s\t\n", t.ID, t.Title)
		}
	}
	if len(v.Unmatched) > 0 {
		fmt.Fprintf(tw, "\nUnmatched\t[%d]\t\n", len(v.Unmatched))
		for _, t := range v.Unmatched {
			fmt.Fprintf(tw, "  %s\t%s\t(status %q)\n", t.ID, t.Title, t.Status)
		}
	}
	tw.Flush()
}

// countLabel renders "[n]" or "[n/limit]", flagging a column over its limit.
func countLabel(c columnView) string {
	label := "[" + strconv.Itoa(len(c.Tasks))
	if c.WIPLimit != nil {
		label += "/" + strconv.Itoa(*c.WIPLimit)
	}
	label += "]"
	if c.OverLimit {
		label += " over limit"
	}
	return label
}
