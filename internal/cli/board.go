package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanban/internal/api"
	"github.com/mesh-intelligence/kanban/internal/board"
	"github.com/mesh-intelligence/kanban/internal/jsonl"
	"github.com/mesh-intelligence/kanban/internal/sqlite"
	"github.com/mesh-intelligence/kanban/pkg/types"
)

func newBoardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show boards and move tasks",
	}
	cmd.AddCommand(newBoardShowCmd(a))
	cmd.AddCommand(newBoardMoveCmd(a))
	cmd.AddCommand(newBoardExportCmd(a))
	return cmd
}

func newBoardShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <boardID>",
		Short: "Display a board grouped into columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openBoard(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			snap, err := r.Snapshot()
			if err != nil {
				return sysError("read board: %w", err)
			}
			cols, err := a.loadColumns()
			if err != nil {
				return err
			}
			view := newBoardView(snap.Board, snap.Partition(), cols)
			if a.flags.jsonMode {
				return writeJSON(cmd, view)
			}
			view.render(out(cmd))
			return nil
		},
	}
}

func newBoardMoveCmd(a *app) *cobra.Command {
	var to string
	var index int
	cmd := &cobra.Command{
		Use:   "move <boardID> <taskID>",
		Short: "Move a task to another column or position",
		Long: "Move a task to a column and position within it. The move is applied\n" +
			"locally first; a status change is then sent to the backend and the board\n" +
			"is reloaded if the backend rejects it.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := types.ParseStatus(to)
			if err != nil {
				return userError("%w", err)
			}
			return a.runMove(cmd, args[0], args[1], dest, index)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "destination column (status)")
	cmd.Flags().IntVar(&index, "index", -1, "position within the destination column (default: end)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// moveReport is the JSON output of board move.
type moveReport struct {
	TaskID string       `json:"taskId"`
	From   types.Status `json:"from"`
	To     types.Status `json:"to"`
	State  string       `json:"state"`
	Remote bool         `json:"remote"`
	Error  string       `json:"error,omitempty"`
}

func (a *app) runMove(cmd *cobra.Command, boardID, taskID string, dest types.Status, index int) error {
	ctx := cmd.Context()
	r, err := a.openBoard(ctx, boardID)
	if err != nil {
		return err
	}
	defer r.Close()

	snap, err := r.Snapshot()
	if err != nil {
		return sysError("read board: %w", err)
	}
	ev, err := dragFor(snap.Partition(), taskID, dest, index)
	if err != nil {
		return err
	}

	move, err := r.Drag(ev)
	if err != nil {
		return userError("move %s: %w", taskID, err)
	}
	waitCtx, cancel := context.WithTimeout(ctx, moveTimeout)
	defer cancel()
	if err := move.Wait(waitCtx); err != nil {
		return sysError("move %s: %w", taskID, err)
	}

	report := moveReport{
		TaskID: taskID,
		From:   ev.Source.Column,
		To:     dest,
		State:  move.State().String(),
		Remote: move.Remote,
	}
	if move.Err() != nil {
		report.Error = board.LoadFailedMessage
		if move.ReloadErr() == nil {
			report.Error = move.Err().Error()
		}
	}

	if a.flags.jsonMode {
		if err := writeJSON(cmd, report); err != nil {
			return err
		}
	} else {
		switch move.State() {
		case board.MoveIdle:
			fmt.Fprintf(out(cmd), "%s is already at %s[%d]; nothing to do\n", taskID, dest, ev.Source.Index)
		case board.MoveConfirmed:
			fmt.Fprintf(out(cmd), "Moved %s: %s -> %s\n", taskID, report.From, report.To)
		case board.MoveRolledBack:
			fmt.Fprintf(out(cmd), "Move of %s was rejected; board reloaded\n", taskID)
		}
	}

	if move.State() == board.MoveRolledBack {
		if move.ReloadErr() != nil {
			return sysError("%s: %w", board.LoadFailedMessage, move.ReloadErr())
		}
		return sysError("update task %s: %w", taskID, move.Err())
	}
	return nil
}

// dragFor builds the drag event that moves taskID to position index of the
// dest column. A negative index appends.
func dragFor(p board.Partition, taskID string, dest types.Status, index int) (board.DragEvent, error) {
	for _, b := range p.Columns {
		for i, t := range b.Tasks {
			if t.ID != taskID {
				continue
			}
			if index < 0 {
				index = len(p.Tasks(dest))
				if dest == b.Column {
					index--
				}
			}
			return board.DragEvent{
				TaskID:      taskID,
				Source:      board.Location{Column: b.Column, Index: i},
				Destination: &board.Location{Column: dest, Index: index},
			}, nil
		}
	}
	for _, t := range p.Unmatched {
		if t.ID == taskID {
			return board.DragEvent{}, userError("task %s has unknown status %q and cannot be moved", taskID, t.Status)
		}
	}
	return board.DragEvent{}, userError("task %s not found on board", taskID)
}

func newBoardExportCmd(a *app) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export <boardID>",
		Short: "Write a board's tasks to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.openBoard(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			snap, err := r.Snapshot()
			if err != nil {
				return sysError("read board: %w", err)
			}
			if err := jsonl.Encode(outPath, snap.Board.Tasks); err != nil {
				return sysError("export: %w", err)
			}
			fmt.Fprintf(out(cmd), "Exported %d tasks to %s\n", len(snap.Board.Tasks), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "output file")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// newClient builds the API client from configuration.
func (a *app) newClient() (*api.Client, error) {
	d, err := timeout(a.cfg)
	if err != nil {
		return nil, userError("%w", err)
	}
	c := api.New(a.cfg.GetString(cfgKeyAPIURL), d)
	c.Bearer = a.cfg.GetString(cfgKeyToken)
	c.Log = a.log
	return c, nil
}

// openBoard creates a reconciler for boardID and loads it. The caller must
// Close the returned reconciler.
func (a *app) openBoard(ctx context.Context, boardID string) (*board.Reconciler, error) {
	client, err := a.newClient()
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*client.HTTP.Timeout)
	defer cancel()

	r := board.New(boardID, client, a.log)
	if err := r.Load(ctx); err != nil {
		r.Close()
		var loadErr *board.LoadError
		if errors.As(err, &loadErr) {
			return nil, sysError("%s (%w)", loadErr.Message(), loadErr.Err)
		}
		return nil, sysError("load board: %w", err)
	}
	return r, nil
}

// loadColumns returns the catalog with locally stored settings applied.
func (a *app) loadColumns() ([]types.Column, error) {
	store, err := a.attachStore()
	if err != nil {
		return nil, err
	}
	defer store.Detach()
	cols, err := sqlite.LoadColumns(store)
	if err != nil {
		return nil, sysError("load columns: %w", err)
	}
	return cols, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysError("marshal JSON: %w", err)
	}
	fmt.Fprintln(out(cmd), string(data))
	return nil
}

// moveTimeout bounds how long board move waits for the remote update.
const moveTimeout = 30 * time.Second
