package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanban/internal/settings"
	"github.com/mesh-intelligence/kanban/internal/sqlite"
	"github.com/mesh-intelligence/kanban/pkg/types"
)

func newColumnCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "List and edit column settings",
	}
	cmd.AddCommand(newColumnListCmd(a))
	cmd.AddCommand(newColumnEditCmd(a))
	return cmd
}

func newColumnListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List columns with their done rule and WIP limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := a.loadColumns()
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd, cols)
			}
			for _, c := range cols {
				limit := "-"
				if c.WIPLimit != nil {
					limit = strconv.Itoa(*c.WIPLimit)
				}
				fmt.Fprintf(out(cmd), "%-22s wip=%-4s %s\n", c.Title, limit, c.DoneRule)
			}
			return nil
		},
	}
}

func newColumnEditCmd(a *app) *cobra.Command {
	var doneRule, wipLimit string
	cmd := &cobra.Command{
		Use:   "edit <status>",
		Short: "Edit a column's done rule and WIP limit",
		Long: "Edit a column's settings. Flags that are not given keep their current\n" +
			"value. An empty or zero --wip-limit removes the limit.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := types.ParseStatus(args[0])
			if err != nil {
				return userError("%w", err)
			}

			store, err := a.attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			cols, err := sqlite.LoadColumns(store)
			if err != nil {
				return sysError("load columns: %w", err)
			}
			col := cols[status.Ordinal()]

			var saved types.Column
			editor := settings.NewEditor(func(id types.Status, patch types.ColumnPatch) error {
				saved = col.Apply(patch)
				table, err := store.GetTable(types.ColumnsTable)
				if err != nil {
					return err
				}
				_, err = table.Set(string(id), &saved)
				return err
			})
			editor.Open(col)

			if cmd.Flags().Changed("done-rule") {
				if err := editor.SetDoneRule(doneRule); err != nil {
					return sysError("%w", err)
				}
			}
			if cmd.Flags().Changed("wip-limit") {
				if err := editor.SetWIPLimit(wipLimit); err != nil {
					return sysError("%w", err)
				}
			}
			if err := editor.Save(); err != nil {
				if editor.IsOpen() {
					return userError("%w", err)
				}
				return sysError("%w", err)
			}

			if a.flags.jsonMode {
				return writeJSON(cmd, saved)
			}
			fmt.Fprintf(out(cmd), "Saved %s\n", saved.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&doneRule, "done-rule", "", "definition of done for the column")
	cmd.Flags().StringVar(&wipLimit, "wip-limit", "", "maximum tasks in the column (empty or 0 for no limit)")
	return cmd
}
