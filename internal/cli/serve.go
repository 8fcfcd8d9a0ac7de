package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanban/internal/server"
	"github.com/mesh-intelligence/kanban/internal/sqlite"
)

func newServeCmd(a *app) *cobra.Command {
	var addr, seed, seedBoard string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a development board API backed by the local store",
		Long: "Serve GET /api/boards/:id and PUT /api/boards/:id/tasks/:taskId from the\n" +
			"local SQLite store. A demo board is created when the store is empty;\n" +
			"--seed replaces a board's tasks with the tasks in a JSONL file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			if seed != "" {
				n, err := sqlite.ImportBoard(store, seedBoard, "", seed)
				if err != nil {
					return userError("seed: %w", err)
				}
				a.log.WithFields(log.Fields{"board": seedBoard, "tasks": n}).Info("board imported")
			} else if created, err := sqlite.SeedDemoBoard(store); err != nil {
				return sysError("seed: %w", err)
			} else if created {
				a.log.WithField("board", sqlite.DemoBoardID).Info("demo board created")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e := server.New(store, a.log)
			fmt.Fprintf(out(cmd), "Serving board API on %s\n", addr)
			if err := server.Run(ctx, e, addr); err != nil && ctx.Err() == nil {
				return sysError("serve: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&seed, "seed", "", "JSONL file of tasks to import before serving")
	cmd.Flags().StringVar(&seedBoard, "seed-board", sqlite.DemoBoardID, "board ID the --seed tasks are imported into")
	return cmd
}

