package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanban/pkg/kanban"
)

const modulePath = "github.com/mesh-intelligence/kanban"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the kanban version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(out(cmd), "kanban v%s\nmodule: %s\n", kanban.Version, modulePath)
			return nil
		},
	}
}
