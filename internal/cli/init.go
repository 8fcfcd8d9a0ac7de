package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanban/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and data directories",
		Long:  "Create the config directory with a default config.yaml and initialize the local store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	if err := os.MkdirAll(a.configDir, 0o755); err != nil {
		return sysError("create config directory: %w", err)
	}

	dataDir, err := a.dataDir()
	if err != nil {
		return sysError("resolve data dir: %w", err)
	}
	configPath := filepath.Join(a.configDir, paths.ConfigFileName)
	written, err := writeConfigIfMissing(configPath, a.flags.dataDir)
	if err != nil {
		return sysError("write config: %w", err)
	}

	store, err := a.attachStore()
	if err != nil {
		return err
	}
	if err := store.Detach(); err != nil {
		return sysError("finalize store: %w", err)
	}

	if written {
		fmt.Fprintf(out(cmd), "Wrote %s\n", configPath)
	}
	fmt.Fprintf(out(cmd), "Initialized kanban (data: %s)\n", dataDir)
	return nil
}
