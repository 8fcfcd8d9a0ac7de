// Package cli implements the kanban command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/kanban/internal/paths"
	"github.com/mesh-intelligence/kanban/internal/sqlite"
	"github.com/mesh-intelligence/kanban/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(format string, args ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

func sysError(format string, args ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// ExitCode maps an error returned by the root command to a process exit code.
// Errors that do not carry a code are usage errors from cobra.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	apiURL    string
	logLevel  string
	jsonMode  bool
}

// app is the state shared by one command tree.
type app struct {
	flags     rootFlags
	configDir string
	cfg       *viper.Viper
	log       *log.Logger
}

// NewRootCmd creates the top-level "kanban" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{log: log.New()}

	root := &cobra.Command{
		Use:   "kanban",
		Short: "A terminal client for Kanban boards",
		Long: "kanban shows a board's tasks grouped into workflow columns, moves tasks\n" +
			"between columns with optimistic updates, and edits column settings.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: per-user config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: per-user data dir)")
	pf.StringVar(&a.flags.apiURL, "api-url", "", "board API base URL")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newBoardCmd(a))
	root.AddCommand(newColumnCmd(a))
	root.AddCommand(newServeCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "kanban:", err)
		os.Exit(ExitCode(err))
	}
}

// setup resolves directories, loads configuration and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError("resolve config dir: %w", err)
	}
	a.configDir = dir

	cfg, err := loadConfig(dir, cmd.Root().PersistentFlags())
	if err != nil {
		return sysError("%w", err)
	}
	a.cfg = cfg

	level, err := log.ParseLevel(cfg.GetString(cfgKeyLogLevel))
	if err != nil {
		return userError("invalid log level %q", cfg.GetString(cfgKeyLogLevel))
	}
	a.log.SetLevel(level)
	return nil
}

// out returns the writer for command output.
func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }

// dataDir returns the resolved data directory.
func (a *app) dataDir() (string, error) {
	return paths.ResolveDataDir(a.flags.dataDir, a.cfg.GetString(cfgKeyDataDir))
}

// attachStore opens the local SQLite store. The caller must Detach it.
func (a *app) attachStore() (*sqlite.Backend, error) {
	dir, err := a.dataDir()
	if err != nil {
		return nil, sysError("resolve data dir: %w", err)
	}
	store := sqlite.NewBackend()
	if err := store.Attach(types.NewConfig(dir)); err != nil {
		return nil, sysError("attach store: %w", err)
	}
	return store, nil
}
