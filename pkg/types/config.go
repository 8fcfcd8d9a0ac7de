package types

import "errors"

// BackendSQLite names the only store implementation. Attach still checks
// the name so a config file written for another store fails loudly instead
// of opening an empty SQLite board.
const BackendSQLite = "sqlite"

// Config tells Store.Attach where the board database lives. Build one with
// NewConfig; the Backend field exists so persisted configs carry the store
// name alongside the directory.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// NewConfig returns a SQLite config rooted at dataDir.
func NewConfig(dataDir string) Config {
	return Config{Backend: BackendSQLite, DataDir: dataDir}
}

// Dir returns the directory holding the database, "." when unset.
func (c Config) Dir() string {
	if c.DataDir == "" {
		return "."
	}
	return c.DataDir
}

// Validate reports ErrBackendEmpty or ErrBackendUnknown for a config the
// store cannot open. An empty DataDir is allowed and means the working
// directory.
func (c Config) Validate() error {
	switch c.Backend {
	case "":
		return ErrBackendEmpty
	case BackendSQLite:
		return nil
	default:
		return ErrBackendUnknown
	}
}
