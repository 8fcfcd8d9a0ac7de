package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/kanban/internal/api"
	"github.com/mesh-intelligence/kanban/internal/paths"
)

// Config keys in config.yaml. Each can be overridden by a KANBAN_ prefixed
// environment variable, e.g. KANBAN_API_URL.
const (
	cfgKeyAPIURL   = "api_url"
	cfgKeyToken    = "token"
	cfgKeyTimeout  = "timeout"
	cfgKeyLogLevel = "log_level"
	cfgKeyDataDir  = "data_dir"
)

const envPrefix = "KANBAN"

// Defaults for the config keys.
const (
	defaultAPIURL   = "http://localhost:8080/api"
	defaultLogLevel = "warn"
)

// configFile is the structure written to config.yaml by init.
type configFile struct {
	APIURL   string `yaml:"api_url"`
	Timeout  string `yaml:"timeout"`
	LogLevel string `yaml:"log_level"`
	DataDir  string `yaml:"data_dir,omitempty"`
}

// loadConfig reads config.yaml from configDir with viper. A missing file is
// not an error; defaults and environment variables still apply. The
// --api-url and --log-level flags override the file when set.
func loadConfig(configDir string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyAPIURL, defaultAPIURL)
	v.SetDefault(cfgKeyTimeout, api.DefaultTimeout.String())
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyToken, "")
	v.SetDefault(cfgKeyDataDir, "")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range map[string]string{cfgKeyAPIURL: "api-url", cfgKeyLogLevel: "log-level"} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	v.SetConfigFile(filepath.Join(configDir, paths.ConfigFileName))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// timeout returns the configured request timeout.
func timeout(v *viper.Viper) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(cfgKeyTimeout))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid timeout %q", v.GetString(cfgKeyTimeout))
	}
	return d, nil
}

// writeConfigIfMissing creates config.yaml with default values. An existing
// file is left untouched. Returns true when the file was written.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config: %w", err)
	}

	data, err := yaml.Marshal(&configFile{
		APIURL:   defaultAPIURL,
		Timeout:  api.DefaultTimeout.String(),
		LogLevel: defaultLogLevel,
		DataDir:  dataDir,
	})
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
