// Package config resolves jot settings from defaults, an optional .jot config
// file, JOT_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Keys understood by Load.
const (
	KeyServer         = "server"
	KeyStateDir       = "state_dir"
	KeyLogFile        = "log_file"
	KeyItemsPerPage   = "items_per_page"
	KeySearchDebounce = "search_debounce"
	KeyRequestTimeout = "request_timeout"
	KeyAltScreen      = "alt_screen"
	KeyQuery          = "query"
	KeyVerbose        = "verbose"
)

// Config is the effective configuration.
type Config struct {
	Server         string        `yaml:"server"`
	StateDir       string        `yaml:"state_dir"`
	LogFile        string        `yaml:"log_file"`
	ItemsPerPage   int           `yaml:"items_per_page"`
	SearchDebounce time.Duration `yaml:"search_debounce"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AltScreen      bool          `yaml:"alt_screen"`
	Query          string        `yaml:"query"`
	Verbose        bool          `yaml:"verbose"`
	ConfigFile     string        `yaml:"config_file,omitempty"`
}

// PrefsDir is where UI preferences are stored.
func (c Config) PrefsDir() string {
	return filepath.Join(c.StateDir, "prefs")
}

// New returns a viper instance with jot's defaults, config search paths and
// environment binding. Callers may bind flags onto it before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyServer, "http://127.0.0.1:3000")
	v.SetDefault(KeyStateDir, "~/.jot")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyItemsPerPage, 20)
	v.SetDefault(KeySearchDebounce, 200*time.Millisecond)
	v.SetDefault(KeyRequestTimeout, 30*time.Second)
	v.SetDefault(KeyAltScreen, true)
	v.SetDefault(KeyQuery, "")
	v.SetDefault(KeyVerbose, false)

	v.SetConfigName(".jot")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("JOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("JOT_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	return v
}

// Load reads the config file if one exists and resolves the result. A
// missing file is not an error.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = New()
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	stateDir, err := homedir.Expand(v.GetString(KeyStateDir))
	if err != nil {
		return Config{}, fmt.Errorf("config: expand state dir: %w", err)
	}
	logFile := v.GetString(KeyLogFile)
	if logFile == "" {
		logFile = filepath.Join(stateDir, "jot.log")
	}
	if logFile, err = homedir.Expand(logFile); err != nil {
		return Config{}, fmt.Errorf("config: expand log file: %w", err)
	}

	cfg := Config{
		Server:         strings.TrimRight(strings.TrimSpace(v.GetString(KeyServer)), "/"),
		StateDir:       stateDir,
		LogFile:        logFile,
		ItemsPerPage:   v.GetInt(KeyItemsPerPage),
		SearchDebounce: v.GetDuration(KeySearchDebounce),
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
		AltScreen:      v.GetBool(KeyAltScreen),
		Query:          v.GetString(KeyQuery),
		Verbose:        v.GetBool(KeyVerbose),
		ConfigFile:     v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Server == "":
		return errors.New("config: server must be set")
	case c.StateDir == "":
		return errors.New("config: state_dir must be set")
	case c.ItemsPerPage < 1:
		return fmt.Errorf("config: items_per_page must be positive, got %d", c.ItemsPerPage)
	case c.SearchDebounce < 0:
		return fmt.Errorf("config: search_debounce must not be negative, got %s", c.SearchDebounce)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("config: request_timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}
