// Package commands is the jot command line: the interactive notes view by
// default, plus scriptable subcommands against the same backend.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/csheth/jot/internal/config"
	"github.com/csheth/jot/internal/controller"
	"github.com/csheth/jot/internal/logging"
	"github.com/csheth/jot/internal/notes"
	"github.com/csheth/jot/internal/prefs"
)

// New returns the root command with every subcommand attached.
func New() *cobra.Command {
	return newRoot(&app{v: config.New()})
}

func newRoot(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jot",
		Short: "Write, search and browse notes from the terminal.",
		Long: `jot talks to a notes server. Run without a subcommand to open the
interactive view; use the subcommands for scripting.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.configFile != "" {
				a.v.SetConfigFile(a.configFile)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runUI(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is ./.jot.yaml or $HOME/.jot.yaml)")
	flags.String("server", "", "notes server base URL")
	flags.String("state-dir", "", "directory for preferences and logs")
	flags.StringP("query", "q", "", "search to start from, as if typed after \"/\"")
	flags.BoolP("verbose", "v", false, "log at debug level")
	bind(a.v, cmd, config.KeyServer, "server")
	bind(a.v, cmd, config.KeyStateDir, "state-dir")
	bind(a.v, cmd, config.KeyQuery, "query")
	bind(a.v, cmd, config.KeyVerbose, "verbose")

	AddCommands(cmd, a)
	return cmd
}

// AddCommands attaches the subcommands.
func AddCommands(topLevel *cobra.Command, a *app) {
	addUI(topLevel, a)
	addList(topLevel, a)
	addSearch(topLevel, a)
	addAdd(topLevel, a)
	addRm(topLevel, a)
	addCat(topLevel, a)
	addUpload(topLevel, a)
	addConfig(topLevel, a)
	addPrefs(topLevel, a)
	addLogs(topLevel, a)
	addVersion(topLevel)
}

func bind(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

func bindLocal(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

type app struct {
	v          *viper.Viper
	configFile string
	// clipboard overrides the system clipboard.
	clipboard controller.Clipboard
}

// session is everything a command needs to talk to the backend.
type session struct {
	cfg    config.Config
	log    *logging.Logger
	client *notes.Client
	store  *prefs.Store
	ctrl   *controller.Controller
}

func (a *app) loadConfig() (config.Config, error) {
	return config.Load(a.v)
}

func (a *app) open(_ context.Context) (*session, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	log, err := logging.New(logging.Options{Path: cfg.LogFile, Verbose: cfg.Verbose})
	if err != nil {
		return nil, err
	}
	client, err := notes.NewClient(notes.Config{
		BaseURL: cfg.Server,
		Timeout: cfg.RequestTimeout,
		Logger:  log,
	})
	if err != nil {
		return nil, err
	}
	store, err := prefs.Open(cfg.PrefsDir(), cfg.ItemsPerPage)
	if err != nil {
		return nil, err
	}
	ctrl, err := controller.New(controller.Config{
		Backend:   client,
		Pages:     store,
		Clipboard: a.clipboard,
		Location:  controller.NewLocation(cfg.Query),
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("commands", "session opened", map[string]any{
		"server":    cfg.Server,
		"state_dir": cfg.StateDir,
		"config":    cfg.ConfigFile,
	})
	return &session{cfg: cfg, log: log, client: client, store: store, ctrl: ctrl}, nil
}

func (a *app) openPrefs() (*prefs.Store, config.Config, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, config.Config{}, err
	}
	store, err := prefs.Open(cfg.PrefsDir(), cfg.ItemsPerPage)
	return store, cfg, err
}

func (s *session) Close() {
	_ = s.log.Sync()
}
