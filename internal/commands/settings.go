package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/csheth/jot/internal/logging"
	"github.com/csheth/jot/internal/printers"
)

func addConfig(topLevel *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML.",
		Example: `
jot config
JOT_SERVER=http://notes.local:3000 jot config
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	topLevel.AddCommand(cmd)
}

func addPrefs(topLevel *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show the stored view preferences.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _, err := a.openPrefs()
			if err != nil {
				return err
			}
			pp := &printers.PrettyPrint{Out: cmd.OutOrStdout()}
			pp.Preferences(store.Load())
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Forget the stored theme, contents visibility and pagination.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _, err := a.openPrefs()
			if err != nil {
				return err
			}
			if err := store.Reset(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Preferences reset.")
			return nil
		},
	}
	cmd.AddCommand(reset)

	topLevel.AddCommand(cmd)
}

func addLogs(topLevel *cobra.Command, a *app) {
	level := ""
	limit := 20
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print recent log entries, newest first.",
		Example: `
jot logs
jot logs --level warn --limit 50
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			entries, err := logging.ReadEntries(cfg.LogFile, strings.ToUpper(level), limit)
			if err != nil {
				return fmt.Errorf("read %s: %w", cfg.LogFile, err)
			}
			pp := &printers.PrettyPrint{Out: cmd.OutOrStdout()}
			pp.LogEntries(entries)
			return nil
		},
	}
	cmd.Flags().StringVar(&level, "level", "", "only show this level (debug, info, warn, error)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "entries to show, 0 for all")
	topLevel.AddCommand(cmd)
}
