package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/csheth/jot/internal/config"
	"github.com/csheth/jot/internal/controller"
	"github.com/csheth/jot/internal/tui"
)

func addUI(topLevel *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive notes view.",
		Example: `
jot ui
jot ui --query meeting
jot ui --alt-screen=false
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runUI(cmd.Context())
		},
	}
	cmd.Flags().Bool("alt-screen", true, "draw on the terminal's alternate screen")
	bindLocal(a.v, cmd, config.KeyAltScreen, "alt-screen")

	topLevel.AddCommand(cmd)
}

func (a *app) runUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes, err := s.store.Watch(ctx)
	if err != nil {
		s.log.Warn("commands", "preference watch unavailable", map[string]any{"error": err})
		changes = nil
	}

	// The search wait command blocks on the debouncer; closing it releases
	// that goroutine however the program ends.
	debouncer := controller.NewDebouncer(s.cfg.SearchDebounce)
	defer debouncer.Close()

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithMouseCellMotion()}
	if s.cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Controller:     s.ctrl,
			Prefs:          s.store,
			PrefChanges:    changes,
			Logger:         s.log,
			SearchDebounce: s.cfg.SearchDebounce,
			Debouncer:      debouncer,
			ServerURL:      s.cfg.Server,
		}),
		opts...,
	)

	s.log.Info("commands", "ui started", map[string]any{"location": s.ctrl.Location().String()})
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
