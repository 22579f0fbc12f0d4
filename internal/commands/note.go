package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csheth/jot/internal/view"
)

func addAdd(topLevel *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "add [text...]",
		Short: "Save a new note.",
		Long:  "Save a new note from the arguments, or from stdin when there are none or the only one is \"-\".",
		Example: `
jot add "call the plumber"
git log -1 --format=%B | jot add
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimRight(string(b), "\r\n")
			}

			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			saved, err := s.ctrl.Save(cmd.Context(), text)
			if err != nil {
				return err
			}
			if !saved {
				return errors.New("nothing to save: the note is empty")
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Saved.")
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addRm(topLevel *cobra.Command, a *app) {
	yes := false
	cmd := &cobra.Command{
		Use:     "rm <position>",
		Aliases: []string{"delete"},
		Short:   "Delete the note shown at position.",
		Long:    "Delete the note shown at position, counting from 1 for the newest note of the current search.",
		Example: `
jot rm 1
jot rm 3 --query meeting --yes
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			note, err := a.noteAt(cmd.Context(), s, position)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !yes {
				_, _ = fmt.Fprintf(out, "#%d %s %q\nAre you sure you want to delete this note? [y/N] ", position, note.Timestamp, view.TOCTitle(note.Content))
				if !confirmed(cmd.InOrStdin()) {
					_, _ = fmt.Fprintln(out, "Kept.")
					return nil
				}
			}
			if err := s.ctrl.Delete(cmd.Context(), note); err != nil {
				return fmt.Errorf("failed to delete note: %w", err)
			}
			_, _ = fmt.Fprintf(out, "Deleted #%d.\n", position)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	topLevel.AddCommand(cmd)
}

func addCat(topLevel *cobra.Command, a *app) {
	copyToClipboard := false
	cmd := &cobra.Command{
		Use:   "cat <position>",
		Short: "Print the raw text of the note shown at position.",
		Example: `
jot cat 1
jot cat 2 --copy
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			note, err := a.noteAt(cmd.Context(), s, position)
			if err != nil {
				return err
			}
			var text string
			if copyToClipboard {
				text, err = s.ctrl.Copy(cmd.Context(), note)
			} else {
				text, err = s.ctrl.Content(cmd.Context(), note)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprint(out, text)
			if !strings.HasSuffix(text, "\n") {
				_, _ = fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&copyToClipboard, "copy", "c", false, "also copy the text to the clipboard")
	topLevel.AddCommand(cmd)
}

func parsePosition(arg string) (int, error) {
	position, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil {
		return 0, fmt.Errorf("position %q is not a number", arg)
	}
	if position < 1 {
		return 0, fmt.Errorf("position must be 1 or more, got %d", position)
	}
	return position, nil
}

func confirmed(in io.Reader) bool {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
