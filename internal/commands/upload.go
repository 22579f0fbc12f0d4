package commands

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/csheth/jot/internal/printers"
)

func addUpload(topLevel *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "upload <glob...>",
		Short: "Upload files and print the Markdown that references them.",
		Example: `
jot upload screenshot.png
jot upload 'docs/**/*.pdf'
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandGlobs(args)
			if err != nil {
				return err
			}
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			pp := &printers.PrettyPrint{Out: cmd.OutOrStdout()}
			failures := &printers.PrettyPrint{Out: cmd.ErrOrStderr()}
			var (
				refs     []string
				firstErr error
			)
			for _, path := range paths {
				up, err := s.ctrl.Upload(cmd.Context(), path)
				if err != nil {
					failures.Failure(path, err)
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				refs = append(refs, up.Reference)
			}
			pp.References(refs)
			return firstErr
		},
	}
	topLevel.AddCommand(cmd)
}

// expandGlobs resolves each pattern to regular files, keeping argument order
// and dropping repeats.
func expandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}
	return paths, nil
}
