package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csheth/jot/internal/notes"
	"github.com/csheth/jot/internal/printers"
	"github.com/csheth/jot/internal/view"
)

type listOptions struct {
	Page    int
	PerPage int
	JSON    bool
	TOC     bool
}

func addListFlags(cmd *cobra.Command, o *listOptions) {
	cmd.Flags().IntVar(&o.Page, "page", 1, "page to print, clamped to the last page")
	cmd.Flags().IntVar(&o.PerPage, "per-page", 0, "notes per page (default is the stored page size)")
	cmd.Flags().BoolVar(&o.JSON, "json", false, "print JSON instead of text")
	cmd.Flags().BoolVar(&o.TOC, "toc", false, "also print the table of contents")
}

func addList(topLevel *cobra.Command, a *app) {
	o := &listOptions{}
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print a page of notes, newest first.",
		Example: `
jot list
jot list --page 2 --per-page 10
jot list --query meeting --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.printNotes(cmd, nil, o)
		},
	}
	addListFlags(cmd, o)
	topLevel.AddCommand(cmd)
}

func addSearch(topLevel *cobra.Command, a *app) {
	o := &listOptions{}
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Print notes containing query, ignoring case.",
		Example: `
jot search standup
jot search "release notes" --toc
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return a.printNotes(cmd, &query, o)
		},
	}
	addListFlags(cmd, o)
	topLevel.AddCommand(cmd)
}

// printNotes prints one page. A nil query uses the configured location.
func (a *app) printNotes(cmd *cobra.Command, query *string, o *listOptions) error {
	if o.PerPage < 0 {
		return fmt.Errorf("--per-page must be positive, got %d", o.PerPage)
	}
	s, err := a.open(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	q := s.ctrl.Location().Query()
	if query != nil {
		q = *query
	}
	all, err := fetchNotes(cmd.Context(), s.client, q)
	if err != nil {
		return err
	}
	size := o.PerPage
	if size == 0 {
		size = s.store.ItemsPerPage()
	}
	listing := view.Build(all, q, o.Page, size)

	if o.JSON {
		return printers.JSON(cmd.OutOrStdout(), newListingOutput(listing))
	}
	pp := &printers.PrettyPrint{Out: cmd.OutOrStdout(), ShowTOC: o.TOC}
	pp.Listing(listing)
	return nil
}

// noteAt returns the note shown at a 1-based display position for the
// configured location.
func (a *app) noteAt(ctx context.Context, s *session, position int) (notes.Note, error) {
	if position < 1 {
		return notes.Note{}, fmt.Errorf("position must be 1 or more, got %d", position)
	}
	query := s.ctrl.Location().Query()
	all, err := fetchNotes(ctx, s.client, query)
	if err != nil {
		return notes.Note{}, err
	}
	sorted := view.SortNewestFirst(view.Filter(all, query))
	if position > len(sorted) {
		return notes.Note{}, fmt.Errorf("no note at position %d (%d shown)", position, len(sorted))
	}
	return sorted[position-1], nil
}

func fetchNotes(ctx context.Context, client *notes.Client, query string) ([]notes.Note, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if query == "" {
		return client.List(ctx)
	}
	return client.Search(ctx, query)
}

type noteOutput struct {
	Position  int    `json:"position"`
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
}

type tocOutput struct {
	Position int    `json:"position"`
	Page     int    `json:"page"`
	Title    string `json:"title"`
}

type listingOutput struct {
	Query      string       `json:"query,omitempty"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	PerPage    int          `json:"per_page"`
	Total      int          `json:"total"`
	Notes      []noteOutput `json:"notes"`
	TOC        []tocOutput  `json:"toc"`
}

func newListingOutput(l view.Listing) listingOutput {
	out := listingOutput{
		Query:      l.Query,
		Page:       l.Page.Number,
		TotalPages: l.Page.Total,
		PerPage:    l.Page.Size,
		Total:      l.Page.Count,
		Notes:      make([]noteOutput, 0, len(l.Entries)),
		TOC:        make([]tocOutput, 0, len(l.TOC)),
	}
	for _, e := range l.Entries {
		out.Notes = append(out.Notes, noteOutput{
			Position:  e.Position + 1,
			Timestamp: e.Note.Timestamp,
			Content:   e.Note.Content,
		})
	}
	for _, e := range l.TOC {
		out.TOC = append(out.TOC, tocOutput{Position: e.Position + 1, Page: e.Page, Title: e.Title})
	}
	return out
}
