package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

const (
	headerHeight     = 1
	footerHeight     = 1
	statusHeight     = 1
	toastHeight      = 1
	editorRows       = 3
	boxBorder        = 2
	tocPaneWidth     = 28
	tocMinWindow     = 70
	minNotesWidth    = 30
	minNotesHeight   = 3
	defaultWinWidth  = 80
	defaultWinHeight = 24
)

type pageLayout struct {
	windowWidth  int
	windowHeight int
	notesWidth   int
	notesHeight  int
	tocWidth     int
	editorWidth  int
	editorHeight int
}

func newPageLayout() pageLayout {
	l := pageLayout{}
	l.Update(defaultWinWidth, defaultWinHeight, true)
	return l
}

// Update sizes every pane for a window. The contents pane only shows when
// it is wanted and the window is wide enough; tocWidth is 0 otherwise.
func (l *pageLayout) Update(width, height int, tocVisible bool) {
	l.windowWidth = width
	l.windowHeight = height

	l.tocWidth = 0
	if tocVisible && width >= tocMinWindow {
		l.tocWidth = tocPaneWidth
	}
	l.notesWidth = width - l.tocWidth - boxBorder
	if l.notesWidth < minNotesWidth {
		l.notesWidth = minNotesWidth
	}

	l.editorWidth = width - boxBorder
	if l.editorWidth < minNotesWidth {
		l.editorWidth = minNotesWidth
	}
	l.editorHeight = editorRows

	chrome := headerHeight + footerHeight + statusHeight + toastHeight + (editorRows + boxBorder) + boxBorder
	l.notesHeight = height - chrome
	if l.notesHeight < minNotesHeight {
		l.notesHeight = minNotesHeight
	}
}

// tocShown reports whether the contents pane has room.
func (l pageLayout) tocShown() bool {
	return l.tocWidth > 0
}

type displayView struct {
	content string
	offsets []int
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

// buildNotesContent renders the current page into the notes viewport and
// records the first line of each note.
func (m *model) buildNotesContent() displayView {
	cb := &contentBuilder{}
	entries := m.listing.Entries
	if len(entries) == 0 {
		switch {
		case !m.loaded:
			cb.WriteString(m.styles.helper.Render("Loading notes..."))
		case m.listing.Query != "":
			cb.WriteString(m.styles.helper.Render(fmt.Sprintf("No notes match %q.", m.listing.Query)))
		default:
			cb.WriteString(m.styles.helper.Render("No notes yet. Write one below and press Ctrl+S."))
		}
		return displayView{content: cb.String()}
	}

	width := m.wrapWidth(2)
	offsets := make([]int, len(entries))
	for i, entry := range entries {
		if i > 0 {
			cb.WriteRune('\n')
		}
		offsets[i] = cb.Line()
		cb.WriteString(m.noteHeader(i))
		cb.WriteRune('\n')
		cb.WriteString(indentMultiline(m.renderMarkdown(entry.Note.Content, width), "  "))
		cb.WriteRune('\n')
	}
	return displayView{content: cb.String(), offsets: offsets}
}

func (m *model) noteHeader(i int) string {
	entry := m.listing.Entries[i]
	marker := "  "
	if i == m.selected && m.focus == focusNotes {
		marker = m.styles.selected.Render("› ")
	}
	label := fmt.Sprintf("#%d", entry.Position+1)
	if i == m.selected {
		label = m.styles.selected.Render(label)
	}
	if entry.Position == m.highlighted {
		label = m.styles.highlight.Render(fmt.Sprintf("#%d", entry.Position+1))
	}
	copyControl := m.styles.control.Render("[c] Copy")
	if entry.Position == m.copiedPosition {
		copyControl = m.styles.copied.Render("[c] " + copiedLabel)
	}
	controls := copyControl + "  " + m.styles.control.Render("[d] Delete")
	return marker + label + "  " + m.styles.timestamp.Render(entry.Note.Timestamp) + "  " + controls
}

// renderMarkdown renders a note body for the terminal, falling back to
// plain wrapped text when glamour cannot.
func (m *model) renderMarkdown(content string, width int) string {
	renderer, err := m.markdownRenderer(width)
	if err == nil {
		out, renderErr := renderer.Render(content)
		if renderErr == nil {
			return strings.Trim(out, "\n")
		}
		err = renderErr
	}
	m.log.Warn(logModule, "markdown render failed", map[string]any{"error": err})
	return wordwrap.String(content, width)
}

func (m *model) markdownRenderer(width int) (*glamour.TermRenderer, error) {
	cacheKey := fmt.Sprintf("%s/%d", m.styles.glamourStyle, width)
	if r, ok := m.renderers[cacheKey]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.styles.glamourStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	m.renderers[cacheKey] = r
	return r, nil
}

func (m *model) tocView() string {
	width := m.layout.tocWidth - boxBorder
	height := m.layout.notesHeight
	lines := []string{m.styles.header.Render("Contents")}
	toc := m.listing.TOC
	if len(toc) == 0 {
		lines = append(lines, m.styles.helper.Render("Nothing here yet."))
		return strings.Join(lines, "\n")
	}
	visible := height - 1
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.tocCursor >= visible {
		start = m.tocCursor - visible + 1
	}
	end := start + visible
	if end > len(toc) {
		end = len(toc)
	}
	for i := start; i < end; i++ {
		entry := toc[i]
		title := truncate.StringWithTail(entry.Title, uint(max(width-2, 1)), "")
		line := "  " + title
		onPage := entry.Page == m.listing.Page.Number
		switch {
		case i == m.tocCursor && m.focus == focusTOC:
			line = m.styles.tocCursor.Render("› " + title)
		case entry.Position == m.highlighted:
			line = m.styles.highlight.Render("  " + title)
		case onPage:
			line = m.styles.tocItem.Render(line)
		default:
			line = m.styles.helper.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = defaultWinWidth
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func previewText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
