package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/jot/internal/controller"
	"github.com/csheth/jot/internal/logging"
	"github.com/csheth/jot/internal/prefs"
	"github.com/csheth/jot/internal/view"
)

const logModule = "tui"

// Config wires runtime options into the TUI program.
type Config struct {
	// Controller is required.
	Controller *controller.Controller
	// Prefs persists theme and contents visibility. Nil keeps them in memory.
	Prefs *prefs.Store
	// PrefChanges delivers preference edits made by other processes.
	PrefChanges    <-chan prefs.Change
	Logger         *logging.Logger
	SearchDebounce time.Duration
	// Debouncer paces searches typed into the editor. The caller owns it
	// and closes it once the program exits; nil creates one from
	// SearchDebounce.
	Debouncer *controller.Debouncer
	ServerURL string
	// DarkBackground overrides terminal background detection when no theme
	// has been stored.
	DarkBackground *bool
}

type model struct {
	config    Config
	ctrl      *controller.Controller
	store     *prefs.Store
	log       *logging.Logger
	jobs      *jobBus
	debouncer *controller.Debouncer

	editor   textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	layout   pageLayout

	focus      focusArea
	theme      prefs.Theme
	styles     palette
	renderers  map[string]*glamour.TermRenderer
	tocVisible bool

	listing  view.Listing
	location string
	loaded   bool

	selected       int
	tocCursor      int
	highlighted    int
	copiedPosition int
	copyToken      int
	scrollPending  bool

	toasts        toastStore
	confirm       *confirmPrompt
	alert         string
	helpVisible   bool
	statusMessage string
	errorMessage  string

	viewportDirty bool
	offsets       []int
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	log := config.Logger
	if log == nil {
		log = logging.Nop()
	}
	debouncer := config.Debouncer
	if debouncer == nil {
		debounce := config.SearchDebounce
		if debounce <= 0 {
			debounce = 200 * time.Millisecond
		}
		debouncer = controller.NewDebouncer(debounce)
	}

	editor := textarea.New()
	editor.Placeholder = editorPlaceholder
	editor.ShowLineNumbers = false
	editor.Prompt = ""
	editor.CharLimit = 0
	editor.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(defaultWinWidth, defaultWinHeight)
	vp.MouseWheelEnabled = true

	theme := initialTheme(config.Prefs, config.DarkBackground)
	tocVisible := true
	if config.Prefs != nil {
		tocVisible = config.Prefs.TOCVisible()
	}

	location := "/"
	if config.Controller != nil {
		location = config.Controller.Location().String()
	}

	m := &model{
		config:         config,
		ctrl:           config.Controller,
		store:          config.Prefs,
		log:            log,
		jobs:           newJobBus(log),
		debouncer:      debouncer,
		editor:         editor,
		viewport:       vp,
		spinner:        spin,
		layout:         newPageLayout(),
		focus:          focusEditor,
		theme:          theme,
		styles:         newPalette(theme),
		renderers:      map[string]*glamour.TermRenderer{},
		tocVisible:     tocVisible,
		location:       location,
		highlighted:    -1,
		copiedPosition: -1,
		viewportDirty:  true,
	}
	m.applyLayout(defaultWinWidth, defaultWinHeight)
	return m
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.refreshCmd(nil),
		waitForSearch(m.debouncer),
		waitForPrefChange(m.config.PrefChanges),
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.applyLayout(msg.Width, msg.Height)
		return m, nil
	case spinner.TickMsg:
		if m.jobs.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.focus != focusEditor {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobStartedMsg:
		if m.jobs.begin(msg.job) {
			return m, m.spinner.Tick
		}
		return m, nil
	case jobFinishedMsg:
		m.jobs.finish(msg.job)
		return m.Update(msg.payload)
	case refreshResultMsg:
		return m, m.applyRefresh(msg)
	case saveResultMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("Could not save note: %v", msg.err)
			return m, nil
		}
		if !msg.saved {
			return m, nil
		}
		m.errorMessage = ""
		m.statusMessage = "Note saved."
		m.editor.Reset()
		return m, m.refreshCmd(nil)
	case deleteResultMsg:
		if msg.err != nil {
			m.alert = deleteFailedText
			return m, nil
		}
		m.statusMessage = fmt.Sprintf("Deleted note #%d.", msg.position+1)
		if m.highlighted == msg.position {
			m.highlighted = -1
		}
		return m, m.refreshCmd(nil)
	case copyResultMsg:
		if msg.err != nil {
			return m, nil
		}
		m.copiedPosition = msg.position
		m.copyToken++
		t := m.toasts.Add(copyToastMessage)
		m.markViewportDirty()
		return m, tea.Batch(copyAckExpiry(m.copyToken), scheduleToast(t.ID))
	case copyAckExpiredMsg:
		if msg.token == m.copyToken {
			m.copiedPosition = -1
			m.markViewportDirty()
		}
		return m, nil
	case toastFadeMsg:
		m.toasts.Fade(msg.id)
		return m, nil
	case toastExpiredMsg:
		m.toasts.Remove(msg.id)
		return m, nil
	case uploadResultMsg:
		m.applyUploads(msg)
		return m, nil
	case searchFiredMsg:
		next := waitForSearch(m.debouncer)
		// The editor may have been cleared while the value was in flight.
		if _, searching := view.ParseSearch(m.editor.Value()); !searching {
			return m, next
		}
		m.ctrl.Search(msg.value)
		m.location = m.ctrl.Location().String()
		return m, tea.Batch(next, m.refreshCmd(nil))
	case prefChangedMsg:
		m.applyPrefChange(msg.change)
		return m, waitForPrefChange(m.config.PrefChanges)
	}

	if m.focus == focusEditor {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		m.debouncer.Close()
		return m, tea.Quit
	}
	if m.alert != "" {
		m.alert = ""
		return m, nil
	}
	if m.confirm != nil {
		return m, m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, keys.ToggleTheme):
		m.toggleTheme()
		return m, nil
	case key.Matches(msg, keys.ToggleTOC):
		m.toggleTOC()
		return m, nil
	case key.Matches(msg, keys.NextFocus):
		m.cycleFocus(1)
		return m, nil
	case key.Matches(msg, keys.PrevFocus):
		m.cycleFocus(-1)
		return m, nil
	}

	switch m.focus {
	case focusNotes:
		return m, m.handleNotesKey(msg)
	case focusTOC:
		return m, m.handleTOCKey(msg)
	default:
		return m, m.handleEditorKey(msg)
	}
}

func (m *model) handleEditorKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Submit):
		return m.submit()
	case key.Matches(msg, keys.Back):
		m.setFocus(focusNotes)
		return nil
	}
	if isPaste(msg) {
		if paths, ok := droppedFiles(string(msg.Runes)); ok {
			m.statusMessage = ""
			m.errorMessage = ""
			return m.jobs.Start(jobKindUpload, uploadJob(m.ctrl, paths))
		}
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if after := m.editor.Value(); after != before {
		return tea.Batch(cmd, m.onEditorInput(after))
	}
	return cmd
}

// isPaste reports whether msg is a burst of characters that arrived in one
// read. Keystrokes come one rune at a time; a paste or a file dragged onto
// the terminal arrives as a single multi-rune chunk.
func isPaste(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyRunes && !msg.Alt && len(msg.Runes) > 1
}

// onEditorInput runs for every user edit of the editor text. Text starting
// with the search prefix drives a debounced search; clearing the editor drops
// the search at once.
func (m *model) onEditorInput(text string) tea.Cmd {
	if query, searching := view.ParseSearch(text); searching {
		m.debouncer.Trigger(query)
		return nil
	}
	if text != "" {
		return nil
	}
	m.debouncer.Cancel()
	m.ctrl.Search("")
	m.location = m.ctrl.Location().String()
	return m.refreshCmd(nil)
}

func (m *model) submit() tea.Cmd {
	text := m.editor.Value()
	if _, searching := view.ParseSearch(text); searching || text == "" {
		return nil
	}
	m.statusMessage = ""
	m.errorMessage = ""
	return m.jobs.Start(jobKindSave, saveJob(m.ctrl, text))
}

func (m *model) handleNotesKey(msg tea.KeyMsg) tea.Cmd {
	if cmd, handled := m.handlePaneKey(msg); handled {
		return cmd
	}
	page := m.listing.Page
	switch {
	case key.Matches(msg, keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, keys.PrevPage):
		if page.HasPrev() {
			return m.goToPageCmd(page.Number-1, resetSelection)
		}
	case key.Matches(msg, keys.NextPage):
		if page.HasNext() {
			return m.goToPageCmd(page.Number+1, resetSelection)
		}
	case key.Matches(msg, keys.FirstPage):
		if page.Number != 1 {
			return m.goToPageCmd(1, resetSelection)
		}
	case key.Matches(msg, keys.LastPage):
		if page.Total > 0 && page.Number != page.Total {
			return m.goToPageCmd(page.Total, resetSelection)
		}
	case key.Matches(msg, keys.MorePerPage):
		return m.setItemsPerPageCmd(nextItemsPerPage(m.ctrl.ItemsPerPage(), 1))
	case key.Matches(msg, keys.LessPerPage):
		return m.setItemsPerPageCmd(nextItemsPerPage(m.ctrl.ItemsPerPage(), -1))
	case key.Matches(msg, keys.Copy):
		if entry, ok := m.selectedEntry(); ok {
			return m.jobs.Start(jobKindCopy, copyJob(m.ctrl, entry.Note, entry.Position))
		}
	case key.Matches(msg, keys.Delete):
		if entry, ok := m.selectedEntry(); ok {
			m.confirm = &confirmPrompt{
				note:     entry.Note,
				position: entry.Position,
				preview:  previewText(view.TOCTitle(entry.Note.Content), 40),
			}
		}
	case key.Matches(msg, keys.ScrollDown):
		m.viewport.HalfViewDown()
	case key.Matches(msg, keys.ScrollUp):
		m.viewport.HalfViewUp()
	case key.Matches(msg, keys.Edit):
		m.helpVisible = false
		m.setFocus(focusEditor)
	}
	return nil
}

func (m *model) handleTOCKey(msg tea.KeyMsg) tea.Cmd {
	if cmd, handled := m.handlePaneKey(msg); handled {
		return cmd
	}
	switch {
	case key.Matches(msg, keys.Down):
		if m.tocCursor < len(m.listing.TOC)-1 {
			m.tocCursor++
		}
	case key.Matches(msg, keys.Up):
		if m.tocCursor > 0 {
			m.tocCursor--
		}
	case key.Matches(msg, keys.FirstPage):
		m.tocCursor = 0
	case key.Matches(msg, keys.LastPage):
		m.tocCursor = max(len(m.listing.TOC)-1, 0)
	case key.Matches(msg, keys.Jump):
		if m.tocCursor < len(m.listing.TOC) {
			entry := m.listing.TOC[m.tocCursor]
			position := entry.Position
			return m.goToPageCmd(entry.Page, func(m *model) tea.Cmd {
				m.focusPosition(position)
				return nil
			})
		}
	case key.Matches(msg, keys.Edit):
		m.helpVisible = false
		m.setFocus(focusEditor)
	}
	return nil
}

// handlePaneKey covers the keys shared by the notes and contents panes.
func (m *model) handlePaneKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.TOC):
		m.toggleTOC()
	case key.Matches(msg, keys.Theme):
		m.toggleTheme()
	case key.Matches(msg, keys.Refresh):
		return m.refreshCmd(nil), true
	case key.Matches(msg, keys.Help):
		m.helpVisible = !m.helpVisible
	case m.helpVisible && msg.Type == tea.KeyEsc:
		m.helpVisible = false
	default:
		return nil, false
	}
	return nil, true
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	prompt := m.confirm
	switch {
	case key.Matches(msg, keys.Confirm):
		m.confirm = nil
		return m.jobs.Start(jobKindDelete, deleteJob(m.ctrl, prompt.note, prompt.position))
	case key.Matches(msg, keys.Cancel):
		m.confirm = nil
	}
	return nil
}

func (m *model) refreshCmd(then func(*model) tea.Cmd) tea.Cmd {
	return m.jobs.Start(jobKindRefresh, refreshJob(m.ctrl.Refresh, then))
}

func (m *model) goToPageCmd(page int, then func(*model) tea.Cmd) tea.Cmd {
	ctrl := m.ctrl
	return m.jobs.Start(jobKindRefresh, refreshJob(func(ctx context.Context) (controller.Snapshot, error) {
		return ctrl.GoToPage(ctx, page)
	}, then))
}

func (m *model) setItemsPerPageCmd(n int) tea.Cmd {
	ctrl := m.ctrl
	return m.jobs.Start(jobKindRefresh, refreshJob(func(ctx context.Context) (controller.Snapshot, error) {
		return ctrl.SetItemsPerPage(ctx, n)
	}, resetSelection))
}

func resetSelection(m *model) tea.Cmd {
	m.selected = 0
	m.viewport.GotoTop()
	return nil
}

// applyRefresh renders an accepted snapshot. Failed and stale refreshes
// leave the last render in place.
func (m *model) applyRefresh(msg refreshResultMsg) tea.Cmd {
	if msg.err != nil {
		return nil
	}
	if !m.ctrl.Accept(msg.snapshot) {
		return nil
	}
	m.listing = msg.snapshot.Listing
	m.location = msg.snapshot.Location
	m.loaded = true
	if m.selected >= len(m.listing.Entries) {
		m.selected = max(len(m.listing.Entries)-1, 0)
	}
	if m.tocCursor >= len(m.listing.TOC) {
		m.tocCursor = max(len(m.listing.TOC)-1, 0)
	}
	m.markViewportDirty()
	if msg.then != nil {
		return msg.then(m)
	}
	return nil
}

// focusPosition selects the note at a display position on the current page,
// highlights it and scrolls it to the top of the notes pane.
func (m *model) focusPosition(position int) {
	for i, entry := range m.listing.Entries {
		if entry.Position == position {
			m.selected = i
			m.highlighted = position
			m.scrollPending = true
			m.markViewportDirty()
			return
		}
	}
}

func (m *model) applyUploads(msg uploadResultMsg) {
	var (
		refs   []string
		failed []string
	)
	for _, outcome := range msg.outcomes {
		if outcome.err != nil {
			failed = append(failed, outcome.path)
			continue
		}
		refs = append(refs, outcome.reference)
	}
	if len(refs) > 0 {
		m.editor.InsertString(strings.Join(refs, "\n"))
	}
	m.statusMessage = ""
	if len(failed) > 0 {
		m.errorMessage = fmt.Sprintf("Upload failed: %s", strings.Join(failed, ", "))
		return
	}
	m.errorMessage = ""
	m.statusMessage = fmt.Sprintf("Attached %d file(s).", len(refs))
}

func (m *model) applyPrefChange(change prefs.Change) {
	if m.store == nil {
		return
	}
	switch change.Key {
	case prefs.KeyTheme:
		if theme, ok := m.store.Theme(); ok && theme != m.theme {
			m.setTheme(theme)
		}
	case prefs.KeyTOCVisible:
		if visible := m.store.TOCVisible(); visible != m.tocVisible {
			m.setTOCVisible(visible)
		}
	}
}

func (m *model) toggleTheme() {
	m.setTheme(m.theme.Toggle())
	if m.store != nil {
		if err := m.store.SetTheme(m.theme); err != nil {
			m.log.Error(logModule, "persist theme failed", map[string]any{"error": err})
		}
	}
}

func (m *model) setTheme(theme prefs.Theme) {
	m.theme = theme
	m.styles = newPalette(theme)
	m.markViewportDirty()
}

func (m *model) toggleTOC() {
	m.setTOCVisible(!m.tocVisible)
	if m.store != nil {
		if err := m.store.SetTOCVisible(m.tocVisible); err != nil {
			m.log.Error(logModule, "persist toc visibility failed", map[string]any{"error": err})
		}
	}
}

func (m *model) setTOCVisible(visible bool) {
	m.tocVisible = visible
	m.applyLayout(m.layout.windowWidth, m.layout.windowHeight)
	if m.focus == focusTOC && !m.layout.tocShown() {
		m.setFocus(focusNotes)
	}
}

func (m *model) applyLayout(width, height int) {
	m.layout.Update(width, height, m.tocVisible)
	m.editor.SetWidth(m.layout.editorWidth)
	m.editor.SetHeight(m.layout.editorHeight)
	m.viewport.Width = m.layout.notesWidth
	m.viewport.Height = m.layout.notesHeight
	m.markViewportDirty()
}

func (m *model) cycleFocus(delta int) {
	areas := []focusArea{focusEditor, focusNotes}
	if m.layout.tocShown() {
		areas = append(areas, focusTOC)
	}
	current := 0
	for i, area := range areas {
		if area == m.focus {
			current = i
		}
	}
	next := (current + delta + len(areas)) % len(areas)
	m.setFocus(areas[next])
}

func (m *model) setFocus(area focusArea) {
	m.focus = area
	if area == focusEditor {
		m.editor.Focus()
	} else {
		m.editor.Blur()
	}
	m.markViewportDirty()
}

func (m *model) moveSelection(delta int) {
	if len(m.listing.Entries) == 0 {
		return
	}
	next := m.selected + delta
	if next < 0 || next >= len(m.listing.Entries) {
		return
	}
	m.selected = next
	m.scrollPending = true
	m.markViewportDirty()
}

func (m *model) selectedEntry() (view.Entry, bool) {
	if m.selected < 0 || m.selected >= len(m.listing.Entries) {
		return view.Entry{}, false
	}
	return m.listing.Entries[m.selected], true
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty {
		return
	}
	m.viewportDirty = false
	display := m.buildNotesContent()
	m.offsets = display.offsets
	m.viewport.SetContent(display.content)
	if m.scrollPending {
		m.scrollPending = false
		m.ensureSelectedVisible()
	}
}

func (m *model) ensureSelectedVisible() {
	if m.selected >= len(m.offsets) {
		return
	}
	top := m.offsets[m.selected]
	bottom := top + 1
	if m.selected+1 < len(m.offsets) {
		bottom = m.offsets[m.selected+1] - 1
	}
	switch {
	case m.highlighted >= 0 && m.listing.Entries[m.selected].Position == m.highlighted:
		m.viewport.SetYOffset(top)
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(top)
	}
}

// nextItemsPerPage steps through itemsPerPageOptions, wrapping at either end.
func nextItemsPerPage(current, delta int) int {
	opts := itemsPerPageOptions
	if delta >= 0 {
		for _, n := range opts {
			if n > current {
				return n
			}
		}
		return opts[0]
	}
	for i := len(opts) - 1; i >= 0; i-- {
		if opts[i] < current {
			return opts[i]
		}
	}
	return opts[len(opts)-1]
}

var (
	keyStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8aa3"))
)
