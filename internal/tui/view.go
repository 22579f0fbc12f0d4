package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

func (m *model) View() string {
	m.refreshViewportIfDirty()
	return strings.Join([]string{
		m.headerView(),
		m.bodyView(),
		m.footerView(),
		m.editorView(),
		m.toastView(),
		m.statusView(),
	}, "\n")
}

func (m *model) headerView() string {
	title := m.styles.title.Render(appTitle)
	location := m.styles.location.Render(m.location)
	right := m.styles.helper.Render(fmt.Sprintf("%s · %s theme · %s", m.config.ServerURL, m.theme, m.focus))
	if m.config.ServerURL == "" {
		right = m.styles.helper.Render(fmt.Sprintf("%s theme · %s", m.theme, m.focus))
	}
	left := title + " " + location
	gap := m.layout.windowWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return truncate.String(left+" "+right, uint(max(m.layout.windowWidth, 1)))
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *model) bodyView() string {
	switch {
	case m.alert != "":
		return m.overlay(m.styles.alert.Render(joinNonEmpty([]string{
			m.styles.err.Render(m.alert),
			m.styles.helper.Render("Press any key to continue."),
		})))
	case m.confirm != nil:
		return m.overlay(m.styles.modal.Render(joinNonEmpty([]string{
			m.styles.header.Render(deleteConfirmText),
			m.styles.helper.Render(fmt.Sprintf("#%d  %s", m.confirm.position+1, m.confirm.preview)),
			m.styles.helper.Render("y confirm · n cancel"),
		})))
	case m.helpVisible:
		return m.overlay(joinNonEmpty([]string{m.keyLegendView(), m.helpView()}))
	}

	notesBox := m.styles.paneBox
	if m.focus == focusNotes {
		notesBox = m.styles.focusBox
	}
	notes := notesBox.Width(m.layout.notesWidth).Height(m.layout.notesHeight).Render(m.viewport.View())
	if !m.layout.tocShown() {
		return notes
	}
	tocBox := m.styles.paneBox
	if m.focus == focusTOC {
		tocBox = m.styles.focusBox
	}
	toc := tocBox.Width(m.layout.tocWidth - boxBorder).Height(m.layout.notesHeight).Render(m.tocView())
	return lipgloss.JoinHorizontal(lipgloss.Top, notes, toc)
}

func (m *model) overlay(content string) string {
	return lipgloss.Place(
		m.layout.windowWidth,
		m.layout.notesHeight+boxBorder,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// footerView is the pagination bar: range, page window, page size.
func (m *model) footerView() string {
	page := m.listing.Page
	prev := m.styles.helper.Render("‹ Prev")
	if page.HasPrev() {
		prev = m.styles.control.Render("‹ Prev")
	}
	next := m.styles.helper.Render("Next ›")
	if page.HasNext() {
		next = m.styles.control.Render("Next ›")
	}
	numbers := make([]string, 0, len(m.listing.Window))
	for _, n := range m.listing.Window {
		label := strconv.Itoa(n)
		if n == page.Number {
			numbers = append(numbers, m.styles.pageOn.Render(label))
			continue
		}
		numbers = append(numbers, m.styles.pageOff.Render(label))
	}
	perPage := m.styles.helper.Render(fmt.Sprintf("Per page: %d", m.ctrl.ItemsPerPage()))
	parts := []string{m.styles.helper.Render(page.Showing()), prev}
	parts = append(parts, numbers...)
	parts = append(parts, next, perPage)
	return strings.Join(parts, " ")
}

func (m *model) editorView() string {
	box := m.styles.paneBox
	if m.focus == focusEditor {
		box = m.styles.focusBox
	}
	return box.Render(m.editor.View())
}

func (m *model) toastView() string {
	items := m.toasts.List()
	if len(items) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(items))
	for _, t := range items {
		style := m.styles.toast
		if t.Fading {
			style = m.styles.toastFade
		}
		rendered = append(rendered, style.Render(t.Message))
	}
	line := strings.Join(rendered, " ")
	return lipgloss.PlaceHorizontal(m.layout.windowWidth, lipgloss.Right, line)
}

func (m *model) statusView() string {
	var parts []string
	if m.jobs.busy() {
		parts = append(parts, m.spinner.View()+m.styles.helper.Render(m.jobs.label()))
	}
	switch {
	case m.errorMessage != "":
		parts = append(parts, m.styles.err.Render(m.errorMessage))
	case m.statusMessage != "":
		parts = append(parts, m.styles.helper.Render(m.statusMessage))
	default:
		parts = append(parts, keyDescStyle.Render("tab switch pane · ctrl+s save · / search · ? help"))
	}
	return strings.Join(parts, " ")
}

func joinNonEmpty(parts []string) string {
	var filtered []string
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n")
}

func (m *model) keyLegendView() string {
	bindings := keys.legend()
	rows := []string{m.styles.header.Render("Keys")}
	const columns = 3
	for i := 0; i < len(bindings); i += columns {
		end := i + columns
		if end > len(bindings) {
			end = len(bindings)
		}
		var cells []string
		for _, binding := range bindings[i:end] {
			help := binding.Help()
			cell := lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(help.Key), keyDescStyle.Render(" "+help.Desc))
			cells = append(cells, lipgloss.NewStyle().Width(24).Render(cell))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return m.styles.paneBox.Padding(0, 1).Render(strings.Join(rows, "\n"))
}

func (m *model) helpView() string {
	lines := []string{
		m.styles.header.Render("Using jot"),
		m.styles.helper.Render("• type in the editor and press Ctrl+S to save; start with / to search as you type."),
		m.styles.helper.Render("• clearing the editor drops the search and shows every note again."),
		m.styles.helper.Render("• drag files onto the terminal to upload them and insert Markdown links."),
		m.styles.helper.Render("• in the contents pane, enter jumps to the note's page and highlights it."),
		m.styles.helper.Render("• Ctrl+T switches theme and Ctrl+O shows or hides the contents from anywhere."),
	}
	return m.styles.modal.Render(strings.Join(lines, "\n"))
}
