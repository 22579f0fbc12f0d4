package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/jot/internal/prefs"
)

type palette struct {
	glamourStyle string

	title     lipgloss.Style
	location  lipgloss.Style
	header    lipgloss.Style
	helper    lipgloss.Style
	err       lipgloss.Style
	success   lipgloss.Style
	timestamp lipgloss.Style
	control   lipgloss.Style
	copied    lipgloss.Style
	selected  lipgloss.Style
	highlight lipgloss.Style
	pageOn    lipgloss.Style
	pageOff   lipgloss.Style
	tocItem   lipgloss.Style
	tocCursor lipgloss.Style
	paneBox   lipgloss.Style
	focusBox  lipgloss.Style
	toast     lipgloss.Style
	toastFade lipgloss.Style
	modal     lipgloss.Style
	alert     lipgloss.Style
}

func newPalette(theme prefs.Theme) palette {
	if theme == prefs.ThemeDark {
		return darkPalette()
	}
	return lightPalette()
}

func lightPalette() palette {
	accent := lipgloss.Color("#1d4ed8")
	muted := lipgloss.Color("#6b7280")
	border := lipgloss.Color("#d1d5db")
	return palette{
		glamourStyle: "light",
		title:        lipgloss.NewStyle().Bold(true).Foreground(accent),
		location:     lipgloss.NewStyle().Foreground(muted),
		header:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#111827")),
		helper:       lipgloss.NewStyle().Foreground(muted),
		err:          lipgloss.NewStyle().Foreground(lipgloss.Color("#b91c1c")),
		success:      lipgloss.NewStyle().Foreground(lipgloss.Color("#15803d")),
		timestamp:    lipgloss.NewStyle().Foreground(muted),
		control:      lipgloss.NewStyle().Foreground(accent),
		copied:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#15803d")),
		selected:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		highlight:    lipgloss.NewStyle().Background(lipgloss.Color("#fef3c7")).Foreground(lipgloss.Color("#111827")),
		pageOn:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(accent).Padding(0, 1),
		pageOff:      lipgloss.NewStyle().Foreground(lipgloss.Color("#111827")).Padding(0, 1),
		tocItem:      lipgloss.NewStyle().Foreground(lipgloss.Color("#111827")),
		tocCursor:    lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(accent),
		paneBox:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border),
		focusBox:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent),
		toast:        lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#15803d")).Padding(0, 1),
		toastFade:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af")).Padding(0, 1),
		modal:        lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(accent).Padding(1, 2),
		alert:        lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#b91c1c")).Padding(1, 2),
	}
}

func darkPalette() palette {
	accent := lipgloss.Color("#8ecae6")
	muted := lipgloss.Color("244")
	border := lipgloss.Color("#56526e")
	return palette{
		glamourStyle: "dark",
		title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		location:     lipgloss.NewStyle().Foreground(muted),
		header:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		helper:       lipgloss.NewStyle().Foreground(muted),
		err:          lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		success:      lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c")),
		timestamp:    lipgloss.NewStyle().Foreground(muted),
		control:      lipgloss.NewStyle().Foreground(accent),
		copied:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a3be8c")),
		selected:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd166")),
		highlight:    lipgloss.NewStyle().Background(lipgloss.Color("#3a3550")),
		pageOn:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1),
		pageOff:      lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4")).Padding(0, 1),
		tocItem:      lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4")),
		tocCursor:    lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(accent),
		paneBox:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border),
		focusBox:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#7f5af0")),
		toast:        lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#a3be8c")).Padding(0, 1),
		toastFade:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1),
		modal:        lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2),
		alert:        lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("9")).Padding(1, 2),
	}
}

// initialTheme picks the persisted theme, falling back to the terminal's
// background.
func initialTheme(store *prefs.Store, darkBackground *bool) prefs.Theme {
	if store != nil {
		if theme, ok := store.Theme(); ok {
			return theme
		}
	}
	dark := false
	if darkBackground != nil {
		dark = *darkBackground
	} else {
		dark = lipgloss.HasDarkBackground()
	}
	if dark {
		return prefs.ThemeDark
	}
	return prefs.ThemeLight
}
