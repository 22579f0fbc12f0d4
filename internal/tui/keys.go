package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	Submit      key.Binding
	NextFocus   key.Binding
	PrevFocus   key.Binding
	ToggleTheme key.Binding
	ToggleTOC   key.Binding

	Up          key.Binding
	Down        key.Binding
	PrevPage    key.Binding
	NextPage    key.Binding
	FirstPage   key.Binding
	LastPage    key.Binding
	MorePerPage key.Binding
	LessPerPage key.Binding
	Copy        key.Binding
	Delete      key.Binding
	TOC         key.Binding
	Theme       key.Binding
	Refresh     key.Binding
	ScrollDown  key.Binding
	ScrollUp    key.Binding
	Jump        key.Binding
	Edit        key.Binding
	Help        key.Binding
	Back        key.Binding

	Confirm key.Binding
	Cancel  key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+s", "ctrl+j"),
		key.WithHelp("ctrl+s", "save note"),
	),
	NextFocus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next pane"),
	),
	PrevFocus: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous pane"),
	),
	ToggleTheme: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "theme"),
	),
	ToggleTOC: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "contents"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j", "down"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("h", "left", "pgup"),
		key.WithHelp("h", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("l", "right", "pgdown"),
		key.WithHelp("l", "next page"),
	),
	FirstPage: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first page"),
	),
	LastPage: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last page"),
	),
	MorePerPage: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "more per page"),
	),
	LessPerPage: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "fewer per page"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	TOC: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "contents"),
	),
	Theme: key.NewBinding(
		key.WithKeys("T"),
		key.WithHelp("T", "theme"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "scroll down"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "scroll up"),
	),
	Jump: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "jump to note"),
	),
	Edit: key.NewBinding(
		key.WithKeys("i", "esc"),
		key.WithHelp("i/esc", "editor"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "notes"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y", "enter"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n", "cancel"),
	),
}

// legend is the cheatsheet shown with the help panel.
func (k keyMap) legend() []key.Binding {
	return []key.Binding{
		k.Submit, k.NextFocus, k.Up, k.Down,
		k.PrevPage, k.NextPage, k.FirstPage, k.LastPage,
		k.MorePerPage, k.LessPerPage, k.Copy, k.Delete,
		k.TOC, k.Theme, k.Refresh, k.Jump,
		k.Edit, k.Help, k.Quit,
	}
}
