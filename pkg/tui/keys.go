package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the board's key bindings.
type KeyMap struct {
	Summary key.Binding
	Next    key.Binding
	Prev    key.Binding

	Menu        key.Binding
	AutoRefresh key.Binding
	Refresh     key.Binding
	ChangeArea  key.Binding
	SignOut     key.Binding

	Submit    key.Binding
	Cancel    key.Binding
	UseStored key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap is the standard binding set.
var DefaultKeyMap = KeyMap{
	Summary: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "summary")),
	Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next")),
	Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev")),

	Menu:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
	AutoRefresh: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto refresh")),
	Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	ChangeArea:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "change area")),
	SignOut:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sign out")),

	Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	UseStored: key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "use previous area")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Summary, k.Menu, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Summary, k.Prev, k.Next},
		{k.Menu, k.AutoRefresh, k.Refresh, k.ChangeArea, k.SignOut},
		{k.Help, k.Quit},
	}
}
