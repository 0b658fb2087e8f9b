package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	left    key.Binding
	right   key.Binding
	next    key.Binding
	prev    key.Binding
	enter   key.Binding
	toggle  key.Binding
	all     key.Binding
	back    key.Binding
	refresh key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "decrease")),
		right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "increase")),
		next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next page")),
		prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev page")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle genre")),
		all:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all genres")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "menu")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right},
		{k.next, k.prev, k.enter, k.back},
		{k.toggle, k.all, k.refresh, k.quit},
	}
}
