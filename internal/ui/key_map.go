package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	tab     key.Binding
	enter   key.Binding
	back    key.Binding
	run     key.Binding
	pause   key.Binding
	resume  key.Binding
	create  key.Binding
	refresh key.Binding
	next    key.Binding
	prev    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		run:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run")),
		pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		resume:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "resume")),
		create:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new job")),
		refresh: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		next:    key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prev:    key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.tab, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.tab, k.enter, k.back},
		{k.run, k.pause, k.resume, k.create},
		{k.refresh, k.quit},
	}
}
