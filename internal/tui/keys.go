package tui

import "github.com/charmbracelet/bubbles/v2/key"

// KeyMap defines the stepper key bindings
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Increment key.Binding
	Decrement key.Binding
	HoldUp    key.Binding
	HoldDown  key.Binding
	Release   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous line"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next line"),
		),
		Increment: key.NewBinding(
			key.WithKeys("+", "=", "right", "l"),
			key.WithHelp("+", "increment"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-", "left", "h"),
			key.WithHelp("-", "decrement"),
		),
		HoldUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "hold +"),
		),
		HoldDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "hold -"),
		),
		Release: key.NewBinding(
			key.WithKeys("space"),
			key.WithHelp("space", "release"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Increment, k.Decrement, k.HoldUp, k.HoldDown, k.Release, k.Help, k.Quit}
}
