package tui

import "github.com/charmbracelet/bubbles/key"

// mapKeyMap defines key bindings for the main map screen
type mapKeyMap struct {
	TogglePlay  key.Binding
	GoToPoint   key.Binding
	AddFavorite key.Binding
	CenterMap   key.Binding
	ClearMarker key.Binding
	Up          key.Binding
	Down        key.Binding
	Jump        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k mapKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.TogglePlay, k.GoToPoint, k.AddFavorite, k.CenterMap, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k mapKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.TogglePlay, k.CenterMap, k.ClearMarker},
		{k.GoToPoint, k.AddFavorite},
		{k.Up, k.Down, k.Jump},
		{k.Help, k.Quit},
	}
}

// dialogKeyMap defines key bindings while a dialog has focus
type dialogKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k dialogKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Submit, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k dialogKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Submit, k.Cancel},
	}
}

func newMapKeyMap() mapKeyMap {
	return mapKeyMap{
		TogglePlay: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space/p", "play/stop"),
		),
		GoToPoint: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to point"),
		),
		AddFavorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "add favorite"),
		),
		CenterMap: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "center map"),
		),
		ClearMarker: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear marker"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Jump: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "go to favorite"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func newDialogKeyMap() dialogKeyMap {
	return dialogKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}
