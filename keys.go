package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	ForceQuit   key.Binding
	NextPane    key.Binding
	PrevPane    key.Binding
	Up          key.Binding
	Down        key.Binding
	Submit      key.Binding
	Toggle      key.Binding
	Copy        key.Binding
	Open        key.Binding
	Clear       key.Binding
	Gallery     key.Binding
	Torch       key.Binding
	Help        key.Binding
	Back        key.Binding
	RecentDir   key.Binding
	PickCurrent key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		PrevPane: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev pane"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "scan / open"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		Clear: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear history"),
		),
		Gallery: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "gallery"),
		),
		Torch: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "torch"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1", "?"),
			key.WithHelp("?/f1", "about"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		RecentDir: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "recent folder"),
		),
		PickCurrent: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open / scan image"),
		),
	}
}

func (k keyMap) mainHelp(p pane) []key.Binding {
	switch p {
	case paneHistory:
		return []key.Binding{k.Up, k.Down, k.Submit, k.Copy, k.Clear, k.NextPane, k.Gallery, k.Help, k.Quit}
	case paneSettings:
		return []key.Binding{k.Up, k.Down, k.Toggle, k.NextPane, k.Gallery, k.Help, k.Quit}
	default:
		return []key.Binding{k.Submit, k.NextPane, k.Gallery, k.Torch, k.Help, k.ForceQuit}
	}
}

func (k keyMap) resultHelp() []key.Binding {
	return []key.Binding{k.Copy, k.Open, k.Back}
}

func (k keyMap) galleryHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PickCurrent, k.RecentDir, k.Back}
}
