package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle  key.Binding
	Back    key.Binding
	Forward key.Binding
	Reset   key.Binding
	Faster  key.Binding
	Slower  key.Binding
	Mode    key.Binding
	Size    key.Binding
	Define  key.Binding
	Copy    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
	Back:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "back")),
	Forward: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "forward")),
	Reset:   key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "reset")),
	Faster:  key.NewBinding(key.WithKeys("up", "+", "="), key.WithHelp("↑/+", "faster")),
	Slower:  key.NewBinding(key.WithKeys("down", "-"), key.WithHelp("↓/-", "slower")),
	Mode:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "words/sentences")),
	Size:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "group size")),
	Define:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "define")),
	Copy:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "Q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Faster, k.Slower, k.Back, k.Forward, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Back, k.Forward, k.Reset},
		{k.Faster, k.Slower, k.Mode, k.Size},
		{k.Define, k.Copy, k.Help, k.Quit},
	}
}
