package walk

import "github.com/charmbracelet/bubbles/key"

// keyMap maps keys to controller actions. Next triggers whatever affordance
// the current view declares.
type keyMap struct {
	Next       key.Binding
	NextTyping key.Binding
	Pick       key.Binding
	Select     key.Binding
	Retry      key.Binding
	Scroll     key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("enter", "n", "right"),
			key.WithHelp("enter", "next"),
		),
		NextTyping: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "next"),
		),
		Pick: key.NewBinding(
			key.WithKeys("m", "esc"),
			key.WithHelp("m", "modules"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("up", "down", "pgup", "pgdown"),
			key.WithHelp("↑/↓", "scroll"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Pick, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.NextTyping, k.Select},
		{k.Pick, k.Retry, k.Scroll},
		{k.Quit},
	}
}
