package term

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the terminal UI shortcuts.
type KeyMap struct {
	Toggle         key.Binding
	Reset          key.Binding
	StartBreak     key.Binding
	SkipBreak      key.Binding
	Countdown      key.Binding
	ResetCountdown key.Binding
	Longer         key.Binding
	Shorter        key.Binding
	Sound          key.Binding
	Preset         key.Binding
	Help           key.Binding
	Quit           key.Binding
}

// DefaultKeyMap returns the default shortcuts.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "start/pause"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		StartBreak: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "break"),
		),
		SkipBreak: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip break"),
		),
		Countdown: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "countdown start/pause"),
		),
		ResetCountdown: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reset countdown"),
		),
		Longer: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "countdown +5m"),
		),
		Shorter: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "countdown -5m"),
		),
		Sound: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "focus sound"),
		),
		Preset: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "next preset"),
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

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Countdown, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.StartBreak, k.SkipBreak},
		{k.Countdown, k.ResetCountdown, k.Longer, k.Shorter},
		{k.Sound, k.Preset, k.Help, k.Quit},
	}
}
