package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the front panel key bindings.
type KeyMap struct {
	Step     key.Binding
	Run      key.Binding
	Reset    key.Binding
	CycleOp  key.Binding
	IncA     key.Binding
	DecA     key.Binding
	IncB     key.Binding
	DecB     key.Binding
	Compare  key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the standard front panel bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Step: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "step one tick"),
		),
		Run: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "free run"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		CycleOp: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle opcode"),
		),
		IncA: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "operand a +1"),
		),
		DecA: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "operand a -1"),
		),
		IncB: key.NewBinding(
			key.WithKeys(">", "."),
			key.WithHelp(">", "operand b +1"),
		),
		DecB: key.NewBinding(
			key.WithKeys("<", ","),
			key.WithHelp("<", "operand b -1"),
		),
		Compare: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "compare engines"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "trace up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "trace down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "trace page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "trace page down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
