package ui

import (
	"os"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named set of ANSI escape sequences, one per output role.
// A role may be empty, in which case callers emit no escape at all.
type Theme struct {
	Name      string
	Primary   string // accents and headings
	Secondary string // de-emphasized detail
	Success   string
	Warning   string
	Error     string
	Info      string
	Bold      string
	Underline string
	Reset     string
}

// ansi returns the escape sequence selecting color n from the 256-color
// palette.
func ansi(n int) string {
	return "\033[38;5;" + strconv.Itoa(n) + "m"
}

const (
	escBold      = "\033[1m"
	escUnderline = "\033[4m"
	escReset     = "\033[0m"
)

var (
	// DarkTheme suits dark terminal backgrounds; bright saturated tones.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   ansi(39),  // bright blue
		Secondary: ansi(245), // grey
		Success:   ansi(82),  // bright green
		Warning:   ansi(220), // yellow
		Error:     ansi(196), // red
		Info:      ansi(141), // purple
		Bold:      escBold,
		Underline: escUnderline,
		Reset:     escReset,
	}

	// LightTheme darkens every role for light backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   ansi(27),  // dark blue
		Secondary: ansi(240), // dark grey
		Success:   ansi(28),  // dark green
		Warning:   ansi(130), // orange
		Error:     ansi(124), // dark red
		Info:      ansi(54),  // dark purple
		Bold:      escBold,
		Underline: escUnderline,
		Reset:     escReset,
	}

	// ScopeTheme leans on phosphor green, matching the front panel.
	ScopeTheme = Theme{
		Name:      "scope",
		Primary:   ansi(46),  // phosphor green
		Secondary: ansi(245), // grey
		Success:   ansi(82),  // bright green
		Warning:   ansi(214), // amber
		Error:     ansi(196), // red
		Info:      ansi(51),  // cyan
		Bold:      escBold,
		Underline: escUnderline,
		Reset:     escReset,
	}

	// NoColorTheme leaves every role empty so no escapes are written.
	NoColorTheme = Theme{Name: "none"}
)

// themesByName resolves a -theme flag value. Unknown names fall back
// to the dark theme.
var themesByName = map[string]Theme{
	"dark":  DarkTheme,
	"light": LightTheme,
	"scope": ScopeTheme,
	"none":  NoColorTheme,
}

var (
	themeMutex   sync.RWMutex
	currentTheme = DarkTheme
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme installs t as the active theme. Tests use it to
// restore the previous theme on cleanup.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme activates the named theme: "dark", "light", "scope" or
// "none". Anything else selects dark.
func SetTheme(name string) {
	theme, ok := themesByName[name]
	if !ok {
		theme = DarkTheme
	}
	SetCurrentTheme(theme)
}

// InitTheme picks the startup theme. The -no-color flag wins, then the
// NO_COLOR environment variable (any value, per no-color.org), then
// dark.
func InitTheme(noColor bool) {
	if _, envSet := os.LookupEnv("NO_COLOR"); noColor || envSet {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}

// TUITheme carries the lipgloss colors of the front panel. Styles pass
// the fields straight to Foreground and Background.
type TUITheme struct {
	Bg      lipgloss.TerminalColor
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
}

var (
	// DarkTUITheme is the phosphor-green panel palette.
	DarkTUITheme = TUITheme{
		Bg:      lipgloss.Color("#0A0F0A"),
		Text:    lipgloss.Color("#D8E8D8"),
		Border:  lipgloss.Color("#00CC44"),
		Accent:  lipgloss.Color("#33FF66"),
		Success: lipgloss.Color("#7BE87B"),
		Warning: lipgloss.Color("#E8C35A"),
		Error:   lipgloss.Color("#F05050"),
		Dim:     lipgloss.Color("#5A6A5A"),
		Info:    lipgloss.Color("#44DDFF"),
	}

	// NoColorTUITheme renders the panel with the terminal defaults.
	NoColorTUITheme = monoTUITheme()
)

func monoTUITheme() TUITheme {
	n := lipgloss.NoColor{}
	return TUITheme{Bg: n, Text: n, Border: n, Accent: n, Success: n, Warning: n, Error: n, Dim: n, Info: n}
}

// GetCurrentTUITheme maps the active theme onto a panel palette. Only
// the no-color theme changes the mapping; every colored theme uses the
// dark panel palette.
func GetCurrentTUITheme() TUITheme {
	if GetCurrentTheme().Name == NoColorTheme.Name {
		return NoColorTUITheme
	}
	return DarkTUITheme
}
