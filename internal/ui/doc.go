// Package ui provides theme and color support for the simulator's user
// interfaces. It defines ANSI color schemes for the CLI and REPL plus the
// lipgloss palette used by the TUI front panel.
//
// This package is designed to be a shared dependency for packages that need
// color output, reducing coupling between the datapath code and presentation.
package ui
