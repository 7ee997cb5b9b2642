package cli

import (
	"fmt"
	"io"
	"strings"
)

// ArgKind classifies what a flag's value completes to.
type ArgKind int

const (
	// ArgNone marks a boolean flag that takes no value.
	ArgNone ArgKind = iota
	// ArgFree takes a value but offers no suggestions.
	ArgFree
	// ArgStatic completes from the entry's Values list.
	ArgStatic
	// ArgEngine completes from the registered engine names.
	ArgEngine
	// ArgOpcode completes from the operation mnemonics.
	ArgOpcode
	// ArgFile completes filesystem paths.
	ArgFile
)

// FlagCompletion describes one CLI flag for completion generation. All
// three shells render from the same registry, so a new flag only needs
// a registry entry here.
type FlagCompletion struct {
	Long      string
	Short     string
	Help      string
	ZshHelp   string // richer description for zsh, falls back to Help
	Arg       ArgKind
	Values    []string // suggestions when Arg is ArgStatic
	ValueName string   // zsh placeholder label, e.g. "bits"
	Section   string   // fish section comment; entries sharing one must be adjacent
}

// flagRegistry lists every CLI flag. Fish groups entries under their
// Section comment in this order.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show usage help", Section: "Help and version"},
	{Long: "version", Short: "V", Help: "Print version and exit", Section: "Help and version"},

	{Long: "width", Short: "w", Help: "Operand width in bits", ZshHelp: "Operand width in bits (2-1024)", Arg: ArgStatic, Values: []string{"4", "8", "16", "32", "64", "128", "256", "512", "1024"}, ValueName: "bits", Section: "Operation"},
	{Long: "sets", Help: "Lanes for batch runs", Arg: ArgStatic, Values: []string{"1", "2", "4", "8", "16", "64", "256"}, ValueName: "lanes", Section: "Operation"},
	{Long: "op", Help: "Operation mnemonic", Arg: ArgOpcode, ValueName: "operation", Section: "Operation"},
	{Short: "a", Help: "Operand A", ZshHelp: "Operand A literal (decimal, 0b, 0o or 0x)", Arg: ArgFree, ValueName: "value", Section: "Operation"},
	{Short: "b", Help: "Operand B or shift amount", ZshHelp: "Operand B literal or shift amount", Arg: ArgFree, ValueName: "value", Section: "Operation"},
	{Long: "dir", Help: "Shift direction", Arg: ArgStatic, Values: []string{"left", "right"}, ValueName: "direction", Section: "Operation"},
	{Long: "fill", Help: "Fill bit for logical shifts", Section: "Operation"},

	{Long: "engine", Short: "e", Help: "Engine to run", Arg: ArgEngine, ValueName: "engine", Section: "Execution"},
	{Long: "timeout", Help: "Global timeout for the run", Arg: ArgStatic, Values: []string{"10s", "30s", "1m", "5m", "10m"}, ValueName: "duration", Section: "Execution"},
	{Long: "workers", Help: "Goroutines for lane fan-out", Arg: ArgStatic, Values: []string{"1", "2", "4", "8", "16"}, ValueName: "count", Section: "Execution"},

	{Long: "verbose", Short: "v", Help: "Display full bus values", Section: "Output"},
	{Long: "details", Short: "d", Help: "Show tick and throughput details", Section: "Output"},
	{Long: "quiet", Short: "q", Help: "Suppress progress display", Section: "Output"},
	{Long: "trace", Help: "Print per-tick controller state", Section: "Output"},
	{Long: "output", Short: "o", Help: "Append results to a file", Arg: ArgFile, ValueName: "file", Section: "Output"},
	{Long: "no-color", Help: "Disable ANSI colors", Section: "Output"},

	{Long: "repl", Help: "Start the interactive console", Section: "Modes"},
	{Long: "tui", Help: "Start the terminal front panel", Section: "Modes"},
	{Long: "serve", Help: "Start the HTTP API server", Section: "Modes"},
	{Long: "addr", Help: "Listen address for the server", Arg: ArgFree, ValueName: "address", Section: "Modes"},

	{Long: "completion", Help: "Print a completion script", Arg: ArgStatic, Values: []string{"bash", "zsh", "fish"}, ValueName: "shell", Section: "Completion"},
}

// flagKey returns the name used for lookups, preferring the long form.
func flagKey(f FlagCompletion) string {
	if f.Long != "" {
		return f.Long
	}
	return f.Short
}

// spellings returns the flag's command line forms, long form first.
func (f FlagCompletion) spellings() []string {
	var s []string
	if f.Long != "" {
		s = append(s, "--"+f.Long)
	}
	if f.Short != "" {
		s = append(s, "-"+f.Short)
	}
	return s
}

// GenerateCompletion writes a completion script for shell to out. The
// engine and opcode lists come from the caller so the scripts offer
// whatever is actually registered. Supported shells: bash, zsh, fish.
func GenerateCompletion(out io.Writer, shell string, engines, opcodes []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, engines, opcodes)
	case "zsh":
		return generateZshCompletion(out, engines, opcodes)
	case "fish":
		return generateFishCompletion(out, engines, opcodes)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
}

// generateBashCompletion renders the bash script. Every value-taking
// flag becomes a case entry keyed on the previous word; flags that
// complete paths share a single entry at the end.
func generateBashCompletion(out io.Writer, engines, opcodes []string) error {
	var opts, fileFlags []string
	var cases strings.Builder

	addCase := func(patterns []string, reply string) {
		fmt.Fprintf(&cases, "        %s)\n            %s\n            return 0\n            ;;\n",
			strings.Join(patterns, "|"), reply)
	}
	fromWords := func(words string) string {
		return fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, words)
	}

	for _, f := range flagRegistry {
		opts = append(opts, f.spellings()...)
		switch f.Arg {
		case ArgEngine:
			addCase(f.spellings(), fromWords("${engines}"))
		case ArgOpcode:
			addCase(f.spellings(), fromWords("${opcodes}"))
		case ArgStatic:
			addCase(f.spellings(), fromWords(strings.Join(f.Values, " ")))
		case ArgFile:
			fileFlags = append(fileFlags, f.spellings()...)
		}
	}
	if len(fileFlags) > 0 {
		addCase(fileFlags, `COMPREPLY=( $(compgen -f -- "${cur}") )`)
	}

	script := fmt.Sprintf(`# Bash completion script for alusim
# Add this to your ~/.bashrc or ~/.bash_completion

_alusim_completions() {
    local cur prev opts engines opcodes
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"

    engines="%s all"
    opcodes="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _alusim_completions alusim
`, strings.Join(opts, " "), strings.Join(engines, " "), strings.Join(opcodes, " "), cases.String())

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("render bash completion: %w", err)
	}
	return nil
}

// generateZshCompletion renders the zsh script as one _arguments call.
func generateZshCompletion(out io.Writer, engines, opcodes []string) error {
	entries := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		entries = append(entries, "        "+zshArgLine(f))
	}

	script := fmt.Sprintf(`#compdef alusim

# Zsh completion script for alusim
# Add this to your ~/.zshrc or place in $fpath

_alusim() {
    local -a engines opcodes
    engines=(%s all)
    opcodes=(%s)

    _arguments -s \
%s
}

_alusim "$@"
`, strings.Join(engines, " "), strings.Join(opcodes, " "), strings.Join(entries, " \\\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("render zsh completion: %w", err)
	}
	return nil
}

// zshArgLine renders one _arguments spec for a flag.
func zshArgLine(f FlagCompletion) string {
	help := f.Help
	if f.ZshHelp != "" {
		help = f.ZshHelp
	}

	var value string
	switch f.Arg {
	case ArgFile:
		value = ":" + f.ValueName + ":_files"
	case ArgEngine:
		value = ":" + f.ValueName + ":($engines)"
	case ArgOpcode:
		value = ":" + f.ValueName + ":($opcodes)"
	case ArgStatic:
		value = ":" + f.ValueName + ":(" + strings.Join(f.Values, " ") + ")"
	case ArgFree:
		value = ":" + f.ValueName + ":"
	}

	switch {
	case f.Long != "" && f.Short != "":
		return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, help, value)
	case f.Long != "":
		return fmt.Sprintf("'--%s[%s]%s'", f.Long, help, value)
	default:
		return fmt.Sprintf("'-%s[%s]%s'", f.Short, help, value)
	}
}

// generateFishCompletion renders one complete command per flag, with a
// comment whenever the registry section changes.
func generateFishCompletion(out io.Writer, engines, opcodes []string) error {
	var b strings.Builder
	b.WriteString("# Fish completion script for alusim\n")
	b.WriteString("# Add this to ~/.config/fish/completions/alusim.fish\n\n")
	b.WriteString("# Disable file completion by default\n")
	b.WriteString("complete -c alusim -f\n")

	section := ""
	for _, f := range flagRegistry {
		if f.Section != section {
			section = f.Section
			b.WriteString("\n# " + section + "\n")
		}
		b.WriteString(fishLine(f, engines, opcodes))
		b.WriteString("\n")
	}

	if _, err := fmt.Fprint(out, b.String()); err != nil {
		return fmt.Errorf("render fish completion: %w", err)
	}
	return nil
}

// fishLine renders one fish complete command for a flag.
func fishLine(f FlagCompletion, engines, opcodes []string) string {
	parts := []string{"complete -c alusim"}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	if f.Long != "" {
		parts = append(parts, "-l "+f.Long)
	}
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))

	switch f.Arg {
	case ArgFile:
		parts = append(parts, "-rF")
	case ArgEngine:
		parts = append(parts, fmt.Sprintf("-xa '%s all'", strings.Join(engines, " ")))
	case ArgOpcode:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(opcodes, " ")))
	case ArgStatic:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case ArgFree:
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}
