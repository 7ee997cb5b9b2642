// Environment overrides for configuration fields left at their defaults
// on the command line.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// envOverride binds one ALUSIM_ variable to the flag names that shadow it
// and a parser that writes the value into the config.
type envOverride struct {
	key   string
	flags []string
	apply func(*AppConfig, string)
}

// The env* constructors below build table entries per value type. Each takes
// a field selector rather than a plain setter so the boolean parser can read
// the current value and keep it when the variable holds garbage.

func envInt(key string, field func(*AppConfig) *int, flags ...string) envOverride {
	return envOverride{key, flags, func(c *AppConfig, raw string) {
		if n, err := strconv.Atoi(raw); err == nil {
			*field(c) = n
		}
	}}
}

func envDuration(key string, field func(*AppConfig) *time.Duration, flags ...string) envOverride {
	return envOverride{key, flags, func(c *AppConfig, raw string) {
		if d, err := time.ParseDuration(raw); err == nil {
			*field(c) = d
		}
	}}
}

func envString(key string, field func(*AppConfig) *string, flags ...string) envOverride {
	return envOverride{key, flags, func(c *AppConfig, raw string) {
		*field(c) = raw
	}}
}

func envBool(key string, field func(*AppConfig) *bool, flags ...string) envOverride {
	return envOverride{key, flags, func(c *AppConfig, raw string) {
		p := field(c)
		*p = parseBoolEnv(raw, *p)
	}}
}

// envOverrides lists every supported ALUSIM_ variable together with the CLI
// flags (long and short forms) that take precedence over it.
var envOverrides = []envOverride{
	envInt("WIDTH", func(c *AppConfig) *int { return &c.Width }, "width", "w"),
	envInt("SETS", func(c *AppConfig) *int { return &c.Sets }, "sets"),
	envInt("WORKERS", func(c *AppConfig) *int { return &c.Workers }, "workers"),

	envDuration("TIMEOUT", func(c *AppConfig) *time.Duration { return &c.Timeout }, "timeout"),

	envString("OP", func(c *AppConfig) *string { return &c.Op }, "op"),
	envString("A", func(c *AppConfig) *string { return &c.OperandA }, "a"),
	envString("B", func(c *AppConfig) *string { return &c.OperandB }, "b"),
	envString("DIR", func(c *AppConfig) *string { return &c.ShiftDir }, "dir"),
	envString("ENGINE", func(c *AppConfig) *string { return &c.Engine }, "engine", "e"),
	envString("ADDR", func(c *AppConfig) *string { return &c.Addr }, "addr"),
	envString("OUTPUT", func(c *AppConfig) *string { return &c.OutputFile }, "output", "o"),
	envString("COMPLETION", func(c *AppConfig) *string { return &c.Completion }, "completion"),

	envBool("FILL", func(c *AppConfig) *bool { return &c.ShiftFill }, "fill"),
	envBool("VERBOSE", func(c *AppConfig) *bool { return &c.Verbose }, "verbose", "v"),
	envBool("DETAILS", func(c *AppConfig) *bool { return &c.Details }, "details", "d"),
	envBool("QUIET", func(c *AppConfig) *bool { return &c.Quiet }, "quiet", "q"),
	envBool("TRACE", func(c *AppConfig) *bool { return &c.Trace }, "trace"),
	envBool("REPL", func(c *AppConfig) *bool { return &c.REPL }, "repl"),
	envBool("TUI", func(c *AppConfig) *bool { return &c.TUI }, "tui"),
	envBool("SERVE", func(c *AppConfig) *bool { return &c.Serve }, "serve"),
	envBool("NO_COLOR", func(c *AppConfig) *bool { return &c.NoColor }, "no-color"),
}

// parseBoolEnv maps the accepted spellings "true", "1", "yes" and "false",
// "0", "no" (case-insensitive) to bool. Anything else keeps fallback.
func parseBoolEnv(raw string, fallback bool) bool {
	switch strings.ToLower(raw) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}

// flagExplicit reports whether any of the named flags appeared on the
// command line, as opposed to merely holding its default value.
func flagExplicit(fs *flag.FlagSet, names ...string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				set = true
			}
		}
	})
	return set
}

// applyEnvOverrides resolves the precedence CLI flag > ALUSIM_ variable >
// built-in default for every entry in envOverrides.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if flagExplicit(fs, o.flags...) {
			continue
		}
		if raw := os.Getenv(EnvPrefix + o.key); raw != "" {
			o.apply(config, raw)
		}
	}
}
