// Package app wires the parsed configuration to the engine registry and
// dispatches the selected run mode: shell completion, one-shot compute,
// the interactive console, the terminal front panel or the HTTP server.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/alusim/internal/cli"
	"github.com/agbru/alusim/internal/comb"
	"github.com/agbru/alusim/internal/config"
	"github.com/agbru/alusim/internal/engine"
	apperrors "github.com/agbru/alusim/internal/errors"
	"github.com/agbru/alusim/internal/logging"
	"github.com/agbru/alusim/internal/server"
	"github.com/agbru/alusim/internal/tui"
	"github.com/agbru/alusim/internal/ui"
	"github.com/rs/zerolog"
)

// Application represents the alusim application instance.
type Application struct {
	Config    config.AppConfig
	Registry  *engine.Registry
	ErrWriter io.Writer
}

// AppOption customizes an Application before its configuration is
// parsed.
type AppOption func(*Application)

// WithRegistry sets a custom engine registry for the application.
func WithRegistry(r *engine.Registry) AppOption {
	return func(a *Application) { a.Registry = r }
}

// New creates a new Application instance by parsing command-line
// arguments. args carries the program name in args[0] the way os.Args
// does.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Registry == nil {
		app.Registry = engine.NewRegistry()
	}

	programName, cmdArgs := "alusim", []string(nil)
	if len(args) > 0 {
		programName, cmdArgs = args[0], args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(logging.NewLogger(errWriter, "config")); err != nil {
		fmt.Fprintf(errWriter, "Error: %v\n", err)
		return nil, err
	}

	app.Config = config.ApplyAdaptiveWorkers(cfg)
	return app, nil
}

// Run dispatches the configured mode and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	zerolog.SetGlobalLevel(logLevel(a.Config))
	ui.InitTheme(a.Config.NoColor)

	switch {
	case a.Config.Serve:
		return a.runServe(ctx)
	case a.Config.TUI:
		return a.runTUI(ctx)
	case a.Config.REPL:
		return a.runREPL(out)
	default:
		return a.runCompute(ctx, out)
	}
}

// logLevel maps the verbosity flags to a global log level.
func logLevel(cfg config.AppConfig) zerolog.Level {
	switch {
	case cfg.Quiet:
		return zerolog.ErrorLevel
	case cfg.Verbose:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// runCompletion writes the requested shell completion script.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Registry.List(), opcodeNames()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runServe starts the HTTP API server and blocks until a signal arrives
// or the listener fails.
func (a *Application) runServe(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	logger := logging.NewLogger(a.ErrWriter, "server")
	srv := server.New(a.Config.Addr, a.Registry, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server failed", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runTUI launches the interactive front panel. The panel runs until the
// user quits; the configured timeout bounds each in-panel comparison,
// not the session.
func (a *Application) runTUI(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	return tui.Run(ctx, a.Registry, a.Config, Version)
}

// runREPL starts the interactive console on standard input.
func (a *Application) runREPL(out io.Writer) int {
	repl := cli.NewREPL(a.Registry, cli.REPLConfig{
		Width:         a.Config.Width,
		DefaultEngine: a.Config.Engine,
		Timeout:       a.Config.Timeout,
		ShiftDir:      a.Config.ShiftDir,
		ShiftFill:     a.Config.ShiftFill,
		Trace:         a.Config.Trace,
	})
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// opcodeNames lists the defined operation mnemonics in wire order.
func opcodeNames() []string {
	ops := comb.Opcodes()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.String()
	}
	return names
}

// IsHelpError reports whether parsing stopped because -h or -help was
// requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
