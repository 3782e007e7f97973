// Package app wires the pieces of the argument pipeline together: manifest
// loading, converter registration, registry finalize, and the parse
// entrypoint. Startup problems are configuration errors and panic; callers
// at the process boundary recover them into a clean exit.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/selfdocumentingcode/cmdargs/converters/temporal"
	"github.com/selfdocumentingcode/cmdargs/internal/convert"
	"github.com/selfdocumentingcode/cmdargs/internal/ctxlog"
	"github.com/selfdocumentingcode/cmdargs/internal/cursor"
	"github.com/selfdocumentingcode/cmdargs/internal/events"
	"github.com/selfdocumentingcode/cmdargs/internal/manifest"
	"github.com/selfdocumentingcode/cmdargs/internal/metadata"
	"github.com/selfdocumentingcode/cmdargs/internal/parse"
	"github.com/selfdocumentingcode/cmdargs/internal/resolve"
)

// App encapsulates one fully wired argument pipeline instance.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	model    *metadata.Model
	registry *convert.Registry
	bus      *events.Bus[*parse.Failure]
	parser   *parse.Parser
}

// NewApp loads manifests, registers converters, and finalizes the registry.
// It returns a ready-to-parse App or panics on any configuration error.
func NewApp(outW io.Writer, cfg *Config, loader *manifest.Loader, modules ...convert.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.ManifestPath)
	if err != nil {
		panic(fmt.Errorf("failed to load command manifests: %w", err))
	}

	container := resolve.NewContainer()
	container.Provide(temporal.SystemClock{})

	registry := convert.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(ctx, registry)
	}
	logger.Debug("All converter modules registered.", "count", len(modules))

	if err := registry.Finalize(ctx, container); err != nil {
		// Mismatch between registered converters and their wiring is a
		// startup error, not something to parse around.
		panic(err)
	}

	bus := events.NewBus(cfg.EventBuffer, func(f *parse.Failure) {
		logger.Error("Command argument parsing failed.",
			"command", f.Command.Name,
			"parameter", f.Parameter.Name,
			"error", f.Error())
	})

	return &App{
		outW:     outW,
		logger:   logger,
		model:    model,
		registry: registry,
		bus:      bus,
		parser:   parse.New(registry, bus, nil),
	}
}

// ParseLine tokenizes an invocation line against the named command and runs
// the parser. An unknown command name is an error; a parse failure is not —
// it has already been pushed to the event bus, and ok is false.
func (a *App) ParseLine(ctx context.Context, commandName, line string) (*parse.Context, bool, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	command, found := a.model.Lookup(commandName)
	if !found {
		return nil, false, fmt.Errorf("unknown command %q", commandName)
	}

	cur := cursor.NewText(command, line)
	cmdCtx, ok := a.parser.Parse(ctx, cur, line)
	return cmdCtx, ok, nil
}

// Model returns the loaded command model.
func (a *App) Model() *metadata.Model {
	return a.model
}

// Registry returns the finalized converter registry. Primarily for tests.
func (a *App) Registry() *convert.Registry {
	return a.registry
}

// Close drains the event bus. Call once, after the last parse.
func (a *App) Close() {
	a.bus.Close()
}
