// Package app runs the interactive editcontext demo. It wires the engine
// to a terminal screen, the terminal renderer and the input surface, and
// serializes input, config reloads and painting onto one loop.
package app

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/dshills/editcontext/internal/config"
	"github.com/dshills/editcontext/internal/engine"
	"github.com/dshills/editcontext/internal/input"
	"github.com/dshills/editcontext/internal/logging"
	"github.com/dshills/editcontext/internal/render"
	"github.com/dshills/editcontext/internal/terminal"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// Debug forces debug logging.
	Debug bool

	// Watch reloads ConfigPath when it changes.
	Watch bool
}

// Option injects a component, mainly for tests.
type Option func(*Application)

// WithScreen uses screen instead of opening the terminal.
func WithScreen(screen *terminal.Screen) Option {
	return func(app *Application) {
		app.screen = screen
	}
}

// WithConfig uses cfg instead of loading Options.ConfigPath.
func WithConfig(cfg *config.Config) Option {
	return func(app *Application) {
		app.cfg = cfg
	}
}

// WithLogger uses logger instead of the one described by the config.
func WithLogger(logger *log.Logger) Option {
	return func(app *Application) {
		app.logger = logger
	}
}

// Application is the interactive editor.
type Application struct {
	opts Options
	cfg  *config.Config

	logger  *log.Logger
	logFile io.Closer

	// Editor components
	screen   *terminal.Screen
	renderer *render.Terminal
	engine   *engine.Engine
	surface  *input.Surface

	watcher *config.Watcher
	metrics *Metrics

	running atomic.Bool
}

// New creates an Application. The terminal is not touched until Run.
func New(opts Options, appOpts ...Option) (*Application, error) {
	app := &Application{
		opts:    opts,
		metrics: NewMetrics(),
	}
	for _, o := range appOpts {
		o(app)
	}

	if err := app.bootstrap(); err != nil {
		app.closeLog()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	if app.cfg == nil {
		cfg, err := config.Load(app.opts.ConfigPath)
		if err != nil {
			return &InitError{Component: "config", Err: err}
		}
		app.cfg = cfg
	}
	if app.opts.Debug {
		app.cfg.Log.Level = "debug"
	}

	// 2. Logging
	if app.logger == nil {
		logger, err := app.openLog()
		if err != nil {
			return &InitError{Component: "log", Err: err}
		}
		app.logger = logger
	}

	// 3. Screen
	if app.screen == nil {
		screen, err := terminal.NewScreen()
		if err != nil {
			return &InitError{Component: "screen", Err: err}
		}
		app.screen = screen
	}

	// 4. Renderer, engine, input
	app.renderer = render.NewTerminal(app.screen, app.cfg.RenderOptions())
	engOpts := append(app.cfg.EngineOptions(),
		engine.WithRenderSync(app.renderer),
		engine.WithLogger(app.logger),
	)
	app.engine = engine.New(engOpts...)
	app.surface = input.NewSurface(input.WithLogger(app.logger))

	app.logger.Debug("application initialized",
		logging.FieldSession, app.engine.SessionID().String(),
		logging.FieldPolicy, app.cfg.Editor.PlaceholderPolicy,
		logging.FieldPath, app.opts.ConfigPath,
	)
	return nil
}

// openLog creates the logger described by the config. Without a log file
// output is discarded, since the terminal belongs to the editor.
func (app *Application) openLog() (*log.Logger, error) {
	if app.cfg.Log.File == "" {
		return logging.Discard(), nil
	}
	f, err := os.OpenFile(app.cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	app.logFile = f
	return logging.NewWithWriter(f, app.cfg.Log.Level), nil
}

func (app *Application) closeLog() {
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Engine returns the edit engine.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// Surface returns the input surface.
func (app *Application) Surface() *input.Surface {
	return app.surface
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Metrics returns the event loop metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}
