package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/editcontext/internal/config"
	"github.com/dshills/editcontext/internal/engine"
	"github.com/dshills/editcontext/internal/logging"
	"github.com/dshills/editcontext/internal/terminal"
)

// Run initializes the screen and processes events until the user quits or
// ctx is cancelled. A user quit returns nil.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)
	defer app.closeLog()

	if err := app.screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	defer app.screen.Shutdown()

	var (
		updates    <-chan *config.Config
		reloadErrs <-chan error
	)
	if app.opts.Watch && app.opts.ConfigPath != "" {
		w, err := config.NewWatcher(app.opts.ConfigPath, config.WithWatcherLogger(app.logger))
		if err != nil {
			app.logger.Warn("config watcher unavailable", logging.FieldError, err)
		} else {
			app.watcher = w
			defer w.Close()
			updates, reloadErrs = w.Updates(), w.Errors()
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	events := make(chan terminal.Event, 64)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.pollLoop(ctx, events)
	}()
	defer func() {
		cancel()
		app.screen.Interrupt()
		wg.Wait()
	}()

	app.surface.Sync(app.engine.Resync())
	app.logger.Info("editor started", logging.FieldSession, app.engine.SessionID().String())

	err := app.eventLoop(ctx, events, updates, reloadErrs)
	app.logSummary()
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// pollLoop forwards screen events until the screen is finalized or ctx is
// done.
func (app *Application) pollLoop(ctx context.Context, events chan<- terminal.Event) {
	for {
		ev, ok := app.screen.PollEvent()
		if !ok || ctx.Err() != nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// eventLoop is the main application loop. Everything touching the engine
// runs here.
func (app *Application) eventLoop(
	ctx context.Context,
	events <-chan terminal.Event,
	updates <-chan *config.Config,
	reloadErrs <-chan error,
) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			if err := app.handleEvent(ev); err != nil {
				return err
			}

		case cfg, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			app.applyConfig(cfg)

		case err, ok := <-reloadErrs:
			if !ok {
				reloadErrs = nil
				continue
			}
			app.logger.Warn("config reload rejected", logging.FieldError, err)
		}
	}
}

// handleEvent processes a terminal event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleEvent(ev terminal.Event) error {
	app.metrics.RecordInput()

	switch ev.Type {
	case terminal.EventKey:
		if ev.Key == terminal.KeyCtrlC || ev.Key == terminal.KeyCtrlQ {
			return ErrQuit
		}
	case terminal.EventResize:
		app.renderer.Redraw()
		return nil
	case terminal.EventFocus:
		app.logger.Debug("focus changed", "focused", ev.Focused)
		return nil
	case terminal.EventInterrupt, terminal.EventNone:
		return nil
	}

	app.surface.Dispatch(ev, app.apply)
	return nil
}

// apply runs one edit event through the engine. A rejected edit rings the
// terminal bell.
func (app *Application) apply(ev engine.Event) engine.Result {
	start := time.Now()
	res := app.engine.Apply(ev)
	elapsed := time.Since(start)

	if _, ok := ev.(engine.CharacterBoundsQuery); ok {
		app.metrics.RecordQuery()
		return res
	}

	rejected := errors.Is(res.Fault, engine.ErrRangeViolation)
	app.metrics.RecordEdit(elapsed, rejected)
	if rejected {
		app.screen.Beep()
	}
	return res
}

// applyConfig applies the live-reloadable part of cfg. Editor settings only
// affect new engines.
func (app *Application) applyConfig(cfg *config.Config) {
	if app.opts.Debug {
		cfg.Log.Level = "debug"
	}
	logging.SetLoggerLevel(app.logger, cfg.Log.Level)
	app.renderer.SetOptions(cfg.RenderOptions())

	if cfg.Editor != app.cfg.Editor {
		app.logger.Info("editor settings changed; they apply to the next session")
	}
	app.cfg = cfg
	app.metrics.RecordReload()
	app.logger.Info("configuration applied", logging.FieldLevel, cfg.Log.Level)
}

func (app *Application) logSummary() {
	m := app.metrics.Snapshot()
	app.logger.Info("editor stopped",
		"uptime", m.Uptime.Round(time.Millisecond),
		"inputs", m.InputCount,
		"edits", m.EditCount,
		"queries", m.QueryCount,
		logging.FieldFaults, m.FaultCount,
		"fault_rate", fmt.Sprintf("%.1f%%", m.FaultRate()),
		"avg_edit", time.Duration(m.AvgEditNs),
		"reloads", m.ReloadCount,
	)
}
