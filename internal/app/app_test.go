package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/editcontext/internal/config"
	"github.com/dshills/editcontext/internal/engine"
	"github.com/dshills/editcontext/internal/logging"
	"github.com/dshills/editcontext/internal/terminal"
)

const runTimeout = 5 * time.Second

func newTestApp(t *testing.T, cfg *config.Config) (*Application, tcell.SimulationScreen) {
	t.Helper()
	screen, sim := terminal.NewSimulation(40, 5)
	if cfg == nil {
		cfg = config.Default()
	}
	app, err := New(Options{}, WithScreen(screen), WithConfig(cfg), WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return app, sim
}

func runAsync(ctx context.Context, app *Application) <-chan error {
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	return done
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(runTimeout):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestRunTypesAndQuits(t *testing.T) {
	app, sim := newTestApp(t, nil)
	done := runAsync(context.Background(), app)

	sim.InjectKey(tcell.KeyRune, 'h', tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'i', tcell.ModNone)
	sim.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)

	if err := wait(t, done); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	snap := app.Engine().Snapshot()
	if snap.Text != "hi" {
		t.Errorf("Text = %q, want %q", snap.Text, "hi")
	}
	if snap.SelectionStart != 2 || snap.SelectionEnd != 2 {
		t.Errorf("selection = [%d:%d), want [2:2)", snap.SelectionStart, snap.SelectionEnd)
	}
	if app.IsRunning() {
		t.Error("IsRunning() after Run returned")
	}

	m := app.Metrics().Snapshot()
	// Two TextUpdates, each followed by a caret bounds query.
	if m.EditCount != 2 {
		t.Errorf("EditCount = %d, want 2", m.EditCount)
	}
	if m.QueryCount != 2 {
		t.Errorf("QueryCount = %d, want 2", m.QueryCount)
	}
}

func TestRunContextCancel(t *testing.T) {
	app, _ := newTestApp(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, app)

	cancel()

	if err := wait(t, done); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunAlreadyRunning(t *testing.T) {
	app, sim := newTestApp(t, nil)
	done := runAsync(context.Background(), app)

	deadline := time.Now().Add(runTimeout)
	for !app.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if err := app.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() error = %v, want ErrAlreadyRunning", err)
	}

	sim.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	if err := wait(t, done); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestHandleEventQuitKeys(t *testing.T) {
	app, _ := newTestApp(t, nil)

	for _, k := range []terminal.Key{terminal.KeyCtrlC, terminal.KeyCtrlQ} {
		if err := app.handleEvent(terminal.KeyEvent(k, 0, terminal.ModCtrl)); !errors.Is(err, ErrQuit) {
			t.Errorf("handleEvent(%v) = %v, want ErrQuit", k, err)
		}
	}
}

func TestHandleEventIME(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.Placeholder = ""
	app, _ := newTestApp(t, cfg)
	app.surface.Sync(app.engine.Snapshot())

	for _, ev := range []terminal.Event{
		terminal.KeyEvent(terminal.KeyCtrlSpace, 0, terminal.ModNone),
		terminal.RuneEvent('k'),
		terminal.RuneEvent('a'),
	} {
		if err := app.handleEvent(ev); err != nil {
			t.Fatalf("handleEvent() error = %v", err)
		}
	}
	if app.engine.State() != engine.StateComposing {
		t.Fatalf("State() = %v, want composing", app.engine.State())
	}

	if err := app.handleEvent(terminal.KeyEvent(terminal.KeyEnter, 0, terminal.ModNone)); err != nil {
		t.Fatalf("handleEvent() error = %v", err)
	}
	if got := app.engine.Snapshot().Text; got != "ka" {
		t.Errorf("Text = %q, want %q", got, "ka")
	}
}

func TestHandleEventIgnoresNonEdits(t *testing.T) {
	app, _ := newTestApp(t, nil)
	app.surface.Sync(app.engine.Snapshot())

	for _, ev := range []terminal.Event{
		{Type: terminal.EventResize, Width: 20, Height: 4},
		{Type: terminal.EventFocus, Focused: true},
		{Type: terminal.EventInterrupt},
		{Type: terminal.EventNone},
	} {
		if err := app.handleEvent(ev); err != nil {
			t.Errorf("handleEvent(%v) = %v", ev.Type, err)
		}
	}
	if app.Metrics().Snapshot().EditCount != 0 {
		t.Error("non-edit events reached the engine")
	}
	if !app.engine.PlaceholderActive() {
		t.Error("placeholder cleared by non-edit events")
	}
}

func TestApplyConfig(t *testing.T) {
	app, _ := newTestApp(t, nil)

	cfg := config.Default()
	cfg.Render.Wrap = 12
	cfg.Render.ShowStatus = false
	cfg.Log.Level = "warn"
	cfg.Editor.Placeholder = "changed"

	app.applyConfig(cfg)

	if got := app.renderer.Options().Wrap; got != 12 {
		t.Errorf("renderer wrap = %d, want 12", got)
	}
	if app.renderer.Options().ShowStatus {
		t.Error("status line still enabled")
	}
	if app.Config() != cfg {
		t.Error("Config() not updated")
	}
	if app.Metrics().Snapshot().ReloadCount != 1 {
		t.Error("reload not counted")
	}
	if got := app.engine.Snapshot().Text; got != engine.DefaultPlaceholder {
		t.Errorf("engine text = %q, editor settings must not apply live", got)
	}
}

func TestNewConfigError(t *testing.T) {
	screen, _ := terminal.NewSimulation(10, 3)
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[render]\ntab_width = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(Options{ConfigPath: path}, WithScreen(screen))
	if !errors.Is(err, ErrInitialization) {
		t.Errorf("New() error = %v, want ErrInitialization", err)
	}
	if !errors.Is(err, config.ErrValidationFailed) {
		t.Errorf("New() error = %v, want wrapped validation error", err)
	}
}

func TestNewLogFile(t *testing.T) {
	screen, _ := terminal.NewSimulation(10, 3)
	cfg := config.Default()
	cfg.Log.File = filepath.Join(t.TempDir(), "editcontext.log")

	app, err := New(Options{Debug: true}, WithScreen(screen), WithConfig(cfg))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	app.closeLog()

	data, err := os.ReadFile(cfg.Log.File)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if len(data) == 0 {
		t.Error("debug log is empty")
	}
}

func TestMetricsFaultRate(t *testing.T) {
	m := NewMetrics()
	if m.Snapshot().FaultRate() != 0 {
		t.Error("FaultRate() of empty metrics != 0")
	}
	m.RecordEdit(time.Millisecond, false)
	m.RecordEdit(time.Millisecond, true)
	m.RecordQuery()
	m.RecordQuery()
	snap := m.Snapshot()
	if got := snap.FaultRate(); got != 50 {
		t.Errorf("FaultRate() = %v, want 50", got)
	}
	if snap.QueryCount != 2 {
		t.Errorf("QueryCount = %d, want 2", snap.QueryCount)
	}
}

func TestApplyCountsOnlyRejectedEditsAsFaults(t *testing.T) {
	app, _ := newTestApp(t, nil)

	// Typing yields a TextUpdate followed by a caret bounds query.
	if err := app.handleEvent(terminal.RuneEvent('h')); err != nil {
		t.Fatalf("handleEvent() error = %v", err)
	}

	// Recovered by an implicit begin; not a fault.
	res := app.apply(engine.CompositionUpdate{Text: "x"})
	if !errors.Is(res.Fault, engine.ErrInvalidStateTransition) {
		t.Fatalf("Fault = %v, want ErrInvalidStateTransition", res.Fault)
	}
	app.apply(engine.CompositionEnd{})

	// Rejected: the range lies past the end of "h".
	res = app.apply(engine.TextUpdate{RangeStart: 5, RangeEnd: 9, Text: "z"})
	if !errors.Is(res.Fault, engine.ErrRangeViolation) {
		t.Fatalf("Fault = %v, want ErrRangeViolation", res.Fault)
	}

	m := app.Metrics().Snapshot()
	if m.EditCount != 4 {
		t.Errorf("EditCount = %d, want 4", m.EditCount)
	}
	if m.QueryCount != 1 {
		t.Errorf("QueryCount = %d, want 1", m.QueryCount)
	}
	if m.FaultCount != 1 {
		t.Errorf("FaultCount = %d, want 1", m.FaultCount)
	}
	if got := app.engine.Snapshot().Text; got != "h" {
		t.Errorf("text = %q, want %q", got, "h")
	}
}

func TestLogSummaryReportsLatencyAndFaultRate(t *testing.T) {
	screen, _ := terminal.NewSimulation(20, 3)
	var buf bytes.Buffer
	app, err := New(Options{}, WithScreen(screen), WithConfig(config.Default()),
		WithLogger(logging.NewWithWriter(&buf, "info")))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	app.apply(engine.TextUpdate{Text: "a", SelectionStart: 1, SelectionEnd: 1})
	app.logSummary()

	out := buf.String()
	for _, key := range []string{"editor stopped", "fault_rate", "avg_edit", "queries"} {
		if !strings.Contains(out, key) {
			t.Errorf("summary %q missing %q", out, key)
		}
	}
}
