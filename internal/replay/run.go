package replay

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/dshills/editcontext/internal/engine"
	"github.com/dshills/editcontext/internal/logging"
	"github.com/dshills/editcontext/internal/render"
)

// Record is the engine state after one step.
type Record struct {
	Step      int            `yaml:"step"`
	Event     string         `yaml:"event"`
	Text      string         `yaml:"text"`
	Selection [2]int         `yaml:"selection,flow"`
	Revision  uint64         `yaml:"revision"`
	State     string         `yaml:"state"`
	Emitted   bool           `yaml:"emitted"`
	Overlay   *OverlayRecord `yaml:"overlay,omitempty"`
	Bounds    [][4]float64   `yaml:"bounds,omitempty,flow"`
	Fault     string         `yaml:"fault,omitempty"`
}

// OverlayRecord describes a composition overlay.
type OverlayRecord struct {
	Text    string   `yaml:"text"`
	Anchor  int      `yaml:"anchor"`
	Formats []string `yaml:"formats,omitempty,flow"`
}

// Summary totals a replay run.
type Summary struct {
	Steps    int
	Faults   int
	Revision uint64
	Final    engine.Snapshot
}

// Option configures Run.
type Option func(*runner)

// WithLogger sets the logger handed to the engine.
func WithLogger(logger *log.Logger) Option {
	return func(r *runner) {
		r.logger = logger
	}
}

// WithRecorder makes Run render into rec instead of a private recorder.
// The recorder is reset first, so it holds only the last run.
func WithRecorder(rec *render.Recorder) Option {
	return func(r *runner) {
		r.rec = rec
	}
}

// WithEngineOptions applies base before the script's own engine options,
// so the script overrides them.
func WithEngineOptions(base ...engine.Option) Option {
	return func(r *runner) {
		r.base = append(r.base, base...)
	}
}

type runner struct {
	logger *log.Logger
	rec    *render.Recorder
	base   []engine.Option
}

// Run applies every step of s to a fresh engine and writes one YAML
// document per step to w. It stops early when ctx is cancelled.
func Run(ctx context.Context, s *Script, w io.Writer, opts ...Option) (Summary, error) {
	r := runner{logger: logging.FromContext(ctx)}
	for _, opt := range opts {
		opt(&r)
	}
	if r.logger == nil {
		r.logger = logging.Discard()
	}
	if r.rec == nil {
		r.rec = render.NewRecorder(render.LayoutOptions{Wrap: s.Wrap})
	} else {
		r.rec.Reset()
	}

	engOpts := append(r.base, s.EngineOptions()...)
	engOpts = append(engOpts,
		engine.WithRenderSync(r.rec),
		engine.WithLogger(r.logger),
	)
	eng := engine.New(engOpts...)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	var sum Summary
	for i, step := range s.Events {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		ev, err := step.Event()
		if err != nil {
			return sum, fmt.Errorf("%w: event %d: %w", ErrInvalidScript, i, err)
		}

		res := eng.Apply(ev)
		rec := newRecord(i, ev, eng.State(), res)
		if err := enc.Encode(rec); err != nil {
			return sum, fmt.Errorf("writing step %d: %w", i, err)
		}

		sum.Steps++
		if res.Fault != nil {
			sum.Faults++
		}
	}

	if err := enc.Close(); err != nil {
		return sum, fmt.Errorf("writing replay output: %w", err)
	}

	sum.Final = eng.Snapshot()
	sum.Revision = sum.Final.Revision
	r.logger.Info("replay finished",
		logging.FieldSession, eng.SessionID().String(),
		logging.FieldCount, sum.Steps,
		logging.FieldFaults, sum.Faults,
	)
	return sum, nil
}

func newRecord(i int, ev engine.Event, state engine.State, res engine.Result) Record {
	snap := res.Snapshot
	rec := Record{
		Step:      i,
		Event:     ev.Kind().String(),
		Text:      snap.Text,
		Selection: [2]int{snap.SelectionStart, snap.SelectionEnd},
		Revision:  snap.Revision,
		State:     state.String(),
		Emitted:   res.Emitted,
	}
	if res.Overlay != nil {
		o := &OverlayRecord{Text: res.Overlay.Text, Anchor: res.Overlay.Anchor}
		for _, f := range res.Overlay.Formats {
			o.Formats = append(o.Formats, f.String())
		}
		rec.Overlay = o
	}
	for _, b := range res.Bounds {
		rec.Bounds = append(rec.Bounds, [4]float64{b.X, b.Y, b.Width, b.Height})
	}
	if res.Fault != nil {
		rec.Fault = res.Fault.Error()
	}
	return rec
}
