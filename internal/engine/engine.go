package engine

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dshills/editcontext/internal/engine/buffer"
	"github.com/dshills/editcontext/internal/engine/composition"
	"github.com/dshills/editcontext/internal/engine/selection"
	"github.com/dshills/editcontext/internal/logging"
)

// Engine is the edit state machine. It owns the buffer, selection and
// composition stage, and Apply is the only mutator.
type Engine struct {
	// Core components
	buf  *buffer.Buffer
	sel  *selection.State
	comp *composition.Stage

	state       State
	placeholder bool
	policy      PlaceholderPolicy
	revision    uint64

	// Collaborators
	render  RenderSync
	logger  *log.Logger
	session uuid.UUID

	// Initialization
	initContent string
}

// New creates an Engine holding DefaultPlaceholder unless configured
// otherwise. The selection starts as a caret at the end of the initial text.
func New(opts ...Option) *Engine {
	e := &Engine{
		placeholder: true,
		initContent: DefaultPlaceholder,
		render:      NopRenderSync{},
		session:     uuid.New(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = logging.Discard()
	}
	e.logger = e.logger.With(logging.FieldSession, e.session.String())

	e.buf = buffer.NewFromString(e.initContent)
	e.sel = selection.NewState(e.buf.Len())
	e.comp = composition.NewStage()

	return e
}

// ============================================================================
// Read Operations
// ============================================================================

// Snapshot returns the current text and selection.
func (e *Engine) Snapshot() Snapshot {
	sel := e.sel.Get()
	return Snapshot{
		Text:           e.buf.Text(),
		SelectionStart: sel.Start,
		SelectionEnd:   sel.End,
		Revision:       e.revision,
		Composing:      e.state == StateComposing,
	}
}

// Overlay returns the current composition overlay. It is empty when idle.
func (e *Engine) Overlay() Overlay {
	return Overlay{
		Text:    e.comp.Text(),
		Formats: e.comp.Formats(),
		Anchor:  e.sel.Start(),
	}
}

// State returns the composition state.
func (e *Engine) State() State {
	return e.state
}

// Len returns the buffer length in UTF-16 code units.
func (e *Engine) Len() int {
	return e.buf.Len()
}

// PlaceholderActive reports whether the placeholder has not yet been
// discarded.
func (e *Engine) PlaceholderActive() bool {
	return e.placeholder
}

// SessionID returns the engine's session identifier.
func (e *Engine) SessionID() uuid.UUID {
	return e.session
}

// Resync re-emits the current snapshot, for example after the renderer was
// recreated. It does not change state.
func (e *Engine) Resync() Snapshot {
	snap := e.Snapshot()
	e.render.Render(snap)
	return snap
}

// ============================================================================
// Event Processing
// ============================================================================

// Apply processes one event and returns its outcome. Apply must not be called
// concurrently; see the package documentation.
func (e *Engine) Apply(ev Event) Result {
	var res Result

	switch ev := ev.(type) {
	case TextUpdate:
		res = e.applyTextUpdate(ev)
	case SelectionChange:
		res = e.applySelectionChange(ev)
	case CompositionStart:
		res = e.applyCompositionStart()
	case CompositionUpdate:
		res = e.applyCompositionUpdate(ev)
	case CompositionEnd:
		res = e.applyCompositionEnd()
	case CharacterBoundsQuery:
		res = e.applyBoundsQuery(ev)
	case TextFormatUpdate:
		res = e.applyTextFormatUpdate(ev)
	default:
		res = Result{
			Snapshot: e.Snapshot(),
			Fault:    fmt.Errorf("%w: %T", ErrUnknownEvent, ev),
		}
	}

	e.logResult(ev, res)
	return res
}

func (e *Engine) applyTextUpdate(ev TextUpdate) Result {
	start, end := ev.RangeStart, ev.RangeEnd

	if e.placeholder {
		// The input surface measured its range against the placeholder,
		// which is not real content. Rebase onto an empty buffer.
		e.buf.Reset("")
		e.placeholder = false
		e.revision++
		start, end = 0, 0
	}

	if _, err := e.buf.Replace(start, end, ev.Text); err != nil {
		return Result{
			Snapshot: e.emit(),
			Emitted:  true,
			Fault:    err,
		}
	}
	if start != end || ev.Text != "" {
		e.revision++
	}

	e.sel.Set(ev.SelectionStart, ev.SelectionEnd, e.buf.Len())

	return Result{Snapshot: e.emit(), Emitted: true}
}

func (e *Engine) applySelectionChange(ev SelectionChange) Result {
	if e.placeholder && e.policy == PlaceholderClearOnAnyEdit {
		e.buf.Reset("")
		e.placeholder = false
		e.revision++
	}

	e.sel.Set(ev.Start, ev.End, e.buf.Len())

	return Result{Snapshot: e.emit(), Emitted: true}
}

func (e *Engine) applyCompositionStart() Result {
	e.state = StateComposing
	e.comp.Begin()

	return Result{Snapshot: e.emit(), Emitted: true}
}

func (e *Engine) applyCompositionUpdate(ev CompositionUpdate) Result {
	var fault error
	if e.comp.Update(ev.Text, ev.Formats) || e.state != StateComposing {
		fault = fmt.Errorf("%w: composition update while %s", ErrInvalidStateTransition, e.state)
		e.state = StateComposing
	}

	overlay := e.emitOverlay()
	return Result{Snapshot: e.Snapshot(), Overlay: &overlay, Fault: fault}
}

func (e *Engine) applyTextFormatUpdate(ev TextFormatUpdate) Result {
	var fault error
	if e.comp.SetFormats(ev.Formats) || e.state != StateComposing {
		fault = fmt.Errorf("%w: text format update while %s", ErrInvalidStateTransition, e.state)
		e.state = StateComposing
	}

	overlay := e.emitOverlay()
	return Result{Snapshot: e.Snapshot(), Overlay: &overlay, Fault: fault}
}

func (e *Engine) applyCompositionEnd() Result {
	e.state = StateIdle
	e.comp.End()

	return Result{Snapshot: e.emit(), Emitted: true}
}

func (e *Engine) applyBoundsQuery(ev CharacterBoundsQuery) Result {
	snap := e.Snapshot()
	requested := buffer.NewRange(ev.RangeStart, ev.RangeEnd)
	r := requested.Clamp(e.buf.Len())

	var fault error
	if r != requested {
		fault = fmt.Errorf("%w: %s clamped to %s", ErrQueryOutOfBounds, requested, r)
	}

	bounds := make([]Rect, 0, r.Len())
	for i := r.Start; i < r.End; i++ {
		bounds = append(bounds, e.render.CharacterBounds(i, snap))
	}

	return Result{Snapshot: snap, Bounds: bounds, Fault: fault}
}

// emit sends the current snapshot to RenderSync and returns it.
func (e *Engine) emit() Snapshot {
	snap := e.Snapshot()
	e.render.Render(snap)
	return snap
}

// emitOverlay sends the current composition overlay to RenderSync.
func (e *Engine) emitOverlay() Overlay {
	overlay := e.Overlay()
	e.render.RenderComposition(overlay.Clone())
	return overlay
}

func (e *Engine) logResult(ev Event, res Result) {
	kind := "unknown"
	if ev != nil {
		kind = ev.Kind().String()
	}

	snap := res.Snapshot
	fields := []any{
		logging.FieldEvent, kind,
		logging.FieldState, e.state.String(),
		logging.FieldSelection, fmt.Sprintf("[%d:%d)", snap.SelectionStart, snap.SelectionEnd),
		logging.FieldLength, e.buf.Len(),
		logging.FieldRevision, snap.Revision,
	}

	switch {
	case res.Fault == nil:
		e.logger.Debug("edit event applied", fields...)
	case errors.Is(res.Fault, ErrRangeViolation):
		e.logger.Warn("edit event rejected; state re-emitted", append(fields, logging.FieldError, res.Fault)...)
	default:
		e.logger.Debug("edit event recovered", append(fields, logging.FieldError, res.Fault)...)
	}
}
