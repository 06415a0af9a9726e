package input

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dshills/editcontext/internal/engine"
	"github.com/dshills/editcontext/internal/engine/buffer"
	"github.com/dshills/editcontext/internal/engine/composition"
	"github.com/dshills/editcontext/internal/logging"
	"github.com/dshills/editcontext/internal/terminal"
)

// Option configures a Surface.
type Option func(*Surface)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Surface) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMode sets the initial entry mode.
func WithMode(m Mode) Option {
	return func(s *Surface) {
		s.mode = m
	}
}

// Surface derives edit events from key events.
type Surface struct {
	// Mirror of the engine state
	buf    *buffer.Buffer
	anchor int // fixed end of the selection
	focus  int // moving end of the selection

	mode Mode

	// Composition in progress
	composing bool
	compText  []rune

	// Bracketed paste in progress
	pasting bool
	paste   strings.Builder

	caretBounds engine.Rect
	hasBounds   bool

	logger *log.Logger
}

// NewSurface creates a Surface mirroring an empty text.
func NewSurface(opts ...Option) *Surface {
	s := &Surface{buf: buffer.New()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	s.logger = s.logger.With(logging.FieldComponent, "input")
	return s
}

// Sync updates the mirror from a snapshot. The selection direction is kept
// when the snapshot agrees with it.
func (s *Surface) Sync(snap engine.Snapshot) {
	s.buf.Reset(snap.Text)
	lo, hi := s.Selection()
	if lo == snap.SelectionStart && hi == snap.SelectionEnd {
		return
	}
	s.anchor, s.focus = snap.SelectionStart, snap.SelectionEnd
}

// Text returns the mirrored text.
func (s *Surface) Text() string {
	return s.buf.Text()
}

// Selection returns the mirrored selection in ascending order.
func (s *Surface) Selection() (start, end int) {
	return min(s.anchor, s.focus), max(s.anchor, s.focus)
}

// Caret returns the moving end of the selection.
func (s *Surface) Caret() int {
	return s.focus
}

// Mode returns the entry mode.
func (s *Surface) Mode() Mode {
	return s.mode
}

// Composing returns true while an IME composition is open.
func (s *Surface) Composing() bool {
	return s.composing
}

// CompositionText returns the uncommitted composition text.
func (s *Surface) CompositionText() string {
	return string(s.compText)
}

// CaretBounds returns the rectangle reported by the last caret query.
func (s *Surface) CaretBounds() (engine.Rect, bool) {
	return s.caretBounds, s.hasBounds
}

// Dispatch translates ev and applies the resulting events in order through
// apply. The mirror is synced after every emitted snapshot, and a bounds
// query for the caret follows any text or selection change.
func (s *Surface) Dispatch(ev terminal.Event, apply func(engine.Event) engine.Result) []engine.Result {
	events := s.Handle(ev)
	if len(events) == 0 {
		return nil
	}

	results := make([]engine.Result, 0, len(events)+1)
	query := false
	for _, e := range events {
		res := apply(e)
		results = append(results, res)
		if res.Emitted {
			s.Sync(res.Snapshot)
		}
		switch e.(type) {
		case engine.TextUpdate, engine.SelectionChange:
			query = true
		}
	}

	if q, ok := s.CaretQuery(); ok && query {
		res := apply(q)
		results = append(results, res)
		s.caretBounds, s.hasBounds = engine.Rect{}, false
		if len(res.Bounds) > 0 {
			s.caretBounds, s.hasBounds = res.Bounds[len(res.Bounds)-1], true
		}
	}
	return results
}

// CaretQuery returns a bounds query for the character before the caret, or
// the first character when the caret is at the start. There is no query for
// an empty text.
func (s *Surface) CaretQuery() (engine.CharacterBoundsQuery, bool) {
	n := s.buf.Len()
	if n == 0 {
		return engine.CharacterBoundsQuery{}, false
	}
	c := s.focus
	if c <= 0 {
		return engine.CharacterBoundsQuery{RangeStart: 0, RangeEnd: 1}, true
	}
	c = min(c, n)
	return engine.CharacterBoundsQuery{RangeStart: c - 1, RangeEnd: c}, true
}

// Handle translates one terminal event into edit events and updates the
// mirror as the engine is expected to.
func (s *Surface) Handle(ev terminal.Event) []engine.Event {
	switch ev.Type {
	case terminal.EventPaste:
		return s.handlePaste(ev)
	case terminal.EventKey:
		if s.pasting {
			s.collectPaste(ev)
			return nil
		}
		return s.handleKey(ev)
	default:
		return nil
	}
}

func (s *Surface) handlePaste(ev terminal.Event) []engine.Event {
	if ev.PasteStart {
		s.pasting = true
		s.paste.Reset()
		return nil
	}
	if !s.pasting {
		return nil
	}
	s.pasting = false
	text := s.paste.String()
	s.paste.Reset()
	if text == "" {
		return nil
	}
	if s.composing {
		s.compText = append(s.compText, []rune(text)...)
		return []engine.Event{s.compositionUpdate()}
	}
	return []engine.Event{s.insert(text)}
}

func (s *Surface) collectPaste(ev terminal.Event) {
	switch ev.Key {
	case terminal.KeyRune:
		s.paste.WriteRune(ev.Rune)
	case terminal.KeyEnter:
		s.paste.WriteByte('\n')
	case terminal.KeyTab:
		s.paste.WriteByte('\t')
	}
}

func (s *Surface) handleKey(ev terminal.Event) []engine.Event {
	if ev.Key == terminal.KeyCtrlSpace {
		return s.toggleMode()
	}
	if s.composing {
		if events, ok := s.handleComposingKey(ev); ok {
			return events
		}
	}

	switch ev.Key {
	case terminal.KeyRune:
		if ev.Mod.Has(terminal.ModCtrl) || ev.Mod.Has(terminal.ModAlt) {
			return nil
		}
		if s.mode == ModeIME {
			return s.compose(ev.Rune)
		}
		return []engine.Event{s.insert(string(ev.Rune))}
	case terminal.KeyEnter:
		return []engine.Event{s.insert("\n")}
	case terminal.KeyTab:
		return []engine.Event{s.insert("\t")}
	case terminal.KeyBackspace:
		return s.deleteBackward()
	case terminal.KeyDelete:
		return s.deleteForward()
	case terminal.KeyLeft:
		return s.move(s.prev(s.focus), ev.Mod.Has(terminal.ModShift), true)
	case terminal.KeyRight:
		return s.move(s.next(s.focus), ev.Mod.Has(terminal.ModShift), false)
	case terminal.KeyHome, terminal.KeyCtrlA:
		return s.moveTo(0, ev.Mod.Has(terminal.ModShift))
	case terminal.KeyEnd, terminal.KeyCtrlE:
		return s.moveTo(s.buf.Len(), ev.Mod.Has(terminal.ModShift))
	default:
		return nil
	}
}

// handleComposingKey handles keys with special meaning inside a composition.
// It returns false for keys that fall through to normal handling.
func (s *Surface) handleComposingKey(ev terminal.Event) ([]engine.Event, bool) {
	switch ev.Key {
	case terminal.KeyEnter:
		return s.commit(), true
	case terminal.KeyEscape:
		return s.cancel(), true
	case terminal.KeyBackspace:
		if len(s.compText) <= 1 {
			return s.cancel(), true
		}
		s.compText = s.compText[:len(s.compText)-1]
		return []engine.Event{s.compositionUpdate()}, true
	case terminal.KeyRune:
		return nil, false
	default:
		// Navigation and deletion are swallowed while composing.
		return nil, true
	}
}

func (s *Surface) toggleMode() []engine.Event {
	if s.mode == ModeIME {
		s.mode = ModeDirect
		s.logger.Debug("input mode changed", logging.FieldMode, s.mode.String())
		if s.composing {
			return s.commit()
		}
		return nil
	}
	s.mode = ModeIME
	s.logger.Debug("input mode changed", logging.FieldMode, s.mode.String())
	return nil
}

// ============================================================================
// Composition
// ============================================================================

func (s *Surface) compose(r rune) []engine.Event {
	var events []engine.Event
	if !s.composing {
		s.composing = true
		s.compText = s.compText[:0]
		events = append(events, engine.CompositionStart{})
	}
	s.compText = append(s.compText, r)
	return append(events, s.compositionUpdate())
}

func (s *Surface) compositionUpdate() engine.CompositionUpdate {
	text := string(s.compText)
	return engine.CompositionUpdate{
		Text: text,
		Formats: []engine.FormatRange{
			{Start: 0, End: buffer.Length(text), Style: composition.Underline()},
		},
	}
}

func (s *Surface) commit() []engine.Event {
	text := string(s.compText)
	s.composing = false
	s.compText = s.compText[:0]

	events := []engine.Event{engine.CompositionEnd{}}
	if text != "" {
		events = append(events, s.insert(text))
	}
	return events
}

func (s *Surface) cancel() []engine.Event {
	s.composing = false
	s.compText = s.compText[:0]
	return []engine.Event{engine.CompositionEnd{}}
}

// ============================================================================
// Editing
// ============================================================================

// insert replaces the selection with text, leaving the caret after it.
func (s *Surface) insert(text string) engine.TextUpdate {
	start, end := s.Selection()
	return s.replace(start, end, text)
}

func (s *Surface) replace(start, end int, text string) engine.TextUpdate {
	caret := start + buffer.Length(text)
	ev := engine.TextUpdate{
		RangeStart:     start,
		RangeEnd:       end,
		Text:           text,
		SelectionStart: caret,
		SelectionEnd:   caret,
	}
	if _, err := s.buf.Replace(start, end, text); err != nil {
		s.logger.Warn("input mirror out of sync", logging.FieldError, err)
	}
	s.anchor, s.focus = caret, caret
	return ev
}

func (s *Surface) deleteBackward() []engine.Event {
	start, end := s.Selection()
	if start == end {
		if start == 0 {
			return nil
		}
		start = s.prev(start)
	}
	return []engine.Event{s.replace(start, end, "")}
}

func (s *Surface) deleteForward() []engine.Event {
	start, end := s.Selection()
	if start == end {
		if end >= s.buf.Len() {
			return nil
		}
		end = s.next(end)
	}
	return []engine.Event{s.replace(start, end, "")}
}

// ============================================================================
// Navigation
// ============================================================================

// move places the caret at target. Without extend, a non-empty selection
// collapses to the edge in the direction of travel instead.
func (s *Surface) move(target int, extend, backward bool) []engine.Event {
	if !extend {
		start, end := s.Selection()
		if start != end {
			if backward {
				target = start
			} else {
				target = end
			}
		}
	}
	return s.moveTo(target, extend)
}

func (s *Surface) moveTo(target int, extend bool) []engine.Event {
	target = min(max(target, 0), s.buf.Len())
	if !extend {
		s.anchor = target
	}
	s.focus = target

	start, end := s.Selection()
	return []engine.Event{engine.SelectionChange{Start: start, End: end}}
}

// prev returns the offset one character before offset, stepping over a
// whole surrogate pair.
func (s *Surface) prev(offset int) int {
	if offset <= 0 {
		return 0
	}
	offset = min(offset, s.buf.Len())
	if offset >= 2 {
		if _, n := s.buf.RuneAt(offset - 2); n == 2 {
			return offset - 2
		}
	}
	return offset - 1
}

// next returns the offset one character after offset, stepping over a whole
// surrogate pair.
func (s *Surface) next(offset int) int {
	if offset >= s.buf.Len() {
		return s.buf.Len()
	}
	offset = max(offset, 0)
	_, n := s.buf.RuneAt(offset)
	return offset + n
}
