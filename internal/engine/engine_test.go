package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/dshills/editcontext/internal/engine/composition"
)

// recorder is a RenderSync that remembers everything it was sent.
type recorder struct {
	snapshots []Snapshot
	overlays  []Overlay
	queries   []int
}

func (r *recorder) Render(snap Snapshot) {
	r.snapshots = append(r.snapshots, snap)
}

func (r *recorder) RenderComposition(overlay Overlay) {
	r.overlays = append(r.overlays, overlay)
}

func (r *recorder) CharacterBounds(index int, _ Snapshot) Rect {
	r.queries = append(r.queries, index)
	return Rect{X: float64(index), Y: 0, Width: 1, Height: 1}
}

func (r *recorder) last() Snapshot {
	if len(r.snapshots) == 0 {
		return Snapshot{}
	}
	return r.snapshots[len(r.snapshots)-1]
}

// newEditing returns an engine past its placeholder holding content with the
// caret at the end.
func newEditing(t *testing.T, content string) (*Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	e := New(WithContent(content), WithRenderSync(rec))
	if e.PlaceholderActive() {
		t.Fatal("WithContent should not start with a placeholder")
	}
	return e, rec
}

// ============================================================================
// Construction
// ============================================================================

func TestNew(t *testing.T) {
	e := New()

	snap := e.Snapshot()
	if snap.Text != DefaultPlaceholder {
		t.Errorf("expected placeholder %q, got %q", DefaultPlaceholder, snap.Text)
	}
	if snap.SelectionStart != 20 || snap.SelectionEnd != 20 {
		t.Errorf("expected caret at end (20), got [%d:%d)", snap.SelectionStart, snap.SelectionEnd)
	}
	if !e.PlaceholderActive() {
		t.Error("new engine should have an active placeholder")
	}
	if e.State() != StateIdle {
		t.Errorf("expected idle, got %s", e.State())
	}
	if e.SessionID() == uuid.Nil {
		t.Error("expected a generated session id")
	}
}

func TestNewWithOptions(t *testing.T) {
	id := uuid.MustParse("7f1c1f5e-8a9e-4d1e-9a5c-1f6e0f0c2b11")
	e := New(WithPlaceholder("Say something"), WithSessionID(id))

	if e.Snapshot().Text != "Say something" {
		t.Errorf("unexpected placeholder %q", e.Snapshot().Text)
	}
	if e.SessionID() != id {
		t.Errorf("expected session %s, got %s", id, e.SessionID())
	}
}

// ============================================================================
// Placeholder
// ============================================================================

func TestPlaceholderLaw(t *testing.T) {
	rec := &recorder{}
	e := New(WithRenderSync(rec))

	res := e.Apply(TextUpdate{RangeStart: 5, RangeEnd: 5, Text: "X", SelectionStart: 1, SelectionEnd: 1})

	if res.Fault != nil {
		t.Fatalf("unexpected fault: %v", res.Fault)
	}
	if res.Snapshot.Text != "X" {
		t.Errorf("expected %q, got %q", "X", res.Snapshot.Text)
	}
	if res.Snapshot.SelectionStart != 1 || res.Snapshot.SelectionEnd != 1 {
		t.Errorf("expected selection [1:1), got [%d:%d)", res.Snapshot.SelectionStart, res.Snapshot.SelectionEnd)
	}
	if e.PlaceholderActive() {
		t.Error("placeholder flag should be cleared")
	}
	if !res.Emitted || rec.last() != res.Snapshot {
		t.Error("snapshot should be emitted to RenderSync")
	}

	// The flag is never reset: the next update splices normally.
	res = e.Apply(TextUpdate{RangeStart: 0, RangeEnd: 0, Text: "Y", SelectionStart: 1, SelectionEnd: 1})
	if res.Snapshot.Text != "YX" {
		t.Errorf("expected %q, got %q", "YX", res.Snapshot.Text)
	}
}

func TestPlaceholderIgnoresOutOfRangeFirstUpdate(t *testing.T) {
	e := New()

	res := e.Apply(TextUpdate{RangeStart: 100, RangeEnd: 200, Text: "hi", SelectionStart: 2, SelectionEnd: 2})

	if res.Fault != nil {
		t.Fatalf("placeholder rebase should make any range valid, got %v", res.Fault)
	}
	if res.Snapshot.Text != "hi" {
		t.Errorf("expected %q, got %q", "hi", res.Snapshot.Text)
	}
}

func TestPlaceholderSurvivesSelectionChangeByDefault(t *testing.T) {
	e := New()

	res := e.Apply(SelectionChange{Start: 0, End: 5})
	if res.Snapshot.Text != DefaultPlaceholder {
		t.Errorf("selection change should not clear placeholder, got %q", res.Snapshot.Text)
	}
	if !e.PlaceholderActive() {
		t.Error("placeholder should still be active")
	}

	res = e.Apply(TextUpdate{RangeStart: 0, RangeEnd: 5, Text: "Q", SelectionStart: 1, SelectionEnd: 1})
	if res.Snapshot.Text != "Q" {
		t.Errorf("expected %q, got %q", "Q", res.Snapshot.Text)
	}
}

func TestPlaceholderClearOnAnyEdit(t *testing.T) {
	e := New(WithPlaceholderPolicy(PlaceholderClearOnAnyEdit))

	res := e.Apply(SelectionChange{Start: 3, End: 7})
	if res.Snapshot.Text != "" {
		t.Errorf("expected empty buffer, got %q", res.Snapshot.Text)
	}
	if res.Snapshot.SelectionStart != 0 || res.Snapshot.SelectionEnd != 0 {
		t.Errorf("expected selection clamped to [0:0), got [%d:%d)", res.Snapshot.SelectionStart, res.Snapshot.SelectionEnd)
	}
	if e.PlaceholderActive() {
		t.Error("placeholder should be cleared")
	}
}

func TestParsePlaceholderPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    PlaceholderPolicy
		wantErr bool
	}{
		{"", PlaceholderClearOnTextUpdate, false},
		{"text_update", PlaceholderClearOnTextUpdate, false},
		{"ANY_EDIT", PlaceholderClearOnAnyEdit, false},
		{"never", 0, true},
	}

	for _, tt := range tests {
		got, err := ParsePlaceholderPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePlaceholderPolicy(%q) error = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParsePlaceholderPolicy(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

// ============================================================================
// Text Updates
// ============================================================================

func TestEndToEndAppend(t *testing.T) {
	e, _ := newEditing(t, "ab")

	if s := e.Snapshot(); s.SelectionStart != 2 || s.SelectionEnd != 2 {
		t.Fatalf("expected caret at 2, got [%d:%d)", s.SelectionStart, s.SelectionEnd)
	}

	res := e.Apply(TextUpdate{RangeStart: 2, RangeEnd: 2, Text: "c", SelectionStart: 3, SelectionEnd: 3})

	if res.Snapshot.Text != "abc" {
		t.Errorf("expected %q, got %q", "abc", res.Snapshot.Text)
	}
	if res.Snapshot.SelectionStart != 3 || res.Snapshot.SelectionEnd != 3 {
		t.Errorf("expected selection [3:3), got [%d:%d)", res.Snapshot.SelectionStart, res.Snapshot.SelectionEnd)
	}
}

func TestTextUpdateLengthLaw(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		start, end int
		text       string
	}{
		{"insert", "hello", 5, 5, " world"},
		{"delete", "hello", 1, 4, ""},
		{"replace", "hello", 0, 5, "bye"},
		{"emoji", "a😀b", 1, 3, "日本"},
		{"empty", "", 0, 0, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEditing(t, tt.content)
			before := e.Len()

			res := e.Apply(TextUpdate{RangeStart: tt.start, RangeEnd: tt.end, Text: tt.text})
			if res.Fault != nil {
				t.Fatalf("unexpected fault: %v", res.Fault)
			}

			want := before - (tt.end - tt.start) + utf16Len(tt.text)
			if e.Len() != want {
				t.Errorf("expected length %d, got %d", want, e.Len())
			}
		})
	}
}

func TestTextUpdateClampsSuggestedSelection(t *testing.T) {
	e, _ := newEditing(t, "abc")

	res := e.Apply(TextUpdate{RangeStart: 3, RangeEnd: 3, Text: "d", SelectionStart: 9, SelectionEnd: -4})

	if res.Snapshot.SelectionStart != 4 || res.Snapshot.SelectionEnd != 4 {
		t.Errorf("expected selection clamped to [4:4), got [%d:%d)", res.Snapshot.SelectionStart, res.Snapshot.SelectionEnd)
	}
}

func TestTextUpdateRangeViolation(t *testing.T) {
	e, rec := newEditing(t, "abc")
	e.Apply(SelectionChange{Start: 1, End: 2})
	before := e.Snapshot()
	emitted := len(rec.snapshots)

	res := e.Apply(TextUpdate{RangeStart: 2, RangeEnd: 10, Text: "zzz", SelectionStart: 5, SelectionEnd: 5})

	if !errors.Is(res.Fault, ErrRangeViolation) {
		t.Fatalf("expected ErrRangeViolation, got %v", res.Fault)
	}
	if res.Snapshot != before {
		t.Errorf("state should be unchanged: before %s, after %s", before, res.Snapshot)
	}
	if !res.Emitted || len(rec.snapshots) != emitted+1 || rec.last() != before {
		t.Error("current snapshot should be re-emitted to resynchronize the renderer")
	}

	// The engine keeps working after a violation.
	res = e.Apply(TextUpdate{RangeStart: 3, RangeEnd: 3, Text: "d", SelectionStart: 4, SelectionEnd: 4})
	if res.Fault != nil || res.Snapshot.Text != "abcd" {
		t.Errorf("expected recovery, got %v %q", res.Fault, res.Snapshot.Text)
	}
}

func TestRevisionTracksBufferMutations(t *testing.T) {
	e, _ := newEditing(t, "ab")
	r0 := e.Snapshot().Revision

	e.Apply(SelectionChange{Start: 0, End: 1})
	if e.Snapshot().Revision != r0 {
		t.Error("selection change should not bump the revision")
	}

	e.Apply(TextUpdate{RangeStart: 2, RangeEnd: 2, Text: "", SelectionStart: 2, SelectionEnd: 2})
	if e.Snapshot().Revision != r0 {
		t.Error("an empty update should not bump the revision")
	}

	e.Apply(TextUpdate{RangeStart: 2, RangeEnd: 2, Text: "c", SelectionStart: 3, SelectionEnd: 3})
	if e.Snapshot().Revision <= r0 {
		t.Error("a text change should bump the revision")
	}
}

// ============================================================================
// Selection
// ============================================================================

func TestSelectionChangeIdempotent(t *testing.T) {
	e, rec := newEditing(t, "hello")

	first := e.Apply(SelectionChange{Start: 1, End: 3})
	second := e.Apply(SelectionChange{Start: 1, End: 3})

	if first.Snapshot != second.Snapshot {
		t.Errorf("expected identical snapshots, got %s and %s", first.Snapshot, second.Snapshot)
	}
	if len(rec.snapshots) != 2 {
		t.Errorf("expected both snapshots emitted, got %d", len(rec.snapshots))
	}
}

func TestSelectionChangeClamps(t *testing.T) {
	e, _ := newEditing(t, "hello")

	tests := []struct {
		start, end int
		wantStart  int
		wantEnd    int
	}{
		{-10, 2, 0, 2},
		{3, 99, 3, 5},
		{4, 1, 4, 4},
		{50, 60, 5, 5},
	}

	for _, tt := range tests {
		res := e.Apply(SelectionChange{Start: tt.start, End: tt.end})
		s := res.Snapshot
		if s.SelectionStart != tt.wantStart || s.SelectionEnd != tt.wantEnd {
			t.Errorf("SelectionChange{%d,%d} = [%d:%d), want [%d:%d)",
				tt.start, tt.end, s.SelectionStart, s.SelectionEnd, tt.wantStart, tt.wantEnd)
		}
		if res.Snapshot.Text != "hello" {
			t.Error("selection change should not touch the text")
		}
	}
}

// ============================================================================
// Composition
// ============================================================================

func TestCompositionIsolation(t *testing.T) {
	e, rec := newEditing(t, "ab")

	e.Apply(CompositionStart{})
	if e.State() != StateComposing {
		t.Fatalf("expected composing, got %s", e.State())
	}

	for _, text := range []string{"n", "ni", "nih", "日本"} {
		res := e.Apply(CompositionUpdate{
			Text:    text,
			Formats: []FormatRange{{Start: 0, End: utf16Len(text), Style: composition.Underline()}},
		})
		if res.Fault != nil {
			t.Fatalf("unexpected fault: %v", res.Fault)
		}
		if res.Snapshot.Text != "ab" {
			t.Fatalf("composition update mutated the buffer: %q", res.Snapshot.Text)
		}
		if res.Overlay == nil || res.Overlay.Text != text || res.Overlay.Anchor != 2 {
			t.Fatalf("expected overlay %q at 2, got %+v", text, res.Overlay)
		}
		if res.Emitted {
			t.Error("composition updates should not emit a buffer snapshot")
		}
	}

	if len(rec.overlays) != 4 {
		t.Errorf("expected 4 overlays, got %d", len(rec.overlays))
	}

	e.Apply(CompositionEnd{})
	if e.State() != StateIdle {
		t.Errorf("expected idle, got %s", e.State())
	}
	if e.Snapshot().Text != "ab" {
		t.Errorf("composition end should not commit text, got %q", e.Snapshot().Text)
	}
	if e.Overlay().Text != "" {
		t.Error("composition end should clear the overlay")
	}

	res := e.Apply(TextUpdate{RangeStart: 2, RangeEnd: 2, Text: "日本", SelectionStart: 4, SelectionEnd: 4})
	if res.Snapshot.Text != "ab日本" {
		t.Errorf("expected committed text, got %q", res.Snapshot.Text)
	}
}

func TestCompositionUpdateWithoutStart(t *testing.T) {
	e, _ := newEditing(t, "")

	res := e.Apply(CompositionUpdate{Text: "k"})

	if !errors.Is(res.Fault, ErrInvalidStateTransition) {
		t.Errorf("expected ErrInvalidStateTransition, got %v", res.Fault)
	}
	if e.State() != StateComposing {
		t.Errorf("expected implicit transition to composing, got %s", e.State())
	}
	if res.Overlay == nil || res.Overlay.Text != "k" {
		t.Errorf("update should still be staged, got %+v", res.Overlay)
	}
}

func TestCompositionStartIsIdempotent(t *testing.T) {
	e, _ := newEditing(t, "")

	e.Apply(CompositionStart{})
	e.Apply(CompositionUpdate{Text: "abc"})
	res := e.Apply(CompositionStart{})

	if res.Fault != nil {
		t.Errorf("unexpected fault: %v", res.Fault)
	}
	if e.Overlay().Text != "abc" {
		t.Errorf("re-entrant start should keep staged text, got %q", e.Overlay().Text)
	}
}

func TestTextUpdateDuringComposition(t *testing.T) {
	e, _ := newEditing(t, "ab")
	e.Apply(CompositionStart{})
	e.Apply(CompositionUpdate{Text: "zz"})

	res := e.Apply(TextUpdate{RangeStart: 0, RangeEnd: 0, Text: "pasted ", SelectionStart: 7, SelectionEnd: 7})

	if res.Fault != nil {
		t.Fatalf("text update should be accepted while composing: %v", res.Fault)
	}
	if res.Snapshot.Text != "pasted ab" {
		t.Errorf("expected %q, got %q", "pasted ab", res.Snapshot.Text)
	}
	if !res.Snapshot.Composing || e.State() != StateComposing {
		t.Error("composition should still be active")
	}
}

func TestTextFormatUpdate(t *testing.T) {
	e, rec := newEditing(t, "")
	e.Apply(CompositionStart{})
	e.Apply(CompositionUpdate{Text: "kana"})

	formats := []FormatRange{{Start: 0, End: 2, Style: composition.Style{
		Underline: composition.UnderlineSolid,
		Thickness: composition.ThicknessThick,
	}}}
	res := e.Apply(TextFormatUpdate{Formats: formats})

	if res.Fault != nil {
		t.Fatalf("unexpected fault: %v", res.Fault)
	}
	if res.Overlay == nil || res.Overlay.Text != "kana" || len(res.Overlay.Formats) != 1 {
		t.Fatalf("unexpected overlay %+v", res.Overlay)
	}
	if got := rec.overlays[len(rec.overlays)-1].Formats[0].Style.Thickness; got != composition.ThicknessThick {
		t.Errorf("expected thick underline, got %s", got)
	}

	e.Apply(CompositionEnd{})
	res = e.Apply(TextFormatUpdate{Formats: formats})
	if !errors.Is(res.Fault, ErrInvalidStateTransition) {
		t.Errorf("expected ErrInvalidStateTransition while idle, got %v", res.Fault)
	}
}

// ============================================================================
// Character Bounds
// ============================================================================

func TestCharacterBoundsRoundTrip(t *testing.T) {
	e, rec := newEditing(t, "ab")
	e.Apply(TextUpdate{RangeStart: 2, RangeEnd: 2, Text: "c😀", SelectionStart: 5, SelectionEnd: 5})

	before := e.Snapshot()
	emitted := len(rec.snapshots)

	res := e.Apply(CharacterBoundsQuery{RangeStart: 0, RangeEnd: before.Len()})

	if res.Fault != nil {
		t.Fatalf("unexpected fault: %v", res.Fault)
	}
	if len(res.Bounds) != 5 {
		t.Fatalf("expected 5 rectangles, got %d", len(res.Bounds))
	}
	for i, r := range res.Bounds {
		if r.X != float64(i) {
			t.Errorf("rectangle %d out of order: %+v", i, r)
		}
	}
	if res.Emitted || len(rec.snapshots) != emitted {
		t.Error("bounds query should not emit a snapshot")
	}
	if after := e.Snapshot(); after != before {
		t.Errorf("bounds query changed state: %s -> %s", before, after)
	}

	again := e.Apply(CharacterBoundsQuery{RangeStart: 0, RangeEnd: before.Len()})
	if len(again.Bounds) != len(res.Bounds) {
		t.Error("repeated query should return the same number of rectangles")
	}
}

func TestCharacterBoundsClamps(t *testing.T) {
	e, rec := newEditing(t, "abc")

	tests := []struct {
		name       string
		start, end int
		want       []int
	}{
		{"past end", 1, 10, []int{1, 2}},
		{"negative", -2, 1, []int{0}},
		{"entirely outside", 5, 9, nil},
		{"reversed", 2, 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec.queries = nil
			res := e.Apply(CharacterBoundsQuery{RangeStart: tt.start, RangeEnd: tt.end})

			if !errors.Is(res.Fault, ErrQueryOutOfBounds) {
				t.Errorf("expected ErrQueryOutOfBounds, got %v", res.Fault)
			}
			if len(res.Bounds) != len(tt.want) {
				t.Fatalf("expected %d rectangles, got %d", len(tt.want), len(res.Bounds))
			}
			for i, idx := range tt.want {
				if rec.queries[i] != idx {
					t.Errorf("expected query for index %d, got %d", idx, rec.queries[i])
				}
			}
		})
	}
}

func TestCharacterBoundsWithoutRenderSync(t *testing.T) {
	e := New(WithContent("abc"))

	res := e.Apply(CharacterBoundsQuery{RangeStart: 0, RangeEnd: 3})
	if len(res.Bounds) != 3 {
		t.Fatalf("expected 3 rectangles, got %d", len(res.Bounds))
	}
	for _, r := range res.Bounds {
		if !r.IsZero() {
			t.Errorf("expected zero rectangle, got %+v", r)
		}
	}
}

// ============================================================================
// Misc
// ============================================================================

func TestUnknownEvent(t *testing.T) {
	e, _ := newEditing(t, "abc")

	res := e.Apply(nil)
	if !errors.Is(res.Fault, ErrUnknownEvent) {
		t.Errorf("expected ErrUnknownEvent, got %v", res.Fault)
	}
	if res.Snapshot.Text != "abc" {
		t.Error("unknown event should not change state")
	}
}

func TestEventKindNames(t *testing.T) {
	events := []Event{
		TextUpdate{}, SelectionChange{}, CompositionStart{}, CompositionUpdate{},
		CompositionEnd{}, CharacterBoundsQuery{}, TextFormatUpdate{},
	}

	for _, ev := range events {
		kind, err := ParseEventKind(ev.Kind().String())
		if err != nil || kind != ev.Kind() {
			t.Errorf("round trip of %s failed: %v %v", ev.Kind(), kind, err)
		}
	}
	if _, err := ParseEventKind("keypress"); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("expected ErrUnknownEvent, got %v", err)
	}
}

func TestResync(t *testing.T) {
	e, rec := newEditing(t, "abc")

	snap := e.Resync()
	if len(rec.snapshots) != 1 || rec.last() != snap {
		t.Error("Resync should emit the current snapshot")
	}
}

func TestLoggerReceivesEvents(t *testing.T) {
	var out strings.Builder
	logger := newTestLogger(&out)
	e := New(WithContent("abc"), WithLogger(logger))

	e.Apply(TextUpdate{RangeStart: 9, RangeEnd: 9, Text: "x"})

	if !strings.Contains(out.String(), "rejected") || !strings.Contains(out.String(), e.SessionID().String()) {
		t.Errorf("expected a warning tagged with the session, got %q", out.String())
	}
}
