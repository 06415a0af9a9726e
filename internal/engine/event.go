package engine

import (
	"fmt"

	"github.com/dshills/editcontext/internal/engine/composition"
)

// FormatRange is a styled span of composition text.
type FormatRange = composition.FormatRange

// EventKind identifies an edit event variant.
type EventKind uint8

const (
	KindTextUpdate EventKind = iota
	KindSelectionChange
	KindCompositionStart
	KindCompositionUpdate
	KindCompositionEnd
	KindCharacterBoundsQuery
	KindTextFormatUpdate
)

var kindNames = [...]string{
	KindTextUpdate:           "text_update",
	KindSelectionChange:      "selection_change",
	KindCompositionStart:     "composition_start",
	KindCompositionUpdate:    "composition_update",
	KindCompositionEnd:       "composition_end",
	KindCharacterBoundsQuery: "character_bounds_query",
	KindTextFormatUpdate:     "text_format_update",
}

// String returns the snake_case event name.
func (k EventKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseEventKind parses a snake_case event name.
func ParseEventKind(s string) (EventKind, error) {
	for i, name := range kindNames {
		if name == s {
			return EventKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}

// Event is an edit event delivered by the input surface. The set of
// implementations is closed; see the types in this file.
type Event interface {
	Kind() EventKind
	isEvent()
}

// TextUpdate replaces [RangeStart, RangeEnd) with Text and suggests the
// selection to adopt afterwards.
type TextUpdate struct {
	RangeStart     int
	RangeEnd       int
	Text           string
	SelectionStart int
	SelectionEnd   int
}

// SelectionChange moves the selection without touching the text.
type SelectionChange struct {
	Start int
	End   int
}

// CompositionStart opens an input method composition session.
type CompositionStart struct{}

// CompositionUpdate replaces the staged composition text and formats.
type CompositionUpdate struct {
	Text    string
	Formats []FormatRange
}

// CompositionEnd closes the composition session. The committed text follows
// as a TextUpdate.
type CompositionEnd struct{}

// CharacterBoundsQuery asks for one rectangle per index in
// [RangeStart, RangeEnd).
type CharacterBoundsQuery struct {
	RangeStart int
	RangeEnd   int
}

// TextFormatUpdate replaces the format ranges of the composition without
// changing its text.
type TextFormatUpdate struct {
	Formats []FormatRange
}

func (TextUpdate) Kind() EventKind           { return KindTextUpdate }
func (SelectionChange) Kind() EventKind      { return KindSelectionChange }
func (CompositionStart) Kind() EventKind     { return KindCompositionStart }
func (CompositionUpdate) Kind() EventKind    { return KindCompositionUpdate }
func (CompositionEnd) Kind() EventKind       { return KindCompositionEnd }
func (CharacterBoundsQuery) Kind() EventKind { return KindCharacterBoundsQuery }
func (TextFormatUpdate) Kind() EventKind     { return KindTextFormatUpdate }

func (TextUpdate) isEvent()           {}
func (SelectionChange) isEvent()      {}
func (CompositionStart) isEvent()     {}
func (CompositionUpdate) isEvent()    {}
func (CompositionEnd) isEvent()       {}
func (CharacterBoundsQuery) isEvent() {}
func (TextFormatUpdate) isEvent()     {}

// String returns a compact description of the update.
func (u TextUpdate) String() string {
	return fmt.Sprintf("TextUpdate([%d:%d) %q sel=[%d:%d))", u.RangeStart, u.RangeEnd, u.Text, u.SelectionStart, u.SelectionEnd)
}

// String returns a compact description of the change.
func (c SelectionChange) String() string {
	return fmt.Sprintf("SelectionChange([%d:%d))", c.Start, c.End)
}
