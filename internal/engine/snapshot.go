package engine

import (
	"fmt"
	"slices"

	"github.com/dshills/editcontext/internal/engine/buffer"
)

// Snapshot is the authoritative text and selection after an event.
// It is a value; later events never change a Snapshot already handed out.
type Snapshot struct {
	Text           string
	SelectionStart int
	SelectionEnd   int

	// Revision increases on every buffer mutation. Two snapshots with the
	// same revision carry the same text.
	Revision uint64

	// Composing is true while a composition overlay is active.
	Composing bool
}

// String returns a compact description of the snapshot.
func (s Snapshot) String() string {
	return fmt.Sprintf("Snapshot(r%d %q [%d:%d))", s.Revision, s.Text, s.SelectionStart, s.SelectionEnd)
}

// Len returns the text length in UTF-16 code units.
func (s Snapshot) Len() int {
	return buffer.Length(s.Text)
}

// Overlay is the uncommitted composition text to draw at Anchor.
type Overlay struct {
	Text    string
	Formats []FormatRange

	// Anchor is the buffer offset the composition is drawn at, the start of
	// the selection when the overlay was produced.
	Anchor int
}

// Clone returns a copy that shares no memory with o.
func (o Overlay) Clone() Overlay {
	o.Formats = slices.Clone(o.Formats)
	return o
}

// Rect is a character bounding box in the renderer's coordinate space.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Left returns the minimum x coordinate.
func (r Rect) Left() float64 { return r.X }

// Top returns the minimum y coordinate.
func (r Rect) Top() float64 { return r.Y }

// Right returns the maximum x coordinate.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the maximum y coordinate.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// IsZero returns true for the zero rectangle.
func (r Rect) IsZero() bool { return r == Rect{} }

// Result describes the outcome of Apply.
type Result struct {
	// Snapshot is the engine state after the event.
	Snapshot Snapshot

	// Emitted is true when Snapshot was sent to RenderSync.
	Emitted bool

	// Overlay is set when a composition overlay was sent to RenderSync.
	Overlay *Overlay

	// Bounds holds the rectangles answered for a CharacterBoundsQuery.
	Bounds []Rect

	// Fault records a recovered contract violation. The event was applied
	// unless errors.Is(Fault, ErrRangeViolation).
	Fault error
}

// RenderSync consumes engine output. All methods are called synchronously
// from Apply.
type RenderSync interface {
	// Render paints a snapshot.
	Render(snap Snapshot)

	// RenderComposition paints the composition overlay.
	RenderComposition(overlay Overlay)

	// CharacterBounds returns the bounding box of the character at index in
	// snap.
	CharacterBounds(index int, snap Snapshot) Rect
}

// NopRenderSync discards output and reports zero rectangles.
type NopRenderSync struct{}

func (NopRenderSync) Render(Snapshot)                    {}
func (NopRenderSync) RenderComposition(Overlay)          {}
func (NopRenderSync) CharacterBounds(int, Snapshot) Rect { return Rect{} }
