package buffer

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	// ErrRangeViolation indicates a range that does not fit the current buffer.
	ErrRangeViolation = errors.New("range violation")
)

// RangeError describes a rejected range together with the buffer length it
// was checked against.
type RangeError struct {
	Range Range
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range %s outside buffer of length %d", e.Range, e.Len)
}

// Unwrap returns ErrRangeViolation so callers can use errors.Is.
func (e *RangeError) Unwrap() error {
	return ErrRangeViolation
}

// Buffer holds text as UTF-16 code units.
type Buffer struct {
	units []uint16

	// text caches the decoded content; valid when !stale.
	text  string
	stale bool
}

// New creates a new empty buffer.
func New() *Buffer {
	return &Buffer{}
}

// NewFromString creates a buffer with initial content.
func NewFromString(s string) *Buffer {
	return &Buffer{units: encode(s), stale: true}
}

// Len returns the buffer length in UTF-16 code units.
func (b *Buffer) Len() int {
	return len(b.units)
}

// IsEmpty returns true if the buffer holds no text.
func (b *Buffer) IsEmpty() bool {
	return len(b.units) == 0
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	if b.stale {
		b.text = decode(b.units)
		b.stale = false
	}
	return b.text
}

// Slice returns the text in [start, end). Offsets are clamped to the buffer,
// so an out of range request yields a shorter or empty string.
func (b *Buffer) Slice(start, end int) string {
	r := Range{Start: start, End: end}.Clamp(len(b.units))
	return decode(b.units[r.Start:r.End])
}

// UnitAt returns the code unit at offset.
func (b *Buffer) UnitAt(offset int) (uint16, bool) {
	if offset < 0 || offset >= len(b.units) {
		return 0, false
	}
	return b.units[offset], true
}

// Replace replaces [start, end) with text and returns the new buffer length.
// The range must satisfy 0 <= start <= end <= Len(); otherwise a *RangeError
// is returned and the buffer is left unchanged.
func (b *Buffer) Replace(start, end int, text string) (int, error) {
	r := Range{Start: start, End: end}
	if !r.Within(len(b.units)) {
		return len(b.units), &RangeError{Range: r, Len: len(b.units)}
	}

	ins := encode(text)
	if r.IsEmpty() && len(ins) == 0 {
		return len(b.units), nil
	}

	out := make([]uint16, 0, len(b.units)-r.Len()+len(ins))
	out = append(out, b.units[:start]...)
	out = append(out, ins...)
	out = append(out, b.units[end:]...)
	b.units = out
	b.stale = true

	return len(b.units), nil
}

// Reset replaces the whole content with text.
func (b *Buffer) Reset(text string) {
	b.units = encode(text)
	b.stale = true
}

// RuneAt returns the rune starting at offset together with the number of code
// units it occupies. An unpaired surrogate yields U+FFFD with width 1.
func (b *Buffer) RuneAt(offset int) (rune, int) {
	u, ok := b.UnitAt(offset)
	if !ok {
		return 0, 0
	}
	if IsHighSurrogate(u) {
		if lo, ok := b.UnitAt(offset + 1); ok && IsLowSurrogate(lo) {
			return utf16.DecodeRune(rune(u), rune(lo)), 2
		}
		return utf8.RuneError, 1
	}
	if IsLowSurrogate(u) {
		return utf8.RuneError, 1
	}
	return rune(u), 1
}
