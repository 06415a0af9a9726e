package buffer

import "fmt"

// Range represents a span of UTF-16 code units.
// Start is inclusive, End is exclusive: [Start, End).
type Range struct {
	Start int // Inclusive start position
	End   int // Exclusive end position
}

// NewRange creates a new Range from start and end offsets.
func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range in code units.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if the range is ordered and non-negative.
func (r Range) IsValid() bool {
	return r.Start >= 0 && r.Start <= r.End
}

// Within returns true if the range is valid and ends at or before length.
func (r Range) Within(length int) bool {
	return r.IsValid() && r.End <= length
}

// Contains returns true if the given offset is within the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Clamp returns the range limited to [0, length] with Start <= End.
func (r Range) Clamp(length int) Range {
	start := clampOffset(r.Start, length)
	end := clampOffset(r.End, length)
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}

func clampOffset(offset, length int) int {
	if offset < 0 {
		return 0
	}
	if offset > length {
		return length
	}
	return offset
}
