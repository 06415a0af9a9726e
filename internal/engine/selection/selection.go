package selection

import "fmt"

// Selection is an immutable value holding an ordered selection.
type Selection struct {
	Start int
	End   int
}

// NewCaret creates a collapsed selection at offset.
func NewCaret(offset int) Selection {
	return Selection{Start: offset, End: offset}
}

// IsEmpty returns true if the selection has no extent (just a caret).
func (s Selection) IsEmpty() bool {
	return s.Start == s.End
}

// Len returns the number of selected code units.
func (s Selection) Len() int {
	return s.End - s.Start
}

// Contains returns true if the given offset is within the selection.
// For carets this always returns false.
func (s Selection) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Clamp returns the selection limited to [0, length] with Start <= End.
func (s Selection) Clamp(length int) Selection {
	start := clamp(s.Start, length)
	end := clamp(s.End, length)
	if end < start {
		end = start
	}
	return Selection{Start: start, End: end}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Caret(%d)", s.Start)
	}
	return fmt.Sprintf("Selection(%d→%d)", s.Start, s.End)
}

func clamp(offset, length int) int {
	if length < 0 {
		length = 0
	}
	if offset < 0 {
		return 0
	}
	if offset > length {
		return length
	}
	return offset
}

// State owns the current selection of an engine.
type State struct {
	sel Selection
}

// NewState creates a state with a caret at the end of a buffer of the given
// length.
func NewState(length int) *State {
	return &State{sel: NewCaret(clamp(length, length))}
}

// Set stores start and end clamped against length and returns the stored
// selection.
func (s *State) Set(start, end, length int) Selection {
	s.sel = Selection{Start: start, End: end}.Clamp(length)
	return s.sel
}

// Get returns the current selection.
func (s *State) Get() Selection {
	return s.sel
}

// Start returns the lower bound of the selection.
func (s *State) Start() int {
	return s.sel.Start
}

// End returns the upper bound of the selection.
func (s *State) End() int {
	return s.sel.End
}
