package composition

import "slices"

// Stage holds the state of the current composition session.
type Stage struct {
	active  bool
	text    string
	formats []FormatRange
}

// NewStage creates an inactive, empty stage.
func NewStage() *Stage {
	return &Stage{}
}

// Begin starts a session. Calling Begin while already active does nothing.
func (s *Stage) Begin() {
	if s.active {
		return
	}
	s.active = true
	s.text = ""
	s.formats = nil
}

// Update replaces the composition text and formats. If no session is active
// one is started first; the return value reports whether that happened.
func (s *Stage) Update(text string, formats []FormatRange) (implicitBegin bool) {
	if !s.active {
		s.Begin()
		implicitBegin = true
	}
	s.text = text
	s.formats = slices.Clone(formats)
	return implicitBegin
}

// SetFormats replaces only the format ranges. The return value reports
// whether an implicit Begin was needed.
func (s *Stage) SetFormats(formats []FormatRange) (implicitBegin bool) {
	if !s.active {
		s.Begin()
		implicitBegin = true
	}
	s.formats = slices.Clone(formats)
	return implicitBegin
}

// End finishes the session and clears its contents.
func (s *Stage) End() {
	s.active = false
	s.text = ""
	s.formats = nil
}

// Active returns true while a session is in progress.
func (s *Stage) Active() bool {
	return s.active
}

// Text returns the current composition text.
func (s *Stage) Text() string {
	return s.text
}

// Formats returns a copy of the current format ranges.
func (s *Stage) Formats() []FormatRange {
	return slices.Clone(s.formats)
}
