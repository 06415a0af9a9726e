// Package replay drives an engine from a YAML event script.
//
// A script names the initial engine configuration and an ordered list of
// events:
//
//	placeholder: "Start typing here..."
//	policy: text_update
//	events:
//	  - type: text_update
//	    range_start: 0
//	    range_end: 0
//	    text: ab
//	    selection_start: 2
//	    selection_end: 2
//	  - type: composition_update
//	    text: c
//	    formats:
//	      - {start: 0, end: 1, underline: solid, thickness: thin}
//	  - type: character_bounds_query
//	    range_start: 0
//	    range_end: 2
//
// Run applies each event and writes one YAML document per step describing
// the engine state afterwards.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/editcontext/internal/engine"
	"github.com/dshills/editcontext/internal/engine/composition"
)

// ErrInvalidScript indicates a script that cannot be turned into events.
var ErrInvalidScript = errors.New("invalid replay script")

// Script is a decoded replay script.
type Script struct {
	// Placeholder overrides the default placeholder text when set.
	Placeholder *string `yaml:"placeholder,omitempty"`

	// Content starts the engine with real content and no placeholder.
	Content *string `yaml:"content,omitempty"`

	Policy string `yaml:"policy,omitempty"`

	// Wrap is the layout width used to answer bounds queries.
	Wrap int `yaml:"wrap,omitempty"`

	Events []Step `yaml:"events"`
}

// Step is one scripted event. Fields not used by the event type are ignored.
type Step struct {
	Type string `yaml:"type"`

	RangeStart     int    `yaml:"range_start,omitempty"`
	RangeEnd       int    `yaml:"range_end,omitempty"`
	Text           string `yaml:"text,omitempty"`
	SelectionStart int    `yaml:"selection_start,omitempty"`
	SelectionEnd   int    `yaml:"selection_end,omitempty"`

	Start int `yaml:"start,omitempty"`
	End   int `yaml:"end,omitempty"`

	Formats []Format `yaml:"formats,omitempty"`
}

// Format is a scripted composition format range.
type Format struct {
	Start     int    `yaml:"start"`
	End       int    `yaml:"end"`
	Underline string `yaml:"underline,omitempty"`
	Thickness string `yaml:"thickness,omitempty"`
}

// Parse decodes a script. Unknown keys are rejected.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks that every step names a known event and format.
func (s *Script) Validate() error {
	if _, err := engine.ParsePlaceholderPolicy(s.Policy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	if s.Placeholder != nil && s.Content != nil {
		return fmt.Errorf("%w: placeholder and content are exclusive", ErrInvalidScript)
	}
	for i, step := range s.Events {
		if _, err := step.Event(); err != nil {
			return fmt.Errorf("%w: event %d: %w", ErrInvalidScript, i, err)
		}
	}
	return nil
}

// EngineOptions returns the engine options the script asks for. Settings
// the script leaves out are not included.
func (s *Script) EngineOptions() []engine.Option {
	var opts []engine.Option
	switch {
	case s.Content != nil:
		opts = append(opts, engine.WithContent(*s.Content))
	case s.Placeholder != nil:
		opts = append(opts, engine.WithPlaceholder(*s.Placeholder))
	}
	if s.Policy != "" {
		policy, _ := engine.ParsePlaceholderPolicy(s.Policy)
		opts = append(opts, engine.WithPlaceholderPolicy(policy))
	}
	return opts
}

// Event converts the step to an engine event.
func (st Step) Event() (engine.Event, error) {
	kind, err := engine.ParseEventKind(st.Type)
	if err != nil {
		return nil, err
	}

	switch kind {
	case engine.KindTextUpdate:
		return engine.TextUpdate{
			RangeStart:     st.RangeStart,
			RangeEnd:       st.RangeEnd,
			Text:           st.Text,
			SelectionStart: st.SelectionStart,
			SelectionEnd:   st.SelectionEnd,
		}, nil
	case engine.KindSelectionChange:
		return engine.SelectionChange{Start: st.Start, End: st.End}, nil
	case engine.KindCompositionStart:
		return engine.CompositionStart{}, nil
	case engine.KindCompositionUpdate:
		formats, err := st.formats()
		if err != nil {
			return nil, err
		}
		return engine.CompositionUpdate{Text: st.Text, Formats: formats}, nil
	case engine.KindCompositionEnd:
		return engine.CompositionEnd{}, nil
	case engine.KindCharacterBoundsQuery:
		return engine.CharacterBoundsQuery{RangeStart: st.RangeStart, RangeEnd: st.RangeEnd}, nil
	case engine.KindTextFormatUpdate:
		formats, err := st.formats()
		if err != nil {
			return nil, err
		}
		return engine.TextFormatUpdate{Formats: formats}, nil
	default:
		return nil, fmt.Errorf("%w: %s", engine.ErrUnknownEvent, kind)
	}
}

func (st Step) formats() ([]engine.FormatRange, error) {
	if len(st.Formats) == 0 {
		return nil, nil
	}
	out := make([]engine.FormatRange, 0, len(st.Formats))
	for _, f := range st.Formats {
		underline, ok := composition.ParseUnderlineStyle(f.Underline)
		if !ok {
			return nil, fmt.Errorf("unknown underline style %q", f.Underline)
		}
		thickness, ok := composition.ParseUnderlineThickness(f.Thickness)
		if !ok {
			return nil, fmt.Errorf("unknown underline thickness %q", f.Thickness)
		}
		out = append(out, engine.FormatRange{
			Start: f.Start,
			End:   f.End,
			Style: composition.Style{Underline: underline, Thickness: thickness},
		})
	}
	return out, nil
}
