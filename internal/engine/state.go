package engine

import (
	"fmt"
	"strings"
)

// State is the composition state of the engine.
type State uint8

const (
	StateIdle State = iota
	StateComposing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComposing:
		return "composing"
	default:
		return "unknown"
	}
}

// PlaceholderPolicy selects which first event discards the placeholder.
type PlaceholderPolicy uint8

const (
	// PlaceholderClearOnTextUpdate discards the placeholder on the first
	// TextUpdate only.
	PlaceholderClearOnTextUpdate PlaceholderPolicy = iota

	// PlaceholderClearOnAnyEdit also discards it on the first SelectionChange.
	PlaceholderClearOnAnyEdit
)

// String returns the configuration name of the policy.
func (p PlaceholderPolicy) String() string {
	switch p {
	case PlaceholderClearOnTextUpdate:
		return "text_update"
	case PlaceholderClearOnAnyEdit:
		return "any_edit"
	default:
		return "unknown"
	}
}

// ParsePlaceholderPolicy parses a policy name as used in configuration.
func ParsePlaceholderPolicy(s string) (PlaceholderPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text_update":
		return PlaceholderClearOnTextUpdate, nil
	case "any_edit":
		return PlaceholderClearOnAnyEdit, nil
	default:
		return 0, fmt.Errorf("unknown placeholder policy %q", s)
	}
}
