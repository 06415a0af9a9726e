package engine

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultPlaceholder is the prompt shown before the first edit.
const DefaultPlaceholder = "Start typing here..."

// Option configures an Engine during creation.
type Option func(*Engine)

// WithPlaceholder sets the placeholder text shown until the first edit.
func WithPlaceholder(text string) Option {
	return func(e *Engine) {
		e.initContent = text
		e.placeholder = true
	}
}

// WithContent starts the engine with real content instead of a placeholder.
// The first TextUpdate splices into it like any other.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
		e.placeholder = false
	}
}

// WithPlaceholderPolicy selects which first event discards the placeholder.
func WithPlaceholderPolicy(policy PlaceholderPolicy) Option {
	return func(e *Engine) {
		e.policy = policy
	}
}

// WithRenderSync sets the consumer of snapshots, overlays and bounds queries.
func WithRenderSync(r RenderSync) Option {
	return func(e *Engine) {
		if r != nil {
			e.render = r
		}
	}
}

// WithLogger sets the logger. Events are logged at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id uuid.UUID) Option {
	return func(e *Engine) {
		e.session = id
	}
}
