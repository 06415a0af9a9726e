package engine

import (
	"errors"

	"github.com/dshills/editcontext/internal/engine/buffer"
)

// Errors reported in Result.Fault.
var (
	// ErrRangeViolation indicates an update range inconsistent with the buffer.
	ErrRangeViolation = buffer.ErrRangeViolation

	// ErrInvalidStateTransition indicates a composition event arriving in the
	// wrong state.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrQueryOutOfBounds indicates a bounds query beyond the buffer.
	ErrQueryOutOfBounds = errors.New("query out of bounds")

	// ErrUnknownEvent indicates an event type the engine does not handle.
	ErrUnknownEvent = errors.New("unknown event")
)
