package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError     = "error"
	FieldPath      = "path"
	FieldComponent = "component"
	FieldOp        = "op"

	// Engine fields.
	FieldSession   = "session"
	FieldEvent     = "event"
	FieldState     = "state"
	FieldRange     = "range"
	FieldSelection = "selection"
	FieldLength    = "length"
	FieldRevision  = "revision"
	FieldCount     = "count"
	FieldFaults    = "faults"

	// Input fields.
	FieldMode = "mode"
	FieldKey  = "key"

	// Configuration fields.
	FieldLevel  = "level"
	FieldPolicy = "policy"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
