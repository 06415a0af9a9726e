package input

// Mode is the text entry mode of a Surface.
type Mode int

const (
	// ModeDirect inserts typed characters immediately.
	ModeDirect Mode = iota
	// ModeIME collects typed characters into a composition.
	ModeIME
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeIME:
		return "ime"
	default:
		return "unknown"
	}
}
