// Package terminal wraps a tcell screen as the display and input device of
// the demo editor.
package terminal

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventPaste
	EventFocus
	EventInterrupt
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventKey:
		return "key"
	case EventResize:
		return "resize"
	case EventPaste:
		return "paste"
	case EventFocus:
		return "focus"
	case EventInterrupt:
		return "interrupt"
	default:
		return "none"
	}
}

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Resize event fields
	Width, Height int

	// Focus event fields
	Focused bool

	// Paste event fields. Bracketed paste arrives as a start marker, the
	// pasted keys, then an end marker.
	PasteStart bool
}

// Key represents a keyboard key.
type Key int

// Key constants for the keys the editor understands.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlSpace
	KeyCtrlA
	KeyCtrlC
	KeyCtrlE
	KeyCtrlQ
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// KeyEvent is a convenience constructor for key events.
func KeyEvent(k Key, r rune, mod ModMask) Event {
	return Event{Type: EventKey, Key: k, Rune: r, Mod: mod}
}

// RuneEvent is a convenience constructor for a printable key.
func RuneEvent(r rune) Event {
	return KeyEvent(KeyRune, r, ModNone)
}
