package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Screen is a tcell screen with event conversion.
type Screen struct {
	screen tcell.Screen
	mu     sync.Mutex
	ready  bool
}

// NewScreen creates a screen on the controlling terminal.
func NewScreen() (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Screen{screen: screen}, nil
}

// NewSimulation creates an in-memory screen of the given size. The returned
// tcell.SimulationScreen can inject keys and inspect cells.
func NewSimulation(width, height int) (*Screen, tcell.SimulationScreen) {
	sim := tcell.NewSimulationScreen("UTF-8")
	s := &Screen{screen: sim}
	if err := sim.Init(); err == nil {
		sim.SetSize(width, height)
		s.ready = true
	}
	return s, sim
}

// Init initializes the terminal and enables bracketed paste. Calling Init on
// an initialized screen only re-enables paste.
func (s *Screen) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		if err := s.screen.Init(); err != nil {
			return err
		}
		s.ready = true
	}
	s.screen.EnablePaste()
	return nil
}

// Shutdown restores the terminal.
func (s *Screen) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Fini()
	s.ready = false
}

// Size returns the current terminal dimensions.
func (s *Screen) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.screen.Size()
}

// SetContent sets a single cell. Positions outside the screen are ignored.
func (s *Screen) SetContent(x, y int, r rune, combining []rune, style tcell.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.SetContent(x, y, r, combining, style)
}

// Clear clears the entire screen.
func (s *Screen) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Clear()
}

// Show flushes pending changes to the display.
func (s *Screen) Show() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Show()
}

// ShowCursor positions and displays the cursor.
func (s *Screen) ShowCursor(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.ShowCursor(x, y)
}

// HideCursor hides the cursor.
func (s *Screen) HideCursor() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.HideCursor()
}

// Beep produces an audible or visual bell.
func (s *Screen) Beep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.screen.Beep() // best-effort; terminal may not support beep
}

// PollEvent waits for and returns the next terminal event. It returns false
// once the screen has been shut down.
func (s *Screen) PollEvent() (Event, bool) {
	ev := s.screen.PollEvent()
	if ev == nil {
		return Event{}, false
	}
	return convertEvent(ev), true
}

// Interrupt wakes up PollEvent with an EventInterrupt.
func (s *Screen) Interrupt() {
	_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil)) // best-effort; queue may be full
}

// convertEvent converts tcell events to our Event type.
func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{
			Type: EventKey,
			Key:  convertKey(e.Key()),
			Rune: e.Rune(),
			Mod:  convertMod(e.Modifiers()),
		}

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{
			Type:   EventResize,
			Width:  w,
			Height: h,
		}

	case *tcell.EventPaste:
		return Event{
			Type:       EventPaste,
			PasteStart: e.Start(),
		}

	case *tcell.EventFocus:
		return Event{
			Type:    EventFocus,
			Focused: e.Focused,
		}

	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt}

	default:
		return Event{Type: EventNone}
	}
}

// convertKey converts tcell key to our Key type.
func convertKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyRune:
		return KeyRune
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyTab:
		return KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyDelete:
		return KeyDelete
	case tcell.KeyHome:
		return KeyHome
	case tcell.KeyEnd:
		return KeyEnd
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyCtrlSpace:
		return KeyCtrlSpace
	case tcell.KeyCtrlA:
		return KeyCtrlA
	case tcell.KeyCtrlC:
		return KeyCtrlC
	case tcell.KeyCtrlE:
		return KeyCtrlE
	case tcell.KeyCtrlQ:
		return KeyCtrlQ
	default:
		return KeyNone
	}
}

// convertMod converts tcell modifiers to our ModMask.
func convertMod(m tcell.ModMask) ModMask {
	var mod ModMask
	if m&tcell.ModShift != 0 {
		mod |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mod |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mod |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mod |= ModMeta
	}
	return mod
}
