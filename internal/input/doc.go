// Package input turns terminal key events into edit events.
//
// A Surface is the input half of an edit context. It mirrors the last
// snapshot the engine produced and derives the TextUpdate, SelectionChange
// and composition events a platform text input would send for each key.
//
// # Modes
//
// The surface starts in direct mode, where printable keys insert text. Ctrl-Space
// switches to IME mode, which simulates an input method: keys build an
// uncommitted composition, Enter commits it and Escape cancels it.
//
// # Usage
//
//	surface := input.NewSurface(input.WithLogger(logger))
//	surface.Sync(eng.Snapshot())
//
//	for ev := range terminalEvents {
//	    surface.Dispatch(ev, eng.Apply)
//	}
package input
