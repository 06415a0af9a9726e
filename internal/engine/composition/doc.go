// Package composition stages in-progress input method (IME) text.
//
// Composition text is never merged into the text buffer by this package. It is
// overlaid by the renderer while a session is active, and the committed text
// reaches the buffer through a separate text update once the session ends.
//
// Lifecycle:
//
//	stage := composition.NewStage()
//	stage.Begin()
//	stage.Update("ni", []composition.FormatRange{{Start: 0, End: 2, Style: composition.Underline()}})
//	stage.End() // inactive and cleared
//
// Update on an inactive stage performs an implicit Begin; some hosts do not
// deliver the start notification before the first update.
package composition
