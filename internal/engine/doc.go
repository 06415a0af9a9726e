// Package engine provides the text editing model behind a custom editable
// region.
//
// The engine owns a text buffer, a selection and an input method composition
// stage. It never reads text back from the rendering surface: the only way
// state changes is through Apply, which receives ordered edit events from the
// input surface (keyboard, IME, pointer) and reports the result to a
// RenderSync.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - buffer: UTF-16 indexed text storage
//   - selection: clamped [start, end) selection range
//   - composition: staged IME text and its format ranges
//
// # Basic Usage
//
//	e := engine.New(engine.WithRenderSync(painter))
//
//	// The first text update replaces the placeholder outright.
//	res := e.Apply(engine.TextUpdate{RangeStart: 5, RangeEnd: 5, Text: "X", SelectionStart: 1, SelectionEnd: 1})
//	res.Snapshot.Text // "X"
//
//	// Later updates splice into the buffer at the reported range.
//	e.Apply(engine.TextUpdate{RangeStart: 1, RangeEnd: 1, Text: "y", SelectionStart: 2, SelectionEnd: 2})
//
// # Composition
//
// Between CompositionStart and CompositionEnd the engine is in the Composing
// state. CompositionUpdate events are staged and sent to RenderSync as an
// Overlay; they never touch the buffer. The committed text arrives as a
// regular TextUpdate after CompositionEnd. TextUpdate and SelectionChange are
// accepted in either state.
//
// # Placeholder
//
// A new engine holds placeholder text. The first TextUpdate discards it and
// applies its text at [0, 0] regardless of the reported range. With
// PlaceholderClearOnAnyEdit a SelectionChange also discards it.
//
// # Concurrency
//
// Engine is not safe for concurrent use. The host delivers one event at a
// time and waits for Apply to return; RenderSync is called synchronously from
// within Apply.
//
// # Error Handling
//
// Apply never returns an error. Contract violations by the input surface are
// recovered locally and reported in Result.Fault:
//
//   - ErrRangeViolation: the update range does not fit the buffer; the event
//     is dropped and the current snapshot is re-emitted
//   - ErrInvalidStateTransition: composition data arrived while idle; a
//     composition is started implicitly
//   - ErrQueryOutOfBounds: a bounds query exceeded the buffer; it is clamped
package engine
