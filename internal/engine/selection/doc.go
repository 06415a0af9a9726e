// Package selection holds the editor's selection range.
//
// A Selection is a half-open span [Start, End) of UTF-16 offsets into the
// text buffer. When Start == End the selection is a caret with no selected
// text. The input surface reports selections that may have been computed
// against a buffer length that has since changed, so State.Set never fails:
// it clamps instead.
//
// Clamping Rules:
//
//   - both ends are limited to [0, length]
//   - if the clamped start is after the clamped end, end is raised to start
//
// The direction of a selection is not tracked; the input surface owns that.
package selection
