// Package render paints engine output and answers character bounds queries.
//
// Layout maps every UTF-16 index of a text to a cell rectangle. Grapheme
// clusters are found with uniseg and measured with go-runewidth, so all code
// units of one cluster (a surrogate pair, an emoji sequence, a base letter
// with combining marks) share one rectangle. Rectangles are expressed in
// CellMetrics units; the default metrics make one cell a 1x1 square.
//
// Two engine.RenderSync implementations are provided: Terminal draws onto a
// terminal.Screen, and Recorder keeps everything in memory.
package render
