// Package buffer provides the canonical text store of the edit engine.
//
// Text is held as a sequence of UTF-16 code units because every offset the
// input surface reports (update ranges, selections, bounds queries) is
// expressed in that unit. Callers work with Go strings at the edges and with
// unit offsets everywhere else:
//
//	buf := buffer.NewFromString("ab")
//	buf.Replace(2, 2, "c") // "abc", returns the new length 3
//	buf.Slice(1, 3)        // "bc"
//
// Position Types:
//
//   - int offsets: UTF-16 code unit positions in [0, Len()]
//   - Range: a half-open [Start, End) span of offsets
//
// Thread Safety:
//
// Buffer is not safe for concurrent use. It is owned by a single engine that
// processes one event at a time, so no locking is performed.
package buffer
