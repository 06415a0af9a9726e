package render

import (
	"slices"

	"github.com/dshills/editcontext/internal/engine"
)

// Recorder is an in-memory engine.RenderSync. It keeps every snapshot and
// overlay it receives and answers bounds queries from a Layout.
type Recorder struct {
	Snapshots []engine.Snapshot
	Overlays  []engine.Overlay
	Queries   int

	opts LayoutOptions
}

// NewRecorder creates a Recorder whose bounds come from a layout built with
// opts.
func NewRecorder(opts LayoutOptions) *Recorder {
	return &Recorder{opts: opts}
}

// Render implements engine.RenderSync.
func (r *Recorder) Render(snap engine.Snapshot) {
	r.Snapshots = append(r.Snapshots, snap)
}

// RenderComposition implements engine.RenderSync.
func (r *Recorder) RenderComposition(o engine.Overlay) {
	r.Overlays = append(r.Overlays, o)
}

// CharacterBounds implements engine.RenderSync.
func (r *Recorder) CharacterBounds(index int, snap engine.Snapshot) engine.Rect {
	r.Queries++
	return NewLayout(snap.Text, r.opts).Bounds(index)
}

// Last returns the most recent snapshot, if any.
func (r *Recorder) Last() (engine.Snapshot, bool) {
	if len(r.Snapshots) == 0 {
		return engine.Snapshot{}, false
	}
	return r.Snapshots[len(r.Snapshots)-1], true
}

// LastOverlay returns the most recent overlay, if any.
func (r *Recorder) LastOverlay() (engine.Overlay, bool) {
	if len(r.Overlays) == 0 {
		return engine.Overlay{}, false
	}
	return r.Overlays[len(r.Overlays)-1].Clone(), true
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.Snapshots = slices.Delete(r.Snapshots, 0, len(r.Snapshots))
	r.Overlays = slices.Delete(r.Overlays, 0, len(r.Overlays))
	r.Queries = 0
}
