package render

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/editcontext/internal/engine"
	"github.com/dshills/editcontext/internal/engine/buffer"
)

// DefaultTabWidth is the tab stop distance in cells.
const DefaultTabWidth = 4

// CellMetrics converts cell coordinates to rectangle coordinates.
type CellMetrics struct {
	Width   float64
	Height  float64
	OriginX float64
	OriginY float64
}

// DefaultMetrics returns metrics with unit cells at the origin.
func DefaultMetrics() CellMetrics {
	return CellMetrics{Width: 1, Height: 1}
}

// Cluster is one grapheme cluster placed on the cell grid.
type Cluster struct {
	Text  string
	Start int // first UTF-16 index
	End   int // one past the last UTF-16 index
	Col   int
	Row   int
	Width int // cells; 0 for line breaks
}

// IsNewline returns true if the cluster is a line break.
func (c Cluster) IsNewline() bool {
	return c.Text == "\n" || c.Text == "\r\n" || c.Text == "\r"
}

// Layout is the cell placement of a text.
type Layout struct {
	clusters []Cluster
	index    []int // UTF-16 index -> cluster
	endCol   int
	endRow   int
	metrics  CellMetrics
}

// LayoutOptions configures NewLayout.
type LayoutOptions struct {
	// Wrap is the line width in cells. Zero disables wrapping.
	Wrap     int
	TabWidth int
	Metrics  CellMetrics
}

// NewLayout places text on a cell grid.
func NewLayout(text string, opts LayoutOptions) *Layout {
	if opts.TabWidth <= 0 {
		opts.TabWidth = DefaultTabWidth
	}
	if opts.Metrics.Width == 0 && opts.Metrics.Height == 0 {
		opts.Metrics = DefaultMetrics()
	}

	l := &Layout{metrics: opts.Metrics}
	col, row, unit := 0, 0, 0

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		s := g.Str()
		units := buffer.Length(s)
		c := Cluster{Text: s, Start: unit, End: unit + units}

		switch {
		case c.IsNewline():
			c.Col, c.Row = col, row
			col, row = 0, row+1
		default:
			w := clusterWidth(s, col, opts.TabWidth)
			if opts.Wrap > 0 && col > 0 && col+w > opts.Wrap {
				col, row = 0, row+1
				w = clusterWidth(s, col, opts.TabWidth)
			}
			c.Col, c.Row, c.Width = col, row, w
			col += w
		}

		for range units {
			l.index = append(l.index, len(l.clusters))
		}
		l.clusters = append(l.clusters, c)
		unit += units
	}

	l.endCol, l.endRow = col, row
	return l
}

func clusterWidth(s string, col, tabWidth int) int {
	if s == "\t" {
		return tabWidth - col%tabWidth
	}
	w := runewidth.StringWidth(s)
	if w == 0 {
		// Zero-width clusters still need a cell to be addressable.
		return 1
	}
	return w
}

// Len returns the number of UTF-16 indexes laid out.
func (l *Layout) Len() int {
	return len(l.index)
}

// Clusters returns the placed clusters in text order.
func (l *Layout) Clusters() []Cluster {
	return l.clusters
}

// Bounds returns the rectangle of the character at index. Indexes outside
// the text yield the zero rectangle.
func (l *Layout) Bounds(index int) engine.Rect {
	if index < 0 || index >= len(l.index) {
		return engine.Rect{}
	}
	c := l.clusters[l.index[index]]
	return engine.Rect{
		X:      l.metrics.OriginX + float64(c.Col)*l.metrics.Width,
		Y:      l.metrics.OriginY + float64(c.Row)*l.metrics.Height,
		Width:  float64(c.Width) * l.metrics.Width,
		Height: l.metrics.Height,
	}
}

// Caret returns the cell a caret at index is drawn in. Indexes past the end
// map to the position after the last character.
func (l *Layout) Caret(index int) (col, row int) {
	if index < 0 {
		index = 0
	}
	if index >= len(l.index) {
		return l.endCol, l.endRow
	}
	c := l.clusters[l.index[index]]
	return c.Col, c.Row
}

// Rows returns the number of rows used, counting the caret row.
func (l *Layout) Rows() int {
	return l.endRow + 1
}
