package render

import (
	"fmt"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/editcontext/internal/engine"
	"github.com/dshills/editcontext/internal/engine/buffer"
	"github.com/dshills/editcontext/internal/engine/composition"
	"github.com/dshills/editcontext/internal/terminal"
)

// Options configures the terminal renderer.
type Options struct {
	Wrap       int  // Column to wrap at (0 = screen width)
	TabWidth   int  // Tab stop distance in cells
	ShowStatus bool // Paint the debug status line on the last row

	TextStyle        tcell.Style
	SelectionStyle   tcell.Style
	CompositionStyle tcell.Style
	StatusStyle      tcell.Style
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Wrap:             0,
		TabWidth:         DefaultTabWidth,
		ShowStatus:       true,
		TextStyle:        tcell.StyleDefault,
		SelectionStyle:   tcell.StyleDefault.Reverse(true),
		CompositionStyle: tcell.StyleDefault.Foreground(tcell.ColorYellow),
		StatusStyle:      tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	}
}

// Terminal is an engine.RenderSync that paints onto a terminal screen.
// The last row is reserved for the status line when Options.ShowStatus is set.
type Terminal struct {
	screen *terminal.Screen
	opts   Options

	// Last state received from the engine
	snap      engine.Snapshot
	overlay   engine.Overlay
	composing bool
	state     string

	// Layout cache for CharacterBounds
	cached     *Layout
	cachedText string
	cachedWrap int

	frames uint64
}

// NewTerminal creates a renderer drawing on screen.
func NewTerminal(screen *terminal.Screen, opts Options) *Terminal {
	if opts.TabWidth <= 0 {
		opts.TabWidth = DefaultTabWidth
	}
	return &Terminal{
		screen: screen,
		opts:   opts,
		state:  engine.StateIdle.String(),
	}
}

// SetOptions replaces the renderer options and repaints.
func (t *Terminal) SetOptions(opts Options) {
	if opts.TabWidth <= 0 {
		opts.TabWidth = DefaultTabWidth
	}
	t.opts = opts
	t.cached = nil
	t.Redraw()
}

// Options returns the current renderer options.
func (t *Terminal) Options() Options {
	return t.opts
}

// Frames returns the number of frames painted.
func (t *Terminal) Frames() uint64 {
	return t.frames
}

// Render implements engine.RenderSync.
func (t *Terminal) Render(snap engine.Snapshot) {
	t.snap = snap
	t.composing = snap.Composing
	if !snap.Composing {
		t.overlay = engine.Overlay{}
		t.state = engine.StateIdle.String()
	} else {
		t.state = engine.StateComposing.String()
	}
	t.Redraw()
}

// RenderComposition implements engine.RenderSync.
func (t *Terminal) RenderComposition(o engine.Overlay) {
	t.overlay = o
	t.composing = true
	t.state = engine.StateComposing.String()
	t.Redraw()
}

// CharacterBounds implements engine.RenderSync. The rectangle is in screen
// cells, matching where the character is painted while no overlay is shown.
func (t *Terminal) CharacterBounds(index int, snap engine.Snapshot) engine.Rect {
	return t.layout(snap.Text).Bounds(index)
}

// Redraw repaints the last received state.
func (t *Terminal) Redraw() {
	width, height := t.screen.Size()
	t.screen.Clear()

	rows := height
	if t.opts.ShowStatus {
		rows--
	}

	text := t.snap.Text
	length := buffer.Length(text)

	// The snapshot may be stale relative to text edits made by the host, so
	// the selection is clamped again against what is painted.
	sel := buffer.NewRange(t.snap.SelectionStart, t.snap.SelectionEnd).Clamp(length)
	caret := sel.End

	display := text
	comp := buffer.Range{Start: -1, End: -1}
	if t.composing && t.overlay.Text != "" {
		anchor := buffer.NewRange(t.overlay.Anchor, t.overlay.Anchor).Clamp(length).Start
		b := buffer.NewFromString(text)
		display = b.Slice(0, anchor) + t.overlay.Text + b.Slice(anchor, length)
		comp = buffer.NewRange(anchor, anchor+buffer.Length(t.overlay.Text))
		sel = buffer.NewRange(comp.End, comp.End)
		caret = comp.End
	}

	l := t.layout(display)
	for _, c := range l.Clusters() {
		if c.IsNewline() || c.Row >= rows {
			continue
		}
		style := t.opts.TextStyle
		if overlaps(c, sel) {
			style = t.opts.SelectionStyle
		}
		if overlaps(c, comp) {
			style = t.compositionStyle(c.Start - comp.Start)
		}
		t.drawCluster(c, style)
	}

	col, row := l.Caret(caret)
	if row < rows && col < width {
		t.screen.ShowCursor(col, row)
	} else {
		t.screen.HideCursor()
	}

	if t.opts.ShowStatus && height > 0 {
		t.drawStatus(height-1, width, sel)
	}

	t.screen.Show()
	t.frames++
}

func (t *Terminal) layout(text string) *Layout {
	wrap := t.opts.Wrap
	if wrap <= 0 {
		wrap, _ = t.screen.Size()
	}
	if t.cached != nil && t.cachedText == text && t.cachedWrap == wrap {
		return t.cached
	}
	t.cached = NewLayout(text, LayoutOptions{Wrap: wrap, TabWidth: t.opts.TabWidth})
	t.cachedText = text
	t.cachedWrap = wrap
	return t.cached
}

// compositionStyle returns the style for the composition unit at offset,
// applying the first format range covering it.
func (t *Terminal) compositionStyle(offset int) tcell.Style {
	style := t.opts.CompositionStyle
	for _, f := range t.overlay.Formats {
		if offset < f.Start || offset >= f.End {
			continue
		}
		if f.Style.Underline != composition.UnderlineNone {
			style = style.Underline(true)
		}
		if f.Style.Thickness == composition.ThicknessThick {
			style = style.Bold(true)
		}
		return style
	}
	return style
}

func (t *Terminal) drawCluster(c Cluster, style tcell.Style) {
	if c.Text == "\t" {
		for i := range c.Width {
			t.screen.SetContent(c.Col+i, c.Row, ' ', nil, style)
		}
		return
	}

	runes := []rune(c.Text)
	if len(runes) == 0 {
		return
	}
	base, combining := runes[0], runes[1:]
	if unicode.IsControl(base) || runewidth.StringWidth(c.Text) == 0 {
		base, combining = '?', nil
	}
	t.screen.SetContent(c.Col, c.Row, base, combining, style)
}

func (t *Terminal) drawStatus(row, width int, sel buffer.Range) {
	line := fmt.Sprintf("text=%q start=%d end=%d state=%s", t.snap.Text, sel.Start, sel.End, t.state)
	line = runewidth.Truncate(line, width, "…")

	col := 0
	for _, r := range line {
		t.screen.SetContent(col, row, r, nil, t.opts.StatusStyle)
		col += runewidth.RuneWidth(r)
	}
	for ; col < width; col++ {
		t.screen.SetContent(col, row, ' ', nil, t.opts.StatusStyle)
	}
}

func overlaps(c Cluster, r buffer.Range) bool {
	return r.Start >= 0 && c.Start < r.End && c.End > r.Start
}
