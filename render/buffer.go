package render

import (
	"github.com/gdamore/tcell/v2"
)

// BlendMode selects how a write combines with the existing cell
type BlendMode uint8

const (
	BlendReplace BlendMode = iota
	BlendAlpha
	BlendAdd
	BlendMax
)

// Cell is one composited terminal cell
type Cell struct {
	Rune rune
	Fg   RGB
	Bg   RGB
	Bold bool
}

// Buffer is a compositor with dirty tracking, flushed to a tcell.Screen once per frame
type Buffer struct {
	cells   []Cell
	touched []bool
	width   int
	height  int
}

// NewBuffer creates a buffer with the specified dimensions
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts dimensions, reallocating only if capacity is insufficient
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
		b.touched = make([]bool, size)
	} else {
		b.cells = b.cells[:size]
		b.touched = b.touched[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Clear resets all cells using exponential copy
func (b *Buffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = Cell{Rune: ' ', Fg: RgbText, Bg: RgbBackground}
	b.touched[0] = false
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
	for filled := 1; filled < len(b.touched); filled *= 2 {
		copy(b.touched[filled:], b.touched[:filled])
	}
}

// Bounds returns width and height
func (b *Buffer) Bounds() (int, int) {
	return b.width, b.height
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Get returns the cell at x,y; out of bounds yields the zero cell
func (b *Buffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return Cell{}
	}
	return b.cells[y*b.width+x]
}

// Set composites a glyph; a zero rune keeps the existing glyph
// BlendAlpha fades the glyph toward the cell background
func (b *Buffer) Set(x, y int, r rune, fg RGB, mode BlendMode, alpha float64) {
	if !b.inBounds(x, y) {
		return
	}
	dst := &b.cells[y*b.width+x]
	if r != 0 {
		dst.Rune = r
	}
	switch mode {
	case BlendReplace:
		dst.Fg = fg
	case BlendAlpha:
		dst.Fg = Blend(dst.Bg, fg, alpha)
	case BlendAdd:
		dst.Fg = Add(dst.Fg, fg, alpha)
	case BlendMax:
		dst.Fg = Max(dst.Fg, fg, alpha)
	}
}

// SetBg blends the background and marks the cell touched
func (b *Buffer) SetBg(x, y int, bg RGB, mode BlendMode, alpha float64) {
	if !b.inBounds(x, y) {
		return
	}
	idx := y*b.width + x
	dst := &b.cells[idx]
	switch mode {
	case BlendReplace:
		dst.Bg = bg
	case BlendAlpha:
		dst.Bg = Blend(dst.Bg, bg, alpha)
	case BlendAdd:
		dst.Bg = Add(dst.Bg, bg, alpha)
	case BlendMax:
		dst.Bg = Max(dst.Bg, bg, alpha)
	}
	b.touched[idx] = true
}

// Text writes s left to right from x, clipped at the buffer edge; returns columns written
func (b *Buffer) Text(x, y int, s string, fg RGB, alpha float64, bold bool) int {
	n := 0
	for _, r := range s {
		if b.inBounds(x+n, y) {
			b.Set(x+n, y, r, fg, BlendAlpha, alpha)
			b.cells[y*b.width+x+n].Bold = bold
		}
		n++
	}
	return n
}

// Flush writes every cell to the screen; untouched cells get the default background
func (b *Buffer) Flush(screen tcell.Screen) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			idx := y*b.width + x
			c := b.cells[idx]
			bg := c.Bg
			if !b.touched[idx] {
				bg = RgbBackground
			}
			style := tcell.StyleDefault.Foreground(c.Fg.Tcell()).Background(bg.Tcell()).Bold(c.Bold)
			r := c.Rune
			if r == 0 {
				r = ' '
			}
			screen.SetContent(x, y, r, nil, style)
		}
	}
}
