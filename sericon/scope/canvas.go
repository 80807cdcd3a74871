package scope

import (
	"image/color"

	"tinygo.org/x/drivers"
)

var (
	White = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Black = color.RGBA{A: 0xFF}
)

type rectFiller interface {
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

type bufferClearer interface {
	ClearBuffer()
}

// Canvas draws one-color primitives on a Displayer, clipped to its size.
type Canvas struct {
	d    drivers.Displayer
	w, h int16

	FG color.RGBA
	BG color.RGBA
}

// NewCanvas wraps d. Colors default to white on black.
func NewCanvas(d drivers.Displayer) *Canvas {
	w, h := d.Size()
	return &Canvas{d: d, w: w, h: h, FG: White, BG: Black}
}

func (c *Canvas) Size() (w, h int16) { return c.w, c.h }

func (c *Canvas) Pixel(x, y int16) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.d.SetPixel(x, y, c.FG)
}

// FastHLine draws w pixels to the right of (x, y).
func (c *Canvas) FastHLine(x, y, w int16) {
	if w <= 0 || y < 0 || y >= c.h {
		return
	}
	x0, x1 := clip(x, x+w, c.w)
	if f, ok := c.d.(rectFiller); ok {
		if x0 < x1 {
			_ = f.FillRectangle(x0, y, x1-x0, 1, c.FG)
		}
		return
	}
	for px := x0; px < x1; px++ {
		c.d.SetPixel(px, y, c.FG)
	}
}

// FastVLine draws h pixels down from (x, y).
func (c *Canvas) FastVLine(x, y, h int16) {
	if h <= 0 || x < 0 || x >= c.w {
		return
	}
	y0, y1 := clip(y, y+h, c.h)
	if f, ok := c.d.(rectFiller); ok {
		if y0 < y1 {
			_ = f.FillRectangle(x, y0, 1, y1-y0, c.FG)
		}
		return
	}
	for py := y0; py < y1; py++ {
		c.d.SetPixel(x, py, c.FG)
	}
}

// Rect outlines a w by h rectangle with its top-left corner at (x, y).
func (c *Canvas) Rect(x, y, w, h int16) {
	if w <= 0 || h <= 0 {
		return
	}
	c.FastHLine(x, y, w)
	c.FastHLine(x, y+h-1, w)
	c.FastVLine(x, y, h)
	c.FastVLine(x+w-1, y, h)
}

// Line draws from (x0, y0) to (x1, y1) inclusive (Bresenham).
func (c *Canvas) Line(x0, y0, x1, y1 int16) {
	dx := absInt(int(x1) - int(x0))
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	dy := -absInt(int(y1) - int(y0))
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	x, y := int(x0), int(y0)
	for {
		c.Pixel(int16(x), int16(y))
		if x == int(x1) && y == int(y1) {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// Clear fills the surface with BG.
func (c *Canvas) Clear() {
	if cl, ok := c.d.(bufferClearer); ok && c.BG == Black {
		cl.ClearBuffer()
		return
	}
	if f, ok := c.d.(rectFiller); ok {
		_ = f.FillRectangle(0, 0, c.w, c.h, c.BG)
		return
	}
	for y := int16(0); y < c.h; y++ {
		for x := int16(0); x < c.w; x++ {
			c.d.SetPixel(x, y, c.BG)
		}
	}
}

// Flush pushes the drawn frame to the panel.
func (c *Canvas) Flush() error { return c.d.Display() }

func clip(a, b, max int16) (int16, int16) {
	if a < 0 {
		a = 0
	}
	if b > max {
		b = max
	}
	return a, b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
