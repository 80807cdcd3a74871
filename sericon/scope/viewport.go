package scope

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// Viewport exposes a w by h window of a parent Displayer at offset (x, y).
// Pixels outside the window are dropped. Display is forwarded to the parent.
type Viewport struct {
	parent drivers.Displayer
	x, y   int16
	w, h   int16
}

// NewViewport clips the window to the parent's bounds.
func NewViewport(parent drivers.Displayer, x, y, w, h int16) *Viewport {
	pw, ph := parent.Size()
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x+w > pw {
		w = pw - x
	}
	if y+h > ph {
		h = ph - y
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Viewport{parent: parent, x: x, y: y, w: w, h: h}
}

func (v *Viewport) Size() (x, y int16) { return v.w, v.h }

func (v *Viewport) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= v.w || y >= v.h {
		return
	}
	v.parent.SetPixel(v.x+x, v.y+y, c)
}

func (v *Viewport) Display() error { return v.parent.Display() }

// FillRectangle clips to the window, using the parent's fill when it has one.
func (v *Viewport) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	x0, x1 := clip(x, x+width, v.w)
	y0, y1 := clip(y, y+height, v.h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}
	if f, ok := v.parent.(rectFiller); ok {
		return f.FillRectangle(v.x+x0, v.y+y0, x1-x0, y1-y0, c)
	}
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			v.parent.SetPixel(v.x+px, v.y+py, c)
		}
	}
	return nil
}
