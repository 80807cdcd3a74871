package app

import (
	"fmt"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"sericon/sericon/params"
	"sericon/sericon/scope"
)

const minStatusHeight = 8

var (
	statusBG  = color.RGBA{R: 0x10, G: 0x18, B: 0x20, A: 0xFF}
	statusFG  = color.RGBA{R: 0xC0, G: 0xC8, B: 0xD0, A: 0xFF}
	ledColors = [...]color.RGBA{
		{R: 0xFF, G: 0x30, B: 0x30, A: 0xFF},
		{R: 0xFF, G: 0xD0, B: 0x20, A: 0xFF},
		{R: 0x30, G: 0xE0, B: 0x40, A: 0xFF},
	}
	ledOff = color.RGBA{R: 0x38, G: 0x40, B: 0x48, A: 0xFF}
)

// splitPanel gives the scope the top scopeHeight rows and returns the rest
// as a status surface, or nil when the panel has no room for one.
func splitPanel(panel drivers.Displayer) (drivers.Displayer, drivers.Displayer) {
	w, h := panel.Size()
	if h < scopeHeight+minStatusHeight {
		return panel, nil
	}
	return scope.NewViewport(panel, 0, 0, w, scopeHeight),
		scope.NewViewport(panel, 0, scopeHeight, w, h-scopeHeight)
}

type statusStrip struct {
	d    *scope.Viewport
	font tinyfont.Fonter
}

func newStatusStrip(d drivers.Displayer) *statusStrip {
	vp, ok := d.(*scope.Viewport)
	if !ok {
		w, h := d.Size()
		vp = scope.NewViewport(d, 0, 0, w, h)
	}
	return &statusStrip{d: vp, font: &proggy.TinySZ8pt7b}
}

// statusText is the strip's text: frequency, amplitude, wave and mute.
func statusText(st *params.Store) string {
	text := fmt.Sprintf("%.1fHz A%.1f %s", st.Frequency(), st.Amplitude(), st.Waveform())
	if st.Muted() {
		text += " MUTE"
	}
	return text
}

// draw paints the text on the left and one square per indicator on the right.
func (s *statusStrip) draw(st *params.Store, lit int) {
	w, h := s.d.Size()
	_ = s.d.FillRectangle(0, 0, w, h, statusBG)

	baseline := h/2 + 4
	tinyfont.WriteLine(s.d, s.font, 2, baseline, statusText(st), statusFG)

	const box, gap = 6, 3
	x := w - 2 - int16(len(ledColors))*(box+gap) + gap
	y := (h - box) / 2
	for i, c := range ledColors {
		if i != lit {
			c = ledOff
		}
		_ = s.d.FillRectangle(x, y, box, box, c)
		x += box + gap
	}
}
