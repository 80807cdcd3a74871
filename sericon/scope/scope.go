// Package scope draws the generator's waveform over a calibration grid.
package scope

import (
	"fmt"
	"math"

	"tinygo.org/x/drivers"

	"sericon/sericon/wave"
)

const (
	// DefaultWindow is the time span across the surface, in seconds.
	DefaultWindow   = 0.05
	DefaultFreq     = 100.0
	tickSize        = 3
	edgeTickSpacing = 16
	dashSpacing     = 4
)

// GridMode selects the calibration overlay.
type GridMode uint8

const (
	GridDashed GridMode = iota
	GridTicks
	GridNone
)

func (m GridMode) String() string {
	switch m {
	case GridDashed:
		return "dashed"
	case GridTicks:
		return "ticks"
	case GridNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseGridMode accepts "dashed", "ticks" or "none".
func ParseGridMode(s string) (GridMode, error) {
	switch s {
	case "dashed", "grid", "":
		return GridDashed, nil
	case "ticks":
		return GridTicks, nil
	case "none":
		return GridNone, nil
	default:
		return GridDashed, fmt.Errorf("scope: unknown grid mode %q", s)
	}
}

// DrawGrid draws the border, 3px ticks at the middle of each edge and
// dashed center axes with a pixel every 4px.
func DrawGrid(c *Canvas) {
	w, h := c.Size()
	cx, cy := w/2, h/2

	c.Rect(0, 0, w, h)

	c.FastVLine(cx, 0, tickSize)
	c.FastVLine(cx, h-tickSize, tickSize)
	c.FastHLine(0, cy, tickSize)
	c.FastHLine(w-tickSize, cy, tickSize)

	for x := int16(0); x < w; x += dashSpacing {
		c.Pixel(x, cy)
	}
	for y := int16(0); y < h; y += dashSpacing {
		c.Pixel(cx, y)
	}
}

// DrawTicks draws a center cross and 3px edge ticks every 16px.
func DrawTicks(c *Canvas) {
	w, h := c.Size()
	cx, cy := w/2, h/2

	c.FastHLine(cx-tickSize, cy, tickSize*2)
	c.FastVLine(cx, cy-tickSize, tickSize*2)

	for x := int16(0); x <= w; x += edgeTickSpacing {
		c.FastVLine(x, h-tickSize, tickSize)
		c.FastVLine(x, 0, tickSize)
	}
	for y := int16(0); y <= h; y += edgeTickSpacing {
		c.FastHLine(0, y, tickSize)
		c.FastHLine(w-tickSize, y, tickSize)
	}
}

// TraceY returns the row for signal value v around centerY.
func TraceY(centerY int16, v float64) int16 {
	return centerY - int16(math.Round(v))
}

// DrawTrace plots one sample per column and joins neighbours with lines.
// Jumps (square and sawtooth edges) are drawn as vertical segments.
func DrawTrace(c *Canvas, kind wave.Kind, freq, amp, window float64) {
	w, h := c.Size()
	if w <= 0 {
		return
	}
	cy := h / 2
	var prev int16
	for x := int16(0); x < w; x++ {
		t := float64(x) / float64(w) * window
		y := TraceY(cy, wave.Sample(kind, freq, amp, t))
		if x == 0 {
			c.Pixel(x, y)
		} else {
			c.Line(x-1, prev, x, y)
		}
		prev = y
	}
}

// Config is the render state. The zero value is not useful; use NewConfig.
type Config struct {
	freq   float64
	amp    float64
	kind   wave.Kind
	window float64
	maxAmp float64
}

// NewConfig returns the defaults for a surface height: 100Hz, full-scale
// amplitude, sine, 50ms window.
func NewConfig(height int16) Config {
	maxAmp := float64(height/2) - 1
	if maxAmp < 0 {
		maxAmp = 0
	}
	return Config{
		freq:   DefaultFreq,
		amp:    maxAmp,
		kind:   wave.Sine,
		window: DefaultWindow,
		maxAmp: maxAmp,
	}
}

func (c Config) Frequency() float64    { return c.freq }
func (c Config) Amplitude() float64    { return c.amp }
func (c Config) MaxAmplitude() float64 { return c.maxAmp }
func (c Config) Waveform() wave.Kind   { return c.kind }
func (c Config) Window() float64       { return c.window }

// SetFrequency clamps negative values to 0.
func (c *Config) SetFrequency(f float64) {
	if f < 0 || math.IsNaN(f) {
		f = 0
	}
	c.freq = f
}

// SetAmplitude clamps to [0, height/2-1].
func (c *Config) SetAmplitude(a float64) {
	if a > c.maxAmp {
		a = c.maxAmp
	}
	if a < 0 || math.IsNaN(a) {
		a = 0
	}
	c.amp = a
}

// SetWaveform maps invalid kinds to Sine.
func (c *Config) SetWaveform(k wave.Kind) {
	if !k.Valid() {
		k = wave.Sine
	}
	c.kind = k
}

// SetWindow ignores non-positive spans.
func (c *Config) SetWindow(seconds float64) {
	if seconds > 0 && !math.IsInf(seconds, 0) {
		c.window = seconds
	}
}

// Scope renders a Config onto a Canvas.
type Scope struct {
	Config
	canvas *Canvas
	grid   GridMode
}

// New returns a Scope with default config sized to d.
func New(d drivers.Displayer, grid GridMode) *Scope {
	c := NewCanvas(d)
	_, h := c.Size()
	return &Scope{Config: NewConfig(h), canvas: c, grid: grid}
}

func (s *Scope) Canvas() *Canvas       { return s.canvas }
func (s *Scope) Grid() GridMode        { return s.grid }
func (s *Scope) SetGrid(mode GridMode) { s.grid = mode }

// SetGeneratorAmplitude maps a 0..fullScale control value onto the pixel
// half-range.
func (s *Scope) SetGeneratorAmplitude(v, fullScale float64) {
	if fullScale <= 0 {
		return
	}
	s.SetAmplitude(v / fullScale * s.maxAmp)
}

// Render clears, draws the overlay and the trace, then optionally flushes.
func (s *Scope) Render(flush bool) error {
	s.canvas.Clear()
	switch s.grid {
	case GridDashed:
		DrawGrid(s.canvas)
	case GridTicks:
		DrawTicks(s.canvas)
	}
	DrawTrace(s.canvas, s.kind, s.freq, s.amp, s.window)
	if flush {
		return s.canvas.Flush()
	}
	return nil
}
