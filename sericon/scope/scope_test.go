package scope

import (
	"image/color"
	"testing"

	"sericon/sericon/wave"
)

type pt struct{ x, y int16 }

// panel records lit pixels. Any non-black color counts as lit.
type panel struct {
	w, h   int16
	lit    map[pt]bool
	shows  int
	clears int
}

func newPanel(w, h int16) *panel {
	return &panel{w: w, h: h, lit: make(map[pt]bool)}
}

func (p *panel) Size() (int16, int16) { return p.w, p.h }

func (p *panel) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= p.w || y >= p.h {
		panic("pixel out of bounds")
	}
	on := c.R|c.G|c.B != 0
	if on {
		p.lit[pt{x, y}] = true
	} else {
		delete(p.lit, pt{x, y})
	}
}

func (p *panel) Display() error { p.shows++; return nil }

// oled adds the ClearBuffer fast path the SSD1306 driver has.
type oled struct{ *panel }

func (o oled) ClearBuffer() {
	o.clears++
	o.lit = make(map[pt]bool)
}

func TestDrawGrid(t *testing.T) {
	p := newPanel(128, 64)
	DrawGrid(NewCanvas(p))

	for _, q := range []pt{{0, 0}, {127, 0}, {0, 63}, {127, 63}, {50, 0}, {0, 20}} {
		if !p.lit[q] {
			t.Fatalf("border pixel %v not lit", q)
		}
	}
	for _, q := range []pt{{64, 1}, {64, 2}, {64, 61}, {1, 32}, {2, 32}, {126, 32}} {
		if !p.lit[q] {
			t.Fatalf("edge tick %v not lit", q)
		}
	}
	for x := int16(4); x < 124; x += 4 {
		if !p.lit[pt{x, 32}] {
			t.Fatalf("dashed axis pixel (%d,32) not lit", x)
		}
	}
	if p.lit[pt{5, 32}] || p.lit[pt{64, 5}] {
		t.Fatal("axis should be dashed")
	}
	if !p.lit[pt{64, 8}] {
		t.Fatal("vertical axis pixel (64,8) not lit")
	}
}

func TestDrawTicks(t *testing.T) {
	p := newPanel(128, 64)
	DrawTicks(NewCanvas(p))

	for _, q := range []pt{{61, 32}, {66, 32}, {64, 29}, {64, 34}, {16, 0}, {16, 62}, {0, 16}, {126, 48}} {
		if !p.lit[q] {
			t.Fatalf("tick pixel %v not lit", q)
		}
	}
	if p.lit[pt{0, 0}] && p.lit[pt{50, 0}] {
		t.Fatal("ticks mode should not draw a border")
	}
}

func TestDrawTraceSineStartsAtCenter(t *testing.T) {
	p := newPanel(128, 64)
	DrawTrace(NewCanvas(p), wave.Sine, 100, 31, DefaultWindow)
	if !p.lit[pt{0, 32}] {
		t.Fatal("trace should start at the center row")
	}
	// Quarter period of 100Hz is 2.5ms, which is x = 6.4.
	peak := int16(32 - 31)
	found := false
	for x := int16(5); x <= 8; x++ {
		if p.lit[pt{x, peak}] {
			found = true
		}
	}
	if !found {
		t.Fatal("sine peak not drawn near x=6")
	}
}

func TestDrawTraceSquareDrawsEdges(t *testing.T) {
	p := newPanel(128, 64)
	DrawTrace(NewCanvas(p), wave.Square, 100, 20, DefaultWindow)

	if !p.lit[pt{0, 12}] {
		t.Fatal("square should start high")
	}
	// The first falling edge is between columns 12 and 13.
	for y := int16(12); y <= 52; y++ {
		if !p.lit[pt{12, y}] && !p.lit[pt{13, y}] {
			t.Fatalf("edge gap at row %d", y)
		}
	}
}

func TestTraceYRounds(t *testing.T) {
	if got := TraceY(32, 2.6); got != 29 {
		t.Fatalf("TraceY(32, 2.6) = %d, want 29", got)
	}
	if got := TraceY(32, -2.4); got != 34 {
		t.Fatalf("TraceY(32, -2.4) = %d, want 34", got)
	}
}

func TestConfigClamps(t *testing.T) {
	c := NewConfig(64)
	if c.Frequency() != 100 || c.Amplitude() != 31 || c.Waveform() != wave.Sine || c.Window() != 0.05 {
		t.Fatalf("defaults = %+v", c)
	}
	c.SetFrequency(-1)
	if c.Frequency() != 0 {
		t.Fatalf("freq = %v, want 0", c.Frequency())
	}
	c.SetAmplitude(100)
	if c.Amplitude() != 31 {
		t.Fatalf("amp = %v, want 31", c.Amplitude())
	}
	c.SetAmplitude(-3)
	if c.Amplitude() != 0 {
		t.Fatalf("amp = %v, want 0", c.Amplitude())
	}
	c.SetWaveform(wave.Kind(9))
	if c.Waveform() != wave.Sine {
		t.Fatalf("waveform = %v, want Sine", c.Waveform())
	}
	c.SetWindow(-1)
	if c.Window() != 0.05 {
		t.Fatalf("window = %v", c.Window())
	}
}

func TestGeneratorAmplitudeScaling(t *testing.T) {
	s := New(newPanel(128, 64), GridNone)
	s.SetGeneratorAmplitude(15, 30)
	if s.Amplitude() != 15.5 {
		t.Fatalf("amp = %v, want 15.5", s.Amplitude())
	}
}

func TestRenderClearsFlushes(t *testing.T) {
	p := newPanel(128, 64)
	o := oled{p}
	s := New(o, GridNone)
	s.SetAmplitude(0)
	if err := s.Render(true); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if p.clears != 1 || p.shows != 1 {
		t.Fatalf("clears=%d shows=%d", p.clears, p.shows)
	}
	// Zero amplitude is a flat line on the center row.
	if len(p.lit) != 128 {
		t.Fatalf("lit = %d, want 128", len(p.lit))
	}
	if err := s.Render(false); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if p.shows != 1 || len(p.lit) != 128 {
		t.Fatalf("shows=%d lit=%d", p.shows, len(p.lit))
	}
}

func TestRenderClearWithoutFastPath(t *testing.T) {
	p := newPanel(16, 8)
	p.lit[pt{3, 0}] = true
	s := New(p, GridNone)
	s.SetAmplitude(0)
	_ = s.Render(false)
	if p.lit[pt{3, 0}] {
		t.Fatal("stale pixel survived Clear")
	}
}

func TestViewportOffsetsAndClips(t *testing.T) {
	p := newPanel(128, 80)
	v := NewViewport(p, 0, 64, 128, 32)
	if w, h := v.Size(); w != 128 || h != 16 {
		t.Fatalf("size = %dx%d, want 128x16", w, h)
	}
	v.SetPixel(2, 3, White)
	v.SetPixel(2, 16, White)
	if !p.lit[pt{2, 67}] || len(p.lit) != 1 {
		t.Fatalf("lit = %v", p.lit)
	}
	_ = v.FillRectangle(-5, 14, 10, 10, White)
	if !p.lit[pt{0, 78}] || !p.lit[pt{4, 79}] || p.lit[pt{5, 79}] {
		t.Fatalf("fill clipped wrong: %v", p.lit)
	}
}

func TestParseGridMode(t *testing.T) {
	for in, want := range map[string]GridMode{"dashed": GridDashed, "ticks": GridTicks, "none": GridNone} {
		got, err := ParseGridMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseGridMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseGridMode("dots"); err == nil {
		t.Fatal("expected error")
	}
}
