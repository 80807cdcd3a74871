package app

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tinygo.org/x/drivers"

	"sericon/hal"
	"sericon/sericon/prefs"
	"sericon/sericon/wave"
)

type fakeLogger struct{ lines []string }

func (l *fakeLogger) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *fakeLogger) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

type fakeLED struct{ on bool }

func (l *fakeLED) High() { l.on = true }
func (l *fakeLED) Low()  { l.on = false }

type fakePin struct {
	name  string
	level bool
	out   bool
}

func (p *fakePin) Name() string       { return p.name }
func (p *fakePin) Caps() hal.GPIOCaps { return hal.GPIOCapOutput }
func (p *fakePin) Configure(mode hal.GPIOMode, _ hal.GPIOPull) error {
	p.out = mode == hal.GPIOModeOutput
	return nil
}
func (p *fakePin) Read() (bool, error)    { return p.level, nil }
func (p *fakePin) Write(level bool) error { p.level = level; return nil }

type fakeGPIO []*fakePin

func (g fakeGPIO) PinCount() int          { return len(g) }
func (g fakeGPIO) Pin(id int) hal.GPIOPin { return g[id] }

type fakePanel struct {
	w, h   int16
	pix    map[[2]int16]color.RGBA
	frames int
}

func (p *fakePanel) Size() (int16, int16) { return p.w, p.h }
func (p *fakePanel) SetPixel(x, y int16, c color.RGBA) {
	p.pix[[2]int16{x, y}] = c
}
func (p *fakePanel) Display() error { p.frames++; return nil }

type fakeDisplay struct{ panel *fakePanel }

func (d fakeDisplay) Framebuffer() hal.Framebuffer { return nil }
func (d fakeDisplay) Panel() drivers.Displayer     { return d.panel }

type fakeSerial struct {
	in  []byte
	out bytes.Buffer
}

func (s *fakeSerial) Read(p []byte) (int, error) {
	n := copy(p, s.in)
	s.in = s.in[n:]
	return n, nil
}
func (s *fakeSerial) Write(p []byte) (int, error) { return s.out.Write(p) }

type fakeTime struct{ ch chan uint64 }

func (t fakeTime) Ticks() <-chan uint64 { return t.ch }

type noInput struct{}

func (noInput) Keyboard() hal.Keyboard { return nil }

type noAudio struct{}

func (noAudio) PWM() hal.PWMAudio { return nil }

type fakeSystem struct{ restarts int }

func (s *fakeSystem) Restart() { s.restarts++ }

type fakeHAL struct {
	log    *fakeLogger
	led    *fakeLED
	gpio   fakeGPIO
	panel  *fakePanel
	flash  *hal.MemFlash
	time   fakeTime
	serial *fakeSerial
	sys    *fakeSystem
}

func newFakeHAL(panelH int16) *fakeHAL {
	var pins fakeGPIO
	for _, name := range hal.IndicatorPins {
		pins = append(pins, &fakePin{name: name})
	}
	return &fakeHAL{
		log:    &fakeLogger{},
		led:    &fakeLED{on: true},
		gpio:   pins,
		panel:  &fakePanel{w: 128, h: panelH, pix: make(map[[2]int16]color.RGBA)},
		flash:  hal.NewMemFlash(16*1024, 4096),
		time:   fakeTime{ch: make(chan uint64, 64)},
		serial: &fakeSerial{},
		sys:    &fakeSystem{},
	}
}

func (h *fakeHAL) Logger() hal.Logger   { return h.log }
func (h *fakeHAL) LED() hal.LED         { return h.led }
func (h *fakeHAL) GPIO() hal.GPIO       { return h.gpio }
func (h *fakeHAL) Display() hal.Display { return fakeDisplay{panel: h.panel} }
func (h *fakeHAL) Input() hal.Input     { return noInput{} }
func (h *fakeHAL) Flash() hal.Flash     { return h.flash }
func (h *fakeHAL) Time() hal.Time       { return h.time }
func (h *fakeHAL) Serial() hal.Serial   { return h.serial }
func (h *fakeHAL) Audio() hal.Audio     { return noAudio{} }
func (h *fakeHAL) System() hal.System   { return h.sys }

func (h *fakeHAL) tick(ms uint64) { h.time.ch <- ms }

func newTestSystem(t *testing.T, h *fakeHAL, cfg Config) *system {
	t.Helper()
	s, err := newSystem(h, cfg)
	if err != nil {
		t.Fatalf("newSystem: %v", err)
	}
	return s
}

func TestStartupSequence(t *testing.T) {
	h := newFakeHAL(64)
	s := newTestSystem(t, h, DefaultConfig())

	out := h.serial.out.String()
	if !strings.HasPrefix(out, "period:1000 freq:60.00 amp:30.00 wave:Sine\r\n\r\n") {
		t.Fatalf("startup output = %q", out)
	}
	if !strings.HasSuffix(out, "?         print usage\r\n: ") {
		t.Fatalf("startup should end with help and prompt: %q", out)
	}
	if h.led.on {
		t.Fatal("status LED should be off after startup")
	}
	if s.status != nil {
		t.Fatal("64-row panel should have no status strip")
	}

	if err := s.step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if h.panel.frames != 1 {
		t.Fatalf("frames = %d, want 1", h.panel.frames)
	}
	if err := s.step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if h.panel.frames != 1 {
		t.Fatal("unchanged state should not redraw")
	}
}

func TestTypedCommandUpdatesScope(t *testing.T) {
	h := newFakeHAL(64)
	s := newTestSystem(t, h, DefaultConfig())
	_ = s.step()
	h.serial.out.Reset()

	h.serial.in = []byte("d\rr\r")
	h.tick(100)
	_ = s.step()
	if s.store.Frequency() != 58 {
		t.Fatalf("freq = %v, want 58", s.store.Frequency())
	}
	if s.scope.Frequency() != 58 {
		t.Fatalf("scope freq = %v, want 58", s.scope.Frequency())
	}
	// Both lines are echoed as they arrive; only the first one runs.
	if got := h.serial.out.String(); got != "d\r\nr\r\n freq:58.00\r\n: " {
		t.Fatalf("echo/output = %q", got)
	}

	// The second line waits for the next step.
	h.tick(200)
	_ = s.step()
	if s.store.Amplitude() != 30 {
		t.Fatalf("amp = %v", s.store.Amplitude())
	}
	if h.panel.frames != 3 {
		t.Fatalf("frames = %d, want 3", h.panel.frames)
	}
}

func TestWaveCommandAndSaveReload(t *testing.T) {
	h := newFakeHAL(64)
	s := newTestSystem(t, h, DefaultConfig())
	h.serial.in = []byte(" \r")
	_ = s.step()
	if s.scope.Waveform() != wave.Square {
		t.Fatalf("scope waveform = %v", s.scope.Waveform())
	}

	h.serial.in = []byte("w\r")
	_ = s.step()
	h.serial.in = []byte("\\save\r")
	_ = s.step()

	ps, err := prefs.Open(h.flash, nil)
	if err != nil {
		t.Fatalf("prefs.Open: %v", err)
	}
	if got := ps.Namespace("Sericon").Int("period", 0); got != 1050 {
		t.Fatalf("saved period = %d, want 1050", got)
	}
}

func TestResetRestarts(t *testing.T) {
	h := newFakeHAL(64)
	s := newTestSystem(t, h, DefaultConfig())
	h.serial.in = []byte("\\reset\r")
	_ = s.step()
	if h.sys.restarts != 1 {
		t.Fatalf("restarts = %d", h.sys.restarts)
	}
}

func TestIndicatorsFollowPeriodAndMute(t *testing.T) {
	h := newFakeHAL(80)
	s := newTestSystem(t, h, DefaultConfig())
	if s.status == nil {
		t.Fatal("80-row panel should have a status strip")
	}

	h.tick(1)
	_ = s.step()
	if !h.gpio[0].level || h.gpio[1].level {
		t.Fatal("red should be lit first")
	}
	h.tick(1001)
	_ = s.step()
	if h.gpio[0].level || !h.gpio[1].level {
		t.Fatal("yellow should be lit after one period")
	}

	h.serial.in = []byte("m\r")
	_ = s.step()
	for _, p := range h.gpio {
		if p.level {
			t.Fatalf("%s still lit after mute", p.name)
		}
	}
	h.tick(5000)
	_ = s.step()
	for _, p := range h.gpio {
		if p.level {
			t.Fatalf("%s lit while muted", p.name)
		}
	}
}

func TestScriptRunsAtStartup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boot.lua")
	if err := os.WriteFile(path, []byte(`send("e") send("e")`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	h := newFakeHAL(64)
	cfg := DefaultConfig()
	cfg.Script = path
	s := newTestSystem(t, h, cfg)
	if s.store.Frequency() != 64 {
		t.Fatalf("freq = %v, want 64", s.store.Frequency())
	}
}

func TestMonitorWithoutAudioIsLogged(t *testing.T) {
	h := newFakeHAL(64)
	cfg := DefaultConfig()
	cfg.Monitor = true
	s := newTestSystem(t, h, cfg)
	if s.mon != nil {
		t.Fatal("monitor started without output")
	}
	found := false
	for _, l := range h.log.lines {
		if strings.Contains(l, "monitor") {
			found = true
		}
	}
	if !found {
		t.Fatalf("log = %q", h.log.lines)
	}
}

func TestStatusText(t *testing.T) {
	h := newFakeHAL(80)
	s := newTestSystem(t, h, DefaultConfig())
	if got := statusText(s.store); got != "60.0Hz A30.0 Sine" {
		t.Fatalf("statusText = %q", got)
	}
	s.store.ToggleMute()
	if got := statusText(s.store); !strings.HasSuffix(got, " MUTE") {
		t.Fatalf("statusText = %q", got)
	}
}

func TestGuardedStepRecoversPanic(t *testing.T) {
	h := newFakeHAL(64)
	s := newTestSystem(t, h, DefaultConfig())
	s.disp = nil
	s.seq = nil
	if err := s.guardedStep(); err == nil || !strings.Contains(err.Error(), "panic") {
		t.Fatalf("guardedStep = %v", err)
	}
}
