package app

import (
	"fmt"
	"io"
	"time"

	"sericon/hal"
	"sericon/internal/buildinfo"
	"sericon/sericon/console"
	"sericon/sericon/control"
	"sericon/sericon/indicator"
	"sericon/sericon/monitor"
	"sericon/sericon/params"
	"sericon/sericon/prefs"
	"sericon/sericon/scope"
	"sericon/sericon/wave"
)

// scopeHeight is the waveform area; taller panels get a status strip below it.
const scopeHeight = 64

type system struct {
	h   hal.HAL
	log hal.Logger
	out io.Writer

	store  *params.Store
	disp   *console.Dispatcher
	scope  *scope.Scope
	status *statusStrip
	seq    *indicator.Sequencer
	mon    *monitor.Monitor

	ticks <-chan uint64
	keys  <-chan hal.KeyEvent
	rx    [64]byte

	now       uint64
	lastFrame uint64
	frameMs   uint64
	dirty     bool
	drawn     bool
	lastLED   int
}

// New builds the console with the default config and returns its step function.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, DefaultConfig())
}

// NewWithConfig builds the console and returns its step function. A build
// failure is reported by every call of the returned function.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	s, err := newSystem(h, cfg)
	if err != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString("app: " + err.Error())
		}
		return func() error { return err }
	}
	return s.guardedStep
}

// Run starts the console and loops forever (TinyGo entrypoint).
func Run(h hal.HAL) {
	RunWithConfig(h, DefaultConfig())
}

func RunWithConfig(h hal.HAL, cfg Config) {
	step := NewWithConfig(h, cfg)
	for {
		if err := step(); err != nil {
			if l := h.Logger(); l != nil {
				l.WriteLineString("app: " + err.Error())
			}
			time.Sleep(time.Second)
		}
		time.Sleep(time.Millisecond)
	}
}

func newSystem(h hal.HAL, cfg Config) (*system, error) {
	if h == nil {
		return nil, fmt.Errorf("app: nil HAL")
	}
	ser := h.Serial()
	if ser == nil {
		return nil, fmt.Errorf("app: serial: %w", hal.ErrNotImplemented)
	}
	disp := h.Display()
	if disp == nil || disp.Panel() == nil {
		return nil, fmt.Errorf("app: display: %w", hal.ErrNotImplemented)
	}

	s := &system{
		h:       h,
		log:     h.Logger(),
		out:     console.NewCRLFWriter(ser),
		lastLED: -1,
	}
	s.logf("app: sericon %s", buildinfo.String())

	panel := disp.Panel()
	scopeSurface, statusSurface := splitPanel(panel)
	s.scope = scope.New(scopeSurface, cfg.Grid)
	if statusSurface != nil {
		s.status = newStatusStrip(statusSurface)
	}
	if cfg.FPS > 0 {
		s.frameMs = uint64(1000 / cfg.FPS)
	}

	leds := indicatorLEDs(h.GPIO(), s.log)
	s.seq = indicator.New(leds...)

	// Startup order: open prefs, load, build the table, status LED off,
	// help, prompt.
	var storage params.Storage
	if ps, err := prefs.Open(h.Flash(), s.log); err != nil {
		s.logf("app: prefs: %v (settings will not persist)", err)
	} else {
		storage = ps.Namespace(cfg.Namespace)
	}

	pcfg := params.Config{
		Storage:    storage,
		Console:    s.out,
		Logger:     s.log,
		Timer:      s.seq,
		Indicators: leds,
	}
	if sys := h.System(); sys != nil {
		pcfg.Restart = sys.Restart
	}
	s.store = params.New(pcfg)
	s.store.OnFrequency(func(f float64) {
		s.scope.SetFrequency(f)
		s.dirty = true
	})
	s.store.OnAmplitude(func(a float64) {
		s.scope.SetGeneratorAmplitude(a, params.AmpMax)
		s.dirty = true
	})
	s.store.OnWaveform(func(k wave.Kind) {
		s.scope.SetWaveform(k)
		s.dirty = true
	})
	s.store.Load()

	tbl, err := control.NewTable(s.store, s.out)
	if err != nil {
		return nil, fmt.Errorf("app: command table: %w", err)
	}
	var echo io.Writer
	if cfg.Echo {
		echo = s.out
	}
	s.disp = console.New(tbl, echo)

	if led := h.LED(); led != nil {
		led.Low()
	}
	control.WriteHelp(s.out, tbl.Commands())
	io.WriteString(s.out, control.Prompt)

	if t := h.Time(); t != nil {
		s.ticks = t.Ticks()
	}
	if in := h.Input(); in != nil {
		if kbd := in.Keyboard(); kbd != nil {
			s.keys = kbd.Events()
		}
	}

	if cfg.Monitor {
		s.startMonitor(cfg.MonitorRate)
	}
	if cfg.Script != "" {
		if err := runScript(cfg.Script, s.sendLine, s.log); err != nil {
			s.logf("app: %v", err)
		}
	}

	s.dirty = true
	return s, nil
}

func (s *system) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.WriteLineString(fmt.Sprintf(format, args...))
}

func (s *system) startMonitor(rate uint32) {
	a := s.h.Audio()
	if a == nil || a.PWM() == nil {
		s.logf("app: monitor: %v", monitor.ErrNoOutput)
		return
	}
	m := monitor.New(a.PWM(), s.store, rate, params.AmpMax)
	if err := m.Start(); err != nil {
		s.logf("app: monitor: %v", err)
		return
	}
	s.mon = m
}

// sendLine runs a scripted line as if it had been typed.
func (s *system) sendLine(line string) {
	io.WriteString(s.out, line+"\n")
	s.disp.Dispatch(line)
	s.dirty = true
}

func indicatorLEDs(g hal.GPIO, log hal.Logger) []hal.LED {
	var leds []hal.LED
	for _, name := range hal.IndicatorPins {
		led, err := hal.PinAsLED(hal.FindPin(g, name))
		if err != nil {
			if log != nil {
				log.WriteLineString("app: indicator " + name + ": " + err.Error())
			}
			continue
		}
		leds = append(leds, led)
	}
	return leds
}

func (s *system) drainTicks() {
	for {
		select {
		case seq, ok := <-s.ticks:
			if !ok {
				s.ticks = nil
				return
			}
			s.now = seq
		default:
			return
		}
	}
}

func (s *system) drainInput() error {
	for i := 0; i < 8; i++ {
		n, err := s.h.Serial().Read(s.rx[:])
		if err != nil {
			return fmt.Errorf("app: serial read: %w", err)
		}
		if n == 0 {
			break
		}
		s.disp.Feed(s.rx[:n])
	}

	for {
		select {
		case ev, ok := <-s.keys:
			if !ok {
				s.keys = nil
				return nil
			}
			s.feedKey(ev)
		default:
			return nil
		}
	}
}

func (s *system) feedKey(ev hal.KeyEvent) {
	if !ev.Press {
		return
	}
	switch ev.Code {
	case hal.KeyEnter:
		s.disp.Feed([]byte{'\r'})
	case hal.KeyBackspace:
		s.disp.Feed([]byte{0x08})
	case hal.KeyUnknown:
		if ev.Rune != 0 {
			s.disp.Feed([]byte(string(ev.Rune)))
		}
	}
}

// step is one cooperative tick: input, at most one command, indicators,
// redraw, audio.
func (s *system) step() error {
	s.drainTicks()
	if err := s.drainInput(); err != nil {
		return err
	}
	if s.disp.Poll() {
		s.dirty = true
	}

	s.seq.Step(s.now, s.store.Period())
	if led := s.ledState(); led != s.lastLED {
		s.lastLED = led
		s.dirty = true
	}

	if s.dirty && (!s.drawn || s.now-s.lastFrame >= s.frameMs) {
		if err := s.render(); err != nil {
			return err
		}
	}

	if s.mon != nil {
		s.mon.Fill()
	}
	return nil
}

// ledState is the lit indicator, or -1 when none is lit.
func (s *system) ledState() int {
	if s.store.Muted() {
		return -1
	}
	return s.seq.Active()
}

func (s *system) render() error {
	s.dirty = false
	s.drawn = true
	s.lastFrame = s.now
	if s.status != nil {
		s.status.draw(s.store, s.ledState())
	}
	if err := s.scope.Render(true); err != nil {
		return fmt.Errorf("app: render: %w", err)
	}
	return nil
}
