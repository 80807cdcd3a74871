// Package params holds the generator parameters and the operations the
// console applies to them.
package params

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"sericon/hal"
	"sericon/sericon/wave"
)

// Limits and defaults.
const (
	PeriodMin     = 0
	PeriodMax     = 2000
	PeriodDefault = 1000

	FreqMin     = 0.0
	FreqMax     = 100.0
	FreqDefault = 60.0

	AmpMin     = 0.0
	AmpMax     = 30.0
	AmpDefault = 30.0

	PeriodStepDefault int32 = 50
	FreqStepDefault         = 2.0
	AmpStepDefault          = 2.0
)

// Storage keys.
const (
	KeyPeriod = "period"
	KeyFreq   = "freq"
	KeyAmp    = "amp"
)

// Field selects a steppable parameter.
type Field uint8

const (
	Period Field = iota
	Frequency
	Amplitude
)

func (f Field) String() string {
	switch f {
	case Period:
		return "period"
	case Frequency:
		return "freq"
	case Amplitude:
		return "amp"
	default:
		return "unknown"
	}
}

// Storage is the persistent key space. *prefs.Namespace implements it.
type Storage interface {
	Int(key string, def int) int
	Float(key string, def float64) float64
	PutInt(key string, v int) error
	PutFloat(key string, v float64) error
	Close() error
}

// Timer is the periodic-output enable flag.
type Timer interface {
	SetEnabled(on bool)
}

// Steps are the per-keystroke increments.
type Steps struct {
	Period int32
	Freq   float64
	Amp    float64
}

// Config wires a Store to its collaborators. Only Console is required.
type Config struct {
	Storage    Storage
	Console    io.Writer
	Logger     hal.Logger
	Timer      Timer
	Indicators []hal.LED
	// Restart does not return when the device really restarts.
	Restart func()
}

// Store is the single owner of the generator state.
type Store struct {
	cfg Config

	period int
	freq   float64
	amp    float64
	kind   wave.Kind
	muted  bool
	steps  Steps

	onFreq func(float64)
	onAmp  func(float64)
	onWave func(wave.Kind)
}

// New returns a Store holding the defaults. Call Load to read storage.
func New(cfg Config) *Store {
	if cfg.Console == nil {
		cfg.Console = io.Discard
	}
	return &Store{
		cfg:    cfg,
		period: PeriodDefault,
		freq:   FreqDefault,
		amp:    AmpDefault,
		kind:   wave.Sine,
		steps: Steps{
			Period: PeriodStepDefault,
			Freq:   FreqStepDefault,
			Amp:    AmpStepDefault,
		},
	}
}

// OnFrequency registers the listener called after every frequency change.
func (s *Store) OnFrequency(fn func(float64)) { s.onFreq = fn }

// OnAmplitude registers the listener called after every amplitude change.
func (s *Store) OnAmplitude(fn func(float64)) { s.onAmp = fn }

// OnWaveform registers the listener called after the shape changes.
func (s *Store) OnWaveform(fn func(wave.Kind)) { s.onWave = fn }

func (s *Store) Period() int         { return s.period }
func (s *Store) Frequency() float64  { return s.freq }
func (s *Store) Amplitude() float64  { return s.amp }
func (s *Store) Waveform() wave.Kind { return s.kind }
func (s *Store) Muted() bool         { return s.muted }
func (s *Store) Steps() Steps        { return s.steps }

func (s *Store) printf(format string, args ...any) {
	fmt.Fprintf(s.cfg.Console, format, args...)
}

func (s *Store) logf(format string, args ...any) {
	if s.cfg.Logger == nil {
		return
	}
	s.cfg.Logger.WriteLineString(fmt.Sprintf(format, args...))
}

// Load reads the stored values (defaults when missing), notifies the
// frequency and amplitude listeners and prints a summary line.
//
// Stored values outside the limits are saturated.
func (s *Store) Load() {
	if st := s.cfg.Storage; st != nil {
		s.period = int(clampInt64(int64(st.Int(KeyPeriod, PeriodDefault)), PeriodMin, PeriodMax))
		s.freq = clampFloat(st.Float(KeyFreq, FreqDefault), FreqMin, FreqMax)
		s.amp = clampFloat(st.Float(KeyAmp, AmpDefault), AmpMin, AmpMax)
	} else {
		s.period, s.freq, s.amp = PeriodDefault, FreqDefault, AmpDefault
	}
	s.notifyFreq()
	s.notifyAmp()
	s.printf("period:%d freq:%.2f amp:%.2f wave:%s\n", s.period, s.freq, s.amp, s.kind)
}

// Save writes period, frequency and amplitude. Storage failures go to the
// diagnostic log only.
func (s *Store) Save() {
	if st := s.cfg.Storage; st != nil {
		if err := st.PutInt(KeyPeriod, s.period); err != nil {
			s.logf("params: save %s: %v", KeyPeriod, err)
		}
		if err := st.PutFloat(KeyFreq, s.freq); err != nil {
			s.logf("params: save %s: %v", KeyFreq, err)
		}
		if err := st.PutFloat(KeyAmp, s.amp); err != nil {
			s.logf("params: save %s: %v", KeyAmp, err)
		}
	}
	s.printf("Preferences saved.\n")
}

// Reset saves, releases storage and restarts the device.
func (s *Store) Reset() {
	s.Save()
	if st := s.cfg.Storage; st != nil {
		if err := st.Close(); err != nil {
			s.logf("params: close storage: %v", err)
		}
	}
	if s.cfg.Restart != nil {
		s.cfg.Restart()
	}
}

// SetPeriodStep parses tok as a base-10 int32. An empty tok reports the
// current step.
func (s *Store) SetPeriodStep(tok string) {
	if tok != "" {
		v, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			s.printf("Invalid step\n")
			return
		}
		s.steps.Period = int32(v)
	}
	s.printf(" period step:%d\n", s.steps.Period)
}

// SetFreqStep parses tok as a finite float. An empty tok reports the
// current step.
func (s *Store) SetFreqStep(tok string) {
	if tok != "" {
		v, ok := parseStep(tok)
		if !ok {
			s.printf("Invalid step\n")
			return
		}
		s.steps.Freq = v
	}
	s.printf(" freq step:%.2f\n", s.steps.Freq)
}

// SetAmpStep is SetFreqStep for the amplitude step.
func (s *Store) SetAmpStep(tok string) {
	if tok != "" {
		v, ok := parseStep(tok)
		if !ok {
			s.printf("Invalid step\n")
			return
		}
		s.steps.Amp = v
	}
	s.printf(" amp step:%.4f\n", s.steps.Amp)
}

func parseStep(tok string) (float64, bool) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Increment and Decrement move f by one step within its limits.
func (s *Store) Increment(f Field) { s.bump(f, 1) }
func (s *Store) Decrement(f Field) { s.bump(f, -1) }

// bump applies one step in dir and saturates. Listeners fire even when the
// clamp leaves the value unchanged.
func (s *Store) bump(f Field, dir int) {
	switch f {
	case Period:
		v := int64(s.period) + int64(dir)*int64(s.steps.Period)
		s.period = int(clampInt64(v, PeriodMin, PeriodMax))
		s.printf(" period:%d\n", s.period)
	case Frequency:
		s.freq = clampFloat(s.freq+float64(dir)*s.steps.Freq, FreqMin, FreqMax)
		s.notifyFreq()
		s.printf(" freq:%.2f\n", s.freq)
	case Amplitude:
		s.amp = clampFloat(s.amp+float64(dir)*s.steps.Amp, AmpMin, AmpMax)
		s.notifyAmp()
		s.printf(" amp:%.4f\n", s.amp)
	}
}

// ToggleMute flips the mute flag. Muting disables the timer and drives the
// indicators low; unmuting re-enables the timer.
func (s *Store) ToggleMute() {
	s.muted = !s.muted
	if s.muted {
		s.printf(" mute on\n")
		if s.cfg.Timer != nil {
			s.cfg.Timer.SetEnabled(false)
		}
		for _, led := range s.cfg.Indicators {
			if led != nil {
				led.Low()
			}
		}
		return
	}
	s.printf(" mute off\n")
	if s.cfg.Timer != nil {
		s.cfg.Timer.SetEnabled(true)
	}
}

// CycleWaveform advances Sine, Square, Sawtooth and back.
func (s *Store) CycleWaveform() {
	s.kind = s.kind.Next()
	s.printf("%s\n", s.kind)
	if s.onWave != nil {
		s.onWave(s.kind)
	}
}

func (s *Store) notifyFreq() {
	if s.onFreq != nil {
		s.onFreq(s.freq)
	}
}

func (s *Store) notifyAmp() {
	if s.onAmp != nil {
		s.onAmp(s.amp)
	}
}

func clampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampFloat saturates v and folds -0 into 0.
func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	if v == 0 {
		return 0
	}
	return v
}
