// Package monitor plays the generator's waveform on an audio output so the
// signal can be heard while it is tuned.
package monitor

import (
	"errors"
	"math"

	"sericon/hal"
	"sericon/sericon/wave"
)

const (
	DefaultSampleRate = 8000
	// DefaultLead is how far ahead of playback samples are queued.
	DefaultLead = DefaultSampleRate / 20
)

var ErrNoOutput = errors.New("monitor: no audio output")

// Source is the live generator state. *params.Store implements it.
type Source interface {
	Waveform() wave.Kind
	Frequency() float64
	Amplitude() float64
	Muted() bool
}

// Monitor synthesizes from an accumulated phase so frequency changes do not
// click.
type Monitor struct {
	out       hal.PWMAudio
	src       Source
	rate      uint32
	lead      int
	fullScale float64

	// Pitch multiplies the generator frequency; 1 plays it as is.
	Pitch float64

	phase   float64
	started bool
}

// New returns a monitor writing to out at rate samples per second.
// fullScale is the generator amplitude that maps to full output.
func New(out hal.PWMAudio, src Source, rate uint32, fullScale float64) *Monitor {
	if rate == 0 {
		rate = DefaultSampleRate
	}
	lead := int(rate / 20)
	if lead < 1 {
		lead = 1
	}
	return &Monitor{out: out, src: src, rate: rate, lead: lead, fullScale: fullScale, Pitch: 1}
}

func (m *Monitor) Start() error {
	if m.out == nil {
		return ErrNoOutput
	}
	if err := m.out.Start(m.rate); err != nil {
		return err
	}
	m.started = true
	return nil
}

func (m *Monitor) Stop() error {
	if !m.started {
		return nil
	}
	m.started = false
	return m.out.Stop()
}

// Next returns the next sample and advances the phase.
func (m *Monitor) Next() int16 {
	if m.src.Muted() || m.fullScale <= 0 {
		return 0
	}
	gain := m.src.Amplitude() / m.fullScale
	if gain > 1 {
		gain = 1
	}
	if gain < 0 {
		gain = 0
	}
	v := wave.AtPhase(m.src.Waveform(), m.phase, gain)

	dt := m.src.Frequency() * m.Pitch / float64(m.rate)
	_, m.phase = math.Modf(m.phase + dt)
	if m.phase < 0 {
		m.phase += 1
	}
	return int16(math.Round(v * math.MaxInt16))
}

// Fill queues samples until the output holds the configured lead.
func (m *Monitor) Fill() int {
	if !m.started {
		return 0
	}
	n := m.lead - m.out.PendingSamples()
	for i := 0; i < n; i++ {
		m.out.WriteSample(m.Next())
	}
	if n < 0 {
		return 0
	}
	return n
}
