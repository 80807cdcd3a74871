//go:build !tinygo && cgo

package hal

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// hostAudio plays the monitor output through Ebiten's audio package.
type hostAudio struct {
	pwm *hostPWMAudio
}

func newHostAudio() hostAudio {
	return hostAudio{pwm: &hostPWMAudio{vol: 255}}
}

func (a hostAudio) PWM() PWMAudio { return a.pwm }

// hostPWMAudio is a mono ring buffer drained by an Ebiten player.
//
// The writer never blocks: samples that do not fit are dropped, and the
// player reads silence when the ring runs dry.
type hostPWMAudio struct {
	mu sync.Mutex

	ctx        *audio.Context
	player     *audio.Player
	sampleRate uint32

	buf []int16
	r   int
	w   int
	n   int

	running bool
	vol     uint8
}

var errAudioSampleRate = errors.New("host audio: invalid sample rate")

func (a *hostPWMAudio) Start(sampleRate uint32) error {
	if sampleRate == 0 {
		return errAudioSampleRate
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ctx == nil {
		a.ctx = audio.NewContext(int(sampleRate))
	} else if a.ctx.SampleRate() != int(sampleRate) {
		return errors.New("host audio: ebiten audio context sample rate is fixed")
	}
	a.sampleRate = sampleRate

	if a.player != nil {
		_ = a.player.Close()
		a.player = nil
	}

	ring := int(sampleRate / 5)
	if ring < 2048 {
		ring = 2048
	}
	a.buf = make([]int16, ring)
	a.r, a.w, a.n = 0, 0, 0
	a.running = true

	p, err := a.ctx.NewPlayer(&hostAudioReader{a: a})
	if err != nil {
		a.running = false
		return err
	}
	p.SetBufferSize(50 * time.Millisecond)
	p.SetVolume(float64(a.vol) / 255.0)
	p.Play()
	a.player = p
	return nil
}

func (a *hostPWMAudio) Stop() error {
	a.mu.Lock()
	a.running = false
	a.r, a.w, a.n = 0, 0, 0
	p := a.player
	a.player = nil
	a.mu.Unlock()

	if p != nil {
		return p.Close()
	}
	return nil
}

func (a *hostPWMAudio) SetVolume(vol uint8) {
	a.mu.Lock()
	a.vol = vol
	p := a.player
	a.mu.Unlock()

	if p != nil {
		p.SetVolume(float64(vol) / 255.0)
	}
}

func (a *hostPWMAudio) WriteSample(sample int16) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running || a.n == len(a.buf) {
		return
	}
	a.buf[a.w] = sample
	a.w = (a.w + 1) % len(a.buf)
	a.n++
}

func (a *hostPWMAudio) PendingSamples() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.n
}

type hostAudioReader struct {
	a *hostPWMAudio
}

// Read converts the mono ring into 16-bit little-endian stereo frames.
func (r *hostAudioReader) Read(p []byte) (int, error) {
	a := r.a
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return 0, io.EOF
	}
	for i := 0; i+3 < len(p); i += 4 {
		var s int16
		if a.n > 0 {
			s = a.buf[a.r]
			a.r = (a.r + 1) % len(a.buf)
			a.n--
		}
		p[i+0] = byte(s)
		p[i+1] = byte(s >> 8)
		p[i+2] = byte(s)
		p[i+3] = byte(s >> 8)
	}
	return len(p) &^ 3, nil
}
