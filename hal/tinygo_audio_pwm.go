//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"machine"
	"sync"
	"time"
)

// audioPin carries the monitor output. An RC low-pass on the pin recovers
// the waveform.
const audioPin = machine.GP15

type tinyGoAudio struct {
	pwm *pwmAudioOut
}

func newTinyGoAudio() Audio {
	return &tinyGoAudio{pwm: newPWMAudioOut(audioPin)}
}

func (a *tinyGoAudio) PWM() PWMAudio {
	if a.pwm == nil {
		return nil
	}
	return a.pwm
}

type pwmDevice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	SetTop(top uint32)
	Top() uint32
	Set(channel uint8, value uint32)
	Enable(enable bool)
}

type pwmAudioOut struct {
	pin machine.Pin
	pwm pwmDevice
	ch  uint8
	top uint32

	volume  uint8
	started bool

	mu   sync.Mutex
	ring [1024]int16
	r, n int
	stop chan struct{}
}

func newPWMAudioOut(pin machine.Pin) *pwmAudioOut {
	pwm := pwmForPin(pin)
	if pwm == nil {
		return nil
	}
	return &pwmAudioOut{pin: pin, pwm: pwm, volume: 255}
}

func pwmForPin(pin machine.Pin) pwmDevice {
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil
	}
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		return nil
	}
}

func (a *pwmAudioOut) Start(sampleRate uint32) error {
	if a == nil || a.pwm == nil {
		return ErrNotImplemented
	}
	if sampleRate == 0 {
		return ErrNotImplemented
	}
	if a.started {
		_ = a.Stop()
	}
	// Fixed PWM carrier (~62.5kHz); the duty cycle follows the samples.
	const pwmCarrierHz = 62500
	if err := a.pwm.Configure(machine.PWMConfig{Period: 1e9 / pwmCarrierHz}); err != nil {
		return err
	}
	ch, err := a.pwm.Channel(a.pin)
	if err != nil {
		return err
	}
	a.ch = ch
	a.top = a.pwm.Top()
	a.pwm.Set(a.ch, a.top/2)
	a.pwm.Enable(true)

	a.mu.Lock()
	a.r, a.n = 0, 0
	a.mu.Unlock()
	a.stop = make(chan struct{})
	a.started = true
	go a.drain(time.Second/time.Duration(sampleRate), a.stop)
	return nil
}

// drain moves one sample from the ring to the duty register per period.
func (a *pwmAudioOut) drain(period time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		a.mu.Lock()
		if a.n == 0 {
			a.mu.Unlock()
			continue
		}
		s := int32(a.ring[a.r])
		a.r = (a.r + 1) % len(a.ring)
		a.n--
		vol := int32(a.volume)
		a.mu.Unlock()

		s = (s * vol) / 255
		u := uint32(s + 32768)
		a.pwm.Set(a.ch, (u*a.top)/65535)
	}
}

func (a *pwmAudioOut) Stop() error {
	if a == nil || a.pwm == nil || !a.started {
		return nil
	}
	close(a.stop)
	a.started = false
	a.pwm.Set(a.ch, a.top/2)
	a.pwm.Enable(false)
	return nil
}

func (a *pwmAudioOut) SetVolume(vol uint8) {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.volume = vol
	a.mu.Unlock()
}

func (a *pwmAudioOut) WriteSample(sample int16) {
	if a == nil || !a.started {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.n == len(a.ring) {
		return
	}
	a.ring[(a.r+a.n)%len(a.ring)] = sample
	a.n++
}

func (a *pwmAudioOut) PendingSamples() int {
	if a == nil {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.n
}
