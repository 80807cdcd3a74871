//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"

	"tinygo.org/x/drivers"
)

const (
	hostPanelWidth  = 128
	hostPanelHeight = 80
)

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	gpio   GPIO
	fb     *hostFramebuffer
	panel  *fbDisplay
	kbd    *hostKeyboard
	t      *hostTime
	flash  Flash
	aud    Audio
	serial *hostSerial
	sys    *hostSystem
}

// New returns a host HAL implementation.
func New() HAL {
	logger := &hostLogger{w: os.Stderr}
	t := newHostTime()
	led := &hostLED{logger: logger}
	pins := []GPIOPin{newLEDPin("LED", led)}
	for _, name := range IndicatorPins {
		pins = append(pins, newVirtualPin(name, GPIOCapOutput))
	}
	for i := 0; i < 4; i++ {
		pins = append(pins, newVirtualPin(fmt.Sprintf("GPIO%d", i+1), GPIOCapInput|GPIOCapOutput|GPIOCapPullUp|GPIOCapPullDown))
	}
	fb := newHostFramebuffer(hostPanelWidth, hostPanelHeight)
	serial := newHostSerial(os.Stdin, os.Stdout)
	if serial.raw {
		logger.setCRLF(true)
	}
	flash := newHostFlash()
	aud := newHostAudio()

	sys := &hostSystem{logger: logger}
	sys.onShutdown(func() {
		if c, ok := flash.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logger.WriteLineString("flash: close: " + err.Error())
			}
		}
	})
	sys.onShutdown(func() {
		if pwm := aud.PWM(); pwm != nil {
			_ = pwm.Stop()
		}
	})
	sys.onShutdown(serial.Close)
	return &hostHAL{
		logger: logger,
		led:    led,
		gpio:   newVirtualGPIO(pins),
		fb:     fb,
		panel:  newFBDisplay(fb),
		kbd:    newHostKeyboard(),
		t:      t,
		flash:  flash,
		aud:    aud,
		serial: serial,
		sys:    sys,
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) GPIO() GPIO       { return h.gpio }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb, panel: h.panel} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd} }
func (h *hostHAL) Flash() Flash     { return h.flash }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) Serial() Serial   { return h.serial }
func (h *hostHAL) Audio() Audio     { return h.aud }
func (h *hostHAL) System() System   { return h.sys }

// Close restores the terminal and releases the flash image.
func (h *hostHAL) Close() { h.sys.shutdown() }

type hostDisplay struct {
	fb    *hostFramebuffer
	panel *fbDisplay
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }
func (d hostDisplay) Panel() drivers.Displayer { return d.panel }

type hostInput struct {
	kbd *hostKeyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostLogger struct {
	mu   sync.Mutex
	w    *os.File
	crlf bool
}

func (l *hostLogger) setCRLF(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.crlf = on
}

func (l *hostLogger) eol() string {
	if l.crlf {
		return "\r\n"
	}
	return "\n"
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.w, s, l.eol())
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.WriteString(l.eol())
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = true
	l.logger.WriteLineString("led: HIGH")
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = false
	l.logger.WriteLineString("led: LOW")
}
