//go:build tinygo && baremetal && (rp2040 || rp2350)

package hal

import (
	"fmt"
	"machine"
	"time"

	"tinygo.org/x/drivers"
)

type tinyGoDisplay struct {
	panel drivers.Displayer
}

func (d tinyGoDisplay) Framebuffer() Framebuffer { return nil }
func (d tinyGoDisplay) Panel() drivers.Displayer { return d.panel }

type tinyGoInput struct {
	kbd Keyboard
}

func (in tinyGoInput) Keyboard() Keyboard { return in.kbd }

type tinyGoTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoTime() *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(1 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoTime) Ticks() <-chan uint64 { return t.ch }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	l.uart.Write(b)
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

// machinePin exposes a board pin as an output-only GPIOPin.
type machinePin struct {
	name  string
	pin   machine.Pin
	level bool
	ready bool
}

func (p *machinePin) Name() string   { return p.name }
func (p *machinePin) Caps() GPIOCaps { return GPIOCapOutput }

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	if mode != GPIOModeOutput || pull != GPIOPullNone {
		return fmt.Errorf("gpio: pin %s: only output supported", p.name)
	}
	p.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.ready = true
	return nil
}

func (p *machinePin) Read() (bool, error) { return p.level, nil }

func (p *machinePin) Write(level bool) error {
	if !p.ready {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.level = level
	p.pin.Set(level)
	return nil
}

// uartSerial is the console line. UART reads drain the RX ring and return
// 0 when it is empty.
type uartSerial struct {
	uart *machine.UART
}

func (s *uartSerial) Read(p []byte) (int, error) {
	if s.uart == nil {
		return 0, ErrNotImplemented
	}
	if s.uart.Buffered() == 0 {
		return 0, nil
	}
	return s.uart.Read(p)
}

func (s *uartSerial) Write(p []byte) (int, error) {
	if s.uart == nil {
		return 0, ErrNotImplemented
	}
	return s.uart.Write(p)
}

type tinyGoSystem struct{}

func (tinyGoSystem) Restart() { machine.CPUReset() }
