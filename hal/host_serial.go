//go:build !tinygo

package hal

import (
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

const ctrlC = 0x03

// hostSerial maps the console line onto the process terminal.
//
// When stdin is a terminal it is switched to raw mode so the console sees
// every keystroke and does its own echo, like a UART would.
type hostSerial struct {
	mu sync.Mutex
	w  io.Writer

	rx      chan []byte
	pending []byte

	fd   int
	raw  bool
	old  *term.State
	once sync.Once
}

func newHostSerial(r, w *os.File) *hostSerial {
	s := &hostSerial{w: w, rx: make(chan []byte, 64)}
	if r == nil {
		return s
	}
	s.fd = int(r.Fd())
	if term.IsTerminal(s.fd) {
		if st, err := term.MakeRaw(s.fd); err == nil {
			s.old = st
			s.raw = true
		}
	}
	go s.readLoop(r)
	return s
}

func (s *hostSerial) readLoop(r io.Reader) {
	buf := make([]byte, 128)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			if s.raw {
				for _, b := range chunk {
					if b == ctrlC {
						interruptSelf()
					}
				}
			}
			s.rx <- chunk
		}
		if err != nil {
			return
		}
	}
}

// Read returns buffered input without blocking.
func (s *hostSerial) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(s.pending) == 0 {
		select {
		case chunk := <-s.rx:
			s.pending = chunk
		default:
			return 0, nil
		}
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *hostSerial) Write(p []byte) (int, error) {
	if s.w == nil {
		return 0, ErrNotImplemented
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Close restores the terminal mode.
func (s *hostSerial) Close() {
	s.once.Do(func() {
		if s.old != nil {
			_ = term.Restore(s.fd, s.old)
		}
	})
}

func interruptSelf() {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return
	}
	_ = p.Signal(os.Interrupt)
}
