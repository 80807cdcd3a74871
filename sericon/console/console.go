// Package console turns a byte stream from the serial line into command
// dispatches against a Table.
package console

import (
	"io"
)

// MaxLine is the longest line kept; further bytes are dropped until the
// line ends.
const MaxLine = 256

// State is the dispatcher's position in the read/dispatch cycle.
type State uint8

const (
	Idle State = iota
	Reading
	Dispatching
	PostCommand
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Reading:
		return "reading"
	case Dispatching:
		return "dispatching"
	case PostCommand:
		return "post-command"
	default:
		return "unknown"
	}
}

// Dispatcher buffers console input and runs at most one complete line per
// Poll. It never blocks.
type Dispatcher struct {
	table *Table
	echo  io.Writer

	line   []byte
	ready  []string
	lastCR bool
	state  State
}

// New returns a dispatcher over table. When echo is non-nil typed bytes are
// echoed to it.
func New(table *Table, echo io.Writer) *Dispatcher {
	return &Dispatcher{table: table, echo: echo, line: make([]byte, 0, MaxLine)}
}

// SetEcho replaces the echo writer; nil turns echo off.
func (d *Dispatcher) SetEcho(w io.Writer) {
	if d != nil {
		d.echo = w
	}
}

func (d *Dispatcher) State() State {
	if d == nil {
		return Idle
	}
	return d.state
}

// Pending reports how many complete lines wait for Poll.
func (d *Dispatcher) Pending() int {
	if d == nil {
		return 0
	}
	return len(d.ready)
}

func (d *Dispatcher) write(s string) {
	if d.echo != nil {
		_, _ = io.WriteString(d.echo, s)
	}
}

// Feed consumes raw input bytes.
func (d *Dispatcher) Feed(p []byte) {
	if d == nil {
		return
	}
	for _, b := range p {
		d.feedByte(b)
	}
}

func (d *Dispatcher) feedByte(b byte) {
	wasCR := d.lastCR
	d.lastCR = false
	switch {
	case b == '\r' || b == '\n':
		if b == '\n' && wasCR {
			return
		}
		d.lastCR = b == '\r'
		d.ready = append(d.ready, string(d.line))
		d.line = d.line[:0]
		d.write("\n")
		d.updateIdle()
	case b == 0x08 || b == 0x7f:
		if len(d.line) > 0 {
			d.line = d.line[:len(d.line)-1]
			d.write("\b \b")
		}
		d.updateIdle()
	case b < 0x20:
	default:
		if len(d.line) >= MaxLine {
			return
		}
		d.line = append(d.line, b)
		if d.echo != nil {
			_, _ = d.echo.Write([]byte{b})
		}
		d.state = Reading
	}
}

func (d *Dispatcher) updateIdle() {
	if d.state == Dispatching || d.state == PostCommand {
		return
	}
	if len(d.line) > 0 {
		d.state = Reading
	} else {
		d.state = Idle
	}
}

// Poll dispatches the oldest complete line, if any, and reports whether it did.
func (d *Dispatcher) Poll() bool {
	if d == nil || len(d.ready) == 0 {
		return false
	}
	line := d.ready[0]
	d.ready = d.ready[1:]
	d.Dispatch(line)
	return true
}

// Dispatch runs one line against the table.
func (d *Dispatcher) Dispatch(line string) {
	if d == nil || d.table == nil {
		return
	}
	d.state = Dispatching
	toks := Tokenize(line)
	if len(toks) > 0 {
		if cmd, ok := d.table.Lookup(toks[0]); ok {
			cmd.Run(NewArgs(toks[1:]...))
		} else if d.table.def != nil {
			d.table.def(toks[0])
		}
	}
	d.state = PostCommand
	if d.table.post != nil {
		d.table.post()
	}
	d.state = Idle
	d.updateIdle()
}
