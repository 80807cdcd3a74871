package console

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicate  = errors.New("console: duplicate command")
	ErrEmptyToken = errors.New("console: empty command token")
	ErrNoHandler  = errors.New("console: command has no handler")
)

// HandlerFunc runs a command with a cursor over its arguments.
type HandlerFunc func(args *Args)

// Command binds a token to a handler. Usage is the help text.
type Command struct {
	Token string
	Usage string
	Run   HandlerFunc
}

// Table is an ordered, fixed token to handler mapping.
type Table struct {
	cmds   []Command
	lookup map[string]int

	def  func(token string)
	post func()
}

// NewTable builds a table. def receives unrecognized tokens and post runs
// after every dispatched line; either may be nil.
func NewTable(def func(token string), post func(), cmds ...Command) (*Table, error) {
	t := &Table{
		lookup: make(map[string]int, len(cmds)),
		def:    def,
		post:   post,
	}
	for _, c := range cmds {
		if c.Token == "" {
			return nil, ErrEmptyToken
		}
		if c.Run == nil {
			return nil, fmt.Errorf("%w: %q", ErrNoHandler, c.Token)
		}
		if _, ok := t.lookup[c.Token]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, c.Token)
		}
		t.lookup[c.Token] = len(t.cmds)
		t.cmds = append(t.cmds, c)
	}
	return t, nil
}

// Lookup finds the command registered for token, matched exactly.
func (t *Table) Lookup(token string) (Command, bool) {
	if t == nil {
		return Command{}, false
	}
	i, ok := t.lookup[token]
	if !ok {
		return Command{}, false
	}
	return t.cmds[i], true
}

// Commands returns the commands in registration order.
func (t *Table) Commands() []Command {
	if t == nil {
		return nil
	}
	return append([]Command(nil), t.cmds...)
}

// Args iterates the tokens following the command token.
type Args struct {
	toks []string
	i    int
}

// NewArgs returns a cursor over toks.
func NewArgs(toks ...string) *Args { return &Args{toks: toks} }

// Next returns the next argument.
func (a *Args) Next() (string, bool) {
	if a == nil || a.i >= len(a.toks) {
		return "", false
	}
	tok := a.toks[a.i]
	a.i++
	return tok, true
}

// Rest returns the unread arguments.
func (a *Args) Rest() []string {
	if a == nil || a.i >= len(a.toks) {
		return nil
	}
	return a.toks[a.i:]
}

// Tokenize splits a line on spaces and tabs. A line made only of spaces
// yields the single token " ", which is the waveform command.
func Tokenize(line string) []string {
	toks := strings.Fields(line)
	if len(toks) == 0 && strings.Contains(line, " ") {
		return []string{" "}
	}
	return toks
}
