// Package control binds the console command set to a Controller.
package control

import (
	"fmt"
	"io"

	"sericon/sericon/console"
	"sericon/sericon/params"
)

// Prompt is printed after every dispatched line.
const Prompt = ": "

// Controller is the set of operations the console drives.
// *params.Store implements it.
type Controller interface {
	Load()
	Save()
	Reset()
	SetPeriodStep(tok string)
	SetFreqStep(tok string)
	SetAmpStep(tok string)
	Increment(f params.Field)
	Decrement(f params.Field)
	ToggleMute()
	CycleWaveform()
}

// nopController stands in for a missing controller so every command runs
// as a no-op.
type nopController struct{}

func (nopController) Load()                  {}
func (nopController) Save()                  {}
func (nopController) Reset()                 {}
func (nopController) SetPeriodStep(string)   {}
func (nopController) SetFreqStep(string)     {}
func (nopController) SetAmpStep(string)      {}
func (nopController) Increment(params.Field) {}
func (nopController) Decrement(params.Field) {}
func (nopController) ToggleMute()            {}
func (nopController) CycleWaveform()         {}

func firstArg(a *console.Args) string {
	tok, _ := a.Next()
	return tok
}

// Commands returns the console commands in help order. A nil ctrl binds
// no-op handlers; a nil out discards the help listing.
func Commands(ctrl Controller, out io.Writer) []console.Command {
	if ctrl == nil {
		ctrl = nopController{}
	}
	if out == nil {
		out = io.Discard
	}
	var help func(*console.Args)
	cmds := []console.Command{
		{Token: `\load`, Usage: "load prefs", Run: func(*console.Args) { ctrl.Load() }},
		{Token: `\save`, Usage: "save prefs", Run: func(*console.Args) { ctrl.Save() }},
		{Token: `\period`, Usage: "n  period step", Run: func(a *console.Args) { ctrl.SetPeriodStep(firstArg(a)) }},
		{Token: `\freq`, Usage: "n  freq step", Run: func(a *console.Args) { ctrl.SetFreqStep(firstArg(a)) }},
		{Token: `\amp`, Usage: "n  amp step", Run: func(a *console.Args) { ctrl.SetAmpStep(firstArg(a)) }},
		{Token: `\reset`, Usage: "save and restart", Run: func(*console.Args) { ctrl.Reset() }},
		{Token: " ", Usage: "waveform", Run: func(*console.Args) { ctrl.CycleWaveform() }},
		{Token: "m", Usage: "mute LED", Run: func(*console.Args) { ctrl.ToggleMute() }},
		{Token: "w", Usage: "period+", Run: func(*console.Args) { ctrl.Increment(params.Period) }},
		{Token: "s", Usage: "period-", Run: func(*console.Args) { ctrl.Decrement(params.Period) }},
		{Token: "e", Usage: "freq+", Run: func(*console.Args) { ctrl.Increment(params.Frequency) }},
		{Token: "d", Usage: "freq-", Run: func(*console.Args) { ctrl.Decrement(params.Frequency) }},
		{Token: "r", Usage: "amp+", Run: func(*console.Args) { ctrl.Increment(params.Amplitude) }},
		{Token: "f", Usage: "amp-", Run: func(*console.Args) { ctrl.Decrement(params.Amplitude) }},
		{Token: "?", Usage: "print usage", Run: func(a *console.Args) { help(a) }},
	}
	help = func(*console.Args) { WriteHelp(out, cmds) }
	return cmds
}

// NewTable builds the full console table: commands, the unknown-command
// handler and the prompt.
func NewTable(ctrl Controller, out io.Writer) (*console.Table, error) {
	if out == nil {
		out = io.Discard
	}
	return console.NewTable(
		func(tok string) { fmt.Fprintf(out, "Unknown command: %s\n", tok) },
		func() { io.WriteString(out, Prompt) },
		Commands(ctrl, out)...,
	)
}

// WriteHelp prints one line per command, preceded by a blank line.
func WriteHelp(out io.Writer, cmds []console.Command) {
	fmt.Fprintln(out)
	for _, c := range cmds {
		name := c.Token
		if name == " " {
			name = "spacebar"
		}
		fmt.Fprintf(out, "%-9s %s\n", name, c.Usage)
	}
}
