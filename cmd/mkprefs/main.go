//go:build !tinygo

// Command mkprefs writes or dumps the preferences record of a host flash
// image.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"sericon/hal"
	"sericon/sericon/params"
	"sericon/sericon/prefs"
)

const defaultNamespace = "Sericon"

type stderrLogger struct{}

func (stderrLogger) WriteLineString(s string) { fmt.Fprintln(os.Stderr, s) }
func (stderrLogger) WriteLineBytes(b []byte)  { fmt.Fprintln(os.Stderr, string(b)) }

func main() {
	var (
		outPath = flag.String("out", hal.FlashPath(), "Flash image path.")
		ns      = flag.String("ns", defaultNamespace, "Preferences namespace.")
		period  = flag.Int("period", params.PeriodDefault, "Indicator period in ms.")
		freq    = flag.Float64("freq", params.FreqDefault, "Frequency in Hz.")
		amp     = flag.Float64("amp", params.AmpDefault, "Amplitude.")
		dump    = flag.Bool("dump", false, "Print the stored values and exit.")
	)
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	img, err := hal.OpenFlashImage(*outPath, 0)
	if err != nil {
		fatalf("%v", err)
	}
	defer img.Close()

	if *dump {
		if err := dumpPrefs(os.Stdout, img, *ns); err != nil {
			fatalf("dump: %v", err)
		}
		return
	}

	vals := values{}
	if set["period"] {
		vals.period = period
	}
	if set["freq"] {
		vals.freq = freq
	}
	if set["amp"] {
		vals.amp = amp
	}
	if err := writePrefs(img, *ns, vals); err != nil {
		fatalf("write: %v", err)
	}
	if err := dumpPrefs(os.Stdout, img, *ns); err != nil {
		fatalf("dump: %v", err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

// values holds the keys to write; nil fields are left untouched.
type values struct {
	period *int
	freq   *float64
	amp    *float64
}

func (v values) check() error {
	if v.period != nil && (*v.period < params.PeriodMin || *v.period > params.PeriodMax) {
		return fmt.Errorf("period %d outside [%d, %d]", *v.period, params.PeriodMin, params.PeriodMax)
	}
	if v.freq != nil && !(*v.freq >= params.FreqMin && *v.freq <= params.FreqMax) {
		return fmt.Errorf("freq %g outside [%g, %g]", *v.freq, params.FreqMin, params.FreqMax)
	}
	if v.amp != nil && !(*v.amp >= params.AmpMin && *v.amp <= params.AmpMax) {
		return fmt.Errorf("amp %g outside [%g, %g]", *v.amp, params.AmpMin, params.AmpMax)
	}
	return nil
}

func writePrefs(flash hal.Flash, ns string, v values) error {
	if err := v.check(); err != nil {
		return err
	}
	st, err := prefs.Open(flash, stderrLogger{})
	if err != nil {
		return err
	}
	n := st.Namespace(ns)
	defer n.Close()
	if v.period != nil {
		if err := n.PutInt(params.KeyPeriod, *v.period); err != nil {
			return fmt.Errorf("%s: %w", params.KeyPeriod, err)
		}
	}
	if v.freq != nil {
		if err := n.PutFloat(params.KeyFreq, *v.freq); err != nil {
			return fmt.Errorf("%s: %w", params.KeyFreq, err)
		}
	}
	if v.amp != nil {
		if err := n.PutFloat(params.KeyAmp, *v.amp); err != nil {
			return fmt.Errorf("%s: %w", params.KeyAmp, err)
		}
	}
	return nil
}

func dumpPrefs(w io.Writer, flash hal.Flash, ns string) error {
	st, err := prefs.Open(flash, stderrLogger{})
	if err != nil {
		return err
	}
	n := st.Namespace(ns)
	defer n.Close()
	fmt.Fprintf(w, "%s: keys=%v\n", ns, st.Keys(ns))
	fmt.Fprintf(w, "period:%d freq:%.2f amp:%.2f\n",
		n.Int(params.KeyPeriod, params.PeriodDefault),
		n.Float(params.KeyFreq, params.FreqDefault),
		n.Float(params.KeyAmp, params.AmpDefault))
	return nil
}
