//go:build !tinygo

// Command mkwav renders a generator waveform to a 16-bit mono WAV file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"sericon/sericon/params"
	"sericon/sericon/wave"
)

func main() {
	var (
		outPath = flag.String("out", "", "Output .wav file.")
		shape   = flag.String("wave", "sine", "sine|square|saw.")
		freq    = flag.Float64("freq", params.FreqDefault, "Frequency in Hz.")
		amp     = flag.Float64("amp", params.AmpDefault, "Amplitude (0..30, 30 is full scale).")
		rate    = flag.Int("rate", 44100, "Sample rate in Hz.")
		seconds = flag.Float64("seconds", 1, "Duration.")
	)
	flag.Parse()

	if *outPath == "" {
		fatalf("usage: mkwav -out out.wav [-wave sine|square|saw] [-freq 60] [-amp 30] [-rate 44100] [-seconds 1]")
	}
	k, ok := wave.ParseKind(*shape)
	if !ok {
		fatalf("unknown wave: %s", *shape)
	}

	f, err := os.Create(*outPath)
	if err != nil {
		fatalf("create: %v", err)
	}
	if err := render(f, k, *freq, *amp, *rate, *seconds); err != nil {
		_ = f.Close()
		fatalf("render: %v", err)
	}
	if err := f.Close(); err != nil {
		fatalf("close: %v", err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

// pcm returns the 16-bit samples for the given signal.
func pcm(k wave.Kind, freq, amp float64, rate int, seconds float64) ([]int, error) {
	if rate <= 0 || rate > 192000 {
		return nil, fmt.Errorf("rate out of range: %d", rate)
	}
	if seconds <= 0 || math.IsNaN(seconds) || seconds > 600 {
		return nil, fmt.Errorf("duration out of range: %g", seconds)
	}
	if math.IsNaN(freq) || freq < 0 {
		return nil, errors.New("frequency must be >= 0")
	}
	gain := amp / params.AmpMax
	if gain > 1 {
		gain = 1
	}
	if gain < 0 || math.IsNaN(gain) {
		gain = 0
	}

	n := int(seconds * float64(rate))
	data := make([]int, n)
	for i := range data {
		t := float64(i) / float64(rate)
		data[i] = int(math.Round(wave.Sample(k, freq, gain, t) * math.MaxInt16))
	}
	return data, nil
}

func render(f *os.File, k wave.Kind, freq, amp float64, rate int, seconds float64) error {
	data, err := pcm(k, freq, amp, rate, seconds)
	if err != nil {
		return err
	}
	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}
