//go:build !tinygo

package main

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"

	"sericon/sericon/wave"
)

func TestPCMSquareFullScale(t *testing.T) {
	data, err := pcm(wave.Square, 1, 30, 8, 1)
	if err != nil {
		t.Fatalf("pcm: %v", err)
	}
	if len(data) != 8 {
		t.Fatalf("len=%d want 8", len(data))
	}
	if data[0] != math.MaxInt16 || data[5] != -math.MaxInt16 {
		t.Fatalf("data=%v", data)
	}
}

func TestPCMClampsAmplitude(t *testing.T) {
	data, err := pcm(wave.Square, 1, 300, 4, 1)
	if err != nil {
		t.Fatalf("pcm: %v", err)
	}
	if data[0] != math.MaxInt16 {
		t.Fatalf("data[0]=%d", data[0])
	}
}

func TestPCMRejectsBadArgs(t *testing.T) {
	if _, err := pcm(wave.Sine, 60, 30, 0, 1); err == nil {
		t.Fatalf("expected rate error")
	}
	if _, err := pcm(wave.Sine, 60, 30, 8000, 0); err == nil {
		t.Fatalf("expected duration error")
	}
	if _, err := pcm(wave.Sine, -1, 30, 8000, 1); err == nil {
		t.Fatalf("expected frequency error")
	}
}

func TestRenderWritesWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := render(f, wave.Sawtooth, 60, 15, 8000, 0.5); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	in, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer in.Close()
	dec := wav.NewDecoder(in)
	if !dec.IsValidFile() {
		t.Fatalf("not a valid wav file")
	}
	if dec.SampleRate != 8000 || dec.NumChans != 1 || dec.BitDepth != 16 {
		t.Fatalf("format rate=%d chans=%d bits=%d", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
}
