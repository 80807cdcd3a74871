//go:build !tinygo

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"sericon/hal"
)

func TestWriteThenDump(t *testing.T) {
	img, err := hal.OpenFlashImage(filepath.Join(t.TempDir(), "prefs.flash"), 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer img.Close()

	period, freq := 950, 58.0
	if err := writePrefs(img, defaultNamespace, values{period: &period, freq: &freq}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out bytes.Buffer
	if err := dumpPrefs(&out, img, defaultNamespace); err != nil {
		t.Fatalf("dump: %v", err)
	}
	want := "Sericon: keys=[freq period]\nperiod:950 freq:58.00 amp:30.00\n"
	if got := out.String(); got != want {
		t.Fatalf("dump=%q want %q", got, want)
	}
}

func TestDumpBlankImage(t *testing.T) {
	var out bytes.Buffer
	if err := dumpPrefs(&out, hal.NewMemFlash(64*1024, 4096), "other"); err != nil {
		t.Fatalf("dump: %v", err)
	}
	want := "other: keys=[]\nperiod:1000 freq:60.00 amp:30.00\n"
	if got := out.String(); got != want {
		t.Fatalf("dump=%q want %q", got, want)
	}
}

func TestWriteRejectsOutOfRange(t *testing.T) {
	flash := hal.NewMemFlash(64*1024, 4096)
	period, freq, amp := 5000, 250.0, -4.0
	for _, v := range []values{{period: &period}, {freq: &freq}, {amp: &amp}} {
		if err := writePrefs(flash, defaultNamespace, v); err == nil {
			t.Fatalf("write %+v: expected range error", v)
		}
	}

	var out bytes.Buffer
	if err := dumpPrefs(&out, flash, defaultNamespace); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(out.String(), "keys=[]") {
		t.Fatalf("rejected values were stored: %q", out.String())
	}
}
