//go:build !tinygo && !cgo

package hal

// hostAudio has no output without the cgo audio backend.
type hostAudio struct{}

func newHostAudio() hostAudio { return hostAudio{} }

func (a hostAudio) PWM() PWMAudio { return nil }
