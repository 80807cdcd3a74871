// Package indicator walks the red, yellow and green LEDs one step per
// generator period.
package indicator

import "sericon/hal"

// Sequencer lights one LED at a time and advances every period while
// enabled. It implements the generator's timer flag.
type Sequencer struct {
	leds    []hal.LED
	enabled bool
	active  int
	last    uint64
	armed   bool
}

// New returns an enabled sequencer over leds, in order.
func New(leds ...hal.LED) *Sequencer {
	return &Sequencer{leds: leds, enabled: true, active: -1}
}

// SetEnabled gates advancing. A re-enabled sequencer relights its current
// LED on the next Step.
func (s *Sequencer) SetEnabled(on bool) {
	s.enabled = on
	if !on {
		s.armed = false
	}
}

func (s *Sequencer) Enabled() bool { return s.enabled }

// Active returns the index of the lit LED, or -1 before the first Step.
func (s *Sequencer) Active() int { return s.active }

// Step advances when periodMs have passed since the last change. A
// non-positive period holds the current LED.
func (s *Sequencer) Step(nowMs uint64, periodMs int) {
	if !s.enabled || len(s.leds) == 0 {
		return
	}
	if !s.armed {
		s.armed = true
		s.last = nowMs
		if s.active < 0 {
			s.active = 0
		}
		s.show()
		return
	}
	if periodMs <= 0 || nowMs-s.last < uint64(periodMs) {
		return
	}
	s.last = nowMs
	s.active = (s.active + 1) % len(s.leds)
	s.show()
}

func (s *Sequencer) show() {
	for i, led := range s.leds {
		if led == nil {
			continue
		}
		if i == s.active {
			led.High()
		} else {
			led.Low()
		}
	}
}
