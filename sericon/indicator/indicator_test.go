package indicator

import (
	"testing"

	"sericon/hal"
)

type led struct{ on bool }

func (l *led) High() { l.on = true }
func (l *led) Low()  { l.on = false }

func states(leds []*led) [3]bool {
	return [3]bool{leds[0].on, leds[1].on, leds[2].on}
}

func newTest() (*Sequencer, []*led) {
	leds := []*led{{}, {}, {}}
	return New(hal.LED(leds[0]), hal.LED(leds[1]), hal.LED(leds[2])), leds
}

func TestAdvancesEveryPeriod(t *testing.T) {
	s, leds := newTest()
	s.Step(0, 100)
	if got := states(leds); got != [3]bool{true, false, false} {
		t.Fatalf("t=0 states = %v", got)
	}
	s.Step(99, 100)
	if s.Active() != 0 {
		t.Fatalf("advanced early: active=%d", s.Active())
	}
	s.Step(100, 100)
	if got := states(leds); got != [3]bool{false, true, false} {
		t.Fatalf("t=100 states = %v", got)
	}
	s.Step(200, 100)
	s.Step(300, 100)
	if s.Active() != 0 {
		t.Fatalf("active = %d, want wrap to 0", s.Active())
	}
}

func TestZeroPeriodHolds(t *testing.T) {
	s, _ := newTest()
	s.Step(0, 0)
	s.Step(5000, 0)
	if s.Active() != 0 {
		t.Fatalf("active = %d, want 0", s.Active())
	}
}

func TestDisabledDoesNotTouchLEDs(t *testing.T) {
	s, leds := newTest()
	s.Step(0, 10)
	s.SetEnabled(false)
	for _, l := range leds {
		l.Low()
	}
	s.Step(50, 10)
	if got := states(leds); got != [3]bool{} {
		t.Fatalf("disabled states = %v", got)
	}

	s.SetEnabled(true)
	s.Step(60, 10)
	if got := states(leds); got != [3]bool{true, false, false} {
		t.Fatalf("re-enabled states = %v", got)
	}
	s.Step(69, 10)
	if s.Active() != 0 {
		t.Fatal("re-enable should restart the period")
	}
}
