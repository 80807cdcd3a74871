package app

import (
	"fmt"
	"runtime/debug"
	"strings"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"sericon/sericon/scope"
)

// guardedStep runs step and turns a panic into a logged error with the
// message drawn on the panel.
func (s *system) guardedStep() (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err = fmt.Errorf("app: panic: %v", r)
		s.reportPanic(r)
	}()
	return s.step()
}

func (s *system) reportPanic(v any) {
	s.logf("Sericon panic: %v", v)
	for _, line := range strings.Split(string(debug.Stack()), "\n") {
		if line == "" {
			continue
		}
		s.logf("%s", line)
	}

	c := s.scope.Canvas()
	c.Clear()
	w, _ := c.Size()
	c.Rect(0, 0, w, 24)
	panel := s.h.Display().Panel()
	font := &proggy.TinySZ8pt7b
	tinyfont.WriteLine(panel, font, 3, 10, "panic", scope.White)
	msg := fmt.Sprint(v)
	if len(msg) > 20 {
		msg = msg[:20]
	}
	tinyfont.WriteLine(panel, font, 3, 20, msg, scope.White)
	_ = c.Flush()
}
