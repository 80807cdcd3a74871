//go:build !tinygo

package hal

import (
	"os"
	"sync"
)

// hostSystem restarts the host process in place.
type hostSystem struct {
	logger Logger

	mu    sync.Mutex
	hooks []func()
}

func (s *hostSystem) onShutdown(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

// shutdown runs the hooks in reverse registration order, once.
func (s *hostSystem) shutdown() {
	s.mu.Lock()
	hooks := s.hooks
	s.hooks = nil
	s.mu.Unlock()
	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

func (s *hostSystem) Restart() {
	s.logger.WriteLineString("system: restarting")
	s.shutdown()
	exe, err := os.Executable()
	if err == nil {
		err = reexec(exe, os.Args, os.Environ())
	}
	if err != nil {
		s.logger.WriteLineString("system: restart: " + err.Error())
	}
	os.Exit(0)
}
