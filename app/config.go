package app

import "sericon/sericon/scope"

// Config carries the runtime options. The host fills it from flags; TinyGo
// uses DefaultConfig.
type Config struct {
	Grid scope.GridMode
	// FPS caps panel redraws. The panel is only redrawn after a change.
	FPS  int
	Echo bool

	// Monitor streams the waveform to the audio output.
	Monitor     bool
	MonitorRate uint32

	// Script is a Lua file run after startup; empty skips it.
	Script string

	Namespace string
}

func DefaultConfig() Config {
	return Config{
		Grid:        scope.GridDashed,
		FPS:         30,
		Echo:        true,
		MonitorRate: 8000,
		Namespace:   "Sericon",
	}
}
