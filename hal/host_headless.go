//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	// Hz is the step rate. Ticks still track wall time.
	Hz int
	// Ticks stops the runner after that many steps; 0 runs until ctx ends.
	Ticks uint64
}

// RunHeadless drives the console from a ticker on the terminal alone. The
// terminal is restored however the loop ends.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := New().(*hostHAL)
	defer h.Close()
	step := newApp(h)
	if step == nil {
		return nil
	}

	t := time.NewTicker(d)
	defer t.Stop()

	for n := uint64(1); ; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
		h.t.step()
		if err := step(); err != nil {
			return fmt.Errorf("headless: step %d: %w", n, err)
		}
		if cfg.Ticks > 0 && n >= cfg.Ticks {
			return nil
		}
	}
}
