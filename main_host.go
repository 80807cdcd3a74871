//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"sericon/app"
	"sericon/hal"
	"sericon/sericon/scope"
)

func main() {
	var cfg hal.HeadlessConfig
	acfg := app.DefaultConfig()
	var grid string
	var monitorRate uint
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&grid, "grid", "dashed", "Scope overlay: dashed, ticks or none.")
	flag.IntVar(&acfg.FPS, "fps", acfg.FPS, "Maximum panel redraws per second.")
	flag.StringVar(&acfg.Script, "script", "", "Lua script to run after startup.")
	flag.BoolVar(&acfg.Monitor, "monitor", false, "Play the waveform on the audio output.")
	flag.UintVar(&monitorRate, "monitor-rate", uint(acfg.MonitorRate), "Monitor sample rate in Hz.")
	flag.BoolVar(&acfg.Echo, "echo", acfg.Echo, "Echo typed characters.")
	flag.Parse()

	mode, err := scope.ParseGridMode(grid)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	acfg.Grid = mode
	acfg.MonitorRate = uint32(monitorRate)

	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, acfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Enabled {
		err = hal.RunHeadless(ctx, newApp, cfg)
	} else {
		err = hal.RunWindow(ctx, newApp)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
