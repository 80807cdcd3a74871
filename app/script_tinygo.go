//go:build tinygo

package app

import (
	"errors"

	"sericon/hal"
)

// Firmware has no file system to load a script from.
func runScript(string, func(string), hal.Logger) error {
	return errors.New("script: not supported on this target")
}
