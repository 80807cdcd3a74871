//go:build !tinygo

package app

import (
	"sericon/hal"
	"sericon/sericon/script"
)

func runScript(path string, send script.Sender, log hal.Logger) error {
	return script.RunFile(path, send, log)
}
