//go:build tinygo && baremetal && (rp2040 || rp2350)

package main

import (
	"sericon/app"
	"sericon/hal"
)

func main() {
	app.Run(hal.New())
}
