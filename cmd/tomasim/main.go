// Package main provides the tomasim command-line tool.
// tomasim is a cycle-accurate timing model of a Tomasulo out-of-order core.
package main

import (
	"github.com/tebeka/atexit"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
