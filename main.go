// Package main provides the entry point for tomasim.
// tomasim is a cycle-accurate timing model of a Tomasulo out-of-order core
// built on Akita.
//
// For the full CLI, use: go run ./cmd/tomasim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("tomasim - Tomasulo Out-of-Order Core Timing Model")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: tomasim <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  run <trace>     Simulate an instruction trace")
	fmt.Println("  bench           Run the built-in microbenchmarks")
	fmt.Println("  sweep <trace>   Vary one core parameter across runs")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/tomasim --help' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/tomasim' instead.")
	}
}
