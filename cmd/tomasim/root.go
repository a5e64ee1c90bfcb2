package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tomasim",
		Short: "tomasim simulates instruction traces on a Tomasulo out-of-order core.",
		Long: `tomasim simulates instruction traces on a Tomasulo out-of-order ` +
			`core and reports cycle counts. It can run a single trace, the ` +
			`built-in microbenchmarks, or sweep one core parameter.`,
		SilenceUsage: true,
	}

	profile := &profileOptions{}
	profile.register(root)

	root.AddCommand(newRunCmd(), newBenchCmd(), newSweepCmd())

	return root
}
