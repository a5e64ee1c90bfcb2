package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sarchlab/tomasim/benchmarks"
	"github.com/sarchlab/tomasim/loader"
)

type sweepOptions struct {
	core     coreFlags
	param    string
	values   []int
	csv      bool
	json     bool
	parallel int
	record   string
	verbose  bool
}

func newSweepCmd() *cobra.Command {
	opts := &sweepOptions{}

	cmd := &cobra.Command{
		Use:   "sweep <trace>",
		Short: "Simulate a trace while varying one core parameter.",
		Long: fmt.Sprintf("Simulate a trace once per value of --param, "+
			"running the simulations concurrently. Parameters: %v.",
			benchmarks.SweepParams()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := opts.core.variant(cmd)
			if err != nil {
				return err
			}

			variants, err := benchmarks.Sweep(base, opts.param, opts.values)
			if err != nil {
				return err
			}

			trace, err := loader.Load(args[0])
			if err != nil {
				return err
			}

			return runHarness(cmd, harnessOptions{
				variants: variants,
				workloads: []benchmarks.Benchmark{{
					Name:        filepath.Base(args[0]),
					Description: "trace " + args[0],
					Trace:       trace,
				}},
				csv:      opts.csv,
				json:     opts.json,
				parallel: opts.parallel,
				record:   opts.record,
				verbose:  opts.verbose,
			})
		},
	}

	opts.core.register(cmd)
	addHarnessFlags(cmd, &opts.csv, &opts.json, &opts.parallel, &opts.record, &opts.verbose)
	cmd.Flags().StringVar(&opts.param, "param", "", "Parameter to vary")
	cmd.Flags().IntSliceVar(&opts.values, "values", nil, "Comma-separated parameter values")
	_ = cmd.MarkFlagRequired("param")
	_ = cmd.MarkFlagRequired("values")

	return cmd
}
