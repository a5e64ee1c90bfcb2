package main

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/tomasim/benchmarks"
	"github.com/sarchlab/tomasim/telemetry"
)

type benchOptions struct {
	core     coreFlags
	csv      bool
	json     bool
	parallel int
	record   string
	verbose  bool
}

func newBenchCmd() *cobra.Command {
	opts := &benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the built-in microbenchmarks.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			variant, err := opts.core.variant(cmd)
			if err != nil {
				return err
			}

			return runHarness(cmd, harnessOptions{
				variants:  []benchmarks.Variant{variant},
				workloads: benchmarks.GetMicrobenchmarks(),
				csv:       opts.csv,
				json:      opts.json,
				parallel:  opts.parallel,
				record:    opts.record,
				verbose:   opts.verbose,
			})
		},
	}

	opts.core.register(cmd)
	addHarnessFlags(cmd, &opts.csv, &opts.json, &opts.parallel, &opts.record, &opts.verbose)

	return cmd
}

func addHarnessFlags(cmd *cobra.Command, csv, json *bool, parallel *int,
	record *string, verbose *bool) {
	flags := cmd.Flags()
	flags.BoolVar(csv, "csv", false, "Output results as CSV")
	flags.BoolVar(json, "json", false, "Output results as JSON")
	flags.IntVar(parallel, "parallel", 4, "Maximum concurrent runs (0 = unlimited)")
	flags.StringVar(record, "record", "", "Record timings into a new SQLite database")
	flags.BoolVarP(verbose, "verbose", "v", false, "Report runs as they finish")
}

type harnessOptions struct {
	variants  []benchmarks.Variant
	workloads []benchmarks.Benchmark
	csv       bool
	json      bool
	parallel  int
	record    string
	verbose   bool
}

func runHarness(cmd *cobra.Command, opts harnessOptions) error {
	config := benchmarks.DefaultConfig()
	config.Output = cmd.OutOrStdout()
	config.Variants = opts.variants
	config.Parallelism = opts.parallel
	config.Verbose = opts.verbose

	if opts.record != "" {
		recorder, err := telemetry.NewSQLiteRecorder(opts.record)
		if err != nil {
			return err
		}
		defer func() { _ = recorder.Close() }()
		config.Recorder = recorder
	}

	harness := benchmarks.NewHarness(config)
	harness.AddBenchmarks(opts.workloads)

	results, err := harness.RunAll(cmd.Context())
	if err != nil {
		return err
	}

	switch {
	case opts.json:
		return harness.PrintJSON(results)
	case opts.csv:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	return nil
}
