package main

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/spf13/cobra"

	"github.com/sarchlab/tomasim/loader"
	"github.com/sarchlab/tomasim/telemetry"
	"github.com/sarchlab/tomasim/timing/core"
	"github.com/sarchlab/tomasim/timing/latency"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

type runOptions struct {
	core     coreFlags
	timeline bool
	csv      bool
	record   string
	engine   bool
	verbose  bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <trace>",
		Short: "Simulate an instruction trace.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd, opts, args[0])
		},
	}

	opts.core.register(cmd)
	cmd.Flags().BoolVar(&opts.timeline, "timeline", false, "Print per-instruction stage cycles")
	cmd.Flags().BoolVar(&opts.csv, "csv", false, "Print the timeline as CSV")
	cmd.Flags().StringVar(&opts.record, "record", "", "Record timings into a new SQLite database")
	cmd.Flags().BoolVar(&opts.engine, "engine", false, "Drive the core with an akita serial engine")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	return cmd
}

func runTrace(cmd *cobra.Command, opts *runOptions, path string) error {
	out := cmd.OutOrStdout()

	variant, err := opts.core.variant(cmd)
	if err != nil {
		return err
	}

	trace, err := loader.Load(path)
	if err != nil {
		return err
	}

	if opts.verbose {
		_, _ = fmt.Fprintf(out, "Loaded: %s\n", path)
		_, _ = fmt.Fprintf(out, "Instructions: %d\n", trace.Len())
	}

	pipeOpts := []pipeline.PipelineOption{
		pipeline.WithConfig(variant.Pipeline),
		pipeline.WithLatencyTable(latency.NewTableWithConfig(variant.Timing.Clone())),
	}

	var (
		pipe   *pipeline.Pipeline
		runner func() (uint64, error)
	)

	if opts.engine {
		c, err := core.MakeBuilder().
			WithEngine(sim.NewSerialEngine()).
			WithTrace(trace).
			WithPipelineOptions(pipeOpts...).
			Build("Core")
		if err != nil {
			return err
		}
		pipe, runner = c.Pipeline(), c.Run
	} else {
		pipe, err = pipeline.NewPipeline(trace, pipeOpts...)
		if err != nil {
			return err
		}
		runner = pipe.Run
	}

	counter := telemetry.NewStageCounter()
	pipe.AcceptHook(counter)

	var run *telemetry.Run
	if opts.record != "" {
		recorder, err := telemetry.NewSQLiteRecorder(opts.record)
		if err != nil {
			return err
		}
		defer func() { _ = recorder.Close() }()

		run, err = recorder.StartRun(path)
		if err != nil {
			return err
		}
		pipe.AcceptHook(run)
	}

	cycles, err := runner()
	if err != nil {
		return err
	}

	if run != nil {
		if err := run.Finish(pipe.Stats()); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Recorded run %s to %s\n", run.ID(), opts.record)
	}

	switch {
	case opts.csv:
		telemetry.PrintTimingsCSV(out, pipe.Timings())
		return nil
	case opts.timeline:
		telemetry.PrintTimings(out, pipe.Timings())
		_, _ = fmt.Fprintln(out, "")
	}

	_, _ = fmt.Fprintf(out, "Trace: %s\n", path)
	telemetry.PrintStats(out, cycles, pipe.Stats())

	if opts.verbose {
		peak := counter.Peak()
		_, _ = fmt.Fprintln(out, "  --- Peak occupancy ---")
		_, _ = fmt.Fprintf(out, "  Queue:               %d\n", peak.Queue)
		_, _ = fmt.Fprintf(out, "  Int stations:        %d\n", peak.IntStations)
		_, _ = fmt.Fprintf(out, "  FP stations:         %d\n", peak.FPStations)
		_, _ = fmt.Fprintf(out, "  Int units:           %d\n", peak.IntUnits)
		_, _ = fmt.Fprintf(out, "  FP units:            %d\n", peak.FPUnits)
	}

	return nil
}
