package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/tomasim/benchmarks"
	"github.com/sarchlab/tomasim/timing/latency"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

// coreFlags are the core configuration flags shared by every command.
// Explicit flags override values loaded from the config files.
type coreFlags struct {
	pipelineConfig string
	timingConfig   string

	queueSize      int
	intStations    int
	fpStations     int
	intUnits       int
	fpUnits        int
	intLatency     uint64
	fpLatency      uint64
	maxInst        int
	releaseAtIssue bool
}

func (f *coreFlags) register(cmd *cobra.Command) {
	def := pipeline.DefaultConfig()
	lat := latency.DefaultTimingConfig()

	flags := cmd.Flags()
	flags.StringVar(&f.pipelineConfig, "pipeline-config", "",
		"Path to pipeline configuration JSON file")
	flags.StringVar(&f.timingConfig, "timing-config", "",
		"Path to timing configuration JSON file")
	flags.IntVar(&f.queueSize, "queue-size", def.QueueSize, "Instruction queue capacity")
	flags.IntVar(&f.intStations, "int-rs", def.IntStations, "Integer reservation stations")
	flags.IntVar(&f.fpStations, "fp-rs", def.FPStations, "Floating-point reservation stations")
	flags.IntVar(&f.intUnits, "int-fu", def.IntUnits, "Integer functional units")
	flags.IntVar(&f.fpUnits, "fp-fu", def.FPUnits, "Floating-point functional units")
	flags.Uint64Var(&f.intLatency, "int-latency", lat.IntLatency, "Integer unit latency in cycles")
	flags.Uint64Var(&f.fpLatency, "fp-latency", lat.FPLatency, "Floating-point unit latency in cycles")
	flags.IntVar(&f.maxInst, "max-inst", 0, "Maximum number of trace entries to simulate (0 = all)")
	flags.BoolVar(&f.releaseAtIssue, "release-at-issue", false,
		"Free reservation stations when execution starts instead of at broadcast")
}

// variant builds the configuration selected by the config files and flags.
func (f *coreFlags) variant(cmd *cobra.Command) (benchmarks.Variant, error) {
	v := benchmarks.DefaultVariant()

	if f.pipelineConfig != "" {
		config, err := pipeline.LoadConfig(f.pipelineConfig)
		if err != nil {
			return v, err
		}
		v.Pipeline = config
	}

	if f.timingConfig != "" {
		config, err := latency.LoadConfig(f.timingConfig)
		if err != nil {
			return v, err
		}
		v.Timing = *config
	}

	flags := cmd.Flags()
	if flags.Changed("queue-size") {
		v.Pipeline.QueueSize = f.queueSize
	}
	if flags.Changed("int-rs") {
		v.Pipeline.IntStations = f.intStations
	}
	if flags.Changed("fp-rs") {
		v.Pipeline.FPStations = f.fpStations
	}
	if flags.Changed("int-fu") {
		v.Pipeline.IntUnits = f.intUnits
	}
	if flags.Changed("fp-fu") {
		v.Pipeline.FPUnits = f.fpUnits
	}
	if flags.Changed("int-latency") {
		v.Timing.IntLatency = f.intLatency
	}
	if flags.Changed("fp-latency") {
		v.Timing.FPLatency = f.fpLatency
	}
	if flags.Changed("max-inst") {
		v.Pipeline.MaxInstructions = f.maxInst
	}
	if f.releaseAtIssue {
		v.Pipeline.StationRelease = pipeline.ReleaseAtIssue
	}

	if err := v.Pipeline.Validate(); err != nil {
		return v, fmt.Errorf("invalid pipeline config: %w", err)
	}
	if err := v.Timing.Validate(); err != nil {
		return v, fmt.Errorf("invalid timing config: %w", err)
	}

	return v, nil
}
