// Package benchmarks runs synthetic workloads through the Tomasulo core and
// reports cycle counts across configurations.
package benchmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/telemetry"
	"github.com/sarchlab/tomasim/timing/latency"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// Variant labels the configuration the benchmark ran with
	Variant string `json:"variant"`

	// TotalCycles is the final cycle counter
	TotalCycles uint64 `json:"total_cycles"`

	// SimulatedCycles is the number of cycles stepped
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// InstructionsRetired is the number of completed instructions
	InstructionsRetired uint64 `json:"instructions_retired"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	Broadcasts uint64 `json:"broadcasts"`
	Stores     uint64 `json:"stores"`
	Controls   uint64 `json:"controls"`
	Traps      uint64 `json:"traps"`

	QueueFullStalls    uint64 `json:"queue_full_stalls"`
	StationFullStalls  uint64 `json:"station_full_stalls"`
	BroadcastConflicts uint64 `json:"broadcast_conflicts"`

	// RunID identifies the recorded run when telemetry is enabled
	RunID string `json:"run_id,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single workload.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Trace is the instruction stream to simulate
	Trace insts.Trace
}

// Variant is one core configuration to run every benchmark with.
type Variant struct {
	Label    string
	Pipeline pipeline.Config
	Timing   latency.TimingConfig
}

// DefaultVariant returns the reference configuration.
func DefaultVariant() Variant {
	return Variant{
		Label:    "default",
		Pipeline: pipeline.DefaultConfig(),
		Timing:   *latency.DefaultTimingConfig(),
	}
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Variants lists the configurations to run. Empty means the default.
	Variants []Variant

	// Parallelism bounds the number of concurrent runs. Zero or less means
	// one run per benchmark and variant pair.
	Parallelism int

	// Recorder stores per-instruction timings of every run when set
	Recorder *telemetry.SQLiteRecorder

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Variants:    []Variant{DefaultVariant()},
		Parallelism: 4,
		Output:      os.Stdout,
		Verbose:     false,
	}
}

// Harness runs timing benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if len(config.Variants) == 0 {
		config.Variants = []Variant{DefaultVariant()}
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes every benchmark with every variant. Runs proceed
// concurrently. Results are ordered by benchmark, then variant. The first
// failing run cancels the ones that have not started.
func (h *Harness) RunAll(ctx context.Context) ([]BenchmarkResult, error) {
	variants := h.config.Variants
	results := make([]BenchmarkResult, len(h.benchmarks)*len(variants))

	g, ctx := errgroup.WithContext(ctx)
	if h.config.Parallelism > 0 {
		g.SetLimit(h.config.Parallelism)
	}

	for i, bench := range h.benchmarks {
		for j, variant := range variants {
			slot := i*len(variants) + j

			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}

				result, err := h.RunBenchmark(bench, variant)
				if err != nil {
					return err
				}
				results[slot] = result

				if h.config.Verbose {
					_, _ = fmt.Fprintf(h.config.Output, "finished %s [%s]: %d cycles\n",
						bench.Name, variant.Label, result.TotalCycles)
				}

				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// RunBenchmark executes a single benchmark with one variant.
func (h *Harness) RunBenchmark(bench Benchmark, variant Variant) (BenchmarkResult, error) {
	timing := variant.Timing.Clone()

	pipe, err := pipeline.NewPipeline(bench.Trace,
		pipeline.WithConfig(variant.Pipeline),
		pipeline.WithLatencyTable(latency.NewTableWithConfig(timing)))
	if err != nil {
		return BenchmarkResult{}, fmt.Errorf("%s [%s]: %w", bench.Name, variant.Label, err)
	}

	var run *telemetry.Run
	if h.config.Recorder != nil {
		run, err = h.config.Recorder.StartRun(bench.Name + "/" + variant.Label)
		if err != nil {
			return BenchmarkResult{}, err
		}
		pipe.AcceptHook(run)
	}

	start := time.Now()
	cycles, err := pipe.Run()
	wallTime := time.Since(start)
	if err != nil {
		return BenchmarkResult{}, fmt.Errorf("%s [%s]: %w", bench.Name, variant.Label, err)
	}

	stats := pipe.Stats()
	result := BenchmarkResult{
		Name:                bench.Name,
		Description:         bench.Description,
		Variant:             variant.Label,
		TotalCycles:         cycles,
		SimulatedCycles:     stats.Cycles,
		InstructionsRetired: stats.Instructions,
		CPI:                 stats.CPI(),
		Broadcasts:          stats.Broadcasts,
		Stores:              stats.Stores,
		Controls:            stats.Controls,
		Traps:               stats.Traps,
		QueueFullStalls:     stats.QueueFullStalls,
		StationFullStalls:   stats.StationFullStalls,
		BroadcastConflicts:  stats.BroadcastConflicts,
		WallTime:            wallTime,
	}

	if run != nil {
		if err := run.Finish(stats); err != nil {
			return BenchmarkResult{}, err
		}
		result.RunID = run.ID()
	}

	return result, nil
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== Tomasim Timing Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s [%s]\n", r.Name, r.Variant)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintln(h.config.Output, "  --- Timing ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Total Cycles:         %d\n", r.TotalCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions Retired: %d\n", r.InstructionsRetired)
		_, _ = fmt.Fprintf(h.config.Output, "  CPI:                  %.3f\n", r.CPI)
		_, _ = fmt.Fprintf(h.config.Output, "  Broadcasts:           %d\n", r.Broadcasts)
		_, _ = fmt.Fprintf(h.config.Output, "  Stores:               %d\n", r.Stores)
		_, _ = fmt.Fprintf(h.config.Output, "  Controls:             %d\n", r.Controls)
		_, _ = fmt.Fprintf(h.config.Output, "  Traps:                %d\n", r.Traps)

		if r.QueueFullStalls > 0 || r.StationFullStalls > 0 || r.BroadcastConflicts > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- Stalls ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Queue Full:      %d\n", r.QueueFullStalls)
			_, _ = fmt.Fprintf(h.config.Output, "  Stations Full:   %d\n", r.StationFullStalls)
			_, _ = fmt.Fprintf(h.config.Output, "  Bus Conflicts:   %d\n", r.BroadcastConflicts)
		}

		if r.RunID != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Run ID: %s\n", r.RunID)
		}

		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,variant,cycles,instructions,cpi,broadcasts,stores,controls,traps,queue_full,stations_full,bus_conflicts")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%s,%d,%d,%.3f,%d,%d,%d,%d,%d,%d,%d\n",
			r.Name,
			r.Variant,
			r.TotalCycles,
			r.InstructionsRetired,
			r.CPI,
			r.Broadcasts,
			r.Stores,
			r.Controls,
			r.Traps,
			r.QueueFullStalls,
			r.StationFullStalls,
			r.BroadcastConflicts,
		)
	}
}

// PrintJSON outputs benchmark results as an indented JSON array.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	enc := json.NewEncoder(h.config.Output)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
