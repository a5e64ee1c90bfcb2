package pipeline

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/latency"
)

// Statistics holds pipeline performance statistics.
type Statistics struct {
	// Cycles is the number of cycles simulated.
	Cycles uint64 `json:"cycles"`
	// Instructions is the number of instructions retired.
	Instructions uint64 `json:"instructions"`
	// Traps is the number of trap instructions retired at fetch.
	Traps uint64 `json:"traps"`
	// Controls is the number of control instructions retired at the queue
	// head.
	Controls uint64 `json:"controls"`
	// Stores is the number of stores retired on completion.
	Stores uint64 `json:"stores"`
	// Loads is the number of loads that broadcast their value.
	Loads uint64 `json:"loads"`
	// Broadcasts is the number of results published on the bus.
	Broadcasts uint64 `json:"broadcasts"`
	// QueueFullStalls counts cycles in which fetch had work but the
	// instruction queue was full.
	QueueFullStalls uint64 `json:"queue_full_stalls"`
	// StationFullStalls counts cycles in which the queue head could not
	// enter a reservation station.
	StationFullStalls uint64 `json:"station_full_stalls"`
	// BroadcastConflicts counts completed instructions that lost bus
	// arbitration and had to wait another cycle.
	BroadcastConflicts uint64 `json:"broadcast_conflicts"`
}

// CPI returns the cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// IPC returns the instructions per cycle.
func (s Statistics) IPC() float64 {
	if s.Cycles == 0 {
		return 0
	}
	return float64(s.Instructions) / float64(s.Cycles)
}

// Occupancy is a snapshot of how many slots of each structure are in use.
type Occupancy struct {
	Queue       int
	IntStations int
	FPStations  int
	IntUnits    int
	FPUnits     int
	BusBusy     bool
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithConfig sets the structural parameters of the core.
func WithConfig(config Config) PipelineOption {
	return func(p *Pipeline) {
		p.config = config
	}
}

// WithLatencyTable sets the functional unit latencies.
func WithLatencyTable(table *latency.Table) PipelineOption {
	return func(p *Pipeline) {
		p.latencyTable = table
	}
}

// WithName sets the name used for the pipeline's akita buffers.
func WithName(name string) PipelineOption {
	return func(p *Pipeline) {
		p.name = name
	}
}

// Pipeline is a cycle-stepped Tomasulo core. Each cycle it retires the
// instruction on the broadcast bus, arbitrates the bus among completed
// instructions, starts ready instructions on idle functional units, moves the
// instruction queue head into a reservation station, and fetches from the
// trace.
type Pipeline struct {
	sim.HookableBase

	name         string
	config       Config
	latencyTable *latency.Table

	trace insts.Trace
	arena *Arena
	total int

	queue       *InstructionQueue
	mapTable    *MapTable
	intStations *StationPool
	fpStations  *StationPool
	intUnits    *UnitPool
	fpUnits     *UnitPool
	bus         BroadcastBus
	arbiter     arbiter

	cycle    uint64
	fetchPos int
	retired  int
	stats    Statistics
	err      error

	stages []stage
}

// NewPipeline creates a pipeline that simulates the given trace.
func NewPipeline(trace insts.Trace, opts ...PipelineOption) (*Pipeline, error) {
	p := &Pipeline{
		name:         "Pipeline",
		config:       DefaultConfig(),
		latencyTable: latency.NewTable(),
		trace:        trace,
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := p.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}
	if err := p.latencyTable.Config().Validate(); err != nil {
		return nil, fmt.Errorf("invalid timing config: %w", err)
	}

	p.total = trace.Len()
	if p.config.MaxInstructions > 0 && p.config.MaxInstructions < p.total {
		p.total = p.config.MaxInstructions
	}

	for i := 0; i < p.total; i++ {
		if trace.At(i) == nil {
			return nil, fmt.Errorf("trace entry %d is nil", i+1)
		}
	}

	p.arena = NewArena(trace, p.total, p.latencyTable)
	p.queue = NewInstructionQueue(p.name+".InstQueue", p.config.QueueSize)
	p.mapTable = NewMapTable()
	p.intStations = NewStationPool(p.name+".IntStations", p.config.IntStations)
	p.fpStations = NewStationPool(p.name+".FPStations", p.config.FPStations)
	p.intUnits = NewUnitPool(p.name+".IntUnits", p.config.IntUnits,
		p.latencyTable.UnitLatency(latency.UnitInt))
	p.fpUnits = NewUnitPool(p.name+".FPUnits", p.config.FPUnits,
		p.latencyTable.UnitLatency(latency.UnitFP))
	p.stages = p.stageOrder()
	p.cycle = 1

	return p, nil
}

// Run simulates the whole trace and returns the total cycle count.
func Run(trace insts.Trace, opts ...PipelineOption) (uint64, error) {
	p, err := NewPipeline(trace, opts...)
	if err != nil {
		return 0, err
	}
	return p.Run()
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return p.name
}

// Config returns the structural configuration.
func (p *Pipeline) Config() Config {
	return p.config
}

// LatencyTable returns the latency table in use.
func (p *Pipeline) LatencyTable() *latency.Table {
	return p.latencyTable
}

// Cycle returns the number of the cycle that will be simulated next.
func (p *Pipeline) Cycle() uint64 {
	return p.cycle
}

// Total returns the number of instructions that must retire.
func (p *Pipeline) Total() int {
	return p.total
}

// Retired returns the number of instructions retired so far.
func (p *Pipeline) Retired() int {
	return p.retired
}

// Done returns true once every simulated instruction has retired.
func (p *Pipeline) Done() bool {
	return p.retired == p.total
}

// Err returns the error that stopped the pipeline, if any.
func (p *Pipeline) Err() error {
	return p.err
}

// Halted returns true if the pipeline cannot make further progress.
func (p *Pipeline) Halted() bool {
	return p.Done() || p.err != nil
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// Record returns the state of the instruction with the given tag.
func (p *Pipeline) Record(tag Tag) *Record {
	return p.arena.Get(tag)
}

// Timings returns the per-instruction timestamps in program order.
func (p *Pipeline) Timings() []Timing {
	return p.arena.Timings()
}

// MapTable returns the register renaming table.
func (p *Pipeline) MapTable() *MapTable {
	return p.mapTable
}

// Queue returns the instruction queue.
func (p *Pipeline) Queue() *InstructionQueue {
	return p.queue
}

// Bus returns the broadcast bus.
func (p *Pipeline) Bus() *BroadcastBus {
	return &p.bus
}

// Occupancy returns the current usage of every structure.
func (p *Pipeline) Occupancy() Occupancy {
	return Occupancy{
		Queue:       p.queue.Len(),
		IntStations: p.intStations.Occupied(),
		FPStations:  p.fpStations.Occupied(),
		IntUnits:    p.intUnits.Occupied(),
		FPUnits:     p.fpUnits.Occupied(),
		BusBusy:     p.bus.Busy(),
	}
}

// Stations returns the reservation station pool of a unit class.
func (p *Pipeline) Stations(class latency.UnitClass) *StationPool {
	switch class {
	case latency.UnitInt:
		return p.intStations
	case latency.UnitFP:
		return p.fpStations
	default:
		return nil
	}
}

// Units returns the functional unit pool of a unit class.
func (p *Pipeline) Units(class latency.UnitClass) *UnitPool {
	switch class {
	case latency.UnitInt:
		return p.intUnits
	case latency.UnitFP:
		return p.fpUnits
	default:
		return nil
	}
}

// Tick simulates one cycle.
//
// Stages are evaluated in reverse pipeline order (retire, broadcast, execute,
// issue, fetch) so that each stage observes the state the previous cycle left
// behind and no instruction crosses two stage boundaries in one cycle. Two
// same-cycle effects are intended: a unit freed by broadcast can start a new
// instruction, and operands woken by retire can be selected for execution.
//
// Tick does nothing once the pipeline has halted.
func (p *Pipeline) Tick() {
	if p.Halted() {
		return
	}

	for _, s := range p.stages {
		if err := s.run(); err != nil {
			p.err = fmt.Errorf("cycle %d, %s: %w", p.cycle, s.name, err)
			return
		}
	}

	p.cycle++
	p.stats.Cycles++
}

// Run executes the pipeline until every instruction retires. It returns the
// final cycle counter, which is one past the cycle in which the last
// instruction retired.
func (p *Pipeline) Run() (uint64, error) {
	for !p.Halted() {
		p.Tick()
	}
	return p.cycle, p.err
}

// RunCycles executes the pipeline for at most the given number of cycles.
// Returns true if still running.
func (p *Pipeline) RunCycles(cycles uint64) (bool, error) {
	for i := uint64(0); i < cycles && !p.Halted(); i++ {
		p.Tick()
	}
	return !p.Halted(), p.err
}

// Reset restores the pipeline to its state before the first cycle. Hooks
// stay attached.
func (p *Pipeline) Reset() {
	p.arena.reset()
	p.queue.Reset()
	p.mapTable.Reset()
	p.intStations.Reset()
	p.fpStations.Reset()
	p.intUnits.Reset()
	p.fpUnits.Reset()
	p.bus.Clear()
	p.arbiter.reset()
	p.cycle = 1
	p.fetchPos = 0
	p.retired = 0
	p.stats = Statistics{}
	p.err = nil
}
