package core_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/core"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

func traceOf(lines ...string) *insts.SliceTrace {
	decoder := insts.NewDecoder()
	trace := insts.NewSliceTrace()
	for _, line := range lines {
		inst, err := decoder.Decode(line)
		Expect(err).NotTo(HaveOccurred())
		trace.Append(inst)
	}
	return trace
}

var _ = Describe("Core", func() {
	var (
		engine sim.Engine
		trace  *insts.SliceTrace
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		trace = traceOf(
			"load f2 <- r4",
			"fp f4 <- f2, f0",
			"int r4 <- r4",
			"store <- f4, r5",
			"branch <- r4, r6",
			"trap",
			"int r5 <- r5",
		)
	})

	It("should create a core with pipeline", func() {
		c, err := core.MakeBuilder().
			WithEngine(engine).
			WithTrace(trace).
			Build("Core")

		Expect(err).NotTo(HaveOccurred())
		Expect(c.Pipeline()).NotTo(BeNil())
		Expect(c.Name()).To(Equal("Core"))
		Expect(c.Pipeline().Queue().Buffer().Name()).To(Equal("Core.InstQueue"))
		Expect(c.Halted()).To(BeFalse())
	})

	It("should require an engine", func() {
		_, err := core.MakeBuilder().WithTrace(trace).Build("Core")
		Expect(err).To(HaveOccurred())
	})

	It("should require a trace", func() {
		_, err := core.MakeBuilder().WithEngine(engine).Build("Core")
		Expect(err).To(HaveOccurred())
	})

	It("should forward pipeline options", func() {
		config := pipeline.DefaultConfig()
		config.FPUnits = 0

		_, err := core.MakeBuilder().
			WithEngine(engine).
			WithTrace(trace).
			WithPipelineOptions(pipeline.WithConfig(config)).
			Build("Core")
		Expect(err).To(MatchError(ContainSubstring("fp_units")))
	})

	It("should match a direct pipeline run when driven by the engine", func() {
		expected, err := pipeline.Run(trace)
		Expect(err).NotTo(HaveOccurred())

		c, err := core.MakeBuilder().
			WithEngine(engine).
			WithFreq(2 * sim.GHz).
			WithTrace(trace).
			Build("Core")
		Expect(err).NotTo(HaveOccurred())

		cycles, err := c.Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(cycles).To(Equal(expected))
		Expect(c.Halted()).To(BeTrue())

		stats := c.Stats()
		Expect(stats.Instructions).To(Equal(uint64(trace.Len())))
		Expect(stats.Cycles).To(Equal(expected - 1))
	})

	It("should tick manually", func() {
		c, err := core.MakeBuilder().
			WithEngine(engine).
			WithTrace(traceOf("jump")).
			Build("Core")
		Expect(err).NotTo(HaveOccurred())

		Expect(c.Tick()).To(BeTrue())
		Expect(c.Tick()).To(BeFalse())
		Expect(c.Tick()).To(BeFalse())
		Expect(c.Pipeline().Cycle()).To(Equal(uint64(3)))
	})

	It("should stop on unclassified instructions", func() {
		bad := traceOf("int r1 <- r2")
		bad.Append(insts.NewInstruction(insts.ClassUnknown))

		c, err := core.MakeBuilder().
			WithEngine(engine).
			WithTrace(bad).
			Build("Core")
		Expect(err).NotTo(HaveOccurred())

		_, err = c.Run()
		Expect(errors.Is(err, pipeline.ErrUnknownClass)).To(BeTrue())
		Expect(c.Err()).To(HaveOccurred())
	})

	It("should finish immediately on an empty trace", func() {
		c, err := core.MakeBuilder().
			WithEngine(engine).
			WithTrace(insts.NewSliceTrace()).
			Build("Core")
		Expect(err).NotTo(HaveOccurred())

		cycles, err := c.Run()
		Expect(err).NotTo(HaveOccurred())
		Expect(cycles).To(Equal(uint64(1)))
	})

	It("should reset", func() {
		c, err := core.MakeBuilder().
			WithEngine(engine).
			WithTrace(trace).
			Build("Core")
		Expect(err).NotTo(HaveOccurred())

		for c.Tick() {
		}
		first := c.Pipeline().Timings()

		c.Reset()
		Expect(c.Stats()).To(Equal(core.Stats{}))

		for c.Tick() {
		}
		Expect(c.Pipeline().Timings()).To(Equal(first))
	})
})
