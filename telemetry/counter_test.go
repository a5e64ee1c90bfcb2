package telemetry_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/telemetry"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

func twoIntTrace() *insts.SliceTrace {
	return insts.NewSliceTrace(
		insts.NewInstruction(insts.ClassIntCompute).
			WithDst(insts.IntReg(1)).WithSrc(insts.IntReg(2)),
		insts.NewInstruction(insts.ClassIntCompute).
			WithDst(insts.IntReg(3)).WithSrc(insts.IntReg(4)),
		insts.NewInstruction(insts.ClassTrap),
	)
}

var _ = Describe("StageCounter", func() {
	var (
		counter *telemetry.StageCounter
		pipe    *pipeline.Pipeline
	)

	BeforeEach(func() {
		var err error
		pipe, err = pipeline.NewPipeline(twoIntTrace())
		Expect(err).NotTo(HaveOccurred())

		counter = telemetry.NewStageCounter()
		pipe.AcceptHook(counter)
	})

	It("should count every transition", func() {
		_, err := pipe.Run()
		Expect(err).NotTo(HaveOccurred())

		Expect(counter.Count(pipeline.HookPosFetch)).To(Equal(uint64(3)))
		Expect(counter.Count(pipeline.HookPosDispatch)).To(Equal(uint64(2)))
		Expect(counter.Count(pipeline.HookPosIssue)).To(Equal(uint64(2)))
		Expect(counter.Count(pipeline.HookPosExecute)).To(Equal(uint64(2)))
		Expect(counter.Count(pipeline.HookPosBroadcast)).To(Equal(uint64(2)))
		Expect(counter.Count(pipeline.HookPosRetire)).To(Equal(uint64(3)))
	})

	It("should track peak occupancy", func() {
		_, err := pipe.Run()
		Expect(err).NotTo(HaveOccurred())

		peak := counter.Peak()
		Expect(peak.Queue).To(Equal(1))
		Expect(peak.IntStations).To(Equal(2))
		Expect(peak.IntUnits).To(Equal(2))
		Expect(peak.FPStations).To(BeZero())
		Expect(peak.FPUnits).To(BeZero())
		Expect(peak.BusBusy).To(BeTrue())
	})

	It("should report zero for positions that never fired", func() {
		Expect(counter.Count(pipeline.HookPosRetire)).To(BeZero())
	})
})
