package pipeline_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/latency"
	"github.com/sarchlab/tomasim/timing/pipeline"
)

var _ = Describe("Pipeline invariants", func() {
	configs := []struct {
		name   string
		config pipeline.Config
	}{
		{"default", pipeline.DefaultConfig()},
		{"narrow", pipeline.Config{
			QueueSize:      2,
			IntStations:    1,
			FPStations:     1,
			IntUnits:       1,
			FPUnits:        1,
			StationRelease: pipeline.ReleaseAtBroadcast,
		}},
		{"wide release at issue", pipeline.Config{
			QueueSize:      16,
			IntStations:    8,
			FPStations:     4,
			IntUnits:       3,
			FPUnits:        2,
			StationRelease: pipeline.ReleaseAtIssue,
		}},
	}

	for _, c := range configs {
		config := c.config

		Context("with the "+c.name+" configuration", func() {
			for seed := int64(1); seed <= 8; seed++ {
				seed := seed

				It(fmt.Sprintf("should hold every invariant for random trace %d", seed), func() {
					trace := randomTrace(seed, 200)
					pipe, err := pipeline.NewPipeline(trace, pipeline.WithConfig(config))
					Expect(err).NotTo(HaveOccurred())

					var violations []string
					events := &eventLog{}
					events.check = func(ctx sim.HookCtx) {
						violations = append(violations,
							checkTransition(pipe, ctx)...)
					}
					pipe.AcceptHook(events)

					for !pipe.Halted() {
						pipe.Tick()
						violations = append(violations,
							checkCapacity(pipe, config)...)
					}

					Expect(pipe.Err()).NotTo(HaveOccurred())
					Expect(violations).To(BeEmpty())

					By("retiring every instruction exactly once")
					Expect(events.count(pipeline.HookPosRetire)).To(Equal(trace.Len()))
					for _, t := range pipe.Timings() {
						Expect(t.RetireCycle).NotTo(BeZero())
					}

					By("broadcasting at most once per cycle")
					for cycle, n := range events.perCycle(pipeline.HookPosBroadcast) {
						Expect(n).To(Equal(1), "cycle %d", cycle)
					}

					By("respecting unit latencies and stage order")
					checkTimings(pipe)

					By("being deterministic")
					again, err := pipeline.NewPipeline(trace, pipeline.WithConfig(config))
					Expect(err).NotTo(HaveOccurred())
					cycles, err := again.Run()
					Expect(err).NotTo(HaveOccurred())
					Expect(cycles).To(Equal(pipe.Cycle()))
					Expect(again.Timings()).To(Equal(pipe.Timings()))
				})
			}
		})
	}
})

// checkTransition verifies operand gating and bus arbitration at the moment
// a transition happens.
func checkTransition(pipe *pipeline.Pipeline, ctx sim.HookCtx) []string {
	var violations []string

	timing := ctx.Item.(pipeline.Timing)
	cycle := ctx.Detail.(pipeline.StageEvent).Cycle
	rec := pipe.Record(pipeline.Tag(timing.Index))

	switch ctx.Pos {
	case pipeline.HookPosExecute:
		if !rec.Ready() {
			violations = append(violations, "started with pending operands")
		}

	case pipeline.HookPosBroadcast:
		for _, class := range []latency.UnitClass{latency.UnitInt, latency.UnitFP} {
			units := pipe.Units(class)
			for _, tag := range units.Tags() {
				other := pipe.Record(tag)
				if units.Completed(other, cycle) && !other.Inst.IsStore() &&
					uint64(tag) < timing.Index {
					violations = append(violations, "younger instruction won the bus")
				}
			}
		}
	}

	return violations
}

func checkCapacity(pipe *pipeline.Pipeline, config pipeline.Config) []string {
	var violations []string

	o := pipe.Occupancy()
	if o.Queue > config.QueueSize {
		violations = append(violations, "queue over capacity")
	}
	if o.IntStations > config.IntStations || o.FPStations > config.FPStations {
		violations = append(violations, "stations over capacity")
	}
	if o.IntUnits > config.IntUnits || o.FPUnits > config.FPUnits {
		violations = append(violations, "units over capacity")
	}

	return violations
}

func checkTimings(pipe *pipeline.Pipeline) {
	table := pipe.LatencyTable()

	for i := 1; i <= pipe.Total(); i++ {
		rec := pipe.Record(pipeline.Tag(i))
		t := rec.Timing

		switch {
		case rec.Inst.IsTrap():
			Expect(t.DispatchCycle).To(BeZero())

		case rec.Inst.IsControl():
			Expect(t.IssueCycle).To(BeZero())
			Expect(t.RetireCycle).To(BeNumerically(">", t.DispatchCycle))

		default:
			lat := table.GetLatency(rec.Inst)
			Expect(t.IssueCycle).To(BeNumerically(">", t.DispatchCycle))
			Expect(t.ExecuteCycle).To(BeNumerically(">", t.IssueCycle))

			if rec.Inst.Class == insts.ClassStore {
				Expect(t.BroadcastCycle).To(BeZero())
				Expect(t.RetireCycle).To(BeNumerically(">=", t.ExecuteCycle+lat))
			} else {
				Expect(t.BroadcastCycle).To(BeNumerically(">=", t.ExecuteCycle+lat))
				Expect(t.RetireCycle).To(Equal(t.BroadcastCycle + 1))
			}
		}
	}
}
