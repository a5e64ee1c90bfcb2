package latency_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/insts"
	"github.com/sarchlab/tomasim/timing/latency"
)

var _ = Describe("Latency", func() {
	var (
		table   *latency.Table
		decoder *insts.Decoder
	)

	decode := func(line string) *insts.Instruction {
		inst, err := decoder.Decode(line)
		Expect(err).NotTo(HaveOccurred())
		return inst
	}

	BeforeEach(func() {
		table = latency.NewTable()
		decoder = insts.NewDecoder()
	})

	Describe("Default Timing Values", func() {
		It("should have correct integer latency", func() {
			Expect(table.Config().IntLatency).To(Equal(uint64(4)))
		})

		It("should have correct floating-point latency", func() {
			Expect(table.Config().FPLatency).To(Equal(uint64(9)))
		})
	})

	Describe("Unit Classes", func() {
		DescribeTable("should map instruction classes to unit pools",
			func(line string, expected latency.UnitClass) {
				Expect(table.UnitClassOf(decode(line))).To(Equal(expected))
			},
			Entry("integer compute", "int r1 <- r2", latency.UnitInt),
			Entry("load", "load r1 <- r2", latency.UnitInt),
			Entry("store", "store <- r1, r2", latency.UnitInt),
			Entry("fp compute", "fp f1 <- f2", latency.UnitFP),
			Entry("jump", "jump", latency.UnitNone),
			Entry("branch", "branch <- r1", latency.UnitNone),
			Entry("trap", "trap", latency.UnitNone),
		)

		It("should return none for unclassified instructions", func() {
			inst := insts.NewInstruction(insts.ClassUnknown)
			Expect(table.UnitClassOf(inst)).To(Equal(latency.UnitNone))
		})

		It("should name unit classes", func() {
			Expect(latency.UnitInt.String()).To(Equal("int"))
			Expect(latency.UnitFP.String()).To(Equal("fp"))
			Expect(latency.UnitNone.String()).To(Equal("none"))
		})
	})

	Describe("Instruction Latencies", func() {
		It("should return 4 cycles for integer compute", func() {
			Expect(table.GetLatency(decode("int r1 <- r2"))).To(Equal(uint64(4)))
		})

		It("should return 4 cycles for loads and stores", func() {
			Expect(table.GetLatency(decode("load r1 <- r2"))).To(Equal(uint64(4)))
			Expect(table.GetLatency(decode("store <- r1"))).To(Equal(uint64(4)))
		})

		It("should return 9 cycles for fp compute", func() {
			Expect(table.GetLatency(decode("fp f1 <- f2"))).To(Equal(uint64(9)))
		})

		It("should return 0 cycles for control and trap", func() {
			Expect(table.GetLatency(decode("jump"))).To(BeZero())
			Expect(table.GetLatency(decode("trap"))).To(BeZero())
		})
	})

	Describe("Instruction Type Detection", func() {
		It("should detect load operations", func() {
			Expect(table.IsLoadOp(decode("load r1 <- r2"))).To(BeTrue())
			Expect(table.IsLoadOp(decode("store <- r1"))).To(BeFalse())
		})

		It("should detect store operations", func() {
			Expect(table.IsStoreOp(decode("store <- r1"))).To(BeTrue())
			Expect(table.IsStoreOp(decode("load r1 <- r2"))).To(BeFalse())
		})

		It("should detect branch operations", func() {
			Expect(table.IsBranchOp(decode("jump"))).To(BeTrue())
			Expect(table.IsBranchOp(decode("branch <- r3"))).To(BeTrue())
			Expect(table.IsBranchOp(decode("trap"))).To(BeFalse())
		})
	})

	Describe("Nil Instruction Handling", func() {
		It("should return 0 for nil instruction", func() {
			Expect(table.GetLatency(nil)).To(BeZero())
		})

		It("should return false for nil instruction checks", func() {
			Expect(table.IsLoadOp(nil)).To(BeFalse())
			Expect(table.IsStoreOp(nil)).To(BeFalse())
			Expect(table.IsBranchOp(nil)).To(BeFalse())
		})
	})

	Describe("Custom Configuration", func() {
		It("should use custom config values", func() {
			config := &latency.TimingConfig{IntLatency: 1, FPLatency: 3}
			custom := latency.NewTableWithConfig(config)

			Expect(custom.GetLatency(decode("int r1 <- r2"))).To(Equal(uint64(1)))
			Expect(custom.GetLatency(decode("fp f1 <- f2"))).To(Equal(uint64(3)))
			Expect(custom.Config()).To(BeIdenticalTo(config))
		})
	})
})

var _ = Describe("TimingConfig", func() {
	Describe("Default Config", func() {
		It("should create valid default config", func() {
			config := latency.DefaultTimingConfig()
			Expect(config.Validate()).To(Succeed())
		})
	})

	Describe("Validation", func() {
		It("should reject zero integer latency", func() {
			config := latency.DefaultTimingConfig()
			config.IntLatency = 0
			Expect(config.Validate()).To(MatchError(ContainSubstring("int_latency")))
		})

		It("should reject zero fp latency", func() {
			config := latency.DefaultTimingConfig()
			config.FPLatency = 0
			Expect(config.Validate()).To(MatchError(ContainSubstring("fp_latency")))
		})
	})

	Describe("Clone", func() {
		It("should create independent copy", func() {
			original := latency.DefaultTimingConfig()
			clone := original.Clone()
			clone.IntLatency = 100

			Expect(original.IntLatency).To(Equal(uint64(4)))
			Expect(clone.FPLatency).To(Equal(original.FPLatency))
		})
	})

	Describe("File Operations", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "latency-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should save and load config", func() {
			original := latency.DefaultTimingConfig()
			original.IntLatency = 5
			original.FPLatency = 12

			path := filepath.Join(tempDir, "timing.json")
			Expect(original.SaveConfig(path)).To(Succeed())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.IntLatency).To(Equal(uint64(5)))
			Expect(loaded.FPLatency).To(Equal(uint64(12)))
		})

		It("should keep defaults for missing fields", func() {
			path := filepath.Join(tempDir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"fp_latency": 20}`), 0644)).To(Succeed())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.IntLatency).To(Equal(uint64(4)))
			Expect(loaded.FPLatency).To(Equal(uint64(20)))
		})

		It("should return error for non-existent file", func() {
			_, err := latency.LoadConfig("/nonexistent/path/timing.json")
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			err := os.WriteFile(path, []byte("not valid json"), 0644)
			Expect(err).NotTo(HaveOccurred())

			_, err = latency.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
