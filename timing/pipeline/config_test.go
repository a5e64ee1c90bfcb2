package pipeline_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tomasim/timing/pipeline"
)

var _ = Describe("Config", func() {
	It("should default to the reference core", func() {
		config := pipeline.DefaultConfig()

		Expect(config.QueueSize).To(Equal(10))
		Expect(config.IntStations).To(Equal(4))
		Expect(config.FPStations).To(Equal(2))
		Expect(config.IntUnits).To(Equal(2))
		Expect(config.FPUnits).To(Equal(1))
		Expect(config.StationRelease).To(Equal(pipeline.ReleaseAtBroadcast))
		Expect(config.MaxInstructions).To(BeZero())
		Expect(config.Validate()).To(Succeed())
	})

	DescribeTable("should reject invalid values",
		func(mutate func(*pipeline.Config), field string) {
			config := pipeline.DefaultConfig()
			mutate(&config)
			Expect(config.Validate()).To(MatchError(ContainSubstring(field)))
		},
		Entry("queue size", func(c *pipeline.Config) { c.QueueSize = 0 }, "queue_size"),
		Entry("int stations", func(c *pipeline.Config) { c.IntStations = 0 }, "int_stations"),
		Entry("fp stations", func(c *pipeline.Config) { c.FPStations = -1 }, "fp_stations"),
		Entry("int units", func(c *pipeline.Config) { c.IntUnits = 0 }, "int_units"),
		Entry("fp units", func(c *pipeline.Config) { c.FPUnits = 0 }, "fp_units"),
		Entry("fetch limit", func(c *pipeline.Config) { c.MaxInstructions = -3 }, "max_instructions"),
		Entry("release policy", func(c *pipeline.Config) { c.StationRelease = "never" }, "station_release"),
	)

	Describe("File Operations", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "pipeline-config-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should save and load config", func() {
			original := pipeline.DefaultConfig()
			original.IntUnits = 3
			original.StationRelease = pipeline.ReleaseAtIssue

			path := filepath.Join(tempDir, "pipeline.json")
			Expect(original.SaveConfig(path)).To(Succeed())

			loaded, err := pipeline.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(original))
		})

		It("should keep defaults for missing fields", func() {
			path := filepath.Join(tempDir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"fp_units": 2}`), 0644)).To(Succeed())

			loaded, err := pipeline.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.FPUnits).To(Equal(2))
			Expect(loaded.QueueSize).To(Equal(10))
		})

		It("should return error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			Expect(os.WriteFile(path, []byte("{"), 0644)).To(Succeed())

			_, err := pipeline.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})

		It("should return error for non-existent file", func() {
			_, err := pipeline.LoadConfig("/nonexistent/pipeline.json")
			Expect(err).To(HaveOccurred())
		})
	})
})
