package pacing_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/chip8sim/timing/pacing"
)

var _ = Describe("Config", func() {
	var config *pacing.Config

	BeforeEach(func() {
		config = pacing.DefaultConfig()
	})

	Describe("DefaultConfig", func() {
		It("should have the default rates", func() {
			Expect(config.InstructionsPerSecond).To(Equal(uint64(700)))
			Expect(config.TimerHz).To(Equal(uint64(60)))
			Expect(config.FrameHz).To(Equal(uint64(60)))
			Expect(config.KeyHoldMS).To(Equal(uint64(150)))
			Expect(config.Strict).To(BeFalse())
			Expect(config.Validate()).To(Succeed())
		})
	})

	Describe("Validate", func() {
		It("should reject a zero instruction rate", func() {
			config.InstructionsPerSecond = 0
			Expect(config.Validate()).To(MatchError(ContainSubstring("instructions_per_second")))
		})

		It("should reject a zero timer rate", func() {
			config.TimerHz = 0
			Expect(config.Validate()).To(MatchError(ContainSubstring("timer_hz")))
		})

		It("should reject a zero frame rate", func() {
			config.FrameHz = 0
			Expect(config.Validate()).To(MatchError(ContainSubstring("frame_hz")))
		})

		It("should reject timers faster than frames", func() {
			config.FrameHz = 30
			Expect(config.Validate()).To(HaveOccurred())
		})
	})

	Describe("StepsPerFrame", func() {
		It("should run exactly the instruction rate every second", func() {
			var total uint64
			for frame := uint64(0); frame < 60; frame++ {
				steps := config.StepsPerFrame(frame)
				Expect(steps).To(BeNumerically(">=", 11))
				Expect(steps).To(BeNumerically("<=", 12))
				total += steps
			}
			Expect(total).To(Equal(uint64(700)))
		})

		It("should repeat the same pattern every second", func() {
			for frame := uint64(0); frame < 60; frame++ {
				Expect(config.StepsPerFrame(frame + 60)).To(Equal(config.StepsPerFrame(frame)))
			}
		})

		It("should skip frames when the instruction rate is below the frame rate", func() {
			config.InstructionsPerSecond = 10

			var total uint64
			for frame := uint64(0); frame < 60; frame++ {
				total += config.StepsPerFrame(frame)
			}
			Expect(total).To(Equal(uint64(10)))
			Expect(config.StepsPerFrame(0)).To(Equal(uint64(0)))
		})
	})

	Describe("TimerTicksPerFrame", func() {
		It("should tick once per frame at equal rates", func() {
			for frame := uint64(0); frame < 120; frame++ {
				Expect(config.TimerTicksPerFrame(frame)).To(Equal(uint64(1)))
			}
		})

		It("should spread ticks evenly when the rates differ", func() {
			config.FrameHz = 120

			var total uint64
			for frame := uint64(0); frame < 120; frame++ {
				ticks := config.TimerTicksPerFrame(frame)
				Expect(ticks).To(BeNumerically("<=", 1))
				total += ticks
			}
			Expect(total).To(Equal(uint64(60)))
		})
	})

	Describe("durations", func() {
		It("should convert rates to durations", func() {
			Expect(config.FrameInterval()).To(Equal(time.Second / 60))
			Expect(config.KeyHold()).To(Equal(150 * time.Millisecond))
		})
	})

	Describe("Clone", func() {
		It("should return an independent copy", func() {
			config.Strict = true
			clone := config.Clone()
			clone.TimerHz = 30

			Expect(clone.Strict).To(BeTrue())
			Expect(config.TimerHz).To(Equal(uint64(60)))
		})
	})

	Describe("LoadConfig and SaveConfig", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "pacing-config-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should round-trip through a file", func() {
			path := filepath.Join(tempDir, "pacing.json")
			config.InstructionsPerSecond = 1000
			config.Strict = true

			Expect(config.SaveConfig(path)).To(Succeed())
			loaded, err := pacing.LoadConfig(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(config))
		})

		It("should keep defaults for fields missing from the file", func() {
			path := filepath.Join(tempDir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"timer_hz": 30}`), 0644)).To(Succeed())

			loaded, err := pacing.LoadConfig(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.TimerHz).To(Equal(uint64(30)))
			Expect(loaded.InstructionsPerSecond).To(Equal(uint64(700)))
		})

		It("should fail on a missing file", func() {
			_, err := pacing.LoadConfig(filepath.Join(tempDir, "missing.json"))
			Expect(err).To(HaveOccurred())
		})

		It("should fail on malformed JSON", func() {
			path := filepath.Join(tempDir, "bad.json")
			Expect(os.WriteFile(path, []byte(`{`), 0644)).To(Succeed())

			_, err := pacing.LoadConfig(path)
			Expect(err).To(MatchError(ContainSubstring("failed to parse")))
		})
	})
})
