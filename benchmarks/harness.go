// Package benchmarks provides a benchmark harness of hand-assembled CHIP-8
// workloads. Each workload runs to a halt and its final machine state is
// checked, so the suite doubles as an end-to-end validation of the
// emulator.
package benchmarks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/sarchlab/chip8sim/emu"
	"github.com/sarchlab/chip8sim/insts"
	"github.com/sarchlab/chip8sim/timing/cache"
)

// BenchmarkResult holds the results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// Instructions is the number of executed instructions
	Instructions uint64 `json:"instructions"`

	// Draws is the number of DRW instructions executed
	Draws uint64 `json:"draws"`

	// Calls is the number of CALL instructions executed
	Calls uint64 `json:"calls"`

	// Halted is true if the program reached its halt loop
	Halted bool `json:"halted"`

	// Error describes an execution or validation failure
	Error string `json:"error,omitempty"`

	// FetchHits/Misses (if the fetch cache is enabled)
	FetchHits   uint64 `json:"fetch_hits,omitempty"`
	FetchMisses uint64 `json:"fetch_misses,omitempty"`

	// WallTime is the actual time taken to run the program
	WallTime time.Duration `json:"wall_time_ns"`
}

// InstructionsPerSecond returns the host execution speed.
func (r BenchmarkResult) InstructionsPerSecond() float64 {
	if r.WallTime <= 0 {
		return 0
	}
	return float64(r.Instructions) / r.WallTime.Seconds()
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Setup prepares the emulator state after the program is loaded
	Setup func(e *emu.Emulator)

	// Program is the CHIP-8 machine code to execute. It must end in a
	// jump to itself, which the harness treats as a halt.
	Program []byte

	// Check validates the final machine state
	Check func(e *emu.Emulator) error
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// EnableFetchCache enables fetch cache simulation
	EnableFetchCache bool

	// FetchCache is the fetch cache geometry
	FetchCache cache.Config

	// MaxInstructions bounds each run
	MaxInstructions uint64

	// Seed seeds RND
	Seed uint64

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Logger receives per-benchmark progress when set
	Logger *log.Logger
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		EnableFetchCache: true,
		FetchCache:       cache.DefaultFetchConfig(),
		MaxInstructions:  10_000_000,
		Seed:             1,
		Output:           os.Stdout,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
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

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		result := h.runBenchmark(bench)
		if h.config.Logger != nil {
			h.config.Logger.Info("Benchmark finished",
				log.String("name", result.Name),
				log.Int("instructions", int(result.Instructions)),
				log.String("error", result.Error))
		}
		results = append(results, result)
	}

	return results
}

// errNoHalt is reported when a program hits the instruction limit.
var errNoHalt = errors.New("program did not halt")

// runBenchmark executes a single benchmark.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	e := emu.NewEmulator(
		emu.WithSeed(h.config.Seed),
		emu.WithMaxInstructions(h.config.MaxInstructions),
	)
	if err := e.LoadProgram(bench.Program); err != nil {
		result.Error = err.Error()
		return result
	}
	if bench.Setup != nil {
		bench.Setup(e)
	}

	var fetchCache *cache.Cache
	if h.config.EnableFetchCache {
		fetchCache = cache.New(h.config.FetchCache, cache.NewMemoryBacking(e.Memory()))
	}

	start := time.Now()
	err := h.execute(e, fetchCache, &result)
	result.WallTime = time.Since(start)

	if err == nil && bench.Check != nil {
		err = bench.Check(e)
	}
	if err != nil {
		result.Error = err.Error()
	}

	if fetchCache != nil {
		stats := fetchCache.Stats()
		result.FetchHits = stats.Hits
		result.FetchMisses = stats.Misses
	}

	return result
}

// execute steps e until it jumps to itself.
func (h *Harness) execute(e *emu.Emulator, fetchCache *cache.Cache, result *BenchmarkResult) error {
	regs := e.RegFile()
	for {
		pc := regs.PC
		if fetchCache != nil {
			fetchCache.ObserveFetch(pc)
		}

		step := e.Step()
		if step.Err != nil {
			if errors.Is(step.Err, emu.ErrMaxInstructions) {
				return errNoHalt
			}
			return step.Err
		}
		if step.WaitingForKey {
			return fmt.Errorf("program waits for a key at 0x%03X", pc)
		}

		result.Instructions++
		switch step.Op {
		case insts.OpDRW:
			result.Draws++
		case insts.OpCALL:
			result.Calls++
		case insts.OpJP:
			if regs.PC == pc {
				result.Halted = true
				return nil
			}
		}
	}
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== chip8sim Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Halted:       %v\n", r.Halted)
		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error:        %s\n", r.Error)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions: %d\n", r.Instructions)
		_, _ = fmt.Fprintf(h.config.Output, "  Draws:        %d\n", r.Draws)
		_, _ = fmt.Fprintf(h.config.Output, "  Calls:        %d\n", r.Calls)

		if r.FetchHits > 0 || r.FetchMisses > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- Fetch Cache ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Hits:   %d\n", r.FetchHits)
			_, _ = fmt.Fprintf(h.config.Output, "  Misses: %d\n", r.FetchMisses)
		}

		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v (%.0f inst/s)\n", r.WallTime, r.InstructionsPerSecond())
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,instructions,draws,calls,halted,fetch_hits,fetch_misses,wall_time_ns,error")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%v,%d,%d,%d,%q\n",
			r.Name,
			r.Instructions,
			r.Draws,
			r.Calls,
			r.Halted,
			r.FetchHits,
			r.FetchMisses,
			r.WallTime.Nanoseconds(),
			r.Error,
		)
	}
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// FetchCacheEnabled reports whether the fetch cache was simulated
	FetchCacheEnabled bool `json:"fetch_cache_enabled"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	// TotalBenchmarks is the number of benchmarks run
	TotalBenchmarks int `json:"total_benchmarks"`

	// Failed is the number of benchmarks with an error
	Failed int `json:"failed"`

	// TotalInstructions is the sum of all executed instructions
	TotalInstructions uint64 `json:"total_instructions"`

	// TotalWallTime is the total wall clock time for all benchmarks
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	summary := ReportSummary{TotalBenchmarks: len(results)}
	for _, r := range results {
		summary.TotalInstructions += r.Instructions
		summary.TotalWallTime += r.WallTime
		if r.Error != "" {
			summary.Failed++
		}
	}

	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp:         time.Now().UTC().Format(time.RFC3339),
			FetchCacheEnabled: h.config.EnableFetchCache,
		},
		Results: results,
		Summary: summary,
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode benchmark report: %w", err)
	}
	return nil
}
