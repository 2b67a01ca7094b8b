// Package main provides a profiling wrapper for chip8sim. It runs a program
// headless under pprof and reports the instruction mix and the fetch
// locality measured by a modeled instruction cache.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"slices"
	"time"

	"github.com/sarchlab/chip8sim/emu"
	"github.com/sarchlab/chip8sim/insts"
	"github.com/sarchlab/chip8sim/loader"
	"github.com/sarchlab/chip8sim/timing/cache"
	"github.com/sarchlab/chip8sim/timing/core"
	"github.com/sarchlab/chip8sim/timing/pacing"
)

var (
	cpuProfile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile  = flag.String("memprofile", "", "write memory profile to file")
	duration    = flag.Duration("duration", 30*time.Second, "max duration to run (for profiling)")
	instruction = flag.Int("max-instr", 1000000, "max instructions to execute (0 = unlimited)")
	frames      = flag.Uint64("frames", 0, "max frames to run (0 = until the instruction limit)")
	cacheSize   = flag.Int("cache-size", 256, "fetch cache size in bytes")
	cacheAssoc  = flag.Int("cache-assoc", 2, "fetch cache associativity")
	cacheBlock  = flag.Int("cache-block", 16, "fetch cache line size in bytes")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <program.ch8>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Start CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded: %s (%d bytes)\n", programPath, prog.Size())

	cacheConfig := cache.Config{
		Size:          *cacheSize,
		Associativity: *cacheAssoc,
		BlockSize:     *cacheBlock,
	}
	if err := cacheConfig.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid cache configuration: %v\n", err)
		os.Exit(1)
	}

	// Set timeout
	go func() {
		time.Sleep(*duration)
		fmt.Printf("\nTimeout reached after %v - stopping execution\n", *duration)
		os.Exit(2)
	}()

	start := time.Now()
	result, err := profile(prog, cacheConfig, uint64(*instruction), *frames)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
	}

	// Write memory profile if requested
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	printReport(os.Stdout, result, elapsed)
}

// profileResult holds what a profiling run measured.
type profileResult struct {
	stats         core.Stats
	cacheStats    cache.Statistics
	cacheLines    int
	waitingForKey bool
}

// profile runs prog until the instruction limit, the frame limit, a wait
// for a key or a program error. Reaching the instruction limit is not an error.
func profile(prog *loader.Program, cacheConfig cache.Config, maxInstr, maxFrames uint64) (profileResult, error) {
	var opts []emu.EmulatorOption
	if maxInstr > 0 {
		opts = append(opts, emu.WithMaxInstructions(maxInstr))
	}

	e := emu.NewEmulator(opts...)
	if err := prog.LoadInto(e); err != nil {
		return profileResult{}, err
	}

	fetchCache := cache.New(cacheConfig, cache.NewMemoryBacking(e.Memory()))
	c := core.NewCore(e, pacing.DefaultConfig(), core.WithFetchObserver(fetchCache))

	var err error
	for frame := uint64(0); maxFrames == 0 || frame < maxFrames; frame++ {
		result := c.RunFrame()
		if result.Err != nil {
			if !errors.Is(result.Err, emu.ErrMaxInstructions) {
				err = result.Err
			}
			break
		}
		if result.WaitingForKey {
			// no input arrives while profiling
			break
		}
	}

	return profileResult{
		stats:         c.Stats(),
		cacheStats:    fetchCache.Stats(),
		cacheLines:    fetchCache.ValidLines(),
		waitingForKey: e.WaitingForKey(),
	}, err
}

func printReport(w io.Writer, r profileResult, elapsed time.Duration) {
	stats := r.stats

	fmt.Fprintf(w, "\nProfiling Results:\n")
	fmt.Fprintf(w, "Frames: %d\n", stats.Frames)
	fmt.Fprintf(w, "Instructions executed: %d\n", stats.Instructions)
	fmt.Fprintf(w, "Branches: %d, skips: %d, draws: %d\n", stats.Branches, stats.Skips, stats.Draws)
	fmt.Fprintf(w, "Key wait steps: %d\n", stats.WaitSteps)
	if r.waitingForKey {
		fmt.Fprintf(w, "Stopped: program is waiting for a key\n")
	}
	fmt.Fprintf(w, "Elapsed time: %v\n", elapsed)
	if stats.Instructions > 0 && elapsed > 0 {
		fmt.Fprintf(w, "Instructions/second: %.0f\n", float64(stats.Instructions)/elapsed.Seconds())
	}

	fmt.Fprintf(w, "\nInstruction Mix:\n")
	ops := make([]insts.Op, 0, len(stats.OpCounts))
	for op := range stats.OpCounts {
		ops = append(ops, op)
	}
	slices.SortFunc(ops, func(a, b insts.Op) int {
		if stats.OpCounts[a] != stats.OpCounts[b] {
			if stats.OpCounts[a] > stats.OpCounts[b] {
				return -1
			}
			return 1
		}
		return int(a) - int(b)
	})
	for _, op := range ops {
		n := stats.OpCounts[op]
		fmt.Fprintf(w, "  %-8s %10d (%5.1f%%)\n", op, n, 100.0*float64(n)/float64(stats.Instructions))
	}

	cs := r.cacheStats
	fmt.Fprintf(w, "\nFetch Cache:\n")
	fmt.Fprintf(w, "  Reads:     %d\n", cs.Reads)
	fmt.Fprintf(w, "  Hits:      %d\n", cs.Hits)
	fmt.Fprintf(w, "  Misses:    %d\n", cs.Misses)
	fmt.Fprintf(w, "  Evictions: %d\n", cs.Evictions)
	fmt.Fprintf(w, "  Hit rate:  %.1f%%\n", 100.0*cs.HitRate())
	fmt.Fprintf(w, "  Lines in use: %d\n", r.cacheLines)
}
