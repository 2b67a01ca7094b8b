// Package core drives an emulator in real-time frames. Each frame runs the
// instructions due at the configured instruction rate and then the timer
// ticks due at the timer rate.
package core

import (
	"github.com/sarchlab/chip8sim/emu"
	"github.com/sarchlab/chip8sim/insts"
	"github.com/sarchlab/chip8sim/timing/pacing"
)

// Stats holds execution statistics for the core.
type Stats struct {
	// Frames is the number of frames run.
	Frames uint64
	// Instructions is the number of instructions executed.
	Instructions uint64
	// WaitSteps is the number of steps spent suspended on Fx0A.
	WaitSteps uint64
	// TimerTicks is the number of timer ticks applied.
	TimerTicks uint64
	// Draws is the number of DRW instructions executed.
	Draws uint64
	// Branches is the number of jumps, calls and returns executed.
	Branches uint64
	// Skips is the number of conditional skip instructions executed.
	Skips uint64
	// OpCounts counts executed instructions per operation.
	OpCounts map[insts.Op]uint64
}

// FetchObserver is notified of every instruction fetch address.
type FetchObserver interface {
	ObserveFetch(addr uint16)
}

// WriteObserver is notified of every memory write made by a program. A
// FetchObserver that also implements WriteObserver receives both.
type WriteObserver interface {
	ObserveWrite(addr uint16, n int)
}

// FrameResult reports what a frame did.
type FrameResult struct {
	// Redraw is true if the display changed and should be presented.
	Redraw bool
	// Sound is true while the sound timer is running.
	Sound bool
	// WaitingForKey is true if the machine is suspended on Fx0A.
	WaitingForKey bool
	// Err is the execution error that halted the core, if any.
	Err error
}

// Core runs an emulator frame by frame.
type Core struct {
	emulator *emu.Emulator
	config   *pacing.Config
	observer FetchObserver
	writes   WriteObserver

	stats  Stats
	halted bool
	err    error
}

// CoreOption is a functional option for configuring the Core.
type CoreOption func(*Core)

// WithFetchObserver reports every fetch address to observer, and every
// program memory write if observer is also a WriteObserver.
func WithFetchObserver(observer FetchObserver) CoreOption {
	return func(c *Core) {
		c.observer = observer
		if w, ok := observer.(WriteObserver); ok {
			c.writes = w
		}
	}
}

// NewCore creates a new Core driving e at the rates in config.
func NewCore(e *emu.Emulator, config *pacing.Config, opts ...CoreOption) *Core {
	c := &Core{
		emulator: e,
		config:   config,
		stats:    Stats{OpCounts: make(map[insts.Op]uint64)},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Emulator returns the driven emulator.
func (c *Core) Emulator() *emu.Emulator {
	return c.emulator
}

// RunFrame executes one frame. Execution stops at the first error, after
// which the core is halted and further frames do nothing. A machine waiting
// for a key ends the frame's instruction loop early; timers still tick.
func (c *Core) RunFrame() FrameResult {
	if c.halted {
		return FrameResult{Err: c.err}
	}

	steps := c.config.StepsPerFrame(c.stats.Frames)
	for i := uint64(0); i < steps; i++ {
		if c.observer != nil && !c.emulator.WaitingForKey() {
			c.observer.ObserveFetch(c.emulator.RegFile().PC)
		}

		result := c.emulator.Step()
		if result.Err != nil {
			c.halted = true
			c.err = result.Err
			break
		}

		if result.WaitingForKey {
			c.stats.WaitSteps++
			break
		}

		if c.writes != nil && result.WriteSize > 0 {
			c.writes.ObserveWrite(result.WriteAddr, result.WriteSize)
		}

		c.stats.Instructions++
		c.stats.OpCounts[result.Op]++
		switch {
		case result.Op == insts.OpDRW:
			c.stats.Draws++
		case result.Op.IsBranch():
			c.stats.Branches++
		case result.Op.IsSkip():
			c.stats.Skips++
		}
	}

	ticks := c.config.TimerTicksPerFrame(c.stats.Frames)
	for i := uint64(0); i < ticks; i++ {
		c.emulator.TickTimers()
	}
	c.stats.TimerTicks += ticks
	c.stats.Frames++

	display := c.emulator.Display()
	return FrameResult{
		Redraw:        display.Dirty(),
		Sound:         c.emulator.Timers().SoundActive(),
		WaitingForKey: c.emulator.WaitingForKey(),
		Err:           c.err,
	}
}

// RunFrames executes up to n frames and returns the first error.
func (c *Core) RunFrames(n uint64) error {
	for i := uint64(0); i < n; i++ {
		if result := c.RunFrame(); result.Err != nil {
			return result.Err
		}
	}
	return nil
}

// Halted returns true if the core stopped on an error.
func (c *Core) Halted() bool {
	return c.halted
}

// Err returns the error that halted the core.
func (c *Core) Err() error {
	return c.err
}

// Stats returns execution statistics for the core.
func (c *Core) Stats() Stats {
	stats := c.stats
	stats.OpCounts = make(map[insts.Op]uint64, len(c.stats.OpCounts))
	for op, n := range c.stats.OpCounts {
		stats.OpCounts[op] = n
	}
	return stats
}

// Reset clears statistics and the halted state. The emulator is not reset.
func (c *Core) Reset() {
	c.stats = Stats{OpCounts: make(map[insts.Op]uint64)}
	c.halted = false
	c.err = nil
}
