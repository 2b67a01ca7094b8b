// Package pacing holds the real-time rates a host uses to drive the
// emulator: how many instructions run per second, how often timers tick and
// how often frames are presented.
package pacing

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config holds the pacing parameters for a run.
type Config struct {
	// InstructionsPerSecond is the instruction execution rate.
	// Default: 700, a common speed for the original interpreters.
	InstructionsPerSecond uint64 `json:"instructions_per_second"`

	// TimerHz is the rate at which the delay and sound timers decrement.
	// Default: 60.
	TimerHz uint64 `json:"timer_hz"`

	// FrameHz is the rate at which the host presents frames and polls
	// input. Default: 60.
	FrameHz uint64 `json:"frame_hz"`

	// KeyHoldMS is how long a key stays pressed after a terminal reports
	// it, since terminals do not report key releases. Default: 150.
	KeyHoldMS uint64 `json:"key_hold_ms"`

	// Strict makes unknown instructions fail instead of executing as
	// no-ops. Default: false.
	Strict bool `json:"strict"`
}

// DefaultConfig returns a Config with the default rates.
func DefaultConfig() *Config {
	return &Config{
		InstructionsPerSecond: 700,
		TimerHz:               60,
		FrameHz:               60,
		KeyHoldMS:             150,
	}
}

// LoadConfig loads a Config from a JSON file. Fields missing from the file
// keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pacing config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse pacing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize pacing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write pacing config file: %w", err)
	}

	return nil
}

// Validate checks that all rates are usable.
func (c *Config) Validate() error {
	if c.InstructionsPerSecond == 0 {
		return fmt.Errorf("instructions_per_second must be > 0")
	}
	if c.TimerHz == 0 {
		return fmt.Errorf("timer_hz must be > 0")
	}
	if c.FrameHz == 0 {
		return fmt.Errorf("frame_hz must be > 0")
	}
	if c.TimerHz > c.FrameHz {
		return fmt.Errorf("timer_hz must be <= frame_hz")
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	return &Config{
		InstructionsPerSecond: c.InstructionsPerSecond,
		TimerHz:               c.TimerHz,
		FrameHz:               c.FrameHz,
		KeyHoldMS:             c.KeyHoldMS,
		Strict:                c.Strict,
	}
}

// StepsPerFrame returns the number of instructions due in frame number
// frame (counting from 0). The remainder of InstructionsPerSecond over
// FrameHz is spread across frames so that exactly InstructionsPerSecond
// instructions run every FrameHz frames.
func (c *Config) StepsPerFrame(frame uint64) uint64 {
	return spread(frame, c.InstructionsPerSecond, c.FrameHz)
}

// TimerTicksPerFrame returns the number of timer ticks due in frame number
// frame (counting from 0). When TimerHz does not divide FrameHz the ticks
// are spread so that exactly TimerHz ticks happen every FrameHz frames.
func (c *Config) TimerTicksPerFrame(frame uint64) uint64 {
	return spread(frame, c.TimerHz, c.FrameHz)
}

// spread returns the share of rate events falling in frame when frames
// run at frameHz.
func spread(frame, rate, frameHz uint64) uint64 {
	frame %= frameHz
	before := frame * rate / frameHz
	after := (frame + 1) * rate / frameHz
	return after - before
}

// FrameInterval returns the wall-clock duration of one frame.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameHz)
}

// KeyHold returns the key hold duration.
func (c *Config) KeyHold() time.Duration {
	return time.Duration(c.KeyHoldMS) * time.Millisecond
}
