package emu

// Timers holds the delay and sound countdown timers.
//
// Both count down by one per Tick and stop at zero. Ticking is driven by the
// host at a fixed real-time rate (canonically 60 Hz), independent of how
// many instructions run in between.
type Timers struct {
	// Delay is readable by programs through Fx07.
	Delay uint8

	// Sound is write-only for programs; a tone plays while it is non-zero.
	Sound uint8
}

// Tick decrements both timers, flooring at zero.
func (t *Timers) Tick() {
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
	}
}

// SoundActive reports whether the sound timer is running.
func (t *Timers) SoundActive() bool {
	return t.Sound > 0
}
