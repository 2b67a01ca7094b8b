package term

import (
	"time"

	"github.com/sarchlab/chip8sim/emu"
)

// KeyLatch turns terminal key presses into held keys. Terminals report a
// byte per press (and per auto-repeat) but never a release, so a key stays
// held until hold has passed without it being reported again.
type KeyLatch struct {
	hold    time.Duration
	expires [emu.NumKeys]time.Time
}

// NewKeyLatch creates a latch that holds keys for hold after each report.
func NewKeyLatch(hold time.Duration) *KeyLatch {
	return &KeyLatch{hold: hold}
}

// Press records a report of key at now.
func (l *KeyLatch) Press(key uint8, now time.Time) {
	if key >= emu.NumKeys {
		return
	}
	l.expires[key] = now.Add(l.hold)
}

// Held reports whether key is held at now.
func (l *KeyLatch) Held(key uint8, now time.Time) bool {
	if key >= emu.NumKeys {
		return false
	}
	return now.Before(l.expires[key])
}

// Apply updates the keypad to the held state at now, pressing newly held
// keys and releasing expired ones.
func (l *KeyLatch) Apply(keypad *emu.Keypad, now time.Time) {
	for key := uint8(0); key < emu.NumKeys; key++ {
		held := l.Held(key, now)
		switch {
		case held && !keypad.IsPressed(key):
			keypad.Press(key)
		case !held && keypad.IsPressed(key):
			keypad.Release(key)
		}
	}
}

// Reset releases every key.
func (l *KeyLatch) Reset() {
	l.expires = [emu.NumKeys]time.Time{}
}
