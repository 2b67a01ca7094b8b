package emu

// NumKeys is the number of keys on the hexadecimal keypad.
const NumKeys = 16

// Keypad holds the state of the 16-key hexadecimal keypad. It is written by
// the host input layer and read by the skip-if-key and wait-for-key
// instructions.
type Keypad struct {
	pressed [NumKeys]bool

	last    uint8
	hasLast bool
}

// Press marks key as held and makes it the most recently pressed key.
// Keys outside 0x0-0xF are ignored.
func (k *Keypad) Press(key uint8) {
	if key >= NumKeys {
		return
	}
	k.pressed[key] = true
	k.last = key
	k.hasLast = true
}

// Release marks key as no longer held. If it was the most recently pressed
// key, another held key (if any) takes its place.
func (k *Keypad) Release(key uint8) {
	if key >= NumKeys {
		return
	}
	k.pressed[key] = false

	if !k.hasLast || k.last != key {
		return
	}

	k.hasLast = false
	for i := uint8(0); i < NumKeys; i++ {
		if k.pressed[i] {
			k.last = i
			k.hasLast = true
			return
		}
	}
}

// ReleaseAll releases every key.
func (k *Keypad) ReleaseAll() {
	*k = Keypad{}
}

// IsPressed reports whether key is held. Only the low nibble is used,
// matching how Ex9E/ExA1 address the keypad through a register.
func (k *Keypad) IsPressed(key uint8) bool {
	return k.pressed[key&0xF]
}

// LastPressed returns the most recently pressed key that is still held.
func (k *Keypad) LastPressed() (uint8, bool) {
	return k.last, k.hasLast
}

// State returns a copy of the key vector.
func (k *Keypad) State() [NumKeys]bool {
	return k.pressed
}
