// Package term is a terminal front end for the emulator: it maps keyboard
// bytes onto the hex keypad and renders the display with Unicode half-block
// characters.
package term

// Keymap maps terminal input bytes to keypad keys.
type Keymap map[byte]uint8

// DefaultKeymap returns the conventional layout, with the left-hand 4x4
// block of a QWERTY keyboard standing in for the hex keypad:
//
//	1 2 3 4        1 2 3 C
//	Q W E R   ->   4 5 6 D
//	A S D F        7 8 9 E
//	Z X C V        A 0 B F
func DefaultKeymap() Keymap {
	return Keymap{
		'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
		'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
		'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
		'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
	}
}

// Lookup returns the key for input byte b. Letters match either case.
func (m Keymap) Lookup(b byte) (uint8, bool) {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	key, ok := m[b]
	return key, ok
}
