package emu

// Display geometry in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Display is the 64x32 monochrome frame buffer. Pixels are stored row-major
// with the value 1 for foreground and 0 for background.
//
// The dirty flag is raised whenever the buffer changes and is lowered by the
// renderer with ClearDirty once the frame has been presented.
type Display struct {
	pixels [DisplayWidth * DisplayHeight]uint8
	dirty  bool
}

// Clear turns every pixel off and raises the dirty flag.
func (d *Display) Clear() {
	d.pixels = [DisplayWidth * DisplayHeight]uint8{}
	d.dirty = true
}

// Pixel returns the pixel at (x, y). Coordinates wrap around both axes.
func (d *Display) Pixel(x, y int) uint8 {
	return d.pixels[index(x, y)]
}

// Pixels returns a copy of the frame buffer in row-major order.
func (d *Display) Pixels() []uint8 {
	out := make([]uint8, len(d.pixels))
	copy(out, d.pixels[:])
	return out
}

// Dirty reports whether the buffer changed since the last ClearDirty.
func (d *Display) Dirty() bool {
	return d.dirty
}

// ClearDirty lowers the dirty flag.
func (d *Display) ClearDirty() {
	d.dirty = false
}

// DrawSprite XORs an 8 pixel wide sprite onto the buffer with its top-left
// corner at (x, y). Each byte of sprite is one row, most significant bit
// first. Pixels that fall off an edge wrap around to the opposite edge.
//
// It returns true if any pixel was turned off, and always raises the dirty
// flag.
func (d *Display) DrawSprite(x, y uint8, sprite []byte) bool {
	collision := false

	for row, bits := range sprite {
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}

			i := index(int(x)+col, int(y)+row)
			if d.pixels[i] == 1 {
				collision = true
			}
			d.pixels[i] ^= 1
		}
	}

	d.dirty = true
	return collision
}

func index(x, y int) int {
	x %= DisplayWidth
	if x < 0 {
		x += DisplayWidth
	}
	y %= DisplayHeight
	if y < 0 {
		y += DisplayHeight
	}
	return y*DisplayWidth + x
}
