package term

import (
	"io"
	"strings"

	"github.com/sarchlab/chip8sim/emu"
)

// ANSI control sequences.
const (
	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// Renderer draws frames to a terminal. Two pixel rows share one text row,
// so the 64x32 display needs 64 columns and 16 rows.
type Renderer struct {
	out io.Writer
	sb  strings.Builder
}

// NewRenderer creates a Renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Begin clears the screen and hides the cursor.
func (r *Renderer) Begin() error {
	_, err := io.WriteString(r.out, clearScreen+hideCursor)
	return err
}

// End shows the cursor again.
func (r *Renderer) End() error {
	_, err := io.WriteString(r.out, showCursor+"\r\n")
	return err
}

// Draw writes a frame of row-major pixels, as returned by
// emu.Display.Pixels, at the top-left of the screen.
func (r *Renderer) Draw(pixels []uint8) error {
	r.sb.Reset()
	r.sb.WriteString(cursorHome)
	writeFrame(&r.sb, pixels)
	_, err := io.WriteString(r.out, r.sb.String())
	return err
}

// Frame returns the half-block text for a frame without control sequences.
func Frame(pixels []uint8) string {
	var sb strings.Builder
	writeFrame(&sb, pixels)
	return sb.String()
}

func writeFrame(sb *strings.Builder, pixels []uint8) {
	pixel := func(x, y int) bool {
		i := y*emu.DisplayWidth + x
		return i < len(pixels) && pixels[i] != 0
	}

	for y := 0; y < emu.DisplayHeight; y += 2 {
		for x := 0; x < emu.DisplayWidth; x++ {
			top, bottom := pixel(x, y), pixel(x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteByte(' ')
			}
		}
		// raw mode does not translate newlines
		sb.WriteString("\r\n")
	}
}
