package term

import (
	"fmt"
	"os"
	"syscall"

	"github.com/pkg/term/termios"
)

// Terminal switches a posix terminal between canonical and raw mode using
// termios.
type Terminal struct {
	input  *os.File
	output *os.File

	canAttr syscall.Termios
	rawAttr syscall.Termios
}

// Initialise records the terminal's current attributes so they can be
// restored by CanonicalMode.
func (t *Terminal) Initialise(inputFile, outputFile *os.File) error {
	if inputFile == nil {
		return fmt.Errorf("terminal requires an input file")
	}
	if outputFile == nil {
		return fmt.Errorf("terminal requires an output file")
	}

	t.input = inputFile
	t.output = outputFile

	if err := termios.Tcgetattr(t.input.Fd(), &t.canAttr); err != nil {
		return fmt.Errorf("failed to read terminal attributes: %w", err)
	}
	t.rawAttr = t.canAttr
	termios.Cfmakeraw(&t.rawAttr)

	return nil
}

// Output returns the output file.
func (t *Terminal) Output() *os.File {
	return t.output
}

// Input returns the input file.
func (t *Terminal) Input() *os.File {
	return t.input
}

// RawMode puts the terminal into raw mode: no echo, no line buffering and
// no signal keys.
func (t *Terminal) RawMode() error {
	return termios.Tcsetattr(t.input.Fd(), termios.TCIFLUSH, &t.rawAttr)
}

// CanonicalMode restores the attributes recorded by Initialise.
func (t *Terminal) CanonicalMode() error {
	return termios.Tcsetattr(t.input.Fd(), termios.TCIFLUSH, &t.canAttr)
}

// Flush makes sure the terminal's input/output buffers are empty.
func (t *Terminal) Flush() error {
	if err := termios.Tcflush(t.input.Fd(), termios.TCIFLUSH); err != nil {
		return err
	}
	if err := termios.Tcflush(t.output.Fd(), termios.TCOFLUSH); err != nil {
		return err
	}
	return nil
}
