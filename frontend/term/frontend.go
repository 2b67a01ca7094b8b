package term

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/retroenv/retrogolib/log"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/chip8sim/timing/core"
	"github.com/sarchlab/chip8sim/timing/pacing"
)

// Input bytes that end a session. Raw mode delivers Ctrl-C as a byte
// instead of a signal.
const (
	keyEscape = 0x1b
	keyCtrlC  = 0x03
)

// errQuit ends a session at the user's request.
var errQuit = errors.New("quit")

// Frontend connects a core to a terminal: input bytes become key presses,
// frames are paced in real time and changed frames are rendered.
type Frontend struct {
	core     *core.Core
	config   *pacing.Config
	keymap   Keymap
	latch    *KeyLatch
	renderer *Renderer
	logger   *log.Logger

	maxFrames uint64
}

// FrontendOption is a functional option for configuring the Frontend.
type FrontendOption func(*Frontend)

// WithKeymap replaces the default keymap.
func WithKeymap(keymap Keymap) FrontendOption {
	return func(f *Frontend) {
		f.keymap = keymap
	}
}

// WithMaxFrames ends the session after n frames. 0 means no limit.
func WithMaxFrames(n uint64) FrontendOption {
	return func(f *Frontend) {
		f.maxFrames = n
	}
}

// WithLogger sets the logger for session events.
func WithLogger(logger *log.Logger) FrontendOption {
	return func(f *Frontend) {
		f.logger = logger
	}
}

// NewFrontend creates a Frontend rendering c to out.
func NewFrontend(c *core.Core, config *pacing.Config, out io.Writer, opts ...FrontendOption) *Frontend {
	f := &Frontend{
		core:     c,
		config:   config,
		keymap:   DefaultKeymap(),
		latch:    NewKeyLatch(config.KeyHold()),
		renderer: NewRenderer(out),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Run runs the session until ctx is cancelled, the user presses Escape or
// Ctrl-C, the frame limit is reached or the program fails. Reads from in
// are not interruptible, so the reading goroutine outlives Run if in never
// returns.
func (f *Frontend) Run(ctx context.Context, in io.Reader) error {
	keys := make(chan byte, 64)
	go readInput(in, keys)

	frames := make(chan []uint8, 1)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(frames)
		return f.frameLoop(ctx, keys, frames)
	})
	g.Go(func() error {
		return f.renderLoop(frames)
	})

	err := g.Wait()
	if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func readInput(in io.Reader, keys chan<- byte) {
	defer close(keys)

	buf := make([]byte, 16)
	for {
		n, err := in.Read(buf)
		for _, b := range buf[:n] {
			keys <- b
		}
		if err != nil {
			return
		}
	}
}

func (f *Frontend) frameLoop(ctx context.Context, keys <-chan byte, frames chan<- []uint8) error {
	ticker := time.NewTicker(f.config.FrameInterval())
	defer ticker.Stop()

	var frame uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		now := time.Now()
		var err error
		keys, err = f.pollKeys(keys, now)
		if err != nil {
			return err
		}
		f.latch.Apply(f.core.Emulator().Keypad(), now)

		result := f.core.RunFrame()
		if result.Err != nil {
			return result.Err
		}

		if result.Redraw {
			display := f.core.Emulator().Display()
			select {
			case frames <- display.Pixels():
				display.ClearDirty()
			default:
				// renderer busy; the frame stays dirty and is sent later
			}
		}

		frame++
		if f.maxFrames > 0 && frame >= f.maxFrames {
			return errQuit
		}
	}
}

// pollKeys drains pending input. It returns a nil channel once input is
// closed so later polls skip it.
func (f *Frontend) pollKeys(keys <-chan byte, now time.Time) (<-chan byte, error) {
	for {
		select {
		case b, ok := <-keys:
			if !ok {
				return nil, nil
			}
			if b == keyEscape || b == keyCtrlC {
				return keys, errQuit
			}
			if key, ok := f.keymap.Lookup(b); ok {
				f.latch.Press(key, now)
			} else if f.logger != nil {
				f.logger.Debug("Unmapped key", log.Hex("byte", b))
			}
		default:
			return keys, nil
		}
	}
}

func (f *Frontend) renderLoop(frames <-chan []uint8) error {
	if err := f.renderer.Begin(); err != nil {
		return err
	}
	for pixels := range frames {
		if err := f.renderer.Draw(pixels); err != nil {
			return err
		}
	}
	return f.renderer.End()
}
