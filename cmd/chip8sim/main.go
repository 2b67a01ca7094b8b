// Package main provides the entry point for chip8sim, a CHIP-8 virtual
// machine with a terminal front end.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"

	"github.com/sarchlab/chip8sim/emu"
	"github.com/sarchlab/chip8sim/frontend/term"
	"github.com/sarchlab/chip8sim/insts"
	"github.com/sarchlab/chip8sim/loader"
	"github.com/sarchlab/chip8sim/statsview"
	"github.com/sarchlab/chip8sim/timing/core"
	"github.com/sarchlab/chip8sim/timing/pacing"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type options struct {
	romPath    string
	configPath string

	headless bool
	frames   uint64
	dump     bool

	ips    uint64
	seed   uint64
	strict bool

	debug bool
	quiet bool
	trace bool

	memvizPath string
	statsview  bool
}

func main() {
	ctx := app.Context()

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}

	logger := createLogger(opts.debug, opts.quiet)
	printBanner(logger, opts)

	if err := run(ctx, logger, opts); err != nil {
		logError(logger, err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	flags := flag.NewFlagSet("chip8sim", flag.ContinueOnError)
	opts := options{}

	flags.StringVar(&opts.configPath, "config", "", "path to pacing configuration JSON file")
	flags.BoolVar(&opts.headless, "headless", false, "run without a terminal front end")
	flags.Uint64Var(&opts.frames, "frames", 600, "number of frames to run in headless mode")
	flags.BoolVar(&opts.dump, "dump", false, "print the final frame in headless mode")
	flags.Uint64Var(&opts.ips, "ips", 0, "instructions per second, overrides the configuration")
	flags.Uint64Var(&opts.seed, "seed", 0, "random seed for RND, 0 seeds from the clock")
	flags.BoolVar(&opts.strict, "strict", false, "fail on unknown instructions")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.quiet, "q", false, "only log errors")
	flags.BoolVar(&opts.trace, "trace", false, "log every executed instruction, implies -debug")
	flags.StringVar(&opts.memvizPath, "memviz", "", "write a graph of the final machine state to this file")
	flags.BoolVar(&opts.statsview, "statsview", false, "serve live runtime statistics (needs the statsview build tag)")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: chip8sim [options] <program.ch8>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return opts, err
	}
	if flags.NArg() < 1 {
		flags.Usage()
		return opts, errors.New("missing program path")
	}

	opts.romPath = flags.Arg(0)
	if opts.trace {
		opts.debug = true
	}
	return opts, nil
}

func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

func printBanner(logger *log.Logger, opts options) {
	if opts.quiet {
		return
	}
	logger.Info("chip8sim", log.String("version", buildinfo.Version(version, commit, date)))
}

func loadConfig(opts options) (*pacing.Config, error) {
	config := pacing.DefaultConfig()
	if opts.configPath != "" {
		var err error
		config, err = pacing.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
	}

	if opts.ips != 0 {
		config.InstructionsPerSecond = opts.ips
	}
	if opts.strict {
		config.Strict = true
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pacing config: %w", err)
	}
	return config, nil
}

func newEmulator(logger *log.Logger, opts options, config *pacing.Config) *emu.Emulator {
	var emuOpts []emu.EmulatorOption
	if config.Strict {
		emuOpts = append(emuOpts, emu.WithStrictDecode())
	}
	if opts.seed != 0 {
		emuOpts = append(emuOpts, emu.WithSeed(opts.seed))
	}
	if opts.trace {
		emuOpts = append(emuOpts, emu.WithTraceLogger(logger))
	}
	return emu.NewEmulator(emuOpts...)
}

func run(ctx context.Context, logger *log.Logger, opts options) error {
	config, err := loadConfig(opts)
	if err != nil {
		return err
	}

	prog, err := loader.Load(opts.romPath)
	if err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	e := newEmulator(logger, opts, config)
	if err := prog.LoadInto(e); err != nil {
		return err
	}

	logger.Info("Loaded program",
		log.String("name", prog.Name),
		log.Int("size", prog.Size()),
		log.Int("ips", int(config.InstructionsPerSecond)))

	if opts.statsview {
		if statsview.Available() {
			statsview.Launch(os.Stderr)
		} else {
			logger.Warn("Built without the statsview build tag")
		}
	}

	c := core.NewCore(e, config)

	if opts.headless {
		err = runHeadless(c, opts.frames, opts.dump, os.Stdout)
	} else {
		err = runInteractive(ctx, logger, c, config)
	}

	logStats(logger, c.Stats())

	if opts.memvizPath != "" {
		if vizErr := dumpState(opts.memvizPath, e); vizErr != nil {
			logger.Error("Writing machine state graph failed", log.Err(vizErr))
		}
	}

	return err
}

// runHeadless runs frames frames as fast as possible.
func runHeadless(c *core.Core, frames uint64, dump bool, w io.Writer) error {
	err := c.RunFrames(frames)

	if dump {
		pixels := c.Emulator().Display().Pixels()
		if _, werr := io.WriteString(w, term.Frame(pixels)); werr != nil && err == nil {
			err = werr
		}
	}

	return err
}

func runInteractive(ctx context.Context, logger *log.Logger, c *core.Core, config *pacing.Config) error {
	var terminal term.Terminal
	if err := terminal.Initialise(os.Stdin, os.Stdout); err != nil {
		return err
	}
	if err := terminal.RawMode(); err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer func() { _ = terminal.CanonicalMode() }()

	f := term.NewFrontend(c, config, terminal.Output(), term.WithLogger(logger))
	return f.Run(ctx, terminal.Input())
}

func logStats(logger *log.Logger, stats core.Stats) {
	logger.Info("Run finished",
		log.Int("frames", int(stats.Frames)),
		log.Int("instructions", int(stats.Instructions)),
		log.Int("draws", int(stats.Draws)),
		log.Int("wait_steps", int(stats.WaitSteps)))
}

// logError logs err, with the faulting instruction if the program failed.
func logError(logger *log.Logger, err error) {
	var execErr *emu.ExecError
	if !errors.As(err, &execErr) {
		logger.Error("Emulation failed", log.Err(err))
		return
	}

	inst := insts.NewDecoder().Decode(execErr.Word)
	logger.Error("Program fault",
		log.Hex("pc", execErr.PC),
		log.Hex("opcode", execErr.Word),
		log.String("inst", inst.String()),
		log.Err(execErr.Err))
}

// dumpState writes a Graphviz graph of the machine state to path.
func dumpState(path string, e *emu.Emulator) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	state := e.State()
	memviz.Map(f, &state)
	return nil
}
