// Package emu provides functional CHIP-8 emulation.
package emu

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"

	"github.com/sarchlab/chip8sim/insts"
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Op is the operation that was executed, or OpLDVxK while the machine
	// is suspended waiting for a key.
	Op insts.Op

	// WaitingForKey is true if the machine is suspended on Fx0A after this
	// step. No forward progress is made until a key is pressed.
	WaitingForKey bool

	// WriteAddr and WriteSize describe the memory the instruction wrote
	// (Fx33, Fx55). WriteSize is 0 if nothing was written.
	WriteAddr uint16
	WriteSize int

	// Err is set if the instruction could not be executed. It wraps an
	// *ExecError.
	Err error
}

// State is a snapshot of the machine's registers, stack and timers.
type State struct {
	V             [NumRegisters]uint8
	I             uint16
	PC            uint16
	Stack         []uint16
	Delay         uint8
	Sound         uint8
	WaitingForKey bool
	Instructions  uint64
}

// Emulator executes CHIP-8 instructions functionally. It performs no I/O,
// threading or timing of its own: the host calls Step to execute
// instructions and TickTimers at the timer rate.
//
// An Emulator is not safe for concurrent use.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	stack   *Stack
	display *Display
	keypad  *Keypad
	timers  *Timers
	decoder *insts.Decoder

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	rng    RandomSource
	logger *log.Logger
	strict bool

	// Fx0A suspension
	waiting bool
	waitReg uint8

	// inst is reused by every Step to avoid allocating.
	inst insts.Instruction

	// Memory written by the current instruction
	writeAddr uint16
	writeSize int

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithSeed makes RND deterministic by seeding its random source.
func WithSeed(seed uint64) EmulatorOption {
	return func(e *Emulator) {
		e.rng = NewRandomSource(seed)
	}
}

// WithRandomSource sets a custom random source for RND.
func WithRandomSource(src RandomSource) EmulatorOption {
	return func(e *Emulator) {
		e.rng = src
	}
}

// WithStrictDecode makes unknown instructions fail with
// ErrUnknownInstruction instead of executing as no-ops.
func WithStrictDecode() EmulatorOption {
	return func(e *Emulator) {
		e.strict = true
	}
}

// WithTraceLogger logs every executed instruction at debug level.
func WithTraceLogger(logger *log.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new CHIP-8 emulator in its power-on state.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		memory:  NewMemory(),
		stack:   &Stack{},
		display: &Display{},
		keypad:  &Keypad{},
		timers:  &Timers{},
		decoder: insts.NewDecoder(),
	}

	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile, e.stack)

	for _, opt := range opts {
		opt(e)
	}

	if e.rng == nil {
		e.rng = NewRandomSource(timeSeed())
	}

	e.Reset()
	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// Stack returns the emulator's call stack.
func (e *Emulator) Stack() *Stack {
	return e.stack
}

// Display returns the emulator's frame buffer.
func (e *Emulator) Display() *Display {
	return e.display
}

// Keypad returns the emulator's keypad, to be updated by the input layer.
func (e *Emulator) Keypad() *Keypad {
	return e.keypad
}

// Timers returns the emulator's delay and sound timers.
func (e *Emulator) Timers() *Timers {
	return e.timers
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// WaitingForKey reports whether the machine is suspended on Fx0A.
func (e *Emulator) WaitingForKey() bool {
	return e.waiting
}

// State returns a snapshot of the machine state.
func (e *Emulator) State() State {
	return State{
		V:             e.regFile.V,
		I:             e.regFile.I,
		PC:            e.regFile.PC,
		Stack:         e.stack.Entries(),
		Delay:         e.timers.Delay,
		Sound:         e.timers.Sound,
		WaitingForKey: e.waiting,
		Instructions:  e.instructionCount,
	}
}

// Reset returns the emulator to its power-on state: registers, stack,
// timers and keypad cleared, memory zeroed with the font loaded, PC at
// ProgramStart and the display cleared with its dirty flag raised.
// Components are reset in place, so handles returned by Memory, Keypad and
// the other accessors stay valid. Options given to NewEmulator are kept.
func (e *Emulator) Reset() {
	*e.regFile = RegFile{PC: ProgramStart}
	e.memory.Reset()
	e.stack.Reset()
	e.keypad.ReleaseAll()
	*e.timers = Timers{}
	e.waiting = false
	e.waitReg = 0
	e.instructionCount = 0

	e.display.Clear()
}

// LoadProgram copies program into memory at ProgramStart, clears the display
// and raises the dirty flag. Programs larger than MaxProgramSize are
// rejected with ErrProgramTooLarge and nothing is modified.
func (e *Emulator) LoadProgram(program []byte) error {
	if err := e.memory.LoadProgram(program); err != nil {
		return fmt.Errorf("failed to load program: %w", err)
	}
	e.display.Clear()
	return nil
}

// TickTimers decrements the delay and sound timers. The host calls it at
// the timer rate (60 Hz), independently of Step.
func (e *Emulator) TickTimers() {
	e.timers.Tick()
}

// Step executes a single instruction.
func (e *Emulator) Step() StepResult {
	// Check instruction limit before executing
	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{
			Err: &ExecError{PC: e.regFile.PC, Err: ErrMaxInstructions},
		}
	}

	if e.waiting {
		return e.resumeWait()
	}

	// 1. Fetch: read 2 bytes at PC
	pc := e.regFile.PC
	word, err := e.memory.Read16(pc)
	if err != nil {
		return StepResult{Err: &ExecError{PC: pc, Err: err}}
	}

	// 2. Advance PC before executing so branches can overwrite it
	e.regFile.PC += InstructionSize

	// 3. Decode
	e.decoder.DecodeInto(word, &e.inst)

	if e.logger != nil {
		e.trace(pc)
	}

	// 4. Execute
	e.writeSize = 0
	if err := e.execute(&e.inst); err != nil {
		e.regFile.PC = pc
		return StepResult{
			Op:  e.inst.Op,
			Err: &ExecError{PC: pc, Word: word, Err: err},
		}
	}

	e.instructionCount++

	return StepResult{
		Op:            e.inst.Op,
		WaitingForKey: e.waiting,
		WriteAddr:     e.writeAddr,
		WriteSize:     e.writeSize,
	}
}

// Run executes up to n instructions. It returns early with the first
// error, or with a nil error if the machine suspends waiting for a key.
// It returns the number of instructions executed.
func (e *Emulator) Run(n uint64) (uint64, error) {
	var executed uint64
	for executed < n {
		result := e.Step()
		if result.Err != nil {
			return executed, result.Err
		}
		executed++
		if result.WaitingForKey {
			return executed, nil
		}
	}
	return executed, nil
}

// resumeWait completes a pending Fx0A once a key is available.
func (e *Emulator) resumeWait() StepResult {
	key, ok := e.keypad.LastPressed()
	if !ok {
		return StepResult{Op: insts.OpLDVxK, WaitingForKey: true}
	}

	e.regFile.WriteReg(e.waitReg, key)
	e.waiting = false
	return StepResult{Op: insts.OpLDVxK}
}

// execute dispatches and executes a decoded instruction.
func (e *Emulator) execute(inst *insts.Instruction) error {
	regs := e.regFile

	switch inst.Op {
	case insts.OpUnknown:
		if e.strict {
			return ErrUnknownInstruction
		}
	case insts.OpSYS:
		// Machine code routines of the original interpreter are ignored.
	case insts.OpCLS:
		e.display.Clear()
	case insts.OpRET:
		return e.branchUnit.RET()
	case insts.OpJP:
		e.branchUnit.JP(inst.NNN)
	case insts.OpCALL:
		return e.branchUnit.CALL(inst.NNN)
	case insts.OpSEImm:
		e.branchUnit.SkipIf(regs.ReadReg(inst.X) == inst.KK)
	case insts.OpSNEImm:
		e.branchUnit.SkipIf(regs.ReadReg(inst.X) != inst.KK)
	case insts.OpSEReg:
		e.branchUnit.SkipIf(regs.ReadReg(inst.X) == regs.ReadReg(inst.Y))
	case insts.OpSNEReg:
		e.branchUnit.SkipIf(regs.ReadReg(inst.X) != regs.ReadReg(inst.Y))
	case insts.OpLDImm:
		e.alu.LDImm(inst.X, inst.KK)
	case insts.OpADDImm:
		e.alu.ADDImm(inst.X, inst.KK)
	case insts.OpLDReg:
		e.alu.LD(inst.X, inst.Y)
	case insts.OpOR:
		e.alu.OR(inst.X, inst.Y)
	case insts.OpAND:
		e.alu.AND(inst.X, inst.Y)
	case insts.OpXOR:
		e.alu.XOR(inst.X, inst.Y)
	case insts.OpADDReg:
		e.alu.ADD(inst.X, inst.Y)
	case insts.OpSUB:
		e.alu.SUB(inst.X, inst.Y)
	case insts.OpSHR:
		e.alu.SHR(inst.X)
	case insts.OpSUBN:
		e.alu.SUBN(inst.X, inst.Y)
	case insts.OpSHL:
		e.alu.SHL(inst.X)
	case insts.OpLDI:
		e.lsu.LDI(inst.NNN)
	case insts.OpJPV0:
		e.branchUnit.JPV0(inst.NNN)
	case insts.OpRND:
		e.alu.RND(inst.X, inst.KK, e.rng)
	case insts.OpDRW:
		return e.executeDraw(inst)
	case insts.OpSKP:
		e.branchUnit.SkipIf(e.keypad.IsPressed(regs.ReadReg(inst.X)))
	case insts.OpSKNP:
		e.branchUnit.SkipIf(!e.keypad.IsPressed(regs.ReadReg(inst.X)))
	case insts.OpLDVxDT:
		regs.WriteReg(inst.X, e.timers.Delay)
	case insts.OpLDVxK:
		e.executeWaitForKey(inst.X)
	case insts.OpLDDTVx:
		e.timers.Delay = regs.ReadReg(inst.X)
	case insts.OpLDSTVx:
		e.timers.Sound = regs.ReadReg(inst.X)
	case insts.OpADDI:
		e.lsu.ADDI(inst.X)
	case insts.OpLDF:
		e.lsu.LDF(inst.X)
	case insts.OpLDB:
		e.noteWrite(3)
		return e.lsu.LDB(inst.X)
	case insts.OpLDIVx:
		e.noteWrite(int(inst.X) + 1)
		return e.lsu.STM(inst.X)
	case insts.OpLDVxI:
		return e.lsu.LDM(inst.X)
	default:
		return fmt.Errorf("unimplemented op %v", inst.Op)
	}

	return nil
}

// noteWrite records that the current instruction writes n bytes at I.
func (e *Emulator) noteWrite(n int) {
	e.writeAddr = e.regFile.I
	e.writeSize = n
}

// executeDraw executes DRW Vx, Vy, n.
func (e *Emulator) executeDraw(inst *insts.Instruction) error {
	sprite, err := e.lsu.Sprite(inst.N)
	if err != nil {
		return err
	}

	x := e.regFile.ReadReg(inst.X)
	y := e.regFile.ReadReg(inst.Y)
	e.regFile.SetFlag(e.display.DrawSprite(x, y, sprite))
	return nil
}

// executeWaitForKey executes LD Vx, K. A key that is already held completes
// the instruction immediately; otherwise the machine suspends.
func (e *Emulator) executeWaitForKey(x uint8) {
	if key, ok := e.keypad.LastPressed(); ok {
		e.regFile.WriteReg(x, key)
		return
	}
	e.waiting = true
	e.waitReg = x
}

func (e *Emulator) trace(pc uint16) {
	e.logger.Debug("exec",
		log.Hex("pc", pc),
		log.Hex("opcode", e.inst.Word),
		log.String("inst", e.inst.String()),
	)
}
