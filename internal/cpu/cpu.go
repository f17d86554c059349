package cpu

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// ReadWriter is the memory the CPU executes from.
// Addresses are physical; every access may fail.
type ReadWriter interface {
	Read8(addr uint32) (uint8, error)
	Read16(addr uint32) (uint16, error)
	Write8(addr uint32, data uint8) error
	Write16(addr uint32, data uint16) error
}

var (
	ErrUnimplementedOpcode    = errors.New("unimplemented opcode")
	ErrInvalidOperandEncoding = errors.New("invalid operand encoding")
	ErrOperandCount           = errors.New("unsupported operand byte count")
)

// StopReason tells why Run returned.
type StopReason uint8

const (
	StepLimitReached StopReason = iota
	Halted
)

func (s StopReason) String() string {
	switch s {
	case StepLimitReached:
		return "step limit reached"
	case Halted:
		return "halted"
	}
	return "???"
}

const (
	// maxOperands is the largest operand byte count the engine fetches
	maxOperands = 4

	stateHalted = uint8(1 << 0)
)

// opFunc executes one instruction. operands holds the bytes following the
// opcode, as many as the table entry declares.
type opFunc func(c *CPU, operands []uint8) error

type instr struct {
	name     string
	operands uint8
	fn       opFunc // nil: unimplemented
}

type CPU struct {
	regs  Registers
	bus   ReadWriter
	state uint8  // stateHalted
	steps uint64 // instructions completed
	log   logrus.FieldLogger
}

func NewCPU(bus ReadWriter, log logrus.FieldLogger) *CPU {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &CPU{
		bus: bus,
		log: log,
	}
}

// Registers gives direct access to the register file, e.g. to set CS:IP
// before the first Run.
func (c *CPU) Registers() *Registers {
	return &c.regs
}

func (c *CPU) Halted() bool {
	return c.state&stateHalted != 0
}

func (c *CPU) halt() {
	c.state |= stateHalted
}

// Steps returns the number of instructions completed since the last Reset.
func (c *CPU) Steps() uint64 {
	return c.steps
}

// Reset clears every register and leaves the Halted state.
func (c *CPU) Reset() {
	c.regs = Registers{}
	c.state = 0
	c.steps = 0
}

// Run executes up to maxSteps instructions. It stops early and reports
// Halted once the machine halts; a halted machine performs no steps.
// An execution error halts the machine and is returned with Halted.
func (c *CPU) Run(maxSteps int) (StopReason, error) {
	for step := 0; step < maxSteps; step++ {
		if c.Halted() {
			return Halted, nil
		}
		if err := c.Step(); err != nil {
			return Halted, err
		}
	}
	if c.Halted() {
		return Halted, nil
	}
	return StepLimitReached, nil
}

// Step runs a single fetch-decode-execute cycle.
func (c *CPU) Step() error {
	if c.Halted() {
		return nil
	}

	cs, ip := c.regs.Seg(CS), c.regs.IP()
	opcode, err := c.bus.Read8(c.regs.IP32())
	if err != nil {
		return c.fail(cs, ip, fmt.Errorf("fetch opcode: %w", err))
	}

	in := instrs[opcode]
	fields := logrus.Fields{
		"cs":     fmt.Sprintf("%04X", cs),
		"ip":     fmt.Sprintf("%04X", ip),
		"opcode": fmt.Sprintf("%02X", opcode),
	}
	if in.fn == nil {
		c.halt()
		c.log.WithFields(fields).WithField("name", in.name).Warn("unimplemented opcode, halting")
		return fmt.Errorf("%w %02X (%s) at %04X:%04X", ErrUnimplementedOpcode, opcode, in.name, cs, ip)
	}
	if in.operands > maxOperands {
		return c.fail(cs, ip, fmt.Errorf("%w: %s declares %d", ErrOperandCount, in.name, in.operands))
	}
	c.log.WithFields(fields).Debug(in.name)

	var buf [maxOperands]uint8
	operands := buf[:in.operands]
	for i := range operands {
		operands[i], err = c.bus.Read8(Linear(cs, ip+1+uint16(i)))
		if err != nil {
			return c.fail(cs, ip, fmt.Errorf("fetch operand %d of %s: %w", i, in.name, err))
		}
	}

	if err := in.fn(c, operands); err != nil {
		// leave IP on the faulting instruction, undoing displacement fetches
		c.regs.SetIP(ip)
		return c.fail(cs, ip, fmt.Errorf("%s: %w", in.name, err))
	}

	c.regs.SetIP(c.regs.IP() + uint16(max(in.operands, 1)))
	c.steps++
	return nil
}

// fail halts the machine because of an execution error.
func (c *CPU) fail(cs, ip uint16, err error) error {
	c.halt()
	err = fmt.Errorf("at %04X:%04X: %w", cs, ip, err)
	c.log.WithError(err).Error("execution error, halting")
	return err
}
