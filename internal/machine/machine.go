package machine

import (
	"fmt"
	"io"

	"github.com/nevisdale/rmcore/internal/cpu"
	"github.com/nevisdale/rmcore/internal/memory"
	"github.com/sirupsen/logrus"
)

// Machine wires a CPU to its memory and adds the run controls used by the
// debugger: pause, single step and a register snapshot.
type Machine struct {
	cpu *cpu.CPU
	mem *memory.Memory
	log logrus.FieldLogger

	memSize  int
	paused   bool
	stepOnce bool
	lastErr  error

	ticCounter uint64
}

type Opt func(*Machine)

// WithMemorySize sets the memory size in bytes.
// Default is memory.ConventionalSize.
func WithMemorySize(size int) Opt {
	return func(m *Machine) {
		m.memSize = size
	}
}

func WithLogger(log logrus.FieldLogger) Opt {
	return func(m *Machine) {
		m.log = log
	}
}

func New(opts ...Opt) *Machine {
	m := &Machine{
		memSize: memory.ConventionalSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		m.log = l
	}

	m.mem = memory.New(m.memSize)
	m.cpu = cpu.NewCPU(m.mem, m.log.WithField("component", "cpu"))
	return m
}

func (m *Machine) CPU() *cpu.CPU {
	return m.cpu
}

func (m *Machine) Memory() *memory.Memory {
	return m.mem
}

// Load copies code to cs:ip and points the CPU at it.
func (m *Machine) Load(cs, ip uint16, code []uint8) error {
	addr := cpu.Linear(cs, ip)
	if err := m.mem.Load(addr, code); err != nil {
		return fmt.Errorf("couldn't load %d bytes at %04X:%04X: %w", len(code), cs, ip, err)
	}
	regs := m.cpu.Registers()
	regs.SetSeg(cpu.CS, cs)
	regs.SetIP(ip)

	m.log.WithFields(logrus.Fields{
		"cs":   fmt.Sprintf("%04X", cs),
		"ip":   fmt.Sprintf("%04X", ip),
		"size": len(code),
	}).Info("program loaded")
	return nil
}

// Run executes up to maxSteps instructions, see cpu.CPU.Run.
func (m *Machine) Run(maxSteps int) (cpu.StopReason, error) {
	reason, err := m.cpu.Run(maxSteps)
	if err != nil {
		m.lastErr = err
	}
	m.log.WithFields(logrus.Fields{
		"reason": reason,
		"steps":  m.cpu.Steps(),
	}).Debug("run finished")
	return reason, err
}

// Reset clears the CPU state and the run controls. Memory is kept.
func (m *Machine) Reset() {
	m.cpu.Reset()
	m.paused = false
	m.stepOnce = false
	m.lastErr = nil
	m.ticCounter = 0
}

// Tic executes one instruction unless the machine is paused or halted.
func (m *Machine) Tic() error {
	if m.paused && !m.stepOnce {
		return nil
	}
	if m.stepOnce {
		m.stepOnce = false
		m.paused = true
	}
	if m.cpu.Halted() {
		return nil
	}

	err := m.cpu.Step()
	if err != nil {
		m.lastErr = err
	}
	m.ticCounter++
	return err
}

func (m *Machine) TogglePause() {
	m.paused = !m.paused
}

// OneStepAndStop lets the next Tic execute one instruction and then pauses.
func (m *Machine) OneStepAndStop() {
	m.stepOnce = true
}

func (m *Machine) Paused() bool {
	return m.paused
}

// Disassemble decodes n instructions starting at the current CS:IP.
func (m *Machine) Disassemble(n int) ([]cpu.Line, error) {
	regs := m.cpu.Registers()
	return cpu.Disassemble(m.mem, regs.Seg(cpu.CS), regs.IP(), n)
}

type DebugInfo struct {
	AX, BX, CX, DX uint16
	SP, BP, SI, DI uint16
	ES, CS, SS, DS uint16
	IP             uint16
	IP32           uint32
	Flags          uint16
	FlagsString    string

	Halted bool
	Paused bool
	Steps  uint64
	Tics   uint64
	Err    error
}

func (d DebugInfo) StatusString() string {
	switch {
	case d.Err != nil:
		return "ERROR"
	case d.Halted:
		return "HALTED"
	case d.Paused:
		return "PAUSED"
	}
	return "RUNNING"
}

func (m *Machine) DebugInfo() DebugInfo {
	r := m.cpu.Registers()
	return DebugInfo{
		AX:          r.Get16(cpu.AX),
		BX:          r.Get16(cpu.BX),
		CX:          r.Get16(cpu.CX),
		DX:          r.Get16(cpu.DX),
		SP:          r.Get16(cpu.SP),
		BP:          r.Get16(cpu.BP),
		SI:          r.Get16(cpu.SI),
		DI:          r.Get16(cpu.DI),
		ES:          r.Seg(cpu.ES),
		CS:          r.Seg(cpu.CS),
		SS:          r.Seg(cpu.SS),
		DS:          r.Seg(cpu.DS),
		IP:          r.IP(),
		IP32:        r.IP32(),
		Flags:       r.Flags(),
		FlagsString: r.FlagsString(),
		Halted:      m.cpu.Halted(),
		Paused:      m.paused,
		Steps:       m.cpu.Steps(),
		Tics:        m.ticCounter,
		Err:         m.lastErr,
	}
}

// String renders the snapshot as a register dump.
func (d DebugInfo) String() string {
	return fmt.Sprintf(
		"AX=%04X BX=%04X CX=%04X DX=%04X SP=%04X BP=%04X SI=%04X DI=%04X\n"+
			"ES=%04X CS=%04X SS=%04X DS=%04X IP=%04X (%05X) FLAGS=%04X [%s]\n"+
			"STATUS=%s STEPS=%d",
		d.AX, d.BX, d.CX, d.DX, d.SP, d.BP, d.SI, d.DI,
		d.ES, d.CS, d.SS, d.DS, d.IP, d.IP32, d.Flags, d.FlagsString,
		d.StatusString(), d.Steps,
	)
}
