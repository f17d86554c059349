package cpu

import "fmt"

// modRM is the operand encoding byte that follows most two-operand opcodes.
//
//	7 6 | 5 4 3 | 2 1 0
//	mod |  reg  |  r/m
type modRM uint8

// addressing modes selected by the top two bits of a mode byte
const (
	// Memory, no displacement
	// The r/m field selects a base/index combination, e.g. [BX+SI].
	modMem uint8 = iota

	// Memory with an 8-bit displacement
	// One byte following the mode byte is added to the base/index sum.
	// Example: [BP+DI+0x12]
	modMemDisp8

	// Memory with a 16-bit displacement
	// Two bytes (little-endian) following the mode byte are added.
	// Example: [SI+0x1234]
	modMemDisp16

	// Register direct
	// The r/m field names a register, no memory is touched.
	modReg
)

func (m modRM) mod() uint8 { return uint8(m) >> 6 }
func (m modRM) reg() uint8 { return uint8(m) >> 3 & 0x7 }
func (m modRM) rm() uint8  { return uint8(m) & 0x7 }

// rmBaseNames follows the classical base/index pairing table.
var rmBaseNames = [8]string{"BX+SI", "BX+DI", "BP+SI", "BP+DI", "SI", "DI", "BP", "BX"}

// operand is a resolved operand location: either a register slot (whose
// meaning depends on the width used to access it) or a memory address.
type operand struct {
	mem  bool
	id   uint8  // register id, valid when !mem
	seg  SegReg // segment the effective address is relative to
	ea   uint16 // effective address (offset within seg)
	addr uint32 // physical address
}

func (op operand) String() string {
	if op.mem {
		return fmt.Sprintf("%s:[%04X]", op.seg, op.ea)
	}
	return fmt.Sprintf("reg(%d)", op.id)
}

// baseSum returns the base/index sum selected by a 3-bit r/m field and the
// default segment for it (SS for BP based addressing, DS otherwise).
func (c *CPU) baseSum(rm uint8) (uint16, SegReg) {
	r := &c.regs
	switch rm {
	case 0:
		return r.Get16(BX) + r.Get16(SI), DS
	case 1:
		return r.Get16(BX) + r.Get16(DI), DS
	case 2:
		return r.Get16(BP) + r.Get16(SI), SS
	case 3:
		return r.Get16(BP) + r.Get16(DI), SS
	case 4:
		return r.Get16(SI), DS
	case 5:
		return r.Get16(DI), DS
	case 6:
		return r.Get16(BP), SS
	case 7:
		return r.Get16(BX), DS
	}
	panic(fmt.Sprintf("cpu: r/m field %d out of range", rm))
}

// fetchDisp8 reads one displacement byte from the instruction stream.
//
// While an operation runs IP still points at its opcode and the mode byte
// sits at IP+1, so the next displacement byte is always at IP+2. Every
// fetch moves IP forward by one, which also accounts for the displacement
// in the final instruction length.
func (c *CPU) fetchDisp8() (uint8, error) {
	addr := Linear(c.regs.Seg(CS), c.regs.IP()+2)
	b, err := c.bus.Read8(addr)
	if err != nil {
		return 0, fmt.Errorf("fetch displacement: %w", err)
	}
	c.regs.SetIP(c.regs.IP() + 1)
	return b, nil
}

func (c *CPU) fetchDisp16() (uint16, error) {
	lo, err := c.fetchDisp8()
	if err != nil {
		return 0, err
	}
	hi, err := c.fetchDisp8()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// resolveRM decodes the mod and r/m fields into an operand location,
// consuming any displacement bytes. It must be called once per instruction.
func (c *CPU) resolveRM(m modRM) (operand, error) {
	if m.mod() == modReg {
		return operand{id: m.rm()}, nil
	}

	ea, seg := c.baseSum(m.rm())
	switch m.mod() {
	case modMemDisp8:
		disp, err := c.fetchDisp8()
		if err != nil {
			return operand{}, err
		}
		ea += uint16(disp)
	case modMemDisp16:
		disp, err := c.fetchDisp16()
		if err != nil {
			return operand{}, err
		}
		ea += disp
	}

	return operand{
		mem:  true,
		seg:  seg,
		ea:   ea,
		addr: Linear(c.regs.Seg(seg), ea),
	}, nil
}

// resolveReg returns the register selected by the reg field.
func resolveReg(m modRM) operand {
	return operand{id: m.reg()}
}

func (c *CPU) read8(op operand) (uint8, error) {
	if !op.mem {
		return c.regs.Get8(Reg8(op.id)), nil
	}
	return c.bus.Read8(op.addr)
}

func (c *CPU) write8(op operand, v uint8) error {
	if !op.mem {
		c.regs.Set8(Reg8(op.id), v)
		return nil
	}
	return c.bus.Write8(op.addr, v)
}

func (c *CPU) read16(op operand) (uint16, error) {
	if !op.mem {
		return c.regs.Get16(Reg16(op.id)), nil
	}
	return c.bus.Read16(op.addr)
}

func (c *CPU) write16(op operand, v uint16) error {
	if !op.mem {
		c.regs.Set16(Reg16(op.id), v)
		return nil
	}
	return c.bus.Write16(op.addr, v)
}

// segOperand validates the reg field of a mode byte used as a segment register.
func segOperand(m modRM) (SegReg, error) {
	id := SegReg(m.reg())
	if id > DS {
		return 0, fmt.Errorf("%w: segment register id %d in mode byte %02X", ErrInvalidOperandEncoding, uint8(id), uint8(m))
	}
	return id, nil
}
