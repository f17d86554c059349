package cpu

// Two-operand ALU forms
// dst = dst op src
//
// Flags affected: C, P, A, Z, S, O for ADD/SUB/CMP.
// AND/OR/XOR set P, Z, S and clear C, O.
// CMP discards the result.

// aluRMReg8 is "op r/m8, r8"
func aluRMReg8(op aluOp) opFunc {
	return func(c *CPU, operands []uint8) error {
		m := modRM(operands[0])
		dst, err := c.resolveRM(m)
		if err != nil {
			return err
		}
		return c.alu8(op, dst, resolveReg(m))
	}
}

// aluRegRM8 is "op r8, r/m8"
func aluRegRM8(op aluOp) opFunc {
	return func(c *CPU, operands []uint8) error {
		m := modRM(operands[0])
		src, err := c.resolveRM(m)
		if err != nil {
			return err
		}
		return c.alu8(op, resolveReg(m), src)
	}
}

// aluRMReg16 is "op r/m16, r16"
func aluRMReg16(op aluOp) opFunc {
	return func(c *CPU, operands []uint8) error {
		m := modRM(operands[0])
		dst, err := c.resolveRM(m)
		if err != nil {
			return err
		}
		return c.alu16(op, dst, resolveReg(m))
	}
}

// aluRegRM16 is "op r16, r/m16"
func aluRegRM16(op aluOp) opFunc {
	return func(c *CPU, operands []uint8) error {
		m := modRM(operands[0])
		src, err := c.resolveRM(m)
		if err != nil {
			return err
		}
		return c.alu16(op, resolveReg(m), src)
	}
}

// aluAccImm8 is "op AL, imm8"
func aluAccImm8(op aluOp) opFunc {
	return func(c *CPU, operands []uint8) error {
		r, f, mask := alu8(op, c.regs.Get8(AL), operands[0])
		if op.writesBack() {
			c.regs.Set8(AL, r)
		}
		c.regs.updateFlags(mask, f)
		return nil
	}
}

// aluAccImm16 is "op AX, imm16"
func aluAccImm16(op aluOp) opFunc {
	return func(c *CPU, operands []uint8) error {
		imm := uint16(operands[1])<<8 | uint16(operands[0])
		r, f, mask := alu16(op, c.regs.Get16(AX), imm)
		if op.writesBack() {
			c.regs.Set16(AX, r)
		}
		c.regs.updateFlags(mask, f)
		return nil
	}
}

func (c *CPU) alu8(op aluOp, dst, src operand) error {
	a, err := c.read8(dst)
	if err != nil {
		return err
	}
	b, err := c.read8(src)
	if err != nil {
		return err
	}
	r, f, mask := alu8(op, a, b)
	if op.writesBack() {
		if err := c.write8(dst, r); err != nil {
			return err
		}
	}
	c.regs.updateFlags(mask, f)
	return nil
}

func (c *CPU) alu16(op aluOp, dst, src operand) error {
	a, err := c.read16(dst)
	if err != nil {
		return err
	}
	b, err := c.read16(src)
	if err != nil {
		return err
	}
	r, f, mask := alu16(op, a, b)
	if op.writesBack() {
		if err := c.write16(dst, r); err != nil {
			return err
		}
	}
	c.regs.updateFlags(mask, f)
	return nil
}

// Increment register
// r16 = r16 + 1
//
// Flags affected: P, A, Z, S, O. Carry is preserved.
func incReg16(id Reg16) opFunc {
	return func(c *CPU, _ []uint8) error {
		r, f := add16(c.regs.Get16(id), 1)
		c.regs.Set16(id, r)
		c.regs.updateFlags(incDecFlags, f)
		return nil
	}
}

// Decrement register
// r16 = r16 - 1
//
// Flags affected: P, A, Z, S, O. Carry is preserved.
func decReg16(id Reg16) opFunc {
	return func(c *CPU, _ []uint8) error {
		r, f := sub16(c.regs.Get16(id), 1)
		c.regs.Set16(id, r)
		c.regs.updateFlags(incDecFlags, f)
		return nil
	}
}

// push16 decrements SP by two and stores v at SS:SP.
func (c *CPU) push16(v uint16) error {
	sp := c.regs.Get16(SP) - 2
	if err := c.bus.Write16(Linear(c.regs.Seg(SS), sp), v); err != nil {
		return err
	}
	c.regs.Set16(SP, sp)
	return nil
}

// pop16 loads the word at SS:SP and increments SP by two.
func (c *CPU) pop16() (uint16, error) {
	sp := c.regs.Get16(SP)
	v, err := c.bus.Read16(Linear(c.regs.Seg(SS), sp))
	if err != nil {
		return 0, err
	}
	c.regs.Set16(SP, sp+2)
	return v, nil
}

// Push register
// SP = SP - 2, [SS:SP] = r16
func pushReg16(id Reg16) opFunc {
	return func(c *CPU, _ []uint8) error {
		v := c.regs.Get16(id)
		if id == SP {
			// the 8086 stores the already decremented value
			v -= 2
		}
		return c.push16(v)
	}
}

// Pop register
// r16 = [SS:SP], SP = SP + 2
func popReg16(id Reg16) opFunc {
	return func(c *CPU, _ []uint8) error {
		v, err := c.pop16()
		if err != nil {
			return err
		}
		c.regs.Set16(id, v)
		return nil
	}
}

func pushSeg(id SegReg) opFunc {
	return func(c *CPU, _ []uint8) error {
		return c.push16(c.regs.Seg(id))
	}
}

func popSeg(id SegReg) opFunc {
	return func(c *CPU, _ []uint8) error {
		v, err := c.pop16()
		if err != nil {
			return err
		}
		c.regs.SetSeg(id, v)
		return nil
	}
}

// Move
// dst = src
//
// Flags affected: none
func movRMReg8(c *CPU, operands []uint8) error {
	m := modRM(operands[0])
	dst, err := c.resolveRM(m)
	if err != nil {
		return err
	}
	return c.write8(dst, c.regs.Get8(Reg8(m.reg())))
}

func movRMReg16(c *CPU, operands []uint8) error {
	m := modRM(operands[0])
	dst, err := c.resolveRM(m)
	if err != nil {
		return err
	}
	return c.write16(dst, c.regs.Get16(Reg16(m.reg())))
}

func movRegRM8(c *CPU, operands []uint8) error {
	m := modRM(operands[0])
	src, err := c.resolveRM(m)
	if err != nil {
		return err
	}
	v, err := c.read8(src)
	if err != nil {
		return err
	}
	c.regs.Set8(Reg8(m.reg()), v)
	return nil
}

func movRegRM16(c *CPU, operands []uint8) error {
	m := modRM(operands[0])
	src, err := c.resolveRM(m)
	if err != nil {
		return err
	}
	v, err := c.read16(src)
	if err != nil {
		return err
	}
	c.regs.Set16(Reg16(m.reg()), v)
	return nil
}

// movRMSeg is "MOV r/m16, sreg"
func movRMSeg(c *CPU, operands []uint8) error {
	m := modRM(operands[0])
	seg, err := segOperand(m)
	if err != nil {
		return err
	}
	dst, err := c.resolveRM(m)
	if err != nil {
		return err
	}
	return c.write16(dst, c.regs.Seg(seg))
}

// movSegRM is "MOV sreg, r/m16". Loading CS moves the physical IP.
func movSegRM(c *CPU, operands []uint8) error {
	m := modRM(operands[0])
	seg, err := segOperand(m)
	if err != nil {
		return err
	}
	src, err := c.resolveRM(m)
	if err != nil {
		return err
	}
	v, err := c.read16(src)
	if err != nil {
		return err
	}
	c.regs.SetSeg(seg, v)
	return nil
}

func movRegImm8(id Reg8) opFunc {
	return func(c *CPU, operands []uint8) error {
		c.regs.Set8(id, operands[0])
		return nil
	}
}

func movRegImm16(id Reg16) opFunc {
	return func(c *CPU, operands []uint8) error {
		c.regs.Set16(id, uint16(operands[1])<<8|uint16(operands[0]))
		return nil
	}
}

// Exchange register with AX
func xchgAX(id Reg16) opFunc {
	return func(c *CPU, _ []uint8) error {
		ax, r := c.regs.Get16(AX), c.regs.Get16(id)
		c.regs.Set16(AX, r)
		c.regs.Set16(id, ax)
		return nil
	}
}

func nop(*CPU, []uint8) error {
	return nil
}

// Halt
// The machine stops; Run reports Halted from now on.
func hlt(c *CPU, _ []uint8) error {
	c.halt()
	c.log.WithField("ip", c.regs.IP()).Info("halting the CPU")
	return nil
}

// setFlagTo builds the flag control instructions: CLC, STC, CLI, STI, CLD, STD.
func setFlagTo(f Flag, v bool) opFunc {
	return func(c *CPU, _ []uint8) error {
		c.regs.SetFlag(f, v)
		return nil
	}
}

// Complement carry
func cmc(c *CPU, _ []uint8) error {
	c.regs.SetFlag(FlagCarry, !c.regs.GetFlag(FlagCarry))
	return nil
}
