package cpu

import "math/bits"

const (
	// flags written by ADD, SUB and CMP
	arithFlags = uint16(FlagCarry | FlagParity | FlagAuxCarry | FlagZero | FlagSign | FlagOverflow)

	// flags written by AND, OR and XOR. Carry and overflow are always
	// cleared, auxiliary carry is left as it was.
	logicFlags = uint16(FlagCarry | FlagParity | FlagZero | FlagSign | FlagOverflow)

	// INC and DEC preserve the carry flag
	incDecFlags = arithFlags &^ uint16(FlagCarry)
)

// parityTable[b] is true when b has an even number of set bits.
var parityTable = func() (t [0x100]bool) {
	for i := range t {
		t[i] = bits.OnesCount8(uint8(i))%2 == 0
	}
	return t
}()

// resultFlags16 classifies a word result: zero, sign and parity of the low byte.
func resultFlags16(r uint16) uint16 {
	var f uint16
	if r == 0 {
		f |= uint16(FlagZero)
	}
	if r&0x8000 != 0 {
		f |= uint16(FlagSign)
	}
	if parityTable[uint8(r)] {
		f |= uint16(FlagParity)
	}
	return f
}

func resultFlags8(r uint8) uint16 {
	var f uint16
	if r == 0 {
		f |= uint16(FlagZero)
	}
	if r&0x80 != 0 {
		f |= uint16(FlagSign)
	}
	if parityTable[r] {
		f |= uint16(FlagParity)
	}
	return f
}

// add16 returns (a + b) mod 65536 and the arithmetic flags it produces.
func add16(a, b uint16) (uint16, uint16) {
	sum := uint32(a) + uint32(b)
	r := uint16(sum)
	f := resultFlags16(r)
	if sum > 0xffff {
		f |= uint16(FlagCarry)
	}
	if (r^a)&(r^b)&0x8000 != 0 {
		f |= uint16(FlagOverflow)
	}
	if (a^b^r)&0x10 != 0 {
		f |= uint16(FlagAuxCarry)
	}
	return r, f
}

// sub16 returns (a - b) mod 65536 and the arithmetic flags it produces.
// Carry is the borrow: set iff a < b unsigned.
func sub16(a, b uint16) (uint16, uint16) {
	r := a - b
	f := resultFlags16(r)
	if a < b {
		f |= uint16(FlagCarry)
	}
	if (r^a)&(a^b)&0x8000 != 0 {
		f |= uint16(FlagOverflow)
	}
	if (a^b^r)&0x10 != 0 {
		f |= uint16(FlagAuxCarry)
	}
	return r, f
}

func add8(a, b uint8) (uint8, uint16) {
	sum := uint16(a) + uint16(b)
	r := uint8(sum)
	f := resultFlags8(r)
	if sum > 0xff {
		f |= uint16(FlagCarry)
	}
	if (r^a)&(r^b)&0x80 != 0 {
		f |= uint16(FlagOverflow)
	}
	if (a^b^r)&0x10 != 0 {
		f |= uint16(FlagAuxCarry)
	}
	return r, f
}

func sub8(a, b uint8) (uint8, uint16) {
	r := a - b
	f := resultFlags8(r)
	if a < b {
		f |= uint16(FlagCarry)
	}
	if (r^a)&(a^b)&0x80 != 0 {
		f |= uint16(FlagOverflow)
	}
	if (a^b^r)&0x10 != 0 {
		f |= uint16(FlagAuxCarry)
	}
	return r, f
}

// aluOp is one of the two-operand operations sharing the 00-3D opcode rows.
type aluOp uint8

const (
	aluADD aluOp = iota
	aluOR
	aluAND
	aluSUB
	aluXOR
	aluCMP
)

// writesBack reports whether the result is stored into the destination.
func (op aluOp) writesBack() bool {
	return op != aluCMP
}

// alu16 computes op on two words and returns the result, the new flag bits
// and the mask of flags the operation defines.
func alu16(op aluOp, a, b uint16) (r, f, mask uint16) {
	switch op {
	case aluADD:
		r, f = add16(a, b)
		return r, f, arithFlags
	case aluSUB, aluCMP:
		r, f = sub16(a, b)
		return r, f, arithFlags
	case aluOR:
		r = a | b
	case aluAND:
		r = a & b
	case aluXOR:
		r = a ^ b
	}
	return r, resultFlags16(r), logicFlags
}

func alu8(op aluOp, a, b uint8) (r uint8, f, mask uint16) {
	switch op {
	case aluADD:
		r, f = add8(a, b)
		return r, f, arithFlags
	case aluSUB, aluCMP:
		r, f = sub8(a, b)
		return r, f, arithFlags
	case aluOR:
		r = a | b
	case aluAND:
		r = a & b
	case aluXOR:
		r = a ^ b
	}
	return r, resultFlags8(r), logicFlags
}
