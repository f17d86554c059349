package cpu

import "fmt"

// Reg8 selects one of the byte registers as encoded in a mode byte.
type Reg8 uint8

const (
	AL Reg8 = iota
	CL
	DL
	BL
	AH
	CH
	DH
	BH
)

var reg8Names = [8]string{"AL", "CL", "DL", "BL", "AH", "CH", "DH", "BH"}

func (r Reg8) String() string {
	if r > BH {
		return fmt.Sprintf("Reg8(%d)", uint8(r))
	}
	return reg8Names[r]
}

// Reg16 selects one of the word registers as encoded in a mode byte.
// Ids 4-7 share their encoding with AH/CH/DH/BH but denote the
// pointer and index registers.
type Reg16 uint8

const (
	AX Reg16 = iota
	CX
	DX
	BX
	SP
	BP
	SI
	DI
)

var reg16Names = [8]string{"AX", "CX", "DX", "BX", "SP", "BP", "SI", "DI"}

func (r Reg16) String() string {
	if r > DI {
		return fmt.Sprintf("Reg16(%d)", uint8(r))
	}
	return reg16Names[r]
}

// SegReg selects a segment register.
type SegReg uint8

const (
	ES SegReg = iota
	CS
	SS
	DS
)

var segNames = [4]string{"ES", "CS", "SS", "DS"}

func (s SegReg) String() string {
	if s > DS {
		return fmt.Sprintf("SegReg(%d)", uint8(s))
	}
	return segNames[s]
}

// Flag is a single bit of the flags register.
type Flag uint16

const (
	FlagCarry     Flag = 1 << 0
	FlagParity    Flag = 1 << 2
	FlagAuxCarry  Flag = 1 << 4
	FlagZero      Flag = 1 << 6
	FlagSign      Flag = 1 << 7
	FlagTrap      Flag = 1 << 8 // kept, never acted upon
	FlagInterrupt Flag = 1 << 9 // kept, never acted upon
	FlagDirection Flag = 1 << 10
	FlagOverflow  Flag = 1 << 11
)

func (f Flag) String() string {
	switch f {
	case FlagCarry:
		return "CF"
	case FlagParity:
		return "PF"
	case FlagAuxCarry:
		return "AF"
	case FlagZero:
		return "ZF"
	case FlagSign:
		return "SF"
	case FlagTrap:
		return "TF"
	case FlagInterrupt:
		return "IF"
	case FlagDirection:
		return "DF"
	case FlagOverflow:
		return "OF"
	}
	return fmt.Sprintf("Flag(%04X)", uint16(f))
}

// Registers is the register file of the CPU.
//
// The four general purpose registers are stored as words; the byte
// registers are views on their low and high halves. The physical
// instruction pointer is kept in sync with CS and IP by every setter
// that touches either of them.
type Registers struct {
	general [4]uint16 // AX, CX, DX, BX
	pointer [4]uint16 // SP, BP, SI, DI
	segment [4]uint16 // ES, CS, SS, DS
	ip      uint16
	ip32    uint32
	flags   uint16
}

// Linear converts a segment:offset pair to a physical address.
func Linear(seg, off uint16) uint32 {
	return uint32(seg)<<4 + uint32(off)
}

func (r *Registers) Get8(id Reg8) uint8 {
	switch {
	case id <= BL:
		return uint8(r.general[id])
	case id <= BH:
		return uint8(r.general[id-AH] >> 8)
	}
	panic(fmt.Sprintf("cpu: byte register id %d out of range", uint8(id)))
}

// Set8 updates one half of a general purpose register and leaves the
// other half untouched.
func (r *Registers) Set8(id Reg8, v uint8) {
	switch {
	case id <= BL:
		r.general[id] = r.general[id]&0xff00 | uint16(v)
		return
	case id <= BH:
		r.general[id-AH] = r.general[id-AH]&0x00ff | uint16(v)<<8
		return
	}
	panic(fmt.Sprintf("cpu: byte register id %d out of range", uint8(id)))
}

func (r *Registers) Get16(id Reg16) uint16 {
	switch {
	case id <= BX:
		return r.general[id]
	case id <= DI:
		return r.pointer[id-SP]
	}
	panic(fmt.Sprintf("cpu: word register id %d out of range", uint8(id)))
}

func (r *Registers) Set16(id Reg16, v uint16) {
	switch {
	case id <= BX:
		r.general[id] = v
		return
	case id <= DI:
		r.pointer[id-SP] = v
		return
	}
	panic(fmt.Sprintf("cpu: word register id %d out of range", uint8(id)))
}

func (r *Registers) Seg(id SegReg) uint16 {
	if id > DS {
		panic(fmt.Sprintf("cpu: segment register id %d out of range", uint8(id)))
	}
	return r.segment[id]
}

func (r *Registers) SetSeg(id SegReg, v uint16) {
	if id > DS {
		panic(fmt.Sprintf("cpu: segment register id %d out of range", uint8(id)))
	}
	r.segment[id] = v
	if id == CS {
		r.ip32 = Linear(r.segment[CS], r.ip)
	}
}

// IP returns the logical instruction pointer (offset within CS).
func (r *Registers) IP() uint16 {
	return r.ip
}

func (r *Registers) SetIP(v uint16) {
	r.ip = v
	r.ip32 = Linear(r.segment[CS], r.ip)
}

// IP32 returns the physical instruction pointer, CS*16 + IP.
func (r *Registers) IP32() uint32 {
	return r.ip32
}

func (r *Registers) Flags() uint16 {
	return r.flags
}

func (r *Registers) SetFlags(v uint16) {
	r.flags = v
}

func (r *Registers) GetFlag(f Flag) bool {
	return r.flags&uint16(f) != 0
}

func (r *Registers) SetFlag(f Flag, v bool) {
	if v {
		r.flags |= uint16(f)
		return
	}
	r.flags &^= uint16(f)
}

// updateFlags replaces the bits selected by mask with the matching bits of v.
func (r *Registers) updateFlags(mask, v uint16) {
	r.flags = r.flags&^mask | v&mask
}

// FlagsString renders the status flags, upper case when set.
func (r *Registers) FlagsString() string {
	order := []struct {
		flag Flag
		name byte
	}{
		{FlagOverflow, 'o'},
		{FlagDirection, 'd'},
		{FlagInterrupt, 'i'},
		{FlagTrap, 't'},
		{FlagSign, 's'},
		{FlagZero, 'z'},
		{FlagAuxCarry, 'a'},
		{FlagParity, 'p'},
		{FlagCarry, 'c'},
	}
	out := make([]byte, len(order))
	for i, o := range order {
		out[i] = o.name
		if r.GetFlag(o.flag) {
			out[i] -= 'a' - 'A'
		}
	}
	return string(out)
}
