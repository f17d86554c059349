package cpu

import (
	"fmt"
	"strings"
)

// Reader is the read side of ReadWriter; disassembly never writes.
type Reader interface {
	Read8(addr uint32) (uint8, error)
}

// Line is one disassembled instruction.
type Line struct {
	CS, IP    uint16
	Bytes     []uint8
	Text      string
	Supported bool // false: executing it halts the machine
}

func (l Line) String() string {
	var hex strings.Builder
	for _, b := range l.Bytes {
		fmt.Fprintf(&hex, "%02X", b)
	}
	mark := " "
	if !l.Supported {
		mark = "!"
	}
	return fmt.Sprintf("%04X:%04X %-12s%s %s", l.CS, l.IP, hex.String(), mark, l.Text)
}

// Disassemble decodes n consecutive instructions starting at cs:ip.
func Disassemble(bus Reader, cs, ip uint16, n int) ([]Line, error) {
	lines := make([]Line, 0, n)
	for i := 0; i < n; i++ {
		line, err := DisassembleAt(bus, cs, ip)
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
		ip += uint16(len(line.Bytes))
	}
	return lines, nil
}

// DisassembleAt decodes the instruction at cs:ip without executing it.
// Operands are rendered from the name template of the opcode table entry.
func DisassembleAt(bus Reader, cs, ip uint16) (Line, error) {
	read8 := func(off uint16) (uint8, error) {
		b, err := bus.Read8(Linear(cs, ip+off))
		if err != nil {
			return 0, fmt.Errorf("disassemble %04X:%04X: %w", cs, ip, err)
		}
		return b, nil
	}
	read16 := func(off uint16) (uint16, error) {
		lo, err := read8(off)
		if err != nil {
			return 0, err
		}
		hi, err := read8(off + 1)
		if err != nil {
			return 0, err
		}
		return uint16(hi)<<8 | uint16(lo), nil
	}

	opcode, err := read8(0)
	if err != nil {
		return Line{}, err
	}
	in := instrs[opcode]
	mnemonic, args, _ := strings.Cut(in.name, " ")
	var tokens []string
	if args != "" {
		tokens = strings.Split(args, ", ")
	}

	// mode byte and displacement come first, immediates follow them
	var (
		m       modRM
		disp    uint16
		dispLen uint16
		next    = uint16(1)
	)
	if usesModRM(tokens) {
		b, err := read8(1)
		if err != nil {
			return Line{}, err
		}
		m = modRM(b)
		switch m.mod() {
		case modMemDisp8:
			d, err := read8(2)
			if err != nil {
				return Line{}, err
			}
			disp, dispLen = uint16(d), 1
		case modMemDisp16:
			if disp, err = read16(2); err != nil {
				return Line{}, err
			}
			dispLen = 2
		}
		next = 2 + dispLen
	}
	size := uint16(max(in.operands, 1)) + dispLen

	rendered := make([]string, len(tokens))
	for i, tok := range tokens {
		switch tok {
		case "r/m8":
			rendered[i] = rmText(m, disp, func(id uint8) string { return Reg8(id).String() })
		case "r/m16":
			rendered[i] = rmText(m, disp, func(id uint8) string { return Reg16(id).String() })
		case "r8":
			rendered[i] = Reg8(m.reg()).String()
		case "r16":
			rendered[i] = Reg16(m.reg()).String()
		case "sreg":
			if m.reg() > uint8(DS) {
				rendered[i] = "???"
				break
			}
			rendered[i] = SegReg(m.reg()).String()
		case "imm8":
			b, err := read8(next)
			if err != nil {
				return Line{}, err
			}
			next++
			rendered[i] = fmt.Sprintf("0x%02X", b)
		case "imm16":
			w, err := read16(next)
			if err != nil {
				return Line{}, err
			}
			next += 2
			rendered[i] = fmt.Sprintf("0x%04X", w)
		case "moffs8", "moffs16":
			w, err := read16(next)
			if err != nil {
				return Line{}, err
			}
			next += 2
			rendered[i] = fmt.Sprintf("[0x%04X]", w)
		case "rel8":
			b, err := read8(next)
			if err != nil {
				return Line{}, err
			}
			next++
			rendered[i] = fmt.Sprintf("0x%04X", ip+size+uint16(int8(b)))
		case "rel16":
			w, err := read16(next)
			if err != nil {
				return Line{}, err
			}
			next += 2
			rendered[i] = fmt.Sprintf("0x%04X", ip+size+w)
		case "ptr16:16":
			off, err := read16(next)
			if err != nil {
				return Line{}, err
			}
			seg, err := read16(next + 2)
			if err != nil {
				return Line{}, err
			}
			next += 4
			rendered[i] = fmt.Sprintf("%04X:%04X", seg, off)
		default:
			rendered[i] = tok
		}
	}

	raw := make([]uint8, size)
	for i := range raw {
		if raw[i], err = read8(uint16(i)); err != nil {
			return Line{}, err
		}
	}

	text := mnemonic
	if len(rendered) > 0 {
		text += " " + strings.Join(rendered, ", ")
	}
	return Line{
		CS:        cs,
		IP:        ip,
		Bytes:     raw,
		Text:      text,
		Supported: opcodeIsSupported(opcode),
	}, nil
}

func usesModRM(tokens []string) bool {
	for _, tok := range tokens {
		switch tok {
		case "r/m8", "r/m16", "r8", "r16", "sreg":
			return true
		}
	}
	return false
}

// rmText renders the r/m operand of a mode byte, e.g. "AX" or "[BP+DI+0x12]".
func rmText(m modRM, disp uint16, regName func(uint8) string) string {
	switch m.mod() {
	case modReg:
		return regName(m.rm())
	case modMemDisp8:
		return fmt.Sprintf("[%s+0x%02X]", rmBaseNames[m.rm()], disp)
	case modMemDisp16:
		return fmt.Sprintf("[%s+0x%04X]", rmBaseNames[m.rm()], disp)
	}
	return "[" + rmBaseNames[m.rm()] + "]"
}
