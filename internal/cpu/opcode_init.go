package cpu

// instrs maps a leading opcode byte to its display name, operand byte count
// and operation. The operand count is also the encoded instruction length
// (without displacement bytes) used to advance IP; 0 means a one byte
// instruction. Entries without fn halt the machine when executed.
//
// Name templates: r/m8, r/m16 (mode byte r/m field), r8, r16, sreg (reg
// field), imm8, imm16, rel8, rel16, moffs8, moffs16, ptr16:16.
var instrs = [0x100]instr{
	0x00: {name: "ADD r/m8, r8", operands: 2, fn: aluRMReg8(aluADD)},
	0x01: {name: "ADD r/m16, r16", operands: 2, fn: aluRMReg16(aluADD)},
	0x02: {name: "ADD r8, r/m8", operands: 2, fn: aluRegRM8(aluADD)},
	0x03: {name: "ADD r16, r/m16", operands: 2, fn: aluRegRM16(aluADD)},
	0x04: {name: "ADD AL, imm8", operands: 2, fn: aluAccImm8(aluADD)},
	0x05: {name: "ADD AX, imm16", operands: 3, fn: aluAccImm16(aluADD)},
	0x06: {name: "PUSH ES", fn: pushSeg(ES)},
	0x07: {name: "POP ES", fn: popSeg(ES)},
	0x08: {name: "OR r/m8, r8", operands: 2, fn: aluRMReg8(aluOR)},
	0x09: {name: "OR r/m16, r16", operands: 2, fn: aluRMReg16(aluOR)},
	0x0a: {name: "OR r8, r/m8", operands: 2, fn: aluRegRM8(aluOR)},
	0x0b: {name: "OR r16, r/m16", operands: 2, fn: aluRegRM16(aluOR)},
	0x0c: {name: "OR AL, imm8", operands: 2, fn: aluAccImm8(aluOR)},
	0x0d: {name: "OR AX, imm16", operands: 3, fn: aluAccImm16(aluOR)},
	0x0e: {name: "PUSH CS", fn: pushSeg(CS)},
	0x0f: {name: "POP CS"},
	0x10: {name: "ADC r/m8, r8", operands: 2},
	0x11: {name: "ADC r/m16, r16", operands: 2},
	0x12: {name: "ADC r8, r/m8", operands: 2},
	0x13: {name: "ADC r16, r/m16", operands: 2},
	0x14: {name: "ADC AL, imm8", operands: 2},
	0x15: {name: "ADC AX, imm16", operands: 3},
	0x16: {name: "PUSH SS", fn: pushSeg(SS)},
	0x17: {name: "POP SS", fn: popSeg(SS)},
	0x18: {name: "SBB r/m8, r8", operands: 2},
	0x19: {name: "SBB r/m16, r16", operands: 2},
	0x1a: {name: "SBB r8, r/m8", operands: 2},
	0x1b: {name: "SBB r16, r/m16", operands: 2},
	0x1c: {name: "SBB AL, imm8", operands: 2},
	0x1d: {name: "SBB AX, imm16", operands: 3},
	0x1e: {name: "PUSH DS", fn: pushSeg(DS)},
	0x1f: {name: "POP DS", fn: popSeg(DS)},
	0x20: {name: "AND r/m8, r8", operands: 2, fn: aluRMReg8(aluAND)},
	0x21: {name: "AND r/m16, r16", operands: 2, fn: aluRMReg16(aluAND)},
	0x22: {name: "AND r8, r/m8", operands: 2, fn: aluRegRM8(aluAND)},
	0x23: {name: "AND r16, r/m16", operands: 2, fn: aluRegRM16(aluAND)},
	0x24: {name: "AND AL, imm8", operands: 2, fn: aluAccImm8(aluAND)},
	0x25: {name: "AND AX, imm16", operands: 3, fn: aluAccImm16(aluAND)},
	0x26: {name: "ES:"},
	0x27: {name: "DAA"},
	0x28: {name: "SUB r/m8, r8", operands: 2, fn: aluRMReg8(aluSUB)},
	0x29: {name: "SUB r/m16, r16", operands: 2, fn: aluRMReg16(aluSUB)},
	0x2a: {name: "SUB r8, r/m8", operands: 2, fn: aluRegRM8(aluSUB)},
	0x2b: {name: "SUB r16, r/m16", operands: 2, fn: aluRegRM16(aluSUB)},
	0x2c: {name: "SUB AL, imm8", operands: 2, fn: aluAccImm8(aluSUB)},
	0x2d: {name: "SUB AX, imm16", operands: 3, fn: aluAccImm16(aluSUB)},
	0x2e: {name: "CS:"},
	0x2f: {name: "DAS"},
	0x30: {name: "XOR r/m8, r8", operands: 2, fn: aluRMReg8(aluXOR)},
	0x31: {name: "XOR r/m16, r16", operands: 2, fn: aluRMReg16(aluXOR)},
	0x32: {name: "XOR r8, r/m8", operands: 2, fn: aluRegRM8(aluXOR)},
	0x33: {name: "XOR r16, r/m16", operands: 2, fn: aluRegRM16(aluXOR)},
	0x34: {name: "XOR AL, imm8", operands: 2, fn: aluAccImm8(aluXOR)},
	0x35: {name: "XOR AX, imm16", operands: 3, fn: aluAccImm16(aluXOR)},
	0x36: {name: "SS:"},
	0x37: {name: "AAA"},
	0x38: {name: "CMP r/m8, r8", operands: 2, fn: aluRMReg8(aluCMP)},
	0x39: {name: "CMP r/m16, r16", operands: 2, fn: aluRMReg16(aluCMP)},
	0x3a: {name: "CMP r8, r/m8", operands: 2, fn: aluRegRM8(aluCMP)},
	0x3b: {name: "CMP r16, r/m16", operands: 2, fn: aluRegRM16(aluCMP)},
	0x3c: {name: "CMP AL, imm8", operands: 2, fn: aluAccImm8(aluCMP)},
	0x3d: {name: "CMP AX, imm16", operands: 3, fn: aluAccImm16(aluCMP)},
	0x3e: {name: "DS:"},
	0x3f: {name: "AAS"},
	0x40: {name: "INC AX", fn: incReg16(AX)},
	0x41: {name: "INC CX", fn: incReg16(CX)},
	0x42: {name: "INC DX", fn: incReg16(DX)},
	0x43: {name: "INC BX", fn: incReg16(BX)},
	0x44: {name: "INC SP", fn: incReg16(SP)},
	0x45: {name: "INC BP", fn: incReg16(BP)},
	0x46: {name: "INC SI", fn: incReg16(SI)},
	0x47: {name: "INC DI", fn: incReg16(DI)},
	0x48: {name: "DEC AX", fn: decReg16(AX)},
	0x49: {name: "DEC CX", fn: decReg16(CX)},
	0x4a: {name: "DEC DX", fn: decReg16(DX)},
	0x4b: {name: "DEC BX", fn: decReg16(BX)},
	0x4c: {name: "DEC SP", fn: decReg16(SP)},
	0x4d: {name: "DEC BP", fn: decReg16(BP)},
	0x4e: {name: "DEC SI", fn: decReg16(SI)},
	0x4f: {name: "DEC DI", fn: decReg16(DI)},
	0x50: {name: "PUSH AX", fn: pushReg16(AX)},
	0x51: {name: "PUSH CX", fn: pushReg16(CX)},
	0x52: {name: "PUSH DX", fn: pushReg16(DX)},
	0x53: {name: "PUSH BX", fn: pushReg16(BX)},
	0x54: {name: "PUSH SP", fn: pushReg16(SP)},
	0x55: {name: "PUSH BP", fn: pushReg16(BP)},
	0x56: {name: "PUSH SI", fn: pushReg16(SI)},
	0x57: {name: "PUSH DI", fn: pushReg16(DI)},
	0x58: {name: "POP AX", fn: popReg16(AX)},
	0x59: {name: "POP CX", fn: popReg16(CX)},
	0x5a: {name: "POP DX", fn: popReg16(DX)},
	0x5b: {name: "POP BX", fn: popReg16(BX)},
	0x5c: {name: "POP SP", fn: popReg16(SP)},
	0x5d: {name: "POP BP", fn: popReg16(BP)},
	0x5e: {name: "POP SI", fn: popReg16(SI)},
	0x5f: {name: "POP DI", fn: popReg16(DI)},
	0x60: {name: "PUSHA"},
	0x61: {name: "POPA"},
	0x62: {name: "BOUND r16, r/m16", operands: 2},
	0x63: {name: "???"},
	0x64: {name: "???"},
	0x65: {name: "???"},
	0x66: {name: "???"},
	0x67: {name: "???"},
	0x68: {name: "PUSH imm16", operands: 3},
	0x69: {name: "IMUL r16, r/m16, imm16", operands: 4},
	0x6a: {name: "PUSH imm8", operands: 2},
	0x6b: {name: "IMUL r16, r/m16, imm8", operands: 3},
	0x6c: {name: "INSB"},
	0x6d: {name: "INSW"},
	0x6e: {name: "OUTSB"},
	0x6f: {name: "OUTSW"},
	0x70: {name: "JO rel8", operands: 2},
	0x71: {name: "JNO rel8", operands: 2},
	0x72: {name: "JB rel8", operands: 2},
	0x73: {name: "JNB rel8", operands: 2},
	0x74: {name: "JZ rel8", operands: 2},
	0x75: {name: "JNZ rel8", operands: 2},
	0x76: {name: "JBE rel8", operands: 2},
	0x77: {name: "JA rel8", operands: 2},
	0x78: {name: "JS rel8", operands: 2},
	0x79: {name: "JNS rel8", operands: 2},
	0x7a: {name: "JPE rel8", operands: 2},
	0x7b: {name: "JPO rel8", operands: 2},
	0x7c: {name: "JL rel8", operands: 2},
	0x7d: {name: "JGE rel8", operands: 2},
	0x7e: {name: "JLE rel8", operands: 2},
	0x7f: {name: "JG rel8", operands: 2},
	0x80: {name: "GRP1 r/m8, imm8", operands: 3},
	0x81: {name: "GRP1 r/m16, imm16", operands: 4},
	0x82: {name: "GRP1 r/m8, imm8", operands: 3},
	0x83: {name: "GRP1 r/m16, imm8", operands: 3},
	0x84: {name: "TEST r/m8, r8", operands: 2},
	0x85: {name: "TEST r/m16, r16", operands: 2},
	0x86: {name: "XCHG r/m8, r8", operands: 2},
	0x87: {name: "XCHG r/m16, r16", operands: 2},
	0x88: {name: "MOV r/m8, r8", operands: 2, fn: movRMReg8},
	0x89: {name: "MOV r/m16, r16", operands: 2, fn: movRMReg16},
	0x8a: {name: "MOV r8, r/m8", operands: 2, fn: movRegRM8},
	0x8b: {name: "MOV r16, r/m16", operands: 2, fn: movRegRM16},
	0x8c: {name: "MOV r/m16, sreg", operands: 2, fn: movRMSeg},
	0x8d: {name: "LEA r16, r/m16", operands: 2},
	0x8e: {name: "MOV sreg, r/m16", operands: 2, fn: movSegRM},
	0x8f: {name: "POP r/m16", operands: 2},
	0x90: {name: "NOP", fn: nop},
	0x91: {name: "XCHG AX, CX", fn: xchgAX(CX)},
	0x92: {name: "XCHG AX, DX", fn: xchgAX(DX)},
	0x93: {name: "XCHG AX, BX", fn: xchgAX(BX)},
	0x94: {name: "XCHG AX, SP", fn: xchgAX(SP)},
	0x95: {name: "XCHG AX, BP", fn: xchgAX(BP)},
	0x96: {name: "XCHG AX, SI", fn: xchgAX(SI)},
	0x97: {name: "XCHG AX, DI", fn: xchgAX(DI)},
	0x98: {name: "CBW"},
	0x99: {name: "CWD"},
	0x9a: {name: "CALL ptr16:16", operands: 5},
	0x9b: {name: "WAIT"},
	0x9c: {name: "PUSHF"},
	0x9d: {name: "POPF"},
	0x9e: {name: "SAHF"},
	0x9f: {name: "LAHF"},
	0xa0: {name: "MOV AL, moffs8", operands: 3},
	0xa1: {name: "MOV AX, moffs16", operands: 3},
	0xa2: {name: "MOV moffs8, AL", operands: 3},
	0xa3: {name: "MOV moffs16, AX", operands: 3},
	0xa4: {name: "MOVSB"},
	0xa5: {name: "MOVSW"},
	0xa6: {name: "CMPSB"},
	0xa7: {name: "CMPSW"},
	0xa8: {name: "TEST AL, imm8", operands: 2},
	0xa9: {name: "TEST AX, imm16", operands: 3},
	0xaa: {name: "STOSB"},
	0xab: {name: "STOSW"},
	0xac: {name: "LODSB"},
	0xad: {name: "LODSW"},
	0xae: {name: "SCASB"},
	0xaf: {name: "SCASW"},
	0xb0: {name: "MOV AL, imm8", operands: 2, fn: movRegImm8(AL)},
	0xb1: {name: "MOV CL, imm8", operands: 2, fn: movRegImm8(CL)},
	0xb2: {name: "MOV DL, imm8", operands: 2, fn: movRegImm8(DL)},
	0xb3: {name: "MOV BL, imm8", operands: 2, fn: movRegImm8(BL)},
	0xb4: {name: "MOV AH, imm8", operands: 2, fn: movRegImm8(AH)},
	0xb5: {name: "MOV CH, imm8", operands: 2, fn: movRegImm8(CH)},
	0xb6: {name: "MOV DH, imm8", operands: 2, fn: movRegImm8(DH)},
	0xb7: {name: "MOV BH, imm8", operands: 2, fn: movRegImm8(BH)},
	0xb8: {name: "MOV AX, imm16", operands: 3, fn: movRegImm16(AX)},
	0xb9: {name: "MOV CX, imm16", operands: 3, fn: movRegImm16(CX)},
	0xba: {name: "MOV DX, imm16", operands: 3, fn: movRegImm16(DX)},
	0xbb: {name: "MOV BX, imm16", operands: 3, fn: movRegImm16(BX)},
	0xbc: {name: "MOV SP, imm16", operands: 3, fn: movRegImm16(SP)},
	0xbd: {name: "MOV BP, imm16", operands: 3, fn: movRegImm16(BP)},
	0xbe: {name: "MOV SI, imm16", operands: 3, fn: movRegImm16(SI)},
	0xbf: {name: "MOV DI, imm16", operands: 3, fn: movRegImm16(DI)},
	0xc0: {name: "GRP2 r/m8, imm8", operands: 3},
	0xc1: {name: "GRP2 r/m16, imm8", operands: 3},
	0xc2: {name: "RET imm16", operands: 3},
	0xc3: {name: "RET"},
	0xc4: {name: "LES r16, r/m16", operands: 2},
	0xc5: {name: "LDS r16, r/m16", operands: 2},
	0xc6: {name: "MOV r/m8, imm8", operands: 3},
	0xc7: {name: "MOV r/m16, imm16", operands: 4},
	0xc8: {name: "ENTER imm16, imm8", operands: 4},
	0xc9: {name: "LEAVE"},
	0xca: {name: "RETF imm16", operands: 3},
	0xcb: {name: "RETF"},
	0xcc: {name: "INT3"},
	0xcd: {name: "INT imm8", operands: 2},
	0xce: {name: "INTO"},
	0xcf: {name: "IRET"},
	0xd0: {name: "GRP2 r/m8, 1", operands: 2},
	0xd1: {name: "GRP2 r/m16, 1", operands: 2},
	0xd2: {name: "GRP2 r/m8, CL", operands: 2},
	0xd3: {name: "GRP2 r/m16, CL", operands: 2},
	0xd4: {name: "AAM imm8", operands: 2},
	0xd5: {name: "AAD imm8", operands: 2},
	0xd6: {name: "SALC"},
	0xd7: {name: "XLAT"},
	0xd8: {name: "ESC r/m16", operands: 2},
	0xd9: {name: "ESC r/m16", operands: 2},
	0xda: {name: "ESC r/m16", operands: 2},
	0xdb: {name: "ESC r/m16", operands: 2},
	0xdc: {name: "ESC r/m16", operands: 2},
	0xdd: {name: "ESC r/m16", operands: 2},
	0xde: {name: "ESC r/m16", operands: 2},
	0xdf: {name: "ESC r/m16", operands: 2},
	0xe0: {name: "LOOPNZ rel8", operands: 2},
	0xe1: {name: "LOOPZ rel8", operands: 2},
	0xe2: {name: "LOOP rel8", operands: 2},
	0xe3: {name: "JCXZ rel8", operands: 2},
	0xe4: {name: "IN AL, imm8", operands: 2},
	0xe5: {name: "IN AX, imm8", operands: 2},
	0xe6: {name: "OUT imm8, AL", operands: 2},
	0xe7: {name: "OUT imm8, AX", operands: 2},
	0xe8: {name: "CALL rel16", operands: 3},
	0xe9: {name: "JMP rel16", operands: 3},
	0xea: {name: "JMP ptr16:16", operands: 5},
	0xeb: {name: "JMP rel8", operands: 2},
	0xec: {name: "IN AL, DX"},
	0xed: {name: "IN AX, DX"},
	0xee: {name: "OUT DX, AL"},
	0xef: {name: "OUT DX, AX"},
	0xf0: {name: "LOCK"},
	0xf1: {name: "???"},
	0xf2: {name: "REPNZ"},
	0xf3: {name: "REP"},
	0xf4: {name: "HLT", fn: hlt},
	0xf5: {name: "CMC", fn: cmc},
	0xf6: {name: "GRP3 r/m8", operands: 2},
	0xf7: {name: "GRP3 r/m16", operands: 2},
	0xf8: {name: "CLC", fn: setFlagTo(FlagCarry, false)},
	0xf9: {name: "STC", fn: setFlagTo(FlagCarry, true)},
	0xfa: {name: "CLI", fn: setFlagTo(FlagInterrupt, false)},
	0xfb: {name: "STI", fn: setFlagTo(FlagInterrupt, true)},
	0xfc: {name: "CLD", fn: setFlagTo(FlagDirection, false)},
	0xfd: {name: "STD", fn: setFlagTo(FlagDirection, true)},
	0xfe: {name: "GRP4 r/m8", operands: 2},
	0xff: {name: "GRP5 r/m16", operands: 2},
}

// opcodeIsSupported reports whether executing opcode does anything but halt.
func opcodeIsSupported(opcode uint8) bool {
	return instrs[opcode].fn != nil
}
