package cpu

// AddrMode identifies a 6502 addressing mode. Operand byte widths per
// spec.md §4.2: Implied/Accumulator 0; Immediate/Relative/ZeroPage
// family/(Indirect,X)/(Indirect),Y 1; Absolute family/Indirect 2.
type AddrMode uint8

const (
	ModeImplied AddrMode = iota
	ModeAccumulator
	ModeImmediate
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
	ModeRelative
	ModeAbsolute
	ModeAbsoluteX
	ModeAbsoluteY
	ModeIndirect
	ModeIndirectX
	ModeIndirectY
)

// execFn implements one instruction. It receives the effective
// address already resolved by operandAddr (0/unused for Implied and
// Accumulator), the addressing mode (so ASL/LSR/ROL/ROR and the
// illegal RMW family can tell accumulator from memory operands), and
// whether indexing crossed a page. It returns any cycle cost beyond
// (base + generic page-cross bonus) — nonzero only for branches.
type execFn func(c *CPU, addr uint16, mode AddrMode, crossed bool) int

// opcode is the dense, byte-keyed table entry spec.md §4.2 and §9
// call for: a single table read followed by a per-mnemonic function
// pointer, in place of a giant switch or reflection-based dispatch.
type opcode struct {
	Name      string
	Mode      AddrMode
	Bytes     uint8
	Cycles    uint8
	PageCheck bool // add 1 cycle if operandAddr reported a page cross
	Illegal   bool
}

var opcodeTable = map[uint8]opcode{}
var opcodeFns = map[uint8]execFn{}

func def(b uint8, name string, mode AddrMode, bytes, cycles uint8, pageCheck bool, illegal bool, fn execFn) {
	if _, ok := opcodeTable[b]; ok {
		panic("cpu: duplicate opcode 0x" + hex2(b))
	}
	opcodeTable[b] = opcode{Name: name, Mode: mode, Bytes: bytes, Cycles: cycles, PageCheck: pageCheck, Illegal: illegal}
	opcodeFns[b] = fn
}

func hex2(b uint8) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{digits[b>>4], digits[b&0xF]})
}

func init() {
	// --- official opcodes ---
	def(0x69, "ADC", ModeImmediate, 2, 2, false, false, adc)
	def(0x65, "ADC", ModeZeroPage, 2, 3, false, false, adc)
	def(0x75, "ADC", ModeZeroPageX, 2, 4, false, false, adc)
	def(0x6D, "ADC", ModeAbsolute, 3, 4, false, false, adc)
	def(0x7D, "ADC", ModeAbsoluteX, 3, 4, true, false, adc)
	def(0x79, "ADC", ModeAbsoluteY, 3, 4, true, false, adc)
	def(0x61, "ADC", ModeIndirectX, 2, 6, false, false, adc)
	def(0x71, "ADC", ModeIndirectY, 2, 5, true, false, adc)

	def(0x29, "AND", ModeImmediate, 2, 2, false, false, and)
	def(0x25, "AND", ModeZeroPage, 2, 3, false, false, and)
	def(0x35, "AND", ModeZeroPageX, 2, 4, false, false, and)
	def(0x2D, "AND", ModeAbsolute, 3, 4, false, false, and)
	def(0x3D, "AND", ModeAbsoluteX, 3, 4, true, false, and)
	def(0x39, "AND", ModeAbsoluteY, 3, 4, true, false, and)
	def(0x21, "AND", ModeIndirectX, 2, 6, false, false, and)
	def(0x31, "AND", ModeIndirectY, 2, 5, true, false, and)

	def(0x0A, "ASL", ModeAccumulator, 1, 2, false, false, asl)
	def(0x06, "ASL", ModeZeroPage, 2, 5, false, false, asl)
	def(0x16, "ASL", ModeZeroPageX, 2, 6, false, false, asl)
	def(0x0E, "ASL", ModeAbsolute, 3, 6, false, false, asl)
	def(0x1E, "ASL", ModeAbsoluteX, 3, 7, false, false, asl)

	def(0x90, "BCC", ModeRelative, 2, 2, false, false, branch(FlagCarry, false))
	def(0xB0, "BCS", ModeRelative, 2, 2, false, false, branch(FlagCarry, true))
	def(0xF0, "BEQ", ModeRelative, 2, 2, false, false, branch(FlagZero, true))
	def(0x30, "BMI", ModeRelative, 2, 2, false, false, branch(FlagNegative, true))
	def(0xD0, "BNE", ModeRelative, 2, 2, false, false, branch(FlagZero, false))
	def(0x10, "BPL", ModeRelative, 2, 2, false, false, branch(FlagNegative, false))
	def(0x50, "BVC", ModeRelative, 2, 2, false, false, branch(FlagOverflow, false))
	def(0x70, "BVS", ModeRelative, 2, 2, false, false, branch(FlagOverflow, true))

	def(0x24, "BIT", ModeZeroPage, 2, 3, false, false, bit)
	def(0x2C, "BIT", ModeAbsolute, 3, 4, false, false, bit)

	def(0x00, "BRK", ModeImplied, 2, 7, false, false, brk)

	def(0x18, "CLC", ModeImplied, 1, 2, false, false, clc)
	def(0xD8, "CLD", ModeImplied, 1, 2, false, false, cld)
	def(0x58, "CLI", ModeImplied, 1, 2, false, false, cli)
	def(0xB8, "CLV", ModeImplied, 1, 2, false, false, clv)

	def(0xC9, "CMP", ModeImmediate, 2, 2, false, false, cmp)
	def(0xC5, "CMP", ModeZeroPage, 2, 3, false, false, cmp)
	def(0xD5, "CMP", ModeZeroPageX, 2, 4, false, false, cmp)
	def(0xCD, "CMP", ModeAbsolute, 3, 4, false, false, cmp)
	def(0xDD, "CMP", ModeAbsoluteX, 3, 4, true, false, cmp)
	def(0xD9, "CMP", ModeAbsoluteY, 3, 4, true, false, cmp)
	def(0xC1, "CMP", ModeIndirectX, 2, 6, false, false, cmp)
	def(0xD1, "CMP", ModeIndirectY, 2, 5, true, false, cmp)

	def(0xE0, "CPX", ModeImmediate, 2, 2, false, false, cpx)
	def(0xE4, "CPX", ModeZeroPage, 2, 3, false, false, cpx)
	def(0xEC, "CPX", ModeAbsolute, 3, 4, false, false, cpx)

	def(0xC0, "CPY", ModeImmediate, 2, 2, false, false, cpy)
	def(0xC4, "CPY", ModeZeroPage, 2, 3, false, false, cpy)
	def(0xCC, "CPY", ModeAbsolute, 3, 4, false, false, cpy)

	def(0xC6, "DEC", ModeZeroPage, 2, 5, false, false, dec)
	def(0xD6, "DEC", ModeZeroPageX, 2, 6, false, false, dec)
	def(0xCE, "DEC", ModeAbsolute, 3, 6, false, false, dec)
	def(0xDE, "DEC", ModeAbsoluteX, 3, 7, false, false, dec)

	def(0xCA, "DEX", ModeImplied, 1, 2, false, false, dex)
	def(0x88, "DEY", ModeImplied, 1, 2, false, false, dey)

	def(0x49, "EOR", ModeImmediate, 2, 2, false, false, eor)
	def(0x45, "EOR", ModeZeroPage, 2, 3, false, false, eor)
	def(0x55, "EOR", ModeZeroPageX, 2, 4, false, false, eor)
	def(0x4D, "EOR", ModeAbsolute, 3, 4, false, false, eor)
	def(0x5D, "EOR", ModeAbsoluteX, 3, 4, true, false, eor)
	def(0x59, "EOR", ModeAbsoluteY, 3, 4, true, false, eor)
	def(0x41, "EOR", ModeIndirectX, 2, 6, false, false, eor)
	def(0x51, "EOR", ModeIndirectY, 2, 5, true, false, eor)

	def(0xE6, "INC", ModeZeroPage, 2, 5, false, false, inc)
	def(0xF6, "INC", ModeZeroPageX, 2, 6, false, false, inc)
	def(0xEE, "INC", ModeAbsolute, 3, 6, false, false, inc)
	def(0xFE, "INC", ModeAbsoluteX, 3, 7, false, false, inc)

	def(0xE8, "INX", ModeImplied, 1, 2, false, false, inx)
	def(0xC8, "INY", ModeImplied, 1, 2, false, false, iny)

	def(0x4C, "JMP", ModeAbsolute, 3, 3, false, false, jmp)
	def(0x6C, "JMP", ModeIndirect, 3, 5, false, false, jmp)
	def(0x20, "JSR", ModeAbsolute, 3, 6, false, false, jsr)

	def(0xA9, "LDA", ModeImmediate, 2, 2, false, false, lda)
	def(0xA5, "LDA", ModeZeroPage, 2, 3, false, false, lda)
	def(0xB5, "LDA", ModeZeroPageX, 2, 4, false, false, lda)
	def(0xAD, "LDA", ModeAbsolute, 3, 4, false, false, lda)
	def(0xBD, "LDA", ModeAbsoluteX, 3, 4, true, false, lda)
	def(0xB9, "LDA", ModeAbsoluteY, 3, 4, true, false, lda)
	def(0xA1, "LDA", ModeIndirectX, 2, 6, false, false, lda)
	def(0xB1, "LDA", ModeIndirectY, 2, 5, true, false, lda)

	def(0xA2, "LDX", ModeImmediate, 2, 2, false, false, ldx)
	def(0xA6, "LDX", ModeZeroPage, 2, 3, false, false, ldx)
	def(0xB6, "LDX", ModeZeroPageY, 2, 4, false, false, ldx)
	def(0xAE, "LDX", ModeAbsolute, 3, 4, false, false, ldx)
	def(0xBE, "LDX", ModeAbsoluteY, 3, 4, true, false, ldx)

	def(0xA0, "LDY", ModeImmediate, 2, 2, false, false, ldy)
	def(0xA4, "LDY", ModeZeroPage, 2, 3, false, false, ldy)
	def(0xB4, "LDY", ModeZeroPageX, 2, 4, false, false, ldy)
	def(0xAC, "LDY", ModeAbsolute, 3, 4, false, false, ldy)
	def(0xBC, "LDY", ModeAbsoluteX, 3, 4, true, false, ldy)

	def(0x4A, "LSR", ModeAccumulator, 1, 2, false, false, lsr)
	def(0x46, "LSR", ModeZeroPage, 2, 5, false, false, lsr)
	def(0x56, "LSR", ModeZeroPageX, 2, 6, false, false, lsr)
	def(0x4E, "LSR", ModeAbsolute, 3, 6, false, false, lsr)
	def(0x5E, "LSR", ModeAbsoluteX, 3, 7, false, false, lsr)

	def(0xEA, "NOP", ModeImplied, 1, 2, false, false, nop)

	def(0x09, "ORA", ModeImmediate, 2, 2, false, false, ora)
	def(0x05, "ORA", ModeZeroPage, 2, 3, false, false, ora)
	def(0x15, "ORA", ModeZeroPageX, 2, 4, false, false, ora)
	def(0x0D, "ORA", ModeAbsolute, 3, 4, false, false, ora)
	def(0x1D, "ORA", ModeAbsoluteX, 3, 4, true, false, ora)
	def(0x19, "ORA", ModeAbsoluteY, 3, 4, true, false, ora)
	def(0x01, "ORA", ModeIndirectX, 2, 6, false, false, ora)
	def(0x11, "ORA", ModeIndirectY, 2, 5, true, false, ora)

	def(0x48, "PHA", ModeImplied, 1, 3, false, false, pha)
	def(0x08, "PHP", ModeImplied, 1, 3, false, false, php)
	def(0x68, "PLA", ModeImplied, 1, 4, false, false, pla)
	def(0x28, "PLP", ModeImplied, 1, 4, false, false, plp)

	def(0x2A, "ROL", ModeAccumulator, 1, 2, false, false, rol)
	def(0x26, "ROL", ModeZeroPage, 2, 5, false, false, rol)
	def(0x36, "ROL", ModeZeroPageX, 2, 6, false, false, rol)
	def(0x2E, "ROL", ModeAbsolute, 3, 6, false, false, rol)
	def(0x3E, "ROL", ModeAbsoluteX, 3, 7, false, false, rol)

	def(0x6A, "ROR", ModeAccumulator, 1, 2, false, false, ror)
	def(0x66, "ROR", ModeZeroPage, 2, 5, false, false, ror)
	def(0x76, "ROR", ModeZeroPageX, 2, 6, false, false, ror)
	def(0x6E, "ROR", ModeAbsolute, 3, 6, false, false, ror)
	def(0x7E, "ROR", ModeAbsoluteX, 3, 7, false, false, ror)

	def(0x40, "RTI", ModeImplied, 1, 6, false, false, rti)
	def(0x60, "RTS", ModeImplied, 1, 6, false, false, rts)

	def(0xE9, "SBC", ModeImmediate, 2, 2, false, false, sbc)
	def(0xE5, "SBC", ModeZeroPage, 2, 3, false, false, sbc)
	def(0xF5, "SBC", ModeZeroPageX, 2, 4, false, false, sbc)
	def(0xED, "SBC", ModeAbsolute, 3, 4, false, false, sbc)
	def(0xFD, "SBC", ModeAbsoluteX, 3, 4, true, false, sbc)
	def(0xF9, "SBC", ModeAbsoluteY, 3, 4, true, false, sbc)
	def(0xE1, "SBC", ModeIndirectX, 2, 6, false, false, sbc)
	def(0xF1, "SBC", ModeIndirectY, 2, 5, true, false, sbc)

	def(0x38, "SEC", ModeImplied, 1, 2, false, false, sec)
	def(0xF8, "SED", ModeImplied, 1, 2, false, false, sed)
	def(0x78, "SEI", ModeImplied, 1, 2, false, false, sei)

	def(0x85, "STA", ModeZeroPage, 2, 3, false, false, sta)
	def(0x95, "STA", ModeZeroPageX, 2, 4, false, false, sta)
	def(0x8D, "STA", ModeAbsolute, 3, 4, false, false, sta)
	def(0x9D, "STA", ModeAbsoluteX, 3, 5, false, false, sta)
	def(0x99, "STA", ModeAbsoluteY, 3, 5, false, false, sta)
	def(0x81, "STA", ModeIndirectX, 2, 6, false, false, sta)
	def(0x91, "STA", ModeIndirectY, 2, 6, false, false, sta)

	def(0x86, "STX", ModeZeroPage, 2, 3, false, false, stx)
	def(0x96, "STX", ModeZeroPageY, 2, 4, false, false, stx)
	def(0x8E, "STX", ModeAbsolute, 3, 4, false, false, stx)

	def(0x84, "STY", ModeZeroPage, 2, 3, false, false, sty)
	def(0x94, "STY", ModeZeroPageX, 2, 4, false, false, sty)
	def(0x8C, "STY", ModeAbsolute, 3, 4, false, false, sty)

	def(0xAA, "TAX", ModeImplied, 1, 2, false, false, tax)
	def(0xA8, "TAY", ModeImplied, 1, 2, false, false, tay)
	def(0xBA, "TSX", ModeImplied, 1, 2, false, false, tsx)
	def(0x8A, "TXA", ModeImplied, 1, 2, false, false, txa)
	def(0x9A, "TXS", ModeImplied, 1, 2, false, false, txs)
	def(0x98, "TYA", ModeImplied, 1, 2, false, false, tya)

	defineIllegalOpcodes()
}
