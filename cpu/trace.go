package cpu

import (
	"fmt"
	"strings"
)

// nonReadableAddresses lists memory-mapped registers trace must not
// read for display purposes, since reading them either has side effects
// (PPUSTATUS clears VBlank and the write latch, PPUDATA advances the
// VRAM address, controller ports shift a bit) or is an UnsupportedRead
// (the write-only PPU registers and OAMDMA). nestest.log expects these shown as 00
// without the CPU actually performing the read.
var nonReadableAddresses = map[uint16]bool{
	0x2000: true, 0x2001: true, 0x2002: true, 0x2003: true,
	0x2004: true, 0x2005: true, 0x2006: true, 0x2007: true,
	0x4014: true, 0x4016: true, 0x4017: true,
}

// PPUClock is whatever the trace line's PPU:scanline,dot columns need;
// supplied by the bus so this package stays PPU-agnostic.
type PPUClock interface {
	Scanline() int
	Dot() int
}

// Trace renders one nestest.log-format line describing the instruction
// about to execute at c.PC, without mutating CPU or Bus state (besides
// the memory reads the real Step would also perform, skipped for the
// registers listed in nonReadableAddresses).
func Trace(c *CPU, ppu PPUClock) string {
	pc := c.PC
	raw := c.read(pc)
	op, ok := opcodeTable[raw]
	if !ok {
		return fmt.Sprintf("%04X  %02X  UNKNOWN", pc, raw)
	}

	hexBytes := []uint8{raw}
	var memAddr uint16
	var stored uint8
	hasOperand := op.Mode != ModeImplied && op.Mode != ModeAccumulator &&
		op.Mode != ModeImmediate
	if hasOperand {
		c.PC = pc + 1 // operandAddr expects PC just past the opcode byte
		addr, _ := c.operandAddr(op.Mode)
		c.PC = pc
		memAddr = addr
		if op.Mode != ModeRelative && !nonReadableAddresses[addr] {
			stored = c.read(addr)
		}
	}

	var operandStr string
	switch op.Bytes {
	case 1:
		if op.Mode == ModeAccumulator {
			operandStr = "A"
		}
	case 2:
		b := c.read(pc + 1)
		hexBytes = append(hexBytes, b)
		switch op.Mode {
		case ModeImmediate:
			operandStr = fmt.Sprintf("#$%02X", b)
		case ModeZeroPage:
			operandStr = fmt.Sprintf("$%02X = %02X", memAddr, stored)
		case ModeZeroPageX:
			operandStr = fmt.Sprintf("$%02X,X @ %02X = %02X", b, memAddr, stored)
		case ModeZeroPageY:
			operandStr = fmt.Sprintf("$%02X,Y @ %02X = %02X", b, memAddr, stored)
		case ModeIndirectX:
			operandStr = fmt.Sprintf("($%02X,X) @ %02X = %04X = %02X", b, b+c.X, memAddr, stored)
		case ModeIndirectY:
			base := memAddr - uint16(c.Y)
			operandStr = fmt.Sprintf("($%02X),Y = %04X @ %04X = %02X", b, base, memAddr, stored)
		case ModeRelative:
			operandStr = fmt.Sprintf("$%04X", memAddr)
		}
	case 3:
		lo := c.read(pc + 1)
		hi := c.read(pc + 2)
		hexBytes = append(hexBytes, lo, hi)
		ptr := uint16(hi)<<8 | uint16(lo)
		switch op.Mode {
		case ModeIndirect:
			operandStr = fmt.Sprintf("($%04X) = %04X", ptr, memAddr)
		case ModeAbsolute:
			if op.Name == "JMP" || op.Name == "JSR" {
				operandStr = fmt.Sprintf("$%04X", memAddr)
			} else {
				operandStr = fmt.Sprintf("$%04X = %02X", memAddr, stored)
			}
		case ModeAbsoluteX:
			operandStr = fmt.Sprintf("$%04X,X @ %04X = %02X", ptr, memAddr, stored)
		case ModeAbsoluteY:
			operandStr = fmt.Sprintf("$%04X,Y @ %04X = %02X", ptr, memAddr, stored)
		}
	}

	// DOP/TOP are multi-byte NOPs; nestest.log renders every one of
	// them (and every other illegal opcode) with its mnemonic, except
	// these two which print as plain *NOP regardless of addressing mode.
	name := op.Name
	if name == "DOP" || name == "TOP" {
		name = "NOP"
	}
	if op.Illegal {
		name = "*" + name
	}

	hexParts := make([]string, len(hexBytes))
	for i, b := range hexBytes {
		hexParts[i] = fmt.Sprintf("%02X", b)
	}
	hexStr := strings.Join(hexParts, " ")

	asm := strings.TrimRight(fmt.Sprintf("%04X  %-8s %4s%s", pc, hexStr, name, " "+operandStr), " ")

	scanline, dot := 0, 0
	if ppu != nil {
		scanline, dot = ppu.Scanline(), ppu.Dot()
	}

	return fmt.Sprintf("%-47s A:%02X X:%02X Y:%02X P:%02X SP:%02X PPU:%3d,%3d CYC:%d",
		asm, c.A, c.X, c.Y, c.P, c.SP, scanline, dot, c.Cycles)
}
