package mappers

import "github.com/nesgo/nesgo/cartridge"

func init() {
	Register(0, newMapper0)
}

// mapper0 implements NROM: a single fixed 16 or 32 KiB PRG-ROM bank
// mapped at 0x8000-0xFFFF (mirrored if only 16 KiB), and either a
// fixed 8 KiB CHR-ROM bank or CHR-RAM when the cartridge ships none.
type mapper0 struct {
	rom    *cartridge.ROM
	chrRAM []uint8
}

func newMapper0(rom *cartridge.ROM) Mapper {
	m := &mapper0{rom: rom}
	if rom.ChrLen() == 0 {
		m.chrRAM = make([]uint8, 8192)
	}
	return m
}

func (m *mapper0) ID() uint16   { return 0 }
func (m *mapper0) Name() string { return "NROM" }

func (m *mapper0) MirroringMode() cartridge.Mirroring { return m.rom.MirroringMode() }
func (m *mapper0) HasSaveRAM() bool                   { return m.rom.HasSaveRAM() }

// PrgRead maps 0x8000-0xFFFF into the PRG bank, mirroring a single
// 16 KiB bank into the upper half per spec.md §4.4.
func (m *mapper0) PrgRead(addr uint16) uint8 {
	off := uint32(addr - 0x8000)
	if m.rom.PrgLen() == 16384 {
		off &= 0x3FFF
	}
	return m.rom.PrgRead(off)
}

// PrgWrite is a no-op: NROM PRG-ROM is read-only. The bus is
// responsible for raising ROMWriteForbidden; the mapper itself simply
// declines the write.
func (m *mapper0) PrgWrite(addr uint16, val uint8) {}

func (m *mapper0) ChrRead(addr uint16) uint8 {
	if m.chrRAM != nil {
		return m.chrRAM[addr]
	}
	return m.rom.ChrRead(uint32(addr))
}

func (m *mapper0) ChrWrite(addr uint16, val uint8) {
	if m.chrRAM != nil {
		m.chrRAM[addr] = val
	}
	// Writes to a cartridge's CHR-ROM are ignored.
}
