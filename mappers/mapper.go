// Package mappers implements and registers the cartridge mappers
// referenced numerically by an iNES header's mapper number. Only
// mapper 0 (NROM) is required by the core.
package mappers

import (
	"fmt"

	"github.com/nesgo/nesgo/cartridge"
)

// Mapper translates CPU/PPU-visible addresses into offsets within a
// cartridge's PRG/CHR banks, applying whatever bank-mirroring scheme
// the mapper implements.
type Mapper interface {
	ID() uint16
	Name() string
	MirroringMode() cartridge.Mirroring
	HasSaveRAM() bool

	// PrgRead/PrgWrite operate on CPU addresses 0x8000-0xFFFF.
	PrgRead(addr uint16) uint8
	PrgWrite(addr uint16, val uint8)

	// ChrRead/ChrWrite operate on PPU addresses 0x0000-0x1FFF.
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, val uint8)
}

type factory func(*cartridge.ROM) Mapper

var registry = map[uint16]factory{}

// Register adds a mapper constructor under id. It panics on a
// duplicate registration, the same defensive stance the teacher's
// registry took.
func Register(id uint16, f factory) {
	if _, ok := registry[id]; ok {
		panic(fmt.Sprintf("mappers: id %d already registered", id))
	}
	registry[id] = f
}

// Get constructs the mapper for rom's mapper number, or an error if
// the core doesn't implement it (spec §7: UnsupportedMapper).
func Get(rom *cartridge.ROM) (Mapper, error) {
	f, ok := registry[rom.MapperNum()]
	if !ok {
		return nil, fmt.Errorf("UnsupportedMapper: id %d", rom.MapperNum())
	}
	return f(rom), nil
}
