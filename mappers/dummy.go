package mappers

import (
	"math"

	"github.com/nesgo/nesgo/cartridge"
)

// dummyMapper is a flat-memory test fixture: PRG and CHR reads/writes
// each index into their own 64 KiB backing array, so tests can poke arbitrary
// addresses without constructing a real cartridge.ROM.
type dummyMapper struct {
	prg []uint8
	chr []uint8
	MM  cartridge.Mirroring // tests can set as needed
}

func NewDummy() *dummyMapper {
	return &dummyMapper{
		prg: make([]uint8, math.MaxUint16+1),
		chr: make([]uint8, math.MaxUint16+1),
	}
}

func (dm *dummyMapper) ID() uint16   { return 0 }
func (dm *dummyMapper) Name() string { return "dummy mapper" }

func (dm *dummyMapper) PrgRead(addr uint16) uint8       { return dm.prg[addr] }
func (dm *dummyMapper) PrgWrite(addr uint16, val uint8) { dm.prg[addr] = val }
func (dm *dummyMapper) ChrRead(addr uint16) uint8       { return dm.chr[addr] }
func (dm *dummyMapper) ChrWrite(addr uint16, val uint8) { dm.chr[addr] = val }

func (dm *dummyMapper) MirroringMode() cartridge.Mirroring { return dm.MM }
func (dm *dummyMapper) HasSaveRAM() bool                   { return true }

// Dummy is a package-level fixture tests can share; call Reset between
// cases that rely on a clean slate.
var Dummy = NewDummy()

func (dm *dummyMapper) Reset() {
	for i := range dm.prg {
		dm.prg[i] = 0
	}
	for i := range dm.chr {
		dm.chr[i] = 0
	}
	dm.MM = cartridge.Horizontal
}
