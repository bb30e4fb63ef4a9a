// Package ppu implements the Ricoh 2C02 picture processing unit: the
// 262x341 scanline/dot state machine, the nine CPU-visible registers,
// VRAM/OAM/palette storage, and nametable mirroring. Pixel rendering
// itself is out-of-core (see the raster package): this package exposes
// the accessors a renderer needs and nothing more.
package ppu

import "github.com/nesgo/nesgo/cartridge"

const (
	VRAMSize    = 2048
	OAMSize     = 256
	PaletteSize = 32
)

const (
	NESWidth  = 256
	NESHeight = 240
)

// spritePriority is OAM byte 2 bit 5: whether the sprite draws in
// front of or behind the background.
type spritePriority uint8

const (
	spriteFront spritePriority = iota
	spriteBehind
)

// decodedSprite is one 4-byte OAM entry unpacked for sprite-0-hit
// detection and rasterization.
type decodedSprite struct {
	y, x     uint8
	tileID   uint8
	palette  uint8
	priority spritePriority
	flipH    bool
	flipV    bool
}

// decodeSprite unpacks a 4-byte OAM entry.
// in[2], the attribute byte:
//
//	76543210
//	||||||||
//	||||||++- Palette (4 to 7) of sprite
//	|||+++--- Unimplemented (reads 0)
//	||+------ Priority (0: in front of background; 1: behind background)
//	|+------- Flip sprite horizontally
//	+-------- Flip sprite vertically
func decodeSprite(in []uint8) decodedSprite {
	return decodedSprite{
		y:        in[0],
		tileID:   in[1],
		palette:  in[2] & 0x03,
		priority: spritePriority((in[2] & 0x20) >> 5),
		flipH:    (in[2]&0x40)>>6 == 1,
		flipV:    (in[2]&0x80)>>7 == 1,
		x:        in[3],
	}
}

// CPU-visible register addresses.
const (
	PPUCTRL   = 0x2000
	PPUMASK   = 0x2001
	PPUSTATUS = 0x2002
	OAMADDR   = 0x2003
	OAMDATA   = 0x2004
	PPUSCROLL = 0x2005
	PPUADDR   = 0x2006
	PPUDATA   = 0x2007
	OAMDMA    = 0x4014
)

// PPUCTRL bits.
const (
	CtrlNametableLo  = 1 << 0
	CtrlNametableHi  = 1 << 1
	CtrlVRAMIncrDown = 1 << 2
	CtrlSpritePat    = 1 << 3
	CtrlBGPat        = 1 << 4
	CtrlSpriteSize   = 1 << 5
	CtrlMasterSlave  = 1 << 6
	CtrlGenerateNMI  = 1 << 7
)

// PPUMASK bits.
const (
	MaskGreyscale   = 1 << 0
	MaskShowBGLeft  = 1 << 1
	MaskShowSprLeft = 1 << 2
	MaskShowBG      = 1 << 3
	MaskShowSprites = 1 << 4
	MaskEmphasizeR  = 1 << 5
	MaskEmphasizeG  = 1 << 6
	MaskEmphasizeB  = 1 << 7
)

// PPUSTATUS bits.
const (
	StatusSpriteOverflow = 1 << 5
	StatusSprite0Hit     = 1 << 6
	StatusVBlank         = 1 << 7
)

// Bus is everything the PPU needs from the rest of the machine: CHR
// access (ROM or RAM, owned by the mapper), the cartridge's mirroring
// mode, and the NMI line into the CPU.
type Bus interface {
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, val uint8)
	MirrorMode() cartridge.Mirroring
	TriggerNMI()
}

// PPU holds all 2C02 architectural state.
type PPU struct {
	bus Bus

	oam          [OAMSize]uint8
	vram         [VRAMSize]uint8
	paletteTable [PaletteSize]uint8

	ctrl, mask, status uint8
	oamAddr            uint8

	v, t   uint16 // current/temp VRAM address; 15 bits used
	x      uint8  // fine X scroll; 3 bits used
	w      bool   // write-toggle latch shared by PPUSCROLL/PPUADDR
	buffer uint8  // buffered PPUDATA read

	Scanline int // 0-239 visible, 240 post-render, 241-260 vblank, 261 pre-render
	Dot      int // 0-340

	frameOdd  bool
	frameDone bool // one-shot latch consumed by FrameComplete
}

func New(bus Bus) *PPU {
	return &PPU{bus: bus, Scanline: 261}
}

// Reset returns the PPU to its post-power-on state.
func (p *PPU) Reset() {
	p.ctrl, p.mask, p.status, p.oamAddr = 0, 0, 0, 0
	p.v, p.t, p.x = 0, 0, 0
	p.w, p.buffer = false, 0
	p.Scanline, p.Dot, p.frameOdd = 261, 0, false
	p.frameDone = false
}

// WriteReg implements the write side of spec.md §4.5's register table.
func (p *PPU) WriteReg(r uint16, val uint8) {
	switch r {
	case PPUCTRL:
		hadNMI := p.ctrl&CtrlGenerateNMI != 0
		p.ctrl = val
		p.t = (p.t &^ 0x0C00) | (uint16(val&0x03) << 10)
		if !hadNMI && val&CtrlGenerateNMI != 0 && p.status&StatusVBlank != 0 {
			p.bus.TriggerNMI() // edge rule: 0->1 while VBlank already set arms immediately
		}
	case PPUMASK:
		p.mask = val
	case OAMADDR:
		p.oamAddr = val
	case OAMDATA:
		p.oam[p.oamAddr] = val
		p.oamAddr++
	case PPUSCROLL:
		if !p.w {
			p.t = (p.t &^ 0x001F) | uint16(val>>3)
			p.x = val & 0x07
		} else {
			p.t = (p.t &^ 0x73E0) | (uint16(val&0x07) << 12) | (uint16(val&0xF8) << 2)
		}
		p.w = !p.w
	case PPUADDR:
		if !p.w {
			p.t = (p.t & 0x00FF) | (uint16(val&0x3F) << 8)
		} else {
			p.t = (p.t & 0xFF00) | uint16(val)
			p.v = p.t
		}
		p.w = !p.w
	case PPUDATA:
		p.writeVRAM(p.v, val)
		p.incrementV()
	}
}

// ReadReg implements the read side of spec.md §4.5's register table.
func (p *PPU) ReadReg(r uint16) uint8 {
	switch r {
	case PPUSTATUS:
		result := p.status
		p.status &^= StatusVBlank
		p.w = false
		return result
	case OAMDATA:
		return p.oam[p.oamAddr]
	case PPUDATA:
		addr := p.v % 0x4000
		var result uint8
		if addr < 0x3F00 {
			result = p.buffer
			p.buffer = p.readVRAM(addr)
		} else {
			result = p.readVRAM(addr)
			p.buffer = p.readVRAM(addr - 0x1000) // nametable underneath the palette mirror
		}
		p.incrementV()
		return result
	default:
		return 0 // open bus
	}
}

// DMAWrite implements the OAMDMA write side: the bus copies 256 bytes
// from a CPU page into OAM, starting at the current OAMADDR and
// wrapping, charging its own cycle cost (spec.md §4.5).
func (p *PPU) DMAWrite(val uint8) {
	p.oam[p.oamAddr] = val
	p.oamAddr++
}

func (p *PPU) incrementV() {
	step := uint16(1)
	if p.ctrl&CtrlVRAMIncrDown != 0 {
		step = 32
	}
	p.v = (p.v + step) & 0x7FFF
}

// mirrorAddr maps a 0x2000-0x2FFF nametable address into the PPU's 2
// KiB of physical VRAM per spec.md §4.5's literal Horizontal/Vertical
// rule. FourScreen leaves nametables 2 and 3 unbacked, as the spec
// explicitly allows.
func (p *PPU) mirrorAddr(addr uint16) (idx uint16, ok bool) {
	a := (addr - 0x2000) % 0x1000
	nt := a / 0x400
	off := a % 0x400
	switch p.bus.MirrorMode() {
	case cartridge.Horizontal:
		return (nt/2)*0x400 + off, true
	case cartridge.Vertical:
		return (nt%2)*0x400 + off, true
	default: // FourScreen
		if nt < 2 {
			return nt*0x400 + off, true
		}
		return 0, false
	}
}

func (p *PPU) readVRAM(addr uint16) uint8 {
	addr %= 0x4000
	switch {
	case addr < 0x2000:
		return p.bus.ChrRead(addr)
	case addr < 0x3F00:
		if idx, ok := p.mirrorAddr(addr); ok {
			return p.vram[idx]
		}
		return 0
	default:
		return p.paletteTable[palIndex(addr)]
	}
}

func (p *PPU) writeVRAM(addr uint16, val uint8) {
	addr %= 0x4000
	switch {
	case addr < 0x2000:
		p.bus.ChrWrite(addr, val)
	case addr < 0x3F00:
		if idx, ok := p.mirrorAddr(addr); ok {
			p.vram[idx] = val
		}
	default:
		p.paletteTable[palIndex(addr)] = val
	}
}

// palIndex folds the palette mirror range down to 32 entries, further
// mirroring the four backdrop-color slots per NESDev's documented
// palette RAM quirk.
func palIndex(addr uint16) uint16 {
	idx := (addr - 0x3F00) % 0x20
	if idx%4 == 0 {
		idx = 0 // $3F04/$3F08/$3F0C/$3F10/... all alias $3F00
	}
	return idx
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(MaskShowBG|MaskShowSprites) != 0
}

// Tick advances the PPU by n dots, implementing spec.md §4.5's state
// machine: VBlank set (and NMI armed) at (241,1); VBlank/sprite-0-hit/
// sprite-overflow cleared at (261,1); sprite-0-hit declared (REDESIGN
// FLAG: SET, never cleared, on hit) while rendering is enabled.
func (p *PPU) Tick(n int) {
	for i := 0; i < n; i++ {
		p.tickOne()
	}
}

func (p *PPU) tickOne() {
	if p.Scanline == 241 && p.Dot == 1 {
		p.status |= StatusVBlank
		if p.ctrl&CtrlGenerateNMI != 0 {
			p.bus.TriggerNMI()
		}
	}
	if p.Scanline == 261 && p.Dot == 1 {
		p.status &^= StatusVBlank | StatusSprite0Hit | StatusSpriteOverflow
	}

	if p.Scanline >= 0 && p.Scanline <= 239 && p.renderingEnabled() && p.spriteZeroHit() {
		p.status |= StatusSprite0Hit
	}

	p.Dot++
	if p.Dot > 340 {
		p.Dot = 0
		p.Scanline++
		if p.Scanline > 261 {
			p.Scanline = 0
			p.frameOdd = !p.frameOdd
			p.frameDone = true
		}
	}
}

func (p *PPU) spriteZeroHit() bool {
	s := decodeSprite(p.oam[0:4])
	return int(s.y) == p.Scanline && int(s.x) <= p.Dot
}

// FrameComplete reports, and clears, a one-shot latch set the instant
// the scanline counter rolls from 261 back to 0. It is a latch rather
// than an equality test on Scanline/Dot because Tick is driven in
// multi-dot bursts (the bus advances 3 dots per CPU cycle, and 262*341
// isn't a multiple of 3) -- sampling (Scanline,Dot) only between bursts
// would miss most frame completions, since the boundary dot rarely
// lands exactly on a burst's edge.
func (p *PPU) FrameComplete() bool {
	if p.frameDone {
		p.frameDone = false
		return true
	}
	return false
}

// --- rasterizer-facing accessors (spec.md §4.7) ---

func (p *PPU) ScrollX() uint8 { return p.x }
func (p *PPU) ScrollY() uint8 { return uint8((p.v & 0x7000) >> 12) }

// BaseNametable returns which of the 4 logical nametables PPUCTRL bits
// 0-1 select.
func (p *PPU) BaseNametable() uint16 {
	return uint16(p.ctrl&0x03) * 0x400
}

func (p *PPU) NametableByte(nametable uint16, offset uint16) uint8 {
	return p.readVRAM(0x2000 + nametable + offset)
}

func (p *PPU) BackgroundPatternBase() uint16 {
	if p.ctrl&CtrlBGPat != 0 {
		return 0x1000
	}
	return 0
}

func (p *PPU) SpritePatternBase() uint16 {
	if p.ctrl&CtrlSpritePat != 0 {
		return 0x1000
	}
	return 0
}

func (p *PPU) PatternByte(base, tile uint16, row uint8, plane int) uint8 {
	addr := base + tile*16 + uint16(row)
	if plane == 1 {
		addr += 8
	}
	return p.bus.ChrRead(addr)
}

func (p *PPU) OAMBytes() []uint8 { return p.oam[:] }

func (p *PPU) PaletteByte(i uint8) uint8 { return p.paletteTable[i%PaletteSize] }

func (p *PPU) SpriteSize8x16() bool { return p.ctrl&CtrlSpriteSize != 0 }

func (p *PPU) ShowBackground() bool { return p.mask&MaskShowBG != 0 }
func (p *PPU) ShowSprites() bool    { return p.mask&MaskShowSprites != 0 }

// Sprite is the decoded form of one 4-byte OAM entry, exported for the
// raster package since decodedSprite itself stays unexported (it is used
// internally for sprite-0-hit detection and converted here by SpriteAt).
type Sprite struct {
	Y, X             uint8
	TileID           uint8
	Palette          uint8
	BehindBackground bool
	FlipH, FlipV     bool
}

// SpriteAt decodes OAM entry i (0-63) for the rasterizer.
func (p *PPU) SpriteAt(i int) Sprite {
	o := decodeSprite(p.oam[i*4 : i*4+4])
	return Sprite{
		Y: o.y, X: o.x, TileID: o.tileID,
		Palette:          o.palette,
		BehindBackground: o.priority == spriteBehind,
		FlipH:            o.flipH,
		FlipV:            o.flipV,
	}
}
