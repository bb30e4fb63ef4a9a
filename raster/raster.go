// Package raster is the rasterizer adapter described by spec.md §4.7:
// a renderer built entirely on the ppu package's documented accessors,
// producing a host-provided RGB frame buffer once per completed frame.
// It is explicitly not cycle-exact (the PPU state machine itself
// decides vblank/NMI/sprite-0-hit timing); this package only decides
// what color each of the 256x240 pixels ends up as.
package raster

import "github.com/nesgo/nesgo/ppu"

// Frame is a host-provided pixel buffer, row-major, one RGB triple per
// pixel. Callers reuse the same Frame across calls to Draw to avoid
// reallocating every frame.
type Frame struct {
	Pix           []uint8 // len == ppu.NESWidth*ppu.NESHeight*3
	Width, Height int
}

// NewFrame allocates a Frame sized for the NES's fixed 256x240 output.
func NewFrame() *Frame {
	return &Frame{
		Pix:    make([]uint8, ppu.NESWidth*ppu.NESHeight*3),
		Width:  ppu.NESWidth,
		Height: ppu.NESHeight,
	}
}

func (f *Frame) set(x, y int, c ppu.RGB) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	i := (y*f.Width + x) * 3
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = c.R, c.G, c.B
}

// Draw renders one full frame from p's current state into f, reading
// only the accessors spec.md §4.7 lists: scroll, nametable bytes,
// pattern-table bytes, OAM, and the palette.
func Draw(p *ppu.PPU, f *Frame) {
	drawBackground(p, f)
	if p.ShowSprites() {
		drawSprites(p, f)
	}
}

// drawBackground walks the 32x30 visible tile grid of the base
// nametable, offset by ScrollX/ScrollY, sampling CHR bitplanes and the
// attribute table's 2-bit palette select. Tiles pushed past the right
// or bottom edge wrap around within the same base nametable; the
// neighbouring nametable is not read.
func drawBackground(p *ppu.PPU, f *Frame) {
	if !p.ShowBackground() {
		return
	}

	base := p.BaseNametable()
	patBase := p.BackgroundPatternBase()
	scrollX, scrollY := int(p.ScrollX()), int(p.ScrollY())

	for screenY := 0; screenY < ppu.NESHeight; screenY++ {
		worldY := screenY + scrollY
		tileRow := (worldY / 8) % 30
		fineY := uint8(worldY % 8)

		for screenX := 0; screenX < ppu.NESWidth; screenX++ {
			worldX := screenX + scrollX
			tileCol := (worldX / 8) % 32
			fineX := uint8(worldX % 8)

			ntOffset := uint16(tileRow*32 + tileCol)
			tile := uint16(p.NametableByte(base, ntOffset))

			attrOffset := uint16(0x3C0 + (tileRow/4)*8 + tileCol/4)
			attr := p.NametableByte(base, attrOffset)
			quadShift := uint((tileRow%4)/2*4 + (tileCol%4)/2*2)
			paletteIdx := (attr >> quadShift) & 0x03

			lo := p.PatternByte(patBase, tile, fineY, 0)
			hi := p.PatternByte(patBase, tile, fineY, 1)
			bit := 7 - fineX
			colorBits := ((hi>>bit)&1)<<1 | (lo>>bit)&1

			var rgb ppu.RGB
			if colorBits == 0 {
				rgb = ppu.SystemPalette[p.PaletteByte(0)&0x3F]
			} else {
				rgb = ppu.SystemPalette[p.PaletteByte(paletteIdx*4+colorBits)&0x3F]
			}
			f.set(screenX, screenY, rgb)
		}
	}
}

// drawSprites paints up to 64 OAM entries back-to-front so sprite 0
// ends up on top, honoring flip flags. The behind-background priority
// bit is not consulted: every opaque sprite pixel is drawn over the
// background.
func drawSprites(p *ppu.PPU, f *Frame) {
	patBase := p.SpritePatternBase()
	height := 8
	if p.SpriteSize8x16() {
		height = 16
	}

	for i := 63; i >= 0; i-- {
		s := p.SpriteAt(i)
		if s.Y >= 0xEF {
			continue // off-screen convention
		}

		tile := uint16(s.TileID)
		base := patBase
		if height == 16 {
			base = uint16(s.TileID&0x01) * 0x1000
			tile = uint16(s.TileID &^ 0x01)
		}

		for row := 0; row < height; row++ {
			srcRow := row
			if s.FlipV {
				srcRow = height - 1 - row
			}
			t := tile
			r := uint8(srcRow)
			if height == 16 && srcRow >= 8 {
				t++
				r = uint8(srcRow - 8)
			}

			lo := p.PatternByte(base, t, r, 0)
			hi := p.PatternByte(base, t, r, 1)

			for col := 0; col < 8; col++ {
				srcCol := col
				if !s.FlipH {
					srcCol = 7 - col
				}
				bit := uint(srcCol)
				colorBits := ((hi>>bit)&1)<<1 | (lo>>bit)&1
				if colorBits == 0 {
					continue // transparent
				}
				rgb := ppu.SystemPalette[p.PaletteByte(0x10+s.Palette*4+colorBits)&0x3F]
				f.set(int(s.X)+col, int(s.Y)+1+row, rgb)
			}
		}
	}
}
