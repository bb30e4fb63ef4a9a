package main

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/nesgo/nesgo/bus"
	"github.com/nesgo/nesgo/controller"
	"github.com/nesgo/nesgo/ppu"
	"github.com/nesgo/nesgo/raster"
)

const (
	rasterWidth  = ppu.NESWidth
	rasterHeight = ppu.NESHeight
)

// keymap mirrors the teacher's fixed standard-controller binding: one
// host key per button, polled once per ebiten Update tick.
var keymap = []struct {
	key    ebiten.Key
	button controller.Button
}{
	{ebiten.KeyZ, controller.A},
	{ebiten.KeyX, controller.B},
	{ebiten.KeySpace, controller.Select},
	{ebiten.KeyEnter, controller.Start},
	{ebiten.KeyUp, controller.Up},
	{ebiten.KeyDown, controller.Down},
	{ebiten.KeyLeft, controller.Left},
	{ebiten.KeyRight, controller.Right},
}

// game adapts the bus to ebiten's Game interface. The emulator runs on
// its own goroutine (driven by bus.Run); onFrame, called from that
// goroutine once per completed PPU frame, rasterizes into a buffer
// that Draw copies out under mu so the two goroutines never touch the
// same pixels concurrently.
type game struct {
	bus   *bus.Bus
	frame *raster.Frame

	mu     sync.Mutex
	ready  *raster.Frame
	img    *ebiten.Image
}

func (g *game) onFrame(p *ppu.PPU, ctrl1, ctrl2 *controller.Controller) {
	raster.Draw(p, g.frame)

	g.mu.Lock()
	if g.ready == nil {
		g.ready = raster.NewFrame()
	}
	copy(g.ready.Pix, g.frame.Pix)
	g.mu.Unlock()
}

// Update polls host input into controller 1 every tick; it never
// touches CPU or PPU state directly (spec.md §9).
func (g *game) Update() error {
	for _, k := range keymap {
		g.bus.Ctrl1.SetButton(k.button, ebiten.IsKeyPressed(k.key))
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ready == nil {
		return
	}
	if g.img == nil {
		g.img = ebiten.NewImage(rasterWidth, rasterHeight)
	}
	g.img.WritePixels(rgbToRGBA(g.ready))
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return rasterWidth, rasterHeight
}

// rgbToRGBA expands the rasterizer's tightly-packed RGB buffer into
// the RGBA stream ebiten.Image.WritePixels requires, at full opacity.
func rgbToRGBA(f *raster.Frame) []byte {
	out := make([]byte, f.Width*f.Height*4)
	for i := 0; i < f.Width*f.Height; i++ {
		out[i*4+0] = f.Pix[i*3+0]
		out[i*4+1] = f.Pix[i*3+1]
		out[i*4+2] = f.Pix[i*3+2]
		out[i*4+3] = 0xFF
	}
	return out
}
