// Command nesgo runs an iNES v1.0 cartridge against the core
// CPU/PPU/bus package, driven by ebiten for video and input.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/nesgo/nesgo/bus"
	"github.com/nesgo/nesgo/cartridge"
	"github.com/nesgo/nesgo/cmd/nesgo/debugger"
	"github.com/nesgo/nesgo/mappers"
	"github.com/nesgo/nesgo/raster"
)

var (
	romFile = flag.String("nes_rom", "", "Path to an iNES v1.0 ROM to run.")
	debug   = flag.Bool("debug", false, "Run the bubbletea debugger instead of the ebiten video/input loop.")
)

func main() {
	flag.Parse()

	data, err := os.ReadFile(*romFile)
	if err != nil {
		log.Fatalf("reading ROM: %v", err)
	}

	rom, err := cartridge.Load(data)
	if err != nil {
		log.Fatalf("invalid ROM: %v", err)
	}

	m, err := mappers.Get(rom)
	if err != nil {
		log.Fatalf("unsupported cartridge: %v", err)
	}

	b := bus.New(m)

	if *debug {
		if err := debugger.Run(b); err != nil {
			log.Fatal(err)
		}
		return
	}

	game := &game{bus: b, frame: raster.NewFrame()}
	b.OnFrame(game.onFrame)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := b.Run(ctx, nil); err != nil {
			log.Printf("machine halted: %v", err)
		}
	}()

	ebiten.SetWindowSize(rasterWidth*2, rasterHeight*2)
	ebiten.SetWindowTitle("nesgo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
