// Package bus wires the CPU, PPU, cartridge mapper and controllers
// together behind the 16-bit CPU address space, exactly as spec.md
// §4.4 tabulates it. It owns the machine's Run loop and end-of-frame
// callback; embedders drive the whole console through this package.
package bus

import (
	"context"
	"fmt"

	"github.com/nesgo/nesgo/cartridge"
	"github.com/nesgo/nesgo/controller"
	"github.com/nesgo/nesgo/cpu"
	"github.com/nesgo/nesgo/mappers"
	"github.com/nesgo/nesgo/ppu"
)

const ramSize = 0x0800 // 2 KiB work RAM

// Addresses outside RAM/PPU-register space.
const (
	ctrl1Port = 0x4016
	ctrl2Port = 0x4017
	oamdma    = 0x4014
)

// Error is a fatal bus condition (spec.md §7): unsupported reads/
// writes of write-only/read-only PPU registers, and writes into
// PRG-ROM. Read/Write panic with *Error; CPU.Step recovers it into a
// normal returned error.
type Error struct {
	Kind string
	Addr uint16
}

func (e *Error) Error() string { return fmt.Sprintf("%s(0x%04X)", e.Kind, e.Addr) }

// writeOnlyPPURegs are PPU registers that panic with UnsupportedRead if
// read directly (as opposed to through the trace path, which
// pre-filters them).
var writeOnlyPPURegs = map[uint16]bool{
	ppu.PPUCTRL: true, ppu.PPUMASK: true, ppu.OAMADDR: true,
	ppu.PPUSCROLL: true, ppu.PPUADDR: true,
}

// FrameCallback is invoked exactly once per completed PPU frame, with
// read-only PPU access and mutable controller access (spec.md §6's
// embedding API). ctrl1/ctrl2 may be nil if the host doesn't wire that
// port.
type FrameCallback func(p *ppu.PPU, ctrl1, ctrl2 *controller.Controller)

// Bus is the machine: CPU + PPU + mapper + RAM + two controller ports.
type Bus struct {
	CPU    *cpu.CPU
	PPU    *ppu.PPU
	Mapper mappers.Mapper
	Ctrl1  *controller.Controller
	Ctrl2  *controller.Controller

	ram [ramSize]uint8

	onFrame FrameCallback
}

// New wires a Bus around an already-resolved mapper. The CPU and PPU
// are constructed here since both need a back-reference to the Bus.
func New(m mappers.Mapper) *Bus {
	b := &Bus{Mapper: m, Ctrl1: &controller.Controller{}, Ctrl2: &controller.Controller{}}
	b.PPU = ppu.New(b)
	b.CPU = cpu.New(b)
	return b
}

// OnFrame installs the per-frame callback; spec.md §6 allows at most
// one.
func (b *Bus) OnFrame(cb FrameCallback) { b.onFrame = cb }

// MirrorMode and ChrRead/ChrWrite satisfy ppu.Bus.
func (b *Bus) MirrorMode() cartridge.Mirroring { return b.Mapper.MirroringMode() }
func (b *Bus) ChrRead(addr uint16) uint8       { return b.Mapper.ChrRead(addr) }
func (b *Bus) ChrWrite(addr uint16, v uint8)   { b.Mapper.ChrWrite(addr, v) }

// TriggerNMI satisfies ppu.Bus; forwarded straight to the CPU.
func (b *Bus) TriggerNMI() { b.CPU.TriggerNMI() }

// Read implements the CPU-side address decode of spec.md §4.4.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x1FFF:
		return b.ram[addr&0x07FF]
	case addr <= 0x3FFF:
		reg := 0x2000 + addr&0x0007
		if writeOnlyPPURegs[reg] {
			panic(&Error{"UnsupportedRead", addr})
		}
		return b.PPU.ReadReg(reg)
	case addr == oamdma:
		panic(&Error{"UnsupportedRead", addr})
	case addr == ctrl1Port:
		return b.Ctrl1.Read()
	case addr == ctrl2Port:
		return b.Ctrl2.Read()
	case addr < 0x4020:
		return 0
	case addr < 0x8000:
		return 0
	default:
		return b.Mapper.PrgRead(addr)
	}
}

// Write implements the CPU-side address decode of spec.md §4.4.
func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr <= 0x1FFF:
		b.ram[addr&0x07FF] = val
	case addr <= 0x3FFF:
		reg := 0x2000 + addr&0x0007
		if reg == ppu.PPUSTATUS {
			panic(&Error{"UnsupportedWrite", addr})
		}
		b.PPU.WriteReg(reg, val)
	case addr == oamdma:
		b.doOAMDMA(val)
	case addr == ctrl1Port:
		b.Ctrl1.Write(val)
		b.Ctrl2.Write(val) // both ports share the strobe line
	case addr == ctrl2Port:
		// $4017 is APU frame-counter on real hardware; controller 2's
		// shift register is read-only here, matching spec.md §4.6.
	case addr < 0x4020:
		// APU/IO: no-op.
	case addr < 0x8000:
		// no-op: no SRAM/expansion support in this core.
	default:
		panic(&Error{"ROMWriteForbidden", addr})
	}
}

// doOAMDMA copies 256 bytes from CPU page val<<8 into OAM, starting at
// the PPU's current OAMADDR (spec.md §4.5); it charges 513 extra CPU
// cycles (512 for the transfer plus one alignment cycle) by calling
// Tick(513) itself, which advances the PPU by 3*513 dots.
func (b *Bus) doOAMDMA(val uint8) {
	base := uint16(val) << 8
	for i := 0; i < 256; i++ {
		b.PPU.DMAWrite(b.Read(base + uint16(i)))
	}
	b.Tick(513)
}

// Tick implements cpu.Bus: advances the cycle-driven PPU by 3n dots
// and fires the frame callback exactly once per completed frame.
func (b *Bus) Tick(n int) {
	for i := 0; i < n; i++ {
		b.PPU.Tick(3)
		if b.PPU.FrameComplete() && b.onFrame != nil {
			b.onFrame(b.PPU, b.Ctrl1, b.Ctrl2)
		}
	}
}

// ppuClock adapts *ppu.PPU's exported Scanline/Dot fields to the
// method-shaped cpu.PPUClock interface Trace expects.
type ppuClock struct{ p *ppu.PPU }

func (c ppuClock) Scanline() int { return c.p.Scanline }
func (c ppuClock) Dot() int      { return c.p.Dot }

// Trace renders a nestest.log-style line describing the instruction
// about to execute, for debugger and conformance-test use.
func (b *Bus) Trace() string { return cpu.Trace(b.CPU, ppuClock{b.PPU}) }

// Run drives the CPU to completion (until KIL or a fatal error), with
// step invoked before every instruction fetch for tracing/test
// harnesses, per spec.md §6.
func (b *Bus) Run(ctx context.Context, step cpu.StepFunc) error {
	wrapped := func(c *cpu.CPU) {
		if step != nil {
			step(c)
		}
	}
	done := make(chan error, 1)
	go func() { done <- b.CPU.Run(wrapped) }()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
