package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedClock struct{ scanline, dot int }

func (c fixedClock) Scanline() int { return c.scanline }
func (c fixedClock) Dot() int      { return c.dot }

func TestTraceImmediateLoad(t *testing.T) {
	c, _ := newTestCPU([]uint8{0xA9, 0xC0}, 0xC000)
	c.PC = 0xC000

	line := Trace(c, fixedClock{scanline: 5, dot: 21})

	assert.Contains(t, line, "C000")
	assert.Contains(t, line, "A9 C0")
	assert.Contains(t, line, "LDA")
	assert.Contains(t, line, "#$C0")
	assert.Contains(t, line, "A:00")
	assert.Contains(t, line, "P:24")
	assert.Contains(t, line, "SP:FD")
	assert.Contains(t, line, "PPU:  5, 21")
	assert.Contains(t, line, "CYC:0")
}

func TestTraceIllegalOpcodeIsStarred(t *testing.T) {
	c, _ := newTestCPU([]uint8{0x04, 0x10}, 0xC000) // *NOP zero-page
	c.PC = 0xC000

	line := Trace(c, fixedClock{})

	assert.Contains(t, line, "*NOP")
}

func TestTraceAbsoluteStoreShowsResolvedValue(t *testing.T) {
	c, b := newTestCPU([]uint8{0x8D, 0x00, 0x02}, 0xC000) // STA $0200
	c.PC = 0xC000
	b.mem[0x0200] = 0x55

	line := Trace(c, fixedClock{})

	assert.Contains(t, line, "$0200 = 55")
}

func TestTraceSkipsSideEffectingPPURead(t *testing.T) {
	c, _ := newTestCPU([]uint8{0xAD, 0x02, 0x20}, 0xC000) // LDA $2002 (PPUSTATUS)
	c.PC = 0xC000

	line := Trace(c, fixedClock{})

	assert.Contains(t, line, "$2002 = 00")
}
