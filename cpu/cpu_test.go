package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatBus is a 64 KiB flat RAM fixture satisfying the Bus interface,
// enough to exercise the CPU core in isolation from the rest of the
// machine (spec.md §8's CPU-only scenarios never touch PPU/cartridge
// address ranges).
type flatBus struct {
	mem   [65536]uint8
	ticks int
}

func (b *flatBus) Read(addr uint16) uint8      { return b.mem[addr] }
func (b *flatBus) Write(addr uint16, v uint8)  { b.mem[addr] = v }
func (b *flatBus) Tick(n int)                  { b.ticks += n }

func newTestCPU(prog []uint8, at uint16) (*CPU, *flatBus) {
	bus := &flatBus{}
	copy(bus.mem[at:], prog)
	bus.mem[0xFFFC] = uint8(at)
	bus.mem[0xFFFD] = uint8(at >> 8)
	c := New(bus)
	return c, bus
}

func step(t *testing.T, c *CPU) int {
	t.Helper()
	cycles, halted, err := c.Step()
	require.NoError(t, err)
	require.False(t, halted)
	return cycles
}

func TestResetVector(t *testing.T) {
	c, _ := newTestCPU([]uint8{0xEA}, 0xC000)
	assert.Equal(t, uint16(0xC000), c.PC)
	assert.Equal(t, uint8(0xFD), c.SP)
	assert.True(t, c.flag(FlagInterruptDisable))
	assert.True(t, c.flag(FlagUnused))
}

func TestLdaXImmediateTaxInxBrkScenario(t *testing.T) {
	// A9 C0 AA E8 00: LDA #$C0; TAX; INX; BRK
	c, _ := newTestCPU([]uint8{0xA9, 0xC0, 0xAA, 0xE8, 0x00}, 0xC000)

	step(t, c) // LDA #$C0
	assert.Equal(t, uint8(0xC0), c.A)
	assert.True(t, c.flag(FlagNegative))
	assert.False(t, c.flag(FlagZero))

	step(t, c) // TAX
	assert.Equal(t, uint8(0xC0), c.X)

	step(t, c) // INX
	assert.Equal(t, uint8(0xC1), c.X)
	assert.False(t, c.flag(FlagZero))
}

func TestInxWraparound(t *testing.T) {
	c, _ := newTestCPU([]uint8{0xE8}, 0xC000)
	c.X = 0xFF
	step(t, c)
	assert.Equal(t, uint8(0x00), c.X)
	assert.True(t, c.flag(FlagZero))
	assert.False(t, c.flag(FlagNegative))
}

func TestAdcSetsOverflowWithoutCarry(t *testing.T) {
	c, _ := newTestCPU([]uint8{0x69, 0x01}, 0xC000) // ADC #$01
	c.A = 0x7F                                      // +1 overflows into negative
	step(t, c)
	assert.Equal(t, uint8(0x80), c.A)
	assert.True(t, c.flag(FlagOverflow))
	assert.True(t, c.flag(FlagNegative))
	assert.False(t, c.flag(FlagCarry))
}

func TestSbcBorrow(t *testing.T) {
	c, _ := newTestCPU([]uint8{0xE9, 0x01}, 0xC000) // SBC #$01
	c.A = 0x00
	c.flagSet(FlagCarry, true) // no pending borrow
	step(t, c)
	assert.Equal(t, uint8(0xFF), c.A)
	assert.False(t, c.flag(FlagCarry)) // result borrowed
	assert.True(t, c.flag(FlagNegative))
}

func TestJmpIndirectPageBoundaryBug(t *testing.T) {
	c, bus := newTestCPU([]uint8{0x6C, 0xFF, 0x02}, 0xC000) // JMP ($02FF)
	bus.mem[0x02FF] = 0x34
	bus.mem[0x0200] = 0x12 // high byte wraps to $0200, not $0300
	bus.mem[0x0300] = 0xFF // decoy: must not be read
	step(t, c)
	assert.Equal(t, uint16(0x1234), c.PC)
}

func TestBranchCycleCounts(t *testing.T) {
	// BEQ not taken: 2 cycles.
	c, _ := newTestCPU([]uint8{0xF0, 0x10}, 0xC000)
	c.flagSet(FlagZero, false)
	assert.Equal(t, 2, step(t, c))

	// BEQ taken, same page: 3 cycles.
	c, _ = newTestCPU([]uint8{0xF0, 0x10}, 0xC000)
	c.flagSet(FlagZero, true)
	assert.Equal(t, 3, step(t, c))

	// BEQ taken, crosses page: 4 cycles.
	c, _ = newTestCPU([]uint8{0xF0, 0x7F}, 0xC0FD)
	c.flagSet(FlagZero, true)
	assert.Equal(t, 4, step(t, c))
}

func TestPhaPlaRoundTrip(t *testing.T) {
	c, _ := newTestCPU([]uint8{0x48, 0x68}, 0xC000) // PHA; PLA
	c.A = 0x42
	startSP := c.SP
	step(t, c)
	assert.Equal(t, startSP-1, c.SP)
	c.A = 0
	step(t, c)
	assert.Equal(t, uint8(0x42), c.A)
	assert.Equal(t, startSP, c.SP)
}

func TestPhpPlpForcesBreakAndUnused(t *testing.T) {
	c, _ := newTestCPU([]uint8{0x08, 0x28}, 0xC000) // PHP; PLP
	c.P = FlagCarry                                 // B and U both clear going in
	step(t, c)                                      // PHP always pushes B=1, U=1
	pushed := c.Bus.(*flatBus).mem[stackPage+uint16(c.SP)+1]
	assert.Equal(t, FlagCarry|FlagBreak|FlagUnused, pushed)

	c.P = 0
	step(t, c) // PLP clears B, forces U=1
	assert.False(t, c.flag(FlagBreak))
	assert.True(t, c.flag(FlagUnused))
	assert.True(t, c.flag(FlagCarry))
}

func TestStackPointerWrapsWithoutGuard(t *testing.T) {
	// REDESIGN FLAG (a): no 0x01 < SP < 0xFF bounds check; SP silently
	// wraps through the full byte range like real hardware.
	c, _ := newTestCPU([]uint8{0x48}, 0xC000) // PHA
	c.SP = 0x00
	step(t, c)
	assert.Equal(t, uint8(0xFF), c.SP)
}

func TestNmiServicedBeforeNextInstruction(t *testing.T) {
	c, bus := newTestCPU([]uint8{0xEA, 0xEA}, 0xC000)
	bus.mem[0xFFFA] = 0x00
	bus.mem[0xFFFB] = 0xD0 // NMI vector -> $D000
	c.TriggerNMI()

	c.pollInterrupts()
	assert.Equal(t, uint16(0xD000), c.PC)
	assert.True(t, c.flag(FlagInterruptDisable))
}

func TestUnknownOpcodeErrors(t *testing.T) {
	var missing uint8
	found := false
	for b := 0; b < 256; b++ {
		if _, ok := opcodeTable[uint8(b)]; !ok {
			missing, found = uint8(b), true
			break
		}
	}
	if !found {
		t.Skip("every byte value is defined in this build's opcode table")
	}

	c, bus := newTestCPU([]uint8{0xEA}, 0xC000)
	bus.mem[0xC000] = missing
	_, _, err := c.Step()
	require.Error(t, err)
	var unkErr *UnknownOpcodeError
	require.ErrorAs(t, err, &unkErr)
}

func TestKilHalts(t *testing.T) {
	c, _ := newTestCPU([]uint8{0x02}, 0xC000) // KIL
	_, halted, err := c.Step()
	require.NoError(t, err)
	assert.True(t, halted)
}

func TestIllegalLaxLoadsBothRegisters(t *testing.T) {
	c, bus := newTestCPU([]uint8{0xA7, 0x10}, 0xC000) // LAX $10
	bus.mem[0x10] = 0x77
	step(t, c)
	assert.Equal(t, uint8(0x77), c.A)
	assert.Equal(t, uint8(0x77), c.X)
}

func TestIllegalDcpCompares(t *testing.T) {
	c, bus := newTestCPU([]uint8{0xC7, 0x10}, 0xC000) // DCP $10
	bus.mem[0x10] = 0x05
	c.A = 0x05
	step(t, c)
	assert.Equal(t, uint8(0x04), bus.mem[0x10])
	assert.True(t, c.flag(FlagCarry)) // A >= (M-1)
}
