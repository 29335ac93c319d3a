// Package cpu implements the MOS Technology 6502 microprocessor: the
// documented opcode set, the thirteen addressing modes, the six status
// flags, stack discipline, and per-instruction cycle accounting.
package cpu

import (
	"gone/mask"
	"gone/mem"
)

// flagNegative .. flagCarry give the bit position of each status flag within
// the packed NV1BDIZC byte, expressed as a mask.ByteIndex (1-indexed from
// the MSB) for use with mask.Set/Unset/IsSet.
var (
	flagNegative = mask.I1 // N, bit 7
	flagOverflow = mask.I2 // V, bit 6
	flagUnused   = mask.I3 // 1, bit 5 (always read back as 1)
	flagBreak    = mask.I4 // B, bit 4
	flagDecimal  = mask.I5 // D, bit 3
	flagInterupt = mask.I6 // I, bit 2
	flagZero     = mask.I7 // Z, bit 1
	flagCarry    = mask.I8 // C, bit 0
)

// Flags holds the six 6502 status flags (plus the two unused/Break bits)
// as named booleans, mirroring the NV1BDIZC layout of the packed status
// register. Most instruction bodies read and write these fields directly;
// StatusByte/SetStatusByte pack and unpack the byte form used by PHP, PLP,
// BRK and RTI.
type Flags struct {
	Negative bool // N, bit 7
	Overflow bool // V, bit 6
	Unused   bool // bit 5; always read back as 1
	Break    bool // B, bit 4
	Decimal  bool // D, bit 3; read/written but ignored by arithmetic
	Interupt bool // I, bit 2; disables IRQ (not modeled), set by BRK/SEI
	Zero     bool // Z, bit 1
	Carry    bool // C, bit 0
}

// Cpu is a single MOS 6502 core, together with the registers the chip
// exposes to machine code. A Cpu has no memory of its own; it is attached to
// a Bus, exactly as a discrete 6502 is wired to its address and data lines.
type Cpu struct {
	Bus *mem.Bus

	A  byte // Accumulator
	X  byte
	Y  byte
	SP byte // stack pointer; stack lives at 0x0100-0x01ff

	PC uint16 // program counter

	Flags Flags

	Cycles uint64 // total elapsed cycles; monotonically increasing

	// BranchTaken is set by a branch instruction's body when its condition
	// holds, so Step can apply the one extra cycle taken branches cost.
	// It never reflects a page-cross penalty, which is out of scope.
	BranchTaken bool
}

// New attaches a fresh Cpu to bus and returns it initialized per Init.
func New(bus *mem.Bus) *Cpu {
	c := &Cpu{Bus: bus}
	c.Init()
	return c
}

// Init establishes power-on register and flag state: A=X=Y=0, SP=0xfd,
// PC=0, status=Unused|Interupt (0x24), Cycles=0.
func (c *Cpu) Init() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xfd
	c.PC = 0
	c.Flags = Flags{Unused: true, Interupt: true}
	c.Cycles = 0
}

// Reset leaves A, X and Y unchanged but reinitializes SP, status and
// Cycles, and loads PC from the reset vector at 0xfffc/0xfffd.
func (c *Cpu) Reset() {
	c.SP = 0xfd
	c.Flags = Flags{Unused: true, Interupt: true}
	c.Cycles = 0
	c.PC = c.Bus.ReadWord(0xfffc)
}

// Read reads one byte from the bus at addr.
func (c *Cpu) Read(addr uint16) byte { return c.Bus.Read(addr) }

// Write writes one byte to the bus at addr.
func (c *Cpu) Write(addr uint16, data byte) { c.Bus.Write(addr, data) }

// fetchByte reads the byte at PC and advances PC by one.
func (c *Cpu) fetchByte() byte {
	b := c.Read(c.PC)
	c.PC++
	return b
}

// StatusByte packs Flags into the NV1BDIZC status byte. Unused always reads
// back as 1 regardless of the struct's Unused field.
func (c *Cpu) StatusByte() byte {
	var b byte
	b = setFlagBit(b, flagNegative, c.Flags.Negative)
	b = setFlagBit(b, flagOverflow, c.Flags.Overflow)
	b = setFlagBit(b, flagUnused, true)
	b = setFlagBit(b, flagBreak, c.Flags.Break)
	b = setFlagBit(b, flagDecimal, c.Flags.Decimal)
	b = setFlagBit(b, flagInterupt, c.Flags.Interupt)
	b = setFlagBit(b, flagZero, c.Flags.Zero)
	b = setFlagBit(b, flagCarry, c.Flags.Carry)
	return b
}

// SetStatusByte unpacks b into Flags. Unused is always forced to true,
// regardless of bit 5 of b, per the invariant that it always reads as 1.
func (c *Cpu) SetStatusByte(b byte) {
	c.Flags.Negative = isFlagBitSet(b, flagNegative)
	c.Flags.Overflow = isFlagBitSet(b, flagOverflow)
	c.Flags.Unused = true
	c.Flags.Break = isFlagBitSet(b, flagBreak)
	c.Flags.Decimal = isFlagBitSet(b, flagDecimal)
	c.Flags.Interupt = isFlagBitSet(b, flagInterupt)
	c.Flags.Zero = isFlagBitSet(b, flagZero)
	c.Flags.Carry = isFlagBitSet(b, flagCarry)
}

// push stores data at the current stack slot (0x0100|SP) then decrements SP,
// wrapping modulo 256.
func (c *Cpu) push(data byte) {
	c.Write(0x0100|uint16(c.SP), data)
	c.SP--
}

// pull increments SP, wrapping modulo 256, then loads from the new stack
// slot.
func (c *Cpu) pull() byte {
	c.SP++
	return c.Read(0x0100 | uint16(c.SP))
}

// pushWord pushes a 16-bit value high byte first, then low byte, matching
// JSR/BRK's stacking order.
func (c *Cpu) pushWord(v uint16) {
	c.push(byte(v >> 8))
	c.push(byte(v))
}

// pullWord pulls a 16-bit value low byte first, then high byte.
func (c *Cpu) pullWord() uint16 {
	lo := uint16(c.pull())
	hi := uint16(c.pull())
	return lo | hi<<8
}

// setZN sets the Zero and Negative flags from result, the pattern shared by
// nearly every instruction that loads, transforms, or compares a byte.
func (c *Cpu) setZN(result byte) {
	c.Flags.Zero = result == 0
	c.Flags.Negative = result&0x80 != 0
}
