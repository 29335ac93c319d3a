package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func imm(c *Cpu, v byte) operand {
	c.Bus.Write(c.PC, v)
	op := operand{addr: c.PC}
	c.PC++
	return op
}

func TestADCUnsignedCarry(t *testing.T) {
	c := newTestCpu(t)
	c.A = 0xff
	op := imm(c, 0x01)
	opADC(c, op)
	assert.Equal(t, byte(0x00), c.A)
	assert.True(t, c.Flags.Carry)
	assert.True(t, c.Flags.Zero)
	assert.False(t, c.Flags.Overflow)
}

func TestADCSignedOverflow(t *testing.T) {
	// S2: LDA #$50 ; ADC #$50 -> A=0xa0, N=1, V=1, C=0, Z=0
	c := newTestCpu(t)
	c.A = 0x50
	op := imm(c, 0x50)
	opADC(c, op)
	assert.Equal(t, byte(0xa0), c.A)
	assert.True(t, c.Flags.Negative)
	assert.True(t, c.Flags.Overflow)
	assert.False(t, c.Flags.Carry)
	assert.False(t, c.Flags.Zero)
}

func TestADCWithCarryIn(t *testing.T) {
	c := newTestCpu(t)
	c.A = 0x01
	c.Flags.Carry = true
	op := imm(c, 0x01)
	opADC(c, op)
	assert.Equal(t, byte(0x03), c.A)
	assert.False(t, c.Flags.Carry)
}

func TestADCReferenceTable(t *testing.T) {
	// Invariant 5: exhaustively check a representative grid of (A, M, Cin)
	// against the canonical widened-intermediate formula.
	for a := 0; a <= 0xff; a += 17 {
		for m := 0; m <= 0xff; m += 23 {
			for cin := 0; cin <= 1; cin++ {
				c := newTestCpu(t)
				c.A = byte(a)
				c.Flags.Carry = cin == 1
				op := imm(c, byte(m))
				opADC(c, op)

				sum := a + m + cin
				wantResult := byte(sum)
				wantCarry := sum > 0xff
				wantOverflow := (byte(a)^wantResult)&(byte(m)^wantResult)&0x80 != 0

				assert.Equal(t, wantResult, c.A, "a=%#x m=%#x cin=%d", a, m, cin)
				assert.Equal(t, wantCarry, c.Flags.Carry, "a=%#x m=%#x cin=%d", a, m, cin)
				assert.Equal(t, wantOverflow, c.Flags.Overflow, "a=%#x m=%#x cin=%d", a, m, cin)
			}
		}
	}
}

func TestSBCNoBorrow(t *testing.T) {
	c := newTestCpu(t)
	c.A = 0x05
	c.Flags.Carry = true // Cin=1 means "no borrow going in"
	op := imm(c, 0x03)
	opSBC(c, op)
	assert.Equal(t, byte(0x02), c.A)
	assert.True(t, c.Flags.Carry) // no borrow out
	assert.False(t, c.Flags.Overflow)
}

func TestSBCBorrow(t *testing.T) {
	c := newTestCpu(t)
	c.A = 0x03
	c.Flags.Carry = true
	op := imm(c, 0x05)
	opSBC(c, op)
	assert.Equal(t, byte(0xfe), c.A) // 3 - 5 = -2 -> 0xfe
	assert.False(t, c.Flags.Carry)   // borrow out
}

func TestSBCReferenceTable(t *testing.T) {
	for a := 0; a <= 0xff; a += 17 {
		for m := 0; m <= 0xff; m += 23 {
			for cin := 0; cin <= 1; cin++ {
				c := newTestCpu(t)
				c.A = byte(a)
				c.Flags.Carry = cin == 1
				op := imm(c, byte(m))
				opSBC(c, op)

				borrowIn := 1 - cin
				diff := a - m - borrowIn
				wantResult := byte(uint32(int32(diff)))
				wantCarry := diff >= 0
				wantOverflow := (byte(a)^byte(m))&(byte(a)^wantResult)&0x80 != 0

				assert.Equal(t, wantResult, c.A, "a=%#x m=%#x cin=%d", a, m, cin)
				assert.Equal(t, wantCarry, c.Flags.Carry, "a=%#x m=%#x cin=%d", a, m, cin)
				assert.Equal(t, wantOverflow, c.Flags.Overflow, "a=%#x m=%#x cin=%d", a, m, cin)
			}
		}
	}
}

func TestCMPSetsCarryOnGreaterOrEqual(t *testing.T) {
	c := newTestCpu(t)
	c.A = 0x10
	op := imm(c, 0x10)
	opCMP(c, op)
	assert.True(t, c.Flags.Carry)
	assert.True(t, c.Flags.Zero)
}

func TestCMPClearsCarryWhenLess(t *testing.T) {
	c := newTestCpu(t)
	c.A = 0x05
	op := imm(c, 0x10)
	opCMP(c, op)
	assert.False(t, c.Flags.Carry)
	assert.False(t, c.Flags.Zero)
	assert.True(t, c.Flags.Negative)
}

func TestBITSetsFlagsFromOperandNotResult(t *testing.T) {
	c := newTestCpu(t)
	c.A = 0x00
	c.Bus.Write(0x10, 0xc0) // bits 7 and 6 set
	op := operand{addr: 0x10}
	opBIT(c, op)
	assert.True(t, c.Flags.Negative)
	assert.True(t, c.Flags.Overflow)
	assert.True(t, c.Flags.Zero) // A & M == 0
	assert.Equal(t, byte(0), c.A)
}

func TestASLShiftsOutBit7IntoCarry(t *testing.T) {
	c := newTestCpu(t)
	c.A = 0x80
	opASL(c, operand{accumulator: true})
	assert.Equal(t, byte(0x00), c.A)
	assert.True(t, c.Flags.Carry)
	assert.True(t, c.Flags.Zero)
}

func TestLSRShiftsOutBit0IntoCarry(t *testing.T) {
	c := newTestCpu(t)
	c.A = 0x01
	opLSR(c, operand{accumulator: true})
	assert.Equal(t, byte(0x00), c.A)
	assert.True(t, c.Flags.Carry)
}

func TestROLCarriesThroughBit0(t *testing.T) {
	c := newTestCpu(t)
	c.A = 0x80
	c.Flags.Carry = true
	opROL(c, operand{accumulator: true})
	assert.Equal(t, byte(0x01), c.A) // old bit7 -> carry; old carry -> bit0
	assert.True(t, c.Flags.Carry)
}

func TestRORCarriesThroughBit7(t *testing.T) {
	c := newTestCpu(t)
	c.A = 0x01
	c.Flags.Carry = true
	opROR(c, operand{accumulator: true})
	assert.Equal(t, byte(0x80), c.A)
	assert.True(t, c.Flags.Carry)
}

func TestASLMemoryFormReadsTransformsWritesBack(t *testing.T) {
	c := newTestCpu(t)
	c.Bus.Write(0x20, 0x40)
	op := operand{addr: 0x20}
	opASL(c, op)
	assert.Equal(t, byte(0x80), c.Read(0x20))
	assert.True(t, c.Flags.Negative)
}

func TestINCDECWrapAndSetFlags(t *testing.T) {
	c := newTestCpu(t)
	c.Bus.Write(0x20, 0xff)
	opINC(c, operand{addr: 0x20})
	assert.Equal(t, byte(0x00), c.Read(0x20))
	assert.True(t, c.Flags.Zero)

	c.Bus.Write(0x20, 0x00)
	opDEC(c, operand{addr: 0x20})
	assert.Equal(t, byte(0xff), c.Read(0x20))
	assert.True(t, c.Flags.Negative)
}

func TestINXWrapsToZero(t *testing.T) {
	c := newTestCpu(t)
	c.X = 0xff
	opINX(c, operand{})
	assert.Equal(t, byte(0x00), c.X)
	assert.True(t, c.Flags.Zero)
}

func TestBranchTakenSetsPCAndFlag(t *testing.T) {
	c := newTestCpu(t)
	c.Flags.Zero = true
	opBEQ(c, operand{addr: 0x1234})
	assert.Equal(t, uint16(0x1234), c.PC)
	assert.True(t, c.BranchTaken)
}

func TestBranchNotTakenLeavesPC(t *testing.T) {
	c := newTestCpu(t)
	c.PC = 0x0050
	c.Flags.Zero = false
	opBEQ(c, operand{addr: 0x1234})
	assert.Equal(t, uint16(0x0050), c.PC)
	assert.False(t, c.BranchTaken)
}

func TestJSRThenRTSReturnsPastCallSite(t *testing.T) {
	// S4, at the instruction-handler level: JSR to 0x0008, then RTS.
	c := newTestCpu(t)
	c.PC = 0x0003 // PC already past JSR's 3 bytes, as Step would leave it
	opJSR(c, operand{addr: 0x0008})
	assert.Equal(t, uint16(0x0008), c.PC)

	opRTS(c, operand{})
	assert.Equal(t, uint16(0x0003), c.PC)
}

func TestBRKVectorsAndSetsFlags(t *testing.T) {
	c := newTestCpu(t)
	c.PC = 0x0000
	c.Bus.Write(0xfffe, 0x00)
	c.Bus.Write(0xffff, 0x90)
	opBRK(c, operand{})
	assert.Equal(t, uint16(0x9000), c.PC)
	assert.True(t, c.Flags.Interupt)
}

func TestBRKThenRTIRestoresPC(t *testing.T) {
	c := newTestCpu(t)
	c.PC = 0x0200
	c.Flags = Flags{Unused: true, Carry: true}
	c.Bus.Write(0xfffe, 0x00)
	c.Bus.Write(0xffff, 0x90)

	opBRK(c, operand{})
	opRTI(c, operand{})

	assert.Equal(t, uint16(0x0201), c.PC) // BRK's PC++ then pushed PC, RTI does not +1 again
	assert.True(t, c.Flags.Carry)
	assert.True(t, c.Flags.Unused)
	assert.False(t, c.Flags.Break) // BRK pushed B=1, but RTI clears B on the way back
}

func TestTransferInstructionsSetZN(t *testing.T) {
	c := newTestCpu(t)
	c.A = 0x80
	opTAX(c, operand{})
	assert.Equal(t, byte(0x80), c.X)
	assert.True(t, c.Flags.Negative)

	c.X = 0x00
	opTXA(c, operand{})
	assert.True(t, c.Flags.Zero)
}

func TestTXSDoesNotTouchFlags(t *testing.T) {
	c := newTestCpu(t)
	c.Flags.Zero = true
	c.X = 0x00
	opTXS(c, operand{})
	assert.Equal(t, byte(0x00), c.SP)
	assert.True(t, c.Flags.Zero) // unchanged by TXS itself
}
