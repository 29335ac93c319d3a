package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"

	"gone/mem"
)

// newTestCpu builds a fresh Cpu for a test and arranges for its full state
// to be dumped via spew on failure, so a broken test prints more than just
// the mismatched field.
func newTestCpu(t *testing.T) *Cpu {
	c := New(mem.New())
	t.Cleanup(func() {
		if t.Failed() {
			t.Logf("cpu state at failure:\n%s", spew.Sdump(c))
		}
	})
	return c
}

func TestInit(t *testing.T) {
	c := newTestCpu(t)
	assert.Equal(t, byte(0), c.A)
	assert.Equal(t, byte(0), c.X)
	assert.Equal(t, byte(0), c.Y)
	assert.Equal(t, byte(0xfd), c.SP)
	assert.Equal(t, uint16(0), c.PC)
	assert.Equal(t, byte(0x24), c.StatusByte())
	assert.Equal(t, uint64(0), c.Cycles)
}

func TestReset(t *testing.T) {
	c := newTestCpu(t)
	c.A, c.X, c.Y = 1, 2, 3
	c.Bus.Write(0xfffc, 0x00)
	c.Bus.Write(0xfffd, 0x80)
	c.SP = 0x10
	c.Cycles = 99

	c.Reset()

	assert.Equal(t, byte(1), c.A)
	assert.Equal(t, byte(2), c.X)
	assert.Equal(t, byte(3), c.Y)
	assert.Equal(t, byte(0xfd), c.SP)
	assert.Equal(t, uint16(0x8000), c.PC)
	assert.Equal(t, uint64(0), c.Cycles)
	assert.Equal(t, byte(0x24), c.StatusByte())
}

func TestStatusByteUnusedAlwaysOne(t *testing.T) {
	c := newTestCpu(t)
	c.SetStatusByte(0x00) // clear everything, including Unused
	assert.Equal(t, byte(0x20), c.StatusByte())
	assert.True(t, c.Flags.Unused)
}

func TestStatusByteRoundTrip(t *testing.T) {
	c := newTestCpu(t)
	for _, b := range []byte{0x00, 0xff, 0xa5, 0x5a, 0x24, 0xc1} {
		c.SetStatusByte(b)
		// bit 5 (Unused) always reads as 1 regardless of what was pushed
		assert.Equal(t, b|0x20, c.StatusByte())
	}
}

func TestPushPullRoundTrip(t *testing.T) {
	c := newTestCpu(t)
	sp := c.SP
	c.push(0x42)
	assert.Equal(t, byte(sp-1), c.SP)
	assert.Equal(t, byte(0x42), c.Read(0x0100|uint16(sp)))
	got := c.pull()
	assert.Equal(t, byte(0x42), got)
	assert.Equal(t, sp, c.SP)
}

func TestPushWrapsAtBottomOfStack(t *testing.T) {
	// S5: SP=0x00, push A=0x42 -> mem[0x0100]=0x42, SP wraps to 0xff
	c := newTestCpu(t)
	c.SP = 0x00
	c.A = 0x42
	opPHA(c, operand{})
	assert.Equal(t, byte(0x42), c.Read(0x0100))
	assert.Equal(t, byte(0xff), c.SP)
}

func TestPushWordAndPullWordOrder(t *testing.T) {
	c := newTestCpu(t)
	c.pushWord(0x1234)
	// high byte pushed first, so it sits at the higher stack address
	assert.Equal(t, uint16(0x1234), c.pullWord())
}

func TestPhaPlaRoundTrip(t *testing.T) {
	c := newTestCpu(t)
	sp := c.SP
	c.A = 0x77
	opPHA(c, operand{})
	c.A = 0x00
	opPLA(c, operand{})
	assert.Equal(t, byte(0x77), c.A)
	assert.Equal(t, sp, c.SP)
	assert.False(t, c.Flags.Zero)
	assert.False(t, c.Flags.Negative)
}

func TestPhpPlpRoundTrip(t *testing.T) {
	c := newTestCpu(t)
	c.Flags = Flags{Negative: true, Overflow: true, Carry: true, Zero: true}
	opPHP(c, operand{})
	c.Flags = Flags{}
	opPLP(c, operand{})

	assert.True(t, c.Flags.Negative)
	assert.True(t, c.Flags.Overflow)
	assert.True(t, c.Flags.Carry)
	assert.True(t, c.Flags.Zero)
	assert.True(t, c.Flags.Unused)
	assert.True(t, c.Flags.Break) // PHP pushed B=1 and PLP takes B from the pulled byte
}
