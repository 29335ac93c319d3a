package cpu

// An AddressingMode tells the Cpu how to obtain the effective address or
// operand byte an instruction acts on. There are thirteen modes in the
// documented instruction set.
type AddressingMode int

const (
	Implied     AddressingMode = iota // no operand bytes; instruction supplies its own operand
	Accumulator                       // operand is the A register itself
	Immediate                         // operand is the byte at PC
	ZeroPage                          // operand byte is the address, page 0
	ZeroPageX                         // (operand + X) mod 256
	ZeroPageY                         // (operand + Y) mod 256
	Absolute                          // little-endian word is the address
	AbsoluteX                         // (word + X) mod 65536
	AbsoluteY                         // (word + Y) mod 65536
	Indirect                          // JMP only; see resolve's page-wrap quirk
	IndirectX                         // (operand + X) mod 256 indexes a zero-page pointer
	IndirectY                         // operand indexes a zero-page pointer, then + Y
	Relative                          // signed displacement added to PC, used by branches
)

// operand is the small tagged value addressing-mode resolution produces:
// either "the accumulator itself" or a concrete 16-bit memory address.
// Read-modify-write instructions (ASL, LSR, ROL, ROR, INC, DEC) use operand's
// read/write helpers so they share one body regardless of addressing mode.
type operand struct {
	accumulator bool
	addr        uint16
}

// read returns the byte operand refers to.
func (o operand) read(c *Cpu) byte {
	if o.accumulator {
		return c.A
	}
	return c.Read(o.addr)
}

// write stores v at whatever operand refers to.
func (o operand) write(c *Cpu, v byte) {
	if o.accumulator {
		c.A = v
		return
	}
	c.Write(o.addr, v)
}

// resolve consumes the operand bytes for mode at PC, advancing PC
// accordingly, and returns the resulting operand. Relative mode is handled
// separately by Step via fetchRelativeTarget, since its result is a PC
// target rather than a value to read or write.
func (c *Cpu) resolve(mode AddressingMode) operand {
	switch mode {
	case Implied:
		return operand{}

	case Accumulator:
		return operand{accumulator: true}

	case Immediate:
		addr := c.PC
		c.PC++
		return operand{addr: addr}

	case ZeroPage:
		return operand{addr: uint16(c.fetchByte())}

	case ZeroPageX:
		return operand{addr: uint16(c.fetchByte()+c.X) & 0x00ff}

	case ZeroPageY:
		return operand{addr: uint16(c.fetchByte()+c.Y) & 0x00ff}

	case Absolute:
		return operand{addr: c.fetchWord()}

	case AbsoluteX:
		return operand{addr: c.fetchWord() + uint16(c.X)}

	case AbsoluteY:
		return operand{addr: c.fetchWord() + uint16(c.Y)}

	case Indirect:
		return operand{addr: c.resolveIndirect()}

	case IndirectX:
		base := uint16(c.fetchByte()+c.X) & 0x00ff
		lo := uint16(c.Read(base))
		hi := uint16(c.Read((base + 1) & 0x00ff))
		return operand{addr: lo | hi<<8}

	case IndirectY:
		base := uint16(c.fetchByte())
		lo := uint16(c.Read(base))
		hi := uint16(c.Read((base + 1) & 0x00ff))
		ptr := lo | hi<<8
		return operand{addr: ptr + uint16(c.Y)}

	default:
		return operand{}
	}
}

// fetchWord reads a little-endian word at PC (low byte first) and advances
// PC by two.
func (c *Cpu) fetchWord() uint16 {
	lo := uint16(c.fetchByte())
	hi := uint16(c.fetchByte())
	return lo | hi<<8
}

// resolveIndirect computes the effective address for the indirect JMP,
// preserving the documented page-wrap bug: when the pointer's low byte is
// 0xff, the high byte is fetched from the start of the same page instead of
// the next page.
func (c *Cpu) resolveIndirect() uint16 {
	ptr := c.fetchWord()
	lo := uint16(c.Read(ptr))
	var hi uint16
	if ptr&0x00ff == 0x00ff {
		hi = uint16(c.Read(ptr & 0xff00))
	} else {
		hi = uint16(c.Read(ptr + 1))
	}
	return lo | hi<<8
}

// fetchRelativeTarget consumes the one-byte signed displacement at PC,
// advances PC past it, and returns the branch target PC would take if the
// branch condition holds: PC (already past the operand) + the sign-extended
// displacement, wrapped modulo 65536.
func (c *Cpu) fetchRelativeTarget() uint16 {
	disp := int8(c.fetchByte())
	return uint16(int32(c.PC) + int32(disp))
}
