package cpu

// instrFunc is the shape every instruction handler shares: given the
// resolved operand (the zero value for Implied-mode instructions, the
// branch target for Relative-mode ones), mutate the Cpu.
type instrFunc func(c *Cpu, op operand)

// ADC - Add with Carry. Sets C on unsigned overflow of the 9-bit sum, V on
// signed overflow, Z/N from the result.
func opADC(c *Cpu, op operand) {
	m := op.read(c)
	var carryIn uint16
	if c.Flags.Carry {
		carryIn = 1
	}
	sum := uint16(c.A) + uint16(m) + carryIn
	result := byte(sum)

	c.Flags.Carry = sum > 0xff
	c.Flags.Overflow = (c.A^result)&(m^result)&0x80 != 0
	c.A = result
	c.setZN(c.A)
}

// SBC - Subtract with Carry. C' = NOT borrow, computed in a widened signed
// intermediate per the canonical rule (see design notes on the ambiguous
// unsigned-diff formulation this corrects).
func opSBC(c *Cpu, op operand) {
	m := op.read(c)
	var borrowIn int32
	if !c.Flags.Carry {
		borrowIn = 1
	}
	diff := int32(c.A) - int32(m) - borrowIn
	result := byte(uint32(diff))

	c.Flags.Carry = diff >= 0
	c.Flags.Overflow = (c.A^m)&(c.A^result)&0x80 != 0
	c.A = result
	c.setZN(c.A)
}

// AND - Logical AND.
func opAND(c *Cpu, op operand) {
	c.A &= op.read(c)
	c.setZN(c.A)
}

// ORA - Logical Inclusive OR.
func opORA(c *Cpu, op operand) {
	c.A |= op.read(c)
	c.setZN(c.A)
}

// EOR - Exclusive OR.
func opEOR(c *Cpu, op operand) {
	c.A ^= op.read(c)
	c.setZN(c.A)
}

// ASL - Arithmetic Shift Left, accumulator or memory form.
func opASL(c *Cpu, op operand) {
	m := op.read(c)
	c.Flags.Carry = m&0x80 != 0
	result := m << 1
	op.write(c, result)
	c.setZN(result)
}

// LSR - Logical Shift Right, accumulator or memory form.
func opLSR(c *Cpu, op operand) {
	m := op.read(c)
	c.Flags.Carry = m&0x01 != 0
	result := m >> 1
	op.write(c, result)
	c.setZN(result)
}

// ROL - Rotate Left, accumulator or memory form. The old carry becomes the
// new bit 0.
func opROL(c *Cpu, op operand) {
	m := op.read(c)
	oldCarry := c.Flags.Carry
	c.Flags.Carry = m&0x80 != 0
	result := m << 1
	if oldCarry {
		result |= 0x01
	}
	op.write(c, result)
	c.setZN(result)
}

// ROR - Rotate Right, accumulator or memory form. The old carry becomes the
// new bit 7.
func opROR(c *Cpu, op operand) {
	m := op.read(c)
	oldCarry := c.Flags.Carry
	c.Flags.Carry = m&0x01 != 0
	result := m >> 1
	if oldCarry {
		result |= 0x80
	}
	op.write(c, result)
	c.setZN(result)
}

// BIT - Bit Test. A is unchanged; N/V come from bits 7/6 of the operand, Z
// from A AND operand.
func opBIT(c *Cpu, op operand) {
	m := op.read(c)
	c.Flags.Zero = c.A&m == 0
	c.Flags.Negative = m&0x80 != 0
	c.Flags.Overflow = m&0x40 != 0
}

// cmp is the shared body of CMP/CPX/CPY: C set iff reg >= operand
// (unsigned), Z iff equal, N from bit 7 of the (unsigned, wrapping)
// subtraction.
func cmp(c *Cpu, reg byte, m byte) {
	c.Flags.Carry = reg >= m
	c.Flags.Zero = reg == m
	c.Flags.Negative = (reg-m)&0x80 != 0
}

func opCMP(c *Cpu, op operand) { cmp(c, c.A, op.read(c)) }
func opCPX(c *Cpu, op operand) { cmp(c, c.X, op.read(c)) }
func opCPY(c *Cpu, op operand) { cmp(c, c.Y, op.read(c)) }

// INC - Increment Memory.
func opINC(c *Cpu, op operand) {
	result := op.read(c) + 1
	op.write(c, result)
	c.setZN(result)
}

// DEC - Decrement Memory.
func opDEC(c *Cpu, op operand) {
	result := op.read(c) - 1
	op.write(c, result)
	c.setZN(result)
}

func opINX(c *Cpu, op operand) { c.X++; c.setZN(c.X) }
func opINY(c *Cpu, op operand) { c.Y++; c.setZN(c.Y) }
func opDEX(c *Cpu, op operand) { c.X--; c.setZN(c.X) }
func opDEY(c *Cpu, op operand) { c.Y--; c.setZN(c.Y) }

// LDA/LDX/LDY - Load register.
func opLDA(c *Cpu, op operand) { c.A = op.read(c); c.setZN(c.A) }
func opLDX(c *Cpu, op operand) { c.X = op.read(c); c.setZN(c.X) }
func opLDY(c *Cpu, op operand) { c.Y = op.read(c); c.setZN(c.Y) }

// STA/STX/STY - Store register. These never touch flags.
func opSTA(c *Cpu, op operand) { op.write(c, c.A) }
func opSTX(c *Cpu, op operand) { op.write(c, c.X) }
func opSTY(c *Cpu, op operand) { op.write(c, c.Y) }

// TAX/TAY/TXA/TYA/TSX/TXS - register-to-register transfers. TXS does not
// touch flags; the rest set Z/N from the destination.
func opTAX(c *Cpu, op operand) { c.X = c.A; c.setZN(c.X) }
func opTAY(c *Cpu, op operand) { c.Y = c.A; c.setZN(c.Y) }
func opTXA(c *Cpu, op operand) { c.A = c.X; c.setZN(c.A) }
func opTYA(c *Cpu, op operand) { c.A = c.Y; c.setZN(c.A) }
func opTSX(c *Cpu, op operand) { c.X = c.SP; c.setZN(c.X) }
func opTXS(c *Cpu, op operand) { c.SP = c.X }

// PHA/PLA - Push/Pull Accumulator.
func opPHA(c *Cpu, op operand) { c.push(c.A) }
func opPLA(c *Cpu, op operand) { c.A = c.pull(); c.setZN(c.A) }

// PHP - Push Processor Status, with B and Unused forced to 1 in the pushed
// byte (the in-register Flags are left untouched).
func opPHP(c *Cpu, op operand) {
	saved := c.Flags.Break
	c.Flags.Break = true
	c.push(c.StatusByte())
	c.Flags.Break = saved
}

// PLP - Pull Processor Status. Unused is forced back to 1 regardless of the
// pulled byte.
func opPLP(c *Cpu, op operand) {
	c.SetStatusByte(c.pull())
}

// branch is the shared body of the eight conditional branches: if taken,
// sets PC to the pre-resolved target and records that the branch was taken
// so Step can add the one extra cycle.
func branch(c *Cpu, op operand, taken bool) {
	if taken {
		c.PC = op.addr
		c.BranchTaken = true
	}
}

func opBCC(c *Cpu, op operand) { branch(c, op, !c.Flags.Carry) }
func opBCS(c *Cpu, op operand) { branch(c, op, c.Flags.Carry) }
func opBEQ(c *Cpu, op operand) { branch(c, op, c.Flags.Zero) }
func opBNE(c *Cpu, op operand) { branch(c, op, !c.Flags.Zero) }
func opBMI(c *Cpu, op operand) { branch(c, op, c.Flags.Negative) }
func opBPL(c *Cpu, op operand) { branch(c, op, !c.Flags.Negative) }
func opBVC(c *Cpu, op operand) { branch(c, op, !c.Flags.Overflow) }
func opBVS(c *Cpu, op operand) { branch(c, op, c.Flags.Overflow) }

// CLC/SEC/CLI/SEI/CLV/CLD/SED - flag clear/set instructions.
func opCLC(c *Cpu, op operand) { c.Flags.Carry = false }
func opSEC(c *Cpu, op operand) { c.Flags.Carry = true }
func opCLI(c *Cpu, op operand) { c.Flags.Interupt = false }
func opSEI(c *Cpu, op operand) { c.Flags.Interupt = true }
func opCLV(c *Cpu, op operand) { c.Flags.Overflow = false }
func opCLD(c *Cpu, op operand) { c.Flags.Decimal = false }
func opSED(c *Cpu, op operand) { c.Flags.Decimal = true }

// JMP - Jump. op.addr already carries the resolved Absolute/Indirect target.
func opJMP(c *Cpu, op operand) { c.PC = op.addr }

// JSR - Jump to Subroutine. Pushes (return address - 1), high byte first,
// then jumps to the resolved target.
func opJSR(c *Cpu, op operand) {
	c.pushWord(c.PC - 1)
	c.PC = op.addr
}

// RTS - Return from Subroutine. Pulls the pushed (return address - 1) and
// adds 1.
func opRTS(c *Cpu, op operand) {
	c.PC = c.pullWord() + 1
}

// BRK - Force Interrupt. Pushes PC+1 (skipping the padding byte), pushes
// status with B and Unused forced to 1, sets I, and vectors through
// 0xfffe/0xffff.
func opBRK(c *Cpu, op operand) {
	c.PC++
	c.pushWord(c.PC)
	saved := c.Flags.Break
	c.Flags.Break = true
	c.push(c.StatusByte())
	c.Flags.Break = saved
	c.Flags.Interupt = true
	c.PC = c.Bus.ReadWord(0xfffe)
}

// RTI - Return from Interrupt. Pulls status (forcing Unused to 1 and
// clearing Break), then PC low then high. Unlike RTS, no +1.
func opRTI(c *Cpu, op operand) {
	c.SetStatusByte(c.pull())
	c.Flags.Break = false
	c.PC = c.pullWord()
}

// NOP - No Operation.
func opNOP(c *Cpu, op operand) {}
