package cpu

// Step executes exactly one instruction: fetch the byte at PC, advance PC
// past it, decode it against the opcode table, resolve its addressing mode,
// run its handler, and add its base cycle count (plus one, if a branch was
// taken) to Cycles.
//
// If the fetched byte is not one of the 151 documented opcodes, Step returns
// an *UnknownOpcodeError and leaves Cycles unchanged; PC has already moved
// past the unknown byte, so the caller may simply call Step again to resume.
func (c *Cpu) Step() error {
	pc := c.PC
	b := c.fetchByte()

	op := opcodes[b]
	if op.Instruction == nil {
		return &UnknownOpcodeError{Opcode: b, PC: pc}
	}

	var resolved operand
	if op.Mode == Relative {
		resolved = operand{addr: c.fetchRelativeTarget()}
	} else {
		resolved = c.resolve(op.Mode)
	}

	c.BranchTaken = false
	op.Instruction(c, resolved)

	c.Cycles += uint64(op.Cycles)
	if c.BranchTaken {
		c.Cycles++
	}
	return nil
}

// Run executes instructions in sequence until Cycles has advanced by at
// least budget cycles since Run was called, or until Step reports an
// unknown opcode, whichever comes first. It returns that error, if any.
func (c *Cpu) Run(budget uint64) error {
	start := c.Cycles
	for c.Cycles-start < budget {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}
