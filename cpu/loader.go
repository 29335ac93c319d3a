package cpu

import (
	"fmt"
	"strconv"
	"strings"
)

// LoadProgram parses a whitespace-separated listing of hex byte pairs (e.g.
// "A9 05 69 03") and writes them into the Bus starting at addr. It is a
// convenience for tests and the debugger, not the general-purpose binary
// loader the CLI uses (see LoadBytes).
func (c *Cpu) LoadProgram(program []byte, addr uint16) error {
	fields := strings.Fields(string(program))
	if int(addr)+len(fields) > 0x10000 {
		return &LoadError{Addr: addr, Size: len(fields)}
	}
	for i, s := range fields {
		b, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return &LoadError{Addr: addr, Size: len(fields), Err: fmt.Errorf("invalid byte %q at listing offset %d: %w", s, i, err)}
		}
		c.Bus.Write(addr+uint16(i), byte(b))
	}
	return nil
}

// LoadBytes copies program directly into the Bus starting at addr, the way
// the CLI loads a raw binary file: no parsing, one byte in equals one byte
// written.
func (c *Cpu) LoadBytes(program []byte, addr uint16) error {
	if int(addr)+len(program) > 0x10000 {
		return &LoadError{Addr: addr, Size: len(program)}
	}
	for i, b := range program {
		c.Bus.Write(addr+uint16(i), b)
	}
	return nil
}
