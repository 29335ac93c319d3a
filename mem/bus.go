// Package mem provides the flat 64 KiB memory model that backs the 6502
// emulator. There is no mapping, no protection, and no mirroring: every
// address in 0x0000-0xffff refers to exactly one byte.
package mem

// A Bus is the flat memory store a Cpu is attached to. Each Bus owns an
// independent 64 KiB address space starting at 0x0000.
//
// Unlike a real NES bus (which mirrors several components into one address
// space) this Bus backs nothing but RAM: it exists so multiple Cpu instances
// can run against independent, isolated memory.
type Bus struct {
	Ram [64 * 1024]byte // 64 kB (0x0000-0xffff), zeroed on construction
}

// New returns a zero-initialized Bus, ready for use.
func New() *Bus {
	return &Bus{}
}

// Read returns the byte stored at addr. Reads never fail.
func (b *Bus) Read(addr uint16) byte {
	return b.Ram[addr]
}

// Write stores data at addr. Writes never fail.
func (b *Bus) Write(addr uint16, data byte) {
	b.Ram[addr] = data
}

// ReadWord reads two consecutive bytes starting at addr and returns them as a
// little-endian word: low = mem[addr], high = mem[addr+1].
//
// addr+1 wraps modulo 65536 if addr is 0xffff. ReadWord never applies the
// indirect-JMP page-wrap quirk; that quirk is confined to the JMP handler,
// which reads its two bytes explicitly.
func (b *Bus) ReadWord(addr uint16) uint16 {
	lo := uint16(b.Read(addr))
	hi := uint16(b.Read(addr + 1))
	return lo | hi<<8
}
