package cpu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"
)

// debugModel is the bubbletea model backing Debug: a view onto a running
// Cpu, advanced one Step per keypress.
type debugModel struct {
	cpu     *Cpu
	program []byte
	offset  uint16

	prevPC uint16
	err    error
}

// Init loads the program into memory at offset and parks PC there, ready
// for the first Step.
func (m debugModel) Init() tea.Cmd {
	if err := m.cpu.LoadProgram(m.program, m.offset); err != nil {
		m.err = err
		return tea.Quit
	}
	m.cpu.PC = m.offset
	return nil
}

// Update advances the Cpu by one Step per space/j keypress, and quits on q
// or on an unknown-opcode error.
func (m debugModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			m.prevPC = m.cpu.PC
			if err := m.cpu.Step(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

const bytesPerPage = 16

// renderPage renders one 16-byte memory page as a line, bracketing the byte
// at PC.
func (m debugModel) renderPage(start uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < bytesPerPage; i++ {
		b := m.cpu.Bus.Read(start + i)
		if start+i == m.cpu.PC {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

// status renders the register and flag panel.
func (m debugModel) status() string {
	var flags string
	for _, set := range []bool{
		m.cpu.Flags.Negative,
		m.cpu.Flags.Overflow,
		m.cpu.Flags.Unused,
		m.cpu.Flags.Break,
		m.cpu.Flags.Decimal,
		m.cpu.Flags.Interupt,
		m.cpu.Flags.Zero,
		m.cpu.Flags.Carry,
	} {
		if set {
			flags += "/ "
		} else {
			flags += "  "
		}
	}
	return fmt.Sprintf(`
PC: %04x (was %04x)
 A: %02x
 X: %02x
 Y: %02x
SP: %02x
Cycles: %d
N V _ B D I Z C
`,
		m.cpu.PC, m.prevPC,
		m.cpu.A, m.cpu.X, m.cpu.Y, m.cpu.SP, m.cpu.Cycles,
	) + flags
}

// pageTable renders a handful of representative pages: the first five pages
// of memory, then five pages starting at the loaded program's offset.
func (m debugModel) pageTable() string {
	header := "page | "
	for b := 0; b < bytesPerPage; b++ {
		header += fmt.Sprintf("  %01x  ", b)
	}

	rows := []string{header}
	offsets := []uint16{
		0, bytesPerPage, bytesPerPage * 2, bytesPerPage * 3, bytesPerPage * 4,
		m.offset,
		m.offset + bytesPerPage,
		m.offset + bytesPerPage*2,
		m.offset + bytesPerPage*3,
		m.offset + bytesPerPage*4,
	}
	for _, o := range offsets {
		rows = append(rows, m.renderPage(o))
	}
	return strings.Join(rows, "\n")
}

// View renders the whole debugger screen: the page table, the register
// panel, and a dump of the opcode about to execute.
func (m debugModel) View() string {
	next := opcodes[m.cpu.Bus.Read(m.cpu.PC)]
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		spew.Sdump(next),
	)
}

// Debug loads program into memory at offset and starts an interactive
// terminal UI that steps the Cpu one instruction per keypress (space or j),
// quitting on q or on an unknown-opcode error.
func (c *Cpu) Debug(program []byte, offset uint16) error {
	final, err := tea.NewProgram(debugModel{
		cpu:     c,
		program: program,
		offset:  offset,
	}).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(debugModel); ok && m.err != nil {
		return m.err
	}
	return nil
}
