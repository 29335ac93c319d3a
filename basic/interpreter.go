package basic

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// line is one line of stored BASIC source, keyed by its line number.
type line struct {
	number int32
	text   string
}

// forFrame records an active FOR loop: which variable it drives, the index
// of the FOR statement's own line (NEXT jumps back to the line after it),
// and the upper bound to stop at.
type forFrame struct {
	variable int32
	bodyLine int
	limit    int32
}

// Interpreter runs one BASIC program against 26 int32 variables (A-Z). Output
// goes to Out; INPUT statements read a line at a time from In. The zero value
// is not usable; construct with New.
type Interpreter struct {
	Out io.Writer
	In  *bufio.Scanner

	program   []line
	variables [26]int32

	current  int
	toks     []Token
	pos      int
	forStack []forFrame
}

// New returns an Interpreter ready to Load a program, writing to out and
// reading INPUT from in.
func New(out io.Writer, in io.Reader) *Interpreter {
	return &Interpreter{Out: out, In: bufio.NewScanner(in)}
}

// Load parses source into the line-numbered program store, replacing any
// program previously loaded. Lines are sorted by line number, as the
// original's GOTO/FOR-NEXT resolution assumes ascending program order.
func (ip *Interpreter) Load(source string) error {
	ip.program = ip.program[:0]
	for _, raw := range strings.Split(source, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		text := strings.TrimLeft(raw, " \t")
		end := 0
		for end < len(text) && text[end] >= '0' && text[end] <= '9' {
			end++
		}
		if end == 0 {
			return fmt.Errorf("basic: line %q has no line number", raw)
		}
		num, err := strconv.Atoi(text[:end])
		if err != nil {
			return fmt.Errorf("basic: invalid line number in %q: %w", raw, err)
		}
		ip.program = append(ip.program, line{
			number: int32(num),
			text:   strings.TrimLeft(text[end:], " \t"),
		})
	}
	sort.Slice(ip.program, func(i, j int) bool { return ip.program[i].number < ip.program[j].number })
	return nil
}

// Run executes the loaded program from its first line, following
// GOTO/IF/FOR/NEXT control flow until an END statement or the program falls
// off the end.
func (ip *Interpreter) Run() error {
	ip.variables = [26]int32{}
	ip.forStack = ip.forStack[:0]
	ip.current = 0

	for ip.current < len(ip.program) {
		jumped, err := ip.executeLine(ip.program[ip.current].text)
		if err != nil {
			return fmt.Errorf("basic: line %d: %w", ip.program[ip.current].number, err)
		}
		if jumped {
			continue
		}
		ip.current++
	}
	return nil
}

// Var returns the current value of variable name ('A'-'Z').
func (ip *Interpreter) Var(name byte) int32 { return ip.variables[name-'A'] }

// executeLine tokenizes and runs one line. The returned bool reports whether
// control flow already repositioned ip.current (GOTO, taken IF's implicit
// fallthrough is false, FOR/NEXT looping back), in which case Run must not
// also advance to the next line.
func (ip *Interpreter) executeLine(text string) (jumped bool, err error) {
	ip.toks = tokenize(text)
	ip.pos = 0

	for ip.pos < len(ip.toks) && ip.toks[ip.pos].Type != TokEOL {
		tok := ip.toks[ip.pos]

		switch {
		case tok.Type == TokWord:
			cmd := tok.Str
			ip.pos++
			switch cmd {
			case "PRINT":
				ip.execPrint()
			case "LET":
				if err := ip.execLet(); err != nil {
					return false, err
				}
			case "INPUT":
				ip.execInput()
			case "GOTO":
				target, err := ip.evalExpression()
				if err != nil {
					return false, err
				}
				idx, ok := ip.findLine(target)
				if !ok {
					return false, fmt.Errorf("line %d not found", target)
				}
				ip.current = idx
				return true, nil
			case "IF":
				taken, err := ip.execIf()
				if err != nil {
					return false, err
				}
				if !taken {
					return false, nil // skip to next line
				}
				// fall through: continue executing the rest of this line
			case "FOR":
				if err := ip.execFor(); err != nil {
					return false, err
				}
			case "NEXT":
				jumped, err := ip.execNext()
				if err != nil {
					return false, err
				}
				if jumped {
					return true, nil
				}
			case "END":
				ip.current = len(ip.program)
				return true, nil
			case "REM":
				return false, nil
			default:
				return false, fmt.Errorf("unknown command: %s", cmd)
			}

		case tok.Type == TokVariable:
			// implicit LET: "X = 1" with no LET keyword
			if err := ip.execLet(); err != nil {
				return false, err
			}

		default:
			ip.pos++
		}
	}
	return false, nil
}

func (ip *Interpreter) findLine(number int32) (int, bool) {
	for i, l := range ip.program {
		if l.number == number {
			return i, true
		}
	}
	return 0, false
}

func (ip *Interpreter) execPrint() {
	newline := true
	for ip.pos < len(ip.toks) && ip.toks[ip.pos].Type != TokEOL {
		switch ip.toks[ip.pos].Type {
		case TokString:
			fmt.Fprint(ip.Out, ip.toks[ip.pos].Str)
			ip.pos++
			newline = true
		case TokSemicolon:
			ip.pos++
			newline = false
		case TokComma:
			fmt.Fprint(ip.Out, "\t")
			ip.pos++
			newline = true
		default:
			v, err := ip.evalExpression()
			if err != nil {
				return
			}
			fmt.Fprintf(ip.Out, "%d", v)
			newline = true
		}
	}
	if newline {
		fmt.Fprintln(ip.Out)
	}
}

func (ip *Interpreter) execLet() error {
	if ip.pos >= len(ip.toks) || ip.toks[ip.pos].Type != TokVariable {
		return fmt.Errorf("syntax error in LET")
	}
	idx := ip.toks[ip.pos].Value
	ip.pos++
	if ip.pos >= len(ip.toks) || ip.toks[ip.pos].Type != TokEquals {
		return fmt.Errorf("expected = in LET")
	}
	ip.pos++
	v, err := ip.evalExpression()
	if err != nil {
		return err
	}
	ip.variables[idx] = v
	return nil
}

func (ip *Interpreter) execInput() {
	for ip.pos < len(ip.toks) && ip.toks[ip.pos].Type != TokEOL {
		switch ip.toks[ip.pos].Type {
		case TokString:
			fmt.Fprint(ip.Out, ip.toks[ip.pos].Str)
			ip.pos++
		case TokVariable:
			idx := ip.toks[ip.pos].Value
			ip.pos++
			if ip.In != nil && ip.In.Scan() {
				v, _ := strconv.Atoi(strings.TrimSpace(ip.In.Text()))
				ip.variables[idx] = int32(v)
			}
		case TokComma, TokSemicolon:
			ip.pos++
		default:
			ip.pos++
		}
	}
}

func (ip *Interpreter) execIf() (bool, error) {
	cond, err := ip.evalCondition()
	if err != nil {
		return false, err
	}
	if ip.pos < len(ip.toks) && ip.toks[ip.pos].Type == TokWord && ip.toks[ip.pos].Str == "THEN" {
		ip.pos++
	}
	return cond, nil
}

func (ip *Interpreter) execFor() error {
	if ip.pos >= len(ip.toks) || ip.toks[ip.pos].Type != TokVariable {
		return fmt.Errorf("syntax error in FOR")
	}
	idx := ip.toks[ip.pos].Value
	ip.pos++
	if ip.pos >= len(ip.toks) || ip.toks[ip.pos].Type != TokEquals {
		return fmt.Errorf("expected = in FOR")
	}
	ip.pos++
	start, err := ip.evalExpression()
	if err != nil {
		return err
	}
	ip.variables[idx] = start

	if ip.pos < len(ip.toks) && ip.toks[ip.pos].Type == TokWord && ip.toks[ip.pos].Str == "TO" {
		ip.pos++
	}
	limit, err := ip.evalExpression()
	if err != nil {
		return err
	}

	ip.forStack = append(ip.forStack, forFrame{variable: idx, bodyLine: ip.current, limit: limit})
	return nil
}

// execNext increments the loop variable of the innermost matching FOR and,
// if the loop has not yet run its course, jumps back to the line after the
// FOR so the body runs again.
func (ip *Interpreter) execNext() (jumped bool, err error) {
	if ip.pos >= len(ip.toks) || ip.toks[ip.pos].Type != TokVariable {
		return false, fmt.Errorf("syntax error in NEXT")
	}
	idx := ip.toks[ip.pos].Value
	ip.pos++

	for i := len(ip.forStack) - 1; i >= 0; i-- {
		if ip.forStack[i].variable != idx {
			continue
		}
		frame := ip.forStack[i]
		ip.variables[idx]++
		if ip.variables[idx] <= frame.limit {
			ip.current = frame.bodyLine + 1
			return true, nil
		}
		ip.forStack = ip.forStack[:i]
		return false, nil
	}
	return false, fmt.Errorf("NEXT without matching FOR")
}

func (ip *Interpreter) evalCondition() (bool, error) {
	left, err := ip.evalExpression()
	if err != nil {
		return false, err
	}
	if ip.pos >= len(ip.toks) {
		return left != 0, nil
	}
	op := ip.toks[ip.pos].Type
	switch op {
	case TokEquals, TokLT, TokGT, TokLE, TokGE, TokNE:
		ip.pos++
		right, err := ip.evalExpression()
		if err != nil {
			return false, err
		}
		switch op {
		case TokEquals:
			return left == right, nil
		case TokLT:
			return left < right, nil
		case TokGT:
			return left > right, nil
		case TokLE:
			return left <= right, nil
		case TokGE:
			return left >= right, nil
		case TokNE:
			return left != right, nil
		}
	}
	return left != 0, nil
}

func (ip *Interpreter) evalExpression() (int32, error) {
	val, err := ip.evalTerm()
	if err != nil {
		return 0, err
	}
	for ip.pos < len(ip.toks) {
		switch ip.toks[ip.pos].Type {
		case TokPlus:
			ip.pos++
			v, err := ip.evalTerm()
			if err != nil {
				return 0, err
			}
			val += v
		case TokMinus:
			ip.pos++
			v, err := ip.evalTerm()
			if err != nil {
				return 0, err
			}
			val -= v
		default:
			return val, nil
		}
	}
	return val, nil
}

func (ip *Interpreter) evalTerm() (int32, error) {
	val, err := ip.evalPrimary()
	if err != nil {
		return 0, err
	}
	for ip.pos < len(ip.toks) {
		switch ip.toks[ip.pos].Type {
		case TokMult:
			ip.pos++
			v, err := ip.evalPrimary()
			if err != nil {
				return 0, err
			}
			val *= v
		case TokDiv:
			ip.pos++
			v, err := ip.evalPrimary()
			if err != nil {
				return 0, err
			}
			if v != 0 {
				val /= v
			}
		default:
			return val, nil
		}
	}
	return val, nil
}

func (ip *Interpreter) evalPrimary() (int32, error) {
	if ip.pos >= len(ip.toks) {
		return 0, nil
	}
	tok := ip.toks[ip.pos]
	switch tok.Type {
	case TokNumber:
		ip.pos++
		return tok.Value, nil
	case TokVariable:
		ip.pos++
		return ip.variables[tok.Value], nil
	case TokLParen:
		ip.pos++
		v, err := ip.evalExpression()
		if err != nil {
			return 0, err
		}
		if ip.pos < len(ip.toks) && ip.toks[ip.pos].Type == TokRParen {
			ip.pos++
		}
		return v, nil
	case TokMinus:
		ip.pos++
		v, err := ip.evalPrimary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	}
	return 0, nil
}
