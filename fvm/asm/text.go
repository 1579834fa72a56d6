package asm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fuel-go/fvm/fvm/params"
)

// ParseLine parses one line of assembler text. Empty lines and comments ("#", ";" or "//")
// yield ok == false.
func ParseLine(line string) (ins Instruction, ok bool, err error) {
	line = stripComment(line)
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	if len(fields) == 0 {
		return Instruction{}, false, nil
	}
	info, found := LookupMnemonic(fields[0])
	if !found {
		return Instruction{}, false, fmt.Errorf("unknown mnemonic %q", fields[0])
	}
	args := make([]uint32, 0, len(fields)-1)
	for n, f := range fields[1:] {
		k := info.Shape.Kind(n)
		if k == ArgReg {
			r, ok := params.RegByName(f)
			if !ok {
				return Instruction{}, false, fmt.Errorf("%s argument %d: bad register %q", info.Mnemonic, n, f)
			}
			args = append(args, uint32(r))
			continue
		}
		v, err := strconv.ParseUint(f, 0, 32)
		if err != nil {
			return Instruction{}, false, fmt.Errorf("%s argument %d: bad immediate %q: %w", info.Mnemonic, n, f, err)
		}
		args = append(args, uint32(v))
	}
	ins, err = New(info.Op, args...)
	if err != nil {
		return Instruction{}, false, err
	}
	return ins, true, nil
}

func stripComment(line string) string {
	for _, c := range []string{"#", ";", "//"} {
		if i := strings.Index(line, c); i >= 0 {
			line = line[:i]
		}
	}
	return strings.TrimSpace(line)
}

// ParseProgram assembles a whole text program.
func ParseProgram(r io.Reader) ([]Instruction, error) {
	var out []Instruction
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		ins, ok, err := ParseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if ok {
			out = append(out, ins)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	return out, nil
}

// WriteListing writes one "offset: word  text" line per instruction.
func WriteListing(w io.Writer, ins []Instruction) error {
	for n, i := range ins {
		if _, err := fmt.Fprintf(w, "%06x: %08x  %s\n", n*InstructionSize, i.Word(), i); err != nil {
			return err
		}
	}
	return nil
}
