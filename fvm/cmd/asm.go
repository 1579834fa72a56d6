package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/fuel-go/fvm/fvm/asm"
)

// LoadProgram reads bytecode, or assembles it when text is set.
func LoadProgram(path string, text bool) ([]byte, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program %q: %w", path, err)
	}
	if !text {
		return dat, nil
	}
	ins, err := asm.ParseProgram(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("failed to assemble %q: %w", path, err)
	}
	return asm.Assemble(ins), nil
}

func Asm(ctx *cli.Context) error {
	code, err := LoadProgram(ctx.Path(AsmInputFlag.Name), true)
	if err != nil {
		return err
	}
	if err := os.WriteFile(ctx.Path(AsmOutputFlag.Name), code, OutFilePerm); err != nil {
		return fmt.Errorf("failed to write bytecode: %w", err)
	}
	return nil
}

var AsmCommand = &cli.Command{
	Name:        "asm",
	Usage:       "Assemble a text program into bytecode",
	Description: "Assemble a text program into bytecode. One instruction per line, registers by name ($sp) or number (r16), comments start with #, ; or //",
	Action:      Asm,
	Flags: []cli.Flag{
		AsmInputFlag,
		AsmOutputFlag,
	},
}

func Disasm(ctx *cli.Context) error {
	code, err := os.ReadFile(ctx.Path(DisasmInputFlag.Name))
	if err != nil {
		return fmt.Errorf("failed to read bytecode: %w", err)
	}
	out := ctx.App.Writer
	ins, rest, err := asm.Disassemble(code)
	if lerr := asm.WriteListing(out, ins); lerr != nil {
		return lerr
	}
	var derr *asm.DecodeError
	if errors.As(err, &derr) {
		_, _ = fmt.Fprintf(out, "%06x: %08x  <%v>\n", derr.Offset, derr.Word, derr.Err)
		rest = rest[asm.InstructionSize:]
		// keep going past the bad word
		for len(rest) >= asm.InstructionSize {
			more, tail, err := asm.Disassemble(rest)
			offset := len(code) - len(rest)
			for n, i := range more {
				_, _ = fmt.Fprintf(out, "%06x: %08x  %s\n", offset+n*asm.InstructionSize, i.Word(), i)
			}
			rest = tail
			if !errors.As(err, &derr) {
				break
			}
			_, _ = fmt.Fprintf(out, "%06x: %08x  <%v>\n", offset+derr.Offset, derr.Word, derr.Err)
			rest = rest[asm.InstructionSize:]
		}
	} else if err != nil {
		return err
	}
	if len(rest) > 0 {
		_, _ = fmt.Fprintf(out, "%06x: trailing bytes %x\n", len(code)-len(rest), rest)
	}
	return nil
}

var DisasmCommand = &cli.Command{
	Name:        "disasm",
	Usage:       "Print the instruction listing of bytecode",
	Description: "Print the instruction listing of bytecode. Malformed words and trailing bytes are reported in place.",
	Action:      Disasm,
	Flags: []cli.Flag{
		DisasmInputFlag,
	},
}
