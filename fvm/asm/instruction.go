package asm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fuel-go/fvm/fvm/params"
)

const InstructionSize = params.InstructionSize

var (
	ErrReservedBitsSet       = errors.New("reserved instruction bits are set")
	ErrArgCount              = errors.New("wrong number of instruction arguments")
	ErrRegisterOutOfRange    = errors.New("register id out of range")
	ErrImmediateOutOfRange   = errors.New("immediate does not fit its field")
	errNotAnImmediateOperand = errors.New("instruction has no immediate")
)

// DecodeError locates a malformed word in a code stream.
type DecodeError struct {
	Offset int
	Word   uint32
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("offset %d: word 0x%08x: %v", e.Offset, e.Word, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Instruction is a validated instruction: a defined opcode plus the raw 3 argument bytes.
// Register ids and immediates are read through accessors that check the opcode's shape.
type Instruction struct {
	op   Opcode
	args [3]byte
}

// ParseInstruction validates a word: the opcode must be defined and reserved bits zero.
func ParseInstruction(word uint32) (Instruction, error) {
	op, err := OpcodeFromByte(uint8(word >> 24))
	if err != nil {
		return Instruction{}, err
	}
	if word&registry[op].Shape.ReservedMask() != 0 {
		return Instruction{}, fmt.Errorf("%s: %w", op, ErrReservedBitsSet)
	}
	return Instruction{op: op, args: [3]byte{byte(word >> 16), byte(word >> 8), byte(word)}}, nil
}

// New builds an instruction from plain integers, one per argument slot.
func New(op Opcode, args ...uint32) (Instruction, error) {
	info := registry[op]
	if info == nil {
		return Instruction{}, &InvalidOpcodeError{Byte: uint8(op)}
	}
	shape := info.Shape
	if len(args) != shape.Len() {
		return Instruction{}, fmt.Errorf("%s takes %d arguments, got %d: %w", op, shape.Len(), len(args), ErrArgCount)
	}
	word := uint32(op) << 24
	for i, a := range args {
		k := shape.Kind(i)
		if k == ArgReg {
			if a >= params.RegCount {
				return Instruction{}, fmt.Errorf("%s argument %d = %d: %w", op, i, a, ErrRegisterOutOfRange)
			}
			word |= a << regShift(i)
			continue
		}
		if a >= 1<<k.Bits() {
			return Instruction{}, fmt.Errorf("%s argument %d = %d exceeds %s: %w", op, i, a, k, ErrImmediateOutOfRange)
		}
		word |= a
	}
	return Instruction{op: op, args: [3]byte{byte(word >> 16), byte(word >> 8), byte(word)}}, nil
}

// MustNew is New for hardcoded programs.
func MustNew(op Opcode, args ...uint32) Instruction {
	ins, err := New(op, args...)
	if err != nil {
		panic(err)
	}
	return ins
}

func (i Instruction) Op() Opcode { return i.op }

func (i Instruction) Info() *OpInfo { return registry[i.op] }

func (i Instruction) Word() uint32 {
	return uint32(i.op)<<24 | uint32(i.args[0])<<16 | uint32(i.args[1])<<8 | uint32(i.args[2])
}

func (i Instruction) Bytes() [InstructionSize]byte { return ToBytes(i.Word()) }

// Decoded returns the flat field view used by the interpreter.
func (i Instruction) Decoded() Decoded { return Decode(i.Word()) }

// Reg returns the register id in argument slot n. It panics if slot n is not a register
// in this opcode's shape.
func (i Instruction) Reg(n int) uint8 {
	if registry[i.op].Shape.Kind(n) != ArgReg {
		panic(fmt.Errorf("%s slot %d: %w", i.op, n, ErrNoSuchRegisterSlot))
	}
	return uint8(i.Word()>>regShift(n)) & 0x3f
}

// Imm returns the trailing immediate. It panics if the opcode has none.
func (i Instruction) Imm() uint32 {
	k, ok := registry[i.op].Shape.Imm()
	if !ok {
		panic(fmt.Errorf("%s: %w", i.op, errNotAnImmediateOperand))
	}
	return i.Word() & (1<<k.Bits() - 1)
}

// Args returns the argument values in slot order.
func (i Instruction) Args() []uint32 {
	shape := registry[i.op].Shape
	out := make([]uint32, shape.Len())
	for n := range out {
		if shape.Kind(n) == ArgReg {
			out[n] = uint32(i.Reg(n))
		} else {
			out[n] = i.Imm()
		}
	}
	return out
}

// String renders the instruction in assembler syntax, e.g. "ADDI $r16 $one 5".
func (i Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(i.op.String())
	shape := registry[i.op].Shape
	for n, a := range i.Args() {
		sb.WriteByte(' ')
		if shape.Kind(n) == ArgReg {
			sb.WriteByte('$')
			sb.WriteString(params.RegName(uint8(a)))
		} else {
			fmt.Fprintf(&sb, "%d", a)
		}
	}
	return sb.String()
}
