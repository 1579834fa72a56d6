package asm

import (
	"errors"
	"fmt"
	"strings"
)

// ArgKind is the kind of one argument slot of an instruction.
type ArgKind uint8

const (
	ArgReg ArgKind = iota + 1
	ArgImm06
	ArgImm12
	ArgImm18
	ArgImm24
)

const (
	// ArgBits is the number of argument bits following the opcode byte.
	ArgBits  = 24
	MaxSlots = 4
	RegBits  = 6
)

var (
	ErrTooManySlots       = errors.New("instruction shape has more than 4 argument slots")
	ErrTooManyBits        = errors.New("instruction shape needs more than 24 argument bits")
	ErrImmediateNotLast   = errors.New("immediate argument must be the last slot")
	ErrUnknownArgKind     = errors.New("unknown argument kind")
	ErrNoSuchRegisterSlot = errors.New("no register in argument slot")
)

// Bits returns the encoded width of the argument.
func (k ArgKind) Bits() uint {
	switch k {
	case ArgReg, ArgImm06:
		return 6
	case ArgImm12:
		return 12
	case ArgImm18:
		return 18
	case ArgImm24:
		return 24
	default:
		return 0
	}
}

// Bytes returns the size of the smallest unsigned integer that holds the argument.
func (k ArgKind) Bytes() int {
	switch k {
	case ArgReg, ArgImm06:
		return 1
	case ArgImm12:
		return 2
	case ArgImm18, ArgImm24:
		return 4
	default:
		return 0
	}
}

func (k ArgKind) IsImm() bool {
	return k >= ArgImm06 && k <= ArgImm24
}

func (k ArgKind) String() string {
	switch k {
	case ArgReg:
		return "reg"
	case ArgImm06:
		return "imm06"
	case ArgImm12:
		return "imm12"
	case ArgImm18:
		return "imm18"
	case ArgImm24:
		return "imm24"
	default:
		return fmt.Sprintf("ArgKind(%d)", uint8(k))
	}
}

// Shape is the argument layout of an opcode. Registers are packed from bit 23 downward,
// an immediate always ends at bit 0. Bits in between are reserved and must be zero.
type Shape struct {
	kinds [MaxSlots]ArgKind
	n     uint8
}

// NewShape validates an argument layout.
func NewShape(kinds ...ArgKind) (Shape, error) {
	var s Shape
	if len(kinds) > MaxSlots {
		return s, ErrTooManySlots
	}
	var bits uint
	for i, k := range kinds {
		w := k.Bits()
		if w == 0 {
			return s, fmt.Errorf("slot %d: %w", i, ErrUnknownArgKind)
		}
		if k.IsImm() && i != len(kinds)-1 {
			return s, fmt.Errorf("slot %d: %w", i, ErrImmediateNotLast)
		}
		bits += w
		s.kinds[i] = k
	}
	if bits > ArgBits {
		return Shape{}, fmt.Errorf("%d bits: %w", bits, ErrTooManyBits)
	}
	s.n = uint8(len(kinds))
	return s, nil
}

func mustShape(kinds ...ArgKind) Shape {
	s, err := NewShape(kinds...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Shape) Len() int { return int(s.n) }

func (s Shape) Kind(i int) ArgKind {
	if i < 0 || i >= int(s.n) {
		return 0
	}
	return s.kinds[i]
}

// Regs returns the number of register slots.
func (s Shape) Regs() int {
	n := 0
	for i := 0; i < int(s.n); i++ {
		if s.kinds[i] == ArgReg {
			n++
		}
	}
	return n
}

// Imm returns the kind of the trailing immediate, if any.
func (s Shape) Imm() (ArgKind, bool) {
	if s.n == 0 {
		return 0, false
	}
	k := s.kinds[s.n-1]
	return k, k.IsImm()
}

// UsedMask returns the argument bits the shape gives meaning to.
func (s Shape) UsedMask() uint32 {
	var m uint32
	for i := 0; i < s.Regs(); i++ {
		m |= 0x3f << regShift(i)
	}
	if k, ok := s.Imm(); ok {
		m |= 1<<k.Bits() - 1
	}
	return m
}

// ReservedMask returns the argument bits that must be zero.
func (s Shape) ReservedMask() uint32 {
	return ^s.UsedMask() & (1<<ArgBits - 1)
}

func (s Shape) String() string {
	parts := make([]string, s.n)
	for i := range parts {
		parts[i] = s.kinds[i].String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func regShift(slot int) uint {
	return uint(ArgBits - RegBits*(slot+1))
}
