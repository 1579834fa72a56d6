package asm

import (
	"encoding/binary"
	"errors"
)

var ErrShortInstruction = errors.New("fewer than 4 bytes for an instruction")

// Decoded holds every argument field an instruction word could carry. Which ones are
// meaningful depends on the opcode's shape.
type Decoded struct {
	Op    Opcode
	RA    uint8
	RB    uint8
	RC    uint8
	RD    uint8
	Imm06 uint8
	Imm12 uint16
	Imm18 uint32
	Imm24 uint32
}

// Decode extracts all fields of a word. It never fails, undefined opcodes included.
func Decode(word uint32) Decoded {
	return Decoded{
		Op:    Opcode(word >> 24),
		RA:    uint8(word>>18) & 0x3f,
		RB:    uint8(word>>12) & 0x3f,
		RC:    uint8(word>>6) & 0x3f,
		RD:    uint8(word) & 0x3f,
		Imm06: uint8(word) & 0x3f,
		Imm12: uint16(word) & 0xfff,
		Imm18: word & 0x3ffff,
		Imm24: word & 0xffffff,
	}
}

// Reg returns the register field for argument slot i.
func (d Decoded) Reg(i int) uint8 {
	switch i {
	case 0:
		return d.RA
	case 1:
		return d.RB
	case 2:
		return d.RC
	case 3:
		return d.RD
	}
	return 0
}

// Imm returns the immediate field of the given kind.
func (d Decoded) Imm(k ArgKind) uint32 {
	switch k {
	case ArgImm06:
		return uint32(d.Imm06)
	case ArgImm12:
		return uint32(d.Imm12)
	case ArgImm18:
		return d.Imm18
	case ArgImm24:
		return d.Imm24
	}
	return 0
}

// Encode packs only the fields that the opcode's shape uses. Undefined opcodes encode
// to the opcode byte alone.
func Encode(d Decoded) uint32 {
	word := uint32(d.Op) << 24
	info := registry[d.Op]
	if info == nil {
		return word
	}
	for i := 0; i < info.Shape.Len(); i++ {
		k := info.Shape.Kind(i)
		if k == ArgReg {
			word |= uint32(d.Reg(i)&0x3f) << regShift(i)
		} else {
			word |= d.Imm(k) & (1<<k.Bits() - 1)
		}
	}
	return word
}

// ReservedMask returns the bits of word that its opcode requires to be zero.
// For undefined opcodes all argument bits are reserved.
func ReservedMask(op Opcode) uint32 {
	info := registry[op]
	if info == nil {
		return 1<<ArgBits - 1
	}
	return info.Shape.ReservedMask()
}

// FromBytes reads one big-endian instruction word.
func FromBytes(b []byte) (uint32, error) {
	if len(b) < InstructionSize {
		return 0, ErrShortInstruction
	}
	return binary.BigEndian.Uint32(b), nil
}

func ToBytes(word uint32) [InstructionSize]byte {
	var out [InstructionSize]byte
	binary.BigEndian.PutUint32(out[:], word)
	return out
}

// Words splits code into instruction words. Bytes that do not fill a whole word are
// returned as rest.
func Words(code []byte) (words []uint32, rest []byte) {
	n := len(code) / InstructionSize
	words = make([]uint32, n)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(code[i*InstructionSize:])
	}
	return words, code[n*InstructionSize:]
}

// Disassemble parses code into instructions. Parsing stops at the first malformed word;
// the error carries its byte offset and rest holds the unparsed bytes from there on.
func Disassemble(code []byte) (out []Instruction, rest []byte, err error) {
	words, tail := Words(code)
	out = make([]Instruction, 0, len(words))
	for i, w := range words {
		ins, err := ParseInstruction(w)
		if err != nil {
			return out, code[i*InstructionSize:], &DecodeError{Offset: i * InstructionSize, Word: w, Err: err}
		}
		out = append(out, ins)
	}
	return out, tail, nil
}

// Assemble serializes instructions back to bytes.
func Assemble(ins []Instruction) []byte {
	out := make([]byte, 0, len(ins)*InstructionSize)
	for _, i := range ins {
		out = binary.BigEndian.AppendUint32(out, i.Word())
	}
	return out
}
