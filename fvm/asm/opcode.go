package asm

import (
	"errors"
	"fmt"
)

// Opcode is the top byte of an instruction word.
type Opcode uint8

const (
	ADD  Opcode = 0x10
	AND  Opcode = 0x11
	DIV  Opcode = 0x12
	EQ   Opcode = 0x13
	EXP  Opcode = 0x14
	GT   Opcode = 0x15
	LT   Opcode = 0x16
	MLOG Opcode = 0x17
	MROO Opcode = 0x18
	MOD  Opcode = 0x19
	MOVE Opcode = 0x1a
	MUL  Opcode = 0x1b
	NOT  Opcode = 0x1c
	OR   Opcode = 0x1d
	SLL  Opcode = 0x1e
	SRL  Opcode = 0x1f
	SUB  Opcode = 0x20
	XOR  Opcode = 0x21
	MLDV Opcode = 0x22

	RET  Opcode = 0x24
	RETD Opcode = 0x25
	ALOC Opcode = 0x26
	MCL  Opcode = 0x27
	MCP  Opcode = 0x28
	MEQ  Opcode = 0x29
	BHSH Opcode = 0x2a
	BHEI Opcode = 0x2b
	BURN Opcode = 0x2c
	CALL Opcode = 0x2d
	CCP  Opcode = 0x2e
	CROO Opcode = 0x2f
	CSIZ Opcode = 0x30
	CB   Opcode = 0x31
	LDC  Opcode = 0x32
	LOG  Opcode = 0x33
	LOGD Opcode = 0x34
	MINT Opcode = 0x35
	RVRT Opcode = 0x36
	SCWQ Opcode = 0x37
	SRW  Opcode = 0x38
	SRWQ Opcode = 0x39
	SWW  Opcode = 0x3a
	SWWQ Opcode = 0x3b
	TR   Opcode = 0x3c

	ECK1 Opcode = 0x3e
	ED19 Opcode = 0x40
	K256 Opcode = 0x41
	S256 Opcode = 0x42
	TIME Opcode = 0x43

	NOOP Opcode = 0x47
	FLAG Opcode = 0x48
	BAL  Opcode = 0x49
	JMP  Opcode = 0x4a
	JNE  Opcode = 0x4b

	ADDI Opcode = 0x50
	ANDI Opcode = 0x51
	DIVI Opcode = 0x52
	EXPI Opcode = 0x53
	MODI Opcode = 0x54
	MULI Opcode = 0x55
	ORI  Opcode = 0x56
	SLLI Opcode = 0x57
	SRLI Opcode = 0x58
	SUBI Opcode = 0x59
	XORI Opcode = 0x5a
	JNEI Opcode = 0x5b
	LB   Opcode = 0x5c
	LW   Opcode = 0x5d
	SB   Opcode = 0x5e
	SW   Opcode = 0x5f
	MCPI Opcode = 0x60
	GTF  Opcode = 0x61

	MCLI Opcode = 0x70
	GM   Opcode = 0x71
	MOVI Opcode = 0x72
	JNZI Opcode = 0x73
	JMPF Opcode = 0x74
	JMPB Opcode = 0x75
	JNZF Opcode = 0x76
	JNZB Opcode = 0x77
	JNEF Opcode = 0x78
	JNEB Opcode = 0x79

	JI   Opcode = 0x90
	CFEI Opcode = 0x91
	CFSI Opcode = 0x92
	CFE  Opcode = 0x93
	CFS  Opcode = 0x94
	PSHL Opcode = 0x95
	PSHH Opcode = 0x96
	POPL Opcode = 0x97
	POPH Opcode = 0x98

	WDCM Opcode = 0xa0
	WQCM Opcode = 0xa1
	WDOP Opcode = 0xa2
	WQOP Opcode = 0xa3
	WDML Opcode = 0xa4
	WQML Opcode = 0xa5
	WDDV Opcode = 0xa6
	WQDV Opcode = 0xa7
	WDMD Opcode = 0xa8
	WQMD Opcode = 0xa9
	WDAM Opcode = 0xaa
	WQAM Opcode = 0xab
	WDMM Opcode = 0xac
	WQMM Opcode = 0xad
)

var ErrInvalidOpcode = errors.New("invalid opcode")

// InvalidOpcodeError is returned for a byte with no registered operation.
type InvalidOpcodeError struct {
	Byte uint8
}

func (e *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("invalid opcode 0x%02x", e.Byte)
}

func (e *InvalidOpcodeError) Unwrap() error { return ErrInvalidOpcode }

// OpcodeFromByte fails exactly for bytes that have no registered operation.
func OpcodeFromByte(b uint8) (Opcode, error) {
	if registry[b] == nil {
		return 0, &InvalidOpcodeError{Byte: b}
	}
	return Opcode(b), nil
}

func (op Opcode) Valid() bool {
	return registry[op] != nil
}

// Info returns the registry entry of the opcode, or nil if it is undefined.
func (op Opcode) Info() *OpInfo {
	return registry[op]
}

func (op Opcode) String() string {
	if info := registry[op]; info != nil {
		return info.Mnemonic
	}
	return fmt.Sprintf("opcode 0x%02x", uint8(op))
}
