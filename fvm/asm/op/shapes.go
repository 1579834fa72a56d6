package op

import "github.com/fuel-go/fvm/fvm/asm"

func none(op asm.Opcode) asm.Instruction {
	return asm.MustNew(op)
}

func r(op asm.Opcode, ra uint8) asm.Instruction {
	return asm.MustNew(op, uint32(ra))
}

func rr(op asm.Opcode, ra, rb uint8) asm.Instruction {
	return asm.MustNew(op, uint32(ra), uint32(rb))
}

func rrr(op asm.Opcode, ra, rb, rc uint8) asm.Instruction {
	return asm.MustNew(op, uint32(ra), uint32(rb), uint32(rc))
}

func rrrr(op asm.Opcode, ra, rb, rc, rd uint8) asm.Instruction {
	return asm.MustNew(op, uint32(ra), uint32(rb), uint32(rc), uint32(rd))
}

func rrri06(op asm.Opcode, ra, rb, rc, imm uint8) asm.Instruction {
	return asm.MustNew(op, uint32(ra), uint32(rb), uint32(rc), uint32(imm))
}

func rri12(op asm.Opcode, ra, rb uint8, imm uint16) asm.Instruction {
	return asm.MustNew(op, uint32(ra), uint32(rb), uint32(imm))
}

func ri18(op asm.Opcode, ra uint8, imm uint32) asm.Instruction {
	return asm.MustNew(op, uint32(ra), imm)
}

func i24(op asm.Opcode, imm uint32) asm.Instruction {
	return asm.MustNew(op, imm)
}

// Program serializes instructions into bytecode.
func Program(ins ...asm.Instruction) []byte {
	return asm.Assemble(ins)
}
