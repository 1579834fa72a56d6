package interpreter

import (
	"github.com/fuel-go/fvm/fvm/asm"
)

type executionFunc func(in *Interpreter, d asm.Decoded) error

type operation struct {
	execute executionFunc
	// jumps is set for instructions that move $pc themselves.
	jumps bool
}

var jumpTable [256]*operation

func def(op asm.Opcode, fn executionFunc) {
	jumpTable[op] = &operation{execute: fn}
}

func defJump(op asm.Opcode, fn executionFunc) {
	jumpTable[op] = &operation{execute: fn, jumps: true}
}

func wide(fn func(in *Interpreter, w wideWidth, ra, rb, rc, imm uint8) error, w wideWidth) executionFunc {
	return func(in *Interpreter, d asm.Decoded) error {
		return fn(in, w, d.RA, d.RB, d.RC, d.Imm06)
	}
}

func wideTern(fn wideTernary, w wideWidth) executionFunc {
	return func(in *Interpreter, d asm.Decoded) error {
		return opWideTernary(in, w, d.RA, d.RB, d.RC, d.RD, fn)
	}
}

func init() {
	def(asm.ADD, aluRRR(aluAdd))
	def(asm.AND, aluRRR(aluAnd))
	def(asm.DIV, aluRRR(aluDiv))
	def(asm.EQ, aluRRR(aluEq))
	def(asm.EXP, aluRRR(aluExp))
	def(asm.GT, aluRRR(aluGt))
	def(asm.LT, aluRRR(aluLt))
	def(asm.MLOG, aluRRR(aluMlog))
	def(asm.MROO, aluRRR(aluMroo))
	def(asm.MOD, aluRRR(aluMod))
	def(asm.MOVE, opMove)
	def(asm.MUL, aluRRR(aluMul))
	def(asm.NOT, opNot)
	def(asm.OR, aluRRR(aluOr))
	def(asm.SLL, aluRRR(aluSll))
	def(asm.SRL, aluRRR(aluSrl))
	def(asm.SUB, aluRRR(aluSub))
	def(asm.XOR, aluRRR(aluXor))
	def(asm.MLDV, opMldv)

	def(asm.ADDI, aluRRI(aluAdd))
	def(asm.ANDI, aluRRI(aluAnd))
	def(asm.DIVI, aluRRI(aluDiv))
	def(asm.EXPI, aluRRI(aluExp))
	def(asm.MODI, aluRRI(aluMod))
	def(asm.MULI, aluRRI(aluMul))
	def(asm.ORI, aluRRI(aluOr))
	def(asm.SLLI, aluRRI(aluSll))
	def(asm.SRLI, aluRRI(aluSrl))
	def(asm.SUBI, aluRRI(aluSub))
	def(asm.XORI, aluRRI(aluXor))
	def(asm.MOVI, opMovi)
	def(asm.NOOP, opNoop)
	def(asm.FLAG, opFlag)

	def(asm.LB, opLB)
	def(asm.LW, opLW)
	def(asm.SB, opSB)
	def(asm.SW, opSW)
	def(asm.MCL, opMcl)
	def(asm.MCLI, opMcli)
	def(asm.MCP, opMcp)
	def(asm.MCPI, opMcpi)
	def(asm.MEQ, opMeq)
	def(asm.ALOC, opAloc)
	def(asm.CFE, opCfe)
	def(asm.CFEI, opCfei)
	def(asm.CFS, opCfs)
	def(asm.CFSI, opCfsi)
	def(asm.PSHL, pushRegs(pushLowBase))
	def(asm.PSHH, pushRegs(pushHighBase))
	def(asm.POPL, popRegs(pushLowBase))
	def(asm.POPH, popRegs(pushHighBase))

	defJump(asm.JMP, opJmp)
	defJump(asm.JI, opJi)
	defJump(asm.JNE, opJne)
	defJump(asm.JNEI, opJnei)
	defJump(asm.JNZI, opJnzi)
	defJump(asm.JMPF, opJmpf)
	defJump(asm.JMPB, opJmpb)
	defJump(asm.JNZF, opJnzf)
	defJump(asm.JNZB, opJnzb)
	defJump(asm.JNEF, opJnef)
	defJump(asm.JNEB, opJneb)
	defJump(asm.RET, opRet)
	defJump(asm.RETD, opRetd)
	defJump(asm.RVRT, opRvrt)
	defJump(asm.CALL, func(in *Interpreter, d asm.Decoded) error {
		return opCall(in, d.RA, d.RB, d.RC, d.RD)
	})

	def(asm.CCP, opCcp)
	def(asm.CROO, opCroo)
	def(asm.CSIZ, opCsiz)
	def(asm.LDC, opLdc)
	def(asm.BAL, opBal)
	def(asm.BHEI, opBhei)
	def(asm.BHSH, opBhsh)
	def(asm.CB, opCb)
	def(asm.TIME, opTime)
	def(asm.SRW, opSrw)
	def(asm.SWW, opSww)
	def(asm.SRWQ, opSrwq)
	def(asm.SWWQ, opSwwq)
	def(asm.SCWQ, opScwq)
	def(asm.TR, opTr)
	def(asm.MINT, opMint)
	def(asm.BURN, opBurn)
	def(asm.LOG, opLog)
	def(asm.LOGD, opLogd)

	def(asm.ECK1, opEck1)
	def(asm.ED19, opEd19)
	def(asm.K256, opK256)
	def(asm.S256, opS256)
	def(asm.GM, opGm)
	def(asm.GTF, opGtf)

	def(asm.WDCM, wide(opWideCompare, width128))
	def(asm.WQCM, wide(opWideCompare, width256))
	def(asm.WDOP, wide(opWideMath, width128))
	def(asm.WQOP, wide(opWideMath, width256))
	def(asm.WDML, wide(opWideMul, width128))
	def(asm.WQML, wide(opWideMul, width256))
	def(asm.WDDV, wide(opWideDiv, width128))
	def(asm.WQDV, wide(opWideDiv, width256))
	def(asm.WDMD, wideTern(wideMulDiv, width128))
	def(asm.WQMD, wideTern(wideMulDiv, width256))
	def(asm.WDAM, wideTern(wideAddMod, width128))
	def(asm.WQAM, wideTern(wideAddMod, width256))
	def(asm.WDMM, wideTern(wideMulMod, width128))
	def(asm.WQMM, wideTern(wideMulMod, width256))

	for _, info := range asm.Ops() {
		if jumpTable[info.Op] == nil {
			panic("no implementation for " + info.Mnemonic)
		}
	}
}
