package asm

import (
	"fmt"
	"strings"
)

// OpInfo describes one operation of the instruction set.
type OpInfo struct {
	Op       Opcode
	Mnemonic string
	Shape    Shape
	// Writes is a bitmask of the register slots the operation writes to.
	Writes uint8
	// Contract operations touch chain or contract state and are rejected in predicates.
	Contract bool
	Doc      string
}

// WritesSlot reports whether the register in argument slot i is a destination.
func (o *OpInfo) WritesSlot(i int) bool {
	return o.Writes&(1<<uint(i)) != 0
}

const (
	w0 = 1 << 0
	w1 = 1 << 1
)

var (
	sNone  = mustShape()
	sR     = mustShape(ArgReg)
	sRR    = mustShape(ArgReg, ArgReg)
	sRRR   = mustShape(ArgReg, ArgReg, ArgReg)
	sRRRR  = mustShape(ArgReg, ArgReg, ArgReg, ArgReg)
	sRRRI6 = mustShape(ArgReg, ArgReg, ArgReg, ArgImm06)
	sRRI12 = mustShape(ArgReg, ArgReg, ArgImm12)
	sRI18  = mustShape(ArgReg, ArgImm18)
	sI24   = mustShape(ArgImm24)
)

// isa is the instruction set table. Everything else in this package derives from it.
var isa = []OpInfo{
	{ADD, "ADD", sRRR, w0, false, "$rA = $rB + $rC"},
	{AND, "AND", sRRR, w0, false, "$rA = $rB & $rC"},
	{DIV, "DIV", sRRR, w0, false, "$rA = $rB / $rC"},
	{EQ, "EQ", sRRR, w0, false, "$rA = $rB == $rC"},
	{EXP, "EXP", sRRR, w0, false, "$rA = $rB ** $rC"},
	{GT, "GT", sRRR, w0, false, "$rA = $rB > $rC"},
	{LT, "LT", sRRR, w0, false, "$rA = $rB < $rC"},
	{MLOG, "MLOG", sRRR, w0, false, "$rA = floor(log_$rC($rB))"},
	{MROO, "MROO", sRRR, w0, false, "$rA = floor(root_$rC($rB))"},
	{MOD, "MOD", sRRR, w0, false, "$rA = $rB % $rC"},
	{MOVE, "MOVE", sRR, w0, false, "$rA = $rB"},
	{MUL, "MUL", sRRR, w0, false, "$rA = $rB * $rC"},
	{NOT, "NOT", sRR, w0, false, "$rA = ^$rB"},
	{OR, "OR", sRRR, w0, false, "$rA = $rB | $rC"},
	{SLL, "SLL", sRRR, w0, false, "$rA = $rB << $rC"},
	{SRL, "SRL", sRRR, w0, false, "$rA = $rB >> $rC"},
	{SUB, "SUB", sRRR, w0, false, "$rA = $rB - $rC"},
	{XOR, "XOR", sRRR, w0, false, "$rA = $rB ^ $rC"},
	{MLDV, "MLDV", sRRRR, w0, false, "$rA = ($rB * $rC) / $rD without intermediate overflow"},

	{RET, "RET", sR, 0, false, "return $rA from the current context"},
	{RETD, "RETD", sRR, 0, false, "return $rB bytes of memory starting at $rA"},
	{ALOC, "ALOC", sR, 0, false, "allocate $rA bytes on the heap"},
	{MCL, "MCL", sRR, 0, false, "clear $rB bytes of memory starting at $rA"},
	{MCP, "MCP", sRRR, 0, false, "copy $rC bytes from $rB to $rA"},
	{MEQ, "MEQ", sRRRR, w0, false, "$rA = memory at $rB == memory at $rC, $rD bytes"},
	{BHSH, "BHSH", sRR, 0, true, "write the hash of block $rB to $rA"},
	{BHEI, "BHEI", sR, w0, true, "$rA = current block height"},
	{BURN, "BURN", sRR, 0, true, "burn $rA coins of the sub asset at $rB"},
	{CALL, "CALL", sRRRR, 0, true, "call the contract described at $rA with $rB coins of asset $rC and $rD gas"},
	{CCP, "CCP", sRRRR, 0, true, "copy $rD bytes of code of contract $rB from offset $rC to $rA"},
	{CROO, "CROO", sRR, 0, true, "write the code root of contract $rB to $rA"},
	{CSIZ, "CSIZ", sRR, w0, true, "$rA = code size of contract $rB"},
	{CB, "CB", sR, 0, true, "write the block coinbase to $rA"},
	{LDC, "LDC", sRRR, 0, true, "append $rC bytes of code of contract $rA from offset $rB to the current code"},
	{LOG, "LOG", sRRRR, 0, true, "log the values of four registers"},
	{LOGD, "LOGD", sRRRR, 0, true, "log $rD bytes of memory at $rC tagged with $rA and $rB"},
	{MINT, "MINT", sRR, 0, true, "mint $rA coins of the sub asset at $rB"},
	{RVRT, "RVRT", sR, 0, false, "revert the current context with $rA"},
	{SCWQ, "SCWQ", sRRR, w1, true, "clear $rC storage slots starting at key $rA, $rB = all were set"},
	{SRW, "SRW", sRRR, w0 | w1, true, "$rA = storage word at key $rC, $rB = slot was set"},
	{SRWQ, "SRWQ", sRRRR, w1, true, "read $rD storage slots starting at key $rC to $rA, $rB = all were set"},
	{SWW, "SWW", sRRR, w1, true, "store $rC at key $rA, $rB = slot was new"},
	{SWWQ, "SWWQ", sRRRR, w1, true, "store $rD slots from $rC at key $rA, $rB = count of new slots"},
	{TR, "TR", sRRR, 0, true, "transfer $rB coins of asset $rC to contract $rA"},

	{ECK1, "ECK1", sRRR, 0, false, "recover the secp256k1 public key of signature $rB over digest $rC into $rA"},
	{ED19, "ED19", sRRRR, 0, false, "verify ed25519 signature $rB of key $rA over $rD bytes at $rC"},
	{K256, "K256", sRRR, 0, false, "write keccak256 of $rC bytes at $rB to $rA"},
	{S256, "S256", sRRR, 0, false, "write sha256 of $rC bytes at $rB to $rA"},
	{TIME, "TIME", sRR, w0, true, "$rA = timestamp of block $rB"},

	{NOOP, "NOOP", sNone, 0, false, "no operation"},
	{FLAG, "FLAG", sR, 0, false, "$flag = $rA"},
	{BAL, "BAL", sRRR, w0, true, "$rA = balance of asset $rB in contract $rC"},
	{JMP, "JMP", sR, 0, false, "$pc = $is + $rA * 4"},
	{JNE, "JNE", sRRR, 0, false, "if $rA != $rB: $pc = $is + $rC * 4"},

	{ADDI, "ADDI", sRRI12, w0, false, "$rA = $rB + imm"},
	{ANDI, "ANDI", sRRI12, w0, false, "$rA = $rB & imm"},
	{DIVI, "DIVI", sRRI12, w0, false, "$rA = $rB / imm"},
	{EXPI, "EXPI", sRRI12, w0, false, "$rA = $rB ** imm"},
	{MODI, "MODI", sRRI12, w0, false, "$rA = $rB % imm"},
	{MULI, "MULI", sRRI12, w0, false, "$rA = $rB * imm"},
	{ORI, "ORI", sRRI12, w0, false, "$rA = $rB | imm"},
	{SLLI, "SLLI", sRRI12, w0, false, "$rA = $rB << imm"},
	{SRLI, "SRLI", sRRI12, w0, false, "$rA = $rB >> imm"},
	{SUBI, "SUBI", sRRI12, w0, false, "$rA = $rB - imm"},
	{XORI, "XORI", sRRI12, w0, false, "$rA = $rB ^ imm"},
	{JNEI, "JNEI", sRRI12, 0, false, "if $rA != $rB: $pc = $is + imm * 4"},
	{LB, "LB", sRRI12, w0, false, "$rA = byte at $rB + imm"},
	{LW, "LW", sRRI12, w0, false, "$rA = word at $rB + imm * 8"},
	{SB, "SB", sRRI12, 0, false, "byte at $rA + imm = $rB"},
	{SW, "SW", sRRI12, 0, false, "word at $rA + imm * 8 = $rB"},
	{MCPI, "MCPI", sRRI12, 0, false, "copy imm bytes from $rB to $rA"},
	{GTF, "GTF", sRRI12, w0, false, "$rA = transaction field imm at index $rB"},

	{MCLI, "MCLI", sRI18, 0, false, "clear imm bytes of memory starting at $rA"},
	{GM, "GM", sRI18, w0, false, "$rA = metadata selected by imm"},
	{MOVI, "MOVI", sRI18, w0, false, "$rA = imm"},
	{JNZI, "JNZI", sRI18, 0, false, "if $rA != 0: $pc = $is + imm * 4"},
	{JMPF, "JMPF", sRI18, 0, false, "$pc = $pc + ($rA + imm + 1) * 4"},
	{JMPB, "JMPB", sRI18, 0, false, "$pc = $pc - ($rA + imm) * 4"},
	{JNZF, "JNZF", sRRI12, 0, false, "if $rA != 0: $pc = $pc + ($rB + imm + 1) * 4"},
	{JNZB, "JNZB", sRRI12, 0, false, "if $rA != 0: $pc = $pc - ($rB + imm) * 4"},
	{JNEF, "JNEF", sRRRI6, 0, false, "if $rA != $rB: $pc = $pc + ($rC + imm + 1) * 4"},
	{JNEB, "JNEB", sRRRI6, 0, false, "if $rA != $rB: $pc = $pc - ($rC + imm) * 4"},

	{JI, "JI", sI24, 0, false, "$pc = $is + imm * 4"},
	{CFEI, "CFEI", sI24, 0, false, "extend the call frame by imm bytes"},
	{CFSI, "CFSI", sI24, 0, false, "shrink the call frame by imm bytes"},
	{CFE, "CFE", sR, 0, false, "extend the call frame by $rA bytes"},
	{CFS, "CFS", sR, 0, false, "shrink the call frame by $rA bytes"},
	{PSHL, "PSHL", sI24, 0, false, "push the registers selected by imm from the low half"},
	{PSHH, "PSHH", sI24, 0, false, "push the registers selected by imm from the high half"},
	{POPL, "POPL", sI24, 0, false, "pop the registers selected by imm into the low half"},
	{POPH, "POPH", sI24, 0, false, "pop the registers selected by imm into the high half"},

	{WDCM, "WDCM", sRRRI6, w0, false, "$rA = 128-bit compare of $rB and $rC"},
	{WQCM, "WQCM", sRRRI6, w0, false, "$rA = 256-bit compare of $rB and $rC"},
	{WDOP, "WDOP", sRRRI6, 0, false, "128-bit $rA = $rB op $rC"},
	{WQOP, "WQOP", sRRRI6, 0, false, "256-bit $rA = $rB op $rC"},
	{WDML, "WDML", sRRRI6, 0, false, "128-bit $rA = $rB * $rC"},
	{WQML, "WQML", sRRRI6, 0, false, "256-bit $rA = $rB * $rC"},
	{WDDV, "WDDV", sRRRI6, 0, false, "128-bit $rA = $rB / $rC"},
	{WQDV, "WQDV", sRRRI6, 0, false, "256-bit $rA = $rB / $rC"},
	{WDMD, "WDMD", sRRRR, 0, false, "128-bit $rA = $rB * $rC / $rD"},
	{WQMD, "WQMD", sRRRR, 0, false, "256-bit $rA = $rB * $rC / $rD"},
	{WDAM, "WDAM", sRRRR, 0, false, "128-bit $rA = ($rB + $rC) % $rD"},
	{WQAM, "WQAM", sRRRR, 0, false, "256-bit $rA = ($rB + $rC) % $rD"},
	{WDMM, "WDMM", sRRRR, 0, false, "128-bit $rA = ($rB * $rC) % $rD"},
	{WQMM, "WQMM", sRRRR, 0, false, "256-bit $rA = ($rB * $rC) % $rD"},
}

var (
	registry  [256]*OpInfo
	mnemonics = make(map[string]*OpInfo, len(isa))
)

func init() {
	for i := range isa {
		info := &isa[i]
		if registry[info.Op] != nil {
			panic(fmt.Errorf("opcode 0x%02x registered twice", uint8(info.Op)))
		}
		for s := 0; s < MaxSlots; s++ {
			if info.WritesSlot(s) && info.Shape.Kind(s) != ArgReg {
				panic(fmt.Errorf("%s writes slot %d which is not a register", info.Mnemonic, s))
			}
		}
		registry[info.Op] = info
		mnemonics[info.Mnemonic] = info
	}
}

// Lookup returns the registry entry for an opcode byte.
func Lookup(b uint8) (*OpInfo, bool) {
	info := registry[b]
	return info, info != nil
}

// LookupMnemonic is case-insensitive.
func LookupMnemonic(m string) (*OpInfo, bool) {
	info, ok := mnemonics[strings.ToUpper(m)]
	return info, ok
}

// Ops lists the registered operations in opcode order.
func Ops() []*OpInfo {
	out := make([]*OpInfo, 0, len(isa))
	for _, info := range registry {
		if info != nil {
			out = append(out, info)
		}
	}
	return out
}
