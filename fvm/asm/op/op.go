// Package op has one constructor per operation. Constructors panic on out of range
// register ids or immediates; use asm.New to get an error instead.
package op

import "github.com/fuel-go/fvm/fvm/asm"

// ADD: $rA = $rB + $rC
func ADD(ra, rb, rc uint8) asm.Instruction { return rrr(asm.ADD, ra, rb, rc) }

// AND: $rA = $rB & $rC
func AND(ra, rb, rc uint8) asm.Instruction { return rrr(asm.AND, ra, rb, rc) }

// DIV: $rA = $rB / $rC
func DIV(ra, rb, rc uint8) asm.Instruction { return rrr(asm.DIV, ra, rb, rc) }

// EQ: $rA = $rB == $rC
func EQ(ra, rb, rc uint8) asm.Instruction { return rrr(asm.EQ, ra, rb, rc) }

// EXP: $rA = $rB ** $rC
func EXP(ra, rb, rc uint8) asm.Instruction { return rrr(asm.EXP, ra, rb, rc) }

// GT: $rA = $rB > $rC
func GT(ra, rb, rc uint8) asm.Instruction { return rrr(asm.GT, ra, rb, rc) }

// LT: $rA = $rB < $rC
func LT(ra, rb, rc uint8) asm.Instruction { return rrr(asm.LT, ra, rb, rc) }

// MLOG: $rA = floor(log_$rC($rB))
func MLOG(ra, rb, rc uint8) asm.Instruction { return rrr(asm.MLOG, ra, rb, rc) }

// MROO: $rA = floor(root_$rC($rB))
func MROO(ra, rb, rc uint8) asm.Instruction { return rrr(asm.MROO, ra, rb, rc) }

// MOD: $rA = $rB % $rC
func MOD(ra, rb, rc uint8) asm.Instruction { return rrr(asm.MOD, ra, rb, rc) }

// MOVE: $rA = $rB
func MOVE(ra, rb uint8) asm.Instruction { return rr(asm.MOVE, ra, rb) }

// MUL: $rA = $rB * $rC
func MUL(ra, rb, rc uint8) asm.Instruction { return rrr(asm.MUL, ra, rb, rc) }

// NOT: $rA = ^$rB
func NOT(ra, rb uint8) asm.Instruction { return rr(asm.NOT, ra, rb) }

// OR: $rA = $rB | $rC
func OR(ra, rb, rc uint8) asm.Instruction { return rrr(asm.OR, ra, rb, rc) }

// SLL: $rA = $rB << $rC
func SLL(ra, rb, rc uint8) asm.Instruction { return rrr(asm.SLL, ra, rb, rc) }

// SRL: $rA = $rB >> $rC
func SRL(ra, rb, rc uint8) asm.Instruction { return rrr(asm.SRL, ra, rb, rc) }

// SUB: $rA = $rB - $rC
func SUB(ra, rb, rc uint8) asm.Instruction { return rrr(asm.SUB, ra, rb, rc) }

// XOR: $rA = $rB ^ $rC
func XOR(ra, rb, rc uint8) asm.Instruction { return rrr(asm.XOR, ra, rb, rc) }

// MLDV: $rA = ($rB * $rC) / $rD without intermediate overflow
func MLDV(ra, rb, rc, rd uint8) asm.Instruction { return rrrr(asm.MLDV, ra, rb, rc, rd) }

// RET: return $rA from the current context
func RET(ra uint8) asm.Instruction { return r(asm.RET, ra) }

// RETD: return $rB bytes of memory starting at $rA
func RETD(ra, rb uint8) asm.Instruction { return rr(asm.RETD, ra, rb) }

// ALOC: allocate $rA bytes on the heap
func ALOC(ra uint8) asm.Instruction { return r(asm.ALOC, ra) }

// MCL: clear $rB bytes of memory starting at $rA
func MCL(ra, rb uint8) asm.Instruction { return rr(asm.MCL, ra, rb) }

// MCP: copy $rC bytes from $rB to $rA
func MCP(ra, rb, rc uint8) asm.Instruction { return rrr(asm.MCP, ra, rb, rc) }

// MEQ: $rA = memory at $rB == memory at $rC, $rD bytes
func MEQ(ra, rb, rc, rd uint8) asm.Instruction { return rrrr(asm.MEQ, ra, rb, rc, rd) }

// BHSH: write the hash of block $rB to $rA
func BHSH(ra, rb uint8) asm.Instruction { return rr(asm.BHSH, ra, rb) }

// BHEI: $rA = current block height
func BHEI(ra uint8) asm.Instruction { return r(asm.BHEI, ra) }

// BURN: burn $rA coins of the sub asset at $rB
func BURN(ra, rb uint8) asm.Instruction { return rr(asm.BURN, ra, rb) }

// CALL: call the contract described at $rA with $rB coins of asset $rC and $rD gas
func CALL(ra, rb, rc, rd uint8) asm.Instruction { return rrrr(asm.CALL, ra, rb, rc, rd) }

// CCP: copy $rD bytes of code of contract $rB from offset $rC to $rA
func CCP(ra, rb, rc, rd uint8) asm.Instruction { return rrrr(asm.CCP, ra, rb, rc, rd) }

// CROO: write the code root of contract $rB to $rA
func CROO(ra, rb uint8) asm.Instruction { return rr(asm.CROO, ra, rb) }

// CSIZ: $rA = code size of contract $rB
func CSIZ(ra, rb uint8) asm.Instruction { return rr(asm.CSIZ, ra, rb) }

// CB: write the block coinbase to $rA
func CB(ra uint8) asm.Instruction { return r(asm.CB, ra) }

// LDC: append $rC bytes of code of contract $rA from offset $rB to the current code
func LDC(ra, rb, rc uint8) asm.Instruction { return rrr(asm.LDC, ra, rb, rc) }

// LOG: log the values of four registers
func LOG(ra, rb, rc, rd uint8) asm.Instruction { return rrrr(asm.LOG, ra, rb, rc, rd) }

// LOGD: log $rD bytes of memory at $rC tagged with $rA and $rB
func LOGD(ra, rb, rc, rd uint8) asm.Instruction { return rrrr(asm.LOGD, ra, rb, rc, rd) }

// MINT: mint $rA coins of the sub asset at $rB
func MINT(ra, rb uint8) asm.Instruction { return rr(asm.MINT, ra, rb) }

// RVRT: revert the current context with $rA
func RVRT(ra uint8) asm.Instruction { return r(asm.RVRT, ra) }

// SCWQ: clear $rC storage slots starting at key $rA, $rB = all were set
func SCWQ(ra, rb, rc uint8) asm.Instruction { return rrr(asm.SCWQ, ra, rb, rc) }

// SRW: $rA = storage word at key $rC, $rB = slot was set
func SRW(ra, rb, rc uint8) asm.Instruction { return rrr(asm.SRW, ra, rb, rc) }

// SRWQ: read $rD storage slots starting at key $rC to $rA, $rB = all were set
func SRWQ(ra, rb, rc, rd uint8) asm.Instruction { return rrrr(asm.SRWQ, ra, rb, rc, rd) }

// SWW: store $rC at key $rA, $rB = slot was new
func SWW(ra, rb, rc uint8) asm.Instruction { return rrr(asm.SWW, ra, rb, rc) }

// SWWQ: store $rD slots from $rC at key $rA, $rB = count of new slots
func SWWQ(ra, rb, rc, rd uint8) asm.Instruction { return rrrr(asm.SWWQ, ra, rb, rc, rd) }

// TR: transfer $rB coins of asset $rC to contract $rA
func TR(ra, rb, rc uint8) asm.Instruction { return rrr(asm.TR, ra, rb, rc) }

// ECK1: recover the secp256k1 public key of signature $rB over digest $rC into $rA
func ECK1(ra, rb, rc uint8) asm.Instruction { return rrr(asm.ECK1, ra, rb, rc) }

// ED19: verify ed25519 signature $rB of key $rA over $rD bytes at $rC
func ED19(ra, rb, rc, rd uint8) asm.Instruction { return rrrr(asm.ED19, ra, rb, rc, rd) }

// K256: write keccak256 of $rC bytes at $rB to $rA
func K256(ra, rb, rc uint8) asm.Instruction { return rrr(asm.K256, ra, rb, rc) }

// S256: write sha256 of $rC bytes at $rB to $rA
func S256(ra, rb, rc uint8) asm.Instruction { return rrr(asm.S256, ra, rb, rc) }

// TIME: $rA = timestamp of block $rB
func TIME(ra, rb uint8) asm.Instruction { return rr(asm.TIME, ra, rb) }

// NOOP: no operation
func NOOP() asm.Instruction { return none(asm.NOOP) }

// FLAG: $flag = $rA
func FLAG(ra uint8) asm.Instruction { return r(asm.FLAG, ra) }

// BAL: $rA = balance of asset $rB in contract $rC
func BAL(ra, rb, rc uint8) asm.Instruction { return rrr(asm.BAL, ra, rb, rc) }

// JMP: $pc = $is + $rA * 4
func JMP(ra uint8) asm.Instruction { return r(asm.JMP, ra) }

// JNE: if $rA != $rB: $pc = $is + $rC * 4
func JNE(ra, rb, rc uint8) asm.Instruction { return rrr(asm.JNE, ra, rb, rc) }

// ADDI: $rA = $rB + imm
func ADDI(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.ADDI, ra, rb, imm) }

// ANDI: $rA = $rB & imm
func ANDI(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.ANDI, ra, rb, imm) }

// DIVI: $rA = $rB / imm
func DIVI(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.DIVI, ra, rb, imm) }

// EXPI: $rA = $rB ** imm
func EXPI(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.EXPI, ra, rb, imm) }

// MODI: $rA = $rB % imm
func MODI(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.MODI, ra, rb, imm) }

// MULI: $rA = $rB * imm
func MULI(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.MULI, ra, rb, imm) }

// ORI: $rA = $rB | imm
func ORI(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.ORI, ra, rb, imm) }

// SLLI: $rA = $rB << imm
func SLLI(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.SLLI, ra, rb, imm) }

// SRLI: $rA = $rB >> imm
func SRLI(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.SRLI, ra, rb, imm) }

// SUBI: $rA = $rB - imm
func SUBI(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.SUBI, ra, rb, imm) }

// XORI: $rA = $rB ^ imm
func XORI(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.XORI, ra, rb, imm) }

// JNEI: if $rA != $rB: $pc = $is + imm * 4
func JNEI(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.JNEI, ra, rb, imm) }

// LB: $rA = byte at $rB + imm
func LB(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.LB, ra, rb, imm) }

// LW: $rA = word at $rB + imm * 8
func LW(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.LW, ra, rb, imm) }

// SB: byte at $rA + imm = $rB
func SB(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.SB, ra, rb, imm) }

// SW: word at $rA + imm * 8 = $rB
func SW(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.SW, ra, rb, imm) }

// MCPI: copy imm bytes from $rB to $rA
func MCPI(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.MCPI, ra, rb, imm) }

// GTF: $rA = transaction field imm at index $rB
func GTF(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.GTF, ra, rb, imm) }

// MCLI: clear imm bytes of memory starting at $rA
func MCLI(ra uint8, imm uint32) asm.Instruction { return ri18(asm.MCLI, ra, imm) }

// GM: $rA = metadata selected by imm
func GM(ra uint8, imm uint32) asm.Instruction { return ri18(asm.GM, ra, imm) }

// MOVI: $rA = imm
func MOVI(ra uint8, imm uint32) asm.Instruction { return ri18(asm.MOVI, ra, imm) }

// JNZI: if $rA != 0: $pc = $is + imm * 4
func JNZI(ra uint8, imm uint32) asm.Instruction { return ri18(asm.JNZI, ra, imm) }

// JMPF: $pc = $pc + ($rA + imm + 1) * 4
func JMPF(ra uint8, imm uint32) asm.Instruction { return ri18(asm.JMPF, ra, imm) }

// JMPB: $pc = $pc - ($rA + imm) * 4
func JMPB(ra uint8, imm uint32) asm.Instruction { return ri18(asm.JMPB, ra, imm) }

// JNZF: if $rA != 0: $pc = $pc + ($rB + imm + 1) * 4
func JNZF(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.JNZF, ra, rb, imm) }

// JNZB: if $rA != 0: $pc = $pc - ($rB + imm) * 4
func JNZB(ra, rb uint8, imm uint16) asm.Instruction { return rri12(asm.JNZB, ra, rb, imm) }

// JNEF: if $rA != $rB: $pc = $pc + ($rC + imm + 1) * 4
func JNEF(ra, rb, rc, imm uint8) asm.Instruction { return rrri06(asm.JNEF, ra, rb, rc, imm) }

// JNEB: if $rA != $rB: $pc = $pc - ($rC + imm) * 4
func JNEB(ra, rb, rc, imm uint8) asm.Instruction { return rrri06(asm.JNEB, ra, rb, rc, imm) }

// JI: $pc = $is + imm * 4
func JI(imm uint32) asm.Instruction { return i24(asm.JI, imm) }

// CFEI: extend the call frame by imm bytes
func CFEI(imm uint32) asm.Instruction { return i24(asm.CFEI, imm) }

// CFSI: shrink the call frame by imm bytes
func CFSI(imm uint32) asm.Instruction { return i24(asm.CFSI, imm) }

// CFE: extend the call frame by $rA bytes
func CFE(ra uint8) asm.Instruction { return r(asm.CFE, ra) }

// CFS: shrink the call frame by $rA bytes
func CFS(ra uint8) asm.Instruction { return r(asm.CFS, ra) }

// PSHL: push the registers selected by imm from the low half
func PSHL(imm uint32) asm.Instruction { return i24(asm.PSHL, imm) }

// PSHH: push the registers selected by imm from the high half
func PSHH(imm uint32) asm.Instruction { return i24(asm.PSHH, imm) }

// POPL: pop the registers selected by imm into the low half
func POPL(imm uint32) asm.Instruction { return i24(asm.POPL, imm) }

// POPH: pop the registers selected by imm into the high half
func POPH(imm uint32) asm.Instruction { return i24(asm.POPH, imm) }

// WDCM: $rA = 128-bit compare of $rB and $rC
func WDCM(ra, rb, rc, imm uint8) asm.Instruction { return rrri06(asm.WDCM, ra, rb, rc, imm) }

// WQCM: $rA = 256-bit compare of $rB and $rC
func WQCM(ra, rb, rc, imm uint8) asm.Instruction { return rrri06(asm.WQCM, ra, rb, rc, imm) }

// WDOP: 128-bit $rA = $rB op $rC
func WDOP(ra, rb, rc, imm uint8) asm.Instruction { return rrri06(asm.WDOP, ra, rb, rc, imm) }

// WQOP: 256-bit $rA = $rB op $rC
func WQOP(ra, rb, rc, imm uint8) asm.Instruction { return rrri06(asm.WQOP, ra, rb, rc, imm) }

// WDML: 128-bit $rA = $rB * $rC
func WDML(ra, rb, rc, imm uint8) asm.Instruction { return rrri06(asm.WDML, ra, rb, rc, imm) }

// WQML: 256-bit $rA = $rB * $rC
func WQML(ra, rb, rc, imm uint8) asm.Instruction { return rrri06(asm.WQML, ra, rb, rc, imm) }

// WDDV: 128-bit $rA = $rB / $rC
func WDDV(ra, rb, rc, imm uint8) asm.Instruction { return rrri06(asm.WDDV, ra, rb, rc, imm) }

// WQDV: 256-bit $rA = $rB / $rC
func WQDV(ra, rb, rc, imm uint8) asm.Instruction { return rrri06(asm.WQDV, ra, rb, rc, imm) }

// WDMD: 128-bit $rA = $rB * $rC / $rD
func WDMD(ra, rb, rc, rd uint8) asm.Instruction { return rrrr(asm.WDMD, ra, rb, rc, rd) }

// WQMD: 256-bit $rA = $rB * $rC / $rD
func WQMD(ra, rb, rc, rd uint8) asm.Instruction { return rrrr(asm.WQMD, ra, rb, rc, rd) }

// WDAM: 128-bit $rA = ($rB + $rC) % $rD
func WDAM(ra, rb, rc, rd uint8) asm.Instruction { return rrrr(asm.WDAM, ra, rb, rc, rd) }

// WQAM: 256-bit $rA = ($rB + $rC) % $rD
func WQAM(ra, rb, rc, rd uint8) asm.Instruction { return rrrr(asm.WQAM, ra, rb, rc, rd) }

// WDMM: 128-bit $rA = ($rB * $rC) % $rD
func WDMM(ra, rb, rc, rd uint8) asm.Instruction { return rrrr(asm.WDMM, ra, rb, rc, rd) }

// WQMM: 256-bit $rA = ($rB * $rC) % $rD
func WQMM(ra, rb, rc, rd uint8) asm.Instruction { return rrrr(asm.WQMM, ra, rb, rc, rd) }
