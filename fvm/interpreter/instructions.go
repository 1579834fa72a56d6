package interpreter

import (
	"encoding/binary"
	"math/bits"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/fuel-go/fvm/fvm/asm"
	"github.com/fuel-go/fvm/fvm/params"
)

// ALU

func aluRRR(fn aluFunc) executionFunc {
	return func(in *Interpreter, d asm.Decoded) error {
		return in.alu(d.RA, in.regs.Get(d.RB), in.regs.Get(d.RC), fn)
	}
}

func aluRRI(fn aluFunc) executionFunc {
	return func(in *Interpreter, d asm.Decoded) error {
		return in.alu(d.RA, in.regs.Get(d.RB), uint64(d.Imm12), fn)
	}
}

func opMove(in *Interpreter, d asm.Decoded) error {
	return in.alu(d.RA, in.regs.Get(d.RB), 0, aluMove)
}

func opNot(in *Interpreter, d asm.Decoded) error {
	return in.alu(d.RA, in.regs.Get(d.RB), 0, aluNot)
}

func opMovi(in *Interpreter, d asm.Decoded) error {
	return in.alu(d.RA, uint64(d.Imm18), 0, aluMove)
}

func opMldv(in *Interpreter, d asm.Decoded) error {
	v, hi, overflow, arithErr := mulDiv(in.regs[d.RB], in.regs[d.RC], in.regs[d.RD])
	return in.setALU(d.RA, v, hi, overflow, arithErr)
}

func opNoop(*Interpreter, asm.Decoded) error { return nil }

func opFlag(in *Interpreter, d asm.Decoded) error {
	v := in.regs[d.RA]
	if v&^params.FlagMask != 0 {
		return vmPanic(PanicInvalidFlags)
	}
	in.regs[params.RegFLAG] = v
	return nil
}

// Memory

func opLB(in *Interpreter, d asm.Decoded) error {
	addr, overflow := math.SafeAdd(in.regs[d.RB], uint64(d.Imm12))
	if overflow {
		return vmPanic(PanicMemoryOverflow)
	}
	b, err := in.readBytes(addr, 1)
	if err != nil {
		return err
	}
	return in.regs.Set(d.RA, uint64(b[0]))
}

func opLW(in *Interpreter, d asm.Decoded) error {
	addr, overflow := math.SafeAdd(in.regs[d.RB], uint64(d.Imm12)*params.WordSize)
	if overflow {
		return vmPanic(PanicMemoryOverflow)
	}
	b, err := in.readBytes(addr, params.WordSize)
	if err != nil {
		return err
	}
	return in.regs.Set(d.RA, binary.BigEndian.Uint64(b))
}

func opSB(in *Interpreter, d asm.Decoded) error {
	addr, overflow := math.SafeAdd(in.regs[d.RA], uint64(d.Imm12))
	if overflow {
		return vmPanic(PanicMemoryOverflow)
	}
	return in.writeBytes(addr, []byte{byte(in.regs[d.RB])})
}

func opSW(in *Interpreter, d asm.Decoded) error {
	addr, overflow := math.SafeAdd(in.regs[d.RA], uint64(d.Imm12)*params.WordSize)
	if overflow {
		return vmPanic(PanicMemoryOverflow)
	}
	var b [params.WordSize]byte
	binary.BigEndian.PutUint64(b[:], in.regs[d.RB])
	return in.writeBytes(addr, b[:])
}

func memClear(in *Interpreter, addr, count uint64) error {
	if err := in.verifyWrite(addr, count); err != nil {
		return err
	}
	if err := in.chargeMemory(count); err != nil {
		return err
	}
	in.mem.Clear(addr, count)
	return nil
}

func opMcl(in *Interpreter, d asm.Decoded) error {
	return memClear(in, in.regs[d.RA], in.regs[d.RB])
}

func opMcli(in *Interpreter, d asm.Decoded) error {
	return memClear(in, in.regs[d.RA], uint64(d.Imm18))
}

func memCopy(in *Interpreter, dst, src, count uint64) error {
	if err := in.verifyCopy(dst, src, count); err != nil {
		return err
	}
	if err := in.chargeMemory(count); err != nil {
		return err
	}
	in.mem.Write(dst, in.mem.Slice(src, count))
	return nil
}

func opMcp(in *Interpreter, d asm.Decoded) error {
	return memCopy(in, in.regs[d.RA], in.regs[d.RB], in.regs[d.RC])
}

func opMcpi(in *Interpreter, d asm.Decoded) error {
	return memCopy(in, in.regs[d.RA], in.regs[d.RB], uint64(d.Imm12))
}

func opMeq(in *Interpreter, d asm.Decoded) error {
	b, c, n := in.regs[d.RB], in.regs[d.RC], in.regs[d.RD]
	if err := in.verifyRead(b, n); err != nil {
		return err
	}
	if err := in.verifyRead(c, n); err != nil {
		return err
	}
	if err := in.chargeMemory(n); err != nil {
		return err
	}
	return in.regs.Set(d.RA, b2u(in.mem.Equal(b, c, n)))
}

func opAloc(in *Interpreter, d asm.Decoded) error {
	return in.growHeap(in.regs[d.RA])
}

func opCfe(in *Interpreter, d asm.Decoded) error  { return in.growStack(in.regs[d.RA]) }
func opCfei(in *Interpreter, d asm.Decoded) error { return in.growStack(uint64(d.Imm24)) }
func opCfs(in *Interpreter, d asm.Decoded) error  { return in.shrinkStack(in.regs[d.RA]) }
func opCfsi(in *Interpreter, d asm.Decoded) error { return in.shrinkStack(uint64(d.Imm24)) }

// PSHL/POPL select registers 16..39 and PSHH/POPH registers 40..63 through a 24-bit mask,
// bit i selecting register base+i. Registers are stored in ascending order.
const (
	pushLowBase  = params.RegWritable
	pushHighBase = params.RegWritable + 24
)

func pushRegs(base uint8) executionFunc {
	return func(in *Interpreter, d asm.Decoded) error {
		mask := d.Imm24
		count := uint64(bits.OnesCount32(mask))
		sp := in.regs[params.RegSP]
		if err := in.growStack(count * params.WordSize); err != nil {
			return err
		}
		addr := sp
		for i := uint8(0); i < 24; i++ {
			if mask&(1<<i) == 0 {
				continue
			}
			in.mem.WriteWord(addr, in.regs[base+i])
			addr += params.WordSize
		}
		return nil
	}
}

func popRegs(base uint8) executionFunc {
	return func(in *Interpreter, d asm.Decoded) error {
		mask := d.Imm24
		size := uint64(bits.OnesCount32(mask)) * params.WordSize
		sp := in.regs[params.RegSP]
		if size > sp-in.regs[params.RegSSP] {
			return vmPanic(PanicMemoryOverflow)
		}
		if err := in.chargeMemory(size); err != nil {
			return err
		}
		addr := sp - size
		for i := uint8(0); i < 24; i++ {
			if mask&(1<<i) == 0 {
				continue
			}
			in.regs[base+i] = in.mem.ReadWord(addr)
			addr += params.WordSize
		}
		return in.shrinkStack(size)
	}
}

// Control flow. All of these set $pc themselves.

func (in *Interpreter) next() error {
	in.regs[params.RegPC] += params.InstructionSize
	return nil
}

// jumpTo accepts only targets inside the current code, [$is, $ssp).
func (in *Interpreter) jumpTo(target uint64, overflow bool) error {
	if overflow || target < in.regs[params.RegIS] || target+params.InstructionSize > in.regs[params.RegSSP] {
		return vmPanic(PanicJumpOutOfBounds)
	}
	in.regs[params.RegPC] = target
	return nil
}

// jumpAbs jumps to instruction n counted from $is.
func (in *Interpreter) jumpAbs(n uint64) error {
	off, o1 := math.SafeMul(n, params.InstructionSize)
	target, o2 := math.SafeAdd(in.regs[params.RegIS], off)
	return in.jumpTo(target, o1 || o2)
}

// jumpFwd skips n instructions after the current one.
func (in *Interpreter) jumpFwd(a, b uint64) error {
	n, o1 := math.SafeAdd(a, b)
	n, o2 := math.SafeAdd(n, 1)
	off, o3 := math.SafeMul(n, params.InstructionSize)
	target, o4 := math.SafeAdd(in.regs[params.RegPC], off)
	return in.jumpTo(target, o1 || o2 || o3 || o4)
}

// jumpBack moves back a+b instructions from the current one.
func (in *Interpreter) jumpBack(a, b uint64) error {
	n, o1 := math.SafeAdd(a, b)
	off, o2 := math.SafeMul(n, params.InstructionSize)
	target, o3 := math.SafeSub(in.regs[params.RegPC], off)
	return in.jumpTo(target, o1 || o2 || o3)
}

func opJmp(in *Interpreter, d asm.Decoded) error { return in.jumpAbs(in.regs[d.RA]) }
func opJi(in *Interpreter, d asm.Decoded) error  { return in.jumpAbs(uint64(d.Imm24)) }

func opJne(in *Interpreter, d asm.Decoded) error {
	if in.regs[d.RA] != in.regs[d.RB] {
		return in.jumpAbs(in.regs[d.RC])
	}
	return in.next()
}

func opJnei(in *Interpreter, d asm.Decoded) error {
	if in.regs[d.RA] != in.regs[d.RB] {
		return in.jumpAbs(uint64(d.Imm12))
	}
	return in.next()
}

func opJnzi(in *Interpreter, d asm.Decoded) error {
	if in.regs[d.RA] != 0 {
		return in.jumpAbs(uint64(d.Imm18))
	}
	return in.next()
}

func opJmpf(in *Interpreter, d asm.Decoded) error {
	return in.jumpFwd(in.regs[d.RA], uint64(d.Imm18))
}

func opJmpb(in *Interpreter, d asm.Decoded) error {
	return in.jumpBack(in.regs[d.RA], uint64(d.Imm18))
}

func opJnzf(in *Interpreter, d asm.Decoded) error {
	if in.regs[d.RA] != 0 {
		return in.jumpFwd(in.regs[d.RB], uint64(d.Imm12))
	}
	return in.next()
}

func opJnzb(in *Interpreter, d asm.Decoded) error {
	if in.regs[d.RA] != 0 {
		return in.jumpBack(in.regs[d.RB], uint64(d.Imm12))
	}
	return in.next()
}

func opJnef(in *Interpreter, d asm.Decoded) error {
	if in.regs[d.RA] != in.regs[d.RB] {
		return in.jumpFwd(in.regs[d.RC], uint64(d.Imm06))
	}
	return in.next()
}

func opJneb(in *Interpreter, d asm.Decoded) error {
	if in.regs[d.RA] != in.regs[d.RB] {
		return in.jumpBack(in.regs[d.RC], uint64(d.Imm06))
	}
	return in.next()
}

func opRet(in *Interpreter, d asm.Decoded) error {
	v := in.regs[d.RA]
	in.pushReceipt(Receipt{Kind: ReceiptReturn, ID: in.contractID(), Val: v})
	if len(in.frames) == 0 {
		in.state = &ProgramState{Kind: StateReturn, Value: v}
		return nil
	}
	in.returnFrame(v, 0)
	return nil
}

func opRetd(in *Interpreter, d asm.Decoded) error {
	addr, n := in.regs[d.RA], in.regs[d.RB]
	if err := in.verifyRead(addr, n); err != nil {
		return err
	}
	if err := in.chargeGas(in.params.Gas.Hash.Cost(n)); err != nil {
		return err
	}
	data := in.mem.Slice(addr, n)
	digest := in.crypto.Sha256(data)
	in.pushReceipt(Receipt{Kind: ReceiptReturnData, ID: in.contractID(), Ptr: addr, Len: n, Digest: digest, Data: data})
	if len(in.frames) == 0 {
		in.state = &ProgramState{Kind: StateReturnData, Digest: digest}
		return nil
	}
	in.returnFrame(addr, n)
	return nil
}

func opRvrt(in *Interpreter, d asm.Decoded) error {
	v := in.regs[d.RA]
	in.pushReceipt(Receipt{Kind: ReceiptRevert, ID: in.contractID(), Val: v})
	if len(in.frames) == 0 {
		in.state = &ProgramState{Kind: StateRevert, Value: v}
		return nil
	}
	return in.revertFrame(v)
}

// System

func opGm(in *Interpreter, d asm.Decoded) error {
	var v uint64
	switch d.Imm18 {
	case params.GMIsCallerExternal:
		f := in.frame()
		if f == nil {
			return vmPanic(PanicExpectedInternalContext)
		}
		v = b2u(f.Regs[params.RegFP] == 0)
	case params.GMGetCaller:
		f := in.frame()
		if f == nil || f.Regs[params.RegFP] == 0 {
			return vmPanic(PanicExpectedInternalContext)
		}
		// the caller frame starts with its contract id
		v = f.Regs[params.RegFP]
	case params.GMGetVerifyingPredicate:
		if !in.predicate {
			return vmPanic(PanicExpectedPredicateContext)
		}
		v = in.predicateIndex
	case params.GMGetChainID:
		v = in.params.ChainID
	case params.GMTxStart:
		v = params.TxOffset
	case params.GMBaseAssetID:
		v = params.BaseAssetIDOffset
	default:
		return vmPanic(PanicInvalidMetadataIdentifier)
	}
	return in.regs.Set(d.RA, v)
}

func opGtf(in *Interpreter, d asm.Decoded) error {
	if in.tx == nil {
		return vmPanic(PanicInvalidMetadataIdentifier)
	}
	v, ok := in.tx.Field(d.Imm12, in.regs[d.RB])
	if !ok {
		return vmPanic(PanicInvalidMetadataIdentifier)
	}
	return in.regs.Set(d.RA, v)
}

// Crypto

func opK256(in *Interpreter, d asm.Decoded) error {
	return hashOp(in, d, in.crypto.Keccak256)
}

func opS256(in *Interpreter, d asm.Decoded) error {
	return hashOp(in, d, in.crypto.Sha256)
}

func hashOp(in *Interpreter, d asm.Decoded, hash func([]byte) common.Hash) error {
	dst, src, n := in.regs[d.RA], in.regs[d.RB], in.regs[d.RC]
	if err := in.verifyRead(src, n); err != nil {
		return err
	}
	if err := in.verifyWrite(dst, 32); err != nil {
		return err
	}
	if err := in.chargeGas(in.params.Gas.Hash.Cost(n)); err != nil {
		return err
	}
	h := hash(in.mem.Slice(src, n))
	in.mem.Write(dst, h[:])
	return nil
}

func opEck1(in *Interpreter, d asm.Decoded) error {
	dst, sigAddr, msgAddr := in.regs[d.RA], in.regs[d.RB], in.regs[d.RC]
	if err := in.verifyRead(sigAddr, 64); err != nil {
		return err
	}
	if err := in.verifyRead(msgAddr, 32); err != nil {
		return err
	}
	if err := in.verifyWrite(dst, 64); err != nil {
		return err
	}
	var sig [64]byte
	in.mem.Read(sigAddr, sig[:])
	pub, err := in.crypto.RecoverSecp256k1(sig, in.mem.ReadHash(msgAddr))
	if err != nil {
		return vmPanic(PanicInvalidSignature)
	}
	in.mem.Write(dst, pub[:])
	return nil
}

func opEd19(in *Interpreter, d asm.Decoded) error {
	pubAddr, sigAddr, msgAddr, n := in.regs[d.RA], in.regs[d.RB], in.regs[d.RC], in.regs[d.RD]
	if n == 0 {
		n = 32
	}
	if err := in.verifyRead(pubAddr, 32); err != nil {
		return err
	}
	if err := in.verifyRead(sigAddr, 64); err != nil {
		return err
	}
	if err := in.verifyRead(msgAddr, n); err != nil {
		return err
	}
	if err := in.chargeGas(in.params.Gas.Hash.Cost(n)); err != nil {
		return err
	}
	var pub [32]byte
	var sig [64]byte
	in.mem.Read(pubAddr, pub[:])
	in.mem.Read(sigAddr, sig[:])
	if err := in.crypto.VerifyEd25519(pub, sig, in.mem.Slice(msgAddr, n)); err != nil {
		return vmPanic(PanicInvalidSignature)
	}
	return nil
}
