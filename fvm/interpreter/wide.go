package interpreter

import (
	"github.com/holiman/uint256"

	"github.com/fuel-go/fvm/fvm/params"
)

// Wide integer instructions operate on big-endian 128-bit (16 byte) or 256-bit (32 byte)
// values in memory. Flags in the 6-bit immediate select the operation and whether an
// operand is read from memory (indirect) or taken from a register (direct).

const (
	wideIndirectLHS = 0x10
	wideIndirectRHS = 0x20
	wideModeMask    = 0x07
)

// compare modes for WDCM / WQCM
const (
	cmpEQ = iota
	cmpNE
	cmpLT
	cmpGT
	cmpLTE
	cmpGTE
	cmpLZC
)

// math ops for WDOP / WQOP
const (
	mathAdd = iota
	mathSub
	mathOr
	mathXor
	mathAnd
	mathNot
	mathShl
	mathShr
)

var max128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))

type wideWidth uint64

const (
	width128 wideWidth = 16
	width256 wideWidth = 32
)

func (w wideWidth) bits() uint { return uint(w) * 8 }

// fits reports whether v is representable, and masks it to the width.
func (w wideWidth) fits(v *uint256.Int) bool {
	if w == width256 {
		return true
	}
	ok := !v.Gt(max128)
	v.And(v, max128)
	return ok
}

func (in *Interpreter) loadWide(addr uint64, w wideWidth) *uint256.Int {
	var b [32]byte
	in.mem.Read(addr, b[:w])
	return new(uint256.Int).SetBytes(b[:w])
}

func (in *Interpreter) storeWide(addr uint64, w wideWidth, v *uint256.Int) {
	b := v.Bytes32()
	in.mem.Write(addr, b[32-w:])
}

// wideOperand resolves a register either as a memory address or as a direct value.
type wideOperand struct {
	reg      uint8
	indirect bool
}

type wideAccess struct {
	in       *Interpreter
	w        wideWidth
	reads    []wideOperand
	dst      uint64
	writeDst bool
}

// prepare checks every memory access and charges for it before anything is computed.
func (a *wideAccess) prepare() ([]*uint256.Int, error) {
	in := a.in
	var touched uint64
	for _, op := range a.reads {
		if !op.indirect {
			continue
		}
		if err := in.verifyRead(in.regs[op.reg], uint64(a.w)); err != nil {
			return nil, err
		}
		touched += uint64(a.w)
	}
	if a.writeDst {
		if err := in.verifyWrite(a.dst, uint64(a.w)); err != nil {
			return nil, err
		}
		touched += uint64(a.w)
	}
	if err := in.chargeMemory(touched); err != nil {
		return nil, err
	}
	out := make([]*uint256.Int, len(a.reads))
	for i, op := range a.reads {
		if op.indirect {
			out[i] = in.loadWide(in.regs[op.reg], a.w)
		} else {
			out[i] = uint256.NewInt(in.regs[op.reg])
		}
	}
	return out, nil
}

// finishWide writes a wide result under the $flag policy, like setALU does for words.
func (in *Interpreter) finishWide(dst uint64, w wideWidth, v *uint256.Int, overflow, arithErr bool) error {
	switch {
	case arithErr:
		if !in.regs.unsafeMath() {
			return vmPanic(PanicArithmeticError)
		}
		in.regs[params.RegOF] = 0
		in.regs[params.RegERR] = 1
		in.storeWide(dst, w, new(uint256.Int))
	case overflow:
		if !in.regs.wrapping() {
			return vmPanic(PanicArithmeticOverflow)
		}
		in.regs[params.RegOF] = 1
		in.regs[params.RegERR] = 0
		in.storeWide(dst, w, v)
	default:
		in.regs[params.RegOF] = 0
		in.regs[params.RegERR] = 0
		in.storeWide(dst, w, v)
	}
	return nil
}

func opWideCompare(in *Interpreter, w wideWidth, ra, rb, rc, imm uint8) error {
	mode := imm & wideModeMask
	if imm&^(wideModeMask|wideIndirectRHS) != 0 || mode > cmpLZC {
		return vmPanic(PanicInvalidImmediateValue)
	}
	acc := wideAccess{in: in, w: w, reads: []wideOperand{{rb, true}, {rc, imm&wideIndirectRHS != 0}}}
	v, err := acc.prepare()
	if err != nil {
		return err
	}
	lhs, rhs := v[0], v[1]
	var res uint64
	switch mode {
	case cmpEQ:
		res = b2u(lhs.Eq(rhs))
	case cmpNE:
		res = b2u(!lhs.Eq(rhs))
	case cmpLT:
		res = b2u(lhs.Lt(rhs))
	case cmpGT:
		res = b2u(lhs.Gt(rhs))
	case cmpLTE:
		res = b2u(!lhs.Gt(rhs))
	case cmpGTE:
		res = b2u(!lhs.Lt(rhs))
	case cmpLZC:
		res = uint64(w.bits() - uint(lhs.BitLen()))
	}
	return in.setALU(ra, res, 0, false, false)
}

func opWideMath(in *Interpreter, w wideWidth, ra, rb, rc, imm uint8) error {
	if imm&^(wideModeMask|wideIndirectRHS) != 0 {
		return vmPanic(PanicInvalidImmediateValue)
	}
	dst := in.regs[ra]
	acc := wideAccess{in: in, w: w, dst: dst, writeDst: true,
		reads: []wideOperand{{rb, true}, {rc, imm&wideIndirectRHS != 0}}}
	v, err := acc.prepare()
	if err != nil {
		return err
	}
	lhs, rhs := v[0], v[1]
	res := new(uint256.Int)
	overflow := false
	switch imm & wideModeMask {
	case mathAdd:
		_, overflow = res.AddOverflow(lhs, rhs)
		overflow = !w.fits(res) || overflow
	case mathSub:
		_, overflow = res.SubOverflow(lhs, rhs)
		w.fits(res)
	case mathOr:
		res.Or(lhs, rhs)
	case mathXor:
		res.Xor(lhs, rhs)
	case mathAnd:
		res.And(lhs, rhs)
	case mathNot:
		res.Not(lhs)
		w.fits(res)
	case mathShl:
		if rhs.IsUint64() && rhs.Uint64() < uint64(w.bits()) {
			res.Lsh(lhs, uint(rhs.Uint64()))
			w.fits(res)
		}
	case mathShr:
		if rhs.IsUint64() && rhs.Uint64() < uint64(w.bits()) {
			res.Rsh(lhs, uint(rhs.Uint64()))
		}
	}
	return in.finishWide(dst, w, res, overflow, false)
}

func opWideMul(in *Interpreter, w wideWidth, ra, rb, rc, imm uint8) error {
	if imm&^(wideIndirectLHS|wideIndirectRHS) != 0 {
		return vmPanic(PanicInvalidImmediateValue)
	}
	dst := in.regs[ra]
	acc := wideAccess{in: in, w: w, dst: dst, writeDst: true, reads: []wideOperand{
		{rb, imm&wideIndirectLHS != 0},
		{rc, imm&wideIndirectRHS != 0},
	}}
	v, err := acc.prepare()
	if err != nil {
		return err
	}
	res, overflow := new(uint256.Int).MulOverflow(v[0], v[1])
	overflow = !w.fits(res) || overflow
	return in.finishWide(dst, w, res, overflow, false)
}

func opWideDiv(in *Interpreter, w wideWidth, ra, rb, rc, imm uint8) error {
	if imm&^wideIndirectRHS != 0 {
		return vmPanic(PanicInvalidImmediateValue)
	}
	dst := in.regs[ra]
	acc := wideAccess{in: in, w: w, dst: dst, writeDst: true,
		reads: []wideOperand{{rb, true}, {rc, imm&wideIndirectRHS != 0}}}
	v, err := acc.prepare()
	if err != nil {
		return err
	}
	if v[1].IsZero() {
		return in.finishWide(dst, w, nil, false, true)
	}
	return in.finishWide(dst, w, new(uint256.Int).Div(v[0], v[1]), false, false)
}

type wideTernary func(b, c, d *uint256.Int, w wideWidth) (res *uint256.Int, overflow bool)

// opWideTernary covers WDMD, WDAM, WDMM and their 256-bit forms: all operands in memory.
func opWideTernary(in *Interpreter, w wideWidth, ra, rb, rc, rd uint8, fn wideTernary) error {
	dst := in.regs[ra]
	acc := wideAccess{in: in, w: w, dst: dst, writeDst: true,
		reads: []wideOperand{{rb, true}, {rc, true}, {rd, true}}}
	v, err := acc.prepare()
	if err != nil {
		return err
	}
	if v[2].IsZero() {
		return in.finishWide(dst, w, nil, false, true)
	}
	res, overflow := fn(v[0], v[1], v[2], w)
	return in.finishWide(dst, w, res, overflow, false)
}

func wideMulDiv(b, c, d *uint256.Int, w wideWidth) (*uint256.Int, bool) {
	res, overflow := new(uint256.Int).MulDivOverflow(b, c, d)
	overflow = !w.fits(res) || overflow
	return res, overflow
}

func wideAddMod(b, c, d *uint256.Int, _ wideWidth) (*uint256.Int, bool) {
	return new(uint256.Int).AddMod(b, c, d), false
}

func wideMulMod(b, c, d *uint256.Int, _ wideWidth) (*uint256.Int, bool) {
	return new(uint256.Int).MulMod(b, c, d), false
}
