package interpreter

import (
	stdmath "math"
	"math/bits"

	"github.com/holiman/uint256"

	"github.com/fuel-go/fvm/fvm/params"
)

// aluFunc computes a 64-bit result. hi carries the bits above the result when overflow
// is set; arithErr marks an undefined result such as a division by zero.
type aluFunc func(b, c uint64) (v, hi uint64, overflow, arithErr bool)

// setALU applies an ALU outcome under the current $flag policy. Nothing is written on a
// panic, so a faulting instruction leaves the destination untouched.
func (in *Interpreter) setALU(ra uint8, v, hi uint64, overflow, arithErr bool) error {
	var of, errFlag uint64
	switch {
	case arithErr:
		if !in.regs.unsafeMath() {
			return vmPanic(PanicArithmeticError)
		}
		v, errFlag = 0, 1
	case overflow:
		if !in.regs.wrapping() {
			return vmPanic(PanicArithmeticOverflow)
		}
		of = hi
	}
	if err := in.regs.Set(ra, v); err != nil {
		return err
	}
	in.regs[params.RegOF] = of
	in.regs[params.RegERR] = errFlag
	return nil
}

func (in *Interpreter) alu(ra uint8, b, c uint64, fn aluFunc) error {
	v, hi, overflow, arithErr := fn(b, c)
	return in.setALU(ra, v, hi, overflow, arithErr)
}

func aluAdd(b, c uint64) (uint64, uint64, bool, bool) {
	v, carry := bits.Add64(b, c, 0)
	return v, carry, carry != 0, false
}

func aluSub(b, c uint64) (uint64, uint64, bool, bool) {
	v, borrow := bits.Sub64(b, c, 0)
	if borrow != 0 {
		// high word of the two's complement 128-bit difference
		return v, ^uint64(0), true, false
	}
	return v, 0, false, false
}

func aluMul(b, c uint64) (uint64, uint64, bool, bool) {
	hi, lo := bits.Mul64(b, c)
	return lo, hi, hi != 0, false
}

func aluDiv(b, c uint64) (uint64, uint64, bool, bool) {
	if c == 0 {
		return 0, 0, false, true
	}
	return b / c, 0, false, false
}

func aluMod(b, c uint64) (uint64, uint64, bool, bool) {
	if c == 0 {
		return 0, 0, false, true
	}
	return b % c, 0, false, false
}

func aluExp(b, c uint64) (uint64, uint64, bool, bool) {
	v, overflow := pow64(b, c)
	if overflow {
		return v, 1, true, false
	}
	return v, 0, false, false
}

func aluMlog(b, c uint64) (uint64, uint64, bool, bool) {
	if b == 0 || c <= 1 {
		return 0, 0, false, true
	}
	var n uint64
	for b >= c {
		b /= c
		n++
	}
	return n, 0, false, false
}

func aluMroo(b, c uint64) (uint64, uint64, bool, bool) {
	if c == 0 {
		return 0, 0, false, true
	}
	return iroot(b, c), 0, false, false
}

func aluSll(b, c uint64) (uint64, uint64, bool, bool) {
	if c >= 64 {
		return 0, 0, false, false
	}
	return b << c, 0, false, false
}

func aluSrl(b, c uint64) (uint64, uint64, bool, bool) {
	if c >= 64 {
		return 0, 0, false, false
	}
	return b >> c, 0, false, false
}

func aluAnd(b, c uint64) (uint64, uint64, bool, bool) { return b & c, 0, false, false }
func aluOr(b, c uint64) (uint64, uint64, bool, bool)  { return b | c, 0, false, false }
func aluXor(b, c uint64) (uint64, uint64, bool, bool) { return b ^ c, 0, false, false }

func aluEq(b, c uint64) (uint64, uint64, bool, bool) { return b2u(b == c), 0, false, false }
func aluGt(b, c uint64) (uint64, uint64, bool, bool) { return b2u(b > c), 0, false, false }
func aluLt(b, c uint64) (uint64, uint64, bool, bool) { return b2u(b < c), 0, false, false }

func aluMove(b, _ uint64) (uint64, uint64, bool, bool) { return b, 0, false, false }
func aluNot(b, _ uint64) (uint64, uint64, bool, bool)  { return ^b, 0, false, false }

// mulDiv computes (b * c) / d with a 128-bit intermediate product.
func mulDiv(b, c, d uint64) (v, hi uint64, overflow, arithErr bool) {
	if d == 0 {
		return 0, 0, false, true
	}
	var x, y, z uint256.Int
	x.SetUint64(b)
	y.SetUint64(c)
	z.SetUint64(d)
	x.Mul(&x, &y)
	x.Div(&x, &z)
	if !x.IsUint64() {
		return x[0], x[1], true, false
	}
	return x[0], 0, false, false
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// pow64 is exponentiation by squaring, reporting whether the true result exceeds 64 bits.
func pow64(b, e uint64) (uint64, bool) {
	result := uint64(1)
	overflow := false
	for e > 0 {
		if e&1 == 1 {
			hi, lo := bits.Mul64(result, b)
			overflow = overflow || hi != 0
			result = lo
		}
		e >>= 1
		if e > 0 {
			// the squared base is always multiplied in again: e still has its top bit
			hi, lo := bits.Mul64(b, b)
			overflow = overflow || hi != 0
			b = lo
		}
	}
	return result, overflow
}

// iroot returns floor(x^(1/n)) for n > 0.
func iroot(x, n uint64) uint64 {
	if n == 1 || x < 2 {
		return x
	}
	if n >= 64 {
		return 1
	}
	r := uint64(stdmath.Pow(float64(x), 1/float64(n)))
	for r > 1 && !powAtMost(r, n, x) {
		r--
	}
	for powAtMost(r+1, n, x) {
		r++
	}
	return r
}

func powAtMost(b, e, limit uint64) bool {
	v, overflow := pow64(b, e)
	return !overflow && v <= limit
}
