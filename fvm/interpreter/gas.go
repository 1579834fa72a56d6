package interpreter

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/fuel-go/fvm/fvm/asm"
	"github.com/fuel-go/fvm/fvm/params"
)

// compileGasTable resolves the per-mnemonic base costs into an opcode indexed table.
func compileGasTable(costs *params.GasCosts) (out [256]uint64) {
	for i := range out {
		out[i] = costs.Default
	}
	for _, info := range asm.Ops() {
		out[info.Op] = costs.BaseCost(info.Mnemonic)
	}
	return out
}

// chargeGas deducts amount from both $cgas and $ggas, or from neither.
func (in *Interpreter) chargeGas(amount uint64) error {
	cgas, ggas := in.regs[params.RegCGAS], in.regs[params.RegGGAS]
	if amount > cgas || amount > ggas {
		return vmPanic(PanicOutOfGas)
	}
	in.regs[params.RegCGAS] = cgas - amount
	in.regs[params.RegGGAS] = ggas - amount
	return nil
}

func (in *Interpreter) chargeMemory(bytes uint64) error {
	return in.chargeGas(in.params.Gas.Memory.Cost(bytes))
}

// forkGas splits the context gas for a call. A zero request forwards everything.
func forkGas(cgas, requested uint64) (child, parentRest uint64) {
	child = cgas
	if requested != 0 && requested < cgas {
		child = requested
	}
	return child, cgas - child
}

// mergeGas returns unused child gas to the parent. The result never exceeds what the
// parent held before the fork.
func mergeGas(parentRest, forwarded, childRemaining uint64) uint64 {
	if childRemaining > forwarded {
		childRemaining = forwarded
	}
	v, overflow := math.SafeAdd(parentRest, childRemaining)
	if overflow {
		return ^uint64(0)
	}
	return v
}

// GasUsed is the global gas consumed so far.
func (in *Interpreter) GasUsed() uint64 {
	return in.gasLimit - in.regs[params.RegGGAS]
}
