package interpreter

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/fuel-go/fvm/fvm/params"
	"github.com/fuel-go/fvm/fvm/storage"
)

// CallFrame is the bookkeeping of one active contract call. Its header is also written
// to VM memory at $fp, where the callee can read it.
type CallFrame struct {
	To      common.Hash `json:"to"`
	AssetID common.Hash `json:"assetId"`
	// Regs are the caller registers at the CALL instruction, with $cgas already reduced
	// by the forwarded gas.
	Regs     Registers `json:"regs"`
	CodeSize uint64    `json:"codeSize"`
	Param1   uint64    `json:"param1"`
	Param2   uint64    `json:"param2"`

	Forwarded uint64 `json:"forwarded"`
	Snapshot  int    `json:"snapshot"`
	// coins taken from the free balances of the external context, returned on revert
	Refund uint64 `json:"refund,omitempty"`
}

func (f *CallFrame) encodeHeader() []byte {
	out := make([]byte, 0, params.CallFrameHeaderSize)
	out = append(out, f.To[:]...)
	out = append(out, f.AssetID[:]...)
	for _, r := range f.Regs {
		out = binary.BigEndian.AppendUint64(out, r)
	}
	out = binary.BigEndian.AppendUint64(out, f.CodeSize)
	out = binary.BigEndian.AppendUint64(out, f.Param1)
	out = binary.BigEndian.AppendUint64(out, f.Param2)
	return out
}

func padWord(n uint64) uint64 {
	return (n + params.WordSize - 1) &^ (params.WordSize - 1)
}

func (in *Interpreter) frame() *CallFrame {
	if len(in.frames) == 0 {
		return nil
	}
	return in.frames[len(in.frames)-1]
}

// Depth is the number of active contract calls.
func (in *Interpreter) Depth() int {
	return len(in.frames)
}

// contractID is the id of the running contract, zero in the external context.
func (in *Interpreter) contractID() common.Hash {
	if f := in.frame(); f != nil {
		return f.To
	}
	return common.Hash{}
}

func (in *Interpreter) internalContract() (common.Hash, error) {
	f := in.frame()
	if f == nil {
		return common.Hash{}, vmPanic(PanicExpectedInternalContext)
	}
	return f.To, nil
}

// contractCode loads code, turning a missing contract into a panic and other storage
// failures into a halt.
func (in *Interpreter) contractCode(id common.Hash) ([]byte, error) {
	code, err := in.storage.ContractCode(id)
	if errors.Is(err, storage.ErrContractNotFound) {
		return nil, vmPanic(PanicContractNotFound)
	}
	if err != nil {
		return nil, halt("contract code", err)
	}
	return code, nil
}

// opCall implements CALL $rA $rB $rC $rD. Every check precedes the first mutation.
func opCall(in *Interpreter, ra, rb, rc, rd uint8) error {
	paramsAddr := in.regs[ra]
	coins := in.regs[rb]
	assetAddr := in.regs[rc]
	requestedGas := in.regs[rd]

	if err := in.verifyRead(paramsAddr, params.CallParamsSize); err != nil {
		return err
	}
	if err := in.verifyRead(assetAddr, params.AssetIDSize); err != nil {
		return err
	}
	if uint64(len(in.frames)) >= in.params.MaxCallDepth {
		return vmPanic(PanicCallDepthExceeded)
	}
	if err := in.receiptRoom(1); err != nil {
		return err
	}
	to := in.mem.ReadHash(paramsAddr)
	param1 := in.mem.ReadWord(paramsAddr + params.ContractIDSize)
	param2 := in.mem.ReadWord(paramsAddr + params.ContractIDSize + params.WordSize)
	asset := in.mem.ReadHash(assetAddr)

	code, err := in.contractCode(to)
	if err != nil {
		return err
	}

	// coins move from the caller to the callee
	var callerBalance, calleeBalance uint64
	caller := in.frame()
	if coins > 0 {
		if caller != nil {
			if callerBalance, err = in.storage.ContractBalance(caller.To, asset); err != nil {
				return halt("contract balance", err)
			}
		} else {
			callerBalance = in.balances[asset]
		}
		if callerBalance < coins {
			return vmPanic(PanicNotEnoughBalance)
		}
		if calleeBalance, err = in.storage.ContractBalance(to, asset); err != nil {
			return halt("contract balance", err)
		}
		if _, overflow := math.SafeAdd(calleeBalance, coins); overflow {
			return vmPanic(PanicBalanceOverflow)
		}
	}

	codeSize := uint64(len(code))
	frameSize := params.CallFrameHeaderSize + padWord(codeSize)
	sp := in.regs[params.RegSP]
	frameEnd, overflow := math.SafeAdd(sp, frameSize)
	if overflow || frameEnd > in.regs[params.RegHP] {
		return vmPanic(PanicMemoryOverflow)
	}
	// code loading and the frame are one charge
	cost, overflow := math.SafeAdd(in.params.Gas.Code.Cost(codeSize), in.params.Gas.Memory.Cost(frameSize))
	if overflow {
		return vmPanic(PanicOutOfGas)
	}
	if err := in.chargeGas(cost); err != nil {
		return err
	}

	// point of no return
	snapshot := in.storage.Snapshot()
	f := &CallFrame{
		To:       to,
		AssetID:  asset,
		CodeSize: codeSize,
		Param1:   param1,
		Param2:   param2,
		Snapshot: snapshot,
	}
	if coins > 0 {
		if caller != nil {
			if err := in.storage.SetContractBalance(caller.To, asset, callerBalance-coins); err != nil {
				return halt("set contract balance", err)
			}
		} else {
			in.balances[asset] = callerBalance - coins
			f.Refund = coins
		}
		if err := in.storage.SetContractBalance(to, asset, calleeBalance+coins); err != nil {
			return halt("set contract balance", err)
		}
	}

	forwarded, rest := forkGas(in.regs[params.RegCGAS], requestedGas)
	f.Forwarded = forwarded
	f.Regs = in.regs
	f.Regs[params.RegCGAS] = rest

	in.pushReceipt(Receipt{
		Kind:    ReceiptCall,
		ID:      in.contractID(),
		To:      to,
		Amount:  coins,
		AssetID: asset,
		Gas:     forwarded,
		Param1:  param1,
		Param2:  param2,
	})

	in.mem.Write(sp, f.encodeHeader())
	codeStart := sp + params.CallFrameHeaderSize
	in.mem.Write(codeStart, code)
	in.frames = append(in.frames, f)

	in.regs[params.RegFP] = sp
	in.regs[params.RegSSP] = frameEnd
	in.regs[params.RegSP] = frameEnd
	in.regs[params.RegIS] = codeStart
	in.regs[params.RegPC] = codeStart
	in.regs[params.RegBAL] = coins
	in.regs[params.RegCGAS] = forwarded
	// flags do not leak into the callee
	in.regs[params.RegFLAG] = 0

	in.log.Debug("call", "to", to, "depth", len(in.frames), "gas", forwarded, "coins", coins)
	return nil
}

// releaseFrame pops the current frame and restores the caller registers. The callee's stack
// region is zeroed; the heap is kept or released depending on keepHeap.
func (in *Interpreter) releaseFrame(keepHeap bool) *CallFrame {
	f := in.frame()
	in.frames = in.frames[:len(in.frames)-1]

	fp := in.regs[params.RegFP]
	in.mem.Clear(fp, in.regs[params.RegSP]-fp)

	hp := in.regs[params.RegHP]
	callerHP := f.Regs[params.RegHP]
	if !keepHeap {
		in.mem.Clear(hp, callerHP-hp)
		hp = callerHP
	}

	ggas := in.regs[params.RegGGAS]
	cgas := mergeGas(f.Regs[params.RegCGAS], f.Forwarded, in.regs[params.RegCGAS])

	in.regs = f.Regs
	in.regs[params.RegGGAS] = ggas
	in.regs[params.RegCGAS] = cgas
	in.regs[params.RegHP] = hp
	in.regs[params.RegPC] += params.InstructionSize
	return f
}

// returnFrame ends the current call normally.
func (in *Interpreter) returnFrame(ret, retl uint64) {
	f := in.releaseFrame(true)
	in.regs[params.RegRET] = ret
	in.regs[params.RegRETL] = retl
	in.log.Debug("return", "from", f.To, "depth", len(in.frames))
}

// revertFrame ends the current call, dropping its storage changes and heap allocations.
// The caller resumes with $err set.
func (in *Interpreter) revertFrame(ret uint64) error {
	f := in.frame()
	in.storage.RevertToSnapshot(f.Snapshot)
	if f.Refund > 0 {
		v, overflow := math.SafeAdd(in.balances[f.AssetID], f.Refund)
		if overflow {
			return fmt.Errorf("%w: refund of %d overflows external balance", ErrBug, f.Refund)
		}
		in.balances[f.AssetID] = v
	}
	in.releaseFrame(false)
	in.regs[params.RegERR] = 1
	in.regs[params.RegRET] = ret
	in.regs[params.RegRETL] = 0
	in.log.Debug("revert", "from", f.To, "depth", len(in.frames))
	return nil
}
