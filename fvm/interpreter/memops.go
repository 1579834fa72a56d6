package interpreter

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/fuel-go/fvm/fvm/params"
)

// Memory access discipline:
//
//	[0, sp)        stack, readable; [ssp, sp) is writable by the current frame
//	[sp, hp)       unallocated, neither readable nor writable
//	[hp, VMMaxRAM) heap, readable; [hp, heapEnd) is writable by the current frame
//
// Every check happens before any gas is charged or any byte is changed.

func rangeEnd(addr, count uint64) (uint64, error) {
	end, overflow := math.SafeAdd(addr, count)
	if overflow || end > params.VMMaxRAM {
		return 0, vmPanic(PanicMemoryOverflow)
	}
	return end, nil
}

// heapEnd is the upper bound of the heap owned by the current frame.
func (in *Interpreter) heapEnd() uint64 {
	if f := in.frame(); f != nil {
		return f.Regs[params.RegHP]
	}
	return params.VMMaxRAM
}

func (in *Interpreter) verifyRead(addr, count uint64) error {
	end, err := rangeEnd(addr, count)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	if end > in.regs[params.RegSP] && addr < in.regs[params.RegHP] {
		return vmPanic(PanicUninitializedMemoryAccess)
	}
	return nil
}

func (in *Interpreter) verifyWrite(addr, count uint64) error {
	end, err := rangeEnd(addr, count)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	if addr >= in.regs[params.RegSSP] && end <= in.regs[params.RegSP] {
		return nil
	}
	if addr >= in.regs[params.RegHP] && end <= in.heapEnd() {
		return nil
	}
	return vmPanic(PanicMemoryOwnership)
}

// verifyCopy checks a copy of count bytes from src to dst. Overlapping ranges are rejected.
func (in *Interpreter) verifyCopy(dst, src, count uint64) error {
	if err := in.verifyRead(src, count); err != nil {
		return err
	}
	if err := in.verifyWrite(dst, count); err != nil {
		return err
	}
	if count > 0 && dst < src+count && src < dst+count {
		return vmPanic(PanicMemoryWriteOverlap)
	}
	return nil
}

// readBytes checks, charges and copies out count bytes.
func (in *Interpreter) readBytes(addr, count uint64) ([]byte, error) {
	if err := in.verifyRead(addr, count); err != nil {
		return nil, err
	}
	if err := in.chargeMemory(count); err != nil {
		return nil, err
	}
	return in.mem.Slice(addr, count), nil
}

// writeBytes checks, charges and writes dat.
func (in *Interpreter) writeBytes(addr uint64, dat []byte) error {
	if err := in.verifyWrite(addr, uint64(len(dat))); err != nil {
		return err
	}
	if err := in.chargeMemory(uint64(len(dat))); err != nil {
		return err
	}
	in.mem.Write(addr, dat)
	return nil
}

// growStack moves $sp up by n bytes. Bytes between $sp and $hp are always zero.
func (in *Interpreter) growStack(n uint64) error {
	sp := in.regs[params.RegSP]
	newSP, overflow := math.SafeAdd(sp, n)
	if overflow || newSP > in.regs[params.RegHP] {
		return vmPanic(PanicMemoryOverflow)
	}
	if err := in.chargeMemory(n); err != nil {
		return err
	}
	in.regs[params.RegSP] = newSP
	return nil
}

// shrinkStack moves $sp down by n bytes, not below $ssp, and zeroes what was released.
func (in *Interpreter) shrinkStack(n uint64) error {
	sp := in.regs[params.RegSP]
	if n > sp-in.regs[params.RegSSP] {
		return vmPanic(PanicMemoryOverflow)
	}
	newSP := sp - n
	in.mem.Clear(newSP, n)
	in.regs[params.RegSP] = newSP
	return nil
}

// growHeap moves $hp down by n bytes, not below $sp. The new bytes read as zero.
func (in *Interpreter) growHeap(n uint64) error {
	hp := in.regs[params.RegHP]
	if n > hp-in.regs[params.RegSP] {
		return vmPanic(PanicMemoryOverflow)
	}
	if err := in.chargeMemory(n); err != nil {
		return err
	}
	newHP := hp - n
	in.mem.Clear(newHP, n)
	in.regs[params.RegHP] = newHP
	return nil
}
