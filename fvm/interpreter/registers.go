package interpreter

import (
	"github.com/fuel-go/fvm/fvm/params"
)

// Registers is the register file. Reads never fail; writes through Set are refused for
// the reserved range. The interpreter updates reserved registers by indexing directly.
type Registers [params.RegCount]uint64

func (r *Registers) Get(id uint8) uint64 {
	return r[id&(params.RegCount-1)]
}

// Set is the write path of generic instructions.
func (r *Registers) Set(id uint8, v uint64) error {
	if err := checkWritable(id); err != nil {
		return err
	}
	r[id] = v
	return nil
}

func checkWritable(id uint8) error {
	if id < params.RegWritable || id >= params.RegCount {
		return vmPanic(PanicReservedRegisterNotWritable)
	}
	return nil
}

func (r *Registers) flags() uint64 { return r[params.RegFLAG] }

func (r *Registers) wrapping() bool { return r.flags()&params.FlagWrapping != 0 }

func (r *Registers) unsafeMath() bool { return r.flags()&params.FlagUnsafeMath != 0 }
