package interpreter

import (
	"context"
	"crypto/sha256"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/fuel-go/fvm/fvm/asm"
	"github.com/fuel-go/fvm/fvm/asm/op"
	"github.com/fuel-go/fvm/fvm/params"
	"github.com/fuel-go/fvm/fvm/storage"
)

const (
	r16 = 16
	r17 = 17
	r18 = 18
	r19 = 19
	r20 = 20
	r21 = 21

	testGas = 1_000_000
)

func load(t require.TestingT, p *params.Params, code []byte, opts ...Option) *Interpreter {
	if p == nil {
		p = params.Default()
	}
	in := New(p, opts...)
	require.NoError(t, in.Load(Init{Code: code, GasLimit: testGas}))
	return in
}

func run(t require.TestingT, in *Interpreter) *ProgramState {
	st, err := in.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, st)
	return st
}

func kinds(receipts []Receipt) []ReceiptKind {
	out := make([]ReceiptKind, len(receipts))
	for i, r := range receipts {
		out[i] = r.Kind
	}
	return out
}

// requirePanic checks that the program ended in the external context on ins.
func requirePanic(t *testing.T, in *Interpreter, st *ProgramState, reason PanicReason, ins asm.Instruction) {
	t.Helper()
	require.Equal(t, StateRevert, st.Kind)
	require.Equal(t, PanicInstruction(reason, ins.Word()), st.Value, "got %s", PanicReason(st.Value>>56))
	last := in.Receipts()[len(in.Receipts())-1]
	require.Equal(t, ReceiptPanic, last.Kind)
	require.Equal(t, reason, last.Reason)
	require.Equal(t, ins.Word(), last.Instruction)
}

func TestMinimalPredicate(t *testing.T) {
	in := load(t, nil, op.Program(op.RET(params.RegOne)), AsPredicate(0))
	st := run(t, in)
	require.Equal(t, &ProgramState{Kind: StateReturn, Value: 1}, st)
	require.Len(t, in.Receipts(), 1)
	require.Equal(t, ReceiptReturn, in.Receipts()[0].Kind)
	require.Equal(t, uint64(1), in.Receipts()[0].Val)
	require.Equal(t, uint64(5), in.GasUsed())

	_, err := in.Run(context.Background())
	require.ErrorIs(t, err, ErrNotRunning)
}

func TestStepBeforeLoad(t *testing.T) {
	in := New(params.Default())
	require.ErrorIs(t, in.Step(), ErrNotLoaded)
}

func TestLoadLayout(t *testing.T) {
	txID := common.HexToHash("0x1234")
	p := params.Default()
	p.BaseAssetID = common.HexToHash("0xba5e")
	in := New(p)
	tx := []byte{1, 2, 3}
	code := op.Program(op.RET(params.RegOne))
	require.NoError(t, in.Load(Init{TxID: txID, Tx: tx, Code: code, GasLimit: 10}))

	regs := in.Registers()
	require.Equal(t, uint64(72), regs[params.RegIS])
	require.Equal(t, uint64(72), regs[params.RegPC])
	require.Equal(t, uint64(80), regs[params.RegSSP])
	require.Equal(t, uint64(80), regs[params.RegSP])
	require.Equal(t, uint64(params.VMMaxRAM), regs[params.RegHP])
	require.Equal(t, uint64(10), regs[params.RegGGAS])
	require.Equal(t, uint64(10), regs[params.RegCGAS])
	require.Equal(t, uint64(1), regs[params.RegOne])

	require.Equal(t, txID, in.Memory().ReadHash(params.TxIDOffset))
	require.Equal(t, p.BaseAssetID, in.Memory().ReadHash(params.BaseAssetIDOffset))
	require.Equal(t, tx, in.Memory().Slice(params.TxOffset, 3))
	require.Equal(t, code, in.Memory().Slice(72, 4))
	require.Equal(t, op.RET(params.RegOne).Word(), in.Instr())

	err := in.Load(Init{Code: make([]byte, params.VMMaxRAM)})
	require.ErrorIs(t, err, ErrProgramTooLarge)
}

func TestArithmeticFlags(t *testing.T) {
	t.Run("strict overflow", func(t *testing.T) {
		add := op.ADD(r17, r16, params.RegOne)
		in := load(t, nil, op.Program(op.NOT(r16, params.RegZero), add, op.RET(r17)))
		requirePanic(t, in, run(t, in), PanicArithmeticOverflow, add)
		require.Zero(t, in.Registers()[r17], "destination untouched")
	})
	t.Run("wrapping overflow", func(t *testing.T) {
		in := load(t, nil, op.Program(
			op.MOVI(r18, params.FlagWrapping),
			op.FLAG(r18),
			op.NOT(r16, params.RegZero),
			op.ADD(r17, r16, params.RegOne),
			op.RET(r17),
		))
		require.Equal(t, &ProgramState{Kind: StateReturn}, run(t, in))
		require.Equal(t, uint64(1), in.Registers()[params.RegOF])
	})
	t.Run("wrapping sub borrow", func(t *testing.T) {
		in := load(t, nil, op.Program(
			op.MOVI(r18, params.FlagWrapping),
			op.FLAG(r18),
			op.SUB(r17, params.RegZero, params.RegOne),
			op.RET(r17),
		))
		require.Equal(t, &ProgramState{Kind: StateReturn, Value: ^uint64(0)}, run(t, in))
		require.Equal(t, ^uint64(0), in.Registers()[params.RegOF])
	})
	t.Run("strict division by zero", func(t *testing.T) {
		div := op.DIV(r17, params.RegOne, params.RegZero)
		in := load(t, nil, op.Program(div, op.RET(r17)))
		requirePanic(t, in, run(t, in), PanicArithmeticError, div)
	})
	t.Run("unsafe division by zero", func(t *testing.T) {
		in := load(t, nil, op.Program(
			op.MOVI(r18, params.FlagUnsafeMath),
			op.FLAG(r18),
			op.MOVI(r17, 9),
			op.DIV(r17, params.RegOne, params.RegZero),
			op.RET(r17),
		))
		require.Equal(t, &ProgramState{Kind: StateReturn}, run(t, in))
		require.Equal(t, uint64(1), in.Registers()[params.RegERR])
	})
	t.Run("invalid flags", func(t *testing.T) {
		flag := op.FLAG(r18)
		in := load(t, nil, op.Program(op.MOVI(r18, 4), flag))
		requirePanic(t, in, run(t, in), PanicInvalidFlags, flag)
	})
	t.Run("immediate forms", func(t *testing.T) {
		in := load(t, nil, op.Program(
			op.MOVI(r16, 10),
			op.MULI(r16, r16, 3),
			op.SUBI(r16, r16, 2),
			op.EXPI(r17, r16, 2),
			op.MROO(r18, r17, r18), // root with $r18 == 0
			op.RET(r17),
		))
		requirePanic(t, in, run(t, in), PanicArithmeticError, op.MROO(r18, r17, r18))
		require.Equal(t, uint64(784), in.Registers()[r17])
	})
}

func TestReservedRegistersNotWritable(t *testing.T) {
	for _, info := range asm.Ops() {
		for slot := 0; slot < info.Shape.Len(); slot++ {
			if !info.WritesSlot(slot) {
				continue
			}
			args := make([]uint32, info.Shape.Len())
			for i := range args {
				if info.Shape.Kind(i) == asm.ArgReg && i != slot {
					args[i] = r16
				}
			}
			for _, reserved := range []uint32{params.RegZero, params.RegOne, params.RegPC, params.RegFLAG} {
				args[slot] = reserved
				ins, err := asm.New(info.Op, args...)
				require.NoError(t, err)
				in := load(t, nil, op.Program(ins))
				st := run(t, in)
				requirePanic(t, in, st, PanicReservedRegisterNotWritable, ins)
				require.Zero(t, in.GasUsed(), "%s: refused before charging gas", ins)
				regs := in.Registers()
				require.Zero(t, regs[params.RegZero])
				require.Equal(t, uint64(1), regs[params.RegOne])
			}
		}
	}
}

func TestRegisterFile(t *testing.T) {
	var regs Registers
	regs[params.RegOne] = 1
	for id := uint8(0); id < params.RegWritable; id++ {
		require.ErrorIs(t, regs.Set(id, 5), vmPanic(PanicReservedRegisterNotWritable), "reg %d", id)
	}
	require.ErrorIs(t, regs.Set(params.RegCount, 5), vmPanic(PanicReservedRegisterNotWritable))
	require.Zero(t, regs.Get(params.RegZero))
	require.Equal(t, uint64(1), regs.Get(params.RegOne))

	require.NoError(t, regs.Set(r16, 5))
	require.Equal(t, uint64(5), regs.Get(r16))
	require.NoError(t, regs.Set(params.RegCount-1, 6))
	require.Equal(t, uint64(6), regs.Get(params.RegCount-1))
}

func TestPredicateRejectsContractInstructions(t *testing.T) {
	for _, info := range asm.Ops() {
		if !info.Contract {
			continue
		}
		args := make([]uint32, info.Shape.Len())
		for i := range args {
			if info.Shape.Kind(i) == asm.ArgReg {
				args[i] = r16
			}
		}
		ins := asm.MustNew(info.Op, args...)
		in := load(t, nil, op.Program(ins), AsPredicate(0))
		requirePanic(t, in, run(t, in), PanicContractInstructionNotAllowed, ins)
	}
}

func TestInvalidInstructions(t *testing.T) {
	in := load(t, nil, []byte{0xff, 0, 0, 0})
	st := run(t, in)
	require.Equal(t, PanicInstruction(PanicInvalidOpcode, 0xff000000), st.Value)

	// NOOP carries no arguments, so any argument bit is reserved
	in = load(t, nil, []byte{byte(asm.NOOP), 0, 0, 1})
	st = run(t, in)
	require.Equal(t, PanicInstruction(PanicInvalidImmediateValue, uint32(asm.NOOP)<<24|1), st.Value)
}

func TestGas(t *testing.T) {
	t.Run("out of gas is all or nothing", func(t *testing.T) {
		ret := op.RET(params.RegOne)
		in := New(params.Default())
		require.NoError(t, in.Load(Init{Code: op.Program(ret), GasLimit: 3}))
		requirePanic(t, in, run(t, in), PanicOutOfGas, ret)
		require.Equal(t, uint64(3), in.Registers()[params.RegGGAS])
		require.Equal(t, uint64(3), in.Registers()[params.RegCGAS])
	})

	t.Run("monotonic", func(t *testing.T) {
		alu := []asm.Opcode{asm.ADDI, asm.MULI, asm.XORI, asm.DIVI, asm.SUBI, asm.EXPI}
		rapid.Check(t, func(t *rapid.T) {
			n := rapid.IntRange(1, 30).Draw(t, "n").(int)
			prog := []asm.Instruction{op.MOVI(r21, params.FlagWrapping), op.FLAG(r21)}
			for i := 0; i < n; i++ {
				o := rapid.SampledFrom(alu).Draw(t, "op").(asm.Opcode)
				ra := rapid.Uint32Range(r16, r20).Draw(t, "ra").(uint32)
				rb := rapid.Uint32Range(r16, r20).Draw(t, "rb").(uint32)
				imm := rapid.Uint32Range(0, 1<<12-1).Draw(t, "imm").(uint32)
				prog = append(prog, asm.MustNew(o, ra, rb, imm))
			}
			prog = append(prog, op.RET(r16))
			gas := rapid.Uint64Range(0, 200).Draw(t, "gas").(uint64)

			in := New(params.Default())
			require.NoError(t, in.Load(Init{Code: op.Program(prog...), GasLimit: gas}))
			for in.State() == nil {
				before := in.Registers()[params.RegGGAS]
				require.NoError(t, in.Step())
				regs := in.Registers()
				require.LessOrEqual(t, regs[params.RegGGAS], before)
				require.LessOrEqual(t, regs[params.RegCGAS], regs[params.RegGGAS])
			}
			require.True(t, in.State().Terminal())
			require.LessOrEqual(t, in.GasUsed(), gas)
		})
	})
}

func TestMemoryAccess(t *testing.T) {
	t.Run("stack round trip", func(t *testing.T) {
		in := load(t, nil, op.Program(
			op.CFEI(16),
			op.MOVE(r16, params.RegSSP),
			op.SW(r16, params.RegOne, 1),
			op.LW(r17, r16, 1),
			op.RET(r17),
		))
		require.Equal(t, &ProgramState{Kind: StateReturn, Value: 1}, run(t, in))
	})
	t.Run("write above stack", func(t *testing.T) {
		sw := op.SW(r16, params.RegOne, 0)
		in := load(t, nil, op.Program(op.CFEI(8), op.MOVE(r16, params.RegSP), sw))
		requirePanic(t, in, run(t, in), PanicMemoryOwnership, sw)
	})
	t.Run("read unallocated", func(t *testing.T) {
		lw := op.LW(r17, r16, 0)
		in := load(t, nil, op.Program(op.MOVE(r16, params.RegSP), lw))
		requirePanic(t, in, run(t, in), PanicUninitializedMemoryAccess, lw)
	})
	t.Run("read past end", func(t *testing.T) {
		lb := op.LB(r17, r16, 0)
		in := load(t, nil, op.Program(op.NOT(r16, params.RegZero), lb))
		requirePanic(t, in, run(t, in), PanicMemoryOverflow, lb)
	})
	t.Run("code is read only", func(t *testing.T) {
		sb := op.SB(r16, params.RegOne, 0)
		in := load(t, nil, op.Program(op.MOVE(r16, params.RegIS), sb))
		requirePanic(t, in, run(t, in), PanicMemoryOwnership, sb)
	})
	t.Run("heap", func(t *testing.T) {
		in := load(t, nil, op.Program(
			op.MOVI(r16, 32),
			op.ALOC(r16),
			op.MOVE(r17, params.RegHP),
			op.SW(r17, params.RegOne, 3),
			op.LW(r18, r17, 3),
			op.RET(r18),
		))
		require.Equal(t, &ProgramState{Kind: StateReturn, Value: 1}, run(t, in))
		require.Equal(t, uint64(params.VMMaxRAM-32), in.Registers()[params.RegHP])
	})
	t.Run("failed checks charge only the base cost", func(t *testing.T) {
		for _, tc := range []struct {
			name   string
			prog   []asm.Instruction
			reason PanicReason
		}{
			{"load from gap", []asm.Instruction{op.MOVE(r16, params.RegSP), op.LW(r17, r16, 0)}, PanicUninitializedMemoryAccess},
			{"load past end", []asm.Instruction{op.NOT(r16, params.RegZero), op.LB(r17, r16, 0)}, PanicMemoryOverflow},
			{"store into code", []asm.Instruction{op.MOVE(r16, params.RegIS), op.SW(r16, params.RegOne, 0)}, PanicMemoryOwnership},
			{"copy into code", []asm.Instruction{
				op.MOVE(r16, params.RegIS),
				op.MOVI(r17, 64),
				op.MCP(r16, params.RegZero, r17),
			}, PanicMemoryOwnership},
			{"compare gap", []asm.Instruction{
				op.MOVE(r16, params.RegSP),
				op.MOVI(r17, 8),
				op.MEQ(r18, r16, params.RegZero, r17),
			}, PanicUninitializedMemoryAccess},
			{"clear gap", []asm.Instruction{op.MOVE(r16, params.RegSP), op.MCLI(r16, 100)}, PanicMemoryOwnership},
		} {
			t.Run(tc.name, func(t *testing.T) {
				in := load(t, nil, op.Program(tc.prog...))
				requirePanic(t, in, run(t, in), tc.reason, tc.prog[len(tc.prog)-1])
				var base uint64
				for _, ins := range tc.prog {
					base += in.params.Gas.BaseCost(ins.Info().Mnemonic)
				}
				require.Equal(t, base, in.GasUsed())
			})
		}
	})
	t.Run("aloc past stack", func(t *testing.T) {
		for name, prog := range map[string][]asm.Instruction{
			"max": {op.NOT(r16, params.RegZero), op.ALOC(r16)},
			"one word too many": {
				op.SUB(r16, params.RegHP, params.RegSP),
				op.ADDI(r16, r16, 8),
				op.ALOC(r16),
			},
		} {
			t.Run(name, func(t *testing.T) {
				in := load(t, nil, op.Program(prog...))
				requirePanic(t, in, run(t, in), PanicMemoryOverflow, prog[len(prog)-1])
				require.Equal(t, uint64(params.VMMaxRAM), in.Registers()[params.RegHP])
			})
		}
	})
	t.Run("shrink zeroes", func(t *testing.T) {
		in := load(t, nil, op.Program(
			op.CFEI(8),
			op.MOVE(r16, params.RegSSP),
			op.SW(r16, params.RegOne, 0),
			op.CFSI(8),
			op.CFEI(8),
			op.LW(r17, r16, 0),
			op.RET(r17),
		))
		require.Equal(t, &ProgramState{Kind: StateReturn}, run(t, in))
	})
	t.Run("shrink below ssp", func(t *testing.T) {
		cfsi := op.CFSI(8)
		in := load(t, nil, op.Program(cfsi))
		requirePanic(t, in, run(t, in), PanicMemoryOverflow, cfsi)
	})
	t.Run("copy overlap", func(t *testing.T) {
		mcpi := op.MCPI(r17, r16, 16)
		in := load(t, nil, op.Program(
			op.CFEI(32),
			op.MOVE(r16, params.RegSSP),
			op.ADDI(r17, r16, 8),
			mcpi,
		))
		requirePanic(t, in, run(t, in), PanicMemoryWriteOverlap, mcpi)
	})
	t.Run("copy and compare", func(t *testing.T) {
		in := load(t, nil, op.Program(
			op.CFEI(32),
			op.MOVE(r16, params.RegSSP),
			op.ADDI(r17, r16, 16),
			op.MOVE(r18, params.RegIS),
			op.MCPI(r16, r18, 8),
			op.MCPI(r17, r18, 8),
			op.MOVI(r19, 16),
			op.MEQ(r20, r16, r17, r19),
			op.RET(r20),
		))
		require.Equal(t, &ProgramState{Kind: StateReturn, Value: 1}, run(t, in))
	})
	t.Run("push and pop", func(t *testing.T) {
		in := load(t, nil, op.Program(
			op.MOVI(r16, 11),
			op.MOVI(r18, 13),
			op.PSHL(1<<0|1<<2),
			op.MOVI(r16, 0),
			op.MOVI(r18, 0),
			op.POPL(1<<0|1<<2),
			op.ADD(r19, r16, r18),
			op.RET(r19),
		))
		require.Equal(t, &ProgramState{Kind: StateReturn, Value: 24}, run(t, in))
		regs := in.Registers()
		require.Equal(t, regs[params.RegSSP], regs[params.RegSP])
	})
}

func TestJumps(t *testing.T) {
	t.Run("countdown", func(t *testing.T) {
		in := load(t, nil, op.Program(
			op.MOVI(r16, 3),
			op.ADDI(r17, r17, 2),
			op.SUBI(r16, r16, 1),
			op.JNZB(r16, params.RegZero, 2),
			op.RET(r17),
		))
		require.Equal(t, &ProgramState{Kind: StateReturn, Value: 6}, run(t, in))
	})
	t.Run("forward", func(t *testing.T) {
		in := load(t, nil, op.Program(
			op.JMPF(params.RegZero, 1),
			op.RET(params.RegZero),
			op.RET(params.RegOne),
		))
		require.Equal(t, &ProgramState{Kind: StateReturn, Value: 1}, run(t, in))
	})
	t.Run("absolute", func(t *testing.T) {
		in := load(t, nil, op.Program(
			op.MOVI(r16, 3),
			op.JNEI(r16, params.RegZero, 3),
			op.RET(params.RegZero),
			op.RET(r16),
		))
		require.Equal(t, &ProgramState{Kind: StateReturn, Value: 3}, run(t, in))
	})
	t.Run("out of bounds", func(t *testing.T) {
		ji := op.JI(100)
		in := load(t, nil, op.Program(ji))
		requirePanic(t, in, run(t, in), PanicJumpOutOfBounds, ji)
	})
	t.Run("run off the end", func(t *testing.T) {
		in := load(t, nil, op.Program(op.NOOP(), op.NOOP()))
		st := run(t, in)
		require.Equal(t, PanicInstruction(PanicMemoryOverflow, 0), st.Value)
	})
}

func TestTerminators(t *testing.T) {
	t.Run("revert", func(t *testing.T) {
		in := load(t, nil, op.Program(op.MOVI(r16, 3), op.RVRT(r16)))
		require.Equal(t, &ProgramState{Kind: StateRevert, Value: 3}, run(t, in))
		require.Equal(t, []ReceiptKind{ReceiptRevert}, kinds(in.Receipts()))
	})
	t.Run("return data", func(t *testing.T) {
		code := op.Program(op.MOVE(r16, params.RegIS), op.MOVI(r17, 8), op.RETD(r16, r17))
		in := load(t, nil, code)
		st := run(t, in)
		digest := common.Hash(sha256.Sum256(code[:8]))
		require.Equal(t, &ProgramState{Kind: StateReturnData, Digest: digest}, st)
		r := in.Receipts()[0]
		require.Equal(t, ReceiptReturnData, r.Kind)
		require.Equal(t, digest, r.Digest)
		require.Equal(t, []byte(code[:8]), []byte(r.Data))
	})
	t.Run("logs", func(t *testing.T) {
		in := load(t, nil, op.Program(
			op.LOG(params.RegOne, params.RegZero, params.RegOne, params.RegZero),
			op.RET(params.RegZero),
		))
		run(t, in)
		require.Equal(t, []ReceiptKind{ReceiptLog, ReceiptReturn}, kinds(in.Receipts()))
		require.Equal(t, uint64(1), in.Receipts()[0].RC)
	})
	t.Run("too many receipts", func(t *testing.T) {
		p := params.Default()
		p.MaxReceipts = 1
		log2 := op.LOG(params.RegZero, params.RegZero, params.RegZero, params.RegZero)
		in := load(t, p, op.Program(log2, log2, op.RET(params.RegZero)))
		requirePanic(t, in, run(t, in), PanicTooManyReceipts, log2)
		require.Equal(t, []ReceiptKind{ReceiptLog, ReceiptPanic}, kinds(in.Receipts()))
	})
}

func TestMetadata(t *testing.T) {
	p := params.Default()
	p.ChainID = 9
	in := load(t, p, op.Program(op.GM(r16, params.GMGetChainID), op.RET(r16)))
	require.Equal(t, &ProgramState{Kind: StateReturn, Value: 9}, run(t, in))

	gm := op.GM(r16, params.GMGetVerifyingPredicate)
	in = load(t, nil, op.Program(gm))
	requirePanic(t, in, run(t, in), PanicExpectedPredicateContext, gm)

	in = load(t, nil, op.Program(gm, op.RET(r16)), AsPredicate(2))
	require.Equal(t, &ProgramState{Kind: StateReturn, Value: 2}, run(t, in))

	gm = op.GM(r16, 0x99)
	in = load(t, nil, op.Program(gm))
	requirePanic(t, in, run(t, in), PanicInvalidMetadataIdentifier, gm)

	tx := TxFields{{Selector: 3, Index: 1}: 77}
	in = load(t, nil, op.Program(op.GTF(r16, params.RegOne, 3), op.RET(r16)), WithTransaction(tx))
	require.Equal(t, &ProgramState{Kind: StateReturn, Value: 77}, run(t, in))
}

func TestWideIntegers(t *testing.T) {
	// a at $r16, b at $r18, result at $r19, all 128-bit
	setup := []asm.Instruction{
		op.CFEI(48),
		op.MOVE(r16, params.RegSSP),
		op.MOVI(r17, 5),
		op.SW(r16, r17, 1),
		op.ADDI(r18, r16, 16),
		op.MOVI(r17, 7),
		op.SW(r18, r17, 1),
		op.ADDI(r19, r16, 32),
	}
	t.Run("add", func(t *testing.T) {
		prog := append(append([]asm.Instruction{}, setup...),
			op.WDOP(r19, r16, r18, mathAdd|wideIndirectRHS),
			op.LW(r20, r19, 1),
			op.RET(r20),
		)
		in := load(t, nil, op.Program(prog...))
		require.Equal(t, &ProgramState{Kind: StateReturn, Value: 12}, run(t, in))
	})
	t.Run("compare", func(t *testing.T) {
		prog := append(append([]asm.Instruction{}, setup...),
			op.WDCM(r20, r16, r18, cmpLT|wideIndirectRHS),
			op.RET(r20),
		)
		in := load(t, nil, op.Program(prog...))
		require.Equal(t, &ProgramState{Kind: StateReturn, Value: 1}, run(t, in))
	})
	t.Run("mul direct", func(t *testing.T) {
		prog := append(append([]asm.Instruction{}, setup...),
			op.MOVI(r17, 6),
			op.WQML(r19, r17, r17, 0),
			op.LW(r20, r19, 3),
			op.RET(r20),
		)
		prog[len(setup)-1] = op.ADDI(r19, r16, 16)
		in := load(t, nil, op.Program(prog...))
		require.Equal(t, &ProgramState{Kind: StateReturn, Value: 36}, run(t, in))
	})
	t.Run("divide by zero", func(t *testing.T) {
		wddv := op.WDDV(r19, r16, params.RegZero, 0)
		prog := append(append([]asm.Instruction{}, setup...), wddv)
		in := load(t, nil, op.Program(prog...))
		requirePanic(t, in, run(t, in), PanicArithmeticError, wddv)
	})
	t.Run("bad flags", func(t *testing.T) {
		wdcm := op.WDCM(r20, r16, r18, 7)
		prog := append(append([]asm.Instruction{}, setup...), wdcm)
		in := load(t, nil, op.Program(prog...))
		requirePanic(t, in, run(t, in), PanicInvalidImmediateValue, wdcm)
	})
}

func TestHashes(t *testing.T) {
	code := op.Program(
		op.CFEI(32),
		op.MOVE(r16, params.RegSSP),
		op.MOVE(r17, params.RegIS),
		op.MOVI(r18, 4),
		op.K256(r16, r17, r18),
		op.RET(params.RegZero),
	)
	in := load(t, nil, code)
	run(t, in)
	ssp := in.Registers()[params.RegSSP]
	require.Equal(t, crypto.Keccak256Hash(code[:4]), in.Memory().ReadHash(ssp))
}

func TestBreakpoint(t *testing.T) {
	in := load(t, nil, op.Program(op.NOOP(), op.NOOP(), op.RET(params.RegOne)))
	bp := Breakpoint{PC: 4}
	in.SetBreakpoint(bp)

	st := run(t, in)
	require.Equal(t, StateDebug, st.Kind)
	require.Equal(t, &bp, st.Breakpoint)
	require.False(t, st.Terminal())
	require.Equal(t, uint64(1), in.Steps())

	st = run(t, in)
	require.Equal(t, &ProgramState{Kind: StateReturn, Value: 1}, st)

	in = load(t, nil, op.Program(op.NOOP(), op.RET(params.RegOne)))
	in.SetBreakpoint(bp)
	in.RemoveBreakpoint(bp)
	require.Equal(t, StateReturn, run(t, in).Kind)
}

func TestStateWitness(t *testing.T) {
	in := load(t, nil, op.Program(op.NOOP(), op.RET(params.RegOne)))
	require.NoError(t, in.Step())

	running := in.Snapshot()
	wit, err := running.EncodeWitness()
	require.NoError(t, err)
	require.Len(t, wit, StateWitnessSize)
	hash, err := wit.StateHash()
	require.NoError(t, err)
	require.Equal(t, uint8(VMStatusUnfinished), hash[0])

	run(t, in)
	wit, err = in.Snapshot().EncodeWitness()
	require.NoError(t, err)
	done, err := wit.StateHash()
	require.NoError(t, err)
	require.Equal(t, uint8(VMStatusReturn), done[0])
	require.NotEqual(t, hash, done)

	_, err = StateWitness(wit[:10]).StateHash()
	require.ErrorContains(t, err, "invalid witness length")
}

func TestReceiptsRoot(t *testing.T) {
	a := []Receipt{{Kind: ReceiptReturn, Val: 1}}
	b := []Receipt{{Kind: ReceiptReturn, Val: 2}}
	ra, err := ReceiptsRoot(a)
	require.NoError(t, err)
	rb, err := ReceiptsRoot(b)
	require.NoError(t, err)
	require.NotEqual(t, ra, rb)
	again, err := ReceiptsRoot([]Receipt{{Kind: ReceiptReturn, Val: 1}})
	require.NoError(t, err)
	require.Equal(t, ra, again)
}

var _ Storage = (*storage.Database)(nil)
