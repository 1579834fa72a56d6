package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum-optimism/optimism/op-service/jsonutil"
	"github.com/stretchr/testify/require"

	"github.com/fuel-go/fvm/fvm/asm"
	"github.com/fuel-go/fvm/fvm/asm/op"
	"github.com/fuel-go/fvm/fvm/interpreter"
	"github.com/fuel-go/fvm/fvm/params"
)

func finishedState(t *testing.T, ins ...asm.Instruction) *interpreter.VMState {
	vm := interpreter.New(params.Default())
	require.NoError(t, vm.Load(interpreter.Init{Code: op.Program(ins...), GasLimit: 10_000}))
	_, err := vm.Run(context.Background())
	require.NoError(t, err)
	return vm.Snapshot()
}

func TestLoadState(t *testing.T) {
	state := finishedState(t, op.MOVI(16, 7), op.LOG(16, 0, 0, 0), op.RET(16))
	expected, err := ComputeWitness(state)
	require.NoError(t, err)

	for _, name := range []string{"state.json", "state.json.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, jsonutil.WriteJSON(path, state, OutFilePerm))
			loaded, err := LoadVMState(path)
			require.NoError(t, err)
			require.Equal(t, state.Registers, loaded.Registers)
			require.Equal(t, state.Receipts, loaded.Receipts)
			require.Equal(t, state.Result, loaded.Result)

			got, err := ComputeWitness(loaded)
			require.NoError(t, err)
			require.Equal(t, expected, got)
		})
	}

	t.Run("no memory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"steps": 3}`), 0o644))
		_, err := LoadVMState(path)
		require.ErrorContains(t, err, "no memory")
	})
}

func TestWitnessStatus(t *testing.T) {
	for _, tc := range []struct {
		name   string
		prog   []asm.Instruction
		status byte
	}{
		{"return", []asm.Instruction{op.RET(params.RegOne)}, interpreter.VMStatusReturn},
		{"revert", []asm.Instruction{op.RVRT(params.RegOne)}, interpreter.VMStatusRevert},
		{"panic", []asm.Instruction{op.DIV(16, params.RegOne, params.RegZero)}, interpreter.VMStatusRevert},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out, err := ComputeWitness(finishedState(t, tc.prog...))
			require.NoError(t, err)
			require.Len(t, out.Witness, interpreter.StateWitnessSize)
			require.Equal(t, tc.status, out.StateHash[0])
			require.Equal(t, tc.status, out.Witness[64])
		})
	}

	t.Run("unfinished", func(t *testing.T) {
		vm := interpreter.New(params.Default())
		require.NoError(t, vm.Load(interpreter.Init{Code: op.Program(op.NOOP(), op.RET(params.RegOne)), GasLimit: 10_000}))
		require.NoError(t, vm.Step())
		out, err := ComputeWitness(vm.Snapshot())
		require.NoError(t, err)
		require.Equal(t, byte(interpreter.VMStatusUnfinished), out.StateHash[0])
	})
}
