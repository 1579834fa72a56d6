package cmd

import (
	"fmt"

	"github.com/ethereum-optimism/optimism/op-service/jsonutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"

	"github.com/fuel-go/fvm/fvm/interpreter"
)

type WitnessOutput struct {
	Witness   hexutil.Bytes `json:"witness"`
	StateHash common.Hash   `json:"stateHash"`
}

// LoadVMState reads a JSON state as written by the run command.
func LoadVMState(path string) (*interpreter.VMState, error) {
	state, err := jsonutil.LoadJSON[interpreter.VMState](path)
	if err != nil {
		return nil, err
	}
	if state.Memory == nil {
		return nil, fmt.Errorf("state %q has no memory", path)
	}
	return state, nil
}

func ComputeWitness(state *interpreter.VMState) (*WitnessOutput, error) {
	witness, err := state.EncodeWitness()
	if err != nil {
		return nil, fmt.Errorf("failed to encode witness: %w", err)
	}
	stateHash, err := witness.StateHash()
	if err != nil {
		return nil, fmt.Errorf("failed to compute witness hash: %w", err)
	}
	return &WitnessOutput{Witness: hexutil.Bytes(witness), StateHash: stateHash}, nil
}

func Witness(ctx *cli.Context) error {
	input := ctx.Path(WitnessInputFlag.Name)
	state, err := LoadVMState(input)
	if err != nil {
		return fmt.Errorf("invalid input state (%v): %w", input, err)
	}
	out, err := ComputeWitness(state)
	if err != nil {
		return err
	}
	if err := jsonutil.WriteJSON(ctx.Path(WitnessOutputFlag.Name), out, OutFilePerm); err != nil {
		return fmt.Errorf("failed to write witness output %w", err)
	}
	_, _ = fmt.Fprintln(ctx.App.Writer, out.StateHash.Hex())
	return nil
}

var WitnessCommand = &cli.Command{
	Name:        "witness",
	Usage:       "Convert a JSON VM state into a binary witness",
	Description: "Convert a JSON VM state into a binary witness. The statehash is written to stdout",
	Action:      Witness,
	Flags: []cli.Flag{
		WitnessInputFlag,
		WitnessOutputFlag,
	},
}
