package interpreter

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/fuel-go/fvm/fvm/params"
)

// VMState is a serializable picture of an interpreter.
type VMState struct {
	Memory    *Memory       `json:"memory"`
	Registers Registers     `json:"registers"`
	Frames    []*CallFrame  `json:"frames"`
	Receipts  []Receipt     `json:"receipts"`
	Steps     uint64        `json:"steps"`
	GasUsed   uint64        `json:"gasUsed"`
	Result    *ProgramState `json:"result,omitempty"`
}

// Snapshot captures the current state. Memory is shared with the interpreter, so the
// snapshot must be serialized before the next Step.
func (in *Interpreter) Snapshot() *VMState {
	return &VMState{
		Memory:    in.mem,
		Registers: in.regs,
		Frames:    in.frames,
		Receipts:  in.receipts,
		Steps:     in.steps,
		GasUsed:   in.GasUsed(),
		Result:    in.state,
	}
}

const (
	VMStatusReturn     = 0
	VMStatusReturnData = 1
	VMStatusRevert     = 2
	VMStatusUnfinished = 3
)

// Status is the first byte of the state hash.
func (s *VMState) Status() uint8 {
	if !s.Result.Terminal() {
		return VMStatusUnfinished
	}
	switch s.Result.Kind {
	case StateReturn:
		return VMStatusReturn
	case StateReturnData:
		return VMStatusReturnData
	default:
		return VMStatusRevert
	}
}

// StateWitnessSize is the length of an encoded witness.
const StateWitnessSize = 32 + 32 + 1 + 8 + 8 + 8 + params.RegCount*params.WordSize

type StateWitness []byte

func (s *VMState) EncodeWitness() (StateWitness, error) {
	receiptsRoot, err := ReceiptsRoot(s.Receipts)
	if err != nil {
		return nil, err
	}
	memRoot := s.Memory.Hash()
	out := make([]byte, 0, StateWitnessSize)
	out = append(out, memRoot[:]...)
	out = append(out, receiptsRoot[:]...)
	out = append(out, s.Status())
	out = binary.BigEndian.AppendUint64(out, s.Steps)
	out = binary.BigEndian.AppendUint64(out, s.GasUsed)
	out = binary.BigEndian.AppendUint64(out, uint64(len(s.Frames)))
	for _, r := range s.Registers {
		out = binary.BigEndian.AppendUint64(out, r)
	}
	return out, nil
}

// StateHash is keccak256 of the witness with the first byte replaced by the status.
func (sw StateWitness) StateHash() (common.Hash, error) {
	if len(sw) != StateWitnessSize {
		return common.Hash{}, fmt.Errorf("invalid witness length: expected %d, got %d", StateWitnessSize, len(sw))
	}
	hash := crypto.Keccak256Hash(sw)
	hash[0] = sw[64]
	return hash, nil
}
