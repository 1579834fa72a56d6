package interpreter

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/fuel-go/fvm/fvm/params"
)

type ReceiptKind uint8

const (
	ReceiptCall ReceiptKind = iota
	ReceiptReturn
	ReceiptReturnData
	ReceiptPanic
	ReceiptRevert
	ReceiptLog
	ReceiptLogData
	ReceiptTransfer
	ReceiptMint
	ReceiptBurn
)

var receiptKindNames = [...]string{
	ReceiptCall:       "call",
	ReceiptReturn:     "return",
	ReceiptReturnData: "return_data",
	ReceiptPanic:      "panic",
	ReceiptRevert:     "revert",
	ReceiptLog:        "log",
	ReceiptLogData:    "log_data",
	ReceiptTransfer:   "transfer",
	ReceiptMint:       "mint",
	ReceiptBurn:       "burn",
}

func (k ReceiptKind) String() string {
	if int(k) < len(receiptKindNames) {
		return receiptKindNames[k]
	}
	return fmt.Sprintf("ReceiptKind(%d)", uint8(k))
}

func (k ReceiptKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ReceiptKind) UnmarshalText(text []byte) error {
	for i, n := range receiptKindNames {
		if n == string(text) {
			*k = ReceiptKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown receipt kind %q", text)
}

// Receipt is one observable event. Which fields are set depends on Kind:
//
//	call         ID (caller), To, Amount, AssetID, Gas, Param1, Param2
//	return       ID, Val
//	return_data  ID, Ptr, Len, Digest, Data
//	panic        ID, Reason, Instruction
//	revert       ID, Val
//	log          ID, RA, RB, RC, RD
//	log_data     ID, RA, RB, Ptr, Len, Digest, Data
//	transfer     ID (sender), To, Amount, AssetID
//	mint, burn   ID, SubID, Val
//
// PC and IS are always set.
type Receipt struct {
	Kind        ReceiptKind   `json:"type"`
	ID          common.Hash   `json:"id"`
	To          common.Hash   `json:"to,omitempty"`
	Amount      uint64        `json:"amount,omitempty"`
	AssetID     common.Hash   `json:"assetId,omitempty"`
	SubID       common.Hash   `json:"subId,omitempty"`
	Gas         uint64        `json:"gas,omitempty"`
	Param1      uint64        `json:"param1,omitempty"`
	Param2      uint64        `json:"param2,omitempty"`
	Val         uint64        `json:"val,omitempty"`
	Reason      PanicReason   `json:"reason,omitempty"`
	Instruction uint32        `json:"instruction,omitempty"`
	RA          uint64        `json:"ra,omitempty"`
	RB          uint64        `json:"rb,omitempty"`
	RC          uint64        `json:"rc,omitempty"`
	RD          uint64        `json:"rd,omitempty"`
	Ptr         uint64        `json:"ptr,omitempty"`
	Len         uint64        `json:"len,omitempty"`
	Digest      common.Hash   `json:"digest,omitempty"`
	Data        hexutil.Bytes `json:"data,omitempty"`
	PC          uint64        `json:"pc"`
	IS          uint64        `json:"is"`
}

// ReceiptsRoot commits to an ordered receipt list: keccak256 of its RLP encoding.
func ReceiptsRoot(receipts []Receipt) (common.Hash, error) {
	enc, err := rlp.EncodeToBytes(receipts)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to encode receipts: %w", err)
	}
	return crypto.Keccak256Hash(enc), nil
}

// appendReceipt fails with TooManyReceipts once the configured limit is reached.
func (in *Interpreter) appendReceipt(r Receipt) error {
	if len(in.receipts) >= in.params.MaxReceipts {
		return vmPanic(PanicTooManyReceipts)
	}
	in.pushReceipt(r)
	return nil
}

// pushReceipt appends without a limit check. Used for receipts that end a frame.
func (in *Interpreter) pushReceipt(r Receipt) {
	r.PC = in.regs[params.RegPC]
	r.IS = in.regs[params.RegIS]
	in.receipts = append(in.receipts, r)
	if in.tracing {
		in.log.Trace("receipt", "kind", r.Kind, "id", r.ID, "pc", r.PC)
	}
}

func (in *Interpreter) receiptRoom(n int) error {
	if len(in.receipts)+n > in.params.MaxReceipts {
		return vmPanic(PanicTooManyReceipts)
	}
	return nil
}

// Receipts returns the receipts produced so far, in execution order.
func (in *Interpreter) Receipts() []Receipt {
	return in.receipts
}
