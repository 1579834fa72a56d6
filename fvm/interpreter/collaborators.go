package interpreter

import (
	"github.com/ethereum/go-ethereum/common"
)

// Storage is the persistent chain state seen by contract instructions. Lookups of a
// missing contract return storage.ErrContractNotFound; any other error halts execution.
type Storage interface {
	ContractExists(id common.Hash) (bool, error)
	ContractCode(id common.Hash) ([]byte, error)
	ContractCodeRoot(id common.Hash) (common.Hash, error)

	ContractState(id, key common.Hash) (value common.Hash, ok bool, err error)
	SetContractState(id, key, value common.Hash) (existed bool, err error)
	RemoveContractState(id, key common.Hash) (existed bool, err error)

	ContractBalance(id, asset common.Hash) (uint64, error)
	SetContractBalance(id, asset common.Hash, amount uint64) error

	BlockHeight() (uint32, error)
	BlockHash(height uint32) (common.Hash, error)
	Timestamp(height uint32) (uint64, error)
	Coinbase() (common.Hash, error)

	// Snapshot marks the current state. RevertToSnapshot drops every change made since.
	Snapshot() int
	RevertToSnapshot(id int)
}

// Crypto is the hashing and signature capability. It must be deterministic.
type Crypto interface {
	Keccak256(data []byte) common.Hash
	Sha256(data []byte) common.Hash
	// RecoverSecp256k1 takes a 64 byte compact signature and returns the 64 byte public key.
	RecoverSecp256k1(sig [64]byte, digest common.Hash) ([64]byte, error)
	VerifyEd25519(pub [32]byte, sig [64]byte, msg []byte) error
}

// Transaction exposes already validated transaction fields to GTF.
type Transaction interface {
	Field(selector uint16, index uint64) (uint64, bool)
}

type TxField struct {
	Selector uint16
	Index    uint64
}

// TxFields is a Transaction backed by a plain map.
type TxFields map[TxField]uint64

func (t TxFields) Field(selector uint16, index uint64) (uint64, bool) {
	v, ok := t[TxField{Selector: selector, Index: index}]
	return v, ok
}
