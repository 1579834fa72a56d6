package storage

import (
	"crypto/sha256"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	contractA = common.HexToHash("0xaa")
	assetB    = common.HexToHash("0xbb")
)

func TestContracts(t *testing.T) {
	db := NewMemory()

	ok, err := db.ContractExists(contractA)
	require.NoError(t, err)
	require.False(t, ok)
	_, err = db.ContractCode(contractA)
	require.ErrorIs(t, err, ErrContractNotFound)
	_, err = db.ContractCodeRoot(contractA)
	require.ErrorIs(t, err, ErrContractNotFound)

	code := []byte{0x24, 0x04, 0x00, 0x00}
	db.DeployContract(contractA, code)
	ok, err = db.ContractExists(contractA)
	require.NoError(t, err)
	require.True(t, ok)
	got, err := db.ContractCode(contractA)
	require.NoError(t, err)
	require.Equal(t, code, got)
	root, err := db.ContractCodeRoot(contractA)
	require.NoError(t, err)
	require.Equal(t, common.Hash(sha256.Sum256(code)), root)
}

func TestState(t *testing.T) {
	db := NewMemory()
	slot := common.HexToHash("0x01")

	_, ok, err := db.ContractState(contractA, slot)
	require.NoError(t, err)
	require.False(t, ok)

	existed, err := db.SetContractState(contractA, slot, common.HexToHash("0x42"))
	require.NoError(t, err)
	require.False(t, existed)
	existed, err = db.SetContractState(contractA, slot, common.HexToHash("0x43"))
	require.NoError(t, err)
	require.True(t, existed)

	v, ok, err := db.ContractState(contractA, slot)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, common.HexToHash("0x43"), v)

	existed, err = db.RemoveContractState(contractA, slot)
	require.NoError(t, err)
	require.True(t, existed)
	existed, err = db.RemoveContractState(contractA, slot)
	require.NoError(t, err)
	require.False(t, existed)
}

func TestSnapshotRevert(t *testing.T) {
	db := NewMemory()
	require.NoError(t, db.SetContractBalance(contractA, assetB, 100))

	snap := db.Snapshot()
	require.NoError(t, db.SetContractBalance(contractA, assetB, 40))
	_, err := db.SetContractState(contractA, common.Hash{}, common.HexToHash("0x01"))
	require.NoError(t, err)

	inner := db.Snapshot()
	require.NoError(t, db.SetContractBalance(contractA, assetB, 0))
	db.RevertToSnapshot(inner)

	bal, err := db.ContractBalance(contractA, assetB)
	require.NoError(t, err)
	require.Equal(t, uint64(40), bal)

	db.RevertToSnapshot(snap)
	bal, err = db.ContractBalance(contractA, assetB)
	require.NoError(t, err)
	require.Equal(t, uint64(100), bal)
	_, ok, err := db.ContractState(contractA, common.Hash{})
	require.NoError(t, err)
	require.False(t, ok)

	require.Panics(t, func() { db.RevertToSnapshot(snap + 10) })
}

func TestBlocks(t *testing.T) {
	db := NewMemory()
	h, err := db.BlockHeight()
	require.NoError(t, err)
	require.Zero(t, h)

	db.SetBlock(7, common.HexToHash("0x77"), 1700000000)
	db.SetCoinbase(common.HexToHash("0xc0"))

	h, err = db.BlockHeight()
	require.NoError(t, err)
	require.Equal(t, uint32(7), h)
	hash, err := db.BlockHash(7)
	require.NoError(t, err)
	require.Equal(t, common.HexToHash("0x77"), hash)
	hash, err = db.BlockHash(6)
	require.NoError(t, err)
	require.Equal(t, common.Hash{}, hash)
	ts, err := db.Timestamp(7)
	require.NoError(t, err)
	require.Equal(t, uint64(1700000000), ts)
	cb, err := db.Coinbase()
	require.NoError(t, err)
	require.Equal(t, common.HexToHash("0xc0"), cb)
}

func TestLevelDBCommit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	db, err := NewLevelDB(path, false)
	require.NoError(t, err)
	db.DeployContract(contractA, []byte{1, 2, 3})
	require.NoError(t, db.SetContractBalance(contractA, assetB, 5))
	require.NoError(t, db.Commit())
	require.NoError(t, db.Close())

	db, err = NewLevelDB(path, true)
	require.NoError(t, err)
	defer db.Close()
	code, err := db.ContractCode(contractA)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, code)
	bal, err := db.ContractBalance(contractA, assetB)
	require.NoError(t, err)
	require.Equal(t, uint64(5), bal)
}
