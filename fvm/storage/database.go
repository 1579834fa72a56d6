// Package storage keeps contract code, contract state slots, contract balances and block
// data in a key-value store. Writes are buffered in a journal so call frames can be
// reverted, and reach the underlying store only on Commit.
package storage

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/ethdb/memorydb"
)

var ErrContractNotFound = errors.New("contract not found")

// key prefixes
const (
	codePrefix      = 'c'
	codeRootPrefix  = 'r'
	statePrefix     = 's'
	balancePrefix   = 'b'
	blockHashPrefix = 'h'
	timestampPrefix = 't'
	heightKey       = 'H'
	coinbaseKey     = 'C'
)

type dirtyEntry struct {
	value   []byte
	deleted bool
}

type journalEntry struct {
	key     string
	prev    dirtyEntry
	hadPrev bool
}

type Database struct {
	db      ethdb.KeyValueStore
	dirty   map[string]dirtyEntry
	journal []journalEntry
}

func New(db ethdb.KeyValueStore) *Database {
	return &Database{
		db:    db,
		dirty: make(map[string]dirtyEntry),
	}
}

// NewMemory returns an empty database that lives in memory only.
func NewMemory() *Database {
	return New(memorydb.New())
}

// NewLevelDB opens, or creates, a leveldb database at path.
func NewLevelDB(path string, readonly bool) (*Database, error) {
	db, err := leveldb.New(path, 16, 16, "fvm/db/", readonly)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", path, err)
	}
	return New(db), nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) get(key []byte) ([]byte, bool, error) {
	if e, ok := d.dirty[string(key)]; ok {
		if e.deleted {
			return nil, false, nil
		}
		return e.value, true, nil
	}
	ok, err := d.db.Has(key)
	if err != nil || !ok {
		return nil, false, err
	}
	v, err := d.db.Get(key)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (d *Database) record(key []byte, e dirtyEntry) {
	k := string(key)
	prev, had := d.dirty[k]
	d.journal = append(d.journal, journalEntry{key: k, prev: prev, hadPrev: had})
	d.dirty[k] = e
}

func (d *Database) put(key, value []byte) {
	d.record(key, dirtyEntry{value: common.CopyBytes(value)})
}

func (d *Database) del(key []byte) {
	d.record(key, dirtyEntry{deleted: true})
}

// Snapshot marks the current state.
func (d *Database) Snapshot() int {
	return len(d.journal)
}

// RevertToSnapshot undoes every write made after the snapshot was taken.
func (d *Database) RevertToSnapshot(id int) {
	if id < 0 || id > len(d.journal) {
		panic(fmt.Errorf("invalid snapshot %d, journal has %d entries", id, len(d.journal)))
	}
	for i := len(d.journal) - 1; i >= id; i-- {
		j := d.journal[i]
		if j.hadPrev {
			d.dirty[j.key] = j.prev
		} else {
			delete(d.dirty, j.key)
		}
	}
	d.journal = d.journal[:id]
}

// Commit writes all buffered changes to the backing store in one batch.
func (d *Database) Commit() error {
	batch := d.db.NewBatch()
	for k, e := range d.dirty {
		var err error
		if e.deleted {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), e.value)
		}
		if err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("failed to commit %d changes: %w", len(d.dirty), err)
	}
	d.dirty = make(map[string]dirtyEntry)
	d.journal = d.journal[:0]
	return nil
}

func key(prefix byte, parts ...[]byte) []byte {
	out := []byte{prefix}
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func heightBytes(h uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, h)
}

// Contracts

// DeployContract stores code under id, replacing what was there.
func (d *Database) DeployContract(id common.Hash, code []byte) {
	root := sha256.Sum256(code)
	d.put(key(codePrefix, id[:]), code)
	d.put(key(codeRootPrefix, id[:]), root[:])
}

func (d *Database) ContractExists(id common.Hash) (bool, error) {
	_, ok, err := d.get(key(codePrefix, id[:]))
	return ok, err
}

func (d *Database) ContractCode(id common.Hash) ([]byte, error) {
	code, ok, err := d.get(key(codePrefix, id[:]))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContractNotFound, id)
	}
	return code, nil
}

// ContractCodeRoot is the sha256 of the contract code.
func (d *Database) ContractCodeRoot(id common.Hash) (common.Hash, error) {
	root, ok, err := d.get(key(codeRootPrefix, id[:]))
	if err != nil {
		return common.Hash{}, err
	}
	if !ok {
		return common.Hash{}, fmt.Errorf("%w: %s", ErrContractNotFound, id)
	}
	return common.BytesToHash(root), nil
}

func (d *Database) ContractState(id, slot common.Hash) (common.Hash, bool, error) {
	v, ok, err := d.get(key(statePrefix, id[:], slot[:]))
	if err != nil || !ok {
		return common.Hash{}, false, err
	}
	return common.BytesToHash(v), true, nil
}

// SetContractState reports whether the slot held a value before.
func (d *Database) SetContractState(id, slot, value common.Hash) (bool, error) {
	k := key(statePrefix, id[:], slot[:])
	_, existed, err := d.get(k)
	if err != nil {
		return false, err
	}
	d.put(k, value[:])
	return existed, nil
}

func (d *Database) RemoveContractState(id, slot common.Hash) (bool, error) {
	k := key(statePrefix, id[:], slot[:])
	_, existed, err := d.get(k)
	if err != nil || !existed {
		return false, err
	}
	d.del(k)
	return true, nil
}

func (d *Database) ContractBalance(id, asset common.Hash) (uint64, error) {
	v, ok, err := d.get(key(balancePrefix, id[:], asset[:]))
	if err != nil || !ok {
		return 0, err
	}
	if len(v) != 8 {
		return 0, fmt.Errorf("corrupt balance of %s in %s: %d bytes", asset, id, len(v))
	}
	return binary.BigEndian.Uint64(v), nil
}

func (d *Database) SetContractBalance(id, asset common.Hash, amount uint64) error {
	k := key(balancePrefix, id[:], asset[:])
	if amount == 0 {
		d.del(k)
		return nil
	}
	d.put(k, binary.BigEndian.AppendUint64(nil, amount))
	return nil
}

// Blocks

// SetBlock records a block and makes it the current one.
func (d *Database) SetBlock(height uint32, hash common.Hash, timestamp uint64) {
	d.put(key(blockHashPrefix, heightBytes(height)), hash[:])
	d.put(key(timestampPrefix, heightBytes(height)), binary.BigEndian.AppendUint64(nil, timestamp))
	d.put([]byte{heightKey}, heightBytes(height))
}

func (d *Database) SetCoinbase(cb common.Hash) {
	d.put([]byte{coinbaseKey}, cb[:])
}

func (d *Database) BlockHeight() (uint32, error) {
	v, ok, err := d.get([]byte{heightKey})
	if err != nil || !ok {
		return 0, err
	}
	return binary.BigEndian.Uint32(v), nil
}

// BlockHash is zero for heights that were never recorded.
func (d *Database) BlockHash(height uint32) (common.Hash, error) {
	v, _, err := d.get(key(blockHashPrefix, heightBytes(height)))
	return common.BytesToHash(v), err
}

func (d *Database) Timestamp(height uint32) (uint64, error) {
	v, ok, err := d.get(key(timestampPrefix, heightBytes(height)))
	if err != nil || !ok {
		return 0, err
	}
	return binary.BigEndian.Uint64(v), nil
}

func (d *Database) Coinbase() (common.Hash, error) {
	v, _, err := d.get([]byte{coinbaseKey})
	return common.BytesToHash(v), err
}
