package interpreter

import (
	"encoding/binary"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"

	"github.com/fuel-go/fvm/fvm/asm"
	"github.com/fuel-go/fvm/fvm/params"
	"github.com/fuel-go/fvm/fvm/storage"
)

// readHash reads a 32 byte id from VM memory.
func (in *Interpreter) readHash(addr uint64) (common.Hash, error) {
	if err := in.verifyRead(addr, 32); err != nil {
		return common.Hash{}, err
	}
	return in.mem.ReadHash(addr), nil
}

// readContract reads a contract id and checks that the contract exists.
func (in *Interpreter) readContract(addr uint64) (common.Hash, error) {
	id, err := in.readHash(addr)
	if err != nil {
		return id, err
	}
	ok, err := in.storage.ContractExists(id)
	if err != nil {
		return id, halt("contract exists", err)
	}
	if !ok {
		return id, vmPanic(PanicContractNotFound)
	}
	return id, nil
}

// Storage slots

func nextKey(k common.Hash) common.Hash {
	var v uint256.Int
	v.SetBytes32(k[:])
	v.AddUint64(&v, 1)
	return v.Bytes32()
}

func (in *Interpreter) chargeSlots(n uint64) error {
	return in.chargeGas(in.params.Gas.Storage.Cost(n))
}

func opSrw(in *Interpreter, d asm.Decoded) error {
	id, err := in.internalContract()
	if err != nil {
		return err
	}
	key, err := in.readHash(in.regs[d.RC])
	if err != nil {
		return err
	}
	if err := in.chargeSlots(1); err != nil {
		return err
	}
	val, ok, err := in.storage.ContractState(id, key)
	if err != nil {
		return halt("contract state", err)
	}
	in.regs[d.RA] = binary.BigEndian.Uint64(val[:8])
	in.regs[d.RB] = b2u(ok)
	return nil
}

func opSww(in *Interpreter, d asm.Decoded) error {
	id, err := in.internalContract()
	if err != nil {
		return err
	}
	key, err := in.readHash(in.regs[d.RA])
	if err != nil {
		return err
	}
	if err := in.chargeSlots(1); err != nil {
		return err
	}
	var val common.Hash
	binary.BigEndian.PutUint64(val[:8], in.regs[d.RC])
	existed, err := in.storage.SetContractState(id, key, val)
	if err != nil {
		return halt("set contract state", err)
	}
	in.regs[d.RB] = b2u(!existed)
	return nil
}

func opSrwq(in *Interpreter, d asm.Decoded) error {
	id, err := in.internalContract()
	if err != nil {
		return err
	}
	dst, n := in.regs[d.RA], in.regs[d.RD]
	size, overflow := math.SafeMul(n, params.StorageSlotSize)
	if overflow {
		return vmPanic(PanicMemoryOverflow)
	}
	if err := in.verifyWrite(dst, size); err != nil {
		return err
	}
	key, err := in.readHash(in.regs[d.RC])
	if err != nil {
		return err
	}
	if err := in.chargeSlots(n); err != nil {
		return err
	}
	all := true
	for i := uint64(0); i < n; i++ {
		val, ok, err := in.storage.ContractState(id, key)
		if err != nil {
			return halt("contract state", err)
		}
		all = all && ok
		in.mem.Write(dst+i*params.StorageSlotSize, val[:])
		key = nextKey(key)
	}
	in.regs[d.RB] = b2u(all)
	return nil
}

func opSwwq(in *Interpreter, d asm.Decoded) error {
	id, err := in.internalContract()
	if err != nil {
		return err
	}
	src, n := in.regs[d.RC], in.regs[d.RD]
	size, overflow := math.SafeMul(n, params.StorageSlotSize)
	if overflow {
		return vmPanic(PanicMemoryOverflow)
	}
	if err := in.verifyRead(src, size); err != nil {
		return err
	}
	key, err := in.readHash(in.regs[d.RA])
	if err != nil {
		return err
	}
	if err := in.chargeSlots(n); err != nil {
		return err
	}
	var created uint64
	for i := uint64(0); i < n; i++ {
		val := in.mem.ReadHash(src + i*params.StorageSlotSize)
		existed, err := in.storage.SetContractState(id, key, val)
		if err != nil {
			return halt("set contract state", err)
		}
		if !existed {
			created++
		}
		key = nextKey(key)
	}
	in.regs[d.RB] = created
	return nil
}

func opScwq(in *Interpreter, d asm.Decoded) error {
	id, err := in.internalContract()
	if err != nil {
		return err
	}
	n := in.regs[d.RC]
	key, err := in.readHash(in.regs[d.RA])
	if err != nil {
		return err
	}
	if err := in.chargeSlots(n); err != nil {
		return err
	}
	all := true
	for i := uint64(0); i < n; i++ {
		existed, err := in.storage.RemoveContractState(id, key)
		if err != nil {
			return halt("remove contract state", err)
		}
		all = all && existed
		key = nextKey(key)
	}
	in.regs[d.RB] = b2u(all)
	return nil
}

// Balances

func opBal(in *Interpreter, d asm.Decoded) error {
	asset, err := in.readHash(in.regs[d.RB])
	if err != nil {
		return err
	}
	id, err := in.readContract(in.regs[d.RC])
	if err != nil {
		return err
	}
	v, err := in.storage.ContractBalance(id, asset)
	if err != nil {
		return halt("contract balance", err)
	}
	in.regs[d.RA] = v
	return nil
}

func opTr(in *Interpreter, d asm.Decoded) error {
	amount := in.regs[d.RB]
	if amount == 0 {
		return vmPanic(PanicTransferAmountCannotBeZero)
	}
	to, err := in.readContract(in.regs[d.RA])
	if err != nil {
		return err
	}
	asset, err := in.readHash(in.regs[d.RC])
	if err != nil {
		return err
	}
	if err := in.receiptRoom(1); err != nil {
		return err
	}

	from := in.frame()
	var fromBalance uint64
	if from != nil {
		if fromBalance, err = in.storage.ContractBalance(from.To, asset); err != nil {
			return halt("contract balance", err)
		}
	} else {
		fromBalance = in.balances[asset]
	}
	if fromBalance < amount {
		return vmPanic(PanicNotEnoughBalance)
	}
	toBalance, err := in.storage.ContractBalance(to, asset)
	if err != nil {
		return halt("contract balance", err)
	}
	newTo, overflow := math.SafeAdd(toBalance, amount)
	if overflow {
		return vmPanic(PanicBalanceOverflow)
	}

	if from != nil {
		if err := in.storage.SetContractBalance(from.To, asset, fromBalance-amount); err != nil {
			return halt("set contract balance", err)
		}
	} else {
		in.balances[asset] = fromBalance - amount
	}
	if err := in.storage.SetContractBalance(to, asset, newTo); err != nil {
		return halt("set contract balance", err)
	}
	return in.appendReceipt(Receipt{Kind: ReceiptTransfer, ID: in.contractID(), To: to, Amount: amount, AssetID: asset})
}

// SubAssetID is the asset minted by contract under subID.
func SubAssetID(c Crypto, contract, subID common.Hash) common.Hash {
	var b [64]byte
	copy(b[:32], contract[:])
	copy(b[32:], subID[:])
	return c.Sha256(b[:])
}

func opMint(in *Interpreter, d asm.Decoded) error {
	return supplyOp(in, d, true)
}

func opBurn(in *Interpreter, d asm.Decoded) error {
	return supplyOp(in, d, false)
}

func supplyOp(in *Interpreter, d asm.Decoded, mint bool) error {
	id, err := in.internalContract()
	if err != nil {
		return err
	}
	amount := in.regs[d.RA]
	subID, err := in.readHash(in.regs[d.RB])
	if err != nil {
		return err
	}
	if err := in.receiptRoom(1); err != nil {
		return err
	}
	asset := SubAssetID(in.crypto, id, subID)
	bal, err := in.storage.ContractBalance(id, asset)
	if err != nil {
		return halt("contract balance", err)
	}
	kind := ReceiptMint
	if mint {
		v, overflow := math.SafeAdd(bal, amount)
		if overflow {
			return vmPanic(PanicBalanceOverflow)
		}
		bal = v
	} else {
		if bal < amount {
			return vmPanic(PanicNotEnoughBalance)
		}
		bal -= amount
		kind = ReceiptBurn
	}
	if err := in.storage.SetContractBalance(id, asset, bal); err != nil {
		return halt("set contract balance", err)
	}
	return in.appendReceipt(Receipt{Kind: kind, ID: id, SubID: subID, Val: amount})
}

// Chain

func (in *Interpreter) blockHeight() (uint32, error) {
	h, err := in.storage.BlockHeight()
	if err != nil {
		return 0, halt("block height", err)
	}
	return h, nil
}

// checkHeight accepts heights up to the current block.
func (in *Interpreter) checkHeight(v uint64) (uint32, error) {
	cur, err := in.blockHeight()
	if err != nil {
		return 0, err
	}
	if v > uint64(cur) {
		return 0, vmPanic(PanicInvalidBlockHeight)
	}
	return uint32(v), nil
}

func opBhei(in *Interpreter, d asm.Decoded) error {
	h, err := in.blockHeight()
	if err != nil {
		return err
	}
	in.regs[d.RA] = uint64(h)
	return nil
}

func opBhsh(in *Interpreter, d asm.Decoded) error {
	dst := in.regs[d.RA]
	if err := in.verifyWrite(dst, 32); err != nil {
		return err
	}
	h, err := in.checkHeight(in.regs[d.RB])
	if err != nil {
		return err
	}
	hash, err := in.storage.BlockHash(h)
	if err != nil {
		return halt("block hash", err)
	}
	in.mem.Write(dst, hash[:])
	return nil
}

func opCb(in *Interpreter, d asm.Decoded) error {
	dst := in.regs[d.RA]
	if err := in.verifyWrite(dst, 32); err != nil {
		return err
	}
	cb, err := in.storage.Coinbase()
	if err != nil {
		return halt("coinbase", err)
	}
	in.mem.Write(dst, cb[:])
	return nil
}

func opTime(in *Interpreter, d asm.Decoded) error {
	h, err := in.checkHeight(in.regs[d.RB])
	if err != nil {
		return err
	}
	ts, err := in.storage.Timestamp(h)
	if err != nil {
		return halt("timestamp", err)
	}
	in.regs[d.RA] = ts
	return nil
}

// Code

func (in *Interpreter) chargeCode(n uint64) error {
	return in.chargeGas(in.params.Gas.Code.Cost(n))
}

func opCsiz(in *Interpreter, d asm.Decoded) error {
	id, err := in.readHash(in.regs[d.RB])
	if err != nil {
		return err
	}
	code, err := in.contractCode(id)
	if err != nil {
		return err
	}
	if err := in.chargeCode(uint64(len(code))); err != nil {
		return err
	}
	in.regs[d.RA] = uint64(len(code))
	return nil
}

// codeSlice returns n bytes of code from offset, zero filled past the end.
func codeSlice(code []byte, offset, n uint64) []byte {
	out := make([]byte, n)
	if offset < uint64(len(code)) {
		copy(out, code[offset:])
	}
	return out
}

func opCcp(in *Interpreter, d asm.Decoded) error {
	dst, offset, n := in.regs[d.RA], in.regs[d.RC], in.regs[d.RD]
	if err := in.verifyWrite(dst, n); err != nil {
		return err
	}
	id, err := in.readHash(in.regs[d.RB])
	if err != nil {
		return err
	}
	code, err := in.contractCode(id)
	if err != nil {
		return err
	}
	if err := in.chargeCode(n); err != nil {
		return err
	}
	in.mem.Write(dst, codeSlice(code, offset, n))
	return nil
}

func opCroo(in *Interpreter, d asm.Decoded) error {
	dst := in.regs[d.RA]
	if err := in.verifyWrite(dst, 32); err != nil {
		return err
	}
	id, err := in.readHash(in.regs[d.RB])
	if err != nil {
		return err
	}
	root, err := in.storage.ContractCodeRoot(id)
	if errors.Is(err, storage.ErrContractNotFound) {
		return vmPanic(PanicContractNotFound)
	}
	if err != nil {
		return halt("contract code root", err)
	}
	in.mem.Write(dst, root[:])
	return nil
}

// opLdc appends code of another contract to the running code. The stack must be empty,
// since the code grows into it.
func opLdc(in *Interpreter, d asm.Decoded) error {
	offset, n := in.regs[d.RB], in.regs[d.RC]
	ssp, sp := in.regs[params.RegSSP], in.regs[params.RegSP]
	if ssp != sp {
		return vmPanic(PanicExpectedUnallocatedStack)
	}
	id, err := in.readHash(in.regs[d.RA])
	if err != nil {
		return err
	}
	padded := padWord(n)
	if padded < n {
		return vmPanic(PanicMemoryOverflow)
	}
	end, overflow := math.SafeAdd(sp, padded)
	if overflow || end > in.regs[params.RegHP] {
		return vmPanic(PanicMemoryOverflow)
	}
	code, err := in.contractCode(id)
	if err != nil {
		return err
	}
	if err := in.chargeCode(n); err != nil {
		return err
	}
	in.mem.Write(sp, codeSlice(code, offset, n))
	in.regs[params.RegSSP] = end
	in.regs[params.RegSP] = end
	if f := in.frame(); f != nil {
		f.CodeSize += padded
		in.mem.WriteWord(in.regs[params.RegFP]+params.FrameCodeSizeOffset, f.CodeSize)
	}
	return nil
}

// Logs

func opLog(in *Interpreter, d asm.Decoded) error {
	return in.appendReceipt(Receipt{
		Kind: ReceiptLog,
		ID:   in.contractID(),
		RA:   in.regs[d.RA],
		RB:   in.regs[d.RB],
		RC:   in.regs[d.RC],
		RD:   in.regs[d.RD],
	})
}

func opLogd(in *Interpreter, d asm.Decoded) error {
	addr, n := in.regs[d.RC], in.regs[d.RD]
	if err := in.verifyRead(addr, n); err != nil {
		return err
	}
	if err := in.receiptRoom(1); err != nil {
		return err
	}
	if err := in.chargeGas(in.params.Gas.Hash.Cost(n)); err != nil {
		return err
	}
	data := in.mem.Slice(addr, n)
	return in.appendReceipt(Receipt{
		Kind:   ReceiptLogData,
		ID:     in.contractID(),
		RA:     in.regs[d.RA],
		RB:     in.regs[d.RB],
		Ptr:    addr,
		Len:    n,
		Digest: in.crypto.Sha256(data),
		Data:   data,
	})
}
