package interpreter

import (
	"crypto/ed25519"
	"crypto/sha256"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

var errInvalidEd25519 = errors.New("invalid ed25519 signature")

// DefaultCrypto implements Crypto with go-ethereum's secp256k1 and the standard hashes.
type DefaultCrypto struct{}

func (DefaultCrypto) Keccak256(data []byte) (out common.Hash) {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	h.Sum(out[:0])
	return
}

func (DefaultCrypto) Sha256(data []byte) common.Hash {
	return sha256.Sum256(data)
}

// RecoverSecp256k1 expects r || s with the recovery id folded into the top bit of s.
func (DefaultCrypto) RecoverSecp256k1(sig [64]byte, digest common.Hash) (out [64]byte, err error) {
	var full [65]byte
	copy(full[:], sig[:])
	full[64] = full[32] >> 7
	full[32] &= 0x7f
	pub, err := crypto.Ecrecover(digest[:], full[:])
	if err != nil {
		return out, err
	}
	copy(out[:], pub[1:])
	return out, nil
}

func (DefaultCrypto) VerifyEd25519(pub [32]byte, sig [64]byte, msg []byte) error {
	if !ed25519.Verify(pub[:], msg, sig[:]) {
		return errInvalidEd25519
	}
	return nil
}

// CompactSignature folds the recovery id of a 65 byte [r || s || v] signature into s.
func CompactSignature(sig []byte) (out [64]byte, err error) {
	if len(sig) != 65 || sig[64] > 1 {
		return out, errors.New("expected a 65 byte signature with recovery id 0 or 1")
	}
	copy(out[:], sig[:64])
	out[32] |= sig[64] << 7
	return out, nil
}
