package interpreter

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/fuel-go/fvm/fvm/asm/op"
	"github.com/fuel-go/fvm/fvm/params"
)

func signSecp256k1(t *testing.T, digest []byte) (sig [64]byte, pub [64]byte) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	full, err := crypto.Sign(digest, key)
	require.NoError(t, err)
	sig, err = CompactSignature(full)
	require.NoError(t, err)
	copy(pub[:], crypto.FromECDSAPub(&key.PublicKey)[1:])
	return sig, pub
}

func TestRecoverSecp256k1(t *testing.T) {
	digest := crypto.Keccak256Hash([]byte("hello"))
	sig, pub := signSecp256k1(t, digest[:])

	got, err := DefaultCrypto{}.RecoverSecp256k1(sig, digest)
	require.NoError(t, err)
	require.Equal(t, pub, got)

	other := crypto.Keccak256Hash([]byte("world"))
	got, err = DefaultCrypto{}.RecoverSecp256k1(sig, other)
	if err == nil {
		require.NotEqual(t, pub, got, "different digest recovers a different key")
	}

	_, err = CompactSignature(make([]byte, 64))
	require.Error(t, err)
}

func TestVerifyEd25519(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	msg := []byte("fuel")
	var p [32]byte
	var sig [64]byte
	copy(p[:], pub)
	copy(sig[:], ed25519.Sign(priv, msg))

	require.NoError(t, DefaultCrypto{}.VerifyEd25519(p, sig, msg))
	require.Error(t, DefaultCrypto{}.VerifyEd25519(p, sig, []byte("fuek")))
}

func TestSignatureInstructions(t *testing.T) {
	t.Run("eck1", func(t *testing.T) {
		digest := crypto.Keccak256Hash([]byte("tx"))
		sig, pub := signSecp256k1(t, digest[:])
		tx := append(append(append([]byte{}, sig[:]...), digest[:]...), pub[:]...)

		in := New(params.Default())
		require.NoError(t, in.Load(Init{Tx: tx, GasLimit: testGas, Code: op.Program(
			op.CFEI(64),
			op.MOVI(r17, params.TxOffset),
			op.MOVI(r18, params.TxOffset+64),
			op.ECK1(params.RegSSP, r17, r18),
			op.MOVI(r19, params.TxOffset+96),
			op.MOVI(r20, 64),
			op.MEQ(r21, params.RegSSP, r19, r20),
			op.RET(r21),
		)}))
		require.Equal(t, &ProgramState{Kind: StateReturn, Value: 1}, run(t, in))
	})

	ed19Tx := func(t *testing.T, msg []byte) []byte {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		tx := append([]byte{}, pub...)
		tx = append(tx, ed25519.Sign(priv, msg)...)
		return append(tx, msg...)
	}
	ed19 := op.ED19(r16, r17, r18, params.RegZero)
	code := op.Program(
		op.MOVI(r16, params.TxOffset),
		op.MOVI(r17, params.TxOffset+32),
		op.MOVI(r18, params.TxOffset+96),
		ed19,
		op.RET(params.RegOne),
	)

	t.Run("ed19", func(t *testing.T) {
		msg := make([]byte, 32)
		msg[0] = 1
		in := New(params.Default())
		require.NoError(t, in.Load(Init{Tx: ed19Tx(t, msg), Code: code, GasLimit: testGas}))
		require.Equal(t, &ProgramState{Kind: StateReturn, Value: 1}, run(t, in))
	})
	t.Run("ed19 invalid", func(t *testing.T) {
		msg := make([]byte, 32)
		tx := ed19Tx(t, msg)
		tx[len(tx)-1] ^= 1
		in := New(params.Default())
		require.NoError(t, in.Load(Init{Tx: tx, Code: code, GasLimit: testGas}))
		requirePanic(t, in, run(t, in), PanicInvalidSignature, ed19)
	})
}
