package asm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewShape(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		s, err := NewShape(ArgReg, ArgReg, ArgImm12)
		require.NoError(t, err)
		require.Equal(t, 3, s.Len())
		require.Equal(t, 2, s.Regs())
		k, ok := s.Imm()
		require.True(t, ok)
		require.Equal(t, ArgImm12, k)
		require.Equal(t, uint32(0), s.ReservedMask())
	})
	t.Run("reserved tail", func(t *testing.T) {
		s, err := NewShape(ArgReg)
		require.NoError(t, err)
		require.Equal(t, uint32(0x03ffff), s.ReservedMask())
	})
	t.Run("too many slots", func(t *testing.T) {
		_, err := NewShape(ArgReg, ArgReg, ArgReg, ArgReg, ArgReg)
		require.ErrorIs(t, err, ErrTooManySlots)
	})
	t.Run("too many bits", func(t *testing.T) {
		_, err := NewShape(ArgReg, ArgReg, ArgImm18)
		require.ErrorIs(t, err, ErrTooManyBits)
		_, err = NewShape(ArgReg, ArgImm24)
		require.ErrorIs(t, err, ErrTooManyBits)
	})
	t.Run("immediate not last", func(t *testing.T) {
		_, err := NewShape(ArgImm06, ArgReg)
		require.ErrorIs(t, err, ErrImmediateNotLast)
		_, err = NewShape(ArgReg, ArgImm06, ArgImm06)
		require.ErrorIs(t, err, ErrImmediateNotLast)
	})
	t.Run("unknown kind", func(t *testing.T) {
		_, err := NewShape(ArgKind(0))
		require.ErrorIs(t, err, ErrUnknownArgKind)
	})
}

func TestRegistryShapes(t *testing.T) {
	for _, info := range Ops() {
		s := info.Shape
		var bits uint
		for i := 0; i < s.Len(); i++ {
			bits += s.Kind(i).Bits()
		}
		require.LessOrEqual(t, bits, uint(ArgBits), info.Mnemonic)
		require.Equal(t, uint32(1<<ArgBits-1), s.UsedMask()|s.ReservedMask(), info.Mnemonic)
		got, ok := LookupMnemonic(info.Mnemonic)
		require.True(t, ok)
		require.Equal(t, info, got)
	}
}

func TestArgKindBytes(t *testing.T) {
	require.Equal(t, 1, ArgReg.Bytes())
	require.Equal(t, 1, ArgImm06.Bytes())
	require.Equal(t, 2, ArgImm12.Bytes())
	require.Equal(t, 4, ArgImm18.Bytes())
	require.Equal(t, 4, ArgImm24.Bytes())
}

func TestInstructionAccessors(t *testing.T) {
	ins := MustNew(ADDI, 16, 1, 0xabc)
	require.Equal(t, uint8(16), ins.Reg(0))
	require.Equal(t, uint8(1), ins.Reg(1))
	require.Equal(t, uint32(0xabc), ins.Imm())
	require.Panics(t, func() { ins.Reg(2) })
	require.Panics(t, func() { MustNew(ADD, 16, 17, 18).Imm() })
	require.Equal(t, "ADDI $r16 $one 2748", ins.String())

	_, err := New(ADDI, 16, 1)
	require.ErrorIs(t, err, ErrArgCount)
	_, err = New(ADDI, 64, 1, 0)
	require.ErrorIs(t, err, ErrRegisterOutOfRange)
	_, err = New(ADDI, 16, 1, 1<<12)
	require.ErrorIs(t, err, ErrImmediateOutOfRange)
	_, err = New(Opcode(0))
	require.ErrorIs(t, err, ErrInvalidOpcode)
}
