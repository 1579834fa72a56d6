package interpreter

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryReadWrite(t *testing.T) {
	t.Run("large random", func(t *testing.T) {
		m := NewMemory()
		data := make([]byte, 20_000)
		_, err := rand.Read(data[:])
		require.NoError(t, err)
		m.Write(0, data)
		for _, i := range []uint64{0, 1, 2, 3, 4, 5, 6, 7, 1000, 3333, 4095, 4096, 4097, 20_000 - 32} {
			for s := uint64(1); s <= 32; s++ {
				var res [32]byte
				m.Read(i, res[:s])
				var expected [32]byte
				copy(expected[:s], data[i:i+s])
				require.Equalf(t, expected, res, "read %d at %d", s, i)
			}
		}
	})

	t.Run("repeat range", func(t *testing.T) {
		m := NewMemory()
		data := []byte(strings.Repeat("under the big bright yellow sun ", 40))
		m.Write(0x1337, data)
		res := m.Slice(0x1337-10, uint64(len(data)+20))
		require.Equal(t, make([]byte, 10), res[:10], "empty start")
		require.Equal(t, data, res[10:len(res)-10], "result")
		require.Equal(t, make([]byte, 10), res[len(res)-10:], "empty end")
	})

	t.Run("words across pages", func(t *testing.T) {
		m := NewMemory()
		m.WriteWord(PageSize-3, 0x1122334455667788)
		require.Equal(t, uint64(0x1122334455667788), m.ReadWord(PageSize-3))
		require.Equal(t, 2, m.PageCount())
	})

	t.Run("clear", func(t *testing.T) {
		m := NewMemory()
		m.Write(100, []byte{1, 2, 3, 4, 5})
		m.Clear(101, 3)
		require.Equal(t, []byte{1, 0, 0, 0, 5}, m.Slice(100, 5))
		m.Clear(PageSize*10, 64)
		require.Equal(t, 1, m.PageCount(), "clearing unwritten memory allocates nothing")
	})

	t.Run("equal", func(t *testing.T) {
		m := NewMemory()
		data := bytes.Repeat([]byte{7}, 600)
		m.Write(0, data)
		m.Write(PageSize+5, data)
		require.True(t, m.Equal(0, PageSize+5, 600))
		m.Write(PageSize+500, []byte{8})
		require.False(t, m.Equal(0, PageSize+5, 600))
		require.True(t, m.Equal(0, PageSize+5, 495))
	})
}

func TestMemoryHash(t *testing.T) {
	a := NewMemory()
	b := NewMemory()
	require.Equal(t, a.Hash(), b.Hash())

	b.Write(0xF000, []byte{0})
	require.Equal(t, a.Hash(), b.Hash(), "zero pages do not count")

	b.Write(0xF004, []byte{1})
	require.NotEqual(t, a.Hash(), b.Hash())

	a.Write(0xF004, []byte{1})
	require.Equal(t, a.Hash(), b.Hash())
}

func TestMemoryJSON(t *testing.T) {
	m := NewMemory()
	m.Write(8, []byte{123})
	dat, err := json.Marshal(m)
	require.NoError(t, err)
	var res Memory
	require.NoError(t, json.Unmarshal(dat, &res))
	require.Equal(t, []byte{123}, res.Slice(8, 1))
	require.Equal(t, m.Hash(), res.Hash())
}
