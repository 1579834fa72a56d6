package asm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseProgram(t *testing.T) {
	src := `
# counts down from 3
movi r16 3          ; counter
SUBI $r16, $r16, 1
jnzb $r16 $zero 0   // loop
RET $one
`
	prog, err := ParseProgram(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, []Instruction{
		MustNew(MOVI, 16, 3),
		MustNew(SUBI, 16, 16, 1),
		MustNew(JNZB, 16, 0, 0),
		MustNew(RET, 1),
	}, prog)

	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, prog))
	require.Contains(t, buf.String(), "00000c: 24040000  RET $one")
}

func TestParseLineErrors(t *testing.T) {
	for _, line := range []string{
		"FOO r1",
		"ADD r16 r17",
		"ADD r16 r17 r64",
		"ADDI r16 r17 0x1000",
		"MOVI r16 -1",
		"JI bogus",
	} {
		_, _, err := ParseLine(line)
		require.Error(t, err, line)
	}
	_, ok, err := ParseLine("   # nothing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestParseProgramLineNumber(t *testing.T) {
	_, err := ParseProgram(strings.NewReader("NOOP\nNOOP r1\n"))
	require.ErrorContains(t, err, "line 2")
}
