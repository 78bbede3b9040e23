package trace

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAll_ParsesOpsAndHexAddresses(t *testing.T) {
	in := strings.Join([]string{
		"r 0x7f2a1c40",
		"w 7f2a1c48",
		"",
		"R DEADBEEF",
		"  w 0X10  ",
	}, "\n")

	got, err := ReadAll(strings.NewReader(in))
	require.NoError(t, err)

	want := []Access{
		{Addr: 0x7f2a1c40, Op: OpRead},
		{Addr: 0x7f2a1c48, Op: OpWrite},
		{Addr: 0xDEADBEEF, Op: OpRead},
		{Addr: 0x10, Op: OpWrite},
	}
	assert.Equal(t, want, got)
}

func TestReadAll_MalformedLine_ReportsLineNumber(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"bad op", "r 10\nx 20\n"},
		{"bad address", "r 10\nw zz\n"},
		{"wrong field count", "r 10\nr 20 30\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadAll(strings.NewReader(tc.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestReadAll_EmptyInput(t *testing.T) {
	got, err := ReadAll(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriteFile_ReadFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.trace")
	want := []Access{
		{Addr: 0, Op: OpRead},
		{Addr: 8, Op: OpWrite},
		{Addr: 128 * 1024, Op: OpRead},
	}

	require.NoError(t, WriteFile(path, want))
	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseOp(t *testing.T) {
	for in, want := range map[string]Op{"r": OpRead, "R": OpRead, "w": OpWrite, "W": OpWrite} {
		got, err := ParseOp(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseOp("rw")
	assert.Error(t, err)
}
