package workload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cachesim/cachesim/sim/trace"
)

func TestGenerate_Sequential_WalksByStride(t *testing.T) {
	spec := &Spec{Pattern: PatternSequential, Accesses: 4, Stride: 8}
	got, err := Generate(spec)
	require.NoError(t, err)

	for i, a := range got {
		assert.Equal(t, uint64(i*8), a.Addr)
		assert.Equal(t, trace.OpRead, a.Op)
	}
}

func TestGenerate_Strided_HonorsStrideAndBase(t *testing.T) {
	spec := &Spec{Pattern: PatternStrided, Accesses: 3, Stride: 64, BaseAddr: 0x1000}
	got, err := Generate(spec)
	require.NoError(t, err)

	want := []uint64{0x1000, 0x1040, 0x1080}
	for i, a := range got {
		assert.Equal(t, want[i], a.Addr)
	}
}

func TestGenerate_Looping_WrapsAtFootprint(t *testing.T) {
	spec := &Spec{Pattern: PatternLooping, Accesses: 6, Footprint: 16, Stride: 8}
	got, err := Generate(spec)
	require.NoError(t, err)

	want := []uint64{0, 8, 0, 8, 0, 8}
	for i, a := range got {
		assert.Equal(t, want[i], a.Addr)
	}
}

func TestGenerate_Random_StaysInFootprint(t *testing.T) {
	spec := &Spec{Pattern: PatternRandom, Accesses: 1000, Footprint: 4096, Seed: 5}
	got, err := Generate(spec)
	require.NoError(t, err)
	require.Len(t, got, 1000)

	for _, a := range got {
		if a.Addr >= 4096 {
			t.Fatalf("address %#x outside footprint", a.Addr)
		}
	}
}

func TestGenerate_Deterministic_SameSeedSameTrace(t *testing.T) {
	spec := &Spec{Pattern: PatternRandom, Accesses: 500, Footprint: 1 << 20, WriteFraction: 0.3, Seed: 42}

	a, err := Generate(spec)
	require.NoError(t, err)
	b, err := Generate(spec)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	spec.Seed = 43
	c, err := Generate(spec)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "different seeds should produce different traces")
}

func TestGenerate_WriteFractionBounds(t *testing.T) {
	allReads, err := Generate(&Spec{Pattern: PatternSequential, Accesses: 200, WriteFraction: 0})
	require.NoError(t, err)
	for _, a := range allReads {
		assert.False(t, a.IsWrite())
	}

	allWrites, err := Generate(&Spec{Pattern: PatternSequential, Accesses: 200, WriteFraction: 1})
	require.NoError(t, err)
	for _, a := range allWrites {
		assert.True(t, a.IsWrite())
	}
}

func TestSpecValidate_Rejects_BadSpecs(t *testing.T) {
	cases := []struct {
		name string
		spec Spec
	}{
		{"unknown pattern", Spec{Pattern: "zigzag", Accesses: 1, Footprint: 1}},
		{"zero accesses", Spec{Pattern: PatternRandom, Accesses: 0, Footprint: 1}},
		{"random without footprint", Spec{Pattern: PatternRandom, Accesses: 1}},
		{"looping without footprint", Spec{Pattern: PatternLooping, Accesses: 1}},
		{"write fraction above one", Spec{Pattern: PatternSequential, Accesses: 1, WriteFraction: 1.5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.spec.Validate())
		})
	}
}

func TestLoadSpec_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workload.yaml")
	data := `pattern: looping
accesses: 1000
footprint: 65536
stride: 16
write_fraction: 0.25
seed: 7
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	spec, err := LoadSpec(path)
	require.NoError(t, err)
	assert.Equal(t, PatternLooping, spec.Pattern)
	assert.Equal(t, 1000, spec.Accesses)
	assert.Equal(t, uint64(65536), spec.Footprint)
	assert.Equal(t, uint64(16), spec.Stride)
	assert.InDelta(t, 0.25, spec.WriteFraction, 1e-12)
	assert.Equal(t, int64(7), spec.Seed)
}
