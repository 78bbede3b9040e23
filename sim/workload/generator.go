// Package workload generates synthetic memory-access traces for cache
// experiments. Generation is deterministic: the same Spec (including its
// seed) always produces the same access sequence.
package workload

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cachesim/cachesim/sim/trace"
)

// Pattern names an address-stream shape.
type Pattern string

const (
	// PatternSequential streams through memory one stride at a time, never
	// revisiting a block: every access touches cold memory.
	PatternSequential Pattern = "sequential"
	// PatternStrided is sequential with a caller-chosen stride.
	PatternStrided Pattern = "strided"
	// PatternRandom draws uniform addresses from the footprint.
	PatternRandom Pattern = "random"
	// PatternLooping cycles through a footprint-sized window until the access
	// budget is spent, the classic LRU-stress workload: all hits when the
	// footprint fits in the cache, all misses once it does not.
	PatternLooping Pattern = "looping"
)

// Spec describes a synthetic workload. Loadable from YAML for sweep specs.
type Spec struct {
	Pattern       Pattern `yaml:"pattern"`
	Accesses      int     `yaml:"accesses"`
	Footprint     uint64  `yaml:"footprint"`      // bytes of address space touched (random and looping only)
	Stride        uint64  `yaml:"stride"`         // bytes between consecutive accesses (default 8)
	WriteFraction float64 `yaml:"write_fraction"` // probability an access is a write, in [0,1]
	Seed          int64   `yaml:"seed"`
	BaseAddr      uint64  `yaml:"base_addr"` // added to every generated address
}

// Validate checks the spec before generation.
func (s *Spec) Validate() error {
	switch s.Pattern {
	case PatternSequential, PatternStrided, PatternRandom, PatternLooping:
	default:
		return fmt.Errorf("unknown pattern %q", s.Pattern)
	}
	if s.Accesses <= 0 {
		return fmt.Errorf("accesses must be positive, got %d", s.Accesses)
	}
	if s.Footprint == 0 && (s.Pattern == PatternRandom || s.Pattern == PatternLooping) {
		return fmt.Errorf("pattern %q requires a positive footprint", s.Pattern)
	}
	if s.WriteFraction < 0 || s.WriteFraction > 1 {
		return fmt.Errorf("write fraction %v outside [0,1]", s.WriteFraction)
	}
	return nil
}

// Generate produces the access sequence for the spec.
func Generate(spec *Spec) ([]trace.Access, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload spec: %w", err)
	}
	stride := spec.Stride
	if stride == 0 {
		stride = 8
	}
	rng := rand.New(rand.NewSource(spec.Seed))

	accesses := make([]trace.Access, 0, spec.Accesses)
	var cursor uint64
	for i := 0; i < spec.Accesses; i++ {
		var addr uint64
		switch spec.Pattern {
		case PatternRandom:
			addr = uint64(rng.Int63n(int64(spec.Footprint)))
		case PatternSequential, PatternStrided:
			addr = cursor
			cursor += stride
		case PatternLooping:
			addr = cursor % spec.Footprint
			cursor += stride
		}
		op := trace.OpRead
		if rng.Float64() < spec.WriteFraction {
			op = trace.OpWrite
		}
		accesses = append(accesses, trace.Access{Addr: spec.BaseAddr + addr, Op: op})
	}
	return accesses, nil
}

// LoadSpec reads a workload Spec from a YAML file.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing workload spec %s: %w", path, err)
	}
	return &spec, nil
}
