package sim

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// AddressWidth is the modeled address width in bits. All traces use 64-bit
// addresses regardless of the configured cache size.
const AddressWidth = 64

// ErrConfig marks cache configuration errors detected at construction time.
// A Cache is never partially constructed: NewCache either returns a usable
// instance or an error wrapping ErrConfig.
var ErrConfig = errors.New("invalid cache configuration")

// WritePolicy selects how writes interact with backing storage.
type WritePolicy string

const (
	// WriteThrough propagates every write to backing storage immediately;
	// cache lines stay clean.
	WriteThrough WritePolicy = "write-through"
	// WriteBack defers propagation, marking written lines dirty until eviction.
	WriteBack WritePolicy = "write-back"
)

// ParseWritePolicy maps a policy string to a WritePolicy. The short forms
// "through" and "back" are accepted for compatibility with older trace tooling.
func ParseWritePolicy(s string) (WritePolicy, error) {
	switch strings.ToLower(s) {
	case "write-through", "through":
		return WriteThrough, nil
	case "write-back", "back":
		return WriteBack, nil
	default:
		return "", fmt.Errorf("%w: unknown write policy %q", ErrConfig, s)
	}
}

// Config holds the cache parameters supplied once at construction.
// Immutable for the lifetime of a Cache instance.
type Config struct {
	TotalSize     uint64      // overall capacity in bytes
	BlockSize     uint64      // bytes per line
	Associativity uint64      // lines per set; 1 = direct-mapped
	WritePolicy   WritePolicy // write-through or write-back
	WayPrediction bool        // enable the MRU way predictor
}

// Geometry is the bit-level decomposition derived from a valid Config.
type Geometry struct {
	NumSets    uint64 // TotalSize / (BlockSize * Associativity)
	OffsetBits uint   // log2(BlockSize)
	IndexBits  uint   // log2(NumSets)
	TagBits    uint   // AddressWidth - OffsetBits - IndexBits
}

// Validate checks the geometry constraints: TotalSize, BlockSize and
// Associativity must each be positive powers of two, and TotalSize must be an
// exact multiple of BlockSize*Associativity.
func (c Config) Validate() error {
	if !isPowerOfTwo(c.TotalSize) {
		return fmt.Errorf("%w: total size %d is not a positive power of two", ErrConfig, c.TotalSize)
	}
	if !isPowerOfTwo(c.BlockSize) {
		return fmt.Errorf("%w: block size %d is not a positive power of two", ErrConfig, c.BlockSize)
	}
	if !isPowerOfTwo(c.Associativity) {
		return fmt.Errorf("%w: associativity %d is not a positive power of two", ErrConfig, c.Associativity)
	}
	lineBytes := c.BlockSize * c.Associativity
	if c.TotalSize%lineBytes != 0 || c.TotalSize < lineBytes {
		return fmt.Errorf("%w: total size %d is not a multiple of block size %d x associativity %d",
			ErrConfig, c.TotalSize, c.BlockSize, c.Associativity)
	}
	switch c.WritePolicy {
	case WriteThrough, WriteBack:
	default:
		return fmt.Errorf("%w: unknown write policy %q", ErrConfig, c.WritePolicy)
	}
	return nil
}

// Geometry derives the set count and field widths from the Config.
// Validate must pass first; Geometry reports the same errors.
func (c Config) Geometry() (Geometry, error) {
	if err := c.Validate(); err != nil {
		return Geometry{}, err
	}
	g := Geometry{
		NumSets:    c.TotalSize / (c.BlockSize * c.Associativity),
		OffsetBits: log2(c.BlockSize),
	}
	g.IndexBits = log2(g.NumSets)
	if g.OffsetBits+g.IndexBits > AddressWidth {
		return Geometry{}, fmt.Errorf("%w: offset (%d) + index (%d) bits exceed the %d-bit address width",
			ErrConfig, g.OffsetBits, g.IndexBits, AddressWidth)
	}
	g.TagBits = AddressWidth - g.OffsetBits - g.IndexBits
	return g, nil
}

func isPowerOfTwo(v uint64) bool {
	return v != 0 && v&(v-1) == 0
}

// log2 of a power of two.
func log2(v uint64) uint {
	return uint(bits.TrailingZeros64(v))
}

// sizeUnits maps the unit suffixes accepted by ParseSize.
var sizeUnits = map[string]uint64{
	"":   1,
	"B":  1,
	"KB": 1024,
	"kB": 1024,
	"MB": 1024 * 1024,
}

// ParseSize parses a byte size with an optional unit suffix, e.g. "128KB",
// "8B" or "1MB". Recognized units are B, KB (and kB) and MB.
func ParseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	digits, unit := s[:i], strings.TrimSpace(s[i:])
	if digits == "" {
		return 0, fmt.Errorf("%w: size %q has no numeric part", ErrConfig, s)
	}
	mult, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("%w: size %q has unknown unit %q", ErrConfig, s, unit)
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: size %q: %v", ErrConfig, s, err)
	}
	return n * mult, nil
}
