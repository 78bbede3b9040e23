package sim

// AddressDecoder splits an address into its tag, set index and block offset
// fields using masks precomputed from the cache geometry. It is a pure value;
// Decode is total over the full 64-bit address range.
type AddressDecoder struct {
	offsetBits uint
	indexBits  uint
	offsetMask uint64
	indexMask  uint64
}

// NewAddressDecoder builds a decoder for the given geometry.
func NewAddressDecoder(g Geometry) AddressDecoder {
	return AddressDecoder{
		offsetBits: g.OffsetBits,
		indexBits:  g.IndexBits,
		offsetMask: (uint64(1) << g.OffsetBits) - 1,
		indexMask:  g.NumSets - 1,
	}
}

// Decode returns (tag, set index, block offset) for addr.
//
//	offset = addr mod blockSize
//	set    = (addr / blockSize) mod numSets
//	tag    = addr / (blockSize * numSets)
func (d AddressDecoder) Decode(addr uint64) (tag, set, offset uint64) {
	offset = addr & d.offsetMask
	set = (addr >> d.offsetBits) & d.indexMask
	tag = addr >> (d.offsetBits + d.indexBits)
	return tag, set, offset
}
