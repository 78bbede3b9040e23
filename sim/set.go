package sim

// CacheLine is a single storage slot in a set.
// Dirty is meaningful only under write-back; under write-through every line
// stays clean for its whole lifetime.
type CacheLine struct {
	Valid bool
	Tag   uint64
	Dirty bool

	// recency orders lines within a set for LRU selection. A per-set logical
	// clock stamps every touch; the line with the smallest stamp is the
	// eviction candidate. Untouched (invalid) lines keep stamp zero but are
	// always preferred for filling before any eviction happens.
	recency uint64
}

// NoWay marks the absence of a matching way (a set-level miss).
const NoWay = -1

// CacheSet is a fixed group of `associativity` lines with strict LRU
// replacement. Ownership is exclusive: exactly one Cache mutates a set, so no
// locking is needed (see the concurrency notes in doc.go).
type CacheSet struct {
	lines []CacheLine
	clock uint64
}

func newCacheSet(associativity uint64) CacheSet {
	return CacheSet{lines: make([]CacheLine, associativity)}
}

// Probe looks up tag in the set. On a hit it returns the matching way and
// refreshes that line's recency; on a miss it returns (NoWay, false) and the
// set is left untouched.
func (s *CacheSet) Probe(tag uint64) (way int, hit bool) {
	for i := range s.lines {
		if s.lines[i].Valid && s.lines[i].Tag == tag {
			s.touch(i)
			return i, true
		}
	}
	return NoWay, false
}

// Insert installs tag into the set after a miss and returns the way it was
// placed in. An invalid line is used if one exists; otherwise the LRU victim
// (lowest way index on recency ties) is evicted and returned in evicted with
// wasEvicted=true, so the caller can account a conceptual write-back when the
// victim is dirty. The installed line is valid, clean and most recent.
func (s *CacheSet) Insert(tag uint64) (way int, evicted CacheLine, wasEvicted bool) {
	way = s.victim()
	if s.lines[way].Valid {
		evicted = s.lines[way]
		wasEvicted = true
	}
	s.lines[way] = CacheLine{Valid: true, Tag: tag}
	s.touch(way)
	return way, evicted, wasEvicted
}

// MarkDirty flags the line in the given way as modified. Write-back only;
// the write-through path never calls it.
func (s *CacheSet) MarkDirty(way int) {
	s.lines[way].Dirty = true
}

// Line returns a copy of the line in the given way for inspection.
func (s *CacheSet) Line(way int) CacheLine {
	return s.lines[way]
}

// Ways returns the number of lines in the set.
func (s *CacheSet) Ways() int {
	return len(s.lines)
}

// victim picks the fill target: the first invalid line if any, otherwise the
// valid line with the oldest recency stamp. The scan order makes ties resolve
// to the lowest way index deterministically.
func (s *CacheSet) victim() int {
	lru := 0
	for i := range s.lines {
		if !s.lines[i].Valid {
			return i
		}
		if s.lines[i].recency < s.lines[lru].recency {
			lru = i
		}
	}
	return lru
}

func (s *CacheSet) touch(way int) {
	s.clock++
	s.lines[way].recency = s.clock
}
