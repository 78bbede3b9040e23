package sim

import (
	"github.com/sirupsen/logrus"
)

// Cache is the single-level set-associative cache model. It owns the decoder,
// the sets, the optional way predictor and the Metrics, and exposes one
// ingestion point: Access. A Cache is created once per simulation run with a
// fixed geometry and is never resized.
//
// Not safe for concurrent use; independent runs should use independent Cache
// instances (they share nothing and may run in parallel).
type Cache struct {
	cfg  Config
	geom Geometry
	dec  AddressDecoder
	sets []CacheSet
	pred *WayPredictor // nil when way prediction is disabled

	// Metrics accumulates the run's counters. Read-only for callers;
	// mutated only by Access.
	Metrics *Metrics
}

// NewCache validates cfg and builds a cold cache (all lines invalid).
func NewCache(cfg Config) (*Cache, error) {
	geom, err := cfg.Geometry()
	if err != nil {
		return nil, err
	}
	c := &Cache{
		cfg:     cfg,
		geom:    geom,
		dec:     NewAddressDecoder(geom),
		sets:    make([]CacheSet, geom.NumSets),
		Metrics: &Metrics{},
	}
	for i := range c.sets {
		c.sets[i] = newCacheSet(cfg.Associativity)
	}
	if cfg.WayPrediction {
		c.pred = NewWayPredictor(geom.NumSets)
	}
	logrus.Debugf("cache: %d sets x %d ways, %dB blocks, offset/index/tag = %d/%d/%d bits, %s",
		geom.NumSets, cfg.Associativity, cfg.BlockSize,
		geom.OffsetBits, geom.IndexBits, geom.TagBits, cfg.WritePolicy)
	return c, nil
}

// Config returns the configuration the cache was built with.
func (c *Cache) Config() Config {
	return c.cfg
}

// Geometry returns the derived geometry.
func (c *Cache) Geometry() Geometry {
	return c.geom
}

// Access applies one memory access to the cache and records its outcome.
// Every access resolves to exactly one of HIT or MISS; there is no error
// path. The sequence of Access calls fully determines the final state, so
// traces must be replayed in order.
func (c *Cache) Access(addr uint64, isWrite bool) {
	tag, set, _ := c.dec.Decode(addr)
	s := &c.sets[set]

	predicted := NoWay
	if c.pred != nil {
		predicted = c.pred.Predict(set)
	}

	way, hit := s.Probe(tag)
	if hit {
		c.Metrics.RecordHit(isWrite)
		if isWrite && c.cfg.WritePolicy == WriteBack {
			// Write-through forwards the write to backing storage and the
			// line stays clean, so only write-back mutates line state here.
			s.MarkDirty(way)
		}
		if c.pred != nil {
			c.Metrics.RecordPredictionOutcome(c.pred.Confirm(set, way))
		}
		logrus.Tracef("access %#x: HIT set=%d way=%d predicted=%d", addr, set, way, predicted)
		return
	}

	// Miss path: fetch the block and install it. Write misses allocate under
	// both policies; write-back additionally dirties the fresh line.
	c.Metrics.RecordMiss(isWrite)
	filled, evicted, wasEvicted := s.Insert(tag)
	if wasEvicted {
		c.Metrics.RecordEviction(evicted.Dirty)
	}
	if isWrite && c.cfg.WritePolicy == WriteBack {
		s.MarkDirty(filled)
	}
	if c.pred != nil {
		c.Metrics.RecordPredictionOutcome(c.pred.Confirm(set, NoWay))
		c.pred.Train(set, filled)
	}
	logrus.Tracef("access %#x: MISS set=%d filled=%d evicted=%v predicted=%d",
		addr, set, filled, wasEvicted, predicted)
}

// LineAt returns a copy of the line at (set, way) for inspection in reports
// and tests.
func (c *Cache) LineAt(set uint64, way int) CacheLine {
	return c.sets[set].Line(way)
}
