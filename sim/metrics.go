// Tracks run-wide cache performance counters for final reporting.

package sim

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoData is returned by the rate accessors before any access (or, for
// PredictionHitRate, any prediction) has been recorded. Recoverable: feed
// accesses and ask again.
var ErrNoData = errors.New("no accesses recorded")

// Metrics aggregates hit/miss statistics for one cache instance.
// All counters are monotonically non-decreasing, and Accesses == Hits+Misses
// holds after every Access call. Mutated only by Cache.
type Metrics struct {
	Accesses uint64 // total accesses
	Hits     uint64 // total hits
	Misses   uint64 // total misses

	// Per-operation split, matching the aggregate counters.
	ReadAccesses  uint64
	ReadHits      uint64
	ReadMisses    uint64
	WriteAccesses uint64
	WriteHits     uint64
	WriteMisses   uint64

	// Way-prediction scoring; both stay zero when prediction is disabled.
	PredictionHits   uint64
	PredictionMisses uint64

	// Replacement accounting. DirtyEvictions counts evictions that require a
	// conceptual write-back to backing storage (write-back policy only).
	Evictions      uint64
	DirtyEvictions uint64
}

// RecordHit counts a hit, split by operation kind.
func (m *Metrics) RecordHit(isWrite bool) {
	m.Accesses++
	m.Hits++
	if isWrite {
		m.WriteAccesses++
		m.WriteHits++
	} else {
		m.ReadAccesses++
		m.ReadHits++
	}
}

// RecordMiss counts a miss, split by operation kind.
func (m *Metrics) RecordMiss(isWrite bool) {
	m.Accesses++
	m.Misses++
	if isWrite {
		m.WriteAccesses++
		m.WriteMisses++
	} else {
		m.ReadAccesses++
		m.ReadMisses++
	}
}

// RecordPredictionOutcome counts one way-prediction result.
func (m *Metrics) RecordPredictionOutcome(correct bool) {
	if correct {
		m.PredictionHits++
	} else {
		m.PredictionMisses++
	}
}

// RecordEviction counts a replacement victim; dirty victims are the pending
// write-backs.
func (m *Metrics) RecordEviction(dirty bool) {
	m.Evictions++
	if dirty {
		m.DirtyEvictions++
	}
}

// HitRate returns Hits/Accesses, or ErrNoData before the first access.
func (m *Metrics) HitRate() (float64, error) {
	return rate(m.Hits, m.Accesses)
}

// MissRate returns Misses/Accesses, or ErrNoData before the first access.
func (m *Metrics) MissRate() (float64, error) {
	return rate(m.Misses, m.Accesses)
}

// ReadMissRate returns ReadMisses/ReadAccesses, or ErrNoData with no reads.
func (m *Metrics) ReadMissRate() (float64, error) {
	return rate(m.ReadMisses, m.ReadAccesses)
}

// WriteMissRate returns WriteMisses/WriteAccesses, or ErrNoData with no writes.
func (m *Metrics) WriteMissRate() (float64, error) {
	return rate(m.WriteMisses, m.WriteAccesses)
}

// PredictionHitRate returns the fraction of correct way predictions, or
// ErrNoData when prediction is disabled or no access has been scored.
func (m *Metrics) PredictionHitRate() (float64, error) {
	return rate(m.PredictionHits, m.PredictionHits+m.PredictionMisses)
}

func rate(part, whole uint64) (float64, error) {
	if whole == 0 {
		return 0, ErrNoData
	}
	return float64(part) / float64(whole), nil
}

// Print displays the aggregated counters and rates at the end of a run.
func (m *Metrics) Print(g Geometry) {
	fmt.Println("=== Cache Simulation Metrics ===")
	fmt.Printf("Geometry             : %d sets, offset/index/tag = %d/%d/%d bits\n",
		g.NumSets, g.OffsetBits, g.IndexBits, g.TagBits)
	fmt.Printf("Accesses             : %d (%d reads, %d writes)\n",
		m.Accesses, m.ReadAccesses, m.WriteAccesses)
	fmt.Printf("Hits                 : %d\n", m.Hits)
	fmt.Printf("Misses               : %d\n", m.Misses)
	if hitRate, err := m.HitRate(); err == nil {
		missRate, _ := m.MissRate()
		fmt.Printf("Hit Rate             : %.4f\n", hitRate)
		fmt.Printf("Miss Rate            : %.4f\n", missRate)
	}
	if r, err := m.ReadMissRate(); err == nil {
		fmt.Printf("Read Miss Rate       : %.4f\n", r)
	}
	if r, err := m.WriteMissRate(); err == nil {
		fmt.Printf("Write Miss Rate      : %.4f\n", r)
	}
	fmt.Printf("Evictions            : %d (%d dirty)\n", m.Evictions, m.DirtyEvictions)
	if r, err := m.PredictionHitRate(); err == nil {
		fmt.Printf("Prediction Hits      : %d\n", m.PredictionHits)
		fmt.Printf("Prediction Misses    : %d\n", m.PredictionMisses)
		fmt.Printf("Prediction Hit Rate  : %.4f\n", r)
	}
}

// Summary is the machine-readable form of a finished run, for YAML export and
// downstream comparison tooling.
type Summary struct {
	TotalSize     uint64 `yaml:"total_size"`
	BlockSize     uint64 `yaml:"block_size"`
	Associativity uint64 `yaml:"associativity"`
	WritePolicy   string `yaml:"write_policy"`
	WayPrediction bool   `yaml:"way_prediction"`

	NumSets    uint64 `yaml:"num_sets"`
	OffsetBits uint   `yaml:"offset_bits"`
	IndexBits  uint   `yaml:"index_bits"`
	TagBits    uint   `yaml:"tag_bits"`

	Accesses         uint64  `yaml:"accesses"`
	Hits             uint64  `yaml:"hits"`
	Misses           uint64  `yaml:"misses"`
	ReadMisses       uint64  `yaml:"read_misses"`
	WriteMisses      uint64  `yaml:"write_misses"`
	Evictions        uint64  `yaml:"evictions"`
	DirtyEvictions   uint64  `yaml:"dirty_evictions"`
	PredictionHits   uint64  `yaml:"prediction_hits"`
	PredictionMisses uint64  `yaml:"prediction_misses"`
	HitRate          float64 `yaml:"hit_rate"`
	MissRate         float64 `yaml:"miss_rate"`
}

// Summarize flattens the cache configuration, geometry and counters into a
// Summary. Rates are zero when no access was recorded.
func Summarize(c *Cache) Summary {
	m := c.Metrics
	g := c.Geometry()
	cfg := c.Config()
	hitRate, _ := m.HitRate()
	missRate, _ := m.MissRate()
	return Summary{
		TotalSize:     cfg.TotalSize,
		BlockSize:     cfg.BlockSize,
		Associativity: cfg.Associativity,
		WritePolicy:   string(cfg.WritePolicy),
		WayPrediction: cfg.WayPrediction,

		NumSets:    g.NumSets,
		OffsetBits: g.OffsetBits,
		IndexBits:  g.IndexBits,
		TagBits:    g.TagBits,

		Accesses:         m.Accesses,
		Hits:             m.Hits,
		Misses:           m.Misses,
		ReadMisses:       m.ReadMisses,
		WriteMisses:      m.WriteMisses,
		Evictions:        m.Evictions,
		DirtyEvictions:   m.DirtyEvictions,
		PredictionHits:   m.PredictionHits,
		PredictionMisses: m.PredictionMisses,
		HitRate:          hitRate,
		MissRate:         missRate,
	}
}

// WriteSummaryYAML marshals the summary and writes it to path.
func WriteSummaryYAML(s Summary, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling run summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing run summary: %w", err)
	}
	return nil
}
