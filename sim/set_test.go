package sim

import "testing"

func TestCacheSet_Probe_ColdSet_Misses(t *testing.T) {
	// GIVEN a cold 4-way set
	s := newCacheSet(4)

	// WHEN probing any tag
	way, hit := s.Probe(0x42)

	// THEN it misses
	if hit || way != NoWay {
		t.Errorf("Probe on cold set: got (%d, %v), want (NoWay, false)", way, hit)
	}
}

func TestCacheSet_Insert_UsesInvalidLinesFirst(t *testing.T) {
	// GIVEN a 4-way set
	s := newCacheSet(4)

	// WHEN inserting four distinct tags
	for i, tag := range []uint64{10, 11, 12, 13} {
		way, _, evicted := s.Insert(tag)
		// THEN each fills the next invalid way without evicting
		if evicted {
			t.Errorf("Insert(%d) evicted from a non-full set", tag)
		}
		if way != i {
			t.Errorf("Insert(%d): got way %d, want %d", tag, way, i)
		}
	}

	// AND all four tags now hit
	for _, tag := range []uint64{10, 11, 12, 13} {
		if _, hit := s.Probe(tag); !hit {
			t.Errorf("Probe(%d) after fill: miss, want hit", tag)
		}
	}
}

func TestCacheSet_Insert_EvictsLeastRecentlyUsed(t *testing.T) {
	// GIVEN a full 2-way set where tag 20 was touched after tag 10
	s := newCacheSet(2)
	s.Insert(10)
	s.Insert(20)
	s.Probe(10) // 20 is now least recently used

	// WHEN a new tag is inserted
	way, evicted, wasEvicted := s.Insert(30)

	// THEN the LRU line (tag 20, way 1) is the victim
	if !wasEvicted {
		t.Fatal("Insert into full set did not evict")
	}
	if evicted.Tag != 20 {
		t.Errorf("evicted tag: got %d, want 20", evicted.Tag)
	}
	if way != 1 {
		t.Errorf("filled way: got %d, want 1", way)
	}
	if _, hit := s.Probe(10); !hit {
		t.Error("tag 10 should have survived the eviction")
	}
	if _, hit := s.Probe(20); hit {
		t.Error("tag 20 should have been evicted")
	}
}

func TestCacheSet_Insert_ReportsDirtyVictim(t *testing.T) {
	// GIVEN a full direct-mapped set whose line is dirty
	s := newCacheSet(1)
	way, _, _ := s.Insert(1)
	s.MarkDirty(way)

	// WHEN the line is evicted
	_, evicted, wasEvicted := s.Insert(2)

	// THEN the victim is reported dirty (pending write-back)
	if !wasEvicted || !evicted.Dirty {
		t.Errorf("eviction of dirty line: got (evicted=%v, dirty=%v), want (true, true)", wasEvicted, evicted.Dirty)
	}

	// AND the freshly installed line is clean and valid
	line := s.Line(0)
	if !line.Valid || line.Dirty || line.Tag != 2 {
		t.Errorf("installed line: got %+v, want valid clean tag 2", line)
	}
}

func TestCacheSet_Probe_RefreshesRecency(t *testing.T) {
	// GIVEN a full 3-way set
	s := newCacheSet(3)
	s.Insert(1)
	s.Insert(2)
	s.Insert(3)

	// WHEN the oldest line is re-touched and a new tag is inserted
	s.Probe(1)
	_, evicted, _ := s.Insert(4)

	// THEN the eviction falls on tag 2, now the least recent
	if evicted.Tag != 2 {
		t.Errorf("evicted tag: got %d, want 2", evicted.Tag)
	}
}
