package engine

// TableEntry caches the result of searching a position to a given remaining
// depth. No distinction is kept between exact scores and alpha-beta bounds,
// so a reused entry may carry a bound from a pruned branch; hits still
// require at least the requested depth.
type TableEntry struct {
	Depth int
	Score Score
}

// TranspositionTable maps position hashes to cached search results. It grows
// without bound within a single search and is cleared between searches. Not
// safe for concurrent use; each searcher owns its own table.
type TranspositionTable struct {
	entries map[uint64]TableEntry
	hits    uint64
	probes  uint64
}

// NewTranspositionTable returns an empty table.
func NewTranspositionTable() *TranspositionTable {
	return &TranspositionTable{entries: make(map[uint64]TableEntry)}
}

// Probe looks up the position hash. The ok result reports whether an entry
// exists at all; the caller checks the stored depth.
func (tt *TranspositionTable) Probe(hash uint64) (TableEntry, bool) {
	tt.probes++
	entry, ok := tt.entries[hash]
	if ok {
		tt.hits++
	}
	return entry, ok
}

// Store records a search result, overwriting any previous entry for the
// hash regardless of its depth.
func (tt *TranspositionTable) Store(hash uint64, depth int, score Score) {
	tt.entries[hash] = TableEntry{Depth: depth, Score: score}
}

// Clear discards all entries and resets the hit counters.
func (tt *TranspositionTable) Clear() {
	tt.entries = make(map[uint64]TableEntry)
	tt.hits = 0
	tt.probes = 0
}

// Len reports the number of cached positions.
func (tt *TranspositionTable) Len() int {
	return len(tt.entries)
}

// HitRate reports the fraction of probes that found an entry since the last
// Clear, for diagnostics.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes)
}
