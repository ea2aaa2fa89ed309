package main

type TTFlag uint8

const (
	// TTExact marks a true minimax value.
	TTExact TTFlag = iota
	// TTLower marks a lower bound recorded after a max-node cutoff.
	TTLower
	// TTUpper marks an upper bound recorded after a min-node cutoff.
	TTUpper
)

func (f TTFlag) String() string {
	switch f {
	case TTExact:
		return "exact"
	case TTLower:
		return "lower"
	case TTUpper:
		return "upper"
	default:
		return "invalid"
	}
}

type TTEntry struct {
	Value float64
	Flag  TTFlag
}

// TranspositionTable caches node values for one search invocation,
// keyed by board hash. Within a single call every position is always
// reached at the same remaining depth (the turn counter fixes it), so
// entries carry no depth field. A hash collision is served as a true
// hit; the table never verifies the full board state against the key.
//
// The table lives and dies with one top-level search and is touched by
// a single goroutine, so it needs no locking. A nil table disables
// caching; probes miss and stores are dropped.
type TranspositionTable struct {
	entries map[uint64]TTEntry
}

func NewTranspositionTable() *TranspositionTable {
	return &TranspositionTable{entries: make(map[uint64]TTEntry)}
}

func (tt *TranspositionTable) Probe(key uint64) (TTEntry, bool) {
	if tt == nil {
		return TTEntry{}, false
	}
	entry, ok := tt.entries[key]
	return entry, ok
}

func (tt *TranspositionTable) Store(key uint64, value float64, flag TTFlag) {
	if tt == nil {
		return
	}
	tt.entries[key] = TTEntry{Value: value, Flag: flag}
}

func (tt *TranspositionTable) Count() int {
	if tt == nil {
		return 0
	}
	return len(tt.entries)
}
