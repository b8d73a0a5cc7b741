package negamax

import (
	"unsafe"

	"github.com/rs/zerolog/log"

	"github.com/BassBess/criticaldb/bitboard"
)

// tableEntry is the packed (key, score) pair described in the data
// model: a zero score field marks an empty slot, so stored scores are
// biased by -MinScore+1 before being written.
type tableEntry struct {
	key   uint64
	score uint8
}

// Table is a fixed-size, direct-mapped, always-replace transposition
// table. It is never cleared between sibling classifier calls within a
// single run: positions disambiguate themselves via their key, so stale
// entries from other subtrees are harmless, only ever a cache miss away
// from being overwritten.
type Table struct {
	entries []tableEntry
	mask    uint64
}

// NewTable allocates a table with 2^log2Size entries.
func NewTable(log2Size int) *Table {
	n := 1 << uint(log2Size)
	log.Debug().Int("entries", n).Int("bytes", n*int(unsafe.Sizeof(tableEntry{}))).Msg("allocated transposition table")
	return &Table{
		entries: make([]tableEntry, n),
		mask:    uint64(n - 1),
	}
}

func (t *Table) index(key uint64) uint64 {
	return key & t.mask
}

// Store writes value for key unconditionally, overwriting whatever was
// there.
func (t *Table) Store(key uint64, value int) {
	t.entries[t.index(key)] = tableEntry{
		key:   key,
		score: uint8(value - bitboard.MinScore + 1),
	}
}

// Probe reports the stored value for key, if any. It returns false for
// an empty slot or a slot holding a different key.
func (t *Table) Probe(key uint64) (int, bool) {
	e := t.entries[t.index(key)]
	if e.score == 0 || e.key != key {
		return 0, false
	}
	return int(e.score) + bitboard.MinScore - 1, true
}

// Clear zero-fills the table. The generator never calls this mid-run;
// it exists for tests and for reusing a Table across independent runs.
func (t *Table) Clear() {
	clear(t.entries)
}
