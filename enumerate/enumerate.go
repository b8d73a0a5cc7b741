// Package enumerate performs the depth-first traversal of the reachable
// game tree that drives the classifier over every position up to a
// maximum ply.
package enumerate

import (
	"github.com/rs/zerolog/log"

	"github.com/BassBess/criticaldb/bitboard"
	"github.com/BassBess/criticaldb/classify"
)

// CriticalEntry is a classified position ready for serialization.
type CriticalEntry struct {
	Hash       uint64
	WinningCol uint8
}

// Enumerator walks every reachable position from the empty board,
// invoking the Analyzer at each ply within its window.
type Enumerator struct {
	Analyzer *classify.Analyzer
	// MaxPly mirrors Analyzer.MaxPly for the traversal prune, kept as
	// its own field since the enumerator would still need a ply bound
	// if it were ever run with a wider analyzer window than traversal.
	MaxPly int
	// ProgressEvery logs a progress line every N critical entries found.
	// Zero disables progress logging.
	ProgressEvery int

	Visited  int64
	critical int64
}

// Run traverses the full game tree, calling sink for every critical
// entry found. Traversal order does not affect the set of entries
// produced, only the order sink observes them in.
func (e *Enumerator) Run(sink func(CriticalEntry)) {
	e.RunFrom(bitboard.Position{}, sink)
}

// RunFrom traverses the reachable tree rooted at start. Run always
// starts from the empty board; RunFrom exists so tests can exercise the
// traversal and pruning rules from an arbitrary, hand-built position.
func (e *Enumerator) RunFrom(start bitboard.Position, sink func(CriticalEntry)) {
	e.dfs(start, sink)
}

func (e *Enumerator) dfs(p bitboard.Position, sink func(CriticalEntry)) {
	e.Visited++

	if p.Ply >= e.Analyzer.MinPly && p.Ply <= e.Analyzer.MaxPly {
		if col, ok := e.Analyzer.Analyze(p); ok {
			e.critical++
			sink(CriticalEntry{Hash: bitboard.Key(p), WinningCol: uint8(col)})
			if e.ProgressEvery > 0 && e.critical%int64(e.ProgressEvery) == 0 {
				log.Info().
					Int64("critical-entries", e.critical).
					Int64("nodes-visited", e.Visited).
					Int("ply", p.Ply).
					Msg("progress")
			}
		}
	}

	if p.Ply >= e.MaxPly {
		return
	}
	if bitboard.CanWinNext(p) {
		// The game ends before any deeper position here is reachable.
		return
	}

	for c := 0; c < bitboard.Width; c++ {
		if bitboard.CanPlay(p, c) {
			e.dfs(bitboard.Play(p, c), sink)
		}
	}
}
