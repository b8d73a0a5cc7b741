// Package negamax implements the weak (sign-only) negamax searcher:
// alpha-beta pruning tightened to the plies-to-mate score axis, a
// transposition table, center-first move ordering by threat count, and
// non-losing-move pruning to avoid searching lines that hand the
// opponent an immediate win.
package negamax

import (
	"sort"

	"github.com/samber/lo"

	"github.com/BassBess/criticaldb/bitboard"
)

// columnOrder is searched center-first: the center column tends to
// produce the most threats and the earliest cutoffs.
var columnOrder = [bitboard.Width]int{3, 2, 4, 1, 5, 0, 6}

// Solver holds the single transposition table shared across every
// Solve call made during a run.
type Solver struct {
	Table *Table
}

// NewSolver builds a solver backed by a freshly allocated table of
// 2^log2Size entries.
func NewSolver(log2Size int) *Solver {
	return &Solver{Table: NewTable(log2Size)}
}

type orderedMove struct {
	col   int
	bit   uint64
	score int
}

// orderedChildren returns the legal, non-losing moves in p, sorted by
// descending threat count with center-first order as the tiebreak.
func orderedChildren(p bitboard.Position, possible uint64) []orderedMove {
	moves := make([]orderedMove, 0, bitboard.Width)
	for _, c := range columnOrder {
		if !bitboard.CanPlay(p, c) {
			continue
		}
		bit := bitboard.MoveBit(p, c)
		if possible&bit == 0 {
			continue
		}
		moves = append(moves, orderedMove{col: c, bit: bit, score: bitboard.MoveScore(p, bit)})
	}
	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].score > moves[j].score
	})
	return moves
}

// Negamax returns the game value of p from the perspective of the side
// to move, bounded by the (alpha, beta) window.
func (s *Solver) Negamax(p bitboard.Position, alpha, beta int) int {
	if bitboard.CanWinNext(p) {
		return (bitboard.BoardSize + 1 - p.Ply) / 2
	}

	possible := bitboard.NonLosingMoves(p)
	if possible == 0 {
		return -(bitboard.BoardSize - p.Ply) / 2
	}

	if p.Ply >= bitboard.BoardSize-2 {
		return 0
	}

	min := alpha
	if v := -(bitboard.BoardSize - 2 - p.Ply) / 2; v > min {
		min = v
	}
	max := beta
	if v := (bitboard.BoardSize - 1 - p.Ply) / 2; v < max {
		max = v
	}
	if min >= max {
		return min
	}
	alpha, beta = min, max

	key := bitboard.Key(p)
	// The table only holds upper bounds (fail-high results are never
	// stored), so a cached value can only lower beta.
	if val, ok := s.Table.Probe(key); ok && val < beta {
		if beta = val; alpha >= beta {
			return beta
		}
	}

	children := orderedChildren(p, possible)
	best := -bitboard.BoardSize
	for _, child := range children {
		next := bitboard.Play(p, child.col)
		value := -s.Negamax(next, -beta, -alpha)
		best = lo.Max([]int{best, value})
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			return best
		}
	}

	s.Table.Store(key, best)
	return best
}

// Solve returns the game-theoretic score of p via null-window iterative
// refinement: each probe call only needs to learn whether the true
// value is above or below a cutoff, which is dramatically cheaper than
// a single full-window search.
func (s *Solver) Solve(p bitboard.Position) int {
	if bitboard.CanWinNext(p) {
		return (bitboard.BoardSize + 1 - p.Ply) / 2
	}

	min := -(bitboard.BoardSize - p.Ply) / 2
	max := (bitboard.BoardSize + 1 - p.Ply) / 2

	for min < max {
		med := min + (max-min)/2
		if med <= 0 && min/2 < med {
			med = min / 2
		} else if med >= 0 && max/2 > med {
			med = max / 2
		}
		r := s.Negamax(p, med, med+1)
		if r <= med {
			max = r
		} else {
			min = r
		}
	}
	return min
}
