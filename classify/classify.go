// Package classify decides whether a position is "critical": exactly
// one legal move wins, every other move loses or draws, and the
// winning move is not something an immediate-tactics checker would
// already find on its own.
package classify

import (
	"github.com/BassBess/criticaldb/bitboard"
	"github.com/BassBess/criticaldb/negamax"
)

const (
	DefaultMinPly = 15
	DefaultMaxPly = 28
)

// Analyzer wraps a solver with the ply window that bounds eligible
// positions.
type Analyzer struct {
	Solver *negamax.Solver
	MinPly int
	MaxPly int
}

// NewAnalyzer builds an Analyzer over solver with the default ply
// window.
func NewAnalyzer(solver *negamax.Solver) *Analyzer {
	return &Analyzer{Solver: solver, MinPly: DefaultMinPly, MaxPly: DefaultMaxPly}
}

// Analyze returns the unique non-obvious winning column for p, if one
// exists.
func (a *Analyzer) Analyze(p bitboard.Position) (col int, ok bool) {
	if p.Ply < a.MinPly || p.Ply > a.MaxPly {
		return 0, false
	}
	if bitboard.CanWinNext(p) {
		return 0, false
	}
	nonLosing := bitboard.NonLosingMoves(p)
	if nonLosing == 0 {
		return 0, false
	}

	winCount := 0
	winCol := -1
	for c := 0; c < bitboard.Width; c++ {
		if !bitboard.CanPlay(p, c) {
			continue
		}
		bit := bitboard.MoveBit(p, c)
		if nonLosing&bit == 0 {
			continue
		}
		child := bitboard.Play(p, c)
		score := -a.Solver.Solve(child)
		if score > 0 {
			winCount++
			winCol = c
		}
	}

	if winCount != 1 {
		return 0, false
	}
	if obvious(p, winCol) {
		return 0, false
	}
	return winCol, true
}

// obvious reports whether playing col is a move any immediate-tactics
// checker would already find: a win-in-one, or a forced block of an
// opponent win-in-one. More sophisticated obviousness heuristics (forced
// two-move sequences, even/odd threat control) are deliberately not
// applied here.
func obvious(p bitboard.Position, col int) bool {
	bit := bitboard.MoveBit(p, col)
	if bitboard.WinningPositions(p.Current, p.Mask)&bit != 0 {
		return true
	}
	opponent := p.Current ^ p.Mask
	if bitboard.WinningPositions(opponent, p.Mask)&bit != 0 {
		return true
	}
	return false
}
