package enumerate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BassBess/criticaldb/bitboard"
	"github.com/BassBess/criticaldb/classify"
	"github.com/BassBess/criticaldb/negamax"
)

func newEnumerator(minPly, maxPly, traversalMaxPly int) *Enumerator {
	a := &classify.Analyzer{Solver: negamax.NewSolver(10), MinPly: minPly, MaxPly: maxPly}
	return &Enumerator{Analyzer: a, MaxPly: traversalMaxPly}
}

func TestRunVisitsFullTreeWhenWindowUnreachable(t *testing.T) {
	// A window that no ply in the traversal can satisfy means the
	// enumerator's ply check skips Analyze (and so Solve) entirely, so
	// this stays cheap: 1 + 7 + 49 + 343 nodes for a depth-3 traversal.
	e := newEnumerator(100, 100, 3)
	var found []CriticalEntry
	e.Run(func(c CriticalEntry) { found = append(found, c) })

	assert.Empty(t, found)
	assert.EqualValues(t, 1+7+49+343, e.Visited)
}

func TestRunFromPrunesAtImmediateWin(t *testing.T) {
	e := newEnumerator(0, 41, 41)
	p := bitboard.Position{Current: 0b0111, Mask: 0b0111, Ply: 3}

	var found []CriticalEntry
	e.RunFrom(p, func(c CriticalEntry) { found = append(found, c) })

	// The root itself has an immediate win, so it is neither critical nor
	// expanded any further.
	assert.Empty(t, found)
	assert.EqualValues(t, 1, e.Visited)
}

func TestRunFromPrunesAtMaxPly(t *testing.T) {
	e := newEnumerator(100, 100, 0)
	e.RunFrom(bitboard.Position{}, func(CriticalEntry) {})
	assert.EqualValues(t, 1, e.Visited, "traversal must stop at MaxPly without expanding children")
}

func TestRunFromDoesNotReportObviousBlock(t *testing.T) {
	e := newEnumerator(3, 3, 3)
	// Opponent has three in a row along the bottom of columns 0-2; column
	// 3 is the only non-losing move and it is obvious, so this position is
	// not critical. Use it to confirm ply-3 positions are at least
	// reachable and classified without panicking.
	const stride = bitboard.Height + 1
	mask := uint64(1)<<uint(0*stride) | uint64(1)<<uint(1*stride) | uint64(1)<<uint(2*stride)
	p := bitboard.Position{Current: 0, Mask: mask, Ply: 3}

	var found []CriticalEntry
	e.RunFrom(p, func(c CriticalEntry) { found = append(found, c) })
	assert.Empty(t, found)
	assert.EqualValues(t, 1, e.Visited)
}

// criticalFixturePosition mirrors classify's fixture of the same name:
// columns 0-5 are completely filled with no four-in-a-row anywhere
// except a mover three-in-a-row at row 2 across columns 3-5, which
// column 6 (the sole legal column) completes two plies after the move
// actually played, so the win is not visible as an immediate one.
func criticalFixturePosition() bitboard.Position {
	const stride = bitboard.Height + 1
	owners := [6][6]bool{
		0: {true, true, false, false, true, false},
		1: {false, false, true, true, false, false},
		2: {true, true, false, false, true, true},
		3: {false, false, true, true, false, false},
		4: {true, true, true, false, true, true},
		5: {false, false, true, true, false, false},
	}
	var current, mask uint64
	for col := 0; col < 6; col++ {
		for row := 0; row < 6; row++ {
			bit := uint64(1) << uint(col*stride+row)
			mask |= bit
			if owners[col][row] {
				current |= bit
			}
		}
	}
	return bitboard.Position{Current: current, Mask: mask, Ply: 36}
}

func TestRunFromReportsTheUniqueCriticalEntry(t *testing.T) {
	e := newEnumerator(36, 36, 36)
	p := criticalFixturePosition()

	var found []CriticalEntry
	e.RunFrom(p, func(c CriticalEntry) { found = append(found, c) })

	require.Len(t, found, 1)
	assert.Equal(t, bitboard.Key(p), found[0].Hash)
	assert.EqualValues(t, 6, found[0].WinningCol)
	assert.EqualValues(t, 1, e.Visited, "MaxPly stops the traversal right after classifying the root")
}
