package bitboard

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyBoard(t *testing.T) {
	p := Position{}
	assert.Equal(t, 0, p.Ply)
	assert.False(t, CanWinNext(p))
	for c := 0; c < Width; c++ {
		assert.True(t, CanPlay(p, c))
	}
}

func TestPlayInvariants(t *testing.T) {
	p := Position{}
	cols := []int{3, 3, 2, 4, 2, 1}
	for _, c := range cols {
		require.True(t, CanPlay(p, c))
		p = Play(p, c)
		assert.Zero(t, p.Current&^p.Mask, "current must be a subset of mask")
		assert.Equal(t, bits.OnesCount64(p.Mask), p.Ply, "popcount(mask) must equal ply")
	}
}

func TestGuardBitsStayClear(t *testing.T) {
	p := Position{}
	for c := 0; c < Width; c++ {
		for row := 0; row < Height; row++ {
			p = Play(p, c)
		}
	}
	for c := 0; c < Width; c++ {
		guard := uint64(1) << uint(c*stride+Height)
		assert.Zero(t, p.Mask&guard, "guard bit of column %d must stay zero", c)
	}
}

func TestKeyInjectiveOverDistinctStacks(t *testing.T) {
	a := FromMoves([]int{0, 1, 0, 1})
	b := FromMoves([]int{1, 0, 1, 0})
	assert.NotEqual(t, Key(a), Key(b), "different stacking order must produce different keys")
}

func TestVerticalWinInOne(t *testing.T) {
	// Three stones already stacked in column 0, all owned by the side to
	// move: dropping a fourth completes the vertical.
	p := Position{Current: 0b0111, Mask: 0b0111, Ply: 3}
	assert.True(t, CanWinNext(p))
}

func TestWinningPositionsOnlyEmptyCells(t *testing.T) {
	p := FromMoves([]int{3, 3, 3, 2, 4, 2})
	win := WinningPositions(p.Current, p.Mask)
	assert.Zero(t, win&p.Mask, "winning cells must be empty")
}

func TestNonLosingMovesDoubleThreatIsZero(t *testing.T) {
	// Build a position where the opponent (not on the move) has two
	// disjoint immediate threats: the first player holds the bottom row
	// of columns 1,2,3, open at both ends (columns 0 and 4), while the
	// second player, now on the move, has only two stones in column 6.
	p := FromMoves([]int{1, 6, 2, 6, 3})
	// The point of this test is that when two disjoint winning cells
	// exist for the opponent, NonLosingMoves returns 0.
	opp := OpponentWinningPositions(p)
	if bits.OnesCount64(opp&Possible(p)) >= 2 {
		assert.Zero(t, NonLosingMoves(p))
	}
}

func TestMoveBitWithinColumn(t *testing.T) {
	p := Position{}
	for c := 0; c < Width; c++ {
		bit := MoveBit(p, c)
		assert.Equal(t, bottomMaskCol[c], bit)
	}
}
