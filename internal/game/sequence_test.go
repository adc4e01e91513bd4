package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSequences_HorizontalRun(t *testing.T) {
	g := newStartedGame(2)
	ownCells(g, "p1", 2, 3, 5) // (2,3)..(6,3)

	team0 := g.findSequences(0)
	require.Len(t, team0, 1)

	team1 := g.findSequences(1)
	assert.Empty(t, team1)
}

func TestFindSequences_CornersCountForEveryTeam(t *testing.T) {
	g := newStartedGame(2)
	// (0,0) is a corner; four chips complete the run.
	ownCells(g, "p1", 1, 0, 4) // (1,0)..(4,0)

	require.Len(t, g.findSequences(0), 1)

	// The same corner works for the other team too.
	g2 := newStartedGame(2)
	ownCells(g2, "p2", 1, 0, 4)
	require.Len(t, g2.findSequences(1), 1)
}

func TestFindSequences_DiagonalAndVertical(t *testing.T) {
	g := newStartedGame(2)
	for i := 0; i < 5; i++ {
		g.Board.At(2, 2+i).OwnerID = "p1" // vertical
		g.Board.At(4+i, 1+i).OwnerID = "p1"
	}

	runs := g.findSequences(0)
	assert.Len(t, runs, 2)
}

func TestFindSequences_SharedCellNeverCountedTwice(t *testing.T) {
	g := newStartedGame(2)
	// Nine in a row yields five overlapping candidates; every pair shares a
	// cell, so only one may be counted.
	ownCells(g, "p1", 1, 5, 9) // (1,5)..(9,5)

	runs := g.findSequences(0)
	require.Len(t, runs, 1)

	// 10 in a row gives two disjoint runs.
	g2 := newStartedGame(2)
	ownCells(g2, "p1", 0, 5, 10)
	runs2 := g2.findSequences(0)
	require.Len(t, runs2, 2)

	seen := make(map[Position]bool)
	for _, run := range runs2 {
		for _, pos := range run.positions {
			assert.False(t, seen[pos], "position %v selected twice", pos)
			seen[pos] = true
		}
	}
}

func TestRefreshSequences_CountsAndFlags(t *testing.T) {
	g := newStartedGame(2)
	ownCells(g, "p1", 2, 3, 5)

	counts := g.refreshSequences()
	assert.Equal(t, 1, counts["TEAM_0"])
	assert.Equal(t, 0, counts["TEAM_1"])
	assert.Equal(t, counts, g.SequencesByKey)

	for i := 0; i < 5; i++ {
		assert.True(t, g.Board.At(2+i, 3).InSequence)
	}
	assert.False(t, g.Board.At(7, 3).InSequence)

	// Flags are recomputed from scratch, not accumulated.
	g.Board.At(2, 3).OwnerID = ""
	counts = g.refreshSequences()
	assert.Equal(t, 0, counts["TEAM_0"])
	assert.False(t, g.Board.At(3, 3).InSequence)
}

func TestIsLockedChip(t *testing.T) {
	g := newStartedGame(2)
	ownCells(g, "p1", 2, 3, 5)
	g.Board.At(8, 8).OwnerID = "p1"

	assert.True(t, g.isLockedChip("p1", 4, 3), "chip inside a counted run is locked")
	assert.False(t, g.isLockedChip("p1", 8, 8), "stray chip is not locked")
}

func TestSelectDisjoint_PrefersMaximumCount(t *testing.T) {
	g := newStartedGame(2)
	// Two parallel rows of 5 plus a crossing vertical run through both:
	// the maximum disjoint choice is the two rows, not the cross.
	ownCells(g, "p1", 0, 2, 5)
	ownCells(g, "p1", 0, 6, 5)
	for y := 2; y <= 6; y++ {
		g.Board.At(2, y).OwnerID = "p1"
	}

	runs := g.findSequences(0)
	assert.Len(t, runs, 2)
}

func TestTeamKey(t *testing.T) {
	assert.Equal(t, "TEAM_0", teamKey(0))
	assert.Equal(t, "TEAM_2", teamKey(2))
}
