package game

import "fmt"

// SequenceLength is the run length required for a counted sequence.
const SequenceLength = 5

// sequenceDirections are the four scan vectors: right, down, down-right,
// up-right. Scanning every cell as a run start with only these four covers
// both orientations of every line.
var sequenceDirections = [4][2]int{
	{1, 0},
	{0, 1},
	{1, 1},
	{1, -1},
}

type sequenceRun struct {
	positions [SequenceLength]Position
}

func (r sequenceRun) overlaps(other sequenceRun) bool {
	for _, p := range r.positions {
		for _, q := range other.positions {
			if p == q {
				return true
			}
		}
	}
	return false
}

// findSequences returns a maximum-cardinality set of pairwise-disjoint
// 5-runs owned by the given team. Corner cells count for every team.
func (g *Game) findSequences(team int) []sequenceRun {
	return selectDisjoint(g.candidateRuns(team))
}

// candidateRuns collects every valid 5-run for the team, overlapping or not.
func (g *Game) candidateRuns(team int) []sequenceRun {
	var runs []sequenceRun
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			for _, dir := range sequenceDirections {
				run, ok := g.runFrom(x, y, dir[0], dir[1], team)
				if ok {
					runs = append(runs, run)
				}
			}
		}
	}
	return runs
}

func (g *Game) runFrom(x, y, dx, dy, team int) (sequenceRun, bool) {
	var run sequenceRun
	for step := 0; step < SequenceLength; step++ {
		nx := x + dx*step
		ny := y + dy*step
		if !g.Board.InBounds(nx, ny) {
			return sequenceRun{}, false
		}
		if !g.cellCountsForTeam(nx, ny, team) {
			return sequenceRun{}, false
		}
		run.positions[step] = Position{X: nx, Y: ny}
	}
	return run, true
}

func (g *Game) cellCountsForTeam(x, y, team int) bool {
	cell := g.Board.At(x, y)
	if cell.Corner {
		return true
	}
	if cell.OwnerID == "" {
		return false
	}
	return g.teamIndexOf(cell.OwnerID) == team
}

// selectDisjoint picks a maximum set of pairwise-disjoint runs. Greedy over
// the conflict graph: repeatedly take the run with the fewest remaining
// conflicts and drop everything it overlaps. Polynomial in the candidate
// count, unlike the exhaustive include/exclude search it replaces; only the
// resulting count matters, no tie-break policy is promised.
func selectDisjoint(runs []sequenceRun) []sequenceRun {
	remaining := make([]sequenceRun, len(runs))
	copy(remaining, runs)

	var selected []sequenceRun
	for len(remaining) > 0 {
		best := 0
		bestConflicts := conflictCount(remaining, 0)
		for i := 1; i < len(remaining); i++ {
			if c := conflictCount(remaining, i); c < bestConflicts {
				best, bestConflicts = i, c
			}
		}

		pick := remaining[best]
		selected = append(selected, pick)

		next := remaining[:0]
		for _, run := range remaining {
			if run != pick && !run.overlaps(pick) {
				next = append(next, run)
			}
		}
		remaining = next
	}
	return selected
}

func conflictCount(runs []sequenceRun, idx int) int {
	count := 0
	for i, run := range runs {
		if i != idx && run.overlaps(runs[idx]) {
			count++
		}
	}
	return count
}

// lockedPositions returns the cells of the team's currently counted
// sequences. A chip there is immune to one-eyed-Jack removal.
func (g *Game) lockedPositions(team int) map[Position]struct{} {
	locked := make(map[Position]struct{})
	for _, run := range g.findSequences(team) {
		for _, pos := range run.positions {
			locked[pos] = struct{}{}
		}
	}
	return locked
}

// isLockedChip reports whether the chip at (x, y) belongs to a counted
// sequence of its owner's team.
func (g *Game) isLockedChip(ownerID string, x, y int) bool {
	pos := Position{X: x, Y: y}
	_, ok := g.lockedPositions(g.teamIndexOf(ownerID))[pos]
	return ok
}

// refreshSequences recomputes the per-team sequence counts and the board's
// InSequence flags from scratch. The caches are derived state only.
func (g *Game) refreshSequences() map[string]int {
	for y := range g.Board.Cells {
		for x := range g.Board.Cells[y] {
			g.Board.Cells[y][x].InSequence = false
		}
	}

	counts := make(map[string]int, g.TeamCount)
	for team := 0; team < g.TeamCount; team++ {
		runs := g.findSequences(team)
		counts[teamKey(team)] = len(runs)
		for _, run := range runs {
			for _, pos := range run.positions {
				g.Board.At(pos.X, pos.Y).InSequence = true
			}
		}
	}
	g.SequencesByKey = counts
	return counts
}

func teamKey(team int) string {
	return fmt.Sprintf("TEAM_%d", team)
}
