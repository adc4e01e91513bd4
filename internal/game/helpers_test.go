package game

import (
	"fmt"
	"time"
)

var testNames = []string{"Alice", "Bob", "Carol", "Dave", "Eve", "Frank"}

// newStartedGame builds a STARTED game with empty hands and a full deck.
// Tests deal hands and place chips directly.
func newStartedGame(playerCount int) *Game {
	maxPlayers := playerCount
	if maxPlayers < 2 {
		maxPlayers = 2
	}
	teamCount := teamCountFor(maxPlayers)

	players := make([]*Player, playerCount)
	for i := 0; i < playerCount; i++ {
		players[i] = &Player{
			ID:    fmt.Sprintf("p%d", i+1),
			Name:  testNames[i],
			Color: teamColors[(i%teamCount)%len(teamColors)],
			Hand:  []Card{},
		}
	}

	return &Game{
		ID:                  "TEST1",
		Status:              StatusStarted,
		Players:             players,
		Board:               NewBoard(),
		Deck:                NewDeck(),
		MaxPlayers:          maxPlayers,
		TeamGame:            true,
		TeamCount:           teamCount,
		SequencesToWin:      SequencesToWin,
		SequencesByKey:      make(map[string]int),
		TurnDeadlineEpochMs: time.Now().Add(TurnDuration).UnixMilli(),
	}
}

// findFreeCellShowing locates an unowned cell displaying the card.
func findFreeCellShowing(b *Board, card Card) (int, int, bool) {
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			cell := b.At(x, y)
			if cell.Corner || cell.Card == nil || cell.OwnerID != "" {
				continue
			}
			if cell.Card.Equals(card) {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// ownCells assigns a run of horizontally adjacent cells to a player.
func ownCells(g *Game, playerID string, x0, y, count int) {
	for i := 0; i < count; i++ {
		g.Board.At(x0+i, y).OwnerID = playerID
	}
}

// occupyAllFreeCells fills every unowned non-corner cell with the player's
// chips, leaving no free cell on the board.
func occupyAllFreeCells(g *Game, playerID string) {
	for y := range g.Board.Cells {
		for x := range g.Board.Cells[y] {
			cell := &g.Board.Cells[y][x]
			if !cell.Corner && cell.OwnerID == "" {
				cell.OwnerID = playerID
			}
		}
	}
}
