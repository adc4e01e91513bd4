package game

import "time"

// The turn engine mutates a single game. Every method here assumes the
// caller (the Manager) holds the game's lock; after a call the caller reads
// g.Status to decide whether the game must be finalized.

// handleTimeoutIfNeeded force-resolves a started game whose turn deadline
// has passed: the seat after the stalled player wins. Returns true when the
// game was finished. This check is authoritative and pre-empts whatever
// action triggered it.
func (g *Game) handleTimeoutIfNeeded(now time.Time) bool {
	if g.Status != StatusStarted {
		return false
	}
	if now.UnixMilli() <= g.TurnDeadlineEpochMs {
		return false
	}
	if len(g.Players) < 2 {
		return false
	}

	winnerIndex := (g.CurrentPlayerIndex + 1) % len(g.Players)
	winner := g.Players[winnerIndex]
	g.refreshSequences()
	g.Status = StatusFinished
	g.Result = ResultWin
	g.WinnerKey = g.teamKeyOf(winner.ID)
	return true
}

// skipIfStuck auto-advances the turn when the current seat has no legal
// action at all. Returns true when a skip happened.
func (g *Game) skipIfStuck(now time.Time) bool {
	if !g.isCurrentPlayerStuck() {
		return false
	}
	g.advanceTurn(now)
	return true
}

// makeMove validates and applies a single place/remove action.
func (g *Game) makeMove(playerID string, card Card, x, y int, now time.Time) error {
	current := g.currentPlayer()
	if current.ID != playerID {
		return ErrNotYourTurn
	}
	if !g.Board.InBounds(x, y) {
		return ErrInvalidCoordinates
	}

	target := g.Board.At(x, y)
	if target.Corner {
		return ErrCornerNotPlayable
	}

	switch {
	case card.IsTwoEyedJack():
		if target.OwnerID != "" {
			return ErrCellOccupied
		}
		if !g.handContains(current, card) {
			return ErrCardNotInHand
		}
		target.OwnerID = current.ID
		g.LastMove = &LastMove{X: x, Y: y, PlayerID: current.ID, Card: card, JackWild: true}

	case card.IsOneEyedJack():
		if target.OwnerID == "" {
			return ErrNoChipToRemove
		}
		if g.sameTeam(current.ID, target.OwnerID) {
			return ErrCannotRemoveOwnChip
		}
		if g.isLockedChip(target.OwnerID, x, y) {
			return ErrChipLocked
		}
		if !g.handContains(current, card) {
			return ErrCardNotInHand
		}
		target.OwnerID = ""
		g.LastMove = &LastMove{X: x, Y: y, PlayerID: current.ID, Card: card, JackRemove: true}

	default:
		if target.Card == nil || !target.Card.Equals(card) {
			return ErrCardMismatch
		}
		if target.OwnerID != "" {
			return ErrCellOccupied
		}
		if !g.handContains(current, card) {
			return ErrCardNotInHand
		}
		target.OwnerID = current.ID
		g.LastMove = &LastMove{X: x, Y: y, PlayerID: current.ID, Card: card}
	}

	g.removeFromHand(current, card)
	g.drawCards(current, 1)

	counts := g.refreshSequences()
	if counts[g.teamKeyOf(current.ID)] >= g.SequencesToWin {
		g.Status = StatusFinished
		g.Result = ResultWin
		g.WinnerKey = g.teamKeyOf(current.ID)
		return nil
	}

	if len(g.Deck) == 0 {
		g.Status = StatusFinished
		g.Result = ResultDraw
		g.WinnerKey = ""
		return nil
	}

	g.advanceTurn(now)
	return nil
}

// exchangeDeadCard discards a card with no legal target anywhere on the
// board and draws a replacement. At most once per turn.
func (g *Game) exchangeDeadCard(playerID string, card Card, now time.Time) error {
	current := g.currentPlayer()
	if current.ID != playerID {
		return ErrNotYourTurn
	}
	if g.ExchangeUsed {
		return ErrExchangeAlreadyUsed
	}
	if len(g.Deck) == 0 {
		return ErrDeckEmpty
	}
	if !g.handContains(current, card) {
		return ErrCardNotInHand
	}
	if !g.isCardDead(current, card) {
		return ErrCardNotDead
	}

	g.removeFromHand(current, card)
	g.drawCards(current, 1)
	g.ExchangeUsed = true

	if len(g.Deck) == 0 {
		g.Status = StatusFinished
		g.Result = ResultDraw
		g.WinnerKey = ""
	}
	return nil
}

// skipTurn is the explicit skip action, legal only for a truly stuck seat.
func (g *Game) skipTurn(playerID string, now time.Time) error {
	current := g.currentPlayer()
	if current.ID != playerID {
		return ErrNotYourTurn
	}
	if !g.isCurrentPlayerStuck() {
		return ErrPlayerStillHasActions
	}
	g.advanceTurn(now)
	return nil
}

// isCurrentPlayerStuck reports whether the active seat has neither a
// playable card nor a usable exchange.
func (g *Game) isCurrentPlayerStuck() bool {
	current := g.currentPlayer()
	for _, card := range current.Hand {
		if g.isCardPlayable(current, card) {
			return false
		}
	}
	if g.ExchangeUsed || len(g.Deck) == 0 {
		return true
	}
	for _, card := range current.Hand {
		if g.isCardDead(current, card) {
			return false
		}
	}
	return true
}

func (g *Game) isCardPlayable(p *Player, card Card) bool {
	if card.IsTwoEyedJack() {
		return g.Board.HasFreeCell()
	}
	if card.IsOneEyedJack() {
		return g.hasRemovableOpponentChip(p)
	}
	return g.Board.HasFreeMatchingCell(card)
}

// isCardDead is the exact complement of playability for each card class.
func (g *Game) isCardDead(p *Player, card Card) bool {
	return !g.isCardPlayable(p, card)
}

// hasRemovableOpponentChip reports whether any opposing chip is on the
// board outside its team's counted sequences.
func (g *Game) hasRemovableOpponentChip(p *Player) bool {
	playerTeam := g.teamIndexOf(p.ID)

	locked := make(map[Position]struct{})
	for team := 0; team < g.TeamCount; team++ {
		if team == playerTeam {
			continue
		}
		for pos := range g.lockedPositions(team) {
			locked[pos] = struct{}{}
		}
	}

	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			cell := g.Board.At(x, y)
			if cell.Corner || cell.OwnerID == "" {
				continue
			}
			if g.sameTeam(p.ID, cell.OwnerID) {
				continue
			}
			if _, isLocked := locked[Position{X: x, Y: y}]; !isLocked {
				return true
			}
		}
	}
	return false
}
