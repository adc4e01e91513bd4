package game

// Snapshot is a deep, immutable copy of a game, safe to serialize and
// broadcast after the game's lock is released. The same shape is stored in
// the live-state mirror and in the finished-game archive.
type Snapshot struct {
	ID                  string         `json:"id"`
	Status              Status         `json:"status"`
	Players             []Player       `json:"players"`
	Board               [][]Cell       `json:"board"`
	Deck                []Card         `json:"deck"`
	CurrentPlayerIndex  int            `json:"currentPlayerIndex"`
	TurnDeadlineEpochMs int64          `json:"turnDeadlineEpochMs"`
	MaxPlayers          int            `json:"maxPlayers"`
	TeamGame            bool           `json:"isTeamGame"`
	TeamCount           int            `json:"teamCount"`
	SequencesToWin      int            `json:"sequencesToWin"`
	Result              Result         `json:"result,omitempty"`
	WinnerKey           string         `json:"winnerKey,omitempty"`
	ExchangeUsed        bool           `json:"exchangeUsedThisTurn"`
	SequencesByKey      map[string]int `json:"sequencesByKey"`
	LastMove            *LastMove      `json:"lastMove,omitempty"`
}

// snapshot copies the game state. Caller must hold the game lock.
func (g *Game) snapshot() Snapshot {
	players := make([]Player, len(g.Players))
	for i, p := range g.Players {
		hand := make([]Card, len(p.Hand))
		copy(hand, p.Hand)
		players[i] = Player{ID: p.ID, Name: p.Name, Color: p.Color, Hand: hand}
	}

	board := make([][]Cell, len(g.Board.Cells))
	for y, row := range g.Board.Cells {
		board[y] = make([]Cell, len(row))
		for x, cell := range row {
			cp := cell
			if cell.Card != nil {
				card := *cell.Card
				cp.Card = &card
			}
			board[y][x] = cp
		}
	}

	deck := make([]Card, len(g.Deck))
	copy(deck, g.Deck)

	counts := make(map[string]int, len(g.SequencesByKey))
	for k, v := range g.SequencesByKey {
		counts[k] = v
	}

	var last *LastMove
	if g.LastMove != nil {
		cp := *g.LastMove
		last = &cp
	}

	return Snapshot{
		ID:                  g.ID,
		Status:              g.Status,
		Players:             players,
		Board:               board,
		Deck:                deck,
		CurrentPlayerIndex:  g.CurrentPlayerIndex,
		TurnDeadlineEpochMs: g.TurnDeadlineEpochMs,
		MaxPlayers:          g.MaxPlayers,
		TeamGame:            g.TeamGame,
		TeamCount:           g.TeamCount,
		SequencesToWin:      g.SequencesToWin,
		Result:              g.Result,
		WinnerKey:           g.WinnerKey,
		ExchangeUsed:        g.ExchangeUsed,
		SequencesByKey:      counts,
		LastMove:            last,
	}
}

// gameFromSnapshot rebuilds a live game from a mirrored snapshot. Used on a
// registry miss when another instance owns the most recent copy.
func gameFromSnapshot(s Snapshot) *Game {
	players := make([]*Player, len(s.Players))
	for i := range s.Players {
		p := s.Players[i]
		players[i] = &p
	}

	teamCount := s.TeamCount
	if teamCount == 0 {
		teamCount = teamCountFor(s.MaxPlayers)
	}

	board := &Board{Cells: s.Board}

	counts := s.SequencesByKey
	if counts == nil {
		counts = make(map[string]int)
	}

	return &Game{
		ID:                  s.ID,
		Status:              s.Status,
		Players:             players,
		Board:               board,
		Deck:                s.Deck,
		CurrentPlayerIndex:  s.CurrentPlayerIndex,
		TurnDeadlineEpochMs: s.TurnDeadlineEpochMs,
		MaxPlayers:          s.MaxPlayers,
		TeamGame:            s.TeamGame,
		TeamCount:           teamCount,
		SequencesToWin:      s.SequencesToWin,
		Result:              s.Result,
		WinnerKey:           s.WinnerKey,
		ExchangeUsed:        s.ExchangeUsed,
		SequencesByKey:      counts,
		LastMove:            s.LastMove,
	}
}
