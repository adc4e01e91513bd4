package game

import (
	"strings"
	"sync"
	"time"
)

// Status is the lifecycle state of a game.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusStarted  Status = "STARTED"
	StatusFinished Status = "FINISHED"
)

// Result is the terminal outcome of a finished game.
type Result string

const (
	ResultWin  Result = "WIN"
	ResultDraw Result = "DRAW"
)

const (
	// HandSize is dealt to every player regardless of player count.
	HandSize = 5
	// TurnDuration bounds a single turn. Expiry force-finalizes the game
	// as a win for the next seat.
	TurnDuration = 60 * time.Second
	// SequencesToWin is the number of disjoint sequences a team needs.
	SequencesToWin = 2
	// MaxPlayersLimit caps the roster.
	MaxPlayersLimit = 6
)

var teamColors = []string{"RED", "BLUE", "GREEN"}

// Player is a seated participant. ID doubles as the rejoin session token.
// Teams are not stored: a player's team is its seat index modulo the game's
// team count.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Hand  []Card `json:"hand"`
}

// LastMove records the most recent applied action for client animation.
type LastMove struct {
	X          int    `json:"x"`
	Y          int    `json:"y"`
	PlayerID   string `json:"playerId"`
	Card       Card   `json:"card"`
	JackRemove bool   `json:"isJackRemove"`
	JackWild   bool   `json:"isJackWild"`
}

// Game is one live session. All exported fields are guarded by mu; only the
// Manager mutates a game, always under its lock. SequencesByKey and the
// board's InSequence flags are caches recomputed from board state each turn,
// never the source of truth.
type Game struct {
	ID                  string         `json:"id"`
	Status              Status         `json:"status"`
	Players             []*Player      `json:"players"`
	Board               *Board         `json:"board"`
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

	mu sync.Mutex
}

// teamCountFor derives the team count from the seat capacity: three teams
// only in a six-player game, two otherwise.
func teamCountFor(maxPlayers int) int {
	if maxPlayers == 6 {
		return 3
	}
	return 2
}

func (g *Game) currentPlayer() *Player {
	return g.Players[g.CurrentPlayerIndex]
}

func (g *Game) playerByID(playerID string) *Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (g *Game) playerByName(name string) *Player {
	for _, p := range g.Players {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// teamIndexOf returns the team of the player with the given id, or -1.
func (g *Game) teamIndexOf(playerID string) int {
	for i, p := range g.Players {
		if p.ID == playerID {
			return i % g.TeamCount
		}
	}
	return -1
}

func (g *Game) teamKeyOf(playerID string) string {
	return teamKey(g.teamIndexOf(playerID))
}

func (g *Game) sameTeam(aID, bID string) bool {
	return g.teamIndexOf(aID) == g.teamIndexOf(bID)
}

// drawCards moves up to count cards from the front of the draw pile into
// the player's hand. Drawing from an empty deck is a no-op, not an error.
func (g *Game) drawCards(p *Player, count int) {
	for i := 0; i < count && len(g.Deck) > 0; i++ {
		p.Hand = append(p.Hand, g.Deck[0])
		g.Deck = g.Deck[1:]
	}
}

// removeFromHand removes exactly one card matching by rank and suit.
func (g *Game) removeFromHand(p *Player, card Card) bool {
	for i, c := range p.Hand {
		if c.Equals(card) {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

func (g *Game) handContains(p *Player, card Card) bool {
	for _, c := range p.Hand {
		if c.Equals(card) {
			return true
		}
	}
	return false
}

// advanceTurn hands the turn to the next seat, resets the deadline and the
// per-turn exchange flag.
func (g *Game) advanceTurn(now time.Time) {
	g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Players)
	g.TurnDeadlineEpochMs = now.Add(TurnDuration).UnixMilli()
	g.ExchangeUsed = false
}
