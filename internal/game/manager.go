package game

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Game ids are short and human-friendly: no 0/O/1/I lookalikes.
const (
	gameIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	gameIDLength   = 5
)

// Mirror replicates live game snapshots to a fast external store so another
// instance can pick a game up on a registry miss. All methods are optional
// best-effort from the engine's point of view.
type Mirror interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context, gameID string) (Snapshot, bool, error)
	Delete(ctx context.Context, gameID string) error
}

// Archiver persists the terminal snapshot of a finished game exactly once.
type Archiver interface {
	SaveFinished(ctx context.Context, gameID string, payload []byte, finishedAt time.Time) error
}

// Manager owns the registry of live games and serializes all mutations:
// the registry map has its own short-lived lock, and each game carries a
// mutex held for the duration of one mutation. Cross-game operations never
// contend.
type Manager struct {
	mu    sync.RWMutex
	games map[string]*Game

	mirror  Mirror
	archive Archiver
	logger  *zap.Logger
	now     func() time.Time
}

// NewManager creates a game manager. mirror and archive may be nil, in
// which case the registry is purely in-memory and finished games are only
// dropped.
func NewManager(mirror Mirror, archive Archiver, logger *zap.Logger) *Manager {
	return &Manager{
		games:   make(map[string]*Game),
		mirror:  mirror,
		archive: archive,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateGame builds a fresh game in WAITING with the given roster. The
// lobby capacity is max(2, len(names)); a full roster starts immediately.
func (m *Manager) CreateGame(ctx context.Context, names []string) (Snapshot, error) {
	if len(names) < 1 || len(names) > MaxPlayersLimit {
		return Snapshot{}, ErrInvalidPlayerCount
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return Snapshot{}, ErrNameRequired
		}
		lower := strings.ToLower(name)
		if seen[lower] {
			return Snapshot{}, ErrDuplicateName
		}
		seen[lower] = true
	}

	maxPlayers := len(names)
	if maxPlayers < 2 {
		maxPlayers = 2
	}
	teamCount := teamCountFor(maxPlayers)

	players := make([]*Player, len(names))
	for i, name := range names {
		players[i] = &Player{
			ID:    uuid.NewString(),
			Name:  name,
			Color: teamColors[(i%teamCount)%len(teamColors)],
			Hand:  []Card{},
		}
	}

	deck := NewDeck()
	ShuffleDeck(deck)

	g := &Game{
		Status:         StatusWaiting,
		Players:        players,
		Board:          NewBoard(),
		Deck:           deck,
		MaxPlayers:     maxPlayers,
		TeamGame:       true,
		TeamCount:      teamCount,
		SequencesToWin: SequencesToWin,
		SequencesByKey: make(map[string]int),
	}

	m.mu.Lock()
	g.ID = m.newGameIDLocked()
	m.games[g.ID] = g
	m.mu.Unlock()

	g.mu.Lock()
	if len(g.Players) == g.MaxPlayers {
		m.startGameLocked(g)
	}
	snap := g.snapshot()
	g.mu.Unlock()

	m.saveActive(ctx, snap)

	m.logger.Info("game created",
		zap.String("game_id", snap.ID),
		zap.Int("players", len(names)),
		zap.Int("max_players", maxPlayers),
		zap.String("status", string(snap.Status)),
	)
	return snap, nil
}

// JoinGame admits a player into a waiting lobby. Joining again with the
// same name is idempotent and returns the current snapshot unchanged. A
// full roster starts the game.
func (m *Manager) JoinGame(ctx context.Context, gameID, playerName string) (Snapshot, string, error) {
	if strings.TrimSpace(playerName) == "" {
		return Snapshot{}, "", ErrNameRequired
	}

	g, err := m.getGame(ctx, gameID)
	if err != nil {
		return Snapshot{}, "", err
	}

	g.mu.Lock()
	if existing := g.playerByName(playerName); existing != nil {
		snap := g.snapshot()
		id := existing.ID
		g.mu.Unlock()
		return snap, id, nil
	}
	if g.Status != StatusWaiting {
		g.mu.Unlock()
		return Snapshot{}, "", ErrGameAlreadyStarted
	}
	if len(g.Players) >= g.MaxPlayers {
		g.mu.Unlock()
		return Snapshot{}, "", ErrLobbyFull
	}

	seat := len(g.Players)
	p := &Player{
		ID:    uuid.NewString(),
		Name:  playerName,
		Color: teamColors[(seat%g.TeamCount)%len(teamColors)],
		Hand:  []Card{},
	}
	g.Players = append(g.Players, p)

	if len(g.Players) == g.MaxPlayers {
		m.startGameLocked(g)
	}
	snap := g.snapshot()
	g.mu.Unlock()

	m.saveActive(ctx, snap)

	m.logger.Info("player joined",
		zap.String("game_id", gameID),
		zap.String("player", playerName),
		zap.String("status", string(snap.Status)),
	)
	return snap, p.ID, nil
}

// RejoinGame resolves a previously issued session token (the player id)
// back to the live snapshot.
func (m *Manager) RejoinGame(ctx context.Context, gameID, sessionToken string) (Snapshot, string, error) {
	if strings.TrimSpace(sessionToken) == "" {
		return Snapshot{}, "", ErrTokenRequired
	}

	g, err := m.getGame(ctx, gameID)
	if err != nil {
		return Snapshot{}, "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.playerByID(sessionToken)
	if p == nil {
		return Snapshot{}, "", ErrSessionNotFound
	}
	return g.snapshot(), p.ID, nil
}

// GetGame returns the current snapshot of a live game.
func (m *Manager) GetGame(ctx context.Context, gameID string) (Snapshot, error) {
	g, err := m.getGame(ctx, gameID)
	if err != nil {
		return Snapshot{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot(), nil
}

// MakeMove applies one place/remove action for the acting player. A passed
// turn deadline or a stuck current seat resolves first and pre-empts the
// requested action without error.
func (m *Manager) MakeMove(ctx context.Context, gameID, playerID string, card Card, x, y int) (Snapshot, error) {
	g, err := m.getGame(ctx, gameID)
	if err != nil {
		return Snapshot{}, err
	}
	now := m.now()

	g.mu.Lock()
	if g.Status != StatusStarted {
		g.mu.Unlock()
		return Snapshot{}, ErrGameNotStarted
	}
	if g.handleTimeoutIfNeeded(now) {
		snap := g.snapshot()
		g.mu.Unlock()
		m.finalize(ctx, snap)
		return snap, nil
	}
	if g.skipIfStuck(now) {
		snap := g.snapshot()
		g.mu.Unlock()
		m.saveActive(ctx, snap)
		return snap, nil
	}
	if err := g.makeMove(playerID, card, x, y, now); err != nil {
		g.mu.Unlock()
		return Snapshot{}, err
	}
	snap := g.snapshot()
	finished := g.Status == StatusFinished
	handSize := len(g.playerByID(playerID).Hand)
	g.mu.Unlock()

	m.logger.Debug("hand updated",
		zap.String("action", "move"),
		zap.String("game_id", gameID),
		zap.String("player_id", playerID),
		zap.Int("hand_size", handSize),
	)

	if finished {
		m.finalize(ctx, snap)
	} else {
		m.saveActive(ctx, snap)
	}
	return snap, nil
}

// ExchangeDeadCard swaps a dead hand card for a fresh draw, at most once
// per turn. The turn does not advance.
func (m *Manager) ExchangeDeadCard(ctx context.Context, gameID, playerID string, card Card) (Snapshot, error) {
	g, err := m.getGame(ctx, gameID)
	if err != nil {
		return Snapshot{}, err
	}
	now := m.now()

	g.mu.Lock()
	if g.Status != StatusStarted {
		g.mu.Unlock()
		return Snapshot{}, ErrGameNotStarted
	}
	if g.handleTimeoutIfNeeded(now) {
		snap := g.snapshot()
		g.mu.Unlock()
		m.finalize(ctx, snap)
		return snap, nil
	}
	if g.skipIfStuck(now) {
		snap := g.snapshot()
		g.mu.Unlock()
		m.saveActive(ctx, snap)
		return snap, nil
	}
	if err := g.exchangeDeadCard(playerID, card, now); err != nil {
		g.mu.Unlock()
		return Snapshot{}, err
	}
	snap := g.snapshot()
	finished := g.Status == StatusFinished
	handSize := len(g.playerByID(playerID).Hand)
	g.mu.Unlock()

	m.logger.Debug("hand updated",
		zap.String("action", "exchange"),
		zap.String("game_id", gameID),
		zap.String("player_id", playerID),
		zap.Int("hand_size", handSize),
	)

	if finished {
		m.finalize(ctx, snap)
	} else {
		m.saveActive(ctx, snap)
	}
	return snap, nil
}

// SkipTurnIfStuck advances the turn when the acting seat genuinely has no
// playable card and no usable exchange.
func (m *Manager) SkipTurnIfStuck(ctx context.Context, gameID, playerID string) (Snapshot, error) {
	g, err := m.getGame(ctx, gameID)
	if err != nil {
		return Snapshot{}, err
	}
	now := m.now()

	g.mu.Lock()
	if g.Status != StatusStarted {
		g.mu.Unlock()
		return Snapshot{}, ErrGameNotStarted
	}
	if g.handleTimeoutIfNeeded(now) {
		snap := g.snapshot()
		g.mu.Unlock()
		m.finalize(ctx, snap)
		return snap, nil
	}
	if err := g.skipTurn(playerID, now); err != nil {
		g.mu.Unlock()
		return Snapshot{}, err
	}
	snap := g.snapshot()
	g.mu.Unlock()

	m.saveActive(ctx, snap)
	return snap, nil
}

// FinishExpiredGames sweeps all live games and force-finalizes any whose
// turn deadline has passed. Returns the terminal snapshots for broadcast.
func (m *Manager) FinishExpiredGames(ctx context.Context) []Snapshot {
	m.mu.RLock()
	live := make([]*Game, 0, len(m.games))
	for _, g := range m.games {
		live = append(live, g)
	}
	m.mu.RUnlock()

	now := m.now()
	var finished []Snapshot
	for _, g := range live {
		g.mu.Lock()
		if !g.handleTimeoutIfNeeded(now) {
			g.mu.Unlock()
			continue
		}
		snap := g.snapshot()
		g.mu.Unlock()

		m.finalize(ctx, snap)
		finished = append(finished, snap)
	}
	return finished
}

// GetActiveGameCount returns the number of live games in the registry.
func (m *Manager) GetActiveGameCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// startGameLocked deals hands and opens the first turn. Caller holds the
// game lock.
func (m *Manager) startGameLocked(g *Game) {
	g.Status = StatusStarted
	g.CurrentPlayerIndex = 0

	ShuffleDeck(g.Deck)
	for _, p := range g.Players {
		g.drawCards(p, HandSize)
	}

	g.TurnDeadlineEpochMs = m.now().Add(TurnDuration).UnixMilli()
	g.ExchangeUsed = false
	g.SequencesByKey = make(map[string]int)

	m.logger.Info("game started",
		zap.String("game_id", g.ID),
		zap.Int("players", len(g.Players)),
		zap.Int("deck_size", len(g.Deck)),
	)
}

// getGame resolves a live game, falling back to the mirror on a registry
// miss so a rejoin can land on any instance.
func (m *Manager) getGame(ctx context.Context, gameID string) (*Game, error) {
	m.mu.RLock()
	g, ok := m.games[gameID]
	m.mu.RUnlock()
	if ok {
		return g, nil
	}

	if m.mirror == nil {
		return nil, ErrGameNotFound
	}
	snap, found, err := m.mirror.Load(ctx, gameID)
	if err != nil {
		m.logger.Warn("mirror load failed",
			zap.String("game_id", gameID),
			zap.Error(err),
		)
		return nil, ErrGameNotFound
	}
	if !found {
		return nil, ErrGameNotFound
	}

	restored := gameFromSnapshot(snap)
	m.mu.Lock()
	if existing, ok := m.games[gameID]; ok {
		// Lost the race against a concurrent restore.
		restored = existing
	} else {
		m.games[gameID] = restored
	}
	m.mu.Unlock()

	m.logger.Info("game restored from mirror", zap.String("game_id", gameID))
	return restored, nil
}

// saveActive mirrors a live snapshot; mirror failures are logged, never
// surfaced to the caller.
func (m *Manager) saveActive(ctx context.Context, snap Snapshot) {
	if m.mirror == nil {
		return
	}
	if err := m.mirror.Save(ctx, snap); err != nil {
		m.logger.Warn("mirror save failed",
			zap.String("game_id", snap.ID),
			zap.Error(err),
		)
	}
}

// finalize archives a terminal snapshot and removes the game from the live
// registry and the mirror. The archive write is best-effort; removal from
// the registry is authoritative and happens regardless.
func (m *Manager) finalize(ctx context.Context, snap Snapshot) {
	if m.archive != nil {
		if payload, err := json.Marshal(snap); err != nil {
			m.logger.Error("failed to serialize finished game",
				zap.String("game_id", snap.ID),
				zap.Error(err),
			)
		} else if err := m.archive.SaveFinished(ctx, snap.ID, payload, m.now()); err != nil {
			m.logger.Error("failed to archive finished game",
				zap.String("game_id", snap.ID),
				zap.Error(err),
			)
		}
	}

	m.mu.Lock()
	delete(m.games, snap.ID)
	m.mu.Unlock()

	if m.mirror != nil {
		if err := m.mirror.Delete(ctx, snap.ID); err != nil {
			m.logger.Warn("mirror delete failed",
				zap.String("game_id", snap.ID),
				zap.Error(err),
			)
		}
	}

	m.logger.Info("game finalized",
		zap.String("game_id", snap.ID),
		zap.String("result", string(snap.Result)),
		zap.String("winner_key", snap.WinnerKey),
	)
}

// newGameIDLocked generates a fresh short id. Caller holds the registry
// lock. Falls back to a uuid if the short space is somehow exhausted.
func (m *Manager) newGameIDLocked() string {
	for attempt := 0; attempt < 1000; attempt++ {
		b := make([]byte, gameIDLength)
		for i := range b {
			b[i] = gameIDAlphabet[rand.Intn(len(gameIDAlphabet))]
		}
		id := string(b)
		if _, taken := m.games[id]; !taken {
			return id
		}
	}
	return uuid.NewString()
}
