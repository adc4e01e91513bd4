package server

import (
	"context"
	"time"

	"github.com/wildjack/wildjack-server/internal/broadcast"
	"github.com/wildjack/wildjack-server/internal/game"
	"go.uber.org/zap"
)

// Sweeper periodically force-finalizes games whose turn deadline has
// passed and broadcasts the terminal snapshots. Its per-game unit of work
// is one engine mutation; it never holds a game's lock longer than that.
type Sweeper struct {
	games    *game.Manager
	hub      *broadcast.Hub
	interval time.Duration
	logger   *zap.Logger
}

// NewSweeper creates the timeout sweeper.
func NewSweeper(games *game.Manager, hub *broadcast.Hub, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Second
	}
	return &Sweeper{games: games, hub: hub, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled, sweeping on every tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, snap := range s.games.FinishExpiredGames(ctx) {
				s.logger.Info("game finished by timeout",
					zap.String("game_id", snap.ID),
					zap.String("winner_key", snap.WinnerKey),
				)
				s.hub.Broadcast(snap)
			}
		}
	}
}
