package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/wildjack/wildjack-server/internal/config"
	"github.com/wildjack/wildjack-server/internal/game"
	"go.uber.org/zap"
)

// RedisMirror keeps the latest snapshot of every live game in Redis so a
// second instance can serve a rejoin after a registry miss. Implements
// game.Mirror.
type RedisMirror struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisMirror connects to Redis and verifies the connection.
func NewRedisMirror(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*RedisMirror, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisMirror{client: client, logger: logger}, nil
}

// Save stores the snapshot under the game's key. Live games only: the key
// is removed on finalization.
func (m *RedisMirror) Save(ctx context.Context, snap game.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", snap.ID, err)
	}
	if err := m.client.Set(ctx, gameKey(snap.ID), payload, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", gameKey(snap.ID), err)
	}
	return nil
}

// Load fetches a mirrored snapshot. The second return is false when the
// game is not mirrored.
func (m *RedisMirror) Load(ctx context.Context, gameID string) (game.Snapshot, bool, error) {
	payload, err := m.client.Get(ctx, gameKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return game.Snapshot{}, false, nil
	}
	if err != nil {
		return game.Snapshot{}, false, fmt.Errorf("get %s: %w", gameKey(gameID), err)
	}

	var snap game.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return game.Snapshot{}, false, fmt.Errorf("unmarshal snapshot %s: %w", gameID, err)
	}
	return snap, true, nil
}

// Delete drops a finalized game's key.
func (m *RedisMirror) Delete(ctx context.Context, gameID string) error {
	if err := m.client.Del(ctx, gameKey(gameID)).Err(); err != nil {
		return fmt.Errorf("del %s: %w", gameKey(gameID), err)
	}
	return nil
}

// Close releases the client.
func (m *RedisMirror) Close() error {
	return m.client.Close()
}

func gameKey(gameID string) string {
	return "game:" + gameID
}
