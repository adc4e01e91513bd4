package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrFinishedGameNotFound signals an absent archive record.
var ErrFinishedGameNotFound = errors.New("finished game not found")

// FinishedGame is one archived terminal snapshot.
type FinishedGame struct {
	ID         string
	Payload    []byte
	FinishedAt time.Time
}

// FinishedGameRepository archives the terminal snapshot of every finalized
// game. Implements the game.Archiver interface.
type FinishedGameRepository struct {
	db *DB
}

// NewFinishedGameRepository creates the archive repository.
func NewFinishedGameRepository(db *DB) *FinishedGameRepository {
	return &FinishedGameRepository{db: db}
}

// SaveFinished writes the archive record. Finalization happens exactly once
// per game, so a conflicting id is left untouched.
func (r *FinishedGameRepository) SaveFinished(ctx context.Context, gameID string, payload []byte, finishedAt time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO finished_games (id, payload, finished_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO NOTHING`,
		gameID, payload, finishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert finished game %s: %w", gameID, err)
	}
	return nil
}

// GetFinished loads one archived game by id.
func (r *FinishedGameRepository) GetFinished(ctx context.Context, gameID string) (*FinishedGame, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT id, payload, finished_at FROM finished_games WHERE id = $1`,
		gameID,
	)

	var fg FinishedGame
	if err := row.Scan(&fg.ID, &fg.Payload, &fg.FinishedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFinishedGameNotFound
		}
		return nil, fmt.Errorf("query finished game %s: %w", gameID, err)
	}
	return &fg, nil
}

// ListRecent returns the most recently finished games, newest first.
func (r *FinishedGameRepository) ListRecent(ctx context.Context, limit int) ([]FinishedGame, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, payload, finished_at FROM finished_games
		 ORDER BY finished_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent finished games: %w", err)
	}
	defer rows.Close()

	var games []FinishedGame
	for rows.Next() {
		var fg FinishedGame
		if err := rows.Scan(&fg.ID, &fg.Payload, &fg.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan finished game: %w", err)
		}
		games = append(games, fg)
	}
	return games, rows.Err()
}
