package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/wildjack/wildjack-server/internal/game"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// MoveMessage is the push-transport equivalent of the HTTP move endpoints.
// Action selects the operation; card and coordinates apply when relevant.
type MoveMessage struct {
	GameID   string     `json:"gameId"`
	PlayerID string     `json:"playerId"`
	Action   string     `json:"action"`
	Card     *game.Card `json:"card,omitempty"`
	X        int        `json:"x"`
	Y        int        `json:"y"`
}

type wsError struct {
	Error string `json:"error"`
}

// handleWebSocket subscribes the connection to the game's topic and
// dispatches inbound actions. Snapshots fan out to every subscriber;
// errors go only back to the sender.
func (s *Server) handleWebSocket(c *gin.Context) {
	gameID := c.Param("gameId")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s.hub.Subscribe(gameID, conn)
	defer s.hub.Unsubscribe(gameID, conn)

	// New subscribers get the current state immediately.
	if snap, err := s.games.GetGame(c.Request.Context(), gameID); err == nil {
		if err := conn.WriteJSON(snap); err != nil {
			return
		}
	}

	for {
		var msg MoveMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.GameID == "" {
			msg.GameID = gameID
		}

		snap, err := s.dispatch(c.Request.Context(), msg)
		if err != nil {
			if writeErr := conn.WriteJSON(wsError{Error: err.Error()}); writeErr != nil {
				return
			}
			continue
		}
		s.hub.Broadcast(snap)
	}
}

func (s *Server) dispatch(ctx context.Context, msg MoveMessage) (game.Snapshot, error) {
	action := strings.ToUpper(strings.TrimSpace(msg.Action))
	if action == "" {
		action = "MOVE"
	}

	switch action {
	case "EXCHANGE":
		if msg.Card == nil {
			return game.Snapshot{}, game.ErrCardRequired
		}
		return s.games.ExchangeDeadCard(ctx, msg.GameID, msg.PlayerID, *msg.Card)
	case "SKIP":
		return s.games.SkipTurnIfStuck(ctx, msg.GameID, msg.PlayerID)
	case "MOVE":
		if msg.Card == nil {
			return game.Snapshot{}, game.ErrCardRequired
		}
		return s.games.MakeMove(ctx, msg.GameID, msg.PlayerID, *msg.Card, msg.X, msg.Y)
	default:
		return game.Snapshot{}, fmt.Errorf("unknown action: %s", action)
	}
}
