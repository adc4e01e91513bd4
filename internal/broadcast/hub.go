package broadcast

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/wildjack/wildjack-server/internal/game"
	"go.uber.org/zap"
)

// Hub fans game snapshots out to WebSocket subscribers. One topic per game
// id: every subscriber of a game receives every post-mutation snapshot.
type Hub struct {
	mu     sync.Mutex
	topics map[string]map[*websocket.Conn]bool
	logger *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		topics: make(map[string]map[*websocket.Conn]bool),
		logger: logger,
	}
}

// Subscribe registers a connection on a game's topic.
func (h *Hub) Subscribe(gameID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.topics[gameID] == nil {
		h.topics[gameID] = make(map[*websocket.Conn]bool)
	}
	h.topics[gameID][conn] = true
}

// Unsubscribe removes a connection from a game's topic.
func (h *Hub) Unsubscribe(gameID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.topics[gameID], conn)
	if len(h.topics[gameID]) == 0 {
		delete(h.topics, gameID)
	}
}

// Broadcast pushes a snapshot to every subscriber of its game. Write
// failures drop the connection from the topic; the read loop notices on
// its side and cleans up.
func (h *Hub) Broadcast(snap game.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.topics[snap.ID] {
		if err := conn.WriteJSON(snap); err != nil {
			h.logger.Debug("dropping dead subscriber",
				zap.String("game_id", snap.ID),
				zap.Error(err),
			)
			delete(h.topics[snap.ID], conn)
		}
	}
}

// SubscriberCount reports the number of connections on a game's topic.
func (h *Hub) SubscriberCount(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[gameID])
}
