package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wildjack/wildjack-server/internal/broadcast"
	"github.com/wildjack/wildjack-server/internal/game"
	"go.uber.org/zap"
)

// Server carries the transport dependencies: every entry point reaches the
// engine through the game manager and fans results out through the hub.
type Server struct {
	games  *game.Manager
	hub    *broadcast.Hub
	logger *zap.Logger
}

// NewServer creates the transport layer.
func NewServer(games *game.Manager, hub *broadcast.Hub, logger *zap.Logger) *Server {
	return &Server{games: games, hub: hub, logger: logger}
}

// Router builds the gin engine with all HTTP and WebSocket routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	api := r.Group("/api/games")
	{
		api.POST("/create", s.handleCreateGame)
		api.POST("/:gameId/join", s.handleJoinGame)
		api.POST("/:gameId/rejoin", s.handleRejoinGame)
		api.POST("/:gameId/move", s.handleMakeMove)
		api.POST("/:gameId/exchange", s.handleExchange)
		api.POST("/:gameId/skip", s.handleSkip)
		api.GET("/:gameId", s.handleGetGame)
	}

	r.GET("/ws/games/:gameId", s.handleWebSocket)

	return r
}

type moveRequest struct {
	Card *game.Card `json:"card"`
	X    int        `json:"x"`
	Y    int        `json:"y"`
}

type exchangeRequest struct {
	Card *game.Card `json:"card"`
}

type rejoinRequest struct {
	SessionToken string `json:"sessionToken"`
}

type joinResponse struct {
	Game     game.Snapshot `json:"game"`
	PlayerID string        `json:"playerId"`
}

func (s *Server) handleCreateGame(c *gin.Context) {
	var names []string
	if err := c.ShouldBindJSON(&names); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player names required"})
		return
	}

	snap, err := s.games.CreateGame(c.Request.Context(), names)
	if err != nil {
		s.writeError(c, err)
		return
	}

	// Broadcast right away so the creator can subscribe and catch updates.
	s.hub.Broadcast(snap)
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleJoinGame(c *gin.Context) {
	gameID := c.Param("gameId")
	playerName := c.Query("playerName")

	snap, playerID, err := s.games.JoinGame(c.Request.Context(), gameID, playerName)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.hub.Broadcast(snap)
	c.JSON(http.StatusOK, joinResponse{Game: snap, PlayerID: playerID})
}

func (s *Server) handleRejoinGame(c *gin.Context) {
	gameID := c.Param("gameId")

	var req rejoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session token required"})
		return
	}

	snap, playerID, err := s.games.RejoinGame(c.Request.Context(), gameID, req.SessionToken)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, joinResponse{Game: snap, PlayerID: playerID})
}

func (s *Server) handleMakeMove(c *gin.Context) {
	gameID := c.Param("gameId")
	playerID := c.Query("playerId")

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Card == nil {
		s.writeError(c, game.ErrCardRequired)
		return
	}

	snap, err := s.games.MakeMove(c.Request.Context(), gameID, playerID, *req.Card, req.X, req.Y)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.hub.Broadcast(snap)
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleExchange(c *gin.Context) {
	gameID := c.Param("gameId")
	playerID := c.Query("playerId")

	var req exchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Card == nil {
		s.writeError(c, game.ErrCardRequired)
		return
	}

	snap, err := s.games.ExchangeDeadCard(c.Request.Context(), gameID, playerID, *req.Card)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.hub.Broadcast(snap)
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleSkip(c *gin.Context) {
	gameID := c.Param("gameId")
	playerID := c.Query("playerId")

	snap, err := s.games.SkipTurnIfStuck(c.Request.Context(), gameID, playerID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.hub.Broadcast(snap)
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleGetGame(c *gin.Context) {
	snap, err := s.games.GetGame(c.Request.Context(), c.Param("gameId"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// writeError maps the engine's error taxonomy onto HTTP statuses: absent
// entities to 404, malformed input to 400, state violations to 409.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusConflict
	switch {
	case game.IsNotFound(err):
		status = http.StatusNotFound
	case game.IsInvalidInput(err):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
