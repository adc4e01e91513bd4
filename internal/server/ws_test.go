package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildjack/wildjack-server/internal/game"
)

func dialGame(t *testing.T, ts *httptest.Server, gameID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/" + gameID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) game.Snapshot {
	t.Helper()
	var snap game.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	return snap
}

func TestWebSocket_InitialSnapshotAndMove(t *testing.T) {
	r, _ := newTestRouter(t)
	ts := httptest.NewServer(r)
	defer ts.Close()

	created := decodeSnapshot(t, doJSON(t, r, http.MethodPost, "/api/games/create", []string{"Alice", "Bob"}))
	alice := created.Players[0]

	conn := dialGame(t, ts, created.ID)
	initial := readSnapshot(t, conn)
	assert.Equal(t, created.ID, initial.ID)
	assert.Equal(t, game.StatusStarted, initial.Status)

	var msg MoveMessage
	for _, card := range alice.Hand {
		if card.IsTwoEyedJack() {
			msg = MoveMessage{PlayerID: alice.ID, Card: &card, X: 4, Y: 4}
			break
		}
		if card.IsOneEyedJack() {
			continue
		}
		if x, y, ok := freeCellShowing(created.Board, card); ok {
			msg = MoveMessage{PlayerID: alice.ID, Card: &card, X: x, Y: y}
			break
		}
	}
	require.NotNil(t, msg.Card, "no playable card in the opening hand")

	// GameID is omitted on purpose: the path parameter fills it in. Action
	// defaults to MOVE.
	require.NoError(t, conn.WriteJSON(msg))

	updated := readSnapshot(t, conn)
	assert.Equal(t, 1, updated.CurrentPlayerIndex)
	require.NotNil(t, updated.LastMove)
	assert.Equal(t, alice.ID, updated.LastMove.PlayerID)
}

func TestWebSocket_BroadcastReachesAllSubscribers(t *testing.T) {
	r, _ := newTestRouter(t)
	ts := httptest.NewServer(r)
	defer ts.Close()

	created := decodeSnapshot(t, doJSON(t, r, http.MethodPost, "/api/games/create", []string{"Alice", "Bob"}))
	alice := created.Players[0]

	sender := dialGame(t, ts, created.ID)
	watcher := dialGame(t, ts, created.ID)
	readSnapshot(t, sender)
	readSnapshot(t, watcher)

	var card *game.Card
	var x, y int
	for _, c := range alice.Hand {
		if c.IsTwoEyedJack() {
			card, x, y = &c, 4, 4
			break
		}
		if c.IsOneEyedJack() {
			continue
		}
		if fx, fy, ok := freeCellShowing(created.Board, c); ok {
			card, x, y = &c, fx, fy
			break
		}
	}
	require.NotNil(t, card)

	require.NoError(t, sender.WriteJSON(MoveMessage{PlayerID: alice.ID, Card: card, X: x, Y: y}))

	fromSender := readSnapshot(t, sender)
	fromWatcher := readSnapshot(t, watcher)
	assert.Equal(t, fromSender.CurrentPlayerIndex, fromWatcher.CurrentPlayerIndex)
	assert.Equal(t, 1, fromWatcher.CurrentPlayerIndex)
}

func TestWebSocket_ErrorGoesOnlyToSender(t *testing.T) {
	r, _ := newTestRouter(t)
	ts := httptest.NewServer(r)
	defer ts.Close()

	created := decodeSnapshot(t, doJSON(t, r, http.MethodPost, "/api/games/create", []string{"Alice", "Bob"}))
	bob := created.Players[1]

	conn := dialGame(t, ts, created.ID)
	readSnapshot(t, conn)

	jack := game.Card{Rank: "J", Suit: game.SuitDiamonds}
	require.NoError(t, conn.WriteJSON(MoveMessage{PlayerID: bob.ID, Card: &jack, X: 4, Y: 4}))

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "not your turn", resp.Error)
}

func TestWebSocket_UnknownAction(t *testing.T) {
	r, _ := newTestRouter(t)
	ts := httptest.NewServer(r)
	defer ts.Close()

	created := decodeSnapshot(t, doJSON(t, r, http.MethodPost, "/api/games/create", []string{"Alice", "Bob"}))

	conn := dialGame(t, ts, created.ID)
	readSnapshot(t, conn)

	require.NoError(t, conn.WriteJSON(MoveMessage{Action: "DANCE"}))

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "unknown action: DANCE", resp.Error)
}
