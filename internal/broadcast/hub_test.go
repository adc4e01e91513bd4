package broadcast

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestHub_SubscribeUnsubscribe(t *testing.T) {
	h := NewHub(zaptest.NewLogger(t))
	a := &websocket.Conn{}
	b := &websocket.Conn{}

	assert.Equal(t, 0, h.SubscriberCount("ABCDE"))

	h.Subscribe("ABCDE", a)
	h.Subscribe("ABCDE", b)
	h.Subscribe("ABCDE", b) // re-subscribing is a no-op
	assert.Equal(t, 2, h.SubscriberCount("ABCDE"))

	h.Subscribe("FGHJK", a)
	assert.Equal(t, 1, h.SubscriberCount("FGHJK"), "topics are independent")

	h.Unsubscribe("ABCDE", a)
	assert.Equal(t, 1, h.SubscriberCount("ABCDE"))

	h.Unsubscribe("ABCDE", b)
	assert.Equal(t, 0, h.SubscriberCount("ABCDE"))

	// Unsubscribing from an empty or unknown topic must not panic.
	h.Unsubscribe("ABCDE", b)
	h.Unsubscribe("ZZZZZ", a)
}
