package hub

import (
	"testing"

	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinAndLeave(t *testing.T) {
	h := New()
	a := &websocket.Conn{}
	b := &websocket.Conn{}

	h.Join("user-1", a)
	h.Join("user-1", b)
	h.Join("subject-1", a)

	assert.Equal(t, 2, h.RoomSize("user-1"))
	assert.Equal(t, 1, h.RoomSize("subject-1"))

	h.Leave(a)
	assert.Equal(t, 1, h.RoomSize("user-1"))
	assert.Equal(t, 0, h.RoomSize("subject-1"), "empty rooms are dropped")
}

func TestJoinIgnoresEmptyRoom(t *testing.T) {
	h := New()
	h.Join("", &websocket.Conn{})
	assert.Equal(t, 0, h.RoomSize(""))
}

func TestRejoinIsIdempotent(t *testing.T) {
	h := New()
	a := &websocket.Conn{}

	h.Join("user-1", a)
	h.Join("user-1", a)
	assert.Equal(t, 1, h.RoomSize("user-1"))
}

func TestWriteLockSharedAcrossRooms(t *testing.T) {
	h := New()
	a := &websocket.Conn{}

	h.Join("user-1", a)
	h.Join("subject-1", a)

	h.mu.RLock()
	lock := h.writers[a]
	h.mu.RUnlock()
	require.NotNil(t, lock, "joining must register a write lock")

	// the same connection must serialize on one lock no matter which room
	// the broadcast reaches it through
	h.Join("subject-2", a)
	h.mu.RLock()
	assert.Same(t, lock, h.writers[a])
	h.mu.RUnlock()

	h.Leave(a)
	h.mu.RLock()
	assert.Nil(t, h.writers[a], "leaving must release the write lock")
	h.mu.RUnlock()
}
