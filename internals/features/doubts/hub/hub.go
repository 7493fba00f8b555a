// Package hub is the in-memory relay behind the chat socket. Rooms are keyed
// by user or subject id; one connection may sit in many rooms. Everything is
// lost on restart by construction: persistence belongs to the doubts
// collection, the hub only fans out.
package hub

import (
	"sync"

	"github.com/gofiber/websocket/v2"
)

type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*websocket.Conn]bool
	// one write lock per connection: every read loop may trigger a
	// broadcast, and concurrent writers on one websocket are forbidden
	writers map[*websocket.Conn]*sync.Mutex
}

func New() *Hub {
	return &Hub{
		rooms:   make(map[string]map[*websocket.Conn]bool),
		writers: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (h *Hub) Join(room string, conn *websocket.Conn) {
	if room == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*websocket.Conn]bool)
	}
	h.rooms[room][conn] = true
	if h.writers[conn] == nil {
		h.writers[conn] = &sync.Mutex{}
	}
}

// Leave drops the connection from every room it joined.
func (h *Hub) Leave(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, conns := range h.rooms {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(h.writers, conn)
}

// Broadcast sends one envelope to the union of the given rooms. A connection
// sitting in several of them still receives a single copy.
func (h *Hub) Broadcast(rooms []string, env Envelope) {
	h.mu.RLock()
	targets := make(map[*websocket.Conn]*sync.Mutex)
	for _, room := range rooms {
		for conn := range h.rooms[room] {
			targets[conn] = h.writers[conn]
		}
	}
	h.mu.RUnlock()

	for conn, wmu := range targets {
		if wmu == nil {
			continue
		}
		// write errors mean the peer is gone; the read loop cleans up
		wmu.Lock()
		_ = conn.WriteJSON(env)
		wmu.Unlock()
	}
}

func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
