package main

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Multiplayer rooms are not implemented; this endpoint exists so clients
// can probe for them. It accepts connections, answers pings, and tells
// joiners the lobby is single-player only.

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type roomHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

type roomMessage struct {
	Type string `json:"type"`
	Room string `json:"room,omitempty"`
}

func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	h.room.mu.Lock()
	if h.room.clients == nil {
		h.room.clients = map[*websocket.Conn]bool{}
	}
	h.room.clients[conn] = true
	h.room.mu.Unlock()
	defer func() {
		h.room.mu.Lock()
		delete(h.room.clients, conn)
		h.room.mu.Unlock()
	}()

	for {
		var msg roomMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "ping":
			_ = conn.WriteJSON(roomMessage{Type: "pong"})
		case "join_room":
			_ = conn.WriteJSON(roomMessage{Type: "room_unavailable", Room: msg.Room})
		default:
			_ = conn.WriteJSON(roomMessage{Type: "error"})
		}
	}
}
