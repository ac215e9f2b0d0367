package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/jpalmerr/outreach/internal/store"
)

// hubBroadcastBuffer is the number of pending broadcasts held before new
// ones are dropped.
const hubBroadcastBuffer = 256

// StatusUpdater applies a status change requested by a WebSocket client.
type StatusUpdater interface {
	UpdateStatus(id string, status store.Status) (store.School, bool)
}

// wsEvent is the envelope sent to and received from WebSocket clients.
type wsEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub maintains the set of active WebSocket clients and broadcasts events.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	updater    StatusUpdater
	log        *slog.Logger
}

// NewHub creates a new Hub. updater may be nil, in which case client
// messages are ignored.
func NewHub(updater StatusUpdater, log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, hubBroadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		updater:    updater,
		log:        log,
	}
}

// Run starts the hub's event loop and blocks until ctx is cancelled, at
// which point every client is disconnected. Should be called in a goroutine,
// once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// client is too slow, disconnect it
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a store event to all connected clients. It never blocks;
// if the broadcast buffer is full the event is dropped.
func (h *Hub) Broadcast(e store.Event) {
	data, err := json.Marshal(wsEvent{Type: string(e.Kind), Data: e})
	if err != nil {
		h.log.Error("failed to encode ws event", "error", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.log.Warn("ws broadcast buffer full, dropping event", "kind", e.Kind, "school_id", e.SchoolID)
	}
}

// join registers a client unless the hub has stopped.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave unregisters a client unless the hub has stopped.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// clientEvent represents an incoming WebSocket message from a client.
type clientEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandleClientMessage parses and dispatches an incoming message from a client.
//
// The only supported message is
//
//	{"type": "update_status", "data": {"id": "...", "status": "called"}}
//
// The resulting store event reaches every client through the normal
// broadcast path.
func (h *Hub) HandleClientMessage(raw []byte) {
	if h.updater == nil {
		return
	}

	var event clientEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		h.log.Warn("failed to parse client ws message", "error", err)
		return
	}

	switch event.Type {
	case "update_status":
		var data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil {
			h.log.Warn("failed to parse update_status data", "error", err)
			return
		}

		status, err := store.ParseStatus(data.Status)
		if err != nil {
			h.log.Warn("ws update_status rejected", "school_id", data.ID, "error", err)
			return
		}
		if _, ok := h.updater.UpdateStatus(data.ID, status); !ok {
			h.log.Warn("ws update_status for unknown school", "school_id", data.ID)
		}

	default:
		h.log.Debug("ignoring ws message", "type", event.Type)
	}
}
