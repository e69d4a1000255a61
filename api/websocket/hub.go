package websocket

import (
	"sync"

	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/pkg/config"
)

const defaultBroadcastBuffer = 256

type outbound struct {
	traceID string
	data    []byte
}

// Hub fans pipeline messages out to connected clients. Clients without a
// trace filter receive everything.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
	settings   *WebSocketSettings
}

func NewHub(cfg *config.WebSocketConfig) *Hub {
	settings := NewWebSocketSettings(cfg)

	broadcastBuffer := defaultBroadcastBuffer
	if cfg != nil && cfg.BroadcastBuffer > 0 {
		broadcastBuffer = cfg.BroadcastBuffer
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan outbound, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		settings:   settings,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
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
			logger.Infof("WebSocket client connected (total: %d)", h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logger.Infof("WebSocket client disconnected (total: %d)", h.ClientCount())

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// deliver drops clients whose send buffer is full.
func (h *Hub) deliver(msg outbound) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if !client.wants(msg.traceID) {
			continue
		}
		select {
		case client.send <- msg.data:
		default:
			delete(h.clients, client)
			close(client.send)
			logger.Warn("WebSocket client too slow, disconnected")
		}
	}
}

// sendTo delivers to one registered client without blocking. Holding the
// read lock keeps the hub from closing client.send meanwhile.
func (h *Hub) sendTo(client *Client, data []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[client] {
		return false
	}
	select {
	case client.send <- data:
		return true
	default:
		return false
	}
}

// Broadcast queues a message for every client interested in traceID.
func (h *Hub) Broadcast(traceID string, message []byte) {
	select {
	case h.broadcast <- outbound{traceID: traceID, data: message}:
	default:
		logger.Warn("Broadcast channel full, dropping message")
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Full reports whether the connection limit is reached. Zero means no limit.
func (h *Hub) Full() bool {
	return h.settings.MaxConnections > 0 && h.ClientCount() >= h.settings.MaxConnections
}

// Register returns false once the hub is stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Stop ends Run and closes every client's send channel.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}
