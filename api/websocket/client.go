package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/pkg/validation"
)

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu      sync.RWMutex
	traceID string
}

type IncomingMessage struct {
	Type    string `json:"type"`
	TraceID string `json:"trace_id,omitempty"`
}

func NewClient(hub *Hub, conn *websocket.Conn, traceID string) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, hub.settings.ClientBuffer),
		traceID: traceID,
	}
}

func (c *Client) wants(traceID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.traceID == "" || c.traceID == traceID
}

func (c *Client) filter() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.traceID
}

func (c *Client) setFilter(traceID string) {
	c.mu.Lock()
	c.traceID = traceID
	c.mu.Unlock()
}

func (c *Client) ReadPump() {
	s := c.hub.settings
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(s.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(s.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(s.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Errorf("WebSocket error: %v", err)
			}
			break
		}

		var msg IncomingMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.handleMessage(&msg)
		}
	}
}

func (c *Client) WritePump() {
	s := c.hub.settings
	ticker := time.NewTicker(s.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(s.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One JSON document per frame.
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(s.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *IncomingMessage) {
	switch msg.Type {
	case "subscribe":
		traceID := validation.SanitizeString(msg.TraceID)
		if traceID != "" {
			c.setFilter(traceID)
			logger.Debugf("Client subscribed to trace: %s", traceID)
			c.sendConfirmation("subscribed", traceID)
		}
	case "unsubscribe":
		old := c.filter()
		c.setFilter("")
		c.sendConfirmation("unsubscribed", old)
	}
}

func (c *Client) sendConfirmation(action, traceID string) {
	data, err := json.Marshal(NewMessage(MessageTypeSubscription, traceID, SubscriptionData{Action: action}))
	if err != nil {
		logger.Errorf("Failed to marshal confirmation: %v", err)
		return
	}
	if !c.hub.sendTo(c, data) {
		logger.Warn("Client send channel full, dropping confirmation")
	}
}

// ServeWebSocket upgrades the request and streams pipeline events. The
// trace_id query parameter narrows the stream to one inference.
func ServeWebSocket(hub *Hub) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  hub.settings.ReadBufferSize,
		WriteBufferSize: hub.settings.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return func(c *gin.Context) {
		if hub.Full() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "too many websocket connections", "kind": "ws_limit"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Errorf("WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(hub, conn, validation.SanitizeString(c.Query("trace_id")))
		if !hub.Register(client) {
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	}
}
