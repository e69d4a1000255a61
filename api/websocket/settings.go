package websocket

import (
	"time"

	"github.com/OldStager01/cardio-risk/pkg/config"
)

// WebSocketSettings are the effective connection limits after defaults.
type WebSocketSettings struct {
	WriteWait       time.Duration
	PongWait        time.Duration
	PingPeriod      time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	ClientBuffer    int
	MaxConnections  int
}

func NewWebSocketSettings(cfg *config.WebSocketConfig) *WebSocketSettings {
	s := &WebSocketSettings{
		WriteWait:       10 * time.Second,
		PongWait:        60 * time.Second,
		MaxMessageSize:  512,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		ClientBuffer:    256,
	}

	if cfg != nil {
		if cfg.WriteTimeout > 0 {
			s.WriteWait = cfg.WriteTimeout
		}
		if cfg.PongTimeout > 0 {
			s.PongWait = cfg.PongTimeout
		}
		if cfg.MaxMessageSize > 0 {
			s.MaxMessageSize = cfg.MaxMessageSize
		}
		if cfg.ReadBufferSize > 0 {
			s.ReadBufferSize = cfg.ReadBufferSize
		}
		if cfg.WriteBufferSize > 0 {
			s.WriteBufferSize = cfg.WriteBufferSize
		}
		if cfg.ClientBuffer > 0 {
			s.ClientBuffer = cfg.ClientBuffer
		}
		s.MaxConnections = cfg.MaxConnections
		s.PingPeriod = cfg.PingInterval
	}

	// Pings must go out before the peer's pong deadline.
	if s.PingPeriod <= 0 || s.PingPeriod >= s.PongWait {
		s.PingPeriod = (s.PongWait * 9) / 10
	}
	return s
}
