package websocket

import (
	"context"
	"encoding/json"

	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

// EventBridge forwards pipeline events to WebSocket clients. Events that
// arrive while nobody is connected are discarded.
type EventBridge struct {
	hub        *Hub
	eventsChan <-chan *models.Event
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewEventBridge(hub *Hub, eventsChan <-chan *models.Event) *EventBridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBridge{
		hub:        hub,
		eventsChan: eventsChan,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

func (b *EventBridge) Start() {
	go b.run()
	logger.Info("WebSocket event bridge started")
}

// Stop cancels the bridge and waits for it to exit.
func (b *EventBridge) Stop() {
	b.cancel()
	<-b.done
	logger.Info("WebSocket event bridge stopped")
}

func (b *EventBridge) run() {
	defer close(b.done)
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.eventsChan:
			if !ok {
				logger.Info("Event channel closed, stopping bridge")
				return
			}
			b.forwardEvent(event)
		}
	}
}

func (b *EventBridge) forwardEvent(event *models.Event) {
	if b.hub.ClientCount() == 0 {
		return
	}

	msg := FromEvent(event)
	if msg == nil {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		logger.Errorf("Failed to marshal WebSocket message: %v", err)
		return
	}

	b.hub.Broadcast(event.TraceID, data)
}
