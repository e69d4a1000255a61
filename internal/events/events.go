package events

import (
	"sync"
	"sync/atomic"

	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

type EventBus struct {
	subscribers map[models.EventType][]chan *models.Event
	allChans    []chan *models.Event // Track channels from SubscribeAll
	mu          sync.RWMutex
	bufferSize  int
	closed      bool
	dropped     atomic.Uint64
}

func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &EventBus{
		subscribers: make(map[models.EventType][]chan *models.Event),
		allChans:    make([]chan *models.Event, 0),
		bufferSize:  bufferSize,
	}
}

func (b *EventBus) Subscribe(eventType models.EventType) <-chan *models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan *models.Event, b.bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	return ch
}

func (b *EventBus) SubscribeAll() <-chan *models.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan *models.Event, b.bufferSize)
	if b.closed {
		close(ch)
		return ch
	}

	for _, eventType := range AllEventTypes() {
		b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	}

	b.allChans = append(b.allChans, ch)
	return ch
}

// Publish never blocks: a subscriber with a full buffer misses the event.
func (b *EventBus) Publish(event *models.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subscribers[event.Type] {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
			logger.Warnf("Event channel full, dropping event: %s", event.Type)
		}
	}
}

// Dropped reports how many deliveries were skipped because a subscriber was full.
func (b *EventBus) Dropped() uint64 {
	return b.dropped.Load()
}

func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	closedChans := make(map[chan *models.Event]bool)
	for _, ch := range b.allChans {
		close(ch)
		closedChans[ch] = true
	}

	for _, subscribers := range b.subscribers {
		for _, ch := range subscribers {
			if !closedChans[ch] {
				close(ch)
				closedChans[ch] = true
			}
		}
	}

	b.subscribers = make(map[models.EventType][]chan *models.Event)
	b.allChans = nil
}

func AllEventTypes() []models.EventType {
	return []models.EventType{
		models.EventTypeArtifactsLoaded,
		models.EventTypeStageChanged,
		models.EventTypeInferenceCompleted,
		models.EventTypeInferenceFailed,
	}
}
