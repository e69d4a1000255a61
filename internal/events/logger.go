package events

import (
	"context"

	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

// EventLogger writes every event it receives to the structured log.
type EventLogger struct {
	eventChan <-chan *models.Event
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewEventLogger(eventChan <-chan *models.Event) *EventLogger {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventLogger{
		eventChan: eventChan,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

func (l *EventLogger) Start() {
	go l.run()
}

// Stop ends the logger and waits for it to return.
func (l *EventLogger) Stop() {
	l.cancel()
	<-l.done
}

func (l *EventLogger) run() {
	defer close(l.done)
	for {
		select {
		case <-l.ctx.Done():
			return
		case event, ok := <-l.eventChan:
			if !ok {
				return
			}
			l.processEvent(event)
		}
	}
}

func (l *EventLogger) processEvent(event *models.Event) {
	entry := logger.WithFields(map[string]interface{}{
		"event_type": event.Type,
		"severity":   event.Severity,
		"trace_id":   event.TraceID,
	})

	switch data := event.Data.(type) {
	case models.StageTransition:
		entry = entry.WithField("from", data.From).WithField("to", data.To)
	case models.InferenceFailure:
		entry = entry.WithField("stage", data.Stage).WithField("kind", data.Kind)
	case *models.PredictionResult:
		entry = entry.WithField("label", data.Label).WithField("confidence", data.Confidence)
	}

	switch event.Severity {
	case models.SeverityCritical:
		entry.Error(event.Message)
	case models.SeverityWarning:
		entry.Warn(event.Message)
	default:
		if event.Type == models.EventTypeStageChanged {
			entry.Debug(event.Message)
			return
		}
		entry.Info(event.Message)
	}
}
