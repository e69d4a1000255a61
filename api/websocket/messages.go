package websocket

import (
	"encoding/json"
	"time"

	"github.com/OldStager01/cardio-risk/pkg/models"
)

type MessageType string

const (
	MessageTypeStage        MessageType = "stage"
	MessageTypeCompleted    MessageType = "inference_completed"
	MessageTypeFailed       MessageType = "inference_failed"
	MessageTypeModel        MessageType = "model_loaded"
	MessageTypeSubscription MessageType = "subscription_update"
)

type OutgoingMessage struct {
	Type      MessageType `json:"type"`
	TraceID   string      `json:"trace_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Severity  string      `json:"severity,omitempty"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

func NewMessage(msgType MessageType, traceID string, data interface{}) *OutgoingMessage {
	return &OutgoingMessage{
		Type:      msgType,
		TraceID:   traceID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

func (m *OutgoingMessage) JSON() []byte {
	data, _ := json.Marshal(m)
	return data
}

type SubscriptionData struct {
	Action string `json:"action"`
}

// FromEvent converts a bus event to its client message. Events without a
// client-facing type yield nil.
func FromEvent(event *models.Event) *OutgoingMessage {
	msgType := mapEventType(event.Type)
	if msgType == "" {
		return nil
	}
	return &OutgoingMessage{
		Type:      msgType,
		TraceID:   event.TraceID,
		Timestamp: event.Timestamp,
		Severity:  string(event.Severity),
		Message:   event.Message,
		Data:      event.Data,
	}
}

func mapEventType(eventType models.EventType) MessageType {
	switch eventType {
	case models.EventTypeStageChanged:
		return MessageTypeStage
	case models.EventTypeInferenceCompleted:
		return MessageTypeCompleted
	case models.EventTypeInferenceFailed:
		return MessageTypeFailed
	case models.EventTypeArtifactsLoaded:
		return MessageTypeModel
	}
	return ""
}
