package models

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeArtifactsLoaded    EventType = "artifacts_loaded"
	EventTypeStageChanged       EventType = "stage_changed"
	EventTypeInferenceCompleted EventType = "inference_completed"
	EventTypeInferenceFailed    EventType = "inference_failed"
)

type EventSeverity string

const (
	SeverityInfo     EventSeverity = "info"
	SeverityWarning  EventSeverity = "warning"
	SeverityCritical EventSeverity = "critical"
)

// Stage is a state of the inference pipeline.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageEncoding    Stage = "encoding"
	StageScaling     Stage = "scaling"
	StageClassifying Stage = "classifying"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// Event represents an internal system event
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Severity  EventSeverity `json:"severity"`
	TraceID   string        `json:"trace_id,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Message   string        `json:"message"`
	Data      interface{}   `json:"data,omitempty"`
}

func NewEvent(eventType EventType, traceID, message string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Severity:  SeverityInfo,
		TraceID:   traceID,
		Timestamp: time.Now(),
		Message:   message,
	}
}

func (e *Event) WithSeverity(severity EventSeverity) *Event {
	e.Severity = severity
	return e
}

func (e *Event) WithData(data interface{}) *Event {
	e.Data = data
	return e
}

// StageTransition is the payload of a stage_changed event.
type StageTransition struct {
	From Stage `json:"from"`
	To   Stage `json:"to"`
}

// InferenceFailure is the payload of an inference_failed event.
type InferenceFailure struct {
	Stage Stage  `json:"stage"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}
