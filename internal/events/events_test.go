package events_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/cardio-risk/internal/events"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

func receive(t *testing.T, ch <-chan *models.Event) *models.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestEventBus_SubscribeByType(t *testing.T) {
	bus := events.NewEventBus(10)
	defer bus.Close()

	stages := bus.Subscribe(models.EventTypeStageChanged)
	failures := bus.Subscribe(models.EventTypeInferenceFailed)

	pub := events.NewPublisher(bus).WithTraceID("t-1")
	pub.StageChanged(models.StageIdle, models.StageEncoding)

	e := receive(t, stages)
	assert.Equal(t, models.EventTypeStageChanged, e.Type)
	assert.Equal(t, "t-1", e.TraceID)
	assert.Equal(t, models.StageTransition{From: models.StageIdle, To: models.StageEncoding}, e.Data)

	assert.Empty(t, failures)
}

func TestEventBus_SubscribeAll(t *testing.T) {
	bus := events.NewEventBus(10)
	defer bus.Close()

	all := bus.SubscribeAll()
	pub := events.NewPublisher(bus)

	pub.StageChanged(models.StageIdle, models.StageEncoding)
	pub.InferenceFailed(models.StageEncoding, "invalid_category", errors.New("bad label"))
	pub.InferenceCompleted(&models.PredictionResult{Label: models.RiskLow, Confidence: 80})

	got := []models.EventType{receive(t, all).Type, receive(t, all).Type, receive(t, all).Type}
	assert.Equal(t, []models.EventType{
		models.EventTypeStageChanged,
		models.EventTypeInferenceFailed,
		models.EventTypeInferenceCompleted,
	}, got)
}

func TestEventBus_FullSubscriberDropsEvents(t *testing.T) {
	bus := events.NewEventBus(1)
	defer bus.Close()

	_ = bus.Subscribe(models.EventTypeStageChanged)
	pub := events.NewPublisher(bus)

	pub.StageChanged(models.StageIdle, models.StageEncoding)
	pub.StageChanged(models.StageEncoding, models.StageScaling)

	assert.Equal(t, uint64(1), bus.Dropped())
}

func TestEventBus_CloseClosesChannels(t *testing.T) {
	bus := events.NewEventBus(1)
	all := bus.SubscribeAll()
	one := bus.Subscribe(models.EventTypeArtifactsLoaded)

	bus.Close()
	bus.Close()

	_, ok := <-all
	assert.False(t, ok)
	_, ok = <-one
	assert.False(t, ok)

	// publishing after close is a no-op
	events.NewPublisher(bus).ArtifactsLoaded(models.ModelInfo{Version: "1"})
}

func TestPublisher_InferenceFailedPayload(t *testing.T) {
	bus := events.NewEventBus(1)
	defer bus.Close()
	ch := bus.Subscribe(models.EventTypeInferenceFailed)

	events.NewPublisher(bus).InferenceFailed(models.StageScaling, "shape_mismatch", errors.New("boom"))

	e := receive(t, ch)
	assert.Equal(t, models.SeverityCritical, e.Severity)
	failure, ok := e.Data.(models.InferenceFailure)
	require.True(t, ok)
	assert.Equal(t, models.StageScaling, failure.Stage)
	assert.Equal(t, "shape_mismatch", failure.Kind)
	assert.Equal(t, "boom", failure.Error)
}

func TestPublisher_NilIsSafe(t *testing.T) {
	var pub *events.Publisher
	assert.NotPanics(t, func() {
		pub.StageChanged(models.StageIdle, models.StageEncoding)
	})
}

func TestEventLogger_StopsOnClose(t *testing.T) {
	bus := events.NewEventBus(4)
	l := events.NewEventLogger(bus.SubscribeAll())
	l.Start()

	events.NewPublisher(bus).ArtifactsLoaded(models.ModelInfo{Version: "1", Source: "file"})
	bus.Close()
	l.Stop()
}
