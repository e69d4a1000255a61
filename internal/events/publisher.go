package events

import (
	"fmt"

	"github.com/OldStager01/cardio-risk/pkg/models"
)

type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	if p == nil {
		return nil
	}
	return &Publisher{
		bus:     p.bus,
		traceID: traceID,
	}
}

func (p *Publisher) publish(event *models.Event) {
	if p == nil || p.bus == nil {
		return
	}
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) ArtifactsLoaded(info models.ModelInfo) {
	msg := fmt.Sprintf("Model artifacts %s loaded from %s", info.Version, info.Source)
	event := models.NewEvent(models.EventTypeArtifactsLoaded, p.trace(), msg).
		WithData(info)
	p.publish(event)
}

func (p *Publisher) StageChanged(from, to models.Stage) {
	msg := "Pipeline stage: " + string(to)
	event := models.NewEvent(models.EventTypeStageChanged, p.trace(), msg).
		WithData(models.StageTransition{From: from, To: to})
	p.publish(event)
}

func (p *Publisher) InferenceCompleted(result *models.PredictionResult) {
	msg := "Inference complete: " + string(result.Label)
	event := models.NewEvent(models.EventTypeInferenceCompleted, p.trace(), msg).
		WithData(result)
	p.publish(event)
}

func (p *Publisher) InferenceFailed(stage models.Stage, kind string, err error) {
	msg := "Inference failed at " + string(stage)
	event := models.NewEvent(models.EventTypeInferenceFailed, p.trace(), msg).
		WithSeverity(models.SeverityCritical).
		WithData(models.InferenceFailure{
			Stage: stage,
			Kind:  kind,
			Error: err.Error(),
		})
	p.publish(event)
}

func (p *Publisher) trace() string {
	if p == nil {
		return ""
	}
	return p.traceID
}
