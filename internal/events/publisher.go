package events

import (
	"github.com/uptc-energy/energy-assistant/pkg/models"
)

type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	return &Publisher{
		bus:     p.bus,
		traceID: traceID,
	}
}

func (p *Publisher) publish(event *models.Event) {
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) ChatReply(sessionID, reply string) {
	event := models.NewEvent(models.EventTypeChatReply, sessionID, reply)
	p.publish(event)
}

func (p *Publisher) PredictionStarted(sessionID, site, timestamp string) {
	event := models.NewEvent(models.EventTypePredictionStarted, sessionID, "Prediction started").
		WithData(map[string]interface{}{
			"sede":             site,
			"target_timestamp": timestamp,
		})
	p.publish(event)
}

func (p *Publisher) PredictionCompleted(sessionID string, record *models.PredictionRecord) {
	event := models.NewEvent(models.EventTypePredictionCompleted, sessionID, "Prediction completed").
		WithData(record)
	p.publish(event)
}

func (p *Publisher) PredictionFailed(sessionID, reason string, err error) {
	event := models.NewEvent(models.EventTypePredictionFailed, sessionID, "Prediction failed: "+reason).
		WithSeverity(models.SeverityWarning).
		WithData(map[string]interface{}{
			"reason": reason,
			"error":  err.Error(),
		})
	p.publish(event)
}

func (p *Publisher) EventSelected(sessionID string, selected *models.InefficiencyEvent) {
	event := models.NewEvent(models.EventTypeEventSelected, sessionID, "Inefficiency event selected").
		WithData(selected)
	p.publish(event)
}

func (p *Publisher) SessionReset(sessionID string) {
	event := models.NewEvent(models.EventTypeSessionReset, sessionID, "Session reset")
	p.publish(event)
}

func (p *Publisher) Error(sessionID string, message string, err error) {
	event := models.NewEvent(models.EventTypeError, sessionID, message).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{
			"error": err.Error(),
		})
	p.publish(event)
}
