package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uptc-energy/energy-assistant/pkg/models"
)

func receive(t *testing.T, ch <-chan *models.Event) *models.Event {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestEventBusSubscribe(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(models.EventTypeChatReply)

	bus.Publish(models.NewEvent(models.EventTypeChatReply, "s1", "hola"))
	bus.Publish(models.NewEvent(models.EventTypeSessionReset, "s1", "reset"))

	event := receive(t, ch)
	assert.Equal(t, models.EventTypeChatReply, event.Type)
	assert.Equal(t, "s1", event.SessionID)

	// The reset event went to a type this channel never subscribed to.
	select {
	case extra := <-ch:
		t.Fatalf("unexpected event: %s", extra.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBusSubscribeAll(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.SubscribeAll()

	bus.Publish(models.NewEvent(models.EventTypePredictionStarted, "s1", "started"))
	bus.Publish(models.NewEvent(models.EventTypePredictionCompleted, "s1", "done"))

	assert.Equal(t, models.EventTypePredictionStarted, receive(t, ch).Type)
	assert.Equal(t, models.EventTypePredictionCompleted, receive(t, ch).Type)
}

func TestEventBusPublishAfterClose(t *testing.T) {
	bus := NewEventBus(10)
	ch := bus.SubscribeAll()
	bus.Close()

	// Must not panic; channel is closed.
	bus.Publish(models.NewEvent(models.EventTypeChatReply, "s1", "hola"))

	_, ok := <-ch
	assert.False(t, ok)
}

func TestPublisherCarriesSessionAndSeverity(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(models.EventTypePredictionFailed)
	publisher := NewPublisher(bus)

	publisher.PredictionFailed("s1", "feature window", assert.AnError)

	event := receive(t, ch)
	assert.Equal(t, "s1", event.SessionID)
	assert.Equal(t, models.SeverityWarning, event.Severity)

	data, ok := event.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "feature window", data["reason"])
}

func TestPublisherTraceID(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(models.EventTypeChatReply)
	publisher := NewPublisher(bus).WithTraceID("trace-1")

	publisher.ChatReply("s1", "hola")

	assert.Equal(t, "trace-1", receive(t, ch).TraceID)
}
