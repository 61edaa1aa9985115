package chat

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/uptc-energy/energy-assistant/internal/events"
	"github.com/uptc-energy/energy-assistant/internal/features"
	"github.com/uptc-energy/energy-assistant/internal/intent"
	"github.com/uptc-energy/energy-assistant/internal/logger"
	"github.com/uptc-energy/energy-assistant/internal/predictor"
	"github.com/uptc-energy/energy-assistant/internal/session"
	"github.com/uptc-energy/energy-assistant/internal/timeseries"
	"github.com/uptc-energy/energy-assistant/pkg/models"
)

// Qualitative consumption levels for explanation replies, in kWh per hour.
const (
	lowConsumptionKWh  = 0.8
	highConsumptionKWh = 1.6
)

const (
	replyNoPredictionYet = "Aún no hay una predicción en esta sesión. Pide una primero (ej: \"Predice 2024-03-15 15:00\") y luego te la explico."
	replyNotUnderstood   = "No entendí tu solicitud."
)

// IntentRouter resolves conversation turns into one structured action.
type IntentRouter interface {
	Route(ctx context.Context, history []models.ConversationTurn) (intent.Action, error)
}

// WindowBuilder assembles the feature payload for a target hour.
type WindowBuilder interface {
	Build(target time.Time) (*features.Window, error)
}

// Forecaster returns the remote model's prediction for a feature payload.
type Forecaster interface {
	Predict(ctx context.Context, window *features.Window) (*predictor.Result, error)
}

// Orchestrator sequences one user turn through the intent router and, for
// predict actions, the feature window builder and prediction client. All
// session mutation happens inside the store's per-session critical section,
// so concurrent turns on one session serialize.
type Orchestrator struct {
	router    IntentRouter
	builder   WindowBuilder
	forecast  Forecaster
	sessions  session.Store
	publisher *events.Publisher
	location  *time.Location
}

type Config struct {
	Router    IntentRouter
	Builder   WindowBuilder
	Forecast  Forecaster
	Sessions  session.Store
	Publisher *events.Publisher
	// Location is the zone user-entered dates are interpreted in. Must match
	// the time-series store's zone or index lookups will miss.
	Location *time.Location
}

func NewOrchestrator(cfg Config) *Orchestrator {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Orchestrator{
		router:    cfg.Router,
		builder:   cfg.Builder,
		forecast:  cfg.Forecast,
		sessions:  cfg.Sessions,
		publisher: cfg.Publisher,
		location:  loc,
	}
}

// HandleTurn processes one user message and returns the session id and the
// assistant's reply. An empty sessionID starts a new session. Router
// transport failures are returned as errors; everything else becomes a
// conversational reply.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID, message string) (string, string, error) {
	if sessionID == "" {
		sessionID = o.sessions.Create()
	}

	var reply string
	err := o.sessions.Do(sessionID, func(sc *session.Context) error {
		userTurn := models.ConversationTurn{Role: models.RoleUser, Content: message}

		// Route against history plus the incoming turn; the turn is only
		// persisted once the router has answered, so a failed request does
		// not leave a half-recorded exchange.
		history := make([]models.ConversationTurn, 0, len(sc.History)+1)
		history = append(history, sc.History...)
		history = append(history, userTurn)

		action, err := o.router.Route(ctx, history)
		if err != nil {
			o.publisher.Error(sessionID, "Intent routing failed", err)
			return err
		}

		reply = o.applyAction(ctx, sessionID, sc, action)

		sc.History = append(sc.History, userTurn,
			models.ConversationTurn{Role: models.RoleAssistant, Content: reply})
		return nil
	})
	if err != nil {
		return sessionID, "", err
	}

	o.publisher.ChatReply(sessionID, reply)
	return sessionID, reply, nil
}

func (o *Orchestrator) applyAction(ctx context.Context, sessionID string, sc *session.Context, action intent.Action) string {
	switch action.Kind {
	case intent.KindClarify, intent.KindOutOfRange, intent.KindUnsupported:
		return action.Message

	case intent.KindExplain:
		return o.explain(sc)

	case intent.KindPredict:
		return o.predict(ctx, sessionID, sc, action)

	default:
		return replyNotUnderstood
	}
}

func (o *Orchestrator) explain(sc *session.Context) string {
	if sc.LastPrediction == nil {
		return replyNoPredictionYet
	}

	p := sc.LastPrediction
	level, advice := classify(p.ValueKWh)

	reply := fmt.Sprintf("La última predicción para %s en %s fue %s kWh: un consumo %s. %s",
		p.Timestamp, p.Site, formatKWh(p.ValueKWh), level, advice)

	if sc.SelectedEvent != nil {
		e := sc.SelectedEvent
		reply += fmt.Sprintf(" Sobre el evento de ineficiencia seleccionado (%s, %s): el KPI real fue %.2f frente a %.2f esperado con %.1f%% de ocupación.",
			e.Facility, e.Timestamp, e.ActualKPI, e.ExpectedKPI, e.OccupancyPct)
	}
	return reply
}

func classify(kwh float64) (string, string) {
	switch {
	case kwh < lowConsumptionKWh:
		return "bajo", "No se requieren acciones; es un buen momento para cargas flexibles."
	case kwh > highConsumptionKWh:
		return "alto", "Revisa equipos encendidos y climatización; considera desplazar cargas a horas de menor demanda."
	default:
		return "moderado", "Consumo dentro del rango habitual; revisa iluminación y climatización si no hay ocupación."
	}
}

func (o *Orchestrator) predict(ctx context.Context, sessionID string, sc *session.Context, action intent.Action) string {
	target, err := time.ParseInLocation("2006-01-02", action.Date, o.location)
	if err != nil {
		// ParseAction validates the date, so this only fires on a router
		// implementation handing through unvalidated input.
		return intent.FallbackAction().Message
	}
	target = target.Add(time.Duration(action.Hour) * time.Hour)

	o.publisher.PredictionStarted(sessionID, action.Site, timeseries.CanonicalKey(target))

	window, err := o.builder.Build(target)
	if err != nil {
		logger.WithSession(sessionID).Warnf("Feature window build failed: %v", err)
		o.publisher.PredictionFailed(sessionID, "feature window", err)
		return fmt.Sprintf("No pude generar la predicción: %v", err)
	}

	result, err := o.forecast.Predict(ctx, window)
	if err != nil {
		logger.WithSession(sessionID).Warnf("Prediction request failed: %v", err)
		o.publisher.PredictionFailed(sessionID, "prediction service", err)
		return fmt.Sprintf("No pude generar la predicción: %v", err)
	}

	record := &models.PredictionRecord{
		Site:      window.Site,
		Timestamp: window.TargetTimestamp,
		ValueKWh:  result.PredictionKWh,
		CreatedAt: time.Now(),
	}
	sc.LastPrediction = record
	o.publisher.PredictionCompleted(sessionID, record)

	return fmt.Sprintf("Para %s a las %d:00 en %s, la predicción es %s kWh.",
		action.Date, action.Hour, window.Site, formatKWh(result.PredictionKWh))
}

// SelectEvent sets an inefficiency event as the session's explanation focus.
func (o *Orchestrator) SelectEvent(sessionID string, event models.InefficiencyEvent) error {
	err := o.sessions.Do(sessionID, func(sc *session.Context) error {
		sc.SelectedEvent = &event
		return nil
	})
	if err != nil {
		return err
	}
	o.publisher.EventSelected(sessionID, &event)
	return nil
}

// Reset clears the session's conversation state.
func (o *Orchestrator) Reset(sessionID string) error {
	if err := o.sessions.Reset(sessionID); err != nil {
		return err
	}
	o.publisher.SessionReset(sessionID)
	return nil
}

// History returns a copy of the session's conversation state.
func (o *Orchestrator) History(sessionID string) (session.Context, error) {
	return o.sessions.Snapshot(sessionID)
}

func formatKWh(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
