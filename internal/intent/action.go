package intent

import (
	"encoding/json"
	"strings"
	"time"
)

// Kind is the closed set of actions the language model may request. The wire
// names are the Spanish tags the instruction prompt demands.
type Kind string

const (
	KindPredict     Kind = "predecir"
	KindExplain     Kind = "explicar"
	KindClarify     Kind = "preguntar"
	KindOutOfRange  Kind = "fuera_rango"
	KindUnsupported Kind = "no_soportado"
)

// Action is the validated, structured form of one model reply. Only fields
// relevant to the Kind are populated; unchecked model output never travels
// past ParseAction.
type Action struct {
	Kind    Kind   `json:"accion"`
	Date    string `json:"fecha,omitempty"`
	Hour    int    `json:"hora,omitempty"`
	Site    string `json:"sede,omitempty"`
	Message string `json:"mensaje,omitempty"`
}

// fallbackMessage is the fixed clarification shown whenever the model's reply
// cannot be used. Raw model text is never surfaced as an error.
const fallbackMessage = "Puedo predecir energia_total_kwh por hora (solo 2024) y explicar cómo usarlo para eficiencia. Ej: \"Predice 2024-02-15 15:00\"."

// FallbackAction is the clarification variant used when the model reply does
// not parse or validate.
func FallbackAction() Action {
	return Action{Kind: KindClarify, Message: fallbackMessage}
}

// rawAction mirrors the model's reply shape before validation. Hora is a
// json.Number because models emit it both quoted and bare.
type rawAction struct {
	Accion  string      `json:"accion"`
	Fecha   string      `json:"fecha"`
	Hora    json.Number `json:"hora"`
	Sede    string      `json:"sede"`
	Mensaje string      `json:"mensaje"`
}

// ParseAction converts the model's raw text into a recognized Action. The
// second return is false when the text is not one valid JSON action object;
// callers fall back to FallbackAction in that case.
func ParseAction(text string) (Action, bool) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(text)))
	dec.UseNumber()

	var raw rawAction
	if err := dec.Decode(&raw); err != nil {
		return Action{}, false
	}

	switch Kind(raw.Accion) {
	case KindPredict:
		hour, err := raw.Hora.Int64()
		if err != nil || hour < 0 || hour > 23 {
			return Action{}, false
		}
		if _, err := time.Parse("2006-01-02", raw.Fecha); err != nil {
			return Action{}, false
		}
		return Action{Kind: KindPredict, Date: raw.Fecha, Hour: int(hour), Site: raw.Sede}, true

	case KindExplain, KindClarify, KindOutOfRange, KindUnsupported:
		if raw.Mensaje == "" {
			return Action{}, false
		}
		return Action{Kind: Kind(raw.Accion), Message: raw.Mensaje}, true

	default:
		return Action{}, false
	}
}
