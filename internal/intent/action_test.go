package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		ok     bool
		action Action
	}{
		{
			name: "predict with bare hour",
			text: `{"accion":"predecir","fecha":"2024-03-15","hora":15,"sede":"UPTC_CHI"}`,
			ok:   true,
			action: Action{
				Kind: KindPredict, Date: "2024-03-15", Hour: 15, Site: "UPTC_CHI",
			},
		},
		{
			name: "predict with quoted hour",
			text: `{"accion":"predecir","fecha":"2024-03-15","hora":"9","sede":"UPTC_CHI"}`,
			ok:   true,
			action: Action{
				Kind: KindPredict, Date: "2024-03-15", Hour: 9, Site: "UPTC_CHI",
			},
		},
		{
			name:   "explain",
			text:   `{"accion":"explicar","mensaje":"La predicción ayuda a planificar."}`,
			ok:     true,
			action: Action{Kind: KindExplain, Message: "La predicción ayuda a planificar."},
		},
		{
			name:   "clarify",
			text:   `{"accion":"preguntar","mensaje":"Dime una fecha y hora de 2024."}`,
			ok:     true,
			action: Action{Kind: KindClarify, Message: "Dime una fecha y hora de 2024."},
		},
		{
			name:   "out of range",
			text:   `{"accion":"fuera_rango","mensaje":"Solo 2024."}`,
			ok:     true,
			action: Action{Kind: KindOutOfRange, Message: "Solo 2024."},
		},
		{
			name:   "unsupported variable",
			text:   `{"accion":"no_soportado","mensaje":"Solo energia_total_kwh."}`,
			ok:     true,
			action: Action{Kind: KindUnsupported, Message: "Solo energia_total_kwh."},
		},
		{
			name: "surrounding whitespace tolerated",
			text: "\n  {\"accion\":\"explicar\",\"mensaje\":\"ok\"}\n",
			ok:   true,
			action: Action{
				Kind: KindExplain, Message: "ok",
			},
		},
		{name: "not json", text: "lo siento, no puedo ayudarte con eso", ok: false},
		{name: "empty", text: "", ok: false},
		{name: "unknown action", text: `{"accion":"borrar_todo","mensaje":"x"}`, ok: false},
		{name: "predict missing date", text: `{"accion":"predecir","hora":15}`, ok: false},
		{name: "predict malformed date", text: `{"accion":"predecir","fecha":"15/03/2024","hora":15}`, ok: false},
		{name: "predict hour out of range", text: `{"accion":"predecir","fecha":"2024-03-15","hora":24}`, ok: false},
		{name: "predict negative hour", text: `{"accion":"predecir","fecha":"2024-03-15","hora":-1}`, ok: false},
		{name: "message variant without message", text: `{"accion":"explicar"}`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, ok := ParseAction(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.action, action)
			}
		})
	}
}

func TestFallbackAction(t *testing.T) {
	fb := FallbackAction()
	require.Equal(t, KindClarify, fb.Kind)
	assert.NotEmpty(t, fb.Message)
}
