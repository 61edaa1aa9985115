package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uptc-energy/energy-assistant/internal/features"
)

func testWindow() *features.Window {
	return &features.Window{
		Site:            "UPTC_CHI",
		TargetTimestamp: "2024-03-10 23:00:00",
		Lags:            [2]float64{1.2, 1.1},
	}
}

func TestClient_Predict_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "UPTC_CHI", payload["sede"])
		assert.Equal(t, "2024-03-10 23:00:00", payload["target_timestamp"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prediccion_kwh": 1.42, "sede": "UPTC_CHI", "modelo": "v3"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Timeout: 5 * time.Second})
	result, err := c.Predict(context.Background(), testWindow())
	require.NoError(t, err)

	assert.Equal(t, 1.42, result.PredictionKWh)
	assert.Equal(t, "UPTC_CHI", result.Site)
	assert.Contains(t, string(result.Raw), "modelo")
}

func TestClient_Predict_UpstreamErrorCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("model is still warming up"))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Timeout: 5 * time.Second})
	_, err := c.Predict(context.Background(), testWindow())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "model is still warming up")
	assert.Contains(t, err.Error(), "502")
}

func TestClient_Predict_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Predict(context.Background(), testWindow())

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_Predict_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Timeout: 5 * time.Second})
	_, err := c.Predict(context.Background(), testWindow())

	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_Predict_SingleAttempt(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Timeout: 5 * time.Second})
	_, err := c.Predict(context.Background(), testWindow())

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Forward_RelaysStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := make([]byte, r.ContentLength)
		r.Body.Read(body)
		assert.Equal(t, `{"anything":true}`, string(body))

		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("verbatim"))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, Timeout: 5 * time.Second})
	status, contentType, body, err := c.Forward(context.Background(), []byte(`{"anything":true}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, status)
	assert.Equal(t, "text/plain", contentType)
	assert.Equal(t, "verbatim", string(body))
}
