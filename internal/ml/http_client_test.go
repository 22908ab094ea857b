package ml

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/J-cmar/hedgebets/internal/config"
)

func testModelConfig(baseURL string) *config.ModelServiceConfig {
	return &config.ModelServiceConfig{
		BaseURL:               baseURL,
		APIKey:                "test-key",
		RequestTimeoutSeconds: 2,
		RetryAttempts:         0,
		RateLimitPerSecond:    100,
		CircuitBreakerMax:     3,
	}
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testRequest() QuantileRequest {
	return QuantileRequest{
		Player:   "Patrick Mahomes",
		Position: "QB",
		Stat:     "passing_yards",
		Season:   2025,
		Week:     1,
	}
}

func TestHTTPClient_GetQuantiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/predictions", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))

		var req QuantileRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "passing_yards", req.Stat)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"player":        req.Player,
			"position":      req.Position,
			"stat":          req.Stat,
			"season":        req.Season,
			"week":          req.Week,
			"q10":           245.3,
			"q50":           289.7,
			"q90":           334.2,
			"model_version": "v3",
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(testModelConfig(srv.URL), quietLogger())
	defer client.Close()

	pred, err := client.GetQuantiles(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "Patrick Mahomes", pred.Player)
	assert.InDelta(t, 245.3, pred.Q10, 1e-9)
	assert.InDelta(t, 289.7, pred.Q50, 1e-9)
	assert.InDelta(t, 334.2, pred.Q90, 1e-9)
	assert.Equal(t, "v3", pred.ModelVersion)
	assert.False(t, pred.PredictedAt.IsZero())
}

func TestHTTPClient_UnknownModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no model for position/stat", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewHTTPClient(testModelConfig(srv.URL), quietLogger())
	defer client.Close()

	_, err := client.GetQuantiles(context.Background(), testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestHTTPClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClient(testModelConfig(srv.URL), quietLogger())
	defer client.Close()

	_, err := client.GetQuantiles(context.Background(), testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestHTTPClient_InvalidQuantiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// q10 above q90 is a model service bug and must not be scored.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"q10": 334.2,
			"q50": 289.7,
			"q90": 245.3,
		})
	}))
	defer srv.Close()

	client := NewHTTPClient(testModelConfig(srv.URL), quietLogger())
	defer client.Close()

	_, err := client.GetQuantiles(context.Background(), testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestHTTPClient_CircuitBreakerOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testModelConfig(srv.URL)
	cfg.CircuitBreakerMax = 2
	client := NewHTTPClient(cfg, quietLogger())
	defer client.Close()

	for i := 0; i < 2; i++ {
		_, err := client.GetQuantiles(context.Background(), testRequest())
		require.ErrorIs(t, err, ErrServiceUnavailable)
	}

	// Third call never reaches the wire.
	_, err := client.GetQuantiles(context.Background(), testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestHTTPClient_CircuitBreakerResetsOnSuccess(t *testing.T) {
	failing := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"q10": 1.0, "q50": 2.0, "q90": 3.0})
	}))
	defer srv.Close()

	cfg := testModelConfig(srv.URL)
	cfg.CircuitBreakerMax = 3
	client := NewHTTPClient(cfg, quietLogger())
	defer client.Close()

	_, err := client.GetQuantiles(context.Background(), testRequest())
	require.ErrorIs(t, err, ErrServiceUnavailable)

	failing = false
	_, err = client.GetQuantiles(context.Background(), testRequest())
	require.NoError(t, err)

	client.mu.Lock()
	assert.Zero(t, client.consecutiveErrors)
	assert.False(t, client.open)
	client.mu.Unlock()
}

func TestHTTPClient_HealthCheck(t *testing.T) {
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewHTTPClient(testModelConfig(srv.URL), quietLogger())
	defer client.Close()

	assert.NoError(t, client.HealthCheck(context.Background()))

	healthy = false
	err := client.HealthCheck(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}
