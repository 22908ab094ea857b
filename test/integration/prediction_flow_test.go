//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/J-cmar/hedgebets/internal/config"
	"github.com/J-cmar/hedgebets/internal/ml"
	"github.com/J-cmar/hedgebets/internal/models"
	"github.com/J-cmar/hedgebets/internal/scoring"
	"github.com/J-cmar/hedgebets/internal/server"
)

// startFakeModelService serves canned quantile predictions and counts hits.
func startFakeModelService(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/api/v1/predictions":
			hits.Add(1)

			var req ml.QuantileRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

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
		default:
			http.NotFound(w, r)
		}
	}))
}

func newAPIHandler(t *testing.T, modelURL string) (http.Handler, *ml.CachedClient) {
	t.Helper()

	cfg, err := config.LoadWithDefaults("/nonexistent/config.yaml")
	require.NoError(t, err)
	cfg.ModelService.BaseURL = modelURL

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	httpClient := ml.NewHTTPClient(&cfg.ModelService, log)
	cached := ml.NewCachedClient(httpClient, time.Minute, 100, log)

	apiServer := server.New(cfg, scoring.New(cfg.Scoring), cached, log)
	return apiServer.Routes(), cached
}

func TestPredictionFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	var hits atomic.Int64
	modelSrv := startFakeModelService(t, &hits)
	defer modelSrv.Close()

	handler, cached := newAPIHandler(t, modelSrv.URL)
	defer cached.Close()

	body, err := json.Marshal(map[string]interface{}{
		"player":        "Patrick Mahomes",
		"position":      "QB",
		"action":        "Passing Yards",
		"threshold":     275.5,
		"direction":     "over",
		"american_odds": -110,
	})
	require.NoError(t, err)

	do := func() map[string]json.RawMessage {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	resp := do()

	var analysis models.ScoreResult
	require.NoError(t, json.Unmarshal(resp["analysis"], &analysis))
	assert.InDelta(t, 0.62, analysis.WinProbability, 0.025)
	assert.Equal(t, models.RecommendationGood, analysis.Recommendation)

	// A second identical request is served from the prediction cache.
	do()
	assert.Equal(t, int64(1), hits.Load())

	hitCount, _, _ := cached.CacheStats()
	assert.Equal(t, uint64(1), hitCount)
}

func TestPredictionFlow_ModelServiceDown(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	modelSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer modelSrv.Close()

	handler, cached := newAPIHandler(t, modelSrv.URL)
	defer cached.Close()

	body, err := json.Marshal(map[string]interface{}{
		"player":    "Patrick Mahomes",
		"position":  "QB",
		"stat":      "passing_yards",
		"threshold": 275.5,
		"direction": "over",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
