package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/J-cmar/hedgebets/internal/config"
	"github.com/J-cmar/hedgebets/internal/models"
)

// HTTPClient talks JSON over HTTP to the model service with retries, rate
// limiting and a consecutive-failure circuit breaker.
type HTTPClient struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	logger  *logrus.Logger

	breakerMax        int
	mu                sync.Mutex
	consecutiveErrors int
	open              bool
	lastError         error
}

// quantileResponse is the model service's prediction payload.
type quantileResponse struct {
	Player       string    `json:"player"`
	Position     string    `json:"position"`
	Stat         string    `json:"stat"`
	Season       int       `json:"season"`
	Week         int       `json:"week"`
	Q10          float64   `json:"q10"`
	Q50          float64   `json:"q50"`
	Q90          float64   `json:"q90"`
	ModelVersion string    `json:"model_version"`
	PredictedAt  time.Time `json:"predicted_at"`
}

// NewHTTPClient creates a new model service client.
func NewHTTPClient(cfg *config.ModelServiceConfig, logger *logrus.Logger) *HTTPClient {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	retryClient.RetryMax = cfg.RetryAttempts
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.CheckRetry = retryPolicy()
	retryClient.Logger = nil

	breakerMax := cfg.CircuitBreakerMax
	if breakerMax <= 0 {
		breakerMax = 5
	}

	rateLimit := cfg.RateLimitPerSecond
	if rateLimit <= 0 {
		rateLimit = 10.0
	}

	return &HTTPClient{
		client:     retryClient,
		limiter:    rate.NewLimiter(rate.Limit(rateLimit), 1),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		logger:     logger,
		breakerMax: breakerMax,
	}
}

// GetQuantiles fetches the q10/q50/q90 prediction for one player prop.
func (c *HTTPClient) GetQuantiles(ctx context.Context, req QuantileRequest) (*models.QuantilePrediction, error) {
	start := time.Now()
	defer func() {
		RequestLatency.Observe(time.Since(start).Seconds())
	}()

	if err := c.checkBreaker(); err != nil {
		RequestErrorsTotal.WithLabelValues("get_quantiles", "circuit_open").Inc()
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.recordFailure(err)
		RequestErrorsTotal.WithLabelValues("get_quantiles", "network").Inc()
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		c.recordSuccess()
		RequestErrorsTotal.WithLabelValues("get_quantiles", "unknown_model").Inc()
		return nil, fmt.Errorf("%w: %s %s", ErrUnknownModel, req.Position, req.Stat)
	case resp.StatusCode >= 500:
		c.recordFailure(fmt.Errorf("status %d", resp.StatusCode))
		RequestErrorsTotal.WithLabelValues("get_quantiles", "server_error").Inc()
		return nil, fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	default:
		c.recordSuccess()
		payload, _ := io.ReadAll(resp.Body)
		RequestErrorsTotal.WithLabelValues("get_quantiles", "http_error").Inc()
		return nil, fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, string(payload))
	}
	c.recordSuccess()

	var qr quantileResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		RequestErrorsTotal.WithLabelValues("get_quantiles", "decode").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	pred, err := qr.toPrediction(req)
	if err != nil {
		RequestErrorsTotal.WithLabelValues("get_quantiles", "invalid_quantiles").Inc()
		return nil, err
	}

	PredictionsTotal.WithLabelValues("http", "false").Inc()
	c.logger.WithFields(logrus.Fields{
		"player":   pred.Player,
		"stat":     pred.Stat,
		"duration": time.Since(start),
	}).Debug("Fetched quantile prediction")

	return pred, nil
}

// HealthCheck checks model service health.
func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	return nil
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

func (qr *quantileResponse) toPrediction(req QuantileRequest) (*models.QuantilePrediction, error) {
	for name, v := range map[string]float64{"q10": qr.Q10, "q50": qr.Q50, "q90": qr.Q90} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s is not finite", ErrInvalidResponse, name)
		}
	}
	if qr.Q10 > qr.Q90 {
		return nil, fmt.Errorf("%w: q10 (%.4f) exceeds q90 (%.4f)", ErrInvalidResponse, qr.Q10, qr.Q90)
	}

	predictedAt := qr.PredictedAt
	if predictedAt.IsZero() {
		predictedAt = time.Now().UTC()
	}

	pred := &models.QuantilePrediction{
		Player:       req.Player,
		Position:     req.Position,
		Stat:         req.Stat,
		Season:       req.Season,
		Week:         req.Week,
		Q10:          qr.Q10,
		Q50:          qr.Q50,
		Q90:          qr.Q90,
		ModelVersion: qr.ModelVersion,
		PredictedAt:  predictedAt,
	}
	if qr.Player != "" {
		pred.Player = qr.Player
	}
	return pred, nil
}

func (c *HTTPClient) checkBreaker() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open {
		return fmt.Errorf("%w: %v", ErrCircuitOpen, c.lastError)
	}
	return nil
}

func (c *HTTPClient) recordFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveErrors++
	c.lastError = err
	if c.consecutiveErrors >= c.breakerMax && !c.open {
		c.open = true
		c.logger.WithError(err).Warnf("Model service circuit breaker opened after %d consecutive errors", c.consecutiveErrors)
	}
}

func (c *HTTPClient) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveErrors = 0
	c.open = false
}

// retryPolicy retries on network errors, rate limiting and server errors;
// client errors are terminal.
func retryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, err
		}
		switch resp.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true, nil
		}
		return false, nil
	}
}
