package ml

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/J-cmar/hedgebets/internal/models"
)

// CachedClient wraps a Client with prediction caching. Quantile predictions
// for a given player/stat/week are immutable for the cache TTL.
type CachedClient struct {
	client Client
	cache  *PredictionCache
	logger *logrus.Logger
}

// NewCachedClient creates a caching wrapper around any model client.
func NewCachedClient(client Client, ttl time.Duration, maxSize int, logger *logrus.Logger) *CachedClient {
	return &CachedClient{
		client: client,
		cache:  NewPredictionCache(ttl, maxSize),
		logger: logger,
	}
}

// GetQuantiles retrieves a prediction, serving from cache when possible.
func (c *CachedClient) GetQuantiles(ctx context.Context, req QuantileRequest) (*models.QuantilePrediction, error) {
	key := KeyForRequest(req)

	if cached := c.cache.Get(key); cached != nil {
		c.logger.WithField("cache_key", key.String()).Debug("Cache hit for quantile prediction")
		PredictionsTotal.WithLabelValues("cache", "true").Inc()
		return cached, nil
	}

	c.logger.WithField("cache_key", key.String()).Debug("Cache miss, fetching from model service")
	pred, err := c.client.GetQuantiles(ctx, req)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, pred)
	return pred, nil
}

// HealthCheck checks the underlying model service.
func (c *CachedClient) HealthCheck(ctx context.Context) error {
	return c.client.HealthCheck(ctx)
}

// InvalidatePlayer drops all cached predictions for a player.
func (c *CachedClient) InvalidatePlayer(player string) {
	c.cache.InvalidatePlayer(player)
	c.logger.WithField("player", player).Debug("Invalidated cached predictions")
}

// ClearCache clears all cached predictions.
func (c *CachedClient) ClearCache() {
	c.cache.Clear()
}

// CacheStats returns cache statistics.
func (c *CachedClient) CacheStats() (hits, misses uint64, hitRatio float64) {
	return c.cache.Stats()
}

// Close closes the underlying client.
func (c *CachedClient) Close() error {
	return c.client.Close()
}
