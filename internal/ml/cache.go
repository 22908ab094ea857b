package ml

import (
	"fmt"
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/J-cmar/hedgebets/internal/models"
)

// CacheKey uniquely identifies one cached quantile prediction.
type CacheKey struct {
	Player       string
	Position     string
	Stat         string
	Season       int
	Week         int
	ModelVersion string
}

// KeyForRequest builds the cache key for a quantile request.
func KeyForRequest(req QuantileRequest) CacheKey {
	version := req.ModelVersion
	if version == "" {
		version = "latest"
	}
	return CacheKey{
		Player:       strings.ToLower(req.Player),
		Position:     strings.ToUpper(req.Position),
		Stat:         req.Stat,
		Season:       req.Season,
		Week:         req.Week,
		ModelVersion: version,
	}
}

// String returns the string representation used as the cache index.
func (k CacheKey) String() string {
	return fmt.Sprintf("%s|%s|%s|%d|%d|%s", k.Player, k.Position, k.Stat, k.Season, k.Week, k.ModelVersion)
}

// PredictionCache provides in-memory caching for quantile predictions.
type PredictionCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewPredictionCache creates a new prediction cache.
func NewPredictionCache(ttl time.Duration, maxSize int) *PredictionCache {
	return &PredictionCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached prediction, or nil on a miss.
func (pc *PredictionCache) Get(key CacheKey) *models.QuantilePrediction {
	if result, found := pc.cache.Get(key.String()); found {
		if pred, ok := result.(*models.QuantilePrediction); ok {
			pc.recordHit()
			return pred
		}
	}
	pc.recordMiss()
	return nil
}

// Set stores a prediction, evicting expired entries when the cache is full.
func (pc *PredictionCache) Set(key CacheKey, prediction *models.QuantilePrediction) {
	if pc.cache.ItemCount() >= pc.maxSize {
		pc.cache.DeleteExpired()
	}
	pc.cache.Set(key.String(), prediction, pc.ttl)
}

// InvalidatePlayer removes all cached predictions for a player, e.g. after
// an injury report or a model retrain.
func (pc *PredictionCache) InvalidatePlayer(player string) {
	prefix := strings.ToLower(player) + "|"
	for k := range pc.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			pc.cache.Delete(k)
		}
	}
}

// Clear flushes the entire cache.
func (pc *PredictionCache) Clear() {
	pc.cache.Flush()
	pc.mu.Lock()
	pc.hitCount = 0
	pc.missCount = 0
	pc.mu.Unlock()
}

// Stats returns cache statistics.
func (pc *PredictionCache) Stats() (hits, misses uint64, ratio float64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	hits = pc.hitCount
	misses = pc.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache.
func (pc *PredictionCache) ItemCount() int {
	return pc.cache.ItemCount()
}

func (pc *PredictionCache) recordHit() {
	pc.mu.Lock()
	pc.hitCount++
	pc.mu.Unlock()
	pc.updateMetrics()
}

func (pc *PredictionCache) recordMiss() {
	pc.mu.Lock()
	pc.missCount++
	pc.mu.Unlock()
	pc.updateMetrics()
}

func (pc *PredictionCache) updateMetrics() {
	_, _, ratio := pc.Stats()
	CacheHitRatio.Set(ratio)
}
