package ml

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/J-cmar/hedgebets/internal/models"
)

func testPrediction(player string) *models.QuantilePrediction {
	return &models.QuantilePrediction{
		Player:   player,
		Position: "QB",
		Stat:     "passing_yards",
		Season:   2025,
		Week:     1,
		Q10:      245.3,
		Q50:      289.7,
		Q90:      334.2,
	}
}

func testKey(player string) CacheKey {
	return KeyForRequest(QuantileRequest{
		Player:   player,
		Position: "QB",
		Stat:     "passing_yards",
		Season:   2025,
		Week:     1,
	})
}

func TestKeyForRequest_Normalization(t *testing.T) {
	a := KeyForRequest(QuantileRequest{Player: "Patrick Mahomes", Position: "qb", Stat: "passing_yards", Season: 2025, Week: 1})
	b := KeyForRequest(QuantileRequest{Player: "patrick mahomes", Position: "QB", Stat: "passing_yards", Season: 2025, Week: 1})
	assert.Equal(t, a.String(), b.String())

	// Missing model version defaults to latest.
	assert.Equal(t, "latest", a.ModelVersion)

	c := KeyForRequest(QuantileRequest{Player: "Patrick Mahomes", Position: "QB", Stat: "passing_yards", Season: 2025, Week: 2})
	assert.NotEqual(t, a.String(), c.String())
}

func TestPredictionCache_GetSet(t *testing.T) {
	pc := NewPredictionCache(time.Minute, 100)

	key := testKey("patrick mahomes")
	assert.Nil(t, pc.Get(key))

	pc.Set(key, testPrediction("patrick mahomes"))
	got := pc.Get(key)
	require.NotNil(t, got)
	assert.InDelta(t, 289.7, got.Q50, 1e-9)

	hits, misses, ratio := pc.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, ratio, 1e-9)
}

func TestPredictionCache_Expiry(t *testing.T) {
	pc := NewPredictionCache(20*time.Millisecond, 100)

	key := testKey("josh allen")
	pc.Set(key, testPrediction("josh allen"))
	require.NotNil(t, pc.Get(key))

	time.Sleep(40 * time.Millisecond)
	assert.Nil(t, pc.Get(key))
}

func TestPredictionCache_InvalidatePlayer(t *testing.T) {
	pc := NewPredictionCache(time.Minute, 100)

	mahomes := testKey("patrick mahomes")
	allen := testKey("josh allen")
	pc.Set(mahomes, testPrediction("patrick mahomes"))
	pc.Set(allen, testPrediction("josh allen"))

	pc.InvalidatePlayer("Patrick Mahomes")

	assert.Nil(t, pc.Get(mahomes))
	assert.NotNil(t, pc.Get(allen))
}

func TestPredictionCache_Clear(t *testing.T) {
	pc := NewPredictionCache(time.Minute, 100)

	pc.Set(testKey("patrick mahomes"), testPrediction("patrick mahomes"))
	require.Equal(t, 1, pc.ItemCount())

	pc.Clear()
	assert.Equal(t, 0, pc.ItemCount())

	hits, misses, _ := pc.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}
