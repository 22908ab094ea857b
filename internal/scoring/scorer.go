// Package scoring implements the bet outcome scorer: a pure, synchronous
// calculation that turns three quantile point-estimates and a bet definition
// into a win probability, expected value, confidence level and
// recommendation. It is safe for concurrent use from any number of callers.
package scoring

import (
	"fmt"
	"math"

	"github.com/J-cmar/hedgebets/internal/models"
)

// Input is one scoring request. Q10/Q50/Q90 come from the model-serving
// service; Threshold and Direction define the proposition. A zero
// PayoutMultiplier means "use the configured default".
type Input struct {
	Q10              float64
	Q50              float64
	Q90              float64
	Threshold        float64
	Direction        models.Direction
	PayoutMultiplier float64
}

// Scorer scores bet scenarios against quantile predictions.
type Scorer struct {
	cfg Config
}

// New creates a scorer; zero-valued config fields fall back to defaults.
func New(cfg Config) *Scorer {
	return &Scorer{cfg: cfg.withDefaults()}
}

// NewDefault creates a scorer with the standard cutoffs.
func NewDefault() *Scorer {
	return New(DefaultConfig())
}

// Config returns the effective configuration of the scorer.
func (s *Scorer) Config() Config {
	return s.cfg
}

// Score computes the win probability and derived analysis for one scenario.
// The quantiles are treated as two linear segments of an approximate CDF
// anchored at (q10, 0.10), (q50, 0.50) and (q90, 0.90); the win probability
// is the interpolated tail mass on the bet's side of the threshold, clamped
// to [0.01, 0.99].
func (s *Scorer) Score(in Input) (*models.ScoreResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	cdf := cumulative(in.Threshold, in.Q10, in.Q50, in.Q90)

	p := 1.0 - cdf
	if in.Direction == models.DirectionUnder {
		p = cdf
	}
	p = clampProbability(p)

	payout := in.PayoutMultiplier
	if payout == 0 {
		payout = s.cfg.PayoutMultiplier
	}
	ev := p*payout - (1.0 - p)

	spread := in.Q90 - in.Q10
	relativeSpread := spread / (math.Abs(in.Q50) + 1.0)

	return &models.ScoreResult{
		WinProbability:     p,
		ExpectedValue:      ev,
		Confidence:         s.confidenceFor(relativeSpread),
		Recommendation:     s.recommendationFor(ev),
		PredictionSpread:   spread,
		RelativeSpread:     relativeSpread,
		DistanceFromMedian: math.Abs(in.Threshold - in.Q50),
	}, nil
}

// ScorePrediction scores a bet scenario against a quantile prediction,
// deriving the payout multiplier from the scenario's odds when present.
func (s *Scorer) ScorePrediction(pred *models.QuantilePrediction, scenario *models.BetScenario, payoutMultiplier float64) (*models.ScoreResult, error) {
	return s.Score(Input{
		Q10:              pred.Q10,
		Q50:              pred.Q50,
		Q90:              pred.Q90,
		Threshold:        scenario.Threshold,
		Direction:        scenario.Direction,
		PayoutMultiplier: payoutMultiplier,
	})
}

func validateInput(in Input) error {
	quantities := map[string]float64{
		"q10":       in.Q10,
		"q50":       in.Q50,
		"q90":       in.Q90,
		"threshold": in.Threshold,
	}
	for _, name := range []string{"q10", "q50", "q90", "threshold"} {
		if v := quantities[name]; math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", models.ErrInvalidInput, name, v)
		}
	}
	if in.Q10 > in.Q90 {
		return fmt.Errorf("%w: q10 (%.4f) exceeds q90 (%.4f)", models.ErrInvalidInput, in.Q10, in.Q90)
	}
	switch in.Direction {
	case models.DirectionOver, models.DirectionUnder:
	default:
		return fmt.Errorf("%w: direction %q must be \"over\" or \"under\"", models.ErrInvalidInput, in.Direction)
	}
	if pm := in.PayoutMultiplier; pm != 0 && (pm < 0 || math.IsNaN(pm) || math.IsInf(pm, 0)) {
		return fmt.Errorf("%w: payout multiplier must be positive, got %v", models.ErrInvalidInput, pm)
	}
	return nil
}

// cumulative evaluates the piecewise-linear CDF approximation at t.
func cumulative(t, q10, q50, q90 float64) float64 {
	switch {
	case t < q10:
		return 0.0
	case t > q90:
		return 1.0
	case t == q50:
		return 0.50
	case t <= q50:
		return 0.10 + 0.40*segmentRatio(t, q10, q50)
	default:
		return 0.50 + 0.40*segmentRatio(t, q50, q90)
	}
}

// segmentRatio returns the position of t within [lo, hi] scaled to [0, 1].
// Zero-width or inverted segments (q50 outside q10..q90 is tolerated per
// the input contract) collapse to their midpoint.
func segmentRatio(t, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	r := (t - lo) / (hi - lo)
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

func clampProbability(p float64) float64 {
	return math.Min(maxWinProbability, math.Max(minWinProbability, p))
}

func (s *Scorer) confidenceFor(relativeSpread float64) models.ConfidenceLevel {
	switch {
	case relativeSpread < s.cfg.HighConfidenceSpread:
		return models.ConfidenceHigh
	case relativeSpread < s.cfg.MediumConfidenceSpread:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func (s *Scorer) recommendationFor(ev float64) models.Recommendation {
	switch {
	case ev > s.cfg.GoodBetEV:
		return models.RecommendationGood
	case ev > 0:
		return models.RecommendationFair
	case ev > s.cfg.RiskyBetEV:
		return models.RecommendationRisky
	default:
		return models.RecommendationPoor
	}
}
