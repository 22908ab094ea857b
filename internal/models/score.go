package models

// ConfidenceLevel is a qualitative measure of model certainty derived from
// the quantile spread.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "Low"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceHigh   ConfidenceLevel = "High"
)

// Recommendation is the categorical verdict on a bet scenario.
type Recommendation string

const (
	RecommendationGood  Recommendation = "Good Bet"
	RecommendationFair  Recommendation = "Fair Bet"
	RecommendationRisky Recommendation = "Risky Bet"
	RecommendationPoor  Recommendation = "Poor Bet"
)

// ScoreResult is the derived, stateless output of scoring one bet scenario
// against one quantile prediction. It has no identity or lifecycle beyond
// the request that produced it.
type ScoreResult struct {
	WinProbability     float64         `json:"win_probability"`
	ExpectedValue      float64         `json:"expected_value"`
	Confidence         ConfidenceLevel `json:"confidence_level"`
	Recommendation     Recommendation  `json:"recommendation"`
	PredictionSpread   float64         `json:"prediction_spread"`
	RelativeSpread     float64         `json:"relative_spread"`
	DistanceFromMedian float64         `json:"distance_from_median"`
}
