package models

import "time"

// QuantilePrediction holds the 10th/50th/90th percentile estimates for a
// player's statistical output in an upcoming game, as returned by the
// model-serving service. Immutable after creation.
type QuantilePrediction struct {
	Player       string    `json:"player"`
	Position     string    `json:"position"`
	Stat         string    `json:"stat"`
	Season       int       `json:"season"`
	Week         int       `json:"week"`
	Q10          float64   `json:"q10"`
	Q50          float64   `json:"q50"`
	Q90          float64   `json:"q90"`
	ModelVersion string    `json:"model_version,omitempty"`
	PredictedAt  time.Time `json:"predicted_at"`
}

// Spread returns the width of the q10..q90 interval.
func (p *QuantilePrediction) Spread() float64 {
	return p.Q90 - p.Q10
}
