// Package ml provides the client boundary to the external quantile model
// service that supplies q10/q50/q90 estimates for player props.
package ml

import (
	"context"

	"github.com/J-cmar/hedgebets/internal/models"
)

// QuantileRequest identifies one prediction to fetch from the model service.
type QuantileRequest struct {
	Player       string `json:"player"`
	Position     string `json:"position"`
	Stat         string `json:"stat"`
	Season       int    `json:"season"`
	Week         int    `json:"week"`
	ModelVersion string `json:"model_version,omitempty"`
}

// Client is the interface to the model-serving collaborator.
type Client interface {
	GetQuantiles(ctx context.Context, req QuantileRequest) (*models.QuantilePrediction, error)
	HealthCheck(ctx context.Context) error
	Close() error
}
