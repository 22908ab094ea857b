package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/J-cmar/hedgebets/internal/metrics"
	"github.com/J-cmar/hedgebets/internal/ml"
	"github.com/J-cmar/hedgebets/internal/models"
	"github.com/J-cmar/hedgebets/internal/odds"
	"github.com/J-cmar/hedgebets/internal/scoring"
	"github.com/J-cmar/hedgebets/internal/stats"
)

var validate = validator.New()

// ScoreRequest scores raw quantiles against a threshold without touching the
// model service. The numeric fields are pointers so that zero values are
// distinguishable from missing ones.
type ScoreRequest struct {
	Q10              *float64 `json:"q10" validate:"required"`
	Q50              *float64 `json:"q50" validate:"required"`
	Q90              *float64 `json:"q90" validate:"required"`
	Threshold        *float64 `json:"threshold" validate:"required"`
	Direction        string   `json:"direction" validate:"required"`
	PayoutMultiplier float64  `json:"payout_multiplier" validate:"omitempty,gt=0"`
}

// PredictRequest runs the full pipeline: catalog validation, quantile fetch,
// scoring and payout math. Either Action (display name) or Stat (model name)
// identifies the statistic.
type PredictRequest struct {
	Player       string   `json:"player" validate:"required"`
	Position     string   `json:"position" validate:"required"`
	Team         string   `json:"team"`
	Action       string   `json:"action"`
	Stat         string   `json:"stat"`
	Threshold    *float64 `json:"threshold" validate:"required"`
	Direction    string   `json:"direction" validate:"required"`
	Season       int      `json:"season" validate:"omitempty,gte=2000"`
	Week         int      `json:"week" validate:"omitempty,min=1,max=22"`
	WagerAmount  float64  `json:"wager_amount" validate:"omitempty,gt=0"`
	AmericanOdds int      `json:"american_odds"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// handleScore is the stateless scoring endpoint.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeBadRequest(w, r, "invalid JSON body: "+err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		metrics.RecordInvalidInput()
		s.writeBadRequest(w, r, err.Error())
		return
	}

	direction, err := models.ParseDirection(req.Direction)
	if err != nil {
		metrics.RecordInvalidInput()
		s.writeBadRequest(w, r, err.Error())
		return
	}

	start := time.Now()
	result, err := s.scorer.Score(scoring.Input{
		Q10:              *req.Q10,
		Q50:              *req.Q50,
		Q90:              *req.Q90,
		Threshold:        *req.Threshold,
		Direction:        direction,
		PayoutMultiplier: req.PayoutMultiplier,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	metrics.RecordScore(string(direction), string(result.Recommendation), time.Since(start).Seconds())

	s.writeJSON(w, http.StatusOK, result)
}

// predictResponse mirrors the shape consumed by the web client.
type predictResponse struct {
	Player     playerSection      `json:"player"`
	Bet        betSection         `json:"bet"`
	Prediction predictionSection  `json:"prediction"`
	Analysis   *models.ScoreResult `json:"analysis"`
	Details    detailsSection     `json:"details"`
}

type playerSection struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Team     string `json:"team,omitempty"`
}

type betSection struct {
	Stat         string  `json:"stat"`
	DisplayName  string  `json:"display_name"`
	Unit         string  `json:"unit,omitempty"`
	Threshold    float64 `json:"threshold"`
	Direction    string  `json:"direction"`
	AmericanOdds int     `json:"american_odds,omitempty"`
}

type predictionSection struct {
	Q10          float64 `json:"q10"`
	Q50          float64 `json:"q50"`
	Q90          float64 `json:"q90"`
	Season       int     `json:"season"`
	Week         int     `json:"week"`
	ModelVersion string  `json:"model_version,omitempty"`
}

type detailsSection struct {
	WagerAmount     string `json:"wager_amount,omitempty"`
	PotentialProfit string `json:"potential_profit,omitempty"`
	PotentialReturn string `json:"potential_return,omitempty"`
	SuggestedStake  string `json:"suggested_stake,omitempty"`
}

// handlePredict fetches quantiles from the model service and scores the
// scenario against them.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if s.model == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:     "model service is not configured",
			RequestID: RequestID(r.Context()),
		})
		return
	}

	var req PredictRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeBadRequest(w, r, "invalid JSON body: "+err.Error())
		return
	}
	if err := validate.Struct(&req); err != nil {
		metrics.RecordInvalidInput()
		s.writeBadRequest(w, r, err.Error())
		return
	}

	direction, err := models.ParseDirection(req.Direction)
	if err != nil {
		metrics.RecordInvalidInput()
		s.writeBadRequest(w, r, err.Error())
		return
	}

	stat := req.Stat
	if stat == "" {
		stat, err = stats.StatForAction(req.Action)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if err := stats.ValidateScenario(req.Position, stat); err != nil {
		s.writeError(w, r, err)
		return
	}

	season := req.Season
	if season == 0 {
		season = s.cfg.ModelService.DefaultSeason
	}
	week := req.Week
	if week == 0 {
		week = s.cfg.ModelService.DefaultWeek
	}

	pred, err := s.model.GetQuantiles(r.Context(), ml.QuantileRequest{
		Player:   req.Player,
		Position: req.Position,
		Stat:     stat,
		Season:   season,
		Week:     week,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	payout := 0.0
	decimalOdds := 0.0
	if req.AmericanOdds != 0 {
		payout, err = odds.PayoutMultiplierFromAmerican(req.AmericanOdds)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		decimalOdds, _ = odds.AmericanToDecimal(req.AmericanOdds)
	}

	start := time.Now()
	result, err := s.scorer.Score(scoring.Input{
		Q10:              pred.Q10,
		Q50:              pred.Q50,
		Q90:              pred.Q90,
		Threshold:        *req.Threshold,
		Direction:        direction,
		PayoutMultiplier: payout,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	metrics.RecordScore(string(direction), string(result.Recommendation), time.Since(start).Seconds())

	resp := predictResponse{
		Player: playerSection{
			Name:     req.Player,
			Position: pred.Position,
			Team:     req.Team,
		},
		Bet: betSection{
			Stat:         stat,
			DisplayName:  stats.DisplayName(stat),
			Unit:         stats.Unit(stat),
			Threshold:    *req.Threshold,
			Direction:    string(direction),
			AmericanOdds: req.AmericanOdds,
		},
		Prediction: predictionSection{
			Q10:          pred.Q10,
			Q50:          pred.Q50,
			Q90:          pred.Q90,
			Season:       pred.Season,
			Week:         pred.Week,
			ModelVersion: pred.ModelVersion,
		},
		Analysis: result,
	}

	if req.WagerAmount > 0 && decimalOdds > 1.0 {
		wager := decimal.NewFromFloat(req.WagerAmount)
		resp.Details = detailsSection{
			WagerAmount:     wager.StringFixed(2),
			PotentialProfit: odds.Profit(wager, decimalOdds).StringFixed(2),
			PotentialReturn: odds.PotentialReturn(wager, decimalOdds).StringFixed(2),
		}
		stake := scoring.SuggestStake(result.WinProbability, decimalOdds, req.WagerAmount, 0)
		resp.Details.SuggestedStake = decimal.NewFromFloat(stake).StringFixed(2)
	}

	s.logger.WithFields(logrus.Fields{
		"request_id":     RequestID(r.Context()),
		"player":         req.Player,
		"stat":           stat,
		"recommendation": result.Recommendation,
	}).Info("Scored bet scenario")

	s.writeJSON(w, http.StatusOK, resp)
}

type statEntry struct {
	Stat        string `json:"stat"`
	DisplayName string `json:"display_name"`
	Unit        string `json:"unit,omitempty"`
}

// handleStats lists the supported positions and their stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	catalog := make(map[string][]statEntry)
	for _, position := range stats.Positions() {
		list, err := stats.StatsForPosition(position)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		entries := make([]statEntry, 0, len(list))
		for _, st := range list {
			entries = append(entries, statEntry{
				Stat:        st,
				DisplayName: stats.DisplayName(st),
				Unit:        stats.Unit(st),
			})
		}
		catalog[position] = entries
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"positions": stats.Positions(),
		"stats":     catalog,
	})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

func (s *Server) writeBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:     msg,
		RequestID: RequestID(r.Context()),
	})
}

// writeError maps domain errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrUnknownPosition),
		errors.Is(err, models.ErrUnknownStat):
		status = http.StatusBadRequest
		metrics.RecordInvalidInput()
	case errors.Is(err, ml.ErrUnknownModel):
		status = http.StatusNotFound
	case errors.Is(err, ml.ErrServiceUnavailable),
		errors.Is(err, ml.ErrCircuitOpen):
		status = http.StatusBadGateway
	case errors.Is(err, ml.ErrInvalidResponse):
		status = http.StatusBadGateway
	}

	if status >= 500 {
		s.logger.WithError(err).WithField("request_id", RequestID(r.Context())).Error("Request error")
	}

	s.writeJSON(w, status, errorResponse{
		Error:     err.Error(),
		RequestID: RequestID(r.Context()),
	})
}
