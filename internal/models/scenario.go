package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction is the side of an over/under proposition.
type Direction string

const (
	DirectionOver  Direction = "over"
	DirectionUnder Direction = "under"
)

// ParseDirection normalizes and validates a direction string.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionOver:
		return DirectionOver, nil
	case DirectionUnder:
		return DirectionUnder, nil
	default:
		return "", fmt.Errorf("%w: direction %q must be \"over\" or \"under\"", ErrInvalidInput, s)
	}
}

// BetScenario describes a player-prop wager as submitted by a caller.
// Threshold and Direction define the proposition; WagerAmount and
// AmericanOdds are optional and only affect payout math.
type BetScenario struct {
	ID           uuid.UUID       `json:"id"`
	Player       string          `json:"player"`
	Position     string          `json:"position"`
	Team         string          `json:"team,omitempty"`
	Action       string          `json:"action"`
	Stat         string          `json:"stat"`
	Threshold    float64         `json:"threshold"`
	Direction    Direction       `json:"direction"`
	WagerAmount  decimal.Decimal `json:"wager_amount"`
	AmericanOdds int             `json:"american_odds,omitempty"`
}

// HasOdds reports whether the caller supplied real odds for this scenario.
func (s *BetScenario) HasOdds() bool {
	return s.AmericanOdds != 0
}
