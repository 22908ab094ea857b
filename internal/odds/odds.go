// Package odds provides conversions between American and decimal odds and
// the probability/payout math built on them.
package odds

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/J-cmar/hedgebets/internal/models"
)

// StandardAmericanOdds is the typical player-prop line when the caller does
// not supply real odds.
const StandardAmericanOdds = -110

// AmericanToDecimal converts an American price to European decimal odds.
// Valid American odds are <= -100 or >= +100.
func AmericanToDecimal(american int) (float64, error) {
	switch {
	case american >= 100:
		return 1.0 + float64(american)/100.0, nil
	case american <= -100:
		return 1.0 + 100.0/float64(-american), nil
	default:
		return 0, fmt.Errorf("%w: american odds %d must be <= -100 or >= +100", models.ErrInvalidInput, american)
	}
}

// DecimalToAmerican converts decimal odds to the nearest American price.
func DecimalToAmerican(dec float64) (int, error) {
	if dec <= 1.0 || math.IsNaN(dec) || math.IsInf(dec, 0) {
		return 0, fmt.Errorf("%w: decimal odds %v must be greater than 1.0", models.ErrInvalidInput, dec)
	}
	if dec >= 2.0 {
		return int(math.Round((dec - 1.0) * 100.0)), nil
	}
	return -int(math.Round(100.0 / (dec - 1.0))), nil
}

// ImpliedProbability returns the bookmaker-implied win probability of
// decimal odds, vig included.
func ImpliedProbability(dec float64) (float64, error) {
	if dec <= 1.0 || math.IsNaN(dec) || math.IsInf(dec, 0) {
		return 0, fmt.Errorf("%w: decimal odds %v must be greater than 1.0", models.ErrInvalidInput, dec)
	}
	return 1.0 / dec, nil
}

// RemoveVig converts two-way decimal odds to fair probabilities by
// stripping the bookmaker's overround.
func RemoveVig(over, under float64) (float64, float64, error) {
	pOver, err := ImpliedProbability(over)
	if err != nil {
		return 0, 0, err
	}
	pUnder, err := ImpliedProbability(under)
	if err != nil {
		return 0, 0, err
	}
	total := pOver + pUnder
	return pOver / total, pUnder / total, nil
}

// PayoutMultiplier returns the net return per unit staked for decimal odds,
// i.e. the b term used in expected-value and Kelly math.
func PayoutMultiplier(dec float64) (float64, error) {
	if dec <= 1.0 || math.IsNaN(dec) || math.IsInf(dec, 0) {
		return 0, fmt.Errorf("%w: decimal odds %v must be greater than 1.0", models.ErrInvalidInput, dec)
	}
	return dec - 1.0, nil
}

// PayoutMultiplierFromAmerican is a convenience for scoring scenarios that
// carry an American price.
func PayoutMultiplierFromAmerican(american int) (float64, error) {
	dec, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return PayoutMultiplier(dec)
}

// PotentialReturn computes the total amount returned on a winning stake
// (stake plus profit) at the given decimal odds.
func PotentialReturn(stake decimal.Decimal, dec float64) decimal.Decimal {
	if dec <= 1.0 {
		return stake
	}
	return stake.Mul(decimal.NewFromFloat(dec)).Round(2)
}

// Profit computes the net profit on a winning stake at the given decimal
// odds.
func Profit(stake decimal.Decimal, dec float64) decimal.Decimal {
	return PotentialReturn(stake, dec).Sub(stake)
}
