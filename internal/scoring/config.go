package scoring

// Default cutoffs. These are calibration constants, not statistically
// derived values; override them through Config when real calibration data
// is available.
const (
	// DefaultPayoutMultiplier is the net return per unit staked at the
	// standard -110 American line (decimal odds ~1.909).
	DefaultPayoutMultiplier = 10.0 / 11.0

	// Relative-spread cutoffs for confidence levels. A tighter q10..q90
	// interval relative to the median means the model is more certain.
	DefaultHighConfidenceSpread   = 0.30
	DefaultMediumConfidenceSpread = 0.60

	// Expected-value cutoffs for the recommendation ladder.
	DefaultGoodBetEV  = 0.15
	DefaultRiskyBetEV = -0.15
)

// Probability clamp bounds; three quantile points never justify certainty.
const (
	minWinProbability = 0.01
	maxWinProbability = 0.99
)

// Config holds the tunable constants of the scorer.
type Config struct {
	PayoutMultiplier       float64 `mapstructure:"payout_multiplier" validate:"omitempty,gt=0"`
	HighConfidenceSpread   float64 `mapstructure:"high_confidence_spread" validate:"omitempty,gt=0"`
	MediumConfidenceSpread float64 `mapstructure:"medium_confidence_spread" validate:"omitempty,gt=0"`
	GoodBetEV              float64 `mapstructure:"good_bet_ev"`
	RiskyBetEV             float64 `mapstructure:"risky_bet_ev"`
}

// DefaultConfig returns the standard cutoffs.
func DefaultConfig() Config {
	return Config{
		PayoutMultiplier:       DefaultPayoutMultiplier,
		HighConfidenceSpread:   DefaultHighConfidenceSpread,
		MediumConfidenceSpread: DefaultMediumConfidenceSpread,
		GoodBetEV:              DefaultGoodBetEV,
		RiskyBetEV:             DefaultRiskyBetEV,
	}
}

// withDefaults fills zero-valued fields so that a partially populated
// Config (e.g. from YAML) still yields a usable scorer.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PayoutMultiplier == 0 {
		c.PayoutMultiplier = d.PayoutMultiplier
	}
	if c.HighConfidenceSpread == 0 {
		c.HighConfidenceSpread = d.HighConfidenceSpread
	}
	if c.MediumConfidenceSpread == 0 {
		c.MediumConfidenceSpread = d.MediumConfidenceSpread
	}
	if c.GoodBetEV == 0 {
		c.GoodBetEV = d.GoodBetEV
	}
	if c.RiskyBetEV == 0 {
		c.RiskyBetEV = d.RiskyBetEV
	}
	return c
}
