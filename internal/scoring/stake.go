package scoring

// SuggestStake sizes a stake with the fractional Kelly criterion given the
// scored win probability and decimal odds. Returns 0 when the bet has no
// positive edge or the inputs are degenerate.
func SuggestStake(probability, decimalOdds, bankroll, fraction float64) float64 {
	if probability <= 0 || probability >= 1 || decimalOdds <= 1 || bankroll <= 0 {
		return 0
	}
	b := decimalOdds - 1.0
	kelly := (b*probability - (1.0 - probability)) / b
	if kelly <= 0 {
		return 0
	}
	if fraction <= 0 || fraction > 1 {
		fraction = 0.5
	}
	stake := bankroll * kelly * fraction
	if stake > bankroll {
		return bankroll
	}
	return stake
}
