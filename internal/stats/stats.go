// Package stats is the catalog of supported player positions and the
// statistics a quantile model exists for, including the mapping between
// UI-facing action names and model stat names.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/J-cmar/hedgebets/internal/models"
)

// positionStats lists the model stats trained per position.
var positionStats = map[string][]string{
	"QB": {"passing_yards", "passing_tds", "completions", "passing_interceptions", "rushing_yards"},
	"RB": {"rushing_yards", "rushing_tds", "receptions", "receiving_yards", "receiving_tds"},
	"WR": {"receiving_yards", "receptions", "receiving_tds", "targets"},
	"TE": {"receiving_yards", "receptions", "receiving_tds"},
}

// actionToStat maps UI action names to model stat names.
var actionToStat = map[string]string{
	"Passing Yards":        "passing_yards",
	"Passing Touchdowns":   "passing_tds",
	"Completions":          "completions",
	"Attempts":             "attempts",
	"Interceptions":        "passing_interceptions",
	"Rushing Yards":        "rushing_yards",
	"Rushing Touchdowns":   "rushing_tds",
	"Receiving Yards":      "receiving_yards",
	"Receiving Touchdowns": "receiving_tds",
	"Receptions":           "receptions",
	"Targets":              "targets",
}

var displayNames = map[string]string{
	"passing_yards":          "Passing Yards",
	"passing_tds":            "Passing Touchdowns",
	"completions":            "Completions",
	"attempts":               "Attempts",
	"passing_interceptions":  "Interceptions",
	"rushing_yards":          "Rushing Yards",
	"rushing_tds":            "Rushing Touchdowns",
	"receiving_yards":        "Receiving Yards",
	"receiving_tds":          "Receiving Touchdowns",
	"receptions":             "Receptions",
	"targets":                "Targets",
}

var units = map[string]string{
	"passing_yards":         "yards",
	"passing_tds":           "TDs",
	"completions":           "completions",
	"attempts":              "attempts",
	"passing_interceptions": "INTs",
	"rushing_yards":         "yards",
	"rushing_tds":           "TDs",
	"receiving_yards":       "yards",
	"receiving_tds":         "TDs",
	"receptions":            "receptions",
	"targets":               "targets",
}

// Positions returns the supported positions in stable order.
func Positions() []string {
	positions := make([]string, 0, len(positionStats))
	for p := range positionStats {
		positions = append(positions, p)
	}
	sort.Strings(positions)
	return positions
}

// StatsForPosition returns the stats a model exists for at the position.
func StatsForPosition(position string) ([]string, error) {
	list, ok := positionStats[normalizePosition(position)]
	if !ok {
		return nil, fmt.Errorf("%w: position %q must be one of %s",
			models.ErrUnknownPosition, position, strings.Join(Positions(), ", "))
	}
	out := make([]string, len(list))
	copy(out, list)
	return out, nil
}

// StatForAction resolves a UI action name to its model stat name.
func StatForAction(action string) (string, error) {
	stat, ok := actionToStat[strings.TrimSpace(action)]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", models.ErrUnknownStat, action)
	}
	return stat, nil
}

// ValidateScenario checks that a quantile model exists for the
// position/stat combination.
func ValidateScenario(position, stat string) error {
	list, err := StatsForPosition(position)
	if err != nil {
		return err
	}
	for _, s := range list {
		if s == stat {
			return nil
		}
	}
	return fmt.Errorf("%w: position %q does not support stat %q (available: %s)",
		models.ErrUnknownStat, normalizePosition(position), stat, strings.Join(list, ", "))
}

// DisplayName returns the human-readable name of a stat.
func DisplayName(stat string) string {
	if name, ok := displayNames[stat]; ok {
		return name
	}
	return stat
}

// Unit returns the display unit of a stat, or "" when unknown.
func Unit(stat string) string {
	return units[stat]
}

func normalizePosition(position string) string {
	return strings.ToUpper(strings.TrimSpace(position))
}
