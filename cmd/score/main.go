// Package main provides a command-line bet scenario scorer.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/J-cmar/hedgebets/internal/config"
	"github.com/J-cmar/hedgebets/internal/models"
	"github.com/J-cmar/hedgebets/internal/odds"
	"github.com/J-cmar/hedgebets/internal/scoring"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile   string
	q10          float64
	q50          float64
	q90          float64
	threshold    float64
	direction    string
	americanOdds int
	bankroll     float64
	kellyFrac    float64

	scorer *scoring.Scorer
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")

	rootCmd.Flags().Float64Var(&q10, "q10", 0, "10th percentile prediction")
	rootCmd.Flags().Float64Var(&q50, "q50", 0, "50th percentile (median) prediction")
	rootCmd.Flags().Float64Var(&q90, "q90", 0, "90th percentile prediction")
	rootCmd.Flags().Float64Var(&threshold, "threshold", 0, "Bet line to score against")
	rootCmd.Flags().StringVar(&direction, "direction", "over", "Bet direction: over or under")
	rootCmd.Flags().IntVar(&americanOdds, "odds", odds.StandardAmericanOdds, "American odds of the line")
	rootCmd.Flags().Float64Var(&bankroll, "bankroll", 0, "Bankroll for Kelly stake sizing")
	rootCmd.Flags().Float64Var(&kellyFrac, "kelly-fraction", 0.5, "Fraction of full Kelly to stake")

	rootCmd.MarkFlagRequired("q10")
	rootCmd.MarkFlagRequired("q50")
	rootCmd.MarkFlagRequired("q90")
	rootCmd.MarkFlagRequired("threshold")
}

var rootCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a bet scenario against quantile predictions",
	Long: `Scores an over/under proposition against q10/q50/q90 quantile
predictions, printing the win probability, expected value, confidence
level and recommendation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		scorer = scoring.New(cfg.Scoring)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScore()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runScore() error {
	dir, err := models.ParseDirection(direction)
	if err != nil {
		return err
	}

	payout, err := odds.PayoutMultiplierFromAmerican(americanOdds)
	if err != nil {
		return err
	}

	result, err := scorer.Score(scoring.Input{
		Q10:              q10,
		Q50:              q50,
		Q90:              q90,
		Threshold:        threshold,
		Direction:        dir,
		PayoutMultiplier: payout,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\nBet Scenario Analysis\n")
	fmt.Fprintf(os.Stdout, "=====================\n")
	fmt.Fprintf(os.Stdout, "  Line:            %s %.1f\n", dir, threshold)
	fmt.Fprintf(os.Stdout, "  Prediction:      q10=%.1f  q50=%.1f  q90=%.1f\n", q10, q50, q90)
	fmt.Fprintf(os.Stdout, "  Odds:            %+d\n\n", americanOdds)
	fmt.Fprintf(os.Stdout, "  Win Probability: %.1f%%\n", result.WinProbability*100)
	fmt.Fprintf(os.Stdout, "  Expected Value:  %+.3f per unit staked\n", result.ExpectedValue)
	fmt.Fprintf(os.Stdout, "  Confidence:      %s (relative spread %.2f)\n", result.Confidence, result.RelativeSpread)
	fmt.Fprintf(os.Stdout, "  Recommendation:  %s\n", result.Recommendation)

	if bankroll > 0 {
		dec, err := odds.AmericanToDecimal(americanOdds)
		if err != nil {
			return err
		}
		stake := scoring.SuggestStake(result.WinProbability, dec, bankroll, kellyFrac)
		fmt.Fprintf(os.Stdout, "  Suggested Stake: %.2f of %.2f bankroll\n", stake, bankroll)
	}

	fmt.Fprintln(os.Stdout)
	return nil
}
