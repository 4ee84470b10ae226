package kelly

import (
	"fmt"

	"github.com/XavierBriggs/Oracle/pkg/models"
)

// maxEstimatedProb caps estimated win probability to keep the Kelly
// fraction from blowing up on near-certainty inputs
const maxEstimatedProb = 0.95

// confidenceEdge is the probability edge added on top of the market's
// implied probability per confidence tier. LOW gets no edge: those picks
// are never bet.
var confidenceEdge = map[models.Confidence]float64{
	models.ConfidenceHigh:   0.08,
	models.ConfidenceMedium: 0.04,
	models.ConfidenceLow:    0.0,
}

// InvalidOddsError reports American odds that cannot be priced
type InvalidOddsError struct {
	Odds int
}

func (e *InvalidOddsError) Error() string {
	return fmt.Sprintf("invalid american odds: %d", e.Odds)
}

// ImpliedProbability converts American odds to the market's implied win
// probability. +150 -> 0.4, -110 -> 0.5238.
func ImpliedProbability(americanOdds int) (float64, error) {
	if americanOdds == 0 {
		return 0, &InvalidOddsError{Odds: americanOdds}
	}
	if americanOdds > 0 {
		return 100.0 / (float64(americanOdds) + 100.0), nil
	}
	abs := float64(-americanOdds)
	return abs / (abs + 100.0), nil
}

// DecimalOdds converts American odds to decimal odds. +150 -> 2.5.
func DecimalOdds(americanOdds int) (float64, error) {
	if americanOdds == 0 {
		return 0, &InvalidOddsError{Odds: americanOdds}
	}
	if americanOdds > 0 {
		return float64(americanOdds)/100.0 + 1.0, nil
	}
	return 100.0/float64(-americanOdds) + 1.0, nil
}

// EstimateWinProbability derives our win probability estimate: market
// implied probability plus the confidence-tier edge, capped at 0.95
func EstimateWinProbability(americanOdds int, confidence models.Confidence) (float64, error) {
	implied, err := ImpliedProbability(americanOdds)
	if err != nil {
		return 0, err
	}

	estimated := implied + confidenceEdge[confidence]
	if estimated > maxEstimatedProb {
		estimated = maxEstimatedProb
	}
	return estimated, nil
}
