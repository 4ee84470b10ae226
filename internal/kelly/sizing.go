package kelly

import (
	"math"

	"github.com/XavierBriggs/Oracle/pkg/models"
)

// FullKelly computes the raw Kelly fraction f* = (bp - q) / b where
// b is net decimal odds, p the win probability, q = 1 - p. The result
// is negative when there is no edge.
func FullKelly(americanOdds int, winProbability float64) (float64, error) {
	decimal, err := DecimalOdds(americanOdds)
	if err != nil {
		return 0, err
	}

	b := decimal - 1.0 // net profit per unit staked
	p := winProbability
	q := 1.0 - p

	return (b*p - q) / b, nil
}

// SizeBet sizes a proposed bet with fractional Kelly and bankroll caps.
//
// kellyFraction is the fractional multiplier (pass the dynamic fraction
// from the bankroll manager for performance-adaptive sizing). A bet is
// passed on entirely when the adjusted fraction is non-positive or below
// minBetPct: a stake that small is not worth the variance.
func SizeBet(americanOdds int, confidence models.Confidence, bankroll, kellyFraction, maxBetPct, minBetPct float64) (*models.StakingRecommendation, error) {
	implied, err := ImpliedProbability(americanOdds)
	if err != nil {
		return nil, err
	}
	estimated, err := EstimateWinProbability(americanOdds, confidence)
	if err != nil {
		return nil, err
	}

	fullKelly, err := FullKelly(americanOdds, estimated)
	if err != nil {
		return nil, err
	}

	adjusted := fullKelly * kellyFraction

	var finalPct float64
	shouldBet := false
	switch {
	case adjusted <= 0:
		// no edge
	case adjusted < minBetPct:
		// below minimum viable stake
	default:
		finalPct = math.Min(adjusted, maxBetPct)
		shouldBet = true
	}

	betAmount := round2(bankroll * finalPct)

	decimal, err := DecimalOdds(americanOdds)
	if err != nil {
		return nil, err
	}
	b := decimal - 1.0
	ev := estimated*betAmount*b - (1.0-estimated)*betAmount

	return &models.StakingRecommendation{
		ImpliedProb:   implied,
		EstimatedProb: estimated,
		FullKelly:     fullKelly,
		AdjustedKelly: adjusted,
		FinalBetPct:   finalPct,
		BetAmount:     betAmount,
		ExpectedValue: round2(ev),
		ShouldBet:     shouldBet,
	}, nil
}

// round2 rounds to 2 decimal places (cents)
func round2(val float64) float64 {
	return math.Round(val*100) / 100
}
