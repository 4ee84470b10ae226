package bankroll

import "github.com/XavierBriggs/Oracle/pkg/models"

const (
	// minCalibrationSample is the minimum settled bets a tier needs
	// before its observed win rate is trusted; below it the ratio
	// defaults to neutral 1.0
	minCalibrationSample = 5

	// calibrationRatioCap bounds how much credit an overperforming
	// tier can earn
	calibrationRatioCap = 1.5
)

// expectedWinRate is the target win rate per confidence tier
var expectedWinRate = map[models.Confidence]float64{
	models.ConfidenceHigh:   0.70,
	models.ConfidenceMedium: 0.55,
	models.ConfidenceLow:    0.35,
}

// ComputeCalibration compares actual win rates per confidence tier
// against their targets. The overall score is the sample-weighted
// average of the HIGH and MEDIUM ratios; LOW is excluded because it is
// never bet. With no HIGH/MEDIUM samples the overall score is neutral.
func ComputeCalibration(bets []models.SettledBet) models.CalibrationMetrics {
	cal := models.CalibrationMetrics{
		High:    tierCalibration(bets, models.ConfidenceHigh),
		Medium:  tierCalibration(bets, models.ConfidenceMedium),
		Low:     tierCalibration(bets, models.ConfidenceLow),
		Overall: 1.0,
	}

	totalBet := cal.High.Count + cal.Medium.Count
	if totalBet > 0 {
		cal.Overall = (cal.High.Ratio*float64(cal.High.Count) +
			cal.Medium.Ratio*float64(cal.Medium.Count)) / float64(totalBet)
	}

	return cal
}

func tierCalibration(bets []models.SettledBet, tier models.Confidence) models.TierCalibration {
	tc := models.TierCalibration{
		Expected: expectedWinRate[tier],
		Ratio:    1.0,
	}

	wins := 0
	for _, b := range bets {
		if b.Confidence != tier {
			continue
		}
		tc.Count++
		if b.Result == models.ResultWin {
			wins++
		}
	}

	if tc.Count == 0 {
		return tc
	}

	tc.Observed = float64(wins) / float64(tc.Count)

	if tc.Count >= minCalibrationSample && tc.Expected > 0 {
		ratio := tc.Observed / tc.Expected
		if ratio > calibrationRatioCap {
			ratio = calibrationRatioCap
		}
		tc.Ratio = ratio
	}

	return tc
}
