package bankroll

import "github.com/XavierBriggs/Oracle/pkg/models"

const (
	streakLossThreshold = 3 // reduce after 3 consecutive losses
	streakWinThreshold  = 5 // boost eligibility after 5 consecutive wins

	drawdownCaution = 0.10
	drawdownCrisis  = 0.20

	// calibration penalty applies only with a trustworthy sample
	calibrationPenaltyBelow  = 0.8
	calibrationPenaltySample = 10

	// dynamic Kelly bounds: absolute floor, ceiling relative to base
	dynamicKellyFloor       = 0.05
	dynamicKellyCeilingMult = 1.25
)

// riskMultipliers scale the base Kelly fraction per risk level
var riskMultipliers = map[models.RiskLevel]float64{
	models.RiskCrisis:     0.25,
	models.RiskCautious:   0.50,
	models.RiskNormal:     1.0,
	models.RiskAggressive: 1.10,
}

// ClassifyRisk maps current metrics and calibration to a risk level.
// Evaluation order is severity-first: CRISIS, then CAUTIOUS, then
// AGGRESSIVE, with NORMAL as the fallback. Inputs satisfying both
// CRISIS and AGGRESSIVE conditions resolve to CRISIS.
func ClassifyRisk(metrics models.PerformanceMetrics, calibration models.CalibrationMetrics) models.RiskLevel {
	if metrics.DrawdownPct >= drawdownCrisis {
		return models.RiskCrisis
	}

	if metrics.DrawdownPct >= drawdownCaution {
		return models.RiskCautious
	}
	if metrics.CurrentStreak <= -streakLossThreshold {
		return models.RiskCautious
	}

	if metrics.CurrentStreak >= streakWinThreshold &&
		calibration.Overall >= 0.9 &&
		metrics.WinRateL10 >= 0.60 {
		return models.RiskAggressive
	}

	return models.RiskNormal
}

// DynamicKellyFraction scales the configured base Kelly fraction by the
// current risk level and by calibration. A historically overconfident
// model (overall calibration < 0.8 across at least 10 HIGH/MEDIUM
// samples) is penalized proportionally. The result is clamped to
// [0.05, base*1.25]: the floor is an absolute 5% Kelly fraction, not 5%
// of base.
func DynamicKellyFraction(baseKellyFraction float64, metrics models.PerformanceMetrics, calibration models.CalibrationMetrics) float64 {
	level := ClassifyRisk(metrics, calibration)
	adjusted := baseKellyFraction * riskMultipliers[level]

	if calibration.Overall < calibrationPenaltyBelow &&
		calibration.BetSampleSize() >= calibrationPenaltySample {
		adjusted *= calibration.Overall
	}

	ceiling := baseKellyFraction * dynamicKellyCeilingMult
	if adjusted > ceiling {
		adjusted = ceiling
	}
	if adjusted < dynamicKellyFloor {
		adjusted = dynamicKellyFloor
	}

	return adjusted
}
