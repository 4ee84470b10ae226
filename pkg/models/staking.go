package models

import "fmt"

// RiskLevel drives dynamic Kelly scaling
type RiskLevel string

const (
	RiskCrisis     RiskLevel = "crisis"     // big drawdown, minimize risk
	RiskCautious   RiskLevel = "cautious"   // after losses, reduce exposure
	RiskNormal     RiskLevel = "normal"     // standard Kelly fraction
	RiskAggressive RiskLevel = "aggressive" // hot streak, well calibrated
)

// StakingRecommendation is the sizing output for one proposed bet.
// All probability/fraction fields are decimals in [0,1].
type StakingRecommendation struct {
	ImpliedProb   float64
	EstimatedProb float64
	FullKelly     float64 // raw Kelly fraction, may be negative
	AdjustedKelly float64 // after applying the Kelly multiplier
	FinalBetPct   float64 // after min/max caps; 0 when not betting
	BetAmount     float64 // dollars, rounded to cents
	ExpectedValue float64 // dollars
	ShouldBet     bool
}

// PerformanceMetrics summarizes betting performance over the settled
// history. Recomputed from scratch on every call; never persisted.
type PerformanceMetrics struct {
	WinRateL10 float64
	WinRateL20 float64
	WinRateL50 float64
	WinRateAll float64

	// Positive = consecutive wins, negative = consecutive losses.
	// A push at the head of the history zeroes the streak.
	CurrentStreak int

	ROIL10 float64
	ROIL20 float64
	ROIAll float64

	TotalWagered    float64
	TotalPL         float64
	PeakBankroll    float64
	CurrentBankroll float64
	DrawdownPct     float64

	TotalPicks int
	Wins       int
	Losses     int
	Pushes     int
}

// FormatSummary renders a one-line status string
func (m PerformanceMetrics) FormatSummary() string {
	streak := "0"
	if m.CurrentStreak > 0 {
		streak = fmt.Sprintf("W%d", m.CurrentStreak)
	} else if m.CurrentStreak < 0 {
		streak = fmt.Sprintf("L%d", -m.CurrentStreak)
	}
	return fmt.Sprintf("Record: %d-%d (%.1f%%) | Streak: %s | ROI: %+.1f%% | Drawdown: %.1f%%",
		m.Wins, m.Losses, m.WinRateAll*100, streak, m.ROIAll*100, m.DrawdownPct*100)
}

// TierCalibration compares observed vs expected win rate for one
// confidence tier
type TierCalibration struct {
	Expected float64
	Observed float64
	Count    int
	Ratio    float64 // observed/expected capped at 1.5; 1.0 below min sample
}

// CalibrationMetrics scores how well stated confidence matches realized
// outcomes. LOW is tracked but excluded from the overall score since
// LOW-tier picks are never bet.
type CalibrationMetrics struct {
	High    TierCalibration
	Medium  TierCalibration
	Low     TierCalibration
	Overall float64
}

// BetSampleSize returns the number of settled bets in the tiers that are
// actually wagered (HIGH + MEDIUM)
func (c CalibrationMetrics) BetSampleSize() int {
	return c.High.Count + c.Medium.Count
}

// FormatSummary renders a one-line calibration string
func (c CalibrationMetrics) FormatSummary() string {
	return fmt.Sprintf("HIGH: %.0f%% vs %.0f%% (%d) | MED: %.0f%% vs %.0f%% (%d) | Calibration: %.2f",
		c.High.Observed*100, c.High.Expected*100, c.High.Count,
		c.Medium.Observed*100, c.Medium.Expected*100, c.Medium.Count,
		c.Overall)
}
