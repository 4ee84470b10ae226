package bankroll

import (
	"testing"

	"github.com/XavierBriggs/Oracle/pkg/models"
)

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		name        string
		metrics     models.PerformanceMetrics
		calibration models.CalibrationMetrics
		want        models.RiskLevel
	}{
		{
			name:    "clean slate is normal",
			metrics: models.PerformanceMetrics{},
			want:    models.RiskNormal,
		},
		{
			name:    "deep drawdown is crisis",
			metrics: models.PerformanceMetrics{DrawdownPct: 0.25},
			want:    models.RiskCrisis,
		},
		{
			name:    "drawdown at crisis boundary",
			metrics: models.PerformanceMetrics{DrawdownPct: 0.20},
			want:    models.RiskCrisis,
		},
		{
			name:    "moderate drawdown is cautious",
			metrics: models.PerformanceMetrics{DrawdownPct: 0.12},
			want:    models.RiskCautious,
		},
		{
			name:    "losing streak is cautious",
			metrics: models.PerformanceMetrics{CurrentStreak: -3},
			want:    models.RiskCautious,
		},
		{
			name:    "two losses is still normal",
			metrics: models.PerformanceMetrics{CurrentStreak: -2},
			want:    models.RiskNormal,
		},
		{
			name:        "hot streak with calibration is aggressive",
			metrics:     models.PerformanceMetrics{CurrentStreak: 5, WinRateL10: 0.60},
			calibration: models.CalibrationMetrics{Overall: 0.9},
			want:        models.RiskAggressive,
		},
		{
			name:        "hot streak without calibration stays normal",
			metrics:     models.PerformanceMetrics{CurrentStreak: 6, WinRateL10: 0.70},
			calibration: models.CalibrationMetrics{Overall: 0.85},
			want:        models.RiskNormal,
		},
		{
			name:        "hot streak with weak recent form stays normal",
			metrics:     models.PerformanceMetrics{CurrentStreak: 5, WinRateL10: 0.50},
			calibration: models.CalibrationMetrics{Overall: 1.1},
			want:        models.RiskNormal,
		},
		{
			name: "crisis beats aggressive",
			metrics: models.PerformanceMetrics{
				DrawdownPct:   0.25,
				CurrentStreak: 6,
				WinRateL10:    0.65,
			},
			calibration: models.CalibrationMetrics{Overall: 0.95},
			want:        models.RiskCrisis,
		},
		{
			name: "caution beats aggressive",
			metrics: models.PerformanceMetrics{
				DrawdownPct:   0.15,
				CurrentStreak: 6,
				WinRateL10:    0.65,
			},
			calibration: models.CalibrationMetrics{Overall: 0.95},
			want:        models.RiskCautious,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyRisk(tt.metrics, tt.calibration)
			if got != tt.want {
				t.Errorf("ClassifyRisk() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDynamicKellyFraction(t *testing.T) {
	neutral := models.CalibrationMetrics{Overall: 1.0}

	tests := []struct {
		name        string
		base        float64
		metrics     models.PerformanceMetrics
		calibration models.CalibrationMetrics
		want        float64
	}{
		{
			name:        "normal keeps base",
			base:        0.25,
			metrics:     models.PerformanceMetrics{},
			calibration: neutral,
			want:        0.25,
		},
		{
			name:        "crisis quarters base",
			base:        0.25,
			metrics:     models.PerformanceMetrics{DrawdownPct: 0.30},
			calibration: neutral,
			// 0.25 * 0.25 = 0.0625, above the 0.05 floor
			want: 0.0625,
		},
		{
			name:        "cautious halves base",
			base:        0.25,
			metrics:     models.PerformanceMetrics{CurrentStreak: -4},
			calibration: neutral,
			want:        0.125,
		},
		{
			name:    "aggressive boosts base",
			base:    0.25,
			metrics: models.PerformanceMetrics{CurrentStreak: 5, WinRateL10: 0.70},
			calibration: models.CalibrationMetrics{
				Overall: 1.0,
			},
			want: 0.275,
		},
		{
			name:    "miscalibration penalty applies with sample",
			base:    0.25,
			metrics: models.PerformanceMetrics{},
			calibration: models.CalibrationMetrics{
				Overall: 0.7,
				High:    models.TierCalibration{Count: 6},
				Medium:  models.TierCalibration{Count: 6},
			},
			// 0.25 * 1.0 * 0.7 = 0.175
			want: 0.175,
		},
		{
			name:    "miscalibration ignored below sample",
			base:    0.25,
			metrics: models.PerformanceMetrics{},
			calibration: models.CalibrationMetrics{
				Overall: 0.7,
				High:    models.TierCalibration{Count: 4},
				Medium:  models.TierCalibration{Count: 4},
			},
			want: 0.25,
		},
		{
			name:    "floor holds under stacked reductions",
			base:    0.25,
			metrics: models.PerformanceMetrics{DrawdownPct: 0.30},
			calibration: models.CalibrationMetrics{
				Overall: 0.5,
				High:    models.TierCalibration{Count: 10},
				Medium:  models.TierCalibration{Count: 10},
			},
			// 0.25 * 0.25 * 0.5 = 0.03125, clamped to the 0.05 floor
			want: 0.05,
		},
		{
			name:        "ceiling caps at 125 percent of base",
			base:        0.25,
			metrics:     models.PerformanceMetrics{CurrentStreak: 8, WinRateL10: 0.80},
			calibration: models.CalibrationMetrics{Overall: 1.5},
			// aggressive multiplier is 1.10, already under the 1.25 ceiling
			want: 0.275,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DynamicKellyFraction(tt.base, tt.metrics, tt.calibration)
			if !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("DynamicKellyFraction() = %.5f, want %.5f", got, tt.want)
			}
		})
	}
}
