package bankroll

import (
	"math"
	"testing"

	"github.com/XavierBriggs/Oracle/pkg/models"
	"github.com/XavierBriggs/Oracle/pkg/testutil"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestComputePerformanceMetrics_Empty(t *testing.T) {
	m := ComputePerformanceMetrics(nil, 1000)

	if m.TotalPicks != 0 {
		t.Errorf("total picks = %d, want 0", m.TotalPicks)
	}
	if m.CurrentBankroll != 1000 {
		t.Errorf("current bankroll = %.2f, want 1000", m.CurrentBankroll)
	}
	if m.PeakBankroll != 1000 {
		t.Errorf("peak bankroll = %.2f, want 1000", m.PeakBankroll)
	}
	if m.CurrentStreak != 0 {
		t.Errorf("streak = %d, want 0", m.CurrentStreak)
	}
	if m.DrawdownPct != 0 {
		t.Errorf("drawdown = %.4f, want 0", m.DrawdownPct)
	}
}

func TestCurrentStreak(t *testing.T) {
	w, l, p := models.ResultWin, models.ResultLoss, models.ResultPush

	tests := []struct {
		name    string
		results []models.BetResult // newest first
		want    int
	}{
		{"three wins then loss", []models.BetResult{w, w, w, l, w}, 3},
		{"two losses then win", []models.BetResult{l, l, w, w}, -2},
		{"push at head zeroes streak", []models.BetResult{p, w, w, w}, 0},
		{"push mid-history breaks streak", []models.BetResult{w, w, p, w, w}, 2},
		{"single loss", []models.BetResult{l}, -1},
		{"all wins", []models.BetResult{w, w, w, w, w}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputePerformanceMetrics(testutil.SettledBets(tt.results...), 1000)
			if m.CurrentStreak != tt.want {
				t.Errorf("streak = %d, want %d", m.CurrentStreak, tt.want)
			}
		})
	}
}

func TestWinRateWindows(t *testing.T) {
	// 12 bets newest first: 8 wins then 4 losses.
	// L10 covers the newest 10: 8 wins, 2 losses.
	results := make([]models.BetResult, 0, 12)
	for i := 0; i < 8; i++ {
		results = append(results, models.ResultWin)
	}
	for i := 0; i < 4; i++ {
		results = append(results, models.ResultLoss)
	}

	m := ComputePerformanceMetrics(testutil.SettledBets(results...), 1000)

	if !almostEqual(m.WinRateL10, 0.8, 1e-9) {
		t.Errorf("win rate L10 = %.4f, want 0.8", m.WinRateL10)
	}
	if !almostEqual(m.WinRateL20, 8.0/12.0, 1e-9) {
		t.Errorf("win rate L20 = %.4f, want %.4f", m.WinRateL20, 8.0/12.0)
	}
	if !almostEqual(m.WinRateAll, 8.0/12.0, 1e-9) {
		t.Errorf("win rate all = %.4f, want %.4f", m.WinRateAll, 8.0/12.0)
	}
	if m.Wins != 8 || m.Losses != 4 || m.Pushes != 0 {
		t.Errorf("record = %d-%d-%d, want 8-4-0", m.Wins, m.Losses, m.Pushes)
	}
}

func TestBankrollWalkAndDrawdown(t *testing.T) {
	// Oldest to newest: +100, -50, +20, -80 from 1000.
	// Walk: 1100, 1050, 1070, 990. Peak 1100, drawdown 10%.
	bets := testutil.SettledBetsPL(-80, 20, -50, 100)

	m := ComputePerformanceMetrics(bets, 1000)

	if !almostEqual(m.CurrentBankroll, 990, 1e-9) {
		t.Errorf("current bankroll = %.2f, want 990", m.CurrentBankroll)
	}
	if !almostEqual(m.PeakBankroll, 1100, 1e-9) {
		t.Errorf("peak bankroll = %.2f, want 1100", m.PeakBankroll)
	}
	if !almostEqual(m.DrawdownPct, 0.10, 1e-9) {
		t.Errorf("drawdown = %.4f, want 0.10", m.DrawdownPct)
	}
}

func TestDrawdownNeverNegative(t *testing.T) {
	// All wins: current equals peak, drawdown exactly 0
	m := ComputePerformanceMetrics(testutil.SettledBetsPL(50, 50, 50), 1000)
	if m.DrawdownPct != 0 {
		t.Errorf("drawdown = %.4f, want 0", m.DrawdownPct)
	}
	if m.CurrentBankroll != m.PeakBankroll {
		t.Errorf("current %.2f != peak %.2f on all-win history", m.CurrentBankroll, m.PeakBankroll)
	}
}

func TestROI(t *testing.T) {
	// 4 bets of $100: +100, -100, +100, -100 -> ROI 0
	m := ComputePerformanceMetrics(testutil.SettledBetsPL(100, -100, 100, -100), 1000)
	if !almostEqual(m.ROIAll, 0, 1e-9) {
		t.Errorf("ROI all = %.4f, want 0", m.ROIAll)
	}
	if !almostEqual(m.TotalWagered, 400, 1e-9) {
		t.Errorf("total wagered = %.2f, want 400", m.TotalWagered)
	}

	// 2 wins at even money on $100: ROI = 200/200 = 1.0
	m = ComputePerformanceMetrics(testutil.SettledBetsPL(100, 100), 1000)
	if !almostEqual(m.ROIL10, 1.0, 1e-9) {
		t.Errorf("ROI L10 = %.4f, want 1.0", m.ROIL10)
	}
}

func TestMetricsDeterministic(t *testing.T) {
	bets := testutil.SettledBetsPL(-80, 20, -50, 100, 100, -100, 0, 60)

	first := ComputePerformanceMetrics(bets, 1000)
	second := ComputePerformanceMetrics(bets, 1000)

	if first != second {
		t.Errorf("metrics differ across identical inputs:\n%+v\n%+v", first, second)
	}
}

func TestMetricsDoNotMutateInput(t *testing.T) {
	bets := testutil.SettledBetsPL(100, -50)
	firstDate := bets[0].GameDate

	ComputePerformanceMetrics(bets, 1000)

	if !bets[0].GameDate.Equal(firstDate) {
		t.Error("input slice was reordered")
	}
}
