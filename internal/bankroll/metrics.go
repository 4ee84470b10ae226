package bankroll

import (
	"sort"

	"github.com/XavierBriggs/Oracle/pkg/models"
)

// ComputePerformanceMetrics derives all rolling performance statistics
// from the settled-bet history. Pure function: same input, same output.
// Small samples degrade gracefully (windows use whatever is available).
func ComputePerformanceMetrics(bets []models.SettledBet, initialBankroll float64) models.PerformanceMetrics {
	metrics := models.PerformanceMetrics{
		CurrentBankroll: initialBankroll,
		PeakBankroll:    initialBankroll,
	}

	if len(bets) == 0 {
		return metrics
	}

	// Newest first for windowed stats and streaks
	sorted := make([]models.SettledBet, len(bets))
	copy(sorted, bets)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].GameDate.After(sorted[j].GameDate)
	})

	metrics.TotalPicks = len(sorted)
	for _, b := range sorted {
		switch b.Result {
		case models.ResultWin:
			metrics.Wins++
		case models.ResultLoss:
			metrics.Losses++
		case models.ResultPush:
			metrics.Pushes++
		}
		metrics.TotalWagered += b.BetAmount
		metrics.TotalPL += b.ProfitLoss
	}

	metrics.WinRateAll = float64(metrics.Wins) / float64(metrics.TotalPicks)
	metrics.WinRateL10 = windowWinRate(sorted, 10)
	metrics.WinRateL20 = windowWinRate(sorted, 20)
	metrics.WinRateL50 = windowWinRate(sorted, 50)

	if metrics.TotalWagered > 0 {
		metrics.ROIAll = metrics.TotalPL / metrics.TotalWagered
	}
	metrics.ROIL10 = windowROI(sorted, 10)
	metrics.ROIL20 = windowROI(sorted, 20)

	metrics.CurrentStreak = currentStreak(sorted)

	// Bankroll walk, oldest to newest. Peak includes the starting value.
	running := initialBankroll
	peak := initialBankroll
	for i := len(sorted) - 1; i >= 0; i-- {
		running += sorted[i].ProfitLoss
		if running > peak {
			peak = running
		}
	}
	metrics.CurrentBankroll = running
	metrics.PeakBankroll = peak

	if peak > 0 {
		dd := (peak - running) / peak
		if dd < 0 {
			dd = 0
		}
		metrics.DrawdownPct = dd
	}

	return metrics
}

// windowWinRate computes wins/total over the most recent n bets,
// using all available when fewer exist
func windowWinRate(sorted []models.SettledBet, n int) float64 {
	if n > len(sorted) {
		n = len(sorted)
	}
	if n == 0 {
		return 0
	}
	wins := 0
	for _, b := range sorted[:n] {
		if b.Result == models.ResultWin {
			wins++
		}
	}
	return float64(wins) / float64(n)
}

// windowROI computes sum(profitLoss)/sum(betAmount) over the most
// recent n bets, 0 when nothing was wagered in the window
func windowROI(sorted []models.SettledBet, n int) float64 {
	if n > len(sorted) {
		n = len(sorted)
	}
	var wagered, pl float64
	for _, b := range sorted[:n] {
		wagered += b.BetAmount
		pl += b.ProfitLoss
	}
	if wagered <= 0 {
		return 0
	}
	return pl / wagered
}

// currentStreak walks from the most recent bet counting consecutive
// same-result bets. A push breaks the streak: it is neither a win nor a
// loss extension, so a push at the head yields 0.
func currentStreak(sorted []models.SettledBet) int {
	if len(sorted) == 0 {
		return 0
	}

	head := sorted[0].Result
	if head != models.ResultWin && head != models.ResultLoss {
		return 0
	}

	streak := 0
	for _, b := range sorted {
		if b.Result != head {
			break
		}
		streak++
	}

	if head == models.ResultLoss {
		return -streak
	}
	return streak
}
