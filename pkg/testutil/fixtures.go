package testutil

import (
	"time"

	"github.com/XavierBriggs/Oracle/pkg/models"
)

// BetDay is the fixed anchor date for settled-bet fixtures. Fixtures
// count backwards from here so the newest bet is always first in
// date order regardless of when the test runs.
var BetDay = time.Date(2025, 3, 15, 19, 0, 0, 0, time.UTC)

// SettledBets builds a dated history from a result sequence given
// NEWEST FIRST. Each bet risks $100 at even odds: wins pay +100,
// losses cost -100, pushes are flat.
func SettledBets(newestFirst ...models.BetResult) []models.SettledBet {
	bets := make([]models.SettledBet, len(newestFirst))
	for i, r := range newestFirst {
		bets[i] = models.SettledBet{
			Confidence: models.ConfidenceMedium,
			Result:     r,
			BetAmount:  100,
			ProfitLoss: evenMoneyPL(r, 100),
			GameDate:   BetDay.AddDate(0, 0, -i),
		}
	}
	return bets
}

// SettledBetsPL builds a dated history from explicit profit/loss
// values given NEWEST FIRST. Sign determines the result; zero is a
// push. Bet amount is fixed at $100.
func SettledBetsPL(newestFirst ...float64) []models.SettledBet {
	bets := make([]models.SettledBet, len(newestFirst))
	for i, pl := range newestFirst {
		result := models.ResultPush
		if pl > 0 {
			result = models.ResultWin
		} else if pl < 0 {
			result = models.ResultLoss
		}
		bets[i] = models.SettledBet{
			Confidence: models.ConfidenceMedium,
			Result:     result,
			BetAmount:  100,
			ProfitLoss: pl,
			GameDate:   BetDay.AddDate(0, 0, -i),
		}
	}
	return bets
}

// TierBets builds n settled bets in one confidence tier with the given
// number of wins, the rest losses, newest first
func TierBets(tier models.Confidence, wins, total int) []models.SettledBet {
	bets := make([]models.SettledBet, total)
	for i := 0; i < total; i++ {
		result := models.ResultLoss
		if i < wins {
			result = models.ResultWin
		}
		bets[i] = models.SettledBet{
			Confidence: tier,
			Result:     result,
			BetAmount:  100,
			ProfitLoss: evenMoneyPL(result, 100),
			GameDate:   BetDay.AddDate(0, 0, -i),
		}
	}
	return bets
}

func evenMoneyPL(r models.BetResult, amount float64) float64 {
	switch r {
	case models.ResultWin:
		return amount
	case models.ResultLoss:
		return -amount
	default:
		return 0
	}
}
