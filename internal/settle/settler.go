package settle

import (
	"context"
	"fmt"
	"time"

	"github.com/XavierBriggs/Oracle/pkg/contracts"
	"github.com/XavierBriggs/Oracle/pkg/models"
)

// Settler grades pending picks against final scores and records the
// outcomes
type Settler struct {
	store contracts.PickStore
	games contracts.GameProvider
}

// Summary reports one settlement run
type Summary struct {
	Checked int
	Settled int
	Skipped int // games not final yet
	TotalPL float64
}

// NewSettler creates a settler
func NewSettler(store contracts.PickStore, games contracts.GameProvider) *Settler {
	return &Settler{store: store, games: games}
}

// SettlePending grades every pick whose game started before now
func (s *Settler) SettlePending(ctx context.Context) (*Summary, error) {
	pending, err := s.store.PendingPicks(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("load pending picks: %w", err)
	}

	summary := &Summary{Checked: len(pending)}
	if len(pending) == 0 {
		return summary, nil
	}

	fmt.Printf("[Settle] Found %d pending picks to check\n", len(pending))

	for _, pick := range pending {
		game, err := s.games.GameByID(ctx, pick.GameID)
		if err != nil {
			return summary, fmt.Errorf("fetch game %d: %w", pick.GameID, err)
		}

		if game.Status != "Final" {
			summary.Skipped++
			continue
		}

		result := GradePick(pick, game.HomeScore, game.AwayScore)
		if err := s.store.SaveResult(ctx, result); err != nil {
			return summary, fmt.Errorf("save result for pick %d: %w", pick.ID, err)
		}

		summary.Settled++
		summary.TotalPL += result.ProfitLoss

		fmt.Printf("[Settle] %s %s %+.1f: %d-%d -> %s ($%+.2f)\n",
			pick.Underdog, pick.BetType, pick.Line,
			game.AwayScore, game.HomeScore, result.Result, result.ProfitLoss)
	}

	return summary, nil
}

// GradePick determines a pick's outcome and P&L from the final score
func GradePick(pick models.PickRecord, homeScore, awayScore int) models.ResultRecord {
	var result models.BetResult
	switch pick.BetType {
	case models.BetTypeSpread:
		result = gradeSpread(pick.Underdog, pick.HomeTeam, homeScore, awayScore, pick.Line)
	default:
		result = gradeMoneyline(pick.Underdog, pick.HomeTeam, homeScore, awayScore)
	}

	pl := ProfitLoss(pick.Odds, pick.BetAmount, result)

	roiPct := 0.0
	if pick.BetAmount > 0 {
		roiPct = pl / pick.BetAmount * 100
	}

	return models.ResultRecord{
		PickID:       pick.ID,
		HomeScore:    homeScore,
		AwayScore:    awayScore,
		Result:       result,
		ActualMargin: float64(homeScore - awayScore),
		ProfitLoss:   pl,
		ROIPct:       roiPct,
	}
}

// gradeSpread grades with the spread from the underdog's perspective
// (positive means they get points)
func gradeSpread(pickTeam, homeTeam string, homeScore, awayScore int, spread float64) models.BetResult {
	var adjusted, opponent float64
	if pickTeam == homeTeam {
		adjusted = float64(homeScore) + spread
		opponent = float64(awayScore)
	} else {
		adjusted = float64(awayScore) + spread
		opponent = float64(homeScore)
	}

	switch {
	case adjusted > opponent:
		return models.ResultWin
	case adjusted < opponent:
		return models.ResultLoss
	default:
		return models.ResultPush
	}
}

func gradeMoneyline(pickTeam, homeTeam string, homeScore, awayScore int) models.BetResult {
	if pickTeam == homeTeam {
		if homeScore > awayScore {
			return models.ResultWin
		}
		return models.ResultLoss
	}
	if awayScore > homeScore {
		return models.ResultWin
	}
	return models.ResultLoss
}

// ProfitLoss computes the signed P&L of a settled bet at American odds
func ProfitLoss(odds int, betAmount float64, result models.BetResult) float64 {
	switch result {
	case models.ResultWin:
		if odds > 0 {
			return betAmount * float64(odds) / 100
		}
		if odds < 0 {
			return betAmount * 100 / float64(-odds)
		}
		return 0
	case models.ResultLoss:
		return -betAmount
	default:
		return 0
	}
}
