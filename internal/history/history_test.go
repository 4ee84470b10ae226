package history

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/XavierBriggs/Oracle/pkg/models"
)

type fakeStore struct {
	results []models.SettledPick
	err     error
}

func (f *fakeStore) SavePick(ctx context.Context, pick models.PickRecord) (int64, error) {
	return 0, nil
}

func (f *fakeStore) SaveResult(ctx context.Context, result models.ResultRecord) error { return nil }

func (f *fakeStore) ListSettledBets(ctx context.Context) ([]models.SettledBet, error) {
	return nil, nil
}

func (f *fakeStore) PendingPicks(ctx context.Context, before time.Time) ([]models.PickRecord, error) {
	return nil, nil
}

func (f *fakeStore) PicksByDate(ctx context.Context, date time.Time) ([]models.PickRecord, error) {
	return nil, nil
}

func (f *fakeStore) ListResults(ctx context.Context) ([]models.SettledPick, error) {
	return f.results, f.err
}

func settled(underdog string, betType models.BetType, conf models.Confidence, result models.BetResult, amount, pl float64) models.SettledPick {
	return models.SettledPick{
		Pick: models.PickRecord{
			Underdog:   underdog,
			BetType:    betType,
			Confidence: conf,
			BetAmount:  amount,
		},
		Result: models.ResultRecord{Result: result, ProfitLoss: pl},
	}
}

func TestBuildContext(t *testing.T) {
	// Newest first, matching the store's ordering
	store := &fakeStore{results: []models.SettledPick{
		settled("Charlotte Hornets", models.BetTypeMoneyline, models.ConfidenceHigh, models.ResultWin, 50, 110),
		settled("Charlotte Hornets", models.BetTypeSpread, models.ConfidenceHigh, models.ResultWin, 100, 90.91),
		settled("Utah Jazz", models.BetTypeSpread, models.ConfidenceMedium, models.ResultLoss, 100, -100),
		settled("Charlotte Hornets", models.BetTypeSpread, models.ConfidenceMedium, models.ResultLoss, 100, -100),
		settled("Utah Jazz", models.BetTypeSpread, models.ConfidenceHigh, models.ResultPush, 100, 0),
		settled("Detroit Pistons", models.BetTypeMoneyline, models.ConfidenceMedium, models.ResultWin, 50, 95),
	}}

	hc, err := New(store).BuildContext(context.Background(), "Charlotte Hornets")
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}

	if hc.TotalPicks != 6 {
		t.Errorf("total picks = %d, want 6", hc.TotalPicks)
	}
	if hc.OverallRecord != "3-2" {
		t.Errorf("overall record = %s, want 3-2", hc.OverallRecord)
	}
	if hc.HighRecord != "2-0" || hc.MediumRecord != "1-2" {
		t.Errorf("confidence records = %s / %s, want 2-0 / 1-2", hc.HighRecord, hc.MediumRecord)
	}
	if hc.Streak != "W2" {
		t.Errorf("streak = %s, want W2", hc.Streak)
	}
	if hc.Last5Record != "2-2" {
		t.Errorf("last 5 = %s, want 2-2 (push excluded)", hc.Last5Record)
	}

	// $95.91 profit on $500 wagered
	if hc.OverallROI < 0.19 || hc.OverallROI > 0.20 {
		t.Errorf("ROI = %.4f, want ~0.192", hc.OverallROI)
	}

	ts := hc.TeamStats
	if ts == nil {
		t.Fatal("expected team stats for the underdog")
	}
	if ts.Record() != "2-1" {
		t.Errorf("team record = %s, want 2-1", ts.Record())
	}
	if ts.SpreadWins != 1 || ts.SpreadLosses != 1 || ts.MLWins != 1 || ts.MLLosses != 0 {
		t.Errorf("team splits = spread %d-%d ML %d-%d, want 1-1 / 1-0",
			ts.SpreadWins, ts.SpreadLosses, ts.MLWins, ts.MLLosses)
	}
	if ts.TotalPL < 100.9 || ts.TotalPL > 100.92 {
		t.Errorf("team P&L = %.2f, want 100.91", ts.TotalPL)
	}
}

func TestBuildContext_PushHeadHasNoStreak(t *testing.T) {
	store := &fakeStore{results: []models.SettledPick{
		settled("Utah Jazz", models.BetTypeSpread, models.ConfidenceHigh, models.ResultPush, 100, 0),
		settled("Utah Jazz", models.BetTypeSpread, models.ConfidenceHigh, models.ResultWin, 100, 90.91),
	}}

	hc, err := New(store).BuildContext(context.Background(), "")
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	if hc.Streak != "" {
		t.Errorf("streak = %q, want empty after a push", hc.Streak)
	}
	if hc.TeamStats != nil {
		t.Error("no team requested, team stats must be nil")
	}
}

func TestFormatForPrompt(t *testing.T) {
	store := &fakeStore{results: []models.SettledPick{
		settled("Charlotte Hornets", models.BetTypeSpread, models.ConfidenceHigh, models.ResultWin, 100, 90.91),
		settled("Charlotte Hornets", models.BetTypeMoneyline, models.ConfidenceHigh, models.ResultLoss, 50, -50),
	}}

	hc, err := New(store).BuildContext(context.Background(), "Charlotte Hornets")
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}

	prompt := hc.FormatForPrompt()
	for _, want := range []string{
		"=== YOUR BETTING HISTORY ===",
		"Overall: 1-1 (50.0% win rate)",
		"=== HISTORY ON Charlotte Hornets ===",
		"Record: 1-1 (50.0%)",
		"Spread: 1-0",
		"ML: 0-1",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestFormatForPrompt_Empty(t *testing.T) {
	hc, err := New(&fakeStore{}).BuildContext(context.Background(), "Miami Heat")
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	if got := hc.FormatForPrompt(); got != "No historical picks recorded yet." {
		t.Errorf("empty prompt = %q", got)
	}
}
