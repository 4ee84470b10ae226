package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/XavierBriggs/Oracle/internal/bankroll"
	"github.com/XavierBriggs/Oracle/pkg/contracts"
	"github.com/XavierBriggs/Oracle/pkg/models"
)

var (
	celtics = models.Team{ID: 2, Name: "Boston Celtics", Abbreviation: "BOS"}
	hornets = models.Team{ID: 4, Name: "Charlotte Hornets", Abbreviation: "CHA"}
)

type fakeStore struct {
	saved   []models.PickRecord
	results []models.SettledPick
}

func (f *fakeStore) SavePick(ctx context.Context, pick models.PickRecord) (int64, error) {
	f.saved = append(f.saved, pick)
	return int64(len(f.saved)), nil
}

func (f *fakeStore) SavePicks(ctx context.Context, picks []models.PickRecord) (int, error) {
	f.saved = append(f.saved, picks...)
	return len(picks), nil
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
	return f.results, nil
}

type fakeGames struct {
	slate []models.Game
}

func (f *fakeGames) GamesByDate(ctx context.Context, date time.Time) ([]models.Game, error) {
	return f.slate, nil
}

func (f *fakeGames) GameByID(ctx context.Context, id int64) (*models.Game, error) {
	for i := range f.slate {
		if f.slate[i].ID == id {
			return &f.slate[i], nil
		}
	}
	return nil, nil
}

func (f *fakeGames) BuildTeamContext(ctx context.Context, team models.Team, gameDate time.Time) (*models.TeamContext, error) {
	return &models.TeamContext{Team: team, DaysRest: 2, RecentRecord: "3-2 L5"}, nil
}

func (f *fakeGames) TeamRecentGames(ctx context.Context, teamID int, days int) ([]models.Game, error) {
	return []models.Game{
		{ID: 90, Status: "Final", HomeTeam: models.Team{ID: teamID}, AwayTeam: models.Team{ID: 99}, HomeScore: 112, AwayScore: 108},
		{ID: 91, Status: "Final", HomeTeam: models.Team{ID: 98}, AwayTeam: models.Team{ID: teamID}, HomeScore: 115, AwayScore: 110},
	}, nil
}

type fakeOdds struct {
	events []models.EventOdds
}

func (f *fakeOdds) FetchOdds(ctx context.Context) ([]models.EventOdds, error) {
	return f.events, nil
}

func (f *fakeOdds) RemainingRequests() int { return -1 }

type fakeAnalyst struct {
	calls       int
	lastHistory string
}

func (f *fakeAnalyst) AnalyzePick(ctx context.Context, pick models.UnderdogPick, simSummary, historySummary string) (*contracts.Analysis, error) {
	f.calls++
	f.lastHistory = historySummary
	if simSummary == "" || historySummary == "" {
		return nil, context.Canceled
	}
	return &contracts.Analysis{
		Confidence:  models.ConfidenceHigh,
		Reasoning:   "rest edge against a tired favorite",
		EdgeFactors: []string{"two days rest"},
		RiskFactors: []string{"road game"},
	}, nil
}

type fakeNotifier struct {
	sent []models.Recommendation
}

func (f *fakeNotifier) ShouldNotify(rec models.Recommendation) bool {
	return rec.Confidence == models.ConfidenceHigh
}

func (f *fakeNotifier) SendPick(ctx context.Context, rec models.Recommendation) error {
	f.sent = append(f.sent, rec)
	return nil
}

func testSlate() ([]models.Game, []models.EventOdds) {
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	game := models.Game{
		ID:       101,
		Date:     date,
		HomeTeam: celtics,
		AwayTeam: hornets,
		Status:   "scheduled",
	}

	// Hornets are the road underdog; draftkings hangs the better spread,
	// fanduel the better moneyline
	event := models.EventOdds{
		EventID:  "evt_1",
		HomeTeam: "Boston Celtics",
		AwayTeam: "Charlotte Hornets",
		Books: []models.Odds{
			{
				EventID: "evt_1", Bookmaker: "fanduel",
				HomeSpread: -6.5, AwaySpread: 6.5,
				HomeSpreadOdds: -110, AwaySpreadOdds: -110,
				HomeML: -250, AwayML: 180,
			},
			{
				EventID: "evt_1", Bookmaker: "draftkings",
				HomeSpread: -7.0, AwaySpread: 7.0,
				HomeSpreadOdds: -115, AwaySpreadOdds: -115,
				HomeML: -240, AwayML: 175,
			},
		},
	}

	return []models.Game{game}, []models.EventOdds{event}
}

func TestPipelineRun(t *testing.T) {
	games, events := testSlate()

	// One settled pick on the underdog, so the analyst prompt carries
	// its record
	store := &fakeStore{results: []models.SettledPick{
		{
			Pick: models.PickRecord{
				Underdog: hornets.Name, BetType: models.BetTypeSpread,
				Confidence: models.ConfidenceHigh, BetAmount: 100,
			},
			Result: models.ResultRecord{Result: models.ResultWin, ProfitLoss: 90.91},
		},
	}}
	analyst := &fakeAnalyst{}
	notifier := &fakeNotifier{}
	manager := bankroll.NewManager(store, 1000.0, 0.25)

	cfg := DefaultConfig()
	cfg.ExportDir = t.TempDir()

	p := New(store, &fakeGames{slate: games}, &fakeOdds{events: events}, analyst, notifier, nil, manager, cfg)

	summary, err := p.Run(context.Background(), games[0].Date)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Games != 1 || summary.Matched != 1 {
		t.Errorf("games=%d matched=%d, want 1/1", summary.Games, summary.Matched)
	}
	if summary.Candidates != 2 {
		t.Errorf("candidates = %d, want 2 (spread and moneyline)", summary.Candidates)
	}
	if summary.Recommended != 2 {
		t.Fatalf("recommended = %d, want 2", summary.Recommended)
	}
	if analyst.calls != 2 {
		t.Errorf("analyst calls = %d, want 2", analyst.calls)
	}

	// The prompt history includes the underdog's own settled record
	if !strings.Contains(analyst.lastHistory, "=== HISTORY ON "+hornets.Name+" ===") {
		t.Errorf("analyst history missing team section:\n%s", analyst.lastHistory)
	}
	if !strings.Contains(analyst.lastHistory, "=== YOUR BETTING HISTORY ===") {
		t.Errorf("analyst history missing overall section:\n%s", analyst.lastHistory)
	}

	// Both picks are HIGH confidence so both persist and notify
	if summary.Saved != 2 || len(store.saved) != 2 {
		t.Errorf("saved = %d (store %d), want 2", summary.Saved, len(store.saved))
	}
	if summary.Notified != 2 || len(notifier.sent) != 2 {
		t.Errorf("notified = %d (notifier %d), want 2", summary.Notified, len(notifier.sent))
	}
	if summary.CSVPath == "" {
		t.Error("expected CSV export path")
	}

	var spreadReco, mlReco *models.Recommendation
	for i := range summary.Recommendations {
		switch summary.Recommendations[i].Pick.BetType {
		case models.BetTypeSpread:
			spreadReco = &summary.Recommendations[i]
		case models.BetTypeMoneyline:
			mlReco = &summary.Recommendations[i]
		}
	}
	if spreadReco == nil || mlReco == nil {
		t.Fatal("expected one spread and one moneyline recommendation")
	}

	// Best book per market: draftkings spread, fanduel moneyline
	if spreadReco.Pick.Line != 7.0 || spreadReco.Pick.Odds != -115 {
		t.Errorf("spread pick = %.1f @ %d, want 7.0 @ -115", spreadReco.Pick.Line, spreadReco.Pick.Odds)
	}
	if mlReco.Pick.Odds != 180 {
		t.Errorf("moneyline pick odds = %d, want 180", mlReco.Pick.Odds)
	}

	if spreadReco.Pick.Underdog.ID != hornets.ID {
		t.Errorf("underdog = %s, want %s", spreadReco.Pick.Underdog.Name, hornets.Name)
	}
	for _, reco := range summary.Recommendations {
		if !reco.Staking.ShouldBet || reco.Staking.BetAmount <= 0 {
			t.Errorf("%s: expected a sized bet, got %+v", reco.Pick.BetType, reco.Staking)
		}
	}

	rec := store.saved[0]
	if rec.Underdog != hornets.Name || rec.Confidence != models.ConfidenceHigh {
		t.Errorf("unexpected persisted pick: %+v", rec)
	}
	if rec.OpeningLine != rec.Line || rec.OpeningOdds != rec.Odds {
		t.Errorf("without a tracker the opening line defaults to the pick line, got %+v", rec)
	}
}

func TestPipelineRun_NoGames(t *testing.T) {
	store := &fakeStore{}
	manager := bankroll.NewManager(store, 1000.0, 0.25)

	cfg := DefaultConfig()
	cfg.ExportDir = ""

	p := New(store, &fakeGames{}, &fakeOdds{}, &fakeAnalyst{}, nil, nil, manager, cfg)

	summary, err := p.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Games != 0 || summary.Recommended != 0 {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}
