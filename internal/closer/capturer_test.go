package closer

import (
	"context"
	"testing"
	"time"

	"github.com/XavierBriggs/Oracle/pkg/models"
)

type fakeLineStore struct {
	pending []models.PickRecord
	updates map[int64][2]float64 // pickID -> {line, odds}
}

func (f *fakeLineStore) PendingPicks(ctx context.Context, before time.Time) ([]models.PickRecord, error) {
	return f.pending, nil
}

func (f *fakeLineStore) UpdateClosingLine(ctx context.Context, pickID int64, closingLine float64, closingOdds int) error {
	if f.updates == nil {
		f.updates = make(map[int64][2]float64)
	}
	f.updates[pickID] = [2]float64{closingLine, float64(closingOdds)}
	return nil
}

type fakeOdds struct {
	events []models.EventOdds
}

func (f *fakeOdds) FetchOdds(ctx context.Context) ([]models.EventOdds, error) { return f.events, nil }
func (f *fakeOdds) RemainingRequests() int                                    { return -1 }

func TestCaptureOnce(t *testing.T) {
	store := &fakeLineStore{
		pending: []models.PickRecord{
			{
				ID: 1, HomeTeam: "Boston Celtics", AwayTeam: "Charlotte Hornets",
				Underdog: "Charlotte Hornets", BetType: models.BetTypeSpread,
				Line: 6.5, Odds: -110, OpeningLine: 6.5, OpeningOdds: -110,
			},
			// Already captured, must not be overwritten
			{
				ID: 2, HomeTeam: "Boston Celtics", AwayTeam: "Charlotte Hornets",
				Underdog: "Charlotte Hornets", BetType: models.BetTypeMoneyline,
				ClosingOdds: 185,
			},
			// No odds event for this game
			{
				ID: 3, HomeTeam: "Miami Heat", AwayTeam: "Orlando Magic",
				Underdog: "Orlando Magic", BetType: models.BetTypeSpread,
			},
		},
	}

	odds := &fakeOdds{events: []models.EventOdds{
		{
			EventID:  "evt_1",
			HomeTeam: "Boston Celtics",
			AwayTeam: "Charlotte Hornets",
			Books: []models.Odds{
				{Bookmaker: "fanduel", HomeSpread: -7.0, AwaySpread: 7.0, HomeSpreadOdds: -112, AwaySpreadOdds: -108, HomeML: -260, AwayML: 190},
				{Bookmaker: "draftkings", HomeSpread: -7.5, AwaySpread: 7.5, HomeSpreadOdds: -110, AwaySpreadOdds: -110, HomeML: -255, AwayML: 185},
			},
		},
	}}

	captured, err := NewCapturer(store, odds, time.Minute).CaptureOnce(context.Background())
	if err != nil {
		t.Fatalf("CaptureOnce: %v", err)
	}
	if captured != 1 {
		t.Errorf("captured = %d, want 1", captured)
	}

	update, ok := store.updates[1]
	if !ok {
		t.Fatal("expected closing line update for pick 1")
	}
	if update[0] != 7.5 || int(update[1]) != -110 {
		t.Errorf("closing line = %.1f @ %d, want 7.5 @ -110", update[0], int(update[1]))
	}

	if _, ok := store.updates[2]; ok {
		t.Error("pick 2 already had a closing line, must not be rewritten")
	}
	if _, ok := store.updates[3]; ok {
		t.Error("pick 3 has no odds event, must be skipped")
	}
}

func TestCaptureOnce_NoPending(t *testing.T) {
	captured, err := NewCapturer(&fakeLineStore{}, &fakeOdds{}, time.Minute).CaptureOnce(context.Background())
	if err != nil {
		t.Fatalf("CaptureOnce: %v", err)
	}
	if captured != 0 {
		t.Errorf("captured = %d, want 0", captured)
	}
}
