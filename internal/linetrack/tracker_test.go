//go:build integration
// +build integration

package linetrack_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/Oracle/internal/linetrack"
	"github.com/XavierBriggs/Oracle/pkg/models"
)

func testEvent(spread float64, spreadOdds, ml int) []models.EventOdds {
	return []models.EventOdds{
		{
			EventID:  "test_event_1",
			HomeTeam: "Boston Celtics",
			AwayTeam: "Charlotte Hornets",
			Books: []models.Odds{
				{
					EventID:        "test_event_1",
					Bookmaker:      "fanduel",
					HomeSpread:     spread,
					HomeSpreadOdds: spreadOdds,
					AwaySpread:     -spread,
					AwaySpreadOdds: -110,
					HomeML:         ml,
					AwayML:         -ml,
					Timestamp:      time.Now(),
				},
			},
		},
	}
}

func newTestTracker(t *testing.T) (*linetrack.Tracker, context.Context) {
	t.Helper()

	redisClient := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1,
	})
	t.Cleanup(func() { redisClient.Close() })

	ctx := context.Background()
	redisClient.FlushDB(ctx)

	return linetrack.NewTracker(redisClient, 30*time.Second), ctx
}

func TestDetectMovement_NewLine(t *testing.T) {
	tracker, ctx := newTestTracker(t)

	moves, err := tracker.DetectMovement(ctx, testEvent(-7.5, -110, -300))
	if err != nil {
		t.Fatalf("DetectMovement failed: %v", err)
	}

	// One entry per side of the game
	if len(moves) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(moves))
	}
	if moves[0].MoveType != linetrack.MoveNew {
		t.Errorf("expected MoveNew, got %s", moves[0].MoveType)
	}
}

func TestDetectMovement_SpreadMove(t *testing.T) {
	tracker, ctx := newTestTracker(t)

	if err := tracker.UpdateCache(ctx, testEvent(-7.5, -110, -300)); err != nil {
		t.Fatalf("UpdateCache failed: %v", err)
	}

	moves, err := tracker.DetectMovement(ctx, testEvent(-8.5, -110, -300))
	if err != nil {
		t.Fatalf("DetectMovement failed: %v", err)
	}

	if len(moves) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(moves))
	}
	home := moves[0]
	if home.MoveType != linetrack.MoveSpread {
		t.Errorf("expected MoveSpread, got %s", home.MoveType)
	}
	if home.Old == nil || home.Old.Spread != -7.5 {
		t.Errorf("expected old spread -7.5, got %+v", home.Old)
	}
	if home.New.Spread != -8.5 {
		t.Errorf("expected new spread -8.5, got %.1f", home.New.Spread)
	}
}

func TestDetectMovement_NoChange(t *testing.T) {
	tracker, ctx := newTestTracker(t)

	events := testEvent(-7.5, -110, -300)
	if err := tracker.UpdateCache(ctx, events); err != nil {
		t.Fatalf("UpdateCache failed: %v", err)
	}

	moves, err := tracker.DetectMovement(ctx, events)
	if err != nil {
		t.Fatalf("DetectMovement failed: %v", err)
	}

	if len(moves) != 0 {
		t.Fatalf("expected no movements, got %d", len(moves))
	}
}

func TestOpeningLinePreserved(t *testing.T) {
	tracker, ctx := newTestTracker(t)

	// First snapshot is the opener; later updates must not overwrite it
	if err := tracker.UpdateCache(ctx, testEvent(-7.5, -110, -300)); err != nil {
		t.Fatalf("UpdateCache failed: %v", err)
	}
	if err := tracker.UpdateCache(ctx, testEvent(-9.0, -115, -320)); err != nil {
		t.Fatalf("UpdateCache failed: %v", err)
	}

	opening, err := tracker.OpeningLine(ctx, "test_event_1", "fanduel", "Boston Celtics")
	if err != nil {
		t.Fatalf("OpeningLine failed: %v", err)
	}
	if opening == nil {
		t.Fatal("expected opening line, got nil")
	}
	if opening.Spread != -7.5 {
		t.Errorf("opening spread = %.1f, want -7.5", opening.Spread)
	}

	current, err := tracker.CurrentLine(ctx, "test_event_1", "fanduel", "Boston Celtics")
	if err != nil {
		t.Fatalf("CurrentLine failed: %v", err)
	}
	if current == nil || current.Spread != -9.0 {
		t.Errorf("current spread = %+v, want -9.0", current)
	}
}
