package balldontlie

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/XavierBriggs/Oracle/pkg/models"
)

const sampleGames = `{
  "data": [
    {
      "id": 101,
      "date": "2025-03-15T23:00:00Z",
      "status": "Final",
      "home_team": {"id": 2, "full_name": "Boston Celtics", "abbreviation": "BOS", "conference": "East"},
      "visitor_team": {"id": 4, "full_name": "Charlotte Hornets", "abbreviation": "CHA", "conference": "East"},
      "home_team_score": 118,
      "visitor_team_score": 112
    }
  ]
}`

func TestGamesByDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "test_key" {
			t.Errorf("Authorization = %q, want test_key", got)
		}
		if got := r.URL.Query().Get("dates[]"); got != "2025-03-15" {
			t.Errorf("dates[] = %q, want 2025-03-15", got)
		}
		w.Write([]byte(sampleGames))
	}))
	defer srv.Close()

	client := NewClient("test_key")
	client.SetBaseURL(srv.URL)

	games, err := client.GamesByDate(context.Background(), time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GamesByDate failed: %v", err)
	}

	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}

	g := games[0]
	if g.ID != 101 {
		t.Errorf("game ID = %d, want 101", g.ID)
	}
	if g.HomeTeam.Abbreviation != "BOS" || g.AwayTeam.Abbreviation != "CHA" {
		t.Errorf("teams = %s / %s", g.HomeTeam.Abbreviation, g.AwayTeam.Abbreviation)
	}
	if g.Status != "Final" || g.HomeScore != 118 || g.AwayScore != 112 {
		t.Errorf("status/score = %s %d-%d", g.Status, g.HomeScore, g.AwayScore)
	}
}

func TestBuildContext(t *testing.T) {
	team := models.Team{ID: 4, Name: "Charlotte Hornets", Abbreviation: "CHA"}
	opp := models.Team{ID: 2, Name: "Boston Celtics", Abbreviation: "BOS"}
	gameDate := time.Date(2025, 3, 15, 19, 0, 0, 0, time.UTC)

	recent := []models.Game{
		{ID: 5, Date: gameDate.AddDate(0, 0, -1), Status: "Final", HomeTeam: team, AwayTeam: opp, HomeScore: 110, AwayScore: 105},
		{ID: 4, Date: gameDate.AddDate(0, 0, -3), Status: "Final", HomeTeam: opp, AwayTeam: team, HomeScore: 120, AwayScore: 100},
		{ID: 3, Date: gameDate.AddDate(0, 0, -5), Status: "Final", HomeTeam: team, AwayTeam: opp, HomeScore: 95, AwayScore: 99},
	}

	injuries := []Injury{
		injuryFor(4, "LaMelo", "Ball", "Out"),
		injuryFor(2, "Jayson", "Tatum", "Day-To-Day"),
	}

	tc := buildContext(team, gameDate, recent, injuries)

	if !tc.IsBackToBack {
		t.Error("expected back-to-back with a game yesterday")
	}
	if tc.DaysRest != 1 {
		t.Errorf("days rest = %d, want 1", tc.DaysRest)
	}
	if tc.RecentRecord != "1-2 L3" {
		t.Errorf("recent record = %q, want 1-2 L3", tc.RecentRecord)
	}
	if len(tc.Injuries) != 1 {
		t.Fatalf("expected 1 injury for team, got %d", len(tc.Injuries))
	}
	if tc.Injuries[0] != "LaMelo Ball (Out)" {
		t.Errorf("injury = %q, want LaMelo Ball (Out)", tc.Injuries[0])
	}
}

func TestBuildContext_NoRecentGames(t *testing.T) {
	team := models.Team{ID: 4, Abbreviation: "CHA"}
	gameDate := time.Date(2025, 3, 15, 19, 0, 0, 0, time.UTC)

	tc := buildContext(team, gameDate, nil, nil)

	if tc.IsBackToBack {
		t.Error("expected no back-to-back with empty history")
	}
	if tc.DaysRest != 3 {
		t.Errorf("days rest = %d, want default 3", tc.DaysRest)
	}
	if tc.RecentRecord != "0-0 L0" {
		t.Errorf("recent record = %q, want 0-0 L0", tc.RecentRecord)
	}
}

func injuryFor(teamID int, first, last, status string) Injury {
	var inj Injury
	inj.Status = status
	inj.Player.FirstName = first
	inj.Player.LastName = last
	inj.Player.Team.ID = teamID
	return inj
}
