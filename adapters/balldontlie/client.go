package balldontlie

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/XavierBriggs/Oracle/pkg/contracts"
	"github.com/XavierBriggs/Oracle/pkg/models"
)

const (
	defaultBaseURL = "https://api.balldontlie.io/v1"
	timeout        = 30 * time.Second
)

// Client fetches NBA schedule, scores, and injury data from the
// BallDon'tLie API. Implements contracts.GameProvider.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ contracts.GameProvider = (*Client)(nil)

// NewClient creates a game data client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetBaseURL overrides the API endpoint (used by tests)
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// GamesByDate fetches all games on one calendar date
func (c *Client) GamesByDate(ctx context.Context, date time.Time) ([]models.Game, error) {
	params := url.Values{}
	params.Add("dates[]", date.Format("2006-01-02"))

	body, err := c.get(ctx, "/games", params)
	if err != nil {
		return nil, fmt.Errorf("fetch games: %w", err)
	}

	var resp gamesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse games response: %w", err)
	}

	games := make([]models.Game, 0, len(resp.Data))
	for _, g := range resp.Data {
		games = append(games, g.toModel())
	}
	return games, nil
}

// GameByID fetches one game with its current score and status
func (c *Client) GameByID(ctx context.Context, id int64) (*models.Game, error) {
	body, err := c.get(ctx, fmt.Sprintf("/games/%d", id), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch game %d: %w", id, err)
	}

	var resp struct {
		Data gameJSON `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse game response: %w", err)
	}

	game := resp.Data.toModel()
	return &game, nil
}

// TeamRecentGames fetches a team's games over the trailing window,
// newest first
func (c *Client) TeamRecentGames(ctx context.Context, teamID int, days int) ([]models.Game, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	params := url.Values{}
	params.Add("team_ids[]", fmt.Sprintf("%d", teamID))
	params.Set("start_date", start.Format("2006-01-02"))
	params.Set("end_date", end.Format("2006-01-02"))

	body, err := c.get(ctx, "/games", params)
	if err != nil {
		return nil, fmt.Errorf("fetch recent games: %w", err)
	}

	var resp gamesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse games response: %w", err)
	}

	games := make([]models.Game, 0, len(resp.Data))
	for _, g := range resp.Data {
		games = append(games, g.toModel())
	}

	sort.Slice(games, func(i, j int) bool {
		return games[i].Date.After(games[j].Date)
	})

	return games, nil
}

// PlayerInjuries fetches the current league-wide injury report
func (c *Client) PlayerInjuries(ctx context.Context) ([]Injury, error) {
	body, err := c.get(ctx, "/player_injuries", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch injuries: %w", err)
	}

	var resp struct {
		Data []Injury `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse injuries response: %w", err)
	}

	return resp.Data, nil
}

// BuildTeamContext assembles situational context for a team ahead of a
// game: back-to-back status, rest days, recent form, and injuries
func (c *Client) BuildTeamContext(ctx context.Context, team models.Team, gameDate time.Time) (*models.TeamContext, error) {
	recent, err := c.TeamRecentGames(ctx, team.ID, 7)
	if err != nil {
		return nil, err
	}

	injuries, err := c.PlayerInjuries(ctx)
	if err != nil {
		return nil, err
	}

	return buildContext(team, gameDate, recent, injuries), nil
}

// buildContext derives the context fields from fetched data
func buildContext(team models.Team, gameDate time.Time, recent []models.Game, injuries []Injury) *models.TeamContext {
	tc := &models.TeamContext{
		Team:     team,
		DaysRest: 3, // default when no recent game found
	}

	yesterday := gameDate.AddDate(0, 0, -1)
	gameDay := gameDate.Truncate(24 * time.Hour)

	for _, g := range recent {
		day := g.Date.Truncate(24 * time.Hour)
		if day.Equal(yesterday.Truncate(24 * time.Hour)) {
			tc.IsBackToBack = true
		}
	}

	// Recent games are newest first: the first one before the game
	// date sets the rest
	for _, g := range recent {
		day := g.Date.Truncate(24 * time.Hour)
		if day.Before(gameDay) {
			tc.DaysRest = int(gameDay.Sub(day).Hours() / 24)
			break
		}
	}

	var completed []models.Game
	for _, g := range recent {
		if g.Status == "Final" {
			completed = append(completed, g)
		}
		if len(completed) == 5 {
			break
		}
	}

	wins := 0
	for _, g := range completed {
		if (g.HomeTeam.ID == team.ID && g.HomeScore > g.AwayScore) ||
			(g.AwayTeam.ID == team.ID && g.AwayScore > g.HomeScore) {
			wins++
		}
	}
	tc.RecentRecord = fmt.Sprintf("%d-%d L%d", wins, len(completed)-wins, len(completed))

	for _, inj := range injuries {
		if inj.Player.Team.ID != team.ID {
			continue
		}
		tc.Injuries = append(tc.Injuries,
			fmt.Sprintf("%s %s (%s)", inj.Player.FirstName, inj.Player.LastName, inj.Status))
		if len(tc.Injuries) == 5 {
			break
		}
	}

	return tc
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// Injury is one entry on the league injury report
type Injury struct {
	Status string `json:"status"`
	Player struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Team      struct {
			ID int `json:"id"`
		} `json:"team"`
	} `json:"player"`
}

// API response structures matching the BallDon'tLie JSON format

type gamesResponse struct {
	Data []gameJSON `json:"data"`
}

type teamJSON struct {
	ID           int    `json:"id"`
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
}

type gameJSON struct {
	ID          int64    `json:"id"`
	Date        string   `json:"date"`
	Status      string   `json:"status"`
	HomeTeam    teamJSON `json:"home_team"`
	VisitorTeam teamJSON `json:"visitor_team"`
	HomeScore   int      `json:"home_team_score"`
	AwayScore   int      `json:"visitor_team_score"`
}

func (g gameJSON) toModel() models.Game {
	date, err := time.Parse(time.RFC3339, g.Date)
	if err != nil {
		// Some endpoints return bare dates
		date, _ = time.Parse("2006-01-02", g.Date)
	}

	return models.Game{
		ID:        g.ID,
		Date:      date,
		Status:    g.Status,
		HomeScore: g.HomeScore,
		AwayScore: g.AwayScore,
		HomeTeam: models.Team{
			ID:           g.HomeTeam.ID,
			Name:         g.HomeTeam.FullName,
			Abbreviation: g.HomeTeam.Abbreviation,
			Conference:   g.HomeTeam.Conference,
			Division:     g.HomeTeam.Division,
		},
		AwayTeam: models.Team{
			ID:           g.VisitorTeam.ID,
			Name:         g.VisitorTeam.FullName,
			Abbreviation: g.VisitorTeam.Abbreviation,
			Conference:   g.VisitorTeam.Conference,
			Division:     g.VisitorTeam.Division,
		},
	}
}
