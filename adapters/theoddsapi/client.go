package theoddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/XavierBriggs/Oracle/pkg/contracts"
	"github.com/XavierBriggs/Oracle/pkg/models"
)

const (
	defaultBaseURL = "https://api.the-odds-api.com"
	apiVersion     = "v4"
	sportKey       = "basketball_nba"
	userAgent      = "Oracle/1.0 (Fortuna Underdog Engine)"
	timeout        = 10 * time.Second
	maxRetries     = 3
	retryDelay     = 2 * time.Second
)

// Client fetches NBA spread and moneyline odds from The Odds API.
// Implements contracts.OddsProvider.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	remaining int
	used      int
	mu        sync.RWMutex
}

var _ contracts.OddsProvider = (*Client)(nil)

// NewClient creates an odds client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		remaining: 500, // default monthly quota
	}
}

// SetBaseURL overrides the API endpoint (used by tests)
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// FetchOdds retrieves current NBA h2h and spread lines across books
func (c *Client) FetchOdds(ctx context.Context) ([]models.EventOdds, error) {
	endpoint := fmt.Sprintf("%s/%s/sports/%s/odds", c.baseURL, apiVersion, sportKey)

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", "us")
	params.Set("markets", "h2h,spreads")
	params.Set("oddsFormat", "american")
	params.Set("dateFormat", "iso")

	fullURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	body, err := c.doRequestWithRetry(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("fetch odds failed: %w", err)
	}

	var apiResp []oddsResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse odds response: %w", err)
	}

	return parseOddsResponse(apiResp, time.Now()), nil
}

// RemainingRequests returns the vendor quota left this period
func (c *Client) RemainingRequests() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.remaining
}

// doRequestWithRetry performs HTTP request with retry logic
func (c *Client) doRequestWithRetry(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff
			backoff := retryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, err := c.doRequest(ctx, fullURL)
		if err == nil {
			return body, nil
		}

		lastErr = err

		// Don't retry on client errors (4xx except 429)
		if httpErr, ok := err.(*httpError); ok {
			if httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 && httpErr.StatusCode != 429 {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doRequest performs a single HTTP request
func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	c.updateRateLimits(resp.Header)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &httpError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	return body, nil
}

// updateRateLimits extracts quota info from response headers
func (c *Client) updateRateLimits(headers http.Header) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if remaining := headers.Get("x-requests-remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.remaining = val
		}
	}

	if used := headers.Get("x-requests-used"); used != "" {
		if val, err := strconv.Atoi(used); err == nil {
			c.used = val
		}
	}
}

// parseOddsResponse folds the vendor's per-outcome rows into one Odds
// entry per book per event
func parseOddsResponse(apiResp []oddsResponse, receivedAt time.Time) []models.EventOdds {
	events := make([]models.EventOdds, 0, len(apiResp))

	for _, event := range apiResp {
		commenceTime, err := time.Parse(time.RFC3339, event.CommenceTime)
		if err != nil {
			commenceTime = receivedAt
		}

		ev := models.EventOdds{
			EventID:      event.ID,
			HomeTeam:     event.HomeTeam,
			AwayTeam:     event.AwayTeam,
			CommenceTime: commenceTime,
		}

		for _, bk := range event.Bookmakers {
			ts, err := time.Parse(time.RFC3339, bk.LastUpdate)
			if err != nil {
				ts = receivedAt
			}

			odds := models.Odds{
				EventID:   event.ID,
				Bookmaker: bk.Key,
				Timestamp: ts,
			}

			for _, mkt := range bk.Markets {
				for _, out := range mkt.Outcomes {
					isHome := out.Name == event.HomeTeam

					switch mkt.Key {
					case "spreads":
						if out.Point == nil {
							continue
						}
						if isHome {
							odds.HomeSpread = *out.Point
							odds.HomeSpreadOdds = out.Price
						} else {
							odds.AwaySpread = *out.Point
							odds.AwaySpreadOdds = out.Price
						}
					case "h2h":
						if isHome {
							odds.HomeML = out.Price
						} else {
							odds.AwayML = out.Price
						}
					}
				}
			}

			ev.Books = append(ev.Books, odds)
		}

		events = append(events, ev)
	}

	return events
}

// httpError represents an HTTP error with status code
type httpError struct {
	StatusCode int
	Message    string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// API response structures matching The Odds API JSON format

type oddsResponse struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime string      `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []bookmaker `json:"bookmakers"`
}

type bookmaker struct {
	Key        string   `json:"key"`
	Title      string   `json:"title"`
	LastUpdate string   `json:"last_update"`
	Markets    []market `json:"markets"`
}

type market struct {
	Key        string    `json:"key"`
	LastUpdate string    `json:"last_update"`
	Outcomes   []outcome `json:"outcomes"`
}

type outcome struct {
	Name  string   `json:"name"`
	Price int      `json:"price"`
	Point *float64 `json:"point,omitempty"`
}
