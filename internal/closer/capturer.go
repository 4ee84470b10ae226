// Package closer captures closing lines for pending picks so closing
// line value can be measured after settlement.
package closer

import (
	"context"
	"fmt"
	"time"

	"github.com/XavierBriggs/Oracle/internal/teams"
	"github.com/XavierBriggs/Oracle/pkg/contracts"
	"github.com/XavierBriggs/Oracle/pkg/models"
)

// LineStore is the slice of the pick store the capturer needs
type LineStore interface {
	PendingPicks(ctx context.Context, before time.Time) ([]models.PickRecord, error)
	UpdateClosingLine(ctx context.Context, pickID int64, closingLine float64, closingOdds int) error
}

// Capturer records the last market line seen for each pending pick
// around tip-off. Games drop off the odds feed once they start, so the
// final snapshot the vendor serves is the closing line.
type Capturer struct {
	store        LineStore
	odds         contracts.OddsProvider
	pollInterval time.Duration
	stopChan     chan struct{}
}

// NewCapturer creates a closing line capturer
func NewCapturer(store LineStore, odds contracts.OddsProvider, pollInterval time.Duration) *Capturer {
	return &Capturer{
		store:        store,
		odds:         odds,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
	}
}

// Start polls for picks approaching tip-off until Stop or ctx cancel
func (c *Capturer) Start(ctx context.Context) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	fmt.Println("✓ Closing line capturer started")

	if _, err := c.CaptureOnce(ctx); err != nil {
		fmt.Printf("[Closer] initial capture error: %v\n", err)
	}

	for {
		select {
		case <-ticker.C:
			if _, err := c.CaptureOnce(ctx); err != nil {
				fmt.Printf("[Closer] capture error: %v\n", err)
			}
		case <-c.stopChan:
			fmt.Println("✓ Closing line capturer stopped")
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop gracefully stops the capturer
func (c *Capturer) Stop() {
	close(c.stopChan)
}

// CaptureOnce snapshots closing lines for picks whose game starts
// within the next hour. Returns the number of picks updated.
func (c *Capturer) CaptureOnce(ctx context.Context) (int, error) {
	pending, err := c.store.PendingPicks(ctx, time.Now().Add(time.Hour))
	if err != nil {
		return 0, fmt.Errorf("pending picks: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	events, err := c.odds.FetchOdds(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch odds: %w", err)
	}

	captured := 0
	for _, pick := range pending {
		// Already captured on a previous poll
		if pick.ClosingOdds != 0 {
			continue
		}

		game := models.Game{
			HomeTeam: models.Team{Name: pick.HomeTeam},
			AwayTeam: models.Team{Name: pick.AwayTeam},
		}
		evt := teams.FindEventOdds(game, events)
		if evt == nil {
			continue
		}

		line, odds, ok := closingLine(*evt, pick)
		if !ok {
			continue
		}

		if err := c.store.UpdateClosingLine(ctx, pick.ID, line, odds); err != nil {
			fmt.Printf("[Closer] update pick %d: %v\n", pick.ID, err)
			continue
		}
		captured++

		fmt.Printf("[Closer] captured closing line for pick %d: %s %.1f @ %+d (opened %.1f @ %+d)\n",
			pick.ID, pick.Underdog, line, odds, pick.OpeningLine, pick.OpeningOdds)
	}

	return captured, nil
}

// closingLine extracts the current best underdog line for the pick's
// market, mirroring how the pick was originally priced
func closingLine(evt models.EventOdds, pick models.PickRecord) (float64, int, bool) {
	underdogHome := teams.Match(pick.Underdog, pick.HomeTeam)

	var bestLine float64
	var bestOdds int
	found := false

	for _, book := range evt.Books {
		switch pick.BetType {
		case models.BetTypeSpread:
			var spread float64
			var odds int
			if underdogHome {
				spread, odds = book.HomeSpread, book.HomeSpreadOdds
			} else {
				spread, odds = book.AwaySpread, book.AwaySpreadOdds
			}
			if odds == 0 {
				continue
			}
			if !found || spread > bestLine || (spread == bestLine && odds > bestOdds) {
				bestLine, bestOdds = spread, odds
				found = true
			}
		case models.BetTypeMoneyline:
			ml := book.AwayML
			if underdogHome {
				ml = book.HomeML
			}
			if ml == 0 {
				continue
			}
			if !found || ml > bestOdds {
				bestLine, bestOdds = float64(ml), ml
				found = true
			}
		}
	}

	return bestLine, bestOdds, found
}
