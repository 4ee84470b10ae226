// Package history derives betting history from settled picks: the
// overall ledger plus the record on a specific underdog, formatted as
// a prompt section for the analyst.
package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/XavierBriggs/Oracle/internal/teams"
	"github.com/XavierBriggs/Oracle/pkg/contracts"
	"github.com/XavierBriggs/Oracle/pkg/models"
)

// TeamStats is the settled record with one team as the underdog
type TeamStats struct {
	Team   string
	Wins   int
	Losses int
	Pushes int

	TotalPL float64

	SpreadWins   int
	SpreadLosses int
	SpreadPL     float64

	MLWins   int
	MLLosses int
	MLPL     float64
}

// TotalPicks counts every settled pick on the team
func (t TeamStats) TotalPicks() int {
	return t.Wins + t.Losses + t.Pushes
}

// Record renders the W-L record, pushes excluded
func (t TeamStats) Record() string {
	return fmt.Sprintf("%d-%d", t.Wins, t.Losses)
}

// WinRate is wins over decided picks; 0 with no decisions
func (t TeamStats) WinRate() float64 {
	decided := t.Wins + t.Losses
	if decided == 0 {
		return 0
	}
	return float64(t.Wins) / float64(decided)
}

// HistoricalContext is the betting-history block fed to the analyst
type HistoricalContext struct {
	TotalPicks     int
	OverallRecord  string
	OverallWinRate float64
	OverallPL      float64
	OverallROI     float64

	HighRecord    string
	HighWinRate   float64
	MediumRecord  string
	MediumWinRate float64

	Last5Record string
	Streak      string // "W3" / "L2"; empty when unknown

	TeamStats *TeamStats
}

// FormatForPrompt renders the history section of the analyst prompt
func (c HistoricalContext) FormatForPrompt() string {
	if c.TotalPicks == 0 {
		return "No historical picks recorded yet."
	}

	var lines []string
	lines = append(lines, "=== YOUR BETTING HISTORY ===")
	lines = append(lines, fmt.Sprintf("Overall: %s (%.1f%% win rate)", c.OverallRecord, c.OverallWinRate*100))
	lines = append(lines, fmt.Sprintf("P&L: $%+.2f (ROI: %+.1f%%)", c.OverallPL, c.OverallROI*100))

	streak := c.Streak
	if streak == "" {
		streak = "N/A"
	}
	lines = append(lines, fmt.Sprintf("Last 5: %s | Streak: %s", c.Last5Record, streak))

	if c.HighRecord != "0-0" {
		lines = append(lines, fmt.Sprintf("HIGH confidence: %s (%.1f%%)", c.HighRecord, c.HighWinRate*100))
	}
	if c.MediumRecord != "0-0" {
		lines = append(lines, fmt.Sprintf("MEDIUM confidence: %s (%.1f%%)", c.MediumRecord, c.MediumWinRate*100))
	}

	if ts := c.TeamStats; ts != nil && ts.TotalPicks() > 0 {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("=== HISTORY ON %s ===", ts.Team))
		lines = append(lines, fmt.Sprintf("Record: %s (%.1f%%)", ts.Record(), ts.WinRate()*100))
		lines = append(lines, fmt.Sprintf("P&L: $%+.2f", ts.TotalPL))
		if ts.SpreadWins+ts.SpreadLosses > 0 {
			lines = append(lines, fmt.Sprintf("Spread: %d-%d ($%+.2f)", ts.SpreadWins, ts.SpreadLosses, ts.SpreadPL))
		}
		if ts.MLWins+ts.MLLosses > 0 {
			lines = append(lines, fmt.Sprintf("ML: %d-%d ($%+.2f)", ts.MLWins, ts.MLLosses, ts.MLPL))
		}
	}

	return strings.Join(lines, "\n")
}

// History queries settled picks for historical context. Construct one
// per process next to the bankroll manager; no hidden instance.
type History struct {
	store contracts.PickStore
}

// New creates a history reader over the pick store
func New(store contracts.PickStore) *History {
	return &History{store: store}
}

// BuildContext assembles the full historical context in one store
// read. team may be empty to skip the per-team section.
func (h *History) BuildContext(ctx context.Context, team string) (*HistoricalContext, error) {
	results, err := h.store.ListResults(ctx)
	if err != nil {
		return nil, err
	}

	hc := &HistoricalContext{TotalPicks: len(results)}

	var wins, losses int
	var highWins, highLosses, medWins, medLosses int
	var wagered float64

	for _, sp := range results {
		switch sp.Result.Result {
		case models.ResultWin:
			wins++
		case models.ResultLoss:
			losses++
		}
		hc.OverallPL += sp.Result.ProfitLoss
		wagered += sp.Pick.BetAmount

		if sp.Result.Result == models.ResultPush {
			continue
		}
		won := sp.Result.Result == models.ResultWin
		switch sp.Pick.Confidence {
		case models.ConfidenceHigh:
			if won {
				highWins++
			} else {
				highLosses++
			}
		case models.ConfidenceMedium:
			if won {
				medWins++
			} else {
				medLosses++
			}
		}
	}

	hc.OverallRecord = fmt.Sprintf("%d-%d", wins, losses)
	if wins+losses > 0 {
		hc.OverallWinRate = float64(wins) / float64(wins+losses)
	}
	if wagered > 0 {
		hc.OverallROI = hc.OverallPL / wagered
	}

	hc.HighRecord = fmt.Sprintf("%d-%d", highWins, highLosses)
	if highWins+highLosses > 0 {
		hc.HighWinRate = float64(highWins) / float64(highWins+highLosses)
	}
	hc.MediumRecord = fmt.Sprintf("%d-%d", medWins, medLosses)
	if medWins+medLosses > 0 {
		hc.MediumWinRate = float64(medWins) / float64(medWins+medLosses)
	}

	hc.Last5Record = lastNRecord(results, 5)
	hc.Streak = currentStreak(results)

	if team != "" {
		ts := teamStats(results, team)
		hc.TeamStats = &ts
	}

	return hc, nil
}

// teamStats folds the settled picks where the team was the underdog
func teamStats(results []models.SettledPick, team string) TeamStats {
	ts := TeamStats{Team: team}

	for _, sp := range results {
		if !teams.Match(sp.Pick.Underdog, team) {
			continue
		}

		pl := sp.Result.ProfitLoss
		ts.TotalPL += pl
		isSpread := sp.Pick.BetType == models.BetTypeSpread

		switch sp.Result.Result {
		case models.ResultWin:
			ts.Wins++
			if isSpread {
				ts.SpreadWins++
				ts.SpreadPL += pl
			} else {
				ts.MLWins++
				ts.MLPL += pl
			}
		case models.ResultLoss:
			ts.Losses++
			if isSpread {
				ts.SpreadLosses++
				ts.SpreadPL += pl
			} else {
				ts.MLLosses++
				ts.MLPL += pl
			}
		default:
			ts.Pushes++
		}
	}

	return ts
}

// lastNRecord renders the W-L record over the newest n results
func lastNRecord(results []models.SettledPick, n int) string {
	if len(results) < n {
		n = len(results)
	}
	var wins, losses int
	for _, sp := range results[:n] {
		switch sp.Result.Result {
		case models.ResultWin:
			wins++
		case models.ResultLoss:
			losses++
		}
	}
	return fmt.Sprintf("%d-%d", wins, losses)
}

// currentStreak counts consecutive identical results from the newest
// settled pick; a push at the head means no streak
func currentStreak(results []models.SettledPick) string {
	if len(results) == 0 {
		return ""
	}
	head := results[0].Result.Result
	if head != models.ResultWin && head != models.ResultLoss {
		return ""
	}

	count := 0
	for _, sp := range results {
		if sp.Result.Result != head {
			break
		}
		count++
	}

	if head == models.ResultWin {
		return fmt.Sprintf("W%d", count)
	}
	return fmt.Sprintf("L%d", count)
}
