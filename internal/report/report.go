package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/XavierBriggs/Oracle/internal/bankroll"
	"github.com/XavierBriggs/Oracle/pkg/contracts"
	"github.com/XavierBriggs/Oracle/pkg/models"
)

// Reporter renders performance summaries from the pick store
type Reporter struct {
	store   contracts.PickStore
	manager *bankroll.Manager
}

// NewReporter creates a reporter
func NewReporter(store contracts.PickStore, manager *bankroll.Manager) *Reporter {
	return &Reporter{store: store, manager: manager}
}

// groupStats accumulates a record for one slice of results
type groupStats struct {
	Wins   int
	Losses int
	Pushes int
	PL     float64
}

func (g groupStats) winRate() float64 {
	decided := g.Wins + g.Losses
	if decided == 0 {
		return 0
	}
	return float64(g.Wins) / float64(decided) * 100
}

func (g *groupStats) add(r models.ResultRecord) {
	switch r.Result {
	case models.ResultWin:
		g.Wins++
	case models.ResultLoss:
		g.Losses++
	case models.ResultPush:
		g.Pushes++
	}
	g.PL += r.ProfitLoss
}

// Generate renders the full text report
func (r *Reporter) Generate(ctx context.Context) (string, error) {
	settled, err := r.store.ListResults(ctx)
	if err != nil {
		return "", fmt.Errorf("load results: %w", err)
	}

	bc, err := r.manager.BankrollContext(ctx)
	if err != nil {
		return "", fmt.Errorf("load bankroll context: %w", err)
	}

	pending, err := r.store.PendingPicks(ctx, time.Now())
	if err != nil {
		return "", fmt.Errorf("load pending picks: %w", err)
	}

	var b strings.Builder

	b.WriteString("=== Overall Performance ===\n")
	fmt.Fprintf(&b, "Total Picks: %d\n", len(settled))
	fmt.Fprintf(&b, "%s\n", bc.Metrics.FormatSummary())
	fmt.Fprintf(&b, "Bankroll: $%.2f (peak $%.2f)\n", bc.Metrics.CurrentBankroll, bc.Metrics.PeakBankroll)
	fmt.Fprintf(&b, "Risk: %s | Kelly: %.1f%% (%.0f%% of base)\n", bc.RiskLevel, bc.DynamicKelly*100, bc.KellyAdjustment*100)
	fmt.Fprintf(&b, "%s\n", bc.Calibration.FormatSummary())

	writeGroupSection(&b, "Performance by Confidence", settled, func(sp models.SettledPick) string {
		return strings.ToUpper(string(sp.Pick.Confidence))
	})

	writeGroupSection(&b, "Performance by Bet Type", settled, func(sp models.SettledPick) string {
		return string(sp.Pick.BetType)
	})

	b.WriteString("\n=== Recent Results (Last 10) ===\n")
	recent := settled
	if len(recent) > 10 {
		recent = recent[:10]
	}
	for _, sp := range recent {
		fmt.Fprintf(&b, "%s  %s @ %s  %s %s %+.1f  %d-%d  %s  $%+.2f\n",
			sp.Pick.GameDate.Format("01/02"),
			sp.Pick.AwayTeam, sp.Pick.HomeTeam,
			sp.Pick.Underdog, sp.Pick.BetType, sp.Pick.Line,
			sp.Result.AwayScore, sp.Result.HomeScore,
			sp.Result.Result, sp.Result.ProfitLoss)
	}

	if len(pending) > 0 {
		fmt.Fprintf(&b, "\nPending picks awaiting results: %d\n", len(pending))
	}

	return b.String(), nil
}

func writeGroupSection(b *strings.Builder, title string, settled []models.SettledPick, keyFn func(models.SettledPick) string) {
	groups := make(map[string]*groupStats)
	for _, sp := range settled {
		key := keyFn(sp)
		if groups[key] == nil {
			groups[key] = &groupStats{}
		}
		groups[key].add(sp.Result)
	}
	if len(groups) == 0 {
		return
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(b, "\n=== %s ===\n", title)
	for _, k := range keys {
		g := groups[k]
		fmt.Fprintf(b, "%-10s %d-%d  %.1f%%  $%+.2f\n", k, g.Wins, g.Losses, g.winRate(), g.PL)
	}
}
