package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/XavierBriggs/Oracle/internal/analyst"
	"github.com/XavierBriggs/Oracle/internal/bankroll"
	"github.com/XavierBriggs/Oracle/internal/export"
	"github.com/XavierBriggs/Oracle/internal/history"
	"github.com/XavierBriggs/Oracle/internal/kelly"
	"github.com/XavierBriggs/Oracle/internal/linetrack"
	"github.com/XavierBriggs/Oracle/internal/simulator"
	"github.com/XavierBriggs/Oracle/internal/teams"
	"github.com/XavierBriggs/Oracle/pkg/contracts"
	"github.com/XavierBriggs/Oracle/pkg/models"
)

// PickStore is the persistence surface the pipeline writes through. It
// extends the base store contract with the batched insert so a whole
// slate lands in one round trip.
type PickStore interface {
	contracts.PickStore
	SavePicks(ctx context.Context, picks []models.PickRecord) (int, error)
}

// GameSource extends the schedule provider with the recent-game lookup
// the ratings engine needs
type GameSource interface {
	contracts.GameProvider
	TeamRecentGames(ctx context.Context, teamID int, days int) ([]models.Game, error)
}

// Config tunes a pipeline run
type Config struct {
	Filter      analyst.FilterConfig
	MaxBetPct   float64 // bankroll cap per bet
	MinBetPct   float64 // below this, pass on the bet
	Simulations int
	RatingsDays int    // lookback window for team ratings
	ExportDir   string // empty disables CSV export
}

// DefaultConfig returns the standard run configuration
func DefaultConfig() Config {
	return Config{
		Filter:      analyst.DefaultFilterConfig(),
		MaxBetPct:   0.05,
		MinBetPct:   0.005,
		Simulations: 1000,
		RatingsDays: 30,
		ExportDir:   "exports",
	}
}

// Pipeline executes the full daily analysis: fetch the slate and its
// odds, track line movement, filter underdog candidates, simulate,
// consult the analyst, size with dynamic Kelly, then persist, notify,
// and export.
type Pipeline struct {
	store    PickStore
	games    GameSource
	odds     contracts.OddsProvider
	analyst  contracts.Analyst
	notifier contracts.PickNotifier
	tracker  *linetrack.Tracker // nil disables line tracking
	manager  *bankroll.Manager
	history  *history.History
	sim      *simulator.Simulator
	cfg      Config
}

// Summary reports what a run produced
type Summary struct {
	Games       int
	Matched     int
	Candidates  int
	Recommended int
	Saved       int
	Notified    int
	Movements   int
	CSVPath     string

	Recommendations []models.Recommendation
}

// New assembles a pipeline. Tracker and notifier may be nil when the
// corresponding channel is not configured.
func New(store PickStore, games GameSource, odds contracts.OddsProvider, an contracts.Analyst, notifier contracts.PickNotifier, tracker *linetrack.Tracker, manager *bankroll.Manager, cfg Config) *Pipeline {
	return &Pipeline{
		store:    store,
		games:    games,
		odds:     odds,
		analyst:  an,
		notifier: notifier,
		tracker:  tracker,
		manager:  manager,
		history:  history.New(store),
		sim:      simulator.NewSimulator(cfg.Simulations),
		cfg:      cfg,
	}
}

// Run analyzes the slate for one calendar date
func (p *Pipeline) Run(ctx context.Context, date time.Time) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}

	games, err := p.games.GamesByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fetch games: %w", err)
	}
	summary.Games = len(games)
	if len(games) == 0 {
		fmt.Printf("[Pipeline] no games scheduled for %s\n", date.Format("2006-01-02"))
		return summary, nil
	}

	events, err := p.odds.FetchOdds(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch odds: %w", err)
	}
	if remaining := p.odds.RemainingRequests(); remaining >= 0 {
		fmt.Printf("[Pipeline] odds vendor quota remaining: %d\n", remaining)
	}
	fetchDuration := time.Since(start)

	// Line tracking is best effort: a cache failure never blocks the run
	if p.tracker != nil {
		movements, err := p.tracker.DetectMovement(ctx, events)
		if err != nil {
			fmt.Printf("[Pipeline] line movement detection error: %v\n", err)
		} else {
			summary.Movements = len(movements)
			for _, mv := range movements {
				if mv.MoveType != linetrack.MoveNew {
					fmt.Printf("[Pipeline] line move (%s): %s %s\n", mv.MoveType, mv.Bookmaker, mv.Team)
				}
			}
		}
		if err := p.tracker.UpdateCache(ctx, events); err != nil {
			fmt.Printf("[Pipeline] line cache update error: %v\n", err)
		}
	}

	bc, err := p.manager.BankrollContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("bankroll context: %w", err)
	}
	// Baseline prompt history; per-game analysis swaps in the full
	// betting history with the underdog's own record
	historySummary := bc.Metrics.FormatSummary() + "\n" + bc.Calibration.FormatSummary()
	fmt.Printf("[Pipeline] %s | risk=%s kelly=%.3f\n", bc.Metrics.FormatSummary(), bc.RiskLevel, bc.DynamicKelly)

	var records []models.PickRecord

	for _, game := range games {
		evt := teams.FindEventOdds(game, events)
		if evt == nil || len(evt.Books) == 0 {
			fmt.Printf("[Pipeline] no odds for %s @ %s\n", game.AwayTeam.Abbreviation, game.HomeTeam.Abbreviation)
			continue
		}
		summary.Matched++

		recos, candidates, err := p.analyzeGame(ctx, game, *evt, bc, historySummary)
		summary.Candidates += candidates
		if err != nil {
			fmt.Printf("[Pipeline] %s @ %s: %v\n", game.AwayTeam.Abbreviation, game.HomeTeam.Abbreviation, err)
			continue
		}

		for _, reco := range recos {
			summary.Recommended++
			summary.Recommendations = append(summary.Recommendations, reco)

			if reco.Confidence == models.ConfidenceHigh || reco.Confidence == models.ConfidenceMedium {
				records = append(records, p.recordFor(ctx, reco, *evt))
			}
			if p.notifier != nil && p.notifier.ShouldNotify(reco) {
				if err := p.notifier.SendPick(ctx, reco); err != nil {
					fmt.Printf("[Pipeline] notification error: %v\n", err)
				} else {
					summary.Notified++
				}
			}
		}
	}
	analyzeDuration := time.Since(start) - fetchDuration

	if len(records) > 0 {
		saved, err := p.store.SavePicks(ctx, records)
		if err != nil {
			return nil, fmt.Errorf("save picks: %w", err)
		}
		summary.Saved = saved
	}

	if p.cfg.ExportDir != "" && len(summary.Recommendations) > 0 {
		path, err := export.WritePicks(p.cfg.ExportDir, summary.Recommendations)
		if err != nil {
			fmt.Printf("[Pipeline] CSV export error: %v\n", err)
		} else {
			summary.CSVPath = path
		}
	}

	fmt.Printf("[Pipeline] run complete: %d games, %d matched, %d candidates, %d recommended, %d saved, %d notified, fetch=%v analyze=%v total=%v\n",
		summary.Games, summary.Matched, summary.Candidates, summary.Recommended, summary.Saved, summary.Notified,
		fetchDuration, analyzeDuration, time.Since(start))

	return summary, nil
}

// analyzeGame evaluates both markets for one game's underdog. The
// candidates count is the number of markets that passed the filter,
// whether or not analysis succeeded.
func (p *Pipeline) analyzeGame(ctx context.Context, game models.Game, evt models.EventOdds, bc *bankroll.Context, historySummary string) (recos []models.Recommendation, candidates int, err error) {
	underdog, favorite, underdogHome := identifySides(game, evt.Books[0])

	var (
		ratingsReady bool
		underdogRat  simulator.TeamRatings
		favoriteRat  simulator.TeamRatings
		underdogCtx  *models.TeamContext
		favoriteCtx  *models.TeamContext
	)

	for _, betType := range []models.BetType{models.BetTypeSpread, models.BetTypeMoneyline} {
		book, ok := bestBook(evt, betType, underdogHome)
		if !ok || !p.cfg.Filter.FilterUnderdog(book, betType) {
			continue
		}
		candidates++

		// Context, ratings, and team betting history are fetched once,
		// only when at least one market passes the filter
		if !ratingsReady {
			underdogCtx, favoriteCtx, underdogRat, favoriteRat, err = p.buildContexts(ctx, game, underdog, favorite)
			if err != nil {
				return nil, candidates, err
			}
			if hc, herr := p.history.BuildContext(ctx, underdog.Name); herr != nil {
				fmt.Printf("[Pipeline] history context error: %v\n", herr)
			} else {
				historySummary = hc.FormatForPrompt() + "\n" + bc.Calibration.FormatSummary()
			}
			ratingsReady = true
		}

		line, pickOdds := pickLine(book, betType, underdogHome)
		spread := underdogSpread(book, underdogHome)

		pick := models.UnderdogPick{
			Game:            game,
			Underdog:        underdog,
			Favorite:        favorite,
			BetType:         betType,
			Line:            line,
			Odds:            pickOdds,
			UnderdogContext: *underdogCtx,
			FavoriteContext: *favoriteCtx,
		}

		simResult := p.sim.SimulateGame(underdogRat, favoriteRat, spread, underdogHome)
		fmt.Printf("[Pipeline] %s (%s): %s\n", underdog.Abbreviation, betType, simResult.FormatShort())

		analysis, err := p.analyst.AnalyzePick(ctx, pick, simResult.FormatForPrompt(), historySummary)
		if err != nil {
			fmt.Printf("[Pipeline] analyst error for %s (%s): %v\n", underdog.Abbreviation, betType, err)
			continue
		}

		staking, err := kelly.SizeBet(pickOdds, analysis.Confidence, bc.CurrentBankroll, bc.DynamicKelly, p.cfg.MaxBetPct, p.cfg.MinBetPct)
		if err != nil {
			fmt.Printf("[Pipeline] sizing error for %s (%s): %v\n", underdog.Abbreviation, betType, err)
			continue
		}

		recos = append(recos, models.Recommendation{
			Pick:         pick,
			Confidence:   analysis.Confidence,
			Reasoning:    analysis.Reasoning,
			EdgeFactors:  analysis.EdgeFactors,
			RiskFactors:  analysis.RiskFactors,
			Staking:      *staking,
			SimWinPct:    simResult.UnderdogWinPct,
			SimCoverPct:  simResult.UnderdogCoverPct,
			SimAvgMargin: simResult.AvgMargin,
			SimEV:        simulator.ExpectedValue(simResult, pickOdds, staking.BetAmount),
		})
	}

	return recos, candidates, nil
}

// buildContexts fetches situational context and computes ratings for
// both sides of a matchup
func (p *Pipeline) buildContexts(ctx context.Context, game models.Game, underdog, favorite models.Team) (*models.TeamContext, *models.TeamContext, simulator.TeamRatings, simulator.TeamRatings, error) {
	var zero simulator.TeamRatings

	underdogCtx, err := p.games.BuildTeamContext(ctx, underdog, game.Date)
	if err != nil {
		return nil, nil, zero, zero, fmt.Errorf("underdog context: %w", err)
	}
	favoriteCtx, err := p.games.BuildTeamContext(ctx, favorite, game.Date)
	if err != nil {
		return nil, nil, zero, zero, fmt.Errorf("favorite context: %w", err)
	}

	underdogGames, err := p.games.TeamRecentGames(ctx, underdog.ID, p.cfg.RatingsDays)
	if err != nil {
		return nil, nil, zero, zero, fmt.Errorf("underdog recent games: %w", err)
	}
	favoriteGames, err := p.games.TeamRecentGames(ctx, favorite.ID, p.cfg.RatingsDays)
	if err != nil {
		return nil, nil, zero, zero, fmt.Errorf("favorite recent games: %w", err)
	}

	return underdogCtx, favoriteCtx,
		simulator.ComputeTeamRatings(underdog, underdogGames),
		simulator.ComputeTeamRatings(favorite, favoriteGames),
		nil
}

// recordFor builds the persisted row for a recommendation, folding in
// the opening line when the tracker has one cached
func (p *Pipeline) recordFor(ctx context.Context, reco models.Recommendation, evt models.EventOdds) models.PickRecord {
	pick := reco.Pick
	rec := models.PickRecord{
		GameDate: pick.Game.Date,
		GameID:   pick.Game.ID,

		HomeTeam: pick.Game.HomeTeam.Name,
		AwayTeam: pick.Game.AwayTeam.Name,
		Underdog: pick.Underdog.Name,
		Favorite: pick.Favorite.Name,

		BetType: pick.BetType,
		Line:    pick.Line,
		Odds:    pick.Odds,

		Confidence:  reco.Confidence,
		EdgeFactors: strings.Join(reco.EdgeFactors, "; "),
		RiskFactors: strings.Join(reco.RiskFactors, "; "),
		Reasoning:   reco.Reasoning,

		ImpliedProb:   reco.Staking.ImpliedProb,
		EstimatedProb: reco.Staking.EstimatedProb,
		BankrollPct:   reco.Staking.FinalBetPct,
		BetAmount:     reco.Staking.BetAmount,
		ExpectedValue: reco.Staking.ExpectedValue,
		ShouldBet:     reco.Staking.ShouldBet,

		UnderdogB2B:  pick.UnderdogContext.IsBackToBack,
		UnderdogRest: pick.UnderdogContext.DaysRest,
		UnderdogForm: pick.UnderdogContext.RecentRecord,
		FavoriteB2B:  pick.FavoriteContext.IsBackToBack,
		FavoriteRest: pick.FavoriteContext.DaysRest,
		FavoriteForm: pick.FavoriteContext.RecentRecord,

		OpeningLine: pick.Line,
		OpeningOdds: pick.Odds,

		SimWinPct:    reco.SimWinPct,
		SimCoverPct:  reco.SimCoverPct,
		SimAvgMargin: reco.SimAvgMargin,
	}

	if p.tracker != nil {
		if opening, err := p.tracker.OpeningLine(ctx, evt.EventID, bookmakerFor(evt, pick), pick.Underdog.Name); err == nil && opening != nil {
			if pick.BetType == models.BetTypeSpread {
				rec.OpeningLine = opening.Spread
				rec.OpeningOdds = opening.SpreadOdds
			} else {
				rec.OpeningLine = float64(opening.Moneyline)
				rec.OpeningOdds = opening.Moneyline
			}
		}
	}

	return rec
}

// identifySides reads the underdog off the spread sign: the side
// getting points is the underdog
func identifySides(game models.Game, book models.Odds) (underdog, favorite models.Team, underdogHome bool) {
	if book.HomeSpread > 0 {
		return game.HomeTeam, game.AwayTeam, true
	}
	return game.AwayTeam, game.HomeTeam, false
}

// bestBook picks the most favorable book for the underdog in the given
// market: the highest spread (best odds as tiebreak), or the highest
// moneyline payout
func bestBook(evt models.EventOdds, betType models.BetType, underdogHome bool) (models.Odds, bool) {
	var best models.Odds
	found := false

	for _, book := range evt.Books {
		switch betType {
		case models.BetTypeSpread:
			spread, odds := underdogSpread(book, underdogHome), underdogSpreadOdds(book, underdogHome)
			if odds == 0 {
				continue
			}
			if !found || spread > underdogSpread(best, underdogHome) ||
				(spread == underdogSpread(best, underdogHome) && odds > underdogSpreadOdds(best, underdogHome)) {
				best = book
				found = true
			}
		case models.BetTypeMoneyline:
			ml := underdogML(book, underdogHome)
			if ml == 0 {
				continue
			}
			if !found || ml > underdogML(best, underdogHome) {
				best = book
				found = true
			}
		}
	}

	return best, found
}

// pickLine extracts the line and pick odds for the underdog side
func pickLine(book models.Odds, betType models.BetType, underdogHome bool) (line float64, odds int) {
	if betType == models.BetTypeSpread {
		return underdogSpread(book, underdogHome), underdogSpreadOdds(book, underdogHome)
	}
	ml := underdogML(book, underdogHome)
	return float64(ml), ml
}

func underdogSpread(book models.Odds, underdogHome bool) float64 {
	if underdogHome {
		return book.HomeSpread
	}
	return book.AwaySpread
}

func underdogSpreadOdds(book models.Odds, underdogHome bool) int {
	if underdogHome {
		return book.HomeSpreadOdds
	}
	return book.AwaySpreadOdds
}

func underdogML(book models.Odds, underdogHome bool) int {
	if underdogHome {
		return book.HomeML
	}
	return book.AwayML
}

// bookmakerFor returns the bookmaker whose line the pick was taken at
func bookmakerFor(evt models.EventOdds, pick models.UnderdogPick) string {
	underdogHome := pick.Underdog.ID == pick.Game.HomeTeam.ID
	if book, ok := bestBook(evt, pick.BetType, underdogHome); ok {
		return book.Bookmaker
	}
	if len(evt.Books) > 0 {
		return evt.Books[0].Bookmaker
	}
	return ""
}
