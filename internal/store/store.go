package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/XavierBriggs/Oracle/pkg/models"
)

// Store persists picks and settled results in Holocron (Postgres).
// Implements contracts.PickStore.
type Store struct {
	db *sql.DB
}

// Open connects to Holocron and runs any pending schema migrations
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open holocron: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping holocron: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate holocron: %w", err)
	}

	return s, nil
}

// NewStore wraps an existing connection (used by tests)
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate runs pending schema migrations on an externally opened store
func (s *Store) Migrate(ctx context.Context) error {
	return s.migrate(ctx)
}

// SavePick inserts a pick, returning its new ID. A duplicate pick
// (same game, bet type, and underdog) is skipped and returns 0.
func (s *Store) SavePick(ctx context.Context, pick models.PickRecord) (int64, error) {
	query := `
		INSERT INTO picks (
			created_at, game_date, game_id,
			home_team, away_team, underdog, favorite,
			bet_type, line, odds,
			confidence, edge_factors, risk_factors, reasoning,
			implied_prob, estimated_prob, bankroll_pct, bet_amount, expected_value, should_bet,
			underdog_b2b, underdog_rest, underdog_form,
			favorite_b2b, favorite_rest, favorite_form,
			opening_line, opening_odds,
			sim_win_pct, sim_cover_pct, sim_avg_margin
		)
		VALUES (
			NOW(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25,
			$26, $27, $28, $29, $30
		)
		ON CONFLICT (game_id, bet_type, underdog) DO NOTHING
		RETURNING id
	`

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		pick.GameDate, pick.GameID,
		pick.HomeTeam, pick.AwayTeam, pick.Underdog, pick.Favorite,
		string(pick.BetType), pick.Line, pick.Odds,
		string(pick.Confidence), pick.EdgeFactors, pick.RiskFactors, pick.Reasoning,
		pick.ImpliedProb, pick.EstimatedProb, pick.BankrollPct, pick.BetAmount, pick.ExpectedValue, pick.ShouldBet,
		pick.UnderdogB2B, pick.UnderdogRest, pick.UnderdogForm,
		pick.FavoriteB2B, pick.FavoriteRest, pick.FavoriteForm,
		pick.OpeningLine, pick.OpeningOdds,
		pick.SimWinPct, pick.SimCoverPct, pick.SimAvgMargin,
	).Scan(&id)

	if err == sql.ErrNoRows {
		// Conflict path: the pick already exists
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("insert pick: %w", err)
	}

	return id, nil
}

// SavePicks inserts a batch of picks in one statement, skipping
// duplicates. Returns the number of new rows.
func (s *Store) SavePicks(ctx context.Context, picks []models.PickRecord) (int, error) {
	if len(picks) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO picks (
			created_at, game_date, game_id,
			home_team, away_team, underdog, favorite,
			bet_type, line, odds, confidence, reasoning,
			implied_prob, estimated_prob, bankroll_pct, bet_amount, expected_value, should_bet,
			opening_line, opening_odds
		)
		SELECT NOW(), * FROM UNNEST(
			$1::timestamptz[], $2::bigint[],
			$3::text[], $4::text[], $5::text[], $6::text[],
			$7::text[], $8::decimal[], $9::int[], $10::text[], $11::text[],
			$12::decimal[], $13::decimal[], $14::decimal[], $15::decimal[], $16::decimal[], $17::boolean[],
			$18::decimal[], $19::int[]
		)
		ON CONFLICT (game_id, bet_type, underdog) DO NOTHING
	`

	gameDates := make([]time.Time, len(picks))
	gameIDs := make([]int64, len(picks))
	homeTeams := make([]string, len(picks))
	awayTeams := make([]string, len(picks))
	underdogs := make([]string, len(picks))
	favorites := make([]string, len(picks))
	betTypes := make([]string, len(picks))
	lines := make([]float64, len(picks))
	odds := make([]int, len(picks))
	confidences := make([]string, len(picks))
	reasonings := make([]string, len(picks))
	impliedProbs := make([]float64, len(picks))
	estimatedProbs := make([]float64, len(picks))
	bankrollPcts := make([]float64, len(picks))
	betAmounts := make([]float64, len(picks))
	expectedValues := make([]float64, len(picks))
	shouldBets := make([]bool, len(picks))
	openingLines := make([]float64, len(picks))
	openingOdds := make([]int, len(picks))

	for i, p := range picks {
		gameDates[i] = p.GameDate
		gameIDs[i] = p.GameID
		homeTeams[i] = p.HomeTeam
		awayTeams[i] = p.AwayTeam
		underdogs[i] = p.Underdog
		favorites[i] = p.Favorite
		betTypes[i] = string(p.BetType)
		lines[i] = p.Line
		odds[i] = p.Odds
		confidences[i] = string(p.Confidence)
		reasonings[i] = p.Reasoning
		impliedProbs[i] = p.ImpliedProb
		estimatedProbs[i] = p.EstimatedProb
		bankrollPcts[i] = p.BankrollPct
		betAmounts[i] = p.BetAmount
		expectedValues[i] = p.ExpectedValue
		shouldBets[i] = p.ShouldBet
		openingLines[i] = p.OpeningLine
		openingOdds[i] = p.OpeningOdds
	}

	res, err := s.db.ExecContext(ctx, query,
		pq.Array(gameDates), pq.Array(gameIDs),
		pq.Array(homeTeams), pq.Array(awayTeams), pq.Array(underdogs), pq.Array(favorites),
		pq.Array(betTypes), pq.Array(lines), pq.Array(odds), pq.Array(confidences), pq.Array(reasonings),
		pq.Array(impliedProbs), pq.Array(estimatedProbs), pq.Array(bankrollPcts),
		pq.Array(betAmounts), pq.Array(expectedValues), pq.Array(shouldBets),
		pq.Array(openingLines), pq.Array(openingOdds),
	)
	if err != nil {
		return 0, fmt.Errorf("batch insert picks: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return int(inserted), nil
}

// SaveResult upserts the settled outcome for a pick
func (s *Store) SaveResult(ctx context.Context, result models.ResultRecord) error {
	query := `
		INSERT INTO results (
			pick_id, home_score, away_score, result,
			actual_margin, profit_loss, roi_pct, settled_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (pick_id) DO UPDATE SET
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			result = EXCLUDED.result,
			actual_margin = EXCLUDED.actual_margin,
			profit_loss = EXCLUDED.profit_loss,
			roi_pct = EXCLUDED.roi_pct,
			settled_at = NOW()
	`

	_, err := s.db.ExecContext(ctx, query,
		result.PickID, result.HomeScore, result.AwayScore, string(result.Result),
		result.ActualMargin, result.ProfitLoss, result.ROIPct,
	)
	if err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}

	return nil
}

// ListSettledBets returns every resolved pick that had money on it
func (s *Store) ListSettledBets(ctx context.Context) ([]models.SettledBet, error) {
	query := `
		SELECT p.confidence, r.result, p.bet_amount, r.profit_loss, p.game_date
		FROM picks p
		JOIN results r ON r.pick_id = p.id
		WHERE p.should_bet AND p.bet_amount > 0
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query settled bets: %w", err)
	}
	defer rows.Close()

	var bets []models.SettledBet
	for rows.Next() {
		var b models.SettledBet
		var confidence, result string
		if err := rows.Scan(&confidence, &result, &b.BetAmount, &b.ProfitLoss, &b.GameDate); err != nil {
			return nil, fmt.Errorf("scan settled bet: %w", err)
		}
		b.Confidence = models.Confidence(confidence)
		b.Result = models.BetResult(result)
		bets = append(bets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settled bets: %w", err)
	}

	return bets, nil
}

// PendingPicks returns unsettled picks whose game started before the cutoff
func (s *Store) PendingPicks(ctx context.Context, before time.Time) ([]models.PickRecord, error) {
	query := pickColumns + `
		FROM picks p
		LEFT JOIN results r ON r.pick_id = p.id
		WHERE r.pick_id IS NULL AND p.game_date < $1
		ORDER BY p.game_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("query pending picks: %w", err)
	}
	defer rows.Close()

	return scanPicks(rows)
}

// PicksByDate returns all picks for one calendar date
func (s *Store) PicksByDate(ctx context.Context, date time.Time) ([]models.PickRecord, error) {
	query := pickColumns + `
		FROM picks p
		WHERE p.game_date::date = $1::date
		ORDER BY p.game_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("query picks by date: %w", err)
	}
	defer rows.Close()

	return scanPicks(rows)
}

// ListResults returns settled picks with outcomes, newest first
func (s *Store) ListResults(ctx context.Context) ([]models.SettledPick, error) {
	query := pickColumns + `,
		       r.home_score, r.away_score, r.result, r.actual_margin, r.profit_loss, r.roi_pct
		FROM picks p
		JOIN results r ON r.pick_id = p.id
		ORDER BY p.game_date DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var settled []models.SettledPick
	for rows.Next() {
		var sp models.SettledPick
		var result string
		dest := pickScanDest(&sp.Pick)
		dest = append(dest,
			&sp.Result.HomeScore, &sp.Result.AwayScore, &result,
			&sp.Result.ActualMargin, &sp.Result.ProfitLoss, &sp.Result.ROIPct,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan settled pick: %w", err)
		}
		sp.Result.PickID = sp.Pick.ID
		sp.Result.Result = models.BetResult(result)
		settled = append(settled, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}

	return settled, nil
}

// UpdateClosingLine records the final pre-tip line and the resulting
// closing line value captured for a pick
func (s *Store) UpdateClosingLine(ctx context.Context, pickID int64, closingLine float64, closingOdds int) error {
	query := `
		UPDATE picks SET
			closing_line = $2,
			closing_odds = $3,
			clv_line = CASE WHEN bet_type = 'SPREAD' THEN $2 - line ELSE 0 END,
			clv_odds = $3 - odds
		WHERE id = $1
	`

	if _, err := s.db.ExecContext(ctx, query, pickID, closingLine, closingOdds); err != nil {
		return fmt.Errorf("update closing line: %w", err)
	}

	return nil
}

const pickColumns = `
	SELECT p.id, p.created_at, p.game_date, p.game_id,
	       p.home_team, p.away_team, p.underdog, p.favorite,
	       p.bet_type, p.line, p.odds,
	       p.confidence, p.edge_factors, p.risk_factors, p.reasoning,
	       p.implied_prob, p.estimated_prob, p.bankroll_pct, p.bet_amount, p.expected_value, p.should_bet,
	       p.underdog_b2b, p.underdog_rest, p.underdog_form,
	       p.favorite_b2b, p.favorite_rest, p.favorite_form,
	       p.opening_line, p.opening_odds, p.closing_line, p.closing_odds, p.clv_line, p.clv_odds,
	       p.sim_win_pct, p.sim_cover_pct, p.sim_avg_margin`

func pickScanDest(p *models.PickRecord) []interface{} {
	return []interface{}{
		&p.ID, &p.CreatedAt, &p.GameDate, &p.GameID,
		&p.HomeTeam, &p.AwayTeam, &p.Underdog, &p.Favorite,
		(*string)(&p.BetType), &p.Line, &p.Odds,
		(*string)(&p.Confidence), &p.EdgeFactors, &p.RiskFactors, &p.Reasoning,
		&p.ImpliedProb, &p.EstimatedProb, &p.BankrollPct, &p.BetAmount, &p.ExpectedValue, &p.ShouldBet,
		&p.UnderdogB2B, &p.UnderdogRest, &p.UnderdogForm,
		&p.FavoriteB2B, &p.FavoriteRest, &p.FavoriteForm,
		&p.OpeningLine, &p.OpeningOdds, &p.ClosingLine, &p.ClosingOdds, &p.CLVLine, &p.CLVOdds,
		&p.SimWinPct, &p.SimCoverPct, &p.SimAvgMargin,
	}
}

func scanPicks(rows *sql.Rows) ([]models.PickRecord, error) {
	var picks []models.PickRecord
	for rows.Next() {
		var p models.PickRecord
		if err := rows.Scan(pickScanDest(&p)...); err != nil {
			return nil, fmt.Errorf("scan pick: %w", err)
		}
		picks = append(picks, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate picks: %w", err)
	}
	return picks, nil
}
