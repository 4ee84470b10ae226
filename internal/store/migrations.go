package store

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations run in order; schema_version records the last applied.
// Never reorder or edit an entry once it has shipped, append instead.
var migrations = []func(ctx context.Context, tx *sql.Tx) error{
	migrateBaseTables,
	migrateClosingLines,
	migrateSimulationColumns,
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var current int
	err = s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for v := current; v < len(migrations); v++ {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", v+1, err)
		}

		if err := migrations[v](ctx, tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", v+1, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_version (version) VALUES ($1)`, v+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", v+1, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", v+1, err)
		}

		fmt.Printf("[Store] Applied schema migration v%d\n", v+1)
	}

	return nil
}

// v1: picks and results
func migrateBaseTables(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS picks (
			id BIGSERIAL PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			game_date TIMESTAMPTZ NOT NULL,
			game_id BIGINT NOT NULL,

			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			underdog TEXT NOT NULL,
			favorite TEXT NOT NULL,

			bet_type TEXT NOT NULL,
			line DECIMAL NOT NULL DEFAULT 0,
			odds INT NOT NULL,

			confidence TEXT NOT NULL,
			edge_factors TEXT NOT NULL DEFAULT '',
			risk_factors TEXT NOT NULL DEFAULT '',
			reasoning TEXT NOT NULL DEFAULT '',

			implied_prob DECIMAL NOT NULL DEFAULT 0,
			estimated_prob DECIMAL NOT NULL DEFAULT 0,
			bankroll_pct DECIMAL NOT NULL DEFAULT 0,
			bet_amount DECIMAL NOT NULL DEFAULT 0,
			expected_value DECIMAL NOT NULL DEFAULT 0,
			should_bet BOOLEAN NOT NULL DEFAULT false,

			underdog_b2b BOOLEAN NOT NULL DEFAULT false,
			underdog_rest INT NOT NULL DEFAULT 0,
			underdog_form TEXT NOT NULL DEFAULT '',
			favorite_b2b BOOLEAN NOT NULL DEFAULT false,
			favorite_rest INT NOT NULL DEFAULT 0,
			favorite_form TEXT NOT NULL DEFAULT '',

			UNIQUE (game_id, bet_type, underdog)
		)
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS results (
			pick_id BIGINT PRIMARY KEY REFERENCES picks(id),
			home_score INT NOT NULL,
			away_score INT NOT NULL,
			result TEXT NOT NULL,
			actual_margin DECIMAL NOT NULL DEFAULT 0,
			profit_loss DECIMAL NOT NULL DEFAULT 0,
			roi_pct DECIMAL NOT NULL DEFAULT 0,
			settled_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_picks_game_date ON picks (game_date)`)
	return err
}

// v2: closing line value tracking
func migrateClosingLines(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		ALTER TABLE picks
			ADD COLUMN IF NOT EXISTS opening_line DECIMAL NOT NULL DEFAULT 0,
			ADD COLUMN IF NOT EXISTS opening_odds INT NOT NULL DEFAULT 0,
			ADD COLUMN IF NOT EXISTS closing_line DECIMAL NOT NULL DEFAULT 0,
			ADD COLUMN IF NOT EXISTS closing_odds INT NOT NULL DEFAULT 0,
			ADD COLUMN IF NOT EXISTS clv_line DECIMAL NOT NULL DEFAULT 0,
			ADD COLUMN IF NOT EXISTS clv_odds DECIMAL NOT NULL DEFAULT 0
	`)
	return err
}

// v3: simulation signal columns
func migrateSimulationColumns(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		ALTER TABLE picks
			ADD COLUMN IF NOT EXISTS sim_win_pct DECIMAL NOT NULL DEFAULT 0,
			ADD COLUMN IF NOT EXISTS sim_cover_pct DECIMAL NOT NULL DEFAULT 0,
			ADD COLUMN IF NOT EXISTS sim_avg_margin DECIMAL NOT NULL DEFAULT 0
	`)
	return err
}
