package contracts

import (
	"context"
	"time"

	"github.com/XavierBriggs/Oracle/pkg/models"
)

// PickStore is the persistence boundary for picks and settled results.
// The bankroll engines consume only ListSettledBets; the rest serves the
// pipeline, settlement, and reporting. Implementations own their schema
// and its migration.
type PickStore interface {
	// SavePick persists a new pick. Returns 0 when the pick already
	// exists (same game, bet type, and underdog).
	SavePick(ctx context.Context, pick models.PickRecord) (int64, error)

	// SaveResult records the settled outcome for a pick (idempotent
	// upsert keyed by pick ID).
	SaveResult(ctx context.Context, result models.ResultRecord) error

	// ListSettledBets returns all historically resolved bets, any order.
	ListSettledBets(ctx context.Context) ([]models.SettledBet, error)

	// PendingPicks returns picks without results whose game date is
	// before the given cutoff.
	PendingPicks(ctx context.Context, before time.Time) ([]models.PickRecord, error)

	// PicksByDate returns all picks for a calendar date.
	PicksByDate(ctx context.Context, date time.Time) ([]models.PickRecord, error)

	// ListResults returns settled picks joined with their results,
	// newest first.
	ListResults(ctx context.Context) ([]models.SettledPick, error)
}
