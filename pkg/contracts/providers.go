package contracts

import (
	"context"
	"time"

	"github.com/XavierBriggs/Oracle/pkg/models"
)

// OddsProvider fetches current market odds from an external vendor
type OddsProvider interface {
	// FetchOdds retrieves all books' lines for today's NBA slate
	FetchOdds(ctx context.Context) ([]models.EventOdds, error)

	// RemainingRequests returns the vendor quota left, -1 if unknown
	RemainingRequests() int
}

// GameProvider fetches schedule, scores, and team context
type GameProvider interface {
	// GamesByDate returns the games scheduled on a calendar date
	GamesByDate(ctx context.Context, date time.Time) ([]models.Game, error)

	// GameByID returns a single game (with scores once final)
	GameByID(ctx context.Context, id int64) (*models.Game, error)

	// BuildTeamContext assembles rest/B2B/form/injury context for a
	// team ahead of a game
	BuildTeamContext(ctx context.Context, team models.Team, gameDate time.Time) (*models.TeamContext, error)
}
