package linetrack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/Oracle/pkg/models"
)

// Tracker watches per-book lines in Redis and reports movement between
// polls. The first snapshot for a key is remembered as the opening
// line; closing line value is measured against it at settlement.
type Tracker struct {
	redis *redis.Client
	ttl   time.Duration
}

// CachedLine is the minimal per-book snapshot stored in Redis
type CachedLine struct {
	Spread     float64   `json:"spread"`
	SpreadOdds int       `json:"spread_odds"`
	Moneyline  int       `json:"moneyline"`
	CapturedAt time.Time `json:"captured_at"`
}

// MoveType indicates what moved between polls
type MoveType string

const (
	MoveNew    MoveType = "new"
	MoveSpread MoveType = "spread"
	MoveOdds   MoveType = "odds"
	MoveBoth   MoveType = "spread_and_odds"
	MoveNone   MoveType = "none"
)

// Movement is one detected line move for a book
type Movement struct {
	EventID   string
	Bookmaker string
	Team      string
	MoveType  MoveType
	Old       *CachedLine
	New       CachedLine
}

// NewTracker creates a line tracker
func NewTracker(redisClient *redis.Client, cacheTTL time.Duration) *Tracker {
	return &Tracker{
		redis: redisClient,
		ttl:   cacheTTL,
	}
}

// DetectMovement compares fresh odds against the cached snapshots and
// returns only the lines that moved. Fresh keys come back as MoveNew.
func (t *Tracker) DetectMovement(ctx context.Context, events []models.EventOdds) ([]Movement, error) {
	lines := flatten(events)
	if len(lines) == 0 {
		return nil, nil
	}

	keys := make([]string, len(lines))
	for i, l := range lines {
		keys[i] = t.currentKey(l.eventID, l.bookmaker, l.team)
	}

	cached, err := t.redis.MGet(ctx, keys...).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	moves := make([]Movement, 0, len(lines))
	for i, l := range lines {
		moveType, old := compareLine(l.line, cached[i])
		if moveType == MoveNone {
			continue
		}
		moves = append(moves, Movement{
			EventID:   l.eventID,
			Bookmaker: l.bookmaker,
			Team:      l.team,
			MoveType:  moveType,
			Old:       old,
			New:       l.line,
		})
	}

	return moves, nil
}

// UpdateCache writes current snapshots and captures opening lines for
// keys seen for the first time. Call after movement detection.
func (t *Tracker) UpdateCache(ctx context.Context, events []models.EventOdds) error {
	lines := flatten(events)
	if len(lines) == 0 {
		return nil
	}

	pipe := t.redis.Pipeline()
	for _, l := range lines {
		data, err := json.Marshal(l.line)
		if err != nil {
			return fmt.Errorf("marshal cached line: %w", err)
		}

		pipe.Set(ctx, t.currentKey(l.eventID, l.bookmaker, l.team), data, t.ttl)
		// SetNX preserves the first snapshot as the opening line
		pipe.SetNX(ctx, t.openingKey(l.eventID, l.bookmaker, l.team), data, t.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline exec: %w", err)
	}

	return nil
}

// OpeningLine returns the first snapshot captured for a book's line,
// or nil when none was recorded
func (t *Tracker) OpeningLine(ctx context.Context, eventID, bookmaker, team string) (*CachedLine, error) {
	data, err := t.redis.Get(ctx, t.openingKey(eventID, bookmaker, team)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get opening line: %w", err)
	}

	var line CachedLine
	if err := json.Unmarshal([]byte(data), &line); err != nil {
		return nil, fmt.Errorf("unmarshal opening line: %w", err)
	}

	return &line, nil
}

// CurrentLine returns the latest snapshot for a book's line, or nil
func (t *Tracker) CurrentLine(ctx context.Context, eventID, bookmaker, team string) (*CachedLine, error) {
	data, err := t.redis.Get(ctx, t.currentKey(eventID, bookmaker, team)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get current line: %w", err)
	}

	var line CachedLine
	if err := json.Unmarshal([]byte(data), &line); err != nil {
		return nil, fmt.Errorf("unmarshal current line: %w", err)
	}

	return &line, nil
}

func (t *Tracker) currentKey(eventID, bookmaker, team string) string {
	return fmt.Sprintf("line:current:%s:%s:%s", eventID, bookmaker, team)
}

func (t *Tracker) openingKey(eventID, bookmaker, team string) string {
	return fmt.Sprintf("line:opening:%s:%s:%s", eventID, bookmaker, team)
}

type flatLine struct {
	eventID   string
	bookmaker string
	team      string
	line      CachedLine
}

// flatten expands EventOdds into one entry per book per side
func flatten(events []models.EventOdds) []flatLine {
	var lines []flatLine
	for _, ev := range events {
		for _, book := range ev.Books {
			lines = append(lines,
				flatLine{
					eventID:   ev.EventID,
					bookmaker: book.Bookmaker,
					team:      ev.HomeTeam,
					line: CachedLine{
						Spread:     book.HomeSpread,
						SpreadOdds: book.HomeSpreadOdds,
						Moneyline:  book.HomeML,
						CapturedAt: book.Timestamp,
					},
				},
				flatLine{
					eventID:   ev.EventID,
					bookmaker: book.Bookmaker,
					team:      ev.AwayTeam,
					line: CachedLine{
						Spread:     book.AwaySpread,
						SpreadOdds: book.AwaySpreadOdds,
						Moneyline:  book.AwayML,
						CapturedAt: book.Timestamp,
					},
				},
			)
		}
	}
	return lines
}

// compareLine classifies the difference between a fresh line and its
// cached snapshot
func compareLine(fresh CachedLine, cachedValue interface{}) (MoveType, *CachedLine) {
	if cachedValue == nil {
		return MoveNew, nil
	}

	cachedStr, ok := cachedValue.(string)
	if !ok {
		return MoveNew, nil
	}

	var cached CachedLine
	if err := json.Unmarshal([]byte(cachedStr), &cached); err != nil {
		return MoveNew, nil
	}

	spreadMoved := spreadChanged(fresh.Spread, cached.Spread)
	oddsMoved := fresh.SpreadOdds != cached.SpreadOdds || fresh.Moneyline != cached.Moneyline

	switch {
	case spreadMoved && oddsMoved:
		return MoveBoth, &cached
	case spreadMoved:
		return MoveSpread, &cached
	case oddsMoved:
		return MoveOdds, &cached
	default:
		return MoveNone, nil
	}
}

func spreadChanged(a, b float64) bool {
	const epsilon = 0.001
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff > epsilon
}
