package models

import "time"

// BetType identifies which market a pick is on
type BetType string

const (
	BetTypeSpread    BetType = "SPREAD"
	BetTypeMoneyline BetType = "MONEYLINE"
)

// Confidence is the analyst's confidence tier for a pick
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// BetResult is the settled outcome of a pick
type BetResult string

const (
	ResultWin  BetResult = "WIN"
	ResultLoss BetResult = "LOSS"
	ResultPush BetResult = "PUSH"
)

// Team represents an NBA team
type Team struct {
	ID           int
	Name         string
	Abbreviation string
	Conference   string
	Division     string
}

// Game represents an NBA game
type Game struct {
	ID        int64
	Date      time.Time
	HomeTeam  Team
	AwayTeam  Team
	Status    string // scheduled, Final, etc. (vendor status string)
	HomeScore int
	AwayScore int
}

// Odds holds a single book's lines for a game
type Odds struct {
	EventID        string // vendor event id
	GameID         int64
	Bookmaker      string
	HomeSpread     float64
	AwaySpread     float64
	HomeSpreadOdds int // American odds
	AwaySpreadOdds int
	HomeML         int
	AwayML         int
	Timestamp      time.Time
}

// EventOdds groups all books' lines for one event
type EventOdds struct {
	EventID      string
	HomeTeam     string
	AwayTeam     string
	CommenceTime time.Time
	Books        []Odds
}

// TeamContext carries situational context for one side of a matchup
type TeamContext struct {
	Team         Team
	IsBackToBack bool
	DaysRest     int
	RecentRecord string // e.g. "3-2 L5"
	Injuries     []string
}

// UnderdogPick is an identified underdog opportunity before analysis
type UnderdogPick struct {
	Game            Game
	Underdog        Team
	Favorite        Team
	BetType         BetType
	Line            float64 // spread value or ML odds
	Odds            int     // American odds for the pick
	UnderdogContext TeamContext
	FavoriteContext TeamContext
}
