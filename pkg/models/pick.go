package models

import "time"

// Recommendation is the analyst's verdict on an underdog pick,
// enriched with Kelly sizing and simulation output
type Recommendation struct {
	Pick        UnderdogPick
	Confidence  Confidence
	Reasoning   string
	EdgeFactors []string
	RiskFactors []string

	// Kelly sizing (populated after analysis)
	Staking StakingRecommendation

	// Simulation signal
	SimWinPct    float64
	SimCoverPct  float64
	SimAvgMargin float64
	SimEV        float64
}

// PickRecord is a pick as persisted in the Holocron picks table
type PickRecord struct {
	ID        int64
	CreatedAt time.Time
	GameDate  time.Time
	GameID    int64

	HomeTeam string
	AwayTeam string
	Underdog string
	Favorite string

	BetType BetType
	Line    float64
	Odds    int

	Confidence  Confidence
	EdgeFactors string
	RiskFactors string
	Reasoning   string

	ImpliedProb   float64
	EstimatedProb float64
	BankrollPct   float64
	BetAmount     float64
	ExpectedValue float64
	ShouldBet     bool

	UnderdogB2B  bool
	UnderdogRest int
	UnderdogForm string
	FavoriteB2B  bool
	FavoriteRest int
	FavoriteForm string

	// Line movement / CLV tracking
	OpeningLine float64
	OpeningOdds int
	ClosingLine float64
	ClosingOdds int
	CLVLine     float64
	CLVOdds     float64

	// Simulation signal
	SimWinPct    float64
	SimCoverPct  float64
	SimAvgMargin float64
}

// ResultRecord is a settled outcome as persisted in the results table
type ResultRecord struct {
	PickID       int64
	HomeScore    int
	AwayScore    int
	Result       BetResult
	ActualMargin float64
	ProfitLoss   float64
	ROIPct       float64
}

// SettledBet is the minimal historical record the bankroll engines
// consume: one row per resolved pick
type SettledBet struct {
	Confidence Confidence
	Result     BetResult
	BetAmount  float64 // amount actually risked
	ProfitLoss float64 // signed; 0 for PUSH
	GameDate   time.Time
}

// SettledPick joins a pick with its result for reporting
type SettledPick struct {
	Pick   PickRecord
	Result ResultRecord
}
