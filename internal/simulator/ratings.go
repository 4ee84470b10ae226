package simulator

import (
	"fmt"

	"github.com/XavierBriggs/Oracle/pkg/models"
)

// NBA league averages used to estimate pace from box scores
const (
	leagueAvgPace = 100.0 // possessions per game
	leagueAvgPPG  = 114.0
)

// TeamRatings summarizes a team's recent statistical profile.
// Ratings are per 100 possessions.
type TeamRatings struct {
	Team        string
	GamesPlayed int

	PointsPerGame float64
	PointsAllowed float64

	OffensiveRating float64
	DefensiveRating float64
	NetRating       float64

	Pace float64

	HomeMargin float64
	AwayMargin float64
	L5Margin   float64
}

// FormatSummary renders ratings for prompts and logs
func (r TeamRatings) FormatSummary() string {
	if r.GamesPlayed == 0 {
		return fmt.Sprintf("%s: No recent data", r.Team)
	}
	return fmt.Sprintf("%s: Off %.1f, Def %.1f, Net %+.1f, Pace %.1f, PPG %.1f",
		r.Team, r.OffensiveRating, r.DefensiveRating, r.NetRating, r.Pace, r.PointsPerGame)
}

// Matchup holds expected scores for one game
type Matchup struct {
	ExpectedPace     float64
	UnderdogExpected float64
	FavoriteExpected float64
	ExpectedMargin   float64 // favorite perspective
	PaceDifferential float64
}

// ComputeTeamRatings derives ratings from a team's recent games,
// newest first. Only completed games with scores count.
func ComputeTeamRatings(team models.Team, games []models.Game) TeamRatings {
	ratings := TeamRatings{
		Team:            team.Abbreviation,
		OffensiveRating: 100.0,
		DefensiveRating: 100.0,
		Pace:            100.0,
	}

	var completed []models.Game
	for _, g := range games {
		if g.Status == "Final" && g.HomeScore > 0 && g.AwayScore > 0 {
			completed = append(completed, g)
		}
	}
	if len(completed) == 0 {
		return ratings
	}

	ratings.GamesPlayed = len(completed)

	var scored, allowed, paceSum float64
	var homeMargins, awayMargins []float64

	for _, g := range completed {
		isHome := g.HomeTeam.ID == team.ID
		teamScore := g.AwayScore
		oppScore := g.HomeScore
		if isHome {
			teamScore = g.HomeScore
			oppScore = g.AwayScore
		}
		margin := float64(teamScore - oppScore)

		scored += float64(teamScore)
		allowed += float64(oppScore)

		// Rough pace estimate from total points
		totalPoints := float64(teamScore + oppScore)
		paceSum += (totalPoints / 2) * (leagueAvgPace / leagueAvgPPG)

		if isHome {
			homeMargins = append(homeMargins, margin)
		} else {
			awayMargins = append(awayMargins, margin)
		}
	}

	n := float64(ratings.GamesPlayed)
	ratings.PointsPerGame = scored / n
	ratings.PointsAllowed = allowed / n
	ratings.Pace = paceSum / n

	if ratings.Pace > 0 {
		ratings.OffensiveRating = ratings.PointsPerGame / ratings.Pace * 100
		ratings.DefensiveRating = ratings.PointsAllowed / ratings.Pace * 100
		ratings.NetRating = ratings.OffensiveRating - ratings.DefensiveRating
	}

	ratings.HomeMargin = mean(homeMargins)
	ratings.AwayMargin = mean(awayMargins)

	recent := completed
	if len(recent) > 5 {
		recent = recent[:5]
	}
	var recentMargins []float64
	for _, g := range recent {
		isHome := g.HomeTeam.ID == team.ID
		if isHome {
			recentMargins = append(recentMargins, float64(g.HomeScore-g.AwayScore))
		} else {
			recentMargins = append(recentMargins, float64(g.AwayScore-g.HomeScore))
		}
	}
	ratings.L5Margin = mean(recentMargins)

	return ratings
}

// AnalyzeMatchup projects expected scores for underdog vs favorite.
// Home court is worth ~3 points, split between the sides.
func AnalyzeMatchup(underdog, favorite TeamRatings, isUnderdogHome bool) Matchup {
	expectedPace := (underdog.Pace + favorite.Pace) / 2

	underdogOffVsDef := (underdog.OffensiveRating + favorite.DefensiveRating) / 2
	favoriteOffVsDef := (favorite.OffensiveRating + underdog.DefensiveRating) / 2

	const homeAdvantage = 3.0
	underdogAdj := -homeAdvantage / 2
	favoriteAdj := homeAdvantage / 2
	if isUnderdogHome {
		underdogAdj, favoriteAdj = favoriteAdj, underdogAdj
	}

	underdogExpected := underdogOffVsDef*expectedPace/100 + underdogAdj
	favoriteExpected := favoriteOffVsDef*expectedPace/100 + favoriteAdj

	paceDiff := underdog.Pace - favorite.Pace
	if paceDiff < 0 {
		paceDiff = -paceDiff
	}

	return Matchup{
		ExpectedPace:     expectedPace,
		UnderdogExpected: underdogExpected,
		FavoriteExpected: favoriteExpected,
		ExpectedMargin:   favoriteExpected - underdogExpected,
		PaceDifferential: paceDiff,
	}
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
