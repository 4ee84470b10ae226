package simulator

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

const (
	// NBA game scores run roughly normal with a 12 point standard
	// deviation per team
	scoreStd = 12.0

	// Floor for a simulated NBA score
	minScore = 70.0

	defaultSimulations = 1000
)

// Result aggregates one Monte Carlo run
type Result struct {
	Simulations int

	UnderdogWinPct float64
	FavoriteWinPct float64

	UnderdogCoverPct float64
	PushPct          float64

	UnderdogAvgScore float64
	FavoriteAvgScore float64
	AvgMargin        float64 // favorite perspective
	MarginStd        float64

	Margin10th float64
	Margin90th float64
}

// FormatForPrompt renders the result block included in analyst prompts
func (r Result) FormatForPrompt() string {
	return fmt.Sprintf(
		"=== SIMULATION (%d runs) ===\nUnderdog win: %.1f%%\nCover spread: %.1f%%\nAvg margin: %+.1f (std: %.1f)\nScore range: %.0f-%.0f",
		r.Simulations,
		r.UnderdogWinPct*100,
		r.UnderdogCoverPct*100,
		r.AvgMargin, r.MarginStd,
		r.UnderdogAvgScore, r.FavoriteAvgScore,
	)
}

// FormatShort renders a one-line result for logs
func (r Result) FormatShort() string {
	return fmt.Sprintf("Win %.0f%% | Cover %.0f%% | Margin %+.1f",
		r.UnderdogWinPct*100, r.UnderdogCoverPct*100, r.AvgMargin)
}

// Simulator runs Monte Carlo game simulations
type Simulator struct {
	simulations int
	rng         *rand.Rand
}

// NewSimulator creates a simulator with the given run count; 0 uses the
// default
func NewSimulator(simulations int) *Simulator {
	if simulations <= 0 {
		simulations = defaultSimulations
	}
	return &Simulator{
		simulations: simulations,
		rng:         rand.New(rand.NewSource(rand.Int63())),
	}
}

// NewSeededSimulator creates a simulator with a fixed seed for
// reproducible runs
func NewSeededSimulator(simulations int, seed int64) *Simulator {
	s := NewSimulator(simulations)
	s.rng = rand.New(rand.NewSource(seed))
	return s
}

// SimulateGame runs the Monte Carlo simulation for an underdog against
// a favorite at the given spread (positive, points the underdog gets)
func (s *Simulator) SimulateGame(underdog, favorite TeamRatings, spread float64, isUnderdogHome bool) Result {
	result := Result{Simulations: s.simulations}

	matchup := AnalyzeMatchup(underdog, favorite, isUnderdogHome)

	var underdogWins, covers, pushes int
	margins := make([]float64, 0, s.simulations)
	var underdogTotal, favoriteTotal float64

	for i := 0; i < s.simulations; i++ {
		underdogScore := s.rng.NormFloat64()*scoreStd + matchup.UnderdogExpected
		favoriteScore := s.rng.NormFloat64()*scoreStd + matchup.FavoriteExpected

		if underdogScore < minScore {
			underdogScore = minScore
		}
		if favoriteScore < minScore {
			favoriteScore = minScore
		}

		margin := favoriteScore - underdogScore
		margins = append(margins, margin)
		underdogTotal += underdogScore
		favoriteTotal += favoriteScore

		if underdogScore > favoriteScore {
			underdogWins++
		}

		// Underdog covers when the favorite's margin falls short of
		// the spread. Games grade on integer scores, so the margin is
		// rounded to whole points first; integer spreads can push,
		// half-point lines never do.
		adjusted := math.Round(margin) - spread
		if adjusted < 0 {
			covers++
		} else if adjusted == 0 {
			pushes++
		}
	}

	n := float64(s.simulations)
	result.UnderdogWinPct = float64(underdogWins) / n
	result.FavoriteWinPct = 1 - result.UnderdogWinPct
	result.UnderdogCoverPct = float64(covers) / n
	result.PushPct = float64(pushes) / n
	result.UnderdogAvgScore = underdogTotal / n
	result.FavoriteAvgScore = favoriteTotal / n

	var marginSum float64
	for _, m := range margins {
		marginSum += m
	}
	result.AvgMargin = marginSum / n

	if len(margins) > 1 {
		var variance float64
		for _, m := range margins {
			d := m - result.AvgMargin
			variance += d * d
		}
		result.MarginStd = math.Sqrt(variance / float64(len(margins)-1))
	}

	sort.Float64s(margins)
	result.Margin10th = margins[int(n*0.1)]
	result.Margin90th = margins[int(n*0.9)]

	return result
}

// ExpectedValue computes the simulation-based EV of a spread bet: the
// cover probability drives the win leg, pushes return the stake
func ExpectedValue(result Result, odds int, betAmount float64) float64 {
	var winPayout float64
	if odds > 0 {
		winPayout = betAmount * float64(odds) / 100
	} else if odds < 0 {
		winPayout = betAmount * 100 / float64(-odds)
	}

	winProb := result.UnderdogCoverPct
	loseProb := 1 - winProb - result.PushPct

	return winProb*winPayout - loseProb*betAmount
}
