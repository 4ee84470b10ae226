package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/XavierBriggs/Oracle/pkg/models"
)

// csvHeader defines the exported column order
var csvHeader = []string{
	"run_id", "game_date", "matchup", "underdog", "bet_type", "line", "odds",
	"confidence", "sim_win_pct", "sim_cover_pct", "bet_pct", "bet_amount",
	"expected_value", "should_bet", "edge_factors", "risk_factors", "reasoning",
}

// WritePicks exports recommendations to a timestamped CSV file in dir
// and returns the file path. Every row carries the same run ID so
// multiple exports can be distinguished downstream.
func WritePicks(dir string, recos []models.Recommendation) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	runID := uuid.New().String()
	path := filepath.Join(dir, fmt.Sprintf("picks_%s.csv", time.Now().Format("20060102_150405")))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for _, reco := range recos {
		if err := w.Write(recordFor(runID, reco)); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush export: %w", err)
	}

	return path, nil
}

func recordFor(runID string, reco models.Recommendation) []string {
	pick := reco.Pick
	return []string{
		runID,
		pick.Game.Date.Format("2006-01-02"),
		fmt.Sprintf("%s @ %s", pick.Game.AwayTeam.Abbreviation, pick.Game.HomeTeam.Abbreviation),
		pick.Underdog.Name,
		string(pick.BetType),
		strconv.FormatFloat(pick.Line, 'f', 1, 64),
		strconv.Itoa(pick.Odds),
		string(reco.Confidence),
		strconv.FormatFloat(reco.SimWinPct, 'f', 3, 64),
		strconv.FormatFloat(reco.SimCoverPct, 'f', 3, 64),
		strconv.FormatFloat(reco.Staking.FinalBetPct, 'f', 4, 64),
		strconv.FormatFloat(reco.Staking.BetAmount, 'f', 2, 64),
		strconv.FormatFloat(reco.Staking.ExpectedValue, 'f', 2, 64),
		strconv.FormatBool(reco.Staking.ShouldBet),
		strings.Join(reco.EdgeFactors, "; "),
		strings.Join(reco.RiskFactors, "; "),
		reco.Reasoning,
	}
}
