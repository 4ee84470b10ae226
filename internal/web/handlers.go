package web

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/XavierBriggs/Oracle/internal/bankroll"
	"github.com/XavierBriggs/Oracle/pkg/contracts"
	"github.com/XavierBriggs/Oracle/pkg/models"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	store   contracts.PickStore
	manager *bankroll.Manager
}

// NewHandler creates a new handler
func NewHandler(store contracts.PickStore, manager *bankroll.Manager) *Handler {
	return &Handler{store: store, manager: manager}
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "oracle",
	})
}

// Metrics returns current performance metrics
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.manager.PerformanceMetrics(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, metricsResponse{
		TotalPicks:    metrics.TotalPicks,
		Wins:          metrics.Wins,
		Losses:        metrics.Losses,
		Pushes:        metrics.Pushes,
		WinRateL10:    metrics.WinRateL10,
		WinRateAll:    metrics.WinRateAll,
		CurrentStreak: metrics.CurrentStreak,
		ROIAll:        metrics.ROIAll,
		TotalPL:       metrics.TotalPL,
	})
}

// Bankroll returns the full sizing snapshot
func (h *Handler) Bankroll(w http.ResponseWriter, r *http.Request) {
	bc, err := h.manager.BankrollContext(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, bankrollResponse{
		CurrentBankroll: bc.CurrentBankroll,
		PeakBankroll:    bc.Metrics.PeakBankroll,
		DrawdownPct:     bc.Metrics.DrawdownPct,
		RiskLevel:       string(bc.RiskLevel),
		BaseKelly:       bc.BaseKelly,
		DynamicKelly:    bc.DynamicKelly,
		KellyAdjustment: bc.KellyAdjustment,
		Calibration:     bc.Calibration.Overall,
	})
}

// PicksToday returns all picks for the current date
func (h *Handler) PicksToday(w http.ResponseWriter, r *http.Request) {
	picks, err := h.store.PicksByDate(r.Context(), time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]pickResponse, 0, len(picks))
	for _, p := range picks {
		out = append(out, toPickResponse(p))
	}
	respondJSON(w, http.StatusOK, out)
}

// Results returns settled picks, newest first
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	settled, err := h.store.ListResults(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]resultResponse, 0, len(settled))
	for _, sp := range settled {
		out = append(out, resultResponse{
			Pick:       toPickResponse(sp.Pick),
			HomeScore:  sp.Result.HomeScore,
			AwayScore:  sp.Result.AwayScore,
			Result:     string(sp.Result.Result),
			ProfitLoss: sp.Result.ProfitLoss,
			ROIPct:     sp.Result.ROIPct,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

type metricsResponse struct {
	TotalPicks    int     `json:"total_picks"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Pushes        int     `json:"pushes"`
	WinRateL10    float64 `json:"win_rate_l10"`
	WinRateAll    float64 `json:"win_rate_all"`
	CurrentStreak int     `json:"current_streak"`
	ROIAll        float64 `json:"roi_all"`
	TotalPL       float64 `json:"total_pl"`
}

type bankrollResponse struct {
	CurrentBankroll float64 `json:"current_bankroll"`
	PeakBankroll    float64 `json:"peak_bankroll"`
	DrawdownPct     float64 `json:"drawdown_pct"`
	RiskLevel       string  `json:"risk_level"`
	BaseKelly       float64 `json:"base_kelly"`
	DynamicKelly    float64 `json:"dynamic_kelly"`
	KellyAdjustment float64 `json:"kelly_adjustment"`
	Calibration     float64 `json:"calibration"`
}

type pickResponse struct {
	ID         int64   `json:"id"`
	GameDate   string  `json:"game_date"`
	Matchup    string  `json:"matchup"`
	Underdog   string  `json:"underdog"`
	BetType    string  `json:"bet_type"`
	Line       float64 `json:"line"`
	Odds       int     `json:"odds"`
	Confidence string  `json:"confidence"`
	BetAmount  float64 `json:"bet_amount"`
	ShouldBet  bool    `json:"should_bet"`
	Reasoning  string  `json:"reasoning"`
}

type resultResponse struct {
	Pick       pickResponse `json:"pick"`
	HomeScore  int          `json:"home_score"`
	AwayScore  int          `json:"away_score"`
	Result     string       `json:"result"`
	ProfitLoss float64      `json:"profit_loss"`
	ROIPct     float64      `json:"roi_pct"`
}

func toPickResponse(p models.PickRecord) pickResponse {
	return pickResponse{
		ID:         p.ID,
		GameDate:   p.GameDate.Format("2006-01-02"),
		Matchup:    strings.Join([]string{p.AwayTeam, "@", p.HomeTeam}, " "),
		Underdog:   p.Underdog,
		BetType:    string(p.BetType),
		Line:       p.Line,
		Odds:       p.Odds,
		Confidence: string(p.Confidence),
		BetAmount:  p.BetAmount,
		ShouldBet:  p.ShouldBet,
		Reasoning:  p.Reasoning,
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
