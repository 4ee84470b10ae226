package contracts

import (
	"context"

	"github.com/XavierBriggs/Oracle/pkg/models"
)

// Analysis is the qualitative verdict from the language model
type Analysis struct {
	Confidence  models.Confidence
	Reasoning   string
	EdgeFactors []string
	RiskFactors []string
}

// Analyst produces a qualitative recommendation for an underdog pick.
// Simulation output and historical context are passed as pre-formatted
// prompt sections so the analyst stays transport-only.
type Analyst interface {
	AnalyzePick(ctx context.Context, pick models.UnderdogPick, simSummary, historySummary string) (*Analysis, error)
}

// PickNotifier delivers pick alerts to configured channels
type PickNotifier interface {
	ShouldNotify(rec models.Recommendation) bool
	SendPick(ctx context.Context, rec models.Recommendation) error
}
