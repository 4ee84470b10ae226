package bankroll

import (
	"context"
	"fmt"

	"github.com/XavierBriggs/Oracle/pkg/contracts"
	"github.com/XavierBriggs/Oracle/pkg/models"
)

// Manager wraps the bankroll engines around a pick store. Construct one
// per process and pass it to whoever needs sizing context; there is no
// hidden global instance. All derived values are recomputed from the
// full settled history on every call.
type Manager struct {
	store           contracts.PickStore
	initialBankroll float64
	baseKelly       float64
}

// Context bundles everything a sizing caller needs in one snapshot
type Context struct {
	Metrics         models.PerformanceMetrics
	Calibration     models.CalibrationMetrics
	RiskLevel       models.RiskLevel
	BaseKelly       float64
	DynamicKelly    float64
	KellyAdjustment float64 // dynamic / base
	CurrentBankroll float64
}

// NewManager creates a bankroll manager
func NewManager(store contracts.PickStore, initialBankroll, baseKellyFraction float64) *Manager {
	return &Manager{
		store:           store,
		initialBankroll: initialBankroll,
		baseKelly:       baseKellyFraction,
	}
}

// PerformanceMetrics computes current performance from the store.
// Store failures surface unmodified: a partially read ledger must never
// be treated as complete.
func (m *Manager) PerformanceMetrics(ctx context.Context) (models.PerformanceMetrics, error) {
	bets, err := m.store.ListSettledBets(ctx)
	if err != nil {
		return models.PerformanceMetrics{}, err
	}
	return ComputePerformanceMetrics(bets, m.initialBankroll), nil
}

// Calibration computes confidence calibration from the store
func (m *Manager) Calibration(ctx context.Context) (models.CalibrationMetrics, error) {
	bets, err := m.store.ListSettledBets(ctx)
	if err != nil {
		return models.CalibrationMetrics{}, err
	}
	return ComputeCalibration(bets), nil
}

// RiskAssessment classifies the current risk level from the store
func (m *Manager) RiskAssessment(ctx context.Context) (models.RiskLevel, error) {
	bc, err := m.BankrollContext(ctx)
	if err != nil {
		return "", err
	}
	return bc.RiskLevel, nil
}

// DynamicKelly returns the performance-adjusted Kelly fraction
func (m *Manager) DynamicKelly(ctx context.Context) (float64, error) {
	bc, err := m.BankrollContext(ctx)
	if err != nil {
		return 0, err
	}
	return bc.DynamicKelly, nil
}

// BankrollContext computes the full sizing snapshot in one store read
func (m *Manager) BankrollContext(ctx context.Context) (*Context, error) {
	bets, err := m.store.ListSettledBets(ctx)
	if err != nil {
		return nil, err
	}

	metrics := ComputePerformanceMetrics(bets, m.initialBankroll)
	calibration := ComputeCalibration(bets)
	dynamic := DynamicKellyFraction(m.baseKelly, metrics, calibration)

	return &Context{
		Metrics:         metrics,
		Calibration:     calibration,
		RiskLevel:       ClassifyRisk(metrics, calibration),
		BaseKelly:       m.baseKelly,
		DynamicKelly:    dynamic,
		KellyAdjustment: dynamic / m.baseKelly,
		CurrentBankroll: metrics.CurrentBankroll,
	}, nil
}

// Status renders a one-line bankroll status for logs and notifications
func (m *Manager) Status(ctx context.Context) (string, error) {
	bc, err := m.BankrollContext(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Bankroll: $%.0f | Risk: %s | Kelly: %.1f%% (%.0f%% of base)",
		bc.CurrentBankroll, bc.RiskLevel, bc.DynamicKelly*100, bc.KellyAdjustment*100), nil
}
