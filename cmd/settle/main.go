package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XavierBriggs/Oracle/adapters/balldontlie"
	"github.com/XavierBriggs/Oracle/adapters/theoddsapi"
	"github.com/XavierBriggs/Oracle/internal/bankroll"
	"github.com/XavierBriggs/Oracle/internal/closer"
	"github.com/XavierBriggs/Oracle/internal/config"
	"github.com/XavierBriggs/Oracle/internal/settle"
	"github.com/XavierBriggs/Oracle/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	if cfg.BallDontLieAPIKey == "" {
		fmt.Println("✗ BALLDONTLIE_API_KEY environment variable is required")
		os.Exit(1)
	}

	holocron, err := store.Open(ctx, cfg.HolocronDSN)
	if err != nil {
		fmt.Printf("✗ failed to connect to Holocron: %v\n", err)
		os.Exit(1)
	}
	defer holocron.Close()

	fmt.Println("✓ Connected to Holocron")

	// Snapshot closing lines before grading so CLV is computed against
	// the last market seen
	if cfg.OddsAPIKey != "" {
		capturer := closer.NewCapturer(holocron, theoddsapi.NewClient(cfg.OddsAPIKey), time.Minute)
		if captured, err := capturer.CaptureOnce(ctx); err != nil {
			fmt.Printf("⚠ closing line capture failed: %v\n", err)
		} else if captured > 0 {
			fmt.Printf("✓ Captured %d closing line(s)\n", captured)
		}
	}

	settler := settle.NewSettler(holocron, balldontlie.NewClient(cfg.BallDontLieAPIKey))

	summary, err := settler.SettlePending(ctx)
	if err != nil {
		fmt.Printf("✗ settlement failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Settlement complete: %d checked, %d settled, %d skipped, P&L $%+.2f\n",
		summary.Checked, summary.Settled, summary.Skipped, summary.TotalPL)

	manager := bankroll.NewManager(holocron, cfg.Bankroll, cfg.KellyFraction)
	if status, err := manager.Status(ctx); err == nil {
		fmt.Println(status)
	}
}
