package main

import (
	"context"
	"fmt"
	"os"

	"github.com/XavierBriggs/Oracle/internal/bankroll"
	"github.com/XavierBriggs/Oracle/internal/config"
	"github.com/XavierBriggs/Oracle/internal/report"
	"github.com/XavierBriggs/Oracle/internal/store"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	holocron, err := store.Open(ctx, cfg.HolocronDSN)
	if err != nil {
		fmt.Printf("✗ failed to connect to Holocron: %v\n", err)
		os.Exit(1)
	}
	defer holocron.Close()

	manager := bankroll.NewManager(holocron, cfg.Bankroll, cfg.KellyFraction)
	reporter := report.NewReporter(holocron, manager)

	out, err := reporter.Generate(ctx)
	if err != nil {
		fmt.Printf("✗ report failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(out)
}
