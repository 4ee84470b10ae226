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
	"github.com/XavierBriggs/Oracle/internal/analyst"
	"github.com/XavierBriggs/Oracle/internal/bankroll"
	"github.com/XavierBriggs/Oracle/internal/config"
	"github.com/XavierBriggs/Oracle/internal/linetrack"
	"github.com/XavierBriggs/Oracle/internal/notify"
	"github.com/XavierBriggs/Oracle/internal/pipeline"
	"github.com/XavierBriggs/Oracle/internal/store"
	"github.com/XavierBriggs/Oracle/pkg/models"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	if cfg.OddsAPIKey == "" {
		fmt.Println("✗ ODDS_API_KEY environment variable is required")
		os.Exit(1)
	}
	if cfg.BallDontLieAPIKey == "" {
		fmt.Println("✗ BALLDONTLIE_API_KEY environment variable is required")
		os.Exit(1)
	}
	if cfg.OpenRouterAPIKey == "" {
		fmt.Println("✗ OPENROUTER_API_KEY environment variable is required")
		os.Exit(1)
	}

	holocron, err := store.Open(ctx, cfg.HolocronDSN)
	if err != nil {
		fmt.Printf("✗ failed to connect to Holocron: %v\n", err)
		os.Exit(1)
	}
	defer holocron.Close()

	fmt.Println("✓ Connected to Holocron")

	// Line tracking degrades gracefully: picks still go out without
	// opening-line capture when Redis is down
	var tracker *linetrack.Tracker
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		fmt.Printf("⚠ Redis unavailable, line tracking disabled: %v\n", err)
	} else {
		tracker = linetrack.NewTracker(redisClient, cfg.CacheTTL)
		fmt.Println("✓ Connected to Redis")
	}

	manager := bankroll.NewManager(holocron, cfg.Bankroll, cfg.KellyFraction)
	notifier := notify.NewNotifier(cfg.Notify)

	p := pipeline.New(
		holocron,
		balldontlie.NewClient(cfg.BallDontLieAPIKey),
		theoddsapi.NewClient(cfg.OddsAPIKey),
		analyst.NewAgent(cfg.OpenRouterAPIKey, cfg.OpenRouterModel),
		notifier,
		tracker,
		manager,
		pipeline.Config{
			Filter:      cfg.Filter,
			MaxBetPct:   cfg.MaxBetPct,
			MinBetPct:   cfg.MinBetPct,
			Simulations: cfg.Simulations,
			RatingsDays: cfg.RatingsDays,
			ExportDir:   cfg.ExportDir,
		},
	)

	fmt.Printf("✓ Oracle started - analyzing slate for %s\n\n", time.Now().Format("2006-01-02"))

	summary, err := p.Run(ctx, time.Now())
	if err != nil {
		fmt.Printf("✗ run failed: %v\n", err)
		os.Exit(1)
	}

	displaySummary(summary)

	if status, err := manager.Status(ctx); err == nil {
		fmt.Println(status)
	}
}

func displaySummary(summary *pipeline.Summary) {
	if len(summary.Recommendations) == 0 {
		fmt.Println("\nNo underdog opportunities matched filters today.")
		return
	}

	fmt.Println("\nRecommendations:")

	var actionable int
	var totalExposure, totalAmount, totalEV float64

	for _, reco := range summary.Recommendations {
		status := "PASS"
		if reco.Staking.ShouldBet {
			status = "BET"
			actionable++
			totalExposure += reco.Staking.FinalBetPct
			totalAmount += reco.Staking.BetAmount
			totalEV += reco.Staking.ExpectedValue
		}

		pick := reco.Pick
		fmt.Printf("  [%s] %s (%s) %s @ %+d | conf=%s | implied %.1f%% est %.1f%% | $%.2f\n",
			status, pick.Underdog.Name, pick.BetType, formatLine(pick), pick.Odds,
			reco.Confidence, reco.Staking.ImpliedProb*100, reco.Staking.EstimatedProb*100,
			reco.Staking.BetAmount)
		fmt.Printf("         sim: win %.0f%% cover %.0f%% | %s\n",
			reco.SimWinPct*100, reco.SimCoverPct*100, reco.Reasoning)
	}

	fmt.Printf("\nSummary: %d/%d bets recommended\n", actionable, len(summary.Recommendations))
	fmt.Printf("Total exposure: %.1f%% ($%.0f)\n", totalExposure*100, totalAmount)
	fmt.Printf("Total expected value: $%+.2f\n", totalEV)
	if summary.CSVPath != "" {
		fmt.Printf("Picks exported to: %s\n", summary.CSVPath)
	}
	fmt.Println()
}

func formatLine(pick models.UnderdogPick) string {
	if pick.BetType == models.BetTypeSpread {
		return fmt.Sprintf("%+.1f", pick.Line)
	}
	return "ML"
}
