package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XavierBriggs/Oracle/internal/bankroll"
	"github.com/XavierBriggs/Oracle/internal/config"
	"github.com/XavierBriggs/Oracle/internal/store"
	"github.com/XavierBriggs/Oracle/internal/web"
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

	fmt.Println("✓ Connected to Holocron")

	manager := bankroll.NewManager(holocron, cfg.Bankroll, cfg.KellyFraction)
	handler := web.NewHandler(holocron, manager)

	srv := &http.Server{
		Addr:    cfg.WebAddr,
		Handler: web.NewRouter(handler, cfg.AllowedOrigins),
	}

	go func() {
		fmt.Printf("✓ Oracle web listening on %s\n", cfg.WebAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("✗ server error: %v\n", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\n✓ Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("✗ shutdown error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ Oracle web stopped")
}
