package notify

import (
	"context"
	"fmt"

	"github.com/XavierBriggs/Oracle/pkg/contracts"
	"github.com/XavierBriggs/Oracle/pkg/models"
)

// Config selects channels and filters for pick notifications
type Config struct {
	Enabled  bool
	HighOnly bool

	DiscordWebhookURL string
	TelegramBotToken  string
	TelegramChatID    string
}

// Notifier fans a pick out to every configured channel. Implements
// contracts.PickNotifier.
type Notifier struct {
	cfg      Config
	discord  *DiscordNotifier
	telegram *TelegramNotifier
}

var _ contracts.PickNotifier = (*Notifier)(nil)

// NewNotifier creates a notifier from config; unconfigured channels
// are skipped
func NewNotifier(cfg Config) *Notifier {
	n := &Notifier{cfg: cfg}

	if cfg.DiscordWebhookURL != "" {
		n.discord = NewDiscordNotifier(cfg.DiscordWebhookURL)
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		n.telegram = NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
	}

	return n
}

// HasChannels reports whether any channel is configured
func (n *Notifier) HasChannels() bool {
	return n.discord != nil || n.telegram != nil
}

// ShouldNotify applies the enabled and confidence filters
func (n *Notifier) ShouldNotify(rec models.Recommendation) bool {
	if !n.cfg.Enabled || !n.HasChannels() {
		return false
	}
	if n.cfg.HighOnly {
		return rec.Confidence == models.ConfidenceHigh
	}
	return true
}

// SendPick delivers to all channels; the first failure is returned but
// does not stop the remaining channels
func (n *Notifier) SendPick(ctx context.Context, rec models.Recommendation) error {
	var firstErr error

	if n.discord != nil {
		if err := n.discord.SendPick(ctx, rec); err != nil {
			firstErr = fmt.Errorf("discord: %w", err)
			fmt.Printf("[Notify] Discord send failed: %v\n", err)
		}
	}

	if n.telegram != nil {
		if err := n.telegram.SendPick(ctx, rec); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("telegram: %w", err)
			}
			fmt.Printf("[Notify] Telegram send failed: %v\n", err)
		}
	}

	return firstErr
}
