package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/XavierBriggs/Oracle/pkg/models"
)

// TelegramNotifier sends pick alerts through a Telegram bot
type TelegramNotifier struct {
	botToken   string
	chatID     string
	httpClient *http.Client
}

// NewTelegramNotifier creates a Telegram notifier
func NewTelegramNotifier(botToken, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		botToken:   botToken,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// IsConfigured reports whether both token and chat ID are set
func (t *TelegramNotifier) IsConfigured() bool {
	return t.botToken != "" && t.chatID != ""
}

// SendPick sends one recommendation as an HTML message
func (t *TelegramNotifier) SendPick(ctx context.Context, reco models.Recommendation) error {
	if !t.IsConfigured() {
		return nil
	}

	payload := map[string]string{
		"chat_id":    t.chatID,
		"text":       formatMessage(reco),
		"parse_mode": "HTML",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post to telegram: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned %d", resp.StatusCode)
	}

	return nil
}

func formatMessage(reco models.Recommendation) string {
	pick := reco.Pick
	conf := strings.ToUpper(string(reco.Confidence))

	position := "Road"
	if pick.Game.HomeTeam.ID == pick.Underdog.ID {
		position = "Home"
	}

	bet := "PASS"
	if reco.Staking.ShouldBet {
		bet = fmt.Sprintf("$%.0f (%.1f%%)", reco.Staking.BetAmount, reco.Staking.FinalBetPct*100)
	}

	reasoning := reco.Reasoning
	if len(reasoning) > 300 {
		reasoning = reasoning[:300] + "..."
	}

	var b strings.Builder
	b.WriteString("<b>NBA UNDERDOG ALERT</b>\n\n")
	fmt.Fprintf(&b, "<b>%s</b> (%s %s)\n\n", pick.Underdog.Name, position, pick.BetType)
	fmt.Fprintf(&b, "<b>Matchup:</b> %s @ %s\n", pick.Game.AwayTeam.Abbreviation, pick.Game.HomeTeam.Abbreviation)
	fmt.Fprintf(&b, "<b>Line:</b> %+g | <b>Odds:</b> %+d\n", pick.Line, pick.Odds)
	fmt.Fprintf(&b, "<b>Confidence:</b> %s\n", conf)
	fmt.Fprintf(&b, "<b>Kelly Bet:</b> %s\n", bet)
	fmt.Fprintf(&b, "<b>EV:</b> $%+.2f\n\n", reco.Staking.ExpectedValue)
	fmt.Fprintf(&b, "<b>Edge:</b> %s\n", joinOrNone(reco.EdgeFactors))
	fmt.Fprintf(&b, "<b>Risk:</b> %s\n\n", joinOrNone(reco.RiskFactors))
	fmt.Fprintf(&b, "<i>%s</i>", reasoning)

	return b.String()
}
