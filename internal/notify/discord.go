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

// Discord embed colors per confidence tier
const (
	colorHigh   = 0x00FF00
	colorMedium = 0xFFFF00
	colorLow    = 0xFF0000
)

// DiscordNotifier posts pick alerts to a Discord webhook
type DiscordNotifier struct {
	webhookURL string
	httpClient *http.Client
}

// NewDiscordNotifier creates a Discord webhook notifier
func NewDiscordNotifier(webhookURL string) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type discordPayload struct {
	Username  string         `json:"username"`
	AvatarURL string         `json:"avatar_url,omitempty"`
	Embeds    []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields"`
	Timestamp   string         `json:"timestamp,omitempty"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// SendPick posts one recommendation as an embed
func (d *DiscordNotifier) SendPick(ctx context.Context, reco models.Recommendation) error {
	if d.webhookURL == "" {
		return nil
	}

	payload := discordPayload{
		Username: "NBA Underdog Bot",
		Embeds:   []discordEmbed{buildEmbed(reco)},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post to discord: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("discord webhook returned %d", resp.StatusCode)
	}

	return nil
}

func buildEmbed(reco models.Recommendation) discordEmbed {
	pick := reco.Pick

	color := colorLow
	switch reco.Confidence {
	case models.ConfidenceHigh:
		color = colorHigh
	case models.ConfidenceMedium:
		color = colorMedium
	}

	position := "Road"
	if pick.Game.HomeTeam.ID == pick.Underdog.ID {
		position = "Home"
	}

	bet := "PASS"
	if reco.Staking.ShouldBet {
		bet = fmt.Sprintf("$%.0f (%.1f%%)", reco.Staking.BetAmount, reco.Staking.FinalBetPct*100)
	}

	return discordEmbed{
		Title:       "NBA Underdog Alert",
		Description: fmt.Sprintf("**%s** (%s %s)", pick.Underdog.Name, position, pick.BetType),
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields: []discordField{
			{Name: "Matchup", Value: fmt.Sprintf("%s @ %s", pick.Game.AwayTeam.Abbreviation, pick.Game.HomeTeam.Abbreviation), Inline: true},
			{Name: "Line", Value: fmt.Sprintf("%+g", pick.Line), Inline: true},
			{Name: "Odds", Value: fmt.Sprintf("%+d", pick.Odds), Inline: true},
			{Name: "Confidence", Value: strings.ToUpper(string(reco.Confidence)), Inline: true},
			{Name: "Sim Win/Cover", Value: fmt.Sprintf("%.0f%% / %.0f%%", reco.SimWinPct*100, reco.SimCoverPct*100), Inline: true},
			{Name: "Sim Margin", Value: fmt.Sprintf("%+.1f", reco.SimAvgMargin), Inline: true},
			{Name: "Kelly Bet", Value: bet, Inline: true},
			{Name: "EV", Value: fmt.Sprintf("$%+.2f", reco.Staking.ExpectedValue), Inline: true},
			{Name: "Edge Factors", Value: joinOrNone(reco.EdgeFactors), Inline: false},
			{Name: "Risk Factors", Value: joinOrNone(reco.RiskFactors), Inline: false},
		},
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
