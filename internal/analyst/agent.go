package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/XavierBriggs/Oracle/pkg/contracts"
	"github.com/XavierBriggs/Oracle/pkg/models"
)

const systemPrompt = `You are an expert NBA betting analyst specializing in underdog value plays.
Your job is to analyze matchups and identify high-value underdog bets on spreads and moneylines.

Key principles:
1. Contrarian approach - fade public heavy favorites when data supports it
2. Focus on situational advantages: B2B fatigue, rest advantages, injuries to key players
3. Value road underdogs in the +3.5 to +7.5 spread range
4. Moneyline underdogs +150 to +300 offer best risk/reward
5. Be conservative - only recommend bets with clear edges

Analyze the provided game context and respond with ONLY a JSON object:
{"confidence": "high"|"medium"|"low", "reasoning": "...", "edge_factors": ["..."], "risk_factors": ["..."]}
Be specific about WHY this underdog has value, citing concrete factors.`

// Agent analyzes underdog picks with an LLM behind the OpenRouter
// OpenAI-compatible endpoint. Implements contracts.Analyst.
type Agent struct {
	client openai.Client
	model  string
}

// NewAgent creates an analyst agent for the given OpenRouter model
func NewAgent(apiKey, model string) *Agent {
	return &Agent{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL("https://openrouter.ai/api/v1"),
		),
		model: model,
	}
}

// rawAnalysis mirrors the JSON shape the model is instructed to emit
type rawAnalysis struct {
	Confidence  string   `json:"confidence"`
	Reasoning   string   `json:"reasoning"`
	EdgeFactors []string `json:"edge_factors"`
	RiskFactors []string `json:"risk_factors"`
}

// AnalyzePick asks the model for a verdict on one underdog opportunity
func (a *Agent) AnalyzePick(ctx context.Context, pick models.UnderdogPick, simSummary, historySummary string) (*contracts.Analysis, error) {
	prompt := formatContext(pick, simSummary, historySummary)

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: empty response")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("parse analysis response: %w", err)
	}

	confidence, err := parseConfidence(raw.Confidence)
	if err != nil {
		return nil, err
	}

	return &contracts.Analysis{
		Confidence:  confidence,
		Reasoning:   raw.Reasoning,
		EdgeFactors: raw.EdgeFactors,
		RiskFactors: raw.RiskFactors,
	}, nil
}

// formatContext renders the game context block the model analyzes
func formatContext(pick models.UnderdogPick, simSummary, historySummary string) string {
	uc := pick.UnderdogContext
	fc := pick.FavoriteContext

	position := "Road"
	if pick.Game.HomeTeam.ID == pick.Underdog.ID {
		position = "Home"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "GAME: %s @ %s\n", pick.Game.AwayTeam.Name, pick.Game.HomeTeam.Name)
	fmt.Fprintf(&b, "DATE: %s\n\n", pick.Game.Date.Format("2006-01-02 15:04"))

	fmt.Fprintf(&b, "UNDERDOG: %s\n", pick.Underdog.Name)
	fmt.Fprintf(&b, "- Position: %s\n", position)
	fmt.Fprintf(&b, "- Line: %+g (%s)\n", pick.Line, pick.BetType)
	fmt.Fprintf(&b, "- Odds: %+d\n", pick.Odds)
	fmt.Fprintf(&b, "- Rest days: %d\n", uc.DaysRest)
	fmt.Fprintf(&b, "- Back-to-back: %s\n", yesNo(uc.IsBackToBack))
	fmt.Fprintf(&b, "- Recent form: %s\n", uc.RecentRecord)
	fmt.Fprintf(&b, "- Key injuries: %s\n\n", injuryList(uc.Injuries))

	fmt.Fprintf(&b, "FAVORITE: %s\n", pick.Favorite.Name)
	fmt.Fprintf(&b, "- Rest days: %d\n", fc.DaysRest)
	fmt.Fprintf(&b, "- Back-to-back: %s\n", yesNo(fc.IsBackToBack))
	fmt.Fprintf(&b, "- Recent form: %s\n", fc.RecentRecord)
	fmt.Fprintf(&b, "- Key injuries: %s\n", injuryList(fc.Injuries))

	if simSummary != "" {
		fmt.Fprintf(&b, "\n%s\n", simSummary)
	}
	if historySummary != "" {
		fmt.Fprintf(&b, "\n%s\n", historySummary)
	}

	fmt.Fprintf(&b, "\nBET TYPE: %s\n", pick.BetType)
	b.WriteString("Analyze this underdog opportunity and provide your recommendation.")

	return b.String()
}

// stripCodeFence removes a surrounding markdown code fence, which some
// models wrap JSON in despite instructions
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func parseConfidence(s string) (models.Confidence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return models.ConfidenceHigh, nil
	case "medium":
		return models.ConfidenceMedium, nil
	case "low":
		return models.ConfidenceLow, nil
	default:
		return "", fmt.Errorf("unknown confidence tier %q", s)
	}
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "No"
}

func injuryList(injuries []string) string {
	if len(injuries) == 0 {
		return "None reported"
	}
	return strings.Join(injuries, ", ")
}
