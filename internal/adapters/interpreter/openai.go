package interpreter

// The bet interpreter is an LLM behind a chat-completions endpoint. It is
// consumed strictly as a structured-output service: the model returns one
// JSON object, and anything that does not decode is an error, never a guess.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ConcosleyMedia/mlb-bet-tracker/internal/domain"
)

const (
	defaultBase  = "https://api.openai.com/v1"
	defaultModel = "gpt-4o-mini"

	systemPrompt = "You are an MLB betting expert. Return only valid JSON."
)

const promptTemplate = `Parse this MLB bet into structured JSON.

Bet input: %q

Return ONLY a valid JSON object with these exact fields:
{
  "player_name": "full player name or null",
  "team_name": "full team name or null",
  "bet_type": "one of: Moneyline, Spread, HRs, Hits, Ks, RBIs, SBs, TB, Runs, Walks, Total",
  "target_value": number or null,
  "operator": "over, under, exactly, or null",
  "odds": "-110 format",
  "units": number,
  "confidence": 0-100,
  "interpretation": "plain English explanation"
}`

// OpenAI implements bet interpretation via a chat-completions API.
type OpenAI struct {
	http   *http.Client
	base   string
	model  string
	apiKey string
}

// New creates the interpreter client. Empty base and model fall back to the
// OpenAI production defaults.
func New(base, model, apiKey string) *OpenAI {
	if base == "" {
		base = defaultBase
	}
	if model == "" {
		model = defaultModel
	}
	return &OpenAI{
		http:   &http.Client{Timeout: 30 * time.Second},
		base:   base,
		model:  model,
		apiKey: apiKey,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// parsedBet is the wire shape the prompt demands. Nullable fields decode to
// pointers so "no target" and "target 0" stay distinguishable.
type parsedBet struct {
	PlayerName     *string  `json:"player_name"`
	TeamName       *string  `json:"team_name"`
	BetType        string   `json:"bet_type"`
	TargetValue    *float64 `json:"target_value"`
	Operator       *string  `json:"operator"`
	Odds           string   `json:"odds"`
	Units          float64  `json:"units"`
	Confidence     int      `json:"confidence"`
	Interpretation string   `json:"interpretation"`
}

// Interpret sends the free-text bet to the model and decodes its structured
// answer.
func (o *OpenAI) Interpret(ctx context.Context, raw string) (domain.ParsedBet, error) {
	body, err := json.Marshal(chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(promptTemplate, raw)},
		},
		Temperature: 0.1,
		MaxTokens:   500,
	})
	if err != nil {
		return domain.ParsedBet{}, fmt.Errorf("interpreter.Interpret: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.base+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return domain.ParsedBet{}, fmt.Errorf("interpreter.Interpret: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.http.Do(req)
	if err != nil {
		return domain.ParsedBet{}, fmt.Errorf("interpreter.Interpret: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return domain.ParsedBet{}, fmt.Errorf("interpreter.Interpret: status %d: %s", resp.StatusCode, string(msg))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return domain.ParsedBet{}, fmt.Errorf("interpreter.Interpret: decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return domain.ParsedBet{}, fmt.Errorf("interpreter.Interpret: empty completion")
	}

	var wire parsedBet
	content := stripFences(chat.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		return domain.ParsedBet{}, fmt.Errorf("interpreter.Interpret: parse model output: %w", err)
	}

	parsed := domain.ParsedBet{
		BetType:        wire.BetType,
		Odds:           wire.Odds,
		Units:          wire.Units,
		Confidence:     wire.Confidence,
		Interpretation: wire.Interpretation,
	}
	if wire.PlayerName != nil {
		parsed.PlayerName = *wire.PlayerName
	}
	if wire.TeamName != nil {
		parsed.TeamName = *wire.TeamName
	}
	if wire.Operator != nil {
		parsed.Operator = *wire.Operator
	}
	if wire.TargetValue != nil {
		parsed.Target = *wire.TargetValue
		parsed.HasTarget = true
	}
	return parsed, nil
}

// stripFences removes a markdown code fence the model sometimes wraps around
// the JSON despite the prompt.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
