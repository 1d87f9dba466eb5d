package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"strings"

	"sapience-trading-bot/internal/llm"
	"sapience-trading-bot/internal/store"
	"sapience-trading-bot/internal/trace"
)

// Predictor answers market questions via the Anthropic messages API.
type Predictor struct {
	cfg      *store.Config
	endpoint string
}

func NewPredictor(cfg *store.Config) *Predictor {
	// default messages endpoint (public Anthropic)
	endpoint := "https://api.anthropic.com/v1/messages"
	// If you use a proxy/bedrock/vertex, set endpoint via CLAUDE_API_ENDPOINT env var
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &Predictor{cfg: cfg, endpoint: endpoint}
}

func (p *Predictor) Predict(ctx context.Context, question string, contextData map[string]any) (*big.Int, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" {
		return nil, errors.New("CLAUDE_API_KEY missing")
	}

	system := p.cfg.LLM.System
	if system == "" {
		system = llm.DefaultSystemPrompt
	}

	user := question
	if len(contextData) > 0 {
		cb, _ := json.Marshal(contextData)
		user = fmt.Sprintf("%s\n\nContext:%s", question, string(cb))
	}

	reqBody := map[string]any{
		"model":      p.cfg.LLM.Model,
		"system":     system,
		"messages":   []map[string]string{{"role": "user", "content": user}},
		"max_tokens": p.cfg.LLM.MaxTokens,
	}
	bb, _ := json.Marshal(reqBody)

	req, _ := http.NewRequestWithContext(ctx, "POST", p.endpoint, bytes.NewReader(bb))
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("claude http %d: %s", resp.StatusCode, string(rb))
	}

	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, err
	}
	for _, c := range r.Content {
		if c.Type == "text" && strings.TrimSpace(c.Text) != "" {
			return llm.ParsePrediction(strings.TrimSpace(c.Text))
		}
	}
	return nil, errors.New("no text content")
}
