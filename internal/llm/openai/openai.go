package openai

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

// Predictor answers market questions via the OpenAI chat-completions API.
type Predictor struct {
	cfg      *store.Config
	endpoint string
}

func NewPredictor(cfg *store.Config) *Predictor {
	endpoint := "https://api.openai.com/v1/chat/completions"
	// Proxies and test servers can override via OPENAI_API_ENDPOINT.
	if ep := os.Getenv("OPENAI_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &Predictor{cfg: cfg, endpoint: endpoint}
}

func (p *Predictor) Predict(ctx context.Context, question string, contextData map[string]any) (*big.Int, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY missing")
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

	body := map[string]any{
		"model": p.cfg.LLM.Model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"max_tokens":  p.cfg.LLM.MaxTokens,
		"temperature": p.cfg.LLM.Temperature,
	}
	if p.cfg.LLM.WebSearch {
		body["web_search_options"] = map[string]any{}
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", p.endpoint, bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openai http %d: %s", resp.StatusCode, string(rb))
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, err
	}
	if len(r.Choices) == 0 {
		return nil, errors.New("no choices")
	}

	return llm.ParsePrediction(strings.TrimSpace(r.Choices[0].Message.Content))
}
