package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

const anthropicDefaultModel = "claude-3-5-sonnet-latest"

type anthropicProvider struct {
	client      *anthropic.Client
	model       string
	maxTokens   int
	temperature float32
}

type anthropicConfig struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float32
}

func newAnthropic(cfg anthropicConfig) (*anthropicProvider, error) {
	if cfg.apiKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.model == "" {
		cfg.model = anthropicDefaultModel
	}

	var opts []anthropic.ClientOption
	if cfg.baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.baseURL))
	}

	return &anthropicProvider{
		client:      anthropic.NewClient(cfg.apiKey, opts...),
		model:       cfg.model,
		maxTokens:   cfg.maxTokens,
		temperature: cfg.temperature,
	}, nil
}

func (p *anthropicProvider) Name() string {
	return "anthropic"
}

func (p *anthropicProvider) Generate(ctx context.Context, prompt string) (string, error) {
	req := anthropic.MessagesRequest{
		Model: anthropic.Model(p.model),
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
		MaxTokens: p.maxTokens,
	}
	if p.temperature > 0 {
		temp := p.temperature
		req.Temperature = &temp
	}

	resp, err := p.client.CreateMessages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	text := resp.GetFirstContentText()
	if text == "" {
		return "", fmt.Errorf("anthropic API returned empty content")
	}
	return text, nil
}
