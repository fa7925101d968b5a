package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// openAICompat serves any OpenAI-compatible API: OpenAI itself, DeepSeek,
// Qwen/DashScope, and self-hosted gateways via base_url.
type openAICompat struct {
	client       *openai.Client
	providerName string
	model        string
	maxTokens    int
	temperature  float32
}

type openAICompatConfig struct {
	providerName string
	apiKey       string
	baseURL      string
	defaultURL   string
	model        string
	defaultModel string
	maxTokens    int
	temperature  float32
}

func newOpenAICompat(cfg openAICompatConfig) (*openAICompat, error) {
	if cfg.apiKey == "" {
		return nil, fmt.Errorf("%s: API key is required", cfg.providerName)
	}
	if cfg.model == "" {
		cfg.model = cfg.defaultModel
	}

	baseURL := cfg.baseURL
	if baseURL == "" {
		baseURL = cfg.defaultURL
	}

	clientCfg := openai.DefaultConfig(cfg.apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	return &openAICompat{
		client:       openai.NewClientWithConfig(clientCfg),
		providerName: cfg.providerName,
		model:        cfg.model,
		maxTokens:    cfg.maxTokens,
		temperature:  cfg.temperature,
	}, nil
}

func (p *openAICompat) Name() string {
	return p.providerName
}

func (p *openAICompat) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s API error: %w", p.providerName, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s API returned no choices", p.providerName)
	}
	return resp.Choices[0].Message.Content, nil
}
