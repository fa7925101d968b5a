// Package llm wraps the generation backends behind a single Provider
// interface. The pipeline treats a provider as an opaque request/response
// capability; retries and rate limiting stay out of the core.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kayz/docsynth/internal/config"
	"github.com/kayz/docsynth/internal/errs"
)

// Provider sends one prompt and returns the completion text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// New creates the configured provider. Returns (nil, nil) when generation is
// disabled or the provider is "none": the pipeline then runs in prompt-only
// mode.
func New(cfg config.LLMConfig) (Provider, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "", "none":
		return nil, nil
	case "openai":
		return newOpenAICompat(openAICompatConfig{
			providerName: "openai",
			apiKey:       keyOrEnv(cfg.APIKey, "OPENAI_API_KEY"),
			baseURL:      cfg.BaseURL,
			model:        cfg.Model,
			defaultModel: "gpt-4o",
			maxTokens:    cfg.MaxTokens,
			temperature:  cfg.Temperature,
		})
	case "deepseek":
		return newOpenAICompat(openAICompatConfig{
			providerName: "deepseek",
			apiKey:       keyOrEnv(cfg.APIKey, "DEEPSEEK_API_KEY"),
			baseURL:      cfg.BaseURL,
			defaultURL:   "https://api.deepseek.com/v1",
			model:        cfg.Model,
			defaultModel: "deepseek-chat",
			maxTokens:    cfg.MaxTokens,
			temperature:  cfg.Temperature,
		})
	case "qwen":
		return newOpenAICompat(openAICompatConfig{
			providerName: "qwen",
			apiKey:       keyOrEnv(cfg.APIKey, "DASHSCOPE_API_KEY"),
			baseURL:      cfg.BaseURL,
			defaultURL:   "https://dashscope.aliyuncs.com/compatible-mode/v1",
			model:        cfg.Model,
			defaultModel: "qwen-plus",
			maxTokens:    cfg.MaxTokens,
			temperature:  cfg.Temperature,
		})
	case "anthropic", "claude":
		return newAnthropic(anthropicConfig{
			apiKey:      keyOrEnv(cfg.APIKey, "ANTHROPIC_API_KEY"),
			baseURL:     cfg.BaseURL,
			model:       cfg.Model,
			maxTokens:   cfg.MaxTokens,
			temperature: cfg.Temperature,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q: %w", cfg.Provider, errs.ErrConfig)
	}
}

func keyOrEnv(key, envVar string) string {
	if key != "" {
		return key
	}
	return os.Getenv(envVar)
}
