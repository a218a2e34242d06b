package ai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrMissingAPIKey is returned by NewProvider when a hosted provider has no key
	ErrMissingAPIKey = errors.New("api key is required")
	// ErrUnsupportedProvider is returned by NewProvider for unknown provider names
	ErrUnsupportedProvider = errors.New("unsupported provider")
)

// Fragment is one piece of streamed model output. A fragment with Err set is the last one sent.
type Fragment struct {
	Text string
	Err  error
}

// Provider turns a prompt into a stream of text fragments.
// The returned channel is closed once the model is done or ctx is cancelled.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (<-chan Fragment, error)
}

// Config holds the settings needed to build a Provider
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int64
}

const (
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 4096

	groqBaseURL   = "https://api.groq.com/openai/v1"
	ollamaBaseURL = "http://localhost:11434/v1"
)

var defaultModels = map[string]string{
	"openai":    "gpt-4o-mini",
	"groq":      "llama-3.3-70b-versatile",
	"anthropic": "claude-3-5-sonnet-latest",
	"ollama":    "llama3.1",
}

// DefaultModel returns the model used when none is configured
func DefaultModel(provider string) string {
	return defaultModels[strings.ToLower(provider)]
}

// NewProvider builds the provider named in cfg. It never performs a network call,
// so a missing key or unknown name is reported before any generation starts.
func NewProvider(cfg Config) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Model == "" {
		cfg.Model = DefaultModel(name)
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	switch name {
	case "openai":
		cfg.APIKey = firstNonEmpty(cfg.APIKey, os.Getenv("OPENAI_API_KEY"))
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: %w", name, ErrMissingAPIKey)
		}
		return NewOpenAIProvider(name, cfg), nil
	case "groq":
		cfg.APIKey = firstNonEmpty(cfg.APIKey, os.Getenv("GROQ_API_KEY"))
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: %w", name, ErrMissingAPIKey)
		}
		cfg.BaseURL = firstNonEmpty(cfg.BaseURL, os.Getenv("GROQ_API_URL"), groqBaseURL)
		return NewOpenAIProvider(name, cfg), nil
	case "ollama":
		// Ollama ignores the key but the client insists on one
		cfg.APIKey = firstNonEmpty(cfg.APIKey, "ollama")
		cfg.BaseURL = firstNonEmpty(cfg.BaseURL, os.Getenv("OLLAMA_URL"), ollamaBaseURL)
		return NewOpenAIProvider(name, cfg), nil
	case "anthropic":
		cfg.APIKey = firstNonEmpty(cfg.APIKey, os.Getenv("ANTHROPIC_API_KEY"))
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: %w", name, ErrMissingAPIKey)
		}
		return NewAnthropicProvider(cfg), nil
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Provider, ErrUnsupportedProvider)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
