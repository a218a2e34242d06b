package ai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIProvider streams chat completions from any OpenAI-compatible endpoint
// (OpenAI itself, Groq, Ollama's /v1 API).
type OpenAIProvider struct {
	name        string
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int64
}

// NewOpenAIProvider creates a provider for an OpenAI-compatible API
func NewOpenAIProvider(name string, cfg Config) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// retries are the caller's business
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIProvider{
		name:        name,
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Name returns the provider name (openai, groq, ollama)
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Generate starts a streamed chat completion for prompt
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (<-chan Fragment, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(p.temperature),
		MaxTokens:   openai.Int(p.maxTokens),
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	out := make(chan Fragment)

	go func() {
		defer close(out)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			for _, choice := range chunk.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				if !send(ctx, out, Fragment{Text: choice.Delta.Content}) {
					return
				}
			}
		}

		if err := stream.Err(); err != nil {
			send(ctx, out, Fragment{Err: fmt.Errorf("%s stream failed: %w", p.name, err)})
		}
	}()

	return out, nil
}
