package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	tests := []struct {
		name     string
		cfg      Config
		wantErr  error
		wantName string
	}{
		{name: "openai without key", cfg: Config{Provider: "openai"}, wantErr: ErrMissingAPIKey},
		{name: "groq without key", cfg: Config{Provider: "groq"}, wantErr: ErrMissingAPIKey},
		{name: "anthropic without key", cfg: Config{Provider: "anthropic"}, wantErr: ErrMissingAPIKey},
		{name: "unknown provider", cfg: Config{Provider: "watson", APIKey: "k"}, wantErr: ErrUnsupportedProvider},
		{name: "openai with key", cfg: Config{Provider: "openai", APIKey: "sk-test"}, wantName: "openai"},
		{name: "groq is case insensitive", cfg: Config{Provider: " Groq ", APIKey: "gsk-test"}, wantName: "groq"},
		{name: "anthropic with key", cfg: Config{Provider: "anthropic", APIKey: "sk-ant"}, wantName: "anthropic"},
		{name: "ollama needs no key", cfg: Config{Provider: "ollama"}, wantName: "ollama"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.cfg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
		})
	}
}

func TestNewProvider_KeyFromEnvironment(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-from-env")

	p, err := NewProvider(Config{Provider: "groq"})

	require.NoError(t, err)
	assert.Equal(t, "groq", p.Name())
}

func TestDefaultModel(t *testing.T) {
	assert.Equal(t, "llama-3.3-70b-versatile", DefaultModel("groq"))
	assert.Equal(t, "llama-3.3-70b-versatile", DefaultModel("GROQ"))
	assert.Empty(t, DefaultModel("unknown"))
}

func TestOpenAIProvider_StreamsChunks(t *testing.T) {
	var gotPath, gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		for _, piece := range []string{"Hello", ", ", "world"} {
			fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"m\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q},\"finish_reason\":null}]}\n\n", piece)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer ts.Close()

	p := NewOpenAIProvider("groq", Config{APIKey: "gsk-test", BaseURL: ts.URL + "/openai/v1", Model: "m", MaxTokens: 128})

	got, err := Collect(context.Background(), p, "say hello", 5*time.Second)

	require.NoError(t, err)
	assert.Equal(t, "Hello, world", got.Text)
	assert.True(t, strings.HasSuffix(gotPath, "/chat/completions"), gotPath)
	assert.Equal(t, "Bearer gsk-test", gotAuth)
}

func TestOpenAIProvider_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`)
	}))
	defer ts.Close()

	p := NewOpenAIProvider("openai", Config{APIKey: "bad", BaseURL: ts.URL, Model: "m", MaxTokens: 16})

	got, err := Collect(context.Background(), p, "hi", 5*time.Second)

	require.Error(t, err)
	assert.Empty(t, got.Text)
}
