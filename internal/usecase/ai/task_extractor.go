package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	pkgai "github.com/johnquangdev/meeting-insights/pkg/ai"
)

// LLMTaskExtractor asks the text-generation provider for tasks, one call per chunk
type LLMTaskExtractor struct {
	provider  pkgai.Provider
	parser    *Parser
	threshold int
	timeout   time.Duration
	prefixLen int
	logger    *zap.Logger
}

// TaskExtractorOption configures an LLMTaskExtractor
type TaskExtractorOption func(*LLMTaskExtractor)

// WithExtractorChunkThreshold sets the chunk size used for task extraction
func WithExtractorChunkThreshold(n int) TaskExtractorOption {
	return func(e *LLMTaskExtractor) { e.threshold = n }
}

// WithExtractorTimeout bounds each extraction call
func WithExtractorTimeout(d time.Duration) TaskExtractorOption {
	return func(e *LLMTaskExtractor) { e.timeout = d }
}

// WithExtractorLogger sets the logger
func WithExtractorLogger(logger *zap.Logger) TaskExtractorOption {
	return func(e *LLMTaskExtractor) { e.logger = logger }
}

// NewLLMTaskExtractor creates a task extractor backed by provider
func NewLLMTaskExtractor(provider pkgai.Provider, opts ...TaskExtractorOption) *LLMTaskExtractor {
	e := &LLMTaskExtractor{
		provider:  provider,
		parser:    NewParser(),
		threshold: DefaultChunkThreshold,
		timeout:   DefaultStageTimeout,
		prefixLen: DefaultTaskPrefixLen,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractTasks returns the tasks found in text. It fails only when no chunk
// could be sent to the provider at all.
func (e *LLMTaskExtractor) ExtractTasks(ctx context.Context, text string, project *entities.ProjectContext) ([]entities.ExtractedTask, error) {
	chunks := Chunks(text, e.threshold)
	set := newPrefixSet(e.prefixLen)
	tasks := []entities.ExtractedTask{}
	failures := 0
	var lastErr error

	for i, chunk := range chunks {
		pc := PromptContext{Project: project, ChunkIndex: i, ChunkCount: len(chunks)}
		completion, err := pkgai.Collect(ctx, e.provider, buildPrompt(taskPrompt, pc, chunk), e.timeout)
		if err != nil {
			failures++
			lastErr = err
			continue
		}

		found, ok := e.parser.ParseTasks(completion.Text)
		if !ok && e.logger != nil {
			e.logger.Warn("🧩 Task extraction returned no usable JSON",
				zap.Int("chunk", i),
				zap.Int("response_bytes", len(completion.Text)),
			)
		}
		for _, t := range found {
			if set.add(t.Title) {
				tasks = append(tasks, t)
			}
		}
	}

	if len(chunks) > 0 && failures == len(chunks) {
		return tasks, errors.ErrAIAnalysisFailed(fmt.Errorf("task extraction failed for all %d chunks: %w", failures, lastErr))
	}
	return tasks, nil
}
