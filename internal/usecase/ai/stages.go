package ai

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	pkgai "github.com/johnquangdev/meeting-insights/pkg/ai"
)

// Stage labels reported through the progress callback
type Stage string

const (
	StageSummary   Stage = "summary"
	StageDecisions Stage = "decisions"
	StageQuestions Stage = "questions"
	StageTasks     Stage = "tasks"
	StageDedup     Stage = "dedup"
	StageDone      Stage = "done"
)

// DefaultStageTimeout bounds a single streamed call
const DefaultStageTimeout = 5 * time.Minute

// StageDiagnostics counts what happened to the calls of one stage. A stage
// with ParseFailures > 0 may have returned empty lists because the model
// output was unreadable rather than because nothing was found.
type StageDiagnostics struct {
	Calls            int `json:"calls"`
	ProviderFailures int `json:"provider_failures"`
	ParseFailures    int `json:"parse_failures"`
	TimedOutCalls    int `json:"timed_out_calls"`
}

// Diagnostics reports the degraded parts of a run
type Diagnostics struct {
	ChunkCount          int                        `json:"chunk_count"`
	Stages              map[Stage]StageDiagnostics `json:"stages"`
	TaskExtractorFailed bool                       `json:"task_extractor_failed"`
}

// ProviderFailures sums provider failures across stages
func (d Diagnostics) ProviderFailures() int {
	total := 0
	for _, s := range d.Stages {
		total += s.ProviderFailures
	}
	return total
}

// ParseFailures sums parse failures across stages
func (d Diagnostics) ParseFailures() int {
	total := 0
	for _, s := range d.Stages {
		total += s.ParseFailures
	}
	return total
}

// TimedOutCalls sums timed-out calls across stages
func (d Diagnostics) TimedOutCalls() int {
	total := 0
	for _, s := range d.Stages {
		total += s.TimedOutCalls
	}
	return total
}

// Degraded reports whether part of the result is missing because a provider
// call failed or timed out. A retry may produce a fuller result.
func (d Diagnostics) Degraded() bool {
	return d.ProviderFailures() > 0 || d.TimedOutCalls() > 0 || d.TaskExtractorFailed
}

// diagRecorder is safe for concurrent chunk fetches
type diagRecorder struct {
	mu     sync.Mutex
	stages map[Stage]StageDiagnostics
}

func newDiagRecorder() *diagRecorder {
	return &diagRecorder{stages: make(map[Stage]StageDiagnostics)}
}

func (r *diagRecorder) update(stage Stage, fn func(*StageDiagnostics)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.stages[stage]
	fn(&d)
	r.stages[stage] = d
}

func (r *diagRecorder) snapshot() map[Stage]StageDiagnostics {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[Stage]StageDiagnostics, len(r.stages))
	for k, v := range r.stages {
		out[k] = v
	}
	return out
}

// stageRunner performs the call-and-parse step shared by all extraction stages
type stageRunner struct {
	provider pkgai.Provider
	parser   *Parser
	timeout  time.Duration
	logger   *zap.Logger
	metrics  *Metrics
	tracer   trace.Tracer
	diag     *diagRecorder
}

// call streams one prompt. ok is false when the provider failed; a timeout
// still counts as ok and returns the text received until then.
func (r *stageRunner) call(ctx context.Context, stage Stage, prompt string) (string, bool) {
	ctx, span := r.tracer.Start(ctx, "extraction.stage."+string(stage),
		trace.WithAttributes(
			attribute.String("provider", r.provider.Name()),
			attribute.Int("prompt_bytes", len(prompt)),
		),
	)
	defer span.End()

	started := time.Now()
	completion, err := pkgai.Collect(ctx, r.provider, prompt, r.timeout)
	elapsed := time.Since(started)

	r.diag.update(stage, func(d *StageDiagnostics) { d.Calls++ })

	if err != nil {
		r.diag.update(stage, func(d *StageDiagnostics) { d.ProviderFailures++ })
		r.metrics.observeCall(stage, r.provider.Name(), outcomeProviderError, elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider call failed")
		if r.logger != nil {
			r.logger.Warn("⚠️ Provider call failed, continuing with empty result",
				zap.String("stage", string(stage)),
				zap.String("provider", r.provider.Name()),
				zap.Duration("elapsed", elapsed),
				zap.Error(err),
			)
		}
		return "", false
	}

	outcome := outcomeOK
	if completion.TimedOut {
		outcome = outcomeTimeout
		r.diag.update(stage, func(d *StageDiagnostics) { d.TimedOutCalls++ })
		if r.logger != nil {
			r.logger.Warn("⏱️ Provider call timed out, parsing partial output",
				zap.String("stage", string(stage)),
				zap.Duration("timeout", r.timeout),
				zap.Int("received_bytes", len(completion.Text)),
			)
		}
	}
	r.metrics.observeCall(stage, r.provider.Name(), outcome, elapsed)
	span.SetAttributes(
		attribute.Int("response_bytes", len(completion.Text)),
		attribute.Bool("timed_out", completion.TimedOut),
	)

	return completion.Text, true
}

func (r *stageRunner) parseFailed(stage Stage, raw string) {
	r.diag.update(stage, func(d *StageDiagnostics) { d.ParseFailures++ })
	r.metrics.parseFailed(stage)
	if r.logger != nil {
		r.logger.Warn("🧩 No usable JSON in model response",
			zap.String("stage", string(stage)),
			zap.Int("response_bytes", len(raw)),
		)
	}
}

// summary runs the Summary stage on one chunk
func (r *stageRunner) summary(ctx context.Context, chunk string, pc PromptContext) PartialResult {
	raw, ok := r.call(ctx, StageSummary, buildPrompt(summaryPrompt, pc, chunk))
	if !ok {
		return newPartialResult()
	}
	partial, parsed := r.parser.ParseSummary(raw)
	if !parsed {
		r.parseFailed(StageSummary, raw)
	}
	return partial
}

// decisions runs the Decision stage on one chunk
func (r *stageRunner) decisions(ctx context.Context, chunk string, pc PromptContext) []entities.Decision {
	raw, ok := r.call(ctx, StageDecisions, buildPrompt(decisionPrompt, pc, chunk))
	if !ok {
		return []entities.Decision{}
	}
	decisions, parsed := r.parser.ParseDecisions(raw)
	if !parsed {
		r.parseFailed(StageDecisions, raw)
	}
	return decisions
}

// questions runs the Question stage on one chunk
func (r *stageRunner) questions(ctx context.Context, chunk string, pc PromptContext) []entities.Question {
	raw, ok := r.call(ctx, StageQuestions, buildPrompt(questionPrompt, pc, chunk))
	if !ok {
		return []entities.Question{}
	}
	questions, parsed := r.parser.ParseQuestions(raw)
	if !parsed {
		r.parseFailed(StageQuestions, raw)
	}
	return questions
}
