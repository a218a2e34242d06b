package ai

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	pkgai "github.com/johnquangdev/meeting-insights/pkg/ai"
)

// TracerName is the otel tracer used for pipeline spans
const TracerName = "meeting-insights/extraction"

// Progress fractions at each transition
const (
	progressSummaryEnd = 0.40
	progressDecisions  = 0.45
	progressQuestions  = 0.60
	progressTasks      = 0.75
	progressDedup      = 0.90
	progressDone       = 1.0
)

// ProgressFunc is notified synchronously at each pipeline transition.
// It cannot influence the run.
type ProgressFunc func(stage Stage, fraction float64)

// ProviderFactory builds a provider for the run settings
type ProviderFactory func(settings entities.Settings) (pkgai.Provider, error)

// Config tunes the pipeline
type Config struct {
	ChunkThreshold   int
	StageTimeout     time.Duration
	MinDecisions     int
	MinQuestions     int
	Merge            MergeConfig
	TaskPrefixLen    int
	ChunkConcurrency int
}

// DefaultConfig returns the default tuning
func DefaultConfig() Config {
	return Config{
		ChunkThreshold:   DefaultChunkThreshold,
		StageTimeout:     DefaultStageTimeout,
		MinDecisions:     2,
		MinQuestions:     2,
		Merge:            DefaultMergeConfig(),
		TaskPrefixLen:    DefaultTaskPrefixLen,
		ChunkConcurrency: 1,
	}
}

// Result is what ProcessTranscript hands back to the caller
type Result struct {
	Summary          entities.MeetingSummary  `json:"summary"`
	Tasks            []entities.ExtractedTask `json:"tasks"`
	ProcessingTimeMs int64                    `json:"processing_time_ms"`
	Diagnostics      Diagnostics              `json:"diagnostics"`
}

// Pipeline runs the staged extraction over one transcript
type Pipeline struct {
	cfg           Config
	parser        *Parser
	dedup         *DedupEngine
	newProvider   ProviderFactory
	taskExtractor TaskExtractor
	logger        *zap.Logger
	metrics       *Metrics
	tracer        trace.Tracer
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithConfig replaces the tuning
func WithConfig(cfg Config) Option {
	return func(p *Pipeline) { p.cfg = cfg }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithMetrics sets the metrics sink
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithClusters sets the keyword clusters of the dedup engine
func WithClusters(clusters []KeywordCluster) Option {
	return func(p *Pipeline) { p.dedup = NewDedupEngine(clusters) }
}

// WithProviderFactory replaces how providers are built from settings
func WithProviderFactory(f ProviderFactory) Option {
	return func(p *Pipeline) { p.newProvider = f }
}

// WithTaskExtractor sets the transcript-wide task extractor. Without one, an
// LLMTaskExtractor over the run's provider is used.
func WithTaskExtractor(e TaskExtractor) Option {
	return func(p *Pipeline) { p.taskExtractor = e }
}

// WithTracer sets the tracer
func WithTracer(t trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = t }
}

// NewPipeline creates a pipeline with defaults for everything not set through opts
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:         DefaultConfig(),
		parser:      NewParser(),
		dedup:       NewDedupEngine(DefaultKeywordClusters()),
		newProvider: ProviderFromSettings,
		tracer:      otel.Tracer(TracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = NewMetrics(prometheus.NewRegistry())
	}
	return p
}

// ProviderFromSettings builds a provider and maps setup failures to configuration errors
func ProviderFromSettings(settings entities.Settings) (pkgai.Provider, error) {
	provider, err := pkgai.NewProvider(pkgai.Config{
		Provider: settings.Provider,
		APIKey:   settings.APIKey,
		BaseURL:  settings.BaseURL,
		Model:    settings.Model,
	})
	switch {
	case err == nil:
		return provider, nil
	case stdErrors.Is(err, pkgai.ErrMissingAPIKey):
		return nil, errors.ErrAIProviderNotConfigured(settings.Provider)
	case stdErrors.Is(err, pkgai.ErrUnsupportedProvider):
		return nil, errors.ErrAIProviderUnsupported(settings.Provider)
	default:
		return nil, errors.ErrConfigInvalid(err.Error())
	}
}

// ProcessTranscript runs summary → decisions? → questions? → tasks → dedup.
//
// Only configuration problems are returned as errors, and they are detected
// before any provider call. Provider and parse failures leave the affected
// stage empty and are reported in Result.Diagnostics.
func (p *Pipeline) ProcessTranscript(
	ctx context.Context,
	meeting *entities.Meeting,
	speakers []entities.Speaker,
	settings entities.Settings,
	onProgress ProgressFunc,
	project *entities.ProjectContext,
) (*Result, error) {
	started := time.Now()

	if meeting == nil {
		return nil, errors.ErrInvalidArgument("meeting is required")
	}
	provider, err := p.newProvider(settings)
	if err != nil {
		if p.logger != nil {
			p.logger.Error("❌ Text-generation provider is not usable",
				zap.String("provider", settings.Provider),
				zap.Error(err),
			)
		}
		return nil, err
	}

	ctx, span := p.tracer.Start(ctx, "extraction.process_transcript",
		trace.WithAttributes(
			attribute.String("meeting_id", meeting.ID),
			attribute.String("provider", provider.Name()),
		),
	)
	defer span.End()

	progress := newProgressReporter(onProgress)
	diag := newDiagRecorder()
	runner := &stageRunner{
		provider: provider,
		parser:   p.parser,
		timeout:  p.cfg.StageTimeout,
		logger:   p.logger,
		metrics:  p.metrics,
		tracer:   p.tracer,
		diag:     diag,
	}

	progress.report(StageSummary, 0)

	text := TranscriptText(meeting.Transcript, speakers)
	var chunks []string
	if strings.TrimSpace(text) != "" {
		chunks = Chunks(text, p.cfg.ChunkThreshold)
	}
	p.metrics.ChunksTotal.Add(float64(len(chunks)))

	pc := PromptContext{
		Title:        meeting.Title,
		Participants: Participants(meeting.Transcript, speakers),
		Duration:     meeting.Transcript.DurationString(),
		Language:     settings.Language,
		Project:      project,
		ChunkCount:   len(chunks),
	}

	if p.logger != nil {
		p.logger.Info("🤖 Starting transcript extraction",
			zap.String("meeting_id", meeting.ID),
			zap.String("provider", provider.Name()),
			zap.Int("text_bytes", len(text)),
			zap.Int("chunks", len(chunks)),
		)
	}

	// Summary: one call per chunk, merged in chunk order
	var done int
	var doneMu sync.Mutex
	partials := fetchOrdered(ctx, len(chunks), p.cfg.ChunkConcurrency, func(ctx context.Context, i int) PartialResult {
		partial := runner.summary(ctx, chunks[i], pc.forChunk(i))
		doneMu.Lock()
		done++
		progress.report(StageSummary, progressSummaryEnd*float64(done)/float64(len(chunks)))
		doneMu.Unlock()
		return partial
	})
	merged := MergePartials(partials, p.cfg.Merge)

	// Supplementary passes only when the summary came back thin
	if len(chunks) > 0 && len(merged.Decisions) < p.cfg.MinDecisions {
		progress.report(StageDecisions, progressDecisions)
		p.metrics.SupplementaryRunsTotal.WithLabelValues(string(StageDecisions)).Inc()
		perChunk := fetchOrdered(ctx, len(chunks), p.cfg.ChunkConcurrency, func(ctx context.Context, i int) []entities.Decision {
			return runner.decisions(ctx, chunks[i], pc.forChunk(i))
		})
		for _, extra := range perChunk {
			merged.Decisions = MergeDecisions(merged.Decisions, extra, p.cfg.Merge.DecisionPrefixLen)
		}
	}

	if len(chunks) > 0 && len(merged.Questions) < p.cfg.MinQuestions {
		progress.report(StageQuestions, progressQuestions)
		p.metrics.SupplementaryRunsTotal.WithLabelValues(string(StageQuestions)).Inc()
		perChunk := fetchOrdered(ctx, len(chunks), p.cfg.ChunkConcurrency, func(ctx context.Context, i int) []entities.Question {
			return runner.questions(ctx, chunks[i], pc.forChunk(i))
		})
		for _, extra := range perChunk {
			merged.Questions = MergeQuestions(merged.Questions, extra, p.cfg.Merge.QuestionPrefixLen)
		}
	}

	// Tasks
	progress.report(StageTasks, progressTasks)
	taskExtractorFailed := false
	extracted := []entities.ExtractedTask{}
	if len(chunks) > 0 {
		extractor := p.taskExtractor
		if extractor == nil {
			extractor = NewLLMTaskExtractor(provider,
				WithExtractorChunkThreshold(p.cfg.ChunkThreshold),
				WithExtractorTimeout(p.cfg.StageTimeout),
				WithExtractorLogger(p.logger),
			)
		}
		found, err := extractor.ExtractTasks(ctx, text, project)
		if err != nil {
			taskExtractorFailed = true
			if p.logger != nil {
				p.logger.Warn("⚠️ Task extraction failed, using derived tasks only", zap.Error(err))
			}
		}
		if found != nil {
			extracted = found
		}
	}

	raws := make([]string, 0, len(partials))
	for _, partial := range partials {
		raws = append(raws, partial.Raw)
	}
	tasks := BuildTaskList(TaskSources{
		Extracted:    extracted,
		Decisions:    merged.Decisions,
		Questions:    merged.Questions,
		RawSummaries: raws,
		ActionItems:  merged.ActionItems,
	}, p.cfg.TaskPrefixLen)

	// Semantic dedup
	progress.report(StageDedup, progressDedup)
	before := len(tasks)
	tasks = p.dedup.Deduplicate(tasks)
	p.metrics.TasksDroppedTotal.WithLabelValues("cluster").Add(float64(before - len(tasks)))

	summary := merged.toSummary()
	summary.GeneratedAt = time.Now().UTC()

	result := &Result{
		Summary:          summary,
		Tasks:            tasks,
		ProcessingTimeMs: time.Since(started).Milliseconds(),
		Diagnostics: Diagnostics{
			ChunkCount:          len(chunks),
			Stages:              diag.snapshot(),
			TaskExtractorFailed: taskExtractorFailed,
		},
	}
	p.metrics.PipelineRunSeconds.Observe(time.Since(started).Seconds())
	progress.report(StageDone, progressDone)

	if p.logger != nil {
		p.logger.Info("✅ Transcript extraction finished",
			zap.String("meeting_id", meeting.ID),
			zap.Int("decisions", len(summary.Decisions)),
			zap.Int("questions", len(summary.Questions)),
			zap.Int("tasks", len(tasks)),
			zap.Int("parse_failures", result.Diagnostics.ParseFailures()),
			zap.Int("provider_failures", result.Diagnostics.ProviderFailures()),
			zap.Int64("processing_time_ms", result.ProcessingTimeMs),
		)
	}

	return result, nil
}

func (pc PromptContext) forChunk(i int) PromptContext {
	pc.ChunkIndex = i
	return pc
}

// fetchOrdered runs fn for every index and returns results in index order,
// whatever the completion order. concurrency <= 1 runs sequentially.
func fetchOrdered[T any](ctx context.Context, n, concurrency int, fn func(ctx context.Context, i int) T) []T {
	results := make([]T, n)
	if concurrency <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			results[i] = fn(ctx, i)
		}
		return results
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			results[i] = fn(gctx, i)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// progressReporter guarantees a non-decreasing fraction
type progressReporter struct {
	mu   sync.Mutex
	fn   ProgressFunc
	last float64
}

func newProgressReporter(fn ProgressFunc) *progressReporter {
	return &progressReporter{fn: fn}
}

func (r *progressReporter) report(stage Stage, fraction float64) {
	if r.fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if fraction < r.last {
		fraction = r.last
	}
	r.last = fraction
	r.fn(stage, fraction)
}

// TranscriptText renders the transcript for prompting. With speaker ids the
// segments become "[MM:SS Name]: text" lines, otherwise the plain full text is used.
func TranscriptText(t *entities.Transcript, speakers []entities.Speaker) string {
	if t == nil {
		return ""
	}
	if !t.HasSpeakers() {
		return t.FullText
	}

	names := speakerNames(speakers)
	var b strings.Builder
	for _, s := range t.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		name := names[s.SpeakerID]
		if name == "" {
			name = s.SpeakerID
		}
		if name == "" {
			name = "Unknown"
		}
		secs := int(s.Start)
		fmt.Fprintf(&b, "[%02d:%02d %s]: %s\n", secs/60, secs%60, name, text)
	}
	return b.String()
}

// Participants lists the speakers heard in the transcript, in order of first
// appearance. Without speaker ids every known speaker is listed.
func Participants(t *entities.Transcript, speakers []entities.Speaker) []string {
	names := speakerNames(speakers)
	var out []string
	seen := make(map[string]struct{})
	if t != nil {
		for _, s := range t.Segments {
			if s.SpeakerID == "" {
				continue
			}
			if _, dup := seen[s.SpeakerID]; dup {
				continue
			}
			seen[s.SpeakerID] = struct{}{}
			name := names[s.SpeakerID]
			if name == "" {
				name = s.SpeakerID
			}
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		for _, sp := range speakers {
			if sp.Name != "" {
				out = append(out, sp.Name)
			}
		}
	}
	return out
}

func speakerNames(speakers []entities.Speaker) map[string]string {
	names := make(map[string]string, len(speakers))
	for _, sp := range speakers {
		names[sp.ID] = sp.Name
	}
	return names
}
