package meeting

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/domain/repositories"
	"github.com/johnquangdev/meeting-insights/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-insights/internal/usecase/ai"
	usecaseErrors "github.com/johnquangdev/meeting-insights/internal/usecase/errors"
	"github.com/johnquangdev/meeting-insights/pkg/config"
	"github.com/johnquangdev/meeting-insights/pkg/jobcontext"
)

// MeetingService implements Service
type MeetingService struct {
	extractor Extractor
	cfg       *config.Config
	runs      repositories.ProcessingRunRepository
	cache     cache.Store
	cacheTTL  time.Duration
	archive   Archive
	importer  Importer
	logger    *zap.Logger
}

// Option configures a MeetingService
type Option func(*MeetingService)

// WithRepository enables run persistence
func WithRepository(runs repositories.ProcessingRunRepository) Option {
	return func(s *MeetingService) { s.runs = runs }
}

// WithCache enables the result cache
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(s *MeetingService) {
		s.cache = store
		s.cacheTTL = ttl
	}
}

// WithArchive enables result archiving
func WithArchive(archive Archive) Option {
	return func(s *MeetingService) { s.archive = archive }
}

// WithImporter enables AssemblyAI imports
func WithImporter(importer Importer) Option {
	return func(s *MeetingService) { s.importer = importer }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *MeetingService) { s.logger = logger }
}

// NewMeetingService creates a new meeting service. Persistence, cache, archive
// and import are optional.
func NewMeetingService(extractor Extractor, cfg *config.Config, opts ...Option) *MeetingService {
	s := &MeetingService{extractor: extractor, cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// cachedRun is the cache payload
type cachedRun struct {
	Run    *entities.ProcessingRun `json:"run"`
	Result *ai.Result              `json:"result"`
}

// ResolveSettings fills what the request left empty with the server configuration
func (s *MeetingService) ResolveSettings(requested entities.Settings) entities.Settings {
	resolved := requested
	resolved.Provider = strings.ToLower(strings.TrimSpace(requested.Provider))
	if s.cfg == nil {
		return resolved
	}

	if resolved.Provider == "" {
		resolved.Provider = strings.ToLower(s.cfg.AI.Provider)
	}
	if resolved.Model == "" && strings.EqualFold(resolved.Provider, s.cfg.AI.Provider) {
		resolved.Model = s.cfg.AI.Model
	}
	if resolved.APIKey == "" {
		resolved.APIKey = s.cfg.APIKeyFor(resolved.Provider)
	}
	if resolved.BaseURL == "" {
		resolved.BaseURL = s.cfg.BaseURLFor(resolved.Provider)
	}
	if resolved.Language == "" {
		resolved.Language = s.cfg.AI.Language
	}
	return resolved
}

// Process runs the pipeline, then persists, archives and caches the outcome.
// Only pipeline errors fail the call.
func (s *MeetingService) Process(ctx context.Context, input ProcessInput) (*ai.Result, *entities.ProcessingRun, error) {
	if input.Meeting == nil {
		return nil, nil, errors.ErrInvalidArgument("meeting is required")
	}
	if input.Source == "" {
		input.Source = jobcontext.SourceAPI
	}

	settings := s.ResolveSettings(input.Settings)
	run := entities.NewProcessingRun(input.Meeting.ID, input.Meeting.Title, settings.Provider, settings.Model)
	run.Source = input.Source
	run.CacheKey = CacheKey(input.Meeting, input.Speakers, settings, input.Project)

	ctx, cancel := jobcontext.RunBegin(ctx, run.ID, input.Meeting.ID, input.Source, 0)
	defer cancel()

	if !input.SkipCache {
		if hit := s.lookup(ctx, run.CacheKey); hit != nil {
			if input.OnProgress != nil {
				input.OnProgress(ai.StageDone, 1.0)
			}
			return hit.Result, hit.Run, nil
		}
	}

	if s.logger != nil {
		s.logger.Info("🚀 Processing meeting",
			append(jobcontext.LogFields(ctx),
				zap.String("provider", settings.Provider),
				zap.String("model", settings.Model))...)
	}

	result, err := s.extractor.ProcessTranscript(ctx, input.Meeting, input.Speakers, settings, input.OnProgress, input.Project)
	if err != nil {
		var appErr errors.AppError
		if !stdErrors.As(err, &appErr) {
			err = errors.ErrProcessingFailed(err)
		}
		return nil, nil, err
	}

	fillRun(run, result)
	s.persist(ctx, run)
	s.archiveRun(ctx, run, result)
	s.store(ctx, run, result)

	if s.logger != nil {
		s.logger.Info("✅ Meeting processed",
			append(jobcontext.LogFields(ctx),
				zap.Int("tasks", len(result.Tasks)),
				zap.Int("decisions", len(result.Summary.Decisions)),
				zap.Int64("processing_time_ms", result.ProcessingTimeMs))...)
	}
	return result, run, nil
}

// ImportAndProcess imports a completed AssemblyAI transcript and processes it
func (s *MeetingService) ImportAndProcess(ctx context.Context, input ImportInput) (*ai.Result, *entities.ProcessingRun, error) {
	if s.importer == nil {
		appErr := errors.ErrAIServiceUnavailable("AssemblyAI import")
		appErr.Raw = usecaseErrors.ErrImporterNotConfigured
		return nil, nil, appErr
	}

	meeting, speakers, err := s.importer.Import(ctx, input.TranscriptID)
	if err != nil {
		return nil, nil, err
	}
	if input.Title != "" {
		meeting.Title = input.Title
	}

	return s.Process(ctx, ProcessInput{
		Meeting:    meeting,
		Speakers:   speakers,
		Settings:   input.Settings,
		Project:    input.Project,
		Source:     jobcontext.SourceAssemblyAI,
		OnProgress: input.OnProgress,
		SkipCache:  input.SkipCache,
	})
}

// GetRun loads a stored run
func (s *MeetingService) GetRun(ctx context.Context, runID uuid.UUID) (*entities.ProcessingRun, error) {
	if s.runs == nil {
		return nil, errors.ErrAIServiceUnavailable("run storage")
	}

	run, err := s.runs.GetByID(ctx, runID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("get processing run", err)
	}
	if run == nil {
		appErr := errors.ErrNotFound("Processing run")
		appErr.Raw = usecaseErrors.ErrResultNotFound
		return nil, appErr
	}
	return run, nil
}

// ListRuns lists the stored runs of a meeting
func (s *MeetingService) ListRuns(ctx context.Context, meetingID string, limit int) ([]*entities.ProcessingRun, error) {
	if strings.TrimSpace(meetingID) == "" {
		return nil, errors.ErrInvalidArgument("meeting id is required")
	}
	if s.runs == nil {
		return nil, errors.ErrAIServiceUnavailable("run storage")
	}

	runs, err := s.runs.ListByMeeting(ctx, meetingID, limit)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("list processing runs", err)
	}
	if runs == nil {
		runs = []*entities.ProcessingRun{}
	}
	return runs, nil
}

// CacheKey identifies a run input: meeting, provider, model, language, project
// and the transcript text the prompts are built from
func CacheKey(meeting *entities.Meeting, speakers []entities.Speaker, settings entities.Settings, project *entities.ProjectContext) string {
	h := sha256.New()
	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}

	write(meeting.ID)
	write(strings.ToLower(settings.Provider))
	write(settings.Model)
	write(settings.Language)
	if project != nil {
		write(project.ProjectName)
		for _, f := range project.Files {
			write(f.Path)
		}
	}
	write(ai.TranscriptText(meeting.Transcript, speakers))

	return hex.EncodeToString(h.Sum(nil))
}

func fillRun(run *entities.ProcessingRun, result *ai.Result) {
	run.Summary = datatypes.NewJSONType(result.Summary)
	run.Tasks = datatypes.NewJSONType(result.Tasks)
	run.ChunkCount = result.Diagnostics.ChunkCount
	run.ParseFailures = result.Diagnostics.ParseFailures()
	run.ProviderFailures = result.Diagnostics.ProviderFailures()
	run.ProcessingTimeMs = result.ProcessingTimeMs
}

func (s *MeetingService) lookup(ctx context.Context, key string) *cachedRun {
	if s.cache == nil {
		return nil
	}

	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Result cache lookup failed", append(jobcontext.LogFields(ctx), zap.Error(err))...)
		}
		return nil
	}
	if !ok {
		return nil
	}

	var hit cachedRun
	if err := json.Unmarshal(data, &hit); err != nil || hit.Result == nil || hit.Run == nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Dropping unreadable cache entry", jobcontext.LogFields(ctx)...)
		}
		_ = s.cache.Delete(ctx, key)
		return nil
	}

	if s.logger != nil {
		s.logger.Info("♻️ Serving cached result",
			append(jobcontext.LogFields(ctx), zap.String("cached_run_id", hit.Run.ID.String()))...)
	}
	return &hit
}

func (s *MeetingService) persist(ctx context.Context, run *entities.ProcessingRun) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Create(ctx, run); err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to persist processing run", append(jobcontext.LogFields(ctx), zap.Error(err))...)
		}
		return
	}
	if s.logger != nil {
		s.logger.Debug("💾 Processing run stored", jobcontext.LogFields(ctx)...)
	}
}

func (s *MeetingService) archiveRun(ctx context.Context, run *entities.ProcessingRun, result *ai.Result) {
	if s.archive == nil {
		return
	}

	object, err := s.archive.Put(ctx, run, result)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Failed to archive result", append(jobcontext.LogFields(ctx), zap.Error(err))...)
		}
		return
	}
	run.ArchiveObject = object

	if s.runs == nil {
		return
	}
	if err := s.runs.SetArchiveObject(ctx, run.ID, object); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to record archive object",
			append(jobcontext.LogFields(ctx), zap.String("object", object), zap.Error(err))...)
	}
}

func (s *MeetingService) store(ctx context.Context, run *entities.ProcessingRun, result *ai.Result) {
	if s.cache == nil {
		return
	}
	// a degraded run is not cached, so a retry reaches the provider again
	if result.Diagnostics.Degraded() {
		if s.logger != nil {
			s.logger.Info("♻️ Skipping cache for degraded result",
				append(jobcontext.LogFields(ctx),
					zap.Int("provider_failures", result.Diagnostics.ProviderFailures()),
					zap.Int("timed_out_calls", result.Diagnostics.TimedOutCalls()))...)
		}
		return
	}

	data, err := json.Marshal(cachedRun{Run: run, Result: result})
	if err == nil {
		err = s.cache.Set(ctx, run.CacheKey, data, s.cacheTTL)
	}
	if err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Failed to cache result", append(jobcontext.LogFields(ctx), zap.Error(err))...)
	}
}
