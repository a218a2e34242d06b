package meeting

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/usecase/ai"
)

// Service defines the interface for the meeting processing use case
type Service interface {
	// Process runs the extraction pipeline and stores the outcome
	Process(ctx context.Context, input ProcessInput) (*ai.Result, *entities.ProcessingRun, error)

	// ImportAndProcess fetches an AssemblyAI transcript and processes it
	ImportAndProcess(ctx context.Context, input ImportInput) (*ai.Result, *entities.ProcessingRun, error)

	// GetRun loads a stored run
	GetRun(ctx context.Context, runID uuid.UUID) (*entities.ProcessingRun, error)

	// ListRuns lists the stored runs of a meeting, newest first
	ListRuns(ctx context.Context, meetingID string, limit int) ([]*entities.ProcessingRun, error)

	// ResolveSettings fills settings missing from a request with the server defaults
	ResolveSettings(requested entities.Settings) entities.Settings
}

// Ensure MeetingService implements Service interface
var _ Service = (*MeetingService)(nil)

// ProcessInput is one processing request
type ProcessInput struct {
	Meeting    *entities.Meeting
	Speakers   []entities.Speaker
	Settings   entities.Settings
	Project    *entities.ProjectContext
	Source     string
	OnProgress ai.ProgressFunc
	// SkipCache forces a fresh run even when an identical one is cached
	SkipCache bool
}

// ImportInput is one import-and-process request
type ImportInput struct {
	TranscriptID string
	Title        string
	Settings     entities.Settings
	Project      *entities.ProjectContext
	OnProgress   ai.ProgressFunc
	SkipCache    bool
}

// Extractor is the part of the pipeline the service drives
type Extractor interface {
	ProcessTranscript(
		ctx context.Context,
		meeting *entities.Meeting,
		speakers []entities.Speaker,
		settings entities.Settings,
		onProgress ai.ProgressFunc,
		project *entities.ProjectContext,
	) (*ai.Result, error)
}

// Archive stores full run results outside the database
type Archive interface {
	Put(ctx context.Context, run *entities.ProcessingRun, result any) (string, error)
}

// Importer loads transcripts from an external transcription service
type Importer interface {
	Import(ctx context.Context, transcriptID string) (*entities.Meeting, []entities.Speaker, error)
}
