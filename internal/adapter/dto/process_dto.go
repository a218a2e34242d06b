package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/internal/usecase/ai"
)

// ProcessMeetingRequest is the body of POST /v1/meetings/process and the input file of the CLI
type ProcessMeetingRequest struct {
	Meeting   MeetingDTO         `json:"meeting" validate:"required"`
	Segments  []SegmentDTO       `json:"segments" validate:"omitempty,dive"`
	Speakers  []SpeakerDTO       `json:"speakers" validate:"omitempty,dive"`
	Settings  *SettingsDTO       `json:"settings,omitempty"`
	Project   *ProjectContextDTO `json:"project,omitempty"`
	SkipCache bool               `json:"skip_cache"`
}

// MeetingDTO describes the meeting. Text is used when no segments are sent.
type MeetingDTO struct {
	ID        string     `json:"id" validate:"required,max=255"`
	Title     string     `json:"title" validate:"max=500"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	Text      string     `json:"text,omitempty"`
}

// SegmentDTO is one transcript segment, times in seconds
type SegmentDTO struct {
	Start     float64 `json:"start" validate:"gte=0"`
	End       float64 `json:"end" validate:"gtefield=Start"`
	SpeakerID string  `json:"speaker_id,omitempty" validate:"max=255"`
	Text      string  `json:"text"`
}

// SpeakerDTO names a speaker id
type SpeakerDTO struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

// SettingsDTO overrides the server's provider settings for one run
type SettingsDTO struct {
	Provider string `json:"provider,omitempty" validate:"omitempty,provider"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty" validate:"omitempty,url"`
	Language string `json:"language,omitempty" validate:"max=32"`
}

// ProjectContextDTO lists repository files relevant to the meeting
type ProjectContextDTO struct {
	ProjectName string             `json:"project_name"`
	Files       []FileReferenceDTO `json:"files" validate:"omitempty,dive"`
}

// FileReferenceDTO is one relevant file
type FileReferenceDTO struct {
	Path   string `json:"path" validate:"required"`
	Reason string `json:"reason,omitempty"`
}

// ImportTranscriptRequest is the body of POST /v1/transcripts/assemblyai/:id/process
type ImportTranscriptRequest struct {
	Title     string             `json:"title" validate:"max=500"`
	Settings  *SettingsDTO       `json:"settings,omitempty"`
	Project   *ProjectContextDTO `json:"project,omitempty"`
	SkipCache bool               `json:"skip_cache"`
}

// ToMeeting builds the meeting entity
func (r *ProcessMeetingRequest) ToMeeting() *entities.Meeting {
	segments := make([]entities.Segment, 0, len(r.Segments))
	for _, s := range r.Segments {
		segments = append(segments, entities.Segment{
			Start:     s.Start,
			End:       s.End,
			SpeakerID: s.SpeakerID,
			Text:      s.Text,
		})
	}
	if len(segments) == 0 && strings.TrimSpace(r.Meeting.Text) != "" {
		segments = append(segments, entities.Segment{Text: r.Meeting.Text})
	}

	meeting := &entities.Meeting{
		ID:         r.Meeting.ID,
		Title:      r.Meeting.Title,
		Transcript: entities.NewTranscript(segments),
	}
	if r.Meeting.StartedAt != nil {
		meeting.StartedAt = r.Meeting.StartedAt.UTC()
	}
	return meeting
}

// ToSpeakers converts the speaker list
func (r *ProcessMeetingRequest) ToSpeakers() []entities.Speaker {
	if len(r.Speakers) == 0 {
		return nil
	}
	speakers := make([]entities.Speaker, 0, len(r.Speakers))
	for _, s := range r.Speakers {
		speakers = append(speakers, entities.Speaker{ID: s.ID, Name: s.Name})
	}
	return speakers
}

// ToSettings converts the settings. Nil means server defaults.
func (s *SettingsDTO) ToSettings() entities.Settings {
	if s == nil {
		return entities.Settings{}
	}
	return entities.Settings{
		Provider: s.Provider,
		Model:    s.Model,
		APIKey:   s.APIKey,
		BaseURL:  s.BaseURL,
		Language: s.Language,
	}
}

// ToProject converts the project context
func (p *ProjectContextDTO) ToProject() *entities.ProjectContext {
	if p == nil {
		return nil
	}
	files := make([]entities.FileReference, 0, len(p.Files))
	for _, f := range p.Files {
		files = append(files, entities.FileReference{Path: f.Path, Reason: f.Reason})
	}
	return &entities.ProjectContext{ProjectName: p.ProjectName, Files: files}
}

// ProcessMeetingResponse is returned by the processing endpoints
type ProcessMeetingResponse struct {
	RunID            uuid.UUID                `json:"run_id"`
	MeetingID        string                   `json:"meeting_id"`
	Provider         string                   `json:"provider"`
	Model            string                   `json:"model,omitempty"`
	Summary          entities.MeetingSummary  `json:"summary"`
	Tasks            []entities.ExtractedTask `json:"tasks"`
	ProcessingTimeMs int64                    `json:"processing_time_ms"`
	Diagnostics      ai.Diagnostics           `json:"diagnostics"`
	ArchiveObject    string                   `json:"archive_object,omitempty"`
}

// NewProcessMeetingResponse combines a pipeline result with its run record
func NewProcessMeetingResponse(result *ai.Result, run *entities.ProcessingRun) ProcessMeetingResponse {
	resp := ProcessMeetingResponse{
		Summary:          result.Summary,
		Tasks:            result.Tasks,
		ProcessingTimeMs: result.ProcessingTimeMs,
		Diagnostics:      result.Diagnostics,
	}
	if resp.Tasks == nil {
		resp.Tasks = []entities.ExtractedTask{}
	}
	if run != nil {
		resp.RunID = run.ID
		resp.MeetingID = run.MeetingID
		resp.Provider = run.Provider
		resp.Model = run.Model
		resp.ArchiveObject = run.ArchiveObject
	}
	return resp
}

// RunResponse is a stored processing run
type RunResponse struct {
	ID               uuid.UUID                `json:"id"`
	MeetingID        string                   `json:"meeting_id"`
	Title            string                   `json:"title"`
	Provider         string                   `json:"provider"`
	Model            string                   `json:"model,omitempty"`
	Source           string                   `json:"source"`
	Summary          entities.MeetingSummary  `json:"summary"`
	Tasks            []entities.ExtractedTask `json:"tasks"`
	ChunkCount       int                      `json:"chunk_count"`
	ParseFailures    int                      `json:"parse_failures"`
	ProviderFailures int                      `json:"provider_failures"`
	ProcessingTimeMs int64                    `json:"processing_time_ms"`
	ArchiveObject    string                   `json:"archive_object,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
}

// NewRunResponse converts a stored run
func NewRunResponse(run *entities.ProcessingRun) RunResponse {
	tasks := run.Tasks.Data()
	if tasks == nil {
		tasks = []entities.ExtractedTask{}
	}
	return RunResponse{
		ID:               run.ID,
		MeetingID:        run.MeetingID,
		Title:            run.Title,
		Provider:         run.Provider,
		Model:            run.Model,
		Source:           run.Source,
		Summary:          run.Summary.Data(),
		Tasks:            tasks,
		ChunkCount:       run.ChunkCount,
		ParseFailures:    run.ParseFailures,
		ProviderFailures: run.ProviderFailures,
		ProcessingTimeMs: run.ProcessingTimeMs,
		ArchiveObject:    run.ArchiveObject,
		CreatedAt:        run.CreatedAt,
	}
}

// NewRunResponses converts a list of stored runs
func NewRunResponses(runs []*entities.ProcessingRun) []RunResponse {
	out := make([]RunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, NewRunResponse(r))
	}
	return out
}
