package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProcessingRun is the stored record of one pipeline run
type ProcessingRun struct {
	ID               uuid.UUID                           `json:"id" gorm:"type:uuid;primary_key"`
	MeetingID        string                              `json:"meeting_id" gorm:"type:varchar(255);not null;index"`
	Title            string                              `json:"title" gorm:"type:varchar(500)"`
	Provider         string                              `json:"provider" gorm:"type:varchar(50)"`
	Model            string                              `json:"model" gorm:"type:varchar(255)"`
	Source           string                              `json:"source" gorm:"type:varchar(50)"`
	Summary          datatypes.JSONType[MeetingSummary]  `json:"summary" gorm:"type:jsonb"`
	Tasks            datatypes.JSONType[[]ExtractedTask] `json:"tasks" gorm:"type:jsonb"`
	ChunkCount       int                                 `json:"chunk_count"`
	ParseFailures    int                                 `json:"parse_failures"`
	ProviderFailures int                                 `json:"provider_failures"`
	ProcessingTimeMs int64                               `json:"processing_time_ms"`
	CacheKey         string                              `json:"-" gorm:"type:varchar(64);index"`
	ArchiveObject    string                              `json:"archive_object,omitempty" gorm:"type:varchar(500)"`
	CreatedAt        time.Time                           `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (ProcessingRun) TableName() string {
	return "processing_runs"
}

// NewProcessingRun creates a new run record for a meeting
func NewProcessingRun(meetingID, title, provider, model string) *ProcessingRun {
	return &ProcessingRun{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Title:     title,
		Provider:  provider,
		Model:     model,
		CreatedAt: time.Now().UTC(),
	}
}
