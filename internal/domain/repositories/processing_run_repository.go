package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
)

// ProcessingRunRepository defines persistence for pipeline runs
type ProcessingRunRepository interface {
	// Create stores a finished run
	Create(ctx context.Context, run *entities.ProcessingRun) error

	// GetByID returns nil, nil when the run does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ProcessingRun, error)

	// ListByMeeting returns the runs of a meeting, newest first
	ListByMeeting(ctx context.Context, meetingID string, limit int) ([]*entities.ProcessingRun, error)

	// FindLatestByCacheKey returns the newest run for the same input, or nil
	FindLatestByCacheKey(ctx context.Context, cacheKey string) (*entities.ProcessingRun, error)

	// SetArchiveObject records where the run's full result was archived
	SetArchiveObject(ctx context.Context, id uuid.UUID, object string) error
}
