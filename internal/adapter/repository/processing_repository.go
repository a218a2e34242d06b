package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	repo "github.com/johnquangdev/meeting-insights/internal/domain/repositories"
)

const defaultListLimit = 50

type processingRunRepository struct {
	db *gorm.DB
}

// NewProcessingRunRepository creates a new run repository backed by GORM
func NewProcessingRunRepository(db *gorm.DB) repo.ProcessingRunRepository {
	return &processingRunRepository{db: db}
}

func (r *processingRunRepository) Create(ctx context.Context, run *entities.ProcessingRun) error {
	if run == nil {
		return errors.New("run cannot be nil")
	}
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *processingRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ProcessingRun, error) {
	var run entities.ProcessingRun
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

func (r *processingRunRepository) ListByMeeting(ctx context.Context, meetingID string, limit int) ([]*entities.ProcessingRun, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var runs []*entities.ProcessingRun
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *processingRunRepository) FindLatestByCacheKey(ctx context.Context, cacheKey string) (*entities.ProcessingRun, error) {
	var run entities.ProcessingRun
	if err := r.db.WithContext(ctx).
		Where("cache_key = ?", cacheKey).
		Order("created_at DESC").
		First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

func (r *processingRunRepository) SetArchiveObject(ctx context.Context, id uuid.UUID, object string) error {
	return r.db.WithContext(ctx).
		Model(&entities.ProcessingRun{}).
		Where("id = ?", id).
		Update("archive_object", object).Error
}
