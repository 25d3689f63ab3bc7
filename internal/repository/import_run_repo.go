package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mall-site-backend/internal/models"
)

type ImportRunRepository struct {
	db *gorm.DB
}

func NewImportRunRepository(db *gorm.DB) *ImportRunRepository {
	return &ImportRunRepository{db: db}
}

// Start creates a run in processing state.
func (r *ImportRunRepository) Start(ctx context.Context, kind, filename string, total int) (*models.ImportRun, error) {
	now := time.Now()
	run := &models.ImportRun{
		ID:        uuid.New(),
		Kind:      kind,
		Filename:  filename,
		Total:     total,
		Status:    models.RunStatusProcessing,
		StartedAt: now,
		CreatedAt: now,
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *ImportRunRepository) Get(ctx context.Context, id uuid.UUID) (*models.ImportRun, error) {
	var run models.ImportRun
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "run")
	}
	return &run, nil
}

// Complete stores the final counters and marks the run completed.
func (r *ImportRunRepository) Complete(ctx context.Context, run *models.ImportRun) error {
	now := time.Now()
	run.Status = models.RunStatusCompleted
	run.CompletedAt = &now
	return r.db.WithContext(ctx).Model(&models.ImportRun{}).
		Where("id = ?", run.ID).
		Updates(map[string]interface{}{
			"processed_count": run.ProcessedCount,
			"succeeded_count": run.SucceededCount,
			"failed_count":    run.FailedCount,
			"skipped_count":   run.SkippedCount,
			"status":          run.Status,
			"completed_at":    now,
		}).Error
}

func (r *ImportRunRepository) LogLogoChange(ctx context.Context, entry *models.LogoAuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ImportRunRepository) LogoHistory(ctx context.Context, storeID uint) ([]models.LogoAuditLog, error) {
	var logs []models.LogoAuditLog
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
