package repository

import (
	"context"

	"gorm.io/gorm"

	"mall-site-backend/internal/models"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns events by start date; activeOnly hides drafts from the public site.
func (r *EventRepository) List(ctx context.Context, activeOnly bool) ([]models.Event, error) {
	var events []models.Event
	query := r.db.WithContext(ctx).Order("starts_at ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var ev models.Event
	if err := r.db.WithContext(ctx).First(&ev, id).Error; err != nil {
		return nil, translateError(err, "event")
	}
	return &ev, nil
}

func (r *EventRepository) Create(ctx context.Context, ev *models.Event) error {
	return translateError(r.db.WithContext(ctx).Create(ev).Error, "event")
}

func (r *EventRepository) Update(ctx context.Context, ev *models.Event) error {
	return translateError(r.db.WithContext(ctx).Save(ev).Error, "event")
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Event{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "event")
	}
	return nil
}
