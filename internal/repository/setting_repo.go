package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mall-site-backend/internal/models"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) List(ctx context.Context) ([]models.SiteSetting, error) {
	var settings []models.SiteSetting
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *SettingRepository) Get(ctx context.Context, key string) (*models.SiteSetting, error) {
	var s models.SiteSetting
	if err := r.db.WithContext(ctx).First(&s, "key = ?", key).Error; err != nil {
		return nil, translateError(err, "setting "+key)
	}
	return &s, nil
}

// Put upserts the value stored under key.
func (r *SettingRepository) Put(ctx context.Context, key string, value datatypes.JSON) (*models.SiteSetting, error) {
	s := &models.SiteSetting{Key: key, Value: value, UpdatedAt: time.Now()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(s).Error
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SettingRepository) Delete(ctx context.Context, key string) error {
	res := r.db.WithContext(ctx).Delete(&models.SiteSetting{}, "key = ?", key)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "setting "+key)
	}
	return nil
}
