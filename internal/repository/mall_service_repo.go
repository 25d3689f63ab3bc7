package repository

import (
	"context"

	"gorm.io/gorm"

	"mall-site-backend/internal/models"
)

type MallServiceRepository struct {
	db *gorm.DB
}

func NewMallServiceRepository(db *gorm.DB) *MallServiceRepository {
	return &MallServiceRepository{db: db}
}

func (r *MallServiceRepository) List(ctx context.Context) ([]models.MallService, error) {
	var services []models.MallService
	if err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *MallServiceRepository) GetByID(ctx context.Context, id uint) (*models.MallService, error) {
	var svc models.MallService
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, translateError(err, "service")
	}
	return &svc, nil
}

func (r *MallServiceRepository) Create(ctx context.Context, svc *models.MallService) error {
	return translateError(r.db.WithContext(ctx).Create(svc).Error, "service")
}

func (r *MallServiceRepository) Update(ctx context.Context, svc *models.MallService) error {
	return translateError(r.db.WithContext(ctx).Save(svc).Error, "service")
}

func (r *MallServiceRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.MallService{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound, "service")
	}
	return nil
}
