package repository

import (
	"context"

	"gorm.io/gorm"

	"mall-site-backend/internal/models"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByIDs keeps the order of ids; unknown ids are reported as not found.
func (r *CategoryRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	var found []models.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Category, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	out := make([]models.Category, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return nil, translateError(gorm.ErrRecordNotFound, "category")
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	return translateError(r.db.WithContext(ctx).Create(c).Error, "category")
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	return translateError(r.db.WithContext(ctx).Save(c).Error, "category")
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.StoreCategory{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return translateError(gorm.ErrRecordNotFound, "category")
		}
		return nil
	})
}
