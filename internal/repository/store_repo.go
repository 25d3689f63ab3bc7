package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mall-site-backend/internal/models"
)

type StoreRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// Create inserts a store. A slug collision comes back as apperr.ErrAlreadyExists.
func (r *StoreRepository) Create(ctx context.Context, store *models.Store) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(store).Error
	return translateError(err, "store")
}

func (r *StoreRepository) Update(ctx context.Context, store *models.Store) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(store).Error
	return translateError(err, "store")
}

func (r *StoreRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", id).Delete(&models.StoreCategory{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Store{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return translateError(gorm.ErrRecordNotFound, "store")
		}
		return nil
	})
}

func (r *StoreRepository) GetByID(ctx context.Context, id uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Preload("Categories").First(&store, id).Error; err != nil {
		return nil, translateError(err, "store")
	}
	return &store, nil
}

func (r *StoreRepository) GetBySlug(ctx context.Context, slug string) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Preload("Categories").First(&store, "slug = ?", slug).Error; err != nil {
		return nil, translateError(err, "store")
	}
	return &store, nil
}

// List returns every store ordered by name; kind filters when non-empty.
func (r *StoreRepository) List(ctx context.Context, kind string) ([]models.Store, error) {
	var stores []models.Store
	query := r.db.WithContext(ctx).Preload("Categories").Order("name ASC")
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if err := query.Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// SetLogoURL writes the logo reference and returns the previous value.
func (r *StoreRepository) SetLogoURL(ctx context.Context, id uint, url string) (string, error) {
	var store models.Store
	db := r.db.WithContext(ctx)
	if err := db.Select("id", "logo_url").First(&store, id).Error; err != nil {
		return "", translateError(err, "store")
	}
	if err := db.Model(&models.Store{}).Where("id = ?", id).Update("logo_url", url).Error; err != nil {
		return "", err
	}
	return store.LogoURL, nil
}

// LinkCategory inserts one join row; an existing link is left untouched.
func (r *StoreRepository) LinkCategory(ctx context.Context, storeID, categoryID uint) error {
	link := models.StoreCategory{StoreID: storeID, CategoryID: categoryID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

// ReplaceCategories deletes every link of the store and inserts categoryIDs.
func (r *StoreRepository) ReplaceCategories(ctx context.Context, storeID uint, categoryIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", storeID).Delete(&models.StoreCategory{}).Error; err != nil {
			return err
		}
		if len(categoryIDs) == 0 {
			return nil
		}
		links := make([]models.StoreCategory, 0, len(categoryIDs))
		seen := make(map[uint]bool, len(categoryIDs))
		for _, id := range categoryIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			links = append(links, models.StoreCategory{StoreID: storeID, CategoryID: id})
		}
		return tx.Create(&links).Error
	})
}
