package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall-site-backend/internal/apperr"
	"mall-site-backend/internal/models"
)

func TestStoreCreateDuplicateSlugIsAlreadyExists(t *testing.T) {
	ctx := context.Background()
	repo := NewStoreRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &models.Store{Name: "Zara", Slug: "zara", Kind: models.StoreKindStore}))
	err := repo.Create(ctx, &models.Store{Name: "ZARA", Slug: "zara", Kind: models.StoreKindStore})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)
}

func TestStoreGetMissingIsNotFound(t *testing.T) {
	repo := NewStoreRepository(newTestDB(t))
	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), 42), apperr.ErrNotFound)
}

func TestStoreReplaceCategoriesIsReplaceAll(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	stores := NewStoreRepository(db)
	cats := NewCategoryRepository(db)

	giyim := &models.Category{Name: "Giyim", Slug: "giyim"}
	ayakkabi := &models.Category{Name: "Ayakkabı", Slug: "ayakkabi"}
	teknoloji := &models.Category{Name: "Teknoloji", Slug: "teknoloji"}
	for _, c := range []*models.Category{giyim, ayakkabi, teknoloji} {
		require.NoError(t, cats.Create(ctx, c))
	}
	store := &models.Store{Name: "Mavi", Slug: "mavi", Kind: models.StoreKindStore}
	require.NoError(t, stores.Create(ctx, store))

	require.NoError(t, stores.ReplaceCategories(ctx, store.ID, []uint{giyim.ID, ayakkabi.ID}))
	require.NoError(t, stores.ReplaceCategories(ctx, store.ID, []uint{teknoloji.ID, teknoloji.ID}))

	var links []models.StoreCategory
	require.NoError(t, db.Where("store_id = ?", store.ID).Find(&links).Error)
	require.Len(t, links, 1)
	assert.Equal(t, teknoloji.ID, links[0].CategoryID)

	loaded, err := stores.GetBySlug(ctx, "mavi")
	require.NoError(t, err)
	require.Len(t, loaded.Categories, 1)
	assert.Equal(t, "Teknoloji", loaded.Categories[0].Name)
}

func TestStoreLinkCategoryIgnoresExistingLink(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	stores := NewStoreRepository(db)
	cats := NewCategoryRepository(db)

	c := &models.Category{Name: "Giyim"}
	require.NoError(t, cats.Create(ctx, c))
	s := &models.Store{Name: "Zara", Slug: "zara"}
	require.NoError(t, stores.Create(ctx, s))

	require.NoError(t, stores.LinkCategory(ctx, s.ID, c.ID))
	require.NoError(t, stores.LinkCategory(ctx, s.ID, c.ID))

	var count int64
	require.NoError(t, db.Model(&models.StoreCategory{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestStoreSetLogoURLReturnsPrevious(t *testing.T) {
	ctx := context.Background()
	repo := NewStoreRepository(newTestDB(t))
	s := &models.Store{Name: "Zara", Slug: "zara", LogoURL: "old.png"}
	require.NoError(t, repo.Create(ctx, s))

	prev, err := repo.SetLogoURL(ctx, s.ID, "new.png")
	require.NoError(t, err)
	assert.Equal(t, "old.png", prev)

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "new.png", got.LogoURL)

	_, err = repo.SetLogoURL(ctx, 999, "x.png")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStoreListFiltersByKind(t *testing.T) {
	ctx := context.Background()
	repo := NewStoreRepository(newTestDB(t))
	require.NoError(t, repo.Create(ctx, &models.Store{Name: "Zara", Slug: "zara", Kind: models.StoreKindStore}))
	require.NoError(t, repo.Create(ctx, &models.Store{Name: "Big Chefs", Slug: "big-chefs", Kind: models.StoreKindDining}))

	dining, err := repo.List(ctx, models.StoreKindDining)
	require.NoError(t, err)
	require.Len(t, dining, 1)
	assert.Equal(t, "Big Chefs", dining[0].Name)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
