package catalog

import (
	"context"
	"fmt"
	"strings"

	"mall-site-backend/internal/apperr"
	"mall-site-backend/internal/logger"
	"mall-site-backend/internal/models"
	"mall-site-backend/internal/repository"
	"mall-site-backend/internal/textnorm"
	"mall-site-backend/internal/validation"
)

// StoreInput is the admin form for a store. CategoryIDs keeps the order the boxes were ticked.
type StoreInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Slug        string `json:"slug" validate:"max=200"`
	Floor       string `json:"floor" validate:"max=100"`
	Phone       string `json:"phone" validate:"max=50"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	Website     string `json:"website" validate:"omitempty,url"`
	Kind        string `json:"kind" validate:"omitempty,oneof=store dining"`
	CategoryIDs []uint `json:"category_ids" validate:"min=1"`
}

type Service struct {
	log        *logger.Logger
	validate   *validation.Validator
	stores     *repository.StoreRepository
	categories *repository.CategoryRepository
	events     *repository.EventRepository
	services   *repository.MallServiceRepository
	settings   *repository.SettingRepository
}

func NewService(
	log *logger.Logger,
	validate *validation.Validator,
	stores *repository.StoreRepository,
	categories *repository.CategoryRepository,
	events *repository.EventRepository,
	services *repository.MallServiceRepository,
	settings *repository.SettingRepository,
) *Service {
	return &Service{
		log:        log.With("service", "CatalogService"),
		validate:   validate,
		stores:     stores,
		categories: categories,
		events:     events,
		services:   services,
		settings:   settings,
	}
}

func (s *Service) ListStores(ctx context.Context, kind string, filter StoreFilter) ([]models.Store, error) {
	stores, err := s.stores.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return FilterStores(stores, filter), nil
}

func (s *Service) GetStore(ctx context.Context, id uint) (*models.Store, error) {
	return s.stores.GetByID(ctx, id)
}

func (s *Service) GetStoreBySlug(ctx context.Context, slug string) (*models.Store, error) {
	return s.stores.GetBySlug(ctx, slug)
}

// CreateStore validates before touching the database: at least one category is required. The
// first selected category becomes the store's legacy category text.
func (s *Service) CreateStore(ctx context.Context, in StoreInput) (*models.Store, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	selected, err := s.categories.GetByIDs(ctx, in.CategoryIDs)
	if err != nil {
		return nil, err
	}

	store := &models.Store{}
	applyInput(store, in, selected[0].Name)
	if err := s.stores.Create(ctx, store); err != nil {
		return nil, err
	}
	if err := s.stores.ReplaceCategories(ctx, store.ID, in.CategoryIDs); err != nil {
		return nil, fmt.Errorf("link categories: %w", err)
	}
	s.log.Info("Store created", "store_id", store.ID, "slug", store.Slug)
	return s.stores.GetByID(ctx, store.ID)
}

// UpdateStore overwrites the store and replaces all of its category links with the selection.
func (s *Service) UpdateStore(ctx context.Context, id uint, in StoreInput) (*models.Store, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	selected, err := s.categories.GetByIDs(ctx, in.CategoryIDs)
	if err != nil {
		return nil, err
	}

	applyInput(store, in, selected[0].Name)
	store.Categories = nil
	if err := s.stores.Update(ctx, store); err != nil {
		return nil, err
	}
	if err := s.stores.ReplaceCategories(ctx, store.ID, in.CategoryIDs); err != nil {
		return nil, fmt.Errorf("link categories: %w", err)
	}
	return s.stores.GetByID(ctx, store.ID)
}

func (s *Service) DeleteStore(ctx context.Context, id uint) error {
	return s.stores.Delete(ctx, id)
}

func applyInput(store *models.Store, in StoreInput, legacyCategory string) {
	store.Name = strings.TrimSpace(in.Name)
	store.Slug = strings.TrimSpace(in.Slug)
	if store.Slug == "" {
		store.Slug = textnorm.Slugify(store.Name)
	}
	store.Category = legacyCategory
	store.Floor = strings.TrimSpace(in.Floor)
	store.Phone = strings.TrimSpace(in.Phone)
	store.Description = in.Description
	store.LogoURL = strings.TrimSpace(in.LogoURL)
	store.Website = strings.TrimSpace(in.Website)
	// An omitted kind keeps what the store already is; new stores default to a shop.
	if in.Kind != "" {
		store.Kind = in.Kind
	}
	if store.Kind == "" {
		store.Kind = models.StoreKindStore
	}
}

func requireID(id uint, what string) error {
	if id == 0 {
		return apperr.Validation("invalid " + what + " id")
	}
	return nil
}
