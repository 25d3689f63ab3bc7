package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"mall-site-backend/internal/apperr"
	"mall-site-backend/internal/models"
	"mall-site-backend/internal/textnorm"
)

type CategoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	c := &models.Category{Name: name, Slug: textnorm.Slugify(name)}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	if err := requireID(id, "category"); err != nil {
		return nil, err
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	found, err := s.categories.GetByIDs(ctx, []uint{id})
	if err != nil {
		return nil, err
	}
	c := found[0]
	c.Name = strings.TrimSpace(in.Name)
	c.Slug = textnorm.Slugify(c.Name)
	if err := s.categories.Update(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id uint) error {
	if err := requireID(id, "category"); err != nil {
		return err
	}
	return s.categories.Delete(ctx, id)
}

type EventInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Slug        string     `json:"slug" validate:"max=200"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Location    string     `json:"location" validate:"max=200"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      *time.Time `json:"ends_at"`
	IsActive    bool       `json:"is_active"`
}

func (s *Service) ListEvents(ctx context.Context, activeOnly bool) ([]models.Event, error) {
	return s.events.List(ctx, activeOnly)
}

func (s *Service) CreateEvent(ctx context.Context, in EventInput) (*models.Event, error) {
	if err := s.validateEvent(in); err != nil {
		return nil, err
	}
	ev := &models.Event{}
	applyEvent(ev, in)
	if err := s.events.Create(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Service) UpdateEvent(ctx context.Context, id uint, in EventInput) (*models.Event, error) {
	if err := requireID(id, "event"); err != nil {
		return nil, err
	}
	if err := s.validateEvent(in); err != nil {
		return nil, err
	}
	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyEvent(ev, in)
	if err := s.events.Update(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Service) DeleteEvent(ctx context.Context, id uint) error {
	if err := requireID(id, "event"); err != nil {
		return err
	}
	return s.events.Delete(ctx, id)
}

func (s *Service) validateEvent(in EventInput) error {
	if err := s.validate.Validate(in); err != nil {
		return err
	}
	if in.EndsAt != nil && in.EndsAt.Before(in.StartsAt) {
		return apperr.ValidationWithDetails("validation failed", map[string]string{
			"ends_at": "must not be before starts_at",
		})
	}
	return nil
}

func applyEvent(ev *models.Event, in EventInput) {
	ev.Title = strings.TrimSpace(in.Title)
	ev.Slug = strings.TrimSpace(in.Slug)
	if ev.Slug == "" {
		ev.Slug = textnorm.Slugify(ev.Title)
	}
	ev.Description = in.Description
	ev.ImageURL = strings.TrimSpace(in.ImageURL)
	ev.Location = strings.TrimSpace(in.Location)
	ev.StartsAt = in.StartsAt
	ev.EndsAt = in.EndsAt
	ev.IsActive = in.IsActive
}

type MallServiceInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	Icon        string `json:"icon" validate:"max=100"`
	SortOrder   int    `json:"sort_order"`
}

func (s *Service) ListMallServices(ctx context.Context) ([]models.MallService, error) {
	return s.services.List(ctx)
}

func (s *Service) CreateMallService(ctx context.Context, in MallServiceInput) (*models.MallService, error) {
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	svc := &models.MallService{}
	applyMallService(svc, in)
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) UpdateMallService(ctx context.Context, id uint, in MallServiceInput) (*models.MallService, error) {
	if err := requireID(id, "service"); err != nil {
		return nil, err
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyMallService(svc, in)
	if err := s.services.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) DeleteMallService(ctx context.Context, id uint) error {
	if err := requireID(id, "service"); err != nil {
		return err
	}
	return s.services.Delete(ctx, id)
}

func applyMallService(svc *models.MallService, in MallServiceInput) {
	svc.Name = strings.TrimSpace(in.Name)
	svc.Description = in.Description
	svc.Icon = strings.TrimSpace(in.Icon)
	svc.SortOrder = in.SortOrder
}

func (s *Service) ListSettings(ctx context.Context) ([]models.SiteSetting, error) {
	return s.settings.List(ctx)
}

// SettingsMap returns every setting keyed by name, as served to the public homepage.
func (s *Service) SettingsMap(ctx context.Context) (map[string]json.RawMessage, error) {
	settings, err := s.settings.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(settings))
	for _, st := range settings {
		out[st.Key] = json.RawMessage(st.Value)
	}
	return out, nil
}

func (s *Service) GetSetting(ctx context.Context, key string) (*models.SiteSetting, error) {
	return s.settings.Get(ctx, key)
}

// PutSetting stores any JSON document under key.
func (s *Service) PutSetting(ctx context.Context, key string, value json.RawMessage) (*models.SiteSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, apperr.Validation("setting key is required")
	}
	if len(value) == 0 || !json.Valid(value) {
		return nil, apperr.Validation("setting value must be valid JSON")
	}
	return s.settings.Put(ctx, key, datatypes.JSON(value))
}

func (s *Service) DeleteSetting(ctx context.Context, key string) error {
	return s.settings.Delete(ctx, key)
}
