package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"mall-site-backend/internal/apperr"
	"mall-site-backend/internal/logger"
	"mall-site-backend/internal/models"
	"mall-site-backend/internal/services/batch"
	"mall-site-backend/internal/textnorm"
)

// AlreadyExistsMessage is shown on rows whose slug is already taken.
const AlreadyExistsMessage = "a store with this name already exists"

type StoreWriter interface {
	Create(ctx context.Context, store *models.Store) error
	LinkCategory(ctx context.Context, storeID, categoryID uint) error
}

type CategoryLister interface {
	List(ctx context.Context) ([]models.Category, error)
}

// CategoryIndex maps case-folded category names to ids.
type CategoryIndex map[string]uint

func NewCategoryIndex(categories []models.Category) CategoryIndex {
	idx := make(CategoryIndex, len(categories))
	for _, c := range categories {
		key := textnorm.FoldCase(c.Name)
		if _, seen := idx[key]; key != "" && !seen {
			idx[key] = c.ID
		}
	}
	return idx
}

func (idx CategoryIndex) Lookup(name string) (uint, bool) {
	key := textnorm.FoldCase(name)
	if key == "" {
		return 0, false
	}
	id, ok := idx[key]
	return id, ok
}

// Event is emitted after every committed row with the whole collection.
type Event struct {
	RunID uuid.UUID   `json:"run_id"`
	Index int         `json:"index"`
	Row   ImportRow   `json:"row"`
	Rows  []ImportRow `json:"-"`
}

type Result struct {
	RunID    uuid.UUID      `json:"run_id"`
	Rows     []ImportRow    `json:"rows"`
	Progress batch.Progress `json:"progress"`
}

type Service struct {
	log        *logger.Logger
	stores     StoreWriter
	categories CategoryLister
	recorder   *batch.Recorder
}

func NewService(log *logger.Logger, stores StoreWriter, categories CategoryLister, recorder *batch.Recorder) *Service {
	return &Service{
		log:        log.With("service", "ImportService"),
		stores:     stores,
		categories: categories,
		recorder:   recorder,
	}
}

func (s *Service) categoryIndex(ctx context.Context) (CategoryIndex, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return NewCategoryIndex(categories), nil
}

// Preview fills slug and category id on each row so the admin can review them before commit.
func (s *Service) Preview(ctx context.Context, rows []ImportRow) ([]ImportRow, error) {
	idx, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Slug = textnorm.Slugify(rows[i].Name)
		rows[i].CategoryID = nil
		if id, ok := idx.Lookup(rows[i].Category); ok {
			rows[i].CategoryID = &id
		}
	}
	return rows, nil
}

// Commit creates one store per pending row, in order and one at a time. A slug collision or any
// other write failure marks only that row. Failing to load the category index aborts before any
// row is touched.
func (s *Service) Commit(ctx context.Context, filename string, rows []ImportRow, onEvent func(Event)) (*Result, error) {
	idx, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	pending := 0
	for _, r := range rows {
		if r.Status.IsPending() {
			pending++
		}
	}
	run, err := s.recorder.Begin(ctx, models.RunKindStores, filename, pending)
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	log := s.log.With("run_id", run.ID(), "filename", filename)

	for i := range rows {
		if !rows[i].Status.IsPending() {
			continue
		}
		final := s.commitRow(ctx, idx, &rows[i])
		next, err := rows[i].Status.Advance(final)
		if err != nil {
			return nil, err
		}
		rows[i].Status = next
		run.Record(next)

		switch next.State {
		case batch.StateError:
			log.Warn("Row import failed", "line", rows[i].Line, "name", rows[i].Name, "error", next.Message)
		case batch.StatePartial:
			log.Warn("Row imported without category link", "line", rows[i].Line, "name", rows[i].Name, "error", next.Message)
		case batch.StatePending, batch.StateUploading, batch.StateSuccess, batch.StateSkipped:
		}
		if onEvent != nil {
			onEvent(Event{RunID: run.ID(), Index: i, Row: rows[i], Rows: rows})
		}
	}

	progress, err := run.Finish(ctx)
	if err != nil {
		log.Error("Failed to persist run", "error", err)
	}
	log.Info("Import finished", "succeeded", progress.Succeeded, "failed", progress.Failed)
	return &Result{RunID: run.ID(), Rows: rows, Progress: progress}, nil
}

func (s *Service) commitRow(ctx context.Context, idx CategoryIndex, row *ImportRow) batch.Status {
	row.Slug = textnorm.Slugify(row.Name)
	store := &models.Store{
		Name:        row.Name,
		Slug:        row.Slug,
		Category:    row.Category,
		Floor:       row.Floor,
		Phone:       row.Phone,
		Description: row.Description,
		LogoURL:     row.LogoURL,
		Kind:        models.StoreKindStore,
	}
	if err := s.stores.Create(ctx, store); err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			return batch.Failed(AlreadyExistsMessage)
		}
		return batch.Failed(err.Error())
	}

	row.CategoryID = nil
	categoryID, ok := idx.Lookup(row.Category)
	if !ok {
		// The free-text category on the store still carries the information.
		return batch.Success()
	}
	row.CategoryID = &categoryID
	if err := s.stores.LinkCategory(ctx, store.ID, categoryID); err != nil {
		return batch.PartiallyDone("store created, category link failed: " + err.Error())
	}
	return batch.Success()
}
