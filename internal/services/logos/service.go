package logos

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"mall-site-backend/internal/logger"
	"mall-site-backend/internal/models"
	"mall-site-backend/internal/services/batch"
	"mall-site-backend/internal/services/matching"
	"mall-site-backend/internal/storage"
)

const keyPrefix = "store-logos"

// Source gives access to the bytes of an uploaded file.
type Source interface {
	Open() (io.ReadCloser, error)
}

type SourceFunc func() (io.ReadCloser, error)

func (f SourceFunc) Open() (io.ReadCloser, error) { return f() }

type StoreRepo interface {
	List(ctx context.Context, kind string) ([]models.Store, error)
	SetLogoURL(ctx context.Context, id uint, url string) (string, error)
}

type AuditLog interface {
	LogLogoChange(ctx context.Context, entry *models.LogoAuditLog) error
}

// Event is emitted after each item of a commit loop.
type Event struct {
	RunID uuid.UUID                  `json:"run_id"`
	Index int                        `json:"index"`
	Item  matching.FileAssociation   `json:"item"`
	Items []matching.FileAssociation `json:"-"`
}

type Service struct {
	log      *logger.Logger
	stores   StoreRepo
	objects  storage.ObjectStore
	audit    AuditLog
	recorder *batch.Recorder
	now      func() time.Time
}

func NewService(log *logger.Logger, stores StoreRepo, objects storage.ObjectStore, audit AuditLog, recorder *batch.Recorder) *Service {
	return &Service{
		log:      log.With("service", "LogoService"),
		stores:   stores,
		objects:  objects,
		audit:    audit,
		recorder: recorder,
		now:      time.Now,
	}
}

// Candidates returns every store as a match candidate, in listing order.
func (s *Service) Candidates(ctx context.Context) ([]matching.Candidate, error) {
	stores, err := s.stores.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	out := make([]matching.Candidate, 0, len(stores))
	for _, st := range stores {
		out = append(out, matching.Candidate{ID: st.ID, Name: st.Name})
	}
	return out, nil
}

// MatchAgainstStores proposes a store for each file name.
func (s *Service) MatchAgainstStores(ctx context.Context, fileNames []string) ([]matching.FileAssociation, error) {
	candidates, err := s.Candidates(ctx)
	if err != nil {
		return nil, err
	}
	return matching.Match(candidates, fileNames), nil
}

type Result struct {
	RunID    uuid.UUID                  `json:"run_id"`
	Items    []matching.FileAssociation `json:"items"`
	Progress batch.Progress             `json:"progress"`
}

// Commit uploads every pending, resolved file in list order, one at a time. sources[i] holds
// the bytes of list[i]. A failing item is marked error and the loop moves on. onEvent fires
// twice per uploaded item: once when it turns uploading and once with its final status.
func (s *Service) Commit(ctx context.Context, list []matching.FileAssociation, sources []Source, onEvent func(Event)) (*Result, error) {
	if len(sources) != len(list) {
		return nil, fmt.Errorf("got %d files for %d associations", len(sources), len(list))
	}

	eligible := 0
	for _, a := range list {
		if a.Status.IsPending() && a.Resolved() {
			eligible++
		}
	}
	run, err := s.recorder.Begin(ctx, models.RunKindLogos, "", eligible)
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	log := s.log.With("run_id", run.ID())

	for i := range list {
		if !list[i].Status.IsPending() || !list[i].Resolved() {
			continue
		}
		list[i].Status = mustAdvance(list[i].Status, batch.Uploading())
		emit(onEvent, Event{RunID: run.ID(), Index: i, Item: list[i], Items: list})

		final := s.commitOne(ctx, run.ID(), list[i], sources[i])
		list[i].Status = mustAdvance(list[i].Status, final)
		run.Record(list[i].Status)

		if final.State == batch.StateError {
			log.Warn("Logo upload failed", "file", list[i].FileName, "store_id", *list[i].StoreID, "error", final.Message)
		}
		emit(onEvent, Event{RunID: run.ID(), Index: i, Item: list[i], Items: list})
	}

	progress, err := run.Finish(ctx)
	if err != nil {
		log.Error("Failed to persist run", "error", err)
	}
	log.Info("Logo commit finished", "succeeded", progress.Succeeded, "failed", progress.Failed)
	return &Result{RunID: run.ID(), Items: list, Progress: progress}, nil
}

func emit(onEvent func(Event), ev Event) {
	if onEvent != nil {
		onEvent(ev)
	}
}

func (s *Service) commitOne(ctx context.Context, runID uuid.UUID, a matching.FileAssociation, src Source) batch.Status {
	if src == nil {
		return batch.Failed("file content missing")
	}
	storeID := *a.StoreID
	key := s.objectKey(storeID, a.FileName)

	rc, err := src.Open()
	if err != nil {
		return batch.Failed(err.Error())
	}
	err = s.objects.Upload(ctx, key, rc, storage.ContentTypeForKey(key))
	_ = rc.Close()
	if err != nil {
		return batch.Failed(err.Error())
	}

	url := s.objects.PublicURL(key)
	previous, err := s.stores.SetLogoURL(ctx, storeID, url)
	if err != nil {
		return batch.Failed(err.Error())
	}

	if s.audit != nil {
		entry := &models.LogoAuditLog{
			ID:           uuid.New(),
			RunID:        runID,
			StoreID:      storeID,
			FileName:     a.FileName,
			PreviousLogo: previous,
			NewLogo:      url,
			Score:        a.Score,
			CreatedAt:    s.now(),
		}
		if err := s.audit.LogLogoChange(ctx, entry); err != nil {
			s.log.Warn("Failed to write logo audit log", "store_id", storeID, "error", err)
		}
	}
	return batch.Success()
}

// objectKey is <prefix>/<unix-millis>-<storeID><ext>; the same store uploaded in the same
// millisecond overwrites.
func (s *Service) objectKey(storeID uint, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%s/%d-%d%s", keyPrefix, s.now().UnixMilli(), storeID, ext)
}

func mustAdvance(cur, next batch.Status) batch.Status {
	out, err := cur.Advance(next)
	if err != nil {
		// Unreachable with the loop above; keep the current status rather than corrupting it.
		return cur
	}
	return out
}
