package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall-site-backend/internal/apperr"
	"mall-site-backend/internal/logger"
	"mall-site-backend/internal/models"
	"mall-site-backend/internal/services/batch"
)

type fakeStores struct {
	nextID    uint
	bySlug    map[string]*models.Store
	links     [][2]uint
	createErr map[string]error
	linkErr   error
}

func newFakeStores() *fakeStores {
	return &fakeStores{bySlug: map[string]*models.Store{}, createErr: map[string]error{}}
}

func (f *fakeStores) Create(_ context.Context, s *models.Store) error {
	if err := f.createErr[s.Name]; err != nil {
		return err
	}
	if _, ok := f.bySlug[s.Slug]; ok {
		return apperr.AlreadyExists("store already exists", errors.New("UNIQUE constraint failed: stores.slug"))
	}
	f.nextID++
	s.ID = f.nextID
	f.bySlug[s.Slug] = s
	return nil
}

func (f *fakeStores) LinkCategory(_ context.Context, storeID, categoryID uint) error {
	if f.linkErr != nil {
		return f.linkErr
	}
	f.links = append(f.links, [2]uint{storeID, categoryID})
	return nil
}

type fakeCategories struct {
	categories []models.Category
	err        error
}

func (f *fakeCategories) List(context.Context) ([]models.Category, error) {
	return f.categories, f.err
}

type memRuns struct{ started, completed int }

func (m *memRuns) Start(_ context.Context, kind, filename string, total int) (*models.ImportRun, error) {
	m.started++
	return &models.ImportRun{ID: uuid.New(), Kind: kind, Filename: filename, Total: total}, nil
}

func (m *memRuns) Complete(context.Context, *models.ImportRun) error {
	m.completed++
	return nil
}

func newTestService(stores *fakeStores, cats *fakeCategories, runs *memRuns) *Service {
	return NewService(logger.Nop(), stores, cats, batch.NewRecorder(runs, batch.NewTracker()))
}

func pendingRows(names ...string) []ImportRow {
	rows := make([]ImportRow, 0, len(names))
	for i, n := range names {
		rows = append(rows, ImportRow{Line: i + 2, Name: n, Status: batch.Pending()})
	}
	return rows
}

func TestCommitCreatesStoreAndLinksCategory(t *testing.T) {
	stores := newFakeStores()
	cats := &fakeCategories{categories: []models.Category{{ID: 7, Name: "Giyim"}}}
	svc := newTestService(stores, cats, &memRuns{})

	rows := []ImportRow{{Line: 2, Name: "Zara", Category: "giyim", Status: batch.Pending()}}
	res, err := svc.Commit(context.Background(), "stores.xlsx", rows, nil)
	require.NoError(t, err)

	require.Len(t, res.Rows, 1)
	assert.Equal(t, batch.Success(), res.Rows[0].Status)
	assert.Equal(t, "zara", res.Rows[0].Slug)
	require.Contains(t, stores.bySlug, "zara")
	assert.Equal(t, "giyim", stores.bySlug["zara"].Category)
	assert.Equal(t, [][2]uint{{1, 7}}, stores.links)
}

func TestCommitDuplicateInSameBatchContinues(t *testing.T) {
	stores := newFakeStores()
	svc := newTestService(stores, &fakeCategories{}, &memRuns{})

	var seen []int
	rows := pendingRows("Çöl Mağaza", "ÇÖL MAĞAZA", "Mavi")
	res, err := svc.Commit(context.Background(), "", rows, func(e Event) {
		seen = append(seen, e.Index)
		assert.Len(t, e.Rows, 3)
	})
	require.NoError(t, err)

	assert.Equal(t, batch.Success(), res.Rows[0].Status)
	assert.Equal(t, batch.Failed(AlreadyExistsMessage), res.Rows[1].Status)
	assert.Equal(t, batch.Success(), res.Rows[2].Status)
	assert.Equal(t, []int{0, 1, 2}, seen)
	assert.Equal(t, 2, res.Progress.Succeeded)
	assert.Equal(t, 1, res.Progress.Failed)
	assert.Contains(t, stores.bySlug, "col-magaza")
}

func TestCommitOtherFailureKeepsRawMessage(t *testing.T) {
	stores := newFakeStores()
	stores.createErr["Broken"] = errors.New("value too long for type character varying(255)")
	svc := newTestService(stores, &fakeCategories{}, &memRuns{})

	res, err := svc.Commit(context.Background(), "", pendingRows("Broken", "Fine"), nil)
	require.NoError(t, err)
	assert.Equal(t, batch.Failed("value too long for type character varying(255)"), res.Rows[0].Status)
	assert.Equal(t, batch.Success(), res.Rows[1].Status)
}

func TestCommitUnknownCategoryIsStillSuccess(t *testing.T) {
	stores := newFakeStores()
	cats := &fakeCategories{categories: []models.Category{{ID: 7, Name: "Giyim"}}}
	svc := newTestService(stores, cats, &memRuns{})

	rows := []ImportRow{{Name: "Zara", Category: "Moda", Status: batch.Pending()}}
	res, err := svc.Commit(context.Background(), "", rows, nil)
	require.NoError(t, err)
	assert.Equal(t, batch.Success(), res.Rows[0].Status)
	assert.Nil(t, res.Rows[0].CategoryID)
	assert.Empty(t, stores.links)
}

func TestCommitLinkFailureIsPartial(t *testing.T) {
	stores := newFakeStores()
	stores.linkErr = errors.New("connection reset")
	cats := &fakeCategories{categories: []models.Category{{ID: 7, Name: "Giyim"}}}
	svc := newTestService(stores, cats, &memRuns{})

	rows := []ImportRow{{Name: "Zara", Category: "Giyim", Status: batch.Pending()}}
	res, err := svc.Commit(context.Background(), "", rows, nil)
	require.NoError(t, err)
	assert.Equal(t, batch.StatePartial, res.Rows[0].Status.State)
	assert.Contains(t, res.Rows[0].Status.Message, "connection reset")
	assert.Contains(t, stores.bySlug, "zara")
}

func TestCommitSkipsNonPendingRows(t *testing.T) {
	stores := newFakeStores()
	svc := newTestService(stores, &fakeCategories{}, &memRuns{})

	rows := pendingRows("Zara", "Mavi", "Koton")
	rows[0].Status = batch.Success()
	rows, err := SkipRow(rows, 1)
	require.NoError(t, err)

	res, err := svc.Commit(context.Background(), "", rows, nil)
	require.NoError(t, err)
	assert.Equal(t, batch.StateSuccess, res.Rows[0].Status.State)
	assert.Equal(t, batch.StateSkipped, res.Rows[1].Status.State)
	assert.Equal(t, batch.StateSuccess, res.Rows[2].Status.State)
	assert.Len(t, stores.bySlug, 1)

	for _, r := range res.Rows {
		assert.True(t, r.Status.IsTerminal())
	}
}

func TestCommitAbortsWhenCategoriesFail(t *testing.T) {
	stores := newFakeStores()
	runs := &memRuns{}
	svc := newTestService(stores, &fakeCategories{err: errors.New("db down")}, runs)

	_, err := svc.Commit(context.Background(), "", pendingRows("Zara"), nil)
	require.Error(t, err)
	assert.Empty(t, stores.bySlug)
	assert.Zero(t, runs.started)
}

func TestPreviewFillsSlugAndCategory(t *testing.T) {
	cats := &fakeCategories{categories: []models.Category{{ID: 7, Name: "Giyim"}, {ID: 8, Name: "GIYIM"}}}
	svc := newTestService(newFakeStores(), cats, &memRuns{})

	rows, err := svc.Preview(context.Background(), []ImportRow{{Name: "Çöl Mağaza", Category: "GiYiM"}, {Name: "Nike"}})
	require.NoError(t, err)
	assert.Equal(t, "col-magaza", rows[0].Slug)
	require.NotNil(t, rows[0].CategoryID)
	assert.EqualValues(t, 7, *rows[0].CategoryID)
	assert.Nil(t, rows[1].CategoryID)
}
