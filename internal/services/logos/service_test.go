package logos

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall-site-backend/internal/logger"
	"mall-site-backend/internal/models"
	"mall-site-backend/internal/services/batch"
	"mall-site-backend/internal/services/matching"
)

type fakeStores struct {
	stores  []models.Store
	logos   map[uint]string
	failIDs map[uint]bool
}

func (f *fakeStores) List(context.Context, string) ([]models.Store, error) { return f.stores, nil }

func (f *fakeStores) SetLogoURL(_ context.Context, id uint, url string) (string, error) {
	if f.failIDs[id] {
		return "", errors.New("row-level security violation")
	}
	prev := f.logos[id]
	f.logos[id] = url
	return prev, nil
}

type fakeObjects struct {
	uploaded map[string]string
	reject   string
}

func (f *fakeObjects) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	data, _ := io.ReadAll(r)
	if f.reject != "" && strings.Contains(string(data), f.reject) {
		return errors.New("payload too large")
	}
	f.uploaded[key] = string(data)
	return nil
}

func (f *fakeObjects) PublicURL(key string) string { return "https://cdn.test/" + key }

type fakeAudit struct{ entries []*models.LogoAuditLog }

func (f *fakeAudit) LogLogoChange(_ context.Context, e *models.LogoAuditLog) error {
	f.entries = append(f.entries, e)
	return nil
}

type memRuns struct{ completed []*models.ImportRun }

func (m *memRuns) Start(_ context.Context, kind, filename string, total int) (*models.ImportRun, error) {
	return &models.ImportRun{ID: uuid.New(), Kind: kind, Filename: filename, Total: total}, nil
}

func (m *memRuns) Complete(_ context.Context, run *models.ImportRun) error {
	m.completed = append(m.completed, run)
	return nil
}

func content(s string) Source {
	return SourceFunc(func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(s)), nil })
}

func newTestService(stores *fakeStores, objects *fakeObjects, audit *fakeAudit, runs *memRuns) *Service {
	svc := NewService(logger.Nop(), stores, objects, audit, batch.NewRecorder(runs, batch.NewTracker()))
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc
}

func TestCommitUploadsAndSetsLogo(t *testing.T) {
	stores := &fakeStores{
		stores: []models.Store{{ID: 1, Name: "Zara"}, {ID: 2, Name: "Mavi"}},
		logos:  map[uint]string{1: "old.png"},
	}
	objects := &fakeObjects{uploaded: map[string]string{}}
	audit := &fakeAudit{}
	runs := &memRuns{}
	svc := newTestService(stores, objects, audit, runs)

	list, err := svc.MatchAgainstStores(context.Background(), []string{"zara.PNG", "mavi-jeans.jpg", "nike.jpg"})
	require.NoError(t, err)

	var events []Event
	res, err := svc.Commit(context.Background(), list, []Source{content("z"), content("m"), content("n")}, func(e Event) {
		events = append(events, e)
	})
	require.NoError(t, err)

	assert.Equal(t, batch.StateSuccess, res.Items[0].Status.State)
	assert.Equal(t, batch.StateSuccess, res.Items[1].Status.State)
	assert.Equal(t, batch.StatePending, res.Items[2].Status.State, "unmatched file stays pending")

	assert.Equal(t, "z", objects.uploaded["store-logos/1700000000000-1.png"])
	assert.Equal(t, "m", objects.uploaded["store-logos/1700000000000-2.jpg"])
	assert.Equal(t, "https://cdn.test/store-logos/1700000000000-1.png", stores.logos[1])

	require.Len(t, events, 4)
	for n, want := range []struct {
		index int
		state batch.State
	}{{0, batch.StateUploading}, {0, batch.StateSuccess}, {1, batch.StateUploading}, {1, batch.StateSuccess}} {
		assert.Equal(t, want.index, events[n].Index, "event %d", n)
		assert.Equal(t, want.state, events[n].Item.Status.State, "event %d", n)
	}

	require.Len(t, audit.entries, 2)
	assert.Equal(t, "old.png", audit.entries[0].PreviousLogo)
	assert.Equal(t, 100, audit.entries[0].Score)
	assert.Equal(t, 80, audit.entries[1].Score)

	require.Len(t, runs.completed, 1)
	assert.Equal(t, 2, runs.completed[0].SucceededCount)
	assert.Equal(t, 2, res.Progress.Processed)
}

func TestCommitIsolatesFailures(t *testing.T) {
	stores := &fakeStores{
		stores:  []models.Store{{ID: 1, Name: "Zara"}, {ID: 2, Name: "Mavi"}, {ID: 3, Name: "Koton"}},
		logos:   map[uint]string{},
		failIDs: map[uint]bool{2: true},
	}
	objects := &fakeObjects{uploaded: map[string]string{}, reject: "huge"}
	svc := newTestService(stores, objects, &fakeAudit{}, &memRuns{})

	list := matching.Match([]matching.Candidate{{ID: 1, Name: "Zara"}, {ID: 2, Name: "Mavi"}, {ID: 3, Name: "Koton"}},
		[]string{"zara.png", "mavi.png", "koton.png"})

	res, err := svc.Commit(context.Background(), list, []Source{content("huge"), content("m"), content("k")}, nil)
	require.NoError(t, err)

	assert.Equal(t, batch.Failed("payload too large"), res.Items[0].Status)
	assert.Equal(t, batch.Failed("row-level security violation"), res.Items[1].Status)
	assert.Equal(t, batch.StateSuccess, res.Items[2].Status.State)
	assert.Equal(t, 1, res.Progress.Succeeded)
	assert.Equal(t, 2, res.Progress.Failed)
}

func TestCommitSkipsNonPendingAndMissingSources(t *testing.T) {
	stores := &fakeStores{stores: []models.Store{{ID: 1, Name: "Zara"}}, logos: map[uint]string{}}
	objects := &fakeObjects{uploaded: map[string]string{}}
	svc := newTestService(stores, objects, &fakeAudit{}, &memRuns{})

	list := matching.Match([]matching.Candidate{{ID: 1, Name: "Zara"}}, []string{"zara.png", "zara.png", "zara.png"})
	list[0].Status = batch.Success()
	list[1].Status = batch.Skipped()

	res, err := svc.Commit(context.Background(), list, []Source{content("a"), content("b"), nil}, nil)
	require.NoError(t, err)
	assert.Equal(t, batch.StateSuccess, res.Items[0].Status.State)
	assert.Equal(t, batch.StateSkipped, res.Items[1].Status.State)
	assert.Equal(t, batch.Failed("file content missing"), res.Items[2].Status)
	assert.Empty(t, objects.uploaded)
}

func TestCommitRejectsMismatchedSources(t *testing.T) {
	svc := newTestService(&fakeStores{logos: map[uint]string{}}, &fakeObjects{uploaded: map[string]string{}}, &fakeAudit{}, &memRuns{})
	list := matching.Match(nil, []string{"a.png"})
	_, err := svc.Commit(context.Background(), list, nil, nil)
	assert.Error(t, err)
}
