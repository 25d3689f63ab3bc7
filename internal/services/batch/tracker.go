package batch

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"mall-site-backend/internal/models"
)

type Progress struct {
	RunID     uuid.UUID `json:"run_id"`
	Kind      string    `json:"kind"`
	Total     int       `json:"total"`
	Processed int       `json:"processed_count"`
	Succeeded int       `json:"succeeded_count"`
	Failed    int       `json:"failed_count"`
	Skipped   int       `json:"skipped_count"`
	Status    string    `json:"status"`
}

// Tracker keeps the live progress of in-flight runs so other requests can poll it.
type Tracker struct {
	progress sync.Map // runID -> Progress
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) Get(runID uuid.UUID) (Progress, bool) {
	val, ok := t.progress.Load(runID)
	if !ok {
		return Progress{}, false
	}
	return val.(Progress), true
}

func (t *Tracker) store(p Progress) {
	t.progress.Store(p.RunID, p)
}

func (t *Tracker) forget(runID uuid.UUID) {
	t.progress.Delete(runID)
}

// RunStore persists run records.
type RunStore interface {
	Start(ctx context.Context, kind, filename string, total int) (*models.ImportRun, error)
	Complete(ctx context.Context, run *models.ImportRun) error
}

// Recorder opens runs in the store and mirrors their counters into the tracker.
type Recorder struct {
	runs    RunStore
	tracker *Tracker
}

func NewRecorder(runs RunStore, tracker *Tracker) *Recorder {
	return &Recorder{runs: runs, tracker: tracker}
}

type Run struct {
	rec      *Recorder
	model    *models.ImportRun
	progress Progress
}

func (r *Recorder) Begin(ctx context.Context, kind, filename string, total int) (*Run, error) {
	model, err := r.runs.Start(ctx, kind, filename, total)
	if err != nil {
		return nil, err
	}
	run := &Run{
		rec:   r,
		model: model,
		progress: Progress{
			RunID:  model.ID,
			Kind:   kind,
			Total:  total,
			Status: models.RunStatusProcessing,
		},
	}
	r.tracker.store(run.progress)
	return run, nil
}

func (r *Run) ID() uuid.UUID { return r.model.ID }

// Record counts one item that reached its final status.
func (r *Run) Record(s Status) {
	switch s.State {
	case StateSuccess:
		r.progress.Succeeded++
	case StatePartial:
		// Main write went through; count it as succeeded, the message tells the rest.
		r.progress.Succeeded++
	case StateError:
		r.progress.Failed++
	case StateSkipped:
		r.progress.Skipped++
	case StatePending, StateUploading:
		return
	}
	r.progress.Processed++
	r.rec.tracker.store(r.progress)
}

// Finish persists the counters and drops the live entry.
func (r *Run) Finish(ctx context.Context) (Progress, error) {
	r.model.ProcessedCount = r.progress.Processed
	r.model.SucceededCount = r.progress.Succeeded
	r.model.FailedCount = r.progress.Failed
	r.model.SkippedCount = r.progress.Skipped
	r.progress.Status = models.RunStatusCompleted
	err := r.rec.runs.Complete(ctx, r.model)
	r.rec.tracker.forget(r.model.ID)
	return r.progress, err
}
