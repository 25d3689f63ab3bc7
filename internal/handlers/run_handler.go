package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mall-site-backend/internal/logger"
	"mall-site-backend/internal/models"
	"mall-site-backend/internal/services/batch"
)

type RunStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.ImportRun, error)
	LogoHistory(ctx context.Context, storeID uint) ([]models.LogoAuditLog, error)
}

type RunHandler struct {
	log     *logger.Logger
	tracker *batch.Tracker
	runs    RunStore
}

func NewRunHandler(log *logger.Logger, tracker *batch.Tracker, runs RunStore) *RunHandler {
	return &RunHandler{log: log.With("handler", "RunHandler"), tracker: tracker, runs: runs}
}

// GetRun reports live progress while the run is in flight and the stored record afterwards.
func (h *RunHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid run ID")
		return
	}
	if p, ok := h.tracker.Get(id); ok {
		c.JSON(http.StatusOK, p)
		return
	}
	run, err := h.runs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, batch.Progress{
		RunID:     run.ID,
		Kind:      run.Kind,
		Total:     run.Total,
		Processed: run.ProcessedCount,
		Succeeded: run.SucceededCount,
		Failed:    run.FailedCount,
		Skipped:   run.SkippedCount,
		Status:    run.Status,
	})
}

func (h *RunHandler) LogoHistory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entries, err := h.runs.LogoHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}
