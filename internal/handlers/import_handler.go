package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mall-site-backend/internal/apperr"
	"mall-site-backend/internal/logger"
	"mall-site-backend/internal/services/importer"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxImportUpload = 16 << 20
)

type ImportHandler struct {
	log      *logger.Logger
	importer *importer.Service
}

func NewImportHandler(log *logger.Logger, svc *importer.Service) *ImportHandler {
	return &ImportHandler{log: log.With("handler", "ImportHandler"), importer: svc}
}

func (h *ImportHandler) Template(c *gin.Context) {
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="magaza-sablonu.xlsx"`)
	if err := importer.WriteTemplate(c.Writer); err != nil {
		h.log.Error("Failed to write import template", "error", err)
		c.Status(http.StatusInternalServerError)
	}
}

// Preview parses an uploaded workbook into reviewable rows. Nothing is written.
func (h *ImportHandler) Preview(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportUpload)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		badRequest(c, "file required")
		return
	}
	defer file.Close()

	rows, err := importer.ParseFile(header.Filename, file)
	if err != nil {
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			badRequest(c, err.Error())
			return
		}
		respondError(c, h.log, err)
		return
	}
	rows, err = h.importer.Preview(c.Request.Context(), rows)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Info("Import previewed", "file", header.Filename, "rows", len(rows))
	c.JSON(http.StatusOK, gin.H{"filename": header.Filename, "rows": rows})
}

// Skip marks one previewed row as skipped.
func (h *ImportHandler) Skip(c *gin.Context) {
	var payload struct {
		Rows  []importer.ImportRow `json:"rows"`
		Index int                  `json:"index"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	rows, err := importer.SkipRow(payload.Rows, payload.Index)
	if err != nil {
		respondError(c, h.log, apperr.Validation(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// Commit creates the reviewed rows. With Accept: text/event-stream one "progress" event is sent
// per row and a final "done" event carries the result.
func (h *ImportHandler) Commit(c *gin.Context) {
	var payload struct {
		Filename string               `json:"filename"`
		Rows     []importer.ImportRow `json:"rows" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid payload")
		return
	}

	if !wantsStream(c) {
		result, err := h.importer.Commit(c.Request.Context(), payload.Filename, payload.Rows, nil)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	started := false
	result, err := h.importer.Commit(c.Request.Context(), payload.Filename, payload.Rows, func(ev importer.Event) {
		if !started {
			startStream(c)
			started = true
		}
		sendEvent(c, "progress", ev)
	})
	if err != nil {
		if !started {
			respondError(c, h.log, err)
			return
		}
		sendEvent(c, "error", APIError{Message: err.Error(), Code: string(apperr.CodeOf(err))})
		return
	}
	if !started {
		startStream(c)
	}
	sendEvent(c, "done", result)
}
