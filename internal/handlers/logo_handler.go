package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"mall-site-backend/internal/apperr"
	"mall-site-backend/internal/logger"
	"mall-site-backend/internal/services/logos"
	"mall-site-backend/internal/services/matching"
)

const maxLogoUpload = 64 << 20

type LogoHandler struct {
	log   *logger.Logger
	logos *logos.Service
}

func NewLogoHandler(log *logger.Logger, svc *logos.Service) *LogoHandler {
	return &LogoHandler{log: log.With("handler", "LogoHandler"), logos: svc}
}

// Match proposes a store for every uploaded file and appends the proposals to the session the
// client sent back (form field "session", a JSON list). Only file names are read.
func (h *LogoHandler) Match(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "multipart form required")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		badRequest(c, "files required")
		return
	}

	var session []matching.FileAssociation
	if raw := c.PostForm("session"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &session); err != nil {
			badRequest(c, "invalid session")
			return
		}
	}

	names := make([]string, 0, len(files))
	for _, fh := range files {
		names = append(names, fh.Filename)
	}
	proposed, err := h.logos.MatchAgainstStores(c.Request.Context(), names)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	items := matching.Append(session, proposed)
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Edit applies one manual change to the session: override, remove or skip.
func (h *LogoHandler) Edit(c *gin.Context) {
	var payload struct {
		Items   []matching.FileAssociation `json:"items"`
		Index   int                        `json:"index"`
		Action  string                     `json:"action" binding:"required,oneof=override remove skip"`
		StoreID uint                       `json:"store_id"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid payload")
		return
	}

	var (
		items []matching.FileAssociation
		err   error
	)
	switch payload.Action {
	case "override":
		items, err = h.override(c, payload.Items, payload.Index, payload.StoreID)
	case "remove":
		items, err = matching.Remove(payload.Items, payload.Index)
	case "skip":
		items, err = matching.Skip(payload.Items, payload.Index)
	}
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeInternal {
			err = apperr.Validation(err.Error())
		}
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *LogoHandler) override(c *gin.Context, items []matching.FileAssociation, index int, storeID uint) ([]matching.FileAssociation, error) {
	candidates, err := h.logos.Candidates(c.Request.Context())
	if err != nil {
		return nil, err
	}
	for _, cand := range candidates {
		if cand.ID == storeID {
			return matching.Override(items, index, cand)
		}
	}
	return nil, apperr.NotFound("store not found")
}

// Commit uploads the resolved pending files. The form carries the files ("files") and the
// reviewed session ("associations"); files are paired with associations by file name, and
// same-named files in the order they were uploaded.
func (h *LogoHandler) Commit(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxLogoUpload); err != nil {
		badRequest(c, "multipart form required")
		return
	}
	var items []matching.FileAssociation
	if err := json.Unmarshal([]byte(c.PostForm("associations")), &items); err != nil {
		badRequest(c, "invalid associations")
		return
	}
	sources := pairSources(items, c.Request.MultipartForm.File["files"])

	if !wantsStream(c) {
		result, err := h.logos.Commit(c.Request.Context(), items, sources, nil)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	started := false
	result, err := h.logos.Commit(c.Request.Context(), items, sources, func(ev logos.Event) {
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

// pairSources lines uploaded files up with items. Files sharing a name are consumed in upload
// order: when there are enough of them every same-named item takes the next one, otherwise only
// the items the commit will upload do. An item without a file gets a nil source, which the
// commit reports as an error if the item is eligible.
func pairSources(items []matching.FileAssociation, files []*multipart.FileHeader) []logos.Source {
	queues := make(map[string][]*multipart.FileHeader, len(files))
	for _, fh := range files {
		queues[fh.Filename] = append(queues[fh.Filename], fh)
	}
	wanted := make(map[string]int, len(items))
	for _, item := range items {
		wanted[item.FileName]++
	}

	sources := make([]logos.Source, len(items))
	for i, item := range items {
		queue := queues[item.FileName]
		if len(queue) == 0 {
			continue
		}
		eligible := item.Status.IsPending() && item.Resolved()
		if len(queue) < wanted[item.FileName] && !eligible {
			wanted[item.FileName]--
			continue
		}
		fh := queue[0]
		queues[item.FileName] = queue[1:]
		wanted[item.FileName]--
		sources[i] = logos.SourceFunc(func() (io.ReadCloser, error) { return fh.Open() })
	}
	return sources
}
