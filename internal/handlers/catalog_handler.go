package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mall-site-backend/internal/logger"
	"mall-site-backend/internal/services/catalog"
)

// CatalogHandler serves both the admin editors and the public site.
type CatalogHandler struct {
	log     *logger.Logger
	catalog *catalog.Service
}

func NewCatalogHandler(log *logger.Logger, svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{log: log.With("handler", "CatalogHandler"), catalog: svc}
}

// ---- stores ----

func (h *CatalogHandler) ListStores(c *gin.Context) {
	var filter catalog.StoreFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, "invalid filter")
		return
	}
	stores, err := h.catalog.ListStores(c.Request.Context(), c.Query("kind"), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": stores})
}

func (h *CatalogHandler) GetStore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	store, err := h.catalog.GetStore(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, store)
}

func (h *CatalogHandler) CreateStore(c *gin.Context) {
	var in catalog.StoreInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	store, err := h.catalog.CreateStore(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, store)
}

func (h *CatalogHandler) UpdateStore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in catalog.StoreInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	store, err := h.catalog.UpdateStore(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, store)
}

func (h *CatalogHandler) DeleteStore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteStore(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- categories ----

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": categories})
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var in catalog.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	category, err := h.catalog.CreateCategory(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in catalog.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	category, err := h.catalog.UpdateCategory(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- events ----

func (h *CatalogHandler) ListEvents(c *gin.Context) {
	events, err := h.catalog.ListEvents(c.Request.Context(), false)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": events})
}

func (h *CatalogHandler) CreateEvent(c *gin.Context) {
	var in catalog.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	ev, err := h.catalog.CreateEvent(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

func (h *CatalogHandler) UpdateEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in catalog.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	ev, err := h.catalog.UpdateEvent(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (h *CatalogHandler) DeleteEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteEvent(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- mall services ----

func (h *CatalogHandler) ListMallServices(c *gin.Context) {
	services, err := h.catalog.ListMallServices(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": services})
}

func (h *CatalogHandler) CreateMallService(c *gin.Context) {
	var in catalog.MallServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	svc, err := h.catalog.CreateMallService(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *CatalogHandler) UpdateMallService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in catalog.MallServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	svc, err := h.catalog.UpdateMallService(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *CatalogHandler) DeleteMallService(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteMallService(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- settings ----

func (h *CatalogHandler) ListSettings(c *gin.Context) {
	settings, err := h.catalog.ListSettings(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": settings})
}

func (h *CatalogHandler) PutSetting(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		badRequest(c, "cannot read body")
		return
	}
	setting, err := h.catalog.PutSetting(c.Request.Context(), c.Param("key"), raw)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

// ---- public ----

// PublicStores lists one kind of store with the directory filters applied. Floors are computed
// from the unfiltered list so the picker does not shrink as filters are applied.
func (h *CatalogHandler) PublicStores(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter catalog.StoreFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			badRequest(c, "invalid filter")
			return
		}
		all, err := h.catalog.ListStores(c.Request.Context(), kind, catalog.StoreFilter{})
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"items":  catalog.FilterStores(all, filter),
			"floors": catalog.Floors(all),
			"total":  len(all),
		})
	}
}

func (h *CatalogHandler) PublicStoreBySlug(c *gin.Context) {
	store, err := h.catalog.GetStoreBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, store)
}

func (h *CatalogHandler) PublicEvents(c *gin.Context) {
	events, err := h.catalog.ListEvents(c.Request.Context(), true)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": events})
}

func (h *CatalogHandler) PublicSettings(c *gin.Context) {
	settings, err := h.catalog.SettingsMap(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *CatalogHandler) GetSetting(c *gin.Context) {
	setting, err := h.catalog.GetSetting(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}

func (h *CatalogHandler) DeleteSetting(c *gin.Context) {
	if err := h.catalog.DeleteSetting(c.Request.Context(), c.Param("key")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
