package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dealdesk/internal/filter"
)

type FiltersHandler struct {
	Store  *filter.Store
	Logger *zap.Logger
}

func (h *FiltersHandler) Register(r *gin.Engine) {
	group := r.Group("/api/filters")
	group.GET("", h.get)
	group.PATCH("", h.update)
	group.POST("/reset", h.reset)
	group.POST("/clear/:key", h.clear)
	group.POST("/preset/:name", h.preset)
	group.GET("/export", h.export)
	group.POST("/import", h.importState)
	group.GET("/results", h.results)
}

// @Summary Current filter state
// @Tags filters
// @Success 200 {object} apiResponse
// @Router /api/filters [get]
func (h *FiltersHandler) get(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "store unavailable", nil)
		return
	}
	Ok(c, h.Store.Filters(), map[string]any{
		"active_count": h.Store.ActiveFilterCount(),
		"summary":      h.Store.Summary(),
	})
}

// @Summary Apply a partial filter update
// @Tags filters
// @Param body body filter.Patch true "partial state"
// @Success 200 {object} apiResponse
// @Router /api/filters [patch]
func (h *FiltersHandler) update(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "store unavailable", nil)
		return
	}
	var p filter.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	h.Store.Update(p)
	Ok(c, h.Store.Filters(), map[string]any{
		"active_count": h.Store.ActiveFilterCount(),
	})
}

// @Summary Reset all filters to defaults
// @Tags filters
// @Success 200 {object} apiResponse
// @Router /api/filters/reset [post]
func (h *FiltersHandler) reset(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "store unavailable", nil)
		return
	}
	h.Store.Reset()
	Ok(c, h.Store.Filters(), nil)
}

// @Summary Reset a single filter field to its default
// @Tags filters
// @Param key path string true "field key (search|dealTypes|statuses|schools|dateRange|fmvRange|analysisResults)"
// @Success 200 {object} apiResponse
// @Router /api/filters/clear/{key} [post]
func (h *FiltersHandler) clear(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "store unavailable", nil)
		return
	}
	h.Store.Clear(strings.TrimSpace(c.Param("key")))
	Ok(c, h.Store.Filters(), nil)
}

// @Summary Apply a named quick-filter preset
// @Tags filters
// @Param name path string true "preset name (recent|high-value|active|draft|completed|simple|clearinghouse|valuation)"
// @Success 200 {object} apiResponse
// @Router /api/filters/preset/{name} [post]
func (h *FiltersHandler) preset(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "store unavailable", nil)
		return
	}
	name := strings.TrimSpace(c.Param("name"))
	if !h.Store.ApplyPreset(name) {
		Error(c, http.StatusBadRequest, "unknown preset", nil)
		return
	}
	Ok(c, h.Store.Filters(), nil)
}

// @Summary Export the filter state for sharing
// @Tags filters
// @Success 200 {object} apiResponse
// @Router /api/filters/export [get]
func (h *FiltersHandler) export(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "store unavailable", nil)
		return
	}
	Ok(c, h.Store.Export(), nil)
}

// @Summary Import a previously exported filter state
// @Tags filters
// @Success 200 {object} apiResponse
// @Router /api/filters/import [post]
func (h *FiltersHandler) importState(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "store unavailable", nil)
		return
	}
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if !h.Store.Import(data) {
		Error(c, http.StatusBadRequest, "invalid filter payload", nil)
		return
	}
	Ok(c, h.Store.Filters(), nil)
}

// @Summary Deals matching the stored filter state
// @Tags filters
// @Success 200 {object} apiResponse
// @Router /api/filters/results [get]
func (h *FiltersHandler) results(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "store unavailable", nil)
		return
	}
	items := h.Store.FilteredDeals()
	Ok(c, items, map[string]any{"count": len(items)})
}
