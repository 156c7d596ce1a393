package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dealdesk/internal/repository"
	"dealdesk/internal/service"
	"dealdesk/internal/ws"
)

type AnalyticsHandler struct {
	Service *service.AnalyticsService
	Repo    repository.Repository
	Hub     *ws.Hub
	Logger  *zap.Logger
}

func (h *AnalyticsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/analytics")
	group.GET("/overview", h.overview)
	group.GET("/monthly", h.monthly)
	group.GET("/deal-types", h.dealTypes)
	group.GET("/compensation", h.compensation)
	group.GET("/outcomes", h.outcomes)
	group.GET("/accuracy", h.accuracy)
	group.GET("/comprehensive", h.comprehensive)
	group.GET("/snapshots", h.snapshots)
	group.GET("/live", h.live)
}

// @Summary KPI overview with period-over-period trends
// @Tags analytics
// @Param range query string false "date range token (7d|30d|90d|1y|all)"
// @Success 200 {object} apiResponse
// @Router /api/analytics/overview [get]
func (h *AnalyticsHandler) overview(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	result, err := h.Service.Overview(c.Request.Context(), c.Query("range"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

// @Summary Trailing twelve month deal series
// @Tags analytics
// @Success 200 {object} apiResponse
// @Router /api/analytics/monthly [get]
func (h *AnalyticsHandler) monthly(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	series, err := h.Service.Monthly(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, series, nil)
}

// @Summary Deal counts and value by type
// @Tags analytics
// @Param range query string false "date range token"
// @Success 200 {object} apiResponse
// @Router /api/analytics/deal-types [get]
func (h *AnalyticsHandler) dealTypes(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	types, err := h.Service.DealTypes(c.Request.Context(), c.Query("range"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, types, nil)
}

// @Summary Compensation histogram
// @Tags analytics
// @Param range query string false "date range token"
// @Success 200 {object} apiResponse
// @Router /api/analytics/compensation [get]
func (h *AnalyticsHandler) compensation(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	bands, err := h.Service.Compensation(c.Request.Context(), c.Query("range"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, bands, nil)
}

// @Summary Clearinghouse and valuation outcome counts
// @Tags analytics
// @Param range query string false "date range token"
// @Success 200 {object} apiResponse
// @Router /api/analytics/outcomes [get]
func (h *AnalyticsHandler) outcomes(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	out, err := h.Service.Outcomes(c.Request.Context(), c.Query("range"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, out, nil)
}

// @Summary Prediction accuracy per analysis family
// @Tags analytics
// @Param range query string false "date range token"
// @Success 200 {object} apiResponse
// @Router /api/analytics/accuracy [get]
func (h *AnalyticsHandler) accuracy(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	acc, err := h.Service.Accuracy(c.Request.Context(), c.Query("range"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, acc, nil)
}

// @Summary Full analytics report envelope
// @Tags analytics
// @Param range query string false "date range token"
// @Success 200 {object} apiResponse
// @Router /api/analytics/comprehensive [get]
func (h *AnalyticsHandler) comprehensive(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	report, err := h.Service.Comprehensive(c.Request.Context(), c.Query("range"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, report, nil)
}

// @Summary List captured analytics snapshots
// @Tags analytics
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param range query string false "date range token"
// @Success 200 {object} apiResponse
// @Router /api/analytics/snapshots [get]
func (h *AnalyticsHandler) snapshots(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	items, err := h.Repo.ListSnapshots(c.Request.Context(), repository.ListSnapshotsParams{
		Limit:      intQuery(c, "limit", 50),
		Offset:     intQuery(c, "offset", 0),
		RangeToken: strQueryPtr(c, "range"),
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

// @Summary Subscribe to live KPI updates over websocket
// @Tags analytics
// @Router /api/analytics/live [get]
func (h *AnalyticsHandler) live(c *gin.Context) {
	if h.Hub == nil {
		Error(c, http.StatusInternalServerError, "hub unavailable", nil)
		return
	}
	h.Hub.Serve(c.Writer, c.Request)
}
