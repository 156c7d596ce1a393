package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dealdesk/internal/export"
	"dealdesk/internal/filter"
	"dealdesk/internal/service"
)

type ExportsHandler struct {
	Analytics *service.AnalyticsService
	Filters   *filter.Store
	Logger    *zap.Logger
}

// ginEmitter delivers serialized reports as file downloads.
type ginEmitter struct {
	c *gin.Context
}

func (e ginEmitter) Emit(content []byte, filename, mimeType string) {
	e.c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	e.c.Data(http.StatusOK, mimeType, content)
}

func (h *ExportsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/exports")
	group.GET("/deals", h.deals)
	group.GET("/kpis", h.kpis)
	group.GET("/monthly", h.monthly)
	group.GET("/deal-types", h.dealTypes)
	group.GET("/compensation", h.compensation)
	group.GET("/accuracy", h.accuracy)
	group.GET("/comprehensive", h.comprehensive)
}

func (h *ExportsHandler) filename(c *gin.Context, prefix string) string {
	token := c.Query("range")
	if token == "" {
		token = "all"
	}
	return export.ReportFilename(prefix, token, time.Now().UTC())
}

// @Summary Download deals as CSV
// @Tags exports
// @Param filtered query bool false "export only deals matching the stored filters"
// @Success 200 {string} string "CSV file"
// @Router /api/exports/deals [get]
func (h *ExportsHandler) deals(c *gin.Context) {
	if h.Analytics == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	records, err := h.Analytics.Records(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if c.Query("filtered") == "true" && h.Filters != nil {
		h.Filters.SetDeals(records)
		records = h.Filters.FilteredDeals()
	}
	export.CSVFile(ginEmitter{c}, export.DealsReport(records), h.filename(c, "deals_export"))
}

// @Summary Download the KPI trend table as CSV
// @Tags exports
// @Param range query string false "date range token"
// @Success 200 {string} string "CSV file"
// @Router /api/exports/kpis [get]
func (h *ExportsHandler) kpis(c *gin.Context) {
	if h.Analytics == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	result, err := h.Analytics.Overview(c.Request.Context(), c.Query("range"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	export.CSVFile(ginEmitter{c}, export.KPIReport(result), h.filename(c, "kpi_report"))
}

// @Summary Download the monthly series as CSV
// @Tags exports
// @Success 200 {string} string "CSV file"
// @Router /api/exports/monthly [get]
func (h *ExportsHandler) monthly(c *gin.Context) {
	if h.Analytics == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	series, err := h.Analytics.Monthly(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	export.CSVFile(ginEmitter{c}, export.MonthlyReport(series), h.filename(c, "monthly_report"))
}

// @Summary Download the deal-type breakdown as CSV
// @Tags exports
// @Param range query string false "date range token"
// @Success 200 {string} string "CSV file"
// @Router /api/exports/deal-types [get]
func (h *ExportsHandler) dealTypes(c *gin.Context) {
	if h.Analytics == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	types, err := h.Analytics.DealTypes(c.Request.Context(), c.Query("range"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	export.CSVFile(ginEmitter{c}, export.DealTypeReport(types), h.filename(c, "deal_types_report"))
}

// @Summary Download the compensation histogram as CSV
// @Tags exports
// @Param range query string false "date range token"
// @Success 200 {string} string "CSV file"
// @Router /api/exports/compensation [get]
func (h *ExportsHandler) compensation(c *gin.Context) {
	if h.Analytics == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	bands, err := h.Analytics.Compensation(c.Request.Context(), c.Query("range"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	export.CSVFile(ginEmitter{c}, export.CompensationReport(bands), h.filename(c, "compensation_report"))
}

// @Summary Download prediction accuracy as CSV
// @Tags exports
// @Param range query string false "date range token"
// @Success 200 {string} string "CSV file"
// @Router /api/exports/accuracy [get]
func (h *ExportsHandler) accuracy(c *gin.Context) {
	if h.Analytics == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	acc, err := h.Analytics.Accuracy(c.Request.Context(), c.Query("range"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	export.CSVFile(ginEmitter{c}, export.AccuracyReport(acc), h.filename(c, "prediction_accuracy_report"))
}

// @Summary Download the comprehensive report as JSON
// @Tags exports
// @Param range query string false "date range token"
// @Success 200 {string} string "JSON file"
// @Router /api/exports/comprehensive [get]
func (h *ExportsHandler) comprehensive(c *gin.Context) {
	if h.Analytics == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	report, err := h.Analytics.Comprehensive(c.Request.Context(), c.Query("range"))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	export.JSONFile(ginEmitter{c}, report, h.filename(c, "analytics_report"))
}
