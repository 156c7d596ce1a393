package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"dealdesk/internal/filter"
	"dealdesk/internal/models"
	"dealdesk/internal/repository"
	"dealdesk/internal/service"
)

type DealsHandler struct {
	Service *service.DealService
	Repo    repository.Repository
	Logger  *zap.Logger
}

func (h *DealsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/deals")
	group.GET("", h.list)
	group.POST("", h.create)
	group.POST("/query", h.query)
	group.GET("/:id", h.get)
	group.PUT("/:id", h.update)
	group.DELETE("/:id", h.delete)
}

// @Summary List deals
// @Tags deals
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param status query string false "status"
// @Param deal_type query string false "deal type"
// @Param school query string false "school"
// @Param order_by query string false "order by field"
// @Param ascending query bool false "ascending"
// @Success 200 {object} apiResponse
// @Router /api/deals [get]
func (h *DealsHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	params := repository.ListDealsParams{
		Limit:    limit,
		Offset:   offset,
		Status:   strQueryPtr(c, "status"),
		DealType: strQueryPtr(c, "deal_type"),
		School:   strQueryPtr(c, "school"),
		OrderBy: parseOrder(c.Query("order_by"), map[string]string{
			"created_at":   "created_at",
			"updated_at":   "updated_at",
			"fmv":          "fmv",
			"compensation": "compensation",
			"school":       "school",
			"status":       "status",
		}),
		Asc: boolQueryPtr(c, "ascending"),
	}
	items, err := h.Repo.ListDeals(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountDeals(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Get a deal
// @Tags deals
// @Param id path int true "deal id"
// @Success 200 {object} apiResponse
// @Router /api/deals/{id} [get]
func (h *DealsHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	item, err := h.Repo.GetDealByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "deal not found", nil)
		return
	}
	Ok(c, item, nil)
}

type dealRequest struct {
	AthleteName  string `json:"athlete_name"`
	BrandPartner string `json:"brand_partner"`
	PayorName    string `json:"payor_name"`
	School       string `json:"school"`
	Sport        string `json:"sport"`
	Description  string `json:"description"`

	DealType string `json:"deal_type"`
	Status   string `json:"status"`

	FMV          float64 `json:"fmv"`
	Compensation float64 `json:"compensation"`

	ClearinghousePrediction string  `json:"clearinghouse_prediction"`
	ClearinghouseResult     string  `json:"clearinghouse_result"`
	ValuationPrediction     string  `json:"valuation_prediction"`
	ValuationRange          string  `json:"valuation_range"`
	ActualCompensation      float64 `json:"actual_compensation"`

	Metadata any `json:"metadata"`
}

func (req dealRequest) toModel() (*models.Deal, error) {
	item := &models.Deal{
		AthleteName:             strings.TrimSpace(req.AthleteName),
		BrandPartner:            strings.TrimSpace(req.BrandPartner),
		PayorName:               strings.TrimSpace(req.PayorName),
		School:                  strings.TrimSpace(req.School),
		Sport:                   strings.TrimSpace(req.Sport),
		Description:             req.Description,
		DealType:                strings.TrimSpace(req.DealType),
		Status:                  strings.TrimSpace(req.Status),
		FMV:                     decimal.NewFromFloat(req.FMV),
		Compensation:            decimal.NewFromFloat(req.Compensation),
		ClearinghousePrediction: strings.TrimSpace(req.ClearinghousePrediction),
		ClearinghouseResult:     strings.TrimSpace(req.ClearinghouseResult),
		ValuationPrediction:     strings.TrimSpace(req.ValuationPrediction),
		ValuationRange:          strings.TrimSpace(req.ValuationRange),
		ActualCompensation:      decimal.NewFromFloat(req.ActualCompensation),
	}
	if item.DealType == "" {
		item.DealType = "simple"
	}
	if item.Status == "" {
		item.Status = "draft"
	}
	if req.Metadata != nil {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, err
		}
		item.Metadata = datatypes.JSON(raw)
	}
	return item, nil
}

// @Summary Create a deal
// @Tags deals
// @Param body body dealRequest true "deal"
// @Success 200 {object} apiResponse
// @Router /api/deals [post]
func (h *DealsHandler) create(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req dealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := req.toModel()
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid metadata", nil)
		return
	}
	if err := h.Service.Create(c.Request.Context(), item); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("create deal failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Update a deal
// @Tags deals
// @Param id path int true "deal id"
// @Param body body dealRequest true "deal"
// @Success 200 {object} apiResponse
// @Router /api/deals/{id} [put]
func (h *DealsHandler) update(c *gin.Context) {
	if h.Service == nil || h.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	existing, err := h.Repo.GetDealByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if existing == nil {
		Error(c, http.StatusNotFound, "deal not found", nil)
		return
	}
	var req dealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := req.toModel()
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid metadata", nil)
		return
	}
	item.ID = id
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = time.Now().UTC()
	if err := h.Service.Update(c.Request.Context(), item); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("update deal failed", zap.Uint64("id", id), zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Delete a deal
// @Tags deals
// @Param id path int true "deal id"
// @Success 200 {object} apiResponse
// @Router /api/deals/{id} [delete]
func (h *DealsHandler) delete(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"deleted": id}, nil)
}

type queryDealsRequest struct {
	Filters json.RawMessage   `json:"filters"`
	Sort    filter.SortConfig `json:"sort"`
}

// @Summary Filter and sort deals with the in-memory engine
// @Tags deals
// @Param body body queryDealsRequest true "filters and sort"
// @Success 200 {object} apiResponse
// @Router /api/deals/query [post]
func (h *DealsHandler) query(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req queryDealsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	st := filter.Defaults()
	if len(req.Filters) > 0 {
		merged, err := filter.StateFromJSON(req.Filters)
		if err != nil {
			Error(c, http.StatusBadRequest, "invalid filters", nil)
			return
		}
		st = merged
	}
	items, err := h.Service.Query(c.Request.Context(), st, req.Sort)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"count": len(items)})
}

func idParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func boolQueryPtr(c *gin.Context, key string) *bool {
	if val := c.Query(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return &b
		}
	}
	return nil
}

func strQueryPtr(c *gin.Context, key string) *string {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		return &val
	}
	return nil
}

func parseOrder(value string, allow map[string]string) string {
	key := strings.TrimSpace(strings.ToLower(value))
	if key == "" {
		return ""
	}
	if mapped, ok := allow[key]; ok {
		return mapped
	}
	return ""
}

func paginationMeta(limit, offset int, total int64) map[string]any {
	if limit <= 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	hasNext := int64(offset+limit) < total
	return map[string]any{
		"limit":    limit,
		"offset":   offset,
		"total":    total,
		"has_next": hasNext,
	}
}
