package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fms-dashboard-api/internal/dto"
	"github.com/noah-isme/fms-dashboard-api/internal/middleware"
	"github.com/noah-isme/fms-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/fms-dashboard-api/pkg/errors"
	"github.com/noah-isme/fms-dashboard-api/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context, query dto.DashboardQuery, role models.UserRole) (*dto.DashboardResponse, bool, error)
}

type dashboardExporter interface {
	Export(ctx context.Context, query dto.DashboardQuery, format models.ExportFormat, role models.UserRole) (*models.ExportResult, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service  dashboardService
	exporter dashboardExporter
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService, exporter dashboardExporter) *DashboardHandler {
	return &DashboardHandler{service: service, exporter: exporter}
}

// Summary godoc
// @Summary Facility dashboard metrics
// @Description Unusable window parameters fall back to the default window instead of failing.
// @Tags Dashboard
// @Produce json
// @Param window query string false "weekly, monthly, quarterly, yearly or custom"
// @Param start query string false "Custom range start (YYYY-MM-DD)"
// @Param end query string false "Custom range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.DashboardQuery
	_ = c.ShouldBindQuery(&query)

	summary, cacheHit, err := h.service.Summary(c.Request.Context(), query, roleFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Export the dashboard as CSV or PDF
// @Tags Dashboard
// @Produce json
// @Param format query string false "csv (default) or pdf"
// @Param window query string false "Window selection"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /dashboard/exports [post]
func (h *DashboardHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export service not configured"))
		return
	}
	var query dto.DashboardQuery
	_ = c.ShouldBindQuery(&query)

	result, err := h.exporter.Export(c.Request.Context(), query, models.ExportFormat(c.Query("format")), roleFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
