package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fms-dashboard-api/internal/dto"
	"github.com/noah-isme/fms-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/fms-dashboard-api/pkg/errors"
	"github.com/noah-isme/fms-dashboard-api/pkg/response"
)

type recordService interface {
	ListServiceRequests(ctx context.Context, query dto.RecordListQuery) ([]models.ServiceRequest, *models.Pagination, error)
	CreateServiceRequest(ctx context.Context, req dto.CreateServiceRequestRequest, reportedBy string) (*models.ServiceRequest, error)
	UpdateServiceRequestStatus(ctx context.Context, id string, req dto.UpdateServiceRequestStatusRequest) error
	ListWorkOrders(ctx context.Context, query dto.RecordListQuery) ([]models.WorkOrder, *models.Pagination, error)
	CreateWorkOrder(ctx context.Context, req dto.CreateWorkOrderRequest) (*models.WorkOrder, error)
	UpdateWorkOrderStatus(ctx context.Context, id string, req dto.UpdateWorkOrderStatusRequest) error
	ListAssets(ctx context.Context, query dto.RecordListQuery) ([]models.Asset, *models.Pagination, error)
	CreateAsset(ctx context.Context, req dto.CreateAssetRequest) (*models.Asset, error)
}

// RecordHandler exposes service request, work order and asset endpoints.
type RecordHandler struct {
	records recordService
}

// NewRecordHandler constructs RecordHandler.
func NewRecordHandler(records recordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// ListServiceRequests godoc
// @Summary List service requests
// @Tags Records
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /service-requests [get]
func (h *RecordHandler) ListServiceRequests(c *gin.Context) {
	items, pagination, err := h.records.ListServiceRequests(c.Request.Context(), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// CreateServiceRequest godoc
// @Summary Raise a service request
// @Tags Records
// @Accept json
// @Produce json
// @Param payload body dto.CreateServiceRequestRequest true "Service request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /service-requests [post]
func (h *RecordHandler) CreateServiceRequest(c *gin.Context) {
	var req dto.CreateServiceRequestRequest
	if !bindJSON(c, &req) {
		return
	}
	reportedBy := ""
	if claims := claimsFromContext(c); claims != nil {
		reportedBy = claims.UserID
	}
	record, err := h.records.CreateServiceRequest(c.Request.Context(), req, reportedBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// UpdateServiceRequestStatus godoc
// @Summary Change a service request status
// @Tags Records
// @Accept json
// @Param id path string true "Service request ID"
// @Param payload body dto.UpdateServiceRequestStatusRequest true "Status payload"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /service-requests/{id}/status [patch]
func (h *RecordHandler) UpdateServiceRequestStatus(c *gin.Context) {
	var req dto.UpdateServiceRequestStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.records.UpdateServiceRequestStatus(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListWorkOrders godoc
// @Summary List work orders
// @Tags Records
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /work-orders [get]
func (h *RecordHandler) ListWorkOrders(c *gin.Context) {
	items, pagination, err := h.records.ListWorkOrders(c.Request.Context(), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// CreateWorkOrder godoc
// @Summary Create a work order
// @Tags Records
// @Accept json
// @Produce json
// @Param payload body dto.CreateWorkOrderRequest true "Work order payload"
// @Success 201 {object} response.Envelope
// @Router /work-orders [post]
func (h *RecordHandler) CreateWorkOrder(c *gin.Context) {
	var req dto.CreateWorkOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.records.CreateWorkOrder(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, order)
}

// UpdateWorkOrderStatus godoc
// @Summary Change a work order status
// @Tags Records
// @Accept json
// @Param id path string true "Work order ID"
// @Param payload body dto.UpdateWorkOrderStatusRequest true "Status payload"
// @Success 204
// @Router /work-orders/{id}/status [patch]
func (h *RecordHandler) UpdateWorkOrderStatus(c *gin.Context) {
	var req dto.UpdateWorkOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.records.UpdateWorkOrderStatus(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListAssets godoc
// @Summary List assets
// @Tags Records
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /assets [get]
func (h *RecordHandler) ListAssets(c *gin.Context) {
	items, pagination, err := h.records.ListAssets(c.Request.Context(), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// CreateAsset godoc
// @Summary Register an asset
// @Tags Records
// @Accept json
// @Produce json
// @Param payload body dto.CreateAssetRequest true "Asset payload"
// @Success 201 {object} response.Envelope
// @Router /assets [post]
func (h *RecordHandler) CreateAsset(c *gin.Context) {
	var req dto.CreateAssetRequest
	if !bindJSON(c, &req) {
		return
	}
	asset, err := h.records.CreateAsset(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, asset)
}

func listQuery(c *gin.Context) dto.RecordListQuery {
	query := dto.RecordListQuery{Status: strings.TrimSpace(c.Query("status"))}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		query.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "20")); err == nil {
		query.PageSize = size
	}
	return query
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}
