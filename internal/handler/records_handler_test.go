package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fms-dashboard-api/internal/dto"
	"github.com/noah-isme/fms-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/fms-dashboard-api/pkg/errors"
)

func stringsReader(s string) *strings.Reader {
	return strings.NewReader(s)
}

type fakeRecordSrv struct {
	lastQuery      dto.RecordListQuery
	lastReporter   string
	lastStatusID   string
	lastStatus     string
	updateErr      error
	createdRequest dto.CreateServiceRequestRequest
}

func (f *fakeRecordSrv) ListServiceRequests(_ context.Context, query dto.RecordListQuery) ([]models.ServiceRequest, *models.Pagination, error) {
	f.lastQuery = query
	return []models.ServiceRequest{{ID: "sr-1"}}, &models.Pagination{Page: query.Page, PageSize: query.PageSize, TotalCount: 1}, nil
}

func (f *fakeRecordSrv) CreateServiceRequest(_ context.Context, req dto.CreateServiceRequestRequest, reportedBy string) (*models.ServiceRequest, error) {
	f.createdRequest = req
	f.lastReporter = reportedBy
	return &models.ServiceRequest{ID: "sr-2", Title: req.Title, Status: models.ServiceRequestOpen}, nil
}

func (f *fakeRecordSrv) UpdateServiceRequestStatus(_ context.Context, id string, req dto.UpdateServiceRequestStatusRequest) error {
	f.lastStatusID, f.lastStatus = id, req.Status
	return f.updateErr
}

func (f *fakeRecordSrv) ListWorkOrders(_ context.Context, query dto.RecordListQuery) ([]models.WorkOrder, *models.Pagination, error) {
	f.lastQuery = query
	return []models.WorkOrder{}, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (f *fakeRecordSrv) CreateWorkOrder(_ context.Context, req dto.CreateWorkOrderRequest) (*models.WorkOrder, error) {
	return &models.WorkOrder{ID: "wo-1", Title: req.Title}, nil
}

func (f *fakeRecordSrv) UpdateWorkOrderStatus(_ context.Context, id string, req dto.UpdateWorkOrderStatusRequest) error {
	f.lastStatusID, f.lastStatus = id, req.Status
	return f.updateErr
}

func (f *fakeRecordSrv) ListAssets(_ context.Context, query dto.RecordListQuery) ([]models.Asset, *models.Pagination, error) {
	f.lastQuery = query
	return []models.Asset{}, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (f *fakeRecordSrv) CreateAsset(_ context.Context, req dto.CreateAssetRequest) (*models.Asset, error) {
	return &models.Asset{ID: "as-1", Name: req.Name}, nil
}

func newRecordRouter(srv *fakeRecordSrv) *gin.Engine {
	h := NewRecordHandler(srv)
	r := gin.New()
	r.Use(withClaims(models.RoleRequester))
	r.GET("/service-requests", h.ListServiceRequests)
	r.POST("/service-requests", h.CreateServiceRequest)
	r.PATCH("/service-requests/:id/status", h.UpdateServiceRequestStatus)
	r.GET("/work-orders", h.ListWorkOrders)
	r.POST("/work-orders", h.CreateWorkOrder)
	r.PATCH("/work-orders/:id/status", h.UpdateWorkOrderStatus)
	r.GET("/assets", h.ListAssets)
	r.POST("/assets", h.CreateAsset)
	return r
}

func TestRecordHandlerListParsesPaging(t *testing.T) {
	srv := &fakeRecordSrv{}
	r := newRecordRouter(srv)

	rec, envelope := perform(r, http.MethodGet, "/service-requests?status=open&page=2&page_size=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.RecordListQuery{Status: "open", Page: 2, PageSize: 5}, srv.lastQuery)
	assert.EqualValues(t, 2, envelope.Pagination["page"])

	perform(r, http.MethodGet, "/assets?page=abc", "")
	assert.Equal(t, 0, srv.lastQuery.Page)
	assert.Equal(t, 20, srv.lastQuery.PageSize)
}

func TestRecordHandlerCreateServiceRequest(t *testing.T) {
	srv := &fakeRecordSrv{}
	r := newRecordRouter(srv)

	rec, envelope := perform(r, http.MethodPost, "/service-requests", `{"title":"Leak","category":"plumbing","priority":"high","location":"A"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user-1", srv.lastReporter)
	assert.Equal(t, "Leak", srv.createdRequest.Title)
	assert.Equal(t, "sr-2", envelope.Data["id"])
}

func TestRecordHandlerRejectsMalformedJSON(t *testing.T) {
	r := newRecordRouter(&fakeRecordSrv{})

	rec, envelope := perform(r, http.MethodPost, "/work-orders", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error["code"])
}

func TestRecordHandlerUpdateStatus(t *testing.T) {
	srv := &fakeRecordSrv{}
	r := newRecordRouter(srv)

	rec, _ := perform(r, http.MethodPatch, "/work-orders/wo-9/status", `{"status":"completed"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "wo-9", srv.lastStatusID)
	assert.Equal(t, "completed", srv.lastStatus)

	srv.updateErr = appErrors.Clone(appErrors.ErrNotFound, "service request not found")
	rec, envelope := perform(r, http.MethodPatch, "/service-requests/missing/status", `{"status":"closed"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "service request not found", envelope.Error["message"])
}

func TestRecordHandlerCreateWorkOrderAndAsset(t *testing.T) {
	r := newRecordRouter(&fakeRecordSrv{})

	rec, _ := perform(r, http.MethodPost, "/work-orders", `{"title":"PPM","type":"preventive","priority":"low"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, envelope := perform(r, http.MethodPost, "/assets", `{"name":"AHU-1","category":"hvac","location":"Roof"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "AHU-1", envelope.Data["name"])
}
