package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/fms-dashboard-api/internal/dto"
	"github.com/noah-isme/fms-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/fms-dashboard-api/pkg/errors"
	"github.com/noah-isme/fms-dashboard-api/pkg/jobs"
)

// JobDashboardRefresh is the job type emitted after every record write.
const JobDashboardRefresh = "dashboard.refresh"

type serviceRequestStore interface {
	ListPage(ctx context.Context, filter models.RecordFilter) ([]models.ServiceRequest, int, error)
	Create(ctx context.Context, req *models.ServiceRequest) error
	UpdateStatus(ctx context.Context, id string, status models.ServiceRequestStatus, at time.Time) error
}

type workOrderStore interface {
	ListPage(ctx context.Context, filter models.RecordFilter) ([]models.WorkOrder, int, error)
	Create(ctx context.Context, order *models.WorkOrder) error
	UpdateStatus(ctx context.Context, id string, status models.WorkOrderStatus, at time.Time) error
}

type assetStore interface {
	ListPage(ctx context.Context, filter models.RecordFilter) ([]models.Asset, int, error)
	Create(ctx context.Context, asset *models.Asset) error
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// RecordServiceParams groups constructor dependencies.
type RecordServiceParams struct {
	ServiceRequests serviceRequestStore
	WorkOrders      workOrderStore
	Assets          assetStore
	Refresh         jobEnqueuer
	Validator       *validator.Validate
	Logger          *zap.Logger
}

// RecordService handles writes to the facility collections and schedules
// dashboard refreshes after each one.
type RecordService struct {
	requests  serviceRequestStore
	orders    workOrderStore
	assets    assetStore
	refresh   jobEnqueuer
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewRecordService constructs a RecordService.
func NewRecordService(params RecordServiceParams) *RecordService {
	if params.Validator == nil {
		params.Validator = validator.New()
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	return &RecordService{
		requests:  params.ServiceRequests,
		orders:    params.WorkOrders,
		assets:    params.Assets,
		refresh:   params.Refresh,
		validator: params.Validator,
		logger:    params.Logger,
		now:       time.Now,
	}
}

// ListServiceRequests pages through complaints.
func (s *RecordService) ListServiceRequests(ctx context.Context, query dto.RecordListQuery) ([]models.ServiceRequest, *models.Pagination, error) {
	filter := toFilter(query)
	items, total, err := s.requests.ListPage(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list service requests")
	}
	return items, pagination(filter, total), nil
}

// CreateServiceRequest validates and stores a new complaint.
func (s *RecordService) CreateServiceRequest(ctx context.Context, req dto.CreateServiceRequestRequest, reportedBy string) (*models.ServiceRequest, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	record := &models.ServiceRequest{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Location:    req.Location,
		Status:      models.ServiceRequestOpen,
		CreatedAt:   models.NewTimestamp(now),
		UpdatedAt:   models.NewTimestamp(now),
	}
	if reportedBy != "" {
		record.ReportedBy = &reportedBy
	}
	if err := s.requests.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create service request")
	}
	s.scheduleRefresh("service_request.created", record.ID)
	return record, nil
}

// UpdateServiceRequestStatus moves a complaint to a new status.
func (s *RecordService) UpdateServiceRequestStatus(ctx context.Context, id string, req dto.UpdateServiceRequestStatusRequest) error {
	if err := s.validate(req); err != nil {
		return err
	}
	err := s.requests.UpdateStatus(ctx, id, models.ServiceRequestStatus(req.Status), s.now().UTC())
	if err := writeError(err, "service request"); err != nil {
		return err
	}
	s.scheduleRefresh("service_request.status", id)
	return nil
}

// ListWorkOrders pages through work orders.
func (s *RecordService) ListWorkOrders(ctx context.Context, query dto.RecordListQuery) ([]models.WorkOrder, *models.Pagination, error) {
	filter := toFilter(query)
	items, total, err := s.orders.ListPage(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list work orders")
	}
	return items, pagination(filter, total), nil
}

// CreateWorkOrder validates and stores a new work order.
func (s *RecordService) CreateWorkOrder(ctx context.Context, req dto.CreateWorkOrderRequest) (*models.WorkOrder, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	order := &models.WorkOrder{
		ID:         uuid.NewString(),
		Title:      req.Title,
		Type:       models.WorkOrderType(req.Type),
		Status:     models.WorkOrderPending,
		Priority:   req.Priority,
		AssetID:    req.AssetID,
		AssignedTo: req.AssignedTo,
		CreatedAt:  models.NewTimestamp(s.now().UTC()),
	}
	if req.DueDate != nil {
		order.DueDate = models.ParseTimestamp(*req.DueDate)
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create work order")
	}
	s.scheduleRefresh("work_order.created", order.ID)
	return order, nil
}

// UpdateWorkOrderStatus changes work order progress.
func (s *RecordService) UpdateWorkOrderStatus(ctx context.Context, id string, req dto.UpdateWorkOrderStatusRequest) error {
	if err := s.validate(req); err != nil {
		return err
	}
	err := s.orders.UpdateStatus(ctx, id, models.WorkOrderStatus(req.Status), s.now().UTC())
	if err := writeError(err, "work order"); err != nil {
		return err
	}
	s.scheduleRefresh("work_order.status", id)
	return nil
}

// ListAssets pages through registered assets.
func (s *RecordService) ListAssets(ctx context.Context, query dto.RecordListQuery) ([]models.Asset, *models.Pagination, error) {
	filter := toFilter(query)
	items, total, err := s.assets.ListPage(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assets")
	}
	return items, pagination(filter, total), nil
}

// CreateAsset validates and registers an asset.
func (s *RecordService) CreateAsset(ctx context.Context, req dto.CreateAssetRequest) (*models.Asset, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	status := models.AssetStatus(req.Status)
	if status == "" {
		status = models.AssetActive
	}
	asset := &models.Asset{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Category:  req.Category,
		Location:  req.Location,
		Status:    status,
		CreatedAt: models.NewTimestamp(s.now().UTC()),
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create asset")
	}
	s.scheduleRefresh("asset.created", asset.ID)
	return asset, nil
}

func (s *RecordService) validate(payload interface{}) error {
	if err := s.validator.Struct(payload); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return nil
}

// scheduleRefresh never fails the write that triggered it.
func (s *RecordService) scheduleRefresh(reason, recordID string) {
	if s.refresh == nil {
		return
	}
	job := jobs.Job{
		ID:       uuid.NewString(),
		Type:     JobDashboardRefresh,
		Key:      JobDashboardRefresh,
		Payload:  reason,
		Enqueued: s.now().UTC(),
	}
	if err := s.refresh.Enqueue(job); err != nil {
		s.logger.Warn("dashboard refresh not scheduled", zap.String("reason", reason), zap.String("record_id", recordID), zap.Error(err))
	}
}

func writeError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, what+" not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update "+what)
}

func toFilter(query dto.RecordListQuery) models.RecordFilter {
	filter := models.RecordFilter{Status: query.Status, Page: query.Page, PageSize: query.PageSize}
	filter.Normalize()
	return filter
}

func pagination(filter models.RecordFilter, total int) *models.Pagination {
	return &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
}
