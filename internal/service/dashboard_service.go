package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/fms-dashboard-api/internal/dto"
	"github.com/noah-isme/fms-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/fms-dashboard-api/pkg/errors"
	"github.com/noah-isme/fms-dashboard-api/pkg/timewindow"
)

const (
	dashboardCachePrefix = "fms:dash:"
	dashboardDatasetKey  = dashboardCachePrefix + "dataset"
)

type serviceRequestLister interface {
	List(ctx context.Context) ([]models.ServiceRequest, error)
}

type workOrderLister interface {
	List(ctx context.Context) ([]models.WorkOrder, error)
}

type assetLister interface {
	List(ctx context.Context) ([]models.Asset, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL      time.Duration
	Location      *time.Location
	DefaultWindow timewindow.Kind
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	ServiceRequests serviceRequestLister
	WorkOrders      workOrderLister
	Assets          assetLister
	Cache           *CacheService
	Metrics         *MetricsService
	Logger          *zap.Logger
	Config          DashboardServiceConfig
}

// DashboardService computes facility dashboards for a window selection. Only
// the loaded facility data is cached; metrics are always computed at call
// time.
type DashboardService struct {
	sources facilitySources
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	parser  *timewindow.Parser
	now     func() time.Time
	cfg     DashboardServiceConfig
}

type facilitySources struct {
	requests serviceRequestLister
	orders   workOrderLister
	assets   assetLister
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		sources: facilitySources{requests: params.ServiceRequests, orders: params.WorkOrders, assets: params.Assets},
		cache:   params.Cache,
		metrics: params.Metrics,
		logger:  logger,
		parser:  timewindow.NewParser(cfg.Location, cfg.DefaultWindow),
		now:     time.Now,
		cfg:     cfg,
	}
}

// Summary returns the dashboard for query as seen by role, and whether the
// facility data was served from cache. Unusable window input degrades to the
// default or to the unfiltered view; it is never rejected.
func (s *DashboardService) Summary(ctx context.Context, query dto.DashboardQuery, role models.UserRole) (*dto.DashboardResponse, bool, error) {
	data, hit, err := s.dataset(ctx)
	if err != nil {
		return nil, false, err
	}

	now := s.now().In(s.cfg.Location)
	sel := s.parser.Parse(query.Window, query.Start, query.End, now)
	resp := s.compute(data, sel, now)
	resp.Actions = ActionsForRole(role)
	return resp, hit, nil
}

// Warm reloads the facility data and primes the cache with it.
func (s *DashboardService) Warm(ctx context.Context) error {
	if !s.cache.Enabled() {
		return nil
	}
	data, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.persistCache(ctx, data)
	return nil
}

// Invalidate drops the cached facility data.
func (s *DashboardService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, dashboardCachePrefix+"*")
}

func (s *DashboardService) dataset(ctx context.Context) (models.FacilityDataset, bool, error) {
	if cached, hit := s.tryCache(ctx); hit {
		return cached, true, nil
	}
	data, err := s.load(ctx)
	if err != nil {
		return data, false, err
	}
	s.persistCache(ctx, data)
	return data, false, nil
}

func (s *DashboardService) compute(data models.FacilityDataset, sel timewindow.Selection, now time.Time) *dto.DashboardResponse {
	start := time.Now()
	snap := ComputeSnapshot(data, sel, now)
	s.metrics.ObserveSnapshot(string(sel.Kind()), time.Since(start))

	return &dto.DashboardResponse{
		Window:      sel.Kind(),
		Range:       timewindow.Bounds(sel, now),
		Metrics:     snap,
		GeneratedAt: now.UTC(),
	}
}

func (s *DashboardService) load(ctx context.Context) (models.FacilityDataset, error) {
	var data models.FacilityDataset
	if s.sources.requests == nil || s.sources.orders == nil || s.sources.assets == nil {
		return data, appErrors.Clone(appErrors.ErrInternal, "facility data source unavailable")
	}

	var err error
	if data.ServiceRequests, err = timed(ctx, s.metrics, "list_service_requests", s.sources.requests.List); err != nil {
		return data, s.loadError("service requests", err)
	}
	if data.WorkOrders, err = timed(ctx, s.metrics, "list_work_orders", s.sources.orders.List); err != nil {
		return data, s.loadError("work orders", err)
	}
	if data.Assets, err = timed(ctx, s.metrics, "list_assets", s.sources.assets.List); err != nil {
		return data, s.loadError("assets", err)
	}
	return data.InLocation(s.cfg.Location), nil
}

func (s *DashboardService) loadError(what string, err error) error {
	s.logger.Error("dashboard data load failed", zap.String("collection", what), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to load %s", what))
}

func timed[T any](ctx context.Context, metrics *MetricsService, label string, fn func(context.Context) ([]T, error)) ([]T, error) {
	start := time.Now()
	items, err := fn(ctx)
	metrics.ObserveDBQuery(label, time.Since(start))
	return items, err
}

func (s *DashboardService) tryCache(ctx context.Context) (models.FacilityDataset, bool) {
	var cached models.FacilityDataset
	if !s.cache.Enabled() {
		return cached, false
	}
	hit, err := s.cache.Get(ctx, dashboardDatasetKey, &cached)
	if err != nil || !hit {
		return models.FacilityDataset{}, false
	}
	return cached, true
}

func (s *DashboardService) persistCache(ctx context.Context, data models.FacilityDataset) {
	if !s.cache.Enabled() {
		return
	}
	_ = s.cache.Set(ctx, dashboardDatasetKey, data, s.cfg.CacheTTL)
}
