package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/fms-dashboard-api/pkg/jobs"
)

type dashboardRefresher interface {
	Invalidate(ctx context.Context) error
	Warm(ctx context.Context) error
}

// DashboardRefreshWorker drops stale dashboards and recomputes the relative
// windows after facility records change.
type DashboardRefreshWorker struct {
	dashboard dashboardRefresher
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewDashboardRefreshWorker constructs the worker.
func NewDashboardRefreshWorker(dashboard dashboardRefresher, metrics *MetricsService, logger *zap.Logger) *DashboardRefreshWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardRefreshWorker{dashboard: dashboard, metrics: metrics, logger: logger}
}

// Handle satisfies jobs.Handler.
func (w *DashboardRefreshWorker) Handle(ctx context.Context, job jobs.Job) (err error) {
	defer func() { w.metrics.RecordJob(job.Type, err) }()

	if job.Type != JobDashboardRefresh {
		return fmt.Errorf("unsupported job type %q", job.Type)
	}
	if err = w.dashboard.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate dashboards: %w", err)
	}
	if err = w.dashboard.Warm(ctx); err != nil {
		return fmt.Errorf("warm dashboards: %w", err)
	}
	w.logger.Debug("dashboards refreshed", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
	return nil
}
