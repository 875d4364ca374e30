package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/fms-dashboard-api/internal/models"
)

const serviceRequestColumns = "id, title, description, category, priority, location, status, reported_by, created_at, updated_at"

// ServiceRequestRepository persists complaint tickets.
type ServiceRequestRepository struct {
	db *sqlx.DB
}

// NewServiceRequestRepository constructs the repository.
func NewServiceRequestRepository(db *sqlx.DB) *ServiceRequestRepository {
	return &ServiceRequestRepository{db: db}
}

// List returns every service request. Rows with unreadable timestamps are
// still returned; callers decide how to treat them.
func (r *ServiceRequestRepository) List(ctx context.Context) ([]models.ServiceRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM service_requests ORDER BY created_at DESC", serviceRequestColumns)
	items := make([]models.ServiceRequest, 0)
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list service requests: %w", err)
	}
	return items, nil
}

// ListPage returns one page of service requests with the total count.
func (r *ServiceRequestRepository) ListPage(ctx context.Context, filter models.RecordFilter) ([]models.ServiceRequest, int, error) {
	return pageQuery[models.ServiceRequest](ctx, r.db, serviceRequestColumns, "service_requests", filter)
}

// Create inserts a new service request.
func (r *ServiceRequestRepository) Create(ctx context.Context, req *models.ServiceRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if !req.CreatedAt.Valid {
		req.CreatedAt = models.NewTimestamp(now)
	}
	req.UpdatedAt = models.NewTimestamp(now)
	if req.Status == "" {
		req.Status = models.ServiceRequestOpen
	}

	const query = `INSERT INTO service_requests (id, title, description, category, priority, location, status, reported_by, created_at, updated_at) VALUES (:id, :title, :description, :category, :priority, :location, :status, :reported_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create service request: %w", err)
	}
	return nil
}

// UpdateStatus changes the lifecycle status. sql.ErrNoRows signals an unknown id.
func (r *ServiceRequestRepository) UpdateStatus(ctx context.Context, id string, status models.ServiceRequestStatus, at time.Time) error {
	const query = `UPDATE service_requests SET status = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, at)
	if err != nil {
		return fmt.Errorf("update service request status: %w", err)
	}
	return requireAffected(res)
}
