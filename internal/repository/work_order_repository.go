package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/fms-dashboard-api/internal/models"
)

const workOrderColumns = "id, title, type, status, priority, asset_id, assigned_to, due_date, created_at, completed_at"

// WorkOrderRepository persists maintenance work orders.
type WorkOrderRepository struct {
	db *sqlx.DB
}

// NewWorkOrderRepository constructs the repository.
func NewWorkOrderRepository(db *sqlx.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

// List returns every work order.
func (r *WorkOrderRepository) List(ctx context.Context) ([]models.WorkOrder, error) {
	query := fmt.Sprintf("SELECT %s FROM work_orders ORDER BY created_at DESC", workOrderColumns)
	items := make([]models.WorkOrder, 0)
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	return items, nil
}

// ListPage returns one page of work orders with the total count.
func (r *WorkOrderRepository) ListPage(ctx context.Context, filter models.RecordFilter) ([]models.WorkOrder, int, error) {
	return pageQuery[models.WorkOrder](ctx, r.db, workOrderColumns, "work_orders", filter)
}

// Create inserts a new work order.
func (r *WorkOrderRepository) Create(ctx context.Context, order *models.WorkOrder) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if !order.CreatedAt.Valid {
		order.CreatedAt = models.NewTimestamp(time.Now().UTC())
	}
	if order.Status == "" {
		order.Status = models.WorkOrderPending
	}

	const query = `INSERT INTO work_orders (id, title, type, status, priority, asset_id, assigned_to, due_date, created_at, completed_at) VALUES (:id, :title, :type, :status, :priority, :asset_id, :assigned_to, :due_date, :created_at, :completed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, order); err != nil {
		return fmt.Errorf("create work order: %w", err)
	}
	return nil
}

// UpdateStatus changes work order progress. completed_at is stamped with at
// when moving to completed and cleared otherwise.
func (r *WorkOrderRepository) UpdateStatus(ctx context.Context, id string, status models.WorkOrderStatus, at time.Time) error {
	completedAt := models.Timestamp{}
	if status == models.WorkOrderCompleted {
		completedAt = models.NewTimestamp(at)
	}

	const query = `UPDATE work_orders SET status = $2, completed_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, completedAt)
	if err != nil {
		return fmt.Errorf("update work order status: %w", err)
	}
	return requireAffected(res)
}
