package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fms-dashboard-api/internal/models"
)

func TestServiceRequestListKeepsUnparseableTimestamps(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewServiceRequestRepository(db)

	created := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "title", "description", "category", "priority", "location", "status", "reported_by", "created_at", "updated_at"}).
		AddRow("sr-1", "Leaking tap", nil, "plumbing", "high", "L2", "open", nil, created, created).
		AddRow("sr-2", "Broken light", "bulb", "electrical", "low", "L3", "In Progress", "u1", "not-a-date", nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description, category, priority, location, status, reported_by, created_at, updated_at FROM service_requests ORDER BY created_at DESC")).
		WillReturnRows(rows)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].CreatedAt.Valid)
	assert.Nil(t, items[0].Description)
	assert.False(t, items[1].CreatedAt.Valid)
	assert.Equal(t, models.ServiceRequestInProgress, items[1].NormalizedStatus())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRequestListPageFiltersStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewServiceRequestRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM service_requests WHERE status = $1 ORDER BY created_at DESC LIMIT 10 OFFSET 10")).
		WithArgs("in-progress").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM service_requests WHERE status = $1")).
		WithArgs("in-progress").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	items, total, err := repo.ListPage(context.Background(), models.RecordFilter{Status: "In Progress", Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRequestCreateDefaults(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewServiceRequestRepository(db)

	mock.ExpectExec("INSERT INTO service_requests").WillReturnResult(sqlmock.NewResult(1, 1))

	req := &models.ServiceRequest{Title: "Aircon noisy", Category: "hvac", Priority: "medium", Location: "L1"}
	require.NoError(t, repo.Create(context.Background(), req))
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, models.ServiceRequestOpen, req.Status)
	assert.True(t, req.CreatedAt.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRequestUpdateStatusUnknownID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewServiceRequestRepository(db)

	mock.ExpectExec("UPDATE service_requests SET status").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "nope", models.ServiceRequestResolved, time.Now())
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkOrderUpdateStatusStampsCompletion(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewWorkOrderRepository(db)

	at := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE work_orders SET status = $2, completed_at = $3 WHERE id = $1")).
		WithArgs("wo-1", models.WorkOrderCompleted, at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE work_orders SET status = $2, completed_at = $3 WHERE id = $1")).
		WithArgs("wo-1", models.WorkOrderInProgress, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "wo-1", models.WorkOrderCompleted, at))
	require.NoError(t, repo.UpdateStatus(context.Background(), "wo-1", models.WorkOrderInProgress, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkOrderList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewWorkOrderRepository(db)

	due := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "title", "type", "status", "priority", "asset_id", "assigned_to", "due_date", "created_at", "completed_at"}).
		AddRow("wo-1", "Chiller PPM", "preventive", "pending", "medium", "a-1", nil, due, due, nil)
	mock.ExpectQuery("FROM work_orders ORDER BY created_at DESC").WillReturnRows(rows)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsPreventive())
	assert.False(t, items[0].CompletedAt.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssetCreateAndList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAssetRepository(db)

	mock.ExpectExec("INSERT INTO assets").WillReturnResult(sqlmock.NewResult(1, 1))
	asset := &models.Asset{Name: "Chiller 1", Category: "hvac", Location: "Roof"}
	require.NoError(t, repo.Create(context.Background(), asset))
	assert.Equal(t, models.AssetActive, asset.Status)

	rows := sqlmock.NewRows([]string{"id", "name", "category", "location", "status", "created_at"}).
		AddRow(asset.ID, "Chiller 1", "hvac", "Roof", "active", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, category, location, status, created_at FROM assets ORDER BY name ASC")).WillReturnRows(rows)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsActive())
	assert.NoError(t, mock.ExpectationsWereMet())
}
